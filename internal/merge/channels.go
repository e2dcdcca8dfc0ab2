package merge

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/voyagen/livecatalog/internal/models"
)

const uncategorized = "Uncategorized"

var (
	wsRe       = regexp.MustCompile(`\s+`)
	genreSepRe = regexp.MustCompile(`[,;|]`)
)

// processChannel merges a channel-classified record into the corpus or
// stages it as new.
func (e *Engine) processChannel(rec models.Record) {
	name := normalizeName(rec)
	if len([]rune(name)) < 2 {
		slog.Debug("dropping degenerate channel name", "name", rec.Name)
		e.sum.RecordsDropped++
		return
	}

	// In-batch dedup on the exact (name, url) pair: the same channel
	// commonly appears in several source playlists.
	key := pairKey{name: name, url: rec.URL}
	if _, ok := e.seen[key]; ok {
		e.sum.DuplicatesSkipped++
		return
	}
	e.seen[key] = struct{}{}

	// First sufficient fuzzy match wins: the stored corpus (id order)
	// first, then channels staged earlier in this run.
	matchedID := matchTitle(name, e.ws.Channels())
	if matchedID == "" {
		matchedID = matchTitle(name, e.stagedMeta)
	}

	if matchedID != "" {
		if e.ws.HasStream(matchedID, rec.URL) {
			e.sum.DuplicatesSkipped++
			return
		}
		e.stageStream(matchedID, name, rec.URL)
		e.sum.StreamsMerged++
		return
	}

	ch := models.Channel{
		ID:     models.ChannelID(name),
		Title:  name,
		Poster: validPoster(rec.Attributes.Logo),
		Genres: channelGenres(rec),
	}
	e.newChannels = append(e.newChannels, ch)
	e.stagedMeta = append(e.stagedMeta, models.ChannelMeta{ID: ch.ID, Title: ch.Title})
	e.stageStream(ch.ID, name, rec.URL)
	e.sum.ChannelsAdded++
}

func (e *Engine) stageStream(metaID, name, streamURL string) {
	e.newStreams = append(e.newStreams, models.Stream{
		MetaID:    metaID,
		Name:      name,
		URL:       streamURL,
		Source:    models.SourceCombined,
		IsWorking: true,
	})
	e.ws.addStream(metaID, streamURL)
}

// matchTitle returns the id of the first candidate whose title reaches
// the match threshold, or "".
func matchTitle(name string, candidates []models.ChannelMeta) string {
	for _, c := range candidates {
		if fuzzy.Ratio(name, c.Title) >= matchThreshold {
			return c.ID
		}
	}
	return ""
}

// normalizeName prefers the canonical tvg-name over the display name,
// collapses internal whitespace, and trims.
func normalizeName(rec models.Record) string {
	return strings.TrimSpace(wsRe.ReplaceAllString(rec.CanonicalName(), " "))
}

// channelGenres splits group-title on , ; or | and normalizes the
// pieces. A record without a usable group falls back to Uncategorized.
func channelGenres(rec models.Record) []string {
	var genres []string
	for _, g := range genreSepRe.Split(rec.Group(""), -1) {
		g = strings.TrimSpace(wsRe.ReplaceAllString(g, " "))
		if g != "" {
			genres = append(genres, g)
		}
	}
	if len(genres) == 0 {
		return []string{uncategorized}
	}
	return genres
}

// validPoster keeps a logo only when it is a well-formed absolute
// http(s) URL; anything else is dropped rather than persisted.
func validPoster(logo *string) *string {
	if logo == nil {
		return nil
	}
	u, err := url.Parse(*logo)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil
	}
	return logo
}
