package fetcher

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/voyagen/livecatalog/internal/models"
)

var (
	reTvgName = regexp.MustCompile(`tvg-name="([^"]*)"`)
	reTvgLogo = regexp.MustCompile(`tvg-logo="([^"]*)"`)
	reGroup   = regexp.MustCompile(`group-title="([^"]*)"`)
)

// Decoder turns combined playlist text into ordered channel records.
type Decoder interface {
	Decode(text string) ([]models.Record, error)
}

// M3UDecoder is the default Decoder for EXTINF-style playlists.
// Malformed entries (EXTINF without URL, URL without EXTINF, entries
// without any name) are dropped.
type M3UDecoder struct{}

func (M3UDecoder) Decode(text string) ([]models.Record, error) {
	return parseM3U(strings.NewReader(text))
}

func parseM3U(r io.Reader) ([]models.Record, error) {
	var records []models.Record
	scanner := bufio.NewScanner(r)
	// Handle long lines (some M3U have very long EXTINF lines).
	const maxSize = 1024 * 1024
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxSize)

	var extinfLine string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(strings.ToUpper(line), "#EXTINF"):
			// A previous EXTINF without URL is discarded as malformed.
			extinfLine = line
		case strings.HasPrefix(trimmed, "#"), trimmed == "":
			// Header or unrelated directive.
		default:
			// URL line.
			if extinfLine == "" {
				continue
			}
			name := displayName(extinfLine)
			tvgName := matchFirstPtr(reTvgName, extinfLine)
			if name == "" && tvgName != nil {
				name = *tvgName
			}
			if name == "" {
				extinfLine = ""
				continue
			}
			records = append(records, models.Record{
				Name: name,
				URL:  trimmed,
				Attributes: models.Attributes{
					GroupTitle: matchFirstPtr(reGroup, extinfLine),
					Logo:       matchFirstPtr(reTvgLogo, extinfLine),
					TvgName:    tvgName,
				},
			})
			extinfLine = ""
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// displayName extracts the comma-alt name from an EXTINF line. When
// quoted attributes are present the name follows the closing quote of
// the last one, which keeps commas inside attribute values (and inside
// event titles like "Jan 5, 2025") from truncating it.
func displayName(extinf string) string {
	if i := strings.LastIndex(extinf, `",`); i >= 0 {
		return strings.TrimSpace(extinf[i+2:])
	}
	if i := strings.Index(extinf, ","); i >= 0 {
		return strings.TrimSpace(extinf[i+1:])
	}
	return ""
}

func matchFirst(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func matchFirstPtr(re *regexp.Regexp, s string) *string {
	v := matchFirst(re, s)
	if v == "" {
		return nil
	}
	return &v
}
