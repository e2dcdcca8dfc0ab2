package merge

import (
	"context"
	"log/slog"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/voyagen/livecatalog/internal/eventtime"
	"github.com/voyagen/livecatalog/internal/models"
)

const otherSports = "Other Sports"

// processEvent finds or creates the event entity for an event-classified
// record and attaches a stream. Any failure drops only this record.
func (e *Engine) processEvent(ctx context.Context, rec models.Record, rawName string) {
	start, err := eventtime.Extract(rawName)
	if err != nil {
		slog.Warn("skipping event with no extractable date", "title", rawName, "error", err)
		e.sum.RecordsDropped++
		return
	}
	startTS := start.Unix()

	// Events already staged this run carry the freshest stream lists,
	// so they are checked before the cache; this also keeps one batch
	// from creating near-identical duplicates.
	for _, staged := range e.newEvents {
		if abs64(staged.StartTimestamp-startTS) <= eventWindow &&
			fuzzy.Ratio(rawName, staged.Title) >= matchThreshold {
			e.mergeEventStream(staged, rec.URL)
			return
		}
	}

	// Then cached events inside the ±1h window, in index order; the
	// first sufficient match wins.
	candidates, err := e.events.Between(ctx, startTS-eventWindow, startTS+eventWindow)
	if err != nil {
		slog.Warn("skipping event, window lookup failed", "title", rawName, "error", err)
		e.sum.RecordsDropped++
		return
	}
	for i := range candidates {
		if fuzzy.Ratio(rawName, candidates[i].Title) >= matchThreshold {
			// Staging the matched copy rewrites it with the TTL
			// recomputed from its original start time, keeping the
			// first-seen start authoritative.
			e.mergeEventStream(&candidates[i], rec.URL)
			return
		}
	}

	ev := &models.Event{
		ID:             models.EventID(rawName, startTS),
		Title:          rawName,
		StartTimestamp: startTS,
		Poster:         validPoster(rec.Attributes.Logo),
		Genres:         []string{rec.Group(otherSports)},
	}
	ev.Streams = []models.Stream{{
		MetaID:    ev.ID,
		Name:      rawName,
		URL:       rec.URL,
		Source:    models.SourceCombined,
		IsWorking: true,
	}}
	e.newEvents = append(e.newEvents, ev)
	e.sum.EventsCreated++
}

// mergeEventStream appends the record's stream to ev unless the exact
// URL is already present (merged in a prior run or earlier in this one).
func (e *Engine) mergeEventStream(ev *models.Event, streamURL string) {
	if ev.HasStreamURL(streamURL) {
		e.sum.DuplicatesSkipped++
		return
	}
	ev.Streams = append(ev.Streams, models.Stream{
		MetaID:    ev.ID,
		Name:      ev.Title,
		URL:       streamURL,
		Source:    models.SourceCombined,
		IsWorking: true,
	})
	e.stageEvent(ev)
	e.sum.EventsMerged++
}

// stageEvent queues ev for the end-of-run cache rewrite, once.
func (e *Engine) stageEvent(ev *models.Event) {
	for _, staged := range e.newEvents {
		if staged == ev {
			return
		}
	}
	e.newEvents = append(e.newEvents, ev)
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
