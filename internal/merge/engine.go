// Package merge decides, for every incoming playlist record, whether it
// is a brand-new channel, a new stream for a known channel, a duplicate
// to discard, or (for event-classified records) a match for an existing
// event within a time window. Results accumulate in in-memory batches;
// nothing is written until the caller commits them.
package merge

import (
	"context"
	"log/slog"
	"strings"

	"github.com/voyagen/livecatalog/internal/classifier"
	"github.com/voyagen/livecatalog/internal/models"
)

const (
	// matchThreshold is the 0-100 similarity ratio at or above which
	// two titles are considered the same entity.
	matchThreshold = 90
	// eventWindow bounds candidate lookup for event merging, seconds
	// either side of the extracted start time (closed interval).
	eventWindow = 3600
)

// EventLookup is the read side of the event cache the engine needs:
// events whose start lies in [from, to], ascending by start.
type EventLookup interface {
	Between(ctx context.Context, from, to int64) ([]models.Event, error)
}

// Batch holds everything a run staged, ready for bulk commit.
type Batch struct {
	Channels []models.Channel
	Streams  []models.Stream
	// Events carries both brand-new events and cached events that
	// gained a stream; rewriting the latter recomputes the TTL from
	// their original start time.
	Events  []models.Event
	Summary Summary
}

// Engine merges one run's records against a working-set snapshot.
// Not safe for concurrent use; one engine per run.
type Engine struct {
	ws     *WorkingSet
	events EventLookup

	seen        map[pairKey]struct{}
	stagedMeta  []models.ChannelMeta
	newChannels []models.Channel
	newStreams  []models.Stream
	newEvents   []*models.Event

	sum Summary
}

type pairKey struct {
	name string
	url  string
}

// NewEngine creates an engine over a fresh working set. lookup serves
// the event time-window queries.
func NewEngine(ws *WorkingSet, lookup EventLookup) *Engine {
	return &Engine{
		ws:     ws,
		events: lookup,
		seen:   make(map[pairKey]struct{}),
	}
}

// Process classifies one record and dispatches it to the channel or
// event path. Record-level failures are logged and swallowed; no
// record may abort the run.
func (e *Engine) Process(ctx context.Context, rec models.Record) {
	if rec.URL == "" {
		slog.Warn("skipping record with no URL", "name", rec.Name)
		e.sum.RecordsDropped++
		return
	}
	rawName := strings.TrimSpace(rec.Name)
	if classifier.IsEvent(rawName) {
		e.processEvent(ctx, rec, rawName)
	} else {
		e.processChannel(rec)
	}
}

// Batch returns the staged results and run counters.
func (e *Engine) Batch() Batch {
	events := make([]models.Event, 0, len(e.newEvents))
	for _, ev := range e.newEvents {
		events = append(events, *ev)
	}
	return Batch{
		Channels: e.newChannels,
		Streams:  e.newStreams,
		Events:   events,
		Summary:  e.sum,
	}
}
