// Package service wires one import run together: fetch, decode,
// classify-and-merge, then commit the staged batches.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/voyagen/livecatalog/internal/fetcher"
	"github.com/voyagen/livecatalog/internal/merge"
	"github.com/voyagen/livecatalog/internal/models"
	"github.com/voyagen/livecatalog/internal/store"
)

// ErrNoRecords is returned when configured sources yielded a combined
// playlist that decoded to nothing; no partial writes happen in that
// case because nothing was staged yet.
var ErrNoRecords = errors.New("combined playlist decoded to no records")

// EventStore is the cache surface the importer needs: window lookups
// during merging and the single pipelined write at end of run.
type EventStore interface {
	merge.EventLookup
	Write(ctx context.Context, events []models.Event, now time.Time) (int, error)
}

// Importer runs the fetch-merge-persist cycle. One run is strictly
// sequential; the caller is responsible for mutual exclusion between
// runs (see cache.TryLock).
type Importer struct {
	Store     store.Store
	Events    EventStore
	Decoder   fetcher.Decoder
	Sources   []string
	UserAgent string
	Timeout   time.Duration
}

// Run executes one import. An empty source list is a no-op, not an
// error. Per-source and per-record failures are logged and skipped
// inside the pipeline; only total failures (nothing decodable, store
// or cache unavailable) abort the run.
func (im *Importer) Run(ctx context.Context) (merge.Summary, error) {
	if len(im.Sources) == 0 {
		slog.Info("no playlist sources configured, nothing to do")
		return merge.Summary{}, nil
	}

	combined := fetcher.FetchCombined(ctx, im.Sources, im.UserAgent, im.Timeout)
	records, err := im.Decoder.Decode(combined)
	if err != nil {
		return merge.Summary{}, fmt.Errorf("decode combined playlist: %w", err)
	}
	if len(records) == 0 {
		return merge.Summary{}, ErrNoRecords
	}
	slog.Info("decoded combined playlist", "sources", len(im.Sources), "records", len(records))

	ws, err := im.loadWorkingSet(ctx, records)
	if err != nil {
		return merge.Summary{}, err
	}

	eng := merge.NewEngine(ws, im.Events)
	for _, rec := range records {
		eng.Process(ctx, rec)
	}
	batch := eng.Batch()

	// Three bulk writes, in this order. They are not one transaction;
	// each is idempotent on retry (stable ids, upsert semantics, and
	// ON CONFLICT DO NOTHING for streams).
	if err := im.Store.BulkInsertStreams(ctx, batch.Streams); err != nil {
		return batch.Summary, fmt.Errorf("bulk insert streams: %w", err)
	}
	if err := im.Store.UpsertChannels(ctx, batch.Channels); err != nil {
		return batch.Summary, fmt.Errorf("upsert channels: %w", err)
	}
	written, err := im.Events.Write(ctx, batch.Events, time.Now())
	if err != nil {
		return batch.Summary, fmt.Errorf("write events: %w", err)
	}

	slog.Info("import run finished",
		"records", len(records),
		"events_written", written,
		"summary", batch.Summary,
	)
	return batch.Summary, nil
}

// loadWorkingSet snapshots the stored corpus once per run: every
// channel's id+title, and the stored stream URLs restricted to the
// URLs appearing in this batch.
func (im *Importer) loadWorkingSet(ctx context.Context, records []models.Record) (*merge.WorkingSet, error) {
	metas, err := im.Store.ListChannelMeta(ctx)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}

	seen := make(map[string]struct{}, len(records))
	urls := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.URL == "" {
			continue
		}
		if _, ok := seen[rec.URL]; ok {
			continue
		}
		seen[rec.URL] = struct{}{}
		urls = append(urls, rec.URL)
	}

	existing, err := im.Store.StreamsWithURLs(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("query existing streams: %w", err)
	}
	return merge.NewWorkingSet(metas, existing), nil
}
