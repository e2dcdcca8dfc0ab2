package store

import (
	"context"

	"github.com/voyagen/livecatalog/internal/models"
)

// Store defines the persistence operations the merge engine needs.
type Store interface {
	// ListChannelMeta returns the id+title projection of every stored
	// channel, ordered by id so fuzzy scans are deterministic.
	ListChannelMeta(ctx context.Context) ([]models.ChannelMeta, error)
	// StreamsWithURLs returns existing streams whose URL is in urls.
	// Used to snapshot only the URLs relevant to the current batch.
	StreamsWithURLs(ctx context.Context, urls []string) ([]models.Stream, error)
	// BulkInsertStreams inserts streams in one batch. Re-inserting an
	// existing (meta_id, url) pair is a no-op.
	BulkInsertStreams(ctx context.Context, streams []models.Stream) error
	// UpsertChannels creates or merges channel metadata in one batch,
	// keyed on the stable channel id.
	UpsertChannels(ctx context.Context, channels []models.Channel) error
}
