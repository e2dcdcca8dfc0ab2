package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyagen/livecatalog/internal/models"
)

// Postgres implements Store using PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres store from a DSN. Caller must call Close when done.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// ListChannelMeta returns id+title for every channel, ordered by id.
func (p *Postgres) ListChannelMeta(ctx context.Context) ([]models.ChannelMeta, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, title FROM channels ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListChannelMeta: %w", err)
	}
	defer rows.Close()

	var metas []models.ChannelMeta
	for rows.Next() {
		var m models.ChannelMeta
		if err := rows.Scan(&m.ID, &m.Title); err != nil {
			return nil, fmt.Errorf("ListChannelMeta scan: %w", err)
		}
		metas = append(metas, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListChannelMeta rows: %w", err)
	}
	return metas, nil
}

// StreamsWithURLs returns existing streams whose URL appears in urls.
func (p *Postgres) StreamsWithURLs(ctx context.Context, urls []string) ([]models.Stream, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	rows, err := p.pool.Query(ctx,
		`SELECT meta_id, name, url, source, is_working FROM streams WHERE url = ANY($1)`, urls)
	if err != nil {
		return nil, fmt.Errorf("StreamsWithURLs: %w", err)
	}
	defer rows.Close()

	var streams []models.Stream
	for rows.Next() {
		var s models.Stream
		if err := rows.Scan(&s.MetaID, &s.Name, &s.URL, &s.Source, &s.IsWorking); err != nil {
			return nil, fmt.Errorf("StreamsWithURLs scan: %w", err)
		}
		streams = append(streams, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("StreamsWithURLs rows: %w", err)
	}
	return streams, nil
}

// BulkInsertStreams inserts all streams in one batch round trip.
// Existing (meta_id, url) pairs are left untouched, which makes a
// retried run idempotent.
func (p *Postgres) BulkInsertStreams(ctx context.Context, streams []models.Stream) error {
	if len(streams) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, s := range streams {
		b.Queue(
			`INSERT INTO streams (meta_id, name, url, source, is_working)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (meta_id, url) DO NOTHING`,
			s.MetaID, s.Name, s.URL, s.Source, s.IsWorking,
		)
	}
	br := p.pool.SendBatch(ctx, b)
	defer br.Close()
	for range streams {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("BulkInsertStreams: %w", err)
		}
	}
	return nil
}

// UpsertChannels creates or merges channels in one batch round trip.
// On conflict the stable id wins: the poster is kept unless the new
// import supplies one, and genre sets are unioned.
func (p *Postgres) UpsertChannels(ctx context.Context, channels []models.Channel) error {
	if len(channels) == 0 {
		return nil
	}
	b := &pgx.Batch{}
	for _, ch := range channels {
		b.Queue(
			`INSERT INTO channels (id, title, poster, genres)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO UPDATE SET
			   poster = COALESCE(EXCLUDED.poster, channels.poster),
			   genres = ARRAY(SELECT DISTINCT g FROM unnest(channels.genres || EXCLUDED.genres) AS g)`,
			ch.ID, ch.Title, ch.Poster, ch.Genres,
		)
	}
	br := p.pool.SendBatch(ctx, b)
	defer br.Close()
	for range channels {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("UpsertChannels: %w", err)
		}
	}
	return nil
}
