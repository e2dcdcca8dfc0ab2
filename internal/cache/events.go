package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voyagen/livecatalog/internal/models"
)

const (
	eventKeyPrefix    = "event:"
	eventsAllKey      = "events:all"
	eventsGenrePrefix = "events:genre:"

	// How long an event entry outlives its start time before the
	// cache evicts it.
	eventLinger = 24 * time.Hour
)

// EventStore keeps live events in Redis: one JSON entry per event plus
// a global sorted-by-start index and one per genre. Entries expire on
// their own; index members pointing at expired entries are treated as
// absent by readers.
type EventStore struct {
	r *Redis
}

// NewEventStore returns an EventStore backed by r.
func NewEventStore(r *Redis) *EventStore {
	return &EventStore{r: r}
}

// Between returns the cached events whose start timestamp lies in
// [from, to] (closed interval, seconds), in ascending start order.
// Index members whose entry has already expired are skipped.
func (s *EventStore) Between(ctx context.Context, from, to int64) ([]models.Event, error) {
	keys, err := s.r.client.ZRangeByScore(ctx, eventsAllKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(from, 10),
		Max: strconv.FormatInt(to, 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("events range [%d, %d]: %w", from, to, err)
	}

	events := make([]models.Event, 0, len(keys))
	for _, key := range keys {
		ev, err := Get[models.Event](ctx, s.r, key)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue // stale index reference, entry expired
			}
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// Write stores events through a single pipeline: SET with TTL plus
// ZADD on the global and per-genre indexes. TTL is computed from each
// event's own start timestamp; an event whose TTL would be non-positive
// (started more than 24h ago) is dropped, never written. Returns how
// many events were actually written.
func (s *EventStore) Write(ctx context.Context, events []models.Event, now time.Time) (int, error) {
	pipe := s.r.client.TxPipeline()
	written := 0
	for _, ev := range events {
		ttl := eventTTL(ev.StartTimestamp, now)
		if ttl <= 0 {
			continue
		}
		data, err := json.Marshal(ev)
		if err != nil {
			return written, fmt.Errorf("marshal event %s: %w", ev.ID, err)
		}
		key := eventKeyPrefix + ev.ID
		score := float64(ev.StartTimestamp)
		pipe.Set(ctx, key, data, ttl)
		pipe.ZAdd(ctx, eventsAllKey, redis.Z{Score: score, Member: key})
		for _, genre := range ev.Genres {
			pipe.ZAdd(ctx, eventsGenrePrefix+genre, redis.Z{Score: score, Member: key})
		}
		written++
	}
	if written == 0 {
		return 0, nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("events pipeline: %w", err)
	}
	return written, nil
}

// eventTTL is how long an event entry may still live: until 24 hours
// after its start. Non-positive means the event must not be written.
func eventTTL(startTimestamp int64, now time.Time) time.Duration {
	return time.Unix(startTimestamp, 0).Add(eventLinger).Sub(now)
}

// UpcomingByGenre returns events for one genre starting in [from, to],
// ascending by start time.
func (s *EventStore) UpcomingByGenre(ctx context.Context, genre string, from, to int64) ([]models.Event, error) {
	keys, err := s.r.client.ZRangeByScore(ctx, eventsGenrePrefix+genre, &redis.ZRangeBy{
		Min: strconv.FormatInt(from, 10),
		Max: strconv.FormatInt(to, 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("genre %q range: %w", genre, err)
	}
	events := make([]models.Event, 0, len(keys))
	for _, key := range keys {
		ev, err := Get[models.Event](ctx, s.r, key)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}
