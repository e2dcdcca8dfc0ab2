package merge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/voyagen/livecatalog/internal/models"
)

// fakeEventLookup serves Between from an in-memory slice, filtering on
// start timestamp like the sorted index would.
type fakeEventLookup struct {
	events []models.Event
	err    error
	calls  [][2]int64
}

func (f *fakeEventLookup) Between(_ context.Context, from, to int64) ([]models.Event, error) {
	f.calls = append(f.calls, [2]int64{from, to})
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Event
	for _, ev := range f.events {
		if ev.StartTimestamp >= from && ev.StartTimestamp <= to {
			out = append(out, ev)
		}
	}
	return out, nil
}

const boxingTitle = "Boxing: Fury vs Smith Jan 5, 2025 10:00 PM ET"

// boxingStart is Jan 5 2025 22:00 in the fixed ET offset.
var boxingStart = time.Date(2025, 1, 5, 22, 0, 0, 0, time.FixedZone("ET", -5*3600)).Unix()

func eventRecord(name, url string) models.Record {
	return models.Record{Name: name, URL: url}
}

func TestProcessEvent_CreatesNewEvent(t *testing.T) {
	lookup := &fakeEventLookup{}
	e := NewEngine(NewWorkingSet(nil, nil), lookup)
	e.Process(context.Background(), eventRecord(boxingTitle, "http://stream.example/boxing"))

	b := e.Batch()
	if b.Summary.EventsCreated != 1 || len(b.Events) != 1 {
		t.Fatalf("EventsCreated = %d, events = %d, want 1/1", b.Summary.EventsCreated, len(b.Events))
	}
	ev := b.Events[0]
	if ev.StartTimestamp != boxingStart {
		t.Errorf("start = %d, want %d", ev.StartTimestamp, boxingStart)
	}
	if ev.ID != models.EventID(boxingTitle, boxingStart) {
		t.Errorf("id = %q", ev.ID)
	}
	if len(ev.Streams) != 1 || ev.Streams[0].URL != "http://stream.example/boxing" {
		t.Errorf("streams = %+v", ev.Streams)
	}
	if len(lookup.calls) != 1 {
		t.Fatalf("expected one window lookup, got %d", len(lookup.calls))
	}
	if got := lookup.calls[0]; got[0] != boxingStart-3600 || got[1] != boxingStart+3600 {
		t.Errorf("window = %v, want [start-3600, start+3600]", got)
	}
}

func TestProcessEvent_MergesWithinWindow(t *testing.T) {
	cachedID := models.EventID(boxingTitle, boxingStart)
	lookup := &fakeEventLookup{events: []models.Event{{
		ID:             cachedID,
		Title:          boxingTitle,
		StartTimestamp: boxingStart,
		Streams: []models.Stream{
			{MetaID: cachedID, URL: "http://stream.example/boxing-1", Source: models.SourceCombined},
		},
	}}}
	e := NewEngine(NewWorkingSet(nil, nil), lookup)

	// A later run reports the same bout with slightly different
	// punctuation, a start 5 minutes off, and a new stream URL.
	later := "Boxing - Fury vs Smith Jan 5, 2025 10:05 PM ET"
	e.Process(context.Background(), eventRecord(later, "http://stream.example/boxing-2"))

	b := e.Batch()
	if b.Summary.EventsMerged != 1 || b.Summary.EventsCreated != 0 {
		t.Fatalf("merged=%d created=%d, want 1/0", b.Summary.EventsMerged, b.Summary.EventsCreated)
	}
	if len(b.Events) != 1 {
		t.Fatalf("staged %d events, want the rewritten original", len(b.Events))
	}
	ev := b.Events[0]
	if ev.ID != cachedID {
		t.Errorf("merged into %q, want original event", ev.ID)
	}
	if ev.StartTimestamp != boxingStart {
		t.Errorf("start = %d, want the original start preserved", ev.StartTimestamp)
	}
	if len(ev.Streams) != 2 {
		t.Errorf("streams = %d, want 2", len(ev.Streams))
	}
}

func TestProcessEvent_WindowBoundary(t *testing.T) {
	// A candidate 3000s away is inside the ±3600s window and merges;
	// the same candidate at 4000s does not, even with an identical title.
	for _, tc := range []struct {
		name   string
		offset int64
		merged bool
	}{
		{"inside window", 3000, true},
		{"outside window", 4000, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			lookup := &fakeEventLookup{events: []models.Event{{
				ID:             "eventcached",
				Title:          boxingTitle,
				StartTimestamp: boxingStart + tc.offset,
				Streams:        []models.Stream{{URL: "http://stream.example/boxing-1"}},
			}}}
			e := NewEngine(NewWorkingSet(nil, nil), lookup)
			e.Process(context.Background(), eventRecord(boxingTitle, "http://stream.example/boxing-2"))

			b := e.Batch()
			if tc.merged && (b.Summary.EventsMerged != 1 || b.Summary.EventsCreated != 0) {
				t.Errorf("merged=%d created=%d, want merge", b.Summary.EventsMerged, b.Summary.EventsCreated)
			}
			if !tc.merged && (b.Summary.EventsCreated != 1 || b.Summary.EventsMerged != 0) {
				t.Errorf("merged=%d created=%d, want new event", b.Summary.EventsMerged, b.Summary.EventsCreated)
			}
		})
	}
}

func TestProcessEvent_OutsideWindowCreatesNew(t *testing.T) {
	// Identical title but 4000s away: outside the closed ±3600s window.
	lookup := &fakeEventLookup{events: []models.Event{{
		ID:             "eventabc",
		Title:          boxingTitle,
		StartTimestamp: boxingStart + 4000,
		Streams:        []models.Stream{{URL: "http://stream.example/boxing-1"}},
	}}}
	e := NewEngine(NewWorkingSet(nil, nil), lookup)
	e.Process(context.Background(), eventRecord(boxingTitle, "http://stream.example/boxing-2"))

	b := e.Batch()
	if b.Summary.EventsCreated != 1 || b.Summary.EventsMerged != 0 {
		t.Errorf("created=%d merged=%d, want 1/0", b.Summary.EventsCreated, b.Summary.EventsMerged)
	}
}

func TestProcessEvent_SameURLNoOp(t *testing.T) {
	cachedID := models.EventID(boxingTitle, boxingStart)
	lookup := &fakeEventLookup{events: []models.Event{{
		ID:             cachedID,
		Title:          boxingTitle,
		StartTimestamp: boxingStart,
		Streams:        []models.Stream{{MetaID: cachedID, URL: "http://stream.example/boxing"}},
	}}}
	e := NewEngine(NewWorkingSet(nil, nil), lookup)
	e.Process(context.Background(), eventRecord(boxingTitle, "http://stream.example/boxing"))

	b := e.Batch()
	if len(b.Events) != 0 {
		t.Errorf("already-merged stream must stage nothing, got %d events", len(b.Events))
	}
	if b.Summary.DuplicatesSkipped != 1 {
		t.Errorf("DuplicatesSkipped = %d, want 1", b.Summary.DuplicatesSkipped)
	}
}

func TestProcessEvent_InBatchMerge(t *testing.T) {
	lookup := &fakeEventLookup{}
	e := NewEngine(NewWorkingSet(nil, nil), lookup)
	e.Process(context.Background(), eventRecord(boxingTitle, "http://stream.example/boxing-1"))
	e.Process(context.Background(), eventRecord(boxingTitle, "http://stream.example/boxing-2"))

	b := e.Batch()
	if b.Summary.EventsCreated != 1 || b.Summary.EventsMerged != 1 {
		t.Fatalf("created=%d merged=%d, want 1/1", b.Summary.EventsCreated, b.Summary.EventsMerged)
	}
	if len(b.Events) != 1 || len(b.Events[0].Streams) != 2 {
		t.Fatalf("one event with both streams expected, got %+v", b.Events)
	}
}

func TestProcessEvent_UnparseableDateDropped(t *testing.T) {
	lookup := &fakeEventLookup{}
	e := NewEngine(NewWorkingSet(nil, nil), lookup)
	// Classifies as an event (date- and time-shaped tokens) but the
	// date itself is garbage.
	e.Process(context.Background(), eventRecord("Mystery Bout 99/99/2099 10:00 PM ET", "http://stream.example/x"))

	b := e.Batch()
	if len(b.Events) != 0 || b.Summary.RecordsDropped != 1 {
		t.Errorf("events=%d dropped=%d, want 0/1", len(b.Events), b.Summary.RecordsDropped)
	}
}

func TestProcessEvent_LookupErrorDropsRecordOnly(t *testing.T) {
	lookup := &fakeEventLookup{err: errors.New("cache down")}
	e := NewEngine(NewWorkingSet(nil, nil), lookup)
	e.Process(context.Background(), eventRecord(boxingTitle, "http://stream.example/boxing"))
	// The run keeps going: a channel record after the failure still lands.
	e.Process(context.Background(), channelRecord("ESPN HD", "http://stream.example/espn"))

	b := e.Batch()
	if b.Summary.RecordsDropped != 1 {
		t.Errorf("RecordsDropped = %d, want 1", b.Summary.RecordsDropped)
	}
	if b.Summary.ChannelsAdded != 1 {
		t.Errorf("subsequent records must still be processed, ChannelsAdded = %d", b.Summary.ChannelsAdded)
	}
}
