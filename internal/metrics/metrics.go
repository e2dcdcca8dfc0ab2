// Package metrics exposes Prometheus counters for import runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/voyagen/livecatalog/internal/merge"
)

var (
	runsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livecatalog",
		Name:      "import_runs_total",
		Help:      "Completed import runs.",
	})
	runFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livecatalog",
		Name:      "import_run_failures_total",
		Help:      "Import runs that aborted with an error.",
	})
	channelsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livecatalog",
		Name:      "channels_added_total",
		Help:      "New channels staged and persisted.",
	})
	streamsMerged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livecatalog",
		Name:      "streams_merged_total",
		Help:      "Streams merged into already-known channels.",
	})
	duplicatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livecatalog",
		Name:      "duplicates_skipped_total",
		Help:      "Records discarded as duplicates.",
	})
	eventsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livecatalog",
		Name:      "events_created_total",
		Help:      "New live events written to the cache.",
	})
	eventsMerged = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livecatalog",
		Name:      "events_merged_total",
		Help:      "Streams merged into existing live events.",
	})
	recordsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "livecatalog",
		Name:      "records_dropped_total",
		Help:      "Records dropped as unparseable or degenerate.",
	})
)

// ObserveRun records the outcome of one completed import run.
func ObserveRun(s merge.Summary) {
	runsTotal.Inc()
	channelsAdded.Add(float64(s.ChannelsAdded))
	streamsMerged.Add(float64(s.StreamsMerged))
	duplicatesSkipped.Add(float64(s.DuplicatesSkipped))
	eventsCreated.Add(float64(s.EventsCreated))
	eventsMerged.Add(float64(s.EventsMerged))
	recordsDropped.Add(float64(s.RecordsDropped))
}

// ObserveFailure records an aborted run.
func ObserveFailure() {
	runFailures.Inc()
}
