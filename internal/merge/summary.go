package merge

import "log/slog"

// Summary is the per-run tally of merge outcomes. It is accumulated by
// one engine and returned with the batch, never shared across runs.
type Summary struct {
	ChannelsAdded     int
	StreamsMerged     int
	DuplicatesSkipped int
	EventsCreated     int
	EventsMerged      int
	RecordsDropped    int
}

// LogValue lets a Summary be logged as one structured group.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("channels_added", s.ChannelsAdded),
		slog.Int("streams_merged", s.StreamsMerged),
		slog.Int("duplicates_skipped", s.DuplicatesSkipped),
		slog.Int("events_created", s.EventsCreated),
		slog.Int("events_merged", s.EventsMerged),
		slog.Int("records_dropped", s.RecordsDropped),
	)
}
