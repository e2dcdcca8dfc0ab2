package merge

import (
	"sort"

	"github.com/voyagen/livecatalog/internal/models"
)

// WorkingSet is the per-run snapshot of the existing corpus: every
// stored channel (id+title) and the stored stream URLs relevant to the
// current batch. It is loaded once at the start of a run and passed
// into the engine, which makes the single-active-run requirement an
// explicit precondition instead of implicit shared state.
type WorkingSet struct {
	channels []models.ChannelMeta
	streams  map[streamKey]struct{}
}

type streamKey struct {
	metaID string
	url    string
}

// NewWorkingSet builds a snapshot from stored channels and the stored
// streams whose URLs appear in the current batch. Channels are sorted
// by id so the first-hit fuzzy scan is deterministic.
func NewWorkingSet(channels []models.ChannelMeta, streams []models.Stream) *WorkingSet {
	ws := &WorkingSet{
		channels: make([]models.ChannelMeta, len(channels)),
		streams:  make(map[streamKey]struct{}, len(streams)),
	}
	copy(ws.channels, channels)
	sort.Slice(ws.channels, func(i, j int) bool { return ws.channels[i].ID < ws.channels[j].ID })
	for _, s := range streams {
		ws.streams[streamKey{metaID: s.MetaID, url: s.URL}] = struct{}{}
	}
	return ws
}

// Channels returns the snapshot in id order.
func (w *WorkingSet) Channels() []models.ChannelMeta {
	return w.channels
}

// HasStream reports whether the channel already has a stream with url.
func (w *WorkingSet) HasStream(metaID, url string) bool {
	_, ok := w.streams[streamKey{metaID: metaID, url: url}]
	return ok
}

// addStream records a staged stream so later records in the same run
// see it as existing.
func (w *WorkingSet) addStream(metaID, url string) {
	w.streams[streamKey{metaID: metaID, url: url}] = struct{}{}
}
