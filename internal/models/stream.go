package models

// SourceCombined labels streams imported from the combined playlist.
const SourceCombined = "Combined Playlist"

// Stream is one playback endpoint belonging to exactly one channel or
// event (MetaID). URL is unique within the owner's stream set. Created
// once; only IsWorking is mutated afterwards, by external validators.
type Stream struct {
	MetaID    string `json:"meta_id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Source    string `json:"source"`
	IsWorking bool   `json:"is_working"`
}
