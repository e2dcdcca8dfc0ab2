package models

// Event is a time-bounded live event. Unlike channels, events embed
// their streams: the whole entity lives in a time-expiring cache entry
// and is gone 24 hours after StartTimestamp.
type Event struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	StartTimestamp int64    `json:"event_start_timestamp"`
	Poster         *string  `json:"poster,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	Streams        []Stream `json:"streams"`
}

// HasStreamURL reports whether url is already among the event's streams.
func (e *Event) HasStreamURL(url string) bool {
	for _, s := range e.Streams {
		if s.URL == url {
			return true
		}
	}
	return false
}
