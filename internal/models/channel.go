package models

// Channel is a persistent TV channel. Its ID is a pure function of the
// normalized title (see ChannelID), so repeated imports of the same
// channel name converge on one entity.
type Channel struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Poster *string  `json:"poster,omitempty"`
	Genres []string `json:"genres,omitempty"`
}

// ChannelMeta is the id+title projection used by the fuzzy merge pass.
type ChannelMeta struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
