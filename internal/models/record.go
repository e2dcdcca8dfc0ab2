package models

// Record is a single parsed playlist entry prior to classification.
// It carries no identity beyond its structural fields and is never
// persisted directly.
type Record struct {
	Name       string
	URL        string
	Attributes Attributes
}

// Attributes are the known EXTINF attributes of a record. Absent
// attributes are nil.
type Attributes struct {
	GroupTitle *string // group-title
	Logo       *string // tvg-logo
	TvgName    *string // tvg-name, preferred over the display name
}

// CanonicalName returns tvg-name when present, else the display name.
func (r Record) CanonicalName() string {
	if r.Attributes.TvgName != nil && *r.Attributes.TvgName != "" {
		return *r.Attributes.TvgName
	}
	return r.Name
}

// Group returns group-title or fallback when absent or blank.
func (r Record) Group(fallback string) string {
	if r.Attributes.GroupTitle != nil && *r.Attributes.GroupTitle != "" {
		return *r.Attributes.GroupTitle
	}
	return fallback
}
