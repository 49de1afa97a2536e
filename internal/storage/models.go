package storage

import "time"

// Post represents a published article in the database.
type Post struct {
	ID         int64     // Stable numeric id from front matter
	Slug       string    // URL slug, unique across posts
	Title      string
	Excerpt    string
	Content    string    // Raw markdown body
	Date       string    // Publication date, YYYY-MM-DD
	Category   string
	Author     string
	ReadTime   string    // Display string, e.g. "8分"
	Tags       []string  // Ordered as written in the source
	SourcePath string    // Path relative to the content directory
	Hash       string    // SHA256 hex string of the source file
	Revision   string    // UUID, regenerated on every content change
	UpdatedAt  time.Time
}

// HasTag reports whether the post carries the given tag.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
