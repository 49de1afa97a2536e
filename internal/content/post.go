// Package content loads blog posts from markdown source files.
//
// A source file is a markdown document with an optional YAML front matter
// block delimited by "---" lines. Fields the front matter leaves out are
// derived from the body.
package content

import (
	"errors"
	"time"
)

var (
	// ErrMissingID is returned when a source file has no positive id in its front matter.
	ErrMissingID = errors.New("front matter id is required")
	// ErrInvalidFrontMatter is returned when the front matter block cannot be decoded.
	ErrInvalidFrontMatter = errors.New("invalid front matter")
)

const (
	// excerptLength is the maximum number of runes in a derived excerpt.
	excerptLength = 120
	// runesPerMinute is the reading speed used to derive read time.
	runesPerMinute = 500
	// dateLayout is the layout of the date field.
	dateLayout = "2006-01-02"
)

// Post is a parsed source file.
type Post struct {
	ID       int64
	Slug     string
	Title    string
	Excerpt  string
	Body     string // Markdown without the front matter block
	Date     string // YYYY-MM-DD
	Category string
	Author   string
	ReadTime string
	Tags     []string
}

// SourceFile is a markdown file found while scanning the content directory.
type SourceFile struct {
	RelPath string    // Slash-separated path relative to the content root
	AbsPath string    // Absolute file path
	ModTime time.Time // Used when the front matter has no date
}
