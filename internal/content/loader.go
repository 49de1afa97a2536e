package content

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader reads posts from a content directory.
type Loader struct {
	root string
	meta *metaExtractor
}

// NewLoader creates a Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{
		root: dir,
		meta: newMetaExtractor(),
	}
}

// Root returns the content directory.
func (l *Loader) Root() string {
	return l.root
}

// Scan walks the content directory and returns every markdown file in
// lexical path order. Hidden files and directories are skipped.
func (l *Loader) Scan(ctx context.Context) ([]SourceFile, error) {
	var files []SourceFile

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}

		// Check for context cancellation
		if err := ctx.Err(); err != nil {
			return err
		}

		if path != l.root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		relPath, err := filepath.Rel(l.root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}

		files = append(files, SourceFile{
			RelPath: filepath.ToSlash(relPath),
			AbsPath: path,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", l.root, err)
	}

	return files, nil
}

// Read returns the raw bytes of a scanned file.
func (l *Loader) Read(file SourceFile) ([]byte, error) {
	data, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file.RelPath, err)
	}
	return data, nil
}

// Parse builds a Post from the contents of a source file. Missing fields are
// derived from the body and the file name; a missing date falls back to the
// file's modification time.
func (l *Loader) Parse(file SourceFile, data []byte) (*Post, error) {
	header, body := splitFrontMatter(data)

	fm, err := decodeFrontMatter(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file.RelPath, err)
	}
	if fm.ID <= 0 {
		return nil, fmt.Errorf("%s: %w", file.RelPath, ErrMissingID)
	}
	date, err := fm.date()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", file.RelPath, ErrInvalidFrontMatter, err)
	}
	if date == "" && !file.ModTime.IsZero() {
		date = file.ModTime.Format(dateLayout)
	}

	post := &Post{
		ID:       fm.ID,
		Slug:     strings.TrimSpace(fm.Slug),
		Title:    strings.TrimSpace(fm.Title),
		Excerpt:  strings.TrimSpace(fm.Excerpt),
		Body:     string(body),
		Date:     date,
		Category: strings.TrimSpace(fm.Category),
		Author:   strings.TrimSpace(fm.Author),
		ReadTime: strings.TrimSpace(fm.ReadTime),
		Tags:     cleanTags(fm.Tags),
	}

	if post.Title == "" || post.Excerpt == "" {
		title, excerpt := l.meta.extract(body)
		if post.Title == "" {
			post.Title = title
		}
		if post.Excerpt == "" {
			post.Excerpt = truncateRunes(excerpt, excerptLength)
		}
	}
	if post.Title == "" {
		post.Title = titleFromPath(file.RelPath)
	}
	if post.Slug == "" {
		post.Slug = slugFromPath(file.RelPath)
	}
	if post.ReadTime == "" {
		post.ReadTime = readTime(post.Body)
	}

	return post, nil
}

// Load reads and parses a scanned file.
func (l *Loader) Load(file SourceFile) (*Post, error) {
	data, err := l.Read(file)
	if err != nil {
		return nil, err
	}
	return l.Parse(file, data)
}

// cleanTags trims tags and drops empties and duplicates, keeping order.
func cleanTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
