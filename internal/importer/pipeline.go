// Package importer synchronises the SQLite post store with the markdown
// files in the content directory.
package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"techblog/internal/content"
	"techblog/internal/contextutil"
	"techblog/internal/storage"
)

// ErrImportRunning is returned when an import is requested while another one is in progress.
var ErrImportRunning = errors.New("import already running")

// Source lists and parses post source files.
// *content.Loader implements it.
type Source interface {
	Scan(ctx context.Context) ([]content.SourceFile, error)
	Read(file content.SourceFile) ([]byte, error)
	Parse(file content.SourceFile, data []byte) (*content.Post, error)
}

// Options controls a single import run.
type Options struct {
	// Force re-imports files whose content hash has not changed.
	Force bool
}

// Result summarises an import run.
type Result struct {
	Scanned  int           `json:"scanned"`
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Pruned   int64         `json:"pruned"`
	Duration time.Duration `json:"duration"`
}

// Status reports whether an import is running and how the last one ended.
type Status struct {
	Running    bool      `json:"running"`
	LastRun    *Result   `json:"last_run,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	LastError  string    `json:"last_error,omitempty"`
}

// Pipeline imports markdown sources into the post store.
type Pipeline struct {
	source  Source
	store   storage.PostStore
	running atomic.Bool
	last    atomic.Pointer[Status]
}

// NewPipeline creates a new import pipeline.
func NewPipeline(source Source, store storage.PostStore) *Pipeline {
	return &Pipeline{
		source: source,
		store:  store,
	}
}

// Running reports whether an import is in progress.
func (p *Pipeline) Running() bool {
	return p.running.Load()
}

// Status returns the current pipeline status.
func (p *Pipeline) Status() Status {
	status := Status{Running: p.running.Load()}
	if last := p.last.Load(); last != nil {
		status.LastRun = last.LastRun
		status.FinishedAt = last.FinishedAt
		status.LastError = last.LastError
	}
	return status
}

// ImportAll scans the content directory, upserts new and changed posts, and
// removes posts whose source file is gone. Failures for individual files do
// not stop the run; they are joined into the returned error.
func (p *Pipeline) ImportAll(ctx context.Context, opts Options) (Result, error) {
	if !p.running.CompareAndSwap(false, true) {
		return Result{}, ErrImportRunning
	}
	defer p.running.Store(false)

	result, err := p.run(ctx, opts)

	last := &Status{LastRun: &result, FinishedAt: time.Now()}
	if err != nil {
		last.LastError = err.Error()
	}
	p.last.Store(last)

	return result, err
}

func (p *Pipeline) run(ctx context.Context, opts Options) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	start := time.Now()

	files, err := p.source.Scan(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to scan content: %w", err)
	}

	result := Result{Scanned: len(files)}
	logger.InfoContext(ctx, "starting import", "total_files", len(files), "force", opts.Force)

	var errs []error
	seen := make(map[int64]string, len(files))
	keep := make([]string, 0, len(files))
	present := make(map[string]bool, len(files))
	for _, file := range files {
		present[file.RelPath] = true
	}

	for _, file := range files {
		// Check for context cancellation
		if err := ctx.Err(); err != nil {
			return result, err
		}
		keep = append(keep, file.RelPath)

		imported, err := p.importFile(ctx, file, opts, seen, present)
		switch {
		case err != nil:
			result.Failed++
			logger.ErrorContext(ctx, "failed to import file", "rel_path", file.RelPath, "error", err)
			errs = append(errs, err)
		case imported:
			result.Imported++
		default:
			result.Skipped++
		}
	}

	pruned, err := p.store.DeleteMissing(ctx, keep)
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to prune removed posts: %w", err))
	}
	result.Pruned = pruned
	result.Duration = time.Since(start)

	logger.InfoContext(ctx, "import completed",
		"total_files", result.Scanned,
		"imported", result.Imported,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"pruned", result.Pruned,
		"duration", result.Duration,
	)

	return result, errors.Join(errs...)
}

// importFile imports one source file. It reports false when the file was
// skipped because its hash is unchanged. An id stays with the file that
// already holds it while that file still exists.
func (p *Pipeline) importFile(ctx context.Context, file content.SourceFile, opts Options, seen map[int64]string, present map[string]bool) (bool, error) {
	logger := contextutil.LoggerFromContext(ctx)

	data, err := p.source.Read(file)
	if err != nil {
		return false, err
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if !opts.Force {
		existing, err := p.store.HashBySourcePath(ctx, file.RelPath)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return false, fmt.Errorf("%s: failed to check existing post: %w", file.RelPath, err)
		}
		if existing == hash {
			logger.DebugContext(ctx, "skipping unchanged file", "rel_path", file.RelPath, "hash", hash)
			return false, nil
		}
	}

	post, err := p.source.Parse(file, data)
	if err != nil {
		return false, err
	}
	if other, ok := seen[post.ID]; ok {
		return false, fmt.Errorf("%s: id %d already used by %s", file.RelPath, post.ID, other)
	}
	owner, err := p.store.SourcePathByID(ctx, post.ID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("%s: failed to check id %d: %w", file.RelPath, post.ID, err)
	}
	if err == nil && owner != file.RelPath && present[owner] {
		return false, fmt.Errorf("%s: id %d already used by %s", file.RelPath, post.ID, owner)
	}
	seen[post.ID] = file.RelPath

	record := &storage.Post{
		ID:         post.ID,
		Slug:       post.Slug,
		Title:      post.Title,
		Excerpt:    post.Excerpt,
		Content:    post.Body,
		Date:       post.Date,
		Category:   post.Category,
		Author:     post.Author,
		ReadTime:   post.ReadTime,
		Tags:       post.Tags,
		SourcePath: file.RelPath,
		Hash:       hash,
	}
	if err := p.store.Upsert(ctx, record); err != nil {
		return false, fmt.Errorf("%s: %w", file.RelPath, err)
	}

	logger.InfoContext(ctx, "imported post", "rel_path", file.RelPath, "id", post.ID, "title", post.Title)
	return true, nil
}
