package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_post_store.go -package=mocks techblog/internal/storage PostStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// PostStore defines the interface for post storage operations.
type PostStore interface {
	// Upsert inserts a new post or replaces an existing one with the same ID.
	// A fresh revision is assigned on every call.
	Upsert(ctx context.Context, post *Post) error
	// GetByID gets a post by its numeric ID.
	// Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, id int64) (*Post, error)
	// GetBySlug gets a post by its slug.
	// Returns nil and ErrNotFound if not found.
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	// List returns all posts ordered by date, newest first.
	List(ctx context.Context) ([]Post, error)
	// Categories returns the distinct non-empty categories in alphabetical order.
	Categories(ctx context.Context) ([]string, error)
	// HashBySourcePath returns the stored content hash for a source file.
	// Returns ErrNotFound if no post was imported from that path.
	HashBySourcePath(ctx context.Context, sourcePath string) (string, error)
	// SourcePathByID returns the source file a post was imported from.
	// Returns ErrNotFound if no post has that ID.
	SourcePathByID(ctx context.Context, id int64) (string, error)
	// DeleteMissing removes every post whose source path is not in keep.
	// Returns the number of deleted posts.
	DeleteMissing(ctx context.Context, keep []string) (int64, error)
	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error
}

// PostRepo provides methods for post operations.
// It implements the PostStore interface.
type PostRepo struct {
	db *sql.DB
}

// NewPostRepo creates a new PostRepo.
func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{db: db}
}

const postColumns = "id, slug, title, excerpt, content, date, category, author, read_time, source_path, hash, revision, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var post Post
	var updatedAtStr string
	err := row.Scan(&post.ID, &post.Slug, &post.Title, &post.Excerpt, &post.Content,
		&post.Date, &post.Category, &post.Author, &post.ReadTime,
		&post.SourcePath, &post.Hash, &post.Revision, &updatedAtStr)
	if err != nil {
		return nil, err
	}

	post.UpdatedAt, err = parseTimestamp(updatedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse updated_at timestamp: %w", err)
	}
	return &post, nil
}

// parseTimestamp accepts both DATETIME layouts SQLite may hand back.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Upsert inserts a new post or replaces an existing one with the same ID.
// Tags are rewritten in the same transaction.
func (r *PostRepo) Upsert(ctx context.Context, post *Post) error {
	if post.ID <= 0 {
		return fmt.Errorf("post id must be positive, got %d", post.ID)
	}

	post.Revision = uuid.New().String()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Drop the row this source file held under a previous id.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM posts WHERE source_path = ? AND id <> ?", post.SourcePath, post.ID,
	); err != nil {
		return fmt.Errorf("failed to clear previous post for %s: %w", post.SourcePath, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO posts (id, slug, title, excerpt, content, date, category, author, read_time, source_path, hash, revision, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (id) DO UPDATE SET
		 slug = excluded.slug, title = excluded.title, excerpt = excluded.excerpt,
		 content = excluded.content, date = excluded.date, category = excluded.category,
		 author = excluded.author, read_time = excluded.read_time,
		 source_path = excluded.source_path, hash = excluded.hash,
		 revision = excluded.revision, updated_at = CURRENT_TIMESTAMP`,
		post.ID, post.Slug, post.Title, post.Excerpt, post.Content, post.Date,
		post.Category, post.Author, post.ReadTime, post.SourcePath, post.Hash, post.Revision,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert post %d: %w", post.ID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM post_tags WHERE post_id = ?", post.ID); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	for i, tag := range post.Tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO post_tags (post_id, tag, position) VALUES (?, ?, ?)",
			post.ID, tag, i,
		); err != nil {
			return fmt.Errorf("failed to insert tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post %d: %w", post.ID, err)
	}
	return nil
}

// GetByID gets a post by its numeric ID.
// Returns nil and ErrNotFound if not found.
func (r *PostRepo) GetByID(ctx context.Context, id int64) (*Post, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	return r.getOne(ctx, row)
}

// GetBySlug gets a post by its slug.
// Returns nil and ErrNotFound if not found.
func (r *PostRepo) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+postColumns+" FROM posts WHERE slug = ?", slug)
	return r.getOne(ctx, row)
}

func (r *PostRepo) getOne(ctx context.Context, row *sql.Row) (*Post, error) {
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query post: %w", err)
	}

	tags, err := r.tagsByPost(ctx, "WHERE post_id = ?", post.ID)
	if err != nil {
		return nil, err
	}
	post.Tags = tags[post.ID]
	return post, nil
}

// List returns all posts ordered by date, newest first.
// Posts sharing a date are ordered by descending ID.
func (r *PostRepo) List(ctx context.Context) ([]Post, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+postColumns+" FROM posts ORDER BY date DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var posts []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}

	tags, err := r.tagsByPost(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Tags = tags[posts[i].ID]
	}
	return posts, nil
}

func (r *PostRepo) tagsByPost(ctx context.Context, where string, args ...any) (map[int64][]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT post_id, tag FROM post_tags "+where+" ORDER BY post_id, position", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	tags := make(map[int64][]string)
	for rows.Next() {
		var postID int64
		var tag string
		if err := rows.Scan(&postID, &tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags[postID] = append(tags[postID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return tags, nil
}

// Categories returns the distinct non-empty categories in alphabetical order.
func (r *PostRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT category FROM posts WHERE category != '' ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// HashBySourcePath returns the stored content hash for a source file.
// Returns ErrNotFound if no post was imported from that path.
func (r *PostRepo) HashBySourcePath(ctx context.Context, sourcePath string) (string, error) {
	var hash string
	err := r.db.QueryRowContext(ctx,
		"SELECT hash FROM posts WHERE source_path = ?", sourcePath,
	).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query hash: %w", err)
	}
	return hash, nil
}

// SourcePathByID returns the source file a post was imported from.
// Returns ErrNotFound if no post has that ID.
func (r *PostRepo) SourcePathByID(ctx context.Context, id int64) (string, error) {
	var sourcePath string
	err := r.db.QueryRowContext(ctx,
		"SELECT source_path FROM posts WHERE id = ?", id,
	).Scan(&sourcePath)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query source path: %w", err)
	}
	return sourcePath, nil
}

// DeleteMissing removes every post whose source path is not in keep.
// An empty keep list deletes all posts.
func (r *PostRepo) DeleteMissing(ctx context.Context, keep []string) (int64, error) {
	query := "DELETE FROM posts"
	args := make([]any, len(keep))
	if len(keep) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keep)), ",")
		query += " WHERE source_path NOT IN (" + placeholders + ")"
		for i, p := range keep {
			args[i] = p
		}
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete missing posts: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted posts: %w", err)
	}
	return n, nil
}

// Ping verifies the database is reachable.
func (r *PostRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
