package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_blog_service.go -package=mocks -mock_names=BlogService=MockBlogService techblog/internal/service BlogService

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"techblog/internal/contextutil"
	"techblog/internal/markdown"
	"techblog/internal/search"
	"techblog/internal/storage"
)

const (
	// MaxQueryLength is the longest search query accepted, in runes.
	MaxQueryLength = 200
	// MaxSourceBytes is the largest markdown source accepted for preview rendering.
	MaxSourceBytes = 1 << 20
)

// ListRequest represents a post listing request in the domain layer.
type ListRequest struct {
	Query    string
	Category string
}

// ListResponse represents the filtered post list and the category tabs.
type ListResponse struct {
	Posts      []storage.Post
	Categories []string
	Total      int // Number of posts before filtering
}

// Article is a post together with its rendered document.
type Article struct {
	Post     storage.Post
	Document markdown.Document
	TOC      []markdown.TOCEntry
	Related  []storage.Post
}

// RenderRequest represents a preview rendering request.
type RenderRequest struct {
	Content string
}

// RenderResponse is the rendered preview.
type RenderResponse struct {
	Document markdown.Document
	TOC      []markdown.TOCEntry
}

// BlogService provides read access to published posts.
type BlogService interface {
	// ListPosts returns the posts matching the request, newest first.
	ListPosts(ctx context.Context, req ListRequest) (ListResponse, error)
	// GetArticle returns the post with the given ID rendered for display.
	GetArticle(ctx context.Context, id int64) (Article, error)
	// GetArticleBySlug returns the post with the given slug rendered for display.
	GetArticleBySlug(ctx context.Context, slug string) (Article, error)
	// RenderSource renders arbitrary markdown without storing it.
	RenderSource(ctx context.Context, req RenderRequest) (RenderResponse, error)
	// Health reports whether the post store is reachable.
	Health(ctx context.Context) error
}

// rendered is a cached document for one post revision.
type rendered struct {
	revision string
	document markdown.Document
	toc      []markdown.TOCEntry
}

// blogService implements BlogService.
type blogService struct {
	store storage.PostStore

	mu    sync.RWMutex
	cache map[int64]rendered
}

// NewBlogService creates a new BlogService.
func NewBlogService(store storage.PostStore) BlogService {
	return &blogService{
		store: store,
		cache: make(map[int64]rendered),
	}
}

// ListPosts filters the stored posts by query and category.
func (s *blogService) ListPosts(ctx context.Context, req ListRequest) (ListResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if utf8.RuneCountInString(req.Query) > MaxQueryLength {
		logger.WarnContext(ctx, "search query too long", "length", utf8.RuneCountInString(req.Query))
		return ListResponse{}, &ValidationError{
			Field:   "q",
			Message: fmt.Sprintf("must be at most %d characters", MaxQueryLength),
		}
	}

	posts, err := s.store.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list posts", "error", err)
		return ListResponse{}, fmt.Errorf("failed to list posts: %w: %w", ErrUnavailable, err)
	}

	categories, err := s.store.Categories(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list categories", "error", err)
		return ListResponse{}, fmt.Errorf("failed to list categories: %w: %w", ErrUnavailable, err)
	}

	filtered := search.Filter(posts, req.Query, req.Category)
	logger.DebugContext(ctx, "posts listed",
		"query", req.Query,
		"category", req.Category,
		"total", len(posts),
		"matched", len(filtered),
	)

	return ListResponse{
		Posts:      filtered,
		Categories: search.Categories(categories),
		Total:      len(posts),
	}, nil
}

// GetArticle loads, renders and decorates a single post.
func (s *blogService) GetArticle(ctx context.Context, id int64) (Article, error) {
	if id <= 0 {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid article id", "id", id)
		return Article{}, &ValidationError{
			Field:   "id",
			Message: "must be a positive integer",
		}
	}

	post, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Article{}, s.lookupError(ctx, err, fmt.Sprintf("post %d", id))
	}
	return s.article(ctx, post)
}

// GetArticleBySlug loads, renders and decorates a single post.
func (s *blogService) GetArticleBySlug(ctx context.Context, slug string) (Article, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Article{}, &ValidationError{
			Field:   "slug",
			Message: "cannot be empty",
		}
	}

	post, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return Article{}, s.lookupError(ctx, err, fmt.Sprintf("post %q", slug))
	}
	return s.article(ctx, post)
}

func (s *blogService) lookupError(ctx context.Context, err error, what string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load post", "post", what, "error", err)
	return fmt.Errorf("failed to load %s: %w: %w", what, ErrUnavailable, err)
}

func (s *blogService) article(ctx context.Context, post *storage.Post) (Article, error) {
	logger := contextutil.LoggerFromContext(ctx)

	doc, toc := s.render(post)

	posts, err := s.store.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list posts for related", "error", err)
		return Article{}, fmt.Errorf("failed to list posts: %w: %w", ErrUnavailable, err)
	}

	return Article{
		Post:     *post,
		Document: doc,
		TOC:      toc,
		Related:  search.Related(posts, *post, search.DefaultRelatedLimit),
	}, nil
}

// render returns the document for post, reusing the cached one while the
// revision is unchanged.
func (s *blogService) render(post *storage.Post) (markdown.Document, []markdown.TOCEntry) {
	s.mu.RLock()
	entry, ok := s.cache[post.ID]
	s.mu.RUnlock()
	if ok && entry.revision == post.Revision {
		return entry.document, entry.toc
	}

	entry = rendered{
		revision: post.Revision,
		document: markdown.Render(post.Content),
		toc:      markdown.ExtractTOC(post.Content),
	}

	s.mu.Lock()
	s.cache[post.ID] = entry
	s.mu.Unlock()

	return entry.document, entry.toc
}

// RenderSource renders markdown sent by a client for preview.
func (s *blogService) RenderSource(ctx context.Context, req RenderRequest) (RenderResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(req.Content) > MaxSourceBytes {
		logger.WarnContext(ctx, "render source too large", "bytes", len(req.Content))
		return RenderResponse{}, &ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("must be at most %d bytes", MaxSourceBytes),
		}
	}
	if !utf8.ValidString(req.Content) {
		return RenderResponse{}, &ValidationError{
			Field:   "content",
			Message: "must be valid UTF-8",
		}
	}

	doc := markdown.Render(req.Content)
	logger.DebugContext(ctx, "rendered preview", "bytes", len(req.Content), "blocks", len(doc.Blocks))

	return RenderResponse{
		Document: doc,
		TOC:      markdown.ExtractTOC(req.Content),
	}, nil
}

// Health pings the post store.
func (s *blogService) Health(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}
