package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"techblog/internal/contextutil"
	"techblog/internal/service"
)

// ArticleHandler handles HTTP requests for a single article.
type ArticleHandler struct {
	blogService service.BlogService
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(blogService service.BlogService) *ArticleHandler {
	return &ArticleHandler{
		blogService: blogService,
	}
}

// ServeHTTP returns the rendered article named by the {id} URL parameter.
// The response carries the post revision as ETag and honours If-None-Match.
//
// swagger:route GET /api/posts/{id} posts getArticle
//
// Returns the post, its document blocks, table of contents and related posts.
func (h *ArticleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		logger.WarnContext(ctx, "invalid article id", "id", chi.URLParam(r, "id"))
		writeError(w, http.StatusBadRequest, "Invalid article id")
		return
	}

	article, err := h.blogService.GetArticle(ctx, id)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to load article")
		return
	}

	if article.Post.Revision != "" {
		etag := strconv.Quote(article.Post.Revision)
		w.Header().Set("ETag", etag)
		if etagMatches(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	writeJSON(ctx, w, http.StatusOK, ArticleResponse{
		Post: PostDetail{
			PostSummary: toSummary(article.Post),
			Content:     article.Post.Content,
		},
		Document: article.Document,
		TOC:      emptyTOC(article.TOC),
		Related:  toSummaries(article.Related),
	})
}

// etagMatches reports whether an If-None-Match header value names etag.
func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
