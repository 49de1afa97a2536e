package handlers

import (
	"net/http"

	"techblog/internal/contextutil"
	"techblog/internal/service"
)

// PostsHandler handles HTTP requests for the post list.
type PostsHandler struct {
	blogService service.BlogService
}

// NewPostsHandler creates a new PostsHandler.
func NewPostsHandler(blogService service.BlogService) *PostsHandler {
	return &PostsHandler{
		blogService: blogService,
	}
}

// ServeHTTP lists posts filtered by the q and category query parameters.
//
// swagger:route GET /api/posts posts listPosts
//
// Returns posts newest first together with the category tabs.
func (h *PostsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query()
	resp, err := h.blogService.ListPosts(ctx, service.ListRequest{
		Query:    query.Get("q"),
		Category: query.Get("category"),
	})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to list posts")
		return
	}

	writeJSON(ctx, w, http.StatusOK, PostListResponse{
		Posts:      toSummaries(resp.Posts),
		Categories: resp.Categories,
		Total:      resp.Total,
	})
}
