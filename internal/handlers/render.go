package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"techblog/internal/contextutil"
	"techblog/internal/markdown"
	"techblog/internal/service"
)

// RenderHandler handles HTTP requests for previewing markdown.
type RenderHandler struct {
	blogService service.BlogService
	html        *markdown.HTMLRenderer
}

// NewRenderHandler creates a new RenderHandler.
func NewRenderHandler(blogService service.BlogService, html *markdown.HTMLRenderer) *RenderHandler {
	return &RenderHandler{
		blogService: blogService,
		html:        html,
	}
}

// ServeHTTP renders the posted markdown into document blocks and HTML.
//
// swagger:route POST /api/render render renderPreview
//
// Renders markdown without storing it.
func (h *RenderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// Leave headroom for JSON escaping on top of the source limit
	r.Body = http.MaxBytesReader(w, r.Body, 2*service.MaxSourceBytes)

	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.WarnContext(ctx, "render request too large", "limit", tooLarge.Limit)
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	svcResp, err := h.blogService.RenderSource(ctx, service.RenderRequest{Content: req.Content})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to render content")
		return
	}

	doc := svcResp.Document
	if doc.Blocks == nil {
		doc.Blocks = []markdown.Block{}
	}

	writeJSON(ctx, w, http.StatusOK, RenderResponse{
		Document: doc,
		TOC:      emptyTOC(svcResp.TOC),
		HTML:     h.html.Render(doc),
	})
}
