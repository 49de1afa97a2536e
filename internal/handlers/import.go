package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"techblog/internal/contextutil"
	"techblog/internal/importer"
)

// Importer runs content imports.
// *importer.Pipeline implements it.
type Importer interface {
	ImportAll(ctx context.Context, opts importer.Options) (importer.Result, error)
	Running() bool
	Status() importer.Status
}

// ImportHandler handles HTTP requests for triggering a content import.
type ImportHandler struct {
	importer Importer
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(imp Importer) *ImportHandler {
	return &ImportHandler{
		importer: imp,
	}
}

// ImportResponse represents the response from the import endpoint.
type ImportResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP starts an import in the background and returns immediately.
//
// swagger:route POST /api/import import triggerImport
//
// Re-imports the content directory. Pass force=true to ignore content hashes.
func (h *ImportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	force := false
	if raw := r.URL.Query().Get("force"); raw != "" {
		var err error
		force, err = strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "force must be a boolean")
			return
		}
	}

	if h.importer.Running() {
		writeError(w, http.StatusConflict, "Import already running")
		return
	}

	logger.InfoContext(ctx, "import triggered via API", "force", force)

	// Run in the background so the import outlives the request
	importCtx := contextutil.DetachedContext(ctx)
	go func() {
		result, err := h.importer.ImportAll(importCtx, importer.Options{Force: force})
		switch {
		case errors.Is(err, importer.ErrImportRunning):
			logger.WarnContext(importCtx, "import skipped, another import is running")
		case err != nil:
			logger.ErrorContext(importCtx, "import completed with errors", "error", err, "failed", result.Failed)
		default:
			logger.InfoContext(importCtx, "import completed successfully", "imported", result.Imported)
		}
	}()

	writeJSON(ctx, w, http.StatusAccepted, ImportResponse{
		Message: "Import started",
		Status:  "accepted",
	})
}

// ImportStatusHandler reports the state of the content import.
type ImportStatusHandler struct {
	importer Importer
}

// NewImportStatusHandler creates a new ImportStatusHandler.
func NewImportStatusHandler(imp Importer) *ImportStatusHandler {
	return &ImportStatusHandler{
		importer: imp,
	}
}

// ServeHTTP returns whether an import is running and the summary of the last run.
//
// swagger:route GET /api/import/status import importStatus
//
// Reports the progress and outcome of content imports.
func (h *ImportStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(ctx, w, http.StatusOK, h.importer.Status())
}
