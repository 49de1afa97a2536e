package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"techblog/internal/handlers"
	"techblog/internal/markdown"
	"techblog/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	BlogService  service.BlogService
	Importer     handlers.Importer
	HTMLRenderer *markdown.HTMLRenderer
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	// Add CORS middleware
	r.Use(CORS)

	htmlRenderer := deps.HTMLRenderer
	if htmlRenderer == nil {
		htmlRenderer = markdown.NewHTMLRenderer(markdown.DefaultCodeStyle)
	}

	pages := handlers.NewPageHandler(deps.BlogService, htmlRenderer)

	// Register API routes
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.BlogService))
		r.Method(http.MethodGet, "/posts", handlers.NewPostsHandler(deps.BlogService))
		r.Method(http.MethodGet, "/posts/{id}", handlers.NewArticleHandler(deps.BlogService))
		r.Method(http.MethodPost, "/render", handlers.NewRenderHandler(deps.BlogService, htmlRenderer))
		if deps.Importer != nil {
			r.Method(http.MethodPost, "/import", handlers.NewImportHandler(deps.Importer))
			r.Method(http.MethodGet, "/import/status", handlers.NewImportStatusHandler(deps.Importer))
		}
	})

	// Server-rendered pages
	r.Get("/", pages.Index)
	r.Get("/posts/{ref}", pages.Article)

	return r
}
