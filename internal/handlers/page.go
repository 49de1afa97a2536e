package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"techblog/internal/contextutil"
	"techblog/internal/markdown"
	"techblog/internal/search"
	"techblog/internal/service"
)

const pageStyle = `
    :root { color-scheme: light; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Hiragino Sans', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 1100px;
      line-height: 1.8;
      color: #1f2937;
    }
    a { color: #2563eb; text-decoration: none; }
    a:hover { text-decoration: underline; }
    header.site { margin-bottom: 2rem; border-bottom: 1px solid #e5e7eb; padding-bottom: 1rem; }
    .meta { color: #6b7280; font-size: 0.9rem; }
    .tag { display: inline-block; background: #eff6ff; color: #1d4ed8; border-radius: 999px; padding: 0 0.6rem; margin-right: 0.3rem; font-size: 0.8rem; }
    .layout { display: grid; grid-template-columns: minmax(0, 1fr) 240px; gap: 2rem; }
    nav.toc { position: sticky; top: 1rem; align-self: start; font-size: 0.9rem; }
    nav.toc .level-2 { padding-left: 1rem; }
    nav.toc .level-3 { padding-left: 2rem; }
    article code { background: #f3f4f6; padding: 2px 5px; border-radius: 4px; }
    article pre { padding: 1rem; overflow-x: auto; border-radius: 8px; background: #f6f8fa; }
    article pre code { background: transparent; padding: 0; }
    .code-language { font-size: 0.75rem; color: #6b7280; text-transform: uppercase; }
    .table-wrap { overflow-x: auto; }
    table { border-collapse: collapse; }
    th, td { border: 1px solid #e5e7eb; padding: 0.4rem 0.8rem; }
    blockquote { border-left: 4px solid #93c5fd; margin-left: 0; padding-left: 1rem; color: #4b5563; }
    .spacer { height: 0.5rem; }
    .categories a { margin-right: 0.8rem; }
    .categories a.active { font-weight: bold; }
    .card { border-bottom: 1px solid #f3f4f6; padding: 1rem 0; }
    @media (max-width: 800px) {
      .layout { grid-template-columns: 1fr; }
      nav.toc { position: static; }
    }
`

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{if .Query}}{{.Query}} - {{end}}Tech Blog</title>
  <style>{{.Style}}</style>
</head>
<body>
  <header class="site">
    <h1><a href="/">Tech Blog</a></h1>
    <form method="get" action="/">
      <input type="search" name="q" value="{{.Query}}" placeholder="記事を検索...">
      {{if .Category}}<input type="hidden" name="category" value="{{.Category}}">{{end}}
    </form>
    <p class="categories">
      {{range .Categories}}<a href="{{.Href}}"{{if .Active}} class="active"{{end}}>{{.Name}}</a>{{end}}
    </p>
  </header>
  <main>
    {{if not .Posts}}<p>記事が見つかりませんでした。</p>{{end}}
    {{range .Posts}}
    <div class="card">
      <h2><a href="/posts/{{.ID}}">{{.Title}}</a></h2>
      <p class="meta">{{.Date}} &middot; {{.Category}} &middot; {{.ReadTime}}{{if .Author}} &middot; {{.Author}}{{end}}</p>
      <p>{{.Excerpt}}</p>
      <p>{{range .Tags}}<span class="tag">{{.}}</span>{{end}}</p>
    </div>
    {{end}}
  </main>
</body>
</html>`))

var articleTemplate = template.Must(template.New("article").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Post.Title}} - Tech Blog</title>
  <meta name="description" content="{{.Post.Excerpt}}">
  <style>{{.Style}}</style>
</head>
<body>
  <header class="site">
    <p><a href="/">&larr; 記事一覧</a></p>
    <h1>{{.Post.Title}}</h1>
    <p class="meta">{{.Post.Date}} &middot; <a href="/?category={{.Post.Category}}">{{.Post.Category}}</a> &middot; {{.Post.ReadTime}}{{if .Post.Author}} &middot; {{.Post.Author}}{{end}}</p>
    <p>{{range .Post.Tags}}<span class="tag">{{.}}</span>{{end}}</p>
  </header>
  <div class="layout">
    <article>{{.Body}}</article>
    {{if .TOC}}
    <nav class="toc">
      <strong>目次</strong>
      {{range .TOC}}<div class="level-{{.Level}}"><a href="#{{.ID}}">{{.Text}}</a></div>{{end}}
    </nav>
    {{end}}
  </div>
  {{if .Related}}
  <section>
    <h2>関連記事</h2>
    {{range .Related}}
    <div class="card">
      <a href="/posts/{{.ID}}">{{.Title}}</a>
      <p class="meta">{{.Date}} &middot; {{.Category}}</p>
    </div>
    {{end}}
  </section>
  {{end}}
</body>
</html>`))

// categoryLink is one category tab on the index page.
type categoryLink struct {
	Name   string
	Href   string
	Active bool
}

// indexPageData holds template data for the index page.
type indexPageData struct {
	Style      template.CSS
	Query      string
	Category   string
	Categories []categoryLink
	Posts      []PostSummary
}

// articlePageData holds template data for rendered article pages.
type articlePageData struct {
	Style   template.CSS
	Post    PostSummary
	Body    template.HTML
	TOC     []markdown.TOCEntry
	Related []PostSummary
}

// PageHandler serves the server-rendered HTML pages.
type PageHandler struct {
	blogService service.BlogService
	html        *markdown.HTMLRenderer
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(blogService service.BlogService, html *markdown.HTMLRenderer) *PageHandler {
	return &PageHandler{
		blogService: blogService,
		html:        html,
	}
}

// Index renders the post list with search box and category tabs.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	resp, err := h.blogService.ListPosts(ctx, service.ListRequest{Query: query, Category: category})
	if err != nil {
		status, message := serviceErrorStatus(err, "failed to list posts")
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "index page failed", "status", status, "error", err)
		http.Error(w, message, status)
		return
	}

	links := make([]categoryLink, 0, len(resp.Categories))
	for _, name := range resp.Categories {
		values := url.Values{}
		if query != "" {
			values.Set("q", query)
		}
		if name != search.AllCategories {
			values.Set("category", name)
		}
		href := "/"
		if len(values) > 0 {
			href += "?" + values.Encode()
		}
		active := name == category || (name == search.AllCategories && (category == "" || strings.EqualFold(category, search.AllCategories)))
		links = append(links, categoryLink{Name: name, Href: href, Active: active})
	}

	h.execute(w, r, indexTemplate, indexPageData{
		Style:      template.CSS(pageStyle),
		Query:      query,
		Category:   category,
		Categories: links,
		Posts:      toSummaries(resp.Posts),
	})
}

// Article renders one post. The {ref} URL parameter is a numeric id or a slug.
func (h *PageHandler) Article(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ref := chi.URLParam(r, "ref")

	var article service.Article
	var err error
	if id, convErr := strconv.ParseInt(ref, 10, 64); convErr == nil {
		article, err = h.blogService.GetArticle(ctx, id)
	} else {
		article, err = h.blogService.GetArticleBySlug(ctx, ref)
	}
	if err != nil {
		status, message := serviceErrorStatus(err, "failed to render article")
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "article page failed", "ref", ref, "status", status, "error", err)
		http.Error(w, message, status)
		return
	}

	h.execute(w, r, articleTemplate, articlePageData{
		Style:   template.CSS(pageStyle),
		Post:    toSummary(article.Post),
		Body:    template.HTML(h.html.Render(article.Document)),
		TOC:     article.TOC,
		Related: toSummaries(article.Related),
	})
}

// execute renders into a buffer first so a template error still yields a clean 500.
func (h *PageHandler) execute(w http.ResponseWriter, r *http.Request, tmpl *template.Template, data any) {
	ctx := r.Context()

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to execute template", "template", tmpl.Name(), "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
