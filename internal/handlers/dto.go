package handlers

import (
	"techblog/internal/markdown"
	"techblog/internal/storage"
)

// PostSummary is the list representation of a post.
type PostSummary struct {
	ID       int64    `json:"id"`
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Excerpt  string   `json:"excerpt"`
	Date     string   `json:"date"`
	Category string   `json:"category"`
	ReadTime string   `json:"readTime"`
	Tags     []string `json:"tags"`
	Author   string   `json:"author"`
}

// PostDetail is a post with its raw markdown content.
type PostDetail struct {
	PostSummary
	Content string `json:"content"`
}

// PostListResponse represents the HTTP response payload for post listings.
type PostListResponse struct {
	Posts      []PostSummary `json:"posts"`
	Categories []string      `json:"categories"`
	Total      int           `json:"total"`
}

// ArticleResponse represents the HTTP response payload for a single article.
type ArticleResponse struct {
	Post     PostDetail          `json:"post"`
	Document markdown.Document   `json:"document"`
	TOC      []markdown.TOCEntry `json:"toc"`
	Related  []PostSummary       `json:"related"`
}

// RenderRequest represents the HTTP request payload for preview rendering.
type RenderRequest struct {
	Content string `json:"content"`
}

// RenderResponse represents the HTTP response payload for preview rendering.
type RenderResponse struct {
	Document markdown.Document   `json:"document"`
	TOC      []markdown.TOCEntry `json:"toc"`
	HTML     string              `json:"html"`
}

func toSummary(p storage.Post) PostSummary {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PostSummary{
		ID:       p.ID,
		Slug:     p.Slug,
		Title:    p.Title,
		Excerpt:  p.Excerpt,
		Date:     p.Date,
		Category: p.Category,
		ReadTime: p.ReadTime,
		Tags:     tags,
		Author:   p.Author,
	}
}

func toSummaries(posts []storage.Post) []PostSummary {
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, toSummary(p))
	}
	return out
}

func emptyTOC(toc []markdown.TOCEntry) []markdown.TOCEntry {
	if toc == nil {
		return []markdown.TOCEntry{}
	}
	return toc
}
