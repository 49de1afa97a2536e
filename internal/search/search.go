// Package search filters the post list the way the blog's search box and
// category tabs do.
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"techblog/internal/storage"
)

const (
	// AllCategories is the category label that disables category filtering.
	AllCategories = "All"
	// DefaultRelatedLimit is the number of related posts shown under an article.
	DefaultRelatedLimit = 3
)

// Normalize folds s for matching: compatibility composition, so full-width
// and half-width forms compare equal, followed by Unicode case folding.
func Normalize(s string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(s)))
}

// Filter returns the posts matching both query and category, keeping order.
// A blank query matches every post. A blank category or "All" matches every
// category; any other category must match exactly.
func Filter(posts []storage.Post, query, category string) []storage.Post {
	needle := Normalize(query)
	category = strings.TrimSpace(category)
	allCategories := category == "" || strings.EqualFold(category, AllCategories)

	out := make([]storage.Post, 0, len(posts))
	for _, post := range posts {
		if !allCategories && post.Category != category {
			continue
		}
		if needle != "" && !matches(post, needle) {
			continue
		}
		out = append(out, post)
	}
	return out
}

// matches reports whether the normalized needle occurs in the post's title,
// excerpt, category or any tag.
func matches(post storage.Post, needle string) bool {
	fields := append([]string{post.Title, post.Excerpt, post.Category}, post.Tags...)
	for _, field := range fields {
		if strings.Contains(Normalize(field), needle) {
			return true
		}
	}
	return false
}

// Related returns up to limit posts other than current that share its
// category or at least one tag, in list order. A limit of zero or less
// uses DefaultRelatedLimit.
func Related(posts []storage.Post, current storage.Post, limit int) []storage.Post {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}

	var out []storage.Post
	for _, post := range posts {
		if len(out) == limit {
			break
		}
		if post.ID == current.ID {
			continue
		}
		if (current.Category != "" && post.Category == current.Category) || sharesTag(post, current) {
			out = append(out, post)
		}
	}
	return out
}

func sharesTag(a, b storage.Post) bool {
	for _, tag := range a.Tags {
		if b.HasTag(tag) {
			return true
		}
	}
	return false
}

// Categories returns the category tabs: "All" followed by the given categories.
func Categories(categories []string) []string {
	out := make([]string, 0, len(categories)+1)
	out = append(out, AllCategories)
	for _, c := range categories {
		if c != AllCategories {
			out = append(out, c)
		}
	}
	return out
}
