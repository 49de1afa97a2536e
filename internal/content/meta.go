package content

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// metaExtractor derives title and excerpt from a markdown body using goldmark's AST.
type metaExtractor struct {
	parser goldmark.Markdown
}

func newMetaExtractor() *metaExtractor {
	return &metaExtractor{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table, extension.Strikethrough),
		),
	}
}

// extract returns the first level-1 heading (else level-2) and the text of
// the first paragraph. Either may be empty.
func (m *metaExtractor) extract(body []byte) (title, excerpt string) {
	doc := m.parser.Parser().Parse(text.NewReader(body))

	var firstH1, firstH2 string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			headingText := nodeText(node, body)
			if node.Level == 1 && firstH1 == "" {
				firstH1 = headingText
			} else if node.Level == 2 && firstH2 == "" {
				firstH2 = headingText
			}
		case *ast.Paragraph:
			if excerpt == "" && node.Parent() == doc {
				excerpt = nodeText(node, body)
			}
		default:
			return ast.WalkContinue, nil
		}

		// Stop walking once we have what we need
		if firstH1 != "" && excerpt != "" {
			return ast.WalkStop, nil
		}
		return ast.WalkSkipChildren, nil
	})

	if firstH1 != "" {
		return firstH1, excerpt
	}
	return firstH2, excerpt
}

// nodeText concatenates the text below n, turning soft line breaks into spaces.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// truncateRunes shortens s to at most limit runes, marking the cut with an ellipsis.
func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:limit]), unicode.IsSpace) + "…"
}

// readTime estimates reading time in whole minutes, at least one.
func readTime(body string) string {
	count := 0
	for _, r := range body {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	minutes := (count + runesPerMinute - 1) / runesPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d分", minutes)
}

// slugFromPath returns the file name without its extension.
func slugFromPath(relPath string) string {
	name := filepath.Base(filepath.FromSlash(relPath))
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// titleFromPath turns "getting-started_guide.md" into "Getting Started Guide".
func titleFromPath(relPath string) string {
	name := strings.NewReplacer("-", " ", "_", " ").Replace(slugFromPath(relPath))

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
