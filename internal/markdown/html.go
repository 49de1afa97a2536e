package markdown

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultCodeStyle is the chroma style used when none is configured.
const DefaultCodeStyle = "github"

// HTMLRenderer turns a Document into an HTML fragment. All text is escaped;
// links open in a new browsing context without opener or referrer.
type HTMLRenderer struct {
	style     *chroma.Style
	formatter *chromahtml.Formatter
}

// NewHTMLRenderer creates a renderer highlighting code blocks with the named
// chroma style. Unknown style names fall back to chroma's default style.
func NewHTMLRenderer(codeStyle string) *HTMLRenderer {
	if codeStyle == "" {
		codeStyle = DefaultCodeStyle
	}
	return &HTMLRenderer{
		style:     styles.Get(codeStyle),
		formatter: chromahtml.New(chromahtml.TabWidth(4)),
	}
}

// Render returns the HTML for every block of doc.
func (r *HTMLRenderer) Render(doc Document) string {
	var b strings.Builder
	for _, block := range doc.Blocks {
		r.writeBlock(&b, block)
		b.WriteByte('\n')
	}
	return b.String()
}

func (r *HTMLRenderer) writeBlock(b *strings.Builder, block Block) {
	switch block.Kind {
	case BlockHeading:
		fmt.Fprintf(b, `<h%d id="%s">`, block.Level, html.EscapeString(block.ID))
		writeInlineHTML(b, block.Inline)
		fmt.Fprintf(b, "</h%d>", block.Level)
	case BlockParagraph:
		b.WriteString("<p>")
		writeInlineHTML(b, block.Inline)
		b.WriteString("</p>")
	case BlockUnorderedList:
		writeListHTML(b, "ul", block.Items)
	case BlockOrderedList:
		writeListHTML(b, "ol", block.Items)
	case BlockTable:
		if block.Table != nil {
			writeTableHTML(b, block.Table)
		}
	case BlockCode:
		r.writeCodeHTML(b, block.Language, block.Code)
	case BlockQuote:
		b.WriteString("<blockquote>")
		writeInlineHTML(b, block.Inline)
		b.WriteString("</blockquote>")
	case BlockHorizontalRule:
		b.WriteString("<hr>")
	case BlockBlank:
		b.WriteString(`<div class="spacer"></div>`)
	}
}

func writeListHTML(b *strings.Builder, tag string, items []Inline) {
	fmt.Fprintf(b, "<%s>", tag)
	for _, item := range items {
		b.WriteString("<li>")
		writeInlineHTML(b, item)
		b.WriteString("</li>")
	}
	fmt.Fprintf(b, "</%s>", tag)
}

// writeTableHTML renders only the cells a row has; short rows are not padded.
func writeTableHTML(b *strings.Builder, t *Table) {
	b.WriteString(`<div class="table-wrap"><table><thead><tr>`)
	for i, header := range t.Headers {
		fmt.Fprintf(b, `<th style="text-align:%s">`, alignmentAt(t.Alignments, i))
		writeInlineHTML(b, header)
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for i, cell := range row {
			fmt.Fprintf(b, `<td style="text-align:%s">`, alignmentAt(t.Alignments, i))
			writeInlineHTML(b, cell)
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table></div>")
}

func alignmentAt(align []Alignment, i int) Alignment {
	if i < len(align) {
		return align[i]
	}
	return AlignLeft
}

func (r *HTMLRenderer) writeCodeHTML(b *strings.Builder, language, code string) {
	b.WriteString(`<div class="code-block">`)
	if language != "" {
		fmt.Fprintf(b, `<div class="code-language">%s</div>`, html.EscapeString(language))
	}
	if !r.highlight(b, language, code) {
		b.WriteString("<pre><code")
		if language != "" {
			fmt.Fprintf(b, ` class="language-%s"`, html.EscapeString(language))
		}
		b.WriteString(">")
		b.WriteString(html.EscapeString(code))
		b.WriteString("</code></pre>")
	}
	b.WriteString("</div>")
}

// highlight writes chroma output for known languages. It reports false when
// the language is unknown or tokenising fails, leaving b untouched.
func (r *HTMLRenderer) highlight(b *strings.Builder, language, code string) bool {
	if language == "" {
		return false
	}
	lexer := lexers.Get(language)
	if lexer == nil {
		return false
	}
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return false
	}
	var out strings.Builder
	if err := r.formatter.Format(&out, r.style, iterator); err != nil {
		return false
	}
	b.WriteString(out.String())
	return true
}

func writeInlineHTML(b *strings.Builder, in Inline) {
	for _, f := range in {
		switch f.Kind {
		case FragmentText:
			b.WriteString(html.EscapeString(f.Text))
		case FragmentCode:
			b.WriteString("<code>")
			b.WriteString(html.EscapeString(f.Text))
			b.WriteString("</code>")
		case FragmentStrong:
			writeWrapped(b, "strong", f.Children)
		case FragmentEmphasis:
			writeWrapped(b, "em", f.Children)
		case FragmentStrikethrough:
			writeWrapped(b, "del", f.Children)
		case FragmentLink:
			fmt.Fprintf(b, `<a href="%s" target="_blank" rel="noopener noreferrer">`, html.EscapeString(SafeHref(f.Href)))
			writeInlineHTML(b, f.Children)
			b.WriteString("</a>")
		}
	}
}

func writeWrapped(b *strings.Builder, tag string, children Inline) {
	fmt.Fprintf(b, "<%s>", tag)
	writeInlineHTML(b, children)
	fmt.Fprintf(b, "</%s>", tag)
}

// SafeHref returns href when it is relative or uses http, https or mailto,
// and "#" otherwise.
func SafeHref(href string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "#"
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return href
	default:
		return "#"
	}
}
