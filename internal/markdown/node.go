// Package markdown renders the blog's markdown dialect into a sequence of typed
// blocks. Rendering is a pure function of the source text: every call builds
// fresh state, so a Document can be produced concurrently for different posts.
package markdown

// BlockKind identifies the variant held by a Block.
type BlockKind string

const (
	BlockHeading        BlockKind = "heading"
	BlockParagraph      BlockKind = "paragraph"
	BlockUnorderedList  BlockKind = "unordered_list"
	BlockOrderedList    BlockKind = "ordered_list"
	BlockTable          BlockKind = "table"
	BlockCode           BlockKind = "code_block"
	BlockQuote          BlockKind = "blockquote"
	BlockHorizontalRule BlockKind = "horizontal_rule"
	BlockBlank          BlockKind = "blank"
)

// FragmentKind identifies an inline fragment.
type FragmentKind string

const (
	FragmentText          FragmentKind = "text"
	FragmentCode          FragmentKind = "code"
	FragmentStrong        FragmentKind = "strong"
	FragmentEmphasis      FragmentKind = "emphasis"
	FragmentStrikethrough FragmentKind = "strikethrough"
	FragmentLink          FragmentKind = "link"
)

// Alignment is the horizontal alignment of a table column.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Fragment is a span of inline content. Text and code fragments are leaves;
// the remaining kinds wrap nested Children.
type Fragment struct {
	Kind     FragmentKind `json:"kind"`
	Text     string       `json:"text,omitempty"`
	Href     string       `json:"href,omitempty"`
	Children Inline       `json:"children,omitempty"`
}

// IsRich reports whether the fragment carries resolved markup (anything other
// than plain text or a code span).
func (f Fragment) IsRich() bool {
	return f.Kind != FragmentText && f.Kind != FragmentCode
}

// Inline is an ordered run of fragments making up the text of one block.
type Inline []Fragment

// Table holds a parsed pipe table. Rows may be shorter than Headers but never longer.
type Table struct {
	Headers    []Inline    `json:"headers"`
	Alignments []Alignment `json:"alignments"`
	Rows       [][]Inline  `json:"rows,omitempty"`
}

// Block is one structural unit of a rendered document. Only the fields that
// belong to Kind are populated.
type Block struct {
	Kind     BlockKind `json:"kind"`
	Level    int       `json:"level,omitempty"`
	ID       string    `json:"id,omitempty"`
	Inline   Inline    `json:"inline,omitempty"`
	Items    []Inline  `json:"items,omitempty"`
	Table    *Table    `json:"table,omitempty"`
	Language string    `json:"language,omitempty"`
	Code     string    `json:"code,omitempty"`
}

// Document is the rendered form of one article body, in source order.
type Document struct {
	Blocks []Block `json:"blocks"`
}

// Headings returns the heading blocks of the document in order.
func (d Document) Headings() []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.Kind == BlockHeading {
			out = append(out, b)
		}
	}
	return out
}
