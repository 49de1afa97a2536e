package markdown

import "strings"

// InlineText flattens inline content to its visible text, dropping markup.
func InlineText(in Inline) string {
	var b strings.Builder
	writeInlineText(&b, in)
	return b.String()
}

func writeInlineText(b *strings.Builder, in Inline) {
	for _, f := range in {
		switch f.Kind {
		case FragmentText, FragmentCode:
			b.WriteString(f.Text)
		default:
			writeInlineText(b, f.Children)
		}
	}
}

// PlainText flattens a document to text, one block per line. Code blocks are
// included verbatim; rules and blank placeholders are skipped.
func PlainText(doc Document) string {
	var lines []string
	for _, block := range doc.Blocks {
		switch block.Kind {
		case BlockHeading, BlockParagraph, BlockQuote:
			lines = append(lines, InlineText(block.Inline))
		case BlockUnorderedList, BlockOrderedList:
			for _, item := range block.Items {
				lines = append(lines, InlineText(item))
			}
		case BlockTable:
			lines = append(lines, tableText(block.Table.Headers))
			for _, row := range block.Table.Rows {
				lines = append(lines, tableText(row))
			}
		case BlockCode:
			lines = append(lines, block.Code)
		}
	}
	return strings.Join(lines, "\n")
}

func tableText(cells []Inline) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = InlineText(cell)
	}
	return strings.Join(parts, " ")
}
