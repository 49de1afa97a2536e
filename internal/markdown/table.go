package markdown

import "strings"

// isTableRow reports whether a line belongs to a pipe table: its trimmed form
// starts and ends with `|` and holds at least one more pipe.
func isTableRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < 2 || !strings.HasPrefix(trimmed, "|") || !strings.HasSuffix(trimmed, "|") {
		return false
	}
	return strings.Count(trimmed, "|") >= 2
}

// parseTable turns buffered table lines into a Table. The first line is the
// header and the second the alignment row; the rest are body rows. It returns
// false when there is no separator line or the header has no cells.
func parseTable(lines []string) (Table, bool) {
	if len(lines) < 2 {
		return Table{}, false
	}

	headerCells := splitTableRow(lines[0])
	if len(headerCells) == 0 {
		return Table{}, false
	}
	table := Table{
		Headers:    make([]Inline, len(headerCells)),
		Alignments: parseTableAlignment(splitTableRow(lines[1]), len(headerCells)),
	}
	for i, cell := range headerCells {
		table.Headers[i] = ParseInline(cell)
	}

	for _, line := range lines[2:] {
		cells := splitTableRow(line)
		if len(cells) > len(headerCells) {
			cells = cells[:len(headerCells)]
		}
		if len(cells) == 0 {
			continue
		}
		row := make([]Inline, len(cells))
		for j, cell := range cells {
			row[j] = ParseInline(cell)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, true
}

// splitTableRow splits on `|`, trims each cell and drops empty cells, which
// also removes the artifacts of the leading and trailing pipes.
func splitTableRow(line string) []string {
	var cells []string
	for _, part := range strings.Split(line, "|") {
		part = strings.TrimSpace(part)
		if part != "" {
			cells = append(cells, part)
		}
	}
	return cells
}

// parseTableAlignment reads a cell that starts and ends with ':' as center
// (a lone ":" included), `---:` as right and anything else as left. The result always has one entry per header column.
func parseTableAlignment(parts []string, columns int) []Alignment {
	align := make([]Alignment, 0, columns)
	for _, part := range parts {
		if len(align) == columns {
			break
		}
		left := strings.HasPrefix(part, ":")
		right := strings.HasSuffix(part, ":")
		switch {
		case left && right:
			align = append(align, AlignCenter)
		case right:
			align = append(align, AlignRight)
		default:
			align = append(align, AlignLeft)
		}
	}
	for len(align) < columns {
		align = append(align, AlignLeft)
	}
	return align
}
