package markdown

import (
	"reflect"
	"testing"
)

func cellTexts(cells []Inline) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = InlineText(c)
	}
	return out
}

func TestParseTable(t *testing.T) {
	tests := []struct {
		name       string
		lines      []string
		wantOK     bool
		wantHeader []string
		wantAlign  []Alignment
		wantRows   [][]string
	}{
		{
			name:       "basic table",
			lines:      []string{"| A | B |", "|---|---|", "| 1 | 2 |"},
			wantOK:     true,
			wantHeader: []string{"A", "B"},
			wantAlign:  []Alignment{AlignLeft, AlignLeft},
			wantRows:   [][]string{{"1", "2"}},
		},
		{
			name:       "long row is clipped to header width",
			lines:      []string{"|A|B|C|", "|---|---|---|", "|1|2|3|4|"},
			wantOK:     true,
			wantHeader: []string{"A", "B", "C"},
			wantAlign:  []Alignment{AlignLeft, AlignLeft, AlignLeft},
			wantRows:   [][]string{{"1", "2", "3"}},
		},
		{
			name:       "short row keeps its cells",
			lines:      []string{"|A|B|C|", "|---|---|---|", "|1|2|"},
			wantOK:     true,
			wantHeader: []string{"A", "B", "C"},
			wantAlign:  []Alignment{AlignLeft, AlignLeft, AlignLeft},
			wantRows:   [][]string{{"1", "2"}},
		},
		{
			name:       "alignments",
			lines:      []string{"| L | C | R | D |", "|:---|:---:|---:|---|"},
			wantOK:     true,
			wantHeader: []string{"L", "C", "R", "D"},
			wantAlign:  []Alignment{AlignLeft, AlignCenter, AlignRight, AlignLeft},
		},
		{
			name:       "alignment clipped to header",
			lines:      []string{"| A |", "|:-:|--:|"},
			wantOK:     true,
			wantHeader: []string{"A"},
			wantAlign:  []Alignment{AlignCenter},
		},
		{
			name:       "lone colon is center",
			lines:      []string{"| A | B | C |", "| : | :- | -: |"},
			wantOK:     true,
			wantHeader: []string{"A", "B", "C"},
			wantAlign:  []Alignment{AlignCenter, AlignLeft, AlignRight},
		},
		{
			name:       "empty rows are dropped",
			lines:      []string{"| A |", "|---|", "| |", "| x |"},
			wantOK:     true,
			wantHeader: []string{"A"},
			wantAlign:  []Alignment{AlignLeft},
			wantRows:   [][]string{{"x"}},
		},
		{
			name:   "single line is not a table",
			lines:  []string{"| A | B |"},
			wantOK: false,
		},
		{
			name:   "no header cells",
			lines:  []string{"| |", "|---|"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTable(tt.lines)
			if ok != tt.wantOK {
				t.Fatalf("parseTable() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if h := cellTexts(got.Headers); !reflect.DeepEqual(h, tt.wantHeader) {
				t.Errorf("headers = %v, want %v", h, tt.wantHeader)
			}
			if !reflect.DeepEqual(got.Alignments, tt.wantAlign) {
				t.Errorf("alignments = %v, want %v", got.Alignments, tt.wantAlign)
			}
			var rows [][]string
			for _, row := range got.Rows {
				rows = append(rows, cellTexts(row))
			}
			if !reflect.DeepEqual(rows, tt.wantRows) {
				t.Errorf("rows = %v, want %v", rows, tt.wantRows)
			}
		})
	}
}

func TestRender_TableSingleLineIsDropped(t *testing.T) {
	doc := Render("| only header |\n\nnext")
	want := []BlockKind{BlockBlank, BlockParagraph}
	if !reflect.DeepEqual(kinds(doc), want) {
		t.Errorf("Render() kinds = %v, want %v", kinds(doc), want)
	}
}

func TestRender_TableCellsAreInlineParsed(t *testing.T) {
	doc := Render("| **H** |\n|---|\n| `c` |")
	if len(doc.Blocks) != 1 || doc.Blocks[0].Table == nil {
		t.Fatalf("Render() = %+v, want one table", doc.Blocks)
	}
	table := doc.Blocks[0].Table
	if table.Headers[0][0].Kind != FragmentStrong {
		t.Errorf("header fragment kind = %s, want strong", table.Headers[0][0].Kind)
	}
	if table.Rows[0][0][0].Kind != FragmentCode {
		t.Errorf("cell fragment kind = %s, want code", table.Rows[0][0][0].Kind)
	}
}

func TestIsTableRow(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"| a | b |", true},
		{"  |a|  ", true},
		{"||", true},
		{"|", false},
		{"a | b", false},
		{"| a", false},
	}
	for _, tt := range tests {
		if got := isTableRow(tt.line); got != tt.want {
			t.Errorf("isTableRow(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
