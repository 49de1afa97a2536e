package markdown

import (
	"reflect"
	"testing"
)

func TestExtractTOC(t *testing.T) {
	source := "# Intro\ntext\n## **Setup** guide\n```bash\n# comment, not a heading\n```\n### Deep\n#### Too deep\n#no-space"

	want := []TOCEntry{
		{ID: "heading-0", Text: "Intro", Level: 1},
		{ID: "heading-2", Text: "Setup guide", Level: 2},
		{ID: "heading-6", Text: "Deep", Level: 3},
	}
	got := ExtractTOC(source)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractTOC() = %+v, want %+v", got, want)
	}
}

func TestExtractTOC_AgreesWithRender(t *testing.T) {
	source := "para\n# A\n\n- x\n## B\n| t |\n|---|\n### C\n#### D"

	toc := ExtractTOC(source)
	ids := make(map[string]bool)
	for _, h := range Render(source).Headings() {
		ids[h.ID] = true
	}
	if len(toc) != 3 {
		t.Fatalf("ExtractTOC() len = %d, want 3", len(toc))
	}
	for _, entry := range toc {
		if !ids[entry.ID] {
			t.Errorf("TOC entry %s has no matching heading block", entry.ID)
		}
	}
}

func TestExtractTOC_RequiresSpaceAfterHashes(t *testing.T) {
	source := "#\tTabbed\n##\tAlso tabbed\n#  Spaced"

	want := []TOCEntry{{ID: "heading-2", Text: "Spaced", Level: 1}}
	if got := ExtractTOC(source); !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractTOC() = %+v, want %+v", got, want)
	}
	if got := kinds(Render(source)); !reflect.DeepEqual(got, []BlockKind{BlockParagraph, BlockParagraph, BlockHeading}) {
		t.Errorf("Render() kinds = %v", got)
	}
}

func TestExtractTOC_Empty(t *testing.T) {
	if got := ExtractTOC("no headings here"); got != nil {
		t.Errorf("ExtractTOC() = %+v, want nil", got)
	}
}
