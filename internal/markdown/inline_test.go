package markdown

import (
	"math/rand/v2"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestParseInline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Inline
	}{
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
		{
			name:  "plain text",
			input: "just words",
			want:  plain("just words"),
		},
		{
			name:  "strong with stars",
			input: "a **b** c",
			want:  Inline{text("a "), {Kind: FragmentStrong, Children: plain("b")}, text(" c")},
		},
		{
			name:  "strong with underscores",
			input: "__b__",
			want:  Inline{{Kind: FragmentStrong, Children: plain("b")}},
		},
		{
			name:  "emphasis with stars",
			input: "*i*",
			want:  Inline{{Kind: FragmentEmphasis, Children: plain("i")}},
		},
		{
			name:  "emphasis with underscores",
			input: "_i_ x",
			want:  Inline{{Kind: FragmentEmphasis, Children: plain("i")}, text(" x")},
		},
		{
			name:  "strikethrough",
			input: "~~gone~~",
			want:  Inline{{Kind: FragmentStrikethrough, Children: plain("gone")}},
		},
		{
			name:  "single tilde is literal",
			input: "~5 minutes~",
			want:  plain("~5 minutes~"),
		},
		{
			name:  "link",
			input: "see [docs](https://example.com/a)",
			want: Inline{
				text("see "),
				{Kind: FragmentLink, Href: "https://example.com/a", Children: plain("docs")},
			},
		},
		{
			name:  "link text carries markup",
			input: "[**bold** link](/x)",
			want: Inline{{
				Kind: FragmentLink,
				Href: "/x",
				Children: Inline{
					{Kind: FragmentStrong, Children: plain("bold")},
					text(" link"),
				},
			}},
		},
		{
			name:  "code span keeps markup verbatim",
			input: "run `**not bold**` now",
			want:  Inline{text("run "), {Kind: FragmentCode, Text: "**not bold**"}, text(" now")},
		},
		{
			name:  "code span inside strong",
			input: "**use `x` here**",
			want: Inline{{Kind: FragmentStrong, Children: Inline{
				text("use "),
				{Kind: FragmentCode, Text: "x"},
				text(" here"),
			}}},
		},
		{
			name:  "delimiter inside code does not close emphasis",
			input: "*a `*` b*",
			want: Inline{{Kind: FragmentEmphasis, Children: Inline{
				text("a "),
				{Kind: FragmentCode, Text: "*"},
				text(" b"),
			}}},
		},
		{
			name:  "code spans stay in position",
			input: "`a` then **b** then `c`",
			want: Inline{
				{Kind: FragmentCode, Text: "a"},
				text(" then "),
				{Kind: FragmentStrong, Children: plain("b")},
				text(" then "),
				{Kind: FragmentCode, Text: "c"},
			},
		},
		{
			name:  "strong nested in emphasis",
			input: "*a **b** c*",
			want: Inline{{Kind: FragmentEmphasis, Children: Inline{
				text("a "),
				{Kind: FragmentStrong, Children: plain("b")},
				text(" c"),
			}}},
		},
		{
			name:  "triple stars",
			input: "***x***",
			want: Inline{{Kind: FragmentStrong, Children: Inline{
				{Kind: FragmentEmphasis, Children: plain("x")},
			}}},
		},
		{
			name:  "unmatched strong is literal",
			input: "**open",
			want:  plain("**open"),
		},
		{
			name:  "unmatched backtick is literal",
			input: "a ` b",
			want:  plain("a ` b"),
		},
		{
			name:  "empty code span is literal",
			input: "``",
			want:  plain("``"),
		},
		{
			name:  "empty emphasis is literal",
			input: "****",
			want:  plain("****"),
		},
		{
			name:  "intraword underscores are literal",
			input: "snake_case_name",
			want:  plain("snake_case_name"),
		},
		{
			name:  "link without destination is literal",
			input: "[text]() and [x]",
			want:  plain("[text]() and [x]"),
		},
		{
			name:  "escaped star",
			input: `\*not em\*`,
			want:  plain("*not em*"),
		},
		{
			name:  "non latin text with strong",
			input: "これは**太字**です",
			want:  Inline{text("これは"), {Kind: FragmentStrong, Children: plain("太字")}, text("です")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseInline(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseInline(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInline_DeepNestingDoesNotPanic(t *testing.T) {
	input := ""
	for i := 0; i < 100; i++ {
		input += "[*"
	}
	input += "x"
	for i := 0; i < 100; i++ {
		input += "*](u)"
	}
	if got := InlineText(ParseInline(input)); got == "" {
		t.Error("ParseInline() lost all text")
	}
}

func TestFragment_IsRich(t *testing.T) {
	tests := []struct {
		kind FragmentKind
		want bool
	}{
		{FragmentText, false},
		{FragmentCode, false},
		{FragmentStrong, true},
		{FragmentEmphasis, true},
		{FragmentStrikethrough, true},
		{FragmentLink, true},
	}
	for _, tt := range tests {
		if got := (Fragment{Kind: tt.kind}).IsRich(); got != tt.want {
			t.Errorf("Fragment{%s}.IsRich() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

// markdownPieces are the tokens random documents are assembled from.
var markdownPieces = []string{
	"#", "## ", "### ", "###### ", " ", "\t", "\n", "\n\n", "*", "**", "_", "~~", "`", "```", "```go\n",
	"[", "]", "(", ")", "](", "|", "|---|", ":", ":-:", "-", "- ", "* ", "1. ", "10.", ">", "> ",
	"\\", "a", "word", "日本語", "\xff", "javascript:", "http://x.y",
}

func randomMarkdown(r *rand.Rand) string {
	var b strings.Builder
	for n := r.IntN(40); n > 0; n-- {
		b.WriteString(markdownPieces[r.IntN(len(markdownPieces))])
	}
	return b.String()
}

// checkRenders runs every entry point on source; any panic fails the test.
func checkRenders(t *testing.T, source string) {
	t.Helper()
	defer func() {
		if p := recover(); p != nil {
			t.Fatalf("panic on %q: %v", source, p)
		}
	}()

	doc := Render(source)
	if again := Render(source); !reflect.DeepEqual(doc, again) {
		t.Fatalf("Render(%q) not deterministic", source)
	}
	lines := strings.Count(source, "\n") + 1
	for _, entry := range ExtractTOC(source) {
		line, err := strconv.Atoi(strings.TrimPrefix(entry.ID, "heading-"))
		if err != nil || line < 0 || line >= lines || entry.Level < 1 || entry.Level > 3 {
			t.Fatalf("ExtractTOC(%q) entry = %+v", source, entry)
		}
	}
	_ = InlineText(ParseInline(source))
	_ = PlainText(doc)
	_ = NewHTMLRenderer("").Render(doc)
}

func TestRender_RandomInput(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 5000; i++ {
		checkRenders(t, randomMarkdown(r))
	}
}

func FuzzRender(f *testing.F) {
	for _, seed := range []string{
		"",
		"# Title\n**bold** and *em* and `code`",
		"| a | b |\n|:-:|--:|\n| 1 | 2 | 3 |",
		"```\nunterminated",
		"- [x](javascript:alert(1))\n1. **unclosed",
		"> ~~strike~~ \\*escaped\\*",
		"****\n___\n---",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, source string) {
		checkRenders(t, source)
	})
}
