package markdown

import (
	"strconv"
	"strings"
)

const (
	codeFence       = "```"
	maxHeadingLevel = 5
)

// Render parses an article body into a Document. Lines are split on "\n"
// only; callers normalise other line endings upstream. Render never fails:
// malformed constructs degrade to paragraphs or literal text.
func Render(source string) Document {
	if source == "" {
		return Document{}
	}
	s := &segmenter{}
	for index, line := range strings.Split(source, "\n") {
		s.consume(index, line)
	}
	s.finish()
	return Document{Blocks: s.blocks}
}

// HeadingID returns the anchor id for a heading found on the given source line.
// The table of contents uses the same scheme so anchors agree.
func HeadingID(lineIndex int) string {
	return "heading-" + strconv.Itoa(lineIndex)
}

// segmenter is the line-oriented state machine behind Render. It owns the
// accumulators of the multi-line constructs; each flush method finalises one
// accumulator into a block and resets it.
type segmenter struct {
	blocks []Block

	inCode   bool
	codeLang string
	codeBuf  []string

	listBuf []string

	inOrdered  bool
	orderedBuf []string

	inTable  bool
	tableBuf []string
}

func (s *segmenter) emit(b Block) {
	s.blocks = append(s.blocks, b)
}

func (s *segmenter) consume(index int, line string) {
	if strings.HasPrefix(line, codeFence) {
		s.fence(line)
		return
	}
	if s.inCode {
		s.codeBuf = append(s.codeBuf, line)
		return
	}

	trimmed := strings.TrimSpace(line)
	if isHorizontalRule(trimmed) {
		s.flushAll()
		s.emit(Block{Kind: BlockHorizontalRule})
		return
	}

	if isTableRow(line) {
		s.flushList()
		s.flushOrdered()
		s.inTable = true
		s.tableBuf = append(s.tableBuf, line)
		return
	}
	if s.inTable {
		s.flushTable()
	}

	if level, text, ok := parseHeading(line); ok {
		s.flushAll()
		s.emit(Block{
			Kind:   BlockHeading,
			Level:  level,
			ID:     HeadingID(index),
			Inline: ParseInline(text),
		})
		return
	}

	if text, ok := parseOrderedItem(line); ok {
		s.flushList()
		s.flushTable()
		s.inOrdered = true
		s.orderedBuf = append(s.orderedBuf, text)
		return
	}
	if s.inOrdered {
		s.flushOrdered()
	}

	if text, ok := parseBulletItem(line); ok {
		s.flushOrdered()
		s.flushTable()
		s.listBuf = append(s.listBuf, text)
		return
	}
	if len(s.listBuf) > 0 {
		s.flushList()
	}

	if strings.HasPrefix(line, "> ") {
		s.flushAll()
		s.emit(Block{Kind: BlockQuote, Inline: ParseInline(line[2:])})
		return
	}

	if trimmed == "" {
		s.emit(Block{Kind: BlockBlank})
		return
	}

	s.flushAll()
	s.emit(Block{Kind: BlockParagraph, Inline: ParseInline(trimmed)})
}

// fence toggles the code block state on a line starting with three backticks.
func (s *segmenter) fence(line string) {
	s.flushAll()
	if !s.inCode {
		s.openCode(strings.TrimSpace(strings.TrimPrefix(line, codeFence)))
		return
	}
	s.closeCode()
}

func (s *segmenter) openCode(language string) {
	s.inCode = true
	s.codeLang = language
	s.codeBuf = nil
}

func (s *segmenter) closeCode() {
	s.emit(Block{
		Kind:     BlockCode,
		Language: s.codeLang,
		Code:     strings.Join(s.codeBuf, "\n"),
	})
	s.inCode = false
	s.codeLang = ""
	s.codeBuf = nil
}

func (s *segmenter) flushList() {
	if len(s.listBuf) == 0 {
		return
	}
	s.emit(Block{Kind: BlockUnorderedList, Items: parseItems(s.listBuf)})
	s.listBuf = nil
}

func (s *segmenter) flushOrdered() {
	if len(s.orderedBuf) > 0 {
		s.emit(Block{Kind: BlockOrderedList, Items: parseItems(s.orderedBuf)})
	}
	s.orderedBuf = nil
	s.inOrdered = false
}

// flushTable emits the buffered table, or drops it silently when it has no
// separator row.
func (s *segmenter) flushTable() {
	if len(s.tableBuf) > 0 {
		if table, ok := parseTable(s.tableBuf); ok {
			s.emit(Block{Kind: BlockTable, Table: &table})
		}
	}
	s.tableBuf = nil
	s.inTable = false
}

func (s *segmenter) flushAll() {
	s.flushList()
	s.flushOrdered()
	s.flushTable()
}

// finish flushes every open accumulator at end of input. An unterminated
// fence still yields its code block.
func (s *segmenter) finish() {
	if s.inCode {
		s.closeCode()
	}
	s.flushAll()
}

func parseItems(texts []string) []Inline {
	items := make([]Inline, len(texts))
	for i, text := range texts {
		items[i] = ParseInline(text)
	}
	return items
}

// parseHeading matches 1 to 5 leading `#` followed by a space.
func parseHeading(line string) (int, string, bool) {
	level := countRepeat([]rune(line), '#')
	if level == 0 || level > maxHeadingLevel {
		return 0, "", false
	}
	if len(line) <= level || line[level] != ' ' {
		return 0, "", false
	}
	return level, strings.TrimSpace(line[level+1:]), true
}

// parseOrderedItem matches `<digits>.<whitespace><any char>...` and returns the
// text with leading whitespace removed. "1.  " is an item with empty text.
func parseOrderedItem(line string) (string, bool) {
	j := 0
	for j < len(line) && line[j] >= '0' && line[j] <= '9' {
		j++
	}
	if j == 0 || j >= len(line) || line[j] != '.' {
		return "", false
	}
	rest := line[j+1:]
	if len(rest) < 2 || !isSpaceOrTab(rest[0]) {
		return "", false
	}
	return strings.TrimLeft(rest, " \t"), true
}

// parseBulletItem matches a line starting with "- " or "* ".
func parseBulletItem(line string) (string, bool) {
	if !strings.HasPrefix(line, "- ") && !strings.HasPrefix(line, "* ") {
		return "", false
	}
	return strings.TrimLeft(line[2:], " \t"), true
}

// isHorizontalRule reports whether a trimmed line is three or more of the
// same rule character, optionally separated by spaces.
func isHorizontalRule(trimmed string) bool {
	clean := strings.NewReplacer(" ", "", "\t", "").Replace(trimmed)
	if len(clean) < 3 {
		return false
	}
	first := clean[0]
	if first != '-' && first != '*' && first != '_' {
		return false
	}
	return strings.Count(clean, string(first)) == len(clean)
}

func isSpaceOrTab(ch byte) bool {
	return ch == ' ' || ch == '\t'
}
