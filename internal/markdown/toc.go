package markdown

import (
	"regexp"
	"strings"
)

// tocHeading matches the headings listed in a table of contents (levels 1-3).
// Like parseHeading it requires a space after the hashes, so "#\tTitle" is not
// a heading in either pass.
var tocHeading = regexp.MustCompile(`^(#{1,3}) \s*(.+)$`)

// TOCEntry is one line of an article's table of contents.
type TOCEntry struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// ExtractTOC scans the source independently of Render and lists level 1-3
// headings. Ids come from HeadingID, so every entry links to the heading block
// Render emits for the same line. Lines inside fenced code are ignored.
func ExtractTOC(source string) []TOCEntry {
	var entries []TOCEntry
	inCode := false
	for index, line := range strings.Split(source, "\n") {
		if strings.HasPrefix(line, codeFence) {
			inCode = !inCode
			continue
		}
		if inCode {
			continue
		}
		m := tocHeading.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		entries = append(entries, TOCEntry{
			ID:    HeadingID(index),
			Text:  InlineText(ParseInline(strings.TrimSpace(m[2]))),
			Level: len(m[1]),
		})
	}
	return entries
}
