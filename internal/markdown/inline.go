package markdown

import "strings"

const inlineNestingLimit = 32

// ParseInline converts a single line of text into inline fragments. Code spans
// are atomic: delimiters inside them never open or close other markup.
// Unmatched delimiters are kept as literal text.
func ParseInline(text string) Inline {
	if text == "" {
		return nil
	}
	return parseInline([]rune(text), 0)
}

// inlineBuilder collects fragments and coalesces consecutive text.
type inlineBuilder struct {
	out Inline
	buf []rune
}

func (b *inlineBuilder) literal(r ...rune) {
	b.buf = append(b.buf, r...)
}

func (b *inlineBuilder) push(f Fragment) {
	b.flushText()
	b.out = append(b.out, f)
}

func (b *inlineBuilder) flushText() {
	if len(b.buf) == 0 {
		return
	}
	text := string(b.buf)
	b.buf = b.buf[:0]
	if n := len(b.out); n > 0 && b.out[n-1].Kind == FragmentText {
		b.out[n-1].Text += text
		return
	}
	b.out = append(b.out, Fragment{Kind: FragmentText, Text: text})
}

func (b *inlineBuilder) finish() Inline {
	b.flushText()
	return b.out
}

func parseInline(runes []rune, depth int) Inline {
	var b inlineBuilder
	if depth >= inlineNestingLimit {
		b.literal(runes...)
		return b.finish()
	}

	i := 0
	for i < len(runes) {
		r := runes[i]
		switch r {
		case '\\':
			if i+1 < len(runes) && isEscapable(runes[i+1]) {
				b.literal(runes[i+1])
				i += 2
				continue
			}
			b.literal(r)
			i++
		case '`':
			end := codeSpanEnd(runes, i)
			if end < 0 {
				b.literal(r)
				i++
				continue
			}
			b.push(Fragment{Kind: FragmentCode, Text: string(runes[i+1 : end-1])})
			i = end
		case '*', '_':
			if r == '_' && isASCIIAlnum(runes, i-1) {
				b.literal(r)
				i++
				continue
			}
			if f, next, ok := parseDelimited(runes, i, r, depth); ok {
				b.push(f)
				i = next
				continue
			}
			b.literal(r)
			i++
		case '~':
			if countRepeat(runes[i:], '~') >= 2 {
				if end := findCloser(runes, i+2, '~', 2); end > i+2 {
					b.push(Fragment{
						Kind:     FragmentStrikethrough,
						Children: parseInline(runes[i+2:end], depth+1),
					})
					i = end + 2
					continue
				}
			}
			b.literal(r)
			i++
		case '[':
			if f, next, ok := parseLink(runes, i, depth); ok {
				b.push(f)
				i = next
				continue
			}
			b.literal(r)
			i++
		default:
			b.literal(r)
			i++
		}
	}
	return b.finish()
}

// parseDelimited resolves strong (double delimiter) before emphasis (single).
func parseDelimited(runes []rune, start int, delim rune, depth int) (Fragment, int, bool) {
	if countRepeat(runes[start:], delim) >= 2 {
		if end := findCloser(runes, start+2, delim, 2); end > start+2 {
			return Fragment{
				Kind:     FragmentStrong,
				Children: parseInline(runes[start+2:end], depth+1),
			}, end + 2, true
		}
	}
	if end := findCloser(runes, start+1, delim, 1); end > start+1 {
		return Fragment{
			Kind:     FragmentEmphasis,
			Children: parseInline(runes[start+1:end], depth+1),
		}, end + 1, true
	}
	return Fragment{}, start, false
}

// findCloser returns the index of the closing delimiter run of the given width,
// or -1. Code spans and escaped characters are skipped. When looking for a
// single delimiter, complete double-delimiter pairs are stepped over so that
// strong spans nest inside emphasis; an unpaired run closes at its first rune.
func findCloser(runes []rune, from int, delim rune, width int) int {
	for i := from; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			if i+1 < len(runes) && isEscapable(runes[i+1]) {
				i++
			}
			continue
		case '`':
			if end := codeSpanEnd(runes, i); end > 0 {
				i = end - 1
			}
			continue
		case delim:
		default:
			continue
		}

		run := countRepeat(runes[i:], delim)
		if delim == '_' && isASCIIAlnum(runes, i+run) {
			i += run - 1
			continue
		}
		if width == 1 && run >= 2 {
			if inner := findCloser(runes, i+2, delim, 2); inner > i+2 {
				i = inner + 1
				continue
			}
			return i
		}
		if run >= width {
			// Take the rightmost delimiters of the run so that `***x***`
			// closes strong around an emphasis.
			return i + run - width
		}
	}
	return -1
}

// parseLink matches `[text](url)`. Text may carry further markup; the
// destination is taken verbatim up to the first `)`.
func parseLink(runes []rune, start int, depth int) (Fragment, int, bool) {
	closeText := -1
	for i := start + 1; i < len(runes); i++ {
		if runes[i] == '`' {
			if end := codeSpanEnd(runes, i); end > 0 {
				i = end - 1
				continue
			}
		}
		if runes[i] == ']' {
			closeText = i
			break
		}
	}
	if closeText <= start+1 || closeText+1 >= len(runes) || runes[closeText+1] != '(' {
		return Fragment{}, start, false
	}
	closeDest := -1
	for i := closeText + 2; i < len(runes); i++ {
		if runes[i] == ')' {
			closeDest = i
			break
		}
	}
	if closeDest < 0 {
		return Fragment{}, start, false
	}
	href := strings.TrimSpace(string(runes[closeText+2 : closeDest]))
	if href == "" {
		return Fragment{}, start, false
	}
	return Fragment{
		Kind:     FragmentLink,
		Href:     href,
		Children: parseInline(runes[start+1:closeText], depth+1),
	}, closeDest + 1, true
}

// codeSpanEnd returns the index just past the closing backtick of a code span
// opened at start, or -1 when there is no non-empty span.
func codeSpanEnd(runes []rune, start int) int {
	for j := start + 1; j < len(runes); j++ {
		if runes[j] == '`' {
			if j == start+1 {
				return -1
			}
			return j + 1
		}
	}
	return -1
}

func countRepeat(runes []rune, target rune) int {
	n := 0
	for n < len(runes) && runes[n] == target {
		n++
	}
	return n
}

func isASCIIAlnum(runes []rune, idx int) bool {
	if idx < 0 || idx >= len(runes) {
		return false
	}
	r := runes[idx]
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

func isEscapable(r rune) bool {
	return strings.ContainsRune("\\`*_~[]()|#", r)
}
