package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// frontMatter mirrors the YAML block at the top of a source file.
type frontMatter struct {
	ID       int64     `yaml:"id"`
	Title    string    `yaml:"title"`
	Excerpt  string    `yaml:"excerpt"`
	Date     yaml.Node `yaml:"date"`
	Category string    `yaml:"category"`
	Tags     []string  `yaml:"tags"`
	Author   string    `yaml:"author"`
	Slug     string    `yaml:"slug"`
	ReadTime string    `yaml:"read_time"`
}

// date returns the date field as written, validated against dateLayout.
// The node is kept raw so unquoted dates are not turned into timestamps.
func (fm *frontMatter) date() (string, error) {
	value := strings.TrimSpace(fm.Date.Value)
	if value == "" {
		return "", nil
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return "", fmt.Errorf("date %q must be YYYY-MM-DD", value)
	}
	return value, nil
}

// Body returns data without its front matter block.
func Body(data []byte) string {
	_, body := splitFrontMatter(data)
	return string(body)
}

// splitFrontMatter separates a leading "---" delimited block from the body.
// Without an opening delimiter on the first line, or without a closing one,
// the whole input is body.
func splitFrontMatter(data []byte) (header, body []byte) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	normalized := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))

	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, normalized
	}

	rest := normalized[len("---\n"):]
	for offset := 0; offset <= len(rest); {
		end := bytes.IndexByte(rest[offset:], '\n')
		var line []byte
		if end < 0 {
			line = rest[offset:]
		} else {
			line = rest[offset : offset+end]
		}
		if string(bytes.TrimRight(line, " \t")) == "---" {
			header = rest[:offset]
			if end < 0 {
				return header, nil
			}
			return header, rest[offset+end+1:]
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return nil, normalized
}

func decodeFrontMatter(header []byte) (*frontMatter, error) {
	var fm frontMatter
	if len(bytes.TrimSpace(header)) == 0 {
		return &fm, nil
	}
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrontMatter, err)
	}
	return &fm, nil
}
