// Package preparse prepares raw document text before it reaches the
// Markdown engine: leading metadata lines are lifted out and typesetting
// control words are removed.
package preparse

import (
	"regexp"
	"strings"
)

var (
	metaLine     = regexp.MustCompile(`^(\w+):\s*(.+?)\n`)
	continuation = regexp.MustCompile(`^ {2,}\S[^\n]*(?:\n|$)`)
	indentation  = regexp.MustCompile(`\n\s{2,}`)
)

// ExtractMetadata consumes the leading block of "key: value" lines from text.
// Lines indented by two or more spaces directly after an entry continue its
// value and are joined with a single newline. Extraction stops at the first
// line that is neither. It returns the mapping and the remaining text.
func ExtractMetadata(text string) (map[string]string, string) {
	meta := make(map[string]string)

	for {
		m := metaLine.FindStringSubmatch(text)
		if m == nil {
			break
		}
		text = text[len(m[0]):]

		value := m[2]
		for {
			c := continuation.FindString(text)
			if c == "" {
				break
			}
			text = text[len(c):]
			value += "\n" + strings.TrimSuffix(c, "\n")
		}

		meta[m[1]] = indentation.ReplaceAllString(strings.TrimSpace(value), "\n")
	}

	return meta, text
}
