package preparse

import (
	"regexp"
	"strings"
)

var (
	captionHeading = regexp.MustCompile(`^ {0,3}#{1,6}[ \t]+Table:`)
	atxHeading     = regexp.MustCompile(`^ {0,3}#{1,6}(?:[ \t]|$)`)
	delimiterRow   = regexp.MustCompile(`^\s*\|?\s*:?-+:?\s*(?:\|\s*:?-+:?\s*)*\|?\s*$`)
	fence          = regexp.MustCompile("^ {0,3}(?:```|~~~)")
)

// DelimitTables adds the "|---|" delimiter row that pipe tables need when
// the first pipe row after a "Table:" heading is not already followed by
// one. Rows elsewhere in the document are left alone.
func DelimitTables(text string) string {
	lines := strings.SplitAfter(text, "\n")
	out := make([]string, 0, len(lines)+1)

	inFence := false
	pending := false
	for i, line := range lines {
		out = append(out, line)
		trimmed := strings.TrimRight(line, "\r\n")

		if fence.MatchString(trimmed) {
			inFence = !inFence
			pending = false
			continue
		}
		if inFence {
			continue
		}

		switch {
		case captionHeading.MatchString(trimmed):
			pending = true
		case atxHeading.MatchString(trimmed):
			pending = false
		case !pending || strings.TrimSpace(trimmed) == "":
		case strings.Contains(trimmed, "|"):
			pending = false
			if i+1 < len(lines) && delimiterRow.MatchString(strings.TrimRight(lines[i+1], "\r\n")) {
				continue
			}
			if !strings.HasSuffix(line, "\n") {
				out[len(out)-1] = line + "\n"
			}
			out = append(out, delimiterFor(trimmed)+"\n")
		default:
			pending = false
		}
	}
	return strings.Join(out, "")
}

// delimiterFor returns a delimiter row with one column per cell of row.
func delimiterFor(row string) string {
	row = strings.TrimSpace(row)
	row = strings.TrimPrefix(row, "|")
	if strings.HasSuffix(row, "|") && !strings.HasSuffix(row, `\|`) {
		row = strings.TrimSuffix(row, "|")
	}

	cols := 1
	for i := 0; i < len(row); i++ {
		switch row[i] {
		case '\\':
			i++
		case '|':
			cols++
		}
	}
	return "|" + strings.Repeat("---|", cols)
}
