package preparse

import "strings"

var controlWords = strings.NewReplacer(`\tiny`, "", `\normalsize`, "")

// StripControl removes the LaTeX font-size switches authors use to shrink
// wide tables in PDF builds of the same document.
func StripControl(text string) string {
	return controlWords.Replace(text)
}
