package classify

import (
	"regexp"
	"strings"
)

var (
	reHeadingLine   = regexp.MustCompile(`(?m)^#+ `)
	reOrderedLine   = regexp.MustCompile(`(?m)^\d+\. `)
	reUnorderedLine = regexp.MustCompile(`(?m)^[•\-] `)
)

// HasStructure reports whether text already carries explicit structural
// markers: a heading line, a fenced code pair, or a list marker at
// line start. Text without any of these is routed through AutoFormat.
func HasStructure(text string) bool {
	if reHeadingLine.MatchString(text) {
		return true
	}
	if strings.Count(text, "```") >= 2 {
		return true
	}
	if reOrderedLine.MatchString(text) || reUnorderedLine.MatchString(text) {
		return true
	}
	return false
}
