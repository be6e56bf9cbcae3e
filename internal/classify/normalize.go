package classify

import (
	"regexp"
	"strings"
)

// fenceRegion matches a complete fenced code region: opening marker with
// optional language tag, body, closing marker. Non-greedy so adjacent
// regions never merge.
var fenceRegion = regexp.MustCompile("(?s)```[^\n`]*\n.*?```")

// NormalizeFences rewrites every fenced code region so it is surrounded
// by exactly one blank line on each side. Marker, language tag, and body
// are preserved verbatim. Replacement is by scan position: two regions
// with byte-identical content are still rewritten independently.
func NormalizeFences(text string) string {
	matches := fenceRegion.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(matches)*4)

	prev := 0
	for _, m := range matches {
		before := text[prev:m[0]]
		trimmed := strings.TrimRight(before, " \t\n")
		b.WriteString(trimmed)
		if trimmed != "" {
			b.WriteString("\n\n")
		}
		b.WriteString(text[m[0]:m[1]])

		// Decide padding after the region once we know what follows
		prev = m[1]
		rest := text[prev:]
		if strings.TrimSpace(rest) != "" {
			b.WriteString("\n\n")
			// Skip the whitespace we just canonicalized
			skip := len(rest) - len(strings.TrimLeft(rest, " \t\n"))
			prev += skip
		}
	}

	tail := strings.TrimLeft(text[prev:], " \t\n")
	b.WriteString(tail)

	return b.String()
}
