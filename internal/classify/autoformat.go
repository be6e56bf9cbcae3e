package classify

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// headingThreshold is the maximum length of a sentence segment that can
// be promoted to a heading during auto-formatting.
const headingThreshold = 100

var (
	reInlineOrdered   = regexp.MustCompile(`([^\n])\s+(\d+\. )`)
	reInlineUnordered = regexp.MustCompile(`([^\n])\s+([•\-] )`)
	reBlankRun        = regexp.MustCompile(`\n{3,}`)
)

// AutoFormat injects minimal paragraph and heading structure into
// free-form prose. Embedded fenced code is protected by placeholder
// substitution so the sentence heuristic never splits a code body.
// Input that yields a single sentence segment is returned unchanged.
func AutoFormat(text string) string {
	if strings.Contains(text, "```") {
		return autoFormatWithCode(text)
	}
	return autoFormatProse(text)
}

func autoFormatWithCode(text string) string {
	// Pull every fenced region out before sentence splitting
	matches := fenceRegion.FindAllStringIndex(text, -1)
	regions := make([]string, 0, len(matches))

	var b strings.Builder
	prev := 0
	for i, m := range matches {
		b.WriteString(text[prev:m[0]])
		b.WriteString(codePlaceholder(i))
		regions = append(regions, text[m[0]:m[1]])
		prev = m[1]
	}
	b.WriteString(text[prev:])

	formatted := formatSentences(b.String(), false)

	// Restore the protected regions, padded with blank lines
	for i, region := range regions {
		formatted = strings.Replace(formatted, codePlaceholder(i), "\n\n"+region+"\n\n", 1)
	}
	return formatted
}

func autoFormatProse(text string) string {
	formatted := formatSentences(text, true)
	if formatted == text {
		return text
	}

	// Force mid-line list markers onto their own lines
	formatted = reInlineOrdered.ReplaceAllString(formatted, "$1\n$2")
	formatted = reInlineUnordered.ReplaceAllString(formatted, "$1\n$2")

	// Collapse runs of blank lines
	formatted = reBlankRun.ReplaceAllString(formatted, "\n\n")

	return formatted
}

// formatSentences splits text on sentence boundaries and rebuilds it as
// a lead paragraph followed by paragraphs and promoted headings. When
// questionHeadings is true a short segment ending in '?' is promoted
// too, not only one ending in ':'.
func formatSentences(text string, questionHeadings bool) string {
	segments := splitSentences(text)
	if len(segments) <= 1 {
		return text
	}

	parts := make([]string, 0, len(segments))
	parts = append(parts, strings.TrimSpace(segments[0]))

	for _, seg := range segments[1:] {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if len(seg) < headingThreshold && isHeadingLike(seg, questionHeadings) {
			parts = append(parts, "## "+seg)
		} else {
			parts = append(parts, seg)
		}
	}

	return strings.Join(parts, "\n\n")
}

func isHeadingLike(seg string, questionHeadings bool) bool {
	if strings.HasSuffix(seg, ":") {
		return true
	}
	return questionHeadings && strings.HasSuffix(seg, "?")
}

// splitSentences splits on ". ", "? ", or "! " immediately followed by
// an uppercase letter. Terminators stay with the preceding segment.
func splitSentences(text string) []string {
	var segments []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes)-2; i++ {
		r := runes[i]
		if (r == '.' || r == '?' || r == '!') && runes[i+1] == ' ' && unicode.IsUpper(runes[i+2]) {
			segments = append(segments, string(runes[start:i+1]))
			start = i + 2
			i++ // skip the space
		}
	}

	if start < len(runes) {
		segments = append(segments, string(runes[start:]))
	}
	return segments
}

func codePlaceholder(i int) string {
	return fmt.Sprintf("__CODE_BLOCK_%d__", i)
}
