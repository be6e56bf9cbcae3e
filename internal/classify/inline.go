package classify

import (
	"regexp"
	"strings"
)

// Span is one segment of inline text. Code spans come from non-greedy
// backtick pairs; everything else, including unpaired backticks, stays
// literal text.
type Span struct {
	Text string
	Code bool
}

var reInlineCode = regexp.MustCompile("`([^`\n]+)`")

// Spans splits the text payload of a paragraph, list item, or table
// cell into ordered inline spans. Heading, citation, and code-block
// content is never passed through here.
func Spans(text string) []Span {
	matches := reInlineCode.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Span{{Text: text}}
	}

	var spans []Span
	prev := 0
	for _, m := range matches {
		if m[0] > prev {
			spans = append(spans, Span{Text: text[prev:m[0]]})
		}
		spans = append(spans, Span{Text: text[m[2]:m[3]], Code: true})
		prev = m[1]
	}
	if prev < len(text) {
		spans = append(spans, Span{Text: text[prev:]})
	}
	return spans
}

// ApplyInline rewrites every inline code span through style and
// concatenates the result. Renderers use it to mark up code spans
// without touching surrounding text.
func ApplyInline(text string, style func(code string) string) string {
	spans := Spans(text)
	var b strings.Builder
	for _, s := range spans {
		if s.Code {
			b.WriteString(style(s.Text))
		} else {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}
