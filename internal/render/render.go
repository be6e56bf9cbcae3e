// Package render prints answers to a terminal: classified content
// blocks, then sources with their credibility stars.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/hayhai/hayhai/internal/classify"
	"github.com/hayhai/hayhai/internal/credibility"
	"github.com/hayhai/hayhai/internal/model"
)

const (
	ansiBold    = "\x1b[1m"
	ansiDim     = "\x1b[2m"
	ansiReverse = "\x1b[7m"
	ansiReset   = "\x1b[0m"
)

// Renderer writes answers to an output stream
type Renderer struct {
	out   io.Writer
	plain bool // no ANSI styling
}

// New creates a renderer. Set plain for non-TTY output.
func New(out io.Writer, plain bool) *Renderer {
	return &Renderer{out: out, plain: plain}
}

// RenderAnswer writes the full answer: blocks, then sources with stars
func (r *Renderer) RenderAnswer(ans *model.Answer) {
	for i, block := range ans.Blocks {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		r.renderBlock(block)
	}

	if len(ans.Sources) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.style("Sources:", ansiBold))
		for i, src := range ans.Sources {
			line := fmt.Sprintf("  %d. %s", i+1, src)
			if eval := ans.EvaluationFor(src); eval != nil {
				line += "  " + credibility.Render(eval.CredibilityScore)
			}
			fmt.Fprintln(r.out, line)
		}
	}
}

func (r *Renderer) renderBlock(block model.Block) {
	switch b := block.(type) {
	case model.Paragraph:
		fmt.Fprintln(r.out, r.inline(b.Text))

	case model.Heading:
		if b.Level == 1 {
			fmt.Fprintln(r.out, r.style(b.Text, ansiBold))
			fmt.Fprintln(r.out, strings.Repeat("═", textWidth(b.Text)))
		} else {
			fmt.Fprintln(r.out, r.style(b.Text, ansiBold))
		}

	case model.List:
		for i, item := range b.Items {
			if b.Ordered {
				fmt.Fprintf(r.out, "  %d. %s\n", i+1, r.inline(item))
			} else {
				fmt.Fprintf(r.out, "  • %s\n", r.inline(item))
			}
		}

	case model.Table:
		r.renderTable(b)

	case model.CodeBlock:
		if b.Language != "" {
			fmt.Fprintln(r.out, r.style("["+b.Language+"]", ansiDim))
		}
		for _, line := range strings.Split(b.Content, "\n") {
			fmt.Fprintln(r.out, "    "+line)
		}

	case model.Citation:
		fmt.Fprintln(r.out, r.style(b.Text, ansiDim))
	}
}

func (r *Renderer) renderTable(t model.Table) {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = textWidth(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && textWidth(cell) > widths[i] {
				widths[i] = textWidth(cell)
			}
		}
	}

	r.renderRow(t.Headers, widths, true)
	sep := make([]string, len(t.Headers))
	for i := range sep {
		sep[i] = strings.Repeat("-", widths[i])
	}
	r.renderRow(sep, widths, false)
	for _, row := range t.Rows {
		r.renderRow(row, widths, false)
	}
}

func (r *Renderer) renderRow(cells []string, widths []int, header bool) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		padded := cell + strings.Repeat(" ", widths[i]-textWidth(cell))
		if header {
			padded = r.style(padded, ansiBold)
		} else {
			padded = r.inline(padded)
		}
		parts[i] = padded
	}
	fmt.Fprintln(r.out, "  "+strings.Join(parts, " | "))
}

// inline marks up backtick code spans; in plain mode the backticks are
// simply dropped
func (r *Renderer) inline(text string) string {
	return classify.ApplyInline(text, func(code string) string {
		if r.plain {
			return code
		}
		return ansiReverse + code + ansiReset
	})
}

func (r *Renderer) style(text, code string) string {
	if r.plain {
		return text
	}
	return code + text + ansiReset
}

func textWidth(s string) int {
	return len([]rune(s))
}
