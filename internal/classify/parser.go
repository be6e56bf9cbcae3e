package classify

import (
	"regexp"
	"strings"

	"github.com/hayhai/hayhai/internal/model"
)

// Engine classifies raw answer text into an ordered block sequence.
// A fresh accumulator is created per call, so one Engine is safe to
// reuse across answers.
type Engine struct {
	// OnAutoFormat, if set, fires with the normalized text whenever the
	// auto-format path is taken (input carried no structural markers).
	OnAutoFormat func(text string)
}

// NewEngine creates a new classification engine
func NewEngine() *Engine {
	return &Engine{}
}

var (
	reFenceLine = regexp.MustCompile("^```([A-Za-z0-9+#._-]*)$")
	reOrdered   = regexp.MustCompile(`^\d+\.\s(.*)`)
	reUnordered = regexp.MustCompile(`^[•\-]\s(.*)`)
	reCitation  = regexp.MustCompile(`^\[Source \d+(?:,\s*\d+)?\]$`)
	reSeparator = regexp.MustCompile(`^[\s|:\-]+$`)
)

// Classify decomposes an answer string into typed content blocks.
// It is total: any input, including the empty string, yields a valid
// (possibly empty) sequence and never panics.
func (e *Engine) Classify(answer string) []model.Block {
	if strings.TrimSpace(answer) == "" {
		return nil
	}

	text := NormalizeFences(answer)
	if !HasStructure(text) {
		if e.OnAutoFormat != nil {
			e.OnAutoFormat(text)
		}
		text = AutoFormat(text)
	}

	return parseBlocks(text)
}

// scanState tracks which multi-line construct is currently open. At
// most one is open at a time; the paragraph buffer rides alongside and
// is flushed whenever a construct opens.
type scanState int

const (
	stateIdle scanState = iota
	stateInCode
	stateInTable
	stateInList
)

type parser struct {
	blocks []model.Block
	state  scanState

	paragraph []string // pending paragraph lines

	codeLang string
	codeBody []string

	tableHeaders []string
	tableRows    [][]string

	listItems   []string
	listOrdered bool
}

// parseBlocks runs the single forward pass over normalized text.
// Classification priority per line: fence > table > heading > list >
// citation > blank > text. Each line is consumed by exactly one rule.
func parseBlocks(text string) []model.Block {
	p := &parser{}
	lines := strings.Split(text, "\n")

	for i, raw := range lines {
		line := strings.TrimSpace(raw)

		// 1. Code fence toggles code mode
		if m := reFenceLine.FindStringSubmatch(line); m != nil {
			if p.state == stateInCode {
				p.closeCode()
			} else {
				p.flushParagraph()
				p.closeOpen()
				p.state = stateInCode
				p.codeLang = m[1]
			}
			continue
		}

		if p.state == stateInCode {
			p.codeBody = append(p.codeBody, raw)
			continue
		}

		// 2. Table row
		if strings.Contains(line, "|") {
			p.handleTableLine(line, peek(lines, i))
			continue
		}
		if p.state == stateInTable {
			// Normalization guarantees the look-ahead close fired, but
			// close defensively if a non-pipe line arrives anyway.
			p.closeTable()
		}

		// 3. Heading ("## " checked before "# ")
		if strings.HasPrefix(line, "## ") {
			p.flushParagraph()
			p.closeOpen()
			p.blocks = append(p.blocks, model.Heading{Text: strings.TrimSpace(line[3:]), Level: 2})
			continue
		}
		if strings.HasPrefix(line, "# ") {
			p.flushParagraph()
			p.closeOpen()
			p.blocks = append(p.blocks, model.Heading{Text: strings.TrimSpace(line[2:]), Level: 1})
			continue
		}

		// 4. List item
		if item, ordered, ok := matchListItem(line); ok {
			p.handleListLine(item, ordered, peek(lines, i))
			continue
		}
		if p.state == stateInList {
			p.closeList()
		}

		// 5. Citation
		if reCitation.MatchString(line) {
			p.flushParagraph()
			p.blocks = append(p.blocks, model.Citation{Text: line})
			continue
		}

		// 6. Blank line
		if line == "" {
			p.flushParagraph()
			continue
		}

		// 7. Plain text accumulates into the paragraph buffer
		p.paragraph = append(p.paragraph, line)
	}

	// End of input: emit everything still open. Unterminated code and
	// tables are emitted best-effort rather than dropped.
	p.flushParagraph()
	switch p.state {
	case stateInCode:
		p.closeCode()
	case stateInTable:
		p.closeTable()
	case stateInList:
		p.closeList()
	}

	return p.blocks
}

func matchListItem(line string) (item string, ordered, ok bool) {
	if m := reOrdered.FindStringSubmatch(line); m != nil {
		return m[1], true, true
	}
	if m := reUnordered.FindStringSubmatch(line); m != nil {
		return m[1], false, true
	}
	return "", false, false
}

func peek(lines []string, i int) string {
	if i+1 < len(lines) {
		return strings.TrimSpace(lines[i+1])
	}
	return ""
}

func (p *parser) handleTableLine(line, next string) {
	if reSeparator.MatchString(line) {
		// Separator rows (dashes, pipes, colons) carry no cells
	} else if p.state != stateInTable {
		p.flushParagraph()
		p.closeOpen()
		p.state = stateInTable
		p.tableHeaders = splitCells(line)
	} else {
		p.tableRows = append(p.tableRows, normalizeRow(splitCells(line), len(p.tableHeaders)))
	}

	if !strings.Contains(next, "|") {
		p.closeTable()
	}
}

func (p *parser) handleListLine(item string, ordered bool, next string) {
	p.flushParagraph()
	if p.state == stateInList && p.listOrdered != ordered {
		p.closeList()
	}
	if p.state != stateInList {
		p.closeOpen()
		p.state = stateInList
		p.listOrdered = ordered
	}
	p.listItems = append(p.listItems, strings.TrimSpace(item))

	if _, _, ok := matchListItem(next); !ok {
		p.closeList()
	}
}

// splitCells splits a table line on pipes, trimming each cell and
// dropping the empty artifacts produced by leading/trailing pipes.
func splitCells(line string) []string {
	var cells []string
	for _, cell := range strings.Split(line, "|") {
		cell = strings.TrimSpace(cell)
		if cell != "" {
			cells = append(cells, cell)
		}
	}
	return cells
}

// normalizeRow pads a short row with empty cells to the header width
// and truncates an over-long row to it, so every emitted row has
// exactly len(headers) cells.
func normalizeRow(cells []string, width int) []string {
	if len(cells) == width {
		return cells
	}
	if len(cells) > width {
		return cells[:width]
	}
	row := make([]string, width)
	copy(row, cells)
	return row
}

func (p *parser) flushParagraph() {
	if len(p.paragraph) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(p.paragraph, " "))
	p.paragraph = nil
	if text != "" {
		p.blocks = append(p.blocks, model.Paragraph{Text: text})
	}
}

// closeOpen closes whatever multi-line construct is currently open.
// Called before opening a new one so at most one is open at a time.
func (p *parser) closeOpen() {
	switch p.state {
	case stateInTable:
		p.closeTable()
	case stateInList:
		p.closeList()
	}
}

func (p *parser) closeCode() {
	content := strings.Trim(strings.Join(p.codeBody, "\n"), "\n")
	p.blocks = append(p.blocks, model.CodeBlock{Content: content, Language: p.codeLang})
	p.codeBody = nil
	p.codeLang = ""
	p.state = stateIdle
}

func (p *parser) closeTable() {
	if p.state != stateInTable {
		return
	}
	if len(p.tableHeaders) > 0 {
		rows := p.tableRows
		if rows == nil {
			rows = [][]string{}
		}
		p.blocks = append(p.blocks, model.Table{Headers: p.tableHeaders, Rows: rows})
	}
	p.tableHeaders = nil
	p.tableRows = nil
	p.state = stateIdle
}

func (p *parser) closeList() {
	if p.state != stateInList {
		return
	}
	if len(p.listItems) > 0 {
		p.blocks = append(p.blocks, model.List{Items: p.listItems, Ordered: p.listOrdered})
	}
	p.listItems = nil
	p.state = stateIdle
}
