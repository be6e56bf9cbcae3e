package model

import "encoding/json"

// BlockType identifies the variant of a content block
type BlockType string

const (
	BlockParagraph BlockType = "paragraph"  // Plain prose
	BlockHeading   BlockType = "heading"    // Section heading, level 1 or 2
	BlockList      BlockType = "list"       // Ordered or unordered list
	BlockTable     BlockType = "table"      // Header row plus data rows
	BlockCode      BlockType = "code"       // Fenced code region
	BlockCitation  BlockType = "citation"   // [Source N] reference line
)

// Block is one classified, renderable unit of an answer.
// The variant set is closed: only the six types below implement it.
type Block interface {
	Type() BlockType
	block() // marker: keeps the variant set closed to this package
}

// Paragraph is a run of plain prose
type Paragraph struct {
	Text string `json:"text"`
}

// Heading is a section heading
type Heading struct {
	Text  string `json:"text"`
	Level int    `json:"level"` // 1 or 2
}

// List is an ordered or unordered list
type List struct {
	Items   []string `json:"items"`
	Ordered bool     `json:"ordered"`
}

// Table is a header row plus zero or more data rows.
// Every row has exactly len(Headers) cells.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// CodeBlock is the body of a fenced code region
type CodeBlock struct {
	Content  string `json:"content"`
	Language string `json:"language,omitempty"`
}

// Citation is a bracketed source reference line, kept verbatim
type Citation struct {
	Text string `json:"text"`
}

func (Paragraph) Type() BlockType { return BlockParagraph }
func (Heading) Type() BlockType   { return BlockHeading }
func (List) Type() BlockType      { return BlockList }
func (Table) Type() BlockType     { return BlockTable }
func (CodeBlock) Type() BlockType { return BlockCode }
func (Citation) Type() BlockType  { return BlockCitation }

func (Paragraph) block() {}
func (Heading) block()   {}
func (List) block()      {}
func (Table) block()     {}
func (CodeBlock) block() {}
func (Citation) block()  {}

// taggedBlock is the wire shape: the block payload plus a type tag
type taggedBlock struct {
	Block Block
}

// MarshalJSON flattens the block payload and adds the "type" tag
func (t taggedBlock) MarshalJSON() ([]byte, error) {
	payload, err := json.Marshal(t.Block)
	if err != nil {
		return nil, err
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	m["type"] = t.Block.Type()
	return json.Marshal(m)
}

// MarshalBlocks encodes blocks for the HTTP surface, wrapping each
// payload with its type tag so consumers can dispatch on "type".
func MarshalBlocks(blocks []Block) ([]byte, error) {
	out := make([]taggedBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, taggedBlock{Block: b})
	}
	return json.Marshal(out)
}
