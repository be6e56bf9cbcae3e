package classify

import (
	"reflect"
	"testing"

	"github.com/hayhai/hayhai/internal/model"
)

func TestEngine_Classify_Empty(t *testing.T) {
	engine := NewEngine()

	for _, input := range []string{"", "   ", "\n\n\t"} {
		blocks := engine.Classify(input)
		if len(blocks) != 0 {
			t.Errorf("Expected no blocks for %q, got %d", input, len(blocks))
		}
	}
}

func TestEngine_Classify_CodeBlock(t *testing.T) {
	engine := NewEngine()

	blocks := engine.Classify("```python\nprint(1)\n```")
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}

	code, ok := blocks[0].(model.CodeBlock)
	if !ok {
		t.Fatalf("Expected CodeBlock, got %T", blocks[0])
	}
	if code.Language != "python" {
		t.Errorf("Expected language 'python', got %q", code.Language)
	}
	if code.Content != "print(1)" {
		t.Errorf("Expected content 'print(1)', got %q", code.Content)
	}
}

func TestEngine_Classify_HeadingAndParagraph(t *testing.T) {
	engine := NewEngine()

	blocks := engine.Classify("## Title\nbody text")
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}

	heading, ok := blocks[0].(model.Heading)
	if !ok {
		t.Fatalf("Expected Heading, got %T", blocks[0])
	}
	if heading.Level != 2 || heading.Text != "Title" {
		t.Errorf("Expected level-2 heading 'Title', got level %d %q", heading.Level, heading.Text)
	}

	para, ok := blocks[1].(model.Paragraph)
	if !ok {
		t.Fatalf("Expected Paragraph, got %T", blocks[1])
	}
	if para.Text != "body text" {
		t.Errorf("Expected paragraph 'body text', got %q", para.Text)
	}
}

func TestEngine_Classify_HeadingLevels(t *testing.T) {
	engine := NewEngine()

	blocks := engine.Classify("# Top\n## Sub")
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}

	h1 := blocks[0].(model.Heading)
	if h1.Level != 1 || h1.Text != "Top" {
		t.Errorf("Expected level-1 heading 'Top', got level %d %q", h1.Level, h1.Text)
	}
	h2 := blocks[1].(model.Heading)
	if h2.Level != 2 || h2.Text != "Sub" {
		t.Errorf("Expected level-2 heading 'Sub', got level %d %q", h2.Level, h2.Text)
	}
}

func TestEngine_Classify_OrderedList(t *testing.T) {
	engine := NewEngine()

	blocks := engine.Classify("1. a\n2. b\n")
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}

	list, ok := blocks[0].(model.List)
	if !ok {
		t.Fatalf("Expected List, got %T", blocks[0])
	}
	if !list.Ordered {
		t.Error("Expected ordered list")
	}
	if !reflect.DeepEqual(list.Items, []string{"a", "b"}) {
		t.Errorf("Expected items [a b], got %v", list.Items)
	}
}

func TestEngine_Classify_UnorderedList(t *testing.T) {
	engine := NewEngine()

	blocks := engine.Classify("• first point\n- second point")
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}

	list := blocks[0].(model.List)
	if list.Ordered {
		t.Error("Expected unordered list")
	}
	if !reflect.DeepEqual(list.Items, []string{"first point", "second point"}) {
		t.Errorf("Expected items [first point, second point], got %v", list.Items)
	}
}

func TestEngine_Classify_MixedListKinds(t *testing.T) {
	engine := NewEngine()

	// A kind switch mid-run closes the open list and starts a new one
	blocks := engine.Classify("1. alpha\n2. beta\n- gamma\n- delta")
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}

	first := blocks[0].(model.List)
	if !first.Ordered || len(first.Items) != 2 {
		t.Errorf("Expected ordered list of 2, got ordered=%v items=%v", first.Ordered, first.Items)
	}
	second := blocks[1].(model.List)
	if second.Ordered || len(second.Items) != 2 {
		t.Errorf("Expected unordered list of 2, got ordered=%v items=%v", second.Ordered, second.Items)
	}
}

func TestEngine_Classify_Table(t *testing.T) {
	engine := NewEngine()

	blocks := engine.Classify("Name | Age\n--- | ---\nAlice | 30\nBob | 40")
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}

	table, ok := blocks[0].(model.Table)
	if !ok {
		t.Fatalf("Expected Table, got %T", blocks[0])
	}
	if !reflect.DeepEqual(table.Headers, []string{"Name", "Age"}) {
		t.Errorf("Expected headers [Name Age], got %v", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
	}
	for i, row := range table.Rows {
		if len(row) != 2 {
			t.Errorf("Expected row %d to have 2 cells, got %d", i, len(row))
		}
	}
	if !reflect.DeepEqual(table.Rows[0], []string{"Alice", "30"}) {
		t.Errorf("Expected first row [Alice 30], got %v", table.Rows[0])
	}
}

func TestEngine_Classify_RaggedTableRows(t *testing.T) {
	engine := NewEngine()

	// Over-long rows truncate and short rows pad to the header width
	blocks := engine.Classify("A | B\nx | y | z\nq | r\nw | w | w | w")
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}

	table := blocks[0].(model.Table)
	if len(table.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(table.Rows))
	}
	for i, row := range table.Rows {
		if len(row) != len(table.Headers) {
			t.Errorf("Expected row %d width %d, got %d", i, len(table.Headers), len(row))
		}
	}
	if !reflect.DeepEqual(table.Rows[0], []string{"x", "y"}) {
		t.Errorf("Expected truncated row [x y], got %v", table.Rows[0])
	}

	blocks = engine.Classify("A | B | C\nx | y")
	table = blocks[0].(model.Table)
	if !reflect.DeepEqual(table.Rows[0], []string{"x", "y", ""}) {
		t.Errorf("Expected padded row [x y ''], got %v", table.Rows[0])
	}
}

func TestEngine_Classify_TableThenParagraph(t *testing.T) {
	engine := NewEngine()

	blocks := engine.Classify("A | B\n1 | 2\nclosing remark here")
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}
	if _, ok := blocks[0].(model.Table); !ok {
		t.Errorf("Expected Table first, got %T", blocks[0])
	}
	para, ok := blocks[1].(model.Paragraph)
	if !ok {
		t.Fatalf("Expected Paragraph second, got %T", blocks[1])
	}
	if para.Text != "closing remark here" {
		t.Errorf("Expected paragraph 'closing remark here', got %q", para.Text)
	}
}

func TestEngine_Classify_Citation(t *testing.T) {
	engine := NewEngine()

	blocks := engine.Classify("Laksa is a noodle soup.\n[Source 1]\n[Source 1, 2]")
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(blocks))
	}

	if _, ok := blocks[0].(model.Paragraph); !ok {
		t.Errorf("Expected Paragraph first, got %T", blocks[0])
	}
	c1, ok := blocks[1].(model.Citation)
	if !ok {
		t.Fatalf("Expected Citation, got %T", blocks[1])
	}
	if c1.Text != "[Source 1]" {
		t.Errorf("Expected '[Source 1]', got %q", c1.Text)
	}
	c2 := blocks[2].(model.Citation)
	if c2.Text != "[Source 1, 2]" {
		t.Errorf("Expected '[Source 1, 2]', got %q", c2.Text)
	}
}

func TestEngine_Classify_CitationMidSentenceIsText(t *testing.T) {
	engine := NewEngine()

	// Bracketed references only count on their own line
	blocks := engine.Classify("- See [Source 1] for details")
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	list, ok := blocks[0].(model.List)
	if !ok {
		t.Fatalf("Expected List, got %T", blocks[0])
	}
	if list.Items[0] != "See [Source 1] for details" {
		t.Errorf("Unexpected list item %q", list.Items[0])
	}
}

func TestEngine_Classify_ParagraphJoining(t *testing.T) {
	engine := NewEngine()

	blocks := engine.Classify("# Intro\nline one\nline two\n\nline three")
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(blocks))
	}

	p1 := blocks[1].(model.Paragraph)
	if p1.Text != "line one line two" {
		t.Errorf("Expected joined paragraph 'line one line two', got %q", p1.Text)
	}
	p2 := blocks[2].(model.Paragraph)
	if p2.Text != "line three" {
		t.Errorf("Expected 'line three', got %q", p2.Text)
	}
}

func TestEngine_Classify_UnterminatedFence(t *testing.T) {
	engine := NewEngine()

	blocks := engine.Classify("```go\nfmt.Println(42)")
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}

	code, ok := blocks[0].(model.CodeBlock)
	if !ok {
		t.Fatalf("Expected CodeBlock, got %T", blocks[0])
	}
	if code.Language != "go" {
		t.Errorf("Expected language 'go', got %q", code.Language)
	}
	if code.Content != "fmt.Println(42)" {
		t.Errorf("Expected body preserved, got %q", code.Content)
	}
}

func TestEngine_Classify_AutoFormatHook(t *testing.T) {
	engine := NewEngine()

	var hooked string
	engine.OnAutoFormat = func(text string) {
		hooked = text
	}

	input := "Laksa is a spicy noodle soup popular in Southeast Asia. It combines Chinese and Malay cooking."
	engine.Classify(input)
	if hooked != input {
		t.Errorf("Expected hook to fire with normalized input, got %q", hooked)
	}

	// Structured input must not fire the hook
	hooked = ""
	engine.Classify("## Heading\ntext")
	if hooked != "" {
		t.Errorf("Expected no hook for structured input, got %q", hooked)
	}
}

func TestEngine_Classify_AutoFormatPromotesQuestionHeading(t *testing.T) {
	engine := NewEngine()

	blocks := engine.Classify("Overview of results. What is laksa? It is a noodle soup.")
	if len(blocks) != 3 {
		t.Fatalf("Expected 3 blocks, got %d", len(blocks))
	}

	heading, ok := blocks[1].(model.Heading)
	if !ok {
		t.Fatalf("Expected Heading, got %T", blocks[1])
	}
	if heading.Text != "What is laksa?" || heading.Level != 2 {
		t.Errorf("Expected level-2 heading 'What is laksa?', got level %d %q", heading.Level, heading.Text)
	}
}

func TestEngine_Classify_Idempotent(t *testing.T) {
	engine := NewEngine()

	inputs := []string{
		"## Title\nbody text",
		"```python\nprint(1)\n```",
		"1. a\n2. b",
		"Name | Age\nAlice | 30",
	}

	for _, input := range inputs {
		first := engine.Classify(input)
		second := engine.Classify(input)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Classification of %q not stable: %v vs %v", input, first, second)
		}
	}
}

func TestEngine_Classify_FullAnswer(t *testing.T) {
	engine := NewEngine()

	answer := "# Laksa\n" +
		"Laksa is a spicy noodle dish.\n\n" +
		"## Varieties\n" +
		"- curry laksa\n" +
		"- asam laksa\n\n" +
		"Region | Style\n" +
		"Penang | asam\n" +
		"Singapore | curry\n\n" +
		"```python\nprint('laksa')\n```\n" +
		"[Source 1, 2]"

	blocks := engine.Classify(answer)

	types := make([]model.BlockType, len(blocks))
	for i, b := range blocks {
		types[i] = b.Type()
	}

	expected := []model.BlockType{
		model.BlockHeading,
		model.BlockParagraph,
		model.BlockHeading,
		model.BlockList,
		model.BlockTable,
		model.BlockCode,
		model.BlockCitation,
	}
	if !reflect.DeepEqual(types, expected) {
		t.Errorf("Expected block sequence %v, got %v", expected, types)
	}
}
