package htmldocx

import (
	"reflect"
	"testing"
)

func TestParse_NestedBoldItalicRuns(t *testing.T) {
	doc := Parse(`<p><b>A<i>B</i>C</b></p>`)

	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Blocks))
	}
	want := []Run{
		{Text: "A", Bold: true},
		{Text: "B", Bold: true, Italic: true},
		{Text: "C", Bold: true},
	}
	if !reflect.DeepEqual(doc.Blocks[0].Runs, want) {
		t.Fatalf("runs = %+v, want %+v", doc.Blocks[0].Runs, want)
	}
}

func TestParse_HeadingsAndParagraphs(t *testing.T) {
	doc := Parse(`<h1>Title</h1><h2>Sub</h2><h3>Minor</h3><p>Body</p>`)

	if len(doc.Blocks) != 4 {
		t.Fatalf("expected 4 blocks, got %d", len(doc.Blocks))
	}
	for i, want := range []struct {
		kind  BlockKind
		level int
		text  string
	}{
		{Heading, 1, "Title"},
		{Heading, 2, "Sub"},
		{Heading, 3, "Minor"},
		{Paragraph, 0, "Body"},
	} {
		blk := doc.Blocks[i]
		if blk.Kind != want.kind || blk.Level != want.level {
			t.Fatalf("block %d: kind=%v level=%d, want kind=%v level=%d", i, blk.Kind, blk.Level, want.kind, want.level)
		}
		if len(blk.Runs) != 1 || blk.Runs[0].Text != want.text {
			t.Fatalf("block %d runs: %+v", i, blk.Runs)
		}
	}
}

func TestParse_Lists(t *testing.T) {
	doc := Parse(`<ul><li>a</li><li>b</li></ul><ol><li>c</li></ol>`)

	if len(doc.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(doc.Blocks))
	}
	for i, wantOrdered := range []bool{false, false, true} {
		blk := doc.Blocks[i]
		if blk.Kind != ListItem || blk.Ordered != wantOrdered {
			t.Fatalf("block %d: kind=%v ordered=%v, want list ordered=%v", i, blk.Kind, blk.Ordered, wantOrdered)
		}
	}
}

func TestParse_StrayListItemBecomesParagraph(t *testing.T) {
	doc := Parse(`<li>x</li>`)

	if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != Paragraph {
		t.Fatalf("expected one paragraph block, got %+v", doc.Blocks)
	}
	if len(doc.Blocks[0].Runs) != 1 || doc.Blocks[0].Runs[0].Text != "x" {
		t.Fatalf("unexpected runs: %+v", doc.Blocks[0].Runs)
	}
}

func TestParse_UnmatchedCloseIsNoOp(t *testing.T) {
	doc := Parse(`</b>hello`)

	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Blocks))
	}
	run := doc.Blocks[0].Runs[0]
	if run.Text != "hello" || run.Bold || run.Italic {
		t.Fatalf("unexpected run: %+v", run)
	}
}

func TestParse_InterleavedCloseRemovesMostRecentMatch(t *testing.T) {
	// Closing </b> while an italic sits above the bold on the stack must
	// remove the bold, not the italic.
	doc := Parse(`<p><b><i>x</b>y</i></p>`)

	runs := doc.Blocks[0].Runs
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %+v", runs)
	}
	if !(runs[0].Bold && runs[0].Italic) {
		t.Fatalf("run 0 should be bold+italic: %+v", runs[0])
	}
	if runs[1].Bold || !runs[1].Italic {
		t.Fatalf("run 1 should be italic only: %+v", runs[1])
	}
}

func TestParse_SameTagNestedOpens(t *testing.T) {
	doc := Parse(`<p><b>a<b>b</b>c</b>d</p>`)

	runs := doc.Blocks[0].Runs
	want := []Run{
		{Text: "a", Bold: true},
		{Text: "b", Bold: true},
		{Text: "c", Bold: true},
		{Text: "d"},
	}
	if !reflect.DeepEqual(runs, want) {
		t.Fatalf("runs = %+v, want %+v", runs, want)
	}
}

func TestParse_TextNormalization(t *testing.T) {
	doc := Parse("<p>  line one  \n\n   line two  \n</p>")

	runs := doc.Blocks[0].Runs
	if len(runs) != 1 || runs[0].Text != "line one line two" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestParse_WhitespaceOnlyTextDropped(t *testing.T) {
	doc := Parse("<p>   \n\t  </p>")

	if len(doc.Blocks) != 1 || len(doc.Blocks[0].Runs) != 0 {
		t.Fatalf("expected empty paragraph, got %+v", doc.Blocks)
	}
}

func TestParse_StrayTextOpensImplicitParagraph(t *testing.T) {
	doc := Parse(`hello<p>world</p>`)

	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %+v", doc.Blocks)
	}
	if doc.Blocks[0].Kind != Paragraph || doc.Blocks[0].Runs[0].Text != "hello" {
		t.Fatalf("unexpected first block: %+v", doc.Blocks[0])
	}
}

func TestParse_UnknownTagsIgnored(t *testing.T) {
	doc := Parse(`<div><p><span>text</span></p></div>`)

	if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != Paragraph {
		t.Fatalf("unexpected blocks: %+v", doc.Blocks)
	}
	if doc.Blocks[0].Runs[0].Text != "text" {
		t.Fatalf("unexpected runs: %+v", doc.Blocks[0].Runs)
	}
}

func TestParse_ScriptAndStyleStripped(t *testing.T) {
	src := `<p>keep</p><SCRIPT type="text/javascript">alert("x")</SCRIPT><style>p { color: red }</style>`
	doc := Parse(src)

	if len(doc.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %+v", doc.Blocks)
	}
	if doc.Blocks[0].Runs[0].Text != "keep" {
		t.Fatalf("unexpected runs: %+v", doc.Blocks[0].Runs)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	doc := Parse("")
	if len(doc.Blocks) != 0 {
		t.Fatalf("expected empty document, got %+v", doc.Blocks)
	}
}

func TestParse_Deterministic(t *testing.T) {
	src := `<h1>T</h1><p>a <strong>b</strong> c</p><ul><li>d</li></ul>`
	first := Parse(src)
	second := Parse(src)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("two parses of identical input differ:\n%+v\n%+v", first, second)
	}
}

func TestParse_MismatchedListCloseKeepsContext(t *testing.T) {
	// A </ol> inside an open <ul> must not pop the unordered context.
	doc := Parse(`<ul></ol><li>a</li></ul>`)

	if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != ListItem || doc.Blocks[0].Ordered {
		t.Fatalf("unexpected blocks: %+v", doc.Blocks)
	}
}
