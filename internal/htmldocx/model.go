// Package htmldocx converts a constrained HTML subset into Word (.docx)
// documents. It recognizes p, h1-h3, strong/b, em/i, ul, ol and li tags;
// everything else is passed through the tokenizer and ignored.
package htmldocx

// BlockKind identifies the structural role of a Block.
type BlockKind int

const (
	// Paragraph is a plain body paragraph.
	Paragraph BlockKind = iota
	// Heading is a heading block; Block.Level holds the level (1-3).
	Heading
	// ListItem is a bullet or numbered list entry depending on Block.Ordered.
	ListItem
)

// Run is a contiguous span of text sharing the same style flags.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
}

// Block is a top-level structural unit of the document model. Blocks appear
// in source order; every Run belongs to exactly one Block.
type Block struct {
	Kind    BlockKind
	Level   int  // heading level, meaningful when Kind == Heading
	Ordered bool // list numbering, meaningful when Kind == ListItem
	Runs    []Run
}

// Document is the ephemeral model built per conversion call. It has no
// identity beyond that call and is discarded after serialization.
type Document struct {
	Blocks []Block
}
