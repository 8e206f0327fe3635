package htmldocx

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleBlockRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
)

// stripUnsafe removes <script> and <style> blocks, content included,
// before tokenization.
func stripUnsafe(src string) string {
	src = scriptBlockRe.ReplaceAllString(src, "")
	return styleBlockRe.ReplaceAllString(src, "")
}

// Sanitize removes script and style blocks from HTML destined for storage.
// Parse applies the same stripping on its own; Sanitize exists for callers
// that persist HTML before ever converting it.
func Sanitize(src string) string {
	return stripUnsafe(src)
}

type styleFlag string

const (
	flagBold   styleFlag = "bold"
	flagItalic styleFlag = "italic"
)

// builder folds tokenizer events into the document model. It tracks the
// current open block (index into doc.Blocks, -1 when none), the stack of
// open style flags and the stack of open list contexts.
type builder struct {
	doc     Document
	current int
	styles  []styleFlag
	lists   []bool // true = ordered
}

func newBuilder() *builder {
	return &builder{current: -1}
}

func (b *builder) openBlock(blk Block) {
	b.doc.Blocks = append(b.doc.Blocks, blk)
	b.current = len(b.doc.Blocks) - 1
}

func (b *builder) closeBlock() {
	b.current = -1
}

// popStyle removes the most recently pushed instance of flag, scanning from
// the top of the stack. Interleaved closes therefore remove the matching
// flag even when it is not top-of-stack; a close with no matching open is
// a no-op.
func (b *builder) popStyle(flag styleFlag) {
	for i := len(b.styles) - 1; i >= 0; i-- {
		if b.styles[i] == flag {
			b.styles = append(b.styles[:i], b.styles[i+1:]...)
			return
		}
	}
}

func (b *builder) hasStyle(flag styleFlag) bool {
	for _, f := range b.styles {
		if f == flag {
			return true
		}
	}
	return false
}

func (b *builder) startTag(name string) {
	switch name {
	case "p":
		b.openBlock(Block{Kind: Paragraph})
	case "h1":
		b.openBlock(Block{Kind: Heading, Level: 1})
	case "h2":
		b.openBlock(Block{Kind: Heading, Level: 2})
	case "h3":
		b.openBlock(Block{Kind: Heading, Level: 3})
	case "strong", "b":
		b.styles = append(b.styles, flagBold)
	case "em", "i":
		b.styles = append(b.styles, flagItalic)
	case "ul":
		b.lists = append(b.lists, false)
	case "ol":
		b.lists = append(b.lists, true)
	case "li":
		if len(b.lists) == 0 {
			// Stray list item outside any list context.
			b.openBlock(Block{Kind: Paragraph})
		} else {
			b.openBlock(Block{Kind: ListItem, Ordered: b.lists[len(b.lists)-1]})
		}
	}
}

func (b *builder) endTag(name string) {
	switch name {
	case "p", "h1", "h2", "h3", "li":
		b.closeBlock()
	case "strong", "b":
		b.popStyle(flagBold)
	case "em", "i":
		b.popStyle(flagItalic)
	case "ul":
		if n := len(b.lists); n > 0 && !b.lists[n-1] {
			b.lists = b.lists[:n-1]
		}
	case "ol":
		if n := len(b.lists); n > 0 && b.lists[n-1] {
			b.lists = b.lists[:n-1]
		}
	}
}

// normalizeText collapses a raw text node: each line is trimmed, empty lines
// are dropped and the remainder is joined with single spaces.
func normalizeText(data string) string {
	lines := strings.Split(data, "\n")
	parts := lines[:0]
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func (b *builder) text(data string) {
	text := normalizeText(data)
	if text == "" {
		return
	}

	// Text arriving outside any block opens an implicit paragraph so that
	// content in malformed markup is not lost.
	if b.current < 0 {
		b.openBlock(Block{Kind: Paragraph})
	}

	blk := &b.doc.Blocks[b.current]
	blk.Runs = append(blk.Runs, Run{
		Text:   text,
		Bold:   b.hasStyle(flagBold),
		Italic: b.hasStyle(flagItalic),
	})
}

// Parse converts an HTML string into the document model. Script and style
// blocks are stripped up front; unrecognized tags and unbalanced closes are
// tolerated, so Parse always succeeds and may return an empty document.
func Parse(src string) *Document {
	b := newBuilder()

	z := html.NewTokenizer(strings.NewReader(stripUnsafe(src)))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// Tokenizer reports io.EOF as an error token; either way the
			// stream is done and whatever was built stands.
			return &b.doc
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			b.startTag(string(name))
		case html.EndTagToken:
			name, _ := z.TagName()
			b.endTag(string(name))
		case html.TextToken:
			b.text(string(z.Text()))
		}
	}
}
