package htmldocx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/lexdraft/lexdraft/internal/common"
)

// ContentType is the MIME type of the produced artifact.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// MaxContentBytes bounds the HTML input accepted by Convert. Conversion has
// no internal timeout, so pathological input is rejected up front instead.
const MaxContentBytes = 4 << 20

// BaseStyle carries the document-wide defaults applied to the Normal style.
type BaseStyle struct {
	FontFamily string
	FontSizePt int
}

// DefaultStyle returns the house style for exported letters.
func DefaultStyle() BaseStyle {
	return BaseStyle{FontFamily: "Times New Roman", FontSizePt: 12}
}

// Convert transforms an HTML string into .docx bytes using the default base
// style. Oversized input and serialization failures are reported as
// common.ErrConversionFailed with the cause chained.
func Convert(src string) ([]byte, error) {
	if len(src) > MaxContentBytes {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", common.ErrConversionFailed, MaxContentBytes)
	}

	data, err := Parse(src).DOCX(DefaultStyle())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConversionFailed, err)
	}
	return data, nil
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const contentTypesXML = xmlHeader +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>` +
	`</Types>`

const rootRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentRelsXML = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>` +
	`</Relationships>`

const numberingXML = xmlHeader +
	`<w:numbering xmlns:w="` + wordNS + `">` +
	`<w:abstractNum w:abstractNumId="0">` +
	`<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/><w:lvlJc w:val="left"/>` +
	`<w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl>` +
	`</w:abstractNum>` +
	`<w:abstractNum w:abstractNumId="1">` +
	`<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/><w:lvlJc w:val="left"/>` +
	`<w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:lvl>` +
	`</w:abstractNum>` +
	`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>` +
	`<w:num w:numId="2"><w:abstractNumId w:val="1"/></w:num>` +
	`</w:numbering>`

// Numbering instances referenced from list paragraphs.
const (
	bulletNumID  = 1
	decimalNumID = 2
)

// Heading run sizes in half-points, indexed by level.
var headingSizes = [4]int{0, 32, 28, 26}

func stylesXML(style BaseStyle) string {
	font := xmlEscaper.Replace(style.FontFamily)
	sz := style.FontSizePt * 2 // w:sz is measured in half-points

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:styles xmlns:w="` + wordNS + `">`)
	fmt.Fprintf(&b, `<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr></w:rPrDefault></w:docDefaults>`,
		font, font, sz, sz)
	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>`)
	for level := 1; level <= 3; level++ {
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="Heading%d"><w:name w:val="heading %d"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="%d"/></w:pPr><w:rPr><w:b/><w:sz w:val="%d"/></w:rPr></w:style>`,
			level, level, level-1, headingSizes[level])
	}
	b.WriteString(`<w:style w:type="paragraph" w:styleId="ListBullet"><w:name w:val="List Bullet"/><w:basedOn w:val="Normal"/></w:style>`)
	b.WriteString(`<w:style w:type="paragraph" w:styleId="ListNumber"><w:name w:val="List Number"/><w:basedOn w:val="Normal"/></w:style>`)
	b.WriteString(`</w:styles>`)
	return b.String()
}

func writeRun(b *strings.Builder, run Run) {
	b.WriteString(`<w:r>`)
	if run.Bold || run.Italic {
		b.WriteString(`<w:rPr>`)
		if run.Bold {
			b.WriteString(`<w:b/>`)
		}
		if run.Italic {
			b.WriteString(`<w:i/>`)
		}
		b.WriteString(`</w:rPr>`)
	}
	b.WriteString(`<w:t xml:space="preserve">`)
	b.WriteString(xmlEscaper.Replace(run.Text))
	b.WriteString(`</w:t></w:r>`)
}

func writeBlock(b *strings.Builder, blk Block) {
	b.WriteString(`<w:p>`)
	switch blk.Kind {
	case Heading:
		fmt.Fprintf(b, `<w:pPr><w:pStyle w:val="Heading%d"/></w:pPr>`, blk.Level)
	case ListItem:
		styleID, numID := "ListBullet", bulletNumID
		if blk.Ordered {
			styleID, numID = "ListNumber", decimalNumID
		}
		fmt.Fprintf(b, `<w:pPr><w:pStyle w:val="%s"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="%d"/></w:numPr></w:pPr>`, styleID, numID)
	}
	for _, run := range blk.Runs {
		writeRun(b, run)
	}
	b.WriteString(`</w:p>`)
}

func documentXML(doc *Document) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:document xmlns:w="` + wordNS + `"><w:body>`)
	for _, blk := range doc.Blocks {
		writeBlock(&b, blk)
	}
	b.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"/></w:sectPr>`)
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

// DOCX serializes the document model into a .docx (OOXML) package with the
// given base style. Heading blocks map to Heading1-3, list items to
// List Bullet / List Number, everything else to Normal.
func (d *Document) DOCX(style BaseStyle) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", rootRelsXML},
		{"word/_rels/document.xml.rels", documentRelsXML},
		{"word/styles.xml", stylesXML(style)},
		{"word/numbering.xml", numberingXML},
		{"word/document.xml", documentXML(d)},
	}

	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", part.name, err)
		}
		if _, err := f.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("writing %s: %w", part.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing package: %w", err)
	}
	return buf.Bytes(), nil
}
