package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const (
	wmlNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	// A4 with 1in margins, in twentieths of a point.
	docxPageWidth    = 11906
	docxPageHeight   = 16838
	docxPageMargin   = 1440
	docxContentWidth = docxPageWidth - 2*docxPageMargin
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

// half-point font sizes per paragraph style
var docxSizes = map[ParagraphStyle]int{
	StyleTitle:   36,
	StyleHeading: 28,
	StyleBody:    22,
}

// EncodeDOCX writes tree as a minimal OOXML word-processing package.
// modTime stamps every zip entry so the same tree always encodes to the same bytes.
func EncodeDOCX(tree *Tree, modTime time.Time) ([]byte, error) {
	var output bytes.Buffer
	writer := zip.NewWriter(&output)

	parts := []struct {
		name    string
		content []byte
	}{
		{"[Content_Types].xml", []byte(contentTypesXML)},
		{"_rels/.rels", []byte(rootRelsXML)},
		{"word/document.xml", documentXML(tree)},
	}

	for _, part := range parts {
		w, err := writer.CreateHeader(&zip.FileHeader{
			Name:     part.name,
			Method:   zip.Deflate,
			Modified: modTime,
		})
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", part.name, err)
		}
		if _, err := w.Write(part.content); err != nil {
			return nil, fmt.Errorf("writing %s: %w", part.name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing docx package: %w", err)
	}
	return output.Bytes(), nil
}

func documentXML(tree *Tree) []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="` + wmlNamespace + `"><w:body>`)

	if tree != nil {
		for _, block := range tree.Blocks {
			switch blk := block.(type) {
			case *Paragraph:
				writeParagraph(&b, blk)
			case *Table:
				writeTable(&b, blk)
			}
		}
	}

	fmt.Fprintf(&b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`, docxPageWidth, docxPageHeight)
	fmt.Fprintf(&b, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="708" w:footer="708" w:gutter="0"/>`,
		docxPageMargin, docxPageMargin, docxPageMargin, docxPageMargin)
	b.WriteString(`</w:sectPr></w:body></w:document>`)
	return b.Bytes()
}

func writeParagraph(b *bytes.Buffer, p *Paragraph) {
	b.WriteString("<w:p>")
	if p.Style == StyleTitle || p.Style == StyleHeading {
		b.WriteString(`<w:pPr><w:spacing w:before="240" w:after="120"/></w:pPr>`)
	}
	for _, r := range p.Runs {
		writeRun(b, r, docxSizes[p.Style])
	}
	b.WriteString("</w:p>")
}

func writeRun(b *bytes.Buffer, r Run, size int) {
	b.WriteString("<w:r>")
	if r.Bold || r.Italic || size > 0 {
		b.WriteString("<w:rPr>")
		if r.Bold {
			b.WriteString("<w:b/>")
		}
		if r.Italic {
			b.WriteString("<w:i/>")
		}
		if size > 0 {
			fmt.Fprintf(b, `<w:sz w:val="%d"/>`, size)
		}
		b.WriteString("</w:rPr>")
	}
	lines := strings.Split(strings.ReplaceAll(r.Text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if i > 0 {
			b.WriteString("<w:br/>")
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		xml.EscapeText(b, []byte(line))
		b.WriteString("</w:t>")
	}
	b.WriteString("</w:r>")
}

func writeTable(b *bytes.Buffer, t *Table) {
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/>`)
	if t.Bordered {
		b.WriteString("<w:tblBorders>")
		for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
			fmt.Fprintf(b, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="auto"/>`, edge)
		}
		b.WriteString("</w:tblBorders>")
	}
	b.WriteString(`<w:tblLayout w:type="fixed"/></w:tblPr><w:tblGrid>`)
	for _, pct := range t.ColumnWidths {
		fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, docxContentWidth*pct/100)
	}
	b.WriteString("</w:tblGrid>")

	for _, row := range t.Rows {
		b.WriteString("<w:tr>")
		for i, cell := range row.Cells {
			b.WriteString("<w:tc><w:tcPr>")
			if i < len(t.ColumnWidths) {
				// pct widths are in fiftieths of a percent
				fmt.Fprintf(b, `<w:tcW w:w="%d" w:type="pct"/>`, t.ColumnWidths[i]*50)
			}
			b.WriteString("</w:tcPr><w:p>")
			for _, r := range cell.Runs {
				writeRun(b, r, 0)
			}
			b.WriteString("</w:p></w:tc>")
		}
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>")
}
