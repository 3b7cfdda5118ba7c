package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/docscan/internal/extraction"
)

func readZipEntry(data []byte, name string) string {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	Expect(err).NotTo(HaveOccurred())
	for _, f := range reader.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		Expect(err).NotTo(HaveOccurred())
		defer rc.Close()
		content, err := io.ReadAll(rc)
		Expect(err).NotTo(HaveOccurred())
		return string(content)
	}
	Fail("zip entry not found: " + name)
	return ""
}

var _ = Describe("DocumentTree", func() {
	var (
		result *extraction.Result
		tree   *Tree
	)

	JustBeforeEach(func() {
		tree = DocumentTree(result, "Scan 7")
	})

	When("every section is present", func() {
		BeforeEach(func() {
			result = receiptResult()
			result.FormattedSummary = "A receipt"
		})

		It("should lay out title, summary, table, spacer, heading and body", func() {
			Expect(tree.Blocks).To(HaveLen(6))

			title := tree.Blocks[0].(*Paragraph)
			Expect(title.Style).To(Equal(StyleTitle))
			Expect(title.Text()).To(Equal("Scan 7"))

			summary := tree.Blocks[1].(*Paragraph)
			Expect(summary.Runs).To(Equal([]Run{{Text: "A receipt", Italic: true}}))

			table := tree.Blocks[2].(*Table)
			Expect(table.Bordered).To(BeTrue())
			Expect(table.ColumnWidths).To(Equal([]int{30, 70}))
			Expect(table.Rows).To(HaveLen(3))
			Expect(table.Rows[0].Cells[0].Runs).To(Equal([]Run{{Text: "Vendor Name", Bold: true}}))
			Expect(table.Rows[0].Cells[1].Runs).To(Equal([]Run{{Text: "Acme"}}))

			Expect(tree.Blocks[3].(*Paragraph).Style).To(Equal(StyleSpacer))
			Expect(tree.Blocks[4].(*Paragraph).Text()).To(Equal("Full text"))
			Expect(tree.Blocks[5].(*Paragraph).Text()).To(Equal("Acme Store\nPen x2"))
		})
	})

	When("there are no fields and no text", func() {
		BeforeEach(func() {
			result = &extraction.Result{DocumentType: extraction.Other}
		})

		It("should only hold the title", func() {
			Expect(tree.Blocks).To(HaveLen(1))
		})
	})

	When("only rawText holds the full text", func() {
		BeforeEach(func() {
			result = &extraction.Result{StructuredData: dataOf("rawText", "fallback")}
		})

		It("should use it for the body and not add a table", func() {
			Expect(tree.Blocks).To(HaveLen(3))
			Expect(tree.Blocks[2].(*Paragraph).Text()).To(Equal("fallback"))
		})
	})

	When("both extractedText and rawText are set", func() {
		BeforeEach(func() {
			result = &extraction.Result{
				ExtractedText:  "scanned text",
				StructuredData: dataOf("rawText", "fallback"),
			}
		})

		It("should use extractedText only", func() {
			Expect(tree.Blocks).To(HaveLen(3))
			Expect(tree.Blocks[2].(*Paragraph).Text()).To(Equal("scanned text"))
			for _, block := range tree.Blocks {
				if p, ok := block.(*Paragraph); ok {
					Expect(p.Text()).NotTo(ContainSubstring("fallback"))
				}
			}
		})
	})
})

var _ = Describe("EncodeDOCX", func() {
	var (
		modTime time.Time
		data    []byte
		err     error
	)

	BeforeEach(func() {
		modTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		result := receiptResult()
		result.StructuredData.Set("note", "fish & <chips>")
		data, err = EncodeDOCX(DocumentTree(result, "Scan 7"), modTime)
	})

	It("should not return an error", func() {
		Expect(err).NotTo(HaveOccurred())
	})

	It("should contain the package parts", func() {
		Expect(readZipEntry(data, "[Content_Types].xml")).To(ContainSubstring("wordprocessingml.document.main+xml"))
		Expect(readZipEntry(data, "_rels/.rels")).To(ContainSubstring(`Target="word/document.xml"`))
	})

	It("should write well-formed document xml", func() {
		doc := readZipEntry(data, "word/document.xml")
		decoder := xml.NewDecoder(bytes.NewReader([]byte(doc)))
		for {
			_, tokErr := decoder.Token()
			if tokErr == io.EOF {
				break
			}
			Expect(tokErr).NotTo(HaveOccurred())
		}
	})

	It("should escape text and size the columns by percent", func() {
		doc := readZipEntry(data, "word/document.xml")
		Expect(doc).To(ContainSubstring("fish &amp; &lt;chips&gt;"))
		Expect(doc).To(ContainSubstring(`<w:tcW w:w="1500" w:type="pct"/>`))
		Expect(doc).To(ContainSubstring(`<w:tcW w:w="3500" w:type="pct"/>`))
		Expect(doc).To(ContainSubstring("<w:tblBorders>"))
	})

	It("should break multi-line text into line breaks", func() {
		doc := readZipEntry(data, "word/document.xml")
		Expect(doc).To(ContainSubstring(`Acme Store</w:t><w:br/><w:t xml:space="preserve">Pen x2`))
	})

	It("should encode the same tree to the same bytes", func() {
		result := receiptResult()
		result.StructuredData.Set("note", "fish & <chips>")
		again, againErr := EncodeDOCX(DocumentTree(result, "Scan 7"), modTime)
		Expect(againErr).NotTo(HaveOccurred())
		Expect(again).To(Equal(data))
	})
})
