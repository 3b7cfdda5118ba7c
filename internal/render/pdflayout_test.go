package render

import (
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/docscan/internal/extraction"
)

// testPageConfig gives round numbers: every line is 10pt tall and the
// usable area runs from y=20 to y=180.
func testPageConfig() PageConfig {
	return PageConfig{
		Width:        1000,
		Height:       200,
		MarginTop:    20,
		MarginBottom: 20,
		MarginLeft:   10,
		MarginRight:  10,
		Title:        Font{Class: FontTitle, Size: 10, LineHeightRatio: 1},
		Heading:      Font{Class: FontHeading, Size: 10, LineHeightRatio: 1},
		Body:         Font{Class: FontBody, Size: 10, LineHeightRatio: 1},
	}
}

func bodyLines(page Page) []TextBlock {
	var blocks []TextBlock
	for _, b := range page.Blocks {
		if b.Font == FontBody {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

func resultWithFields(n int, value string) *extraction.Result {
	data := extraction.NewData()
	for i := 0; i < n; i++ {
		data.Set(fmt.Sprintf("f%02d", i), value)
	}
	return &extraction.Result{DocumentType: extraction.Form, StructuredData: data}
}

var _ = Describe("WrapText", func() {
	var (
		font Font
		m    Measurer
	)

	BeforeEach(func() {
		// 5pt per glyph
		font = Font{Class: FontBody, Size: 10, LineHeightRatio: 1}
		m = DefaultMeasurer()
	})

	It("should keep short text on one line", func() {
		Expect(WrapText("hello world", 100, font, m)).To(Equal([]string{"hello world"}))
	})

	It("should break between words", func() {
		Expect(WrapText("aaaa bbbb cccc", 50, font, m)).To(Equal([]string{"aaaa bbbb", "cccc"}))
	})

	It("should honour newlines and keep blank lines", func() {
		Expect(WrapText("one\n\ntwo", 100, font, m)).To(Equal([]string{"one", "", "two"}))
	})

	It("should split words wider than a line", func() {
		Expect(WrapText("abcdefghij", 25, font, m)).To(Equal([]string{"abcde", "fghij"}))
	})

	It("should split a long word after a short one", func() {
		Expect(WrapText("ab abcdefgh", 25, font, m)).To(Equal([]string{"ab", "abcde", "fgh"}))
	})

	It("should be deterministic", func() {
		text := strings.Repeat("lorem ipsum dolor ", 40)
		Expect(WrapText(text, 120, font, m)).To(Equal(WrapText(text, 120, font, m)))
	})
})

var _ = Describe("Layout", func() {
	var (
		cfg    PageConfig
		result *extraction.Result
		pages  []Page
	)

	BeforeEach(func() {
		cfg = testPageConfig()
	})

	JustBeforeEach(func() {
		pages = Layout(result, "Title", cfg, DefaultMeasurer())
	})

	When("the document is small", func() {
		BeforeEach(func() {
			result = receiptResult()
			result.FormattedSummary = "Summary"
		})

		It("should fit on one page numbered 1", func() {
			Expect(pages).To(HaveLen(1))
			Expect(pages[0].Number).To(Equal(1))
		})

		It("should draw the title first at the top margin", func() {
			Expect(pages[0].Blocks[0]).To(Equal(TextBlock{Text: "Title", X: 10, Y: 20, Font: FontTitle}))
		})

		It("should draw summary, details, fields and full text in order", func() {
			var texts []string
			for _, b := range pages[0].Blocks {
				texts = append(texts, b.Text)
			}
			Expect(texts).To(HaveLen(9))
			Expect(texts[1]).To(Equal("Summary"))
			Expect(texts[2]).To(Equal("Details"))
			Expect(texts[3]).To(Equal("Vendor Name: Acme"))
			Expect(texts[4]).To(HavePrefix("Items: "))
			Expect(texts[5]).To(Equal("Total: 3"))
			Expect(texts[6:]).To(Equal([]string{"Full text", "Acme Store", "Pen x2"}))
		})

		It("should advance y by one line height per line", func() {
			Expect(pages[0].Blocks[1].Y).To(Equal(30.0))
			Expect(pages[0].Blocks[2].Y).To(Equal(40.0))
			Expect(pages[0].Blocks[3].Y).To(Equal(50.0))
		})

		It("should lay out identically twice", func() {
			Expect(Layout(result, "Title", cfg, DefaultMeasurer())).To(Equal(pages))
		})
	})

	When("single-line fields overflow the first page", func() {
		BeforeEach(func() {
			// page 1: title y=20, heading y=30, fields at y=40..170 (14 fields)
			// page 2: fields at y=20..170 (16 fields)
			result = resultWithFields(30, "v")
		})

		It("should use the minimal page count", func() {
			Expect(pages).To(HaveLen(2))
			Expect(bodyLines(pages[0])).To(HaveLen(14))
			Expect(bodyLines(pages[1])).To(HaveLen(16))
		})

		It("should restart y at the top margin on the new page", func() {
			Expect(pages[1].Blocks[0].Y).To(Equal(20.0))
			Expect(pages[1].Number).To(Equal(2))
		})
	})

	When("one more field is added", func() {
		BeforeEach(func() {
			result = resultWithFields(31, "v")
		})

		It("should need a third page", func() {
			Expect(pages).To(HaveLen(3))
			Expect(bodyLines(pages[2])).To(HaveLen(1))
		})
	})

	When("fields wrap to several lines", func() {
		BeforeEach(func() {
			result = resultWithFields(12, "a\nb\nc")
		})

		It("should never split a field across pages", func() {
			for _, page := range pages {
				lines := bodyLines(page)
				Expect(len(lines)%3).To(Equal(0), "page %d has a split field", page.Number)
				for i := 0; i < len(lines); i += 3 {
					Expect(lines[i].Text).To(HaveSuffix(": a"))
					Expect(lines[i+1].Text).To(Equal("b"))
					Expect(lines[i+2].Text).To(Equal("c"))
				}
			}
		})

		It("should pack fields greedily", func() {
			// page 1 fits 4 fields starting at y=40..130, page 2 fits 5 starting at y=20..140, page 3 the rest
			Expect(pages).To(HaveLen(3))
			Expect(bodyLines(pages[0])).To(HaveLen(12))
			Expect(bodyLines(pages[1])).To(HaveLen(15))
			Expect(bodyLines(pages[2])).To(HaveLen(9))
		})
	})

	When("the safety margin is set", func() {
		BeforeEach(func() {
			cfg.FieldSafetyMargin = 20
			result = resultWithFields(14, "v")
		})

		It("should move fields near the bottom to the next page", func() {
			Expect(pages).To(HaveLen(2))
			Expect(bodyLines(pages[0])).To(HaveLen(12))
		})
	})

	When("the full text is longer than a page", func() {
		BeforeEach(func() {
			lines := make([]string, 40)
			for i := range lines {
				lines[i] = fmt.Sprintf("line %02d", i)
			}
			result = &extraction.Result{ExtractedText: strings.Join(lines, "\n")}
		})

		It("should split it between lines across pages", func() {
			// page 1: title y=20, heading y=30, lines at y=40..170 (14 lines)
			Expect(pages).To(HaveLen(3))
			Expect(bodyLines(pages[0])).To(HaveLen(14))
			Expect(bodyLines(pages[1])).To(HaveLen(16))
			Expect(bodyLines(pages[2])).To(HaveLen(10))
			Expect(bodyLines(pages[1])[0]).To(Equal(TextBlock{Text: "line 14", X: 10, Y: 20, Font: FontBody}))
		})
	})

	When("the cursor is past the full text start limit", func() {
		BeforeEach(func() {
			cfg.FullTextReserve = 60
			result = resultWithFields(12, "v")
			result.ExtractedText = "body"
		})

		It("should start the full text on a new page", func() {
			// fields end at y=160, which is past 180-60
			Expect(pages).To(HaveLen(2))
			Expect(pages[1].Blocks[0]).To(Equal(TextBlock{Text: "Full text", X: 10, Y: 20, Font: FontHeading}))
		})
	})

	When("rawText is the only full text", func() {
		BeforeEach(func() {
			result = &extraction.Result{StructuredData: dataOf("rawText", "raw body")}
		})

		It("should draw it under the full text heading without a details section", func() {
			var texts []string
			for _, b := range pages[0].Blocks {
				texts = append(texts, b.Text)
			}
			Expect(texts).To(Equal([]string{"Title", "Full text", "raw body"}))
		})
	})

	When("both extractedText and rawText are set", func() {
		BeforeEach(func() {
			result = &extraction.Result{
				ExtractedText:  "scanned body",
				StructuredData: dataOf("rawText", "raw body"),
			}
		})

		It("should draw extractedText only", func() {
			var texts []string
			for _, b := range pages[0].Blocks {
				texts = append(texts, b.Text)
			}
			Expect(texts).To(Equal([]string{"Title", "Full text", "scanned body"}))
		})
	})
})
