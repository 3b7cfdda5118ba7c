package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/zombor/docscan/internal/extraction"
)

// Go fonts cover Latin, Greek and Cyrillic and are embedded as UTF-8
// subsets, so scanned text keeps its original characters.
const pdfFontFamily = "Go"

// fpdfMeasurer measures text with the metrics of the document that will draw it.
type fpdfMeasurer struct {
	pdf *fpdf.Fpdf
}

func (m fpdfMeasurer) TextWidth(text string, font Font) float64 {
	m.pdf.SetFont(pdfFontFamily, fontStyle(font.Class), font.Size)
	return m.pdf.GetStringWidth(text)
}

func fontStyle(class FontClass) string {
	if class == FontTitle || class == FontHeading {
		return "B"
	}
	return ""
}

func newPDF(cfg PageConfig, created time.Time) *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: cfg.Width, Ht: cfg.Height},
	})
	pdf.SetMargins(cfg.MarginLeft, cfg.MarginTop, cfg.MarginRight)
	pdf.SetAutoPageBreak(false, cfg.MarginBottom)
	pdf.SetCatalogSort(true)
	pdf.SetCreator("docscan", true)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "B", gobold.TTF)

	// fpdf stamps the current time when no date is set
	if created.IsZero() {
		created = time.Unix(0, 0)
	}
	pdf.SetCreationDate(created.UTC())
	pdf.SetModificationDate(created.UTC())
	return pdf
}

// PDF lays out r with the metrics of the embedded fonts and encodes the pages.
func PDF(r *extraction.Result, name string, cfg PageConfig, created time.Time) ([]byte, error) {
	pdf := newPDF(cfg, created)
	pages := Layout(r, name, cfg, fpdfMeasurer{pdf: pdf})
	return drawPages(pdf, pages, cfg)
}

// EncodePDF draws already laid-out pages into a PDF document.
func EncodePDF(pages []Page, cfg PageConfig, created time.Time) ([]byte, error) {
	return drawPages(newPDF(cfg, created), pages, cfg)
}

func drawPages(pdf *fpdf.Fpdf, pages []Page, cfg PageConfig) ([]byte, error) {
	if len(pages) == 0 {
		pdf.AddPage()
	}
	for _, page := range pages {
		pdf.AddPage()
		for _, block := range page.Blocks {
			font := cfg.font(block.Font)
			pdf.SetFont(pdfFontFamily, fontStyle(block.Font), font.Size)
			// Y is the top of the line; fpdf draws on the baseline
			pdf.Text(block.X, block.Y+font.Size, block.Text)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("drawing pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}
