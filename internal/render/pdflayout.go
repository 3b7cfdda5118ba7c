package render

import (
	"strings"
	"unicode/utf8"

	"github.com/zombor/docscan/internal/extraction"
)

// FontClass is one of the three text classes a page uses
type FontClass string

const (
	FontTitle   FontClass = "title"
	FontHeading FontClass = "heading"
	FontBody    FontClass = "body"
)

// Font is a text class with its size in points and line-height ratio
type Font struct {
	Class           FontClass
	Size            float64
	LineHeightRatio float64
}

// LineHeight is the vertical advance of one line in this font.
func (f Font) LineHeight() float64 {
	return f.Size * f.LineHeightRatio
}

// PageConfig is the page geometry used by Layout. Units are points and y
// grows downward from the top edge.
type PageConfig struct {
	Width        float64
	Height       float64
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64

	Title   Font
	Heading Font
	Body    Font

	// SectionGap is the extra space after the title, summary and details sections.
	SectionGap float64
	// FieldSafetyMargin is kept free above the bottom margin when placing a field block.
	FieldSafetyMargin float64
	// FullTextReserve is the room the full text section needs below the cursor
	// to start on the current page.
	FullTextReserve float64
}

// DefaultPageConfig is an A4 page with 50pt margins.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Width:             595.28,
		Height:            841.89,
		MarginTop:         50,
		MarginBottom:      50,
		MarginLeft:        50,
		MarginRight:       50,
		Title:             Font{Class: FontTitle, Size: 18, LineHeightRatio: 1.5},
		Heading:           Font{Class: FontHeading, Size: 14, LineHeightRatio: 1.4},
		Body:              Font{Class: FontBody, Size: 11, LineHeightRatio: 1.4},
		SectionGap:        10,
		FieldSafetyMargin: 20,
		FullTextReserve:   100,
	}
}

// ContentWidth is the usable line width between the side margins.
func (c PageConfig) ContentWidth() float64 {
	return c.Width - c.MarginLeft - c.MarginRight
}

func (c PageConfig) bottomLimit() float64 {
	return c.Height - c.MarginBottom
}

func (c PageConfig) fieldLimit() float64 {
	return c.bottomLimit() - c.FieldSafetyMargin
}

func (c PageConfig) fullTextStartLimit() float64 {
	return c.bottomLimit() - c.FullTextReserve
}

func (c PageConfig) font(class FontClass) Font {
	switch class {
	case FontTitle:
		return c.Title
	case FontHeading:
		return c.Heading
	default:
		return c.Body
	}
}

// Measurer reports the rendered width of text in a font
type Measurer interface {
	TextWidth(text string, font Font) float64
}

// averageWidth approximates every glyph as a fixed fraction of the font size.
type averageWidth struct {
	ratio float64
}

func (a averageWidth) TextWidth(text string, font Font) float64 {
	return float64(utf8.RuneCountInString(text)) * font.Size * a.ratio
}

// DefaultMeasurer measures text as if every glyph were half an em wide.
func DefaultMeasurer() Measurer {
	return averageWidth{ratio: 0.5}
}

// TextBlock is a single line of text positioned on a page. Y is the top
// of the line box, not the baseline.
type TextBlock struct {
	Text string
	X    float64
	Y    float64
	Font FontClass
}

// Page is one laid-out page. Number starts at 1.
type Page struct {
	Number int
	Blocks []TextBlock
}

// WrapText breaks text into lines no wider than maxWidth. Newlines always
// break, blank lines are kept as empty strings and words wider than a
// whole line are split between characters.
func WrapText(text string, maxWidth float64, font Font, m Measurer) []string {
	if m == nil {
		m = DefaultMeasurer()
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if m.TextWidth(candidate, font) <= maxWidth {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			line = word
			if m.TextWidth(word, font) > maxWidth {
				chunks := splitWord(word, maxWidth, font, m)
				lines = append(lines, chunks[:len(chunks)-1]...)
				line = chunks[len(chunks)-1]
			}
		}
		lines = append(lines, line)
	}
	return lines
}

func splitWord(word string, maxWidth float64, font Font, m Measurer) []string {
	var chunks []string
	chunk := ""
	for _, r := range word {
		next := chunk + string(r)
		if chunk != "" && m.TextWidth(next, font) > maxWidth {
			chunks = append(chunks, chunk)
			next = string(r)
		}
		chunk = next
	}
	return append(chunks, chunk)
}

// pager tracks the vertical cursor while pages are filled.
type pager struct {
	cfg   PageConfig
	pages []Page
	y     float64
}

func (p *pager) newPage() {
	p.pages = append(p.pages, Page{Number: len(p.pages) + 1})
	p.y = p.cfg.MarginTop
}

func (p *pager) atTop() bool {
	return p.y <= p.cfg.MarginTop
}

func (p *pager) draw(text string, font Font) {
	if text != "" {
		page := &p.pages[len(p.pages)-1]
		page.Blocks = append(page.Blocks, TextBlock{
			Text: text,
			X:    p.cfg.MarginLeft,
			Y:    p.y,
			Font: font.Class,
		})
	}
	p.y += font.LineHeight()
}

// Layout places the title, summary, details and full text of r onto pages.
// A field's wrapped lines always stay on one page; the full text may break
// between any two lines. The result depends only on the inputs.
func Layout(r *extraction.Result, name string, cfg PageConfig, m Measurer) []Page {
	if r == nil {
		r = &extraction.Result{}
	}
	if m == nil {
		m = DefaultMeasurer()
	}
	width := cfg.ContentWidth()
	lineHeight := cfg.Body.LineHeight()

	p := &pager{cfg: cfg}
	p.newPage()
	p.draw(name, cfg.Title)
	p.y += cfg.SectionGap

	if r.FormattedSummary != "" {
		for _, line := range WrapText(r.FormattedSummary, width, cfg.Body, m) {
			p.draw(line, cfg.Body)
		}
		p.y += cfg.SectionGap
	}

	if fields := extraction.Fields(r); len(fields) > 0 {
		p.draw("Details", cfg.Heading)
		for _, f := range fields {
			lines := WrapText(f.Label+": "+f.Display, width, cfg.Body, m)
			if p.y+float64(len(lines))*lineHeight > cfg.fieldLimit() && !p.atTop() {
				p.newPage()
			}
			for _, line := range lines {
				p.draw(line, cfg.Body)
			}
		}
		p.y += cfg.SectionGap
	}

	if text := extraction.FullTextOf(r); text != "" {
		if p.y > cfg.fullTextStartLimit() {
			p.newPage()
		}
		p.draw("Full text", cfg.Heading)
		for _, line := range WrapText(text, width, cfg.Body, m) {
			if p.y+lineHeight > cfg.bottomLimit() && !p.atTop() {
				p.newPage()
			}
			p.draw(line, cfg.Body)
		}
	}

	return p.pages
}
