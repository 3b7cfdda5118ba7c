package render

import (
	"strings"

	"github.com/zombor/docscan/internal/extraction"
)

// ParagraphStyle is the role of a paragraph in a document tree
type ParagraphStyle string

const (
	StyleTitle   ParagraphStyle = "title"
	StyleHeading ParagraphStyle = "heading"
	StyleBody    ParagraphStyle = "body"
	StyleSpacer  ParagraphStyle = "spacer"
)

// Tree is an encoding-independent word-processor document
type Tree struct {
	Blocks []Block
}

// Block is a top-level element of a Tree: *Paragraph or *Table.
type Block interface {
	block()
}

// Run is a span of text with uniform formatting
type Run struct {
	Text   string
	Bold   bool
	Italic bool
}

// Paragraph is a styled sequence of runs. Text may contain newlines;
// encoders decide how to break lines.
type Paragraph struct {
	Style ParagraphStyle
	Runs  []Run
}

// Table is a grid of cells with column widths in percent of the table width
type Table struct {
	Bordered     bool
	ColumnWidths []int
	Rows         []TableRow
}

// TableRow is one row of a Table
type TableRow struct {
	Cells []TableCell
}

// TableCell holds the runs of a single cell
type TableCell struct {
	Runs []Run
}

func (*Paragraph) block() {}
func (*Table) block()     {}

// Text returns the concatenated run text of p.
func (p *Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// DocumentTree builds the word-processor tree for r: title, optional
// italic summary, a 30/70 key/value table and the full text section.
func DocumentTree(r *extraction.Result, name string) *Tree {
	if r == nil {
		r = &extraction.Result{}
	}

	tree := &Tree{}
	tree.Blocks = append(tree.Blocks, &Paragraph{
		Style: StyleTitle,
		Runs:  []Run{{Text: name, Bold: true}},
	})

	if r.FormattedSummary != "" {
		tree.Blocks = append(tree.Blocks, &Paragraph{
			Style: StyleBody,
			Runs:  []Run{{Text: r.FormattedSummary, Italic: true}},
		})
	}

	if fields := extraction.Fields(r); len(fields) > 0 {
		table := &Table{Bordered: true, ColumnWidths: []int{30, 70}}
		for _, f := range fields {
			table.Rows = append(table.Rows, TableRow{Cells: []TableCell{
				{Runs: []Run{{Text: f.Label, Bold: true}}},
				{Runs: []Run{{Text: f.Display}}},
			}})
		}
		tree.Blocks = append(tree.Blocks, table, &Paragraph{Style: StyleSpacer})
	}

	if text := extraction.FullTextOf(r); text != "" {
		tree.Blocks = append(tree.Blocks,
			&Paragraph{Style: StyleHeading, Runs: []Run{{Text: "Full text", Bold: true}}},
			&Paragraph{Style: StyleBody, Runs: []Run{{Text: text}}},
		)
	}

	return tree
}
