// Package export turns laid out documents into static files.
package export

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/johnquangdev/mom-generator/internal/usecase/render"
	"github.com/johnquangdev/mom-generator/pkg/markup"
)

// PrintWriter renders a document as monospaced text, one block of tables
// per page. Styled output uses terminal bold for bold runs.
type PrintWriter struct {
	Styled bool
}

// NewPrintWriter creates a print writer
func NewPrintWriter(styled bool) *PrintWriter {
	return &PrintWriter{Styled: styled}
}

// ContentType of the produced text
func (w *PrintWriter) ContentType() string {
	return "text/plain; charset=utf-8"
}

// String renders the whole document
func (w *PrintWriter) String(doc *render.Document) string {
	var sb strings.Builder
	for i, page := range doc.Pages {
		if i > 0 {
			sb.WriteString("\f\n")
		}
		sb.WriteString(w.page(page, doc.Options.CharsPerLine))
	}
	return sb.String()
}

// Write renders the document to out
func (w *PrintWriter) Write(out io.Writer, doc *render.Document) error {
	_, err := io.WriteString(out, w.String(doc))
	return err
}

func (w *PrintWriter) page(p render.Page, width int) string {
	var sb strings.Builder

	var group []render.Block
	flush := func() {
		if len(group) == 0 {
			return
		}
		sb.WriteString(w.table(group))
		sb.WriteString("\n")
		group = nil
	}

	for _, b := range p.Blocks {
		if b.Kind == render.BlockTableHeader || b.Kind == render.BlockRow {
			if len(group) > 0 && group[0].Table != b.Table {
				flush()
			}
			group = append(group, b)
			continue
		}
		flush()

		switch b.Kind {
		case render.BlockTitle:
			sb.WriteString(text.AlignCenter.Apply(w.bold(b.Text), width))
			sb.WriteString("\n")
			for _, l := range b.Lines {
				sb.WriteString(text.AlignCenter.Apply(w.line(l), width))
				sb.WriteString("\n")
			}
		case render.BlockSection:
			sb.WriteString(w.bold(b.Text))
			sb.WriteString("\n")
		case render.BlockSpacer:
			sb.WriteString("\n")
		case render.BlockText:
			for _, l := range b.Lines {
				sb.WriteString(w.line(l))
				sb.WriteString("\n")
			}
		}
	}
	flush()

	sb.WriteString(strings.Repeat("-", width))
	sb.WriteString("\n")
	sb.WriteString(p.Footer.Left)
	sb.WriteString(text.AlignRight.Apply(p.Footer.Right, width-len([]rune(p.Footer.Left))))
	sb.WriteString("\n")
	return sb.String()
}

func (w *PrintWriter) table(blocks []render.Block) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.Style().Options.SeparateRows = true

	for _, b := range blocks {
		if b.Kind == render.BlockTableHeader {
			header := make(table.Row, 0, len(b.Columns))
			for _, c := range b.Columns {
				header = append(header, c.Title)
			}
			tw.AppendHeader(header)
			continue
		}
		row := make(table.Row, 0, len(b.Row.Cells))
		for _, c := range b.Row.Cells {
			lines := make([]string, 0, len(c.Lines))
			for _, l := range c.Lines {
				lines = append(lines, w.line(l))
			}
			row = append(row, strings.Join(lines, "\n"))
		}
		tw.AppendRow(row)
	}

	columns := len(blocks[0].Columns)
	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       text.AlignLeft,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func (w *PrintWriter) line(l markup.Line) string {
	var sb strings.Builder
	for _, r := range l {
		if r.Bold {
			sb.WriteString(w.bold(r.Text))
			continue
		}
		sb.WriteString(r.Text)
	}
	return sb.String()
}

func (w *PrintWriter) bold(s string) string {
	if !w.Styled {
		return s
	}
	return text.Bold.Sprint(s)
}
