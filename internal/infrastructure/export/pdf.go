package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/johnquangdev/mom-generator/internal/usecase/render"
	"github.com/johnquangdev/mom-generator/pkg/markup"
)

const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
	marginMM     = 15.0
	cellPadMM    = 1.5
	fontFamily   = "Helvetica"
	bodyFontPt   = 9.0
)

// PDFWriter draws a laid out document onto A4 pages, one PDF page per
// document page, so pagination matches the editable view exactly.
type PDFWriter struct {
	Author string
}

// NewPDFWriter creates a PDF writer
func NewPDFWriter(author string) *PDFWriter {
	return &PDFWriter{Author: author}
}

// ContentType of the produced file
func (w *PDFWriter) ContentType() string {
	return "application/pdf"
}

// Bytes renders the document to memory
func (w *PDFWriter) Bytes(doc *render.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type pdfCanvas struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	lineH  float64
	width  float64
	bottom float64
}

// Write renders the document to out
func (w *PDFWriter) Write(out io.Writer, doc *render.Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(fmt.Sprintf("%s %s", doc.Title, doc.Identifier), true)
	pdf.SetCreator("mom-generator", true)
	if w.Author != "" {
		pdf.SetAuthor(w.Author, true)
	}

	lines := doc.Options.LinesPerPage
	if lines <= 0 {
		lines = render.DefaultLinesPerPage
	}
	c := &pdfCanvas{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		lineH:  (pageHeightMM - 2*marginMM) / float64(lines),
		width:  pageWidthMM - 2*marginMM,
		bottom: pageHeightMM - marginMM,
	}

	for _, page := range doc.Pages {
		pdf.AddPage()
		y := marginMM
		for _, b := range page.Blocks {
			c.block(b, y)
			y += float64(b.Height) * c.lineH
		}
		c.footer(page.Footer)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build pdf: %w", err)
	}
	return pdf.Output(out)
}

func (c *pdfCanvas) block(b render.Block, y float64) {
	pdf := c.pdf
	switch b.Kind {
	case render.BlockTitle:
		pdf.SetFont(fontFamily, "B", 16)
		pdf.SetXY(marginMM, y)
		pdf.CellFormat(c.width, c.lineH, c.tr(b.Text), "", 0, "C", false, 0, "")
		pdf.SetFont(fontFamily, "", 10)
		for i, l := range b.Lines {
			pdf.SetXY(marginMM, y+float64(i+1)*c.lineH)
			pdf.CellFormat(c.width, c.lineH, c.tr(l.Text()), "", 0, "C", false, 0, "")
		}

	case render.BlockSection:
		pdf.SetFont(fontFamily, "B", 11)
		pdf.SetXY(marginMM, y)
		pdf.CellFormat(c.width, c.lineH, c.tr(b.Text), "", 0, "L", false, 0, "")

	case render.BlockTableHeader:
		pdf.SetFont(fontFamily, "B", bodyFontPt)
		pdf.SetFillColor(230, 230, 230)
		x := marginMM
		for _, col := range b.Columns {
			w := col.Width * c.width
			pdf.SetXY(x, y)
			pdf.CellFormat(w, c.lineH, c.tr(col.Title), "1", 0, "L", true, 0, "")
			x += w
		}

	case render.BlockRow:
		x := marginMM
		h := float64(b.Row.Height) * c.lineH
		for i, col := range b.Columns {
			w := col.Width * c.width
			pdf.Rect(x, y, w, h, "D")
			if i < len(b.Row.Cells) {
				pdf.ClipRect(x, y, w, h, false)
				c.lines(b.Row.Cells[i].Lines, x+cellPadMM, y)
				pdf.ClipEnd()
			}
			x += w
		}

	case render.BlockText:
		c.lines(b.Lines, marginMM, y)
	}
}

func (c *pdfCanvas) lines(lines []markup.Line, x, y float64) {
	pdf := c.pdf
	for i, l := range lines {
		// Text() positions at the baseline.
		baseline := y + float64(i)*c.lineH + c.lineH*0.72
		cx := x
		for _, run := range l {
			style := ""
			if run.Bold {
				style = "B"
			}
			pdf.SetFont(fontFamily, style, bodyFontPt)
			txt := c.tr(run.Text)
			pdf.Text(cx, baseline, txt)
			cx += pdf.GetStringWidth(txt)
		}
	}
}

func (c *pdfCanvas) footer(f render.Footer) {
	pdf := c.pdf
	y := c.bottom - c.lineH
	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(marginMM, y, marginMM+c.width, y)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFont(fontFamily, "", 8)
	pdf.SetXY(marginMM, y)
	pdf.CellFormat(c.width/2, c.lineH, c.tr(f.Left), "", 0, "L", false, 0, "")
	pdf.SetXY(marginMM+c.width/2, y)
	pdf.CellFormat(c.width/2, c.lineH, c.tr(f.Right), "", 0, "R", false, 0, "")
}
