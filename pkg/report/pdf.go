package report

import (
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin      = 40.0
	pdfTitleY      = 40.0
	pdfTableY      = 50.0
	pdfTitleSize   = 16.0
	pdfFontSize    = 7.0
	pdfCellPadding = 2.0
	pdfLineHeight  = pdfFontSize * 1.15
)

var headerFill = [3]int{26, 35, 126}

// WritePDF renders t as a landscape A4 grid. The header row is repeated at
// the top of every page.
func WritePDF(w io.Writer, t Table) error {
	pdf := fpdf.New("L", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.SetCellMargin(0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", pdfTitleSize)
	pdf.Text(pdfMargin, pdfTitleY, tr(t.Title))

	cols := columnCount(t)
	if cols == 0 {
		return pdf.Output(w)
	}

	pageW, pageH := pdf.GetPageSize()
	g := grid{
		pdf:    pdf,
		tr:     tr,
		colW:   (pageW - 2*pdfMargin) / float64(cols),
		cols:   cols,
		bottom: pageH - pdfMargin,
	}

	y := g.row(pdfTableY, t.Headers, true)
	for _, row := range t.Rows {
		lines := g.lines(row, false)
		if y+g.height(lines) > g.bottom {
			pdf.AddPage()
			y = g.row(pdfMargin, t.Headers, true)
		}
		y = g.draw(y, lines, false)
	}

	return pdf.Output(w)
}

type grid struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	colW   float64
	cols   int
	bottom float64
}

func (g grid) row(y float64, cells []string, header bool) float64 {
	return g.draw(y, g.lines(cells, header), header)
}

// lines wraps every cell of a row to the column width.
func (g grid) lines(cells []string, header bool) [][]string {
	g.font(header)
	out := make([][]string, g.cols)
	for i := range out {
		out[i] = wrap(g.pdf, g.tr(cell(cells, i)), g.colW-2*pdfCellPadding)
	}
	return out
}

func (g grid) height(lines [][]string) float64 {
	n := 1
	for _, l := range lines {
		if len(l) > n {
			n = len(l)
		}
	}
	return float64(n)*pdfLineHeight + 2*pdfCellPadding
}

func (g grid) draw(y float64, lines [][]string, header bool) float64 {
	h := g.height(lines)
	style := "D"
	g.pdf.SetDrawColor(200, 200, 200)
	if header {
		style = "FD"
		g.pdf.SetFillColor(headerFill[0], headerFill[1], headerFill[2])
		g.pdf.SetTextColor(255, 255, 255)
	} else {
		g.pdf.SetTextColor(0, 0, 0)
	}
	g.font(header)

	for i, cellLines := range lines {
		x := pdfMargin + float64(i)*g.colW
		g.pdf.Rect(x, y, g.colW, h, style)
		for j, line := range cellLines {
			g.pdf.SetXY(x+pdfCellPadding, y+pdfCellPadding+float64(j)*pdfLineHeight)
			g.pdf.CellFormat(g.colW-2*pdfCellPadding, pdfLineHeight, line, "", 0, "L", false, 0, "")
		}
	}
	return y + h
}

func (g grid) font(header bool) {
	if header {
		g.pdf.SetFont("Helvetica", "B", pdfFontSize)
		return
	}
	g.pdf.SetFont("Helvetica", "", pdfFontSize)
}

// wrap breaks s into lines no wider than width. s must already be in the
// single-byte encoding of the core fonts.
func wrap(pdf *fpdf.Fpdf, s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(strings.ReplaceAll(s, "\r", ""), "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			for len(word) > 1 && pdf.GetStringWidth(word) > width {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				n := fit(pdf, word, width)
				lines = append(lines, word[:n])
				word = word[n:]
			}
			switch {
			case line == "":
				line = word
			case pdf.GetStringWidth(line+" "+word) <= width:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// fit returns how many leading bytes of word fit in width, at least one.
func fit(pdf *fpdf.Fpdf, word string, width float64) int {
	n := 1
	for n < len(word) && pdf.GetStringWidth(word[:n+1]) <= width {
		n++
	}
	return n
}
