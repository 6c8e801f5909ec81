package export

import (
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 10.0
	pdfLineHeight = 6.0
)

// WritePDF renders the tables on landscape A4 pages.
func WritePDF(w io.Writer, doc Document, opts Options) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(doc.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "L", false, 0, "")

	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pdfMargin

	for _, t := range doc.Tables {
		if len(t.Header) == 0 {
			continue
		}
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 8, tr(t.Title), "", 1, "L", false, 0, "")

		widths := columnWidths(usable, len(t.Header))

		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(220, 220, 220)
		for i, h := range t.Header {
			pdf.CellFormat(widths[i], pdfLineHeight, fit(pdf, tr(h), widths[i]), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 8)
		for _, row := range t.Rows {
			for i, v := range row {
				if i >= len(widths) {
					break
				}
				align := "L"
				if isNumeric(v) {
					align = "R"
				}
				text := fit(pdf, tr(formatCell(v, opts.Precision)), widths[i])
				pdf.CellFormat(widths[i], pdfLineHeight, text, "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	return pdf.Output(w)
}

// columnWidths gives the first column twice the width of the others.
func columnWidths(total float64, n int) []float64 {
	unit := total / float64(n+1)
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = unit
	}
	widths[0] = 2 * unit
	return widths
}

// fit truncates s with an ellipsis so it fits in width mm at the current font.
func fit(pdf *fpdf.Fpdf, s string, width float64) string {
	const padding = 2.0
	if pdf.GetStringWidth(s) <= width-padding {
		return s
	}
	// s is already in the single-byte font encoding, so byte slicing is safe.
	n := len(s)
	for n > 0 && pdf.GetStringWidth(s[:n]+"...") > width-padding {
		n--
	}
	return s[:n] + "..."
}
