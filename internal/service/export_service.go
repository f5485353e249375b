package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"docforge/internal/models"
)

const (
	pdfLineWidth = 180.0
	pdfCellChars = 30
)

// ExportService renders compiled documents to PDF.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// RenderPDF renders a compiled document line by line: heading lines as bold
// 14pt text, horizontal rules as gray lines, pipe-delimited rows as bordered
// table cells, everything else as 11pt body text.
func (s *ExportService) RenderPDF(doc *models.CompiledDocument) ([]byte, error) {
	if strings.TrimSpace(doc.CompiledContent) == "" {
		return nil, ErrDocumentEmpty
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(pdfLineWidth, 9, doc.DocTitle, "", "C", false)
	pdf.Ln(4)

	for _, line := range strings.Split(doc.CompiledContent, "\n") {
		s.renderLine(pdf, line)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (s *ExportService) renderLine(pdf *fpdf.Fpdf, line string) {
	trimmed := strings.TrimSpace(line)

	switch {
	case strings.HasPrefix(trimmed, "## "):
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(pdfLineWidth, 7, strings.TrimPrefix(trimmed, "## "), "", "L", false)
		pdf.Ln(1)

	case trimmed == "---":
		pdf.Ln(2)
		pdf.SetDrawColor(180, 180, 180)
		x, y := pdf.GetX(), pdf.GetY()
		pdf.Line(x, y, x+pdfLineWidth, y)
		pdf.Ln(3)

	case strings.HasPrefix(trimmed, "|"):
		s.renderTableRow(pdf, trimmed)

	case trimmed == "":
		pdf.Ln(3)

	default:
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(pdfLineWidth, 6, trimmed, "", "L", false)
	}
}

// renderTableRow renders one pipe-delimited row as bordered cells of equal
// width. Separator rows made of dashes are skipped.
func (s *ExportService) renderTableRow(pdf *fpdf.Fpdf, row string) {
	cells := strings.Split(strings.Trim(row, "|"), "|")

	separator := true
	for _, cell := range cells {
		if strings.Trim(strings.TrimSpace(cell), "-: ") != "" {
			separator = false
			break
		}
	}
	if separator {
		return
	}

	pdf.SetFont("Helvetica", "", 10)
	width := pdfLineWidth / float64(len(cells))
	for _, cell := range cells {
		text := strings.TrimSpace(cell)
		if len(text) > pdfCellChars {
			text = text[:pdfCellChars]
		}
		pdf.CellFormat(width, 7, text, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}
