package infra

// pdf.go — Sales report export using go-pdf/fpdf.
// Generates an A4 report with one row per calendar day (date, sale count,
// total), newest day first, plus a grand-total footer.

import (
	"fmt"
	"os"
	"path/filepath"

	"tiendapos/internal/dto"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerarReportePDF writes the per-day sales report to storagePath and
// returns the absolute path of the generated file.
func GenerarReportePDF(dias []dto.ReporteDia, desde, hasta, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("reporte_%s_%s.pdf", desde, hasta)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "TiendaPOS", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Reporte de ventas %s a %s", desde, hasta), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Table header ─────────────────────────────────────────────────────────
	col1 := contentW * 0.40
	col2 := contentW * 0.25
	col3 := contentW * 0.35

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1, 7, "Fecha", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Ventas", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 7, "Total", "B", 1, "R", false, 0, "")

	// ── Rows ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 10)
	granTotal := decimal.Zero
	granCantidad := 0
	for _, d := range dias {
		pdf.CellFormat(col1, 6, d.Fecha, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, fmt.Sprintf("%d", d.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 6, "$"+d.Total.StringFixed(2), "", 1, "R", false, 0, "")
		granTotal = granTotal.Add(d.Total)
		granCantidad += d.Cantidad
	}

	pdf.Ln(2)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(2)

	// ── Footer ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1, 7, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, fmt.Sprintf("%d", granCantidad), "", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 7, "$"+granTotal.StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
