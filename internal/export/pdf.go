package export

// pdf.go — Rupture report PDF using go-pdf/fpdf. A4 portrait, one table row
// per reference, severity column highlighted for critical references.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/froma1976/ailogistic/internal/dto"
)

// WriteRupturePDF renders the rupture forecast to dir/ruptures_{date}.pdf and
// returns the file path.
func WriteRupturePDF(rows []dto.RuptureRow, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("pdf: create dir: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Stock Rupture Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, time.Now().Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Table header ──────────────────────────────────────────────────────────
	col := []float64{
		contentW * 0.14, // code
		contentW * 0.30, // description
		contentW * 0.10, // stock
		contentW * 0.13, // daily consumption
		contentW * 0.11, // days remaining
		contentW * 0.16, // rupture date
		contentW * 0.06, // severity marker
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col[0], 6, "Code", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col[1], 6, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col[2], 6, "Stock", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col[3], 6, "Daily Use", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col[4], 6, "Days", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col[5], 6, "Rupture", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col[6], 6, "", "B", 1, "C", false, 0, "")

	// ── Rows ──────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		desc := row.Description
		if len(desc) > 40 {
			desc = desc[:39] + "…"
		}
		days := row.DaysRemaining.StringFixed(1)
		date := row.RuptureDate
		if date == "" {
			days, date = "-", "-"
		}

		marker := ""
		switch row.Severity {
		case dto.SeverityCritical:
			pdf.SetTextColor(200, 0, 0)
			marker = "!!"
		case dto.SeverityWarning:
			pdf.SetTextColor(200, 120, 0)
			marker = "!"
		}

		pdf.CellFormat(col[0], 5, row.Code, "", 0, "L", false, 0, "")
		pdf.CellFormat(col[1], 5, desc, "", 0, "L", false, 0, "")
		pdf.CellFormat(col[2], 5, fmt.Sprintf("%d", row.Stock), "", 0, "R", false, 0, "")
		pdf.CellFormat(col[3], 5, row.DailyConsumption.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col[4], 5, days, "", 0, "R", false, 0, "")
		pdf.CellFormat(col[5], 5, date, "", 0, "L", false, 0, "")
		pdf.CellFormat(col[6], 5, marker, "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	path := filepath.Join(dir, fmt.Sprintf("ruptures_%s.pdf", time.Now().Format("2006-01-02")))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return path, nil
}
