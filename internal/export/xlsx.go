package export

// xlsx.go — Workbook exports for the simulation and rupture screens, built
// with xuri/excelize. Each export writes one sheet and returns the file path.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/froma1976/ailogistic/internal/dto"
)

// WriteSimulationXLSX writes the weekly simulation table to
// dir/simulation_{date}.xlsx and returns the file path.
func WriteSimulationXLSX(rows []dto.SimulationRow, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Simulation"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := []interface{}{"Code", "Description", "Initial Stock", "Coef", "Required"}
	for d := 1; d <= 7; d++ {
		header = append(header, fmt.Sprintf("Day %d", d))
	}
	header = append(header, "Final Balance", "Rupture Day")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", fmt.Errorf("export: header: %w", err)
	}

	for i, row := range rows {
		cells := []interface{}{
			row.Code,
			row.Description,
			row.InitialStock,
			row.Coef.InexactFloat64(),
			row.Required.InexactFloat64(),
		}
		for _, b := range row.DailyBalance {
			cells = append(cells, b.InexactFloat64())
		}
		cells = append(cells, row.FinalBalance.InexactFloat64())
		if row.RuptureDay != nil {
			cells = append(cells, *row.RuptureDay+1)
		} else {
			cells = append(cells, "-")
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return "", fmt.Errorf("export: row %d: %w", i+2, err)
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("simulation_%s.xlsx", time.Now().Format("2006-01-02")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("export: save workbook: %w", err)
	}
	return path, nil
}

// WriteRuptureXLSX writes the rupture forecast to dir/ruptures_{date}.xlsx.
func WriteRuptureXLSX(rows []dto.RuptureRow, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Ruptures"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := []interface{}{
		"Code", "Description", "Stock", "Coef", "Daily Consumption",
		"Days Remaining", "Rupture Date", "Severity",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", fmt.Errorf("export: header: %w", err)
	}

	for i, row := range rows {
		date := row.RuptureDate
		if date == "" {
			date = "-"
		}
		cells := []interface{}{
			row.Code,
			row.Description,
			row.Stock,
			row.Coef.InexactFloat64(),
			row.DailyConsumption.InexactFloat64(),
			row.DaysRemaining.InexactFloat64(),
			date,
			row.Severity,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return "", fmt.Errorf("export: row %d: %w", i+2, err)
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("ruptures_%s.xlsx", time.Now().Format("2006-01-02")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("export: save workbook: %w", err)
	}
	return path, nil
}
