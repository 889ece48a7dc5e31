package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// QuickEntryRequest accumulates into the existing same-day row when one
// exists; otherwise it opens a new row. Date defaults to today.
type QuickEntryRequest struct {
	Date          string `json:"date"           validate:"omitempty,datetime=2006-01-02"`
	ReferenceCode string `json:"reference_code" validate:"required"`
	Groupings     int    `json:"groupings"      validate:"min=0"`
	Loose         int    `json:"loose"          validate:"min=0"`
}

// EditDayRequest overwrites the day's counts for a reference (replacement, not
// accumulation) and can adjust the reference's multiplier and coefficient in
// the same step.
type EditDayRequest struct {
	Date            string           `json:"date"             validate:"omitempty,datetime=2006-01-02"`
	ReferenceCode   string           `json:"reference_code"   validate:"required"`
	Groupings       int              `json:"groupings"        validate:"min=0"`
	Loose           int              `json:"loose"            validate:"min=0"`
	PiecesPerUA     *int             `json:"pieces_per_ua"    validate:"omitempty,min=1"`
	ConsumptionCoef *decimal.Decimal `json:"consumption_coef"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StockResponse struct {
	ReferenceCode string `json:"reference_code"`
	Total         int    `json:"total"`
}

type ResetDaySummary struct {
	Date    string `json:"date"`
	Deleted int    `json:"deleted"`
}

// DashboardStats summarizes today's activity for the overview screen.
type DashboardStats struct {
	ReferenceCount int    `json:"reference_count"`
	TodayEntries   int    `json:"today_entries"`
	TotalPieces    int    `json:"total_pieces"`
	LowStockCount  int    `json:"low_stock_count"`  // today's rows with total < 50
	CriticalCount  int    `json:"critical_count"`   // today's rows with total < 20
	LatestProdDate string `json:"latest_prod_date"` // empty when no production recorded
	LatestProdQty  int    `json:"latest_prod_qty"`
}
