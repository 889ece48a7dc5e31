package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SimulateWeekRequest carries the planned production for the next seven days,
// in units per day.
type SimulateWeekRequest struct {
	Plan []int `json:"plan" validate:"required,len=7,dive,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// SimulationRow projects one reference through the planned week.
// RuptureDay is the 0-indexed first day the balance goes negative, nil when
// the reference survives the week. Rows are ordered by final balance
// ascending, most at-risk first.
type SimulationRow struct {
	Code         string            `json:"code"`
	Description  string            `json:"description"`
	InitialStock int               `json:"initial_stock"`
	Coef         decimal.Decimal   `json:"coef"`
	Required     decimal.Decimal   `json:"required"`
	DailyBalance []decimal.Decimal `json:"daily_balance"`
	FinalBalance decimal.Decimal   `json:"final_balance"`
	RuptureDay   *int              `json:"rupture_day"`
}

// Rupture severity buckets.
const (
	SeverityCritical = "critical" // <= 2 days of stock left
	SeverityWarning  = "warning"  // <= 5 days
	SeveritySafe     = "safe"
)

// RuptureRow forecasts when a reference runs dry at the latest recorded
// production pace. DaysRemaining is 999 when the reference consumes nothing.
type RuptureRow struct {
	Code             string          `json:"code"`
	Description      string          `json:"description"`
	Stock            int             `json:"stock"`
	Coef             decimal.Decimal `json:"coef"`
	DailyConsumption decimal.Decimal `json:"daily_consumption"`
	DaysRemaining    decimal.Decimal `json:"days_remaining"`
	RuptureDate      string          `json:"rupture_date"` // YYYY-MM-DD, empty when never
	Severity         string          `json:"severity"`
}
