package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateReferenceRequest struct {
	Code            string          `json:"code"             validate:"required,min=1,max=64"`
	Description     string          `json:"description"      validate:"max=200"`
	PiecesPerUA     int             `json:"pieces_per_ua"    validate:"required,min=1"`
	ConsumptionCoef decimal.Decimal `json:"consumption_coef" validate:"min=0"`
}

type UpdateReferenceRequest struct {
	// NewCode renames the reference; every dependent log row is re-keyed.
	NewCode         *string          `json:"new_code"         validate:"omitempty,min=1,max=64"`
	Description     *string          `json:"description"      validate:"omitempty,max=200"`
	PiecesPerUA     *int             `json:"pieces_per_ua"    validate:"omitempty,min=1"`
	ConsumptionCoef *decimal.Decimal `json:"consumption_coef"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
