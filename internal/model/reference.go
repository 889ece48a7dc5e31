package model

import (
	"github.com/shopspring/decimal"
)

// PartReference is the master record for a warehouse part.
// Code is the business identifier; renaming a code re-keys every dependent
// inventory log row (see service.ReferenceService).
type PartReference struct {
	Code        string `gorm:"primaryKey" json:"code"`
	Description string `json:"description"`
	// PiecesPerUA is the number of individual pieces bundled in one unit of
	// aggregation ("grouping"). Always >= 1.
	PiecesPerUA int `gorm:"not null;default:1" json:"pieces_per_ua"`
	// ConsumptionCoef is the number of pieces consumed per unit of production.
	ConsumptionCoef decimal.Decimal `gorm:"type:decimal(12,4);not null;default:0" json:"consumption_coef"`
}

func (PartReference) TableName() string { return "part_references" }

func (r *PartReference) PrimaryKey() map[string]string {
	return map[string]string{"code": r.Code}
}
