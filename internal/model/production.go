package model

import "time"

// ProductionRecord holds the number of units produced on a given day.
// One record per date, upserted; a quantity change triggers the retroactive
// inventory adjustment (see service.ProductionService).
type ProductionRecord struct {
	Date      string    `gorm:"primaryKey" json:"date"` // YYYY-MM-DD
	Quantity  int       `gorm:"not null" json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProductionRecord) TableName() string { return "production" }

func (p *ProductionRecord) PrimaryKey() map[string]string {
	return map[string]string{"date": p.Date}
}
