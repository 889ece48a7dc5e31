package model

import (
	"time"

	"github.com/google/uuid"
)

// InventoryLogEntry records a counted stock level for a (date, reference) pair.
// Total is frozen at write time: total = groupings*pieces_per_ua + loose with
// the multiplier in effect when the row was written. It is never re-derived
// unless a caller explicitly recomputes the decomposition.
type InventoryLogEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Date          string    `gorm:"index;not null" json:"date"` // calendar day, YYYY-MM-DD
	ReferenceCode string    `gorm:"index;not null" json:"reference_code"`
	Groupings     int       `json:"groupings"`
	Loose         int       `json:"loose"`
	Total         int       `json:"total"`
	// CreatedAt breaks ties between rows sharing the same date: the stock
	// projection takes the row with the greatest (date, created_at).
	CreatedAt time.Time `json:"created_at"`
}

func (InventoryLogEntry) TableName() string { return "inventory_log" }

func (e *InventoryLogEntry) PrimaryKey() map[string]string {
	return map[string]string{"id": e.ID.String()}
}

// DecomposeTotal splits a piece total into whole groupings plus loose pieces.
// Floor division keeps the invariant groupings*piecesPerUA + loose == total
// for negative totals too, with loose always in [0, piecesPerUA).
func DecomposeTotal(total, piecesPerUA int) (groupings, loose int) {
	if piecesPerUA < 1 {
		piecesPerUA = 1
	}
	groupings = total / piecesPerUA
	if total%piecesPerUA != 0 && (total < 0) != (piecesPerUA < 0) {
		groupings--
	}
	loose = total - groupings*piecesPerUA
	return groupings, loose
}
