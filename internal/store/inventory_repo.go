package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/froma1976/ailogistic/internal/model"
)

// InventoryRepository gives point lookup by id, range scans by the two
// secondary keys (date, reference_code), and bulk upsert for the pull path.
type InventoryRepository interface {
	Create(ctx context.Context, e *model.InventoryLogEntry) error
	Save(ctx context.Context, e *model.InventoryLogEntry) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryLogEntry, error)
	FindByDateAndReference(ctx context.Context, date, code string) (*model.InventoryLogEntry, error)
	ListByDate(ctx context.Context, date string) ([]model.InventoryLogEntry, error)
	ListByReference(ctx context.Context, code string) ([]model.InventoryLogEntry, error)
	ListByReferenceFromDate(ctx context.Context, code, date string) ([]model.InventoryLogEntry, error)
	// LatestByReference returns the row with the greatest (date, created_at)
	// for the reference, or nil when the reference has no rows at all.
	LatestByReference(ctx context.Context, code string) (*model.InventoryLogEntry, error)
	// LatestBeforeDate is LatestByReference restricted to rows dated strictly
	// before date.
	LatestBeforeDate(ctx context.Context, code, date string) (*model.InventoryLogEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByReference(ctx context.Context, code string) error
	BulkUpsert(ctx context.Context, entries []model.InventoryLogEntry) error
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) Create(ctx context.Context, e *model.InventoryLogEntry) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

func (r *inventoryRepo) Save(ctx context.Context, e *model.InventoryLogEntry) error {
	return translate(r.db.WithContext(ctx).Save(e).Error)
}

func (r *inventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventoryLogEntry, error) {
	var e model.InventoryLogEntry
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *inventoryRepo) FindByDateAndReference(ctx context.Context, date, code string) (*model.InventoryLogEntry, error) {
	var e model.InventoryLogEntry
	err := r.db.WithContext(ctx).
		Where("date = ? AND reference_code = ?", date, code).
		Order("created_at ASC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *inventoryRepo) ListByDate(ctx context.Context, date string) ([]model.InventoryLogEntry, error) {
	var entries []model.InventoryLogEntry
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *inventoryRepo) ListByReference(ctx context.Context, code string) ([]model.InventoryLogEntry, error) {
	var entries []model.InventoryLogEntry
	err := r.db.WithContext(ctx).
		Where("reference_code = ?", code).
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (r *inventoryRepo) ListByReferenceFromDate(ctx context.Context, code, date string) ([]model.InventoryLogEntry, error) {
	var entries []model.InventoryLogEntry
	err := r.db.WithContext(ctx).
		Where("reference_code = ? AND date >= ?", code, date).
		Order("date ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *inventoryRepo) LatestByReference(ctx context.Context, code string) (*model.InventoryLogEntry, error) {
	var e model.InventoryLogEntry
	err := r.db.WithContext(ctx).
		Where("reference_code = ?", code).
		Order("date DESC, created_at DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *inventoryRepo) LatestBeforeDate(ctx context.Context, code, date string) (*model.InventoryLogEntry, error) {
	var e model.InventoryLogEntry
	err := r.db.WithContext(ctx).
		Where("reference_code = ? AND date < ?", code, date).
		Order("date DESC, created_at DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *inventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.InventoryLogEntry{}, "id = ?", id).Error
}

func (r *inventoryRepo) DeleteByReference(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Delete(&model.InventoryLogEntry{}, "reference_code = ?", code).Error
}

func (r *inventoryRepo) BulkUpsert(ctx context.Context, entries []model.InventoryLogEntry) error {
	for i := range entries {
		if err := r.db.WithContext(ctx).Save(&entries[i]).Error; err != nil {
			return translate(err)
		}
	}
	return nil
}
