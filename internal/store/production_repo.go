package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/froma1976/ailogistic/internal/model"
)

// ProductionRepository keys production records by their date.
type ProductionRepository interface {
	Upsert(ctx context.Context, p *model.ProductionRecord) error
	FindByDate(ctx context.Context, date string) (*model.ProductionRecord, error)
	List(ctx context.Context) ([]model.ProductionRecord, error)
	// Latest returns the most recent record by date, or nil when none exist.
	Latest(ctx context.Context) (*model.ProductionRecord, error)
	BulkUpsert(ctx context.Context, records []model.ProductionRecord) error
}

type productionRepo struct{ db *gorm.DB }

func NewProductionRepository(db *gorm.DB) ProductionRepository { return &productionRepo{db: db} }

func (r *productionRepo) Upsert(ctx context.Context, p *model.ProductionRecord) error {
	return translate(r.db.WithContext(ctx).Save(p).Error)
}

func (r *productionRepo) FindByDate(ctx context.Context, date string) (*model.ProductionRecord, error) {
	var p model.ProductionRecord
	err := r.db.WithContext(ctx).First(&p, "date = ?", date).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productionRepo) List(ctx context.Context) ([]model.ProductionRecord, error) {
	var records []model.ProductionRecord
	err := r.db.WithContext(ctx).Order("date DESC").Find(&records).Error
	return records, err
}

func (r *productionRepo) Latest(ctx context.Context) (*model.ProductionRecord, error) {
	var p model.ProductionRecord
	err := r.db.WithContext(ctx).Order("date DESC").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productionRepo) BulkUpsert(ctx context.Context, records []model.ProductionRecord) error {
	for i := range records {
		if err := r.db.WithContext(ctx).Save(&records[i]).Error; err != nil {
			return translate(err)
		}
	}
	return nil
}
