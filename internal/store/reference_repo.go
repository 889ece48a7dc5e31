package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/froma1976/ailogistic/internal/model"
)

// ReferenceRepository is the data access contract for part references.
// Services depend on this interface, not on the GORM implementation, so unit
// tests run against in-memory stubs.
type ReferenceRepository interface {
	Create(ctx context.Context, r *model.PartReference) error
	FindByCode(ctx context.Context, code string) (*model.PartReference, error)
	List(ctx context.Context) ([]model.PartReference, error)
	Save(ctx context.Context, r *model.PartReference) error
	Delete(ctx context.Context, code string) error
	BulkUpsert(ctx context.Context, refs []model.PartReference) error
}

type referenceRepo struct{ db *gorm.DB }

func NewReferenceRepository(db *gorm.DB) ReferenceRepository { return &referenceRepo{db: db} }

func (r *referenceRepo) Create(ctx context.Context, ref *model.PartReference) error {
	return translate(r.db.WithContext(ctx).Create(ref).Error)
}

func (r *referenceRepo) FindByCode(ctx context.Context, code string) (*model.PartReference, error) {
	var ref model.PartReference
	err := r.db.WithContext(ctx).First(&ref, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *referenceRepo) List(ctx context.Context) ([]model.PartReference, error) {
	var refs []model.PartReference
	err := r.db.WithContext(ctx).Order("code ASC").Find(&refs).Error
	return refs, err
}

func (r *referenceRepo) Save(ctx context.Context, ref *model.PartReference) error {
	return translate(r.db.WithContext(ctx).Save(ref).Error)
}

func (r *referenceRepo) Delete(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Delete(&model.PartReference{}, "code = ?", code).Error
}

// BulkUpsert overwrites any local row sharing a primary key with the incoming
// copy (last-writer-wins from the remote's perspective). Rows are applied one
// by one: a failure partway through leaves earlier rows in place, and the next
// pull simply re-applies the same idempotent writes.
func (r *referenceRepo) BulkUpsert(ctx context.Context, refs []model.PartReference) error {
	for i := range refs {
		if err := r.db.WithContext(ctx).Save(&refs[i]).Error; err != nil {
			return translate(err)
		}
	}
	return nil
}
