package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/froma1976/ailogistic/internal/model"
)

// OutboxRepository is the enqueuer and queue accessor for the sync queue.
// Enqueue is purely additive: it never deduplicates, coalesces, or reorders.
type OutboxRepository interface {
	Enqueue(ctx context.Context, op *model.OutboxOperation) error
	// ListPending returns PENDING operations in ascending creation order.
	ListPending(ctx context.Context) ([]model.OutboxOperation, error)
	MarkSynced(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
	CountPending(ctx context.Context) (int64, error)
}

type outboxRepo struct{ db *gorm.DB }

func NewOutboxRepository(db *gorm.DB) OutboxRepository { return &outboxRepo{db: db} }

func (r *outboxRepo) Enqueue(ctx context.Context, op *model.OutboxOperation) error {
	return translate(r.db.WithContext(ctx).Create(op).Error)
}

func (r *outboxRepo) ListPending(ctx context.Context) ([]model.OutboxOperation, error) {
	var ops []model.OutboxOperation
	err := r.db.WithContext(ctx).
		Where("status = ?", model.StatusPending).
		Order("id ASC").
		Find(&ops).Error
	return ops, err
}

func (r *outboxRepo) MarkSynced(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&model.OutboxOperation{}).
		Where("id = ?", id).
		Update("status", model.StatusSynced).Error
}

func (r *outboxRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.OutboxOperation{}, id).Error
}

func (r *outboxRepo) CountPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.OutboxOperation{}).
		Where("status = ?", model.StatusPending).
		Count(&n).Error
	return n, err
}
