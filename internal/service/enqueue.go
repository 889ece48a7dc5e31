package service

import (
	"context"

	"github.com/froma1976/ailogistic/internal/model"
	"github.com/froma1976/ailogistic/internal/store"
)

// enqueue records one outbox operation for a just-applied local mutation and
// publishes the table change. Every mutation in this package goes through
// here; there is no other channel to the remote store.
func enqueue(ctx context.Context, outbox store.OutboxRepository, notifier *store.Notifier, op model.Operation, row model.Row) error {
	qop, err := model.NewOutboxOperation(op, row)
	if err != nil {
		return err
	}
	if err := outbox.Enqueue(ctx, qop); err != nil {
		return err
	}
	notifier.Publish(store.ChangeEvent{Table: row.TableName()})
	return nil
}

// deletePayload builds the key-only row used as a DELETE payload.
func deleteReferenceRow(code string) *model.PartReference {
	return &model.PartReference{Code: code}
}
