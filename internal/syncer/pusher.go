// Package syncer reconciles the device-local store with the remote
// authoritative store: push drains the outbox in creation order, pull
// bulk-merges remote snapshots, and the Service decides when either runs.
package syncer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/froma1976/ailogistic/internal/model"
	"github.com/froma1976/ailogistic/internal/remote"
	"github.com/froma1976/ailogistic/internal/store"
)

// Remote is the slice of the remote store the reconcilers need.
// *remote.Client satisfies it; tests substitute fakes.
type Remote interface {
	FetchReferences(ctx context.Context) ([]model.PartReference, error)
	FetchInventoryLog(ctx context.Context, limit int) ([]model.InventoryLogEntry, error)
	FetchProduction(ctx context.Context) ([]model.ProductionRecord, error)
	Upsert(ctx context.Context, row model.Row) error
	Update(ctx context.Context, row model.Row) error
	Delete(ctx context.Context, table string, key map[string]string) error
}

// Pusher transmits queued local mutations to the remote store.
type Pusher struct {
	log    zerolog.Logger
	outbox store.OutboxRepository
	remote Remote
}

func NewPusher(log zerolog.Logger, outbox store.OutboxRepository, rem Remote) *Pusher {
	return &Pusher{log: log, outbox: outbox, remote: rem}
}

// Push drains all PENDING operations in ascending creation order, strictly
// sequentially so per-item ordering is preserved. A failed item is logged and
// left PENDING for the next cycle; the loop continues so one poisoned item
// never blocks the rest of the queue. Returns the number of confirmed items.
func (p *Pusher) Push(ctx context.Context) (int, error) {
	ops, err := p.outbox.ListPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("push: list pending: %w", err)
	}

	pushed := 0
	for i := range ops {
		op := &ops[i]
		if err := p.transmit(ctx, op); err != nil {
			p.log.Warn().Err(err).
				Uint("outbox_id", op.ID).
				Str("table", op.Table).
				Str("op", string(op.Operation)).
				Msg("push: item failed, left pending")
			continue
		}

		// Two-phase confirm: mark SYNCED first, then remove. A crash between
		// the two leaves a SYNCED row that is no longer re-pushed, and a
		// re-push of an already-applied item resolves via the conflict path.
		if err := p.outbox.MarkSynced(ctx, op.ID); err != nil {
			p.log.Error().Err(err).Uint("outbox_id", op.ID).Msg("push: mark synced failed")
			continue
		}
		if err := p.outbox.Delete(ctx, op.ID); err != nil {
			p.log.Error().Err(err).Uint("outbox_id", op.ID).Msg("push: dequeue failed")
		}
		pushed++
	}
	return pushed, nil
}

// transmit applies one queued operation remotely. A uniqueness conflict means
// the row is already present server-side and counts as success.
func (p *Pusher) transmit(ctx context.Context, op *model.OutboxOperation) error {
	row, err := op.DecodeRow()
	if err != nil {
		return err
	}

	switch op.Operation {
	case model.OpInsert:
		err = p.remote.Upsert(ctx, row)
	case model.OpUpdate:
		err = p.remote.Update(ctx, row)
	case model.OpDelete:
		err = p.remote.Delete(ctx, op.Table, row.PrimaryKey())
	default:
		return fmt.Errorf("push: unknown operation %q", op.Operation)
	}

	if errors.Is(err, remote.ErrConflict) {
		p.log.Debug().
			Uint("outbox_id", op.ID).
			Str("table", op.Table).
			Msg("push: row already present remotely, treating as synced")
		return nil
	}
	return err
}
