package syncer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/froma1976/ailogistic/internal/model"
	"github.com/froma1976/ailogistic/internal/store"
)

// inventoryPullLimit caps how many log rows a pull fetches; references and
// production are always fetched whole.
const inventoryPullLimit = 1000

// Puller merges remote table snapshots into the local store, last-writer-wins.
// Rows whose primary key has a PENDING outbox entry are skipped so an unpushed
// local edit is never clobbered by a stale remote copy.
type Puller struct {
	log    zerolog.Logger
	refs   store.ReferenceRepository
	inv    store.InventoryRepository
	prod   store.ProductionRepository
	outbox store.OutboxRepository
	remote Remote
}

func NewPuller(
	log zerolog.Logger,
	refs store.ReferenceRepository,
	inv store.InventoryRepository,
	prod store.ProductionRepository,
	outbox store.OutboxRepository,
	rem Remote,
) *Puller {
	return &Puller{log: log, refs: refs, inv: inv, prod: prod, outbox: outbox, remote: rem}
}

// Pull fetches the remote contents of the three tables and bulk-upserts them
// locally. The bulk upserts are sequences of independent idempotent row
// writes: a failure partway through leaves a partially-updated set that the
// next successful pull re-applies and corrects.
func (p *Puller) Pull(ctx context.Context) error {
	held, err := p.pendingKeys(ctx)
	if err != nil {
		return err
	}

	refs, err := p.remote.FetchReferences(ctx)
	if err != nil {
		return fmt.Errorf("pull: %w", err)
	}
	refs = filterRows(refs, held[model.TableReferences])
	if err := p.refs.BulkUpsert(ctx, refs); err != nil {
		return fmt.Errorf("pull: merge references: %w", err)
	}

	entries, err := p.remote.FetchInventoryLog(ctx, inventoryPullLimit)
	if err != nil {
		return fmt.Errorf("pull: %w", err)
	}
	entries = filterRows(entries, held[model.TableInventoryLog])
	if err := p.inv.BulkUpsert(ctx, entries); err != nil {
		return fmt.Errorf("pull: merge inventory log: %w", err)
	}

	records, err := p.remote.FetchProduction(ctx)
	if err != nil {
		return fmt.Errorf("pull: %w", err)
	}
	records = filterRows(records, held[model.TableProduction])
	if err := p.prod.BulkUpsert(ctx, records); err != nil {
		return fmt.Errorf("pull: merge production: %w", err)
	}

	p.log.Debug().
		Int("references", len(refs)).
		Int("inventory_rows", len(entries)).
		Int("production_rows", len(records)).
		Msg("pull: merged remote snapshot")
	return nil
}

// pendingKeys collects, per table, the primary keys referenced by PENDING
// outbox entries. Those rows are locally newer than anything the remote can
// return before the matching push lands.
func (p *Puller) pendingKeys(ctx context.Context) (map[string]map[string]bool, error) {
	ops, err := p.outbox.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("pull: list pending: %w", err)
	}
	held := make(map[string]map[string]bool)
	for i := range ops {
		row, err := ops[i].DecodeRow()
		if err != nil {
			// Undecodable entries cannot shadow anything; the pusher will
			// report them.
			continue
		}
		if held[ops[i].Table] == nil {
			held[ops[i].Table] = make(map[string]bool)
		}
		held[ops[i].Table][keyString(row.PrimaryKey())] = true
	}
	return held, nil
}

func filterRows[T any, PT interface {
	*T
	model.Row
}](rows []T, held map[string]bool) []T {
	if len(held) == 0 {
		return rows
	}
	kept := rows[:0]
	for i := range rows {
		if !held[keyString(PT(&rows[i]).PrimaryKey())] {
			kept = append(kept, rows[i])
		}
	}
	return kept
}

func keyString(key map[string]string) string {
	// Each synced table has a single-column primary key.
	for _, v := range key {
		return v
	}
	return ""
}
