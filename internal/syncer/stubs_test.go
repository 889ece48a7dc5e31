package syncer

// Test doubles: in-memory repositories, a scriptable fake remote, and a
// manually-driven clock.

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/froma1976/ailogistic/internal/model"
)

// ── Fake remote ──────────────────────────────────────────────────────────────

// call records one remote invocation: "upsert:part_references:REF1" etc.
type fakeRemote struct {
	mu    sync.Mutex
	calls []string

	refs    []model.PartReference
	entries []model.InventoryLogEntry
	records []model.ProductionRecord

	// errOn maps a call string prefix to the error to return.
	errOn map[string]error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{errOn: make(map[string]error)}
}

func (r *fakeRemote) record(call string) error {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	err := r.errOn[call]
	r.mu.Unlock()
	return err
}

func (r *fakeRemote) callLog() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *fakeRemote) FetchReferences(_ context.Context) ([]model.PartReference, error) {
	if err := r.record("fetch:" + model.TableReferences); err != nil {
		return nil, err
	}
	return r.refs, nil
}

func (r *fakeRemote) FetchInventoryLog(_ context.Context, _ int) ([]model.InventoryLogEntry, error) {
	if err := r.record("fetch:" + model.TableInventoryLog); err != nil {
		return nil, err
	}
	return r.entries, nil
}

func (r *fakeRemote) FetchProduction(_ context.Context) ([]model.ProductionRecord, error) {
	if err := r.record("fetch:" + model.TableProduction); err != nil {
		return nil, err
	}
	return r.records, nil
}

func (r *fakeRemote) Upsert(_ context.Context, row model.Row) error {
	return r.record(fmt.Sprintf("upsert:%s:%s", row.TableName(), keyString(row.PrimaryKey())))
}

func (r *fakeRemote) Update(_ context.Context, row model.Row) error {
	return r.record(fmt.Sprintf("update:%s:%s", row.TableName(), keyString(row.PrimaryKey())))
}

func (r *fakeRemote) Delete(_ context.Context, table string, key map[string]string) error {
	return r.record(fmt.Sprintf("delete:%s:%s", table, keyString(key)))
}

// ── Repository stubs ─────────────────────────────────────────────────────────

type memOutbox struct {
	mu     sync.Mutex
	ops    []model.OutboxOperation
	nextID uint
}

func newMemOutbox() *memOutbox { return &memOutbox{nextID: 1} }

func (r *memOutbox) Enqueue(_ context.Context, op *model.OutboxOperation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	op.ID = r.nextID
	r.nextID++
	r.ops = append(r.ops, *op)
	return nil
}

func (r *memOutbox) ListPending(_ context.Context) ([]model.OutboxOperation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.OutboxOperation
	for _, op := range r.ops {
		if op.Status == model.StatusPending {
			out = append(out, op)
		}
	}
	return out, nil
}

func (r *memOutbox) MarkSynced(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.ops {
		if r.ops[i].ID == id {
			r.ops[i].Status = model.StatusSynced
		}
	}
	return nil
}

func (r *memOutbox) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.ops {
		if r.ops[i].ID == id {
			r.ops = append(r.ops[:i], r.ops[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memOutbox) CountPending(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, op := range r.ops {
		if op.Status == model.StatusPending {
			n++
		}
	}
	return n, nil
}

type memRefs struct {
	mu   sync.Mutex
	refs map[string]model.PartReference
}

func newMemRefs() *memRefs { return &memRefs{refs: make(map[string]model.PartReference)} }

func (r *memRefs) Create(_ context.Context, ref *model.PartReference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs[ref.Code] = *ref
	return nil
}

func (r *memRefs) FindByCode(_ context.Context, code string) (*model.PartReference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ref, ok := r.refs[code]; ok {
		return &ref, nil
	}
	return nil, nil
}

func (r *memRefs) List(_ context.Context) ([]model.PartReference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.PartReference, 0, len(r.refs))
	for _, ref := range r.refs {
		out = append(out, ref)
	}
	return out, nil
}

func (r *memRefs) Save(_ context.Context, ref *model.PartReference) error {
	return r.Create(context.Background(), ref)
}

func (r *memRefs) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.refs, code)
	return nil
}

func (r *memRefs) BulkUpsert(_ context.Context, refs []model.PartReference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ref := range refs {
		r.refs[ref.Code] = ref
	}
	return nil
}

type memInventory struct {
	mu      sync.Mutex
	entries map[uuid.UUID]model.InventoryLogEntry
}

func newMemInventory() *memInventory {
	return &memInventory{entries: make(map[uuid.UUID]model.InventoryLogEntry)}
}

func (r *memInventory) Create(_ context.Context, e *model.InventoryLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[e.ID] = *e
	return nil
}

func (r *memInventory) Save(_ context.Context, e *model.InventoryLogEntry) error {
	return r.Create(context.Background(), e)
}

func (r *memInventory) FindByID(_ context.Context, id uuid.UUID) (*model.InventoryLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		return &e, nil
	}
	return nil, nil
}

func (r *memInventory) FindByDateAndReference(_ context.Context, date, code string) (*model.InventoryLogEntry, error) {
	return nil, nil
}

func (r *memInventory) ListByDate(_ context.Context, date string) ([]model.InventoryLogEntry, error) {
	return nil, nil
}

func (r *memInventory) ListByReference(_ context.Context, code string) ([]model.InventoryLogEntry, error) {
	return nil, nil
}

func (r *memInventory) ListByReferenceFromDate(_ context.Context, code, date string) ([]model.InventoryLogEntry, error) {
	return nil, nil
}

func (r *memInventory) LatestByReference(_ context.Context, code string) (*model.InventoryLogEntry, error) {
	return nil, nil
}

func (r *memInventory) LatestBeforeDate(_ context.Context, code, date string) (*model.InventoryLogEntry, error) {
	return nil, nil
}

func (r *memInventory) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
	return nil
}

func (r *memInventory) DeleteByReference(_ context.Context, code string) error { return nil }

func (r *memInventory) BulkUpsert(_ context.Context, entries []model.InventoryLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

type memProduction struct {
	mu      sync.Mutex
	records map[string]model.ProductionRecord
}

func newMemProduction() *memProduction {
	return &memProduction{records: make(map[string]model.ProductionRecord)}
}

func (r *memProduction) Upsert(_ context.Context, p *model.ProductionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[p.Date] = *p
	return nil
}

func (r *memProduction) FindByDate(_ context.Context, date string) (*model.ProductionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.records[date]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *memProduction) List(_ context.Context) ([]model.ProductionRecord, error) { return nil, nil }

func (r *memProduction) Latest(_ context.Context) (*model.ProductionRecord, error) {
	return nil, nil
}

func (r *memProduction) BulkUpsert(_ context.Context, records []model.ProductionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range records {
		r.records[p.Date] = p
	}
	return nil
}

// ── Fake clock ───────────────────────────────────────────────────────────────

// fakeClock hands out a tick channel the test fires by hand.
type fakeClock struct {
	now  time.Time
	tick chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:  time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		tick: make(chan time.Time),
	}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Tick(time.Duration) (<-chan time.Time, func()) {
	return c.tick, func() {}
}

func (c *fakeClock) fire() { c.tick <- c.now }
