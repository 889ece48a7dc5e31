package service

// In-memory repository stubs shared by the service tests. They mirror the
// ordering contracts of the real GORM repositories closely enough for the
// services' read-modify-write flows.

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/froma1976/ailogistic/internal/model"
	"github.com/froma1976/ailogistic/internal/store"
)

// ── ReferenceRepository stub ─────────────────────────────────────────────────

type stubReferenceRepo struct {
	refs map[string]*model.PartReference
}

func newStubReferenceRepo() *stubReferenceRepo {
	return &stubReferenceRepo{refs: make(map[string]*model.PartReference)}
}

func (r *stubReferenceRepo) Create(_ context.Context, ref *model.PartReference) error {
	if _, ok := r.refs[ref.Code]; ok {
		return store.ErrConflict
	}
	cp := *ref
	r.refs[ref.Code] = &cp
	return nil
}

func (r *stubReferenceRepo) FindByCode(_ context.Context, code string) (*model.PartReference, error) {
	ref, ok := r.refs[code]
	if !ok {
		return nil, nil
	}
	cp := *ref
	return &cp, nil
}

func (r *stubReferenceRepo) List(_ context.Context) ([]model.PartReference, error) {
	codes := make([]string, 0, len(r.refs))
	for code := range r.refs {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	out := make([]model.PartReference, 0, len(codes))
	for _, code := range codes {
		out = append(out, *r.refs[code])
	}
	return out, nil
}

func (r *stubReferenceRepo) Save(_ context.Context, ref *model.PartReference) error {
	cp := *ref
	r.refs[ref.Code] = &cp
	return nil
}

func (r *stubReferenceRepo) Delete(_ context.Context, code string) error {
	delete(r.refs, code)
	return nil
}

func (r *stubReferenceRepo) BulkUpsert(_ context.Context, refs []model.PartReference) error {
	for i := range refs {
		cp := refs[i]
		r.refs[cp.Code] = &cp
	}
	return nil
}

// ── InventoryRepository stub ─────────────────────────────────────────────────

type stubInventoryRepo struct {
	entries map[uuid.UUID]*model.InventoryLogEntry
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{entries: make(map[uuid.UUID]*model.InventoryLogEntry)}
}

func (r *stubInventoryRepo) Create(_ context.Context, e *model.InventoryLogEntry) error {
	if _, ok := r.entries[e.ID]; ok {
		return store.ErrConflict
	}
	cp := *e
	r.entries[e.ID] = &cp
	return nil
}

func (r *stubInventoryRepo) Save(_ context.Context, e *model.InventoryLogEntry) error {
	cp := *e
	r.entries[e.ID] = &cp
	return nil
}

func (r *stubInventoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventoryLogEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *stubInventoryRepo) FindByDateAndReference(_ context.Context, date, code string) (*model.InventoryLogEntry, error) {
	var match *model.InventoryLogEntry
	for _, e := range r.entries {
		if e.Date != date || e.ReferenceCode != code {
			continue
		}
		if match == nil || e.CreatedAt.Before(match.CreatedAt) {
			match = e
		}
	}
	if match == nil {
		return nil, nil
	}
	cp := *match
	return &cp, nil
}

func (r *stubInventoryRepo) ListByDate(_ context.Context, date string) ([]model.InventoryLogEntry, error) {
	var out []model.InventoryLogEntry
	for _, e := range r.entries {
		if e.Date == date {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) ListByReference(_ context.Context, code string) ([]model.InventoryLogEntry, error) {
	var out []model.InventoryLogEntry
	for _, e := range r.entries {
		if e.ReferenceCode == code {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) ListByReferenceFromDate(_ context.Context, code, date string) ([]model.InventoryLogEntry, error) {
	var out []model.InventoryLogEntry
	for _, e := range r.entries {
		if e.ReferenceCode == code && e.Date >= date {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Date != out[b].Date {
			return out[a].Date < out[b].Date
		}
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	return out, nil
}

func (r *stubInventoryRepo) LatestByReference(_ context.Context, code string) (*model.InventoryLogEntry, error) {
	var latest *model.InventoryLogEntry
	for _, e := range r.entries {
		if e.ReferenceCode != code {
			continue
		}
		if latest == nil || e.Date > latest.Date ||
			(e.Date == latest.Date && e.CreatedAt.After(latest.CreatedAt)) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *stubInventoryRepo) LatestBeforeDate(_ context.Context, code, date string) (*model.InventoryLogEntry, error) {
	var latest *model.InventoryLogEntry
	for _, e := range r.entries {
		if e.ReferenceCode != code || e.Date >= date {
			continue
		}
		if latest == nil || e.Date > latest.Date ||
			(e.Date == latest.Date && e.CreatedAt.After(latest.CreatedAt)) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *stubInventoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.entries, id)
	return nil
}

func (r *stubInventoryRepo) DeleteByReference(_ context.Context, code string) error {
	for id, e := range r.entries {
		if e.ReferenceCode == code {
			delete(r.entries, id)
		}
	}
	return nil
}

func (r *stubInventoryRepo) BulkUpsert(_ context.Context, entries []model.InventoryLogEntry) error {
	for i := range entries {
		cp := entries[i]
		r.entries[cp.ID] = &cp
	}
	return nil
}

// ── ProductionRepository stub ────────────────────────────────────────────────

type stubProductionRepo struct {
	records map[string]*model.ProductionRecord
}

func newStubProductionRepo() *stubProductionRepo {
	return &stubProductionRepo{records: make(map[string]*model.ProductionRecord)}
}

func (r *stubProductionRepo) Upsert(_ context.Context, p *model.ProductionRecord) error {
	cp := *p
	r.records[p.Date] = &cp
	return nil
}

func (r *stubProductionRepo) FindByDate(_ context.Context, date string) (*model.ProductionRecord, error) {
	p, ok := r.records[date]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductionRepo) List(_ context.Context) ([]model.ProductionRecord, error) {
	dates := make([]string, 0, len(r.records))
	for d := range r.records {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	out := make([]model.ProductionRecord, 0, len(dates))
	for _, d := range dates {
		out = append(out, *r.records[d])
	}
	return out, nil
}

func (r *stubProductionRepo) Latest(_ context.Context) (*model.ProductionRecord, error) {
	var latest *model.ProductionRecord
	for _, p := range r.records {
		if latest == nil || p.Date > latest.Date {
			latest = p
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *stubProductionRepo) BulkUpsert(_ context.Context, records []model.ProductionRecord) error {
	for i := range records {
		cp := records[i]
		r.records[cp.Date] = &cp
	}
	return nil
}

// ── OutboxRepository stub ────────────────────────────────────────────────────

type stubOutboxRepo struct {
	ops    []model.OutboxOperation
	nextID uint
}

func newStubOutboxRepo() *stubOutboxRepo { return &stubOutboxRepo{nextID: 1} }

func (r *stubOutboxRepo) Enqueue(_ context.Context, op *model.OutboxOperation) error {
	op.ID = r.nextID
	r.nextID++
	r.ops = append(r.ops, *op)
	return nil
}

func (r *stubOutboxRepo) ListPending(_ context.Context) ([]model.OutboxOperation, error) {
	var out []model.OutboxOperation
	for _, op := range r.ops {
		if op.Status == model.StatusPending {
			out = append(out, op)
		}
	}
	return out, nil
}

func (r *stubOutboxRepo) MarkSynced(_ context.Context, id uint) error {
	for i := range r.ops {
		if r.ops[i].ID == id {
			r.ops[i].Status = model.StatusSynced
		}
	}
	return nil
}

func (r *stubOutboxRepo) Delete(_ context.Context, id uint) error {
	for i := range r.ops {
		if r.ops[i].ID == id {
			r.ops = append(r.ops[:i], r.ops[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubOutboxRepo) CountPending(_ context.Context) (int64, error) {
	var n int64
	for _, op := range r.ops {
		if op.Status == model.StatusPending {
			n++
		}
	}
	return n, nil
}
