package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/froma1976/ailogistic/internal/dto"
	"github.com/froma1976/ailogistic/internal/model"
	"github.com/froma1976/ailogistic/internal/store"
)

const dateLayout = "2006-01-02"

// InventoryService records stock counts and derives current stock per
// reference from the log.
type InventoryService interface {
	// QuickEntry accumulates into the existing row for (date, reference);
	// quick counts during the shift add up instead of replacing each other.
	QuickEntry(ctx context.Context, req dto.QuickEntryRequest) (*model.InventoryLogEntry, error)
	// EditDay overwrites the day's counts (replacement semantics) and can
	// adjust the reference's multiplier/coefficient in the same step.
	EditDay(ctx context.Context, req dto.EditDayRequest) (*model.InventoryLogEntry, error)
	// ResetDay deletes every log row for the date.
	ResetDay(ctx context.Context, date string) (*dto.ResetDaySummary, error)
	DayLog(ctx context.Context, date string) ([]model.InventoryLogEntry, error)
	// CurrentStock is the total of the reference's most recent row by
	// (date, created_at), or 0 when the reference has no rows. Latest wins
	// even across non-contiguous dates.
	CurrentStock(ctx context.Context, code string) (int, error)
	DashboardStats(ctx context.Context) (*dto.DashboardStats, error)
}

type inventoryService struct {
	log      zerolog.Logger
	refs     store.ReferenceRepository
	inv      store.InventoryRepository
	prod     store.ProductionRepository
	outbox   store.OutboxRepository
	notifier *store.Notifier
	now      func() time.Time
}

func NewInventoryService(
	log zerolog.Logger,
	refs store.ReferenceRepository,
	inv store.InventoryRepository,
	prod store.ProductionRepository,
	outbox store.OutboxRepository,
	notifier *store.Notifier,
) InventoryService {
	return &inventoryService{
		log: log, refs: refs, inv: inv, prod: prod,
		outbox: outbox, notifier: notifier, now: time.Now,
	}
}

func (s *inventoryService) QuickEntry(ctx context.Context, req dto.QuickEntryRequest) (*model.InventoryLogEntry, error) {
	ref, err := s.refs.FindByCode(ctx, req.ReferenceCode)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, fmt.Errorf("reference %q not found", req.ReferenceCode)
	}

	date := req.Date
	if date == "" {
		date = s.now().Format(dateLayout)
	}
	total := req.Groupings*ref.PiecesPerUA + req.Loose

	existing, err := s.inv.FindByDateAndReference(ctx, date, req.ReferenceCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Groupings += req.Groupings
		existing.Loose += req.Loose
		existing.Total += total
		if err := s.inv.Save(ctx, existing); err != nil {
			return nil, err
		}
		if err := enqueue(ctx, s.outbox, s.notifier, model.OpUpdate, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	entry := &model.InventoryLogEntry{
		ID:            uuid.New(),
		Date:          date,
		ReferenceCode: req.ReferenceCode,
		Groupings:     req.Groupings,
		Loose:         req.Loose,
		Total:         total,
		CreatedAt:     s.now(),
	}
	if err := s.inv.Create(ctx, entry); err != nil {
		return nil, err
	}
	if err := enqueue(ctx, s.outbox, s.notifier, model.OpInsert, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *inventoryService) EditDay(ctx context.Context, req dto.EditDayRequest) (*model.InventoryLogEntry, error) {
	ref, err := s.refs.FindByCode(ctx, req.ReferenceCode)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, fmt.Errorf("reference %q not found", req.ReferenceCode)
	}

	if req.PiecesPerUA != nil || req.ConsumptionCoef != nil {
		if req.PiecesPerUA != nil {
			ref.PiecesPerUA = *req.PiecesPerUA
		}
		if req.ConsumptionCoef != nil {
			ref.ConsumptionCoef = *req.ConsumptionCoef
		}
		if err := s.refs.Save(ctx, ref); err != nil {
			return nil, err
		}
		if err := enqueue(ctx, s.outbox, s.notifier, model.OpUpdate, ref); err != nil {
			return nil, err
		}
	}

	date := req.Date
	if date == "" {
		date = s.now().Format(dateLayout)
	}
	total := req.Groupings*ref.PiecesPerUA + req.Loose

	entry, err := s.inv.FindByDateAndReference(ctx, date, req.ReferenceCode)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		entry.Groupings = req.Groupings
		entry.Loose = req.Loose
		entry.Total = total
		if err := s.inv.Save(ctx, entry); err != nil {
			return nil, err
		}
		if err := enqueue(ctx, s.outbox, s.notifier, model.OpUpdate, entry); err != nil {
			return nil, err
		}
		return entry, nil
	}

	if total == 0 {
		// Nothing recorded and nothing to record.
		return nil, nil
	}
	entry = &model.InventoryLogEntry{
		ID:            uuid.New(),
		Date:          date,
		ReferenceCode: req.ReferenceCode,
		Groupings:     req.Groupings,
		Loose:         req.Loose,
		Total:         total,
		CreatedAt:     s.now(),
	}
	if err := s.inv.Create(ctx, entry); err != nil {
		return nil, err
	}
	if err := enqueue(ctx, s.outbox, s.notifier, model.OpInsert, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *inventoryService) ResetDay(ctx context.Context, date string) (*dto.ResetDaySummary, error) {
	if date == "" {
		date = s.now().Format(dateLayout)
	}
	rows, err := s.inv.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if err := s.inv.Delete(ctx, rows[i].ID); err != nil {
			return nil, fmt.Errorf("reset day: delete row %s: %w", rows[i].ID, err)
		}
		if err := enqueue(ctx, s.outbox, s.notifier, model.OpDelete,
			&model.InventoryLogEntry{ID: rows[i].ID}); err != nil {
			return nil, err
		}
	}
	return &dto.ResetDaySummary{Date: date, Deleted: len(rows)}, nil
}

func (s *inventoryService) DayLog(ctx context.Context, date string) ([]model.InventoryLogEntry, error) {
	if date == "" {
		date = s.now().Format(dateLayout)
	}
	return s.inv.ListByDate(ctx, date)
}

func (s *inventoryService) CurrentStock(ctx context.Context, code string) (int, error) {
	latest, err := s.inv.LatestByReference(ctx, code)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, nil
	}
	return latest.Total, nil
}

func (s *inventoryService) DashboardStats(ctx context.Context) (*dto.DashboardStats, error) {
	refs, err := s.refs.List(ctx)
	if err != nil {
		return nil, err
	}
	today, err := s.inv.ListByDate(ctx, s.now().Format(dateLayout))
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStats{
		ReferenceCount: len(refs),
		TodayEntries:   len(today),
	}
	for i := range today {
		stats.TotalPieces += today[i].Total
		if today[i].Total < 50 {
			stats.LowStockCount++
		}
		if today[i].Total < 20 {
			stats.CriticalCount++
		}
	}

	latest, err := s.prod.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		stats.LatestProdDate = latest.Date
		stats.LatestProdQty = latest.Quantity
	}
	return stats, nil
}
