package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/froma1976/ailogistic/internal/dto"
	"github.com/froma1976/ailogistic/internal/model"
	"github.com/froma1976/ailogistic/internal/store"
)

// ProductionService upserts the daily production record and propagates
// quantity changes retroactively into the inventory log.
type ProductionService interface {
	RecordProduction(ctx context.Context, req dto.RecordProductionRequest) (*model.ProductionRecord, error)
	History(ctx context.Context) ([]model.ProductionRecord, error)
}

type productionService struct {
	log      zerolog.Logger
	refs     store.ReferenceRepository
	inv      store.InventoryRepository
	prod     store.ProductionRepository
	outbox   store.OutboxRepository
	notifier *store.Notifier
	now      func() time.Time
}

func NewProductionService(
	log zerolog.Logger,
	refs store.ReferenceRepository,
	inv store.InventoryRepository,
	prod store.ProductionRepository,
	outbox store.OutboxRepository,
	notifier *store.Notifier,
) ProductionService {
	return &productionService{
		log: log, refs: refs, inv: inv, prod: prod,
		outbox: outbox, notifier: notifier, now: time.Now,
	}
}

// RecordProduction upserts the record for the date and, when the quantity
// changed, discounts the difference from the inventory log of every consuming
// reference (rows dated on/after the production date).
func (s *productionService) RecordProduction(ctx context.Context, req dto.RecordProductionRequest) (*model.ProductionRecord, error) {
	previous, err := s.prod.FindByDate(ctx, req.Date)
	if err != nil {
		return nil, err
	}
	prevQty := 0
	if previous != nil {
		prevQty = previous.Quantity
	}
	diff := req.Quantity - prevQty

	record := &model.ProductionRecord{
		Date:      req.Date,
		Quantity:  req.Quantity,
		UpdatedAt: s.now(),
	}
	if err := s.prod.Upsert(ctx, record); err != nil {
		return nil, err
	}
	if err := enqueue(ctx, s.outbox, s.notifier, model.OpUpdate, record); err != nil {
		return nil, err
	}

	if diff != 0 {
		s.adjustInventory(ctx, req.Date, diff, req.Quantity)
	}
	return record, nil
}

func (s *productionService) History(ctx context.Context) ([]model.ProductionRecord, error) {
	return s.prod.List(ctx)
}

// adjustInventory walks every consuming reference and applies the production
// delta. A failure on one reference is logged and the loop moves on; the
// remaining references must still be adjusted.
func (s *productionService) adjustInventory(ctx context.Context, date string, diff, quantity int) {
	refs, err := s.refs.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("retro adjust: list references")
		return
	}
	for i := range refs {
		if !refs[i].ConsumptionCoef.IsPositive() {
			continue
		}
		if err := s.adjustReference(ctx, &refs[i], date, diff, quantity); err != nil {
			s.log.Error().Err(err).
				Str("reference", refs[i].Code).
				Str("date", date).
				Msg("retro adjust: reference failed, continuing")
		}
	}
}

// adjustReference subtracts diff*coef from every log row of the reference
// dated on/after the production date, re-deriving groupings/loose from the
// adjusted total by floor/remainder (not a second multiplier pass). When no
// such row exists, one is synthesized at the production date from the most
// recent prior total minus the full day's consumption.
func (s *productionService) adjustReference(ctx context.Context, ref *model.PartReference, date string, diff, quantity int) error {
	delta := ref.ConsumptionCoef.Mul(decimal.NewFromInt(int64(diff)))

	rows, err := s.inv.ListByReferenceFromDate(ctx, ref.Code, date)
	if err != nil {
		return err
	}

	if len(rows) > 0 {
		for i := range rows {
			newTotal := int(decimal.NewFromInt(int64(rows[i].Total)).Sub(delta).Round(0).IntPart())
			rows[i].Total = newTotal
			rows[i].Groupings, rows[i].Loose = model.DecomposeTotal(newTotal, ref.PiecesPerUA)
			// Refreshing created_at makes the adjusted row the latest for the
			// stock projection's same-date tie-break.
			rows[i].CreatedAt = s.now()
			if err := s.inv.Save(ctx, &rows[i]); err != nil {
				return err
			}
			if err := enqueue(ctx, s.outbox, s.notifier, model.OpUpdate, &rows[i]); err != nil {
				return err
			}
		}
		return nil
	}

	prior, err := s.inv.LatestBeforeDate(ctx, ref.Code, date)
	if err != nil {
		return err
	}
	base := 0
	if prior != nil {
		base = prior.Total
	}
	consumed := ref.ConsumptionCoef.Mul(decimal.NewFromInt(int64(quantity)))
	newTotal := int(decimal.NewFromInt(int64(base)).Sub(consumed).Round(0).IntPart())

	entry := &model.InventoryLogEntry{
		ID:            uuid.New(),
		Date:          date,
		ReferenceCode: ref.Code,
		Total:         newTotal,
		CreatedAt:     s.now(),
	}
	entry.Groupings, entry.Loose = model.DecomposeTotal(newTotal, ref.PiecesPerUA)
	if err := s.inv.Create(ctx, entry); err != nil {
		return err
	}
	return enqueue(ctx, s.outbox, s.notifier, model.OpInsert, entry)
}
