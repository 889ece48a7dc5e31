package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/froma1976/ailogistic/internal/dto"
	"github.com/froma1976/ailogistic/internal/model"
	"github.com/froma1976/ailogistic/internal/store"
)

// ReferenceService manages the part reference master data. Every mutation is
// mirrored into the sync queue in the same step.
type ReferenceService interface {
	Create(ctx context.Context, req dto.CreateReferenceRequest) (*model.PartReference, error)
	List(ctx context.Context) ([]model.PartReference, error)
	Update(ctx context.Context, code string, req dto.UpdateReferenceRequest) (*model.PartReference, error)
	Delete(ctx context.Context, code string) error
	ImportXLSX(ctx context.Context, r io.Reader) (*dto.ImportSummary, error)
}

type referenceService struct {
	log      zerolog.Logger
	refs     store.ReferenceRepository
	inv      store.InventoryRepository
	outbox   store.OutboxRepository
	notifier *store.Notifier
}

func NewReferenceService(
	log zerolog.Logger,
	refs store.ReferenceRepository,
	inv store.InventoryRepository,
	outbox store.OutboxRepository,
	notifier *store.Notifier,
) ReferenceService {
	return &referenceService{log: log, refs: refs, inv: inv, outbox: outbox, notifier: notifier}
}

func (s *referenceService) Create(ctx context.Context, req dto.CreateReferenceRequest) (*model.PartReference, error) {
	ref := &model.PartReference{
		Code:            strings.TrimSpace(req.Code),
		Description:     req.Description,
		PiecesPerUA:     req.PiecesPerUA,
		ConsumptionCoef: req.ConsumptionCoef,
	}
	if err := s.refs.Create(ctx, ref); err != nil {
		return nil, err
	}
	if err := enqueue(ctx, s.outbox, s.notifier, model.OpInsert, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *referenceService) List(ctx context.Context) ([]model.PartReference, error) {
	return s.refs.List(ctx)
}

func (s *referenceService) Update(ctx context.Context, code string, req dto.UpdateReferenceRequest) (*model.PartReference, error) {
	ref, err := s.refs.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, fmt.Errorf("reference %q not found", code)
	}

	if req.Description != nil {
		ref.Description = *req.Description
	}
	if req.PiecesPerUA != nil {
		ref.PiecesPerUA = *req.PiecesPerUA
	}
	if req.ConsumptionCoef != nil {
		ref.ConsumptionCoef = *req.ConsumptionCoef
	}

	if req.NewCode != nil && *req.NewCode != code {
		return s.rename(ctx, ref, code, strings.TrimSpace(*req.NewCode))
	}

	if err := s.refs.Save(ctx, ref); err != nil {
		return nil, err
	}
	if err := enqueue(ctx, s.outbox, s.notifier, model.OpUpdate, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// rename re-keys the reference and every dependent log row. The remote sees
// the same sequence the local store applied: insert the new code, update each
// log row to point at it, delete the old code.
func (s *referenceService) rename(ctx context.Context, ref *model.PartReference, oldCode, newCode string) (*model.PartReference, error) {
	ref.Code = newCode
	if err := s.refs.Create(ctx, ref); err != nil {
		return nil, err
	}
	if err := enqueue(ctx, s.outbox, s.notifier, model.OpInsert, ref); err != nil {
		return nil, err
	}

	rows, err := s.inv.ListByReference(ctx, oldCode)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].ReferenceCode = newCode
		if err := s.inv.Save(ctx, &rows[i]); err != nil {
			return nil, fmt.Errorf("re-key log row %s: %w", rows[i].ID, err)
		}
		if err := enqueue(ctx, s.outbox, s.notifier, model.OpUpdate, &rows[i]); err != nil {
			return nil, err
		}
	}

	if err := s.refs.Delete(ctx, oldCode); err != nil {
		return nil, err
	}
	if err := enqueue(ctx, s.outbox, s.notifier, model.OpDelete, deleteReferenceRow(oldCode)); err != nil {
		return nil, err
	}

	s.log.Info().Str("from", oldCode).Str("to", newCode).Int("rekeyed_rows", len(rows)).
		Msg("reference renamed")
	return ref, nil
}

// Delete removes the reference and cascades deletion of all its log rows.
func (s *referenceService) Delete(ctx context.Context, code string) error {
	ref, err := s.refs.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if ref == nil {
		return fmt.Errorf("reference %q not found", code)
	}

	rows, err := s.inv.ListByReference(ctx, code)
	if err != nil {
		return err
	}
	for i := range rows {
		if err := s.inv.Delete(ctx, rows[i].ID); err != nil {
			return fmt.Errorf("cascade log row %s: %w", rows[i].ID, err)
		}
		if err := enqueue(ctx, s.outbox, s.notifier, model.OpDelete,
			&model.InventoryLogEntry{ID: rows[i].ID}); err != nil {
			return err
		}
	}

	if err := s.refs.Delete(ctx, code); err != nil {
		return err
	}
	return enqueue(ctx, s.outbox, s.notifier, model.OpDelete, deleteReferenceRow(code))
}

// ImportXLSX bulk-loads references from the first sheet of an XLSX workbook.
// Expected columns: code, description, pieces_per_ua, consumption_coef; a
// header row is skipped when the third column is not numeric. Existing codes
// are updated, new ones inserted, each through the sync queue.
func (s *referenceService) ImportXLSX(ctx context.Context, r io.Reader) (*dto.ImportSummary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("import: open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("import: read sheet %q: %w", sheet, err)
	}

	summary := &dto.ImportSummary{}
	for _, cells := range rows {
		ref, ok := parseReferenceRow(cells)
		if !ok {
			summary.Skipped++
			continue
		}

		existing, err := s.refs.FindByCode(ctx, ref.Code)
		if err != nil {
			return nil, err
		}
		op := model.OpInsert
		if existing != nil {
			op = model.OpUpdate
		}
		if err := s.refs.Save(ctx, ref); err != nil {
			return nil, fmt.Errorf("import %q: %w", ref.Code, err)
		}
		if err := enqueue(ctx, s.outbox, s.notifier, op, ref); err != nil {
			return nil, err
		}
		summary.Imported++
	}

	s.log.Info().Int("imported", summary.Imported).Int("skipped", summary.Skipped).
		Msg("reference import completed")
	return summary, nil
}

func parseReferenceRow(cells []string) (*model.PartReference, bool) {
	if len(cells) < 3 || strings.TrimSpace(cells[0]) == "" {
		return nil, false
	}
	piecesPerUA, err := strconv.Atoi(strings.TrimSpace(cells[2]))
	if err != nil || piecesPerUA < 1 {
		return nil, false
	}
	coef := decimal.Zero
	if len(cells) > 3 && strings.TrimSpace(cells[3]) != "" {
		coef, err = decimal.NewFromString(strings.TrimSpace(cells[3]))
		if err != nil || coef.IsNegative() {
			return nil, false
		}
	}
	description := ""
	if len(cells) > 1 {
		description = strings.TrimSpace(cells[1])
	}
	return &model.PartReference{
		Code:            strings.TrimSpace(cells[0]),
		Description:     description,
		PiecesPerUA:     piecesPerUA,
		ConsumptionCoef: coef,
	}, true
}
