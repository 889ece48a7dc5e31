package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/froma1976/ailogistic/internal/dto"
	"github.com/froma1976/ailogistic/internal/store"
)

// neverDays is the days-remaining value reported for references that consume
// nothing at the current production pace.
var neverDays = decimal.NewFromInt(999)

// SimulationService projects stock forward: a 7-day plan simulation and a
// days-until-rupture forecast at the latest recorded production pace.
type SimulationService interface {
	SimulateWeek(ctx context.Context, plan []int) ([]dto.SimulationRow, error)
	RuptureReport(ctx context.Context) ([]dto.RuptureRow, error)
}

type simulationService struct {
	log  zerolog.Logger
	refs store.ReferenceRepository
	inv  store.InventoryRepository
	prod store.ProductionRepository
	now  func() time.Time
}

func NewSimulationService(
	log zerolog.Logger,
	refs store.ReferenceRepository,
	inv store.InventoryRepository,
	prod store.ProductionRepository,
) SimulationService {
	return &simulationService{log: log, refs: refs, inv: inv, prod: prod, now: time.Now}
}

// SimulateWeek walks each reference's stock through the planned week:
// balance[0] = initial - p[0]*coef, balance[i] = balance[i-1] - p[i]*coef.
// The rupture day is the first index where the balance goes negative. Rows
// come back ordered by final balance ascending, most at-risk first.
func (s *simulationService) SimulateWeek(ctx context.Context, plan []int) ([]dto.SimulationRow, error) {
	refs, err := s.refs.List(ctx)
	if err != nil {
		return nil, err
	}

	totalPlanned := 0
	for _, p := range plan {
		totalPlanned += p
	}

	rows := make([]dto.SimulationRow, 0, len(refs))
	for i := range refs {
		initial, err := s.currentStock(ctx, refs[i].Code)
		if err != nil {
			return nil, err
		}
		coef := refs[i].ConsumptionCoef

		row := dto.SimulationRow{
			Code:         refs[i].Code,
			Description:  refs[i].Description,
			InitialStock: initial,
			Coef:         coef,
			Required:     coef.Mul(decimal.NewFromInt(int64(totalPlanned))),
			DailyBalance: make([]decimal.Decimal, len(plan)),
		}

		balance := decimal.NewFromInt(int64(initial))
		for day, produced := range plan {
			balance = balance.Sub(coef.Mul(decimal.NewFromInt(int64(produced))))
			row.DailyBalance[day] = balance
			if balance.IsNegative() && row.RuptureDay == nil {
				d := day
				row.RuptureDay = &d
			}
		}
		row.FinalBalance = balance
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].FinalBalance.LessThan(rows[b].FinalBalance)
	})
	return rows, nil
}

// RuptureReport estimates, per reference, how many days of stock remain at
// the latest recorded production quantity, and the calendar date the stock
// runs out. Ordered by days remaining ascending.
func (s *simulationService) RuptureReport(ctx context.Context) ([]dto.RuptureRow, error) {
	refs, err := s.refs.List(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := s.prod.Latest(ctx)
	if err != nil {
		return nil, err
	}
	pace := 0
	if latest != nil {
		pace = latest.Quantity
	}
	today := s.now()

	rows := make([]dto.RuptureRow, 0, len(refs))
	for i := range refs {
		stock, err := s.currentStock(ctx, refs[i].Code)
		if err != nil {
			return nil, err
		}
		consumption := refs[i].ConsumptionCoef.Mul(decimal.NewFromInt(int64(pace)))

		row := dto.RuptureRow{
			Code:             refs[i].Code,
			Description:      refs[i].Description,
			Stock:            stock,
			Coef:             refs[i].ConsumptionCoef,
			DailyConsumption: consumption,
			DaysRemaining:    neverDays,
			Severity:         dto.SeveritySafe,
		}
		if consumption.IsPositive() {
			days := decimal.NewFromInt(int64(stock)).Div(consumption)
			if days.IsNegative() {
				days = decimal.Zero
			}
			row.DaysRemaining = days.Round(2)
			row.RuptureDate = today.AddDate(0, 0, int(days.IntPart())).Format(dateLayout)
			switch {
			case days.LessThanOrEqual(decimal.NewFromInt(2)):
				row.Severity = dto.SeverityCritical
			case days.LessThanOrEqual(decimal.NewFromInt(5)):
				row.Severity = dto.SeverityWarning
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].DaysRemaining.LessThan(rows[b].DaysRemaining)
	})
	return rows, nil
}

func (s *simulationService) currentStock(ctx context.Context, code string) (int, error) {
	latest, err := s.inv.LatestByReference(ctx, code)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return 0, nil
	}
	return latest.Total, nil
}
