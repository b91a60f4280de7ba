package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ofarias/plantmrp/pkg/application/dto"
	"github.com/ofarias/plantmrp/pkg/domain/entities"
	"github.com/ofarias/plantmrp/pkg/domain/repositories"
)

// PlanningService turns a final-product demand vector into netted
// requirements, cost/leadtime estimates and a dated planning board. It is
// pure over its inputs: every phase takes explicit repository arguments and
// the ledger is never mutated here.
type PlanningService struct {
	logger *zap.Logger
}

// NewPlanningService creates a planning service. A nil logger disables
// operational warnings.
func NewPlanningService(logger *zap.Logger) *PlanningService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanningService{logger: logger}
}

// Explode performs one-level requirement explosion with stock netting.
//
// For each demanded final product P with quantity d:
//
//	produce(P) = max(0, d + minimumStock(P) - onHand(P))
//
// then every BOM component C of P accumulates need(C) += produce(P) * qtyPer
// across all demanded products, and after accumulation:
//
//	acquire(C) = max(0, need(C) + minimumStock(C) - onHand(C))
//
// A material that is both demanded and consumed keeps both quantities as
// separate fields. A missing ledger row nets against zero stock (a material
// never stocked before) and is logged; an unpopulated ledger is a hard error.
func (s *PlanningService) Explode(
	ctx context.Context,
	demand map[entities.MaterialCode]decimal.Decimal,
	ledger repositories.MaterialRepository,
	boms repositories.BOMRepository,
) (map[entities.MaterialCode]*entities.NetRequirement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ledger.Loaded() {
		return nil, fmt.Errorf("%w: material ledger has not been loaded", entities.ErrValidation)
	}

	requirements := make(map[entities.MaterialCode]*entities.NetRequirement)

	// Pass 1: net each demanded product against its own stock.
	produced := make(map[entities.MaterialCode]decimal.Decimal)
	for product, demanded := range demand {
		if demanded.IsNegative() {
			return nil, fmt.Errorf("%w: demand for %s cannot be negative, got %s",
				entities.ErrValidation, product, demanded)
		}
		if demanded.IsZero() {
			// Processed but yields no requirement and no component need.
			continue
		}

		onHand, minimum := s.stockLevels(ledger, product)
		produce := decimal.Max(decimal.Zero, demanded.Add(minimum).Sub(onHand))
		produced[product] = produce
		req := s.requirement(requirements, product)
		req.Produce = req.Produce.Add(produce)
	}

	// Pass 2: accumulate component need across all demanded products, then
	// net each component against its own stock.
	need := make(map[entities.MaterialCode]decimal.Decimal)
	for product, produce := range produced {
		lines, err := boms.GetComponents(product)
		if err != nil {
			return nil, fmt.Errorf("failed to read BOM for %s: %w", product, err)
		}
		for _, line := range lines {
			current := need[line.Component]
			need[line.Component] = current.Add(produce.Mul(line.QtyPer))
		}
	}
	for component, gross := range need {
		onHand, minimum := s.stockLevels(ledger, component)
		acquire := decimal.Max(decimal.Zero, gross.Add(minimum).Sub(onHand))
		req := s.requirement(requirements, component)
		req.Acquire = req.Acquire.Add(acquire)
	}

	return requirements, nil
}

// stockLevels reads on-hand and minimum stock for a material, defaulting both
// to zero for an absent ledger row. Absence is legitimate here (the material
// may simply never have been stocked) but is surfaced in the log so data
// errors do not pass silently.
func (s *PlanningService) stockLevels(
	ledger repositories.MaterialRepository,
	code entities.MaterialCode,
) (onHand, minimum decimal.Decimal) {
	material, err := ledger.GetMaterial(code)
	if err != nil {
		s.logger.Warn("material missing from ledger, netting against zero stock",
			zap.String("material", string(code)))
		return decimal.Zero, decimal.Zero
	}
	return material.OnHand, material.MinimumStock
}

func (s *PlanningService) requirement(
	requirements map[entities.MaterialCode]*entities.NetRequirement,
	code entities.MaterialCode,
) *entities.NetRequirement {
	req, ok := requirements[code]
	if !ok {
		req = &entities.NetRequirement{Material: code}
		requirements[code] = req
	}
	return req
}

// Propagate derives cost and leadtime estimates for every material with a
// positive requirement. Production orders take the material's own leadtime
// plus the slowest component in its bill, and cost quantity times unit price
// with freight excluded. Acquisition orders take the material's own leadtime
// and add the lot freight as a flat per-order amount. The two kinds produce
// independent estimate records.
//
// Unlike netting, cost propagation cannot default an absent ledger row: the
// cost fields have no legitimate zero, so absence is a hard error.
func (s *PlanningService) Propagate(
	ctx context.Context,
	requirements map[entities.MaterialCode]*entities.NetRequirement,
	ledger repositories.MaterialRepository,
	boms repositories.BOMRepository,
) (map[entities.EstimateKey]*entities.OrderEstimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	estimates := make(map[entities.EstimateKey]*entities.OrderEstimate)

	for code, req := range requirements {
		if !req.HasAny() {
			continue
		}

		material, err := ledger.GetMaterial(code)
		if err != nil {
			return nil, fmt.Errorf("%w: cost propagation requires a ledger row for %s",
				entities.ErrValidation, code)
		}

		if req.Produce.IsPositive() {
			leadTime, err := s.productionLeadTime(material, ledger, boms)
			if err != nil {
				return nil, err
			}
			key := entities.EstimateKey{Material: code, Kind: entities.KindProduction}
			estimates[key] = &entities.OrderEstimate{
				Material:     code,
				Kind:         entities.KindProduction,
				LeadTimeDays: leadTime,
				Cost:         req.Produce.Mul(material.UnitPrice()),
			}
		}

		if req.Acquire.IsPositive() {
			key := entities.EstimateKey{Material: code, Kind: entities.KindAcquisition}
			estimates[key] = &entities.OrderEstimate{
				Material:     code,
				Kind:         entities.KindAcquisition,
				LeadTimeDays: material.LotLeadTimeDays,
				Cost:         req.Acquire.Mul(material.UnitPrice()).Add(material.LotFreight),
			}
		}
	}

	return estimates, nil
}

// productionLeadTime is the material's own lot leadtime plus the largest
// component leadtime in its bill, zero when the product has no bill.
// Components missing from the ledger contribute zero here; they surface as
// hard errors when their own acquisition estimate is propagated.
func (s *PlanningService) productionLeadTime(
	material *entities.Material,
	ledger repositories.MaterialRepository,
	boms repositories.BOMRepository,
) (int, error) {
	lines, err := boms.GetComponents(material.Code)
	if err != nil {
		return 0, fmt.Errorf("failed to read BOM for %s: %w", material.Code, err)
	}

	longest := 0
	for _, line := range lines {
		component, err := ledger.GetMaterial(line.Component)
		if err != nil {
			s.logger.Warn("component missing from ledger, leadtime contribution defaults to zero",
				zap.String("product", string(material.Code)),
				zap.String("component", string(line.Component)))
			continue
		}
		if component.LotLeadTimeDays > longest {
			longest = component.LotLeadTimeDays
		}
	}
	return material.LotLeadTimeDays + longest, nil
}

// BuildBoard schedules every positive requirement onto the planning board at
// executionDate plus the estimated leadtime. Passing an existing board
// appends to it, so repeated builds with different execution dates stack date
// keys on the same entries; pass nil to start from a clean board.
func (s *PlanningService) BuildBoard(
	board *entities.PlanningBoard,
	requirements map[entities.MaterialCode]*entities.NetRequirement,
	estimates map[entities.EstimateKey]*entities.OrderEstimate,
	ledger repositories.MaterialRepository,
	executionDate time.Time,
) (*entities.PlanningBoard, error) {
	if board == nil {
		board = entities.NewPlanningBoard()
	}

	for code, req := range requirements {
		if !req.HasAny() {
			continue
		}

		currentStock := decimal.Zero
		if material, err := ledger.GetMaterial(code); err == nil {
			currentStock = material.OnHand
		}

		if req.Produce.IsPositive() {
			if err := s.schedule(board, code, currentStock, entities.KindProduction, req.Produce, estimates, executionDate); err != nil {
				return nil, err
			}
		}
		if req.Acquire.IsPositive() {
			if err := s.schedule(board, code, currentStock, entities.KindAcquisition, req.Acquire, estimates, executionDate); err != nil {
				return nil, err
			}
		}
	}

	return board, nil
}

func (s *PlanningService) schedule(
	board *entities.PlanningBoard,
	code entities.MaterialCode,
	currentStock decimal.Decimal,
	kind entities.OrderKind,
	quantity decimal.Decimal,
	estimates map[entities.EstimateKey]*entities.OrderEstimate,
	executionDate time.Time,
) error {
	estimate, ok := estimates[entities.EstimateKey{Material: code, Kind: kind}]
	if !ok {
		return fmt.Errorf("%w: %s estimate for %s", entities.ErrNotFound, kind, code)
	}

	delivery := executionDate.AddDate(0, 0, estimate.LeadTimeDays)
	board.Schedule(code, currentStock, entities.ScheduledDelivery{
		Kind:     kind,
		Date:     delivery.Format(entities.BoardDateLayout),
		Quantity: quantity,
	})
	return nil
}

// Plan runs the full planning pipeline for a demand vector and returns the
// recomputable planning views.
func (s *PlanningService) Plan(
	ctx context.Context,
	demand map[entities.MaterialCode]decimal.Decimal,
	ledger repositories.MaterialRepository,
	boms repositories.BOMRepository,
	executionDate time.Time,
) (*dto.PlanResult, error) {
	// Pass 1: explode demand into netted production/acquisition quantities.
	requirements, err := s.Explode(ctx, demand, ledger, boms)
	if err != nil {
		return nil, fmt.Errorf("failed to explode demand: %w", err)
	}

	// Pass 2: derive cost and leadtime estimates per order kind.
	estimates, err := s.Propagate(ctx, requirements, ledger, boms)
	if err != nil {
		return nil, fmt.Errorf("failed to propagate cost and leadtime: %w", err)
	}

	// Pass 3: date the deliveries onto a fresh planning board.
	board, err := s.BuildBoard(nil, requirements, estimates, ledger, executionDate)
	if err != nil {
		return nil, fmt.Errorf("failed to build planning board: %w", err)
	}

	s.logger.Info("planning run complete",
		zap.Int("demanded_products", len(demand)),
		zap.Int("materials_with_requirements", len(requirements)),
		zap.Int("estimates", len(estimates)))

	return &dto.PlanResult{
		Requirements: requirements,
		Estimates:    estimates,
		Board:        board,
	}, nil
}
