package capacity

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ofarias/plantmrp/pkg/application/dto"
	"github.com/ofarias/plantmrp/pkg/domain/entities"
	"github.com/ofarias/plantmrp/pkg/domain/repositories"
)

// CapacityService aggregates operation-level demand from a planning board
// and compares it against resource capacity net of scheduled exceptions. It
// is independent of the order lifecycle and pure over its inputs.
type CapacityService struct {
	logger *zap.Logger
}

// NewCapacityService creates a capacity service. A nil logger disables
// operational warnings.
func NewCapacityService(logger *zap.Logger) *CapacityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CapacityService{logger: logger}
}

// DemandByOperation computes required minutes per operation per product. A
// product's committed units are the sum of every dated quantity on its board
// entry, current stock excluded; products absent from the resource demand
// matrix consume no tracked operation and are skipped.
func (s *CapacityService) DemandByOperation(
	ctx context.Context,
	board *entities.PlanningBoard,
	capRepo repositories.CapacityRepository,
) (dto.OperationDemand, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if board == nil {
		return nil, fmt.Errorf("%w: planning board is required", entities.ErrValidation)
	}

	demand := make(dto.OperationDemand)
	for _, code := range board.Materials() {
		entry := board.Entries[code]

		row, err := capRepo.GetResourceDemand(code)
		if err != nil {
			s.logger.Debug("product not in resource demand matrix, skipped",
				zap.String("product", string(code)))
			continue
		}

		totalUnits := entry.TotalUnits()
		if !totalUnits.IsPositive() {
			continue
		}

		for operation, minutesPerUnit := range row.MinutesPerUnit {
			if demand[operation] == nil {
				demand[operation] = make(map[entities.MaterialCode]decimal.Decimal)
			}
			demand[operation][code] = totalUnits.Mul(minutesPerUnit)
		}
	}

	return demand, nil
}

// AvailableCapacity returns a resource's minutes for an operation on a given
// date: nominal capacity minus that day's exception reduction, floored at
// zero. An unknown resource is an error; an operation the resource does not
// perform yields zero.
func (s *CapacityService) AvailableCapacity(
	capRepo repositories.CapacityRepository,
	resource entities.ResourceCode,
	operation entities.Operation,
	date string,
) (decimal.Decimal, error) {
	row, err := capRepo.GetResourceCapacity(resource)
	if err != nil {
		return decimal.Zero, err
	}

	nominal, performs := row.NominalMinutes[operation]
	if !performs {
		return decimal.Zero, nil
	}

	reduction := capRepo.ExceptionReduction(resource, operation, date)
	return decimal.Max(decimal.Zero, nominal.Sub(reduction)), nil
}

// Utilization returns consumption over available capacity. The ratio is
// undefined when no capacity is available; that case is reported through
// ok=false rather than computed.
func (s *CapacityService) Utilization(consumed, available decimal.Decimal) (decimal.Decimal, bool) {
	if !available.IsPositive() {
		return decimal.Zero, false
	}
	return consumed.Div(available), true
}

// BuildCapacityPlan produces an N-day view of available capacity for every
// resource and operation starting at the given date, net of exceptions. The
// view backs the interactive capacity worksheet.
func (s *CapacityService) BuildCapacityPlan(
	ctx context.Context,
	capRepo repositories.CapacityRepository,
	start time.Time,
	days int,
) (*dto.CapacityPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if days <= 0 {
		return nil, fmt.Errorf("%w: capacity plan needs a positive number of days, got %d", entities.ErrValidation, days)
	}

	resources, err := capRepo.GetAllResourceCapacity()
	if err != nil {
		return nil, fmt.Errorf("failed to read resource capacity: %w", err)
	}

	plan := &dto.CapacityPlan{
		Dates: make([]string, 0, days),
		Cells: make(map[string][]dto.CapacityPlanCell),
	}

	for day := 0; day < days; day++ {
		date := start.AddDate(0, 0, day).Format(entities.BoardDateLayout)
		plan.Dates = append(plan.Dates, date)

		for _, row := range resources {
			for _, operation := range sortedOperations(row.NominalMinutes) {
				nominal := row.NominalMinutes[operation]
				if nominal.IsZero() {
					// The resource cannot perform this operation at all.
					continue
				}
				reduction := capRepo.ExceptionReduction(row.Resource, operation, date)
				plan.Cells[date] = append(plan.Cells[date], dto.CapacityPlanCell{
					Resource:  row.Resource,
					Operation: operation,
					Available: decimal.Max(decimal.Zero, nominal.Sub(reduction)),
				})
			}
		}
	}

	return plan, nil
}

// sortedOperations returns the operation keys in stable order so tables come
// out deterministic.
func sortedOperations(minutes map[entities.Operation]decimal.Decimal) []entities.Operation {
	ops := make([]entities.Operation, 0, len(minutes))
	for op := range minutes {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}
