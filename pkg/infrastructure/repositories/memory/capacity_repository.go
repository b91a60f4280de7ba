package memory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ofarias/plantmrp/pkg/domain/entities"
	"github.com/ofarias/plantmrp/pkg/domain/repositories"
)

type exceptionKey struct {
	resource  entities.ResourceCode
	operation entities.Operation
	date      string
}

// CapacityRepository provides in-memory storage for the capacity tables.
type CapacityRepository struct {
	demand     map[entities.MaterialCode]*entities.ResourceDemand
	capacity   map[entities.ResourceCode]*entities.ResourceCapacity
	exceptions map[exceptionKey]decimal.Decimal
}

// Verify interface compliance
var _ repositories.CapacityRepository = (*CapacityRepository)(nil)

// NewCapacityRepository creates empty in-memory capacity tables.
func NewCapacityRepository() *CapacityRepository {
	return &CapacityRepository{
		demand:     make(map[entities.MaterialCode]*entities.ResourceDemand),
		capacity:   make(map[entities.ResourceCode]*entities.ResourceCapacity),
		exceptions: make(map[exceptionKey]decimal.Decimal),
	}
}

// LoadResourceDemand loads the resource demand matrix.
func (r *CapacityRepository) LoadResourceDemand(rows []*entities.ResourceDemand) error {
	for _, row := range rows {
		if row == nil || row.Product == "" {
			return fmt.Errorf("%w: resource demand row without product", entities.ErrValidation)
		}
		stored := *row
		r.demand[row.Product] = &stored
	}
	return nil
}

// GetResourceDemand returns the demand matrix row for a product.
func (r *CapacityRepository) GetResourceDemand(product entities.MaterialCode) (*entities.ResourceDemand, error) {
	row, exists := r.demand[product]
	if !exists {
		return nil, fmt.Errorf("%w: resource demand for product %s", entities.ErrNotFound, product)
	}
	return row, nil
}

// GetAllResourceDemand returns the demand matrix sorted by product code.
func (r *CapacityRepository) GetAllResourceDemand() ([]*entities.ResourceDemand, error) {
	all := make([]*entities.ResourceDemand, 0, len(r.demand))
	for _, row := range r.demand {
		all = append(all, row)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Product < all[j].Product })
	return all, nil
}

// LoadResourceCapacity loads the nominal capacity table.
func (r *CapacityRepository) LoadResourceCapacity(rows []*entities.ResourceCapacity) error {
	for _, row := range rows {
		if row == nil || row.Resource == "" {
			return fmt.Errorf("%w: resource capacity row without resource", entities.ErrValidation)
		}
		stored := *row
		r.capacity[row.Resource] = &stored
	}
	return nil
}

// GetResourceCapacity returns the nominal capacity row for a resource.
func (r *CapacityRepository) GetResourceCapacity(resource entities.ResourceCode) (*entities.ResourceCapacity, error) {
	row, exists := r.capacity[resource]
	if !exists {
		return nil, fmt.Errorf("%w: resource %s", entities.ErrNotFound, resource)
	}
	return row, nil
}

// GetAllResourceCapacity returns the capacity table sorted by resource code.
func (r *CapacityRepository) GetAllResourceCapacity() ([]*entities.ResourceCapacity, error) {
	all := make([]*entities.ResourceCapacity, 0, len(r.capacity))
	for _, row := range r.capacity {
		all = append(all, row)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Resource < all[j].Resource })
	return all, nil
}

// LoadCapacityExceptions loads dated capacity reductions. A later exception
// for the same resource, operation and date replaces the earlier one.
func (r *CapacityRepository) LoadCapacityExceptions(rows []*entities.CapacityException) error {
	for _, row := range rows {
		if row == nil || row.Resource == "" || row.Operation == "" {
			return fmt.Errorf("%w: capacity exception without resource/operation", entities.ErrValidation)
		}
		key := exceptionKey{resource: row.Resource, operation: row.Operation, date: row.Date}
		r.exceptions[key] = row.Reduction
	}
	return nil
}

// ExceptionReduction returns the reduction for a resource, operation and
// date, or zero when no exception exists for that day.
func (r *CapacityRepository) ExceptionReduction(resource entities.ResourceCode, operation entities.Operation, date string) decimal.Decimal {
	if reduction, exists := r.exceptions[exceptionKey{resource: resource, operation: operation, date: date}]; exists {
		return reduction
	}
	return decimal.Zero
}
