package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Operation identifies a production operation (a column of the resource
// demand and capacity tables).
type Operation string

// ResourceCode identifies a production resource.
type ResourceCode string

// ResourceDemand gives the minutes of each operation consumed by one unit of
// a product. Products absent from the table consume no tracked operation.
type ResourceDemand struct {
	Product        MaterialCode
	MinutesPerUnit map[Operation]decimal.Decimal
}

// NewResourceDemand creates a validated resource demand row.
func NewResourceDemand(product MaterialCode, minutesPerUnit map[Operation]decimal.Decimal) (*ResourceDemand, error) {
	if product == "" {
		return nil, fmt.Errorf("%w: resource demand product cannot be empty", ErrValidation)
	}
	for op, minutes := range minutesPerUnit {
		if minutes.IsNegative() {
			return nil, fmt.Errorf("%w: minutes per unit for %s/%s cannot be negative, got %s",
				ErrValidation, product, op, minutes)
		}
	}
	return &ResourceDemand{Product: product, MinutesPerUnit: minutesPerUnit}, nil
}

// ResourceCapacity gives the nominal minutes per day a resource offers for
// each operation. A zero entry means the resource cannot perform the
// operation at all.
type ResourceCapacity struct {
	Resource       ResourceCode
	NominalMinutes map[Operation]decimal.Decimal
}

// NewResourceCapacity creates a validated resource capacity row.
func NewResourceCapacity(resource ResourceCode, nominalMinutes map[Operation]decimal.Decimal) (*ResourceCapacity, error) {
	if resource == "" {
		return nil, fmt.Errorf("%w: resource code cannot be empty", ErrValidation)
	}
	for op, minutes := range nominalMinutes {
		if minutes.IsNegative() {
			return nil, fmt.Errorf("%w: nominal capacity for %s/%s cannot be negative, got %s",
				ErrValidation, resource, op, minutes)
		}
	}
	return &ResourceCapacity{Resource: resource, NominalMinutes: nominalMinutes}, nil
}

// CapacityException is a dated reduction of a resource's nominal capacity for
// one operation on one specific day.
type CapacityException struct {
	Resource  ResourceCode
	Operation Operation
	Date      string // BoardDateLayout
	Reduction decimal.Decimal
}

// NewCapacityException creates a validated capacity exception.
func NewCapacityException(resource ResourceCode, operation Operation, date string, reduction decimal.Decimal) (*CapacityException, error) {
	if resource == "" {
		return nil, fmt.Errorf("%w: exception resource cannot be empty", ErrValidation)
	}
	if operation == "" {
		return nil, fmt.Errorf("%w: exception operation cannot be empty", ErrValidation)
	}
	if _, err := time.Parse(BoardDateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: exception date %q is not a calendar date: %v", ErrValidation, date, err)
	}
	if reduction.IsNegative() {
		return nil, fmt.Errorf("%w: exception reduction for %s/%s on %s cannot be negative, got %s",
			ErrValidation, resource, operation, date, reduction)
	}
	return &CapacityException{
		Resource:  resource,
		Operation: operation,
		Date:      date,
		Reduction: reduction,
	}, nil
}
