package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ofarias/plantmrp/pkg/domain/entities"
)

// OperationDemand maps operation -> product -> required minutes, computed
// from the planning board and the resource demand matrix.
type OperationDemand map[entities.Operation]map[entities.MaterialCode]decimal.Decimal

// CapacityPlanCell is the available capacity of one resource/operation pair
// on one date, net of exceptions.
type CapacityPlanCell struct {
	Resource  entities.ResourceCode
	Operation entities.Operation
	Available decimal.Decimal
}

// CapacityPlan is an N-day view of available capacity, one column per date.
type CapacityPlan struct {
	Dates []string
	// Cells maps date -> the capacity cells for that day, in table order.
	Cells map[string][]CapacityPlanCell
}
