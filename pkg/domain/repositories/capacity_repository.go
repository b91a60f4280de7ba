package repositories

import (
	"github.com/shopspring/decimal"

	"github.com/ofarias/plantmrp/pkg/domain/entities"
)

// CapacityRepository provides access to the external capacity tables consumed
// by capacity requirements planning: the resource demand matrix, the nominal
// capacity table and the dated exceptions.
type CapacityRepository interface {
	GetResourceDemand(product entities.MaterialCode) (*entities.ResourceDemand, error)
	GetAllResourceDemand() ([]*entities.ResourceDemand, error)
	LoadResourceDemand(rows []*entities.ResourceDemand) error

	GetResourceCapacity(resource entities.ResourceCode) (*entities.ResourceCapacity, error)
	GetAllResourceCapacity() ([]*entities.ResourceCapacity, error)
	LoadResourceCapacity(rows []*entities.ResourceCapacity) error

	// ExceptionReduction returns the reduction registered for a resource,
	// operation and date, or zero when no exception exists.
	ExceptionReduction(resource entities.ResourceCode, operation entities.Operation, date string) decimal.Decimal
	LoadCapacityExceptions(rows []*entities.CapacityException) error
}
