package entities

import (
	"github.com/shopspring/decimal"
)

// OrderKind distinguishes the two economic sides of a net requirement.
type OrderKind int

const (
	// KindUnspecified tags deliveries whose kind was lost at an export
	// boundary, such as a planning board re-ingested from a sheet.
	KindUnspecified OrderKind = iota
	KindProduction
	KindAcquisition
)

// String returns the planner-facing label, matching the report vocabulary.
func (k OrderKind) String() string {
	switch k {
	case KindProduction:
		return "Produção"
	case KindAcquisition:
		return "Aquisição"
	default:
		return "Unknown"
	}
}

// OrderStatus is the per-order execution status.
type OrderStatus int

const (
	StatusPlanned OrderStatus = iota
	StatusExecuted
	StatusReady
)

// String returns the planner-facing label, matching the report vocabulary.
func (s OrderStatus) String() string {
	switch s {
	case StatusPlanned:
		return "Planejada"
	case StatusExecuted:
		return "Executada"
	case StatusReady:
		return "Pronta"
	default:
		return "Unknown"
	}
}

// CycleState is the top-level state of a planning cycle.
type CycleState int

const (
	CyclePlanned CycleState = iota
	CycleInExecution
	CycleClosed
)

// String returns the planner-facing label, matching the report vocabulary.
func (s CycleState) String() string {
	switch s {
	case CyclePlanned:
		return "Planejado"
	case CycleInExecution:
		return "Em Execução"
	case CycleClosed:
		return "Encerrado"
	default:
		return "Unknown"
	}
}

// OrderLine is one editable quantity on a control order.
type OrderLine struct {
	Quantity decimal.Decimal
}

// ControlOrder is the mutable, status-tracked instance of a net requirement
// during execution. Lines are present only for the kinds that had a positive
// quantity when execution started. Credited guards the one-shot ledger credit
// performed when the order reaches Ready.
type ControlOrder struct {
	Material      MaterialCode
	StockSnapshot decimal.Decimal
	Status        OrderStatus
	Production    *OrderLine
	Acquisition   *OrderLine
	Credited      bool
}

// Line returns the order line for the given kind, or nil when the order does
// not carry that kind.
func (o *ControlOrder) Line(kind OrderKind) *OrderLine {
	switch kind {
	case KindProduction:
		return o.Production
	case KindAcquisition:
		return o.Acquisition
	default:
		return nil
	}
}

// OpenQuantity is the sum of the positive quantities still on the order.
func (o *ControlOrder) OpenQuantity() decimal.Decimal {
	total := decimal.Zero
	if o.Production != nil && o.Production.Quantity.IsPositive() {
		total = total.Add(o.Production.Quantity)
	}
	if o.Acquisition != nil && o.Acquisition.Quantity.IsPositive() {
		total = total.Add(o.Acquisition.Quantity)
	}
	return total
}

// Clone returns a deep copy, used when handing orders out of the lifecycle
// manager so callers cannot bypass its transitions.
func (o *ControlOrder) Clone() *ControlOrder {
	clone := *o
	if o.Production != nil {
		line := *o.Production
		clone.Production = &line
	}
	if o.Acquisition != nil {
		line := *o.Acquisition
		clone.Acquisition = &line
	}
	return &clone
}
