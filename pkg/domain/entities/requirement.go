package entities

import "github.com/shopspring/decimal"

// NetRequirement holds the netted quantities for one material after
// explosion. Produce comes from direct demand for the material as a final
// product; Acquire comes from its use as a component. A material that is
// simultaneously demanded and consumed carries both, tracked separately.
type NetRequirement struct {
	Material MaterialCode
	Produce  decimal.Decimal
	Acquire  decimal.Decimal
}

// HasAny reports whether either quantity is positive.
func (r *NetRequirement) HasAny() bool {
	return r.Produce.IsPositive() || r.Acquire.IsPositive()
}

// OrderEstimate is the derived cost and leadtime expectation for one order
// kind of one material. Estimates for the production and acquisition sides of
// the same material are independent records and never share a slot.
type OrderEstimate struct {
	Material     MaterialCode
	Kind         OrderKind
	LeadTimeDays int
	Cost         decimal.Decimal
}

// EstimateKey identifies an OrderEstimate by material and order kind.
type EstimateKey struct {
	Material MaterialCode
	Kind     OrderKind
}
