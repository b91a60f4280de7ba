package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaterialCode is the unique identifier of a material. Final products and
// their components share the same code space.
type MaterialCode string

// Material is a row of the material ledger. OnHand is the only field mutated
// after load, and only by the order lifecycle when an order reaches Ready.
type Material struct {
	Code            MaterialCode
	OnHand          decimal.Decimal
	MinimumStock    decimal.Decimal
	UnitCost        decimal.Decimal
	UnitTax         decimal.Decimal
	LotFreight      decimal.Decimal
	LotLeadTimeDays int
}

// NewMaterial creates a validated ledger row.
func NewMaterial(
	code MaterialCode,
	onHand, minimumStock decimal.Decimal,
	unitCost, unitTax, lotFreight decimal.Decimal,
	lotLeadTimeDays int,
) (*Material, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: material code cannot be empty", ErrValidation)
	}
	if onHand.IsNegative() {
		return nil, fmt.Errorf("%w: on-hand stock for %s cannot be negative, got %s", ErrValidation, code, onHand)
	}
	if lotLeadTimeDays < 0 {
		return nil, fmt.Errorf("%w: lot leadtime for %s cannot be negative, got %d", ErrValidation, code, lotLeadTimeDays)
	}

	return &Material{
		Code:            code,
		OnHand:          onHand,
		MinimumStock:    minimumStock,
		UnitCost:        unitCost,
		UnitTax:         unitTax,
		LotFreight:      lotFreight,
		LotLeadTimeDays: lotLeadTimeDays,
	}, nil
}

// UnitPrice is the per-unit landed price excluding freight.
func (m *Material) UnitPrice() decimal.Decimal {
	return m.UnitCost.Add(m.UnitTax)
}

// Quote carries updated commercial terms for a material, as obtained from a
// supplier quotation round during execution.
type Quote struct {
	Material        MaterialCode
	UnitCost        decimal.Decimal
	UnitTax         decimal.Decimal
	LotFreight      decimal.Decimal
	LotLeadTimeDays int
}

// NewQuote creates a validated quote row.
func NewQuote(
	material MaterialCode,
	unitCost, unitTax, lotFreight decimal.Decimal,
	lotLeadTimeDays int,
) (*Quote, error) {
	if material == "" {
		return nil, fmt.Errorf("%w: quote material cannot be empty", ErrValidation)
	}
	if unitCost.IsNegative() {
		return nil, fmt.Errorf("%w: quoted unit cost for %s cannot be negative, got %s", ErrValidation, material, unitCost)
	}
	if lotLeadTimeDays < 0 {
		return nil, fmt.Errorf("%w: quoted leadtime for %s cannot be negative, got %d", ErrValidation, material, lotLeadTimeDays)
	}

	return &Quote{
		Material:        material,
		UnitCost:        unitCost,
		UnitTax:         unitTax,
		LotFreight:      lotFreight,
		LotLeadTimeDays: lotLeadTimeDays,
	}, nil
}
