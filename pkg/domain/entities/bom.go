package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BOMLine is a single line of a final product's bill of materials: building
// one unit of Product consumes QtyPer units of Component. The index is one
// level deep; components do not carry bills of their own.
type BOMLine struct {
	Product   MaterialCode
	Component MaterialCode
	QtyPer    decimal.Decimal
}

// NewBOMLine creates a validated BOM line.
func NewBOMLine(product, component MaterialCode, qtyPer decimal.Decimal) (*BOMLine, error) {
	if product == "" {
		return nil, fmt.Errorf("%w: BOM product code cannot be empty", ErrValidation)
	}
	if component == "" {
		return nil, fmt.Errorf("%w: BOM component code cannot be empty", ErrValidation)
	}
	if product == component {
		return nil, fmt.Errorf("%w: product %s cannot be its own component", ErrValidation, product)
	}
	if !qtyPer.IsPositive() {
		return nil, fmt.Errorf("%w: quantity per unit for %s in %s must be positive, got %s",
			ErrValidation, component, product, qtyPer)
	}

	return &BOMLine{
		Product:   product,
		Component: component,
		QtyPer:    qtyPer,
	}, nil
}
