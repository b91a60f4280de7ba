package repositories

import "github.com/ofarias/plantmrp/pkg/domain/entities"

// BOMRepository provides access to the bill-of-materials index. The index is
// immutable after load and one level deep.
type BOMRepository interface {
	// GetComponents returns the BOM lines of a final product. A product with
	// no bill returns an empty slice, not an error.
	GetComponents(product entities.MaterialCode) ([]*entities.BOMLine, error)
	GetAllBOMLines() ([]*entities.BOMLine, error)
	LoadBOMLines(lines []*entities.BOMLine) error
}
