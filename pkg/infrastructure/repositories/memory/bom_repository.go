package memory

import (
	"fmt"
	"sort"

	"github.com/ofarias/plantmrp/pkg/domain/entities"
	"github.com/ofarias/plantmrp/pkg/domain/repositories"
)

// BOMRepository provides in-memory bill-of-materials storage.
type BOMRepository struct {
	linesByProduct map[entities.MaterialCode][]*entities.BOMLine
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// NewBOMRepository creates an empty in-memory BOM index.
func NewBOMRepository() *BOMRepository {
	return &BOMRepository{
		linesByProduct: make(map[entities.MaterialCode][]*entities.BOMLine),
	}
}

// LoadBOMLines loads BOM lines into the index.
func (r *BOMRepository) LoadBOMLines(lines []*entities.BOMLine) error {
	for _, line := range lines {
		if line == nil || line.Product == "" {
			return fmt.Errorf("%w: BOM line without product code", entities.ErrValidation)
		}
		stored := *line
		r.linesByProduct[line.Product] = append(r.linesByProduct[line.Product], &stored)
	}
	return nil
}

// AddBOMLine adds a single BOM line to the index.
func (r *BOMRepository) AddBOMLine(line entities.BOMLine) {
	r.linesByProduct[line.Product] = append(r.linesByProduct[line.Product], &line)
}

// GetComponents returns the BOM lines of a final product. A product with no
// bill yields an empty slice.
func (r *BOMRepository) GetComponents(product entities.MaterialCode) ([]*entities.BOMLine, error) {
	return r.linesByProduct[product], nil
}

// GetAllBOMLines returns every BOM line, sorted by product then component.
func (r *BOMRepository) GetAllBOMLines() ([]*entities.BOMLine, error) {
	var all []*entities.BOMLine
	for _, lines := range r.linesByProduct {
		all = append(all, lines...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Product != all[j].Product {
			return all[i].Product < all[j].Product
		}
		return all[i].Component < all[j].Component
	})
	return all, nil
}
