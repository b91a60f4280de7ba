package memory

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ofarias/plantmrp/pkg/domain/entities"
	"github.com/ofarias/plantmrp/pkg/domain/repositories"
)

// MaterialRepository provides in-memory material ledger storage.
type MaterialRepository struct {
	materials map[entities.MaterialCode]*entities.Material
	loaded    bool
}

// Verify interface compliance
var _ repositories.MaterialRepository = (*MaterialRepository)(nil)

// NewMaterialRepository creates an empty in-memory ledger.
func NewMaterialRepository() *MaterialRepository {
	return &MaterialRepository{
		materials: make(map[entities.MaterialCode]*entities.Material),
	}
}

// LoadMaterials loads ledger rows and marks the ledger as populated.
func (r *MaterialRepository) LoadMaterials(materials []*entities.Material) error {
	for _, m := range materials {
		if m == nil || m.Code == "" {
			return fmt.Errorf("%w: ledger row without material code", entities.ErrValidation)
		}
		stored := *m
		r.materials[m.Code] = &stored
	}
	r.loaded = true
	return nil
}

// AddMaterial adds a single ledger row.
func (r *MaterialRepository) AddMaterial(m entities.Material) {
	r.materials[m.Code] = &m
	r.loaded = true
}

// GetMaterial returns the ledger row for a material code.
func (r *MaterialRepository) GetMaterial(code entities.MaterialCode) (*entities.Material, error) {
	m, exists := r.materials[code]
	if !exists {
		return nil, fmt.Errorf("%w: material %s", entities.ErrNotFound, code)
	}
	return m, nil
}

// GetAllMaterials returns every ledger row, sorted by code for stable output.
func (r *MaterialRepository) GetAllMaterials() ([]*entities.Material, error) {
	all := make([]*entities.Material, 0, len(r.materials))
	for _, m := range r.materials {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return all, nil
}

// Loaded reports whether the ledger has been populated at least once.
func (r *MaterialRepository) Loaded() bool {
	return r.loaded
}

// CreditOnHand adds quantity to a material's on-hand stock.
func (r *MaterialRepository) CreditOnHand(code entities.MaterialCode, quantity decimal.Decimal) error {
	m, exists := r.materials[code]
	if !exists {
		return fmt.Errorf("%w: material %s", entities.ErrNotFound, code)
	}
	if quantity.IsNegative() {
		return fmt.Errorf("%w: credit for %s cannot be negative, got %s", entities.ErrValidation, code, quantity)
	}
	m.OnHand = m.OnHand.Add(quantity)
	return nil
}

// ApplyQuote replaces a material's commercial terms with quoted values.
func (r *MaterialRepository) ApplyQuote(quote *entities.Quote) error {
	m, exists := r.materials[quote.Material]
	if !exists {
		return fmt.Errorf("%w: material %s", entities.ErrNotFound, quote.Material)
	}
	m.UnitCost = quote.UnitCost
	m.UnitTax = quote.UnitTax
	m.LotFreight = quote.LotFreight
	m.LotLeadTimeDays = quote.LotLeadTimeDays
	return nil
}
