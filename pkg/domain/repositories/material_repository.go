package repositories

import (
	"github.com/shopspring/decimal"

	"github.com/ofarias/plantmrp/pkg/domain/entities"
)

// MaterialRepository is the material ledger, the single source of truth for
// stock. GetMaterial reports an absent row with entities.ErrNotFound instead
// of defaulting fields; callers decide per use whether absence is an error.
type MaterialRepository interface {
	GetMaterial(code entities.MaterialCode) (*entities.Material, error)
	GetAllMaterials() ([]*entities.Material, error)
	LoadMaterials(materials []*entities.Material) error

	// Loaded reports whether the ledger has been populated at least once.
	Loaded() bool

	// CreditOnHand adds quantity to a material's on-hand stock. Used only by
	// the order lifecycle when an order reaches Ready.
	CreditOnHand(code entities.MaterialCode, quantity decimal.Decimal) error

	// ApplyQuote replaces a material's commercial terms with quoted values.
	ApplyQuote(quote *entities.Quote) error
}
