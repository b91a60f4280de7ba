package memory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ofarias/plantmrp/pkg/domain/entities"
)

func d(value string) decimal.Decimal {
	dd, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return dd
}

func testMaterial(t *testing.T, code string, onHand string) *entities.Material {
	t.Helper()
	m, err := entities.NewMaterial(entities.MaterialCode(code), d(onHand), d("5"), d("10"), d("1"), d("30"), 4)
	if err != nil {
		t.Fatalf("NewMaterial failed: %v", err)
	}
	return m
}

func TestMaterialRepository_LoadAndGet(t *testing.T) {
	repo := NewMaterialRepository()
	if repo.Loaded() {
		t.Error("Expected fresh repository to report unloaded")
	}

	if err := repo.LoadMaterials([]*entities.Material{testMaterial(t, "ETI", "30")}); err != nil {
		t.Fatalf("LoadMaterials failed: %v", err)
	}
	if !repo.Loaded() {
		t.Error("Expected repository to report loaded")
	}

	m, err := repo.GetMaterial("ETI")
	if err != nil {
		t.Fatalf("GetMaterial failed: %v", err)
	}
	if !m.OnHand.Equal(d("30")) {
		t.Errorf("Expected on-hand 30, got %s", m.OnHand)
	}

	if _, err := repo.GetMaterial("GHOST"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMaterialRepository_CreditOnHand(t *testing.T) {
	repo := NewMaterialRepository()
	repo.AddMaterial(*testMaterial(t, "JOKER", "5"))

	if err := repo.CreditOnHand("JOKER", d("50")); err != nil {
		t.Fatalf("CreditOnHand failed: %v", err)
	}
	m, _ := repo.GetMaterial("JOKER")
	if !m.OnHand.Equal(d("55")) {
		t.Errorf("Expected on-hand 55, got %s", m.OnHand)
	}

	if err := repo.CreditOnHand("JOKER", d("-1")); !errors.Is(err, entities.ErrValidation) {
		t.Errorf("Expected ErrValidation for negative credit, got %v", err)
	}
	if err := repo.CreditOnHand("GHOST", d("1")); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown material, got %v", err)
	}
}

func TestMaterialRepository_ApplyQuote(t *testing.T) {
	repo := NewMaterialRepository()
	repo.AddMaterial(*testMaterial(t, "DAQ", "0"))

	quote, err := entities.NewQuote("DAQ", d("12"), d("2"), d("45"), 9)
	if err != nil {
		t.Fatalf("NewQuote failed: %v", err)
	}
	if err := repo.ApplyQuote(quote); err != nil {
		t.Fatalf("ApplyQuote failed: %v", err)
	}

	m, _ := repo.GetMaterial("DAQ")
	if !m.UnitCost.Equal(d("12")) || !m.UnitTax.Equal(d("2")) || !m.LotFreight.Equal(d("45")) || m.LotLeadTimeDays != 9 {
		t.Errorf("Expected quoted terms applied, got %+v", m)
	}
	if !m.OnHand.IsZero() {
		t.Errorf("Expected quote to leave stock untouched, got %s", m.OnHand)
	}
}

func TestBOMRepository_GetComponents(t *testing.T) {
	repo := NewBOMRepository()
	line, err := entities.NewBOMLine("ETI", "JOKER", d("2"))
	if err != nil {
		t.Fatalf("NewBOMLine failed: %v", err)
	}
	if err := repo.LoadBOMLines([]*entities.BOMLine{line}); err != nil {
		t.Fatalf("LoadBOMLines failed: %v", err)
	}

	lines, err := repo.GetComponents("ETI")
	if err != nil {
		t.Fatalf("GetComponents failed: %v", err)
	}
	if len(lines) != 1 || lines[0].Component != "JOKER" {
		t.Errorf("Unexpected components %+v", lines)
	}

	// A product with no bill is not an error.
	lines, err = repo.GetComponents("JOKER")
	if err != nil {
		t.Fatalf("GetComponents failed: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Expected no components, got %d", len(lines))
	}
}
