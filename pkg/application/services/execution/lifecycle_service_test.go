package execution

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ofarias/plantmrp/pkg/domain/entities"
	"github.com/ofarias/plantmrp/pkg/infrastructure/events"
	"github.com/ofarias/plantmrp/pkg/infrastructure/repositories/memory"
)

func d(value string) decimal.Decimal {
	dd, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return dd
}

func newLedger(t *testing.T, materials ...*entities.Material) *memory.MaterialRepository {
	t.Helper()
	ledger := memory.NewMaterialRepository()
	if err := ledger.LoadMaterials(materials); err != nil {
		t.Fatalf("loading ledger: %v", err)
	}
	return ledger
}

func mat(t *testing.T, code string, onHand string, leadtime int) *entities.Material {
	t.Helper()
	m, err := entities.NewMaterial(entities.MaterialCode(code), d(onHand), d("0"), d("10"), d("0"), d("0"), leadtime)
	if err != nil {
		t.Fatalf("NewMaterial(%s): %v", code, err)
	}
	return m
}

func requirements() map[entities.MaterialCode]*entities.NetRequirement {
	return map[entities.MaterialCode]*entities.NetRequirement{
		"ETI":   {Material: "ETI", Produce: d("25")},
		"JOKER": {Material: "JOKER", Acquire: d("50")},
		"DAQ":   {Material: "DAQ", Produce: d("4"), Acquire: d("20")},
	}
}

func inExecution(t *testing.T, ledger *memory.MaterialRepository) *LifecycleService {
	t.Helper()
	svc := NewLifecycleService(ledger, events.NewInMemoryStore(), nil)
	if err := svc.EnterExecution(requirements()); err != nil {
		t.Fatalf("EnterExecution failed: %v", err)
	}
	return svc
}

func TestEnterExecution_SnapshotsOrders(t *testing.T) {
	ledger := newLedger(t, mat(t, "ETI", "30", 3), mat(t, "JOKER", "5", 7), mat(t, "DAQ", "0", 2))
	svc := inExecution(t, ledger)

	if svc.State() != entities.CycleInExecution {
		t.Errorf("Expected InExecution, got %s", svc.State())
	}

	order, err := svc.Order("ETI")
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}
	if order.Production == nil || !order.Production.Quantity.Equal(d("25")) {
		t.Errorf("Expected production line 25, got %+v", order.Production)
	}
	if order.Acquisition != nil {
		t.Error("Expected no acquisition line for a produce-only requirement")
	}
	if !order.StockSnapshot.Equal(d("30")) {
		t.Errorf("Expected stock snapshot 30, got %s", order.StockSnapshot)
	}

	both, err := svc.Order("DAQ")
	if err != nil {
		t.Fatalf("Order failed: %v", err)
	}
	if both.Production == nil || both.Acquisition == nil {
		t.Error("Expected both lines for a mixed requirement")
	}
}

func TestEnterExecution_OnlyFromPlanned(t *testing.T) {
	ledger := newLedger(t, mat(t, "ETI", "30", 3))
	svc := inExecution(t, ledger)

	err := svc.EnterExecution(requirements())
	if !errors.Is(err, entities.ErrPrecondition) {
		t.Fatalf("Expected ErrPrecondition for re-entering execution, got %v", err)
	}
}

func TestEditOrder_RoundTrip(t *testing.T) {
	ledger := newLedger(t, mat(t, "ETI", "30", 3))
	svc := inExecution(t, ledger)

	if err := svc.EditOrder("ETI", entities.KindProduction, d("40")); err != nil {
		t.Fatalf("EditOrder failed: %v", err)
	}
	if err := svc.EditOrder("ETI", entities.KindProduction, d("25")); err != nil {
		t.Fatalf("EditOrder back failed: %v", err)
	}

	order, _ := svc.Order("ETI")
	if !order.Production.Quantity.Equal(d("25")) {
		t.Errorf("Expected quantity restored to 25, got %s", order.Production.Quantity)
	}
	if order.Status != entities.StatusPlanned {
		t.Errorf("Expected status Planned, got %s", order.Status)
	}
}

func TestEditOrder_ResetsExecutedToPlanned(t *testing.T) {
	ledger := newLedger(t, mat(t, "ETI", "30", 3))
	svc := inExecution(t, ledger)

	if err := svc.UpdateStatus("ETI", entities.StatusExecuted); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if err := svc.EditOrder("ETI", entities.KindProduction, d("30")); err != nil {
		t.Fatalf("EditOrder failed: %v", err)
	}

	order, _ := svc.Order("ETI")
	if order.Status != entities.StatusPlanned {
		t.Errorf("Expected edit to reset Executed back to Planned, got %s", order.Status)
	}
}

func TestEditOrder_Validation(t *testing.T) {
	ledger := newLedger(t, mat(t, "ETI", "30", 3))
	svc := inExecution(t, ledger)

	if err := svc.EditOrder("NOPE", entities.KindProduction, d("1")); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown order, got %v", err)
	}
	if err := svc.EditOrder("ETI", entities.KindAcquisition, d("1")); !errors.Is(err, entities.ErrValidation) {
		t.Errorf("Expected ErrValidation for a kind the order does not carry, got %v", err)
	}
	if err := svc.EditOrder("ETI", entities.KindProduction, d("-1")); !errors.Is(err, entities.ErrValidation) {
		t.Errorf("Expected ErrValidation for negative quantity, got %v", err)
	}
}

func TestCancelOrder_IsIdempotent(t *testing.T) {
	ledger := newLedger(t, mat(t, "DAQ", "0", 2))
	svc := inExecution(t, ledger)

	if err := svc.CancelOrder("DAQ"); err != nil {
		t.Fatalf("CancelOrder failed: %v", err)
	}
	if err := svc.CancelOrder("DAQ"); err != nil {
		t.Fatalf("second CancelOrder failed: %v", err)
	}

	order, _ := svc.Order("DAQ")
	if !order.OpenQuantity().IsZero() {
		t.Errorf("Expected all quantities zeroed, got %s open", order.OpenQuantity())
	}
	if order.Status != entities.StatusPlanned {
		t.Errorf("Expected status Planned after cancel, got %s", order.Status)
	}
}

func TestUpdateStatus_ReadyCreditsLedgerOnce(t *testing.T) {
	ledger := newLedger(t, mat(t, "JOKER", "5", 7))
	svc := inExecution(t, ledger)

	if err := svc.UpdateStatus("JOKER", entities.StatusReady); err != nil {
		t.Fatalf("UpdateStatus to Ready failed: %v", err)
	}

	material, err := ledger.GetMaterial("JOKER")
	if err != nil {
		t.Fatalf("GetMaterial failed: %v", err)
	}
	if !material.OnHand.Equal(d("55")) {
		t.Errorf("Expected on-hand 55 after crediting 50, got %s", material.OnHand)
	}

	order, _ := svc.Order("JOKER")
	if !order.Credited {
		t.Error("Expected order marked as credited")
	}

	// The Ready edge is one-shot: a second attempt must fail, not credit again.
	err = svc.UpdateStatus("JOKER", entities.StatusReady)
	if !errors.Is(err, entities.ErrPrecondition) {
		t.Fatalf("Expected ErrPrecondition on second Ready, got %v", err)
	}
	material, _ = ledger.GetMaterial("JOKER")
	if !material.OnHand.Equal(d("55")) {
		t.Errorf("Expected on-hand unchanged at 55, got %s", material.OnHand)
	}
}

func TestUpdateStatus_CreditsBothKinds(t *testing.T) {
	ledger := newLedger(t, mat(t, "DAQ", "0", 2))
	svc := inExecution(t, ledger)

	if err := svc.UpdateStatus("DAQ", entities.StatusReady); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	material, _ := ledger.GetMaterial("DAQ")
	if !material.OnHand.Equal(d("24")) {
		t.Errorf("Expected on-hand 24 (4 produced + 20 acquired), got %s", material.OnHand)
	}
}

func TestUpdateStatus_CancelledOrderCannotChange(t *testing.T) {
	ledger := newLedger(t, mat(t, "ETI", "30", 3))
	svc := inExecution(t, ledger)

	if err := svc.CancelOrder("ETI"); err != nil {
		t.Fatalf("CancelOrder failed: %v", err)
	}
	err := svc.UpdateStatus("ETI", entities.StatusExecuted)
	if !errors.Is(err, entities.ErrPrecondition) {
		t.Fatalf("Expected ErrPrecondition for a zeroed order, got %v", err)
	}
}

func TestCloseCycle(t *testing.T) {
	ledger := newLedger(t, mat(t, "ETI", "30", 3), mat(t, "JOKER", "5", 7), mat(t, "DAQ", "0", 2))
	svc := inExecution(t, ledger)

	// Still-open orders block the close.
	if err := svc.CloseCycle(); !errors.Is(err, entities.ErrPrecondition) {
		t.Fatalf("Expected ErrPrecondition with open orders, got %v", err)
	}

	if err := svc.UpdateStatus("ETI", entities.StatusReady); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if err := svc.UpdateStatus("JOKER", entities.StatusReady); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if err := svc.CancelOrder("DAQ"); err != nil {
		t.Fatalf("CancelOrder failed: %v", err)
	}

	if err := svc.CloseCycle(); err != nil {
		t.Fatalf("CloseCycle failed: %v", err)
	}
	if svc.State() != entities.CycleClosed {
		t.Errorf("Expected Closed, got %s", svc.State())
	}

	// Closed is terminal.
	if err := svc.EditOrder("ETI", entities.KindProduction, d("1")); !errors.Is(err, entities.ErrPrecondition) {
		t.Errorf("Expected ErrPrecondition after close, got %v", err)
	}
	if err := svc.CloseCycle(); !errors.Is(err, entities.ErrPrecondition) {
		t.Errorf("Expected ErrPrecondition on double close, got %v", err)
	}
}

func TestApplyQuotes(t *testing.T) {
	ledger := newLedger(t, mat(t, "ETI", "30", 3), mat(t, "JOKER", "5", 10))
	svc := inExecution(t, ledger)

	smallGrowth, err := entities.NewQuote("JOKER", d("12"), d("1"), d("40"), 11)
	if err != nil {
		t.Fatalf("NewQuote failed: %v", err)
	}
	bigGrowth, err := entities.NewQuote("ETI", d("10"), d("0"), d("0"), 6)
	if err != nil {
		t.Fatalf("NewQuote failed: %v", err)
	}
	unknown, err := entities.NewQuote("GHOST", d("1"), d("0"), d("0"), 1)
	if err != nil {
		t.Fatalf("NewQuote failed: %v", err)
	}

	alerts, err := svc.ApplyQuotes([]*entities.Quote{smallGrowth, bigGrowth, unknown})
	if err != nil {
		t.Fatalf("ApplyQuotes failed: %v", err)
	}

	// JOKER grew 10%, under the 20% threshold: applied without alert.
	// ETI grew from 3 to 6 days (100%): replan alert.
	// GHOST is not in the ledger: reported, not applied.
	var replan, ghost bool
	for _, alert := range alerts {
		if strings.Contains(alert, "replan needed") && strings.Contains(alert, "ETI") {
			replan = true
		}
		if strings.Contains(alert, "GHOST") {
			ghost = true
		}
	}
	if !replan {
		t.Errorf("Expected a replan alert for ETI, got %v", alerts)
	}
	if !ghost {
		t.Errorf("Expected an unknown-material alert for GHOST, got %v", alerts)
	}

	joker, _ := ledger.GetMaterial("JOKER")
	if !joker.UnitCost.Equal(d("12")) || joker.LotLeadTimeDays != 11 {
		t.Errorf("Expected quote applied to JOKER, got cost %s leadtime %d", joker.UnitCost, joker.LotLeadTimeDays)
	}
}

func TestApplyQuotes_OnlyInExecution(t *testing.T) {
	ledger := newLedger(t, mat(t, "ETI", "30", 3))
	svc := NewLifecycleService(ledger, nil, nil)

	quote, err := entities.NewQuote("ETI", d("10"), d("0"), d("0"), 3)
	if err != nil {
		t.Fatalf("NewQuote failed: %v", err)
	}
	if _, err := svc.ApplyQuotes([]*entities.Quote{quote}); !errors.Is(err, entities.ErrPrecondition) {
		t.Fatalf("Expected ErrPrecondition in Planned state, got %v", err)
	}
}

func TestLifecycle_EmitsEvents(t *testing.T) {
	ledger := newLedger(t, mat(t, "ETI", "30", 3), mat(t, "JOKER", "5", 7), mat(t, "DAQ", "0", 2))
	store := events.NewInMemoryStore()
	svc := NewLifecycleService(ledger, store, nil)

	if err := svc.EnterExecution(requirements()); err != nil {
		t.Fatalf("EnterExecution failed: %v", err)
	}
	if err := svc.UpdateStatus("ETI", entities.StatusReady); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	stream, err := store.ReadEvents(svc.CycleID().String(), 0)
	if err != nil {
		t.Fatalf("ReadEvents failed: %v", err)
	}

	types := make([]string, 0, len(stream))
	for _, ev := range stream {
		types = append(types, ev.Type())
	}
	want := []string{events.ExecutionEnteredEvent, events.OrderStatusUpdatedEvent, events.StockCreditedEvent}
	if len(types) != len(want) {
		t.Fatalf("Expected %d events, got %v", len(want), types)
	}
	for i, typ := range want {
		if types[i] != typ {
			t.Errorf("Expected event %d to be %s, got %s", i, typ, types[i])
		}
	}
}
