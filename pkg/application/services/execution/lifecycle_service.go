package execution

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ofarias/plantmrp/pkg/domain/entities"
	"github.com/ofarias/plantmrp/pkg/domain/repositories"
	"github.com/ofarias/plantmrp/pkg/infrastructure/events"
)

// DefaultReplanThresholdPct is the leadtime growth, in percent, above which
// an applied quote raises a replan alert.
const DefaultReplanThresholdPct = 20

// LifecycleService is the order lifecycle manager of one planning cycle. It
// owns the only mutable core state: the cycle state and the control order
// set, and it is the only writer of the material ledger's on-hand stock.
//
// All transitions are guarded by a mutex: each operation read-then-writes the
// same order and ledger records, so concurrent invocation on the same
// material would otherwise race.
type LifecycleService struct {
	mu sync.Mutex

	cycleID uuid.UUID
	state   entities.CycleState
	orders  map[entities.MaterialCode]*entities.ControlOrder

	ledger             repositories.MaterialRepository
	store              events.Store
	logger             *zap.Logger
	replanThresholdPct int64
}

// NewLifecycleService creates a lifecycle manager in the Planned state. The
// event store may be nil when no audit trail is wanted; a nil logger disables
// operational warnings.
func NewLifecycleService(ledger repositories.MaterialRepository, store events.Store, logger *zap.Logger) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{
		cycleID:            uuid.New(),
		state:              entities.CyclePlanned,
		orders:             make(map[entities.MaterialCode]*entities.ControlOrder),
		ledger:             ledger,
		store:              store,
		logger:             logger,
		replanThresholdPct: DefaultReplanThresholdPct,
	}
}

// SetReplanThresholdPct overrides the leadtime growth threshold for quote
// alerts.
func (s *LifecycleService) SetReplanThresholdPct(pct int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replanThresholdPct = pct
}

// CycleID returns the cycle's identifier, also used as the event stream ID.
func (s *LifecycleService) CycleID() uuid.UUID {
	return s.cycleID
}

// State returns the top-level cycle state.
func (s *LifecycleService) State() entities.CycleState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Order returns a copy of one control order.
func (s *LifecycleService) Order(material entities.MaterialCode) (*entities.ControlOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, exists := s.orders[material]
	if !exists {
		return nil, fmt.Errorf("%w: control order for %s", entities.ErrNotFound, material)
	}
	return order.Clone(), nil
}

// Orders returns copies of every control order, sorted by material code.
func (s *LifecycleService) Orders() []*entities.ControlOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*entities.ControlOrder, 0, len(s.orders))
	for _, order := range s.orders {
		all = append(all, order.Clone())
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Material < all[j].Material })
	return all
}

// EnterExecution snapshots the net requirements into control orders and
// moves the cycle to InExecution. It fails when the cycle is not in the
// Planned state, leaving everything unchanged.
func (s *LifecycleService) EnterExecution(requirements map[entities.MaterialCode]*entities.NetRequirement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != entities.CyclePlanned {
		return fmt.Errorf("%w: cannot enter execution from state %s", entities.ErrPrecondition, s.state)
	}
	if len(requirements) == 0 {
		return fmt.Errorf("%w: no requirements to execute", entities.ErrValidation)
	}

	orders := make(map[entities.MaterialCode]*entities.ControlOrder, len(requirements))
	for code, req := range requirements {
		if !req.HasAny() {
			continue
		}

		snapshot := decimal.Zero
		if material, err := s.ledger.GetMaterial(code); err == nil {
			snapshot = material.OnHand
		}

		order := &entities.ControlOrder{
			Material:      code,
			StockSnapshot: snapshot,
			Status:        entities.StatusPlanned,
		}
		if req.Produce.IsPositive() {
			order.Production = &entities.OrderLine{Quantity: req.Produce}
		}
		if req.Acquire.IsPositive() {
			order.Acquisition = &entities.OrderLine{Quantity: req.Acquire}
		}
		orders[code] = order
	}

	s.orders = orders
	s.state = entities.CycleInExecution
	s.append(events.ExecutionEnteredEvent, events.ExecutionEntered{OrderCount: len(orders)})
	s.logger.Info("cycle entered execution",
		zap.String("cycle", s.cycleID.String()),
		zap.Int("orders", len(orders)))
	return nil
}

// EditOrder overwrites one quantity of a control order. An order previously
// marked Executed drops back to Planned so the edit gets re-executed. Orders
// already Ready cannot be edited.
func (s *LifecycleService) EditOrder(material entities.MaterialCode, kind entities.OrderKind, quantity decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != entities.CycleInExecution {
		return fmt.Errorf("%w: cycle is %s, orders can only be edited in execution", entities.ErrPrecondition, s.state)
	}
	order, exists := s.orders[material]
	if !exists {
		return fmt.Errorf("%w: control order for %s", entities.ErrNotFound, material)
	}
	if kind != entities.KindProduction && kind != entities.KindAcquisition {
		return fmt.Errorf("%w: invalid order kind", entities.ErrValidation)
	}
	line := order.Line(kind)
	if line == nil {
		return fmt.Errorf("%w: order for %s has no %s quantity", entities.ErrValidation, material, kind)
	}
	if order.Status == entities.StatusReady {
		return fmt.Errorf("%w: order for %s is already ready", entities.ErrPrecondition, material)
	}
	if quantity.IsNegative() {
		return fmt.Errorf("%w: order quantity cannot be negative, got %s", entities.ErrValidation, quantity)
	}

	old := line.Quantity
	line.Quantity = quantity
	statusReset := order.Status == entities.StatusExecuted
	if statusReset {
		order.Status = entities.StatusPlanned
	}

	s.append(events.OrderEditedEvent, events.OrderEdited{
		Material:    material,
		Kind:        kind.String(),
		OldQuantity: old,
		NewQuantity: quantity,
		StatusReset: statusReset,
	})
	return nil
}

// CancelOrder zeroes every quantity on a control order and forces its status
// back to Planned. Cancelling twice is a no-op with the same outcome.
func (s *LifecycleService) CancelOrder(material entities.MaterialCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != entities.CycleInExecution {
		return fmt.Errorf("%w: cycle is %s, orders can only be cancelled in execution", entities.ErrPrecondition, s.state)
	}
	order, exists := s.orders[material]
	if !exists {
		return fmt.Errorf("%w: control order for %s", entities.ErrNotFound, material)
	}
	if order.Status == entities.StatusReady {
		return fmt.Errorf("%w: order for %s is already ready", entities.ErrPrecondition, material)
	}

	if order.Production != nil {
		order.Production.Quantity = decimal.Zero
	}
	if order.Acquisition != nil {
		order.Acquisition.Quantity = decimal.Zero
	}
	order.Status = entities.StatusPlanned

	s.append(events.OrderCancelledEvent, events.OrderCancelled{Material: material})
	return nil
}

// UpdateStatus transitions a control order. The transition to Ready is a
// one-shot edge: it credits the ledger with the order's open quantities
// exactly once, and a second attempt fails instead of double-crediting. A
// fully zeroed (cancelled) order cannot change status.
func (s *LifecycleService) UpdateStatus(material entities.MaterialCode, status entities.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != entities.CycleInExecution {
		return fmt.Errorf("%w: cycle is %s, statuses can only change in execution", entities.ErrPrecondition, s.state)
	}
	order, exists := s.orders[material]
	if !exists {
		return fmt.Errorf("%w: control order for %s", entities.ErrNotFound, material)
	}
	if status != entities.StatusPlanned && status != entities.StatusExecuted && status != entities.StatusReady {
		return fmt.Errorf("%w: invalid order status", entities.ErrValidation)
	}
	if order.Status == entities.StatusReady {
		return fmt.Errorf("%w: order for %s is already ready", entities.ErrPrecondition, material)
	}
	open := order.OpenQuantity()
	if !open.IsPositive() {
		return fmt.Errorf("%w: order for %s has no open quantity", entities.ErrPrecondition, material)
	}

	old := order.Status
	order.Status = status
	s.append(events.OrderStatusUpdatedEvent, events.OrderStatusUpdated{
		Material:  material,
		OldStatus: old.String(),
		NewStatus: status.String(),
	})

	if status != entities.StatusReady {
		return nil
	}

	if err := s.ledger.CreditOnHand(material, open); err != nil {
		// Roll the transition back so a retry is possible.
		order.Status = old
		return fmt.Errorf("failed to credit ledger for %s: %w", material, err)
	}
	order.Credited = true
	s.append(events.StockCreditedEvent, events.StockCredited{Material: material, Quantity: open})
	s.logger.Info("order ready, ledger credited",
		zap.String("material", string(material)),
		zap.String("quantity", open.String()))
	return nil
}

// CloseCycle moves the cycle from InExecution to Closed. Every order must be
// either Ready or fully zeroed; Closed rejects all further operations.
func (s *LifecycleService) CloseCycle() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != entities.CycleInExecution {
		return fmt.Errorf("%w: cannot close cycle from state %s", entities.ErrPrecondition, s.state)
	}

	ready, cancelled := 0, 0
	for code, order := range s.orders {
		switch {
		case order.Status == entities.StatusReady:
			ready++
		case order.OpenQuantity().IsZero():
			cancelled++
		default:
			return fmt.Errorf("%w: order for %s is still open", entities.ErrPrecondition, code)
		}
	}

	s.state = entities.CycleClosed
	s.append(events.CycleClosedEvent, events.CycleClosed{ReadyOrders: ready, CancelledOrders: cancelled})
	s.logger.Info("cycle closed",
		zap.String("cycle", s.cycleID.String()),
		zap.Int("ready", ready),
		zap.Int("cancelled", cancelled))
	return nil
}

// ApplyQuotes patches ledger cost, tax, freight and leadtime from a
// quotation round and returns planner alerts. A quoted leadtime growing past
// the replan threshold yields a "replan needed" alert; quotes for unknown
// materials are reported, not applied. Allowed only during execution, when
// the quotes can still change open orders.
func (s *LifecycleService) ApplyQuotes(quotes []*entities.Quote) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != entities.CycleInExecution {
		return nil, fmt.Errorf("%w: quotes can only be applied in execution, cycle is %s", entities.ErrPrecondition, s.state)
	}

	var alerts []string
	applied := 0
	for _, quote := range quotes {
		current, err := s.ledger.GetMaterial(quote.Material)
		if err != nil {
			alerts = append(alerts, fmt.Sprintf("material %s not in ledger, quote ignored", quote.Material))
			continue
		}

		if s.leadTimeExceedsThreshold(current.LotLeadTimeDays, quote.LotLeadTimeDays) {
			alerts = append(alerts, fmt.Sprintf(
				"leadtime for %s grew from %d to %d days: replan needed",
				quote.Material, current.LotLeadTimeDays, quote.LotLeadTimeDays))
		}

		if err := s.ledger.ApplyQuote(quote); err != nil {
			return nil, fmt.Errorf("failed to apply quote for %s: %w", quote.Material, err)
		}
		applied++
	}

	s.append(events.QuotesAppliedEvent, events.QuotesApplied{QuoteCount: applied, Alerts: alerts})
	for _, alert := range alerts {
		s.logger.Warn("quote alert", zap.String("alert", alert))
	}
	return alerts, nil
}

func (s *LifecycleService) leadTimeExceedsThreshold(oldDays, newDays int) bool {
	if newDays <= oldDays {
		return false
	}
	if oldDays == 0 {
		return true
	}
	growthPct := decimal.NewFromInt(int64(newDays - oldDays)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(oldDays)))
	return growthPct.GreaterThan(decimal.NewFromInt(s.replanThresholdPct))
}

func (s *LifecycleService) append(eventType string, data interface{}) {
	if s.store == nil {
		return
	}
	if err := s.store.AppendEvent(s.cycleID.String(), events.NewEvent(eventType, s.cycleID.String(), data)); err != nil {
		s.logger.Warn("failed to append cycle event",
			zap.String("event", eventType),
			zap.Error(err))
	}
}
