package events

import (
	"github.com/shopspring/decimal"

	"github.com/ofarias/plantmrp/pkg/domain/entities"
)

const (
	ExecutionEnteredEvent   = "cycle.execution.entered"
	CycleClosedEvent        = "cycle.closed"
	OrderEditedEvent        = "order.edited"
	OrderCancelledEvent     = "order.cancelled"
	OrderStatusUpdatedEvent = "order.status.updated"
	StockCreditedEvent      = "stock.credited"
	QuotesAppliedEvent      = "ledger.quotes.applied"
)

// ExecutionEntered records the snapshot of control orders created when a
// cycle entered execution.
type ExecutionEntered struct {
	OrderCount int `json:"order_count"`
}

// CycleClosed records the close-out of a cycle.
type CycleClosed struct {
	ReadyOrders     int `json:"ready_orders"`
	CancelledOrders int `json:"cancelled_orders"`
}

// OrderEdited records a quantity overwrite on a control order.
type OrderEdited struct {
	Material    entities.MaterialCode `json:"material"`
	Kind        string                `json:"kind"`
	OldQuantity decimal.Decimal       `json:"old_quantity"`
	NewQuantity decimal.Decimal       `json:"new_quantity"`
	StatusReset bool                  `json:"status_reset"`
}

// OrderCancelled records the zeroing of a control order.
type OrderCancelled struct {
	Material entities.MaterialCode `json:"material"`
}

// OrderStatusUpdated records a status transition on a control order.
type OrderStatusUpdated struct {
	Material  entities.MaterialCode `json:"material"`
	OldStatus string                `json:"old_status"`
	NewStatus string                `json:"new_status"`
}

// StockCredited records the one-shot ledger credit performed when an order
// reached Ready.
type StockCredited struct {
	Material entities.MaterialCode `json:"material"`
	Quantity decimal.Decimal       `json:"quantity"`
}

// QuotesApplied records a quotation round applied to the ledger.
type QuotesApplied struct {
	QuoteCount int      `json:"quote_count"`
	Alerts     []string `json:"alerts,omitempty"`
}
