package entities

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BoardDateLayout is the calendar date format used for delivery date keys.
const BoardDateLayout = "2006-01-02"

// ScheduledDelivery is one dated quantity on the planning board. Production
// and acquisition deliveries stay separate records even when they resolve to
// the same calendar date.
type ScheduledDelivery struct {
	Kind     OrderKind
	Date     string // BoardDateLayout
	Quantity decimal.Decimal
}

// BoardEntry is the planning board row for one material.
type BoardEntry struct {
	Material     MaterialCode
	CurrentStock decimal.Decimal
	Deliveries   []ScheduledDelivery
}

// TotalUnits sums every dated quantity on the entry. CurrentStock is excluded.
func (e *BoardEntry) TotalUnits() decimal.Decimal {
	total := decimal.Zero
	for _, d := range e.Deliveries {
		total = total.Add(d.Quantity)
	}
	return total
}

// QuantityOn sums the quantities landing on a given date across order kinds.
func (e *BoardEntry) QuantityOn(date string) decimal.Decimal {
	total := decimal.Zero
	for _, d := range e.Deliveries {
		if d.Date == date {
			total = total.Add(d.Quantity)
		}
	}
	return total
}

// PlanningBoard maps materials to their dated delivery schedule. Scheduling
// into an existing board appends to it; callers that need a clean board must
// start from NewPlanningBoard.
type PlanningBoard struct {
	Entries map[MaterialCode]*BoardEntry
}

// NewPlanningBoard creates an empty planning board.
func NewPlanningBoard() *PlanningBoard {
	return &PlanningBoard{Entries: make(map[MaterialCode]*BoardEntry)}
}

// Schedule records a delivery for a material, creating the entry on first
// use. A delivery with the same kind and date replaces the previous one;
// the entry's CurrentStock snapshot is refreshed on every call.
func (b *PlanningBoard) Schedule(material MaterialCode, currentStock decimal.Decimal, delivery ScheduledDelivery) {
	entry, ok := b.Entries[material]
	if !ok {
		entry = &BoardEntry{Material: material}
		b.Entries[material] = entry
	}
	entry.CurrentStock = currentStock

	for i := range entry.Deliveries {
		if entry.Deliveries[i].Kind == delivery.Kind && entry.Deliveries[i].Date == delivery.Date {
			entry.Deliveries[i].Quantity = delivery.Quantity
			return
		}
	}
	entry.Deliveries = append(entry.Deliveries, delivery)
}

// Dates returns every delivery date on the board, sorted ascending.
func (b *PlanningBoard) Dates() []string {
	seen := make(map[string]bool)
	for _, entry := range b.Entries {
		for _, d := range entry.Deliveries {
			seen[d.Date] = true
		}
	}
	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// Materials returns the material codes on the board, sorted for stable output.
func (b *PlanningBoard) Materials() []MaterialCode {
	codes := make([]MaterialCode, 0, len(b.Entries))
	for code := range b.Entries {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
