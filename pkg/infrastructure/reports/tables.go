// Package reports turns planning views into the tabular shape report sinks
// accept, and ships an xlsx and a console sink. Column labels follow the
// plant's established report vocabulary.
package reports

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ofarias/plantmrp/pkg/application/dto"
	"github.com/ofarias/plantmrp/pkg/domain/entities"
)

// PlanningBoardTable renders the planning board: one row per material, the
// stock snapshot, then one column per delivery date. Production and
// acquisition quantities landing on the same date are summed in the cell.
func PlanningBoardTable(board *entities.PlanningBoard) *dto.Table {
	dates := board.Dates()

	headers := append([]string{"Material", "Estoque Atual"}, dates...)
	table := &dto.Table{Name: "Quadro de Planejamento", Headers: headers}

	for _, code := range board.Materials() {
		entry := board.Entries[code]
		row := []string{string(code), entry.CurrentStock.String()}
		for _, date := range dates {
			quantity := entry.QuantityOn(date)
			if quantity.IsPositive() {
				row = append(row, quantity.String())
			} else {
				row = append(row, "")
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// ControlOrdersTable renders the control order set.
func ControlOrdersTable(orders []*entities.ControlOrder) *dto.Table {
	table := &dto.Table{
		Name:    "Ordens de Controle",
		Headers: []string{"Material", "Estoque Atual", "Status", "Produção", "Aquisição"},
	}

	for _, order := range orders {
		table.Rows = append(table.Rows, []string{
			string(order.Material),
			order.StockSnapshot.String(),
			order.Status.String(),
			lineCell(order.Production),
			lineCell(order.Acquisition),
		})
	}
	return table
}

func lineCell(line *entities.OrderLine) string {
	if line == nil {
		return "-"
	}
	return line.Quantity.String()
}

// CostSummaryTable renders the per-order cost and leadtime estimates with a
// grand total row.
func CostSummaryTable(estimates map[entities.EstimateKey]*entities.OrderEstimate) *dto.Table {
	keys := make([]entities.EstimateKey, 0, len(estimates))
	for key := range estimates {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Material != keys[j].Material {
			return keys[i].Material < keys[j].Material
		}
		return keys[i].Kind < keys[j].Kind
	})

	table := &dto.Table{
		Name:    "Custos Estimados",
		Headers: []string{"Material", "Tipo", "Leadtime (dias)", "Custo Estimado"},
	}

	total := decimal.Zero
	for _, key := range keys {
		estimate := estimates[key]
		total = total.Add(estimate.Cost)
		table.Rows = append(table.Rows, []string{
			string(estimate.Material),
			estimate.Kind.String(),
			strconv.Itoa(estimate.LeadTimeDays),
			estimate.Cost.StringFixed(2),
		})
	}
	table.Rows = append(table.Rows, []string{"Total", "", "", total.StringFixed(2)})
	return table
}

// OperationDemandTable renders required minutes per operation per product.
func OperationDemandTable(demand dto.OperationDemand) *dto.Table {
	operations := make([]entities.Operation, 0, len(demand))
	for op := range demand {
		operations = append(operations, op)
	}
	sort.Slice(operations, func(i, j int) bool { return operations[i] < operations[j] })

	table := &dto.Table{
		Name:    "Demanda por Operação",
		Headers: []string{"Operação", "Produto", "Minutos"},
	}
	for _, op := range operations {
		products := make([]entities.MaterialCode, 0, len(demand[op]))
		for product := range demand[op] {
			products = append(products, product)
		}
		sort.Slice(products, func(i, j int) bool { return products[i] < products[j] })

		for _, product := range products {
			table.Rows = append(table.Rows, []string{
				string(op), string(product), demand[op][product].String(),
			})
		}
	}
	return table
}

// CapacityPlanTable renders the N-day available-capacity view: one row per
// resource/operation pair, one column per date.
func CapacityPlanTable(plan *dto.CapacityPlan) *dto.Table {
	table := &dto.Table{
		Name:    "Capacidade de Recursos",
		Headers: append([]string{"Recurso", "Operação"}, plan.Dates...),
	}
	if len(plan.Dates) == 0 {
		return table
	}

	// The cell layout is identical for every date; the first date fixes the
	// row order.
	for i, first := range plan.Cells[plan.Dates[0]] {
		row := []string{string(first.Resource), string(first.Operation)}
		for _, date := range plan.Dates {
			row = append(row, plan.Cells[date][i].Available.String())
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
