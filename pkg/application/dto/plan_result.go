package dto

import "github.com/ofarias/plantmrp/pkg/domain/entities"

// PlanResult contains the complete output of one planning run: the netted
// requirements, the per-kind cost/leadtime estimates and the dated planning
// board. The result is a recomputable view; only control orders created from
// it persist planner edits.
type PlanResult struct {
	Requirements map[entities.MaterialCode]*entities.NetRequirement
	Estimates    map[entities.EstimateKey]*entities.OrderEstimate
	Board        *entities.PlanningBoard
}
