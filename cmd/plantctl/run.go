package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ofarias/plantmrp/pkg/application/dto"
	"github.com/ofarias/plantmrp/pkg/application/services/capacity"
	"github.com/ofarias/plantmrp/pkg/application/services/execution"
	"github.com/ofarias/plantmrp/pkg/application/services/planning"
	"github.com/ofarias/plantmrp/pkg/domain/entities"
	"github.com/ofarias/plantmrp/pkg/infrastructure/events"
	"github.com/ofarias/plantmrp/pkg/infrastructure/reports"
	"github.com/ofarias/plantmrp/pkg/infrastructure/repositories/memory"
	"github.com/ofarias/plantmrp/pkg/infrastructure/repositories/xlsx"
	"github.com/ofarias/plantmrp/pkg/platform/config"
	"github.com/ofarias/plantmrp/pkg/platform/logging"
)

// Input sheet names inside the data directory.
const (
	stockSheet      = "Estoque.xlsx"
	resourceDemand  = "demanda_recursos.xlsx"
	resourceNominal = "capacidade_recursos.xlsx"
	capacityExcepts = "excecoes_capacidade.xlsx"
)

type runnerFlags struct {
	DataDir   string
	OutputDir string
	Demand    string
	Date      string
	Days      int
	Quotes    string
	CRP       bool
}

type runner struct {
	cfg    *config.Config
	logger *zap.Logger
	flags  runnerFlags
	demand map[entities.MaterialCode]decimal.Decimal
}

func newRunner(flags runnerFlags) (*runner, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if flags.DataDir != "" {
		cfg.Cycle.DataDir = flags.DataDir
	}
	if flags.OutputDir != "" {
		cfg.Cycle.OutputDir = flags.OutputDir
	}
	if flags.Days > 0 {
		cfg.Cycle.PlanningDays = flags.Days
	}
	if flags.Date != "" {
		date, err := time.Parse(entities.BoardDateLayout, flags.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid -date %q: %w", flags.Date, err)
		}
		cfg.Cycle.ExecutionDate = date
	}

	demand, err := parseDemand(flags.Demand)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return &runner{cfg: cfg, logger: logger, flags: flags, demand: demand}, nil
}

// Execute drives a full planning cycle: load the sheets, plan, enter
// execution, apply quotes (replanning if they force it), and when enabled
// run the capacity phase. Every exported sheet lands in a fresh
// ciclo_YYYYMMDD_HHMM folder.
func (r *runner) Execute(ctx context.Context) error {
	defer func() { _ = r.logger.Sync() }()

	cycleDir := filepath.Join(r.cfg.Cycle.OutputDir,
		"ciclo_"+time.Now().Format("20060102_1504"))
	if err := os.MkdirAll(cycleDir, 0o755); err != nil {
		return fmt.Errorf("creating cycle folder: %w", err)
	}
	r.logger.Info("cycle folder created", zap.String("dir", cycleDir))

	console := reports.NewConsoleWriter(os.Stdout)
	sheets := reports.NewXLSXWriter(cycleDir)

	loader := xlsx.NewLoader()
	ledger := memory.NewMaterialRepository()
	boms := memory.NewBOMRepository()

	materials, err := loader.LoadMaterials(filepath.Join(r.cfg.Cycle.DataDir, stockSheet))
	if err != nil {
		return err
	}
	if err := ledger.LoadMaterials(materials); err != nil {
		return err
	}
	lines, err := loader.LoadBOMDir(r.cfg.Cycle.DataDir)
	if err != nil {
		return err
	}
	if err := boms.LoadBOMLines(lines); err != nil {
		return err
	}
	r.logger.Info("input sheets loaded",
		zap.Int("materials", len(materials)),
		zap.Int("bom_lines", len(lines)))

	planner := planning.NewPlanningService(r.logger)
	plan, err := planner.Plan(ctx, r.demand, ledger, boms, r.cfg.Cycle.ExecutionDate)
	if err != nil {
		return err
	}
	if err := r.exportPlan(plan, "", console, sheets); err != nil {
		return err
	}

	lifecycle := execution.NewLifecycleService(ledger, events.NewInMemoryStore(), r.logger)
	lifecycle.SetReplanThresholdPct(r.cfg.Cycle.ReplanThresholdPct)
	if err := lifecycle.EnterExecution(plan.Requirements); err != nil {
		return err
	}
	if err := console.Write(reports.ControlOrdersTable(lifecycle.Orders())); err != nil {
		return err
	}

	if r.flags.Quotes != "" {
		plan, lifecycle, err = r.applyQuotes(ctx, planner, lifecycle, ledger, boms, plan, console, sheets)
		if err != nil {
			return err
		}
	}

	if err := sheets.Write(reports.ControlOrdersTable(lifecycle.Orders())); err != nil {
		return err
	}

	if r.flags.CRP {
		if err := r.runCapacityPhase(ctx, plan.Board, console, sheets); err != nil {
			return err
		}
	}

	r.logger.Info("cycle complete",
		zap.String("cycle", lifecycle.CycleID().String()),
		zap.String("state", lifecycle.State().String()))
	return nil
}

// applyQuotes loads the quotation sheet if present, applies it, and replans
// from scratch when a leadtime alert demands it. The pre-update board is
// exported first so the change stays auditable.
func (r *runner) applyQuotes(
	ctx context.Context,
	planner *planning.PlanningService,
	lifecycle *execution.LifecycleService,
	ledger *memory.MaterialRepository,
	boms *memory.BOMRepository,
	plan *dto.PlanResult,
	console, sheets reports.Sink,
) (*dto.PlanResult, *execution.LifecycleService, error) {
	quotesPath := filepath.Join(r.cfg.Cycle.DataDir, r.flags.Quotes)
	if _, err := os.Stat(quotesPath); err != nil {
		r.logger.Info("no quotation sheet, skipping quote phase", zap.String("path", quotesPath))
		return plan, lifecycle, nil
	}

	quotes, err := xlsx.NewLoader().LoadQuotes(quotesPath)
	if err != nil {
		return nil, nil, err
	}
	alerts, err := lifecycle.ApplyQuotes(quotes)
	if err != nil {
		return nil, nil, err
	}
	for _, alert := range alerts {
		fmt.Println("ALERTA:", alert)
	}

	if !needsReplan(alerts) {
		return plan, lifecycle, nil
	}

	r.logger.Warn("replanning after quote update", zap.Int("alerts", len(alerts)))

	preUpdate := reports.PlanningBoardTable(plan.Board)
	preUpdate.Name = "Quadro de Planejamento Pré-Atualização"
	if err := sheets.Write(preUpdate); err != nil {
		return nil, nil, err
	}

	updated, err := planner.Plan(ctx, r.demand, ledger, boms, r.cfg.Cycle.ExecutionDate)
	if err != nil {
		return nil, nil, err
	}
	if err := r.exportPlan(updated, " Atualizado", console, sheets); err != nil {
		return nil, nil, err
	}

	// The quote round invalidated the old orders; restart execution over
	// the fresh plan.
	fresh := execution.NewLifecycleService(ledger, events.NewInMemoryStore(), r.logger)
	fresh.SetReplanThresholdPct(r.cfg.Cycle.ReplanThresholdPct)
	if err := fresh.EnterExecution(updated.Requirements); err != nil {
		return nil, nil, err
	}
	return updated, fresh, nil
}

func (r *runner) runCapacityPhase(ctx context.Context, board *entities.PlanningBoard, console, sheets reports.Sink) error {
	capRepo := memory.NewCapacityRepository()
	loader := xlsx.NewLoader()

	demandRows, err := loader.LoadResourceDemand(filepath.Join(r.cfg.Cycle.DataDir, resourceDemand))
	if err != nil {
		return err
	}
	if err := capRepo.LoadResourceDemand(demandRows); err != nil {
		return err
	}
	nominalRows, err := loader.LoadResourceCapacity(filepath.Join(r.cfg.Cycle.DataDir, resourceNominal))
	if err != nil {
		return err
	}
	if err := capRepo.LoadResourceCapacity(nominalRows); err != nil {
		return err
	}

	// Exceptions are optional; a plant with no downtime has no sheet.
	exceptsPath := filepath.Join(r.cfg.Cycle.DataDir, capacityExcepts)
	if _, err := os.Stat(exceptsPath); err == nil {
		excepts, err := loader.LoadCapacityExceptions(exceptsPath)
		if err != nil {
			return err
		}
		if err := capRepo.LoadCapacityExceptions(excepts); err != nil {
			return err
		}
	}

	crp := capacity.NewCapacityService(r.logger)
	demand, err := crp.DemandByOperation(ctx, board, capRepo)
	if err != nil {
		return err
	}
	if err := console.Write(reports.OperationDemandTable(demand)); err != nil {
		return err
	}
	if err := sheets.Write(reports.OperationDemandTable(demand)); err != nil {
		return err
	}

	capPlan, err := crp.BuildCapacityPlan(ctx, capRepo, r.cfg.Cycle.ExecutionDate, r.cfg.Cycle.PlanningDays)
	if err != nil {
		return err
	}
	if err := console.Write(reports.CapacityPlanTable(capPlan)); err != nil {
		return err
	}
	return sheets.Write(reports.CapacityPlanTable(capPlan))
}

func (r *runner) exportPlan(plan *dto.PlanResult, suffix string, console, sheets reports.Sink) error {
	board := reports.PlanningBoardTable(plan.Board)
	board.Name += suffix
	costs := reports.CostSummaryTable(plan.Estimates)
	costs.Name += suffix

	for _, table := range []*dto.Table{board, costs} {
		if err := console.Write(table); err != nil {
			return err
		}
		if err := sheets.Write(table); err != nil {
			return err
		}
	}
	return nil
}

func needsReplan(alerts []string) bool {
	for _, alert := range alerts {
		if strings.Contains(alert, "replan needed") {
			return true
		}
	}
	return false
}

func parseDemand(spec string) (map[entities.MaterialCode]decimal.Decimal, error) {
	demand := make(map[entities.MaterialCode]decimal.Decimal)
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, qty, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid demand entry %q, want CODE=QTY", pair)
		}
		quantity, err := decimal.NewFromString(strings.TrimSpace(qty))
		if err != nil {
			return nil, fmt.Errorf("invalid demand quantity in %q: %w", pair, err)
		}
		demand[entities.MaterialCode(strings.TrimSpace(code))] = quantity
	}
	if len(demand) == 0 {
		return nil, fmt.Errorf("demand is empty")
	}
	return demand, nil
}
