// Package engine orchestrates one full model run: case selection, schedule
// generation, consolidation, the subordinated cash waterfall, and the
// invariant checks that gate each stage.
package engine

import (
	"fmt"

	"github.com/ag-ikigai/Terranova2025/internal/config"
	"github.com/ag-ikigai/Terranova2025/internal/inputpack"
	"github.com/ag-ikigai/Terranova2025/pkg/catalog"
	"github.com/ag-ikigai/Terranova2025/pkg/checks"
	"github.com/ag-ikigai/Terranova2025/pkg/constants"
	"github.com/ag-ikigai/Terranova2025/pkg/schedule"
	"github.com/ag-ikigai/Terranova2025/pkg/waterfall"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result holds everything one run produces.
type Result struct {
	ActiveCase     string
	Horizon        int
	Classification waterfall.Classification
	Loans          []schedule.Schedule
	Revolvers      []schedule.Schedule
	Insurance      []schedule.InsuranceSchedule
	Waterfall      []waterfall.State
	Statements     Statements
	Checks         []checks.Result
}

// Engine runs the financing model.
type Engine struct {
	logger *zap.Logger
	conf   *config.Configuration
}

// New creates an engine for the given run configuration.
func New(logger *zap.Logger, conf *config.Configuration) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, conf: conf}
}

// builtSchedule is the per-instrument generation result, index-aligned with
// the selected catalog rows so parallel generation stays deterministic.
type builtSchedule struct {
	loan      *schedule.Schedule
	revolver  *schedule.Schedule
	insurance *schedule.InsuranceSchedule
	check     checks.Result
}

// Run executes the full pipeline against one input pack.
func (e *Engine) Run(pack *inputpack.Pack) (*Result, error) {
	instruments := pack.Instruments(e.logger)

	selected, err := catalog.SelectActive(instruments, pack.CaseSelector)
	if err != nil {
		return nil, err
	}
	activeCase := pack.CaseSelector[constants.CaseSelectorKey]
	e.logger.Info(fmt.Sprintf("case %s selected %d active instruments", activeCase, len(selected)),
		zap.String("op", "engine.Run"),
	)

	horizon := e.conf.Horizon
	if horizon <= 0 {
		horizon = pack.Horizon()
	}
	for _, inst := range selected {
		if inst.TenorMonths > horizon && !inst.Revolving && !inst.Insurance {
			e.logger.Warn(fmt.Sprintf("instrument %d tenor %d exceeds horizon %d; schedule truncated without terminal clearance",
				inst.LineID, inst.TenorMonths, horizon),
				zap.String("op", "engine.Run"),
			)
		}
	}

	built, err := e.generateSchedules(selected, horizon)
	if err != nil {
		return nil, err
	}

	result := &Result{ActiveCase: activeCase, Horizon: horizon}
	for _, b := range built {
		switch {
		case b.insurance != nil:
			result.Insurance = append(result.Insurance, *b.insurance)
		case b.revolver != nil:
			result.Revolvers = append(result.Revolvers, *b.revolver)
			result.Checks = append(result.Checks, b.check)
		default:
			result.Loans = append(result.Loans, *b.loan)
			result.Checks = append(result.Checks, b.check)
		}
	}

	// Senior debt service subordinates junior claims; revolver cost is part
	// of it even though revolver balances stay nominal.
	seniorService := make([]float64, horizon)
	for _, s := range result.Loans {
		for i := range seniorService {
			seniorService[i] += s.DebtService(i + 1)
		}
	}
	for _, s := range result.Revolvers {
		for i := range seniorService {
			seniorService[i] += s.DebtService(i + 1)
		}
	}

	var taxPaid []float64
	if len(pack.Series.TaxPaid) > 0 {
		taxPaid = pack.Series.TaxPaid
	}

	flows := pack.JuniorFlows(e.logger)
	result.Classification = waterfall.Classify(pack.Junior.Instrument)
	e.logger.Info(fmt.Sprintf("junior instrument %q classified %s", pack.Junior.Instrument, result.Classification),
		zap.String("op", "engine.Run"),
	)

	allocator := waterfall.NewAllocator(e.logger)
	result.Waterfall = allocator.Run(waterfall.Inputs{
		CFO:            pack.Series.CFO,
		SeniorService:  seniorService,
		TaxPaid:        taxPaid,
		Flows:          waterfall.Aggregate(flows, horizon),
		Buffer:         e.conf.Policy.MinimumCashBuffer,
		Classification: result.Classification,
	}, horizon)

	result.Statements = BuildStatements(pack, horizon, result.Loans, result.Waterfall)

	checker := checks.NewChecker(e.logger, e.conf.Checks.Strict)
	bsResult, err := checker.BalanceSheet(result.Statements.AssetsTotals(), result.Statements.LiabilitiesAndEquityTotals())
	result.Checks = append(result.Checks, bsResult)
	if err != nil {
		return result, err
	}
	cashResult, err := checker.CashLink(result.Statements.ClosingCash(), result.Statements.BalanceSheetCash())
	result.Checks = append(result.Checks, cashResult)
	if err != nil {
		return result, err
	}

	return result, nil
}

// generateSchedules fans out per-instrument generation; instruments are
// independent of each other so the only ordering constraint is within each
// schedule, which each goroutine computes sequentially. Every loan and
// revolver schedule is rollforward-checked before it is used downstream.
func (e *Engine) generateSchedules(selected []catalog.Instrument, horizon int) ([]builtSchedule, error) {
	gen := schedule.NewGenerator(e.logger, e.conf.Policy.RevolverUtilization)
	checker := checks.NewChecker(e.logger, e.conf.Checks.Strict)

	built := make([]builtSchedule, len(selected))
	var g errgroup.Group
	for i, inst := range selected {
		i, inst := i, inst
		g.Go(func() error {
			switch {
			case inst.Insurance:
				s := gen.Insurance(inst, horizon)
				built[i].insurance = &s
				return nil
			case inst.Revolving:
				s := gen.Revolver(inst, horizon)
				built[i].revolver = &s
				result, err := checker.Rollforward(s)
				built[i].check = result
				return err
			default:
				s := gen.Loan(inst, horizon)
				built[i].loan = &s
				result, err := checker.Rollforward(s)
				built[i].check = result
				return err
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return built, nil
}
