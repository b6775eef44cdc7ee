package waterfall

import (
	"github.com/ag-ikigai/Terranova2025/pkg/mathutil"
	"go.uber.org/zap"
)

// Inputs are the aligned monthly series the allocator consumes. CFO is
// required; SeniorService and TaxPaid may be nil, in which case the allocator
// proceeds with zeros and logs the degradation.
type Inputs struct {
	CFO            []float64
	SeniorService  []float64
	TaxPaid        []float64
	Flows          MonthlyFlows
	Buffer         float64
	Classification Classification
}

// State is the allocator's per-period output.
type State struct {
	Period       int
	Available    float64
	ScheduledOut float64
	ActualOut    float64
	CapitalIn    float64
	NetCFF       float64
	PayableEOP   float64
	LiabilityEOP float64
	EquityEOP    float64
}

// Allocator runs the subordinated cash waterfall.
type Allocator struct {
	logger *zap.Logger
}

// NewAllocator creates a waterfall allocator.
func NewAllocator(logger *zap.Logger) *Allocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{logger: logger}
}

// Run allocates cash period by period over the horizon.
//
// Per period: available = max(0, CFO - senior service - tax - buffer);
// the actual junior outflow is the scheduled outflow capped at available;
// the shortfall accretes into a payable balance that this engine never
// relieves from later surplus (an explicit future distribution event is
// required). Equity-like instruments reduce equity on declaration; debt-like
// instruments roll a liability forward with draws and PIK, and conversions
// move liability into equity.
func (a *Allocator) Run(in Inputs, horizon int) []State {
	senior := in.SeniorService
	if senior == nil {
		a.logger.Warn("senior debt service series unavailable; subordination proceeds with zeros",
			zap.String("op", "waterfall.Run"),
		)
	}
	tax := in.TaxPaid
	if tax == nil {
		a.logger.Warn("tax paid series unavailable; subordination proceeds with zeros",
			zap.String("op", "waterfall.Run"),
		)
	}

	states := make([]State, horizon)
	payable := 0.0
	liability := 0.0
	equity := 0.0
	for i := 0; i < horizon; i++ {
		cfo := seriesValue(in.CFO, i)
		scheduledOut := seriesValue(in.Flows.ScheduledOut, i)
		capitalIn := seriesValue(in.Flows.CapitalIn, i)
		pik := seriesValue(in.Flows.PIK, i)
		conversion := seriesValue(in.Flows.Conversion, i)

		available := mathutil.ClampNonNegative(cfo - seriesValue(senior, i) - seriesValue(tax, i) - in.Buffer)
		actualOut := mathutil.Min(scheduledOut, available)
		payable += scheduledOut - actualOut

		if in.Classification == EquityLike {
			// Distributions hit equity when declared, whether or not fully
			// paid in cash.
			equity += capitalIn - scheduledOut
		} else {
			liability += capitalIn + pik - conversion
			equity += conversion
		}

		states[i] = State{
			Period:       i + 1,
			Available:    available,
			ScheduledOut: scheduledOut,
			ActualOut:    actualOut,
			CapitalIn:    capitalIn,
			NetCFF:       capitalIn - actualOut,
			PayableEOP:   payable,
			LiabilityEOP: liability,
			EquityEOP:    equity,
		}
	}
	return states
}

// seriesValue reads a period value from a series that may be nil or shorter
// than the horizon; missing entries are zero.
func seriesValue(series []float64, i int) float64 {
	if i < 0 || i >= len(series) {
		return 0
	}
	return series[i]
}
