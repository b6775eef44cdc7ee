// Package waterfall allocates scarce monthly cash among competing claims
// under strict subordination: senior debt service and tax are served before
// any junior capital distribution, and unpaid junior amounts carry forward
// as a payable liability.
package waterfall

import "strings"

// FlowKind classifies one junior capital flow event.
type FlowKind int

const (
	// CapitalIn is a cash injection (equity contribution or note draw).
	CapitalIn FlowKind = iota
	// DistributionOut is a scheduled cash distribution to the junior holder
	// (preferred dividend, revenue share, buyout).
	DistributionOut
	// PIKAccrual is non-cash liability growth (payment-in-kind interest).
	PIKAccrual
	// Conversion is a non-cash move of liability into equity.
	Conversion
)

func (k FlowKind) String() string {
	switch k {
	case DistributionOut:
		return "distribution-out"
	case PIKAccrual:
		return "pik-accrual"
	case Conversion:
		return "conversion"
	default:
		return "capital-in"
	}
}

// flowKindNames maps the flow-type labels used in junior financing logs onto
// the four kinds the allocator understands.
var flowKindNames = map[string]FlowKind{
	"equity_in":      CapitalIn,
	"note_draw":      CapitalIn,
	"capital_in":     CapitalIn,
	"pref_dividend":  DistributionOut,
	"revshare_out":   DistributionOut,
	"buyout":         DistributionOut,
	"buyout_at_refi": DistributionOut,
	"dividend_paid":  DistributionOut,
	"pik_accrual":    PIKAccrual,
	"note_convert":   Conversion,
	"conversion":     Conversion,
}

// ParseFlowKind resolves a flow-type label. The second return reports whether
// the label was recognized.
func ParseFlowKind(s string) (FlowKind, bool) {
	kind, ok := flowKindNames[strings.ToLower(strings.TrimSpace(s))]
	return kind, ok
}

// Flow is one recorded junior capital event. The allocator never mutates the
// recorded amount; it only determines how much of a scheduled distribution is
// actually paid in a period.
type Flow struct {
	Period int
	Kind   FlowKind
	Amount float64
}

// MonthlyFlows holds the junior flow log bucketed into per-period series,
// each of length horizon (index 0 is period 1).
type MonthlyFlows struct {
	CapitalIn    []float64
	ScheduledOut []float64
	PIK          []float64
	Conversion   []float64
}

// Aggregate buckets the flow log by period and kind. Flows outside
// [1, horizon] are dropped.
func Aggregate(flows []Flow, horizon int) MonthlyFlows {
	agg := MonthlyFlows{
		CapitalIn:    make([]float64, horizon),
		ScheduledOut: make([]float64, horizon),
		PIK:          make([]float64, horizon),
		Conversion:   make([]float64, horizon),
	}
	for _, f := range flows {
		if f.Period < 1 || f.Period > horizon {
			continue
		}
		i := f.Period - 1
		switch f.Kind {
		case CapitalIn:
			agg.CapitalIn[i] += f.Amount
		case DistributionOut:
			agg.ScheduledOut[i] += f.Amount
		case PIKAccrual:
			agg.PIK[i] += f.Amount
		case Conversion:
			agg.Conversion[i] += f.Amount
		}
	}
	return agg
}

// Classification determines how a junior instrument's balances are carried.
type Classification int

const (
	// DebtLike instruments carry a liability balance that accrues draws and
	// PIK and is extinguished by conversion.
	DebtLike Classification = iota
	// EquityLike instruments carry contributed equity only; distributions
	// reduce equity when declared regardless of cash paid.
	EquityLike
)

func (c Classification) String() string {
	if c == EquityLike {
		return "equity-like"
	}
	return "debt-like"
}

// Classify derives the classification from the junior instrument's name.
// Convertible notes are debt-like; SAFEs, preferred, and revenue-share-only
// instruments are equity-like. Unknown names default to debt-like.
func Classify(instrument string) Classification {
	s := strings.ToLower(instrument)
	if strings.Contains(s, "convertible") {
		return DebtLike
	}
	if strings.Contains(s, "safe") || strings.Contains(s, "pref") || strings.Contains(s, "revshareonly") {
		return EquityLike
	}
	return DebtLike
}
