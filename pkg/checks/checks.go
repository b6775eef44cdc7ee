// Package checks verifies the engine's accounting invariants: per-row
// principal rollforward, the consolidated balance-sheet identity, and the
// cross-statement cash link.
package checks

import (
	"fmt"
	"math"

	"github.com/ag-ikigai/Terranova2025/pkg/constants"
	"github.com/ag-ikigai/Terranova2025/pkg/schedule"
	"go.uber.org/zap"
)

// RollforwardViolation reports a schedule row whose closing balance does not
// equal opening + draw - repayment within tolerance. Always fatal.
type RollforwardViolation struct {
	LineID    int
	Period    int
	Deviation float64
}

func (e *RollforwardViolation) Error() string {
	return fmt.Sprintf("rollforward violation: line %d period %d deviates by %g",
		e.LineID, e.Period, e.Deviation)
}

// BalanceSheetImbalance reports a period where total assets do not equal
// total liabilities and equity within tolerance. Always fatal.
type BalanceSheetImbalance struct {
	Period    int
	Deviation float64
}

func (e *BalanceSheetImbalance) Error() string {
	return fmt.Sprintf("balance sheet imbalance: period %d deviates by %g",
		e.Period, e.Deviation)
}

// Result records one check's outcome and its maximum observed deviation.
type Result struct {
	Check        string
	MaxDeviation float64
	Passed       bool
}

// Checker runs invariant checks with a shared tolerance.
type Checker struct {
	logger    *zap.Logger
	tolerance float64
	strict    bool
}

// NewChecker creates a checker. strict promotes cash-link mismatches from
// warnings to hard failures.
func NewChecker(logger *zap.Logger, strict bool) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{logger: logger, tolerance: constants.IdentityTolerance, strict: strict}
}

// Rollforward verifies closing = opening + draw - repayment for every row of
// the schedule.
func (c *Checker) Rollforward(s schedule.Schedule) (Result, error) {
	result := Result{Check: fmt.Sprintf("rollforward line %d", s.LineID), Passed: true}
	for _, row := range s.Rows {
		dev := math.Abs(row.Opening + row.Draw - row.Repayment - row.Closing)
		if dev > result.MaxDeviation {
			result.MaxDeviation = dev
		}
		if dev > c.tolerance {
			result.Passed = false
			return result, &RollforwardViolation{LineID: s.LineID, Period: row.Period, Deviation: dev}
		}
	}
	return result, nil
}

// BalanceSheet verifies assets = liabilities + equity for every period of the
// aligned series.
func (c *Checker) BalanceSheet(assets, liabilitiesAndEquity []float64) (Result, error) {
	result := Result{Check: "balance sheet identity", Passed: true}
	for i := range assets {
		dev := math.Abs(assets[i] - liabilitiesAndEquity[i])
		if dev > result.MaxDeviation {
			result.MaxDeviation = dev
		}
		if dev > c.tolerance {
			result.Passed = false
			return result, &BalanceSheetImbalance{Period: i + 1, Deviation: dev}
		}
	}
	return result, nil
}

// CashLink verifies that the cash-flow statement's closing cash equals the
// balance-sheet cash balance each period. Mismatches warn unless the checker
// is strict, in which case they fail hard.
func (c *Checker) CashLink(cfClosingCash, bsCash []float64) (Result, error) {
	result := Result{Check: "cash link", Passed: true}
	for i := range cfClosingCash {
		dev := math.Abs(cfClosingCash[i] - bsCash[i])
		if dev > result.MaxDeviation {
			result.MaxDeviation = dev
		}
		if dev > c.tolerance {
			result.Passed = false
			if c.strict {
				return result, fmt.Errorf("cash link mismatch: period %d deviates by %g", i+1, dev)
			}
			c.logger.Warn(fmt.Sprintf("cash link mismatch at period %d: deviation %g", i+1, dev),
				zap.String("op", "checks.CashLink"),
			)
		}
	}
	return result, nil
}
