package schedule

import (
	"fmt"
	"math"

	"github.com/ag-ikigai/Terranova2025/pkg/catalog"
	"github.com/ag-ikigai/Terranova2025/pkg/constants"
	"github.com/ag-ikigai/Terranova2025/pkg/mathutil"
	"go.uber.org/zap"
)

// AnnuityPayment calculates the level monthly payment for an amortizing loan
// using the standard amortization formula. A zero rate degrades to
// straight-line principal / periods.
func AnnuityPayment(principal, monthlyRate float64, periods int) float64 {
	if periods <= 0 {
		return principal
	}
	if math.Abs(monthlyRate) < constants.RateEpsilon {
		return principal / float64(periods)
	}
	return principal * monthlyRate / (1.0 - math.Pow(1.0+monthlyRate, -float64(periods)))
}

// Generator builds monthly financing schedules for catalog instruments.
type Generator struct {
	logger              *zap.Logger
	revolverUtilization float64
}

// NewGenerator creates a schedule generator. revolverUtilization is the
// assumed drawn fraction of a revolving facility's stated principal.
func NewGenerator(logger *zap.Logger, revolverUtilization float64) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{logger: logger, revolverUtilization: revolverUtilization}
}

// Loan builds the full-horizon amortization schedule for a standard loan.
//
// Draws are spread evenly across the draw window and interest accrues on the
// opening balance only, so a draw never accrues interest in its own month.
// Amortization begins the month after the draw window plus the principal
// grace period (capped at tenor) and follows the instrument's policy. The
// final tenor month always repays the full outstanding balance so the
// schedule terminates at exactly zero.
func (g *Generator) Loan(inst catalog.Instrument, horizon int) Schedule {
	tenor := inst.TenorMonths
	if tenor < 0 {
		tenor = 0
	}
	drawStart := inst.DrawStartM
	if drawStart < 1 {
		drawStart = 1
	}
	drawEnd := inst.DrawEndM
	if drawEnd > tenor {
		drawEnd = tenor
	}
	if drawEnd > horizon {
		drawEnd = horizon
	}

	drawMonths := 0
	if drawEnd >= drawStart {
		drawMonths = drawEnd - drawStart + 1
	}
	monthlyDraw := 0.0
	if drawMonths > 0 {
		monthlyDraw = inst.Principal / float64(drawMonths)
	}

	gracePrincipal := inst.GracePrincipalM
	if gracePrincipal < 0 {
		gracePrincipal = 0
	}
	amortStart := drawEnd + gracePrincipal + 1
	if amortStart > tenor {
		amortStart = tenor
	}
	amortPeriods := tenor - amortStart + 1
	if amortPeriods < 0 {
		amortPeriods = 0
	}

	rate := inst.MonthlyRate()

	g.logger.Debug(fmt.Sprintf("loan %d (%s): draws M%d..M%d, amortization M%d..M%d",
		inst.LineID, inst.Policy, drawStart, drawEnd, amortStart, tenor),
		zap.String("op", "schedule.Loan"),
	)

	var annuityPmt, straightPmt float64
	amortInitialized := false

	rows := make([]Row, horizon)
	opening := 0.0
	for i := range rows {
		m := i + 1

		draw := 0.0
		if drawMonths > 0 && m >= drawStart && m <= drawEnd {
			draw = monthlyDraw
		}

		interest := 0.0
		if m >= 1 && m <= tenor {
			interest = opening * rate
		}

		repay := 0.0
		if amortPeriods > 0 && m >= amortStart && m <= tenor {
			if !amortInitialized {
				// The balance at amortization start seeds the level payment
				// and the straight-line installment.
				annuityPmt = AnnuityPayment(opening, rate, amortPeriods)
				straightPmt = opening / float64(amortPeriods)
				amortInitialized = true
			}
			switch inst.Policy {
			case catalog.Straight:
				repay = straightPmt
			case catalog.Bullet:
				repay = 0
			default:
				repay = mathutil.ClampNonNegative(annuityPmt - interest)
			}
			if m == tenor {
				repay = residualPlug(opening, draw)
			}
		}

		closing := opening + draw - repay
		rows[i] = Row{
			Period:    m,
			Opening:   opening,
			Draw:      draw,
			Interest:  interest,
			Repayment: repay,
			Closing:   closing,
		}
		opening = closing
	}

	return Schedule{LineID: inst.LineID, Name: inst.Name, Currency: inst.Currency, Rows: rows}
}

// residualPlug is the forced final-month repayment: the full outstanding
// balance including any same-month draw. It guarantees a zero closing balance
// at tenor and absorbs rounding drift accumulated over the window.
func residualPlug(opening, draw float64) float64 {
	return mathutil.ClampNonNegative(opening + draw)
}
