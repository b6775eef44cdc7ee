package schedule

import (
	"fmt"

	"github.com/ag-ikigai/Terranova2025/pkg/catalog"
	"go.uber.org/zap"
)

// Revolver builds the simplified cost schedule for a revolving facility.
//
// This models facility cost, not balance dynamics: draws, repayments, and
// balances stay at zero, and interest accrues on a fixed utilization fraction
// of the stated principal for every month inside [drawStart, tenor]. A known
// simplification carried over from the upstream model.
func (g *Generator) Revolver(inst catalog.Instrument, horizon int) Schedule {
	monthlyCost := g.revolverUtilization * inst.Principal * inst.MonthlyRate()

	g.logger.Debug(fmt.Sprintf("revolver %d: %.2f/month over M%d..M%d at utilization %.0f%%",
		inst.LineID, monthlyCost, inst.DrawStartM, inst.TenorMonths, g.revolverUtilization*100),
		zap.String("op", "schedule.Revolver"),
	)

	rows := make([]Row, horizon)
	for i := range rows {
		m := i + 1
		rows[i] = Row{Period: m}
		if m >= inst.DrawStartM && m <= inst.TenorMonths {
			rows[i].Interest = monthlyCost
		}
	}

	return Schedule{LineID: inst.LineID, Name: inst.Name, Currency: inst.Currency, Rows: rows}
}

// Insurance builds the "insurance OFF" stub schedule: all premium cash,
// recognized expense, and prepaid balances are zero. This preserves schema
// and timing for downstream stages while the real model is deferred.
func (g *Generator) Insurance(inst catalog.Instrument, horizon int) InsuranceSchedule {
	rows := make([]InsuranceRow, horizon)
	for i := range rows {
		rows[i] = InsuranceRow{Period: i + 1}
	}
	return InsuranceSchedule{LineID: inst.LineID, Currency: inst.Currency, Rows: rows}
}
