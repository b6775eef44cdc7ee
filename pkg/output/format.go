// Package output provides utilities for formatting and displaying run
// results.
package output

import (
	"fmt"
	"io"

	"github.com/ag-ikigai/Terranova2025/internal/engine"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable view of
// the run: the waterfall table and the invariant-check report.
func PrettyFormat(w io.Writer, result *engine.Result) {
	p := message.NewPrinter(language.English)

	fmt.Fprintf(w, "--- Case %s: %d loans, %d revolvers, %d insurance lines over %d months ---\n",
		result.ActiveCase, len(result.Loans), len(result.Revolvers), len(result.Insurance), result.Horizon)
	fmt.Fprintf(w, "Junior instrument classified %s\n\n", result.Classification)

	fmt.Fprintf(w, "Period | Available     | Scheduled     | Paid          | Payable EOP   | Liability EOP | Equity EOP\n")
	fmt.Fprintf(w, "______ | _____________ | _____________ | _____________ | _____________ | _____________ | __________\n")
	for _, s := range result.Waterfall {
		_, _ = p.Fprintf(w, "%6d | %13.2f | %13.2f | %13.2f | %13.2f | %13.2f | %10.2f\n",
			s.Period, s.Available, s.ScheduledOut, s.ActualOut, s.PayableEOP, s.LiabilityEOP, s.EquityEOP)
	}

	fmt.Fprintf(w, "\nInvariant checks:\n")
	for _, check := range result.Checks {
		status := "PASS"
		if !check.Passed {
			status = "FAIL"
		}
		_, _ = p.Fprintf(w, "  %-28s %s (max deviation %.9f)\n", check.Check, status, check.MaxDeviation)
	}
}

// CsvFormat outputs the waterfall states in comma-separated value format.
func CsvFormat(w io.Writer, result *engine.Result) {
	fmt.Fprintf(w, `"period","available","scheduled_out","actual_out","capital_in","net_cff","payable_eop","liability_eop","equity_eop"`)
	fmt.Fprintf(w, "\n")
	for _, s := range result.Waterfall {
		fmt.Fprintf(w, `"%d","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f"`,
			s.Period, s.Available, s.ScheduledOut, s.ActualOut, s.CapitalIn, s.NetCFF,
			s.PayableEOP, s.LiabilityEOP, s.EquityEOP)
		fmt.Fprintf(w, "\n")
	}
}

// SchedulesCsv outputs every loan and revolver schedule, row per
// instrument-month, in comma-separated value format.
func SchedulesCsv(w io.Writer, result *engine.Result) {
	fmt.Fprintf(w, `"line_id","name","period","opening","draw","interest","repayment","closing"`)
	fmt.Fprintf(w, "\n")
	for _, s := range append(result.Loans, result.Revolvers...) {
		for _, row := range s.Rows {
			fmt.Fprintf(w, `"%d","%s","%d","%.2f","%.2f","%.2f","%.2f","%.2f"`,
				s.LineID, s.Name, row.Period, row.Opening, row.Draw, row.Interest, row.Repayment, row.Closing)
			fmt.Fprintf(w, "\n")
		}
	}
}
