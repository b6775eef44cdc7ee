// Package schedule generates monthly financing schedules: amortizing loan
// schedules under the supported repayment policies, utilization-based
// revolver cost schedules, and zero-stub insurance schedules.
package schedule

// Row is one instrument-month of an amortization or revolver schedule.
// The rollforward identity closing = opening + draw - repayment holds for
// every row.
type Row struct {
	Period    int
	Opening   float64
	Draw      float64
	Interest  float64
	Repayment float64
	Closing   float64
}

// Schedule is a full-horizon monthly schedule for one instrument.
type Schedule struct {
	LineID   int
	Name     string
	Currency string
	Rows     []Row
}

// Horizon returns the number of months covered by the schedule.
func (s Schedule) Horizon() int {
	return len(s.Rows)
}

// DebtService returns interest plus principal paid for the given period
// (1-based), or zero outside the schedule.
func (s Schedule) DebtService(period int) float64 {
	if period < 1 || period > len(s.Rows) {
		return 0
	}
	row := s.Rows[period-1]
	return row.Interest + row.Repayment
}

// InsuranceRow is one month of the insurance cost schedule.
type InsuranceRow struct {
	Period      int
	PremiumCash float64
	Expense     float64
	PrepaidBOP  float64
	PrepaidEOP  float64
}

// InsuranceSchedule is a full-horizon monthly insurance schedule for one
// instrument.
type InsuranceSchedule struct {
	LineID   int
	Currency string
	Rows     []InsuranceRow
}
