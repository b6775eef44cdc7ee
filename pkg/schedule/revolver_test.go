package schedule

import (
	"math"
	"testing"

	"github.com/ag-ikigai/Terranova2025/pkg/catalog"
	"github.com/ag-ikigai/Terranova2025/pkg/constants"
)

func TestRevolverReferenceScenario(t *testing.T) {
	// Principal 2000 at 12%/yr, active M7..M36: cost is
	// 0.5 * 2000 * 0.01 = 10.00 per active month.
	g := NewGenerator(nil, constants.DefaultRevolverUtilization)
	inst := catalog.Instrument{
		LineID:      10,
		Principal:   2000,
		RatePct:     12.0,
		TenorMonths: 36,
		DrawStartM:  7,
		Revolving:   true,
	}
	s := g.Revolver(inst, 60)

	for _, row := range s.Rows {
		active := row.Period >= 7 && row.Period <= 36
		if active && math.Abs(row.Interest-10.0) > constants.IdentityTolerance {
			t.Errorf("period %d interest = %v, expected 10.00", row.Period, row.Interest)
		}
		if !active && row.Interest != 0 {
			t.Errorf("period %d interest = %v, expected 0 outside active window", row.Period, row.Interest)
		}
		if row.Opening != 0 || row.Draw != 0 || row.Repayment != 0 || row.Closing != 0 {
			t.Errorf("period %d has nonzero balance activity: %+v", row.Period, row)
		}
	}
}

func TestRevolverCustomUtilization(t *testing.T) {
	g := NewGenerator(nil, 0.25)
	inst := catalog.Instrument{
		LineID:      11,
		Principal:   2000,
		RatePct:     12.0,
		TenorMonths: 12,
		DrawStartM:  1,
		Revolving:   true,
	}
	s := g.Revolver(inst, 12)

	if got := s.Rows[0].Interest; math.Abs(got-5.0) > constants.IdentityTolerance {
		t.Errorf("interest at 25%% utilization = %v, expected 5.00", got)
	}
}

func TestInsuranceStubAllZero(t *testing.T) {
	g := NewGenerator(nil, constants.DefaultRevolverUtilization)
	inst := catalog.Instrument{LineID: 12, Currency: "NAD", Insurance: true}
	s := g.Insurance(inst, 24)

	if len(s.Rows) != 24 {
		t.Fatalf("insurance schedule has %d rows, expected 24", len(s.Rows))
	}
	for _, row := range s.Rows {
		if row.PremiumCash != 0 || row.Expense != 0 || row.PrepaidBOP != 0 || row.PrepaidEOP != 0 {
			t.Errorf("period %d has nonzero insurance activity: %+v", row.Period, row)
		}
	}
}
