package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/ag-ikigai/Terranova2025/internal/config"
	"github.com/ag-ikigai/Terranova2025/internal/inputpack"
	"github.com/ag-ikigai/Terranova2025/pkg/catalog"
	"github.com/ag-ikigai/Terranova2025/pkg/constants"
	"github.com/ag-ikigai/Terranova2025/pkg/waterfall"
)

func scalar(v float64) inputpack.Scalar {
	return inputpack.Scalar{Value: v}
}

func testPack() *inputpack.Pack {
	cfo := make([]float64, 12)
	tax := make([]float64, 12)
	for i := range cfo {
		cfo[i] = 2000
		tax[i] = 50
	}
	return &inputpack.Pack{
		CaseSelector: map[string]string{constants.CaseSelectorKey: "Base"},
		Catalog: []inputpack.CatalogRow{
			{
				CaseName:    "Base",
				LineID:      scalar(1),
				Instrument:  "Senior Term Loan",
				Currency:    "NAD",
				Principal:   scalar(12000),
				RatePct:     scalar(12),
				TenorMonths: scalar(12),
				DrawStartM:  scalar(1),
				DrawEndM:    scalar(1),
				AmortType:   "annuity",
				Active:      scalar(1),
			},
			{
				CaseName:    "Base",
				LineID:      scalar(2),
				Instrument:  "Working Capital Facility",
				Currency:    "NAD",
				Principal:   scalar(2000),
				RatePct:     scalar(12),
				TenorMonths: scalar(12),
				DrawStartM:  scalar(7),
				Revolving:   scalar(1),
				Active:      scalar(1),
			},
			{
				CaseName:    "Base",
				LineID:      scalar(3),
				Instrument:  "Construction All-Risk",
				Currency:    "NAD",
				IsInsurance: scalar(1),
				Active:      scalar(1),
			},
			{
				CaseName:   "Upside",
				LineID:     scalar(4),
				Instrument: "Inactive Case Loan",
				Active:     scalar(1),
			},
		},
		Series: inputpack.SeriesTable{CFO: cfo, TaxPaid: tax},
		Junior: inputpack.JuniorLog{
			Instrument: "Convertible Note 12% PIK",
			Flows: []inputpack.FlowRow{
				{Month: scalar(1), FlowType: "Note_Draw", Amount: scalar(800)},
				{Month: scalar(3), FlowType: "PIK_Accrual", Amount: scalar(8)},
				{Month: scalar(6), FlowType: "Pref_Dividend", Amount: scalar(40)},
			},
		},
		OpeningCash: 500,
	}
}

func testConfig() *config.Configuration {
	return &config.Configuration{
		Policy: config.PolicyConfig{
			RevolverUtilization: constants.DefaultRevolverUtilization,
		},
	}
}

func TestRunFullPipeline(t *testing.T) {
	result, err := New(nil, testConfig()).Run(testPack())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.ActiveCase != "Base" {
		t.Errorf("active case = %q, expected Base", result.ActiveCase)
	}
	if result.Horizon != 12 {
		t.Errorf("horizon = %d, expected 12", result.Horizon)
	}
	if len(result.Loans) != 1 || len(result.Revolvers) != 1 || len(result.Insurance) != 1 {
		t.Fatalf("schedule counts = %d loans, %d revolvers, %d insurance; expected 1 each",
			len(result.Loans), len(result.Revolvers), len(result.Insurance))
	}
	if result.Classification != waterfall.DebtLike {
		t.Errorf("classification = %v, expected debt-like", result.Classification)
	}
	if len(result.Waterfall) != 12 {
		t.Fatalf("waterfall has %d states, expected 12", len(result.Waterfall))
	}

	// The loan must clear at tenor.
	if got := result.Loans[0].Rows[11].Closing; math.Abs(got) > constants.IdentityTolerance {
		t.Errorf("loan closing at tenor = %v, expected 0", got)
	}

	// 2 rollforward checks + balance sheet + cash link, all passed.
	if len(result.Checks) != 4 {
		t.Fatalf("got %d check results, expected 4: %+v", len(result.Checks), result.Checks)
	}
	for _, check := range result.Checks {
		if !check.Passed {
			t.Errorf("check %q failed with max deviation %v", check.Check, check.MaxDeviation)
		}
	}
}

func TestRunSeniorServiceSubordinatesJunior(t *testing.T) {
	pack := testPack()
	// Starve the waterfall: CFO barely covers senior service in the
	// dividend month.
	for i := range pack.Series.CFO {
		pack.Series.CFO[i] = 100
		pack.Series.TaxPaid[i] = 0
	}

	result, err := New(nil, testConfig()).Run(pack)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Month 6: senior service (annuity payment ~1066 + revolver cost 0
	// before M7) exceeds CFO of 100, so nothing is available for the
	// scheduled dividend of 40.
	s := result.Waterfall[5]
	if s.Available != 0 {
		t.Errorf("available = %v, expected 0 under senior starvation", s.Available)
	}
	if s.ActualOut != 0 {
		t.Errorf("actual out = %v, expected 0", s.ActualOut)
	}
	if s.PayableEOP != 40 {
		t.Errorf("payable = %v, expected full 40 shortfall", s.PayableEOP)
	}
}

func TestRunBalanceSheetTieOut(t *testing.T) {
	result, err := New(nil, testConfig()).Run(testPack())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	assets := result.Statements.AssetsTotals()
	le := result.Statements.LiabilitiesAndEquityTotals()
	for i := range assets {
		if math.Abs(assets[i]-le[i]) > constants.IdentityTolerance {
			t.Errorf("period %d: assets %v != L+E %v", i+1, assets[i], le[i])
		}
	}

	// Cash continuity: closing cash on the cash flow statement equals the
	// balance sheet cash every period.
	cf := result.Statements.ClosingCash()
	bs := result.Statements.BalanceSheetCash()
	for i := range cf {
		if math.Abs(cf[i]-bs[i]) > constants.IdentityTolerance {
			t.Errorf("period %d: cash flow closing %v != balance sheet cash %v", i+1, cf[i], bs[i])
		}
	}
}

func TestRunMissingCaseKey(t *testing.T) {
	pack := testPack()
	pack.CaseSelector = map[string]string{"Other_Key": "Base"}

	_, err := New(nil, testConfig()).Run(pack)
	if err == nil {
		t.Fatal("expected configuration error")
	}
	var confErr *catalog.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("expected ConfigurationError, got %T: %v", err, err)
	}
}

func TestRunMissingTaxSeriesDegrades(t *testing.T) {
	pack := testPack()
	pack.Series.TaxPaid = nil

	result, err := New(nil, testConfig()).Run(pack)
	if err != nil {
		t.Fatalf("run with missing tax series should degrade, got %v", err)
	}
	if len(result.Waterfall) != 12 {
		t.Errorf("waterfall incomplete: %d states", len(result.Waterfall))
	}
}

func TestRunHorizonOverride(t *testing.T) {
	conf := testConfig()
	conf.Horizon = 24

	result, err := New(nil, conf).Run(testPack())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Horizon != 24 {
		t.Errorf("horizon = %d, expected 24 from config override", result.Horizon)
	}
	if result.Loans[0].Horizon() != 24 {
		t.Errorf("loan schedule horizon = %d, expected 24", result.Loans[0].Horizon())
	}
	// Periods beyond the CFO series contribute zero operating cash.
	if cfo := result.Statements.CashFlow[20].CFO; cfo != 0 {
		t.Errorf("CFO beyond input series = %v, expected 0", cfo)
	}
}

func TestBuildStatementsCashContinuity(t *testing.T) {
	pack := testPack()
	result, err := New(nil, testConfig()).Run(pack)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Opening cash plus cumulative net cash flow reproduces each period's
	// closing cash.
	cumulative := pack.OpeningCash
	for i, row := range result.Statements.CashFlow {
		cumulative2 := cumulative + row.NetCF
		if math.Abs(row.ClosingCash-cumulative2) > constants.IdentityTolerance {
			t.Errorf("period %d closing cash %v, expected %v", i+1, row.ClosingCash, cumulative2)
		}
		cumulative = cumulative2
	}
}
