// Package inputpack loads the monthly tables exchanged between pipeline
// stages: the instrument catalog, the case selector, the consolidated
// operating series, and the junior capital flow log. Tables are keyed by an
// integer period index starting at 1.
package inputpack

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ag-ikigai/Terranova2025/pkg/catalog"
	"github.com/ag-ikigai/Terranova2025/pkg/waterfall"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Scalar is a numeric field with defensive parsing: a value that does not
// parse as a number degrades to zero and is flagged so the loader can log the
// degradation instead of aborting the run.
type Scalar struct {
	Value    float64
	Degraded bool
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	raw := strings.TrimSpace(node.Value)
	if raw == "" || raw == "~" || strings.EqualFold(raw, "null") {
		*s = Scalar{}
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*s = Scalar{Degraded: true}
		return nil
	}
	*s = Scalar{Value: f}
	return nil
}

// Int returns the scalar truncated to an integer.
func (s Scalar) Int() int {
	return int(s.Value)
}

// Bool treats any nonzero value as true (catalog flags are 0/1 columns).
func (s Scalar) Bool() bool {
	return s.Value != 0
}

// CatalogRow is one instrument row as it appears in the exchanged catalog
// table.
type CatalogRow struct {
	CaseName        string `yaml:"case_name"`
	LineID          Scalar `yaml:"line_id"`
	Instrument      string `yaml:"instrument"`
	Currency        string `yaml:"currency"`
	Principal       Scalar `yaml:"principal"`
	RatePct         Scalar `yaml:"rate_pct"`
	TenorMonths     Scalar `yaml:"tenor_months"`
	DrawStartM      Scalar `yaml:"draw_start_m"`
	DrawEndM        Scalar `yaml:"draw_end_m"`
	GraceIntM       Scalar `yaml:"grace_int_m"`
	GracePrincipalM Scalar `yaml:"grace_principal_m"`
	AmortType       string `yaml:"amort_type"`
	BalloonPct      Scalar `yaml:"balloon_pct"`
	SecuredBy       string `yaml:"secured_by"`
	Revolving       Scalar `yaml:"revolving"`
	IsInsurance     Scalar `yaml:"is_insurance"`
	Active          Scalar `yaml:"active"`
}

// FlowRow is one junior capital flow event in the exchanged flow log.
type FlowRow struct {
	Month    Scalar `yaml:"month"`
	FlowType string `yaml:"flow_type"`
	Amount   Scalar `yaml:"amount"`
}

// SeriesTable holds the consolidated monthly series produced by upstream
// stages, each indexed from period 1.
type SeriesTable struct {
	CFO     []float64 `yaml:"cfo"`
	TaxPaid []float64 `yaml:"tax_paid"`
	CFI     []float64 `yaml:"cfi"`
}

// JuniorLog is the junior capital instrument and its flow schedule.
type JuniorLog struct {
	Instrument string    `yaml:"instrument"`
	Flows      []FlowRow `yaml:"flows"`
}

// Pack is the full set of tables one engine run consumes.
type Pack struct {
	CaseSelector map[string]string `yaml:"case_selector"`
	Catalog      []CatalogRow      `yaml:"catalog"`
	Series       SeriesTable       `yaml:"series"`
	Junior       JuniorLog         `yaml:"junior"`
	OpeningCash  float64           `yaml:"opening_cash"`
}

// Load reads and validates an input pack from a YAML file.
func Load(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading input pack, %s", err)
	}

	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("unable to decode input pack, %s", err)
	}

	if err := pack.Validate(); err != nil {
		return nil, err
	}
	return &pack, nil
}

// Validate enforces the structural requirements of the exchange contract.
// Optional series (tax paid, CFI) may be absent; the core tables may not.
func (p *Pack) Validate() error {
	if len(p.CaseSelector) == 0 {
		return &catalog.ConfigurationError{What: "input pack has no case selector table"}
	}
	if len(p.Catalog) == 0 {
		return &catalog.ConfigurationError{What: "input pack has no instrument catalog"}
	}
	if len(p.Series.CFO) == 0 {
		return &catalog.ConfigurationError{What: "input pack has no operating cash flow series"}
	}
	return nil
}

// Horizon is the run horizon implied by the operating cash flow series.
func (p *Pack) Horizon() int {
	return len(p.Series.CFO)
}

// Instruments converts catalog rows to typed instruments, logging every
// degraded numeric field and unrecognized amortization policy.
func (p *Pack) Instruments(logger *zap.Logger) []catalog.Instrument {
	if logger == nil {
		logger = zap.NewNop()
	}

	instruments := make([]catalog.Instrument, 0, len(p.Catalog))
	for _, row := range p.Catalog {
		for _, field := range []struct {
			name   string
			scalar Scalar
		}{
			{"line_id", row.LineID},
			{"principal", row.Principal},
			{"rate_pct", row.RatePct},
			{"tenor_months", row.TenorMonths},
			{"draw_start_m", row.DrawStartM},
			{"draw_end_m", row.DrawEndM},
			{"grace_int_m", row.GraceIntM},
			{"grace_principal_m", row.GracePrincipalM},
		} {
			if field.scalar.Degraded {
				logger.Warn(fmt.Sprintf("catalog row %s/%s: non-numeric %s coerced to 0",
					row.CaseName, row.Instrument, field.name),
					zap.String("op", "inputpack.Instruments"),
				)
			}
		}

		policy, recognized := catalog.ParsePolicy(row.AmortType)
		if !recognized && row.AmortType != "" {
			logger.Warn(fmt.Sprintf("catalog row %s/%s: unrecognized amortization policy %q, using annuity",
				row.CaseName, row.Instrument, row.AmortType),
				zap.String("op", "inputpack.Instruments"),
			)
		}

		instruments = append(instruments, catalog.Instrument{
			CaseName:        row.CaseName,
			LineID:          row.LineID.Int(),
			Name:            row.Instrument,
			Currency:        row.Currency,
			Principal:       row.Principal.Value,
			RatePct:         row.RatePct.Value,
			TenorMonths:     row.TenorMonths.Int(),
			DrawStartM:      row.DrawStartM.Int(),
			DrawEndM:        row.DrawEndM.Int(),
			GraceIntM:       row.GraceIntM.Int(),
			GracePrincipalM: row.GracePrincipalM.Int(),
			Policy:          policy,
			Revolving:       row.Revolving.Bool(),
			Insurance:       row.IsInsurance.Bool(),
			Active:          row.Active.Bool(),
			BalloonPct:      row.BalloonPct.Value,
			SecuredBy:       row.SecuredBy,
		})
	}
	return instruments
}

// JuniorFlows converts the flow log to typed flows. Rows with an unknown
// flow type are dropped with a warning rather than failing the run.
func (p *Pack) JuniorFlows(logger *zap.Logger) []waterfall.Flow {
	if logger == nil {
		logger = zap.NewNop()
	}

	flows := make([]waterfall.Flow, 0, len(p.Junior.Flows))
	for _, row := range p.Junior.Flows {
		kind, ok := waterfall.ParseFlowKind(row.FlowType)
		if !ok {
			logger.Warn(fmt.Sprintf("junior flow log: unknown flow type %q at month %d dropped",
				row.FlowType, row.Month.Int()),
				zap.String("op", "inputpack.JuniorFlows"),
			)
			continue
		}
		flows = append(flows, waterfall.Flow{
			Period: row.Month.Int(),
			Kind:   kind,
			Amount: row.Amount.Value,
		})
	}
	return flows
}
