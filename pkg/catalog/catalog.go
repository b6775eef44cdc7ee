// Package catalog defines the financing instrument catalog and the selection
// of the rows active under the chosen financing case.
package catalog

import (
	"fmt"
	"strings"
)

// AmortPolicy is the rule governing how principal is repaid over the
// amortization window.
type AmortPolicy int

const (
	// Annuity repays with a level total payment (interest + principal).
	Annuity AmortPolicy = iota
	// Straight repays equal principal installments.
	Straight
	// Bullet defers all principal to the final tenor month.
	Bullet
)

// String returns the canonical lowercase policy name.
func (p AmortPolicy) String() string {
	switch p {
	case Straight:
		return "straight"
	case Bullet:
		return "bullet"
	default:
		return "annuity"
	}
}

// ParsePolicy maps a policy string onto the closed policy set. Unknown or
// empty strings fall back to Annuity; the second return reports whether the
// input was recognized so callers can log the degradation.
func ParsePolicy(s string) (AmortPolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "annuity":
		return Annuity, true
	case "straight":
		return Straight, true
	case "bullet":
		return Bullet, true
	default:
		return Annuity, false
	}
}

// Instrument is one row of the financing catalog.
type Instrument struct {
	CaseName        string
	LineID          int
	Name            string
	Currency        string
	Principal       float64
	RatePct         float64
	TenorMonths     int
	DrawStartM      int
	DrawEndM        int
	GraceIntM       int
	GracePrincipalM int
	Policy          AmortPolicy
	Revolving       bool
	Insurance       bool
	Active          bool

	// Carried through from the catalog schema for downstream stages; not used
	// by schedule computation.
	BalloonPct float64
	SecuredBy  string
}

// MonthlyRate converts the annual percentage rate to a monthly decimal rate.
func (inst Instrument) MonthlyRate() float64 {
	return inst.RatePct / 100.0 / 12.0
}

// ConfigurationError indicates a missing case key, catalog row, or required
// input table. It is not recoverable; the run aborts.
type ConfigurationError struct {
	What   string
	Detail string
}

func (e *ConfigurationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("configuration error: %s", e.What)
	}
	return fmt.Sprintf("configuration error: %s (%s)", e.What, e.Detail)
}
