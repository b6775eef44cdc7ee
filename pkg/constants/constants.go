// Package constants provides shared constants for the terranova engine.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100
)

// Policy defaults; overridable via the policy block of the run configuration.
const (
	// DefaultRevolverUtilization is the assumed drawn fraction of a revolving
	// facility's stated principal when accruing its cost.
	DefaultRevolverUtilization = 0.5

	// DefaultMinimumCashBuffer is cash withheld from the waterfall before any
	// junior claim is served.
	DefaultMinimumCashBuffer = 0.0
)

// Tolerances
const (
	// IdentityTolerance bounds rollforward and balance-sheet deviations, in
	// currency units.
	IdentityTolerance = 1e-6

	// RateEpsilon is the threshold below which a monthly rate is treated as
	// zero in the annuity formula.
	RateEpsilon = 1e-12
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default run configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultInputPackFile is the default input pack file name
	DefaultInputPackFile = "inputpack.yaml"
)

// CaseSelectorKey is the key in the case-selector table naming the active
// financing case.
const CaseSelectorKey = "PFinance_Case"
