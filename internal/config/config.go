// Package config defines the data structures related to run configuration
// and includes functions for loading and validating the config.
package config

import (
	"fmt"

	"github.com/ag-ikigai/Terranova2025/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for one engine run.
type Configuration struct {
	InputPack string        `yaml:"inputPack,omitempty"`
	Horizon   int           `yaml:"horizon,omitempty"` // 0 means derive from the CFO series
	Policy    PolicyConfig  `yaml:"policy,omitempty"`
	Checks    ChecksConfig  `yaml:"checks,omitempty"`
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// PolicyConfig holds the named financial policy parameters that used to live
// as embedded constants in the upstream model.
type PolicyConfig struct {
	RevolverUtilization float64 `yaml:"revolverUtilization,omitempty"` // drawn fraction of revolver principal
	MinimumCashBuffer   float64 `yaml:"minimumCashBuffer,omitempty"`   // withheld before junior claims
}

// ChecksConfig controls invariant-check severity.
type ChecksConfig struct {
	Strict bool `yaml:"strict,omitempty"` // promote cash-link mismatches to hard failures
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")
	viper.SetDefault("inputPack", constants.DefaultInputPackFile)
	viper.SetDefault("policy.revolverUtilization", constants.DefaultRevolverUtilization)
	viper.SetDefault("policy.minimumCashBuffer", constants.DefaultMinimumCashBuffer)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// ValidateConfiguration performs general validation of the configuration,
// normalizes out-of-range policy values, and returns warnings.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Policy.RevolverUtilization < 0 || c.Policy.RevolverUtilization > 1 {
		warnings = append(warnings, fmt.Sprintf(
			"policy.revolverUtilization %.2f outside [0, 1]; using default %.2f",
			c.Policy.RevolverUtilization, constants.DefaultRevolverUtilization))
		c.Policy.RevolverUtilization = constants.DefaultRevolverUtilization
	}

	if c.Policy.MinimumCashBuffer < 0 {
		warnings = append(warnings, fmt.Sprintf(
			"policy.minimumCashBuffer %.2f is negative; using 0",
			c.Policy.MinimumCashBuffer))
		c.Policy.MinimumCashBuffer = 0
	}

	if c.Horizon < 0 {
		warnings = append(warnings, fmt.Sprintf(
			"horizon %d is negative; deriving horizon from the input pack instead", c.Horizon))
		c.Horizon = 0
	}

	return warnings
}
