package backtest

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/tradeforge/tradeforge/pkg/errors"
)

// Default trade cost assumptions.
const (
	DefaultInitialCapital = 10_000_000
	DefaultCommission     = 0.00015
	DefaultSlippage       = 0.001
)

// Config holds the simulation parameters of a backtest run.
type Config struct {
	// InitialCapital is the starting cash of the simulated account.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" validate:"gt=0"`
	// Commission is the fee rate charged on every fill.
	Commission float64 `yaml:"commission" json:"commission" validate:"gte=0"`
	// Slippage is the adverse price movement applied to simulated fills.
	Slippage float64 `yaml:"slippage" json:"slippage" validate:"gte=0"`
	// StartTime and EndTime bound the simulated window. Unset means open ended.
	StartTime optional.Option[time.Time] `yaml:"start_time" json:"start_time"`
	EndTime   optional.Option[time.Time] `yaml:"end_time" json:"end_time"`
	// ShowProgress renders a progress bar while iterating bars.
	ShowProgress bool `yaml:"show_progress" json:"show_progress"`
}

// DefaultConfig returns a config with the documented cost defaults.
func DefaultConfig() Config {
	return Config{
		InitialCapital: DefaultInitialCapital,
		Commission:     DefaultCommission,
		Slippage:       DefaultSlippage,
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
		ShowProgress:   false,
	}
}

// UnmarshalYAML implements custom unmarshaling so that optional window
// bounds can be given as plain timestamps.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plainConfig struct {
		InitialCapital *float64   `yaml:"initial_capital"`
		Commission     *float64   `yaml:"commission"`
		Slippage       *float64   `yaml:"slippage"`
		StartTime      *time.Time `yaml:"start_time"`
		EndTime        *time.Time `yaml:"end_time"`
		ShowProgress   bool       `yaml:"show_progress"`
	}

	var plain plainConfig
	if err := unmarshal(&plain); err != nil {
		return err
	}

	defaults := DefaultConfig()
	*c = defaults

	if plain.InitialCapital != nil {
		c.InitialCapital = *plain.InitialCapital
	}

	if plain.Commission != nil {
		c.Commission = *plain.Commission
	}

	if plain.Slippage != nil {
		c.Slippage = *plain.Slippage
	}

	if plain.StartTime != nil {
		c.StartTime = optional.Some(*plain.StartTime)
	}

	if plain.EndTime != nil {
		c.EndTime = optional.Some(*plain.EndTime)
	}

	c.ShowProgress = plain.ShowProgress

	return nil
}

// Validate checks the config against its field constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, "invalid backtest config", err)
	}

	return nil
}
