// Package strategy defines the trading strategy abstraction, the registry
// that builds strategies by name, and the strategy configuration loader.
package strategy

import (
	"github.com/shopspring/decimal"
	"github.com/tradeforge/tradeforge/internal/types"
)

// Strategy is a polymorphic decision unit. Given the bar history up to "now"
// it produces a Signal and sizes positions.
//
// GenerateSignal must be pure with respect to its input history: the same
// history always yields the same signal, with no wall-clock time or external
// I/O involved, so that backtests are reproducible.
type Strategy interface {
	// Name returns the configured name of the strategy instance.
	Name() string
	// Config returns the configuration the strategy was built from.
	Config() *Config
	// Initialize prepares internal indicator state. It must be called once
	// before the first GenerateSignal.
	Initialize() error
	// GenerateSignal produces a signal from the bar history up to and
	// including the current bar. The strategy must never see future bars.
	GenerateSignal(history []types.Bar) (types.Signal, error)
	// CalculatePositionSize returns the order quantity for a signal given the
	// available cash.
	CalculatePositionSize(signal types.Signal, availableCash float64) int
	// ValidateSignal reports whether a signal is safe to act on. Callers must
	// discard invalid signals rather than act on them.
	ValidateSignal(signal types.Signal) bool
}

// BaseStrategy supplies the default validation and sizing behavior shared by
// concrete strategies. Concrete strategies embed it and implement Initialize
// and GenerateSignal themselves.
type BaseStrategy struct {
	config *Config
}

// NewBaseStrategy wraps a config for embedding into a concrete strategy.
func NewBaseStrategy(config *Config) BaseStrategy {
	return BaseStrategy{config: config}
}

// Name returns the configured strategy name.
func (b *BaseStrategy) Name() string {
	return b.config.Name
}

// Config returns the strategy configuration.
func (b *BaseStrategy) Config() *Config {
	return b.config
}

// IsActive reports whether the strategy is enabled.
func (b *BaseStrategy) IsActive() bool {
	return b.config.IsActive
}

// Activate enables the strategy.
func (b *BaseStrategy) Activate() {
	b.config.IsActive = true
}

// Deactivate disables the strategy.
func (b *BaseStrategy) Deactivate() {
	b.config.IsActive = false
}

// ValidateSignal implements the default validation rule: hold signals are
// always valid; buy and sell signals are invalid when the price is not
// positive or the strength falls outside [0, 1].
func (b *BaseStrategy) ValidateSignal(signal types.Signal) bool {
	if signal.IsHold() {
		return true
	}

	if signal.Price <= 0 {
		return false
	}

	if signal.Strength < 0 || signal.Strength > 1 {
		return false
	}

	return true
}

// CalculatePositionSize returns the default order quantity: the configured
// max investment capped by available cash, floored to whole units.
func (b *BaseStrategy) CalculatePositionSize(signal types.Signal, availableCash float64) int {
	if signal.Price <= 0 {
		return 0
	}

	budget := decimal.Min(
		decimal.NewFromInt(int64(b.config.MaxInvestment)),
		decimal.NewFromFloat(availableCash),
	)

	quantity := budget.Div(decimal.NewFromFloat(signal.Price)).IntPart()
	if quantity < 0 {
		return 0
	}

	return int(quantity)
}
