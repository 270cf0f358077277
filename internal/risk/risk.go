// Package risk enforces stop rules, position sizing limits and daily
// trading limits over a set of open positions.
package risk

import (
	"github.com/go-playground/validator/v10"
	"github.com/tradeforge/tradeforge/pkg/errors"
)

// StopType selects how the stop loss boundary is evaluated.
type StopType string

const (
	// StopTypeFixed stops out at a fixed loss percentage from entry.
	StopTypeFixed StopType = "fixed"
	// StopTypeTrailing stops out on a percentage drop from the highest
	// price seen since entry.
	StopTypeTrailing StopType = "trailing"
	// StopTypeATR is reserved for volatility scaled stops. It currently
	// evaluates like StopTypeFixed.
	StopTypeATR StopType = "atr"
)

// CloseReason identifies why the manager wants a position closed or a
// trade rejected.
type CloseReason string

const (
	ReasonStopLoss        CloseReason = "stop_loss"
	ReasonTakeProfit      CloseReason = "take_profit"
	ReasonTrailingStop    CloseReason = "trailing_stop"
	ReasonTradingHalted   CloseReason = "trading_halted"
	ReasonDailyLossLimit  CloseReason = "daily_loss_limit"
	ReasonDailyTradeLimit CloseReason = "daily_trade_limit"
	ReasonStockWeight     CloseReason = "stock_weight_exceeded"
	ReasonTotalExposure   CloseReason = "total_exposure_exceeded"
)

// Config holds the risk limits. Rates are percentages.
type Config struct {
	// StopLossRate closes a position once its loss reaches this percentage.
	StopLossRate float64 `yaml:"stop_loss_rate" json:"stop_loss_rate" validate:"gte=0"`
	// TakeProfitRate closes a position once its gain reaches this percentage.
	TakeProfitRate float64  `yaml:"take_profit_rate" json:"take_profit_rate" validate:"gte=0"`
	StopType       StopType `yaml:"stop_type" json:"stop_type" validate:"oneof=fixed trailing atr"`
	// TrailingStopRate is the allowed drop from the high-water mark.
	TrailingStopRate float64 `yaml:"trailing_stop_rate" json:"trailing_stop_rate" validate:"gte=0"`

	// MaxPositionRate caps a single order at this share of total capital.
	MaxPositionRate float64 `yaml:"max_position_rate" json:"max_position_rate" validate:"gt=0,lte=100"`
	// MaxStockWeight caps one symbol's share of total capital.
	MaxStockWeight float64 `yaml:"max_stock_weight" json:"max_stock_weight" validate:"gt=0,lte=100"`
	// MaxTotalPosition caps the invested share of total capital.
	MaxTotalPosition float64 `yaml:"max_total_position" json:"max_total_position" validate:"gt=0,lte=100"`

	// DailyMaxLossRate halts trading for the day once the daily loss
	// reaches this percentage of the day's starting capital.
	DailyMaxLossRate float64 `yaml:"daily_max_loss_rate" json:"daily_max_loss_rate" validate:"gte=0"`
	// DailyMaxTrades caps the number of trades per day.
	DailyMaxTrades int `yaml:"daily_max_trades" json:"daily_max_trades" validate:"gt=0"`
}

// DefaultConfig returns the documented default limits.
func DefaultConfig() Config {
	return Config{
		StopLossRate:     3.0,
		TakeProfitRate:   5.0,
		StopType:         StopTypeFixed,
		TrailingStopRate: 2.0,
		MaxPositionRate:  10.0,
		MaxStockWeight:   20.0,
		MaxTotalPosition: 80.0,
		DailyMaxLossRate: 5.0,
		DailyMaxTrades:   10,
	}
}

// Validate checks the config against its field constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, "invalid risk config", err)
	}

	return nil
}
