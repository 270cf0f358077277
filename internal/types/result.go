package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EquityPoint is one sample of the portfolio value during a backtest.
type EquityPoint struct {
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Equity float64   `yaml:"equity" json:"equity" csv:"equity"`
}

// BacktestResult is the aggregate outcome of one backtest run. It is created
// once at the end of the run and read-only afterwards.
type BacktestResult struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// StrategyName is the name of the strategy that produced this result.
	StrategyName string `yaml:"strategy_name" json:"strategy_name"`
	// StartTime and EndTime are the first and last bar times processed.
	StartTime time.Time `yaml:"start_time" json:"start_time"`
	EndTime   time.Time `yaml:"end_time" json:"end_time"`

	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital"`
	FinalCapital   float64 `yaml:"final_capital" json:"final_capital"`

	// TotalReturn is (final - initial) / initial * 100.
	TotalReturn float64 `yaml:"total_return" json:"total_return"`
	// AnnualReturn is the total return annualized over the elapsed calendar days.
	AnnualReturn float64 `yaml:"annual_return" json:"annual_return"`
	// MaxDrawdown is the largest peak-to-trough equity decline, in percent (negative).
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
	// SharpeRatio is mean per-bar return over its standard deviation, annualized.
	SharpeRatio float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	// WinRate is winning trades over total trades, in percent.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`

	TotalTrades   int `yaml:"total_trades" json:"total_trades"`
	WinningTrades int `yaml:"winning_trades" json:"winning_trades"`
	LosingTrades  int `yaml:"losing_trades" json:"losing_trades"`

	AvgProfit float64 `yaml:"avg_profit" json:"avg_profit"`
	AvgLoss   float64 `yaml:"avg_loss" json:"avg_loss"`
	// ProfitFactor is |sum of winning PnL / sum of losing PnL|, 0 when there are no losses.
	ProfitFactor float64 `yaml:"profit_factor" json:"profit_factor"`
	// TotalFees is the sum of all commissions paid during the run.
	TotalFees float64 `yaml:"total_fees" json:"total_fees"`

	Trades      []Trade       `yaml:"trades" json:"trades"`
	EquityCurve []EquityPoint `yaml:"equity_curve" json:"equity_curve"`
}

// WriteFile marshals the result to YAML and writes it to path.
func (r *BacktestResult) WriteFile(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest result to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest result to file: %w", err)
	}

	return nil
}
