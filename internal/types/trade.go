package types

import "time"

// Side is the direction of a trade.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Trade is the record of one closed position inside a backtest run.
// It is created when the position closes and immutable afterwards.
type Trade struct {
	EntryTime  time.Time `yaml:"entry_time" json:"entry_time" csv:"entry_time"`
	ExitTime   time.Time `yaml:"exit_time" json:"exit_time" csv:"exit_time"`
	Symbol     string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Side       Side      `yaml:"side" json:"side" csv:"side"`
	EntryPrice float64   `yaml:"entry_price" json:"entry_price" csv:"entry_price"`
	ExitPrice  float64   `yaml:"exit_price" json:"exit_price" csv:"exit_price"`
	Quantity   int       `yaml:"quantity" json:"quantity" csv:"quantity"`
	// ProfitLoss is the net result after commissions.
	ProfitLoss float64 `yaml:"profit_loss" json:"profit_loss" csv:"profit_loss"`
	// ProfitRate is (exit - entry) / entry * 100, before commissions.
	ProfitRate      float64       `yaml:"profit_rate" json:"profit_rate" csv:"profit_rate"`
	HoldingDuration time.Duration `yaml:"holding_duration" json:"holding_duration" csv:"holding_duration"`
}

// IsWin reports whether the trade closed with a positive net result.
func (t Trade) IsWin() bool {
	return t.ProfitLoss > 0
}
