package risk

import "time"

// Position tracks one open holding for risk evaluation. HighestPrice is the
// high-water mark used by the trailing stop.
type Position struct {
	Symbol       string    `yaml:"symbol" json:"symbol"`
	EntryPrice   float64   `yaml:"entry_price" json:"entry_price"`
	CurrentPrice float64   `yaml:"current_price" json:"current_price"`
	Quantity     int       `yaml:"quantity" json:"quantity"`
	HighestPrice float64   `yaml:"highest_price" json:"highest_price"`
	EntryTime    time.Time `yaml:"entry_time" json:"entry_time"`
}

// ProfitRate returns the unrealized return in percent. Zero when the entry
// price is not positive.
func (p *Position) ProfitRate() float64 {
	if p.EntryPrice <= 0 {
		return 0
	}

	return (p.CurrentPrice - p.EntryPrice) / p.EntryPrice * 100
}

// MarketValue returns the current valuation of the holding.
func (p *Position) MarketValue() float64 {
	return p.CurrentPrice * float64(p.Quantity)
}

// DailyStats accumulates the current trading day's activity.
type DailyStats struct {
	Date           time.Time `yaml:"date" json:"date"`
	StartCapital   float64   `yaml:"start_capital" json:"start_capital"`
	CurrentCapital float64   `yaml:"current_capital" json:"current_capital"`
	TradeCount     int       `yaml:"trade_count" json:"trade_count"`
	ProfitLoss     float64   `yaml:"profit_loss" json:"profit_loss"`
}

// DailyReturn returns the day's return in percent relative to the starting
// capital. Zero when the starting capital is not positive.
func (s *DailyStats) DailyReturn() float64 {
	if s.StartCapital <= 0 {
		return 0
	}

	return (s.CurrentCapital - s.StartCapital) / s.StartCapital * 100
}
