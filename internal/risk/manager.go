package risk

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradeforge/tradeforge/internal/logger"
	"go.uber.org/zap"
)

// Manager enforces the configured risk limits. It is not safe for
// concurrent use.
type Manager struct {
	config    Config
	log       *logger.Logger
	positions map[string]*Position
	daily     *DailyStats
	halted    bool
}

// NewManager creates a risk manager with the given limits.
func NewManager(config Config, log *logger.Logger) *Manager {
	return &Manager{
		config:    config,
		log:       log,
		positions: make(map[string]*Position),
		daily:     nil,
		halted:    false,
	}
}

// InitializeDaily resets the daily statistics at the start of a trading day
// and lifts any halt from the previous day.
func (m *Manager) InitializeDaily(capital float64, day time.Time) {
	m.daily = &DailyStats{
		Date:           day,
		StartCapital:   capital,
		CurrentCapital: capital,
		TradeCount:     0,
		ProfitLoss:     0,
	}
	m.halted = false
}

// UpdateCapital records the current account value against the day's start.
func (m *Manager) UpdateCapital(capital float64) {
	if m.daily == nil {
		return
	}

	m.daily.CurrentCapital = capital
	m.daily.ProfitLoss = capital - m.daily.StartCapital
}

// RecordTrade counts one executed trade against the daily limit.
func (m *Manager) RecordTrade() {
	if m.daily != nil {
		m.daily.TradeCount++
	}
}

// DailyStats returns the current day's statistics, or nil before the first
// InitializeDaily call.
func (m *Manager) DailyStats() *DailyStats {
	return m.daily
}

// CheckStopLoss reports whether the position breaches its stop boundary.
// The boundary is inclusive: a loss exactly at the configured rate stops
// out. With a trailing stop type the high-water drop rule applies instead.
func (m *Manager) CheckStopLoss(position *Position) bool {
	if m.config.StopType == StopTypeTrailing {
		return m.checkTrailingStop(position)
	}

	return position.ProfitRate() <= -m.config.StopLossRate
}

// CheckTakeProfit reports whether the position reached its profit target.
// The boundary is inclusive.
func (m *Manager) CheckTakeProfit(position *Position) bool {
	return position.ProfitRate() >= m.config.TakeProfitRate
}

func (m *Manager) checkTrailingStop(position *Position) bool {
	if position.CurrentPrice > position.HighestPrice {
		position.HighestPrice = position.CurrentPrice
	}

	if position.HighestPrice <= 0 {
		return false
	}

	dropFromHigh := (position.HighestPrice - position.CurrentPrice) / position.HighestPrice * 100

	return dropFromHigh >= m.config.TrailingStopRate
}

// ShouldClosePosition reports whether the position must be closed and why.
// The stop loss is checked before the profit target.
func (m *Manager) ShouldClosePosition(position *Position) (bool, CloseReason) {
	if m.CheckStopLoss(position) {
		if m.config.StopType == StopTypeTrailing {
			return true, ReasonTrailingStop
		}

		return true, ReasonStopLoss
	}

	if m.CheckTakeProfit(position) {
		return true, ReasonTakeProfit
	}

	return false, ""
}

// CalculatePositionSize returns the order quantity allowed by the per-order
// capital limit and the available cash, floored to a whole number of shares.
func (m *Manager) CalculatePositionSize(price, totalCapital, availableCash float64) int {
	if price <= 0 {
		return 0
	}

	maxOrderAmount := totalCapital * m.config.MaxPositionRate / 100
	if availableCash < maxOrderAmount {
		maxOrderAmount = availableCash
	}

	quantity := decimal.NewFromFloat(maxOrderAmount).
		Div(decimal.NewFromFloat(price)).
		IntPart()
	if quantity < 0 {
		return 0
	}

	return int(quantity)
}

// CheckPositionWeight reports whether adding the amount to the symbol keeps
// its weight within the per-symbol limit.
func (m *Manager) CheckPositionWeight(symbol string, addAmount, totalCapital float64) bool {
	if totalCapital <= 0 {
		return false
	}

	var currentAmount float64
	if position, ok := m.positions[symbol]; ok {
		currentAmount = position.MarketValue()
	}

	newWeight := (currentAmount + addAmount) / totalCapital * 100

	return newWeight <= m.config.MaxStockWeight
}

// CheckTotalExposure reports whether adding the amount keeps the invested
// share of capital within the total limit.
func (m *Manager) CheckTotalExposure(addAmount, totalCapital float64) bool {
	if totalCapital <= 0 {
		return false
	}

	var currentExposure float64
	for _, position := range m.positions {
		currentExposure += position.MarketValue()
	}

	newExposure := (currentExposure + addAmount) / totalCapital * 100

	return newExposure <= m.config.MaxTotalPosition
}

// CheckDailyLossLimit reports whether trading may continue. Breaching the
// daily loss limit halts trading until the next InitializeDaily call.
func (m *Manager) CheckDailyLossLimit() bool {
	if m.daily == nil {
		return true
	}

	if m.daily.DailyReturn() <= -m.config.DailyMaxLossRate {
		if !m.halted {
			m.log.Warn("Daily loss limit breached, halting trading",
				zap.Float64("daily_return", m.daily.DailyReturn()),
				zap.Float64("limit", m.config.DailyMaxLossRate),
			)
		}

		m.halted = true

		return false
	}

	return true
}

// CheckDailyTradeLimit reports whether another trade fits into the daily cap.
func (m *Manager) CheckDailyTradeLimit() bool {
	if m.daily == nil {
		return true
	}

	return m.daily.TradeCount < m.config.DailyMaxTrades
}

// CanTrade combines the halt flag and the daily limits. The halt flag is
// sticky for the rest of the day even if capital recovers.
func (m *Manager) CanTrade() (bool, CloseReason) {
	if m.halted {
		return false, ReasonTradingHalted
	}

	if !m.CheckDailyLossLimit() {
		return false, ReasonDailyLossLimit
	}

	if !m.CheckDailyTradeLimit() {
		return false, ReasonDailyTradeLimit
	}

	return true, ""
}

// CanOpenPosition combines CanTrade with the symbol weight and total
// exposure limits for a prospective order.
func (m *Manager) CanOpenPosition(symbol string, price float64, quantity int, totalCapital float64) (bool, CloseReason) {
	if ok, reason := m.CanTrade(); !ok {
		return false, reason
	}

	amount := price * float64(quantity)

	if !m.CheckPositionWeight(symbol, amount, totalCapital) {
		return false, ReasonStockWeight
	}

	if !m.CheckTotalExposure(amount, totalCapital) {
		return false, ReasonTotalExposure
	}

	return true, ""
}

// AddPosition starts tracking a holding. An existing entry for the symbol
// is replaced.
func (m *Manager) AddPosition(position *Position) {
	if position.HighestPrice < position.CurrentPrice {
		position.HighestPrice = position.CurrentPrice
	}

	m.positions[position.Symbol] = position
}

// RemovePosition stops tracking a symbol and returns its last state.
func (m *Manager) RemovePosition(symbol string) *Position {
	position, ok := m.positions[symbol]
	if !ok {
		return nil
	}

	delete(m.positions, symbol)

	return position
}

// UpdatePositionPrice records the latest price for a tracked symbol and
// advances the high-water mark.
func (m *Manager) UpdatePositionPrice(symbol string, currentPrice float64) {
	position, ok := m.positions[symbol]
	if !ok {
		return
	}

	position.CurrentPrice = currentPrice
	if currentPrice > position.HighestPrice {
		position.HighestPrice = currentPrice
	}
}

// GetPosition returns the tracked state for a symbol, or nil.
func (m *Manager) GetPosition(symbol string) *Position {
	return m.positions[symbol]
}

// Positions returns all tracked positions.
func (m *Manager) Positions() []*Position {
	positions := make([]*Position, 0, len(m.positions))
	for _, position := range m.positions {
		positions = append(positions, position)
	}

	return positions
}

// PositionsToClose returns every tracked position that breaches a stop or
// profit rule, with the reason.
func (m *Manager) PositionsToClose() []PositionClose {
	var toClose []PositionClose

	for _, position := range m.positions {
		if ok, reason := m.ShouldClosePosition(position); ok {
			toClose = append(toClose, PositionClose{
				Position: position,
				Reason:   reason,
			})
		}
	}

	return toClose
}

// PositionClose pairs a position with the rule that wants it closed.
type PositionClose struct {
	Position *Position
	Reason   CloseReason
}
