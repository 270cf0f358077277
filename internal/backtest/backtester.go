// Package backtest replays historical bars through a strategy, simulating
// fills, fees and slippage, and produces performance statistics.
package backtest

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/tradeforge/tradeforge/internal/logger"
	"github.com/tradeforge/tradeforge/internal/strategy"
	"github.com/tradeforge/tradeforge/internal/types"
	"github.com/tradeforge/tradeforge/pkg/errors"
	"go.uber.org/zap"
)

// openPosition is the single position the simulation may hold at a time.
type openPosition struct {
	symbol     string
	entryTime  time.Time
	entryPrice float64
	quantity   int
}

// Backtester drives a strategy across a bar sequence. It simulates capital,
// one open position at a time, and trade costs. It is designed for
// single-threaded, synchronous use.
type Backtester struct {
	config Config
	strat  strategy.Strategy
	log    *logger.Logger

	capital   float64
	position  *openPosition
	trades    []types.Trade
	equity    []types.EquityPoint
	totalFees float64
}

// New creates a backtester for the given strategy and config.
func New(strat strategy.Strategy, config Config, log *logger.Logger) *Backtester {
	return &Backtester{
		config:    config,
		strat:     strat,
		log:       log,
		capital:   config.InitialCapital,
		position:  nil,
		trades:    nil,
		equity:    nil,
		totalFees: 0,
	}
}

// Run replays the bar sequence through the strategy and returns the result.
//
// The bar sequence is filtered to the configured window first; an empty
// result is fatal. At each bar the strategy sees the history up to and
// including that bar, never future bars. Any position still open at the end
// of the data is force closed at the final bar's price.
func (b *Backtester) Run(bars []types.Bar) (*types.BacktestResult, error) {
	if err := types.ValidateBars(bars); err != nil {
		return nil, err
	}

	window := types.WindowBars(bars, timePtr(b.config.StartTime), timePtr(b.config.EndTime))
	if len(window) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyData, "no bars in the requested window")
	}

	b.capital = b.config.InitialCapital
	b.position = nil
	b.trades = nil
	b.equity = make([]types.EquityPoint, 0, len(window))
	b.totalFees = 0

	if err := b.strat.Initialize(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestFailed, "strategy initialization failed", err)
	}

	b.log.Info("Starting backtest",
		zap.String("strategy", b.strat.Name()),
		zap.Int("bars", len(window)),
		zap.Float64("initial_capital", b.config.InitialCapital),
	)

	var bar *progressbar.ProgressBar
	if b.config.ShowProgress {
		bar = progressbar.Default(int64(len(window)))
		bar.Describe("Backtesting " + b.strat.Name())
	}

	for i := range window {
		current := window[i]

		signal, err := b.strat.GenerateSignal(window[:i+1])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeBacktestFailed, "signal generation failed", err)
		}

		b.processSignal(signal, current)

		b.equity = append(b.equity, types.EquityPoint{
			Time:   current.Time,
			Equity: b.markEquity(current.Close),
		})

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	// No position may remain open in a completed result.
	if b.position != nil {
		last := window[len(window)-1]
		b.closePosition(last.Close, last.Time)
		b.equity[len(b.equity)-1].Equity = b.markEquity(last.Close)
	}

	result := b.buildResult(window)

	b.log.Info("Backtest finished",
		zap.String("strategy", b.strat.Name()),
		zap.Int("trades", result.TotalTrades),
		zap.Float64("total_return", result.TotalReturn),
	)

	return result, nil
}

// processSignal applies one signal to the position state machine. Invalid
// signals and signals that do not apply in the current state are treated as
// hold.
func (b *Backtester) processSignal(signal types.Signal, bar types.Bar) {
	if !b.strat.ValidateSignal(signal) {
		b.log.Debug("Discarding invalid signal",
			zap.String("type", string(signal.Type)),
			zap.Float64("price", signal.Price),
			zap.Float64("strength", signal.Strength),
		)

		return
	}

	switch {
	case signal.IsBuy() && b.position == nil:
		b.openPosition(signal, bar)
	case signal.IsSell() && b.position != nil:
		b.closePosition(bar.Close, bar.Time)
	}
}

// openPosition fills a buy at the bar close adjusted for slippage. The
// quantity is reduced when cost plus commission would exceed available cash;
// the entry is abandoned when no affordable quantity remains.
func (b *Backtester) openPosition(signal types.Signal, bar types.Bar) {
	fill := bar.Close * (1 + b.config.Slippage)

	quantity := b.strat.CalculatePositionSize(signal, b.capital)
	if quantity <= 0 {
		return
	}

	cost := fill * float64(quantity)
	fee := cost * b.config.Commission

	if cost+fee > b.capital {
		quantity = affordableQuantity(b.capital, fill, b.config.Commission)
		if quantity <= 0 {
			return
		}

		cost = fill * float64(quantity)
		fee = cost * b.config.Commission
	}

	b.position = &openPosition{
		symbol:     signal.Symbol,
		entryTime:  bar.Time,
		entryPrice: fill,
		quantity:   quantity,
	}

	b.capital -= cost + fee
	b.totalFees += fee

	b.log.Debug("Opened position",
		zap.String("symbol", signal.Symbol),
		zap.Float64("fill", fill),
		zap.Int("quantity", quantity),
	)
}

// closePosition fills a sell at the given close adjusted for slippage and
// records the completed trade.
func (b *Backtester) closePosition(closePrice float64, closeTime time.Time) {
	if b.position == nil {
		return
	}

	fill := closePrice * (1 - b.config.Slippage)

	proceeds := fill * float64(b.position.quantity)
	fee := proceeds * b.config.Commission
	net := proceeds - fee

	profitLoss := net - b.position.entryPrice*float64(b.position.quantity)
	profitRate := (fill - b.position.entryPrice) / b.position.entryPrice * 100

	b.trades = append(b.trades, types.Trade{
		EntryTime:       b.position.entryTime,
		ExitTime:        closeTime,
		Symbol:          b.position.symbol,
		Side:            types.SideLong,
		EntryPrice:      b.position.entryPrice,
		ExitPrice:       fill,
		Quantity:        b.position.quantity,
		ProfitLoss:      profitLoss,
		ProfitRate:      profitRate,
		HoldingDuration: closeTime.Sub(b.position.entryTime),
	})

	b.capital += net
	b.totalFees += fee

	b.log.Debug("Closed position",
		zap.String("symbol", b.position.symbol),
		zap.Float64("fill", fill),
		zap.Float64("profit_loss", profitLoss),
	)

	b.position = nil
}

// markEquity values the account at the given price: cash plus the market
// value of the open position, if any.
func (b *Backtester) markEquity(closePrice float64) float64 {
	equity := b.capital
	if b.position != nil {
		equity += closePrice * float64(b.position.quantity)
	}

	return equity
}

// affordableQuantity floors the largest quantity whose cost plus commission
// fits into the available cash.
func affordableQuantity(cash, fill, commission float64) int {
	unitCost := decimal.NewFromFloat(fill).Mul(decimal.NewFromFloat(1 + commission))
	if !unitCost.IsPositive() {
		return 0
	}

	quantity := decimal.NewFromFloat(cash).Div(unitCost).IntPart()
	if quantity < 0 {
		return 0
	}

	return int(quantity)
}

func timePtr(opt optional.Option[time.Time]) *time.Time {
	if opt.IsNone() {
		return nil
	}

	t := opt.Unwrap()

	return &t
}
