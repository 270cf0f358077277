package backtest

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/assert"
	"github.com/tradeforge/tradeforge/internal/logger"
	"github.com/tradeforge/tradeforge/internal/strategy"
	"github.com/tradeforge/tradeforge/internal/types"
	"github.com/tradeforge/tradeforge/pkg/errors"
)

// scriptedStrategy buys and sells at fixed bar indexes. Used to drive the
// engine through known state transitions.
type scriptedStrategy struct {
	strategy.BaseStrategy

	buyAt       int
	sellAt      int
	badStrength bool
	initCalls   int
}

func newScriptedStrategy(buyAt, sellAt int) *scriptedStrategy {
	config := strategy.NewConfig("scripted")
	config.Symbols = []string{"005930"}

	return &scriptedStrategy{
		BaseStrategy: strategy.NewBaseStrategy(config),
		buyAt:        buyAt,
		sellAt:       sellAt,
		badStrength:  false,
		initCalls:    0,
	}
}

func (s *scriptedStrategy) Initialize() error {
	s.initCalls++

	return nil
}

func (s *scriptedStrategy) GenerateSignal(history []types.Bar) (types.Signal, error) {
	index := len(history) - 1
	bar := history[index]

	signal := types.Signal{
		Type:     types.SignalTypeHold,
		Symbol:   s.Config().Symbol(),
		Price:    bar.Close,
		Strength: 1,
		Time:     bar.Time,
	}

	switch index {
	case s.buyAt:
		signal.Type = types.SignalTypeBuy
	case s.sellAt:
		signal.Type = types.SignalTypeSell
	}

	if s.badStrength {
		signal.Strength = 2
	}

	return signal, nil
}

func dailyBars(closes ...float64) []types.Bar {
	start := time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC)
	bars := make([]types.Bar, len(closes))

	for i, c := range closes {
		bars[i] = types.Bar{
			Time:   start.Add(time.Duration(i) * 24 * time.Hour),
			Open:   c,
			High:   c * 1.02,
			Low:    c * 0.98,
			Close:  c,
			Volume: 10000,
		}
	}

	return bars
}

func TestRunEmptyData(t *testing.T) {
	b := New(newScriptedStrategy(0, 1), DefaultConfig(), logger.NewNopLogger())

	_, err := b.Run(nil)
	assert.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyData))
}

func TestRunWindowExcludesEverything(t *testing.T) {
	config := DefaultConfig()
	config.StartTime = optional.Some(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))

	b := New(newScriptedStrategy(0, 1), config, logger.NewNopLogger())

	_, err := b.Run(dailyBars(1000, 1010))
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyData))
}

func TestRunMalformedData(t *testing.T) {
	bars := dailyBars(1000, 1010)
	bars[1].Time = bars[0].Time

	b := New(newScriptedStrategy(0, 1), DefaultConfig(), logger.NewNopLogger())

	_, err := b.Run(bars)
	assert.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeDataOutOfOrder))
}

// The reference cost scenario: initial capital 10,000,000, commission
// 0.00015, slippage 0.001, buy at close 1000 on the first bar, sell at close
// 1100 on the fifth. All expectations below are computed from the fill and
// fee formulas by hand.
func TestRunCostModelScenario(t *testing.T) {
	strat := newScriptedStrategy(0, 4)
	b := New(strat, DefaultConfig(), logger.NewNopLogger())

	bars := dailyBars(1000, 1020, 1040, 1060, 1100, 1100)

	result, err := b.Run(bars)
	assert.NoError(t, err)
	assert.Equal(t, 1, strat.initCalls)
	assert.Len(t, result.Trades, 1)

	trade := result.Trades[0]

	// Sizing: min(max_investment, cash) / signal price = 1,000,000 / 1000.
	assert.Equal(t, 1000, trade.Quantity)

	// Entry fill = 1000 * (1 + 0.001), exit fill = 1100 * (1 - 0.001).
	assert.InDelta(t, 1001.0, trade.EntryPrice, 1e-9)
	assert.InDelta(t, 1098.9, trade.ExitPrice, 1e-9)

	// Net PnL = qty * (exit*(1-commission) - entry)
	//         = 1000 * (1098.9*0.99985 - 1001) = 97,735.165.
	assert.InDelta(t, 97_735.165, trade.ProfitLoss, 0.01)

	// Profit rate uses raw fills: (1098.9 - 1001) / 1001 * 100.
	assert.InDelta(t, 9.78022, trade.ProfitRate, 1e-4)

	assert.Equal(t, 4*24*time.Hour, trade.HoldingDuration)

	// Final capital = 10,000,000 - (1,001,000 + 150.15) + (1,098,900 - 164.835).
	assert.InDelta(t, 10_097_585.015, result.FinalCapital, 0.01)
	assert.InDelta(t, 150.15+164.835, result.TotalFees, 0.01)
	assert.InDelta(t, 0.9758, result.TotalReturn, 1e-3)
}

func TestRunForcesCloseAtDataEnd(t *testing.T) {
	// Buys on the second bar, never sells.
	strat := newScriptedStrategy(1, -1)
	b := New(strat, DefaultConfig(), logger.NewNopLogger())

	bars := dailyBars(1000, 1000, 1050, 1100)

	result, err := b.Run(bars)
	assert.NoError(t, err)

	assert.Len(t, result.Trades, 1)
	assert.Equal(t, bars[3].Time, result.Trades[0].ExitTime)

	// Equity series has one point per bar and the last point equals the
	// final cash (flat at end).
	assert.Len(t, result.EquityCurve, len(bars))
	assert.Equal(t, result.FinalCapital, result.EquityCurve[len(result.EquityCurve)-1].Equity)
}

func TestRunIgnoresInvalidSignals(t *testing.T) {
	strat := newScriptedStrategy(0, 2)
	strat.badStrength = true

	b := New(strat, DefaultConfig(), logger.NewNopLogger())

	result, err := b.Run(dailyBars(1000, 1010, 1020))
	assert.NoError(t, err)
	assert.Empty(t, result.Trades)
	assert.Equal(t, DefaultInitialCapital, int(result.FinalCapital))
}

func TestRunSellWhileFlatIsNoop(t *testing.T) {
	// Sell before any buy.
	strat := newScriptedStrategy(3, 1)

	b := New(strat, DefaultConfig(), logger.NewNopLogger())

	result, err := b.Run(dailyBars(1000, 1010, 1020))
	assert.NoError(t, err)
	assert.Empty(t, result.Trades)
}

func TestRunReducesQuantityToAffordable(t *testing.T) {
	config := DefaultConfig()
	config.InitialCapital = 10_000

	strat := newScriptedStrategy(0, 1)
	b := New(strat, config, logger.NewNopLogger())

	result, err := b.Run(dailyBars(100, 100))
	assert.NoError(t, err)
	assert.Len(t, result.Trades, 1)

	// Sizer asks for 100 shares, but 100 * 100.1 * 1.00015 > 10,000, so the
	// quantity is reduced to 99.
	assert.Equal(t, 99, result.Trades[0].Quantity)
}

func TestRunWindowFiltering(t *testing.T) {
	bars := dailyBars(1000, 1010, 1020, 1030, 1040)

	config := DefaultConfig()
	config.StartTime = optional.Some(bars[1].Time)
	config.EndTime = optional.Some(bars[3].Time)

	b := New(newScriptedStrategy(-1, -1), config, logger.NewNopLogger())

	result, err := b.Run(bars)
	assert.NoError(t, err)
	assert.Len(t, result.EquityCurve, 3)
	assert.Equal(t, bars[1].Time, result.StartTime)
	assert.Equal(t, bars[3].Time, result.EndTime)
}

func TestRunDeterminism(t *testing.T) {
	closes := []float64{
		100, 101, 99, 102, 104, 103, 105, 107, 106, 104,
		102, 100, 98, 97, 99, 101, 103, 105, 104, 106,
	}

	run := func() *types.BacktestResult {
		config := strategy.NewConfig("sma")
		config.Symbols = []string{"005930"}
		config.Parameters = map[string]any{"short_period": 2, "long_period": 4}

		strat, err := strategy.NewSMACrossover(config)
		assert.NoError(t, err)

		b := New(strat, DefaultConfig(), logger.NewNopLogger())

		result, err := b.Run(dailyBars(closes...))
		assert.NoError(t, err)

		// The run ID is random by design; blank it for comparison.
		result.ID = ""

		return result
	}

	assert.Equal(t, run(), run())
}
