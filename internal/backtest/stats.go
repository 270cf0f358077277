package backtest

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/tradeforge/tradeforge/internal/types"
)

// tradingDaysPerYear is the annualization factor for the Sharpe ratio.
// Calendar days per year (365) annualize the total return. Both are fixed
// defaults; the trading calendar is not configurable.
const (
	tradingDaysPerYear  = 252
	calendarDaysPerYear = 365
)

// buildResult derives the run statistics from the completed simulation
// state. Degenerate denominators (zero capital, zero stdev, zero years, no
// losing trades) resolve to zero rather than an error.
func (b *Backtester) buildResult(window []types.Bar) *types.BacktestResult {
	result := &types.BacktestResult{
		ID:             uuid.NewString(),
		StrategyName:   b.strat.Name(),
		StartTime:      window[0].Time,
		EndTime:        window[len(window)-1].Time,
		InitialCapital: b.config.InitialCapital,
		FinalCapital:   b.equity[len(b.equity)-1].Equity,
		TotalFees:      b.totalFees,
		Trades:         b.trades,
		EquityCurve:    b.equity,
		TotalTrades:    len(b.trades),
	}

	if result.InitialCapital != 0 {
		result.TotalReturn = (result.FinalCapital - result.InitialCapital) / result.InitialCapital * 100
	}

	result.AnnualReturn = annualizeReturn(result.TotalReturn, result.StartTime, result.EndTime)
	result.MaxDrawdown = maxDrawdown(b.equity)
	result.SharpeRatio = sharpeRatio(b.equity)

	var sumProfit, sumLoss float64

	for _, trade := range b.trades {
		if trade.IsWin() {
			result.WinningTrades++
			sumProfit += trade.ProfitLoss
		} else {
			result.LosingTrades++
			sumLoss += trade.ProfitLoss
		}
	}

	if result.TotalTrades > 0 {
		result.WinRate = float64(result.WinningTrades) / float64(result.TotalTrades) * 100
	}

	if result.WinningTrades > 0 {
		result.AvgProfit = sumProfit / float64(result.WinningTrades)
	}

	if result.LosingTrades > 0 {
		result.AvgLoss = sumLoss / float64(result.LosingTrades)
	}

	if sumLoss != 0 {
		result.ProfitFactor = math.Abs(sumProfit / sumLoss)
	}

	return result
}

// annualizeReturn compounds the total return over the elapsed calendar days.
func annualizeReturn(totalReturn float64, start, end time.Time) float64 {
	days := end.Sub(start).Hours() / 24

	years := days / calendarDaysPerYear
	if days <= 0 {
		years = 1
	}

	return (math.Pow(1+totalReturn/100, 1/years) - 1) * 100
}

// maxDrawdown returns the deepest percentage decline of equity from its
// running peak, as a negative number (or zero).
func maxDrawdown(equity []types.EquityPoint) float64 {
	var drawdown float64

	peak := math.Inf(-1)
	for _, point := range equity {
		if point.Equity > peak {
			peak = point.Equity
		}

		if peak > 0 {
			dd := (point.Equity - peak) / peak * 100
			if dd < drawdown {
				drawdown = dd
			}
		}
	}

	return drawdown
}

// sharpeRatio computes mean over sample standard deviation of the per-bar
// equity returns, annualized with the trading-day constant. Returns zero
// when there are not enough samples or the deviation is zero.
func sharpeRatio(equity []types.EquityPoint) float64 {
	var returns []float64

	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			continue
		}

		returns = append(returns, (equity[i].Equity-prev)/prev)
	}

	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}

	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}

	variance /= float64(len(returns) - 1)

	stdev := math.Sqrt(variance)
	if stdev == 0 {
		return 0
	}

	return mean / stdev * math.Sqrt(tradingDaysPerYear)
}
