// Package indicator provides technical indicator calculations over bar
// history slices. All functions read only the bars they are given, so a
// caller that passes history truncated at the current bar can never leak
// future data into a calculation.
package indicator

import (
	"math"

	"github.com/tradeforge/tradeforge/internal/types"
	"github.com/tradeforge/tradeforge/pkg/errors"
)

// SMA returns the simple moving average of the closing prices over the last
// period bars.
func SMA(bars []types.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "period must be positive, got %d", period)
	}

	if len(bars) < period {
		return 0, errors.Newf(errors.ErrCodeInsufficientData, "SMA(%d) needs %d bars, have %d", period, period, len(bars))
	}

	sum := 0.0
	for i := len(bars) - period; i < len(bars); i++ {
		sum += bars[i].Close
	}

	return sum / float64(period), nil
}

// EMA returns the exponential moving average of the closing prices, seeded
// with the SMA of the first period bars.
func EMA(bars []types.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "period must be positive, got %d", period)
	}

	if len(bars) < period {
		return 0, errors.Newf(errors.ErrCodeInsufficientData, "EMA(%d) needs %d bars, have %d", period, period, len(bars))
	}

	seed, err := SMA(bars[:period], period)
	if err != nil {
		return 0, err
	}

	multiplier := 2.0 / float64(period+1)

	ema := seed
	for i := period; i < len(bars); i++ {
		ema = (bars[i].Close-ema)*multiplier + ema
	}

	return ema, nil
}

// RSI returns the relative strength index over the last period price changes.
// Returns 100 when there are no losses in the window.
func RSI(bars []types.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "period must be positive, got %d", period)
	}

	if len(bars) < period+1 {
		return 0, errors.Newf(errors.ErrCodeInsufficientData, "RSI(%d) needs %d bars, have %d", period, period+1, len(bars))
	}

	var gains, losses float64

	for i := len(bars) - period; i < len(bars); i++ {
		change := bars[i].Close - bars[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	if losses == 0 {
		return 100, nil
	}

	rs := (gains / float64(period)) / (losses / float64(period))

	return 100 - 100/(1+rs), nil
}

// ATR returns the average true range over the last period bars. The true
// range of a bar includes the gap from the previous close.
func ATR(bars []types.Bar, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "period must be positive, got %d", period)
	}

	if len(bars) < period+1 {
		return 0, errors.Newf(errors.ErrCodeInsufficientData, "ATR(%d) needs %d bars, have %d", period, period+1, len(bars))
	}

	sum := 0.0

	for i := len(bars) - period; i < len(bars); i++ {
		tr := trueRange(bars[i], bars[i-1].Close)
		sum += tr
	}

	return sum / float64(period), nil
}

func trueRange(bar types.Bar, prevClose float64) float64 {
	highLow := bar.High - bar.Low
	highClose := math.Abs(bar.High - prevClose)
	lowClose := math.Abs(bar.Low - prevClose)

	return math.Max(highLow, math.Max(highClose, lowClose))
}
