package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tradeforge/tradeforge/pkg/errors"
)

func makeBars(start time.Time, closes ...float64) []Bar {
	bars := make([]Bar, len(closes))
	for i, c := range closes {
		bars[i] = Bar{
			Time:   start.Add(time.Duration(i) * 24 * time.Hour),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}

	return bars
}

func TestValidateBars(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid sequence", func(t *testing.T) {
		bars := makeBars(start, 100, 101, 102)
		assert.NoError(t, ValidateBars(bars))
	})

	t.Run("empty sequence is valid", func(t *testing.T) {
		assert.NoError(t, ValidateBars(nil))
	})

	t.Run("duplicate timestamp", func(t *testing.T) {
		bars := makeBars(start, 100, 101)
		bars[1].Time = bars[0].Time

		err := ValidateBars(bars)
		assert.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeDataOutOfOrder))
	})

	t.Run("descending timestamp", func(t *testing.T) {
		bars := makeBars(start, 100, 101)
		bars[1].Time = bars[0].Time.Add(-time.Hour)

		err := ValidateBars(bars)
		assert.True(t, errors.HasCode(err, errors.ErrCodeDataOutOfOrder))
	})

	t.Run("non-positive price", func(t *testing.T) {
		bars := makeBars(start, 100, 101)
		bars[0].Close = 0

		err := ValidateBars(bars)
		assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidParameter))
	})
}

func TestWindowBars(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := makeBars(start, 100, 101, 102, 103, 104)

	t.Run("open ended", func(t *testing.T) {
		window := WindowBars(bars, nil, nil)
		assert.Len(t, window, 5)
	})

	t.Run("start bound inclusive", func(t *testing.T) {
		from := bars[2].Time
		window := WindowBars(bars, &from, nil)
		assert.Len(t, window, 3)
		assert.Equal(t, bars[2].Time, window[0].Time)
	})

	t.Run("end bound inclusive", func(t *testing.T) {
		to := bars[2].Time
		window := WindowBars(bars, nil, &to)
		assert.Len(t, window, 3)
		assert.Equal(t, bars[2].Time, window[len(window)-1].Time)
	})

	t.Run("empty window", func(t *testing.T) {
		from := bars[4].Time.Add(time.Hour)
		window := WindowBars(bars, &from, nil)
		assert.Empty(t, window)
	})

	t.Run("window is a view not a copy", func(t *testing.T) {
		from := bars[1].Time
		window := WindowBars(bars, &from, nil)
		assert.Same(t, &bars[1], &window[0])
	})
}
