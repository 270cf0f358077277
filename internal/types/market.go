package types

import (
	"time"

	"github.com/tradeforge/tradeforge/pkg/errors"
)

// Bar is one OHLCV price observation for a fixed time period.
// Bars are immutable once ingested.
type Bar struct {
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// ValidateBars checks the bar sequence invariant: timestamps strictly
// increasing with no duplicates, and all prices positive.
func ValidateBars(bars []Bar) error {
	for i, bar := range bars {
		if bar.Open <= 0 || bar.High <= 0 || bar.Low <= 0 || bar.Close <= 0 {
			return errors.Newf(errors.ErrCodeInvalidParameter,
				"bar %d at %s has non-positive price", i, bar.Time.Format(time.RFC3339))
		}

		if i > 0 && !bars[i-1].Time.Before(bar.Time) {
			return errors.Newf(errors.ErrCodeDataOutOfOrder,
				"bar %d at %s is not after previous bar at %s",
				i, bar.Time.Format(time.RFC3339), bars[i-1].Time.Format(time.RFC3339))
		}
	}

	return nil
}

// WindowBars returns the sub-slice of bars within [start, end]. Nil bounds
// are open ended. The result is a view into the input, never a copy.
func WindowBars(bars []Bar, start, end *time.Time) []Bar {
	lo := 0
	hi := len(bars)

	if start != nil {
		for lo < hi && bars[lo].Time.Before(*start) {
			lo++
		}
	}

	if end != nil {
		for hi > lo && bars[hi-1].Time.After(*end) {
			hi--
		}
	}

	return bars[lo:hi]
}
