package strategy

import (
	"math"

	"github.com/tradeforge/tradeforge/internal/indicator"
	"github.com/tradeforge/tradeforge/internal/types"
	"github.com/tradeforge/tradeforge/pkg/errors"
)

// StrategyRSIReversal is the registry name of the RSI reversal strategy.
const StrategyRSIReversal = "rsi_reversal"

// RSIReversal buys when the RSI drops into the oversold zone and sells when
// it rises into the overbought zone.
//
// Parameters: period (default 14), oversold (default 30), overbought (default 70).
type RSIReversal struct {
	BaseStrategy

	period      int
	oversold    float64
	overbought  float64
	initialized bool
}

// NewRSIReversal builds an RSI reversal strategy from a config.
func NewRSIReversal(config *Config) (Strategy, error) {
	return &RSIReversal{
		BaseStrategy: NewBaseStrategy(config),
		period:       0,
		oversold:     0,
		overbought:   0,
		initialized:  false,
	}, nil
}

// Initialize reads the RSI parameters from the config.
func (s *RSIReversal) Initialize() error {
	params := s.Config().Parameters

	s.period = intParam(params, "period", 14)
	s.oversold = floatParam(params, "oversold", 30)
	s.overbought = floatParam(params, "overbought", 70)

	if s.period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "period must be positive, got %d", s.period)
	}

	if s.oversold >= s.overbought {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"oversold %.1f must be below overbought %.1f", s.oversold, s.overbought)
	}

	s.initialized = true

	return nil
}

// GenerateSignal evaluates the RSI on the current bar history.
func (s *RSIReversal) GenerateSignal(history []types.Bar) (types.Signal, error) {
	if !s.initialized {
		return types.Signal{}, errors.New(errors.ErrCodeInvalidParameter, "strategy is not initialized")
	}

	if len(history) == 0 {
		return types.Signal{}, errors.New(errors.ErrCodeEmptyData, "bar history is empty")
	}

	current := history[len(history)-1]
	symbol := s.Config().Symbol()

	if len(history) < s.period+1 {
		return types.HoldSignal(symbol, current.Time, "warming up"), nil
	}

	rsi, err := indicator.RSI(history, s.period)
	if err != nil {
		return types.Signal{}, err
	}

	signal := types.Signal{
		Type:       types.SignalTypeHold,
		Symbol:     symbol,
		Price:      current.Close,
		Strength:   0,
		Confidence: 0,
		Reason:     "RSI in neutral zone",
		Time:       current.Time,
		Metadata: map[string]any{
			"rsi": rsi,
		},
	}

	switch {
	case rsi <= s.oversold:
		signal.Type = types.SignalTypeBuy
		signal.Strength = zoneDepth(s.oversold-rsi, s.oversold)
		signal.Confidence = signal.Strength
		signal.Reason = "RSI oversold"
	case rsi >= s.overbought:
		signal.Type = types.SignalTypeSell
		signal.Strength = zoneDepth(rsi-s.overbought, 100-s.overbought)
		signal.Confidence = signal.Strength
		signal.Reason = "RSI overbought"
	}

	return signal, nil
}

// zoneDepth maps how far the RSI sits inside a threshold zone to [0, 1].
func zoneDepth(depth, zoneWidth float64) float64 {
	if zoneWidth <= 0 {
		return 1
	}

	return math.Min(1, math.Max(0, depth/zoneWidth))
}
