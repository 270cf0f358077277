package strategy

import (
	"math"

	"github.com/tradeforge/tradeforge/internal/indicator"
	"github.com/tradeforge/tradeforge/internal/types"
	"github.com/tradeforge/tradeforge/pkg/errors"
)

// StrategySMACrossover is the registry name of the SMA crossover strategy.
const StrategySMACrossover = "sma_crossover"

// SMACrossover buys when the short moving average crosses above the long
// moving average and sells when it crosses below.
//
// Parameters: short_period (default 5), long_period (default 20).
type SMACrossover struct {
	BaseStrategy

	shortPeriod int
	longPeriod  int
	initialized bool
}

// NewSMACrossover builds an SMA crossover strategy from a config.
func NewSMACrossover(config *Config) (Strategy, error) {
	return &SMACrossover{
		BaseStrategy: NewBaseStrategy(config),
		shortPeriod:  0,
		longPeriod:   0,
		initialized:  false,
	}, nil
}

// Initialize reads the period parameters from the config.
func (s *SMACrossover) Initialize() error {
	params := s.Config().Parameters

	s.shortPeriod = intParam(params, "short_period", 5)
	s.longPeriod = intParam(params, "long_period", 20)

	if s.shortPeriod <= 0 || s.longPeriod <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"periods must be positive, got short=%d long=%d", s.shortPeriod, s.longPeriod)
	}

	if s.shortPeriod >= s.longPeriod {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"short period %d must be less than long period %d", s.shortPeriod, s.longPeriod)
	}

	s.initialized = true

	return nil
}

// GenerateSignal compares the short and long moving averages on the current
// and previous bar to detect a crossover.
func (s *SMACrossover) GenerateSignal(history []types.Bar) (types.Signal, error) {
	if !s.initialized {
		return types.Signal{}, errors.New(errors.ErrCodeInvalidParameter, "strategy is not initialized")
	}

	if len(history) == 0 {
		return types.Signal{}, errors.New(errors.ErrCodeEmptyData, "bar history is empty")
	}

	current := history[len(history)-1]
	symbol := s.Config().Symbol()

	// A crossover needs MA values on this bar and the previous one.
	if len(history) < s.longPeriod+1 {
		return types.HoldSignal(symbol, current.Time, "warming up"), nil
	}

	shortNow, err := indicator.SMA(history, s.shortPeriod)
	if err != nil {
		return types.Signal{}, err
	}

	longNow, err := indicator.SMA(history, s.longPeriod)
	if err != nil {
		return types.Signal{}, err
	}

	previous := history[:len(history)-1]

	shortPrev, err := indicator.SMA(previous, s.shortPeriod)
	if err != nil {
		return types.Signal{}, err
	}

	longPrev, err := indicator.SMA(previous, s.longPeriod)
	if err != nil {
		return types.Signal{}, err
	}

	signal := types.Signal{
		Type:       types.SignalTypeHold,
		Symbol:     symbol,
		Price:      current.Close,
		Strength:   crossoverStrength(shortNow, longNow),
		Confidence: crossoverStrength(shortNow, longNow),
		Reason:     "no crossover",
		Time:       current.Time,
		Metadata: map[string]any{
			"short_ma": shortNow,
			"long_ma":  longNow,
		},
	}

	switch {
	case shortNow > longNow && shortPrev <= longPrev:
		signal.Type = types.SignalTypeBuy
		signal.Reason = "short MA crossed above long MA"
	case shortNow < longNow && shortPrev >= longPrev:
		signal.Type = types.SignalTypeSell
		signal.Reason = "short MA crossed below long MA"
	}

	return signal, nil
}

// crossoverStrength maps the relative MA spread to [0, 1]. A 2% spread or
// more counts as full strength.
func crossoverStrength(shortMA, longMA float64) float64 {
	if longMA == 0 {
		return 0
	}

	spread := math.Abs(shortMA-longMA) / longMA * 100

	return math.Min(1, spread/2)
}
