package types

import "time"

// SignalType is the recommended action of a strategy at a point in time.
type SignalType string

const (
	// SignalTypeBuy tells the caller to open a long position.
	SignalTypeBuy SignalType = "buy"
	// SignalTypeSell tells the caller to close the open position.
	SignalTypeSell SignalType = "sell"
	// SignalTypeHold tells the caller to take no action.
	SignalTypeHold SignalType = "hold"
)

// Signal is an immutable value describing a strategy's recommended action.
// A fresh Signal is produced on every evaluation step and never mutated.
type Signal struct {
	// Type is the kind of the signal.
	Type SignalType `yaml:"type" json:"type"`
	// Symbol is the instrument the signal refers to.
	Symbol string `yaml:"symbol" json:"symbol"`
	// Price is the reference price the signal was generated at.
	Price float64 `yaml:"price" json:"price"`
	// Quantity is an optional explicit order size. Zero lets the sizer decide.
	Quantity int `yaml:"quantity,omitempty" json:"quantity,omitempty"`
	// Strength of the signal in [0, 1].
	Strength float64 `yaml:"strength" json:"strength"`
	// Confidence of the signal in [0, 1].
	Confidence float64 `yaml:"confidence" json:"confidence"`
	// Reason is a human readable explanation for the signal.
	Reason string `yaml:"reason" json:"reason"`
	// Time is the bar time the signal was generated at.
	Time time.Time `yaml:"time" json:"time"`
	// Metadata holds free-form values attached by the strategy.
	Metadata map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// IsBuy reports whether the signal recommends opening a position.
func (s Signal) IsBuy() bool {
	return s.Type == SignalTypeBuy
}

// IsSell reports whether the signal recommends closing a position.
func (s Signal) IsSell() bool {
	return s.Type == SignalTypeSell
}

// IsHold reports whether the signal recommends no action.
func (s Signal) IsHold() bool {
	return s.Type == SignalTypeHold
}

// HoldSignal builds a hold signal for the given symbol and time.
func HoldSignal(symbol string, t time.Time, reason string) Signal {
	return Signal{
		Type:   SignalTypeHold,
		Symbol: symbol,
		Reason: reason,
		Time:   t,
	}
}
