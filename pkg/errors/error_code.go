package errors

// ErrorCode is a typed numeric code identifying an error category.
type ErrorCode int

// General errors (1-99).
const (
	ErrCodeUnknown ErrorCode = 1
)

// Validation errors (100-199).
const (
	ErrCodeInvalidParameter ErrorCode = 100
	ErrCodeInvalidConfig    ErrorCode = 101
	ErrCodeInvalidSignal    ErrorCode = 102
)

// Data errors (200-299).
const (
	// ErrCodeEmptyData indicates a backtest was given zero usable bars.
	ErrCodeEmptyData ErrorCode = 200
	// ErrCodeDataOutOfOrder indicates bar timestamps are not strictly increasing.
	ErrCodeDataOutOfOrder ErrorCode = 201
	// ErrCodeInsufficientData indicates a calculation needs more bars than available.
	ErrCodeInsufficientData ErrorCode = 202
	ErrCodeDataNotFound     ErrorCode = 203
)

// Strategy errors (300-399).
const (
	// ErrCodeUnknownStrategy indicates a registry lookup miss.
	ErrCodeUnknownStrategy ErrorCode = 300
	// ErrCodeConfigParse indicates a strategy config file failed to parse.
	ErrCodeConfigParse ErrorCode = 301
	// ErrCodeUnsupportedFormat indicates a config file extension the loader does not handle.
	ErrCodeUnsupportedFormat ErrorCode = 302
)

// Backtest errors (400-499).
const (
	ErrCodeBacktestFailed ErrorCode = 400
)
