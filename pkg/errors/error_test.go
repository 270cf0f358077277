package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeEmptyData, "no bars in range")
	assert.Equal(t, "[200] no bars in range", err.Error())
	assert.Equal(t, ErrCodeEmptyData, GetCode(err))
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeUnknownStrategy, "strategy %q is not registered", "sma_crossover")
	assert.Equal(t, `[300] strategy "sma_crossover" is not registered`, err.Error())
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("yaml: line 3: mapping values are not allowed")
	err := Wrap(ErrCodeConfigParse, "failed to parse strategy config", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "yaml: line 3")
	assert.True(t, HasCode(err, ErrCodeConfigParse))
}

func TestGetCodeOnForeignError(t *testing.T) {
	err := fmt.Errorf("plain error")
	assert.Equal(t, ErrCodeUnknown, GetCode(err))
	assert.False(t, HasCode(err, ErrCodeEmptyData))
}

func TestWrappedCodeSurvivesNesting(t *testing.T) {
	inner := New(ErrCodeInsufficientData, "need 20 bars, have 5")
	outer := fmt.Errorf("generate signal: %w", inner)

	assert.Equal(t, ErrCodeInsufficientData, GetCode(outer))
}
