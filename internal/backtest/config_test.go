package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestConfigUnmarshalDefaults(t *testing.T) {
	var config Config

	assert.NoError(t, yaml.Unmarshal([]byte("commission: 0.001\n"), &config))

	assert.Equal(t, float64(DefaultInitialCapital), config.InitialCapital)
	assert.Equal(t, 0.001, config.Commission)
	assert.Equal(t, DefaultSlippage, config.Slippage)
	assert.True(t, config.StartTime.IsNone())
	assert.True(t, config.EndTime.IsNone())
	assert.False(t, config.ShowProgress)
}

func TestConfigUnmarshalWindowBounds(t *testing.T) {
	data := []byte("start_time: 2024-01-02T00:00:00Z\nend_time: 2024-03-01T00:00:00Z\n")

	var config Config
	assert.NoError(t, yaml.Unmarshal(data, &config))

	assert.True(t, config.StartTime.IsSome())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), config.StartTime.Unwrap())
	assert.True(t, config.EndTime.IsSome())
}

func TestConfigValidate(t *testing.T) {
	config := DefaultConfig()
	assert.NoError(t, config.Validate())

	config.InitialCapital = 0
	assert.Error(t, config.Validate())

	config = DefaultConfig()
	config.Slippage = -0.1
	assert.Error(t, config.Validate())
}
