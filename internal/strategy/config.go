package strategy

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/tradeforge/tradeforge/pkg/errors"
)

// Default values applied to config fields missing from a loaded file.
const (
	DefaultName           = "Unnamed"
	DefaultMaxInvestment  = 1_000_000
	DefaultMaxLossRate    = 5.0
	DefaultTakeProfitRate = 10.0
)

// Config holds the configuration of one strategy instance. It is created by
// the config loader (or assembled by a caller) and owned by the strategy
// built from it.
type Config struct {
	// Name is the unique key of the strategy.
	Name string `yaml:"name" json:"name" validate:"required" jsonschema:"title=Name,description=Unique strategy name"`
	// Description is a human readable summary.
	Description string `yaml:"description" json:"description" jsonschema:"title=Description"`
	// Parameters holds strategy specific tuning values.
	Parameters map[string]any `yaml:"parameters" json:"parameters" jsonschema:"title=Parameters,description=Strategy specific parameters"`
	// Symbols lists the instruments the strategy trades.
	Symbols []string `yaml:"symbols" json:"symbols" jsonschema:"title=Symbols"`
	// MaxInvestment is the largest amount the default sizer will commit to one order.
	MaxInvestment int `yaml:"max_investment" json:"max_investment" validate:"gte=0" jsonschema:"title=Max Investment,minimum=0"`
	// MaxLossRate is the loss threshold in percent.
	MaxLossRate float64 `yaml:"max_loss_rate" json:"max_loss_rate" validate:"gte=0" jsonschema:"title=Max Loss Rate,minimum=0"`
	// TakeProfitRate is the profit taking threshold in percent.
	TakeProfitRate float64 `yaml:"take_profit_rate" json:"take_profit_rate" validate:"gte=0" jsonschema:"title=Take Profit Rate,minimum=0"`
	// IsActive reports whether the strategy should be traded.
	IsActive bool `yaml:"is_active" json:"is_active" jsonschema:"title=Is Active"`
	// EngineVersion is the engine version this config was written for.
	// Empty means no requirement.
	EngineVersion string `yaml:"engine_version,omitempty" json:"engine_version,omitempty" jsonschema:"title=Engine Version"`
}

// NewConfig creates a config with documented defaults for the given name.
func NewConfig(name string) *Config {
	return &Config{
		Name:           name,
		Description:    "",
		Parameters:     map[string]any{},
		Symbols:        nil,
		MaxInvestment:  DefaultMaxInvestment,
		MaxLossRate:    DefaultMaxLossRate,
		TakeProfitRate: DefaultTakeProfitRate,
		IsActive:       true,
		EngineVersion:  "",
	}
}

// Validate checks the config against its field constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, "invalid strategy config", err)
	}

	return nil
}

// Symbol returns the first configured symbol, or empty when none is set.
func (c *Config) Symbol() string {
	if len(c.Symbols) == 0 {
		return ""
	}

	return c.Symbols[0]
}

// GenerateSchema generates a JSON schema for the strategy config.
func (c *Config) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}

	schema := reflector.Reflect(c)
	schema.Title = "strategy-config"
	schema.Description = "Configuration schema for a trading strategy"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates an indented JSON schema string for the
// strategy config.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
