package strategy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/tradeforge/tradeforge/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ConfigFormat is a supported config file format.
type ConfigFormat string

const (
	FormatYAML ConfigFormat = "yaml"
	FormatJSON ConfigFormat = "json"
)

// rawConfig mirrors Config with pointer fields so that missing keys can be
// told apart from zero values when applying defaults. Unknown keys in the
// file are ignored.
type rawConfig struct {
	Name           *string        `yaml:"name" json:"name"`
	Description    *string        `yaml:"description" json:"description"`
	Parameters     map[string]any `yaml:"parameters" json:"parameters"`
	Symbols        []string       `yaml:"symbols" json:"symbols"`
	MaxInvestment  *int           `yaml:"max_investment" json:"max_investment"`
	MaxLossRate    *float64       `yaml:"max_loss_rate" json:"max_loss_rate"`
	TakeProfitRate *float64       `yaml:"take_profit_rate" json:"take_profit_rate"`
	IsActive       *bool          `yaml:"is_active" json:"is_active"`
	EngineVersion  *string        `yaml:"engine_version" json:"engine_version"`
}

// ParseConfig decodes config data in the given format, applying documented
// defaults to missing fields.
func ParseConfig(data []byte, format ConfigFormat) (*Config, error) {
	var raw rawConfig

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigParse, "failed to parse YAML strategy config", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigParse, "failed to parse JSON strategy config", err)
		}
	default:
		return nil, errors.Newf(errors.ErrCodeUnsupportedFormat, "unsupported config format: %s", format)
	}

	config := NewConfig(DefaultName)

	if raw.Name != nil {
		config.Name = *raw.Name
	}

	if raw.Description != nil {
		config.Description = *raw.Description
	}

	if raw.Parameters != nil {
		config.Parameters = raw.Parameters
	}

	config.Symbols = raw.Symbols

	if raw.MaxInvestment != nil {
		config.MaxInvestment = *raw.MaxInvestment
	}

	if raw.MaxLossRate != nil {
		config.MaxLossRate = *raw.MaxLossRate
	}

	if raw.TakeProfitRate != nil {
		config.TakeProfitRate = *raw.TakeProfitRate
	}

	if raw.IsActive != nil {
		config.IsActive = *raw.IsActive
	}

	if raw.EngineVersion != nil {
		config.EngineVersion = *raw.EngineVersion
	}

	return config, nil
}

// LoadConfigFile loads a strategy config, picking the format from the file
// extension (.yaml, .yml or .json).
func LoadConfigFile(path string) (*Config, error) {
	format, err := formatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeConfigParse, err, "failed to read strategy config %s", path)
	}

	return ParseConfig(data, format)
}

// SaveConfigFile writes a strategy config, picking the format from the file
// extension.
func SaveConfigFile(config *Config, path string) error {
	format, err := formatForPath(path)
	if err != nil {
		return err
	}

	var data []byte

	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(config)
	case FormatJSON:
		data, err = json.MarshalIndent(config, "", "  ")
	}

	if err != nil {
		return errors.Wrap(errors.ErrCodeConfigParse, "failed to marshal strategy config", err)
	}

	return os.WriteFile(path, data, 0644)
}

func formatForPath(path string) (ConfigFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", errors.Newf(errors.ErrCodeUnsupportedFormat, "unsupported config file extension: %s", filepath.Ext(path))
	}
}
