package strategy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tradeforge/tradeforge/internal/logger"
	"go.uber.org/zap"
)

// Manager loads and tracks strategy configs from a directory. A multi-file
// load is not atomic: a file that fails to parse is logged and skipped while
// loading continues for the remaining files.
type Manager struct {
	configDir string
	log       *logger.Logger
	configs   map[string]*Config
}

// NewManager creates a manager for the given config directory.
func NewManager(configDir string, log *logger.Logger) *Manager {
	return &Manager{
		configDir: configDir,
		log:       log,
		configs:   make(map[string]*Config),
	}
}

// LoadAll scans the config directory for *.yaml, *.yml and *.json files and
// loads every config that parses. The returned map is keyed by config name.
func (m *Manager) LoadAll() map[string]*Config {
	m.configs = make(map[string]*Config)

	if _, err := os.Stat(m.configDir); os.IsNotExist(err) {
		return m.configs
	}

	for _, pattern := range []string{"*.yaml", "*.yml", "*.json"} {
		paths, err := filepath.Glob(filepath.Join(m.configDir, pattern))
		if err != nil {
			continue
		}

		for _, path := range paths {
			config, err := LoadConfigFile(path)
			if err != nil {
				m.log.Warn("Skipping strategy config that failed to load",
					zap.String("path", path),
					zap.Error(err),
				)

				continue
			}

			m.configs[config.Name] = config
		}
	}

	return m.configs
}

// Get returns the loaded config with the given name.
func (m *Manager) Get(name string) (*Config, bool) {
	config, ok := m.configs[name]

	return config, ok
}

// ActiveStrategies returns all loaded configs that are marked active.
func (m *Manager) ActiveStrategies() []*Config {
	var active []*Config

	for _, config := range m.configs {
		if config.IsActive {
			active = append(active, config)
		}
	}

	return active
}

// Save writes a config into the config directory under a filename derived
// from its name, and tracks it. Returns the written path.
func (m *Manager) Save(config *Config, format ConfigFormat) (string, error) {
	if err := os.MkdirAll(m.configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	filename := fmt.Sprintf("%s.%s", strings.ReplaceAll(strings.ToLower(config.Name), " ", "_"), format)
	path := filepath.Join(m.configDir, filename)

	if err := SaveConfigFile(config, path); err != nil {
		return "", err
	}

	m.configs[config.Name] = config

	return path, nil
}
