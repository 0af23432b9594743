package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/wricardo/oasis-tiles/game/engine"
	"github.com/wricardo/oasis-tiles/game/service"
)

const configExt = ".toml"

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Manager handles tileset loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.TilesetConfig
	configs       map[string]*engine.TilesetConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.TilesetConfig),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a tileset by name, with or without the .toml extension
func (m *Manager) LoadConfig(name string) (*engine.TilesetConfig, error) {
	name = strings.TrimSuffix(name, configExt)

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	config, err := engine.LoadConfigFromDir(m.configDir, name)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, ErrConfigNotFound
	case errors.Is(err, engine.ErrInvalidTileset):
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	m.configs[name] = config
	return config, nil
}

// ListConfigs returns information about every valid tileset in the directory.
// Files that fail to load are skipped.
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), configExt) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), configExt)
		config, err := m.LoadConfig(name)
		if err != nil {
			continue
		}

		configs = append(configs, describe(entry.Name(), name, config))
	}

	return configs, nil
}

func describe(filename, id string, config *engine.TilesetConfig) *service.ConfigInfo {
	info := &service.ConfigInfo{
		Filename:    filename,
		ConfigID:    id,
		Name:        config.Name,
		Description: config.Description,
		Decks:       len(config.Decks),
	}
	for _, deck := range config.Decks {
		for _, tile := range deck.Deck {
			info.Tiles++
			if tile.IsDesert != nil && *tile.IsDesert {
				info.DesertTiles++
			}
		}
	}
	return info
}

// GetDefault returns the default tileset
func (m *Manager) GetDefault() *engine.TilesetConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default tileset by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache drops every cached tileset and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.TilesetConfig)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig prefers classic.toml, then the first valid file, then
// the embedded tileset.
func (m *Manager) loadDefaultConfig() error {
	config, err := m.LoadConfig("classic")
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			config = engine.DefaultTilesetConfig()
		} else if config, err = m.LoadConfig(configs[0].ConfigID); err != nil {
			config = engine.DefaultTilesetConfig()
		}
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveConfig validates and writes a tileset to <dir>/<name>.toml
func (m *Manager) SaveConfig(name string, config *engine.TilesetConfig) error {
	if err := engine.ValidateTilesetConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	name = strings.TrimSuffix(name, configExt)
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: bad config name %q", ErrInvalidConfig, name)
	}

	data, err := engine.EncodeTilesetConfig(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.configDir, name+configExt), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}

// Count returns the number of cached tilesets
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}
