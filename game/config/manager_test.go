package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/oasis-tiles/game/engine"
)

func createValidConfig(name string) *engine.TilesetConfig {
	config := engine.DefaultTilesetConfig()
	config.Name = name
	config.Description = "Test tileset"
	return config
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.TilesetConfig) {
	t.Helper()
	data, err := engine.EncodeTilesetConfig(config)
	if err != nil {
		t.Fatalf("Failed to encode config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".toml"), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "classic", createValidConfig("Classic"))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Classic" {
			t.Errorf("Expected classic as default, got %q", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("first valid file when classic is missing", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "desert", createValidConfig("Desert"))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatal(err)
		}
		if manager.GetDefault().Name != "Desert" {
			t.Errorf("default = %q", manager.GetDefault().Name)
		}
	})

	t.Run("empty directory falls back to embedded tileset", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without config files, got: %v", err)
		}
		if manager.GetDefault() == nil || manager.GetDefault().Name != "default" {
			t.Errorf("Expected embedded default, got %+v", manager.GetDefault())
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig("Classic"))
	writeConfigFile(t, dir, "test", createValidConfig("Test"))
	if err := os.WriteFile(filepath.Join(dir, "broken.toml"), []byte("name = "), 0644); err != nil {
		t.Fatal(err)
	}
	short := createValidConfig("Short")
	short.Decks = short.Decks[:4]
	data, err := engine.EncodeTilesetConfig(short)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "short.toml"), data, 0644); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("test")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Test" {
			t.Errorf("Expected name 'Test', got %q", config.Name)
		}
	})

	t.Run("load with .toml extension", func(t *testing.T) {
		config, err := manager.LoadConfig("test.toml")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Test" {
			t.Errorf("Expected name 'Test', got %q", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		first, _ := manager.LoadConfig("test")
		second, _ := manager.LoadConfig("test")
		if first != second {
			t.Error("Expected the cached pointer on the second load")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		if _, err := manager.LoadConfig("nope"); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load malformed TOML", func(t *testing.T) {
		if _, err := manager.LoadConfig("broken"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load config with four decks", func(t *testing.T) {
		if _, err := manager.LoadConfig("short"); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig("Classic"))
	writeConfigFile(t, dir, "other", createValidConfig("Other"))
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.toml"), []byte("[[["), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d", len(configs))
	}

	byID := make(map[string]int)
	for i, c := range configs {
		byID[c.ConfigID] = i
	}
	i, ok := byID["classic"]
	if !ok {
		t.Fatalf("classic missing from %+v", configs)
	}
	info := configs[i]
	if info.Filename != "classic.toml" || info.Name != "Classic" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.Decks != engine.DeckCount || info.Tiles != engine.DeckCount*engine.DeckSize {
		t.Errorf("deck counts = %d decks, %d tiles", info.Decks, info.Tiles)
	}
	if info.DesertTiles == 0 {
		t.Error("default tileset should have desert tiles")
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := manager.SaveConfig("saved", createValidConfig("Saved")); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved.toml")); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}

	// A fresh manager reads the file back from disk
	fresh, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}
	config, err := fresh.LoadConfig("saved")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if config.Name != "Saved" {
		t.Errorf("name = %q", config.Name)
	}

	bad := createValidConfig("")
	if err := manager.SaveConfig("bad", bad); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if err := manager.SaveConfig("../escape", createValidConfig("Escape")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for a path name, got %v", err)
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig("Classic"))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	writeConfigFile(t, dir, "classic", createValidConfig("Classic v2"))
	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("RefreshCache: %v", err)
	}
	if manager.GetDefault().Name != "Classic v2" {
		t.Errorf("default after refresh = %q", manager.GetDefault().Name)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 5; i++ {
		writeConfigFile(t, dir, fmt.Sprintf("config%d", i), createValidConfig(fmt.Sprintf("Config%d", i)))
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := manager.LoadConfig(fmt.Sprintf("config%d", id%5+1)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() < 5 {
		t.Errorf("Expected at least 5 configs in cache, got %d", manager.Count())
	}
}
