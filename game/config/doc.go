// Package config provides tileset management for Oasis Tiles.
//
// The config package handles:
//   - Loading tilesets from TOML files
//   - Validation through the engine's tileset rules
//   - Default tileset selection
//   - Tileset discovery and listing
//
// Tileset Format:
//
// Tilesets live as .toml files in the configs directory. Each file defines
// the starting cross (a center tile and four arms of five tiles, numbered
// outward) and exactly five decks of seventeen tiles. A tile lists its oasis
// slots, an optional desert flag and one treasure per edge:
//
//	[[decks]]
//	deck = [
//	  { is_desert = true, oasis = ["E | S"], treasure_e = "goods:salt", treasure_s = "rumors" },
//	  ...
//	]
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	tileset, err := manager.LoadConfig("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	configs, err := manager.ListConfigs()
//
// When the directory holds no valid tileset the manager falls back to the
// tileset embedded in the engine package.
package config
