package engine

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// TileConfig is one tile record as written in a tileset file. Unset keys stay nil.
type TileConfig struct {
	IsDesert  *bool    `toml:"is_desert,omitempty" json:"is_desert,omitempty"`
	Oasis     []string `toml:"oasis,omitempty" json:"oasis,omitempty"`
	N         *bool    `toml:"n,omitempty" json:"n,omitempty"`
	E         *bool    `toml:"e,omitempty" json:"e,omitempty"`
	S         *bool    `toml:"s,omitempty" json:"s,omitempty"`
	W         *bool    `toml:"w,omitempty" json:"w,omitempty"`
	TreasureN *string  `toml:"treasure_n,omitempty" json:"treasure_n,omitempty"`
	TreasureE *string  `toml:"treasure_e,omitempty" json:"treasure_e,omitempty"`
	TreasureS *string  `toml:"treasure_s,omitempty" json:"treasure_s,omitempty"`
	TreasureW *string  `toml:"treasure_w,omitempty" json:"treasure_w,omitempty"`
}

func (c TileConfig) treasure(d Direction) *string {
	switch d {
	case North:
		return c.TreasureN
	case East:
		return c.TreasureE
	case South:
		return c.TreasureS
	case West:
		return c.TreasureW
	}
	return nil
}

// CrossConfig describes the starting cross: the center plus four arms, each
// numbered outward from the center.
type CrossConfig struct {
	C TileConfig   `toml:"c" json:"c"`
	N []TileConfig `toml:"n" json:"n"`
	E []TileConfig `toml:"e" json:"e"`
	S []TileConfig `toml:"s" json:"s"`
	W []TileConfig `toml:"w" json:"w"`
}

// Arm returns the arm extending from the center in direction d
func (c CrossConfig) Arm(d Direction) []TileConfig {
	switch d {
	case North:
		return c.N
	case East:
		return c.E
	case South:
		return c.S
	case West:
		return c.W
	}
	return nil
}

// DeckConfig is one deck of tiles in draw order
type DeckConfig struct {
	Deck []TileConfig `toml:"deck" json:"deck"`
}

// TilesetConfig is a complete tileset file
type TilesetConfig struct {
	Name        string       `toml:"name" json:"name"`
	Description string       `toml:"description" json:"description"`
	Cross       CrossConfig  `toml:"cross" json:"cross"`
	Decks       []DeckConfig `toml:"decks" json:"decks"`
}

// Tileset is a validated configuration converted to tile data
type Tileset struct {
	Center TileData
	Arms   [4][CrossArmLength]TileData
	Decks  [DeckCount][DeckSize]TileData
}

// ValidateTilesetConfig checks the tileset shape and that every tile record
// converts cleanly.
func ValidateTilesetConfig(config *TilesetConfig) error {
	_, err := BuildTileset(config)
	return err
}

// BuildTileset validates config and converts every record to TileData
func BuildTileset(config *TilesetConfig) (*Tileset, error) {
	if config == nil {
		return nil, fmt.Errorf("config validation: config is nil")
	}
	if strings.TrimSpace(config.Name) == "" {
		return nil, fmt.Errorf("config validation: name is required")
	}

	ts := &Tileset{}
	center, err := TileDataFromConfig(config.Cross.C, true)
	if err != nil {
		return nil, fmt.Errorf("config validation: cross.c: %w", err)
	}
	ts.Center = center

	for _, d := range Directions {
		arm := config.Cross.Arm(d)
		name := strings.ToLower(d.String())
		if len(arm) != CrossArmLength {
			return nil, fmt.Errorf("config validation: cross.%s must have %d tiles, got %d", name, CrossArmLength, len(arm))
		}
		for i, tc := range arm {
			data, err := TileDataFromConfig(tc, true)
			if err != nil {
				return nil, fmt.Errorf("config validation: cross.%s[%d]: %w", name, i, err)
			}
			ts.Arms[d][i] = data
		}
	}

	if len(config.Decks) != DeckCount {
		return nil, fmt.Errorf("config validation: tileset must have %d decks, got %d", DeckCount, len(config.Decks))
	}
	for di, deck := range config.Decks {
		if len(deck.Deck) != DeckSize {
			return nil, fmt.Errorf("config validation: deck %d must have %d tiles, got %d", di+1, DeckSize, len(deck.Deck))
		}
		for ti, tc := range deck.Deck {
			data, err := TileDataFromConfig(tc, false)
			if err != nil {
				return nil, fmt.Errorf("config validation: deck %d tile %d: %w", di+1, ti+1, err)
			}
			ts.Decks[di][ti] = data
		}
	}
	return ts, nil
}

// ParseTilesetConfig decodes and validates TOML tileset data. Unknown keys
// are rejected so typos such as "treasure_x" do not silently drop content.
func ParseTilesetConfig(data []byte) (*TilesetConfig, error) {
	var config TilesetConfig
	md, err := toml.Decode(string(data), &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tileset: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config validation: unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := ValidateTilesetConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// EncodeTilesetConfig writes config as TOML
func EncodeTilesetConfig(config *TilesetConfig) ([]byte, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(config); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

// LoadTilesetConfig loads a tileset from a TOML file. A path under "configs/"
// is redirected to CONFIG_DIR when that variable is set.
func LoadTilesetConfig(filename string) (*TilesetConfig, error) {
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	return ParseTilesetConfig(data)
}

// LoadConfigFromDir loads <dir>/<name>.toml; name may carry the extension.
// A missing file matches os.ErrNotExist and a malformed one ErrInvalidTileset.
func LoadConfigFromDir(dir, name string) (*TilesetConfig, error) {
	file := strings.TrimSuffix(name, ".toml") + ".toml"

	data, err := os.ReadFile(filepath.Join(dir, file))
	if err != nil {
		return nil, fmt.Errorf("config file '%s': %w", file, err)
	}
	config, err := ParseTilesetConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %v", ErrInvalidTileset, file, err)
	}
	return config, nil
}

//go:embed default_tileset.toml
var defaultTileset []byte

// DefaultTilesetConfig returns the built-in tileset
func DefaultTilesetConfig() *TilesetConfig {
	config, err := ParseTilesetConfig(defaultTileset)
	if err != nil {
		panic(fmt.Sprintf("built-in tileset is invalid: %v", err))
	}
	return config
}
