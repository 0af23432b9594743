package service

import (
	"time"

	"github.com/wricardo/oasis-tiles/game/engine"
)

// Event types reported in GameEvent.Type
const (
	EventDraw         = "draw"
	EventRotate       = "rotate"
	EventPlace        = "place"
	EventDiscard      = "discard"
	EventDeckAdvanced = "deck_advanced"
	EventTurnEnded    = "turn_ended"
	EventGameOver     = "game_over"
	EventInput        = "input"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string                `json:"id"`
	ConfigName     string                `json:"config_name"`
	Players        int                   `json:"players"`
	CreatedAt      time.Time             `json:"created_at"`
	LastAccessedAt time.Time             `json:"last_accessed_at"`
	GameState      *engine.GameState     `json:"game_state"`
	GameConfig     *engine.TilesetConfig `json:"game_config,omitempty"`
}

// TurnResult contains the result of a turn operation
type TurnResult struct {
	Success   bool                    `json:"success"`
	GameState *engine.GameState       `json:"game_state"`
	Message   string                  `json:"message"`
	Events    []GameEvent             `json:"events,omitempty"`
	Tile      *engine.TileView        `json:"tile,omitempty"`
	Check     *engine.PlacementCheck  `json:"check,omitempty"`
	Placement *engine.PlacementRecord `json:"placement,omitempty"`
}

// InputResult contains the outcome of one controller tick
type InputResult struct {
	Tick      engine.TickResult    `json:"tick"`
	Hovered   []int                `json:"hovered"`
	Handles   []engine.AttachPoint `json:"handles"`
	GameState *engine.GameState    `json:"game_state"`
	Events    []GameEvent          `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during play
type GameEvent struct {
	Type      string             `json:"type"`
	Message   string             `json:"message"`
	Timestamp time.Time          `json:"timestamp"`
	TileID    engine.TileID      `json:"tile_id,omitempty"`
	Position  *engine.Coordinate `json:"position,omitempty"`
}

// HistoryOptions configures placement history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated placement history
type HistoryResponse struct {
	Placements      []engine.PlacementRecord `json:"placements"`
	TotalPlacements int                      `json:"total_placements"`
	Page            int                      `json:"page"`
	PageSize        int                      `json:"page_size"`
	TotalPages      int                      `json:"total_pages"`
	HasNext         bool                     `json:"has_next"`
	HasPrevious     bool                     `json:"has_previous"`
}

// ConfigInfo provides information about a tileset
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Decks       int    `json:"decks"`
	Tiles       int    `json:"tiles"`
	DesertTiles int    `json:"desert_tiles"`
}
