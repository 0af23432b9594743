package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/oasis-tiles/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, players int) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Turn Operations
	DrawTile(ctx context.Context, sessionID string) (*TurnResult, error)
	RotateTile(ctx context.Context, sessionID string, clockwise bool) (*TurnResult, error)
	CheckPlacement(ctx context.Context, sessionID string, anchor engine.TileID, side engine.Direction) (*engine.PlacementCheck, error)
	PlaceTile(ctx context.Context, sessionID string, anchor engine.TileID, side engine.Direction) (*TurnResult, error)
	DiscardTile(ctx context.Context, sessionID string) (*TurnResult, error)
	EndTurn(ctx context.Context, sessionID string) (*TurnResult, error)
	SubmitInput(ctx context.Context, sessionID string, events []engine.InputEvent, dt time.Duration) (*InputResult, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetPlacementHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	TileAt(ctx context.Context, sessionID string, x, y int) (*engine.TileView, error)
	AttachPoints(ctx context.Context, sessionID string) ([]engine.AttachPoint, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.TilesetConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.TilesetConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.TilesetConfig, players int) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	LastAccessed(id string) (time.Time, error)
}

// ConfigManager handles tileset loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.TilesetConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.TilesetConfig
	SaveConfig(name string, config *engine.TilesetConfig) error
}

// Session represents an active game session. Controller drives the same
// engine from queued front-end input. LastAccessedAt belongs to the
// SessionManager; read it through SessionManager.LastAccessed.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Controller     *engine.Controller
	Config         *engine.TilesetConfig
	Players        int
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
