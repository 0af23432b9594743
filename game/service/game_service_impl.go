package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wricardo/oasis-tiles/game/engine"
)

// DefaultFrame is the tick length used when SubmitInput is given no duration
const DefaultFrame = 16 * time.Millisecond

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// configIDFor maps a tileset's display name back to the file-based ID
// clients pass to CreateSession. Tilesets without a file report "default".
func (s *gameServiceImpl) configIDFor(tilesetName string) string {
	if infos, err := s.configs.ListConfigs(); err == nil {
		for _, info := range infos {
			if info.Name == tilesetName {
				return info.ConfigID
			}
		}
	}
	if tilesetName == "" {
		return "default"
	}
	return tilesetName
}

// unknownConfig builds the not-found error for configID, naming the
// tilesets that do exist.
func (s *gameServiceImpl) unknownConfig(configID string) error {
	infos, err := s.configs.ListConfigs()
	if err != nil || len(infos) == 0 {
		return fmt.Errorf("%w: config '%s' not found. Use /api/configs to list available configurations", ErrConfigNotFound, configID)
	}
	ids := make([]string, len(infos))
	for i, info := range infos {
		ids[i] = info.ConfigID
	}
	return fmt.Errorf("%w: config '%s' not found. Available configs: %v", ErrConfigNotFound, configID, ids)
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	if configID == "" {
		configID = s.configIDFor(sess.Config.Name)
	}
	accessed, err := s.sessions.LastAccessed(sess.ID)
	if err != nil {
		accessed = sess.CreatedAt
	}
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		Players:        sess.Players,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: accessed,
		GameState:      sess.Engine.GetState(),
		GameConfig:     sess.Config,
	}
}

// lookup fetches a session and marks it accessed. Callers hold s.mu.
func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// CreateSession creates a new game session. An empty configName uses the default tileset.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, players int) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	config := s.configs.GetDefault()
	if configName != "" {
		loaded, err := s.configs.LoadConfig(configName)
		switch {
		case errors.Is(err, ErrConfigNotFound):
			return nil, s.unknownConfig(configName)
		case err != nil:
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
		config = loaded
	}

	// An empty ID makes the session manager pick one
	sess, err := s.sessions.Create("", config, players)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("Created session %s with tileset %q for %d players", sess.ID, config.Name, players)
	return s.sessionInfo(sess, configName), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess, ""), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, ""))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	return nil
}

func newEvent(kind, message string) GameEvent {
	return GameEvent{Type: kind, Message: message, Timestamp: time.Now()}
}

// deckEvents reports deck changes between two snapshots
func deckEvents(before, after *engine.GameState) []GameEvent {
	var events []GameEvent
	if after.ActiveDeck != before.ActiveDeck && after.ActiveDeck != 0 {
		events = append(events, newEvent(EventDeckAdvanced, fmt.Sprintf("Deck %d is now active", after.ActiveDeck)))
	}
	if after.GameOver && !before.GameOver {
		events = append(events, newEvent(EventGameOver, after.Message))
	}
	return events
}

// DrawTile draws the next tile for the current player. Drawing past the last
// deck ends the game and is reported as an unsuccessful result.
func (s *gameServiceImpl) DrawTile(ctx context.Context, sessionID string) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	before := sess.Engine.GetState()
	tile, err := sess.Engine.DrawTile()
	if err != nil && !errors.Is(err, engine.ErrNoMoreDecks) {
		return nil, err
	}

	state := sess.Engine.GetState()
	result := &TurnResult{
		Success:   err == nil,
		GameState: state,
		Message:   state.Message,
		Events:    deckEvents(before, state),
	}
	if err == nil {
		view := tile.View()
		result.Tile = &view
		ev := newEvent(EventDraw, state.Message)
		ev.TileID = tile.ID
		result.Events = append([]GameEvent{ev}, result.Events...)
	}
	return result, nil
}

// RotateTile turns the held tile a quarter turn
func (s *gameServiceImpl) RotateTile(ctx context.Context, sessionID string, clockwise bool) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	tile, err := sess.Engine.RotateActive(clockwise)
	if err != nil {
		return nil, err
	}

	way := "counter-clockwise"
	if clockwise {
		way = "clockwise"
	}
	view := tile.View()
	ev := newEvent(EventRotate, fmt.Sprintf("Tile %d rotated %s", tile.ID, way))
	ev.TileID = tile.ID
	state := sess.Engine.GetState()
	return &TurnResult{
		Success:   true,
		GameState: state,
		Message:   ev.Message,
		Events:    []GameEvent{ev},
		Tile:      &view,
	}, nil
}

// CheckPlacement evaluates the held tile against a side of a placed tile
func (s *gameServiceImpl) CheckPlacement(ctx context.Context, sessionID string, anchor engine.TileID, side engine.Direction) (*engine.PlacementCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	check, err := sess.Engine.EvaluatePlacement(anchor, side)
	if err != nil {
		return nil, err
	}
	return &check, nil
}

// PlaceTile places the held tile. An illegal placement is an unsuccessful
// result carrying the failed check, not an error.
func (s *gameServiceImpl) PlaceTile(ctx context.Context, sessionID string, anchor engine.TileID, side engine.Direction) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	check, err := sess.Engine.EvaluatePlacement(anchor, side)
	if err != nil {
		return nil, err
	}
	if !check.Legal {
		return &TurnResult{
			Success:   false,
			GameState: sess.Engine.GetState(),
			Message:   fmt.Sprintf("Tile does not fit on side %s of tile %d: mismatched edges %v", side, anchor, check.Mismatches),
			Check:     &check,
		}, nil
	}

	record, err := sess.Engine.PlaceActive(anchor, side)
	if err != nil {
		return nil, err
	}
	if sess.Controller != nil {
		sess.Controller.Refresh()
	}

	state := sess.Engine.GetState()
	return &TurnResult{
		Success:   true,
		GameState: state,
		Message:   state.Message,
		Events:    []GameEvent{placeEvent(record, state.Message)},
		Check:     &check,
		Placement: &record,
	}, nil
}

func placeEvent(record engine.PlacementRecord, message string) GameEvent {
	ev := newEvent(EventPlace, message)
	ev.TileID = record.TileID
	pos := record.Position
	ev.Position = &pos
	return ev
}

// DiscardTile drops the held tile
func (s *gameServiceImpl) DiscardTile(ctx context.Context, sessionID string) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	tile, err := sess.Engine.DiscardActive()
	if err != nil {
		return nil, err
	}

	state := sess.Engine.GetState()
	ev := newEvent(EventDiscard, state.Message)
	ev.TileID = tile.ID
	return &TurnResult{
		Success:   true,
		GameState: state,
		Message:   state.Message,
		Events:    []GameEvent{ev},
	}, nil
}

// EndTurn passes play to the next player
func (s *gameServiceImpl) EndTurn(ctx context.Context, sessionID string) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	before := sess.Engine.GetState()
	if err := sess.Engine.EndTurn(); err != nil {
		return nil, err
	}

	state := sess.Engine.GetState()
	events := []GameEvent{newEvent(EventTurnEnded, fmt.Sprintf("%s ended turn %d", before.CurrentPlayer, before.Turn))}
	events = append(events, deckEvents(before, state)...)
	return &TurnResult{
		Success:   true,
		GameState: state,
		Message:   state.Message,
		Events:    events,
	}, nil
}

// SubmitInput queues front-end events on the session controller and runs one tick
func (s *gameServiceImpl) SubmitInput(ctx context.Context, sessionID string, events []engine.InputEvent, dt time.Duration) (*InputResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Controller == nil {
		sess.Controller = engine.NewController(sess.Engine)
	}
	if dt <= 0 {
		dt = DefaultFrame
	}

	sess.Controller.Push(events...)
	tick := sess.Controller.Tick(dt)

	state := sess.Engine.GetState()
	result := &InputResult{
		Tick:      tick,
		Hovered:   sess.Controller.Hovered(),
		Handles:   sess.Controller.AttachPoints(),
		GameState: state,
		Events:    []GameEvent{newEvent(EventInput, fmt.Sprintf("%d input events processed", len(events)))},
	}
	if tick.Rotated {
		result.Events = append(result.Events, newEvent(EventRotate, "Tile rotated"))
	}
	if tick.Placement != nil {
		result.Events = append(result.Events, placeEvent(*tick.Placement, state.Message))
	}
	return result, nil
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetPlacementHistory returns paginated placement history
func (s *gameServiceImpl) GetPlacementHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.History()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	placements := []engine.PlacementRecord{}
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			placements = append(placements, history[i])
		}
	} else if start < total {
		placements = history[start:end]
	}

	return &HistoryResponse{
		Placements:      placements,
		TotalPlacements: total,
		Page:            opts.Page,
		PageSize:        opts.Limit,
		TotalPages:      totalPages,
		HasNext:         opts.Page < totalPages,
		HasPrevious:     opts.Page > 1,
	}, nil
}

// TileAt returns the view of the tile placed at (x, y)
func (s *gameServiceImpl) TileAt(ctx context.Context, sessionID string, x, y int) (*engine.TileView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	tile, err := sess.Engine.TileAt(x, y)
	if err != nil {
		return nil, err
	}
	view := tile.View()
	return &view, nil
}

// AttachPoints lists the free sides of placed tiles
func (s *gameServiceImpl) AttachPoints(ctx context.Context, sessionID string) ([]engine.AttachPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.AttachPoints(), nil
}

// ListConfigs returns available tilesets
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a tileset by name
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.TilesetConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a tileset
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.TilesetConfig) error {
	return s.configs.SaveConfig(configName, config)
}
