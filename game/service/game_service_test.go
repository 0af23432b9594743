package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/oasis-tiles/game/engine"
	"github.com/wricardo/oasis-tiles/game/service"
	"github.com/wricardo/oasis-tiles/game/session"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.TilesetConfig, players int) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}
	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config, players)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Controller:     engine.NewController(eng),
		Config:         config,
		Players:        players,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}
	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, service.ErrSessionNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return service.ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if s, exists := m.sessions[id]; exists {
		s.LastAccessedAt = time.Now()
		return nil
	}
	return service.ErrSessionNotFound
}

func (m *MockSessionManager) LastAccessed(id string) (time.Time, error) {
	if s, exists := m.sessions[id]; exists {
		return s.LastAccessedAt, nil
	}
	return time.Time{}, service.ErrSessionNotFound
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.TilesetConfig
	saved   map[string]*engine.TilesetConfig
}

func NewMockConfigManager() *MockConfigManager {
	test := engine.DefaultTilesetConfig()
	test.Name = "Test Tileset"
	return &MockConfigManager{
		configs: map[string]*engine.TilesetConfig{
			"default": engine.DefaultTilesetConfig(),
			"test":    test,
		},
		saved: make(map[string]*engine.TilesetConfig),
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.TilesetConfig, error) {
	if config, exists := m.configs[name]; exists {
		return config, nil
	}
	return nil, service.ErrConfigNotFound
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var infos []*service.ConfigInfo
	for id, config := range m.configs {
		infos = append(infos, &service.ConfigInfo{
			Filename: id + ".toml",
			ConfigID: id,
			Name:     config.Name,
		})
	}
	return infos, nil
}

func (m *MockConfigManager) GetDefault() *engine.TilesetConfig {
	return m.configs["default"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.TilesetConfig) error {
	m.saved[name] = config
	return nil
}

func newTestService(t *testing.T) (service.GameService, string) {
	t.Helper()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())
	info, err := svc.CreateSession(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	return svc, info.ID
}

func hasEvent(events []service.GameEvent, kind string) bool {
	for _, ev := range events {
		if ev.Type == kind {
			return true
		}
	}
	return false
}

func TestGameService_CreateSession(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	tests := []struct {
		name       string
		configName string
		players    int
		wantErr    error
		wantConfig string
	}{
		{"create with default config", "", 2, nil, "default"},
		{"create with specific config", "test", 4, nil, "test"},
		{"create with invalid config", "nonexistent", 2, service.ErrConfigNotFound, ""},
		{"too many players", "test", 5, engine.ErrInvalidPlayerCount, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.CreateSession(ctx, tt.configName, tt.players)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("CreateSession() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateSession() error = %v", err)
			}
			if session.ConfigName != tt.wantConfig {
				t.Errorf("ConfigName = %q, want %q", session.ConfigName, tt.wantConfig)
			}
			if session.Players != tt.players || len(session.GameState.Players) != tt.players {
				t.Errorf("players = %d", session.Players)
			}
		})
	}
}

func TestGameService_TurnFlow(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	draw, err := svc.DrawTile(ctx, id)
	if err != nil {
		t.Fatalf("DrawTile: %v", err)
	}
	if !draw.Success || draw.Tile == nil || draw.Tile.ID != 22 {
		t.Fatalf("draw = %+v", draw)
	}
	if !hasEvent(draw.Events, service.EventDraw) {
		t.Errorf("missing draw event: %+v", draw.Events)
	}

	if _, err := svc.DrawTile(ctx, id); !errors.Is(err, engine.ErrTileInHand) {
		t.Errorf("second draw: %v", err)
	}

	// The first tile connects East and South; south of (6,6) is a closed edge
	place, err := svc.PlaceTile(ctx, id, 2, engine.East)
	if err != nil {
		t.Fatalf("PlaceTile: %v", err)
	}
	if place.Success || place.Check == nil || place.Check.Legal {
		t.Fatalf("expected an unsuccessful placement, got %+v", place)
	}

	rotate, err := svc.RotateTile(ctx, id, false)
	if err != nil {
		t.Fatal(err)
	}
	if !hasEvent(rotate.Events, service.EventRotate) {
		t.Error("missing rotate event")
	}

	check, err := svc.CheckPlacement(ctx, id, 2, engine.East)
	if err != nil || !check.Legal {
		t.Fatalf("check after rotation = %+v, %v", check, err)
	}

	place, err = svc.PlaceTile(ctx, id, 2, engine.East)
	if err != nil {
		t.Fatal(err)
	}
	if !place.Success || place.Placement == nil || place.Placement.Position != (engine.Coordinate{X: 6, Y: 6}) {
		t.Fatalf("place = %+v", place)
	}
	if !hasEvent(place.Events, service.EventPlace) {
		t.Error("missing place event")
	}

	view, err := svc.TileAt(ctx, id, 6, 6)
	if err != nil || view.ID != 22 {
		t.Errorf("TileAt(6, 6) = %+v, %v", view, err)
	}

	end, err := svc.EndTurn(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !hasEvent(end.Events, service.EventTurnEnded) || end.GameState.CurrentPlayer != engine.Orange {
		t.Errorf("end turn = %+v", end)
	}

	history, err := svc.GetPlacementHistory(ctx, id, service.HistoryOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if history.TotalPlacements != 1 || len(history.Placements) != 1 || history.HasNext {
		t.Errorf("history = %+v", history)
	}
}

func TestGameService_DeckAdvanceAndGameOver(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	sawAdvance := false
	for i := 0; i < engine.DeckCount*engine.DeckSize; i++ {
		draw, err := svc.DrawTile(ctx, id)
		if err != nil {
			t.Fatalf("draw %d: %v", i+1, err)
		}
		if hasEvent(draw.Events, service.EventDeckAdvanced) {
			sawAdvance = true
		}
		if _, err := svc.DiscardTile(ctx, id); err != nil {
			t.Fatal(err)
		}
	}
	if !sawAdvance {
		t.Error("expected a deck_advanced event")
	}

	end, err := svc.EndTurn(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !hasEvent(end.Events, service.EventGameOver) || !end.GameState.GameOver {
		t.Errorf("expected game over, got %+v", end.Events)
	}
	if _, err := svc.DrawTile(ctx, id); !errors.Is(err, engine.ErrGameOver) {
		t.Errorf("draw after game over: %v", err)
	}
}

func TestGameService_SubmitInput(t *testing.T) {
	ctx := context.Background()
	svc, id := newTestService(t)

	if _, err := svc.DrawTile(ctx, id); err != nil {
		t.Fatal(err)
	}

	points, err := svc.AttachPoints(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	handle := -1
	for h, p := range points {
		if p.Anchor == 2 && p.Side == engine.East {
			handle = h
		}
	}
	if handle < 0 {
		t.Fatal("no attach point east of tile 2")
	}

	result, err := svc.SubmitInput(ctx, id, []engine.InputEvent{
		{Kind: engine.InputRotateCCW},
		{Kind: engine.InputHoverEnter, Handle: handle},
		{Kind: engine.InputConfirm},
	}, 0)
	if err != nil {
		t.Fatalf("SubmitInput: %v", err)
	}
	if !result.Tick.Rotated || result.Tick.Placement == nil {
		t.Fatalf("tick = %+v", result.Tick)
	}
	if !hasEvent(result.Events, service.EventPlace) || !hasEvent(result.Events, service.EventInput) {
		t.Errorf("events = %+v", result.Events)
	}
	if len(result.Hovered) != 0 {
		t.Errorf("hover state should reset, got %v", result.Hovered)
	}
}

func TestGameService_SessionNotFound(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	if _, err := svc.GetGameState(ctx, "nope"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("GetGameState: %v", err)
	}
	if _, err := svc.DrawTile(ctx, "nope"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("DrawTile: %v", err)
	}
	if err := svc.DeleteSession(ctx, "nope"); !errors.Is(err, service.ErrSessionNotFound) {
		t.Errorf("DeleteSession: %v", err)
	}
}

func TestGameService_ListSessions(t *testing.T) {
	ctx := context.Background()
	svc := service.NewGameService(NewMockSessionManager(), NewMockConfigManager())

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateSession(ctx, "", 1); err != nil {
			t.Fatal(err)
		}
	}

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("ListSessions() returned %d sessions, want 3", len(sessions))
	}
}

// Run with -race: reads and access-time updates share the session manager.
func TestGameService_ConcurrentReads(t *testing.T) {
	ctx := context.Background()
	sessions := session.NewManager()
	svc := service.NewGameService(sessions, NewMockConfigManager())

	created, err := svc.CreateSession(ctx, "", 2)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				info, err := svc.GetSession(ctx, created.ID)
				if err != nil {
					errs <- err
					return
				}
				if info.LastAccessedAt.IsZero() {
					errs <- fmt.Errorf("session %s has no access time", info.ID)
					return
				}
				if _, err := svc.GetGameState(ctx, created.ID); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			sessions.CleanupExpiredSessions(time.Hour)
			if _, err := svc.ListSessions(ctx); err != nil {
				errs <- err
				return
			}
		}
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
