package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/oasis-tiles/game/engine"
)

func createTestConfig() *engine.TilesetConfig {
	return engine.DefaultTilesetConfig()
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	t.Run("create with custom ID", func(t *testing.T) {
		session, err := manager.Create("test-session", config, 2)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if session.ID != "test-session" {
			t.Errorf("Expected session ID 'test-session', got '%s'", session.ID)
		}
		if session.Engine == nil || session.Controller == nil {
			t.Error("Expected engine and controller to be initialized")
		}
		if session.Players != 2 {
			t.Errorf("Expected 2 players, got %d", session.Players)
		}
	})

	t.Run("create with auto-generated ID", func(t *testing.T) {
		session, err := manager.Create("", config, 1)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %q", session.ID)
		}
	})

	t.Run("duplicate session ID", func(t *testing.T) {
		if _, err := manager.Create("test-session", config, 2); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("case-insensitive duplicate check", func(t *testing.T) {
		if _, err := manager.Create("TEST-SESSION", config, 2); !errors.Is(err, ErrSessionAlreadyExists) {
			t.Errorf("Expected ErrSessionAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid ID", func(t *testing.T) {
		if _, err := manager.Create("a/b", config, 2); !errors.Is(err, ErrInvalidSessionID) {
			t.Errorf("Expected ErrInvalidSessionID, got %v", err)
		}
	})

	t.Run("invalid player count", func(t *testing.T) {
		if _, err := manager.Create("crowd", config, 6); !errors.Is(err, engine.ErrInvalidPlayerCount) {
			t.Errorf("Expected ErrInvalidPlayerCount, got %v", err)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		bad := createTestConfig()
		bad.Decks = bad.Decks[:2]
		if _, err := manager.Create("bad", bad, 2); err == nil {
			t.Error("Expected error for invalid config")
		}
	})
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, err := manager.Create("get-test", createTestConfig(), 2)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("get existing session", func(t *testing.T) {
		session, err := manager.Get("get-test")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		if session != created {
			t.Error("Expected the created session")
		}
	})

	t.Run("case-insensitive get", func(t *testing.T) {
		if _, err := manager.Get("GET-TEST"); err != nil {
			t.Errorf("Expected case-insensitive lookup, got %v", err)
		}
	})

	t.Run("get non-existent session", func(t *testing.T) {
		if _, err := manager.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("del-test", createTestConfig(), 1)

	if err := manager.Delete("DEL-TEST"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := manager.Get("del-test"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("Expected session to be deleted")
	}
	if err := manager.Delete("del-test"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	old, _ := manager.Create("old", config, 1)
	manager.Create("fresh", config, 1)
	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	if removed := manager.CleanupExpiredSessions(time.Hour); removed != 1 {
		t.Errorf("Expected 1 session removed, got %d", removed)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session left, got %d", manager.Count())
	}
	if _, err := manager.Get("fresh"); err != nil {
		t.Error("Fresh session should survive cleanup")
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("touch", createTestConfig(), 1)
	before := time.Now().Add(-time.Minute)
	session.LastAccessedAt = before

	if err := manager.UpdateLastAccessed("TOUCH"); err != nil {
		t.Fatal(err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("Expected LastAccessedAt to be updated")
	}
	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := manager.Create(fmt.Sprintf("s%d", id%50), config, 2); err != nil && !errors.Is(err, ErrSessionAlreadyExists) {
				errs <- err
			}
			manager.Get(fmt.Sprintf("s%d", id%50))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 50 {
		t.Errorf("Expected 50 sessions, got %d", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session1, _ := manager.Create("iso-1", config, 2)
	session2, _ := manager.Create("iso-2", config, 2)

	if _, err := session1.Engine.DrawTile(); err != nil {
		t.Fatal(err)
	}

	if _, holding := session2.Engine.ActiveTile(); holding {
		t.Error("Session 2 should not be affected by a draw in session 1")
	}
	if session2.Engine.GetState().TilesRemaining != engine.DeckCount*engine.DeckSize {
		t.Error("Sessions should have independent decks")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	generatedIDs := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := manager.Create("", config, 1)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true
		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %d", len(session.ID))
		}
	}
}

func TestManager_ListOldestFirst(t *testing.T) {
	manager := NewManager()
	for _, id := range []string{"c", "a", "b"} {
		if _, err := manager.Create(id, createTestConfig(), 1); err != nil {
			t.Fatal(err)
		}
	}
	sessions := manager.List()
	if len(sessions) != 3 {
		t.Fatalf("Expected 3 sessions, got %d", len(sessions))
	}
	for i := 1; i < len(sessions); i++ {
		if sessions[i].CreatedAt.Before(sessions[i-1].CreatedAt) {
			t.Errorf("sessions out of order at %d: %s before %s", i, sessions[i-1].ID, sessions[i].ID)
		}
	}
}

func TestManager_LastAccessed(t *testing.T) {
	manager := NewManager()
	created, err := manager.Create("seen", createTestConfig(), 1)
	if err != nil {
		t.Fatal(err)
	}

	first, err := manager.LastAccessed("SEEN")
	if err != nil {
		t.Fatalf("LastAccessed failed: %v", err)
	}
	if !first.Equal(created.CreatedAt) {
		t.Errorf("new session access time %s, want %s", first, created.CreatedAt)
	}

	time.Sleep(time.Millisecond)
	manager.UpdateLastAccessed("seen")
	if later, _ := manager.LastAccessed("seen"); !later.After(first) {
		t.Error("Expected access time to move forward")
	}

	if _, err := manager.LastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}
