package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/wricardo/oasis-tiles/game/config"
	"github.com/wricardo/oasis-tiles/game/engine"
	"github.com/wricardo/oasis-tiles/game/service"
	"github.com/wricardo/oasis-tiles/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. When hub is set, input frames sent over
// the WebSocket are routed to the session controller.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	if hub != nil {
		hub.SetInputHandler(s.handleSocketInput)
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Turn operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/draw", s.handleDraw).Methods("POST")
	api.HandleFunc("/sessions/{id}/rotate", s.handleRotate).Methods("POST")
	api.HandleFunc("/sessions/{id}/check", s.handleCheck).Methods("GET")
	api.HandleFunc("/sessions/{id}/place", s.handlePlace).Methods("POST")
	api.HandleFunc("/sessions/{id}/discard", s.handleDiscard).Methods("POST")
	api.HandleFunc("/sessions/{id}/end-turn", s.handleEndTurn).Methods("POST")
	api.HandleFunc("/sessions/{id}/input", s.handleInput).Methods("POST")

	// Board queries
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")
	api.HandleFunc("/sessions/{id}/tiles/{x:-?[0-9]+}/{y:-?[0-9]+}", s.handleTileAt).Methods("GET")
	api.HandleFunc("/sessions/{id}/attach-points", s.handleAttachPoints).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service and engine errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrConfigNotFound),
		errors.Is(err, engine.ErrIDNotFound),
		errors.Is(err, engine.ErrCoordinateNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrOutOfBounds),
		errors.Is(err, engine.ErrInvalidDirection),
		errors.Is(err, engine.ErrInvalidTileID),
		errors.Is(err, engine.ErrInvalidPlayerCount),
		errors.Is(err, config.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrTileInHand),
		errors.Is(err, engine.ErrNoActiveTile),
		errors.Is(err, engine.ErrGameOver),
		errors.Is(err, engine.ErrNoMoreDecks),
		errors.Is(err, engine.ErrTileExists),
		errors.Is(err, engine.ErrTileAlreadyPlaced),
		errors.Is(err, engine.ErrIllegalPlacement),
		errors.Is(err, engine.ErrAmbiguousAttachment):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func (s *Server) broadcast(sessionID string, state *engine.GameState) {
	if s.hub != nil && state != nil {
		s.hub.BroadcastToSession(strings.ToLower(sessionID), state)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	// An empty or missing body means the default tileset for one player.
	req := struct {
		ConfigID string `json:"config_id,omitempty"`
		Players  int    `json:"players,omitempty"`
	}{Players: 1}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	session, err := s.service.CreateSession(r.Context(), req.ConfigID, req.Players)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Turn Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.DrawTile(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.GameState)
	if result.Tile != nil {
		log.Printf("[DRAW] session=%s tile=%d deck=%d oasis=%q", sessionID, result.Tile.ID, result.Tile.Deck, result.Tile.Connections)
	} else {
		log.Printf("[DRAW] session=%s no tiles left", sessionID)
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Direction string `json:"direction"` // "cw" (default) or "ccw"
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	var clockwise bool
	switch strings.ToLower(req.Direction) {
	case "", "cw", "clockwise":
		clockwise = true
	case "ccw", "counterclockwise", "counter-clockwise":
		clockwise = false
	default:
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown rotation %q, use cw or ccw", req.Direction))
		return
	}

	result, err := s.service.RotateTile(r.Context(), sessionID, clockwise)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.GameState)
	respondJSON(w, http.StatusOK, result)
}

// placementArgs reads an anchor tile id and a side
func placementArgs(anchorStr, sideStr string) (engine.TileID, engine.Direction, error) {
	anchor, err := strconv.ParseUint(anchorStr, 10, 64)
	if err != nil || anchor == 0 {
		return 0, 0, fmt.Errorf("%w: anchor %q", engine.ErrInvalidTileID, anchorStr)
	}
	side, err := engine.ParseDirection(sideStr)
	if err != nil {
		return 0, 0, err
	}
	return engine.TileID(anchor), side, nil
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]
	query := r.URL.Query()

	anchor, side, err := placementArgs(query.Get("anchor"), query.Get("side"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	check, err := s.service.CheckPlacement(r.Context(), sessionID, anchor, side)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, check)
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Anchor json.Number `json:"anchor"`
		Side   string      `json:"side"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	anchor, side, err := placementArgs(req.Anchor.String(), req.Side)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.PlaceTile(r.Context(), sessionID, anchor, side)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	status := "FAIL"
	if result.Success {
		status = "OK"
		s.broadcast(sessionID, result.GameState)
	}
	if p := result.Placement; p != nil {
		log.Printf("[PLACE] session=%s tile=%d anchor=%d side=%s at=(%d,%d) player=%s status=%s",
			sessionID, p.TileID, anchor, side, p.Position.X, p.Position.Y, p.Player, status)
	} else {
		log.Printf("[PLACE] session=%s anchor=%d side=%s status=%s", sessionID, anchor, side, status)
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDiscard(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.DiscardTile(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.GameState)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.EndTurn(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.GameState)
	if result.GameState != nil && result.GameState.GameOver {
		log.Printf("[GAME OVER] session=%s turn=%d", sessionID, result.GameState.Turn)
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req websocket.InputMessage
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	for _, ev := range req.Events {
		if _, err := engine.ParseInputKind(string(ev.Kind)); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := s.service.SubmitInput(r.Context(), sessionID, req.Events, time.Duration(req.DtMs)*time.Millisecond)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcast(sessionID, result.GameState)
	respondJSON(w, http.StatusOK, result)
}

// handleSocketInput runs input frames received over the WebSocket
func (s *Server) handleSocketInput(sessionID string, events []engine.InputEvent, dt time.Duration) {
	result, err := s.service.SubmitInput(context.Background(), sessionID, events, dt)
	if err != nil {
		log.Printf("[INPUT] session=%s error=%v", sessionID, err)
		return
	}
	for _, msg := range result.Tick.Errors {
		log.Printf("[INPUT] session=%s %s", sessionID, msg)
	}
	s.broadcast(sessionID, result.GameState)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetPlacementHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

func (s *Server) handleTileAt(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	x, _ := strconv.Atoi(vars["x"])
	y, _ := strconv.Atoi(vars["y"])

	tile, err := s.service.TileAt(r.Context(), vars["id"], x, y)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tile)
}

func (s *Server) handleAttachPoints(w http.ResponseWriter, r *http.Request) {
	points, err := s.service.AttachPoints(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":         len(points),
		"attach_points": points,
	})
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".toml")

	tileset, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tileset)
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var tileset engine.TilesetConfig
	if err := json.NewDecoder(r.Body).Decode(&tileset); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if tileset.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	if err := s.service.SaveConfig(r.Context(), tileset.Name, &tileset); err != nil {
		respondError(w, statusFor(err), fmt.Sprintf("Failed to save config: %v", err))
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": tileset.Name,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}
	if s.hub == nil {
		http.Error(w, "WebSocket updates are disabled", http.StatusServiceUnavailable)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, strings.ToLower(sessionID))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
