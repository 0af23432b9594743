package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/oasis-tiles/game/engine"
	"github.com/wricardo/oasis-tiles/game/service"
)

// Client exposes the REST API as MCP tools
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient returns a Client whose tools call the API at baseURL
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Oasis Tiles",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Oasis Tiles over MCP. Every tool is forwarded to the game's REST API.

How a turn goes: draw_tile, then rotate_tile until check_placement reports
LEGAL for the side you want, then place_tile. A tile that fits nowhere can be
thrown away with discard_tile. end_turn hands play to the next player. The
map grows outward from the starting cross and the game is over once all five
decks have been played.

Start with create_session, or list_sessions to rejoin one. game_state draws
the board, attach_points lists free sides, describe_cell shows one cell and
placement_history pages through earlier moves. list_configs names the
tilesets; game_instructions has the full rules.`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func placementProperties() map[string]interface{} {
	return map[string]interface{}{
		"session_id": sessionProperty(),
		"anchor": map[string]interface{}{
			"type":        "integer",
			"description": "ID of the placed tile to attach to",
		},
		"side": map[string]interface{}{
			"type":        "string",
			"description": "Side of the anchor tile: N, E, S or W",
			"enum":        []string{"N", "E", "S", "W"},
		},
	}
}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional tileset and player count",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Tileset to use (optional, see list_configs)",
				},
				"players": map[string]interface{}{
					"type":        "integer",
					"description": "Number of players, 1 to 4 (default 1)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board map, the tile in hand, players and deck status",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	// Turn actions
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "draw_tile",
		Description: "Draw the next tile from the active deck into your hand",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleDrawTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "rotate_tile",
		Description: "Rotate the tile in hand a quarter turn",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"description": "cw (clockwise, default) or ccw",
					"enum":        []string{"cw", "ccw"},
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRotateTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "check_placement",
		Description: "Check whether the tile in hand can be attached to a side of a placed tile",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: placementProperties(),
			Required:   []string{"session_id", "anchor", "side"},
		},
	}, c.handleCheckPlacement)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_tile",
		Description: "Attach the tile in hand to a side of a placed tile",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: placementProperties(),
			Required:   []string{"session_id", "anchor", "side"},
		},
	}, c.handlePlaceTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "discard_tile",
		Description: "Discard the tile in hand",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleDiscardTile)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "end_turn",
		Description: "End the current player's turn",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleEndTurn)

	// Board queries
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "attach_points",
		Description: "List every free side of a placed tile where a new tile can be attached",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleAttachPoints)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "placement_history",
		Description: "Get paginated placement history",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default: 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Placements per page (default: 20)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handlePlacementHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Describe the tile at a board cell, including oasis edges and treasures",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell (0-10)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell (0-10, 0 is the bottom row)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)

	// Configuration
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available tilesets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete game rules and tips",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case string:
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	configID, _ := args["config_id"].(string)

	body := map[string]interface{}{}
	if configID != "" {
		body["config_id"] = configID
	}
	if players, ok := intArg(args, "players"); ok {
		body["players"] = players
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nPlayers: %d\n", session.ID, session.ConfigName, session.Players)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Players: %d, Created: %s)\n",
			s.ID, s.ConfigName, s.Players, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) turnAction(ctx context.Context, sessionID, action string, body interface{}) (*mcp.CallToolResult, error) {
	var result service.TurnResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/"+action), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatTurnResult(&result)), nil
}

func (c *Client) handleDrawTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)
	return c.turnAction(ctx, sessionID, "draw", nil)
}

func (c *Client) handleRotateTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	if direction == "" {
		direction = "cw"
	}
	return c.turnAction(ctx, sessionID, "rotate", map[string]string{"direction": direction})
}

func (c *Client) handleCheckPlacement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	anchor, ok := intArg(args, "anchor")
	if !ok {
		return mcp.NewToolResultError("anchor must be a tile ID"), nil
	}
	side, _ := args["side"].(string)

	query := url.Values{}
	query.Set("anchor", fmt.Sprint(anchor))
	query.Set("side", side)

	var check engine.PlacementCheck
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/check?"+query.Encode()), nil, &check); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCheck(&check)), nil
}

func (c *Client) handlePlaceTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	anchor, ok := intArg(args, "anchor")
	if !ok {
		return mcp.NewToolResultError("anchor must be a tile ID"), nil
	}
	side, _ := args["side"].(string)

	body := map[string]interface{}{
		"anchor": anchor,
		"side":   side,
	}
	return c.turnAction(ctx, sessionID, "place", body)
}

func (c *Client) handleDiscardTile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)
	return c.turnAction(ctx, sessionID, "discard", nil)
}

func (c *Client) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)
	return c.turnAction(ctx, sessionID, "end-turn", nil)
}

func (c *Client) handleAttachPoints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := request.GetArguments()["session_id"].(string)

	var response struct {
		Count        int                  `json:"count"`
		AttachPoints []engine.AttachPoint `json:"attach_points"`
	}
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/attach-points"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Attach Points (%d):\n\n", response.Count)
	for _, p := range response.AttachPoints {
		fmt.Fprintf(&b, "- tile %d side %s -> cell (%d,%d)\n", p.Anchor, p.Side, p.Target.X, p.Target.Y)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handlePlacementHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)

	query := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		query.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		query.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, _ := args["session_id"].(string)
	x, okX := intArg(args, "x")
	y, okY := intArg(args, "y")
	if !okX || !okY {
		return mcp.NewToolResultError("x and y must be integers"), nil
	}
	if x < 0 || x >= engine.BoardSize || y < 0 || y >= engine.BoardSize {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. The board is %dx%d (0-%d for both x and y)",
			x, y, engine.BoardSize, engine.BoardSize, engine.BoardSize-1)), nil
	}

	var tile engine.TileView
	err := c.apiCall(ctx, "GET", sessionPath(sessionID, fmt.Sprintf("/tiles/%d/%d", x, y)), nil, &tile)
	if err != nil {
		if strings.Contains(err.Error(), engine.ErrCoordinateNotFound.Error()) {
			return mcp.NewToolResultText(fmt.Sprintf("Cell (%d, %d) is empty.", x, y)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTile(x, y, &tile)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Tilesets:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (id: %s)\n  %s\n  Decks: %d, Tiles: %d, Desert tiles: %d\n\n",
			config.Name, config.ConfigID, config.Description, config.Decks, config.Tiles, config.DesertTiles)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Oasis Tiles - Complete Instructions

SETUP:
The board is an 11x11 grid. A fixed cross of 21 tiles sits in the middle:
the center tile (ID 1) and four arms of five tiles each, numbered outward
North (2-6), East (7-11), South (12-16) and West (17-21).
Coordinates are (x, y) with x growing East and y growing North.

TURN:
1. draw_tile - take the next tile from the active deck
2. rotate_tile - turn it until its oasis edges line up
3. check_placement / place_tile - attach it to a free side of a placed tile
   (or discard_tile if nothing fits)
4. end_turn - the next player takes over

PLACEMENT RULE:
Every tile edge either carries an oasis connection or it does not. The new
tile may be placed only if, on every side where it touches a placed tile,
both tiles agree. An open edge must meet an open edge; a closed edge must
meet a closed edge. Empty neighbors impose nothing.

DECKS:
Five decks of 17 tiles are played in order (yellow, blue, green, orange,
purple). When a deck runs out the next one becomes active. After the last
deck the game is over.

TREASURES:
Edges can carry water, double water, goods (incense, myrrh, salt, gems),
camels or rumors. Treasures rotate with the tile.

GRID LEGEND (game_state map):
• C - cross center
• + - cross arm tile
• 1-5 - tile drawn from that deck
• * - free cell next to a placed tile (attach target)
• . - empty cell`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nPlayers: %d\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Players,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	if state.GameOver {
		result.WriteString("GAME OVER - all decks have been played\n")
	} else {
		fmt.Fprintf(&result, "Turn %d - %s to play\n", state.Turn, state.CurrentPlayer)
	}
	if state.Message != "" {
		fmt.Fprintf(&result, "Message: %s\n", state.Message)
	}

	result.WriteString("\nDecks: ")
	for i, d := range state.Decks {
		if i > 0 {
			result.WriteString(", ")
		}
		marker := ""
		if d.Active {
			marker = "*"
		}
		fmt.Fprintf(&result, "%d%s (%d left)", d.Number, marker, d.Remaining)
	}
	fmt.Fprintf(&result, "\nTiles remaining: %d\n", state.TilesRemaining)

	result.WriteString("\nPlayers:\n")
	for _, p := range state.Players {
		fmt.Fprintf(&result, "- %s: %d tiles placed\n", p.Name, p.TilesPlaced)
	}

	if state.ActiveTile != nil {
		fmt.Fprintf(&result, "\nIn hand: tile %d (deck %d), oasis %s\n",
			state.ActiveTile.ID, state.ActiveTile.Deck, connectionsLabel(state.ActiveTile.Connections))
		result.WriteString(formatTreasures(state.ActiveTile.Treasures))
	} else {
		result.WriteString("\nIn hand: nothing\n")
	}

	fmt.Fprintf(&result, "\nBoard (%d tiles placed, %d attach points):\n", len(state.Tiles), len(state.AttachPoints))
	result.WriteString(formatBoard(state))

	return result.String()
}

// formatBoard draws the board with the North row on top
func formatBoard(state *engine.GameState) string {
	var grid [engine.BoardSize][engine.BoardSize]byte
	for y := range grid {
		for x := range grid[y] {
			grid[y][x] = '.'
		}
	}
	for _, p := range state.AttachPoints {
		if p.Target.InBounds() {
			grid[p.Target.Y][p.Target.X] = '*'
		}
	}
	for _, t := range state.Tiles {
		if t.Position == nil || !t.Position.InBounds() {
			continue
		}
		ch := byte('+')
		switch {
		case t.IsCross && *t.Position == engine.Center:
			ch = 'C'
		case t.Deck > 0:
			ch = byte('0' + t.Deck)
		}
		grid[t.Position.Y][t.Position.X] = ch
	}

	var b strings.Builder
	b.WriteString("   ")
	for x := 0; x < engine.BoardSize; x++ {
		fmt.Fprintf(&b, "%d", x%10)
	}
	b.WriteString("\n")
	for y := engine.BoardSize - 1; y >= 0; y-- {
		fmt.Fprintf(&b, "%2d %s\n", y, string(grid[y][:]))
	}
	return b.String()
}

func connectionsLabel(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func formatTreasures(treasures [4]engine.TreasureKind) string {
	var b strings.Builder
	for d := engine.North; d <= engine.West; d++ {
		if treasures[d].IsNone() {
			continue
		}
		fmt.Fprintf(&b, "  %s edge: %s\n", d, treasures[d].Label())
	}
	return b.String()
}

func formatTurnResult(result *service.TurnResult) string {
	var b strings.Builder

	status := "OK"
	if !result.Success {
		status = "FAILED"
	}
	fmt.Fprintf(&b, "%s: %s\n", status, result.Message)

	if result.Tile != nil {
		fmt.Fprintf(&b, "Tile %d (deck %d), oasis %s\n",
			result.Tile.ID, result.Tile.Deck, connectionsLabel(result.Tile.Connections))
		b.WriteString(formatTreasures(result.Tile.Treasures))
	}
	if result.Check != nil {
		b.WriteString(formatCheck(result.Check))
	}
	if p := result.Placement; p != nil {
		fmt.Fprintf(&b, "Placed tile %d at (%d,%d) for %s\n", p.TileID, p.Position.X, p.Position.Y, p.Player)
	}
	for _, ev := range result.Events {
		if ev.Type == service.EventDeckAdvanced || ev.Type == service.EventGameOver || ev.Type == service.EventTurnEnded {
			fmt.Fprintf(&b, "[%s] %s\n", ev.Type, ev.Message)
		}
	}

	if result.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(result.GameState))
	}
	return b.String()
}

func formatCheck(check *engine.PlacementCheck) string {
	if check.Legal {
		return fmt.Sprintf("Placement next to tile %d (%s) at (%d,%d) is LEGAL\n",
			check.Anchor, check.Side, check.Target.X, check.Target.Y)
	}
	sides := make([]string, len(check.Mismatches))
	for i, d := range check.Mismatches {
		sides[i] = d.String()
	}
	return fmt.Sprintf("Placement next to tile %d (%s) at (%d,%d) is ILLEGAL, edges disagree on: %s\n",
		check.Anchor, check.Side, check.Target.X, check.Target.Y, strings.Join(sides, ", "))
}

func formatTile(x, y int, tile *engine.TileView) string {
	kind := "Deck tile"
	if tile.IsCross {
		kind = "Cross tile"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Cell (%d, %d):\n", x, y)
	fmt.Fprintf(&b, "Tile: %d\nKind: %s\n", tile.ID, kind)
	if tile.Deck > 0 {
		fmt.Fprintf(&b, "Deck: %d\n", tile.Deck)
	}
	fmt.Fprintf(&b, "Oasis connections: %s\n", connectionsLabel(tile.Connections))
	if len(tile.Oasis) > 0 {
		fmt.Fprintf(&b, "Oasis groups: %s\n", strings.Join(tile.Oasis, "; "))
	}
	fmt.Fprintf(&b, "Desert: %v\n", tile.ShowsDesert)
	if treasures := formatTreasures(tile.Treasures); treasures != "" {
		b.WriteString("Treasures:\n")
		b.WriteString(treasures)
	}
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Placement History (Page %d/%d), Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalPlacements)

	for _, p := range history.Placements {
		result += fmt.Sprintf("%d. tile %d by %s: tile %d side %s -> (%d,%d) [deck %d, turn %d]\n",
			p.PlaceNumber, p.TileID, p.Player, p.Anchor, p.Side, p.Position.X, p.Position.Y, p.Deck, p.Turn)
	}

	return result
}
