// Package mcp exposes Oasis Tiles to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API and the JSON response is rendered as text that an
// agent can read, including an ASCII map of the board.
//
// MCP Tools:
//
//   - create_session, list_sessions, get_session: session management
//   - game_state: board map, tile in hand, players and decks
//   - draw_tile, rotate_tile, check_placement, place_tile, discard_tile, end_turn: turn actions
//   - attach_points, placement_history, describe_cell: board queries
//   - list_configs, game_instructions: tilesets and rules
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
