// Package api provides HTTP REST API handlers for Oasis Tiles.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session: {"config_id": "classic", "players": 2}
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get one session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Turn Operations:
//   - GET /api/sessions/{id}/state - Full game state
//   - POST /api/sessions/{id}/draw - Draw from the active deck
//   - POST /api/sessions/{id}/rotate - Rotate the held tile: {"direction": "cw"|"ccw"}
//   - GET /api/sessions/{id}/check?anchor=2&side=E - Evaluate a placement
//   - POST /api/sessions/{id}/place - Place the held tile: {"anchor": 2, "side": "E"}
//   - POST /api/sessions/{id}/discard - Drop the held tile
//   - POST /api/sessions/{id}/end-turn - Pass to the next player
//   - POST /api/sessions/{id}/input - One controller frame: {"events": [...], "dt_ms": 16}
//
// Board Queries:
//   - GET /api/sessions/{id}/history - Placement history (?page=&limit=&order=)
//   - GET /api/sessions/{id}/tiles/{x}/{y} - Tile at a board cell
//   - GET /api/sessions/{id}/attach-points - Free sides of placed tiles
//
// Configuration:
//   - GET /api/configs - List tilesets
//   - GET /api/configs/{name} - Get a tileset
//   - POST /api/configs - Save a tileset (JSON body, stored as TOML)
//
// WebSocket:
//   - GET /ws?session={id} - State updates after every change; accepts input frames
//
// Error Handling:
//
// Errors are returned as JSON: {"error": "message"}. Unknown sessions, tiles
// and tilesets map to 404, malformed arguments to 400, and moves the rules
// do not allow (drawing with a tile in hand, placing onto an occupied cell)
// to 409. A placement whose edges do not match is not an error: the response
// has success=false and carries the failed check.
package api
