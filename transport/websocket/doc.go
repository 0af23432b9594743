// Package websocket provides the WebSocket transport for Oasis Tiles.
//
// A central Hub tracks connected clients per session and pushes a
// "state_update" message with the full GameState after every change.
// Clients may also send input frames, which the hub forwards to an
// InputHandler:
//
//	{"events": [{"kind": "hover_enter", "handle": 3}, {"kind": "confirm"}], "dt_ms": 16}
//
// Event kinds are rotate_cw, rotate_ccw, hover_enter, hover_exit and
// confirm. Handles index the attach points reported in the game state.
//
// Usage:
//
//	hub := websocket.NewHub()
//	hub.SetInputHandler(func(id string, events []engine.InputEvent, dt time.Duration) {
//		// run one controller tick
//	})
//	go hub.Run()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
package websocket
