// Package session provides session management for Oasis Tiles.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session expiry
//
// Core Types:
//
// Manager is the in-memory session store. Each service.Session it creates
// holds its own engine, built from a tileset and a player count, and a
// controller that drives that engine from queued input.
//
// Session Identifiers:
//
// Generated IDs are 4 lowercase hex characters from crypto/rand. Caller
// supplied IDs are accepted as long as they are URL-safe. Lookups ignore case.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", tileset, 2)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
//	// Drop sessions idle for more than an hour
//	removed := manager.CleanupExpiredSessions(time.Hour)
//
// Sessions are not written to disk; restarting the process ends every game.
package session
