// Package service provides the business logic layer for Oasis Tiles.
//
// The service package implements:
//   - Multi-session game management
//   - Tileset loading through a ConfigManager
//   - Turn operations: draw, rotate, check, place, discard and end turn
//   - Frame-driven input through each session's controller
//   - Placement history paging
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages tileset loading and validation.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and the
// engine. Every session owns an engine and a controller over that engine. The
// service holds one lock, so calls against a session are serialized.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic", 2)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.DrawTile(ctx, info.ID)
//	result, err = gameService.PlaceTile(ctx, info.ID, 2, engine.East)
//
// Results carry GameEvents (draw, rotate, place, discard, deck_advanced,
// turn_ended, game_over, input) so transports can report what changed.
package service
