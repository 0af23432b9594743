// Package engine provides the core rules for the Oasis Tiles board game.
//
// The engine package implements the game mechanics including:
//   - Direction sets and per-slot oasis layouts packed into bit fields
//   - Tile data, rotation and treasure parsing
//   - The 11x11 board registry and the placement legality check
//   - Deck sequencing across the five tile decks
//   - Tileset configuration loading and validation (TOML)
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState is a snapshot of the game, while
// TilesetConfig describes the starting cross and the five decks.
// Controller turns queued front-end input into engine calls once per tick.
//
// Usage:
//
//	config, err := engine.LoadConfigFromDir("configs", "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config, 2)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	tile, err := gameEngine.DrawTile()
//	check, err := gameEngine.EvaluatePlacement(anchorID, engine.East)
//	if check.Legal {
//		gameEngine.PlaceActive(anchorID, engine.East)
//	}
//
// Game Rules:
//
// Play starts from a fixed cross of 21 tiles in the middle of the board.
// On their turn a player draws a tile from the active deck, rotates it and
// attaches it next to a placed tile. A placement is legal when, on every
// shared edge, the new tile and its neighbor agree on whether an oasis
// connection crosses that edge. The game ends when all five decks are played.
package engine
