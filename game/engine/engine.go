package engine

import (
	"errors"
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state
	GetState() *GameState
	IsGameOver() bool
	CurrentPlayer() PlayerName
	GetConfig() *TilesetConfig

	// Turn operations
	DrawTile() (TileEntity, error)
	RotateActive(clockwise bool) (TileEntity, error)
	EvaluatePlacement(anchor TileID, side Direction) (PlacementCheck, error)
	PlaceActive(anchor TileID, side Direction) (PlacementRecord, error)
	DiscardActive() (TileEntity, error)
	EndTurn() error

	// Queries
	ActiveTile() (TileEntity, bool)
	Tile(id TileID) (TileEntity, error)
	TileAt(x, y int) (TileEntity, error)
	AttachPoints() []AttachPoint
	History() []PlacementRecord
}

// GameEngine implements the Engine interface
type GameEngine struct {
	config  *TilesetConfig
	board   *Board
	decks   *DeckSet
	tiles   []TileEntity // arena; TileID is index+1
	active  TileID
	players []Player
	current int
	turn    int
	history []PlacementRecord
	message string
	over    bool
}

// NewEngine validates config and lays out the starting cross. Decks are drawn
// in file order.
func NewEngine(config *TilesetConfig, players int) (*GameEngine, error) {
	tileset, err := BuildTileset(config)
	if err != nil {
		return nil, err
	}
	seats, err := newPlayers(players)
	if err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:  config,
		board:   NewBoard(),
		decks:   NewDeckSet(tileset.Decks),
		players: seats,
		turn:    1,
	}

	if _, err := e.placeCross(tileset.Center, Center); err != nil {
		return nil, err
	}
	for _, d := range Directions {
		pos := Center
		for i := 0; i < CrossArmLength; i++ {
			pos = pos.Step(d)
			if _, err := e.placeCross(tileset.Arms[d][i], pos); err != nil {
				return nil, err
			}
		}
	}

	e.message = fmt.Sprintf("%s to draw", e.CurrentPlayer())
	return e, nil
}

func (e *GameEngine) newTile(data TileData, deck int) *TileEntity {
	e.tiles = append(e.tiles, TileEntity{
		ID:   TileID(len(e.tiles) + 1),
		Data: data,
		Deck: deck,
	})
	return &e.tiles[len(e.tiles)-1]
}

func (e *GameEngine) placeCross(data TileData, pos Coordinate) (TileID, error) {
	t := e.newTile(data, 0)
	if err := e.board.AddTileAt(t.ID, pos.X, pos.Y); err != nil {
		return EmptyTile, fmt.Errorf("failed to place cross tile: %w", err)
	}
	t.Placed = true
	p := pos
	t.Position = &p
	return t.ID, nil
}

func (e *GameEngine) entity(id TileID) (*TileEntity, error) {
	if id == EmptyTile || int(id) > len(e.tiles) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTileID, id)
	}
	return &e.tiles[id-1], nil
}

func (e *GameEngine) activeEntity() (*TileEntity, error) {
	if e.active == EmptyTile {
		return nil, ErrNoActiveTile
	}
	return e.entity(e.active)
}

// GetConfig returns the tileset the engine was built from
func (e *GameEngine) GetConfig() *TilesetConfig {
	return e.config
}

// IsGameOver returns whether every deck has been played out
func (e *GameEngine) IsGameOver() bool {
	return e.over
}

// CurrentPlayer returns the player whose turn it is
func (e *GameEngine) CurrentPlayer() PlayerName {
	return e.players[e.current].Name
}

// DrawTile takes the next tile from the active deck into the current player's
// hand. An exhausted deck is advanced past automatically.
func (e *GameEngine) DrawTile() (TileEntity, error) {
	if e.over {
		return TileEntity{}, ErrGameOver
	}
	if e.active != EmptyTile {
		return TileEntity{}, ErrTileInHand
	}

	for {
		data, remaining, err := e.decks.Draw()
		if errors.Is(err, ErrDeckExhausted) {
			if err := e.decks.Advance(); err != nil {
				return TileEntity{}, err
			}
			continue
		}
		if errors.Is(err, ErrNoMoreDecks) {
			e.over = true
			e.message = "All decks have been played. Game over!"
			return TileEntity{}, err
		}
		if err != nil {
			return TileEntity{}, err
		}

		t := e.newTile(data, e.decks.ActiveIndex()+1)
		t.Active = true
		e.active = t.ID
		e.message = fmt.Sprintf("%s drew a tile from deck %d (%d left)", e.CurrentPlayer(), t.Deck, remaining)
		return *t, nil
	}
}

// RotateActive turns the held tile a quarter turn
func (e *GameEngine) RotateActive(clockwise bool) (TileEntity, error) {
	t, err := e.activeEntity()
	if err != nil {
		return TileEntity{}, err
	}
	if clockwise {
		t.Data.RotateCW()
	} else {
		t.Data.RotateCCW()
	}
	return *t, nil
}

func (e *GameEngine) layoutOf(id TileID) (OasisLayout, bool) {
	t, err := e.entity(id)
	if err != nil || !t.Placed {
		return 0, false
	}
	return t.Data.OasisLayout, true
}

// EvaluatePlacement checks whether the held tile may go on side `side` of the
// placed tile anchor.
func (e *GameEngine) EvaluatePlacement(anchor TileID, side Direction) (PlacementCheck, error) {
	t, err := e.activeEntity()
	if err != nil {
		return PlacementCheck{}, err
	}
	return e.evaluate(t.Data.OasisLayout, anchor, side)
}

func (e *GameEngine) evaluate(candidate OasisLayout, anchor TileID, side Direction) (PlacementCheck, error) {
	if side > West {
		return PlacementCheck{}, fmt.Errorf("%w: %d", ErrInvalidDirection, side)
	}
	from, err := e.board.Coordinates(anchor)
	if err != nil {
		return PlacementCheck{}, err
	}
	target := from.Step(side)
	if !target.InBounds() {
		return PlacementCheck{}, &OutOfBoundsError{X: target.X, Y: target.Y}
	}
	if id, err := e.board.TileIDAt(target.X, target.Y); err == nil {
		return PlacementCheck{}, &TileExistsError{X: target.X, Y: target.Y, Existing: id}
	}

	around := NeighborhoodAt(e.board, target, e.layoutOf)
	return PlacementCheck{
		Legal:      LegalToPlace(candidate, side, around),
		Anchor:     anchor,
		Side:       side,
		Target:     target,
		Mismatches: EdgeMismatches(candidate, around),
	}, nil
}

// PlaceActive puts the held tile on side `side` of anchor if legal
func (e *GameEngine) PlaceActive(anchor TileID, side Direction) (PlacementRecord, error) {
	t, err := e.activeEntity()
	if err != nil {
		return PlacementRecord{}, err
	}
	check, err := e.evaluate(t.Data.OasisLayout, anchor, side)
	if err != nil {
		return PlacementRecord{}, err
	}
	if !check.Legal {
		return PlacementRecord{}, fmt.Errorf("%w: side %s of tile %d, mismatched edges %v", ErrIllegalPlacement, side, anchor, check.Mismatches)
	}
	if err := e.board.AddTileAt(t.ID, check.Target.X, check.Target.Y); err != nil {
		return PlacementRecord{}, err
	}

	pos := check.Target
	t.Position = &pos
	t.Placed = true
	t.Active = false
	e.active = EmptyTile

	ox, oy := side.PixelOffset()
	record := PlacementRecord{
		TileID:      t.ID,
		Player:      e.CurrentPlayer(),
		Anchor:      anchor,
		Side:        side,
		Position:    pos,
		Offset:      PixelPoint{X: ox, Y: oy},
		Deck:        t.Deck,
		Turn:        e.turn,
		Timestamp:   time.Now().Unix(),
		PlaceNumber: len(e.history) + 1,
	}
	e.history = append(e.history, record)
	e.players[e.current].TilesPlaced++
	e.message = fmt.Sprintf("%s placed tile %d at (%d, %d)", record.Player, t.ID, pos.X, pos.Y)
	return record, nil
}

// DiscardActive drops the held tile without placing it
func (e *GameEngine) DiscardActive() (TileEntity, error) {
	t, err := e.activeEntity()
	if err != nil {
		return TileEntity{}, err
	}
	t.Active = false
	e.active = EmptyTile
	e.message = fmt.Sprintf("%s discarded tile %d", e.CurrentPlayer(), t.ID)
	return *t, nil
}

// EndTurn passes play to the next player. An exhausted active deck is
// advanced; once every deck is done the game is over.
func (e *GameEngine) EndTurn() error {
	if e.over {
		return ErrGameOver
	}
	if e.active != EmptyTile {
		return ErrTileInHand
	}

	if deck := e.decks.Active(); deck != nil && deck.Empty() {
		if err := e.decks.Advance(); err != nil {
			return err
		}
	}
	if e.decks.Finished() {
		e.over = true
		e.message = "All decks have been played. Game over!"
		return nil
	}

	e.current = (e.current + 1) % len(e.players)
	e.turn++
	e.message = fmt.Sprintf("%s to draw", e.CurrentPlayer())
	return nil
}

// ActiveTile returns the held tile, if any
func (e *GameEngine) ActiveTile() (TileEntity, bool) {
	t, err := e.activeEntity()
	if err != nil {
		return TileEntity{}, false
	}
	return *t, true
}

// Tile returns the arena entry for id
func (e *GameEngine) Tile(id TileID) (TileEntity, error) {
	t, err := e.entity(id)
	if err != nil {
		return TileEntity{}, err
	}
	return *t, nil
}

// TileAt returns the tile placed at (x, y)
func (e *GameEngine) TileAt(x, y int) (TileEntity, error) {
	id, err := e.board.TileIDAt(x, y)
	if err != nil {
		return TileEntity{}, err
	}
	return e.Tile(id)
}

// AttachPoints lists every free side of every placed tile, row-major then N, E, S, W
func (e *GameEngine) AttachPoints() []AttachPoint {
	var points []AttachPoint
	for _, p := range e.board.Placed() {
		for _, d := range e.board.OpenSides(p.Position).Directions() {
			points = append(points, AttachPoint{
				Anchor:   p.ID,
				Position: p.Position,
				Side:     d,
				Target:   p.Position.Step(d),
			})
		}
	}
	return points
}

// History returns every confirmed placement in order
func (e *GameEngine) History() []PlacementRecord {
	out := make([]PlacementRecord, len(e.history))
	copy(out, e.history)
	return out
}

// GetState builds a snapshot of the game
func (e *GameEngine) GetState() *GameState {
	state := &GameState{
		ConfigName:     e.config.Name,
		Players:        append([]Player(nil), e.players...),
		CurrentPlayer:  e.CurrentPlayer(),
		Turn:           e.turn,
		TilesRemaining: e.decks.Remaining(),
		AttachPoints:   e.AttachPoints(),
		History:        e.History(),
		Message:        e.message,
		GameOver:       e.over,
	}
	if !e.decks.Finished() {
		state.ActiveDeck = e.decks.ActiveIndex() + 1
	}

	for _, p := range e.board.Placed() {
		if t, err := e.entity(p.ID); err == nil {
			state.Tiles = append(state.Tiles, t.View())
		}
	}
	if t, ok := e.ActiveTile(); ok {
		v := t.View()
		state.ActiveTile = &v
	}
	for i := 0; i < DeckCount; i++ {
		deck, _ := e.decks.Deck(i)
		state.Decks = append(state.Decks, DeckInfo{
			Number:    i + 1,
			Color:     deck.Color(),
			Remaining: deck.Remaining(),
			Active:    i == e.decks.ActiveIndex(),
		})
	}
	return state
}
