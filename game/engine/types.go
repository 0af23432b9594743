package engine

import "time"

const (
	// TilePixelSize is the on-screen edge length of a placed tile
	TilePixelSize = 50

	// RotateThrottleWindow is the minimum gap between two rotations
	RotateThrottleWindow = 256 * time.Millisecond

	WebSocketBufferSize = 256
)

// PixelPoint is an engine-space position, y growing downward
type PixelPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PixelPosition returns the engine-space position of a board cell relative to
// the cross center.
func PixelPosition(c Coordinate) PixelPoint {
	return PixelPoint{
		X: (c.X - BoardCenter) * TilePixelSize,
		Y: -(c.Y - BoardCenter) * TilePixelSize,
	}
}

// TileEntity is a tile instance owned by the engine arena
type TileEntity struct {
	ID       TileID      `json:"id"`
	Data     TileData    `json:"data"`
	Deck     int         `json:"deck"` // 1-based deck number, 0 for cross tiles
	Active   bool        `json:"active"`
	Placed   bool        `json:"placed"`
	Position *Coordinate `json:"position,omitempty"`
}

// TileView is the JSON-friendly rendering of a tile
type TileView struct {
	ID          TileID          `json:"id"`
	Position    *Coordinate     `json:"position,omitempty"`
	Pixel       *PixelPoint     `json:"pixel,omitempty"`
	Deck        int             `json:"deck"`
	IsCross     bool            `json:"is_cross"`
	IsDesert    bool            `json:"is_desert"`
	ShowsDesert bool            `json:"shows_desert"`
	Oasis       []string        `json:"oasis"`
	Connections string          `json:"connections"`
	Treasures   [4]TreasureKind `json:"treasures"`
}

// View converts the entity for display
func (t TileEntity) View() TileView {
	v := TileView{
		ID:          t.ID,
		Deck:        t.Deck,
		IsCross:     t.Data.IsCross,
		IsDesert:    t.Data.IsDesert,
		ShowsDesert: t.Data.ShowsDesert(),
		Oasis:       t.Data.OasisLayout.Strings(),
		Connections: t.Data.OasisLayout.Connections().String(),
		Treasures:   t.Data.TreasureLayout,
	}
	if t.Position != nil {
		pos := *t.Position
		px := PixelPosition(pos)
		v.Position = &pos
		v.Pixel = &px
	}
	return v
}

// AttachPoint is a side of a placed tile whose neighboring cell is free
type AttachPoint struct {
	Anchor   TileID     `json:"anchor"`
	Position Coordinate `json:"position"`
	Side     Direction  `json:"side"`
	Target   Coordinate `json:"target"`
}

// PlacementCheck is the verdict for putting the active tile next to an anchor
type PlacementCheck struct {
	Legal      bool        `json:"legal"`
	Anchor     TileID      `json:"anchor"`
	Side       Direction   `json:"side"`
	Target     Coordinate  `json:"target"`
	Mismatches []Direction `json:"mismatches,omitempty"`
}

// PlacementRecord is one confirmed placement
type PlacementRecord struct {
	TileID      TileID     `json:"tile_id"`
	Player      PlayerName `json:"player"`
	Anchor      TileID     `json:"anchor"`
	Side        Direction  `json:"side"`
	Position    Coordinate `json:"position"`
	Offset      PixelPoint `json:"offset"`
	Deck        int        `json:"deck"`
	Turn        int        `json:"turn"`
	Timestamp   int64      `json:"timestamp"`
	PlaceNumber int        `json:"place_number"`
}

// DeckInfo summarizes one deck
type DeckInfo struct {
	Number    int    `json:"number"`
	Color     string `json:"color"`
	Remaining int    `json:"remaining"`
	Active    bool   `json:"active"`
}

// GameState is a snapshot of the whole game
type GameState struct {
	ConfigName     string            `json:"config_name"`
	Tiles          []TileView        `json:"tiles"`
	ActiveTile     *TileView         `json:"active_tile,omitempty"`
	Players        []Player          `json:"players"`
	CurrentPlayer  PlayerName        `json:"current_player"`
	Turn           int               `json:"turn"`
	ActiveDeck     int               `json:"active_deck"` // 1-based, 0 once all decks are done
	Decks          []DeckInfo        `json:"decks"`
	TilesRemaining int               `json:"tiles_remaining"`
	AttachPoints   []AttachPoint     `json:"attach_points"`
	History        []PlacementRecord `json:"history"`
	Message        string            `json:"message"`
	GameOver       bool              `json:"game_over"`
}
