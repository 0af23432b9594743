package engine

import "fmt"

const (
	// BoardSize is the width and height of the board in cells
	BoardSize = 11
	// BoardCenter is the x and y index of the cross center
	BoardCenter = 5
	// CrossArmLength is the number of tiles in each cross arm
	CrossArmLength = 5
)

// TileID identifies a tile in the engine arena. Zero means "no tile".
type TileID uint64

// EmptyTile is the board sentinel for an unoccupied cell
const EmptyTile TileID = 0

// Coordinate is a board cell; x grows east and y grows north
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the coordinate one cell away in direction d. The result may
// be out of bounds.
func (c Coordinate) Step(d Direction) Coordinate {
	dx, dy := d.Offset()
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

// InBounds reports whether the coordinate lies on the board
func (c Coordinate) InBounds() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

// Center is the cross center coordinate
var Center = Coordinate{X: BoardCenter, Y: BoardCenter}

// PlacedTile pairs a tile id with its board cell
type PlacedTile struct {
	ID       TileID     `json:"id"`
	Position Coordinate `json:"position"`
}

// Board is the fixed-size grid of placed tile ids plus the inverse lookup
type Board struct {
	cells  [BoardSize][BoardSize]TileID
	coords map[TileID]Coordinate
}

// NewBoard returns an empty board
func NewBoard() *Board {
	return &Board{coords: make(map[TileID]Coordinate)}
}

// AddTileAt places id at (x, y). An occupied cell is never overwritten.
func (b *Board) AddTileAt(id TileID, x, y int) error {
	c := Coordinate{X: x, Y: y}
	if !c.InBounds() {
		return &OutOfBoundsError{X: x, Y: y}
	}
	if id == EmptyTile {
		return ErrInvalidTileID
	}
	if existing := b.cells[x][y]; existing != EmptyTile {
		return &TileExistsError{X: x, Y: y, Existing: existing}
	}
	if at, ok := b.coords[id]; ok {
		return fmt.Errorf("%w: tile %d is at (%d, %d)", ErrTileAlreadyPlaced, id, at.X, at.Y)
	}
	b.cells[x][y] = id
	b.coords[id] = c
	return nil
}

// TileIDAt returns the id at (x, y)
func (b *Board) TileIDAt(x, y int) (TileID, error) {
	if !(Coordinate{X: x, Y: y}).InBounds() {
		return EmptyTile, &OutOfBoundsError{X: x, Y: y}
	}
	id := b.cells[x][y]
	if id == EmptyTile {
		return EmptyTile, &CoordinateNotFoundError{X: x, Y: y}
	}
	return id, nil
}

// Coordinates returns where id was placed
func (b *Board) Coordinates(id TileID) (Coordinate, error) {
	c, ok := b.coords[id]
	if !ok {
		return Coordinate{}, &IDNotFoundError{ID: id}
	}
	return c, nil
}

// Occupied reports whether an in-bounds cell holds a tile
func (b *Board) Occupied(c Coordinate) bool {
	return c.InBounds() && b.cells[c.X][c.Y] != EmptyTile
}

// Neighbor returns the id adjacent to c on side d, or EmptyTile
func (b *Board) Neighbor(c Coordinate, d Direction) TileID {
	n := c.Step(d)
	if !n.InBounds() {
		return EmptyTile
	}
	return b.cells[n.X][n.Y]
}

// OpenSides lists the sides of c whose adjacent cell is on the board and empty
func (b *Board) OpenSides(c Coordinate) DirectionSet {
	var open DirectionSet
	for _, d := range Directions {
		n := c.Step(d)
		if n.InBounds() && !b.Occupied(n) {
			open |= d.Set()
		}
	}
	return open
}

// Placed returns every placed tile, scanning rows from y=0 then x
func (b *Board) Placed() []PlacedTile {
	placed := make([]PlacedTile, 0, len(b.coords))
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if id := b.cells[x][y]; id != EmptyTile {
				placed = append(placed, PlacedTile{ID: id, Position: Coordinate{X: x, Y: y}})
			}
		}
	}
	return placed
}

// Count returns the number of placed tiles
func (b *Board) Count() int {
	return len(b.coords)
}
