package engine

import (
	"fmt"
	"strings"
)

// Direction is one of the four cardinal sides of a tile
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every direction in bit-packing order
var Directions = [4]Direction{North, East, South, West}

// Invert returns the opposite side
func (d Direction) Invert() Direction {
	return (d + 2) % 4
}

// Set returns the singleton DirectionSet containing d
func (d Direction) Set() DirectionSet {
	return DirectionSet(1 << (d % 4))
}

// Offset returns the board coordinate delta for a step in direction d.
// Board y grows northward.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case East:
		return 1, 0
	case South:
		return 0, -1
	case West:
		return -1, 0
	}
	return 0, 0
}

// PixelOffset returns the engine-space translation applied when a tile is
// attached on side d of its anchor. Screen y grows downward.
func (d Direction) PixelOffset() (x, y int) {
	dx, dy := d.Offset()
	return dx * TilePixelSize, -dy * TilePixelSize
}

func (d Direction) String() string {
	switch d {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	if d > West {
		return nil, fmt.Errorf("invalid direction %d", uint8(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection accepts single-letter or full direction names, any case
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, nil
	case "e", "east":
		return East, nil
	case "s", "south":
		return South, nil
	case "w", "west":
		return West, nil
	}
	return North, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}
