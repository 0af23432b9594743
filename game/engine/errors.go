package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidOasis     = errors.New("invalid oasis layout")
	ErrInvalidTileset   = errors.New("invalid tileset")

	ErrArgumentCount   = errors.New("wrong number of treasure arguments")
	ErrUnknownTreasure = errors.New("unknown treasure")
	ErrUnknownGood     = errors.New("unknown goods")

	ErrTileExists         = errors.New("tile already exists at coordinate")
	ErrCoordinateNotFound = errors.New("no tile at coordinate")
	ErrIDNotFound         = errors.New("tile id not on board")
	ErrOutOfBounds        = errors.New("coordinate out of bounds")
	ErrInvalidTileID      = errors.New("invalid tile id")
	ErrTileAlreadyPlaced  = errors.New("tile already placed")

	ErrNoMoreDecks   = errors.New("no more decks")
	ErrDeckExhausted = errors.New("deck exhausted")

	ErrTileInHand          = errors.New("a tile is already in hand")
	ErrNoActiveTile        = errors.New("no active tile")
	ErrAmbiguousAttachment = errors.New("ambiguous attachment point")
	ErrIllegalPlacement    = errors.New("illegal placement")
	ErrGameOver            = errors.New("game is over")
	ErrInvalidPlayerCount  = errors.New("invalid player count")
)

// ArgumentCountError reports a treasure string with the wrong number of
// colon-separated tokens
type ArgumentCountError struct {
	Expected string
	Received int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("expected %s arguments, received %d", e.Expected, e.Received)
}

func (e *ArgumentCountError) Is(target error) bool { return target == ErrArgumentCount }

// UnknownTreasureError reports an unrecognized treasure kind token
type UnknownTreasureError struct {
	Token string
}

func (e *UnknownTreasureError) Error() string {
	return fmt.Sprintf("unknown treasure %q", e.Token)
}

func (e *UnknownTreasureError) Is(target error) bool { return target == ErrUnknownTreasure }

// UnknownGoodError reports an unrecognized goods token after "goods:"
type UnknownGoodError struct {
	Token string
}

func (e *UnknownGoodError) Error() string {
	return fmt.Sprintf("unknown goods %q", e.Token)
}

func (e *UnknownGoodError) Is(target error) bool { return target == ErrUnknownGood }

// TileExistsError is returned when adding a tile to an occupied cell
type TileExistsError struct {
	X, Y     int
	Existing TileID
}

func (e *TileExistsError) Error() string {
	return fmt.Sprintf("tile %d already exists at (%d, %d)", e.Existing, e.X, e.Y)
}

func (e *TileExistsError) Is(target error) bool { return target == ErrTileExists }

// CoordinateNotFoundError is returned when querying an empty cell
type CoordinateNotFoundError struct {
	X, Y int
}

func (e *CoordinateNotFoundError) Error() string {
	return fmt.Sprintf("no tile at (%d, %d)", e.X, e.Y)
}

func (e *CoordinateNotFoundError) Is(target error) bool { return target == ErrCoordinateNotFound }

// IDNotFoundError is returned when a tile id has no recorded coordinate
type IDNotFoundError struct {
	ID TileID
}

func (e *IDNotFoundError) Error() string {
	return fmt.Sprintf("tile %d is not on the board", e.ID)
}

func (e *IDNotFoundError) Is(target error) bool { return target == ErrIDNotFound }

// OutOfBoundsError is returned for coordinates outside the board
type OutOfBoundsError struct {
	X, Y int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("coordinate (%d, %d) is outside the %dx%d board", e.X, e.Y, BoardSize, BoardSize)
}

func (e *OutOfBoundsError) Is(target error) bool { return target == ErrOutOfBounds }
