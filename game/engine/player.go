package engine

import (
	"fmt"
	"strings"
)

// PlayerName is one of the four player colors, in seating order
type PlayerName uint8

const (
	White PlayerName = iota
	Orange
	Red
	Blue
)

const (
	MinPlayers = 1
	MaxPlayers = 4
)

// Next returns the player seated after p
func (p PlayerName) Next() PlayerName {
	return (p + 1) % MaxPlayers
}

// PlayerFromIndex maps a seat index to a player, wrapping every four
func PlayerFromIndex(i int) PlayerName {
	return PlayerName(((i % MaxPlayers) + MaxPlayers) % MaxPlayers)
}

func (p PlayerName) String() string {
	switch p {
	case White:
		return "White"
	case Orange:
		return "Orange"
	case Red:
		return "Red"
	case Blue:
		return "Blue"
	}
	return fmt.Sprintf("Player(%d)", uint8(p))
}

// Color returns the player's HTML color
func (p PlayerName) Color() string {
	switch p {
	case White:
		return "#ffffff"
	case Orange:
		return "#ff8000"
	case Red:
		return "#ff0000"
	case Blue:
		return "#0000ff"
	}
	return ""
}

// MarshalText implements encoding.TextMarshaler
func (p PlayerName) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(p.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *PlayerName) UnmarshalText(text []byte) error {
	for name := White; name <= Blue; name++ {
		if strings.EqualFold(string(text), name.String()) {
			*p = name
			return nil
		}
	}
	return fmt.Errorf("unknown player %q", text)
}

// Player is a seat in the game
type Player struct {
	Name        PlayerName `json:"name"`
	Color       string     `json:"color"`
	TilesPlaced int        `json:"tiles_placed"`
}

func newPlayers(n int) ([]Player, error) {
	if n < MinPlayers || n > MaxPlayers {
		return nil, fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidPlayerCount, n, MinPlayers, MaxPlayers)
	}
	players := make([]Player, n)
	for i := range players {
		name := PlayerFromIndex(i)
		players[i] = Player{Name: name, Color: name.Color()}
	}
	return players, nil
}
