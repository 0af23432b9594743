package engine

import "fmt"

const (
	// DeckSize is the number of tiles in each deck
	DeckSize = 17
	// DeckCount is the number of decks in a tileset
	DeckCount = 5
)

// DeckColors holds the display color of each deck, by deck index
var DeckColors = [DeckCount]string{"#fee17c", "#b3d7ed", "#99d761", "#f89b49", "#c97db4"}

// TileDeck is an ordered stack of tiles drawn front to back
type TileDeck struct {
	Index  int
	tiles  [DeckSize]TileData
	cursor int
}

// NewTileDeck wraps the tiles of one deck
func NewTileDeck(index int, tiles [DeckSize]TileData) *TileDeck {
	return &TileDeck{Index: index, tiles: tiles}
}

// DrawNext returns the tile under the cursor and the number of tiles left
// after it. ok is false once the deck is empty; the cursor then stays put.
func (d *TileDeck) DrawNext() (tile TileData, remaining uint8, ok bool) {
	if d.cursor >= DeckSize {
		return TileData{}, 0, false
	}
	tile = d.tiles[d.cursor]
	d.cursor++
	return tile, uint8(DeckSize - d.cursor), true
}

// Remaining returns how many tiles are still in the deck
func (d *TileDeck) Remaining() int {
	return DeckSize - d.cursor
}

// Empty reports whether every tile has been drawn
func (d *TileDeck) Empty() bool {
	return d.cursor >= DeckSize
}

// Color returns the deck's display color
func (d *TileDeck) Color() string {
	if d.Index < 0 || d.Index >= DeckCount {
		return ""
	}
	return DeckColors[d.Index]
}

// DeckSet sequences the five decks. Once the last deck is advanced past the
// set is finished and Active returns nil.
type DeckSet struct {
	decks  [DeckCount]*TileDeck
	active int
}

// NewDeckSet builds the decks from the five configured tile lists
func NewDeckSet(decks [DeckCount][DeckSize]TileData) *DeckSet {
	s := &DeckSet{}
	for i := range decks {
		s.decks[i] = NewTileDeck(i, decks[i])
	}
	return s
}

// ActiveIndex returns the active deck index; DeckCount means finished
func (s *DeckSet) ActiveIndex() int {
	return s.active
}

// Active returns the active deck or nil once finished
func (s *DeckSet) Active() *TileDeck {
	if s.Finished() {
		return nil
	}
	return s.decks[s.active]
}

// Deck returns the deck at index i
func (s *DeckSet) Deck(i int) (*TileDeck, error) {
	if i < 0 || i >= DeckCount {
		return nil, fmt.Errorf("deck index %d out of range", i)
	}
	return s.decks[i], nil
}

// Finished reports whether every deck has been advanced past
func (s *DeckSet) Finished() bool {
	return s.active >= DeckCount
}

// Advance makes the next deck active. After the last deck the set enters its
// terminal state and further calls return ErrNoMoreDecks.
func (s *DeckSet) Advance() error {
	if s.Finished() {
		return ErrNoMoreDecks
	}
	s.active++
	return nil
}

// Draw takes the next tile from the active deck
func (s *DeckSet) Draw() (TileData, uint8, error) {
	deck := s.Active()
	if deck == nil {
		return TileData{}, 0, ErrNoMoreDecks
	}
	tile, remaining, ok := deck.DrawNext()
	if !ok {
		return TileData{}, 0, fmt.Errorf("%w: deck %d", ErrDeckExhausted, deck.Index+1)
	}
	return tile, remaining, nil
}

// Remaining returns the tiles left across the active and later decks
func (s *DeckSet) Remaining() int {
	total := 0
	for i := s.active; i < DeckCount; i++ {
		total += s.decks[i].Remaining()
	}
	return total
}
