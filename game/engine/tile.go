package engine

import (
	"fmt"
	"strings"
)

// TileData is the rule-relevant content of a tile: its oasis layout and one
// treasure per edge, indexed by Direction.
type TileData struct {
	IsCross        bool            `json:"is_cross"`
	IsDesert       bool            `json:"is_desert"`
	OasisLayout    OasisLayout     `json:"oasis_layout"`
	TreasureLayout [4]TreasureKind `json:"treasure_layout"`
}

// RotateCW turns the tile a quarter clockwise: connections move N to E and the
// treasure that was on N ends up on E.
func (t *TileData) RotateCW() {
	t.OasisLayout = t.OasisLayout.Rotate(1, true)
	last := t.TreasureLayout[3]
	copy(t.TreasureLayout[1:], t.TreasureLayout[:3])
	t.TreasureLayout[0] = last
}

// RotateCCW is the inverse of RotateCW
func (t *TileData) RotateCCW() {
	t.OasisLayout = t.OasisLayout.Rotate(1, false)
	first := t.TreasureLayout[0]
	copy(t.TreasureLayout[:3], t.TreasureLayout[1:])
	t.TreasureLayout[3] = first
}

// Connects reports whether the tile has an oasis connection on side d
func (t TileData) Connects(d Direction) bool {
	return t.OasisLayout.Connects(d)
}

// Treasure returns the treasure on side d
func (t TileData) Treasure(d Direction) TreasureKind {
	return t.TreasureLayout[d%4]
}

// ShowsDesert reports whether the desert marker is visible. Cross tiles never
// show it, nor do tiles with an oasis connection or any treasure.
func (t TileData) ShowsDesert() bool {
	if !t.IsDesert || t.IsCross || !t.OasisLayout.IsEmpty() {
		return false
	}
	for _, tr := range t.TreasureLayout {
		if !tr.IsNone() {
			return false
		}
	}
	return true
}

// TileDataFromConfig converts one configuration record. The legacy n/e/s/w
// booleans are OR-ed into oasis slot 0.
func TileDataFromConfig(cfg TileConfig, isCross bool) (TileData, error) {
	data := TileData{IsCross: isCross}
	if cfg.IsDesert != nil {
		data.IsDesert = *cfg.IsDesert
	}

	layout, err := ParseOasisLayout(cfg.Oasis)
	if err != nil {
		return TileData{}, err
	}
	legacy := NoDirections
	for _, side := range []struct {
		set *bool
		dir Direction
	}{{cfg.N, North}, {cfg.E, East}, {cfg.S, South}, {cfg.W, West}} {
		if side.set != nil && *side.set {
			legacy |= side.dir.Set()
		}
	}
	data.OasisLayout = layout.WithSlot(0, layout.Slot(0).Union(legacy))

	for _, d := range Directions {
		raw := cfg.treasure(d)
		if raw == nil {
			continue
		}
		kind, err := ParseTreasure(*raw)
		if err != nil {
			return TileData{}, fmt.Errorf("treasure_%s: %w", strings.ToLower(d.String()), err)
		}
		data.TreasureLayout[d] = kind
	}
	return data, nil
}
