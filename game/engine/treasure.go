package engine

import (
	"fmt"
	"strings"
)

// TreasureType is the top-level treasure category printed on a tile edge
type TreasureType uint8

const (
	NoTreasure TreasureType = iota
	Water
	DoubleWater
	Goods
	Camels
	Rumors
)

// Good is the trade good carried by a Goods treasure
type Good uint8

const (
	NoGood Good = iota
	Incense
	Myrrh
	Salt
	Gems
)

var goodNames = map[Good]string{
	Incense: "incense",
	Myrrh:   "myrrh",
	Salt:    "salt",
	Gems:    "gems",
}

var goodLabels = map[Good]string{
	Incense: "Incense",
	Myrrh:   "Myrrh",
	Salt:    "Salt",
	Gems:    "Gems",
}

// TreasureKind is a closed treasure variant. The zero value is no treasure.
// Good is only meaningful when Type is Goods.
type TreasureKind struct {
	Type TreasureType
	Good Good
}

var (
	NoneTreasure        = TreasureKind{}
	WaterTreasure       = TreasureKind{Type: Water}
	DoubleWaterTreasure = TreasureKind{Type: DoubleWater}
	CamelsTreasure      = TreasureKind{Type: Camels}
	RumorsTreasure      = TreasureKind{Type: Rumors}
)

// GoodsTreasure returns the Goods treasure for g
func GoodsTreasure(g Good) TreasureKind {
	return TreasureKind{Type: Goods, Good: g}
}

// IsNone reports whether the edge carries no treasure
func (t TreasureKind) IsNone() bool {
	return t.Type == NoTreasure
}

// ParseTreasure parses the configuration treasure syntax, case-insensitively:
// "water", "double_water", "goods:<good>", "camels", "rumors", "none" or "".
func ParseTreasure(s string) (TreasureKind, error) {
	tokens := strings.Split(strings.ToLower(strings.TrimSpace(s)), ":")
	if len(tokens) > 2 {
		return NoneTreasure, &ArgumentCountError{Expected: "1 to 2", Received: len(tokens)}
	}

	switch tokens[0] {
	case "", "none":
		return NoneTreasure, nil
	case "water":
		return WaterTreasure, nil
	case "double_water":
		return DoubleWaterTreasure, nil
	case "camels":
		return CamelsTreasure, nil
	case "rumors":
		return RumorsTreasure, nil
	case "goods":
		if len(tokens) < 2 {
			return NoneTreasure, &ArgumentCountError{Expected: "2", Received: 1}
		}
		g, err := parseGood(tokens[1])
		if err != nil {
			return NoneTreasure, err
		}
		return GoodsTreasure(g), nil
	}
	return NoneTreasure, &UnknownTreasureError{Token: tokens[0]}
}

func parseGood(token string) (Good, error) {
	for g, name := range goodNames {
		if name == token {
			return g, nil
		}
	}
	return NoGood, &UnknownGoodError{Token: token}
}

// String returns the configuration form, the inverse of ParseTreasure
func (t TreasureKind) String() string {
	switch t.Type {
	case Water:
		return "water"
	case DoubleWater:
		return "double_water"
	case Goods:
		return "goods:" + goodNames[t.Good]
	case Camels:
		return "camels"
	case Rumors:
		return "rumors"
	}
	return "none"
}

// Label returns a human readable name
func (t TreasureKind) Label() string {
	switch t.Type {
	case Water:
		return "Water"
	case DoubleWater:
		return "Water x2"
	case Goods:
		if l, ok := goodLabels[t.Good]; ok {
			return l
		}
		return "Goods"
	case Camels:
		return "Camels"
	case Rumors:
		return "Rumors"
	}
	return "No treasure"
}

// MarshalText implements encoding.TextMarshaler
func (t TreasureKind) MarshalText() ([]byte, error) {
	if t.Type == Goods {
		if _, ok := goodNames[t.Good]; !ok {
			return nil, fmt.Errorf("goods treasure without a valid good (%d)", t.Good)
		}
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *TreasureKind) UnmarshalText(text []byte) error {
	parsed, err := ParseTreasure(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
