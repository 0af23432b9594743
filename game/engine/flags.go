package engine

import (
	"fmt"
	"strings"
)

// DirectionSet packs up to four directions into the low nibble; bit i is Directions[i]
type DirectionSet uint8

const (
	NoDirections  DirectionSet = 0
	AllDirections DirectionSet = 0b1111
)

// NewDirectionSet ORs the given directions together
func NewDirectionSet(dirs ...Direction) DirectionSet {
	var s DirectionSet
	for _, d := range dirs {
		s |= d.Set()
	}
	return s
}

// Union returns the directions present in either set
func (s DirectionSet) Union(other DirectionSet) DirectionSet {
	return (s | other) & AllDirections
}

// Complement returns the directions missing from s
func (s DirectionSet) Complement() DirectionSet {
	return ^s & AllDirections
}

// Contains reports whether d is in the set
func (s DirectionSet) Contains(d Direction) bool {
	return s&d.Set() != 0
}

// IsEmpty reports whether no direction is set
func (s DirectionSet) IsEmpty() bool {
	return s&AllDirections == 0
}

// Rotate cyclically rotates the 4-bit pattern. A clockwise step moves N to E,
// E to S, S to W and W to N.
func (s DirectionSet) Rotate(amount int, clockwise bool) DirectionSet {
	k := ((amount % 4) + 4) % 4
	if !clockwise {
		k = (4 - k) % 4
	}
	bits := s & AllDirections
	return ((bits << k) | (bits >> (4 - k))) & AllDirections
}

// Directions returns the members of the set in N, E, S, W order
func (s DirectionSet) Directions() []Direction {
	dirs := make([]Direction, 0, 4)
	for _, d := range Directions {
		if s.Contains(d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// String renders the set as "N | E"; the empty set renders as ""
func (s DirectionSet) String() string {
	dirs := s.Directions()
	names := make([]string, len(dirs))
	for i, d := range dirs {
		names[i] = d.String()
	}
	return strings.Join(names, " | ")
}

// ParseDirectionSet parses a "|" separated direction list such as "E | S"
func ParseDirectionSet(s string) (DirectionSet, error) {
	var set DirectionSet
	if strings.TrimSpace(s) == "" {
		return set, nil
	}
	for _, part := range strings.Split(s, "|") {
		d, err := ParseDirection(part)
		if err != nil {
			return NoDirections, err
		}
		set |= d.Set()
	}
	return set, nil
}

// OasisSlots is the number of independent oasis regions a tile can encode
const OasisSlots = 4

// OasisLayout packs one DirectionSet per oasis slot, four bits each, slot 0 in
// the low nibble.
type OasisLayout uint16

// NewOasisLayout builds a layout from up to four slot sets; extra sets are ignored
func NewOasisLayout(slots ...DirectionSet) OasisLayout {
	var l OasisLayout
	for i, s := range slots {
		if i >= OasisSlots {
			break
		}
		l = l.WithSlot(i, s)
	}
	return l
}

// Slot returns the direction set stored in slot i
func (l OasisLayout) Slot(i int) DirectionSet {
	if i < 0 || i >= OasisSlots {
		return NoDirections
	}
	return DirectionSet(l>>(4*i)) & AllDirections
}

// WithSlot returns a copy of l with slot i replaced by s
func (l OasisLayout) WithSlot(i int, s DirectionSet) OasisLayout {
	if i < 0 || i >= OasisSlots {
		return l
	}
	shift := uint(4 * i)
	cleared := l &^ (OasisLayout(AllDirections) << shift)
	return cleared | OasisLayout(s&AllDirections)<<shift
}

// Rotate rotates every slot independently within its own nibble
func (l OasisLayout) Rotate(amount int, clockwise bool) OasisLayout {
	var out OasisLayout
	for i := 0; i < OasisSlots; i++ {
		out = out.WithSlot(i, l.Slot(i).Rotate(amount, clockwise))
	}
	return out
}

// Connections returns the union of all slots: every side with an oasis connection
func (l OasisLayout) Connections() DirectionSet {
	var s DirectionSet
	for i := 0; i < OasisSlots; i++ {
		s |= l.Slot(i)
	}
	return s
}

// Connects reports whether any slot has a connection on side d
func (l OasisLayout) Connects(d Direction) bool {
	return l.Connections().Contains(d)
}

// IsEmpty reports whether the layout has no connections at all
func (l OasisLayout) IsEmpty() bool {
	return l == 0
}

// Slots returns the slot sets up to the last non-empty one
func (l OasisLayout) Slots() []DirectionSet {
	last := -1
	for i := 0; i < OasisSlots; i++ {
		if !l.Slot(i).IsEmpty() {
			last = i
		}
	}
	slots := make([]DirectionSet, last+1)
	for i := range slots {
		slots[i] = l.Slot(i)
	}
	return slots
}

// Strings renders the layout in the configuration form, one string per slot
func (l OasisLayout) Strings() []string {
	slots := l.Slots()
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.String()
	}
	return out
}

func (l OasisLayout) String() string {
	return "[" + strings.Join(l.Strings(), ", ") + "]"
}

// ParseOasisLayout parses the configuration form where entry i describes slot i
func ParseOasisLayout(entries []string) (OasisLayout, error) {
	if len(entries) > OasisSlots {
		return 0, fmt.Errorf("%w: %d oasis entries, at most %d allowed", ErrInvalidOasis, len(entries), OasisSlots)
	}
	var l OasisLayout
	for i, entry := range entries {
		s, err := ParseDirectionSet(entry)
		if err != nil {
			return 0, fmt.Errorf("%w: entry %d: %v", ErrInvalidOasis, i, err)
		}
		l = l.WithSlot(i, s)
	}
	return l, nil
}
