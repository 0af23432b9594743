package engine

// Neighbor is the oasis layout of an adjacent tile, if one is there
type Neighbor struct {
	Layout  OasisLayout
	Present bool
}

// Neighborhood holds the four neighbors of a candidate cell, indexed by the
// direction from the candidate toward the neighbor.
type Neighborhood [4]Neighbor

// NeighborhoodAt reads the neighbors of c from the board; lookup maps a placed
// id to its oasis layout.
func NeighborhoodAt(b *Board, c Coordinate, lookup func(TileID) (OasisLayout, bool)) Neighborhood {
	var around Neighborhood
	for _, d := range Directions {
		id := b.Neighbor(c, d)
		if id == EmptyTile {
			continue
		}
		if layout, ok := lookup(id); ok {
			around[d] = Neighbor{Layout: layout, Present: true}
		}
	}
	return around
}

// EdgeMismatches lists the sides where the candidate disagrees with a present
// neighbor about having an oasis connection across the shared edge.
func EdgeMismatches(candidate OasisLayout, around Neighborhood) []Direction {
	var bad []Direction
	for _, d := range Directions {
		n := around[d]
		if !n.Present {
			continue
		}
		if candidate.Connects(d) != n.Layout.Connects(d.Invert()) {
			bad = append(bad, d)
		}
	}
	return bad
}

// LegalToPlace reports whether candidate may be placed in the cell described by
// around when attaching on side attach of its anchor. The anchor itself sits on
// the candidate's attach.Invert() side and must be present.
func LegalToPlace(candidate OasisLayout, attach Direction, around Neighborhood) bool {
	if !around[attach.Invert()].Present {
		return false
	}
	return len(EdgeMismatches(candidate, around)) == 0
}
