package engine

import "testing"

func TestLegalitySymmetry(t *testing.T) {
	a := NewOasisLayout(East.Set())
	bConnected := NewOasisLayout(West.Set())
	bClosed := NewOasisLayout(North.Set())

	// A attaches on the West side of B, so B sits to A's East.
	var around Neighborhood
	around[East] = Neighbor{Layout: bConnected, Present: true}
	if !LegalToPlace(a, West, around) {
		t.Error("matching East/West connections should be legal")
	}

	around[East] = Neighbor{Layout: bClosed, Present: true}
	if LegalToPlace(a, West, around) {
		t.Error("A's East connection against B's closed West edge should be illegal")
	}
	mismatches := EdgeMismatches(a, around)
	if len(mismatches) != 1 || mismatches[0] != East {
		t.Errorf("EdgeMismatches = %v, want [E]", mismatches)
	}
}

func TestLegalityAllNeighbors(t *testing.T) {
	candidate := NewOasisLayout(NewDirectionSet(North, East))

	tests := []struct {
		name     string
		around   Neighborhood
		attach   Direction
		expected bool
	}{
		{
			name:     "anchor only, both closed",
			around:   Neighborhood{West: {Layout: NewOasisLayout(North.Set()), Present: true}},
			attach:   East,
			expected: true,
		},
		{
			name: "second neighbor disagrees",
			around: Neighborhood{
				West:  {Layout: 0, Present: true},
				South: {Layout: NewOasisLayout(North.Set()), Present: true},
			},
			attach:   East,
			expected: false,
		},
		{
			name: "every neighbor agrees",
			around: Neighborhood{
				North: {Layout: NewOasisLayout(South.Set()), Present: true},
				East:  {Layout: NewOasisLayout(West.Set()), Present: true},
				South: {Layout: NewOasisLayout(East.Set()), Present: true},
				West:  {Layout: NewOasisLayout(NewDirectionSet(North, South)), Present: true},
			},
			attach:   South,
			expected: true,
		},
		{
			name:     "anchor missing",
			around:   Neighborhood{North: {Layout: NewOasisLayout(South.Set()), Present: true}},
			attach:   East,
			expected: false,
		},
		{
			name:     "absent neighbors impose nothing",
			around:   Neighborhood{South: {Layout: NewOasisLayout(North.Set()), Present: false}, North: {Layout: NewOasisLayout(South.Set()), Present: true}},
			attach:   South,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LegalToPlace(candidate, tt.attach, tt.around); got != tt.expected {
				t.Errorf("LegalToPlace = %v, want %v (mismatches %v)", got, tt.expected, EdgeMismatches(candidate, tt.around))
			}
		})
	}
}

func TestPlacementScenario(t *testing.T) {
	layouts := map[TileID]OasisLayout{
		1: NewOasisLayout(AllDirections),
		2: NewOasisLayout(West.Set()),
		3: NewOasisLayout(NewDirectionSet(East, South)),
	}
	lookup := func(id TileID) (OasisLayout, bool) {
		l, ok := layouts[id]
		return l, ok
	}

	b := NewBoard()
	if err := b.AddTileAt(1, 5, 5); err != nil {
		t.Fatal(err)
	}
	if err := b.AddTileAt(2, 6, 5); err != nil {
		t.Fatal(err)
	}

	candidate := TileData{
		IsDesert:       true,
		OasisLayout:    layouts[3],
		TreasureLayout: [4]TreasureKind{NoneTreasure, GoodsTreasure(Salt), RumorsTreasure, NoneTreasure},
	}

	anchor, err := b.Coordinates(2)
	if err != nil {
		t.Fatal(err)
	}
	target := anchor.Step(East)
	around := NeighborhoodAt(b, target, lookup)

	if !LegalToPlace(candidate.OasisLayout, East, around) {
		t.Fatalf("expected legal placement, mismatches %v", EdgeMismatches(candidate.OasisLayout, around))
	}
	if err := b.AddTileAt(3, target.X, target.Y); err != nil {
		t.Fatal(err)
	}
	if id, err := b.TileIDAt(7, 5); err != nil || id != 3 {
		t.Errorf("TileIDAt(7, 5) = %d, %v; want 3", id, err)
	}
}
