package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sulozor/temple-solver/internal/catalogue"
	"github.com/sulozor/temple-solver/internal/model"
	"github.com/sulozor/temple-solver/internal/puzzle"
)

func intPtr(n int) *int { return &n }

func TestMatchChainsNoConfigIsAlwaysOK(t *testing.T) {
	g := model.NewGrid(model.Point{X: 5, Y: 9})
	union := model.NewChainUnion()
	plan, ok := matchChains(g, union, nil)
	assert.True(t, ok)
	assert.Empty(t, plan.names)
}

func TestMatchChainsAcceptsComponentWithinAllowedTypesAndCounts(t *testing.T) {
	g := model.NewGrid(model.Point{X: 5, Y: 9})
	g.Set(model.Point{X: 5, Y: 2}, catalogue.Spymaster, 1, true)
	g.Set(model.Point{X: 5, Y: 3}, catalogue.Path, 1, true)

	union := model.NewChainUnion()
	union.Union(model.Point{X: 5, Y: 2}, model.Point{X: 5, Y: 3})

	chains := []puzzle.ChainConfig{
		{
			Name:      "Inner Sanctum",
			RoomTypes: []string{"Spymaster"},
			RoomCounts: map[string]puzzle.RoomCountRange{
				"Spymaster": {Min: intPtr(1), Max: intPtr(1)},
			},
		},
	}

	plan, ok := matchChains(g, union, chains)
	require.True(t, ok)
	assert.Len(t, plan.names, 1)
	for _, name := range plan.names {
		assert.Equal(t, "Inner Sanctum", name)
	}
}

func TestMatchChainsRejectsComponentOutsideAllowedTypes(t *testing.T) {
	g := model.NewGrid(model.Point{X: 5, Y: 9})
	g.Set(model.Point{X: 5, Y: 2}, catalogue.CorruptionChamber, 1, true)

	union := model.NewChainUnion()
	union.Find(model.Point{X: 5, Y: 2})

	chains := []puzzle.ChainConfig{
		{Name: "Spymaster Only", RoomTypes: []string{"Spymaster"}},
	}

	_, ok := matchChains(g, union, chains)
	assert.False(t, ok)
}

func TestMatchChainsEnforcesStartingRoomAdjacentToFoyer(t *testing.T) {
	g := model.NewGrid(model.Point{X: 5, Y: 9})
	// Spymaster far from the foyer: not adjacent, and not adjacent to a
	// path tile that is itself adjacent to the foyer.
	g.Set(model.Point{X: 1, Y: 1}, catalogue.Spymaster, 1, true)

	union := model.NewChainUnion()
	union.Find(model.Point{X: 1, Y: 1})

	chains := []puzzle.ChainConfig{
		{Name: "Entry Chain", RoomTypes: []string{"Spymaster"}, StartingRoom: "Spymaster"},
	}

	_, ok := matchChains(g, union, chains)
	assert.False(t, ok)
}
