package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sulozor/temple-solver/internal/catalogue"
	"github.com/sulozor/temple-solver/internal/model"
)

func TestValidateEmptyGridIsValid(t *testing.T) {
	cat := catalogue.New()
	g := model.NewGrid(model.Point{X: 1, Y: 1})
	res := Validate(g, cat)
	assert.True(t, res.Valid)
}

func TestValidateNoCommanderIsValid(t *testing.T) {
	cat := catalogue.New()
	g := model.NewGrid(model.Point{X: 1, Y: 9})
	g.Set(model.Point{X: 5, Y: 2}, catalogue.Garrison, 1, true)
	res := Validate(g, cat)
	assert.True(t, res.Valid)
}

// TestValidateRejectsLinearChainToFartherSpymaster builds a straight
// degree-2 corridor of path tiles running away from the foyer, with a
// Commander near the foyer end and a Spymaster at the far end, and
// expects the directional check to reject it.
func TestValidateRejectsLinearChainToFartherSpymaster(t *testing.T) {
	cat := catalogue.New()
	g := model.NewGrid(model.Point{X: 9, Y: 9})

	// foyer = (5,1). Chain runs straight down column 5.
	g.Set(model.Point{X: 5, Y: 2}, catalogue.Commander, 1, true)
	for y := 3; y <= 8; y++ {
		g.Set(model.Point{X: 5, Y: y}, catalogue.Path, 1, true)
	}
	g.Set(model.Point{X: 5, Y: 9}, catalogue.Spymaster, 1, true)

	res := Validate(g, cat)
	require.False(t, res.Valid)
	assert.NotEmpty(t, res.ViolatingPath)
}

// TestValidateAllowsJunctionBrokenChain places a side branch at the
// midpoint so that cell no longer has degree 2, which should stop the
// chain from being considered a violation at that cell.
func TestValidateAllowsJunctionBrokenChain(t *testing.T) {
	cat := catalogue.New()
	g := model.NewGrid(model.Point{X: 9, Y: 9})

	g.Set(model.Point{X: 5, Y: 2}, catalogue.Commander, 1, true)
	g.Set(model.Point{X: 5, Y: 3}, catalogue.Path, 1, true)
	// Junction cell with a side branch: degree 3, not 2.
	g.Set(model.Point{X: 5, Y: 4}, catalogue.Path, 1, true)
	g.Set(model.Point{X: 4, Y: 4}, catalogue.Path, 1, true)
	g.Set(model.Point{X: 5, Y: 5}, catalogue.Path, 1, true)
	g.Set(model.Point{X: 5, Y: 6}, catalogue.Spymaster, 1, true)

	res := Validate(g, cat)
	assert.True(t, res.Valid)
}

func TestValidateIgnoresSpymasterCloserThanCommander(t *testing.T) {
	cat := catalogue.New()
	g := model.NewGrid(model.Point{X: 9, Y: 1})
	// Spymaster sits between foyer and commander: not "strictly farther".
	g.Set(model.Point{X: 5, Y: 2}, catalogue.Spymaster, 1, true)
	g.Set(model.Point{X: 5, Y: 3}, catalogue.Path, 1, true)
	g.Set(model.Point{X: 5, Y: 4}, catalogue.Commander, 1, true)

	res := Validate(g, cat)
	assert.True(t, res.Valid)
}
