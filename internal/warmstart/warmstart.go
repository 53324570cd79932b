// Package warmstart implements an optional hint-provider seam: a
// caller-suppliable source of warm-start room placements that bias
// the solver's search order without ever being treated as a hard
// constraint, plus a shadow comparator that runs a second hinted solve
// alongside the production one and reports the score delta.
//
// The comparator follows the same production-function-vs-experimental-
// function dual-run shape used elsewhere for shadow evaluation,
// repurposed here to compare a plain solve against a hinted solve
// instead of two heuristic classifiers. There is no durable store to
// write results through to, so Run only logs the divergence instead of
// persisting it.
package warmstart

import (
	"context"

	"github.com/sulozor/temple-solver/internal/catalogue"
	"github.com/sulozor/temple-solver/internal/puzzle"
	"github.com/sulozor/temple-solver/internal/search"
	"github.com/sulozor/temple-solver/internal/telemetry"
)

// Hint is a warm-start suggestion: place Type at (X, Y).
type Hint struct {
	X, Y int
	Type catalogue.RoomType
}

// HintProvider supplies warm-start hints for a request. Implementations
// must be safe for concurrent use across simultaneous solves.
type HintProvider interface {
	Hints(req *puzzle.SolveRequest) ([]Hint, error)
}

// NullHintProvider is the default: no hints, used whenever no
// HintProvider is configured.
type NullHintProvider struct{}

// Hints always returns an empty slice.
func (NullHintProvider) Hints(req *puzzle.SolveRequest) ([]Hint, error) {
	return nil, nil
}

func toSearchHints(hints []Hint) []search.Hint {
	out := make([]search.Hint, len(hints))
	for i, h := range hints {
		out[i] = search.Hint{X: h.X, Y: h.Y, Type: h.Type}
	}
	return out
}

// Comparator runs a production (unhinted) solve and a shadow (hinted)
// solve over the same request and reports which won, logging a
// divergence whenever the hinted solve scores lower than the unhinted
// one — the warm-start is a pure search-order bias, so a
// provider that regresses the score signals a bad hint source rather
// than an infeasible request.
type Comparator struct {
	provider HintProvider
	log      *telemetry.Logger
}

// NewComparator builds a Comparator using provider for the shadow run.
func NewComparator(provider HintProvider, log *telemetry.Logger) *Comparator {
	if provider == nil {
		provider = NullHintProvider{}
	}
	return &Comparator{provider: provider, log: log.Component("warmstart")}
}

// Delta is the outcome of one shadow comparison.
type Delta struct {
	ProductionScore int
	ShadowScore     int
	HintCount       int
}

// Run executes both solves against req with the given per-run time
// budget and returns the score delta. Run performs both legs itself:
// the production leg with perRunBudget's hints cleared, and the shadow
// leg with the provider's hints.
func (c *Comparator) Run(ctx context.Context, cat *catalogue.Catalogue, req *puzzle.SolveRequest, perRunBudget search.Config) Delta {
	prodCfg := perRunBudget
	prodCfg.Hints = nil
	prodRes := search.Solve(ctx, prodCfg)

	hints, err := c.provider.Hints(req)
	shadowCfg := perRunBudget
	if err == nil {
		shadowCfg.Hints = toSearchHints(hints)
	}
	shadowRes := search.Solve(ctx, shadowCfg)

	delta := Delta{HintCount: len(hints)}
	if prodRes.Best != nil {
		delta.ProductionScore = prodRes.Best.Score
	}
	if shadowRes.Best != nil {
		delta.ShadowScore = shadowRes.Best.Score
	}

	if delta.ShadowScore < delta.ProductionScore {
		c.log.Warn("hinted solve scored lower than unhinted solve", map[string]interface{}{
			"production_score": delta.ProductionScore,
			"shadow_score":      delta.ShadowScore,
			"hint_count":        delta.HintCount,
		})
	}
	return delta
}
