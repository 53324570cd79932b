package search

import (
	"github.com/sulozor/temple-solver/internal/catalogue"
	"github.com/sulozor/temple-solver/internal/model"
	"github.com/sulozor/temple-solver/internal/puzzle"
)

// chainPlan is the outcome of matching the grid's connected components
// (as grouped by model.ChainUnion) against the request's configured
// chains: each component's room-type composition must fit some
// configured ChainConfig's allowed types and count ranges, and a
// chain with a required starting room must have that room adjacent to
// the foyer. Equal chain_id across any edge between two non-foyer
// cells is already guaranteed by construction, since components come
// from d.deriveChains()'s Union-Find over active edges.
type chainPlan struct {
	// names maps a component's chain_id (model.ChainUnion.Labels) to
	// the matched chain config's display name.
	names map[int]string
	// assignedIndex maps a component's chain_id to its index into the
	// request's Chains slice.
	assignedIndex map[int]int
}

// matchChains attempts to assign every connected component in union to
// one of the request's configured chains. A component may be assigned
// any chain whose allowed_types (or "any type" if empty) cover every
// typed room in the component and whose per-type counts fall in range.
// Returns ok=false if any component has in-temple cells but no
// compatible chain — the caller treats that exactly like the
// post-solve directional check: reject the candidate without updating
// best-known.
func matchChains(g *model.Grid, union *model.ChainUnion, chains []puzzle.ChainConfig) (chainPlan, bool) {
	plan := chainPlan{names: make(map[int]string), assignedIndex: make(map[int]int)}
	if len(chains) == 0 {
		return plan, true
	}

	labels := union.Labels()
	componentTypes := make(map[int]map[catalogue.RoomType]int)
	for p, id := range labels {
		cell := g.At(p)
		if !cell.InTemple {
			continue
		}
		counts, ok := componentTypes[id]
		if !ok {
			counts = make(map[catalogue.RoomType]int)
			componentTypes[id] = counts
		}
		counts[cell.Type]++
	}

	for id, counts := range componentTypes {
		idx, ok := bestChainFor(counts, chains)
		if !ok {
			return plan, false
		}
		plan.assignedIndex[id] = idx
		plan.names[id] = chains[idx].Name
	}

	if !startingRoomsSatisfied(g, labels, plan, chains) {
		return plan, false
	}
	return plan, true
}

// bestChainFor returns the index of the first chain config compatible
// with a component's observed type counts.
func bestChainFor(counts map[catalogue.RoomType]int, chains []puzzle.ChainConfig) (int, bool) {
	for i, cc := range chains {
		if chainAccepts(counts, cc) {
			return i, true
		}
	}
	return 0, false
}

func chainAccepts(counts map[catalogue.RoomType]int, cc puzzle.ChainConfig) bool {
	allowed := allowedSet(cc.RoomTypes)
	for t, n := range counts {
		if t == catalogue.Path {
			continue
		}
		if len(allowed) > 0 && !allowed[t] {
			return false
		}
		if rng, ok := cc.RoomCounts[t.String()]; ok {
			if rng.Min != nil && n < *rng.Min {
				return false
			}
			if rng.Max != nil && n > *rng.Max {
				return false
			}
		}
	}
	// Minimums for types that appear zero times in this component still
	// apply — a configured floor of >=1 can't be met by absence.
	for typeName, rng := range cc.RoomCounts {
		if rng.Min == nil || *rng.Min == 0 {
			continue
		}
		rt, ok := catalogue.ParseRoomType(typeName)
		if !ok {
			continue
		}
		if counts[rt] < *rng.Min {
			return false
		}
	}
	return true
}

func allowedSet(names []string) map[catalogue.RoomType]bool {
	if len(names) == 0 {
		return nil
	}
	out := make(map[catalogue.RoomType]bool, len(names))
	for _, n := range names {
		if rt, ok := catalogue.ParseRoomType(n); ok {
			out[rt] = true
		}
	}
	return out
}

// startingRoomsSatisfied enforces invariant (iv): if a matched chain
// config names a starting_room_type, at least one cell of that type
// assigned to that chain must sit adjacent to the foyer, or adjacent to
// a path-typed cell that is itself adjacent to the foyer. Chains with
// no cells assigned in this candidate are vacuously satisfied — the
// configured chain list describes the options available, not a
// mandatory minimum number of chains in use.
func startingRoomsSatisfied(g *model.Grid, labels map[model.Point]int, plan chainPlan, chains []puzzle.ChainConfig) bool {
	nearFoyer := make(map[model.Point]bool)
	for _, n := range model.Neighbors(model.Foyer) {
		nearFoyer[n] = true
		if g.At(n).Type == catalogue.Path {
			for _, nn := range model.Neighbors(n) {
				nearFoyer[nn] = true
			}
		}
	}

	usedChains := make(map[int]bool)
	for _, idx := range plan.assignedIndex {
		usedChains[idx] = true
	}

	for idx := range usedChains {
		cc := chains[idx]
		if cc.StartingRoom == "" {
			continue
		}
		startType, ok := catalogue.ParseRoomType(cc.StartingRoom)
		if !ok {
			continue
		}
		satisfied := false
		for p, id := range labels {
			cell := g.At(p)
			if !cell.InTemple || cell.Type != startType {
				continue
			}
			if plan.assignedIndex[id] != idx {
				continue
			}
			if nearFoyer[p] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}
