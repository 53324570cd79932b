package catalogue

// Catalogue is the full set of static rule tables consumed by the model
// builder, the solver, and the feasibility pre-check. Construct one with
// New; every accessor returns either a value type or a copy, so a
// *Catalogue is safe to share across every concurrent solve.
type Catalogue struct {
	tierValue            [NumRoomTypes][3]int
	compat               [NumRoomTypes][NumRoomTypes]bool
	forbiddenChains      []AdjacencyTriple
	adjCaps              []AdjacencyCap
	requiresPathNeighbor map[RoomType]bool
	noSelfAdjacency      map[RoomType]bool
	uniqueTypes          map[RoomType]bool
	requiredParents      map[RoomType][]RoomType // inert annotation only, never enforced
	directionalFrom      RoomType
	directionalTo        RoomType
}

// DirectionalPair returns the (from, to) pair checked by the post-solve
// directional validator: no linear chain may run from a Commander to a
// strictly-farther-from-foyer Spymaster.
func (c *Catalogue) DirectionalPair() (from, to RoomType) {
	return c.directionalFrom, c.directionalTo
}

// TierValue returns the score contributed by placing a room of type t
// at the given tier (1..3). Path tiles always contribute 1. Empty and
// out-of-range inputs contribute 0.
func (c *Catalogue) TierValue(t RoomType, tier int) int {
	if t == Path {
		return 1
	}
	if !t.Typed() || tier < 1 || tier > 3 {
		return 0
	}
	return c.tierValue[t][tier-1]
}

// BestValue returns the highest TierValue achievable for t across tiers
// 1..3 — used by the solver's branch-and-bound upper bound.
func (c *Catalogue) BestValue(t RoomType) int {
	if t == Path {
		return 1
	}
	if !t.Typed() {
		return 0
	}
	best := 0
	for tier := 1; tier <= 3; tier++ {
		if v := c.tierValue[t][tier-1]; v > best {
			best = v
		}
	}
	return best
}

// Compatible reports whether a and b may be direct grid neighbors: Path
// is compatible with every non-Empty type, Empty is compatible with
// nothing, and typed rooms follow the catalogue's adjacency table. The
// relation is symmetric by construction (New populates both halves).
func (c *Catalogue) Compatible(a, b RoomType) bool {
	if !a.Valid() || !b.Valid() {
		return false
	}
	return c.compat[a][b]
}

// ForbiddenChains returns the length-3 (A,B,C) patterns a center cell
// of type B must never complete through two connected neighbors.
func (c *Catalogue) ForbiddenChains() []AdjacencyTriple {
	out := make([]AdjacencyTriple, len(c.forbiddenChains))
	copy(out, c.forbiddenChains)
	return out
}

// AdjacencyCaps returns the per-(parent,child) neighbor-count caps.
func (c *Catalogue) AdjacencyCaps() []AdjacencyCap {
	out := make([]AdjacencyCap, len(c.adjCaps))
	copy(out, c.adjCaps)
	return out
}

// RequiresPathNeighbor reports whether t must have at least one
// Path-typed neighbor to be placed.
func (c *Catalogue) RequiresPathNeighbor(t RoomType) bool {
	return c.requiresPathNeighbor[t]
}

// NoSelfAdjacency reports whether two cells of type t may never be
// direct neighbors.
func (c *Catalogue) NoSelfAdjacency(t RoomType) bool {
	return c.noSelfAdjacency[t]
}

// Unique reports whether at most one cell of type t may appear in a
// solution.
func (c *Catalogue) Unique(t RoomType) bool {
	return c.uniqueTypes[t]
}

// RequiredParents returns the narrative "required parent" annotation
// for t, if any. This is an obsolete annotation: no other package
// reads it — not the model builder, the solver, or the feasibility
// pre-check. It is kept so operators reading the catalogue can see the
// rule an earlier design considered and abandoned in favor of the
// plain Compatible relation.
func (c *Catalogue) RequiredParents(t RoomType) []RoomType {
	parents := c.requiredParents[t]
	out := make([]RoomType, len(parents))
	copy(out, parents)
	return out
}

// WithTierValues returns a copy of c with the given per-type tier-value
// overrides applied, keyed by room-type name with a [tier1, tier2,
// tier3] triple — the same shape as puzzle.SolveRequest.RoomValues and
// config.Policy.RoomValues. Unknown type names are ignored.
func (c *Catalogue) WithTierValues(overrides map[string][3]int) *Catalogue {
	out := *c
	for name, values := range overrides {
		t, ok := ParseRoomType(name)
		if !ok || !t.Typed() {
			continue
		}
		out.tierValue[t] = values
	}
	return &out
}

// AllTypedRooms returns every RoomType except Empty and Path, in
// enumeration order.
func AllTypedRooms() []RoomType {
	out := make([]RoomType, 0, NumRoomTypes-2)
	for t := Spymaster; int(t) < NumRoomTypes; t++ {
		out = append(out, t)
	}
	return out
}
