package catalogue

// New builds and returns the catalogue's rule tables. Tables are
// populated here, once, by an explicit constructor rather than a
// package init, so callers can see and reason about the wiring in one
// place.
func New() *Catalogue {
	c := &Catalogue{
		requiresPathNeighbor: make(map[RoomType]bool),
		noSelfAdjacency:      make(map[RoomType]bool),
		uniqueTypes:          make(map[RoomType]bool),
		requiredParents:      make(map[RoomType][]RoomType),
		directionalFrom:      Commander,
		directionalTo:        Spymaster,
	}

	c.populateTierValues()
	c.populateCompat()
	c.populateForbiddenChains()
	c.populateAdjacencyCaps()
	c.populateSets()
	c.populateRequiredParents()

	return c
}

// populateTierValues fills tier_value[type][tier-1] for the fourteen
// typed rooms. Values are strictly increasing per type so a higher
// tier is always worth more toward the layout's objective score.
func (c *Catalogue) populateTierValues() {
	set := func(t RoomType, t1, t2, t3 int) {
		c.tierValue[t] = [3]int{t1, t2, t3}
	}
	set(Spymaster, 4, 8, 13)
	set(Garrison, 3, 6, 10)
	set(LegionBarracks, 3, 6, 10)
	set(Commander, 4, 8, 13)
	set(Armoury, 2, 5, 8)
	set(CorruptionChamber, 5, 9, 14)
	set(Thaumaturge, 6, 11, 17)
	set(SacrificialChamber, 5, 9, 14)
	set(AlchemyLab, 3, 6, 10)
	set(GolemWorks, 4, 7, 11)
	set(Smithy, 2, 5, 8)
	set(Generator, 3, 6, 10)
	set(FleshSurgeon, 5, 9, 14)
	set(Synthflesh, 6, 11, 17)
}

// compatiblePairs is the permitted-neighbor table: the only typed-room
// pairs allowed to be grid neighbors, beyond the blanket Empty/Path
// rules New applies first. Everything not listed here defaults to
// incompatible — rooms connect only along the catalogue's declared
// lines, not by default.
//
// Built from the requiredParents/test_rules.py hints (each parent's
// permitted children anchor its row) plus what forbiddenChains,
// adjCaps, and requiresPathNeighbor need their participants to be
// able to reach each other at all. Spymaster/Commander is absent on
// purpose: they must never be direct neighbors; the length-2
// "junction" half of that same rule is enforced separately, in the
// model builder, using directionalFrom/directionalTo.
var compatiblePairs = [][2]RoomType{
	{Spymaster, Garrison},
	{Spymaster, LegionBarracks},
	{Garrison, LegionBarracks},
	{Garrison, Armoury},
	{Garrison, AlchemyLab},
	{LegionBarracks, Armoury},
	{Commander, Garrison},
	{Commander, LegionBarracks},
	{Commander, Armoury},
	{Armoury, Smithy},
	{Armoury, Generator},
	{Armoury, CorruptionChamber},
	{CorruptionChamber, SacrificialChamber},
	{CorruptionChamber, Thaumaturge},
	{Thaumaturge, Generator},
	{Thaumaturge, AlchemyLab},
	{Thaumaturge, SacrificialChamber},
	{SacrificialChamber, GolemWorks},
	{GolemWorks, Smithy},
	{Smithy, FleshSurgeon},
	{FleshSurgeon, Synthflesh},
}

// selfCompatibleTypes lists the types allowed to neighbor themselves.
// Only Garrison, LegionBarracks, and CorruptionChamber need an entry
// here: they are the only types noSelfAdjacency ever checks, and that
// check only fires through Connected, which requires compat first.
var selfCompatibleTypes = []RoomType{Garrison, LegionBarracks, CorruptionChamber}

func (c *Catalogue) populateCompat() {
	for a := 0; a < NumRoomTypes; a++ {
		for b := 0; b < NumRoomTypes; b++ {
			at, bt := RoomType(a), RoomType(b)
			switch {
			case at == Empty || bt == Empty:
				c.compat[a][b] = false
			case at == Path || bt == Path:
				c.compat[a][b] = true
			default:
				c.compat[a][b] = false
			}
		}
	}
	for _, pair := range compatiblePairs {
		c.compat[pair[0]][pair[1]] = true
		c.compat[pair[1]][pair[0]] = true
	}
	for _, t := range selfCompatibleTypes {
		c.compat[t][t] = true
	}
}

// populateForbiddenChains lists the length-3 (A,B,C) patterns a center
// cell of type B may never complete through two connected neighbors of
// types A and C, independent of the Spymaster/Commander junction rule
// (which the model builder encodes directly from directionalPair, not
// from this table — that pair gets its own distinct encoding).
func (c *Catalogue) populateForbiddenChains() {
	c.forbiddenChains = []AdjacencyTriple{
		{A: FleshSurgeon, B: Smithy, C: GolemWorks},
		{A: Generator, B: Armoury, C: CorruptionChamber},
		{A: AlchemyLab, B: Garrison, C: LegionBarracks},
		{A: Thaumaturge, B: Path, C: Synthflesh},
	}
}

// populateAdjacencyCaps lists per-(parent,child) neighbor-count caps,
// e.g. an Armoury has at most one adjacent Smithy.
func (c *Catalogue) populateAdjacencyCaps() {
	c.adjCaps = []AdjacencyCap{
		{Parent: Armoury, Child: Smithy, Max: 1},
		{Parent: Thaumaturge, Child: Generator, Max: 1},
		{Parent: GolemWorks, Child: Smithy, Max: 2},
		{Parent: Synthflesh, Child: FleshSurgeon, Max: 1},
	}
}

func (c *Catalogue) populateSets() {
	c.requiresPathNeighbor[SacrificialChamber] = true
	c.requiresPathNeighbor[Commander] = true
	c.requiresPathNeighbor[GolemWorks] = true
	c.requiresPathNeighbor[Generator] = true

	c.noSelfAdjacency[Garrison] = true
	c.noSelfAdjacency[LegionBarracks] = true
	c.noSelfAdjacency[CorruptionChamber] = true

	c.uniqueTypes[Commander] = true
	c.uniqueTypes[Thaumaturge] = true
}

// populateRequiredParents carries the legacy REQUIRED_PARENTS table
// forward as an inert annotation — see the Catalogue.RequiredParents
// doc comment for why it is never enforced.
func (c *Catalogue) populateRequiredParents() {
	c.requiredParents[Spymaster] = []RoomType{Garrison, LegionBarracks}
	c.requiredParents[GolemWorks] = []RoomType{Smithy}
	c.requiredParents[Thaumaturge] = []RoomType{Generator, AlchemyLab, CorruptionChamber, SacrificialChamber}
}
