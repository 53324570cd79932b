// Package search implements the model builder and branch-and-bound
// solver driver: it turns a puzzle.SolveRequest into a model.Grid,
// searches cell assignments for the maximum-value layout satisfying
// every solution-graph invariant, and streams improving solutions to
// a caller-supplied callback as it finds them.
//
// The search is a hand-rolled backtracking-with-pruning walk over
// cell assignments rather than a call into a constraint solver — it
// generalizes the same branch-and-bound shape used for bipartite
// input/output assignment elsewhere in this codebase, widened from a
// two-sided matching to the 81-cell grid.
package search

import (
	"context"
	"sort"
	"time"

	"github.com/sulozor/temple-solver/internal/catalogue"
	"github.com/sulozor/temple-solver/internal/model"
	"github.com/sulozor/temple-solver/internal/puzzle"
	"github.com/sulozor/temple-solver/internal/validator"
)

// Hint is a warm-start suggestion: place Type at (X, Y). Hints bias
// search order but are never required to be consistent with any
// constraint.
type Hint struct {
	X, Y int
	Type catalogue.RoomType
}

// Solution is one improving assignment streamed to the caller. It
// carries everything the streaming callback needs to render a
// progress update: score, rooms, paths, edges, chain names, and the
// running solution count.
type Solution struct {
	Score         int
	Grid          *model.Grid
	ChainUnion    *model.ChainUnion
	ChainNames    map[int]string
	SolutionCount int
	DirectionalOK bool
	// ViolatingPath is the Commander-to-Spymaster chain found by the
	// directional validator when it rejects the final assignment — only
	// ever set when the lazy check was off, since the lazy path discards
	// violating candidates instead of reporting them.
	ViolatingPath []model.Point
}

// Config bundles a request with the tables and policy it runs against.
type Config struct {
	Catalogue            *catalogue.Catalogue
	Request              *puzzle.SolveRequest
	Hints                []Hint
	LazyDirectionalCheck bool
	MaxTime              time.Duration
	OnImproving          func(Solution)
}

// Result is the final outcome of a Solve call, before translation into
// a puzzle.SolveResult by the orchestration layer.
type Result struct {
	Best          *Solution
	Optimal       bool
	NodesExplored int64
	Elapsed       time.Duration
	TimedOut      bool
}

// Solve runs the branch-and-bound search to completion, to the
// context's deadline, or to cfg.MaxTime, whichever comes first. It
// never returns an error: infeasibility and timeout are both ordinary
// outcomes reported on Result.
func Solve(ctx context.Context, cfg Config) Result {
	start := time.Now()
	if cfg.MaxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.MaxTime)
		defer cancel()
	}

	d := newDriver(ctx, cfg)
	order := cellOrder(d.grid, d.fixed)
	d.search(order, 0)

	// With the lazy check off the search accepted candidates unchecked;
	// the final assignment still gets one validator pass so the result
	// always carries a directional verdict.
	if !cfg.LazyDirectionalCheck && d.best != nil {
		v := validator.Validate(d.best.Grid, cfg.Catalogue)
		d.best.DirectionalOK = v.Valid
		d.best.ViolatingPath = v.ViolatingPath
	}

	res := Result{
		Best:          d.best,
		NodesExplored: d.nodes,
		Elapsed:       time.Since(start),
		TimedOut:      ctx.Err() != nil,
	}
	// The bound in search() is admissible (it can only overestimate
	// remaining value), so it never prunes away a true optimum. A
	// top-level search() call that returns before the context expires
	// has therefore exhausted every branch that could have beaten the
	// incumbent — the incumbent, if any, is provably optimal.
	res.Optimal = ctx.Err() == nil
	return res
}

// driver holds the mutable search state for one Solve call.
type driver struct {
	ctx   context.Context
	cfg   Config
	cat   *catalogue.Catalogue
	grid  *model.Grid
	fixed map[model.Point]bool // pinned cells: foyer, architect, locked existing rooms

	// optional holds non-locked existing placements: the cell may stay
	// out of the temple, but if it's in, it must carry the supplied
	// type and tier.
	optional map[model.Point]model.Cell

	hintAt map[model.Point]catalogue.RoomType

	// maxDegree is the effective per-cell active-edge cap: max_neighbors
	// when it tightens the grid's natural bound of 4, further tightened
	// to 2 in snake mode, where the layout must stay one winding
	// corridor with no junctions.
	maxDegree int

	// decided marks cells whose value is fixed for the remainder of
	// the current recursion branch: the pinned cells plus every cell
	// assigned so far along the path from the root. Used to bias
	// candidate order toward rooms that actually connect to the
	// temple built so far, growing the layout outward from the foyer
	// the way auto-connect placement does in play.
	decided map[model.Point]bool

	// maxPerCellValue is the highest BestValue across every typed
	// room, used as the optimistic per-cell contribution in the
	// incumbent bound: no still-empty cell can ever be worth more.
	maxPerCellValue int

	// triples caches the catalogue's forbidden chains so the forward
	// checks don't re-copy the table on every candidate.
	triples []catalogue.AdjacencyTriple

	best          *Solution
	solutionCount int
	nodes         int64
}

func newDriver(ctx context.Context, cfg Config) *driver {
	arch := model.Point{X: cfg.Request.Architect.X, Y: cfg.Request.Architect.Y}
	grid := model.NewGrid(arch)
	fixed := map[model.Point]bool{model.Foyer: true}
	if arch.InBounds() {
		fixed[arch] = true
	}

	optional := make(map[model.Point]model.Cell)
	for _, er := range cfg.Request.ExistingRooms {
		p := model.Point{X: er.X, Y: er.Y}
		rt, ok := catalogue.ParseRoomType(er.Type)
		if !ok {
			continue
		}
		grid.Set(p, rt, er.Tier, true)
		if cfg.Request.LockExisting {
			fixed[p] = true
		} else {
			optional[p] = model.Cell{Type: rt, Tier: er.Tier, InTemple: true}
		}
	}
	for _, ep := range cfg.Request.ExistingPaths {
		p := model.Point{X: ep.X, Y: ep.Y}
		grid.Set(p, catalogue.Path, 1, true)
		if cfg.Request.LockExisting {
			fixed[p] = true
		} else {
			optional[p] = model.Cell{Type: catalogue.Path, Tier: 1, InTemple: true}
		}
	}

	maxDegree := 4
	if cfg.Request.MaxNeighbors > 0 && cfg.Request.MaxNeighbors < maxDegree {
		maxDegree = cfg.Request.MaxNeighbors
	}
	if cfg.Request.SnakeMode && maxDegree > 2 {
		maxDegree = 2
	}

	hintAt := make(map[model.Point]catalogue.RoomType, len(cfg.Hints))
	for _, h := range cfg.Hints {
		hintAt[model.Point{X: h.X, Y: h.Y}] = h.Type
	}

	decided := make(map[model.Point]bool, len(fixed))
	for p := range fixed {
		decided[p] = true
	}

	maxPerCellValue := 1
	for _, t := range catalogue.AllTypedRooms() {
		if v := cfg.Catalogue.BestValue(t); v > maxPerCellValue {
			maxPerCellValue = v
		}
	}

	return &driver{
		ctx:             ctx,
		cfg:             cfg,
		cat:             cfg.Catalogue,
		grid:            grid,
		fixed:           fixed,
		optional:        optional,
		hintAt:          hintAt,
		decided:         decided,
		maxDegree:       maxDegree,
		maxPerCellValue: maxPerCellValue,
		triples:         cfg.Catalogue.ForbiddenChains(),
	}
}

// cellOrder returns every non-fixed grid point in the search order:
// proximity to the foyer first (cheap locality heuristic — a filled
// neighbor makes the next cell's compatibility check meaningful sooner)
// then row-major as a tiebreak.
func cellOrder(g *model.Grid, fixed map[model.Point]bool) []model.Point {
	all := model.AllPoints()
	pts := make([]model.Point, 0, len(all))
	for _, p := range all {
		if !fixed[p] {
			pts = append(pts, p)
		}
	}
	sort.Slice(pts, func(i, j int) bool {
		di := abs(pts[i].X-model.Foyer.X) + abs(pts[i].Y-model.Foyer.Y)
		dj := abs(pts[j].X-model.Foyer.X) + abs(pts[j].Y-model.Foyer.Y)
		if di != dj {
			return di < dj
		}
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	return pts
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// candidates returns the type/tier options to try at p, hint-biased
// type first, then by descending best value, with types that connect
// to an already-decided neighbor tried ahead of types that would land
// isolated — a "try the promising branch first" ordering. This never
// excludes a type, only reorders, so it cannot cost completeness. The
// one exception is a non-locked existing placement: there the cell is
// either the supplied room or out of the temple, nothing else.
func (d *driver) candidates(p model.Point) []model.Cell {
	if cell, ok := d.optional[p]; ok {
		return []model.Cell{cell, {Type: catalogue.Empty, Tier: 0, InTemple: false}}
	}
	types := catalogue.AllTypedRooms()
	sort.Slice(types, func(i, j int) bool {
		return d.cat.BestValue(types[i]) > d.cat.BestValue(types[j])
	})
	sort.SliceStable(types, func(i, j int) bool {
		return d.connectsToDecided(p, types[i]) && !d.connectsToDecided(p, types[j])
	})

	out := make([]model.Cell, 0, len(types)*3+2)
	emitted := make(map[catalogue.RoomType]bool)
	emitTiers := func(t catalogue.RoomType) {
		if emitted[t] {
			return
		}
		emitted[t] = true
		for tier := 3; tier >= 1; tier-- {
			out = append(out, model.Cell{Type: t, Tier: tier, InTemple: true})
		}
	}

	if hint, ok := d.hintAt[p]; ok && hint.Valid() && hint != catalogue.Empty {
		if hint == catalogue.Path {
			out = append(out, model.Cell{Type: catalogue.Path, Tier: 1, InTemple: true})
			emitted[catalogue.Path] = true
		} else {
			emitTiers(hint)
		}
	}
	// While a minimum count is still unmet, try the required type first
	// wherever it could actually connect, so feasible leaves show up
	// before the high-value fill has to be unwound.
	spyDeficit, corrDeficit := d.minCountDeficits()
	if spyDeficit > 0 && d.connectsToDecided(p, catalogue.Spymaster) {
		emitTiers(catalogue.Spymaster)
	}
	if corrDeficit > 0 && d.connectsToDecided(p, catalogue.CorruptionChamber) {
		emitTiers(catalogue.CorruptionChamber)
	}
	for _, t := range types {
		emitTiers(t)
	}
	if !emitted[catalogue.Path] {
		out = append(out, model.Cell{Type: catalogue.Path, Tier: 1, InTemple: true})
	}
	out = append(out, model.Cell{Type: catalogue.Empty, Tier: 0, InTemple: false})
	return out
}

// minCountDeficits reports how many more Spymasters and
// CorruptionChambers the decided cells still owe the request's
// minimums.
func (d *driver) minCountDeficits() (spy, corr int) {
	spyCount, corrCount := 0, 0
	for _, p := range model.AllPoints() {
		if !d.decided[p] {
			continue
		}
		cell := d.grid.At(p)
		if !cell.InTemple {
			continue
		}
		switch cell.Type {
		case catalogue.Spymaster:
			spyCount++
		case catalogue.CorruptionChamber:
			corrCount++
		}
	}
	if spyCount < d.cfg.Request.MinSpymasters {
		spy = d.cfg.Request.MinSpymasters - spyCount
	}
	if corrCount < d.cfg.Request.MinCorruptionChambers {
		corr = d.cfg.Request.MinCorruptionChambers - corrCount
	}
	return spy, corr
}

// connectsToDecided reports whether t would form at least one edge to
// an already-decided, in-temple neighbor of p.
func (d *driver) connectsToDecided(p model.Point, t catalogue.RoomType) bool {
	for _, n := range model.Neighbors(p) {
		if !d.decided[n] {
			continue
		}
		neighbor := d.grid.At(n)
		if neighbor.InTemple && d.cat.Compatible(t, neighbor.Type) {
			return true
		}
	}
	return false
}

func (d *driver) deadlineHit() bool {
	select {
	case <-d.ctx.Done():
		return true
	default:
		return false
	}
}

// search recursively assigns order[idx:] and reports complete,
// constraint-satisfying assignments to considerComplete. It is
// deliberately a plain DFS with forward-checking rather than a full
// constraint-propagation engine.
func (d *driver) search(order []model.Point, idx int) {
	if d.deadlineHit() {
		return
	}
	d.nodes++
	if d.nodes%2048 == 0 && d.deadlineHit() {
		return
	}

	if idx == len(order) {
		d.considerComplete()
		return
	}

	// Incumbent-bound prune, generalizing cpsat_solver.go's
	// partialSum cutoff: the best any completion of this branch can
	// score is what's already placed plus every still-free cell
	// turning into its highest-value tier-3 room, with no penalties
	// subtracted. If that optimistic bound can't beat the incumbent,
	// no completion of this branch can either.
	if d.best != nil {
		remaining := len(order) - idx
		bound := d.placedValue() + remaining*d.maxPerCellValue
		if bound <= d.best.Score {
			return
		}
	}

	// Not enough cells left to cover the unmet minimum counts: no
	// completion of this branch can satisfy the request.
	if spyDeficit, corrDeficit := d.minCountDeficits(); spyDeficit+corrDeficit > len(order)-idx {
		return
	}

	p := order[idx]
	d.decided[p] = true
	for _, cand := range d.candidates(p) {
		if !d.locallyConsistent(p, cand) {
			continue
		}
		prev := d.grid.At(p)
		d.grid.Set(p, cand.Type, cand.Tier, cand.InTemple)
		d.search(order, idx+1)
		d.grid.Set(p, prev.Type, prev.Tier, prev.InTemple)
		if d.deadlineHit() {
			delete(d.decided, p)
			return
		}
	}
	delete(d.decided, p)
}

// placedValue sums the tier value of every cell already in the
// temple — fixed cells plus every cell decided so far along this
// branch — recomputed from the grid each time rather than tracked
// incrementally, mirroring cpsat_solver.go's fresh partialSum.
func (d *driver) placedValue() int {
	total := 0
	for _, p := range model.AllPoints() {
		cell := d.grid.At(p)
		if cell.InTemple {
			total += d.cat.TierValue(cell.Type, cell.Tier)
		}
	}
	return total
}

// locallyConsistent performs the cheap forward checks that catch most
// dead branches immediately: self-adjacency and degree caps against
// already-decided neighbors, unique-type double-booking, and the
// architect's exactly-one-neighbor budget. Each check only ever prunes
// on evidence that cannot be undone by later assignments (a decided
// edge stays decided for the rest of the branch), so pruning here never
// loses a completion that model.Violations would have accepted at the
// leaf.
func (d *driver) locallyConsistent(p model.Point, cand model.Cell) bool {
	if !d.neighborsSurvive(p, cand) {
		return false
	}
	if !cand.InTemple {
		return true
	}
	if cand.Type == catalogue.Path && !d.fixed[p] &&
		d.decidedPathCount(p) >= d.cfg.Request.MaxPaths {
		return false
	}
	// A room that requires a Path neighbor is hopeless once every way
	// of giving it one is spent: no decided path tile beside it, and no
	// undecided neighbor left that the path budget could still cover.
	if d.cat.RequiresPathNeighbor(cand.Type) {
		possible := false
		budgetLeft := d.decidedPathCount(p) < d.cfg.Request.MaxPaths
		for _, n := range model.Neighbors(p) {
			nc := d.grid.At(n)
			if d.decided[n] && nc.InTemple && nc.Type == catalogue.Path {
				possible = true
				break
			}
			if !d.decided[n] && budgetLeft {
				possible = true
				break
			}
		}
		if !possible {
			return false
		}
	}
	if d.cat.Unique(cand.Type) {
		for _, q := range model.AllPoints() {
			if q == p || !d.decided[q] {
				continue
			}
			if d.grid.At(q).InTemple && d.grid.At(q).Type == cand.Type {
				return false
			}
		}
	}

	ownDegree := 0
	undecidedNeighbors := 0
	for _, n := range model.Neighbors(p) {
		if !d.decided[n] {
			undecidedNeighbors++
			continue
		}
		neighbor := d.grid.At(n)
		if !neighbor.InTemple {
			continue
		}
		if !d.cat.Compatible(cand.Type, neighbor.Type) {
			continue // incompatible simply means no edge forms, not a dead branch
		}
		if d.cat.NoSelfAdjacency(cand.Type) && neighbor.Type == cand.Type {
			return false
		}
		ownDegree++
		// The new edge raises the decided neighbor's degree too, and
		// decided degrees only grow from here.
		if n != model.Foyer && n != d.grid.Architect && d.decidedDegreeExcluding(n, p)+1 > d.maxDegree {
			return false
		}
	}
	if ownDegree > d.maxDegree {
		return false
	}
	// A cell whose neighbors are all settled and none of them connect is
	// stranded for good: no later assignment can reach it.
	if ownDegree == 0 && undecidedNeighbors == 0 {
		return false
	}
	if d.completesForbiddenChain(p, cand) {
		return false
	}

	// The architect tolerates exactly one in-temple neighbor; a second
	// one can never be walked back within this branch.
	if d.isArchitectNeighbor(p) {
		for _, n := range model.Neighbors(d.grid.Architect) {
			if n != p && d.decided[n] && d.grid.At(n).InTemple {
				return false
			}
		}
	}
	return true
}

func (d *driver) isArchitectNeighbor(p model.Point) bool {
	a := d.grid.Architect
	return abs(p.X-a.X)+abs(p.Y-a.Y) == 1
}

// decidedPathCount counts the Path tiles placed so far against the
// request's max_paths budget: decided, non-fixed cells only, so the
// pinned foyer/architect and locked existing paths stay free. The cell
// being (re)assigned is excluded — its grid value is the stale previous
// assignment while a candidate is under consideration.
func (d *driver) decidedPathCount(exclude model.Point) int {
	n := 0
	for _, p := range model.AllPoints() {
		if p == exclude || !d.decided[p] || d.fixed[p] {
			continue
		}
		cell := d.grid.At(p)
		if cell.InTemple && cell.Type == catalogue.Path {
			n++
		}
	}
	return n
}

// neighborsSurvive checks p's already-decided in-temple neighbors
// against the assignment of cand at p: deciding p uses up one of each
// neighbor's open cells, and a neighbor whose last open cell just
// settled the wrong way — still no edge at all, or still no Path
// beside a room that requires one — is beyond saving for the rest of
// the branch.
func (d *driver) neighborsSurvive(p model.Point, cand model.Cell) bool {
	candIsPath := cand.InTemple && cand.Type == catalogue.Path
	for _, n := range model.Neighbors(p) {
		nc := d.grid.At(n)
		if !d.decided[n] || !nc.InTemple || n == model.Foyer || n == d.grid.Architect {
			continue
		}
		connects := cand.InTemple && d.cat.Compatible(cand.Type, nc.Type)

		open := false
		for _, m := range model.Neighbors(n) {
			if m != p && !d.decided[m] {
				open = true
				break
			}
		}
		if open {
			continue
		}
		if !connects && d.decidedDegreeExcluding(n, p) == 0 {
			return false
		}
		if d.cat.RequiresPathNeighbor(nc.Type) && !candIsPath && !d.hasDecidedPathNeighbor(n, p) {
			return false
		}
	}
	return true
}

// hasDecidedPathNeighbor reports whether p has a settled Path tile
// beside it, ignoring exclude (the cell currently being reassigned,
// whose grid value is stale).
func (d *driver) hasDecidedPathNeighbor(p, exclude model.Point) bool {
	for _, n := range model.Neighbors(p) {
		if n == exclude {
			continue
		}
		nc := d.grid.At(n)
		if d.decided[n] && nc.InTemple && nc.Type == catalogue.Path {
			return true
		}
	}
	return false
}

// decidedDegreeExcluding counts p's active edges to decided cells — a
// lower bound on p's final degree that forward pruning may rely on —
// ignoring exclude, the cell whose next assignment is still
// hypothetical and whose grid value is therefore stale.
func (d *driver) decidedDegreeExcluding(p, exclude model.Point) int {
	n := 0
	for _, q := range d.grid.ConnectedNeighbors(d.cat, p) {
		if q != exclude && d.decided[q] {
			n++
		}
	}
	return n
}

// completesForbiddenChain reports whether placing cand at p closes a
// forbidden (A,B,C) pattern entirely among decided cells, either with p
// as the B center joining two decided neighbors, or with p as an A/C
// endpoint of a decided neighbor's already-half-built pattern. Decided
// edges persist for the rest of the branch, so such a pattern can never
// be broken later.
func (d *driver) completesForbiddenChain(p model.Point, cand model.Cell) bool {
	var conns []model.Point
	for _, n := range model.Neighbors(p) {
		if d.decided[n] && d.grid.At(n).InTemple && d.cat.Compatible(cand.Type, d.grid.At(n).Type) {
			conns = append(conns, n)
		}
	}

	// p as center.
	for i := 0; i < len(conns); i++ {
		for j := 0; j < len(conns); j++ {
			if i == j {
				continue
			}
			t1, t2 := d.grid.At(conns[i]).Type, d.grid.At(conns[j]).Type
			for _, tr := range d.triples {
				if tr.B == cand.Type && tr.A == t1 && tr.C == t2 {
					return true
				}
			}
		}
	}

	// p as endpoint, with a decided neighbor as center.
	for _, n := range conns {
		center := d.grid.At(n).Type
		for _, m := range model.Neighbors(n) {
			if m == p || !d.decided[m] {
				continue
			}
			if !d.grid.Connected(d.cat, n, m) {
				continue
			}
			other := d.grid.At(m).Type
			for _, tr := range d.triples {
				if tr.B != center {
					continue
				}
				if (tr.A == cand.Type && tr.C == other) || (tr.C == cand.Type && tr.A == other) {
					return true
				}
			}
		}
	}
	return false
}

func (d *driver) considerComplete() {
	d.solutionCount++
	if len(model.Violations(d.grid, d.cat)) > 0 {
		return
	}
	if !d.satisfiesRequestCounts() || !d.withinDegreeCap() {
		return
	}

	directionalOK := true
	if d.cfg.LazyDirectionalCheck {
		res := validator.Validate(d.grid, d.cat)
		directionalOK = res.Valid
		if !directionalOK {
			return
		}
	}

	union := d.deriveChains()
	plan, chainsOK := matchChains(d.grid, union, d.cfg.Request.Chains)
	if !chainsOK {
		return
	}

	score := d.score()
	if d.best != nil && score <= d.best.Score {
		return
	}

	gridCopy := *d.grid
	labels := union.Labels()
	for p, id := range labels {
		cell := gridCopy.At(p)
		cell.ChainID = id
		gridCopy.Cells[p.X][p.Y] = cell
	}
	sol := Solution{
		Score:         score,
		Grid:          &gridCopy,
		ChainUnion:    union,
		ChainNames:    plan.names,
		SolutionCount: d.solutionCount,
		DirectionalOK: directionalOK,
	}
	d.best = &sol
	if d.cfg.OnImproving != nil {
		d.cfg.OnImproving(sol)
	}
}

func (d *driver) satisfiesRequestCounts() bool {
	spyCount, corrCount, pathCount := 0, 0, 0
	for _, p := range model.AllPoints() {
		cell := d.grid.At(p)
		if !cell.InTemple {
			continue
		}
		switch cell.Type {
		case catalogue.Spymaster:
			spyCount++
		case catalogue.CorruptionChamber:
			corrCount++
		case catalogue.Path:
			if !d.fixed[p] {
				pathCount++
			}
		}
	}
	if spyCount < d.cfg.Request.MinSpymasters {
		return false
	}
	if corrCount < d.cfg.Request.MinCorruptionChambers {
		return false
	}
	// max_paths = 0 is a real cap, not "unlimited": the default asks
	// for all-room layouts where the only path tiles are the pinned
	// foyer/architect and any locked existing paths.
	return pathCount <= d.cfg.Request.MaxPaths
}

// withinDegreeCap reports whether every in-temple cell other than the
// pinned foyer/architect respects the effective per-cell edge cap.
func (d *driver) withinDegreeCap() bool {
	if d.maxDegree >= 4 {
		return true
	}
	for _, p := range model.AllPoints() {
		if p == model.Foyer || p == d.grid.Architect {
			continue
		}
		if d.grid.At(p).InTemple && d.grid.Degree(d.cat, p) > d.maxDegree {
			return false
		}
	}
	return true
}

// score computes the layout's objective value:
// total_value - junction_penalty_total - empty_penalty_total.
func (d *driver) score() int {
	total := 0
	junctions := 0
	emptyCount := 0
	archNeighbors := map[model.Point]bool{}
	for _, n := range model.Neighbors(d.grid.Architect) {
		archNeighbors[n] = true
	}

	for _, p := range model.AllPoints() {
		cell := d.grid.At(p)
		if cell.InTemple {
			// Foyer and architect are pinned path tiles, not scored.
			if p != model.Foyer && p != d.grid.Architect {
				total += d.cat.TierValue(cell.Type, cell.Tier)
			}
			if d.grid.Degree(d.cat, p) >= 3 {
				junctions++
			}
		} else if !archNeighbors[p] {
			emptyCount++
		}
	}
	return total - d.cfg.Request.JunctionPenalty*junctions - d.cfg.Request.EmptyPenalty*emptyCount
}

func (d *driver) deriveChains() *model.ChainUnion {
	u := model.NewChainUnion()
	for _, p := range model.AllPoints() {
		if p == model.Foyer || p == d.grid.Architect {
			continue
		}
		if !d.grid.At(p).InTemple {
			continue
		}
		u.Find(p)
		for _, n := range model.Neighbors(p) {
			if n == model.Foyer || n == d.grid.Architect {
				continue
			}
			if d.grid.Connected(d.cat, p, n) {
				u.Union(p, n)
			}
		}
	}
	return u
}
