package model

import "github.com/sulozor/temple-solver/internal/catalogue"

// ViolationKind names which solution-graph invariant a Violation
// reports. The directional Commander/Spymaster linear-chain rule is
// deliberately absent — it is checked post-solve by internal/validator,
// never here.
type ViolationKind string

const (
	ViolationUnreachable        ViolationKind = "unreachable_from_foyer"
	ViolationArchitectDegree    ViolationKind = "architect_degree"
	ViolationSelfAdjacency      ViolationKind = "self_adjacency"
	ViolationForbiddenChain     ViolationKind = "forbidden_chain"
	ViolationAdjacencyCap       ViolationKind = "adjacency_cap"
	ViolationMissingPathNeighbor ViolationKind = "missing_path_neighbor"
	ViolationDuplicateUnique    ViolationKind = "duplicate_unique"
	ViolationSpyCmdAdjacent     ViolationKind = "spymaster_commander_adjacent"
	ViolationSpyCmdJunction     ViolationKind = "spymaster_commander_needs_junction"
)

// Violation is one concrete instance of a broken solution-graph
// invariant, anchored to the cell(s) that broke it.
type Violation struct {
	Kind  ViolationKind
	Cells []Point
}

// Violations checks every solution-graph invariant
// except the post-solve directional rule, returning every breach
// found. A nil/empty result does not by itself mean the grid is a
// valid *complete* solution — Empty cells are never in breach of any
// per-type rule, so a mostly-unfilled grid can pass trivially.
func Violations(g *Grid, cat *catalogue.Catalogue) []Violation {
	var out []Violation

	out = append(out, checkReachability(g, cat)...)
	out = append(out, checkArchitectDegree(g, cat)...)
	out = append(out, checkSelfAdjacency(g, cat)...)
	out = append(out, checkForbiddenChains(g, cat)...)
	out = append(out, checkAdjacencyCaps(g, cat)...)
	out = append(out, checkRequiresPathNeighbor(g, cat)...)
	out = append(out, checkUnique(g, cat)...)
	out = append(out, checkSpymasterCommander(g, cat)...)

	return out
}

func checkReachability(g *Grid, cat *catalogue.Catalogue) []Violation {
	dist := ReachDist(g, cat)
	var out []Violation
	for _, p := range AllPoints() {
		if g.At(p).InTemple && dist[p] == Unreached {
			out = append(out, Violation{Kind: ViolationUnreachable, Cells: []Point{p}})
		}
	}
	return out
}

func checkArchitectDegree(g *Grid, cat *catalogue.Catalogue) []Violation {
	if !g.Architect.InBounds() || !g.At(g.Architect).InTemple {
		return nil
	}
	if g.Degree(cat, g.Architect) != 1 {
		return []Violation{{Kind: ViolationArchitectDegree, Cells: []Point{g.Architect}}}
	}
	return nil
}

func checkSelfAdjacency(g *Grid, cat *catalogue.Catalogue) []Violation {
	var out []Violation
	for _, p := range AllPoints() {
		cell := g.At(p)
		if !cell.InTemple || !cat.NoSelfAdjacency(cell.Type) {
			continue
		}
		for _, n := range Neighbors(p) {
			if n.X < p.X || (n.X == p.X && n.Y < p.Y) {
				continue // report each pair once
			}
			if g.Connected(cat, p, n) && g.At(n).Type == cell.Type {
				out = append(out, Violation{Kind: ViolationSelfAdjacency, Cells: []Point{p, n}})
			}
		}
	}
	return out
}

func checkForbiddenChains(g *Grid, cat *catalogue.Catalogue) []Violation {
	var out []Violation
	for _, center := range AllPoints() {
		cell := g.At(center)
		if !cell.InTemple {
			continue
		}
		conns := g.ConnectedNeighbors(cat, center)
		for i := 0; i < len(conns); i++ {
			for j := 0; j < len(conns); j++ {
				if i == j {
					continue
				}
				n1, n2 := conns[i], conns[j]
				t1, t2 := g.At(n1).Type, g.At(n2).Type
				for _, triple := range cat.ForbiddenChains() {
					if triple.B == cell.Type && triple.A == t1 && triple.C == t2 {
						out = append(out, Violation{Kind: ViolationForbiddenChain, Cells: []Point{n1, center, n2}})
					}
				}
			}
		}
	}
	return out
}

func checkAdjacencyCaps(g *Grid, cat *catalogue.Catalogue) []Violation {
	var out []Violation
	for _, cap := range cat.AdjacencyCaps() {
		for _, p := range AllPoints() {
			cell := g.At(p)
			if !cell.InTemple || cell.Type != cap.Parent {
				continue
			}
			count := 0
			for _, n := range g.ConnectedNeighbors(cat, p) {
				if g.At(n).Type == cap.Child {
					count++
				}
			}
			if count > cap.Max {
				out = append(out, Violation{Kind: ViolationAdjacencyCap, Cells: []Point{p}})
			}
		}
	}
	return out
}

func checkRequiresPathNeighbor(g *Grid, cat *catalogue.Catalogue) []Violation {
	var out []Violation
	for _, p := range AllPoints() {
		cell := g.At(p)
		if !cell.InTemple || !cat.RequiresPathNeighbor(cell.Type) {
			continue
		}
		hasPathNeighbor := false
		for _, n := range g.ConnectedNeighbors(cat, p) {
			if g.At(n).Type == catalogue.Path {
				hasPathNeighbor = true
				break
			}
		}
		if !hasPathNeighbor {
			out = append(out, Violation{Kind: ViolationMissingPathNeighbor, Cells: []Point{p}})
		}
	}
	return out
}

func checkUnique(g *Grid, cat *catalogue.Catalogue) []Violation {
	var out []Violation
	seen := make(map[catalogue.RoomType][]Point)
	for _, p := range AllPoints() {
		cell := g.At(p)
		if cell.InTemple && cat.Unique(cell.Type) {
			seen[cell.Type] = append(seen[cell.Type], p)
		}
	}
	for _, points := range seen {
		if len(points) > 1 {
			out = append(out, Violation{Kind: ViolationDuplicateUnique, Cells: points})
		}
	}
	return out
}

// checkSpymasterCommander enforces that Spymaster and
// Commander are never direct neighbors (already guaranteed by
// catalogue.Compatible returning false for that pair, but checked here
// too so Violations stays authoritative even if the catalogue changes),
// and any SPY-X-CMD length-2 path must run through a junction (X has
// total active-edge degree >= 3).
func checkSpymasterCommander(g *Grid, cat *catalogue.Catalogue) []Violation {
	var out []Violation
	cmd, spy := cat.DirectionalPair() // (Commander, Spymaster)
	for _, p := range AllPoints() {
		cell := g.At(p)
		if !cell.InTemple {
			continue
		}
		if cell.Type == spy || cell.Type == cmd {
			for _, n := range g.ConnectedNeighbors(cat, p) {
				other := g.At(n).Type
				if (cell.Type == spy && other == cmd) || (cell.Type == cmd && other == spy) {
					out = append(out, Violation{Kind: ViolationSpyCmdAdjacent, Cells: []Point{p, n}})
				}
			}
		}
		// length-2 SPY-X-CMD through this cell as X
		conns := g.ConnectedNeighbors(cat, p)
		for i := 0; i < len(conns); i++ {
			for j := i + 1; j < len(conns); j++ {
				t1, t2 := g.At(conns[i]).Type, g.At(conns[j]).Type
				isPattern := (t1 == spy && t2 == cmd) || (t1 == cmd && t2 == spy)
				if isPattern && g.Degree(cat, p) < 3 {
					out = append(out, Violation{Kind: ViolationSpyCmdJunction, Cells: []Point{conns[i], p, conns[j]}})
				}
			}
		}
	}
	return out
}
