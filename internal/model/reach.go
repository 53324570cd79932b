package model

import "github.com/sulozor/temple-solver/internal/catalogue"

// Unreached marks a cell not reachable from the foyer through active
// edges — the sentinel value for cells outside the temple, and for any
// in-temple cell that genuinely fails to connect (a candidate the
// solver should never let survive, but the feasibility pre-check and
// tests need to recognize the broken case too).
const Unreached = -1

// ReachDist runs a breadth-first search from the foyer over the
// grid's active edges and returns each cell's hop distance. Cells
// outside the temple, and any in-temple cell the BFS never reaches,
// get Unreached. The frontier walk follows the standard BFS queue
// shape, inlined here because the solver needs distances keyed by
// Point rather than string vertex IDs.
func ReachDist(g *Grid, cat *catalogue.Catalogue) map[Point]int {
	dist := make(map[Point]int, Size*Size)
	for _, p := range AllPoints() {
		dist[p] = Unreached
	}

	frontier := []Point{Foyer}
	dist[Foyer] = 0
	for len(frontier) > 0 {
		next := make([]Point, 0, len(frontier))
		for _, p := range frontier {
			for _, n := range g.ConnectedNeighbors(cat, p) {
				if dist[n] != Unreached {
					continue
				}
				dist[n] = dist[p] + 1
				next = append(next, n)
			}
		}
		frontier = next
	}
	return dist
}

// AllReachable reports whether every in-temple cell is reachable from
// the foyer.
func AllReachable(g *Grid, cat *catalogue.Catalogue) bool {
	dist := ReachDist(g, cat)
	for _, p := range AllPoints() {
		if g.At(p).InTemple && dist[p] == Unreached {
			return false
		}
	}
	return true
}
