// Package model holds the in-process representation of a candidate
// temple layout — the 9×9 grid of cells, its derived solution graph,
// and the violation checks that realize the layout's solution-graph
// invariants. It is consumed by both the branch-and-bound solver (to
// score and prune partial assignments) and the post-solve directional
// validator.
package model

import "github.com/sulozor/temple-solver/internal/catalogue"

// Size is the grid's fixed width and height in cells.
const Size = 9

// Foyer is the puzzle's fixed connectivity root, 1-indexed.
var Foyer = Point{X: 5, Y: 1}

// Point is a 1-indexed grid coordinate, x and y both in 1..9.
type Point struct {
	X, Y int
}

// InBounds reports whether p lies within the 9×9 grid.
func (p Point) InBounds() bool {
	return p.X >= 1 && p.X <= Size && p.Y >= 1 && p.Y <= Size
}

// Cell is one grid position's assignment: a room type, its tier, and
// whether it participates in the solution at all. The three fields
// must satisfy the empty/tier/path coupling invariant; Set enforces
// the Empty half of it (Empty or out-of-temple means tier 0 and not in
// temple) and stores any other tier as given.
type Cell struct {
	Type     catalogue.RoomType
	Tier     int
	InTemple bool
	ChainID  int // ChainUnion.Labels id, numbered from 0; cells in no chain (foyer, architect, out-of-temple) also hold 0
}

// Grid is the full 81-cell board plus the fixed architect position for
// this request. Architect defaults to the zero Point until Architect
// is set by the caller (the model builder always sets it before use).
type Grid struct {
	Cells     [Size + 1][Size + 1]Cell // 1-indexed; row/col 0 unused
	Architect Point
}

// NewGrid returns an all-Empty grid with foyer and architect pinned as
// path tiles, as every candidate layout requires.
func NewGrid(architect Point) *Grid {
	g := &Grid{Architect: architect}
	g.Set(Foyer, catalogue.Path, 1, true)
	if architect.InBounds() {
		g.Set(architect, catalogue.Path, 1, true)
	}
	return g
}

// Set assigns a cell, keeping the type/tier/in_temple coupling
// consistent: placing Empty forces tier 0 and in_temple false,
// regardless of the tier argument.
func (g *Grid) Set(p Point, t catalogue.RoomType, tier int, inTemple bool) {
	if !p.InBounds() {
		return
	}
	if t == catalogue.Empty || !inTemple {
		g.Cells[p.X][p.Y] = Cell{Type: catalogue.Empty, Tier: 0, InTemple: false}
		return
	}
	g.Cells[p.X][p.Y] = Cell{Type: t, Tier: tier, InTemple: true}
}

// At returns the cell at p, or the zero Cell if p is out of bounds.
func (g *Grid) At(p Point) Cell {
	if !p.InBounds() {
		return Cell{}
	}
	return g.Cells[p.X][p.Y]
}

// Neighbors returns the up-to-4 orthogonal grid-neighbor positions of
// p that lie within bounds.
func Neighbors(p Point) []Point {
	candidates := [4]Point{
		{X: p.X - 1, Y: p.Y},
		{X: p.X + 1, Y: p.Y},
		{X: p.X, Y: p.Y - 1},
		{X: p.X, Y: p.Y + 1},
	}
	out := make([]Point, 0, 4)
	for _, c := range candidates {
		if c.InBounds() {
			out = append(out, c)
		}
	}
	return out
}

// Connected reports whether p and q are both in-temple, are grid
// neighbors, and have catalogue-compatible types — the rule that
// determines whether an edge exists between them.
func (g *Grid) Connected(cat *catalogue.Catalogue, p, q Point) bool {
	a, b := g.At(p), g.At(q)
	if !a.InTemple || !b.InTemple {
		return false
	}
	if abs(p.X-q.X)+abs(p.Y-q.Y) != 1 {
		return false
	}
	return cat.Compatible(a.Type, b.Type)
}

// ConnectedNeighbors returns the subset of Neighbors(p) connected to p.
func (g *Grid) ConnectedNeighbors(cat *catalogue.Catalogue, p Point) []Point {
	var out []Point
	for _, n := range Neighbors(p) {
		if g.Connected(cat, p, n) {
			out = append(out, n)
		}
	}
	return out
}

// Degree returns the number of active edges incident to p.
func (g *Grid) Degree(cat *catalogue.Catalogue, p Point) int {
	return len(g.ConnectedNeighbors(cat, p))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// AllPoints returns every in-bounds grid position in row-major order.
func AllPoints() []Point {
	out := make([]Point, 0, Size*Size)
	for x := 1; x <= Size; x++ {
		for y := 1; y <= Size; y++ {
			out = append(out, Point{X: x, Y: y})
		}
	}
	return out
}
