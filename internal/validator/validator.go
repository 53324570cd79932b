// Package validator implements the post-solve directional check: no
// Commander → … → Spymaster linear chain (degree-2 interiors) where
// the spymaster sits strictly farther from the foyer than the
// commander. Encoding "strictly farther along an arbitrarily long
// degree-2 chain" as constraint-model variables would need
// order-aware variables across arbitrarily many hops, so it is cheaper
// to check after the fact than to encode, using a real graph library
// rather than the solver's own ad hoc grid walk.
//
// Built on github.com/katalvlaran/lvlath: core.Graph holds the
// edge-induced solution graph and bfs.BFS does both walks this check
// needs — the foyer-distance labeling pass, and the restricted
// degree-2-chain walk from each commander.
package validator

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"

	"github.com/sulozor/temple-solver/internal/catalogue"
	"github.com/sulozor/temple-solver/internal/model"
)

// Result is the directional validator's verdict.
type Result struct {
	Valid bool
	// ViolatingPath is the Commander-to-Spymaster chain that broke the
	// rule, present only when Valid is false.
	ViolatingPath []model.Point
}

var errFoundSpymaster = errors.New("validator: reached spymaster through linear chain")

func vertexID(p model.Point) string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

func pointFromID(id string) model.Point {
	var p model.Point
	fmt.Sscanf(id, "%d,%d", &p.X, &p.Y)
	return p
}

// buildGraph materializes the edge-induced undirected graph of every
// in-temple cell in g.
func buildGraph(g *model.Grid, cat *catalogue.Catalogue) (*core.Graph, error) {
	graph := core.NewGraph()
	for _, p := range model.AllPoints() {
		if g.At(p).InTemple {
			if err := graph.AddVertex(vertexID(p)); err != nil {
				return nil, err
			}
		}
	}
	seen := make(map[[2]string]bool)
	for _, p := range model.AllPoints() {
		if !g.At(p).InTemple {
			continue
		}
		for _, n := range g.ConnectedNeighbors(cat, p) {
			a, b := vertexID(p), vertexID(n)
			key := [2]string{a, b}
			if a > b {
				key = [2]string{b, a}
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			// The graph is unweighted (bfs.BFS refuses weighted graphs),
			// so the edge weight must stay 0.
			if _, err := graph.AddEdge(a, b, 0); err != nil {
				return nil, err
			}
		}
	}
	return graph, nil
}

// Validate runs the directional check over g and returns its verdict.
// A grid with no in-temple cells, or no Commander cells, is
// trivially valid.
func Validate(g *model.Grid, cat *catalogue.Catalogue) Result {
	graph, err := buildGraph(g, cat)
	if err != nil {
		// A malformed graph can't be validated; treat conservatively as
		// a failure so the caller never streams a solution no one checked.
		return Result{Valid: false}
	}
	if !graph.HasVertex(vertexID(model.Foyer)) {
		return Result{Valid: true}
	}

	foyerRes, err := bfs.BFS(graph, vertexID(model.Foyer))
	if err != nil {
		return Result{Valid: false}
	}

	degree := make(map[string]int, len(foyerRes.Depth))
	for id := range foyerRes.Depth {
		neighbors, err := graph.NeighborIDs(id)
		if err != nil {
			return Result{Valid: false}
		}
		degree[id] = len(neighbors)
	}

	for _, p := range model.AllPoints() {
		cell := g.At(p)
		if !cell.InTemple || cell.Type != catalogue.Commander {
			continue
		}
		cmdID := vertexID(p)
		cmdDist, ok := foyerRes.Depth[cmdID]
		if !ok {
			continue
		}

		chainNeighbor := func(curr, neighbor string) bool {
			if foyerRes.Depth[neighbor] <= foyerRes.Depth[curr] {
				return false
			}
			if g.At(pointFromID(neighbor)).Type == catalogue.Spymaster {
				return true
			}
			return degree[neighbor] == 2
		}

		var foundAt string
		_, walkErr := bfs.BFS(graph, cmdID,
			bfs.WithFilterNeighbor(chainNeighbor),
			bfs.WithOnVisit(func(id string, depth int) error {
				if depth == 0 {
					return nil
				}
				if g.At(pointFromID(id)).Type == catalogue.Spymaster && foyerRes.Depth[id] > cmdDist {
					foundAt = id
					return errFoundSpymaster
				}
				return nil
			}),
		)

		if walkErr != nil && errors.Is(walkErr, errFoundSpymaster) {
			path, pathErr := reconstructPath(graph, cmdID, foundAt, chainNeighbor)
			if pathErr != nil {
				path = []model.Point{p, pointFromID(foundAt)}
			}
			return Result{Valid: false, ViolatingPath: path}
		}
	}

	return Result{Valid: true}
}

// reconstructPath re-walks the restricted chain to recover the actual
// violating Commander-to-Spymaster hops, rather than whatever shortest
// route the unrestricted graph might offer.
func reconstructPath(graph *core.Graph, start, dest string, filter func(curr, neighbor string) bool) ([]model.Point, error) {
	res, err := bfs.BFS(graph, start, bfs.WithFilterNeighbor(filter))
	if err != nil {
		return nil, err
	}
	ids, err := res.PathTo(dest)
	if err != nil {
		return nil, err
	}
	out := make([]model.Point, len(ids))
	for i, id := range ids {
		out[i] = pointFromID(id)
	}
	return out, nil
}
