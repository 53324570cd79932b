package search

import (
	"fmt"
	"sort"

	"github.com/sulozor/temple-solver/internal/catalogue"
	"github.com/sulozor/temple-solver/internal/model"
	"github.com/sulozor/temple-solver/internal/puzzle"
)

// ToPuzzleResult converts a driver's Result into the wire-level
// SolveResult, flattening the grid into the rooms/paths/edges arrays
// and attaching solver telemetry. Hints is the static feasibility
// pass's diagnostic output, attached verbatim on both success and
// failure. req, when non-nil, is consulted to report which optional
// pre-placements the solver chose to leave out.
func ToPuzzleResult(res Result, cat *catalogue.Catalogue, req *puzzle.SolveRequest, hints []string) puzzle.SolveResult {
	out := puzzle.SolveResult{
		Success: res.Best != nil,
		Optimal: res.Optimal && res.Best != nil,
		Stats: puzzle.Stats{
			NodesExplored:   res.NodesExplored,
			ElapsedMS:       res.Elapsed.Milliseconds(),
			DiagnosticHints: hints,
		},
	}
	if res.Best == nil {
		out.Error = "no feasible solution found within the time budget"
		if len(hints) > 0 {
			out.Error += "; likely cause: " + hints[0]
		}
		return out
	}
	flattenSolution(res.Best, cat, &out)
	if req != nil && !req.LockExisting {
		out.ExcludedRooms = excludedRooms(res.Best.Grid, req)
	}
	return out
}

// excludedRooms lists the optional existing_rooms entries the best
// layout left out of the temple entirely.
func excludedRooms(g *model.Grid, req *puzzle.SolveRequest) []string {
	var out []string
	for _, er := range req.ExistingRooms {
		p := model.Point{X: er.X, Y: er.Y}
		if !g.At(p).InTemple {
			out = append(out, fmt.Sprintf("%s at (%d,%d)", er.Type, er.X, er.Y))
		}
	}
	return out
}

// ToProgressResult converts one improving Solution streamed mid-search
// into the same wire shape, for the subprocess's NDJSON "progress"
// messages. It carries no Optimal/NodesExplored claim since the search
// is still running.
func ToProgressResult(sol Solution, cat *catalogue.Catalogue) puzzle.SolveResult {
	out := puzzle.SolveResult{Success: true}
	flattenSolution(&sol, cat, &out)
	return out
}

func flattenSolution(sol *Solution, cat *catalogue.Catalogue, out *puzzle.SolveResult) {
	out.Score = sol.Score
	out.Stats.DirectionalCheckedOK = sol.DirectionalOK
	for _, p := range sol.ViolatingPath {
		out.Stats.DirectionalViolation = append(out.Stats.DirectionalViolation, puzzle.Point{X: p.X, Y: p.Y})
	}

	nameFor := func(p model.Point) string {
		cell := sol.Grid.At(p)
		return sol.ChainNames[cell.ChainID]
	}

	for _, p := range model.AllPoints() {
		cell := sol.Grid.At(p)
		if !cell.InTemple || p == model.Foyer || p == sol.Grid.Architect {
			continue
		}
		switch cell.Type {
		case catalogue.Path:
			out.Paths = append(out.Paths, puzzle.PathOut{X: p.X, Y: p.Y, Chain: nameFor(p)})
		case catalogue.Empty:
			// unreachable: InTemple implies a typed or path room.
		default:
			out.Rooms = append(out.Rooms, puzzle.RoomOut{
				Type: cell.Type.String(), Tier: cell.Tier, X: p.X, Y: p.Y, Chain: nameFor(p),
			})
		}
	}

	seen := make(map[[2]model.Point]bool)
	for _, p := range model.AllPoints() {
		if !sol.Grid.At(p).InTemple {
			continue
		}
		for _, n := range sol.Grid.ConnectedNeighbors(cat, p) {
			a, b := p, n
			if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
				a, b = b, a
			}
			key := [2]model.Point{a, b}
			if seen[key] {
				continue
			}
			seen[key] = true
			out.Edges = append(out.Edges, puzzle.EdgeOut{
				From: puzzle.Point{X: a.X, Y: a.Y},
				To:   puzzle.Point{X: b.X, Y: b.Y},
			})
		}
	}

	names := make(map[string]bool)
	for _, n := range sol.ChainNames {
		names[n] = true
	}
	for n := range names {
		out.ChainNames = append(out.ChainNames, n)
	}
	sort.Strings(out.ChainNames)
}
