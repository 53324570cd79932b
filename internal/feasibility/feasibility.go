// Package feasibility implements a cheap static pre-check: a pure
// analyzer over a SolveRequest that produces human-readable diagnostic
// hints when the problem looks infeasible, run before the expensive
// search and attached to error responses.
//
// Each check is a small, self-contained pure function over the
// request struct returning a diagnostic hint, in the same per-concern
// "*_analysis.go" shape used for other single-purpose analyzers in
// this codebase, generalized here to one analyzer covering all eight
// checks a SolveRequest needs.
package feasibility

import (
	"fmt"

	"github.com/sulozor/temple-solver/internal/catalogue"
	"github.com/sulozor/temple-solver/internal/model"
	"github.com/sulozor/temple-solver/internal/puzzle"
)

// Check runs every static analysis over req and returns the
// diagnostic hints found. An empty result does not prove
// the request is solvable — only that this cheap pass found no
// blocker.
func Check(req *puzzle.SolveRequest, cat *catalogue.Catalogue) []string {
	var hints []string

	hints = append(hints, checkPathNeighborVsMaxPaths(req, cat)...)
	hints = append(hints, checkMinimumCountsVsCapacity(req)...)
	hints = append(hints, checkArchitectOnGrid(req)...)
	hints = append(hints, checkArchitectDistanceToExisting(req)...)
	hints = append(hints, checkLockedMinimumsVsRemainingCapacity(req)...)
	hints = append(hints, checkMultipleUniquePrePlaced(req, cat)...)
	hints = append(hints, checkLockedSelfAdjacency(req, cat)...)
	hints = append(hints, checkLockedDisconnected(req)...)

	return hints
}

// (a) max_paths = 0 with a locked room that requires a path neighbor:
// the only path tiles that can ever exist are the fixed
// foyer/architect ones and any locked existing paths, so a locked
// room of a requires-path-neighbor type sitting next to none of those
// can never be satisfied.
func checkPathNeighborVsMaxPaths(req *puzzle.SolveRequest, cat *catalogue.Catalogue) []string {
	if req.MaxPaths != 0 || !req.LockExisting {
		return nil
	}
	pathTiles := map[model.Point]bool{
		model.Foyer: true,
		{X: req.Architect.X, Y: req.Architect.Y}: true,
	}
	for _, ep := range req.ExistingPaths {
		pathTiles[model.Point{X: ep.X, Y: ep.Y}] = true
	}

	var hints []string
	for _, er := range req.ExistingRooms {
		rt, ok := catalogue.ParseRoomType(er.Type)
		if !ok || !cat.RequiresPathNeighbor(rt) {
			continue
		}
		p := model.Point{X: er.X, Y: er.Y}
		satisfiable := false
		for _, n := range model.Neighbors(p) {
			if pathTiles[n] {
				satisfiable = true
				break
			}
		}
		if !satisfiable {
			hints = append(hints, fmt.Sprintf(
				"%s at (%d,%d) requires a Path neighbor but max_paths=0 leaves no path tile to place beside it",
				rt, p.X, p.Y))
		}
	}
	return hints
}

// (b) minimum counts versus capacity: the grid only has 79 free cells
// once foyer and architect are pinned, and snake mode roughly halves
// that (a single winding corridor spends about one cell of path per
// typed room it threads past).
func checkMinimumCountsVsCapacity(req *puzzle.SolveRequest) []string {
	free := model.Size*model.Size - 2 // minus foyer, architect
	needed := req.MinSpymasters + req.MinCorruptionChambers
	if needed > free {
		return []string{fmt.Sprintf(
			"requested minimums (%d) exceed the grid's %d-cell room capacity", needed, free)}
	}
	if req.SnakeMode {
		snakeCapacity := free / 2
		if needed > snakeCapacity {
			return []string{fmt.Sprintf(
				"snake_mode halves usable room capacity to ~%d cells; requested minimums (%d) may not fit",
				snakeCapacity, needed)}
		}
	}
	return nil
}

// (c) architect off-grid.
func checkArchitectOnGrid(req *puzzle.SolveRequest) []string {
	p := model.Point{X: req.Architect.X, Y: req.Architect.Y}
	if !p.InBounds() {
		return []string{fmt.Sprintf("architect position (%d,%d) is outside the 9x9 grid", p.X, p.Y)}
	}
	return nil
}

// (d) architect Manhattan-distance to nearest existing cell exceeds
// max_paths + 1 when existing rooms are locked: even a straight run of
// path tiles can't bridge the gap within the path budget.
func checkArchitectDistanceToExisting(req *puzzle.SolveRequest) []string {
	if !req.LockExisting || len(req.ExistingRooms) == 0 {
		return nil
	}
	arch := model.Point{X: req.Architect.X, Y: req.Architect.Y}
	best := -1
	for _, er := range req.ExistingRooms {
		d := abs(arch.X-er.X) + abs(arch.Y-er.Y)
		if best == -1 || d < best {
			best = d
		}
	}
	if best > req.MaxPaths+1 {
		return []string{fmt.Sprintf(
			"architect is %d cells from the nearest locked existing room, but max_paths=%d only bridges %d",
			best, req.MaxPaths, req.MaxPaths+1)}
	}
	return nil
}

// (e) locked minimums already impossible given remaining empty cells.
func checkLockedMinimumsVsRemainingCapacity(req *puzzle.SolveRequest) []string {
	if !req.LockExisting {
		return nil
	}
	used := len(req.ExistingRooms) + len(req.ExistingPaths) + 2 // + foyer, architect
	remaining := model.Size*model.Size - used
	needed := req.MinSpymasters + req.MinCorruptionChambers
	if needed > remaining {
		return []string{fmt.Sprintf(
			"only %d cells remain unlocked, but minimum counts require %d more typed rooms", remaining, needed)}
	}
	return nil
}

// (f) more than one unique room pre-placed.
func checkMultipleUniquePrePlaced(req *puzzle.SolveRequest, cat *catalogue.Catalogue) []string {
	var hints []string
	counts := make(map[catalogue.RoomType]int)
	for _, er := range req.ExistingRooms {
		rt, ok := catalogue.ParseRoomType(er.Type)
		if !ok {
			continue
		}
		counts[rt]++
	}
	for rt, n := range counts {
		if cat.Unique(rt) && n > 1 {
			hints = append(hints, fmt.Sprintf("%s is unique but %d instances are pre-placed", rt, n))
		}
	}
	return hints
}

// (g) locked self-adjacency violations already present in the
// supplied existing rooms.
func checkLockedSelfAdjacency(req *puzzle.SolveRequest, cat *catalogue.Catalogue) []string {
	if !req.LockExisting {
		return nil
	}
	type placed struct {
		p  model.Point
		rt catalogue.RoomType
	}
	var rooms []placed
	for _, er := range req.ExistingRooms {
		rt, ok := catalogue.ParseRoomType(er.Type)
		if !ok {
			continue
		}
		rooms = append(rooms, placed{p: model.Point{X: er.X, Y: er.Y}, rt: rt})
	}

	var hints []string
	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			a, b := rooms[i], rooms[j]
			if !cat.NoSelfAdjacency(a.rt) || a.rt != b.rt {
				continue
			}
			if abs(a.p.X-b.p.X)+abs(a.p.Y-b.p.Y) == 1 {
				hints = append(hints, fmt.Sprintf(
					"locked %s at (%d,%d) and (%d,%d) are adjacent but self-adjacency is forbidden",
					a.rt, a.p.X, a.p.Y, b.p.X, b.p.Y))
			}
		}
	}
	return hints
}

// (h) locked inputs disconnected from the foyer: flags every locked
// existing room that has neither a fixed cell (foyer, architect) nor a
// locked existing path directly beside it. Connections through other
// locked rooms or through newly placed paths are not considered.
func checkLockedDisconnected(req *puzzle.SolveRequest) []string {
	if !req.LockExisting {
		return nil
	}
	bridge := make(map[model.Point]bool)
	bridge[model.Foyer] = true
	bridge[model.Point{X: req.Architect.X, Y: req.Architect.Y}] = true
	for _, ep := range req.ExistingPaths {
		bridge[model.Point{X: ep.X, Y: ep.Y}] = true
	}

	var hints []string
	for _, er := range req.ExistingRooms {
		p := model.Point{X: er.X, Y: er.Y}
		reachable := false
		for b := range bridge {
			if abs(p.X-b.X)+abs(p.Y-b.Y) <= 1 {
				reachable = true
				break
			}
		}
		if !reachable {
			hints = append(hints, fmt.Sprintf(
				"locked room at (%d,%d) has no locked path or fixed cell adjacent to it", p.X, p.Y))
		}
	}
	return hints
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
