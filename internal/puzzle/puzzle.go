// Package puzzle defines the wire-level data transfer objects for a
// solve: the inbound SolveRequest and its nested shapes, and the
// outbound SolveResult. Field names and JSON tags are chosen so the
// HTTP layer can (de)serialize a request/response with nothing more
// than encoding/json struct tags — the same flat-DTO style used for
// other wire types in this codebase.
package puzzle

import "github.com/sulozor/temple-solver/internal/catalogue"

// Point is a grid coordinate, (x, y), x and y both 1-indexed in 1..9.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ExistingRoom is a caller-supplied pre-placed room.
type ExistingRoom struct {
	Type string `json:"type"`
	Tier int    `json:"tier"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// ExistingPath is a caller-supplied pre-placed path tile, sharing
// Pair's bare [x, y] wire encoding.
type ExistingPath = Pair

// RoomCountRange is the optional {min?, max?} bound on a chain's
// membership count for one room type. A nil pointer means "unbounded
// on that side".
type RoomCountRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// ChainConfig describes one named per-chain constraint set.
type ChainConfig struct {
	Name         string                    `json:"name"`
	RoomTypes    []string                  `json:"roomTypes"`
	RoomCounts   map[string]RoomCountRange `json:"roomCounts,omitempty"`
	StartingRoom string                    `json:"startingRoom,omitempty"`
}

// SolveRequest is the decoded POST /solve body. The architect arrives
// as a bare [x,y] pair, matching the sharing format the web client
// already speaks.
type SolveRequest struct {
	Architect             Pair              `json:"architect"`
	MinSpymasters         int               `json:"min_spymasters,omitempty"`
	MinCorruptionChambers int               `json:"min_corruption_chambers,omitempty"`
	MaxPaths              int               `json:"max_paths,omitempty"`
	MaxEndpoints          int               `json:"max_endpoints,omitempty"`
	JunctionPenalty       int               `json:"junction_penalty,omitempty"`
	MaxNeighbors          int               `json:"max_neighbors,omitempty"`
	EmptyPenalty          int               `json:"empty_penalty,omitempty"`
	MaxTimeSeconds        int               `json:"max_time_seconds,omitempty"`
	SnakeMode             bool              `json:"snake_mode,omitempty"`
	LockExisting          bool              `json:"lock_existing,omitempty"`
	ExistingRooms         []ExistingRoom    `json:"existing_rooms,omitempty"`
	ExistingPaths         []ExistingPath    `json:"existing_paths,omitempty"`
	RoomValues            map[string][3]int `json:"room_values,omitempty"`
	Chains                []ChainConfig     `json:"chains,omitempty"`
}

// RoomOut is one typed room in a SolveResult.
type RoomOut struct {
	Type  string `json:"type"`
	Tier  int    `json:"tier"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Chain string `json:"chain,omitempty"`
}

// PathOut is one path tile in a SolveResult.
type PathOut struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Chain string `json:"chain,omitempty"`
}

// EdgeOut is one solution-graph edge in a SolveResult.
type EdgeOut struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Stats carries solver telemetry and the directional validator's
// verdict, present on every completed or timed-out solve.
type Stats struct {
	NodesExplored        int64    `json:"nodes_explored"`
	ElapsedMS            int64    `json:"elapsed_ms"`
	DirectionalCheckedOK bool     `json:"directional_checked_ok"`
	DirectionalViolation []Point  `json:"directional_violation,omitempty"`
	DiagnosticHints      []string `json:"diagnostic_hints,omitempty"`
}

// SolveResult is the body of a completed GET /job/{id} response once
// a solve has reached a terminal or best-so-far state.
type SolveResult struct {
	Success       bool      `json:"success"`
	Optimal       bool      `json:"optimal"`
	Score         int       `json:"score"`
	Rooms         []RoomOut `json:"rooms,omitempty"`
	Paths         []PathOut `json:"paths,omitempty"`
	Edges         []EdgeOut `json:"edges,omitempty"`
	Stats         Stats     `json:"stats"`
	ChainNames    []string  `json:"chain_names,omitempty"`
	ExcludedRooms []string  `json:"excluded_rooms,omitempty"`
	Error         string    `json:"error,omitempty"`
}

// RoomTypeOf resolves r's catalogue.RoomType, returning false if the
// wire string doesn't name a known room.
func (r ExistingRoom) RoomTypeOf() (catalogue.RoomType, bool) {
	return catalogue.ParseRoomType(r.Type)
}
