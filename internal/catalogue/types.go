// Package catalogue holds the static, immutable rule tables that define
// what a temple layout is allowed to look like: the room-type
// enumeration, tier values, pairwise adjacency compatibility, forbidden
// chain patterns, per-type adjacency caps, and the handful of named
// room sets (requires-path-neighbor, no-self-adjacency, unique).
//
// Every table here is read-only after construction. Nothing in this
// package mutates a Catalogue once New returns it.
package catalogue

// RoomType enumerates every cell type a temple grid can contain.
type RoomType int

// The sixteen room types, in the same order the Sulozor sharing
// format's room index uses, so catalogue tables read naturally against
// that reference.
const (
	Empty RoomType = iota
	Path
	Spymaster
	Garrison
	LegionBarracks
	Commander
	Armoury
	CorruptionChamber
	Thaumaturge
	SacrificialChamber
	AlchemyLab
	GolemWorks
	Smithy
	Generator
	FleshSurgeon
	Synthflesh
)

// NumRoomTypes is the size of the RoomType enumeration.
const NumRoomTypes = int(Synthflesh) + 1

// allTypeNames indexes RoomType -> display name.
var allTypeNames = [NumRoomTypes]string{
	Empty:              "Empty",
	Path:               "Path",
	Spymaster:          "Spymaster",
	Garrison:           "Garrison",
	LegionBarracks:     "LegionBarracks",
	Commander:          "Commander",
	Armoury:            "Armoury",
	CorruptionChamber:  "CorruptionChamber",
	Thaumaturge:        "Thaumaturge",
	SacrificialChamber: "SacrificialChamber",
	AlchemyLab:         "AlchemyLab",
	GolemWorks:         "GolemWorks",
	Smithy:             "Smithy",
	Generator:          "Generator",
	FleshSurgeon:       "FleshSurgeon",
	Synthflesh:         "Synthflesh",
}

// String implements fmt.Stringer, in the same bounds-checked
// enum-to-name style used for other constraint-kind enums.
func (t RoomType) String() string {
	if t < 0 || int(t) >= NumRoomTypes {
		return "Unknown(RoomType)"
	}
	return allTypeNames[t]
}

// Valid reports whether t is one of the sixteen known room types.
func (t RoomType) Valid() bool {
	return t >= Empty && int(t) < NumRoomTypes
}

// Typed reports whether t is one of the fourteen rooms with a tier
// (i.e. neither Empty nor Path).
func (t RoomType) Typed() bool {
	return t >= Spymaster && int(t) < NumRoomTypes
}

// ParseRoomType looks up a RoomType by its display name, as used when
// decoding a SolveRequest's existing_rooms or room_values keys.
func ParseRoomType(name string) (RoomType, bool) {
	for i, n := range allTypeNames {
		if n == name {
			return RoomType(i), true
		}
	}
	return Empty, false
}

// AdjacencyTriple is a forbidden length-3 chain pattern (A,B,C): no
// cell of type B may have two connected neighbors of types A and C.
type AdjacencyTriple struct {
	A, B, C RoomType
}

// AdjacencyCap bounds how many neighbors of ChildType a cell of
// ParentType may have.
type AdjacencyCap struct {
	Parent, Child RoomType
	Max           int
}
