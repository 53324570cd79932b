package puzzle

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sulozor/temple-solver/internal/catalogue"
)

func TestExistingPathRoundTrip(t *testing.T) {
	p := ExistingPath{X: 3, Y: 7}
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Equal(t, "[3,7]", string(data))

	var got ExistingPath
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, p, got)
}

func TestExistingPathArrayRoundTrip(t *testing.T) {
	in := []ExistingPath{{X: 0, Y: 0}, {X: 8, Y: 8}}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out []ExistingPath
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestExistingPathBadShape(t *testing.T) {
	var p ExistingPath
	err := json.Unmarshal([]byte(`[1,2,3]`), &p)
	assert.Error(t, err)
}

func TestSolveRequestUnmarshal(t *testing.T) {
	body := `{
		"architect": [5,2],
		"min_spymasters": 1,
		"existing_rooms": [{"type":"Garrison","tier":3,"x":5,"y":2}],
		"existing_paths": [[5,1]],
		"room_values": {"Spymaster":[4,8,13]},
		"chains": [{"name":"west","roomTypes":["Garrison","LegionBarracks"]}]
	}`
	var req SolveRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, Pair{X: 5, Y: 2}, req.Architect)
	assert.Equal(t, 1, req.MinSpymasters)
	require.Len(t, req.ExistingRooms, 1)
	assert.Equal(t, "Garrison", req.ExistingRooms[0].Type)
	require.Len(t, req.ExistingPaths, 1)
	assert.Equal(t, ExistingPath{X: 5, Y: 1}, req.ExistingPaths[0])
	assert.Equal(t, [3]int{4, 8, 13}, req.RoomValues["Spymaster"])
	require.Len(t, req.Chains, 1)
	assert.Equal(t, "west", req.Chains[0].Name)
}

func TestExistingRoomRoomTypeOf(t *testing.T) {
	r := ExistingRoom{Type: "Garrison"}
	rt, ok := r.RoomTypeOf()
	require.True(t, ok)
	assert.Equal(t, catalogue.Garrison, rt)

	bad := ExistingRoom{Type: "NotARoom"}
	_, ok = bad.RoomTypeOf()
	assert.False(t, ok)
}

func TestSolveResultMarshal(t *testing.T) {
	res := SolveResult{
		Success: true,
		Optimal: true,
		Score:   42,
		Rooms:   []RoomOut{{Type: "Spymaster", Tier: 3, X: 1, Y: 1}},
		Stats:   Stats{NodesExplored: 10, DirectionalCheckedOK: true},
	}
	data, err := json.Marshal(res)
	require.NoError(t, err)
	var round SolveResult
	require.NoError(t, json.Unmarshal(data, &round))
	assert.Equal(t, res, round)
}
