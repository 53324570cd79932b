package puzzle

import (
	"encoding/json"
	"fmt"
)

// Pair is a grid coordinate encoded on the wire as a bare two-element
// [x, y] array, the shape the architect and existing_paths fields use.
type Pair struct {
	X int
	Y int
}

// MarshalJSON encodes the pair as a two-element array.
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.X, p.Y})
}

// UnmarshalJSON decodes a two-element [x,y] array.
func (p *Pair) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("puzzle: expected [x,y] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("puzzle: expected [x,y] pair, got %d elements", len(pair))
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}
