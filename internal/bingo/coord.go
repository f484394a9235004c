// internal/bingo/coord.go
package bingo

import (
	"encoding/json"
	"fmt"
)

// Coords are carried on the wire as two-element arrays, e.g. [[0,1],[4,4]],
// matching the markedCells payloads the web client sends.

// MarshalJSON encodes the coordinate as [row, col].
func (c Coord) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.Row, c.Col})
}

// UnmarshalJSON decodes a [row, col] pair.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("bingo: coord must have exactly 2 elements, got %d", len(pair))
	}
	c.Row, c.Col = pair[0], pair[1]
	return nil
}
