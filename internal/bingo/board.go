// internal/bingo/board.go
package bingo

import (
	"errors"
	"math/rand"
	"strings"
)

const (
	// Size is the board edge length. Boards are always Size x Size.
	Size = 5

	// FreeLabel is the fixed label of the center cell. The center is
	// considered marked on every board regardless of the player's marks.
	FreeLabel = "FREE"

	// CodeLength is the length of a shareable game code.
	CodeLength = 6

	cellCount = Size*Size - 1 // 24 word cells around the free center
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ErrInsufficientWords is returned by GenerateBoard when the word pool
// cannot fill the 24 non-free cells.
var ErrInsufficientWords = errors.New("bingo: word pool must contain at least 24 words")

// Board is a 5x5 grid of cell labels. Cell (2,2) always holds FreeLabel.
type Board [Size][Size]string

// Coord addresses a single cell as (row, col).
type Coord struct {
	Row int
	Col int
}

// center reports whether the coordinate is the free center cell.
func (c Coord) center() bool {
	return c.Row == Size/2 && c.Col == Size/2
}

// GenerateBoard builds a board from the given word pool: 24 words are
// drawn uniformly without replacement and laid out row-major around the
// free center. Every call shuffles independently, so two players in the
// same game get different boards from the same pool.
func GenerateBoard(pool []string) (Board, error) {
	var b Board
	if len(pool) < cellCount {
		return b, ErrInsufficientWords
	}

	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	idx := 0
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			if row == Size/2 && col == Size/2 {
				b[row][col] = FreeLabel
				continue
			}
			b[row][col] = shuffled[idx]
			idx++
		}
	}
	return b, nil
}

// HasBingo reports whether the marked set completes any of the 12 lines:
// 5 rows, 5 columns, or the 2 diagonals. A cell counts as marked if it is
// in the set or is the free center. Coordinates outside the board are
// ignored rather than treated as an error.
func (b Board) HasBingo(marked []Coord) bool {
	isMarked := func(row, col int) bool {
		if row == Size/2 && col == Size/2 {
			return true
		}
		for _, c := range marked {
			if c.Row == row && c.Col == col {
				return true
			}
		}
		return false
	}

	for row := 0; row < Size; row++ {
		count := 0
		for col := 0; col < Size; col++ {
			if isMarked(row, col) {
				count++
			}
		}
		if count == Size {
			return true
		}
	}

	for col := 0; col < Size; col++ {
		count := 0
		for row := 0; row < Size; row++ {
			if isMarked(row, col) {
				count++
			}
		}
		if count == Size {
			return true
		}
	}

	diag1, diag2 := 0, 0
	for i := 0; i < Size; i++ {
		if isMarked(i, i) {
			diag1++
		}
		if isMarked(i, Size-1-i) {
			diag2++
		}
	}
	return diag1 == Size || diag2 == Size
}

// GenerateCode returns a 6-character uppercase alphanumeric game code.
// Uniqueness is the caller's concern; collisions are retried at the
// creation boundary.
func GenerateCode() string {
	var sb strings.Builder
	sb.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		sb.WriteByte(codeAlphabet[rand.Intn(len(codeAlphabet))])
	}
	return sb.String()
}
