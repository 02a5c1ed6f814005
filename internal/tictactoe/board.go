package tictactoe

import (
	"fmt"
	"strings"
)

// Size is the side length of the board.
const Size = 3

// Cell is the content of one square of the board.
type Cell uint8

const (
	Empty Cell = iota
	MarkX
	MarkO
)

func (c Cell) String() string {
	switch c {
	case Empty:
		return ""
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return fmt.Sprintf("Cell(%d)", uint8(c))
	}
}

func (c Cell) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("invalid cell value %d", uint8(c))
	}

	return []byte(c.String()), nil
}

func (c *Cell) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*c = Empty
	case "X":
		*c = MarkX
	case "O":
		*c = MarkO
	default:
		return fmt.Errorf("unknown cell %q", text)
	}

	return nil
}

func (c Cell) valid() bool {
	return c <= MarkO
}

// Board is a 3x3 grid indexed [row][col]. It is a value type: copies never share cells.
type Board [Size][Size]Cell

// InRange reports whether (row, col) addresses a cell of the board.
func InRange(row, col int) bool {
	return row >= 0 && row < Size && col >= 0 && col < Size
}

// At returns the cell at (row, col). It panics on out-of-range coordinates.
func (b Board) At(row, col int) Cell {
	return b[row][col]
}

// With returns a copy of the board with (row, col) set to c.
func (b Board) With(row, col int, c Cell) Board {
	b[row][col] = c
	return b
}

// IsFull reports whether no empty cell remains.
func (b Board) IsFull() bool {
	for _, line := range b {
		for _, cell := range line {
			if cell == Empty {
				return false
			}
		}
	}

	return true
}

// IsEmpty reports whether every cell is empty.
func (b Board) IsEmpty() bool {
	return b == Board{}
}

// Count returns how many cells hold c.
func (b Board) Count(c Cell) int {
	n := 0
	for _, line := range b {
		for _, cell := range line {
			if cell == c {
				n++
			}
		}
	}

	return n
}

// WinsThrough reports whether the cell at (row, col) completes a line.
// Only the row, the column and the diagonals passing through the cell are inspected,
// a move can not complete any other line.
func (b Board) WinsThrough(row, col int) bool {
	mark := b[row][col]
	if mark == Empty {
		return false
	}

	if b[row][0] == mark && b[row][1] == mark && b[row][2] == mark {
		return true
	}

	if b[0][col] == mark && b[1][col] == mark && b[2][col] == mark {
		return true
	}

	if row == col && b[0][0] == mark && b[1][1] == mark && b[2][2] == mark {
		return true
	}

	if row+col == Size-1 && b[0][2] == mark && b[1][1] == mark && b[2][0] == mark {
		return true
	}

	return false
}

// HasLine reports whether mark owns any complete row, column or diagonal.
func (b Board) HasLine(mark Cell) bool {
	// every line of the board passes through one of the main diagonal cells
	for i := range Size {
		if b[i][i] == mark && b.WinsThrough(i, i) {
			return true
		}
	}

	return false
}

func (b Board) String() string {
	var sb strings.Builder
	for row, line := range b {
		if row > 0 {
			sb.WriteString("\n")
		}
		for _, cell := range line {
			if cell == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(cell.String())
		}
	}

	return sb.String()
}
