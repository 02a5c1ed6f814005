package tictactoe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_WinsThrough(t *testing.T) {
	tests := []struct {
		name     string
		board    Board
		row, col int
		want     bool
	}{
		{
			name:  "Empty cell never wins",
			board: Board{},
			row: 1, col: 1,
			want: false,
		},
		{
			name: "Row through the cell",
			board: Board{
				{Empty, Empty, Empty},
				{MarkO, MarkO, MarkO},
				{MarkX, Empty, MarkX},
			},
			row: 1, col: 2,
			want: true,
		},
		{
			name: "Column through the cell",
			board: Board{
				{Empty, Empty, MarkX},
				{MarkO, Empty, MarkX},
				{MarkO, Empty, MarkX},
			},
			row: 0, col: 2,
			want: true,
		},
		{
			name: "Anti diagonal through the center",
			board: Board{
				{Empty, Empty, MarkX},
				{MarkO, MarkX, Empty},
				{MarkX, MarkO, Empty},
			},
			row: 1, col: 1,
			want: true,
		},
		{
			name: "Line elsewhere on the board is not seen from an unrelated cell",
			board: Board{
				{MarkX, MarkX, MarkX},
				{MarkO, MarkO, Empty},
				{Empty, Empty, MarkO},
			},
			row: 2, col: 2,
			want: false,
		},
		{
			name: "Edge cell is not on a diagonal",
			board: Board{
				{MarkX, MarkO, Empty},
				{MarkO, MarkX, Empty},
				{Empty, MarkO, MarkX},
			},
			row: 2, col: 1,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.board.WinsThrough(tt.row, tt.col))
		})
	}
}

func TestBoard_HasLine(t *testing.T) {
	// Given: a board where O owns the last column
	board := Board{
		{MarkX, MarkX, MarkO},
		{Empty, MarkX, MarkO},
		{Empty, Empty, MarkO},
	}

	// Then: O has a line and X does not
	assert.True(t, board.HasLine(MarkO))
	assert.False(t, board.HasLine(MarkX))
}

func TestBoard_With(t *testing.T) {
	// Given: a board with one mark
	original := Board{}.With(0, 0, MarkX)

	// When: a new board is derived from it
	derived := original.With(2, 2, MarkO)

	// Then: the original is untouched
	assert.Equal(t, Empty, original.At(2, 2))
	assert.Equal(t, MarkO, derived.At(2, 2))
	assert.Equal(t, MarkX, derived.At(0, 0))
	assert.Equal(t, 1, original.Count(MarkX))
	assert.False(t, derived.IsFull())
}

func TestBoard_String(t *testing.T) {
	board := Board{}.With(0, 0, MarkX).With(1, 1, MarkO)

	assert.Equal(t, "X..\n.O.\n...", board.String())
}

func TestState_JSON(t *testing.T) {
	t.Run("Won game carries the winner", func(t *testing.T) {
		// Given: a game won by X on the top row
		controller := startedController()
		state := playAll(t, controller, move{0, 0}, move{1, 0}, move{0, 1}, move{1, 1}, move{0, 2})

		// When: the snapshot is encoded
		data, err := json.Marshal(state)
		require.NoError(t, err)

		// Then: cells, phase, active player and winner use their names
		assert.JSONEq(t, `{
			"board": [["X","X","X"],["O","O",""],["","",""]],
			"active_player": "X",
			"phase": "won",
			"winner": "X"
		}`, string(data))

		// And: decoding gives back the same snapshot
		var decoded State
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, state, decoded)
	})

	t.Run("Game in progress has no winner field", func(t *testing.T) {
		// Given: a fresh started game
		state := Start(NewState())

		// When: the snapshot is encoded
		data, err := json.Marshal(state)
		require.NoError(t, err)

		// Then: there is no winner
		assert.NotContains(t, string(data), "winner")
		assert.Contains(t, string(data), `"phase":"in_progress"`)
	})

	t.Run("Unknown phase is refused", func(t *testing.T) {
		var decoded State
		err := json.Unmarshal([]byte(`{"board":[["","",""],["","",""],["","",""]],"active_player":"X","phase":"paused"}`), &decoded)

		require.Error(t, err)
	})
}
