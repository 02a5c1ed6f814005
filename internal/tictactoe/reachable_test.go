package tictactoe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reachableStates walks every state legal play can produce from the initial state.
func reachableStates() []State {
	seen := map[State]bool{}
	var states []State

	var walk func(State)
	walk = func(state State) {
		if seen[state] {
			return
		}
		seen[state] = true
		states = append(states, state)

		for row := range Size {
			for col := range Size {
				if next, err := Play(state, row, col); err == nil {
					walk(next)
				}
			}
		}
	}

	initial := NewState()
	seen[initial] = true
	states = append(states, initial)
	walk(Start(initial))

	return states
}

func TestReachableStates(t *testing.T) {
	states := reachableStates()

	// the initial state plus the 5478 legal positions of the board
	require.Len(t, states, 5479)

	for _, state := range states {
		require.NoError(t, state.Validate(), "state:\n%s", state.Board)

		data, err := json.Marshal(state)
		require.NoError(t, err)

		var decoded State
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, state, decoded)

		for row := -1; row <= Size; row++ {
			for col := -1; col <= Size; col++ {
				next, err := Play(state, row, col)
				if err != nil {
					assert.Equal(t, state, next, "rejected move (%d,%d) changed the state", row, col)
				}
			}
		}
	}
}
