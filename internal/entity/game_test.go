package entity

import (
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func wonByX(t *testing.T) tictactoe.State {
	t.Helper()

	state := tictactoe.Start(tictactoe.NewState())
	for _, m := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}} {
		var err error
		state, err = tictactoe.Play(state, m[0], m[1])
		require.NoError(t, err)
	}

	return state
}

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsWaiting returns true for a new game", func(t *testing.T) {
		// Given: a new game
		game := NewGame("123", now)

		// Then: it is waiting to be started
		assert.True(t, game.IsWaiting())
		assert.False(t, game.IsFinished())
	})

	t.Run("Started game is neither waiting nor finished", func(t *testing.T) {
		// Given: a started game
		game := NewGame("123", now)
		game.State = tictactoe.Start(game.State)

		// Then: it is in play
		assert.False(t, game.IsWaiting())
		assert.False(t, game.IsFinished())
	})

	t.Run("IsFinished returns true after a win", func(t *testing.T) {
		// Given: a won game
		game := NewGame("123", now)
		game.State = wonByX(t)

		// Then: it is finished
		assert.True(t, game.IsFinished())
	})
}

func TestGame_Apply(t *testing.T) {
	t.Run("Reports the move that finishes the game", func(t *testing.T) {
		// Given: a started game
		game := NewGame("123", now)
		game.State = tictactoe.Start(game.State)
		later := now.Add(time.Minute)

		// When: a winning snapshot is applied
		finished := game.Apply(wonByX(t), later)

		// Then: the game is reported as just finished
		assert.True(t, finished)
		assert.Equal(t, later, game.UpdatedAt)
		assert.Equal(t, now, game.CreatedAt)
	})

	t.Run("Does not report a game that was already finished", func(t *testing.T) {
		// Given: a won game
		game := NewGame("123", now)
		game.State = wonByX(t)

		// When: the same snapshot is applied again
		finished := game.Apply(game.State, now)

		// Then: nothing new finished
		assert.False(t, finished)
	})
}

func TestNewResult(t *testing.T) {
	t.Run("Win records the winner", func(t *testing.T) {
		// Given: a won game
		game := NewGame("123", now)
		game.Apply(wonByX(t), now)

		// When: the result is built
		result, ok := NewResult(game)

		// Then: the result names X as the winner after five moves
		require.True(t, ok)
		assert.Equal(t, &Result{GameID: "123", Round: 1, Outcome: OutcomeWon, Winner: "X", Moves: 5, FinishedAt: now}, result)
	})

	t.Run("Open game has no result", func(t *testing.T) {
		// Given: a new game
		game := NewGame("123", now)

		// When: the result is built
		result, ok := NewResult(game)

		// Then: there is none
		assert.False(t, ok)
		assert.Nil(t, result)
	})
}

func TestGame_Reset(t *testing.T) {
	// Given: a won game in its first round
	game := NewGame("123", now)
	game.Apply(wonByX(t), now)
	later := now.Add(time.Minute)

	// When: the game is reset
	game.Reset(tictactoe.Reset(), later)

	// Then: a new round starts from a fresh state
	assert.Equal(t, 2, game.Round)
	assert.Equal(t, tictactoe.NewState(), game.State)
	assert.Equal(t, later, game.UpdatedAt)
	assert.True(t, game.IsWaiting())
}
