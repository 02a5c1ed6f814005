package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
)

// Start moves a not started game into play. Any other state is returned untouched.
func Start(state State) State {
	if state.Phase == NotStarted {
		state.Phase = InProgress
	}

	return state
}

// Play puts the active player's mark on (row, col) and evaluates the result.
// On rejection the given state is returned as is together with the reason.
func Play(state State, row, col int) (State, error) {
	if !InRange(row, col) {
		return state, fmt.Errorf("%w: (%d,%d)", apperror.ErrInvalidCell, row, col)
	}

	if state.Phase != InProgress {
		return state, fmt.Errorf("%w: phase is %s", apperror.ErrGameNotInProgress, state.Phase)
	}

	if state.Board.At(row, col) != Empty {
		return state, fmt.Errorf("%w: (%d,%d) holds %s", apperror.ErrCellOccupied, row, col, state.Board.At(row, col))
	}

	next := state
	next.Board = state.Board.With(row, col, state.Active.Mark())

	// win is checked before draw: completing a line with the last empty cell is a win
	switch {
	case next.Board.WinsThrough(row, col):
		next.Phase = Won
	case next.Board.IsFull():
		next.Phase = Drawn
	default:
		next.Active = state.Active.Other()
	}

	return next, nil
}

// Reset returns a fresh initial state.
func Reset() State {
	return NewState()
}

// Controller owns the state of a single game and is the only writer of it.
// It is not safe for concurrent use, hosts must serialize calls per game.
type Controller struct {
	state State
}

func NewController() *Controller {
	return &Controller{state: NewState()}
}

// Restore - rebuilds a controller from a persisted snapshot.
func Restore(state State) (*Controller, error) {
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("failed to restore game: %w", err)
	}

	return &Controller{state: state}, nil
}

// State returns a snapshot of the current game.
func (that *Controller) State() State {
	return that.state
}

// StartGame begins the game. Redundant calls are ignored.
func (that *Controller) StartGame() State {
	that.state = Start(that.state)
	return that.state
}

// Play makes a move for the active player. A rejected move leaves the game unchanged.
func (that *Controller) Play(row, col int) (State, error) {
	next, err := Play(that.state, row, col)
	if err != nil {
		return that.state, err
	}

	that.state = next

	return that.state, nil
}

// ResetGame discards the current game and starts over from the initial state.
func (that *Controller) ResetGame() State {
	that.state = Reset()
	return that.state
}
