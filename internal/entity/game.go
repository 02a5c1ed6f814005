package entity

import (
	"time"

	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
)

// Game is one hosted session: an identifier plus the controller snapshot it owns.
type Game struct {
	ID        string          `json:"id"`
	Round     int             `json:"round"`
	State     tictactoe.State `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewGame(id string, now time.Time) *Game {
	return &Game{
		ID:        id,
		Round:     1,
		State:     tictactoe.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *Game) IsFinished() bool {
	return that.State.Phase.IsTerminal()
}

func (that *Game) IsWaiting() bool {
	return that.State.Phase == tictactoe.NotStarted
}

// Reset - replaces the state with a fresh one and opens the next round.
func (that *Game) Reset(state tictactoe.State, now time.Time) {
	that.Round++
	that.State = state
	that.UpdatedAt = now
}

// Apply - stores the next snapshot, returns true when the move just finished the game.
func (that *Game) Apply(next tictactoe.State, now time.Time) bool {
	finished := !that.IsFinished() && next.Phase.IsTerminal()

	that.State = next
	that.UpdatedAt = now

	return finished
}
