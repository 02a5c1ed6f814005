package entity

import "time"

const (
	OutcomeWon   = "won"
	OutcomeDrawn = "drawn"
)

// Result is the record of a finished game.
type Result struct {
	GameID     string    `json:"game_id"`
	Round      int       `json:"round"`
	Outcome    string    `json:"outcome"`
	Winner     string    `json:"winner,omitempty"`
	Moves      int       `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewResult builds the record for a game in a terminal phase. ok is false while the game is still open.
func NewResult(game *Game) (*Result, bool) {
	if !game.IsFinished() {
		return nil, false
	}

	result := &Result{
		GameID:     game.ID,
		Round:      game.Round,
		Outcome:    OutcomeDrawn,
		Moves:      game.State.Moves(),
		FinishedAt: game.UpdatedAt,
	}

	if winner, won := game.State.Winner(); won {
		result.Outcome = OutcomeWon
		result.Winner = winner.String()
	}

	return result, true
}

// Tally counts finished games by outcome.
type Tally struct {
	WonX  int `json:"won_x" db:"won_x"`
	WonO  int `json:"won_o" db:"won_o"`
	Drawn int `json:"drawn" db:"drawn"`
}
