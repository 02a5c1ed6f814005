package tictactoe

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
)

// Player identifies one of the two participants. Player1 moves first.
type Player uint8

const (
	Player1 Player = iota + 1
	Player2
)

// Mark returns the cell value a player puts on the board.
func (p Player) Mark() Cell {
	if p == Player2 {
		return MarkO
	}
	return MarkX
}

// Other returns the opponent.
func (p Player) Other() Player {
	if p == Player1 {
		return Player2
	}
	return Player1
}

func (p Player) String() string {
	switch p {
	case Player1:
		return "X"
	case Player2:
		return "O"
	default:
		return fmt.Sprintf("Player(%d)", uint8(p))
	}
}

func (p Player) MarshalText() ([]byte, error) {
	if p != Player1 && p != Player2 {
		return nil, fmt.Errorf("invalid player value %d", uint8(p))
	}

	return []byte(p.String()), nil
}

func (p *Player) UnmarshalText(text []byte) error {
	switch string(text) {
	case "X":
		*p = Player1
	case "O":
		*p = Player2
	default:
		return fmt.Errorf("unknown player %q", text)
	}

	return nil
}

// Phase is the coarse position of a game in its lifecycle.
type Phase uint8

const (
	NotStarted Phase = iota
	InProgress
	Won
	Drawn
)

var phaseNames = map[Phase]string{
	NotStarted: "not_started",
	InProgress: "in_progress",
	Won:        "won",
	Drawn:      "drawn",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Phase(%d)", uint8(p))
}

// IsTerminal reports whether only a reset can leave this phase.
func (p Phase) IsTerminal() bool {
	return p == Won || p == Drawn
}

func (p Phase) MarshalText() ([]byte, error) {
	name, ok := phaseNames[p]
	if !ok {
		return nil, fmt.Errorf("invalid phase value %d", uint8(p))
	}

	return []byte(name), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for phase, name := range phaseNames {
		if name == string(text) {
			*p = phase
			return nil
		}
	}

	return fmt.Errorf("unknown phase %q", text)
}

// State is a snapshot of a game. It holds no references, so a copy never changes behind the holder's back.
type State struct {
	Board  Board
	Active Player
	Phase  Phase
}

// NewState returns the initial state: not started, empty board, Player1 to move.
func NewState() State {
	return State{
		Board:  Board{},
		Active: Player1,
		Phase:  NotStarted,
	}
}

// Winner returns the winning player once the game is won.
func (s State) Winner() (Player, bool) {
	if s.Phase != Won {
		return 0, false
	}
	return s.Active, true
}

// Moves returns the number of marks on the board.
func (s State) Moves() int {
	return Size*Size - s.Board.Count(Empty)
}

type stateJSON struct {
	Board  Board   `json:"board"`
	Active Player  `json:"active_player"`
	Phase  Phase   `json:"phase"`
	Winner *Player `json:"winner,omitempty"`
}

func (s State) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		Board:  s.Board,
		Active: s.Active,
		Phase:  s.Phase,
	}
	if winner, ok := s.Winner(); ok {
		out.Winner = &winner
	}

	return json.Marshal(out)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var in stateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*s = State{
		Board:  in.Board,
		Active: in.Active,
		Phase:  in.Phase,
	}

	return nil
}

// Validate checks that the snapshot is reachable by legal play from the initial state.
func (s State) Validate() error {
	if s.Active != Player1 && s.Active != Player2 {
		return fmt.Errorf("%w: active player %d", apperror.ErrInvalidState, uint8(s.Active))
	}

	if _, ok := phaseNames[s.Phase]; !ok {
		return fmt.Errorf("%w: phase %d", apperror.ErrInvalidState, uint8(s.Phase))
	}

	for row, line := range s.Board {
		for col, cell := range line {
			if !cell.valid() {
				return fmt.Errorf("%w: cell (%d,%d) holds %d", apperror.ErrInvalidState, row, col, uint8(cell))
			}
		}
	}

	xs, ys := s.Board.Count(MarkX), s.Board.Count(MarkO)
	if xs != ys && xs != ys+1 {
		return fmt.Errorf("%w: %d X marks against %d O marks", apperror.ErrInvalidState, xs, ys)
	}

	xLine, oLine := s.Board.HasLine(MarkX), s.Board.HasLine(MarkO)
	if xLine && oLine {
		return fmt.Errorf("%w: both players own a line", apperror.ErrInvalidState)
	}

	switch s.Phase {
	case NotStarted:
		if !s.Board.IsEmpty() || s.Active != Player1 {
			return fmt.Errorf("%w: game not started but board or turn changed", apperror.ErrInvalidState)
		}
	case InProgress:
		if xLine || oLine || s.Board.IsFull() {
			return fmt.Errorf("%w: game in progress but already decided", apperror.ErrInvalidState)
		}
		if expected := nextToMove(xs, ys); s.Active != expected {
			return fmt.Errorf("%w: %s to move, expected %s", apperror.ErrInvalidState, s.Active, expected)
		}
	case Won:
		if !s.Board.HasLine(s.Active.Mark()) {
			return fmt.Errorf("%w: %s marked as winner without a line", apperror.ErrInvalidState, s.Active)
		}
		if expected := nextToMove(xs, ys).Other(); s.Active != expected {
			return fmt.Errorf("%w: %s can not have made the last move", apperror.ErrInvalidState, s.Active)
		}
	case Drawn:
		if !s.Board.IsFull() || xLine || oLine {
			return fmt.Errorf("%w: draw on a board that is not full or has a line", apperror.ErrInvalidState)
		}
	}

	return nil
}

func nextToMove(xs, ys int) Player {
	if xs == ys {
		return Player1
	}
	return Player2
}
