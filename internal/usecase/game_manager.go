package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/tictactoe"
)

const (
	OpStart = "start"
	OpPlay  = "play"
	OpReset = "reset"
)

// Operation is one request of the wire contract: {op, row?, col?}.
type Operation struct {
	Op  string `json:"op" validate:"required,oneof=start play reset"`
	Row *int   `json:"row,omitempty" validate:"omitempty,min=0,max=2"`
	Col *int   `json:"col,omitempty" validate:"omitempty,min=0,max=2"`
}

// Results is a page of finished games plus the overall tally.
type Results struct {
	Recent []*entity.Result `json:"recent"`
	Tally  *entity.Tally    `json:"tally"`
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
	ListRecent(ctx context.Context, limit int) ([]*entity.Result, error)
	Tally(ctx context.Context) (*entity.Tally, error)
}

type metrics interface {
	GameCreated(ctx context.Context)
	MovePlayed(ctx context.Context)
	MoveRejected(ctx context.Context, reason string)
	GameFinished(ctx context.Context, outcome, winner string)
}

// GameManager hosts one controller per game. Operations on the same game are serialized,
// each one loads the snapshot, runs the controller and stores the result before the next starts.
type GameManager struct {
	logger *slog.Logger

	gameRepo   gameRepo
	resultRepo resultRepo
	metrics    metrics
	clock      quartz.Clock

	locks *keyedLocker
}

func NewGameManager(logger *slog.Logger, gameRepo gameRepo, resultRepo resultRepo, metrics metrics, clock quartz.Clock) *GameManager {
	return &GameManager{
		logger: logger.With("component", "game_manager"),

		gameRepo:   gameRepo,
		resultRepo: resultRepo,
		metrics:    metrics,
		clock:      clock,

		locks: newKeyedLocker(),
	}
}

func (that *GameManager) CreateGame(ctx context.Context) (*entity.Game, error) {
	game := entity.NewGame(uuid.NewString(), that.clock.Now())

	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.metrics.GameCreated(ctx)
	that.logger.Info("game created", "gameID", game.ID)

	return game, nil
}

func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// StartGame - starts the game, a game that is already started or finished is returned unchanged.
func (that *GameManager) StartGame(ctx context.Context, id string) (*entity.Game, error) {
	return that.update(ctx, id, func(game *entity.Game, controller *tictactoe.Controller) error {
		if !game.IsWaiting() {
			return nil
		}

		game.Apply(controller.StartGame(), that.clock.Now())

		return nil
	})
}

// Play - makes a move for the active player of the game.
// A rejected move returns the unchanged game together with the rejection.
func (that *GameManager) Play(ctx context.Context, id string, row, col int) (*entity.Game, error) {
	return that.update(ctx, id, func(game *entity.Game, controller *tictactoe.Controller) error {
		state, err := controller.Play(row, col)
		if err != nil {
			that.metrics.MoveRejected(ctx, rejectionReason(err))
			return err
		}

		that.metrics.MovePlayed(ctx)

		if finished := game.Apply(state, that.clock.Now()); finished {
			that.recordResult(ctx, game)
		}

		return nil
	})
}

// ResetGame - discards the board and opens a new round that waits to be started.
func (that *GameManager) ResetGame(ctx context.Context, id string) (*entity.Game, error) {
	return that.update(ctx, id, func(game *entity.Game, controller *tictactoe.Controller) error {
		game.Reset(controller.ResetGame(), that.clock.Now())

		return nil
	})
}

// Apply - runs one operation of the wire contract.
func (that *GameManager) Apply(ctx context.Context, id string, op Operation) (*entity.Game, error) {
	switch op.Op {
	case OpStart:
		return that.StartGame(ctx, id)
	case OpReset:
		return that.ResetGame(ctx, id)
	case OpPlay:
		if op.Row == nil || op.Col == nil {
			return nil, fmt.Errorf("%w: row and col are required", apperror.ErrInvalidCell)
		}
		return that.Play(ctx, id, *op.Row, *op.Col)
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownOperation, op.Op)
	}
}

func (that *GameManager) DeleteGame(ctx context.Context, id string) error {
	unlock := that.locks.Lock(id)
	defer unlock()

	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

func (that *GameManager) Results(ctx context.Context, limit int) (*Results, error) {
	recent, err := that.resultRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	tally, err := that.resultRepo.Tally(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count results: %w", err)
	}

	return &Results{Recent: recent, Tally: tally}, nil
}

// update runs fn on the stored game under the game's lock and stores the game when fn accepts.
func (that *GameManager) update(ctx context.Context, id string, fn func(*entity.Game, *tictactoe.Controller) error) (*entity.Game, error) {
	unlock := that.locks.Lock(id)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	controller, err := tictactoe.Restore(game.State)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", id, err)
	}

	before := *game

	if err = fn(game, controller); err != nil {
		return game, err
	}

	if *game == before {
		return game, nil
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return game, nil
}

// recordResult - stores the outcome of a finished game, a failure only gets logged.
func (that *GameManager) recordResult(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "recordResult", "gameID", game.ID)

	result, ok := entity.NewResult(game)
	if !ok {
		return
	}

	that.metrics.GameFinished(ctx, result.Outcome, result.Winner)

	if err := that.resultRepo.Save(ctx, result); err != nil {
		log.Error("failed to save result", "error", err)
		return
	}

	log.Info("game finished", "outcome", result.Outcome, "winner", result.Winner, "round", result.Round)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, apperror.ErrCellOccupied):
		return "occupied"
	case errors.Is(err, apperror.ErrGameNotInProgress):
		return "not_in_progress"
	case errors.Is(err, apperror.ErrInvalidCell):
		return "out_of_range"
	default:
		return "unknown"
	}
}
