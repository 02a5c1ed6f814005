package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
	"github.com/rocketscienceinc/tictactoe/internal/entity"
	"github.com/rocketscienceinc/tictactoe/internal/usecase"
)

func (that *Server) handleNewGame(ctx context.Context, msg *Message, sender *client) error {
	game, err := that.games.CreateGame(ctx)
	if err != nil {
		return that.replyError(sender, msg.Action, err)
	}

	that.watch(game.ID, sender)

	that.logger.Info("game created over websocket", "gameID", game.ID)

	return sender.send(msg.Action, Payload{GameID: game.ID, Game: game})
}

// handleGetGame subscribes the sender to the game and replies with its current state.
func (that *Server) handleGetGame(ctx context.Context, msg *Message, sender *client) error {
	payload, err := that.decodePayload(msg, sender)
	if err != nil || payload == nil {
		return err
	}

	game, err := that.games.GetGame(ctx, payload.GameID)
	if err != nil {
		return that.replyError(sender, msg.Action, err)
	}

	that.watch(game.ID, sender)

	return sender.send(msg.Action, Payload{GameID: game.ID, Game: game})
}

func (that *Server) handleStartGame(ctx context.Context, msg *Message, sender *client) error {
	return that.mutate(ctx, msg, sender, func(ctx context.Context, payload *Payload) (*entity.Game, error) {
		return that.games.StartGame(ctx, payload.GameID)
	})
}

func (that *Server) handleGameTurn(ctx context.Context, msg *Message, sender *client) error {
	return that.mutate(ctx, msg, sender, func(ctx context.Context, payload *Payload) (*entity.Game, error) {
		if payload.Row == nil || payload.Col == nil {
			return nil, fmt.Errorf("%w: row and col are required", apperror.ErrInvalidCell)
		}
		return that.games.Play(ctx, payload.GameID, *payload.Row, *payload.Col)
	})
}

func (that *Server) handleResetGame(ctx context.Context, msg *Message, sender *client) error {
	return that.mutate(ctx, msg, sender, func(ctx context.Context, payload *Payload) (*entity.Game, error) {
		return that.games.ResetGame(ctx, payload.GameID)
	})
}

func (that *Server) handleOperation(ctx context.Context, msg *Message, sender *client) error {
	return that.mutate(ctx, msg, sender, func(ctx context.Context, payload *Payload) (*entity.Game, error) {
		return that.games.Apply(ctx, payload.GameID, usecase.Operation{
			Op:  payload.Op,
			Row: payload.Row,
			Col: payload.Col,
		})
	})
}

// mutate runs fn for the game named in the payload. A change is broadcast to every watcher,
// a failure goes back to the sender only.
func (that *Server) mutate(
	ctx context.Context,
	msg *Message,
	sender *client,
	fn func(context.Context, *Payload) (*entity.Game, error),
) error {
	payload, err := that.decodePayload(msg, sender)
	if err != nil || payload == nil {
		return err
	}

	game, err := fn(ctx, payload)
	if err != nil {
		return that.replyError(sender, msg.Action, err)
	}

	that.watch(game.ID, sender)
	that.broadcast(msg.Action, game)

	return nil
}

// decodePayload returns nil without an error when the sender has already been told the payload is bad.
func (that *Server) decodePayload(msg *Message, sender *client) (*Payload, error) {
	var payload Payload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return nil, sender.sendError(msg.Action, "malformed payload")
		}
	}

	if payload.GameID == "" {
		return nil, sender.sendError(msg.Action, "game_id is required")
	}

	return &payload, nil
}

func (that *Server) replyError(sender *client, action string, err error) error {
	message := "internal error"

	switch {
	case errors.Is(err, apperror.ErrCellOccupied):
		message = apperror.ErrCellOccupied.Error()
	case errors.Is(err, apperror.ErrGameNotInProgress):
		message = apperror.ErrGameNotInProgress.Error()
	case errors.Is(err, apperror.ErrInvalidCell):
		message = apperror.ErrInvalidCell.Error()
	case errors.Is(err, apperror.ErrGameNotFound):
		message = apperror.ErrGameNotFound.Error()
	case errors.Is(err, apperror.ErrUnknownOperation):
		message = apperror.ErrUnknownOperation.Error()
	default:
		that.logger.Error("failed to handle action", "action", action, "error", err)
	}

	return sender.send(action, Payload{Error: message})
}
