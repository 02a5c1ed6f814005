package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe/internal/usecase"
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

var errBadRequest = errors.New("bad request")

type turnRequest struct {
	Row *int `json:"row" validate:"required,min=0,max=2"`
	Col *int `json:"col" validate:"required,min=0,max=2"`
}

func (that *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.CreateGame(r.Context())
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, game)
}

func (that *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := that.games.DeleteGame(r.Context(), mux.Vars(r)["id"]); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.StartGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleGameTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := that.decode(r, &req); err != nil {
		that.writeError(w, r, err)
		return
	}

	game, err := that.games.Play(r.Context(), mux.Vars(r)["id"], *req.Row, *req.Col)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleResetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.ResetGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	var op usecase.Operation
	if err := that.decode(r, &op); err != nil {
		that.writeError(w, r, err)
		return
	}

	game, err := that.games.Apply(r.Context(), mux.Vars(r)["id"], op)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	limit := defaultResultsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxResultsLimit {
			that.writeError(w, r, fmt.Errorf("%w: limit must be between 1 and %d", errBadRequest, maxResultsLimit))
			return
		}
		limit = parsed
	}

	results, err := that.games.Results(r.Context(), limit)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// decode reads a JSON body into v and validates it.
func (that *Server) decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	if err := that.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}

	return nil
}
