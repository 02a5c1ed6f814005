package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/tictactoe/internal/apperror"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError - maps an error to a status code. Rejected moves answer with the bare rejection message.
func (that *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := http.StatusText(status)

	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, apperror.ErrUnknownOperation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperror.ErrGameNotFound):
		status, message = http.StatusNotFound, apperror.ErrGameNotFound.Error()
	case errors.Is(err, apperror.ErrInvalidCell):
		status, message = http.StatusBadRequest, apperror.ErrInvalidCell.Error()
	case errors.Is(err, apperror.ErrCellOccupied):
		status, message = http.StatusConflict, apperror.ErrCellOccupied.Error()
	case errors.Is(err, apperror.ErrGameNotInProgress):
		status, message = http.StatusConflict, apperror.ErrGameNotInProgress.Error()
	default:
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	writeJSON(w, status, errorResponse{Error: message})
}
