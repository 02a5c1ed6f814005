package apperror

import "errors"

var (
	ErrGameNotInProgress = errors.New("move rejected: game not in progress")
	ErrCellOccupied      = errors.New("move rejected: occupied cell")
	ErrInvalidCell       = errors.New("move rejected: cell out of range")
	ErrGameNotFound      = errors.New("game not found")
	ErrInvalidState      = errors.New("invalid game state")
	ErrUnknownOperation  = errors.New("unknown operation")
)

// IsRejection reports whether err is a gameplay rejection, as opposed to a storage or transport failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrGameNotInProgress) ||
		errors.Is(err, ErrCellOccupied) ||
		errors.Is(err, ErrInvalidCell)
}
