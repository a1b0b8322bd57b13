package apperror

import "errors"

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrGameInProgress       = errors.New("game is already in progress")
	ErrGameNotStarted       = errors.New("game is not started")
	ErrGameFinished         = errors.New("game is already finished")
	ErrNotHost              = errors.New("only the host can do that")
	ErrPlayerNotFound       = errors.New("player not found in room")
	ErrInvalidConfiguration = errors.New("invalid room configuration")
)
