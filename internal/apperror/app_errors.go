package apperror

import "errors"

const CodeInternal = "INTERNAL"

// Error is a validation error with a stable code that clients can rely on.
type Error struct {
	Code    string
	Message string
}

func (that *Error) Error() string {
	return that.Message
}

func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrRoomNotFound     = New("ROOM_NOT_FOUND", "room not found")
	ErrRoomFull         = New("ROOM_FULL", "room already has four seats")
	ErrAlreadySeated    = New("ALREADY_SEATED", "participant is already seated in this room")
	ErrGameInProgress   = New("GAME_IN_PROGRESS", "game is already in progress")
	ErrNotHost          = New("NOT_HOST", "only the host can start the game")
	ErrNotEnoughPlayers = New("NOT_ENOUGH_PLAYERS", "at least two seats are required")
	ErrNotSeated        = New("NOT_SEATED", "participant is not seated in this room")
	ErrGameNotStarted   = New("GAME_NOT_STARTED", "game is not started")
	ErrGameFinished     = New("GAME_FINISHED", "game is already finished")
	ErrNotYourTurn      = New("NOT_YOUR_TURN", "it's not your turn")
	ErrAlreadyRolled    = New("ALREADY_ROLLED", "die already rolled this turn")
	ErrNoDiePending     = New("NO_DIE_PENDING", "roll the die before moving")
	ErrIllegalMove      = New("ILLEGAL_MOVE", "token cannot move with this die")
	ErrInvalidRequest   = New("INVALID_REQUEST", "malformed request")
	ErrNotConnected     = New("NOT_CONNECTED", "connect before sending room actions")
	ErrResultNotFound   = New("RESULT_NOT_FOUND", "no result stored for this room")
)

// CodeOf returns the stable code carried by err, or CodeInternal.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	return CodeInternal
}

// MessageOf returns the human-readable reason for err without internal wrapping.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	return "internal error"
}
