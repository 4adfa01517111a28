package apperror

import "errors"

// ErrInvalidMove is the parent of every move rejection; match it with errors.Is.
var ErrInvalidMove = errors.New("invalid move")

var (
	ErrGameFinished = errors.New("game is already finished")
	ErrNotYourTurn  = errors.New("it's not your turn")
	ErrCellOccupied = errors.New("cell is already occupied")
	ErrInvalidCell  = errors.New("invalid cell index")
	ErrUnknownMove  = errors.New("unknown move")
	ErrInvalidArgs  = errors.New("invalid move arguments")
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrMatchNotFound = errors.New("match not found")
	ErrNotAISeat     = errors.New("current seat is not AI-controlled")
	ErrInvalidSeats  = errors.New("invalid seat configuration")
)

var (
	ErrProviderFailure     = errors.New("ai provider failure")
	ErrParseFailure        = errors.New("ai response could not be parsed")
	ErrNoMoveAvailable     = errors.New("no move available")
	ErrNotificationFailure = errors.New("match status notification failed")
)
