package game

import (
	"fmt"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/wincheck"
)

const (
	MoveMake          = "makeMove"
	MoveReportAIError = "reportAIError"

	playersPerMatch = 2
	movesPerTurn    = 1
)

// endOrder is the fixed order victories are checked in; the first winner found takes the match.
var endOrder = [...]entity.Mark{entity.PlayerZero, entity.PlayerOne}

// MoveHandler validates args and applies them to state in place.
// It must return an error without touching state when the move is not legal.
type MoveHandler func(state *entity.GameState, playerID entity.Mark, args []any) error

type Move struct {
	Handle MoveHandler
	// TakesTurn moves end the mover's turn; the others only annotate state.
	TakesTurn bool
}

// EndHook is told about a finished match once it has been stored. It must not block.
type EndHook func(matchID string, outcome entity.Outcome)

// Definition is the immutable rule set of one game.
type Definition struct {
	name      string
	side      int
	detector  wincheck.Detector
	moves     map[string]Move
	onEnd     EndHook
	minPlayer int
	maxPlayer int
	perTurn   int
}

func newDefinition(name string, side int, onEnd EndHook) (*Definition, error) {
	detector, err := wincheck.ForBoard(side * side)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s: %w", name, err)
	}

	if onEnd == nil {
		onEnd = func(string, entity.Outcome) {}
	}

	cells := side * side

	return &Definition{
		name:     name,
		side:     side,
		detector: detector,
		moves: map[string]Move{
			MoveMake:          {Handle: makeMove(cells), TakesTurn: true},
			MoveReportAIError: {Handle: reportAIError},
		},
		onEnd:     onEnd,
		minPlayer: playersPerMatch,
		maxPlayer: playersPerMatch,
		perTurn:   movesPerTurn,
	}, nil
}

func (that *Definition) Name() string { return that.name }

// BoardSide is the number of cells per row.
func (that *Definition) BoardSide() int { return that.side }

func (that *Definition) Cells() int { return that.side * that.side }

func (that *Definition) MinPlayers() int { return that.minPlayer }

func (that *Definition) MaxPlayers() int { return that.maxPlayer }

func (that *Definition) MovesPerTurn() int { return that.perTurn }

// ReportEnd hands a finished match to the end hook.
func (that *Definition) ReportEnd(matchID string, outcome entity.Outcome) {
	that.onEnd(matchID, outcome)
}

// MoveNames lists the move table.
func (that *Definition) MoveNames() []string {
	names := make([]string, 0, len(that.moves))
	for name := range that.moves {
		names = append(names, name)
	}

	return names
}

func (that *Definition) move(name string) (Move, bool) {
	move, ok := that.moves[name]
	return move, ok
}

// Setup returns the initial state of a new match.
func (that *Definition) Setup() entity.GameState {
	return entity.GameState{
		Board: entity.NewBoard(that.Cells()),
	}
}

// EndCondition checks "0" then "1" for victory, then the draw.
func (that *Definition) EndCondition(state *entity.GameState) entity.Outcome {
	for _, player := range endOrder {
		if that.detector.Evaluate(state.Board, player) {
			return entity.WinnerOutcome(player)
		}
	}

	if that.detector.IsDraw(state.Board) {
		return entity.DrawOutcome()
	}

	return entity.Outcome{}
}

func makeMove(cells int) MoveHandler {
	return func(state *entity.GameState, playerID entity.Mark, args []any) error {
		if len(args) != 1 {
			return fmt.Errorf("%w: makeMove takes exactly one position", apperror.ErrInvalidArgs)
		}

		cell, err := intArg(args[0])
		if err != nil {
			return err
		}

		if cell < 0 || cell >= cells || cell >= len(state.Board) {
			return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
		}

		if state.Board[cell] != entity.EmptyCell {
			return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell)
		}

		state.Board[cell] = playerID
		state.LastMove = &cell

		return nil
	}
}

func reportAIError(state *entity.GameState, _ entity.Mark, args []any) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: reportAIError takes exactly one message", apperror.ErrInvalidArgs)
	}

	message, ok := args[0].(string)
	if !ok {
		return fmt.Errorf("%w: message must be a string, got %T", apperror.ErrInvalidArgs, args[0])
	}

	state.AuxError = &message

	return nil
}

// intArg accepts the integer shapes a position arrives in: Go ints or JSON numbers.
func intArg(arg any) (int, error) {
	switch v := arg.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%w: position %v is not an integer", apperror.ErrInvalidArgs, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: position must be a number, got %T", apperror.ErrInvalidArgs, arg)
	}
}
