package game

import (
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

// Dispatcher applies single moves to matches.
//
// It holds no lock: the caller must make sure only one move per match is in flight.
type Dispatcher struct {
	logger   *slog.Logger
	registry *Registry
}

func NewDispatcher(logger *slog.Logger, registry *Registry) *Dispatcher {
	return &Dispatcher{
		logger:   logger.With("component", "dispatcher"),
		registry: registry,
	}
}

// Dispatch validates and applies one move. Every rejection wraps apperror.ErrInvalidMove
// and leaves the match exactly as it was. Reporting a finished match is left to whoever stores it.
func (that *Dispatcher) Dispatch(match *entity.Match, moveName string, args []any, playerID entity.Mark) error {
	log := that.logger.With("method", "Dispatch", "matchID", match.ID, "move", moveName, "playerID", playerID)

	def, err := that.registry.Get(match.Game)
	if err != nil {
		return fmt.Errorf("failed to get game definition: %w", err)
	}

	if err = validateTurn(def, match, moveName, playerID); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	move, _ := def.move(moveName)
	if err = move.Handle(&match.State, playerID, args); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidMove, err)
	}

	if move.TakesTurn {
		match.Ctx.TurnCount++
	}

	outcome := def.EndCondition(&match.State)
	if !outcome.IsTerminal() {
		if move.TakesTurn {
			match.Ctx.CurrentPlayer = playerID.Opponent()
		}

		return nil
	}

	if err = match.Ctx.Finish(outcome); err != nil {
		// unreachable while validateTurn rejects finished matches
		log.Error("failed to finish match", "error", err)
		return nil
	}

	log.Info("match finished", "outcome", outcome.Summary())

	return nil
}

func validateTurn(def *Definition, match *entity.Match, moveName string, playerID entity.Mark) error {
	if match.Ctx.IsFinished() {
		return apperror.ErrGameFinished
	}

	if _, ok := def.move(moveName); !ok {
		return fmt.Errorf("%w: %s", apperror.ErrUnknownMove, moveName)
	}

	if match.Ctx.CurrentPlayer != playerID {
		return apperror.ErrNotYourTurn
	}

	if len(match.State.Board) != def.Cells() {
		return fmt.Errorf("%w: board has %d cells, %s needs %d", apperror.ErrInvalidCell, len(match.State.Board), def.Name(), def.Cells())
	}

	return nil
}
