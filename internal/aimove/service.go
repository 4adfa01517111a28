package aimove

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)

// Decision is the outcome of one AI turn. Reason is set whenever the provider's answer was not used.
type Decision struct {
	Position int
	Source   Source
	Reason   error
}

type completionProvider interface {
	Complete(ctx context.Context, endpoint, prompt string, config map[string]any) (string, error)
}

// Service turns a board into a move for an AI seat. It never fails: errors end up in Decision.Reason.
type Service struct {
	logger   *slog.Logger
	provider completionProvider
}

func NewService(logger *slog.Logger, provider completionProvider) *Service {
	return &Service{
		logger:   logger.With("component", "aimove"),
		provider: provider,
	}
}

func (that *Service) ChooseMove(ctx context.Context, board entity.Board, seat entity.AIPlayerConfig) Decision {
	log := that.logger.With("method", "ChooseMove", "seat", seat.SeatIndex, "endpoint", seat.Endpoint)

	config, err := MergeConfig(seat.ConfigSchema, seat.RuntimeConfig)
	if err != nil {
		log.Error("failed to build provider config", "error", err)
		return that.fallback(log, board, fmt.Errorf("%w: %w", apperror.ErrProviderFailure, err))
	}

	text, err := that.provider.Complete(ctx, seat.Endpoint, BuildPrompt(board, seat.SeatIndex), config)
	if err != nil {
		log.Warn("provider call failed", "error", err)
		return that.fallback(log, board, err)
	}

	position := ParseMove(text, len(board))
	if position == NoMove {
		log.Warn("unreadable provider response", "response", text)
		return that.fallback(log, board, fmt.Errorf("%w: %q", apperror.ErrParseFailure, text))
	}

	if board[position] != entity.EmptyCell {
		log.Warn("provider chose an occupied cell", "position", position)
		return that.fallback(log, board, fmt.Errorf("%w: cell %d is occupied", apperror.ErrParseFailure, position))
	}

	log.Debug("provider move accepted", "position", position)

	return Decision{Position: position, Source: SourceAI}
}

func (that *Service) fallback(log *slog.Logger, board entity.Board, reason error) Decision {
	position, err := Fallback(board)
	if err != nil {
		log.Error("no move available", "error", err)
		return Decision{Position: NoMove, Source: SourceNone, Reason: errors.Join(reason, err)}
	}

	log.Info("using fallback move", "position", position, "reason", reason.Error())

	return Decision{Position: position, Source: SourceFallback, Reason: reason}
}
