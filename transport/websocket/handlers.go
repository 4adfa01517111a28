package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/game"
)

func (that *Server) handleWatch(ctx context.Context, c *client, msg *Message) error {
	payload, ok := that.readPayload(c, msg)
	if !ok {
		return nil
	}

	match, err := that.matches.GetMatch(ctx, payload.MatchID)
	if err != nil {
		that.sendError(c, msg.Action, clientMessage(err))
		return fmt.Errorf("failed to get match: %w", err)
	}

	that.watch(match.ID, c)

	return c.send(msg.Action, Payload{MatchID: match.ID, Match: match, Status: match.Status()})
}

func (that *Server) handleMove(ctx context.Context, c *client, msg *Message) error {
	payload, ok := that.readPayload(c, msg)
	if !ok {
		return nil
	}

	if payload.Move == "" {
		payload.Move = game.MoveMake
	}

	match, err := that.matches.MakeMove(ctx, payload.MatchID, payload.Move, payload.Args, payload.PlayerID)
	if err != nil {
		that.sendError(c, msg.Action, clientMessage(err))
		return fmt.Errorf("failed to make move: %w", err)
	}

	that.watch(match.ID, c)
	that.broadcast(msg.Action, match)

	return nil
}

func (that *Server) handleAIMove(ctx context.Context, c *client, msg *Message) error {
	payload, ok := that.readPayload(c, msg)
	if !ok {
		return nil
	}

	match, err := that.matches.PlayAITurn(ctx, payload.MatchID)
	if err != nil {
		that.sendError(c, msg.Action, clientMessage(err))
		return fmt.Errorf("failed to play ai turn: %w", err)
	}

	that.watch(match.ID, c)
	that.broadcast(msg.Action, match)

	return nil
}

func (that *Server) readPayload(c *client, msg *Message) (Payload, bool) {
	var payload Payload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.MatchID == "" {
		that.sendError(c, msg.Action, "match_id is required")
		return Payload{}, false
	}

	return payload, true
}

// clientMessage hides internal failures from the connection.
func clientMessage(err error) string {
	switch {
	case errors.Is(err, apperror.ErrInvalidMove),
		errors.Is(err, apperror.ErrMatchNotFound),
		errors.Is(err, apperror.ErrNotAISeat):
		return err.Error()
	default:
		return "internal error"
	}
}
