package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/game"
)

type createMatchRequest struct {
	Game  string                  `json:"game"`
	Seats []entity.AIPlayerConfig `json:"seats"`
}

type moveRequest struct {
	Move     string      `json:"move"`
	Args     []any       `json:"args"`
	PlayerID entity.Mark `json:"playerID"`
}

type matchResponse struct {
	*entity.Match
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) listGames(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, map[string][]string{"games": that.matches.Games()})
}

func (that *Server) createMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	match, err := that.matches.CreateMatch(r.Context(), req.Game, req.Seats)
	if err != nil {
		that.writeError(w, "createMatch", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, newMatchResponse(match))
}

func (that *Server) getMatch(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.GetMatch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "getMatch", err)
		return
	}

	that.writeJSON(w, http.StatusOK, newMatchResponse(match))
}

func (that *Server) deleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := that.matches.DeleteMatch(r.Context(), chi.URLParam(r, "id")); err != nil {
		that.writeError(w, "deleteMatch", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) makeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if req.Move == "" {
		req.Move = game.MoveMake
	}

	match, err := that.matches.MakeMove(r.Context(), chi.URLParam(r, "id"), req.Move, req.Args, req.PlayerID)
	if err != nil {
		that.writeError(w, "makeMove", err)
		return
	}

	that.writeJSON(w, http.StatusOK, newMatchResponse(match))
}

func (that *Server) playAITurn(w http.ResponseWriter, r *http.Request) {
	match, err := that.matches.PlayAITurn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		that.writeError(w, "playAITurn", err)
		return
	}

	that.writeJSON(w, http.StatusOK, newMatchResponse(match))
}

func newMatchResponse(match *entity.Match) matchResponse {
	return matchResponse{Match: match, Status: match.Status()}
}

func (that *Server) writeError(w http.ResponseWriter, method string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, status, errorResponse{Error: "Internal Server Error"})
		return
	}

	that.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrInvalidMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrGameNotFound), errors.Is(err, apperror.ErrMatchNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidSeats):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotAISeat):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
