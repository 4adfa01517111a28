package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
	"github.com/rocketscienceinc/gridgames-backend/internal/game"
)

type mockMatches struct {
	mock.Mock
}

func (that *mockMatches) Games() []string {
	return that.Called().Get(0).([]string)
}

func (that *mockMatches) CreateMatch(ctx context.Context, gameName string, seats []entity.AIPlayerConfig) (*entity.Match, error) {
	args := that.Called(ctx, gameName, seats)
	match, _ := args.Get(0).(*entity.Match)
	return match, args.Error(1)
}

func (that *mockMatches) GetMatch(ctx context.Context, id string) (*entity.Match, error) {
	args := that.Called(ctx, id)
	match, _ := args.Get(0).(*entity.Match)
	return match, args.Error(1)
}

func (that *mockMatches) DeleteMatch(ctx context.Context, id string) error {
	return that.Called(ctx, id).Error(0)
}

func (that *mockMatches) MakeMove(ctx context.Context, id, moveName string, args []any, playerID entity.Mark) (*entity.Match, error) {
	called := that.Called(ctx, id, moveName, args, playerID)
	match, _ := called.Get(0).(*entity.Match)
	return match, called.Error(1)
}

func (that *mockMatches) PlayAITurn(ctx context.Context, id string) (*entity.Match, error) {
	args := that.Called(ctx, id)
	match, _ := args.Get(0).(*entity.Match)
	return match, args.Error(1)
}

func newTestServer(t *testing.T) (*httptest.Server, *mockMatches) {
	t.Helper()

	matches := &mockMatches{}
	t.Cleanup(func() { matches.AssertExpectations(t) })

	server := httptest.NewServer(New(slog.New(slog.NewJSONHandler(io.Discard, nil)), matches).Router())
	t.Cleanup(server.Close)

	return server, matches
}

func doRequest(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}

	return resp, decoded
}

func sampleMatch() *entity.Match {
	board := entity.NewBoard(9)
	board[4] = entity.PlayerZero

	return &entity.Match{
		ID:    "match-1",
		Game:  game.TicTacToe,
		State: entity.GameState{Board: board},
		Ctx:   entity.MatchContext{CurrentPlayer: entity.PlayerOne, TurnCount: 1},
	}
}

func TestServer_Ping(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestServer_Games(t *testing.T) {
	server, matches := newTestServer(t)
	matches.On("Games").Return([]string{game.Gomoku, game.TicTacToe}).Once()

	resp, body := doRequest(t, http.MethodGet, server.URL+"/games", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{game.Gomoku, game.TicTacToe}, body["games"])
}

func TestServer_CreateMatch(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		// Given: a use case that creates the match
		server, matches := newTestServer(t)
		seats := []entity.AIPlayerConfig{{SeatIndex: 1, Endpoint: "http://ai.local/move"}}
		matches.On("CreateMatch", mock.Anything, game.TicTacToe, seats).Return(sampleMatch(), nil).Once()

		// When
		resp, body := doRequest(t, http.MethodPost, server.URL+"/matches",
			`{"game": "tic-tac-toe", "seats": [{"seat_index": 1, "endpoint": "http://ai.local/move"}]}`)

		// Then: the match comes back with empty cells as null
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "match-1", body["id"])
		assert.Equal(t, entity.StatusOngoing, body["status"])
		state, ok := body["state"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, []any{nil, nil, nil, nil, "0", nil, nil, nil, nil}, state["board"])
	})

	t.Run("Unknown game", func(t *testing.T) {
		server, matches := newTestServer(t)
		matches.On("CreateMatch", mock.Anything, "chess", mock.Anything).
			Return(nil, fmt.Errorf("failed to get game: %w", apperror.ErrGameNotFound)).
			Once()

		resp, _ := doRequest(t, http.MethodPost, server.URL+"/matches", `{"game": "chess"}`)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Broken body", func(t *testing.T) {
		server, _ := newTestServer(t)

		resp, body := doRequest(t, http.MethodPost, server.URL+"/matches", `{"game":`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid request body", body["error"])
	})
}

func TestServer_MakeMove(t *testing.T) {
	t.Run("Accepted", func(t *testing.T) {
		server, matches := newTestServer(t)
		matches.On("MakeMove", mock.Anything, "match-1", game.MoveMake, []any{float64(4)}, entity.PlayerZero).
			Return(sampleMatch(), nil).
			Once()

		resp, body := doRequest(t, http.MethodPost, server.URL+"/matches/match-1/moves", `{"args": [4], "playerID": "0"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "match-1", body["id"])
	})

	statuses := []struct {
		name string
		err  error
		want int
	}{
		{name: "Invalid move", err: fmt.Errorf("%w: %w", apperror.ErrInvalidMove, apperror.ErrCellOccupied), want: http.StatusUnprocessableEntity},
		{name: "Match not found", err: apperror.ErrMatchNotFound, want: http.StatusNotFound},
		{name: "Storage failure", err: errors.New("redis down"), want: http.StatusInternalServerError},
	}

	for _, tt := range statuses {
		t.Run(tt.name, func(t *testing.T) {
			server, matches := newTestServer(t)
			matches.On("MakeMove", mock.Anything, "match-1", game.MoveMake, mock.Anything, entity.PlayerOne).
				Return(nil, tt.err).
				Once()

			resp, body := doRequest(t, http.MethodPost, server.URL+"/matches/match-1/moves",
				`{"move": "makeMove", "args": [4], "playerID": "1"}`)

			assert.Equal(t, tt.want, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestServer_AIMove(t *testing.T) {
	t.Run("Played", func(t *testing.T) {
		server, matches := newTestServer(t)
		matches.On("PlayAITurn", mock.Anything, "match-1").Return(sampleMatch(), nil).Once()

		resp, _ := doRequest(t, http.MethodPost, server.URL+"/matches/match-1/ai-move", "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Human seat", func(t *testing.T) {
		server, matches := newTestServer(t)
		matches.On("PlayAITurn", mock.Anything, "match-1").Return(nil, apperror.ErrNotAISeat).Once()

		resp, _ := doRequest(t, http.MethodPost, server.URL+"/matches/match-1/ai-move", "")

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestServer_GetAndDeleteMatch(t *testing.T) {
	server, matches := newTestServer(t)
	matches.On("GetMatch", mock.Anything, "match-1").Return(sampleMatch(), nil).Once()
	matches.On("DeleteMatch", mock.Anything, "match-1").Return(nil).Once()

	resp, body := doRequest(t, http.MethodGet, server.URL+"/matches/match-1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, game.TicTacToe, body["game"])

	resp, _ = doRequest(t, http.MethodDelete, server.URL+"/matches/match-1", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
