package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type matchUseCase interface {
	GetMatch(ctx context.Context, id string) (*entity.Match, error)
	MakeMove(ctx context.Context, id, moveName string, args []any, playerID entity.Mark) (*entity.Match, error)
	PlayAITurn(ctx context.Context, id string) (*entity.Match, error)
}

type handlerFunc func(ctx context.Context, c *client, msg *Message) error

type Server struct {
	logger   *slog.Logger
	matches  matchUseCase
	upgrader websocket.Upgrader

	handlers map[string]handlerFunc

	watchersMu sync.RWMutex
	watchers   map[string]map[*client]struct{}
}

func New(logger *slog.Logger, matches matchUseCase) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		matches: matches,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		watchers: make(map[string]map[*client]struct{}),
	}

	server.handlers = map[string]handlerFunc{
		actionWatch:  server.handleWatch,
		actionMove:   server.handleMove,
		actionAIMove: server.handleAIMove,
	}

	return server
}

func (that *Server) Router() http.Handler {
	router := chi.NewRouter()
	router.Get("/ws", that.serveWS)

	return router
}

// Start - serves WebSocket connections until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     that.Router(),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{conn: conn}
	defer func() {
		that.forget(c)
		_ = conn.Close()
	}()

	log.Info("WebSocket connection established")

	that.handleMessages(r.Context(), c)
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var msg Message
		if err = json.Unmarshal(data, &msg); err != nil {
			that.sendError(c, actionError, "invalid message")
			continue
		}

		handler, ok := that.handlers[msg.Action]
		if !ok {
			that.sendError(c, msg.Action, "unknown action")
			continue
		}

		if err = handler(ctx, c, &msg); err != nil {
			log.Error("error processing message", "action", msg.Action, "error", err)
		}
	}
}

func (that *Server) watch(matchID string, c *client) {
	that.watchersMu.Lock()
	defer that.watchersMu.Unlock()

	if that.watchers[matchID] == nil {
		that.watchers[matchID] = make(map[*client]struct{})
	}
	that.watchers[matchID][c] = struct{}{}
}

func (that *Server) forget(c *client) {
	that.watchersMu.Lock()
	defer that.watchersMu.Unlock()

	for matchID, clients := range that.watchers {
		delete(clients, c)
		if len(clients) == 0 {
			delete(that.watchers, matchID)
		}
	}
}

// broadcast sends the updated match to everybody watching it.
func (that *Server) broadcast(action string, match *entity.Match) {
	log := that.logger.With("method", "broadcast", "matchID", match.ID)

	that.watchersMu.RLock()
	clients := make([]*client, 0, len(that.watchers[match.ID]))
	for c := range that.watchers[match.ID] {
		clients = append(clients, c)
	}
	that.watchersMu.RUnlock()

	payload := Payload{MatchID: match.ID, Match: match, Status: match.Status()}
	for _, c := range clients {
		if err := c.send(action, payload); err != nil {
			log.Warn("failed to send match update", "error", err)
		}
	}
}

func (that *Server) sendError(c *client, action, message string) {
	if err := c.send(action, Payload{Error: message}); err != nil {
		that.logger.Warn("failed to send error", "action", action, "error", err)
	}
}
