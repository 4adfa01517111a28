package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type matchUseCase interface {
	Games() []string
	CreateMatch(ctx context.Context, gameName string, seats []entity.AIPlayerConfig) (*entity.Match, error)
	GetMatch(ctx context.Context, id string) (*entity.Match, error)
	DeleteMatch(ctx context.Context, id string) error
	MakeMove(ctx context.Context, id, moveName string, args []any, playerID entity.Mark) (*entity.Match, error)
	PlayAITurn(ctx context.Context, id string) (*entity.Match, error)
}

type Server struct {
	logger  *slog.Logger
	matches matchUseCase
}

func New(logger *slog.Logger, matches matchUseCase) *Server {
	return &Server{
		logger:  logger.With("component", "rest"),
		matches: matches,
	}
}

// Router - builds the HTTP routes.
func (that *Server) Router() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(that.logRequests)
	router.Use(middleware.Recoverer)

	router.Get("/ping", pingHandler)
	router.Get("/games", that.listGames)

	router.Route("/matches", func(r chi.Router) {
		r.Post("/", that.createMatch)
		r.Get("/{id}", that.getMatch)
		r.Delete("/{id}", that.deleteMatch)
		r.Post("/{id}/moves", that.makeMove)
		r.Post("/{id}/ai-move", that.playAITurn)
	})

	return router
}

// Start - serves HTTP until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: that.Router(),
		// an AI turn may wait for the provider for up to its timeout
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
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

func (that *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		that.logger.Debug("request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"requestID", middleware.GetReqID(r.Context()),
		)
	})
}
