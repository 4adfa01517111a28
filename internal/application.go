package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rocketscienceinc/gridgames-backend/internal/aimove"
	"github.com/rocketscienceinc/gridgames-backend/internal/config"
	"github.com/rocketscienceinc/gridgames-backend/internal/game"
	"github.com/rocketscienceinc/gridgames-backend/internal/notifier"
	"github.com/rocketscienceinc/gridgames-backend/internal/repository"
	"github.com/rocketscienceinc/gridgames-backend/internal/repository/storage"
	"github.com/rocketscienceinc/gridgames-backend/internal/usecase"
	"github.com/rocketscienceinc/gridgames-backend/transport/rest"
	"github.com/rocketscienceinc/gridgames-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	statusNotifier := notifier.New(logger, conf.MatchService)
	statusNotifier.Run(ctx)
	defer statusNotifier.Close()

	registry, err := game.NewDefaultRegistry(statusNotifier.Notify)
	if err != nil {
		return fmt.Errorf("could not register games: %w", err)
	}

	dispatcher := game.NewDispatcher(logger, registry)
	aiService := aimove.NewService(logger, aimove.NewClient(conf.AI.Timeout))
	matchRepo := repository.NewMatchRepository(redisStorage.Connection)
	matchManager := usecase.NewMatchManager(logger, matchRepo, registry, dispatcher, aiService)

	var servers sync.WaitGroup

	// run HTTP server
	httpErrCh := make(chan error, 1)
	servers.Add(1)
	go func() {
		defer servers.Done()

		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, matchManager).Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	servers.Add(1)
	go func() {
		defer servers.Done()

		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, matchManager).Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	// moves still in flight may finish matches, so the notifier closes only after the servers
	defer servers.Wait()
	defer cancel()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
