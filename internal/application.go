package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/ludo-backend/internal/config"
	"github.com/rocketscienceinc/ludo-backend/internal/ludo"
	"github.com/rocketscienceinc/ludo-backend/internal/repository"
	"github.com/rocketscienceinc/ludo-backend/internal/repository/storage"
	"github.com/rocketscienceinc/ludo-backend/internal/room"
	"github.com/rocketscienceinc/ludo-backend/internal/usecase"
	"github.com/rocketscienceinc/ludo-backend/transport/rest"
	"github.com/rocketscienceinc/ludo-backend/transport/websocket"
)

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

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	playerRepo := repository.NewPlayerRepository(redisStorage.Connection)
	resultRepo := repository.NewResultRepository(redisStorage.Connection)

	hub := websocket.NewHub(logger)
	publisher := usecase.NewPublisher(logger, hub, playerRepo, resultRepo, conf.Game.OperationTimeout)

	registry := room.NewRegistry(logger, publisher, ludo.NewRandomDice(), room.Options{
		TurnTimeout:       conf.Game.TurnTimeout,
		EmptyRoomGrace:    conf.Game.EmptyRoomGrace,
		FinishedRetention: conf.Game.FinishedRetention,
	})

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), conf.Game.OperationTimeout)
		defer shutdownCancel()

		if shutdownErr := registry.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error("could not close rooms", "error", shutdownErr)
		}

		publisher.Wait()
	}()

	gameUseCase := usecase.NewGameUseCase(logger, registry, playerRepo, resultRepo)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		httpServer := rest.New(logger, gameUseCase, redisStorage)
		if httpErr := httpServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, gameUseCase, hub, conf.Game.OperationTimeout)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

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
