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

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/room"
)

const shutdownTimeout = 5 * time.Second

type uGame interface {
	ListRooms() []room.Summary
	GetResult(ctx context.Context, roomID string) (*entity.GameResult, error)
	RecentResults(ctx context.Context, limit int) ([]*entity.GameResult, error)
}

type Server struct {
	logger  *slog.Logger
	uGame   uGame
	storage pinger
}

func New(logger *slog.Logger, uGame uGame, storage pinger) *Server {
	return &Server{
		logger:  logger.With("component", "rest"),
		uGame:   uGame,
		storage: storage,
	}
}

func (that *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/ping", that.pingHandler)
	router.Get("/rooms", that.listRoomsHandler)
	router.Route("/results", func(r chi.Router) {
		r.Get("/", that.recentResultsHandler)
		r.Get("/{roomID}", that.getResultHandler)
	})

	return router
}

// Start - starts HTTP server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
