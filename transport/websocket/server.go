package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/ludo"
	"github.com/rocketscienceinc/ludo-backend/internal/room"
)

const shutdownTimeout = 5 * time.Second

type uGame interface {
	GetOrCreatePlayer(ctx context.Context, playerID, name string) (*entity.Player, error)

	CreateRoom(ctx context.Context, playerID string) (*entity.Room, error)
	JoinRoom(ctx context.Context, playerID, roomID string) (*entity.Room, error)
	StartGame(ctx context.Context, playerID string) (*entity.Room, error)
	LeaveRoom(ctx context.Context, playerID string) error

	RollDie(ctx context.Context, playerID string) (ludo.RollOutcome, error)
	MoveToken(ctx context.Context, playerID, tokenID string) (ludo.MoveOutcome, error)

	Disconnect(ctx context.Context, playerID string) error
	Resume(ctx context.Context, playerID string) (*entity.Room, error)

	ListRooms() []room.Summary
}

type handlerFunc func(ctx context.Context, c *client, payload json.RawMessage) (any, error)

type Server struct {
	logger *slog.Logger
	uGame  uGame
	hub    *Hub

	upgrader         websocket.Upgrader
	operationTimeout time.Duration

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame, hub *Hub, operationTimeout time.Duration) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		hub:    hub,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		operationTimeout: operationTimeout,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionCreate] = server.handleCreateRoom
	server.handlers[actionJoin] = server.handleJoinRoom
	server.handlers[actionStart] = server.handleStartGame
	server.handlers[actionRoll] = server.handleRoll
	server.handlers[actionMove] = server.handleMove
	server.handlers[actionLeave] = server.handleLeave
	server.handlers[actionList] = server.handleListRooms

	return server
}

func (that *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/ws", that.upgradeToWebSocket)

	return router
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}

		that.hub.closeAll()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and serves it until it drops.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(that.logger, conn)

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	go c.writePump()
	c.readPump(func(data []byte) {
		that.handleMessage(c, data)
	})

	that.release(c)
}

// handleMessage - decodes one frame, runs its handler and answers on the same action.
func (that *Server) handleMessage(c *client, data []byte) {
	log := that.logger.With("method", "handleMessage")

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		log.Warn("failed to unmarshal message", "error", err)
		c.enqueue(Message{Error: newErrorBody(apperror.ErrInvalidRequest)})
		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action", "action", message.Action)
		c.enqueue(Message{Action: message.Action, Error: newErrorBody(apperror.ErrInvalidRequest)})
		return
	}

	if message.Action != actionConnect && c.PlayerID() == "" {
		c.enqueue(Message{Action: message.Action, Error: newErrorBody(apperror.ErrNotConnected)})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), that.operationTimeout)
	defer cancel()

	response, err := handler(ctx, c, message.Payload)
	if err != nil {
		if apperror.CodeOf(err) == apperror.CodeInternal {
			log.Error("failed to process message", "action", message.Action, "playerID", c.PlayerID(), "error", err)
		}

		c.enqueue(Message{Action: message.Action, Error: newErrorBody(err)})
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		log.Error("failed to marshal response", "action", message.Action, "error", err)
		c.enqueue(Message{Action: message.Action, Error: newErrorBody(err)})
		return
	}

	c.enqueue(Message{Action: message.Action, Payload: payload})
}

// release - treats a dropped socket as a disconnect unless the participant already reconnected elsewhere.
func (that *Server) release(c *client) {
	playerID := c.PlayerID()
	if playerID == "" || !that.hub.unregister(playerID, c) {
		return
	}

	that.disconnect(playerID)
}

func (that *Server) disconnect(playerID string) {
	log := that.logger.With("method", "disconnect", "playerID", playerID)

	ctx, cancel := context.WithTimeout(context.Background(), that.operationTimeout)
	defer cancel()

	if err := that.uGame.Disconnect(ctx, playerID); err != nil {
		log.Error("failed to disconnect player", "error", err)
		return
	}

	// a new socket may have resumed the seat before this disconnect reached the room
	if that.hub.get(playerID) != nil {
		if _, err := that.uGame.Resume(ctx, playerID); err != nil {
			log.Error("failed to restore reconnected player", "error", err)
			return
		}

		log.Info("player reconnected while disconnecting")

		return
	}

	log.Info("player disconnected")
}

func decode[T any](payload json.RawMessage) (T, error) {
	var request T
	if len(payload) == 0 {
		return request, nil
	}

	if err := json.Unmarshal(payload, &request); err != nil {
		return request, fmt.Errorf("%w: %w", apperror.ErrInvalidRequest, err)
	}

	return request, nil
}
