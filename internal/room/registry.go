package room

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/ludo"
	"github.com/rocketscienceinc/ludo-backend/internal/pkg"
)

const maxIDAttempts = 16

// Registry owns every live room. Its lock only guards the map, never a room operation.
type Registry struct {
	logger    *slog.Logger
	publisher Publisher
	dice      ludo.Dice
	options   Options

	generateID func() (string, error)
	now        func() time.Time

	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRegistry(logger *slog.Logger, publisher Publisher, dice ludo.Dice, options Options) *Registry {
	return &Registry{
		logger:     logger,
		publisher:  publisher,
		dice:       dice,
		options:    options,
		generateID: pkg.GenerateRoomID,
		now:        time.Now,
		rooms:      make(map[string]*Room),
	}
}

// Create opens a new lobby and seats the creator as host.
func (that *Registry) Create(ctx context.Context, participantID, displayName string) (*entity.Room, error) {
	log := that.logger.With("method", "Create")

	room, err := that.allocate()
	if err != nil {
		return nil, err
	}

	snapshot, err := room.Join(ctx, participantID, displayName)
	if err != nil {
		room.Close(entity.CloseReasonEmpty)
		return nil, fmt.Errorf("failed to seat host: %w", err)
	}

	log.Info("room created", "roomID", room.ID(), "hostID", participantID)

	return snapshot, nil
}

func (that *Registry) Get(roomID string) (*Room, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	room, ok := that.rooms[strings.TrimSpace(roomID)]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	return room, nil
}

func (that *Registry) Join(ctx context.Context, roomID, participantID, displayName string) (*entity.Room, error) {
	room, err := that.Get(roomID)
	if err != nil {
		return nil, err
	}

	return room.Join(ctx, participantID, displayName)
}

func (that *Registry) Leave(ctx context.Context, roomID, participantID string) error {
	room, err := that.Get(roomID)
	if err != nil {
		return err
	}

	return room.Leave(ctx, participantID)
}

func (that *Registry) Start(ctx context.Context, roomID, participantID string) (*entity.Room, error) {
	room, err := that.Get(roomID)
	if err != nil {
		return nil, err
	}

	return room.Start(ctx, participantID)
}

func (that *Registry) Roll(ctx context.Context, roomID, participantID string) (ludo.RollOutcome, error) {
	room, err := that.Get(roomID)
	if err != nil {
		return ludo.RollOutcome{}, err
	}

	return room.Roll(ctx, participantID)
}

func (that *Registry) Move(ctx context.Context, roomID, participantID, tokenID string) (ludo.MoveOutcome, error) {
	room, err := that.Get(roomID)
	if err != nil {
		return ludo.MoveOutcome{}, err
	}

	return room.Move(ctx, participantID, tokenID)
}

func (that *Registry) Snapshot(ctx context.Context, roomID string) (*entity.Room, error) {
	room, err := that.Get(roomID)
	if err != nil {
		return nil, err
	}

	return room.Snapshot(ctx)
}

// List returns the summaries of all live rooms, oldest first.
func (that *Registry) List() []Summary {
	that.mu.RLock()
	summaries := make([]Summary, 0, len(that.rooms))
	for _, room := range that.rooms {
		summaries = append(summaries, room.Summary())
	}
	that.mu.RUnlock()

	slices.SortFunc(summaries, func(a, b Summary) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return strings.Compare(a.RoomID, b.RoomID)
	})

	return summaries
}

func (that *Registry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

// Shutdown closes every room and waits until they are gone or ctx expires.
func (that *Registry) Shutdown(ctx context.Context) error {
	that.mu.RLock()
	rooms := make([]*Room, 0, len(that.rooms))
	for _, room := range that.rooms {
		rooms = append(rooms, room)
	}
	that.mu.RUnlock()

	for _, room := range rooms {
		room.Close(entity.CloseReasonShutdown)
	}

	for _, room := range rooms {
		select {
		case <-room.Done():
		case <-ctx.Done():
			return fmt.Errorf("failed to close rooms: %w", ctx.Err())
		}
	}

	return nil
}

func (that *Registry) allocate() (*Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for range maxIDAttempts {
		id, err := that.generateID()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room id: %w", err)
		}

		if _, taken := that.rooms[id]; taken {
			continue
		}

		room := newRoom(that.logger, entity.NewRoom(id, that.now()), that.dice, that.publisher, that.options, that.remove)
		that.rooms[id] = room

		return room, nil
	}

	return nil, fmt.Errorf("failed to allocate a free room id after %d attempts", maxIDAttempts)
}

func (that *Registry) remove(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, roomID)
}
