package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/ludo"
	"github.com/rocketscienceinc/ludo-backend/internal/room"
)

type mockPlayerRepo struct {
	mock.Mock
}

func newMockPlayerRepo(t *testing.T) *mockPlayerRepo {
	m := &mockPlayerRepo{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (that *mockPlayerRepo) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	return that.Called(ctx, player).Error(0)
}

func (that *mockPlayerRepo) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	args := that.Called(ctx, id)
	player, _ := args.Get(0).(*entity.Player)

	return player, args.Error(1)
}

func (that *mockPlayerRepo) ClearRoom(ctx context.Context, id, roomID string) error {
	return that.Called(ctx, id, roomID).Error(0)
}

type mockResultRepo struct {
	mock.Mock
}

func newMockResultRepo(t *testing.T) *mockResultRepo {
	m := &mockResultRepo{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (that *mockResultRepo) Save(ctx context.Context, result *entity.GameResult) error {
	return that.Called(ctx, result).Error(0)
}

func (that *mockResultRepo) GetByRoomID(ctx context.Context, roomID string) (*entity.GameResult, error) {
	args := that.Called(ctx, roomID)
	result, _ := args.Get(0).(*entity.GameResult)

	return result, args.Error(1)
}

func (that *mockResultRepo) Recent(ctx context.Context, limit int) ([]*entity.GameResult, error) {
	args := that.Called(ctx, limit)
	results, _ := args.Get(0).([]*entity.GameResult)

	return results, args.Error(1)
}

type mockRoomRegistry struct {
	mock.Mock
}

func newMockRoomRegistry(t *testing.T) *mockRoomRegistry {
	m := &mockRoomRegistry{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (that *mockRoomRegistry) Create(ctx context.Context, participantID, displayName string) (*entity.Room, error) {
	args := that.Called(ctx, participantID, displayName)
	created, _ := args.Get(0).(*entity.Room)

	return created, args.Error(1)
}

func (that *mockRoomRegistry) Join(ctx context.Context, roomID, participantID, displayName string) (*entity.Room, error) {
	args := that.Called(ctx, roomID, participantID, displayName)
	joined, _ := args.Get(0).(*entity.Room)

	return joined, args.Error(1)
}

func (that *mockRoomRegistry) Leave(ctx context.Context, roomID, participantID string) error {
	return that.Called(ctx, roomID, participantID).Error(0)
}

func (that *mockRoomRegistry) Start(ctx context.Context, roomID, participantID string) (*entity.Room, error) {
	args := that.Called(ctx, roomID, participantID)
	started, _ := args.Get(0).(*entity.Room)

	return started, args.Error(1)
}

func (that *mockRoomRegistry) Roll(ctx context.Context, roomID, participantID string) (ludo.RollOutcome, error) {
	args := that.Called(ctx, roomID, participantID)
	outcome, _ := args.Get(0).(ludo.RollOutcome)

	return outcome, args.Error(1)
}

func (that *mockRoomRegistry) Move(ctx context.Context, roomID, participantID, tokenID string) (ludo.MoveOutcome, error) {
	args := that.Called(ctx, roomID, participantID, tokenID)
	outcome, _ := args.Get(0).(ludo.MoveOutcome)

	return outcome, args.Error(1)
}

func (that *mockRoomRegistry) Snapshot(ctx context.Context, roomID string) (*entity.Room, error) {
	args := that.Called(ctx, roomID)
	snapshot, _ := args.Get(0).(*entity.Room)

	return snapshot, args.Error(1)
}

func (that *mockRoomRegistry) List() []room.Summary {
	summaries, _ := that.Called().Get(0).([]room.Summary)

	return summaries
}

type mockEventSink struct {
	mock.Mock
}

func newMockEventSink(t *testing.T) *mockEventSink {
	m := &mockEventSink{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (that *mockEventSink) Publish(roomID string, participantIDs []string, events []entity.Event) {
	that.Called(roomID, participantIDs, events)
}
