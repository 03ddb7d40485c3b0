package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/ludo"
	"github.com/rocketscienceinc/ludo-backend/internal/pkg"
	"github.com/rocketscienceinc/ludo-backend/internal/repository"
	"github.com/rocketscienceinc/ludo-backend/internal/room"
)

const maxNameLength = 32

type GameUseCase interface {
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
	GetResult(ctx context.Context, roomID string) (*entity.GameResult, error)
	RecentResults(ctx context.Context, limit int) ([]*entity.GameResult, error)
}

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	ClearRoom(ctx context.Context, id, roomID string) error
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.GameResult) error
	GetByRoomID(ctx context.Context, roomID string) (*entity.GameResult, error)
	Recent(ctx context.Context, limit int) ([]*entity.GameResult, error)
}

type roomRegistry interface {
	Create(ctx context.Context, participantID, displayName string) (*entity.Room, error)
	Join(ctx context.Context, roomID, participantID, displayName string) (*entity.Room, error)
	Leave(ctx context.Context, roomID, participantID string) error
	Start(ctx context.Context, roomID, participantID string) (*entity.Room, error)
	Roll(ctx context.Context, roomID, participantID string) (ludo.RollOutcome, error)
	Move(ctx context.Context, roomID, participantID, tokenID string) (ludo.MoveOutcome, error)
	Snapshot(ctx context.Context, roomID string) (*entity.Room, error)
	List() []room.Summary
}

type gameUseCase struct {
	logger *slog.Logger

	rooms      roomRegistry
	playerRepo playerRepo
	resultRepo resultRepo
}

func NewGameUseCase(logger *slog.Logger, rooms roomRegistry, playerRepo playerRepo, resultRepo resultRepo) GameUseCase {
	return &gameUseCase{
		logger: logger.With("component", "usecase"),

		rooms:      rooms,
		playerRepo: playerRepo,
		resultRepo: resultRepo,
	}
}

// GetOrCreatePlayer returns the stored player, issuing a new identity when playerID is empty or unknown.
func (that *gameUseCase) GetOrCreatePlayer(ctx context.Context, playerID, name string) (*entity.Player, error) {
	name = normalizeName(name)

	if playerID == "" {
		return that.createPlayer(ctx, name)
	}

	player, err := that.playerRepo.GetByID(ctx, playerID)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return that.createPlayer(ctx, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	if name != "" && name != player.Name {
		player.Name = name
		if err = that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
			return nil, fmt.Errorf("failed to rename player: %w", err)
		}
	}

	return player, nil
}

func (that *gameUseCase) CreateRoom(ctx context.Context, playerID string) (*entity.Room, error) {
	log := that.logger.With("method", "CreateRoom", "playerID", playerID)

	player, err := that.getPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err = that.release(ctx, player); err != nil {
		return nil, err
	}

	created, err := that.rooms.Create(ctx, player.ID, displayName(player))
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	if err = that.bind(ctx, player, created.ID); err != nil {
		return nil, err
	}

	log.Info("room created", "roomID", created.ID)

	return created, nil
}

func (that *gameUseCase) JoinRoom(ctx context.Context, playerID, roomID string) (*entity.Room, error) {
	log := that.logger.With("method", "JoinRoom", "playerID", playerID, "roomID", roomID)

	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return nil, apperror.ErrInvalidRequest
	}

	player, err := that.getPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.RoomID != roomID {
		if err = that.release(ctx, player); err != nil {
			return nil, err
		}
	}

	joined, err := that.rooms.Join(ctx, roomID, player.ID, displayName(player))
	if errors.Is(err, apperror.ErrAlreadySeated) {
		joined, err = that.rooms.Snapshot(ctx, roomID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to join room: %w", err)
	}

	if err = that.bind(ctx, player, roomID); err != nil {
		return nil, err
	}

	log.Info("player joined room")

	return joined, nil
}

func (that *gameUseCase) StartGame(ctx context.Context, playerID string) (*entity.Room, error) {
	player, err := that.seatedPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	started, err := that.rooms.Start(ctx, player.RoomID, player.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	return started, nil
}

func (that *gameUseCase) LeaveRoom(ctx context.Context, playerID string) error {
	player, err := that.seatedPlayer(ctx, playerID)
	if err != nil {
		return err
	}

	return that.leave(ctx, player)
}

func (that *gameUseCase) RollDie(ctx context.Context, playerID string) (ludo.RollOutcome, error) {
	player, err := that.seatedPlayer(ctx, playerID)
	if err != nil {
		return ludo.RollOutcome{}, err
	}

	outcome, err := that.rooms.Roll(ctx, player.RoomID, player.ID)
	if err != nil {
		return ludo.RollOutcome{}, fmt.Errorf("failed to roll: %w", err)
	}

	return outcome, nil
}

func (that *gameUseCase) MoveToken(ctx context.Context, playerID, tokenID string) (ludo.MoveOutcome, error) {
	if tokenID == "" {
		return ludo.MoveOutcome{}, apperror.ErrInvalidRequest
	}

	player, err := that.seatedPlayer(ctx, playerID)
	if err != nil {
		return ludo.MoveOutcome{}, err
	}

	outcome, err := that.rooms.Move(ctx, player.RoomID, player.ID, tokenID)
	if err != nil {
		return ludo.MoveOutcome{}, fmt.Errorf("failed to move token: %w", err)
	}

	return outcome, nil
}

// Disconnect handles a dropped connection like a leave, without reporting a missing room.
func (that *gameUseCase) Disconnect(ctx context.Context, playerID string) error {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to get player by id: %w", err)
	}

	if !player.InRoom() {
		return nil
	}

	err = that.leave(ctx, player)
	if errors.Is(err, apperror.ErrRoomNotFound) || errors.Is(err, apperror.ErrNotSeated) {
		return nil
	}

	return err
}

// Resume reconnects a returning player to the room it is bound to. It returns nil when there is none.
func (that *gameUseCase) Resume(ctx context.Context, playerID string) (*entity.Room, error) {
	log := that.logger.With("method", "Resume", "playerID", playerID)

	player, err := that.getPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if !player.InRoom() {
		return nil, nil //nolint: nilnil // no room to resume
	}

	resumed, err := that.rooms.Join(ctx, player.RoomID, player.ID, displayName(player))
	if errors.Is(err, apperror.ErrAlreadySeated) {
		resumed, err = that.rooms.Snapshot(ctx, player.RoomID)
	}

	switch {
	case errors.Is(err, apperror.ErrRoomNotFound),
		errors.Is(err, apperror.ErrGameInProgress),
		errors.Is(err, apperror.ErrRoomFull):
		that.unbind(ctx, player)
		return nil, nil //nolint: nilnil // stale binding
	case err != nil:
		return nil, fmt.Errorf("failed to resume room: %w", err)
	}

	log.Info("player resumed room", "roomID", resumed.ID)

	return resumed, nil
}

func (that *gameUseCase) ListRooms() []room.Summary {
	return that.rooms.List()
}

func (that *gameUseCase) GetResult(ctx context.Context, roomID string) (*entity.GameResult, error) {
	result, err := that.resultRepo.GetByRoomID(ctx, roomID)
	if errors.Is(err, repository.ErrResultNotFound) {
		return nil, apperror.ErrResultNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	return result, nil
}

func (that *gameUseCase) RecentResults(ctx context.Context, limit int) ([]*entity.GameResult, error) {
	results, err := that.resultRepo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent results: %w", err)
	}

	return results, nil
}

func (that *gameUseCase) leave(ctx context.Context, player *entity.Player) error {
	log := that.logger.With("method", "leave", "playerID", player.ID, "roomID", player.RoomID)

	if err := that.rooms.Leave(ctx, player.RoomID, player.ID); err != nil {
		if errors.Is(err, apperror.ErrRoomNotFound) || errors.Is(err, apperror.ErrNotSeated) {
			that.unbind(ctx, player)
		}

		return fmt.Errorf("failed to leave room: %w", err)
	}

	// a lobby seat is gone for good, a game seat waits for the player to come back
	snapshot, err := that.rooms.Snapshot(ctx, player.RoomID)
	if err != nil || snapshot.SeatOf(player.ID) == nil {
		that.unbind(ctx, player)
	}

	log.Info("player left room")

	return nil
}

func (that *gameUseCase) createPlayer(ctx context.Context, name string) (*entity.Player, error) {
	player := &entity.Player{
		ID:   pkg.GenerateParticipantID(),
		Name: name,
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *gameUseCase) getPlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, playerID)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return nil, apperror.ErrNotConnected
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *gameUseCase) seatedPlayer(ctx context.Context, playerID string) (*entity.Player, error) {
	player, err := that.getPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if !player.InRoom() {
		return nil, apperror.ErrNotSeated
	}

	return player, nil
}

// release fails when the player still holds a seat in a live game and drops a stale binding otherwise.
func (that *gameUseCase) release(ctx context.Context, player *entity.Player) error {
	if !player.InRoom() {
		return nil
	}

	current, err := that.rooms.Snapshot(ctx, player.RoomID)
	if err == nil && !current.IsFinished() && current.SeatOf(player.ID) != nil {
		return apperror.ErrAlreadySeated
	}

	that.unbind(ctx, player)

	return nil
}

func (that *gameUseCase) bind(ctx context.Context, player *entity.Player, roomID string) error {
	player.RoomID = roomID

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to bind player to room: %w", err)
	}

	return nil
}

func (that *gameUseCase) unbind(ctx context.Context, player *entity.Player) {
	log := that.logger.With("method", "unbind", "playerID", player.ID)

	if err := that.playerRepo.ClearRoom(ctx, player.ID, player.RoomID); err != nil {
		log.Error("failed to clear player room", "error", err)
		return
	}

	player.RoomID = ""
}

func displayName(player *entity.Player) string {
	if player.Name != "" {
		return player.Name
	}

	return "Player " + player.ID[:min(len(player.ID), 4)]
}

func normalizeName(name string) string {
	runes := []rune(strings.TrimSpace(name))
	if len(runes) > maxNameLength {
		runes = runes[:maxNameLength]
	}

	return string(runes)
}
