package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

// PlayerTTL bounds how long an idle participant identity is kept. Reads refresh it.
const PlayerTTL = 7 * 24 * time.Hour

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
	ClearRoom(ctx context.Context, id, roomID string) error
}

type dbPlayer struct {
	client *redis.Client
}

func NewPlayerRepository(client *redis.Client) PlayerRepository {
	return &dbPlayer{
		client: client,
	}
}

func playerKey(id string) string {
	return "player:" + id
}

func (that *dbPlayer) CreateOrUpdate(ctx context.Context, player *entity.Player) error {
	playerJSON, err := json.Marshal(player)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	err = that.client.Set(ctx, playerKey(player.ID), playerJSON, PlayerTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set player: %w", err)
	}

	return nil
}

func (that *dbPlayer) GetByID(ctx context.Context, id string) (*entity.Player, error) {
	response, err := that.client.GetEx(ctx, playerKey(id), PlayerTTL).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrPlayerNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}

	var existingPlayer entity.Player
	if err = json.Unmarshal([]byte(response), &existingPlayer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &existingPlayer, nil
}

// ClearRoom unbinds the player from roomID. A player already bound elsewhere is left untouched.
func (that *dbPlayer) ClearRoom(ctx context.Context, id, roomID string) error {
	key := playerKey(id)

	err := that.client.Watch(ctx, func(tx *redis.Tx) error {
		response, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed to get player: %w", err)
		}

		var player entity.Player
		if err = json.Unmarshal([]byte(response), &player); err != nil {
			return fmt.Errorf("failed to unmarshal player: %w", err)
		}

		if player.RoomID != roomID {
			return nil
		}

		player.RoomID = ""

		playerJSON, err := json.Marshal(&player)
		if err != nil {
			return fmt.Errorf("failed to marshal player: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, playerJSON, PlayerTTL)
			return nil
		})

		return err
	}, key)
	if err != nil {
		return fmt.Errorf("failed to clear player room: %w", err)
	}

	return nil
}
