package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

const (
	recentResultsKey = "results:recent"
	recentResultsCap = 100
)

var ErrResultNotFound = errors.New("result not found")

type ResultRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	GetByRoomID(ctx context.Context, roomID string) (*entity.GameResult, error)
	Recent(ctx context.Context, limit int) ([]*entity.GameResult, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

func resultKey(roomID string) string {
	return "result:" + roomID
}

// Save stores the result and pushes it onto the capped recent list in one transaction.
func (that *dbResult) Save(ctx context.Context, result *entity.GameResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, resultKey(result.RoomID), resultJSON, 0)
		pipe.LPush(ctx, recentResultsKey, result.RoomID)
		pipe.LTrim(ctx, recentResultsKey, 0, recentResultsCap-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

func (that *dbResult) GetByRoomID(ctx context.Context, roomID string) (*entity.GameResult, error) {
	response, err := that.client.Get(ctx, resultKey(roomID)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrResultNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get result by room ID: %w", err)
	}

	var result entity.GameResult
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	return &result, nil
}

// Recent returns up to limit results, newest first.
func (that *dbResult) Recent(ctx context.Context, limit int) ([]*entity.GameResult, error) {
	if limit <= 0 || limit > recentResultsCap {
		limit = recentResultsCap
	}

	roomIDs, err := that.client.LRange(ctx, recentResultsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list recent results: %w", err)
	}

	if len(roomIDs) == 0 {
		return []*entity.GameResult{}, nil
	}

	keys := make([]string, 0, len(roomIDs))
	for _, roomID := range roomIDs {
		keys = append(keys, resultKey(roomID))
	}

	values, err := that.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent results: %w", err)
	}

	results := make([]*entity.GameResult, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var result entity.GameResult
		if err = json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}

		results = append(results, &result)
	}

	return results, nil
}
