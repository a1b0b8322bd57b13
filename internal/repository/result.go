package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/bingo-backend/internal/entity"
)

var ErrResultNotFound = errors.New("game result not found")

// Results are history, not live state; keep them for a day.
const resultTTL = 24 * time.Hour

type ResultRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	GetByCode(ctx context.Context, code string) (*entity.GameResult, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.GameResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal game result: %w", err)
	}

	resultKey := "result:" + result.Code
	if err = that.client.Set(ctx, resultKey, resultJSON, resultTTL).Err(); err != nil {
		return fmt.Errorf("failed to set game result: %w", err)
	}

	return nil
}

func (that *dbResult) GetByCode(ctx context.Context, code string) (*entity.GameResult, error) {
	resultKey := "result:" + code

	response, err := that.client.Get(ctx, resultKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrResultNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get game result: %w", err)
	}

	var result entity.GameResult
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game result: %w", err)
	}

	return &result, nil
}
