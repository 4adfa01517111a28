package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/gridgames-backend/internal/apperror"
	"github.com/rocketscienceinc/gridgames-backend/internal/entity"
)

const matchKeyPrefix = "match:"

type MatchRepository interface {
	CreateOrUpdate(ctx context.Context, match *entity.Match) error
	GetByID(ctx context.Context, id string) (*entity.Match, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbMatch struct {
	client *redis.Client
}

func NewMatchRepository(client *redis.Client) MatchRepository {
	return &dbMatch{
		client: client,
	}
}

func (that *dbMatch) CreateOrUpdate(ctx context.Context, match *entity.Match) error {
	matchJSON, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	if err = that.client.Set(ctx, matchKeyPrefix+match.ID, matchJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to set match: %w", err)
	}

	return nil
}

func (that *dbMatch) GetByID(ctx context.Context, id string) (*entity.Match, error) {
	response, err := that.client.Get(ctx, matchKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", apperror.ErrMatchNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}

	var match entity.Match
	if err = json.Unmarshal(response, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return &match, nil
}

func (that *dbMatch) DeleteByID(ctx context.Context, id string) error {
	if err := that.client.Del(ctx, matchKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete match by id: %w", err)
	}

	return nil
}
