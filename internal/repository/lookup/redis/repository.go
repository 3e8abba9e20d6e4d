package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/singalong/server/internal/domain"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
	logger         *slog.Logger
}

func NewRepo(rc *redis.Client, expireDuration time.Duration, logger *slog.Logger) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
		logger:         logger,
	}
}

func (r repo) getResultsKey(query string) string {
	return "lookup:" + strings.ToLower(query)
}

// GetResults reports false when nothing is cached for query.
func (r repo) GetResults(ctx context.Context, query string) ([]domain.Item, bool, error) {
	r.logger.DebugContext(ctx, "called", "query", query)
	data, err := r.rc.Get(ctx, r.getResultsKey(query)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.DebugContext(ctx, "returned", "hit", false)
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to get results: %w", err)
	}

	var items []domain.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, false, fmt.Errorf("failed to decode results: %w", err)
	}

	r.logger.DebugContext(ctx, "returned", "hit", true, "count", len(items))
	return items, true, nil
}

func (r repo) SetResults(ctx context.Context, query string, items []domain.Item) error {
	r.logger.DebugContext(ctx, "called", "query", query, "count", len(items))
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	if err := r.rc.Set(ctx, r.getResultsKey(query), data, r.expireDuration).Err(); err != nil {
		return fmt.Errorf("failed to set results: %w", err)
	}

	return nil
}
