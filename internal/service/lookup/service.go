package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/singalong/server/internal/domain"
	"github.com/singalong/server/pkg/ytsearch"
	"golang.org/x/sync/singleflight"
)

const (
	MaxResults       = 15
	karaokeQualifier = "karaoke"
)

var ErrLookupFailure = errors.New("lookup failure")

type iProvider interface {
	Search(ctx context.Context, query string) ([]ytsearch.Result, error)
}

type iCache interface {
	GetResults(ctx context.Context, query string) ([]domain.Item, bool, error)
	SetResults(ctx context.Context, query string, items []domain.Item) error
}

type Config struct {
	// Zero disables the timeout.
	Timeout time.Duration
}

type service struct {
	provider iProvider
	cache    iCache
	group    singleflight.Group
	timeout  time.Duration
	logger   *slog.Logger
}

// NewService builds the lookup gateway. cache may be nil.
func NewService(provider iProvider, cache iCache, cfg *Config, logger *slog.Logger) *service {
	return &service{
		provider: provider,
		cache:    cache,
		timeout:  cfg.Timeout,
		logger:   logger,
	}
}

type SearchParams struct {
	Text        string
	KaraokeOnly bool
}

func BuildQuery(params *SearchParams) string {
	query := strings.TrimSpace(params.Text)
	if params.KaraokeOnly {
		query += " " + karaokeQualifier
	}

	return query
}

// Search returns at most MaxResults items in provider order. Identical
// queries in flight at the same time share one provider call.
func (s *service) Search(ctx context.Context, params *SearchParams) ([]domain.Item, error) {
	query := BuildQuery(params)
	s.logger.DebugContext(ctx, "search", "query", query)

	if items, ok := s.getCached(ctx, query); ok {
		return items, nil
	}

	ch := s.group.DoChan(query, func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx), query)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrLookupFailure, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}

		items := res.Val.([]domain.Item)
		out := make([]domain.Item, len(items))
		copy(out, items)
		return out, nil
	}
}

func (s *service) fetch(ctx context.Context, query string) ([]domain.Item, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	results, err := s.provider.Search(ctx, query)
	if err != nil {
		s.logger.WarnContext(ctx, "provider search failed", "query", query, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrLookupFailure, err)
	}

	items := make([]domain.Item, 0, min(len(results), MaxResults))
	for _, result := range results {
		if len(items) == MaxResults {
			break
		}
		items = append(items, domain.Item{
			ExternalId:   result.VideoId,
			Title:        result.Title,
			Author:       result.AuthorName,
			Duration:     result.Duration,
			ThumbnailRef: result.ThumbnailUrl,
		})
	}

	if s.cache != nil {
		if err := s.cache.SetResults(ctx, query, items); err != nil {
			s.logger.WarnContext(ctx, "failed to cache results", "query", query, "error", err)
		}
	}

	return items, nil
}

func (s *service) getCached(ctx context.Context, query string) ([]domain.Item, bool) {
	if s.cache == nil {
		return nil, false
	}

	items, ok, err := s.cache.GetResults(ctx, query)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read cached results", "query", query, "error", err)
		return nil, false
	}

	return items, ok
}
