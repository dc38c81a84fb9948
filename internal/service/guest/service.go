package guest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kapu/wedding-invitation-go/internal/constants"
	"github.com/kapu/wedding-invitation-go/internal/domain"
	apperrors "github.com/kapu/wedding-invitation-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const uncategorized = "Uncategorized"

// Cache is the subset of the Redis cache service the guest list needs.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Service assembles the read-only guest list from one or more spreadsheets.
type Service struct {
	sources  []Source
	origin   string
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

type ServiceConfig struct {
	Origin   string
	Cache    Cache
	CacheTTL time.Duration
}

func NewService(sources []Source, cfg ServiceConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = constants.CacheTTL.GuestList
	}
	return &Service{
		sources:  sources,
		origin:   cfg.Origin,
		cache:    cfg.Cache,
		cacheTTL: ttl,
		logger:   logger,
	}
}

// Configured reports whether any spreadsheet source was set up.
func (s *Service) Configured() bool {
	return len(s.sources) > 0
}

// List returns every guest with a deep link, optionally filtered by category
// (case-insensitive).
func (s *Service) List(ctx context.Context, category string) ([]domain.Guest, error) {
	guests, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	category = strings.TrimSpace(category)
	if category == "" {
		return guests, nil
	}

	filtered := make([]domain.Guest, 0, len(guests))
	for _, g := range guests {
		if strings.EqualFold(g.Category, category) {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

// Categories counts guests per category in order of first appearance.
func (s *Service) Categories(ctx context.Context) ([]domain.GuestCategory, error) {
	guests, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	categories := make([]domain.GuestCategory, 0)
	for _, g := range guests {
		name := g.Category
		if name == "" {
			name = uncategorized
		}
		key := strings.ToLower(name)
		if i, ok := index[key]; ok {
			categories[i].Count++
			continue
		}
		index[key] = len(categories)
		categories = append(categories, domain.GuestCategory{Name: name, Count: 1})
	}
	return categories, nil
}

// Invalidate drops the cached guest list so the next read refetches the
// spreadsheets. It is a no-op without a cache.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Del(ctx, constants.CacheKeys.GuestList); err != nil {
		return apperrors.NewServiceError("failed to invalidate guest cache", "guest", "invalidate", err)
	}
	s.logger.Info("Guest cache invalidated")
	return nil
}

func (s *Service) all(ctx context.Context) ([]domain.Guest, error) {
	if !s.Configured() {
		return nil, apperrors.NewServiceError("no guest spreadsheet configured", "guest", "list", nil)
	}

	if s.cache != nil {
		var cached []domain.Guest
		found, err := s.cache.Get(ctx, constants.CacheKeys.GuestList, &cached)
		if err != nil {
			s.logger.Warn("Guest cache read failed, fetching spreadsheets", zap.Error(err))
		} else if found {
			s.logger.Debug("Guest cache hit", zap.Int("count", len(cached)))
			return cached, nil
		}
	}

	guests, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, constants.CacheKeys.GuestList, guests, s.cacheTTL); err != nil {
			s.logger.Warn("Guest cache write failed", zap.Error(err))
		}
	}
	return guests, nil
}

type sourceBatch struct {
	index int
	rows  []Row
}

func (s *Service) fetch(ctx context.Context) ([]domain.Guest, error) {
	started := time.Now()

	p := pool.NewWithResults[sourceBatch]().
		WithContext(ctx).
		WithCancelOnError().
		WithMaxGoroutines(constants.GuestConfig.MaxConcurrentSources)

	for i, src := range s.sources {
		p.Go(func(ctx context.Context) (sourceBatch, error) {
			rows, err := src.Fetch(ctx)
			if err != nil {
				s.logger.Error("Guest source failed", zap.String("source", src.Name()), zap.Error(err))
				return sourceBatch{}, fmt.Errorf("%s: %w", src.Name(), err)
			}
			return sourceBatch{index: i, rows: rows}, nil
		})
	}

	batches, err := p.Wait()
	if err != nil {
		return nil, apperrors.NewServiceError("failed to load guest list", "guest", "fetch", err)
	}

	// Results arrive in completion order; restore source order.
	ordered := make([][]Row, len(s.sources))
	for _, b := range batches {
		ordered[b.index] = b.rows
	}

	guests := make([]domain.Guest, 0)
	for _, rows := range ordered {
		for _, row := range rows {
			guests = append(guests, domain.Guest{
				Name:     row.Name,
				Category: row.Category,
				Link:     BuildLink(s.origin, row.Name),
			})
		}
	}

	s.logger.Info("Guest list loaded",
		zap.Int("sources", len(s.sources)),
		zap.Int("guests", len(guests)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return guests, nil
}
