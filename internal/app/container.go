package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kapu/wedding-invitation-go/internal/config"
	"github.com/kapu/wedding-invitation-go/internal/constants"
	"github.com/kapu/wedding-invitation-go/internal/server"
	"github.com/kapu/wedding-invitation-go/internal/service/ai"
	"github.com/kapu/wedding-invitation-go/internal/service/cache"
	"github.com/kapu/wedding-invitation-go/internal/service/caricature"
	"github.com/kapu/wedding-invitation-go/internal/service/guest"
	"github.com/kapu/wedding-invitation-go/internal/service/invitation"
	"github.com/kapu/wedding-invitation-go/internal/util"
	"go.uber.org/zap"
)

// Container bundles the assembled services behind the HTTP router.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Caricature *caricature.Service
	Guests     *guest.Service
	Invitation *invitation.PageService
	// Cache is nil when Redis is disabled or was unreachable at startup.
	Cache      *cache.CacheService

	closers []func()
}

// Router builds the gin engine serving every route.
func (c *Container) Router() *gin.Engine {
	deps := server.Dependencies{
		Caricature: c.Caricature,
		Guests:     c.Guests,
		Invitation: c.Invitation,
		Logger:     c.Logger,
	}
	if c.Cache != nil {
		deps.Cache = c.Cache
	}
	return server.NewRouter(deps)
}

// Close releases infrastructure in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build assembles all services. Redis and the guest spreadsheets are
// optional; a missing AI key is tolerated and surfaces per request.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// AI stack
	provider, err := ai.NewProvider(ctx, cfg.AI, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}
	caricatureSvc := caricature.NewService(provider, cfg.AI.Watermark, logger)

	// Guest list
	cacheSvc := ConnectCache(ctx, cfg.Redis, logger)
	if cacheSvc != nil {
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
	}

	sources, err := BuildGuestSources(ctx, cfg.Guests)
	if err != nil {
		return nil, err
	}
	guestSvc := NewGuestService(sources, cfg, cacheSvc, logger)

	// Invitation page
	weddingAt, err := ParseWeddingDate(cfg.Invitation)
	if err != nil {
		return nil, err
	}
	pageSvc, err := invitation.NewPageService(invitation.PageConfig{
		IndexFile:   cfg.Invitation.IndexFile,
		CoupleNames: cfg.Invitation.CoupleNames,
		WeddingAt:   weddingAt,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation page: %w", err)
	}

	logger.Info("Services assembled",
		zap.String("ai_provider", caricatureSvc.ProviderName()),
		zap.Bool("ai_ready", caricatureSvc.Ready()),
		zap.Int("guest_sources", len(sources)),
		zap.Bool("guest_cache", cacheSvc != nil),
		zap.Bool("countdown", !weddingAt.IsZero()),
	)

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Caricature: caricatureSvc,
		Guests:     guestSvc,
		Invitation: pageSvc,
		Cache:      cacheSvc,
		closers:    closers,
	}, nil
}

// ConnectCache opens the optional Redis cache. It returns nil when Redis is
// disabled or unreachable; the guest list then refetches on every request.
func ConnectCache(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *cache.CacheService {
	if !cfg.Enabled {
		return nil
	}
	cacheSvc, err := cache.NewCacheService(ctx, cache.CacheConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, logger)
	if err != nil {
		logger.Warn("Redis unavailable, guest list will not be cached", zap.Error(err))
		return nil
	}
	return cacheSvc
}

// NewGuestService builds the guest list service, caching through cacheSvc
// when it is non-nil.
func NewGuestService(sources []guest.Source, cfg *config.Config, cacheSvc *cache.CacheService, logger *zap.Logger) *guest.Service {
	serviceCfg := guest.ServiceConfig{
		Origin:   cfg.Server.SiteOrigin,
		CacheTTL: cfg.Guests.CacheTTL,
	}
	if cacheSvc != nil {
		serviceCfg.Cache = cacheSvc
	}
	return guest.NewService(sources, serviceCfg, logger)
}

// BuildGuestSources creates one source per published CSV URL plus the Sheets
// API source when a spreadsheet id is set.
func BuildGuestSources(ctx context.Context, cfg config.GuestsConfig) ([]guest.Source, error) {
	httpClient := &http.Client{Timeout: constants.HTTPConfig.SheetTimeout}

	sources := make([]guest.Source, 0, len(cfg.CSVURLs)+1)
	for _, url := range cfg.CSVURLs {
		sources = append(sources, guest.NewCSVSource(url, cfg.HasHeader, httpClient))
	}

	if cfg.SpreadsheetID != "" {
		sheetsSrc, err := guest.NewSheetsSource(ctx, guest.SheetsConfig{
			SpreadsheetID:      cfg.SpreadsheetID,
			Range:              cfg.SheetRange,
			APIKey:             cfg.SheetsAPIKey,
			ServiceAccountFile: cfg.ServiceAccountFile,
			HasHeader:          cfg.HasHeader,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets source: %w", err)
		}
		sources = append(sources, sheetsSrc)
	}

	return sources, nil
}

// ParseWeddingDate interprets WEDDING_DATE in WEDDING_TIMEZONE. An empty
// date yields the zero time.
func ParseWeddingDate(cfg config.InvitationConfig) (time.Time, error) {
	if cfg.WeddingDate == "" {
		return time.Time{}, nil
	}
	weddingAt, err := time.ParseInLocation("2006-01-02T15:04", cfg.WeddingDate, util.LoadLocation(cfg.Timezone))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid WEDDING_DATE: %w", err)
	}
	return weddingAt, nil
}
