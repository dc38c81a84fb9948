package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kapu/wedding-invitation-go/internal/domain"
	"github.com/kapu/wedding-invitation-go/internal/service/caricature"
	"go.uber.org/zap"
)

// CaricatureGenerator runs the describe-then-generate pipeline.
type CaricatureGenerator interface {
	Generate(ctx context.Context, req domain.CaricatureRequest) caricature.Result
	ProviderName() string
	Ready() bool
}

// GuestLister serves the admin guest list.
type GuestLister interface {
	Configured() bool
	List(ctx context.Context, category string) ([]domain.Guest, error)
	Categories(ctx context.Context) ([]domain.GuestCategory, error)
}

// InvitationRenderer renders the personalised landing page.
type InvitationRenderer interface {
	Render(to string) ([]byte, error)
	Countdown(now time.Time) (domain.Countdown, bool)
}

// CacheStatus reports whether the optional guest-list cache is reachable.
type CacheStatus interface {
	IsConnected(ctx context.Context) bool
}

// Dependencies are the services behind the router. Cache is nil when Redis
// is disabled; Now is overridable for tests.
type Dependencies struct {
	Caricature CaricatureGenerator
	Guests     GuestLister
	Invitation InvitationRenderer
	Cache      CacheStatus
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewRouter wires every HTTP route. CORS headers are stamped on all
// responses, including 404s and pre-flight requests.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	router := gin.New()
	router.Use(requestLogger(deps.Logger), recovery(deps.Logger), corsMiddleware())

	caricatureHandler := NewCaricatureHandler(deps.Caricature, deps.Logger)
	guestHandler := NewGuestHandler(deps.Guests, deps.Logger)
	invitationHandler := NewInvitationHandler(deps.Invitation, deps.Caricature, deps.Guests, deps.Cache, deps.Now, deps.Logger)

	router.POST("/generate-caricature", caricatureHandler.Generate)
	router.POST("/functions/v1/generate-caricature", caricatureHandler.Generate)

	api := router.Group("/api")
	{
		api.GET("/guests", guestHandler.List)
		api.GET("/guests/categories", guestHandler.Categories)
		api.GET("/countdown", invitationHandler.Countdown)
	}

	router.GET("/health", invitationHandler.Health)
	router.GET("/", invitationHandler.Page)

	return router
}
