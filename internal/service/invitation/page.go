package invitation

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/wedding-invitation-go/internal/domain"
	"github.com/kapu/wedding-invitation-go/internal/service/guest"
	"go.uber.org/zap"
)

//go:embed assets/index.html
var fallbackIndex []byte

const (
	guestNameSelector   = "#guest-name"
	coupleNamesSelector = "#couple-names"
	ogTitleSelector     = `meta[property="og:title"]`
)

// PageService renders the landing page with the ?to= guest greeting already
// in place, so link previews in chat apps show the guest's name.
type PageService struct {
	index       []byte
	coupleNames string
	weddingAt   time.Time
	hasDate     bool
	logger      *zap.Logger
}

type PageConfig struct {
	IndexFile   string
	CoupleNames string
	// WeddingAt is the ceremony start; zero disables the countdown.
	WeddingAt time.Time
}

func NewPageService(cfg PageConfig, logger *zap.Logger) (*PageService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	index := fallbackIndex
	if cfg.IndexFile != "" {
		content, err := os.ReadFile(cfg.IndexFile)
		if err != nil {
			return nil, fmt.Errorf("read invitation index: %w", err)
		}
		index = content
		logger.Info("Invitation page loaded", zap.String("file", cfg.IndexFile), zap.Int("bytes", len(content)))
	}

	return &PageService{
		index:       index,
		coupleNames: strings.TrimSpace(cfg.CoupleNames),
		weddingAt:   cfg.WeddingAt,
		hasDate:     !cfg.WeddingAt.IsZero(),
		logger:      logger,
	}, nil
}

// Render returns the page for the raw ?to= value (may be empty).
func (p *PageService) Render(to string) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.index))
	if err != nil {
		return nil, fmt.Errorf("parse invitation page: %w", err)
	}

	if p.coupleNames != "" {
		doc.Find(coupleNamesSelector).SetText(p.coupleNames)
	}

	if name := guest.GreetingFromParam(to); name != "" {
		doc.Find(guestNameSelector).SetText(name)

		title := p.personalTitle(name)
		doc.Find("title").SetText(title)
		doc.Find(ogTitleSelector).SetAttr("content", title)
	}

	html, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("render invitation page: %w", err)
	}
	return []byte(html), nil
}

func (p *PageService) personalTitle(name string) string {
	if p.coupleNames == "" {
		return fmt.Sprintf("Wedding invitation for %s", name)
	}
	return fmt.Sprintf("%s, you are invited to the wedding of %s", name, p.coupleNames)
}

// Countdown reports the time left until the ceremony. ok is false when no
// wedding date is configured.
func (p *PageService) Countdown(now time.Time) (domain.Countdown, bool) {
	if !p.hasDate {
		return domain.Countdown{}, false
	}
	return domain.NewCountdown(p.weddingAt, now), true
}
