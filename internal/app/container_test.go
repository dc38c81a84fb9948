package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kapu/wedding-invitation-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", SiteOrigin: "https://rina-dimas.id"},
		AI:     config.AIConfig{Provider: config.ProviderOpenAI},
		Guests: config.GuestsConfig{
			CSVURLs:   []string{"https://docs.example/pub?output=csv"},
			HasHeader: true,
		},
		Invitation: config.InvitationConfig{
			CoupleNames: "Rina & Dimas",
			WeddingDate: "2026-12-12T10:00",
			Timezone:    "Asia/Jakarta",
		},
	}
}

func TestBuildWithoutAPIKeyStillServes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	container, err := Build(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(container.Close)

	assert.False(t, container.Caricature.Ready())
	assert.True(t, container.Guests.Configured())

	rec := httptest.NewRecorder()
	container.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cache":"disabled"`)
}

func TestBuildRejectsNilInputs(t *testing.T) {
	_, err := Build(context.Background(), nil, zap.NewNop())
	require.Error(t, err)

	_, err = Build(context.Background(), testConfig(), nil)
	require.Error(t, err)
}

func TestBuildGuestSourcesNeedsSheetsCredentials(t *testing.T) {
	_, err := BuildGuestSources(context.Background(), config.GuestsConfig{SpreadsheetID: "abc"})
	require.Error(t, err)

	sources, err := BuildGuestSources(context.Background(), config.GuestsConfig{
		CSVURLs: []string{"https://a.example/csv", "https://b.example/csv"},
	})
	require.NoError(t, err)
	assert.Len(t, sources, 2)
}

func TestConnectCacheIsOptional(t *testing.T) {
	assert.Nil(t, ConnectCache(context.Background(), config.RedisConfig{}, zap.NewNop()))

	// nothing listens on port 1; the server keeps running without a cache
	unreachable := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}
	assert.Nil(t, ConnectCache(context.Background(), unreachable, zap.NewNop()))
}

func TestParseWeddingDate(t *testing.T) {
	zero, err := ParseWeddingDate(config.InvitationConfig{})
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	at, err := ParseWeddingDate(config.InvitationConfig{WeddingDate: "2026-12-12T10:00", Timezone: "Asia/Jakarta"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 12, 3, 0, 0, 0, time.UTC), at.UTC())
}
