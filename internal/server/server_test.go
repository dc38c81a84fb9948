package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kapu/wedding-invitation-go/internal/domain"
	"github.com/kapu/wedding-invitation-go/internal/service/caricature"
	apperrors "github.com/kapu/wedding-invitation-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeGenerator struct {
	result   caricature.Result
	requests []domain.CaricatureRequest
	ready    bool
}

func (f *fakeGenerator) Generate(_ context.Context, req domain.CaricatureRequest) caricature.Result {
	f.requests = append(f.requests, req)
	return f.result
}

func (f *fakeGenerator) ProviderName() string { return "Fake" }
func (f *fakeGenerator) Ready() bool          { return f.ready }

type fakeGuests struct {
	configured bool
	guests     []domain.Guest
	categories []domain.GuestCategory
	err        error
	lastFilter string
}

func (f *fakeGuests) Configured() bool { return f.configured }

func (f *fakeGuests) List(_ context.Context, category string) ([]domain.Guest, error) {
	f.lastFilter = category
	return f.guests, f.err
}

func (f *fakeGuests) Categories(_ context.Context) ([]domain.GuestCategory, error) {
	return f.categories, f.err
}

type fakePage struct {
	lastTo    string
	countdown *domain.Countdown
}

func (f *fakePage) Render(to string) ([]byte, error) {
	f.lastTo = to
	return []byte("<html><body>hello " + to + "</body></html>"), nil
}

func (f *fakePage) Countdown(time.Time) (domain.Countdown, bool) {
	if f.countdown == nil {
		return domain.Countdown{}, false
	}
	return *f.countdown, true
}

var fixedNow = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func newTestRouter(gen CaricatureGenerator, guests GuestLister, page InvitationRenderer) *gin.Engine {
	return NewRouter(Dependencies{
		Caricature: gen,
		Guests:     guests,
		Invitation: page,
		Now:        func() time.Time { return fixedNow },
	})
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, corsAllowHeaders, rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, corsAllowMethods, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestPreflightIsAnsweredWithCORSHeaders(t *testing.T) {
	gen := &fakeGenerator{}
	router := newTestRouter(gen, nil, nil)

	rec := do(router, http.MethodOptions, "/generate-caricature", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assertCORS(t, rec)
	assert.Empty(t, gen.requests)
}

func TestGenerateCaricatureSuccess(t *testing.T) {
	gen := &fakeGenerator{result: caricature.Result{Outcome: caricature.OutcomeSuccess, Image: "aW1n"}}
	router := newTestRouter(gen, nil, nil)

	rec := do(router, http.MethodPost, "/generate-caricature", `{"imageBase64":"/9j/abc","style":"cartoon"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assertCORS(t, rec)

	var resp domain.CaricatureResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.CaricatureResponse{Success: true, Image: "aW1n"}, resp)

	require.Len(t, gen.requests, 1)
	assert.Equal(t, domain.StyleCartoon, gen.requests[0].Style)
	assert.Equal(t, "/9j/abc", gen.requests[0].ImageBase64)
}

func TestGenerateCaricatureFailureIs500(t *testing.T) {
	gen := &fakeGenerator{result: caricature.Result{
		Outcome: caricature.OutcomeInvalidInput,
		Err:     apperrors.NewValidationError("No image provided", "imageBase64", ""),
	}}
	router := newTestRouter(gen, nil, nil)

	rec := do(router, http.MethodPost, "/generate-caricature", `{}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assertCORS(t, rec)
	assert.JSONEq(t, `{"success":false,"error":"No image provided"}`, rec.Body.String())
}

func TestGenerateCaricatureMalformedBody(t *testing.T) {
	gen := &fakeGenerator{}
	router := newTestRouter(gen, nil, nil)

	rec := do(router, http.MethodPost, "/generate-caricature", `{"imageBase64":`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid request body"}`, rec.Body.String())
	assert.Empty(t, gen.requests)
}

func TestGenerateCaricatureOversizedBody(t *testing.T) {
	gen := &fakeGenerator{}
	router := newTestRouter(gen, nil, nil)

	body := `{"imageBase64":"` + strings.Repeat("A", 9*1024*1024) + `"}`
	rec := do(router, http.MethodPost, "/generate-caricature", body)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Request body is too large"}`, rec.Body.String())
	assert.Empty(t, gen.requests)
}

func TestUnknownRouteStillCarriesCORS(t *testing.T) {
	rec := do(newTestRouter(nil, nil, nil), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assertCORS(t, rec)
}

func TestGuestsEndpoint(t *testing.T) {
	guests := &fakeGuests{
		configured: true,
		guests: []domain.Guest{
			{Name: "Budi Santoso", Category: "Keluarga", Link: "https://x.id/?to=Budi_Santoso"},
		},
	}
	router := newTestRouter(nil, guests, nil)

	rec := do(router, http.MethodGet, "/api/guests?category=Keluarga", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Keluarga", guests.lastFilter)

	var resp domain.GuestListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, guests.guests, resp.Guests)
}

func TestGuestsEndpointNotConfigured(t *testing.T) {
	rec := do(newTestRouter(nil, &fakeGuests{}, nil), http.MethodGet, "/api/guests", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(newTestRouter(nil, nil, nil), http.MethodGet, "/api/guests/categories", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGuestsEndpointUpstreamFailure(t *testing.T) {
	guests := &fakeGuests{configured: true, err: errors.New("sheet gone")}
	rec := do(newTestRouter(nil, guests, nil), http.MethodGet, "/api/guests/categories", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestInvitationPagePassesGuestParam(t *testing.T) {
	page := &fakePage{}
	rec := do(newTestRouter(nil, nil, page), http.MethodGet, "/?to=Budi_Santoso", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Budi_Santoso", page.lastTo)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assertCORS(t, rec)
}

func TestCountdownEndpoint(t *testing.T) {
	page := &fakePage{}
	rec := do(newTestRouter(nil, nil, page), http.MethodGet, "/api/countdown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	page.countdown = &domain.Countdown{Days: 54, Hours: 2}
	rec = do(newTestRouter(nil, nil, page), http.MethodGet, "/api/countdown", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var c domain.Countdown
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, 54, c.Days)
}

func TestHealth(t *testing.T) {
	rec := do(newTestRouter(&fakeGenerator{ready: true}, &fakeGuests{configured: true}, nil), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp domain.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.HealthResponse{
		Status:        "healthy",
		Timestamp:     fixedNow.Unix(),
		Provider:      "Fake",
		ProviderReady: true,
		GuestsEnabled: true,
		Cache:         domain.CacheDisabled,
	}, resp)
}

type fakeCache struct {
	connected bool
}

func (f fakeCache) IsConnected(context.Context) bool { return f.connected }

func TestHealthReportsCacheState(t *testing.T) {
	for _, tc := range []struct {
		cache CacheStatus
		want  string
	}{
		{cache: nil, want: domain.CacheDisabled},
		{cache: fakeCache{connected: true}, want: domain.CacheConnected},
		{cache: fakeCache{connected: false}, want: domain.CacheUnreachable},
	} {
		router := NewRouter(Dependencies{Cache: tc.cache, Now: func() time.Time { return fixedNow }})
		rec := do(router, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp domain.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, tc.want, resp.Cache)
	}
}
