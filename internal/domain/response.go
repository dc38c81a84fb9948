package domain

// ErrorResponse is the error body of the JSON API outside the caricature endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     int64  `json:"timestamp"`
	Provider      string `json:"provider"`
	ProviderReady bool   `json:"provider_ready"`
	GuestsEnabled bool   `json:"guests_enabled"`
	Cache         string `json:"cache"`
}

// Cache states reported by the health endpoint.
const (
	CacheDisabled    = "disabled"
	CacheConnected   = "connected"
	CacheUnreachable = "unreachable"
)

type GuestListResponse struct {
	Guests []Guest `json:"guests"`
	Count  int     `json:"count"`
}
