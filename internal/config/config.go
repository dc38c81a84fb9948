package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	AI         AIConfig
	Guests     GuestsConfig
	Redis      RedisConfig
	Invitation InvitationConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Port       string
	SiteOrigin string
	GinMode    string
}

type AIConfig struct {
	Provider        string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	VisionModel     string
	ImageModel      string
	GeminiAPIKey    string
	GeminiVision    string
	GeminiImage     string
	Watermark       string
	UpstreamTimeout time.Duration
}

type GuestsConfig struct {
	CSVURLs            []string
	SpreadsheetID      string
	SheetRange         string
	SheetsAPIKey       string
	ServiceAccountFile string
	HasHeader          bool
	CacheTTL           time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type InvitationConfig struct {
	IndexFile   string
	CoupleNames string
	WeddingDate string
	Timezone    string
}

type LoggingConfig struct {
	Level string
	File  string
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:       getEnv("PORT", "8080"),
			SiteOrigin: getEnv("SITE_ORIGIN", "http://localhost:8080"),
			GinMode:    getEnv("GIN_MODE", "release"),
		},
		AI: AIConfig{
			Provider:        strings.ToLower(getEnv("AI_PROVIDER", ProviderOpenAI)),
			OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
			VisionModel:     getEnv("VISION_MODEL", "gpt-4o-mini"),
			ImageModel:      getEnv("IMAGE_MODEL", "dall-e-3"),
			GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
			GeminiVision:    getEnv("GEMINI_VISION_MODEL", "gemini-2.5-flash"),
			GeminiImage:     getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
			Watermark:       getEnv("CARICATURE_WATERMARK", ""),
			UpstreamTimeout: time.Duration(getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 120)) * time.Second,
		},
		Guests: GuestsConfig{
			CSVURLs:            parseCommaSeparated(getEnv("GUEST_SHEET_CSV_URLS", "")),
			SpreadsheetID:      getEnv("GUEST_SHEET_ID", ""),
			SheetRange:         getEnv("GUEST_SHEET_RANGE", "A:B"),
			SheetsAPIKey:       getEnv("GOOGLE_SHEETS_API_KEY", ""),
			ServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
			HasHeader:          getEnvBool("GUEST_SHEET_HAS_HEADER", true),
			CacheTTL:           time.Duration(getEnvInt("GUEST_CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Invitation: InvitationConfig{
			IndexFile:   getEnv("INVITATION_INDEX_FILE", ""),
			CoupleNames: getEnv("COUPLE_NAMES", "The Bride & The Groom"),
			WeddingDate: getEnv("WEDDING_DATE", ""),
			Timezone:    getEnv("WEDDING_TIMEZONE", "Asia/Jakarta"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if cfg.AI.Watermark == "" {
		cfg.AI.Watermark = cfg.Invitation.CoupleNames
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings needed to start serving. Upstream API keys are not
// required here; their absence is reported per request.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.SiteOrigin == "" {
		return fmt.Errorf("SITE_ORIGIN is required")
	}
	switch c.AI.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("AI_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, c.AI.Provider)
	}
	if c.Invitation.WeddingDate != "" {
		if _, err := time.Parse("2006-01-02T15:04", c.Invitation.WeddingDate); err != nil {
			return fmt.Errorf("WEDDING_DATE must use layout 2006-01-02T15:04: %w", err)
		}
	}
	return nil
}

// HasGuestSources reports whether any spreadsheet source is configured.
func (g GuestsConfig) HasGuestSources() bool {
	return len(g.CSVURLs) > 0 || g.SpreadsheetID != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func parseCommaSeparated(value string) []string {
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
