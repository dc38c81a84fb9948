package errors

import "fmt"

// Error codes
const (
	CodeAppError   = "APP_ERROR"
	CodeUpstream   = "UPSTREAM_ERROR"
	CodeValidation = "VALIDATION_ERROR"
	CodeCache      = "CACHE_ERROR"
	CodeService    = "SERVICE_ERROR"
	CodeConfig     = "CONFIG_ERROR"
)

// Upstream stages of the caricature pipeline.
const (
	StageDescribe = "describe"
	StageGenerate = "generate"
)

type AppError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// UpstreamError is a failed call to one of the external AI APIs.
// StatusCode is the upstream HTTP status, zero when the call never got a response.
type UpstreamError struct {
	*AppError
	Provider string
	Stage    string
}

func NewUpstreamError(message, provider, stage string, statusCode int, cause error) *UpstreamError {
	return &UpstreamError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeUpstream,
			StatusCode: statusCode,
			Context: map[string]any{
				"provider": provider,
				"stage":    stage,
			},
			Cause: cause,
		},
		Provider: provider,
		Stage:    stage,
	}
}

// IsRateLimited reports whether the upstream rejected the call with 429.
func (e *UpstreamError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsPaymentRequired reports whether the upstream account is out of credits.
func (e *UpstreamError) IsPaymentRequired() bool {
	return e.StatusCode == 402
}

type ValidationError struct {
	*AppError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

type CacheError struct {
	*AppError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 500,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type ServiceError struct {
	*AppError
	Service   string
	Operation string
}

func NewServiceError(message, service, operation string, cause error) *ServiceError {
	return &ServiceError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeService,
			StatusCode: 500,
			Context: map[string]any{
				"service":   service,
				"operation": operation,
			},
			Cause: cause,
		},
		Service:   service,
		Operation: operation,
	}
}

// ConfigError reports a setting that is required at request time but absent,
// such as an upstream API key.
type ConfigError struct {
	*AppError
	Key string
}

func NewConfigError(message, key string) *ConfigError {
	return &ConfigError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeConfig,
			StatusCode: 500,
			Context: map[string]any{
				"key": key,
			},
		},
		Key: key,
	}
}
