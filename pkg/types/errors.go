package types

import "fmt"

// Error code constants for agent-facing errors.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeAuthFailed    = "AUTH_FAILED"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeRateLimited   = "RATE_LIMITED"
	ErrCodeServerError   = "SERVER_ERROR"
	ErrCodeBackendError  = "BACKEND_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// MCPError represents a structured error returned to AI agents.
type MCPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Tool    string `json:"tool"`
	Detail  string `json:"detail,omitempty"`
}

func (e *MCPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s (%s)", e.Code, e.Tool, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Tool, e.Message)
}
