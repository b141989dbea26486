package purview

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// Category buckets a failed backend call by its HTTP outcome.
type Category string

const (
	CategoryNotFound     Category = "NotFound"
	CategoryUnauthorized Category = "Unauthorized"
	CategoryRateLimited  Category = "RateLimited"
	CategoryServerError  Category = "ServerError"
	CategoryUnknown      Category = "Unknown"
)

// BackendError wraps a failed Purview call with its category. The rendered
// message carries only the operation, category, and status; raw responses
// (which may quote request details) stay behind Unwrap for server-side logs.
type BackendError struct {
	Operation  string
	Category   Category
	StatusCode int
	ErrorCode  string
	err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("purview %s failed: %s (HTTP %d)", e.Operation, e.Category, e.StatusCode)
	}
	return fmt.Sprintf("purview %s failed: %s", e.Operation, e.Category)
}

func (e *BackendError) Unwrap() error { return e.err }

// classify converts pipeline errors into BackendError. Token fetch
// failures count as Unauthorized: the credential was resolvable at
// startup, so a refusal here is the backend rejecting this identity.
func classify(operation string, err error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return &BackendError{
			Operation:  operation,
			Category:   categoryFromStatus(respErr.StatusCode),
			StatusCode: respErr.StatusCode,
			ErrorCode:  respErr.ErrorCode,
			err:        err,
		}
	}
	var authErr *azidentity.AuthenticationFailedError
	if errors.As(err, &authErr) {
		return &BackendError{Operation: operation, Category: CategoryUnauthorized, err: err}
	}
	return &BackendError{Operation: operation, Category: CategoryUnknown, err: err}
}

func categoryFromStatus(status int) Category {
	switch {
	case status == http.StatusNotFound:
		return CategoryNotFound
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return CategoryUnauthorized
	case status == http.StatusTooManyRequests:
		return CategoryRateLimited
	case status >= 500:
		return CategoryServerError
	default:
		return CategoryUnknown
	}
}
