package tools

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/datagovlab/purview-mcp/pkg/config"
	"github.com/datagovlab/purview-mcp/pkg/purview"
	"github.com/datagovlab/purview-mcp/pkg/types"
)

type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]interface{}
	Run(ctx context.Context, args map[string]interface{}) (*StandardResponse, error)
}

// Backend is the slice of the Purview client the tools consume.
// *purview.Client satisfies it; tests substitute a stub.
type Backend interface {
	QueryAuditLogs(ctx context.Context, q purview.AuditQuery) ([]purview.AuditRecord, error)
	RunScan(ctx context.Context, dataSourceName, scanLevel string) (*purview.ScanRun, error)
	QueryCatalogSummary(ctx context.Context) (*purview.SearchSummary, error)
	GetLineage(ctx context.Context, entityID string, depth int) (*purview.AtlasLineage, error)
}

type StandardResponse struct {
	Account   string      `json:"account"`
	Timestamp string      `json:"timestamp"`
	Tool      string      `json:"tool"`
	Data      interface{} `json:"data"`
}

// BaseTool carries the shared dependencies of every tool: immutable
// configuration, the backend facade, and an injectable clock so default
// time windows are deterministic under test.
type BaseTool struct {
	Cfg     *config.Config
	Backend Backend
	Now     func() time.Time
}

func (b BaseTool) now() time.Time {
	if b.Now != nil {
		return b.Now().UTC()
	}
	return time.Now().UTC()
}

func (b BaseTool) respond(toolName string, data interface{}) *StandardResponse {
	return &StandardResponse{
		Account:   b.Cfg.AccountName,
		Timestamp: b.now().Format(time.RFC3339),
		Tool:      toolName,
		Data:      data,
	}
}

func getStringArg(args map[string]interface{}, key string, defaultVal string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return defaultVal
}

func getIntArg(args map[string]interface{}, key string, defaultVal int) int {
	if v, ok := args[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return defaultVal
}

// timestampLayouts are the accepted ISO-8601 spellings: RFC 3339 with or
// without fractional seconds, and the zone-less form (treated as UTC).
var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05"}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO-8601 timestamp: %q", s)
}

// invalidInput is the ValidationError shape: it is produced before any
// backend call is attempted.
func invalidInput(tool, msg string) *types.MCPError {
	return &types.MCPError{Code: types.ErrCodeInvalidInput, Tool: tool, Message: msg}
}

// backendToMCP translates facade failures into agent-facing errors,
// keeping the category-derived code and the backend's short error code.
func backendToMCP(tool string, err error) *types.MCPError {
	var be *purview.BackendError
	if errors.As(err, &be) {
		return &types.MCPError{
			Code:    codeForCategory(be.Category),
			Tool:    tool,
			Message: be.Error(),
			Detail:  be.ErrorCode,
		}
	}
	return &types.MCPError{Code: types.ErrCodeInternalError, Tool: tool, Message: err.Error()}
}

func codeForCategory(cat purview.Category) string {
	switch cat {
	case purview.CategoryNotFound:
		return types.ErrCodeNotFound
	case purview.CategoryUnauthorized:
		return types.ErrCodeUnauthorized
	case purview.CategoryRateLimited:
		return types.ErrCodeRateLimited
	case purview.CategoryServerError:
		return types.ErrCodeServerError
	default:
		return types.ErrCodeBackendError
	}
}
