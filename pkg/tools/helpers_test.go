package tools

import (
	"context"
	"time"

	"github.com/datagovlab/purview-mcp/pkg/config"
	"github.com/datagovlab/purview-mcp/pkg/purview"
)

var testNow = time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC)

// stubBackend records the last call per operation and returns canned data.
type stubBackend struct {
	calls int

	auditQuery   purview.AuditQuery
	auditRecords []purview.AuditRecord
	auditErr     error

	scanSource string
	scanLevel  string
	scanRun    *purview.ScanRun
	scanErr    error

	summary    *purview.SearchSummary
	summaryErr error

	lineageID    string
	lineageDepth int
	lineage      *purview.AtlasLineage
	lineageErr   error
}

func (s *stubBackend) QueryAuditLogs(ctx context.Context, q purview.AuditQuery) ([]purview.AuditRecord, error) {
	s.calls++
	s.auditQuery = q
	return s.auditRecords, s.auditErr
}

func (s *stubBackend) RunScan(ctx context.Context, dataSourceName, scanLevel string) (*purview.ScanRun, error) {
	s.calls++
	s.scanSource = dataSourceName
	s.scanLevel = scanLevel
	return s.scanRun, s.scanErr
}

func (s *stubBackend) QueryCatalogSummary(ctx context.Context) (*purview.SearchSummary, error) {
	s.calls++
	return s.summary, s.summaryErr
}

func (s *stubBackend) GetLineage(ctx context.Context, entityID string, depth int) (*purview.AtlasLineage, error) {
	s.calls++
	s.lineageID = entityID
	s.lineageDepth = depth
	return s.lineage, s.lineageErr
}

func newTestBase(backend Backend) BaseTool {
	return BaseTool{
		Cfg: &config.Config{
			AccountName: "contoso",
			Endpoint:    "https://contoso.purview.azure.com",
		},
		Backend: backend,
		Now:     func() time.Time { return testNow },
	}
}
