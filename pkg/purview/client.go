// Package purview is a thin client for the Microsoft Purview data plane.
// It owns the HTTP pipeline and the resolved credential; every method is a
// single authenticated round-trip with no caching and no retry policy
// beyond what the azcore pipeline applies by default.
package purview

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	moduleName    = "github.com/datagovlab/purview-mcp"
	moduleVersion = "v0.1.0"

	// tokenScope is the Purview data-plane OAuth scope.
	tokenScope = "https://purview.azure.net/.default"

	auditAPIVersion  = "2023-06-01-preview"
	scanAPIVersion   = "2022-02-01-preview"
	searchAPIVersion = "2022-08-01-preview"

	// defaultScanName is the scan definition a run is triggered against
	// when the caller only names the data source.
	defaultScanName = "default"

	// facetLimit caps how many facet buckets the summary query requests.
	facetLimit = 50
)

// ClientOptions configures the Purview client. Embedding azcore options
// lets callers install their own Transporter (otelhttp in the entry
// point, an httptest client in tests).
type ClientOptions struct {
	azcore.ClientOptions
}

// Client talks to one Purview account. Safe for concurrent use; it is
// constructed once at startup and shared read-only by every tool call.
type Client struct {
	endpoint string
	pipeline runtime.Pipeline
	requests metric.Int64Counter
}

// NewClient builds the shared pipeline with a bearer-token policy for the
// Purview scope. The credential is not exercised here; the first request
// triggers the token fetch.
func NewClient(endpoint string, cred azcore.TokenCredential, options *ClientOptions) (*Client, error) {
	if options == nil {
		options = &ClientOptions{}
	}
	authPolicy := runtime.NewBearerTokenPolicy(cred, []string{tokenScope}, nil)
	pl := runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{
		PerRetry: []policy.Policy{authPolicy},
	}, &options.ClientOptions)

	requests, err := otel.Meter(moduleName).Int64Counter(
		"purview.backend.requests",
		metric.WithDescription("Purview REST calls by operation and outcome"),
	)
	if err != nil {
		slog.Warn("purview: failed to create request counter, backend metrics will be unavailable", "error", err)
		requests = nil
	}

	return &Client{
		endpoint: endpoint,
		pipeline: pl,
		requests: requests,
	}, nil
}

// QueryAuditLogs retrieves governance audit events in [q.Start, q.End],
// at most q.Limit of them, in whatever order the backend uses.
func (c *Client) QueryAuditLogs(ctx context.Context, q AuditQuery) ([]AuditRecord, error) {
	req, err := runtime.NewRequest(ctx, http.MethodPost, runtime.JoinPaths(c.endpoint, "audit/api/query"))
	if err != nil {
		return nil, err
	}
	qp := req.Raw().URL.Query()
	qp.Set("api-version", auditAPIVersion)
	req.Raw().URL.RawQuery = qp.Encode()

	body := auditQueryRequest{
		StartTime: q.Start.UTC().Format(time.RFC3339),
		EndTime:   q.End.UTC().Format(time.RFC3339),
		Limit:     q.Limit,
	}
	if err := runtime.MarshalAsJSON(req, body); err != nil {
		return nil, err
	}

	resp, err := c.do(req, "query_audit_logs", http.StatusOK)
	if err != nil {
		return nil, err
	}
	var page auditQueryResponse
	if err := runtime.UnmarshalAsJSON(resp, &page); err != nil {
		return nil, classify("query_audit_logs", err)
	}
	return page.Value, nil
}

// RunScan triggers a scan run against the named data source. Unknown
// sources surface as CategoryNotFound.
func (c *Client) RunScan(ctx context.Context, dataSourceName, scanLevel string) (*ScanRun, error) {
	runID := uuid.New().String()
	req, err := runtime.NewRequest(ctx, http.MethodPut, runtime.JoinPaths(c.endpoint,
		"scan/datasources", url.PathEscape(dataSourceName), "scans", defaultScanName, "runs", runID))
	if err != nil {
		return nil, err
	}
	qp := req.Raw().URL.Query()
	qp.Set("api-version", scanAPIVersion)
	qp.Set("scanLevel", scanLevel)
	req.Raw().URL.RawQuery = qp.Encode()

	resp, err := c.do(req, "run_scan", http.StatusOK, http.StatusCreated, http.StatusAccepted)
	if err != nil {
		return nil, err
	}
	run := &ScanRun{}
	if err := runtime.UnmarshalAsJSON(resp, run); err != nil {
		// Some scan endpoints acknowledge with an empty body.
		*run = ScanRun{}
	}
	run.DataSource = dataSourceName
	run.ScanLevel = scanLevel
	if run.ID == "" {
		run.ID = runID
	}
	if run.Status == "" {
		run.Status = "Queued"
	}
	return run, nil
}

// QueryCatalogSummary runs a zero-result faceted search and folds the
// entityType and label facets into asset counts.
func (c *Client) QueryCatalogSummary(ctx context.Context) (*SearchSummary, error) {
	req, err := runtime.NewRequest(ctx, http.MethodPost, runtime.JoinPaths(c.endpoint, "catalog/api/search/query"))
	if err != nil {
		return nil, err
	}
	qp := req.Raw().URL.Query()
	qp.Set("api-version", searchAPIVersion)
	req.Raw().URL.RawQuery = qp.Encode()

	body := searchRequest{
		Keywords: "*",
		Limit:    1,
		Facets: []searchFacet{
			{Facet: "entityType", Count: facetLimit},
			{Facet: "label", Count: facetLimit},
		},
	}
	if err := runtime.MarshalAsJSON(req, body); err != nil {
		return nil, err
	}

	resp, err := c.do(req, "query_catalog_summary", http.StatusOK)
	if err != nil {
		return nil, err
	}
	var page searchResponse
	if err := runtime.UnmarshalAsJSON(resp, &page); err != nil {
		return nil, classify("query_catalog_summary", err)
	}

	summary := &SearchSummary{
		TotalAssets: page.Count,
		ByType:      make(map[string]int),
		ByLabel:     make(map[string]int),
	}
	for _, item := range page.Facets["entityType"] {
		summary.ByType[item.Value] = item.Count
	}
	for _, item := range page.Facets["label"] {
		summary.ByLabel[item.Value] = item.Count
	}
	return summary, nil
}

// GetLineage fetches the Atlas lineage graph around entityID, bounded to
// depth hops in both directions. Unknown GUIDs surface as CategoryNotFound.
func (c *Client) GetLineage(ctx context.Context, entityID string, depth int) (*AtlasLineage, error) {
	req, err := runtime.NewRequest(ctx, http.MethodGet, runtime.JoinPaths(c.endpoint,
		"catalog/api/atlas/v2/lineage", url.PathEscape(entityID)))
	if err != nil {
		return nil, err
	}
	qp := req.Raw().URL.Query()
	qp.Set("depth", strconv.Itoa(depth))
	qp.Set("direction", "BOTH")
	req.Raw().URL.RawQuery = qp.Encode()

	resp, err := c.do(req, "get_lineage", http.StatusOK)
	if err != nil {
		return nil, err
	}
	var lineage AtlasLineage
	if err := runtime.UnmarshalAsJSON(resp, &lineage); err != nil {
		return nil, classify("get_lineage", err)
	}
	return &lineage, nil
}

// do sends the request and folds non-success statuses and transport
// failures into BackendError.
func (c *Client) do(req *policy.Request, operation string, allowedStatus ...int) (*http.Response, error) {
	ctx := req.Raw().Context()
	resp, err := c.pipeline.Do(req)
	if err != nil {
		c.record(ctx, operation, "transport_error")
		return nil, classify(operation, err)
	}
	if !runtime.HasStatusCode(resp, allowedStatus...) {
		c.record(ctx, operation, strconv.Itoa(resp.StatusCode))
		return nil, classify(operation, runtime.NewResponseError(resp))
	}
	c.record(ctx, operation, strconv.Itoa(resp.StatusCode))
	return resp, nil
}

func (c *Client) record(ctx context.Context, operation, outcome string) {
	if c.requests == nil {
		return
	}
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("purview.operation", operation),
		attribute.String("purview.outcome", outcome),
	))
}
