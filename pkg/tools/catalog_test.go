package tools

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datagovlab/purview-mcp/pkg/purview"
	"github.com/datagovlab/purview-mcp/pkg/types"
)

func TestGetDataCatalogSummary(t *testing.T) {
	backend := &stubBackend{summary: &purview.SearchSummary{
		TotalAssets: 1234,
		ByType:      map[string]int{"azure_sql_table": 890, "azure_blob_path": 344},
		ByLabel:     map[string]int{"Confidential": 120, "General": 610},
	}}
	tool := &GetDataCatalogSummaryTool{newTestBase(backend)}

	resp, err := tool.Run(context.Background(), map[string]interface{}{})
	require.NoError(t, err)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, 1234, data["total_assets"])
	assert.Equal(t, map[string]int{"azure_sql_table": 890, "azure_blob_path": 344}, data["by_type"])
	assert.Equal(t, map[string]int{"Confidential": 120, "General": 610}, data["sensitivity_distribution"])
	assert.Equal(t, testNow.Format(time.RFC3339), data["last_updated"])
}

func TestGetDataCatalogSummaryStableAcrossCalls(t *testing.T) {
	backend := &stubBackend{summary: &purview.SearchSummary{
		TotalAssets: 7,
		ByType:      map[string]int{"process": 7},
		ByLabel:     map[string]int{},
	}}
	tool := &GetDataCatalogSummaryTool{newTestBase(backend)}

	first, err := tool.Run(context.Background(), map[string]interface{}{})
	require.NoError(t, err)
	second, err := tool.Run(context.Background(), map[string]interface{}{})
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data, "identical calls against unchanged state yield identical summaries")
}

func TestGetDataCatalogSummaryBackendError(t *testing.T) {
	backend := &stubBackend{summaryErr: &purview.BackendError{
		Operation:  "query_catalog_summary",
		Category:   purview.CategoryRateLimited,
		StatusCode: 429,
	}}
	tool := &GetDataCatalogSummaryTool{newTestBase(backend)}

	_, err := tool.Run(context.Background(), map[string]interface{}{})

	var mcpErr *types.MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, types.ErrCodeRateLimited, mcpErr.Code)
}

func TestGetDataLineageValidation(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"missing entity_id":    {},
		"whitespace entity_id": {"entity_id": "  "},
		"zero depth":           {"entity_id": "guid-1", "depth": float64(0)},
		"negative depth":       {"entity_id": "guid-1", "depth": float64(-2)},
	}

	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			backend := &stubBackend{}
			tool := &GetDataLineageTool{newTestBase(backend)}

			resp, err := tool.Run(context.Background(), args)
			assert.Nil(t, resp)
			requireInvalidInput(t, err)
			assert.Equal(t, 0, backend.calls)
		})
	}
}

func TestGetDataLineageDefaultDepth(t *testing.T) {
	backend := &stubBackend{lineage: &purview.AtlasLineage{}}
	tool := &GetDataLineageTool{newTestBase(backend)}

	_, err := tool.Run(context.Background(), map[string]interface{}{
		"entity_id": "guid-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "guid-1", backend.lineageID)
	assert.Equal(t, 3, backend.lineageDepth)
}

func lineageFixture() *purview.AtlasLineage {
	return &purview.AtlasLineage{
		BaseEntityGUID: "guid-b",
		GUIDEntityMap: map[string]purview.AtlasEntity{
			"guid-b": {GUID: "guid-b", TypeName: "azure_sql_table", Attributes: map[string]any{"name": "Customers"}},
			"guid-a": {GUID: "guid-a", TypeName: "azure_blob_path", Attributes: map[string]any{"qualifiedName": "https://lake/raw/customers.csv"}},
			"guid-c": {GUID: "guid-c", TypeName: "process", Attributes: map[string]any{}},
		},
		Relations: []purview.AtlasRelation{
			{FromEntityID: "guid-a", ToEntityID: "guid-c"},
			{FromEntityID: "guid-c", ToEntityID: "guid-b"},
		},
	}
}

func TestGetDataLineageGraph(t *testing.T) {
	backend := &stubBackend{lineage: lineageFixture()}
	tool := &GetDataLineageTool{newTestBase(backend)}

	resp, err := tool.Run(context.Background(), map[string]interface{}{
		"entity_id": "guid-b",
		"depth":     float64(5),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, backend.lineageDepth)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "guid-b", data["entity_id"])
	assert.Equal(t, "Customers", data["entity_name"])
	assert.Equal(t, "azure_sql_table", data["entity_type"])

	nodes := data["nodes"].([]lineageNode)
	require.Len(t, nodes, 3)
	assert.Equal(t, lineageNode{ID: "guid-a", Name: "https://lake/raw/customers.csv", Type: "azure_blob_path"}, nodes[0])
	assert.Equal(t, lineageNode{ID: "guid-b", Name: "Customers", Type: "azure_sql_table"}, nodes[1])
	assert.Equal(t, lineageNode{ID: "guid-c", Name: "guid-c", Type: "process"}, nodes[2],
		"entities without name attributes fall back to their GUID")

	edges := data["edges"].([]lineageEdge)
	assert.Equal(t, []lineageEdge{
		{Source: "guid-a", Target: "guid-c"},
		{Source: "guid-c", Target: "guid-b"},
	}, edges)
}

func TestGetDataLineageStableAcrossCalls(t *testing.T) {
	backend := &stubBackend{lineage: lineageFixture()}
	tool := &GetDataLineageTool{newTestBase(backend)}
	args := map[string]interface{}{"entity_id": "guid-b"}

	first, err := tool.Run(context.Background(), args)
	require.NoError(t, err)
	second, err := tool.Run(context.Background(), args)
	require.NoError(t, err)

	assert.Equal(t, first.Data, second.Data, "identical lookups yield an identical graph")
}

func TestGetDataLineageBaseEntityMissing(t *testing.T) {
	backend := &stubBackend{lineage: &purview.AtlasLineage{
		BaseEntityGUID: "guid-x",
		GUIDEntityMap:  map[string]purview.AtlasEntity{},
	}}
	tool := &GetDataLineageTool{newTestBase(backend)}

	resp, err := tool.Run(context.Background(), map[string]interface{}{
		"entity_id": "guid-x",
	})
	require.NoError(t, err)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "guid-x", data["entity_name"], "name falls back to the requested id")
	assert.Equal(t, "", data["entity_type"])
	assert.Empty(t, data["nodes"])
	assert.Empty(t, data["edges"])
}

func TestGetDataLineageUnknownEntity(t *testing.T) {
	backend := &stubBackend{lineageErr: &purview.BackendError{
		Operation:  "get_lineage",
		Category:   purview.CategoryNotFound,
		StatusCode: 404,
		ErrorCode:  "ATLAS-404-00-005",
	}}
	tool := &GetDataLineageTool{newTestBase(backend)}

	_, err := tool.Run(context.Background(), map[string]interface{}{
		"entity_id": "guid-missing",
	})

	var mcpErr *types.MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, types.ErrCodeNotFound, mcpErr.Code)
	assert.Equal(t, "ATLAS-404-00-005", mcpErr.Detail)
}
