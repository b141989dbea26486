package tools

import (
	"context"
	"sort"
	"strings"
	"time"
)

// --- get_data_catalog_summary ---

type GetDataCatalogSummaryTool struct{ BaseTool }

func (t *GetDataCatalogSummaryTool) Name() string { return "get_data_catalog_summary" }
func (t *GetDataCatalogSummaryTool) Description() string {
	return "Get a summary of the data catalog including asset counts by type"
}
func (t *GetDataCatalogSummaryTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *GetDataCatalogSummaryTool) Run(ctx context.Context, args map[string]interface{}) (*StandardResponse, error) {
	summary, err := t.Backend.QueryCatalogSummary(ctx)
	if err != nil {
		return nil, backendToMCP(t.Name(), err)
	}

	return t.respond(t.Name(), map[string]interface{}{
		"total_assets":             summary.TotalAssets,
		"by_type":                  summary.ByType,
		"sensitivity_distribution": summary.ByLabel,
		"last_updated":             t.now().Format(time.RFC3339),
	}), nil
}

// --- get_data_lineage ---

type lineageNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type lineageEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type GetDataLineageTool struct{ BaseTool }

func (t *GetDataLineageTool) Name() string { return "get_data_lineage" }
func (t *GetDataLineageTool) Description() string {
	return "Get data lineage information for a specific entity"
}
func (t *GetDataLineageTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"entity_id": map[string]interface{}{
				"type":        "string",
				"description": "ID of the entity to retrieve lineage for",
			},
			"depth": map[string]interface{}{
				"type":        "integer",
				"description": "Depth of lineage graph to retrieve (default 3)",
			},
		},
		"required": []string{"entity_id"},
	}
}

func (t *GetDataLineageTool) Run(ctx context.Context, args map[string]interface{}) (*StandardResponse, error) {
	entityID := strings.TrimSpace(getStringArg(args, "entity_id", ""))
	if entityID == "" {
		return nil, invalidInput(t.Name(), "entity_id must be a non-empty string")
	}
	depth := getIntArg(args, "depth", 3)
	if depth <= 0 {
		return nil, invalidInput(t.Name(), "depth must be a positive integer")
	}

	lineage, err := t.Backend.GetLineage(ctx, entityID, depth)
	if err != nil {
		return nil, backendToMCP(t.Name(), err)
	}

	nodes := make([]lineageNode, 0, len(lineage.GUIDEntityMap))
	for guid, entity := range lineage.GUIDEntityMap {
		nodes = append(nodes, lineageNode{
			ID:   guid,
			Name: entity.DisplayName(),
			Type: entity.TypeName,
		})
	}
	// Map order is random; keep the graph stable across identical calls.
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	edges := make([]lineageEdge, 0, len(lineage.Relations))
	for _, rel := range lineage.Relations {
		edges = append(edges, lineageEdge{Source: rel.FromEntityID, Target: rel.ToEntityID})
	}

	entityName := entityID
	entityType := ""
	if base, ok := lineage.GUIDEntityMap[lineage.BaseEntityGUID]; ok {
		entityName = base.DisplayName()
		entityType = base.TypeName
	}

	return t.respond(t.Name(), map[string]interface{}{
		"entity_id":   entityID,
		"entity_name": entityName,
		"entity_type": entityType,
		"nodes":       nodes,
		"edges":       edges,
	}), nil
}
