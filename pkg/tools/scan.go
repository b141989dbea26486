package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/datagovlab/purview-mcp/pkg/purview"
)

// --- scan_data_source ---

type ScanDataSourceTool struct{ BaseTool }

func (t *ScanDataSourceTool) Name() string { return "scan_data_source" }
func (t *ScanDataSourceTool) Description() string {
	return "Initiate a scan on a Purview data source"
}
func (t *ScanDataSourceTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"data_source_name": map[string]interface{}{
				"type":        "string",
				"description": "Name of the data source to scan",
			},
			"scan_level": map[string]interface{}{
				"type":        "string",
				"description": "Type of scan (Incremental or Full)",
			},
		},
		"required": []string{"data_source_name"},
	}
}

func (t *ScanDataSourceTool) Run(ctx context.Context, args map[string]interface{}) (*StandardResponse, error) {
	name := strings.TrimSpace(getStringArg(args, "data_source_name", ""))
	if name == "" {
		return nil, invalidInput(t.Name(), "data_source_name must be a non-empty string")
	}
	level := getStringArg(args, "scan_level", purview.ScanLevelIncremental)
	if level != purview.ScanLevelIncremental && level != purview.ScanLevelFull {
		return nil, invalidInput(t.Name(), fmt.Sprintf("scan_level must be %q or %q, got %q",
			purview.ScanLevelIncremental, purview.ScanLevelFull, level))
	}

	run, err := t.Backend.RunScan(ctx, name, level)
	if err != nil {
		return nil, backendToMCP(t.Name(), err)
	}
	if run.StartTime.IsZero() {
		run.StartTime = t.now()
	}

	return t.respond(t.Name(), map[string]interface{}{
		"message":      fmt.Sprintf("%s scan initiated on %s", level, name),
		"scan_details": run,
	}), nil
}
