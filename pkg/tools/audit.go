package tools

import (
	"context"
	"sort"
	"time"

	"github.com/datagovlab/purview-mcp/pkg/purview"
	"github.com/datagovlab/purview-mcp/pkg/types"
)

// labelScanLimit is how many audit records the label-change report pulls
// before filtering; the report is derived from the audit query rather
// than a dedicated backend surface.
const labelScanLimit = 1000

// parseAuditRange validates the start_time/end_time pair shared by the
// audit tools. A missing end_time defaults to now (injected clock).
func parseAuditRange(tool string, args map[string]interface{}, now time.Time) (time.Time, time.Time, *types.MCPError) {
	startRaw := getStringArg(args, "start_time", "")
	if startRaw == "" {
		return time.Time{}, time.Time{}, invalidInput(tool, "start_time is required")
	}
	start, err := parseTimestamp(startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, invalidInput(tool, "start_time: "+err.Error())
	}

	end := now
	if endRaw := getStringArg(args, "end_time", ""); endRaw != "" {
		end, err = parseTimestamp(endRaw)
		if err != nil {
			return time.Time{}, time.Time{}, invalidInput(tool, "end_time: "+err.Error())
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, invalidInput(tool, "start_time must not be after end_time")
	}
	return start, end, nil
}

// mostRecentFirst returns a copy of records ordered newest to oldest.
// Backend ordering is not trusted.
func mostRecentFirst(records []purview.AuditRecord) []purview.AuditRecord {
	ordered := make([]purview.AuditRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.After(ordered[j].Timestamp)
	})
	return ordered
}

// --- get_audit_logs ---

type GetAuditLogsTool struct{ BaseTool }

func (t *GetAuditLogsTool) Name() string { return "get_audit_logs" }
func (t *GetAuditLogsTool) Description() string {
	return "Retrieve audit logs from Purview for the specified time period"
}
func (t *GetAuditLogsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"start_time": map[string]interface{}{
				"type":        "string",
				"description": "Start time in ISO format (YYYY-MM-DDTHH:MM:SS)",
			},
			"end_time": map[string]interface{}{
				"type":        "string",
				"description": "End time in ISO format (YYYY-MM-DDTHH:MM:SS), defaults to current time",
			},
			"limit": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of logs to return (default 100)",
			},
		},
		"required": []string{"start_time"},
	}
}

func (t *GetAuditLogsTool) Run(ctx context.Context, args map[string]interface{}) (*StandardResponse, error) {
	limit := getIntArg(args, "limit", 100)
	if limit <= 0 {
		return nil, invalidInput(t.Name(), "limit must be a positive integer")
	}
	start, end, verr := parseAuditRange(t.Name(), args, t.now())
	if verr != nil {
		return nil, verr
	}

	records, err := t.Backend.QueryAuditLogs(ctx, purview.AuditQuery{Start: start, End: end, Limit: limit})
	if err != nil {
		return nil, backendToMCP(t.Name(), err)
	}

	logs := mostRecentFirst(records)
	if len(logs) > limit {
		logs = logs[:limit]
	}

	return t.respond(t.Name(), map[string]interface{}{
		"count": len(logs),
		"logs":  logs,
	}), nil
}

// --- get_sensitivity_label_changes ---

type GetSensitivityLabelChangesTool struct{ BaseTool }

func (t *GetSensitivityLabelChangesTool) Name() string { return "get_sensitivity_label_changes" }
func (t *GetSensitivityLabelChangesTool) Description() string {
	return "Get a report of sensitivity label changes in the specified time period"
}
func (t *GetSensitivityLabelChangesTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"start_time": map[string]interface{}{
				"type":        "string",
				"description": "Start time in ISO format (YYYY-MM-DDTHH:MM:SS)",
			},
			"end_time": map[string]interface{}{
				"type":        "string",
				"description": "End time in ISO format (YYYY-MM-DDTHH:MM:SS), defaults to current time",
			},
		},
		"required": []string{"start_time"},
	}
}

func (t *GetSensitivityLabelChangesTool) Run(ctx context.Context, args map[string]interface{}) (*StandardResponse, error) {
	start, end, verr := parseAuditRange(t.Name(), args, t.now())
	if verr != nil {
		return nil, verr
	}

	records, err := t.Backend.QueryAuditLogs(ctx, purview.AuditQuery{Start: start, End: end, Limit: labelScanLimit})
	if err != nil {
		return nil, backendToMCP(t.Name(), err)
	}

	total := 0
	grouped := make(map[string][]purview.AuditRecord)
	for _, rec := range records {
		if rec.Action != purview.ActionModifySensitivityLabel {
			continue
		}
		resourceType := rec.ResourceType
		if resourceType == "" {
			resourceType = "Unknown"
		}
		grouped[resourceType] = append(grouped[resourceType], rec)
		total++
	}

	return t.respond(t.Name(), map[string]interface{}{
		"total_changes":       total,
		"changes_by_resource": grouped,
		"time_period": map[string]string{
			"start": start.Format(time.RFC3339),
			"end":   end.Format(time.RFC3339),
		},
	}), nil
}
