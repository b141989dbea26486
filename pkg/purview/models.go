package purview

import "time"

// AuditQuery bounds an audit log request.
type AuditQuery struct {
	Start time.Time
	End   time.Time
	Limit int
}

type auditQueryRequest struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Limit     int    `json:"limit"`
}

type auditQueryResponse struct {
	Value []AuditRecord `json:"value"`
}

// AuditRecord is one governance audit event as the backend reports it.
type AuditRecord struct {
	Timestamp     time.Time `json:"timestamp"`
	UserPrincipal string    `json:"userPrincipal"`
	Action        string    `json:"action"`
	ResourceType  string    `json:"resourceType"`
	ResourceName  string    `json:"resourceName"`
	OldLabel      string    `json:"oldLabel,omitempty"`
	NewLabel      string    `json:"newLabel,omitempty"`
}

// ActionModifySensitivityLabel marks label-change audit events.
const ActionModifySensitivityLabel = "ModifySensitivityLabel"

// Scan levels accepted by the scanning service.
const (
	ScanLevelIncremental = "Incremental"
	ScanLevelFull        = "Full"
)

// ScanRun acknowledges a triggered data source scan.
type ScanRun struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	DataSource string    `json:"dataSource"`
	ScanLevel  string    `json:"scanLevel"`
	StartTime  time.Time `json:"startTime"`
}

type searchRequest struct {
	Keywords string        `json:"keywords"`
	Limit    int           `json:"limit"`
	Facets   []searchFacet `json:"facets"`
}

type searchFacet struct {
	Facet string `json:"facet"`
	Count int    `json:"count"`
}

type searchResponse struct {
	Count  int                          `json:"@search.count"`
	Facets map[string][]searchFacetItem `json:"@search.facets"`
}

type searchFacetItem struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SearchSummary aggregates the catalog's faceted search counts.
type SearchSummary struct {
	TotalAssets int
	ByType      map[string]int
	ByLabel     map[string]int
}

// AtlasLineage is the Atlas v2 lineage graph as the catalog returns it.
type AtlasLineage struct {
	BaseEntityGUID   string                 `json:"baseEntityGuid"`
	LineageDirection string                 `json:"lineageDirection"`
	GUIDEntityMap    map[string]AtlasEntity `json:"guidEntityMap"`
	Relations        []AtlasRelation        `json:"relations"`
}

// AtlasEntity is a lineage graph node.
type AtlasEntity struct {
	GUID       string         `json:"guid"`
	TypeName   string         `json:"typeName"`
	Attributes map[string]any `json:"attributes"`
}

// DisplayName picks the best human-readable name for an entity.
func (e AtlasEntity) DisplayName() string {
	if v, ok := e.Attributes["name"].(string); ok && v != "" {
		return v
	}
	if v, ok := e.Attributes["qualifiedName"].(string); ok && v != "" {
		return v
	}
	return e.GUID
}

// AtlasRelation is a directed lineage edge between two entity GUIDs.
type AtlasRelation struct {
	FromEntityID   string `json:"fromEntityId"`
	ToEntityID     string `json:"toEntityId"`
	RelationshipID string `json:"relationshipId,omitempty"`
}
