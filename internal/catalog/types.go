// Package catalog implements the catalog data model and the in-memory
// registry that serves moniker resolution.
package catalog

import "time"

// NodeStatus is the lifecycle state of a CatalogNode.
type NodeStatus string

const (
	StatusDraft         NodeStatus = "draft"
	StatusPendingReview NodeStatus = "pending_review"
	StatusApproved      NodeStatus = "approved"
	StatusActive        NodeStatus = "active"
	StatusDeprecated    NodeStatus = "deprecated"
	StatusArchived      NodeStatus = "archived"
)

// unservableStatuses holds the statuses whose binding must never be served,
// whether looked up directly or inherited from an ancestor.
var unservableStatuses = map[NodeStatus]bool{
	StatusArchived:       true,
	StatusDraft:          true,
	StatusPendingReview:  true,
}

// SourceType is the closed set of backend kinds a binding may point at.
type SourceType string

const (
	SourceSnowflake  SourceType = "snowflake"
	SourceOracle     SourceType = "oracle"
	SourceMSSQL      SourceType = "mssql"
	SourceREST       SourceType = "rest"
	SourceStatic     SourceType = "static"
	SourceExcel      SourceType = "excel"
	SourceBloomberg  SourceType = "bloomberg"
	SourceRefinitiv  SourceType = "refinitiv"
	SourceOpenSearch SourceType = "opensearch"
	SourceComposite  SourceType = "composite"
	SourceDerived    SourceType = "derived"
)

var validSourceTypes = map[SourceType]bool{
	SourceSnowflake: true, SourceOracle: true, SourceMSSQL: true,
	SourceREST: true, SourceStatic: true, SourceExcel: true,
	SourceBloomberg: true, SourceRefinitiv: true, SourceOpenSearch: true,
	SourceComposite: true, SourceDerived: true,
}

// ValidSourceType reports whether t is a recognized source type.
func ValidSourceType(t SourceType) bool {
	return validSourceTypes[t]
}

// DataQuality captures optional data-quality metadata for a node.
type DataQuality struct {
	Score  float64  `yaml:"score,omitempty" json:"score,omitempty"`
	Issues []string `yaml:"issues,omitempty" json:"issues,omitempty"`
}

// SLA captures optional service-level metadata for a node.
type SLA struct {
	AvailabilityPercent float64 `yaml:"availability_percent,omitempty" json:"availability_percent,omitempty"`
	ResponseTimeMS      int     `yaml:"response_time_ms,omitempty" json:"response_time_ms,omitempty"`
}

// Freshness captures optional staleness expectations for a node.
type Freshness struct {
	UpdatedAt    string `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
	MaxStaleness string `yaml:"max_staleness,omitempty" json:"max_staleness,omitempty"`
}

// DataSchema is the quality-level schema summary (distinct from the
// binding's own free-form schema).
type DataSchema struct {
	Fields map[string]string `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// Documentation points to external docs for a node.
type Documentation struct {
	URL   string `yaml:"url,omitempty" json:"url,omitempty"`
	Notes string `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// BindingCacheConfig is the binding's declared caching hint for downstream
// adapters; it is unrelated to the service's own internal/cache package.
type BindingCacheConfig struct {
	Enabled bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	TTL     string `yaml:"ttl,omitempty" json:"ttl,omitempty"`
}

// SourceBinding associates a node with a concrete backend.
type SourceBinding struct {
	SourceType        SourceType             `yaml:"source_type" json:"source_type"`
	Config            map[string]interface{} `yaml:"config,omitempty" json:"config,omitempty"`
	Schema            map[string]interface{} `yaml:"schema,omitempty" json:"schema,omitempty"`
	ReadOnly          bool                   `yaml:"read_only" json:"read_only"`
	AllowedOperations []string               `yaml:"allowed_operations,omitempty" json:"allowed_operations,omitempty"`
	Cache             *BindingCacheConfig    `yaml:"cache,omitempty" json:"cache,omitempty"`
}

// Query returns the binding's reserved "query" config value, if present.
func (b *SourceBinding) Query() (string, bool) {
	if b == nil || b.Config == nil {
		return "", false
	}
	v, ok := b.Config["query"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// ConfigWithoutQuery returns a copy of Config with the reserved "query" key
// removed, suitable for the resolve response's "connection" field.
func (b *SourceBinding) ConfigWithoutQuery() map[string]interface{} {
	out := make(map[string]interface{}, len(b.Config))
	for k, v := range b.Config {
		if k == "query" {
			continue
		}
		out[k] = v
	}
	return out
}

// Node is a record in the catalog tree, keyed by its canonical path.
type Node struct {
	Path string `yaml:"-" json:"path"`

	DisplayName    string   `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	Description    string   `yaml:"description,omitempty" json:"description,omitempty"`
	Classification string   `yaml:"classification,omitempty" json:"classification,omitempty"`
	Tags           []string `yaml:"tags,omitempty" json:"tags,omitempty"`

	Ownership Ownership `yaml:"ownership,omitempty" json:"ownership,omitempty"`

	Binding *SourceBinding `yaml:"binding,omitempty" json:"binding,omitempty"`
	Policy  *AccessPolicy  `yaml:"policy,omitempty" json:"policy,omitempty"`

	Quality       *DataQuality   `yaml:"quality,omitempty" json:"quality,omitempty"`
	SLA           *SLA           `yaml:"sla,omitempty" json:"sla,omitempty"`
	Freshness     *Freshness     `yaml:"freshness,omitempty" json:"freshness,omitempty"`
	Schema        *DataSchema    `yaml:"schema,omitempty" json:"schema,omitempty"`
	Documentation *Documentation `yaml:"documentation,omitempty" json:"documentation,omitempty"`

	Status            NodeStatus `yaml:"status,omitempty" json:"status"`
	CreatedAt         *time.Time `yaml:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt         *time.Time `yaml:"updated_at,omitempty" json:"updated_at,omitempty"`
	Successor         string     `yaml:"successor,omitempty" json:"successor,omitempty"`
	SunsetDeadline    *time.Time `yaml:"sunset_deadline,omitempty" json:"sunset_deadline,omitempty"`
	MigrationGuideURL string     `yaml:"migration_guide_url,omitempty" json:"migration_guide_url,omitempty"`
	IsLeaf            bool       `yaml:"is_leaf,omitempty" json:"is_leaf"`

	// Virtual is true for nodes synthesized by the registry for an
	// unregistered path; such nodes are never persisted or listed.
	Virtual bool `yaml:"-" json:"virtual,omitempty"`
}

// Servable reports whether a binding found on this node (exact or
// inherited) may be returned: archived, draft, and pending_review nodes
// never serve a binding.
func (n *Node) Servable() bool {
	return !unservableStatuses[n.Status]
}
