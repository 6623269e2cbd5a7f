package loader

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GanizaniSitara/monikerd/internal/catalog"
)

// Load reads a declarative catalog file and returns the list of nodes it
// describes, normalized per the documented defaults. The file's top level
// must be a mapping from path to node specification; duplicate top-level
// keys are a fatal parse error rather than a silent last-write-wins, since
// yaml.v3 would otherwise swallow the collision during Unmarshal.
func Load(path string) ([]*catalog.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "read failed", Err: err}
	}
	return Decode(path, raw)
}

// Decode parses raw YAML bytes into catalog nodes. Split out from Load so
// tests can exercise it without touching the filesystem.
func Decode(sourceName string, raw []byte) ([]*catalog.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, &LoadError{Path: sourceName, Reason: "invalid YAML", Err: err}
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, &LoadError{Path: sourceName, Reason: "top level must be a mapping from path to node spec"}
	}
	if err := checkDuplicateKeys(sourceName, mapping); err != nil {
		return nil, err
	}

	var specs map[string]*rawNode
	if err := yaml.Unmarshal(raw, &specs); err != nil {
		return nil, &LoadError{Path: sourceName, Reason: "schema mismatch", Err: err}
	}

	nodes := make([]*catalog.Node, 0, len(specs))
	for p, rn := range specs {
		if rn == nil {
			rn = &rawNode{}
		}
		n := rn.toNode()
		n.Path = p
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// rawNode mirrors catalog.Node but with a ReadOnly pointer on its embedded
// binding so "read_only" can be distinguished as "absent" (defaults to
// true) from "explicitly false", something the public catalog.SourceBinding
// type (a plain bool) cannot represent once decoded.
type rawNode struct {
	DisplayName    string   `yaml:"display_name"`
	Description    string   `yaml:"description"`
	Classification string   `yaml:"classification"`
	Tags           []string `yaml:"tags"`

	Ownership catalog.Ownership `yaml:"ownership"`

	Binding *rawBinding          `yaml:"binding"`
	Policy  *catalog.AccessPolicy `yaml:"policy"`

	Quality       *catalog.DataQuality   `yaml:"quality"`
	SLA           *catalog.SLA           `yaml:"sla"`
	Freshness     *catalog.Freshness     `yaml:"freshness"`
	Schema        *catalog.DataSchema    `yaml:"schema"`
	Documentation *catalog.Documentation `yaml:"documentation"`

	Status            catalog.NodeStatus `yaml:"status"`
	CreatedAt         *time.Time         `yaml:"created_at"`
	UpdatedAt         *time.Time         `yaml:"updated_at"`
	Successor         string             `yaml:"successor"`
	SunsetDeadline    *time.Time         `yaml:"sunset_deadline"`
	MigrationGuideURL string             `yaml:"migration_guide_url"`
	IsLeaf            bool               `yaml:"is_leaf"`
}

type rawBinding struct {
	SourceType        catalog.SourceType          `yaml:"source_type"`
	Config            map[string]interface{}      `yaml:"config"`
	Schema            map[string]interface{}      `yaml:"schema"`
	ReadOnly          *bool                       `yaml:"read_only"`
	AllowedOperations []string                    `yaml:"allowed_operations"`
	Cache             *catalog.BindingCacheConfig `yaml:"cache"`
}

func (rn *rawNode) toNode() *catalog.Node {
	n := &catalog.Node{
		DisplayName:       rn.DisplayName,
		Description:       rn.Description,
		Classification:    rn.Classification,
		Tags:              rn.Tags,
		Ownership:         rn.Ownership,
		Policy:            rn.Policy,
		Quality:           rn.Quality,
		SLA:               rn.SLA,
		Freshness:         rn.Freshness,
		Schema:            rn.Schema,
		Documentation:     rn.Documentation,
		Status:            rn.Status,
		CreatedAt:         rn.CreatedAt,
		UpdatedAt:         rn.UpdatedAt,
		Successor:         rn.Successor,
		SunsetDeadline:    rn.SunsetDeadline,
		MigrationGuideURL: rn.MigrationGuideURL,
		IsLeaf:            rn.IsLeaf,
	}
	if rn.Binding != nil {
		readOnly := true
		if rn.Binding.ReadOnly != nil {
			readOnly = *rn.Binding.ReadOnly
		}
		config := rn.Binding.Config
		if config == nil {
			config = make(map[string]interface{})
		}
		n.Binding = &catalog.SourceBinding{
			SourceType:        rn.Binding.SourceType,
			Config:            config,
			Schema:            rn.Binding.Schema,
			ReadOnly:          readOnly,
			AllowedOperations: rn.Binding.AllowedOperations,
			Cache:             rn.Binding.Cache,
		}
	}
	normalize(n)
	return n
}

// checkDuplicateKeys walks a mapping node's scalar keys and rejects the
// document if any top-level key appears more than once.
func checkDuplicateKeys(sourceName string, mapping *yaml.Node) error {
	seen := make(map[string]bool, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i].Value
		if seen[key] {
			return &LoadError{Path: sourceName, Reason: fmt.Sprintf("duplicate top-level key %q", key)}
		}
		seen[key] = true
	}
	return nil
}

// normalize applies the documented load-time defaults to a decoded node.
// Binding defaults are applied in toNode, where the raw *bool is still
// available to distinguish "absent" from "explicitly false".
func normalize(n *catalog.Node) {
	if n.Status == "" {
		n.Status = catalog.StatusActive
	}
	if n.Classification == "" {
		n.Classification = "internal"
	}
	if n.Policy != nil && n.Policy.BaseRowCount == 0 {
		n.Policy.BaseRowCount = 100
	}
}
