package catalog

import (
	"regexp"
	"strings"
)

// defaultCardinalityMultiplier is applied to every wildcard ("ALL") segment
// beyond the configured CardinalityMultipliers list, so a policy never has to
// enumerate a multiplier per segment for arbitrarily deep paths.
const defaultCardinalityMultiplier = 100

// AccessPolicy gates which fully-qualified segment combinations may be
// resolved and estimates the row volume a query would return.
type AccessPolicy struct {
	RequiredSegments       []int    `yaml:"required_segments,omitempty" json:"required_segments,omitempty"`
	MinFilters             int      `yaml:"min_filters,omitempty" json:"min_filters,omitempty"`
	BlockedPatterns        []string `yaml:"blocked_patterns,omitempty" json:"blocked_patterns,omitempty"`
	CardinalityMultipliers []int    `yaml:"cardinality_multipliers,omitempty" json:"cardinality_multipliers,omitempty"`

	BaseRowCount              int64 `yaml:"base_row_count,omitempty" json:"base_row_count,omitempty"`
	MaxRowsWarn               int64 `yaml:"max_rows_warn,omitempty" json:"max_rows_warn,omitempty"`
	MaxRowsBlock              int64 `yaml:"max_rows_block,omitempty" json:"max_rows_block,omitempty"`
	RequireConfirmationAbove  int64 `yaml:"require_confirmation_above,omitempty" json:"require_confirmation_above,omitempty"`

	DenialMessage string   `yaml:"denial_message,omitempty" json:"denial_message,omitempty"`
	AllowedRoles  []string `yaml:"allowed_roles,omitempty" json:"allowed_roles,omitempty"`
	AllowedHours  []int    `yaml:"allowed_hours,omitempty" json:"allowed_hours,omitempty"`
}

// PolicyDecision is the outcome of evaluating an AccessPolicy against a set
// of request segments.
type PolicyDecision struct {
	Allowed               bool   `json:"allowed"`
	Message               string `json:"message,omitempty"`
	EstimatedRows         int64  `json:"estimated_rows"`
	RequiresConfirmation  bool   `json:"requires_confirmation"`
	Warning               bool   `json:"warning"`
}

const segmentWildcard = "ALL"

// Validate evaluates the policy against the request's path segments
// (post-namespace, post-version; the segments a query would filter on) and
// returns whether the request is allowed, an estimated row count, and any
// warning/denial message. A nil policy always allows with zero estimate.
func (p *AccessPolicy) Validate(segments []string) PolicyDecision {
	if p == nil {
		return PolicyDecision{Allowed: true}
	}

	for _, idx := range p.RequiredSegments {
		if idx < 0 || idx >= len(segments) || segments[idx] == "" || strings.EqualFold(segments[idx], segmentWildcard) {
			return PolicyDecision{
				Allowed: false,
				Message: p.denialMessage("required filter missing"),
			}
		}
	}

	filterCount := 0
	for _, s := range segments {
		if s != "" && !strings.EqualFold(s, segmentWildcard) {
			filterCount++
		}
	}
	if p.MinFilters > 0 && filterCount < p.MinFilters {
		return PolicyDecision{
			Allowed: false,
			Message: p.denialMessage("insufficient filters"),
		}
	}

	joined := strings.Join(segments, "/")
	for _, pattern := range p.BlockedPatterns {
		if matchesBlockedPattern(joined, pattern) {
			return PolicyDecision{
				Allowed: false,
				Message: p.denialMessage("matches blocked pattern: " + pattern),
			}
		}
	}

	estimated := p.estimateRows(segments)

	if p.MaxRowsBlock > 0 && estimated > p.MaxRowsBlock {
		return PolicyDecision{
			Allowed:       false,
			Message:       p.denialMessage("estimated row count exceeds limit"),
			EstimatedRows: estimated,
		}
	}

	decision := PolicyDecision{Allowed: true, EstimatedRows: estimated}
	if p.MaxRowsWarn > 0 && estimated > p.MaxRowsWarn {
		decision.Warning = true
	}
	if p.RequireConfirmationAbove > 0 && estimated > p.RequireConfirmationAbove {
		decision.RequiresConfirmation = true
	}
	return decision
}

// estimateRows multiplies BaseRowCount by a per-segment multiplier: a
// wildcard ("ALL") segment contributes its configured multiplier (or
// defaultCardinalityMultiplier past the end of the configured list), while
// a concrete segment contributes a factor of 1.
func (p *AccessPolicy) estimateRows(segments []string) int64 {
	base := p.BaseRowCount
	if base <= 0 {
		base = 1
	}
	total := base
	for i, s := range segments {
		if !strings.EqualFold(s, segmentWildcard) {
			continue
		}
		mult := int64(defaultCardinalityMultiplier)
		if i < len(p.CardinalityMultipliers) {
			mult = int64(p.CardinalityMultipliers[i])
		}
		total *= mult
	}
	return total
}

func (p *AccessPolicy) denialMessage(fallback string) string {
	if p.DenialMessage != "" {
		return p.DenialMessage
	}
	return fallback
}

// matchesBlockedPattern treats pattern as a regular expression when it
// compiles, falling back to a case-insensitive substring match for plain
// strings authored without regex metacharacters in mind.
func matchesBlockedPattern(subject, pattern string) bool {
	if re, err := regexp.Compile("(?i)" + pattern); err == nil {
		if re.MatchString(subject) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(subject), strings.ToLower(pattern))
}
