package moniker

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// VersionType classifies a Moniker's version token.
type VersionType string

const (
	VersionNone      VersionType = ""
	VersionDate      VersionType = "DATE"
	VersionLookback  VersionType = "LOOKBACK"
	VersionFrequency VersionType = "FREQUENCY"
	VersionLatest    VersionType = "LATEST"
	VersionAll       VersionType = "ALL"
	VersionCustom    VersionType = "CUSTOM"
)

var (
	namespacePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_\-]{0,63}$`)
	versionTokenPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	dateVersionPattern   = regexp.MustCompile(`^\d{8}$`)
	lookbackPattern      = regexp.MustCompile(`(?i)^(\d+)([YMWD])$`)
	revisionSuffixPattern = regexp.MustCompile(`(?i)/v(\d+)$`)
)

var frequencyValues = map[string]bool{
	"daily":   true,
	"weekly":  true,
	"monthly": true,
}

// Moniker is a fully parsed reference.
type Moniker struct {
	Path        Path
	Namespace   string // empty if absent
	Version     string // raw token, empty if absent
	VersionType VersionType
	// LookbackValue/LookbackUnit are populated only when VersionType == LOOKBACK.
	LookbackValue int
	LookbackUnit  string
	SubResource   string // empty if absent
	HasRevision   bool
	Revision      int
	Params        map[string]string
}

// ClassifyVersion determines the VersionType for a raw version token.
// An empty token classifies as VersionNone.
func ClassifyVersion(v string) VersionType {
	if v == "" {
		return VersionNone
	}
	lower := strings.ToLower(v)
	switch lower {
	case "latest":
		return VersionLatest
	case "all":
		return VersionAll
	}
	if frequencyValues[lower] {
		return VersionFrequency
	}
	if dateVersionPattern.MatchString(v) {
		return VersionDate
	}
	if lookbackPattern.MatchString(v) {
		return VersionLookback
	}
	return VersionCustom
}

// lookbackParts splits a LOOKBACK version token into its numeric value and
// unit letter (normalized to upper-case). Only valid for tokens matching
// the LOOKBACK grammar.
func lookbackParts(v string) (int, string, bool) {
	m := lookbackPattern.FindStringSubmatch(v)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return n, strings.ToUpper(m[2]), true
}

// String renders the canonical form:
//
//	moniker://[namespace@]path[@version][/sub_resource][/vN][?sorted_params]
func (m *Moniker) String() string {
	var b strings.Builder
	b.WriteString("moniker://")
	if m.Namespace != "" {
		b.WriteString(m.Namespace)
		b.WriteString("@")
	}
	b.WriteString(m.Path.String())
	if m.Version != "" {
		b.WriteString("@")
		b.WriteString(m.Version)
	}
	if m.SubResource != "" {
		b.WriteString("/")
		b.WriteString(m.SubResource)
	}
	if m.HasRevision {
		b.WriteString("/v")
		b.WriteString(strconv.Itoa(m.Revision))
	}
	if len(m.Params) > 0 {
		keys := make([]string, 0, len(m.Params))
		for k := range m.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("?")
		for i, k := range keys {
			if i > 0 {
				b.WriteString("&")
			}
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(m.Params[k])
		}
	}
	return b.String()
}
