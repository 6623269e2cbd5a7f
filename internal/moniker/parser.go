package moniker

import (
	"strconv"
	"strings"
)

// Parse parses a moniker string into structured form. It accepts the
// "moniker://" scheme or a bare (schemeless) form; any other scheme is
// rejected. When validate is true, segments, namespace, and sub-resource
// parts are checked against their grammars; Parse never panics regardless.
func Parse(s string, validate bool) (*Moniker, error) {
	if s == "" {
		return nil, &ParseError{Reason: "empty input"}
	}

	body := s
	if idx := strings.Index(s, "://"); idx >= 0 {
		scheme := s[:idx]
		if scheme != "moniker" {
			return nil, &ParseError{Input: s, Token: scheme, Reason: "unsupported scheme"}
		}
		body = s[idx+3:]
	}
	if body == "" {
		return nil, &ParseError{Input: s, Reason: "empty body"}
	}

	// Step 1b: separate query string at first "?".
	var queryStr string
	if idx := strings.Index(body, "?"); idx >= 0 {
		queryStr = body[idx+1:]
		body = body[:idx]
	}

	m := &Moniker{Params: map[string]string{}}

	// Step 2: namespace is the prefix before the first "@" iff that "@"
	// precedes any "/" in the remaining body.
	remainder := body
	if idx := strings.Index(body, "@"); idx >= 0 {
		slashIdx := strings.Index(body, "/")
		if slashIdx == -1 || idx < slashIdx {
			namespace := body[:idx]
			if validate && !namespacePattern.MatchString(namespace) {
				return nil, &ParseError{Input: s, Token: namespace, Reason: "invalid namespace"}
			}
			m.Namespace = namespace
			remainder = body[idx+1:]
		}
	}

	// Step 3: a trailing case-insensitive "/vN" is a revision.
	if match := revisionSuffixPattern.FindStringSubmatch(remainder); match != nil {
		n, err := strconv.Atoi(match[1])
		if err != nil || n < 0 {
			return nil, &ParseError{Input: s, Token: match[0], Reason: "invalid revision"}
		}
		m.HasRevision = true
		m.Revision = n
		remainder = remainder[:len(remainder)-len(match[0])]
	}

	// Step 4: the last remaining "@" (if any) separates path from version,
	// and the version tail may itself carry a sub-resource after a "/".
	pathPart := remainder
	if lastAt := strings.LastIndex(remainder, "@"); lastAt >= 0 {
		pathPart = remainder[:lastAt]
		versionTail := remainder[lastAt+1:]
		if slashIdx := strings.Index(versionTail, "/"); slashIdx >= 0 {
			m.Version = versionTail[:slashIdx]
			m.SubResource = versionTail[slashIdx+1:]
		} else {
			m.Version = versionTail
		}
		if validate && m.Version != "" && !versionTokenPattern.MatchString(m.Version) {
			return nil, &ParseError{Input: s, Token: m.Version, Reason: "invalid version token"}
		}
		if m.SubResource != "" {
			for _, part := range strings.Split(m.SubResource, ".") {
				if validate && !ValidSegment(part) {
					return nil, &ParseError{Input: s, Token: part, Reason: "invalid sub-resource part"}
				}
			}
		}
	}

	// Step 5: parse and validate the path.
	if pathPart == "" {
		return nil, &ParseError{Input: s, Reason: "missing path"}
	}
	segments := strings.Split(pathPart, "/")
	path := Path(segments)
	if validate {
		if err := path.Validate(); err != nil {
			return nil, err
		}
	}
	m.Path = path

	// Step 6: flat query map, first value wins on repeated keys.
	if queryStr != "" {
		for _, pair := range strings.Split(queryStr, "&") {
			if pair == "" {
				continue
			}
			k, v, _ := strings.Cut(pair, "=")
			if _, exists := m.Params[k]; !exists {
				m.Params[k] = v
			}
		}
	}

	// Step 7: classify the version.
	m.VersionType = ClassifyVersion(m.Version)
	if m.VersionType == VersionLookback {
		val, unit, ok := lookbackParts(m.Version)
		if ok {
			m.LookbackValue = val
			m.LookbackUnit = unit
		}
	}

	return m, nil
}
