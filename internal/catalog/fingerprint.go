package catalog

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"sort"
)

// fingerprintPayload is the canonical subset of a binding that participates
// in fingerprinting; config and schema are re-marshaled through
// canonicalize so key order never affects the digest.
type fingerprintPayload struct {
	SourceType        SourceType  `json:"source_type"`
	Config            interface{} `json:"config"`
	AllowedOperations []string    `json:"allowed_operations"`
	Schema            interface{} `json:"schema"`
	ReadOnly          bool        `json:"read_only"`
}

// Fingerprint returns the first 8 bytes of a stable SHA-256 digest over the
// binding's identity fields, independent of Go map iteration order. Two
// bindings with the same source type, config, schema, allowed operations,
// and read-only flag always produce the same fingerprint, regardless of how
// they were decoded. The 8-byte truncation is a fixed cross-implementation
// contract: any reimplementation must preserve byte-for-byte equality.
func (b *SourceBinding) Fingerprint() [8]byte {
	payload := fingerprintPayload{
		SourceType:        b.SourceType,
		Config:            canonicalize(b.Config),
		AllowedOperations: append([]string(nil), b.AllowedOperations...),
		Schema:            canonicalize(b.Schema),
		ReadOnly:          b.ReadOnly,
	}
	sort.Strings(payload.AllowedOperations)

	// encoding/json sorts map keys on marshal, so the byte stream is
	// already canonical once nested maps are normalized to map[string]interface{}.
	raw, err := json.Marshal(payload)
	if err != nil {
		// Config/Schema are always JSON-safe (decoded from YAML), so this
		// path is unreachable in practice; fall back to a digest over the
		// source type alone rather than panicking.
		raw = []byte(fmt.Sprintf("%s|unmarshalable", b.SourceType))
	}
	sum := sha256.Sum256(raw)
	var truncated [8]byte
	copy(truncated[:], sum[:8])
	return truncated
}

// FingerprintHex returns the fingerprint as a lowercase hex string, the
// form used in HTTP responses and audit records.
func (b *SourceBinding) FingerprintHex() string {
	sum := b.Fingerprint()
	return fmt.Sprintf("%x", sum)
}

// canonicalize walks an arbitrary decoded-YAML value (which may contain
// map[interface{}]interface{} nodes from older decoders, or nested slices)
// and rewrites it into JSON-marshalable, deterministically ordered types.
func canonicalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, vv := range val {
			out[k] = canonicalize(vv)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, vv := range val {
			out[fmt.Sprintf("%v", k)] = canonicalize(vv)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, vv := range val {
			out[i] = canonicalize(vv)
		}
		return out
	default:
		return val
	}
}
