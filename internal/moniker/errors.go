package moniker

import "fmt"

// ParseError reports a malformed moniker string, identifying the offending
// token. It never panics; Parse always returns a *ParseError on failure.
type ParseError struct {
	Input  string
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("moniker parse error: %s", e.Reason)
	}
	return fmt.Sprintf("moniker parse error: %s (token %q)", e.Reason, e.Token)
}
