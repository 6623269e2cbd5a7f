package catalog

import "errors"

// Sentinel errors returned by Registry lookups and mutations.
var (
	ErrNotFound      = errors.New("catalog: node not found")
	ErrAlreadyExists = errors.New("catalog: node already exists")
	ErrInvalidPath   = errors.New("catalog: invalid path")
)
