// Package logging provides structured, category-scoped logging for monikerd,
// backed by zap. Categories group log lines by subsystem the way the
// catalog's own components are organized (catalog, loader, resolver,
// httpapi, cache, reload).
package logging

import (
	"sync"

	"go.uber.org/zap"
)

// Category names a logging subsystem.
type Category string

const (
	CategoryCatalog  Category = "catalog"
	CategoryLoader   Category = "loader"
	CategoryResolver Category = "resolver"
	CategoryHTTPAPI  Category = "httpapi"
	CategoryCache    Category = "cache"
	CategoryReload   Category = "reload"
)

var (
	base     *zap.Logger
	baseOnce sync.Once

	loggersMu sync.RWMutex
	loggers   = make(map[Category]*zap.SugaredLogger)
)

// Init builds the base zap logger. debug selects a development config with
// human-readable console output; otherwise a production JSON config is used.
// Init is safe to call multiple times; only the first call takes effect.
func Init(debug bool) *zap.Logger {
	baseOnce.Do(func() {
		var l *zap.Logger
		var err error
		if debug {
			l, err = zap.NewDevelopment()
		} else {
			l, err = zap.NewProduction()
		}
		if err != nil {
			l = zap.NewNop()
		}
		base = l
	})
	return base
}

// Get returns (or creates) a sugared logger scoped to category. Init must
// have been called first; if it has not, a no-op logger is returned.
func Get(category Category) *zap.SugaredLogger {
	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()

	if l, ok := loggers[category]; ok {
		return l
	}

	root := base
	if root == nil {
		root = zap.NewNop()
	}

	l := root.Named(string(category)).Sugar()
	loggers[category] = l
	return l
}

// Sync flushes any buffered log entries. Call at shutdown.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
	loggersMu.RLock()
	defer loggersMu.RUnlock()
	for _, l := range loggers {
		_ = l.Sync()
	}
}

// reset clears cached loggers and the base logger. Used by tests only.
func reset() {
	baseOnce = sync.Once{}
	base = nil
	loggersMu.Lock()
	loggers = make(map[Category]*zap.SugaredLogger)
	loggersMu.Unlock()
}
