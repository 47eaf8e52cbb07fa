package history

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const (
	DriverSQLite = "sqlite"
	DriverJSON   = "json"
)

// Open returns the store for driver. When SQLite cannot be opened the JSON
// file store at the same path with a .json suffix is used instead.
func Open(driver, path string, logger zerolog.Logger) (Store, error) {
	switch strings.ToLower(driver) {
	case DriverJSON:
		return NewFileStore(path)
	case DriverSQLite, "":
		store, err := NewSQLiteStore(path)
		if err == nil {
			return store, nil
		}
		fallback := strings.TrimSuffix(path, ".db") + ".json"
		logger.Warn().Err(err).Str("fallback", fallback).Msg("sqlite history unavailable, using json file")
		return NewFileStore(fallback)
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrUnavailable, driver)
	}
}
