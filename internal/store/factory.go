package store

import (
	"fmt"
	"log/slog"

	"moneybook/internal/log"
)

// Backend identifies a store implementation.
type Backend string

const (
	SQLiteBackend Backend = "sqlite"
	FileBackend   Backend = "file"
	MemoryBackend Backend = "memory"
)

// String implements fmt.Stringer.
func (b Backend) String() string { return string(b) }

// IsValid reports whether b names a known backend.
func (b Backend) IsValid() bool {
	switch b {
	case SQLiteBackend, FileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Options selects and configures a backend.
type Options struct {
	Backend Backend

	// SQLite backend
	SQLitePath string

	// File backend
	DataDir string
}

// Open creates the store selected by opts.
func Open(opts Options, logger *slog.Logger) (Store, error) {
	logger = log.WithComponent(logger, log.ComponentStore)

	switch opts.Backend {
	case SQLiteBackend:
		st, err := NewSQLiteStore(opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("opened sqlite store", log.FieldBackend, opts.Backend.String(), "path", opts.SQLitePath)
		return st, nil
	case FileBackend:
		st, err := NewFileStore(opts.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		logger.Info("opened file store", log.FieldBackend, opts.Backend.String(), "dir", opts.DataDir)
		return st, nil
	case MemoryBackend:
		logger.Info("opened memory store", log.FieldBackend, opts.Backend.String())
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", opts.Backend)
	}
}
