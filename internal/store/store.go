// Package store persists verification results and fingerprint history.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksenkov/verdikt/internal/model"
)

// ResultStore is the audit trail of completed verifications.
type ResultStore interface {
	SaveResult(ctx context.Context, r *model.VerificationResult) error
	GetResult(ctx context.Context, id string) (*model.VerificationResult, error)
	ListResults(ctx context.Context, limit int) ([]model.VerificationResult, error)
}

// HistoryStore records source fingerprints across runs.
type HistoryStore interface {
	GetLatest(ctx context.Context, sourceID string) (fingerprint string, found bool, err error)
	Record(ctx context.Context, sourceID, fingerprint string) error
}

// Store combines both persistence concerns behind one handle.
type Store interface {
	ResultStore
	HistoryStore
	Close() error
}

// ErrNotFound is returned when a requested verification does not exist.
var ErrNotFound = fmt.Errorf("verification not found")

// Open builds the configured store.
func Open(cfg model.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite", "":
		path, err := expandPath(cfg.Path)
		if err != nil {
			return nil, err
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}

func expandPath(path string) (string, error) {
	if path == "" {
		path = "~/.verdikt/verdikt.db"
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return path, nil
}
