// Package infrastructure assembles the shared dependencies of the
// pipeline binaries: lifecycle coordination, logging, and blob storage
// for the commands that reach it.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lexgo-ia/lexgo/internal/config"
	"github.com/lexgo-ia/lexgo/pkg/lifecycle"
	"github.com/lexgo-ia/lexgo/pkg/storage"
)

// Infrastructure holds the core systems shared by the pipeline binaries.
// Storage is nil unless built with NewWithStorage.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Storage   storage.System
}

// New creates the local-only infrastructure: lifecycle plus a text
// slog handler on stderr at the configured level.
func New(cfg *config.Config) *Infrastructure {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Logging.SlogLevel(),
	})

	return &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    slog.New(handler),
	}
}

// NewWithStorage creates the infrastructure including the blob storage
// system, for the binaries that upload or download documents.
func NewWithStorage(cfg *config.Config) (*Infrastructure, error) {
	infra := New(cfg)

	if err := cfg.FinalizeStorage(); err != nil {
		return nil, err
	}

	store, err := storage.New(&cfg.Storage, infra.Logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}
	infra.Storage = store

	return infra, nil
}
