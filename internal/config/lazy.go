// ABOUTME: Lazy, once-only database opener shared by commands and the MCP server.
// ABOUTME: Every caller receives the same store handle and the same open error.
package config

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harperreed/fitlife/internal/repository"
	"github.com/harperreed/fitlife/internal/storage"
)

// Lazy opens the configured store on first use.
type Lazy struct {
	cfg    *Config
	logger *log.Logger

	once  sync.Once
	db    *storage.DB
	repos *repository.Repositories
	err   error
}

// NewLazy returns a Lazy for cfg. Nothing is opened until DB or Repositories is called.
func NewLazy(cfg *Config, logger *log.Logger) *Lazy {
	return &Lazy{cfg: cfg, logger: logger}
}

func (l *Lazy) open(ctx context.Context) {
	l.once.Do(func() {
		l.db, l.err = l.cfg.OpenStore(ctx, l.logger)
		if l.err == nil {
			l.repos = repository.New(l.db, l.cfg.RepositoryOptions(l.logger))
		}
	})
}

// DB returns the shared store, opening it if needed.
func (l *Lazy) DB(ctx context.Context) (*storage.DB, error) {
	l.open(ctx)
	return l.db, l.err
}

// Repositories returns the facades bound to the shared store.
func (l *Lazy) Repositories(ctx context.Context) (*repository.Repositories, error) {
	l.open(ctx)
	return l.repos, l.err
}

// Close closes the store if it was opened.
func (l *Lazy) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}
