// Package store selects the user storage backend for the process.
// Selection happens once, is memoized for the process lifetime, and is
// an explicit branch on configuration — never a dynamically constructed
// import.
package store

import (
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/textforge/humanizer/web"
	"github.com/textforge/humanizer/web/jsonfile"
	"github.com/textforge/humanizer/web/memory"
	"github.com/textforge/humanizer/web/sqlite"
)

const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
	BackendMemory = "memory"

	sqliteFileName = "app.db"
	jsonFileName   = "users.json"
)

type Config struct {
	// Backend forces a specific backend: "sqlite", "json" or "memory".
	// Empty means default selection.
	Backend string
	// Ephemeral marks a restricted or read-only filesystem environment
	// (serverless). Default selection then goes straight to memory.
	Ephemeral bool
	// DataFolder holds the sqlite and json files.
	DataFolder string
}

// Selector picks a backend lazily on first use and caches it. Construct
// one at the composition root and inject it; tests get a fresh store per
// selector instance.
type Selector struct {
	cfg    Config
	logger *zap.Logger

	once sync.Once
	repo web.UserRepository
}

func NewSelector(cfg Config, logger *zap.Logger) *Selector {
	return &Selector{
		cfg:    cfg,
		logger: logger,
	}
}

// Repo returns the selected backend. A second call returns the cached
// instance rather than re-selecting.
func (s *Selector) Repo() web.UserRepository {
	s.once.Do(func() {
		s.repo = s.selectBackend()
	})

	return s.repo
}

func (s *Selector) selectBackend() web.UserRepository {
	switch s.cfg.Backend {
	case BackendMemory:
		s.logger.Info("using in-memory user store")

		return memory.New()
	case BackendJSON:
		path := filepath.Join(s.cfg.DataFolder, jsonFileName)

		repo, err := jsonfile.New(path)
		if err != nil {
			s.logger.Error("json user store failed to initialize, falling back to memory", zap.String("path", path), zap.Error(err))

			return memory.New()
		}

		s.logger.Info("using json file user store", zap.String("path", path))

		return repo
	case BackendSQLite, "":
	default:
		s.logger.Warn("unknown store backend, using default selection", zap.String("backend", s.cfg.Backend))
	}

	if s.cfg.Ephemeral {
		s.logger.Info("ephemeral filesystem detected, using in-memory user store")

		return memory.New()
	}

	path := filepath.Join(s.cfg.DataFolder, sqliteFileName)

	repo, err := sqlite.New(path)
	if err != nil {
		s.logger.Error("sqlite user store failed to initialize, falling back to memory", zap.String("path", path), zap.Error(err))

		return memory.New()
	}

	s.logger.Info("using sqlite user store", zap.String("path", path))

	return repo
}
