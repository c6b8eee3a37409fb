package cli

import (
	"context"

	"github.com/roach88/kinship/internal/config"
	"github.com/roach88/kinship/internal/engine"
	"github.com/roach88/kinship/internal/graph"
	"github.com/roach88/kinship/internal/logging"
	"github.com/roach88/kinship/internal/store"
)

// app bundles the wired-up runtime for one command invocation.
type app struct {
	cfg    config.Config
	store  store.EntityStore
	engine *engine.Engine
	close  func() error
}

// newApp loads configuration, opens the store, and builds the engine
// with the graph rebuilt from the store.
func newApp(ctx context.Context, opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.ConfigDir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.Path != "" {
		cfg.Path = opts.Path
	}
	if cfg.Path == "" {
		return nil, NewExitError(ExitCommandError,
			"no store path configured: set store.path or pass --path")
	}

	env := "production"
	if opts.Verbose {
		env = "development"
	}
	if err := logging.Init(env); err != nil {
		return nil, WrapExitError(ExitCommandError, "init logging", err)
	}

	var (
		st     store.EntityStore
		closer = func() error { return nil }
	)
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "open sqlite store", err)
		}
		st = db
		closer = db.Close
	default:
		vault, err := store.NewVault(cfg.Path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "open vault store", err)
		}
		st = vault
	}

	e := engine.New(st, graph.New(), logging.Get(),
		engine.WithHeading(cfg.SectionHeading),
		engine.WithLockTimeout(cfg.LockTimeout),
		engine.WithMaxSteps(cfg.MaxSteps),
	)
	if err := e.Rebuild(ctx); err != nil {
		_ = closer()
		return nil, WrapExitError(ExitCommandError, "rebuild graph", err)
	}

	return &app{cfg: cfg, store: st, engine: e, close: closer}, nil
}

// Close releases store resources and flushes logs.
func (a *app) Close() {
	_ = a.close()
	logging.Sync()
}
