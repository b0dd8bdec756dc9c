// Package daemon hosts the long-running service: it owns the instance lock,
// the job store, the pipeline, and the HTTP API.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/modelcycles/yongent/internal/config"
	"github.com/modelcycles/yongent/internal/jobs"
	"github.com/modelcycles/yongent/internal/logging"
)

// Submitter schedules download jobs.
type Submitter interface {
	Submit(ctx context.Context, query, url, outputDir string) (*jobs.Job, error)
}

// Daemon ties the service pieces together for one process.
type Daemon struct {
	cfg       *config.Config
	store     *jobs.Store
	submitter Submitter
	logger    *slog.Logger

	lock *flock.Flock
	api  *apiServer
}

// New constructs a Daemon. The caller keeps ownership of the store.
func New(cfg *config.Config, store *jobs.Store, submitter Submitter, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if store == nil {
		return nil, fmt.Errorf("store required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	d := &Daemon{
		cfg:       cfg,
		store:     store,
		submitter: submitter,
		logger:    logger.With(logging.String(logging.FieldComponent, "daemon")),
		lock:      flock.New(filepath.Join(cfg.Paths.StateDir, "yongent.lock")),
	}
	d.api = newAPIServer(cfg, d, logger)
	return d, nil
}

// Start acquires the instance lock and brings up the API server. It returns
// an error if another daemon already holds the lock.
func (d *Daemon) Start(ctx context.Context) error {
	locked, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another instance holds %s", d.lock.Path())
	}

	if err := d.api.start(ctx); err != nil {
		_ = d.lock.Unlock()
		return err
	}
	d.logger.Info("daemon started", logging.String("lock", d.lock.Path()))
	return nil
}

// Stop shuts the API server down and releases the lock.
func (d *Daemon) Stop() {
	d.api.stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release daemon lock", logging.Error(err))
	}
	d.logger.Info("daemon stopped")
}

// Addr reports the API listen address once the server is up.
func (d *Daemon) Addr() string {
	return d.api.addr()
}

// LockPath exposes the instance lock location for status reporting.
func (d *Daemon) LockPath() string {
	return d.lock.Path()
}
