// SPDX-License-Identifier: MIT

// Package controller is the supervisor's public facade: it wires
// command.Recipe, torrc.TorRc, hiddenservice.Directory and
// scheduler.Scheduler together under one working directory and exposes
// the handful of operations cmd/torsuperd actually needs.
package controller

import (
	"path/filepath"

	"github.com/apimgr/torsuper/internal/applog"
	"github.com/apimgr/torsuper/internal/command"
	"github.com/apimgr/torsuper/internal/config"
	"github.com/apimgr/torsuper/internal/hiddenservice"
	"github.com/apimgr/torsuper/internal/metrics"
	"github.com/apimgr/torsuper/internal/pidfile"
	"github.com/apimgr/torsuper/internal/scheduler"
	"github.com/apimgr/torsuper/internal/secretfile"
	"github.com/apimgr/torsuper/internal/torrc"
)

const (
	pidFileName = "tor.pid"
	torrcName   = "torrc"
)

// Controller is the single entry point a CLI driver needs: start/stop the
// supervised Tor process, push configuration updates, and back up or
// restore hidden-service secret material.
type Controller struct {
	workingDirectory string

	scheduler *scheduler.Scheduler
	torrc     *torrc.TorRc
	directory *hiddenservice.Directory
	logger    *applog.Logger
}

// New constructs a Controller rooted at workingDirectory. program is the
// path to the tor executable; noWindowSupport is forwarded to the
// command.Recipe unchanged. It performs no I/O.
func New(program, workingDirectory string, noWindowSupport bool, logger *applog.Logger, m *metrics.Metrics) *Controller {
	recipe := command.New(program, noWindowSupport)
	pidPath := filepath.Join(workingDirectory, pidFileName)
	torrcPath := filepath.Join(workingDirectory, torrcName)

	pid := pidfile.New(pidPath)
	tr := torrc.New(torrcPath)
	dir := hiddenservice.New(workingDirectory)
	sched := scheduler.New(recipe, torrcPath, pid, logger, m)

	return &Controller{
		workingDirectory: workingDirectory,
		scheduler:        sched,
		torrc:            tr,
		directory:        dir,
		logger:           logger,
	}
}

// Start validates cfg, renders the torrc from it (a nil or empty cfg
// renders an empty torrc) and starts the scheduler. Returns
// scheduler.Scheduler's ErrZombieDetected unchanged if a stale PID file is
// found.
func (c *Controller) Start(cfg config.Configuration) error {
	if err := c.writeTorrc(cfg); err != nil {
		return err
	}
	return c.scheduler.Start()
}

// Stop gracefully shuts the supervised process down and removes the
// torrc. Calling Stop while not started is a programmer error, per
// scheduler.Scheduler.Stop.
func (c *Controller) Stop() error {
	if err := c.scheduler.Stop(); err != nil {
		return err
	}
	return c.torrc.Close()
}

// Update re-renders the torrc from cfg and triggers a reload, in that
// order: the running Tor process must never observe a reload signal
// before the file it's about to re-read has already landed on disk.
func (c *Controller) Update(cfg config.Configuration) error {
	if err := c.writeTorrc(cfg); err != nil {
		return err
	}
	c.scheduler.Reload()
	return nil
}

func (c *Controller) writeTorrc(cfg config.Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	services := torrc.Resolve(c.workingDirectory, cfg)
	return c.torrc.Save(services)
}

// Backup reads the current secret files for each named hidden service.
// It bypasses the scheduler entirely - it's a read-only filesystem
// operation independent of whether Tor is currently running.
func (c *Controller) Backup(hiddenServices []string) (map[string][]secretfile.SecretFile, error) {
	out := make(map[string][]secretfile.SecretFile, len(hiddenServices))
	for _, name := range hiddenServices {
		files, err := c.directory.GetSecretFiles(name)
		if err != nil {
			return nil, err
		}
		out[name] = files
	}
	return out, nil
}

// Restore writes secret files back into a hidden service's directory.
// Like Backup, it does not touch the scheduler: restoring key material
// takes effect the next time Tor (re)reads its hidden-service directory,
// which is the caller's job to trigger via Update or CreateHiddenService.
func (c *Controller) Restore(hiddenService string, files []secretfile.SecretFile) error {
	return c.directory.SaveSecretFiles(hiddenService, files)
}

// CreateHiddenService re-renders the torrc with cfg (expected to have had
// the new service already appended by the caller) and reloads. It is a
// thin convenience wrapper over Update: the
// torrc file is the only place a hidden service is "created" from the
// supervisor's point of view.
func (c *Controller) CreateHiddenService(cfg config.Configuration) error {
	return c.Update(cfg)
}

// DeleteHiddenService re-renders the torrc with cfg (expected to have had
// the service already removed by the caller) and reloads.
func (c *Controller) DeleteHiddenService(cfg config.Configuration) error {
	return c.Update(cfg)
}
