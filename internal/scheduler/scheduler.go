// SPDX-License-Identifier: MIT

// Package scheduler spawns and joins the background event loop, exposing
// start/stop/reload to callers. Exactly one supervised job per Scheduler;
// see DESIGN.md for what a second Start after Stop does.
package scheduler

import (
	"fmt"
	"sync"

	"github.com/apimgr/torsuper/internal/applog"
	"github.com/apimgr/torsuper/internal/command"
	"github.com/apimgr/torsuper/internal/eventloop"
	"github.com/apimgr/torsuper/internal/metrics"
	"github.com/apimgr/torsuper/internal/pidfile"
	"github.com/apimgr/torsuper/internal/torerr"
)

// State is the Scheduler's lifecycle state.
type State int

const (
	// StateStopped means no background event loop is running.
	StateStopped State = iota
	// StateSupervising means the event loop goroutine is active.
	StateSupervising
)

// Scheduler owns the event loop goroutine supervising one Job.
type Scheduler struct {
	recipe    command.Recipe
	torrcPath string
	pid       *pidfile.PidFile
	logger    *applog.Logger
	metrics   *metrics.Metrics

	mu    sync.Mutex
	flags *eventloop.Flags
	done  chan struct{}
}

// New constructs a Scheduler. It performs no I/O.
func New(recipe command.Recipe, torrcPath string, pid *pidfile.PidFile, logger *applog.Logger, m *metrics.Metrics) *Scheduler {
	return &Scheduler{recipe: recipe, torrcPath: torrcPath, pid: pid, logger: logger, metrics: m}
}

// State reports whether the event loop is currently running.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		return StateStopped
	}
	return StateSupervising
}

// Start reads the pid file; if a PID is already published there, it
// aborts with ErrZombieDetected, protecting against double-supervision
// (another live Scheduler, or a stale file left by a crash). On success
// it spawns the event loop in the background and returns immediately.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		torerr.ProgrammerError("Scheduler.Start called while already supervising")
	}

	existing, err := s.pid.Read()
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: pid file %s already contains pid %d - kill that process and delete the file before starting", torerr.ErrZombieDetected, s.pid.Path(), *existing)
	}

	flags := &eventloop.Flags{}
	done := make(chan struct{})

	go func() {
		eventloop.Run(s.recipe, s.torrcPath, s.pid, flags, s.logger, s.metrics)
		close(done)
	}()

	s.flags = flags
	s.done = done

	if s.logger != nil {
		s.logger.Info("scheduler started")
	}
	return nil
}

// Stop sets the terminate flag and blocks until the event loop has fully
// shut the job down and reset the pid file. Calling Stop while not
// started is a programmer error.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.done == nil {
		s.mu.Unlock()
		torerr.ProgrammerError("Scheduler.Stop called while not started")
	}
	flags := s.flags
	done := s.done
	s.mu.Unlock()

	flags.Terminate.Store(true)
	<-done

	s.mu.Lock()
	s.flags = nil
	s.done = nil
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("scheduler stopped")
	}
	return nil
}

// Reload sets the reload flag; the event loop's next tick observes it.
// Calling Reload while not started is a programmer error.
func (s *Scheduler) Reload() {
	s.mu.Lock()
	flags := s.flags
	s.mu.Unlock()

	if flags == nil {
		torerr.ProgrammerError("Scheduler.Reload called while not started")
	}
	flags.Reload.Store(true)
}
