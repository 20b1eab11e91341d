// SPDX-License-Identifier: MIT

// Package eventloop implements the supervisor's event loop: the
// goroutine body that owns one job.Job for the lifetime of a Scheduler.
// It detects crashes, honours reload and termination flags, and keeps
// the PID file in sync with the job's actual lifecycle.
package eventloop

import (
	"sync/atomic"
	"time"

	"github.com/apimgr/torsuper/internal/applog"
	"github.com/apimgr/torsuper/internal/command"
	"github.com/apimgr/torsuper/internal/job"
	"github.com/apimgr/torsuper/internal/metrics"
	"github.com/apimgr/torsuper/internal/pidfile"
)

// Tick is the polling interval between crash checks and reload checks.
const Tick = 1000 * time.Millisecond

// Flags are the two atomic signals shared between a Scheduler's caller
// (or an outer signal handler) and the running event loop. Both use
// relaxed/default atomic ordering: each is a single boolean with no
// dependent data, so sequential consistency is more than sufficient.
type Flags struct {
	Reload    atomic.Bool
	Terminate atomic.Bool
}

// Run is the event loop body. It spawns the initial job, then loops once
// per Tick: a check for termination first (so it overrides a pending
// reload), then crash-check (there's no point reloading a job that's
// already dead), then reload. Run returns once the job has been stopped
// and the pid file reset to "0".
//
// Run must only be cancelled via flags.Terminate; it is not safe to
// abandon the goroutine running Run without setting that flag first, or
// the child process leaks.
func Run(recipe command.Recipe, torrcPath string, pid *pidfile.PidFile, flags *Flags, logger *applog.Logger, m *metrics.Metrics) {
	j := job.New(recipe, torrcPath, logger)

	if err := j.Start(); err != nil {
		if logger != nil {
			logger.Error("initial spawn failed", applog.Err(err))
		}
		return
	}
	m.RecordSpawn()
	m.SetRunning(true)
	publishPID(j, pid, logger)

	ticker := time.NewTicker(Tick)
	defer ticker.Stop()

	for {
		if flags.Terminate.Load() {
			break
		}

		if state, exited := j.Status(); exited {
			m.SetRunning(false)
			exitCode := -1
			if state != nil {
				exitCode = state.ExitCode()
				m.SetLastExitCode(exitCode)
			}
			if logger != nil {
				logger.Warn("job exited unexpectedly, respawning", applog.Int("exit_code", exitCode))
			}
			// The job is already dead; Stop just collects its state, it
			// sends no signal (job.Stop only signals a still-running
			// child - see job.Job.Stop's hasExited guard).
			if _, err := j.Stop(); err != nil && logger != nil {
				logger.Error("stopping crashed job", applog.Err(err))
			}
			if err := j.Start(); err != nil {
				if logger != nil {
					logger.Error("respawn failed", applog.Err(err))
				}
				break
			}
			m.RecordCrashRespawn()
			m.SetRunning(true)
			publishPID(j, pid, logger)
		}

		// Reload is swapped to false atomically regardless of which
		// branch above ran: a reload flag set while the job was crashing
		// is still honoured against the freshly respawned job, since
		// there's no harm in an extra reload of a process that just
		// started.
		if flags.Reload.Swap(false) {
			doReload(j, pid, logger, m)
		}

		<-ticker.C
	}

	if _, err := j.Stop(); err != nil && logger != nil {
		logger.Error("final stop failed", applog.Err(err))
	}
	m.SetRunning(false)
	if err := pid.Reset(); err != nil && logger != nil {
		logger.Error("resetting pid file on shutdown", applog.Err(err))
	}
}

func publishPID(j *job.Job, pid *pidfile.PidFile, logger *applog.Logger) {
	id, ok := j.ID()
	if !ok {
		return
	}
	if err := pid.Update(uint32(id)); err != nil && logger != nil {
		logger.Error("publishing pid", applog.Err(err))
	}
}
