// SPDX-License-Identifier: MIT
//go:build !windows

package eventloop

import (
	"github.com/apimgr/torsuper/internal/applog"
	"github.com/apimgr/torsuper/internal/job"
	"github.com/apimgr/torsuper/internal/metrics"
	"github.com/apimgr/torsuper/internal/pidfile"
)

// doReload sends SIGHUP and republishes the (unchanged) PID - Tor keeps
// its process identity across a POSIX reload.
func doReload(j *job.Job, pid *pidfile.PidFile, logger *applog.Logger, m *metrics.Metrics) {
	if err := j.Reload(); err != nil {
		if logger != nil {
			logger.Error("reload failed", applog.Err(err))
		}
		return
	}
	m.RecordReload()
	publishPID(j, pid, logger)
	if logger != nil {
		logger.Info("job reloaded")
	}
}
