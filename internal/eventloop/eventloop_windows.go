// SPDX-License-Identifier: MIT
//go:build windows

package eventloop

import (
	"github.com/apimgr/torsuper/internal/applog"
	"github.com/apimgr/torsuper/internal/job"
	"github.com/apimgr/torsuper/internal/metrics"
	"github.com/apimgr/torsuper/internal/pidfile"
)

// doReload has no SIGHUP to send on Windows, so it stops and restarts
// the job and republishes its new PID.
func doReload(j *job.Job, pid *pidfile.PidFile, logger *applog.Logger, m *metrics.Metrics) {
	if _, err := j.Stop(); err != nil {
		if logger != nil {
			logger.Error("reload: stop failed", applog.Err(err))
		}
		return
	}
	if err := j.Start(); err != nil {
		if logger != nil {
			logger.Error("reload: restart failed", applog.Err(err))
		}
		return
	}
	m.RecordReload()
	publishPID(j, pid, logger)
	if logger != nil {
		logger.Info("job reloaded (stop+start)")
	}
}
