// SPDX-License-Identifier: MIT

// Package metrics exposes the supervisor's Prometheus collectors. It never
// starts an HTTP listener itself - that belongs to the out-of-scope
// health-probe server - it only registers collectors into a
// caller-supplied prometheus.Registerer, the same "bring your own
// registry/transport" shape the wider codebase's own metrics service
// uses rather than owning its scrape endpoint directly.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the collectors EventLoop updates as it drives the
// supervised job (Controller and Scheduler only pass it through). All methods are nil-receiver safe so
// callers that don't care about metrics can pass a nil *Metrics.
type Metrics struct {
	spawns        prometheus.Counter
	crashRespawns prometheus.Counter
	reloads       prometheus.Counter
	running       prometheus.Gauge
	lastExitCode  prometheus.Gauge
}

// New constructs a Metrics and registers its collectors into reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		spawns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "torsuper_job_spawns_total",
			Help: "Total number of times the supervised Tor process has been spawned, including the initial spawn.",
		}),
		crashRespawns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "torsuper_job_crash_respawns_total",
			Help: "Total number of times the supervisor detected the Tor process had exited on its own and respawned it.",
		}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "torsuper_job_reloads_total",
			Help: "Total number of reloads performed (SIGHUP on POSIX, stop+start on Windows).",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "torsuper_job_running",
			Help: "1 if the supervised Tor process is currently running, 0 otherwise.",
		}),
		lastExitCode: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "torsuper_job_last_exit_code",
			Help: "Exit code of the most recent Tor process exit observed by the supervisor.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.spawns, m.crashRespawns, m.reloads, m.running, m.lastExitCode)
	}
	return m
}

// RecordSpawn increments the spawn counter.
func (m *Metrics) RecordSpawn() {
	if m == nil {
		return
	}
	m.spawns.Inc()
}

// RecordCrashRespawn increments the crash-respawn counter.
func (m *Metrics) RecordCrashRespawn() {
	if m == nil {
		return
	}
	m.crashRespawns.Inc()
}

// RecordReload increments the reload counter.
func (m *Metrics) RecordReload() {
	if m == nil {
		return
	}
	m.reloads.Inc()
}

// SetRunning sets the running gauge to 1 or 0.
func (m *Metrics) SetRunning(running bool) {
	if m == nil {
		return
	}
	if running {
		m.running.Set(1)
	} else {
		m.running.Set(0)
	}
}

// SetLastExitCode records the most recently observed exit code.
func (m *Metrics) SetLastExitCode(code int) {
	if m == nil {
		return
	}
	m.lastExitCode.Set(float64(code))
}
