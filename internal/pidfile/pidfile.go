// SPDX-License-Identifier: MIT

// Package pidfile implements the supervisor's PID-file protocol: a single
// integer slot on disk used to detect zombie processes at startup and to
// publish the currently-supervised child's PID. Mirrors the
// CheckPIDFile/WritePIDFile/RemovePIDFile trio in
// src/server/signal/signal_unix.go, simplified to a single-slot,
// no-liveness-check contract (liveness is the Scheduler's concern, via
// ErrZombieDetected at startup).
package pidfile

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apimgr/torsuper/internal/permission"
	"github.com/apimgr/torsuper/internal/torerr"
)

// PidFile owns a single path → optional-PID slot. At most one PidFile
// instance should own a given path at a time; the supervisor enforces
// this by construction (one Scheduler, one PidFile, one path).
type PidFile struct {
	path string
}

// New returns a PidFile bound to path. It performs no I/O.
func New(path string) *PidFile {
	return &PidFile{path: path}
}

// Path returns the underlying file path.
func (p *PidFile) Path() string {
	return p.path
}

// Read returns nil if the file does not exist, the parsed PID otherwise.
// A file that exists but cannot be parsed as a decimal uint32 is treated
// as tampered-with and is a fatal, wrapped error.
func (p *PidFile) Read() (*uint32, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", torerr.ErrFilesystemFailure, p.path, err)
	}

	text := strings.TrimSpace(string(data))
	pid, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: pid file %s contains non-numeric data %q", torerr.ErrOnDiskCorruption, p.path, text)
	}
	v := uint32(pid)
	return &v, nil
}

// Update overwrites the file with the decimal encoding of pid.
func (p *PidFile) Update(pid uint32) error {
	if err := os.WriteFile(p.path, []byte(strconv.FormatUint(uint64(pid), 10)), permission.Mode600); err != nil {
		return fmt.Errorf("%w: writing %s: %v", torerr.ErrFilesystemFailure, p.path, err)
	}
	return nil
}

// Reset overwrites the file with the literal "0", the sentinel meaning
// "explicitly cleared but not deleted".
func (p *PidFile) Reset() error {
	if err := os.WriteFile(p.path, []byte("0"), permission.Mode600); err != nil {
		return fmt.Errorf("%w: resetting %s: %v", torerr.ErrFilesystemFailure, p.path, err)
	}
	return nil
}

// Drop deletes the file if it exists. It is infallible from the caller's
// perspective: teardown errors are not propagated - "destruction must be
// infallible" - they're just swallowed, since a
// dropped PidFile has nothing left for a caller to react to.
func (p *PidFile) Drop() {
	_ = os.Remove(p.path)
}
