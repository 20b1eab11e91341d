// SPDX-License-Identifier: MIT

// Package torerr defines the supervisor's error taxonomy. Every
// fallible boundary returns one of these, wrapped with fmt.Errorf("%w", ...)
// so callers can branch with errors.Is. Programmer errors (invalid state
// transitions) are not part of this taxonomy - they panic, since they
// indicate a caller bug rather than a recoverable condition.
package torerr

import "errors"

var (
	// ErrConfigurationInvalid is returned when a SecretFile is constructed
	// with an absolute relative_path, or a HiddenService fails validation.
	ErrConfigurationInvalid = errors.New("torsuper: configuration invalid")

	// ErrOnDiskCorruption is returned when a PidFile's contents cannot be
	// parsed as a decimal, non-negative integer.
	ErrOnDiskCorruption = errors.New("torsuper: on-disk state corrupted")

	// ErrZombieDetected is returned by Scheduler.Start when the pid file
	// already holds a published PID.
	ErrZombieDetected = errors.New("torsuper: zombie process detected")

	// ErrChildSpawnFailure is returned when the OS rejects spawning the
	// child process.
	ErrChildSpawnFailure = errors.New("torsuper: child spawn failed")

	// ErrChildStopFailure is returned when the OS rejects a signal or the
	// wait for child exit fails.
	ErrChildStopFailure = errors.New("torsuper: child stop failed")

	// ErrFilesystemFailure is returned when a read/write/chmod used by
	// backup, restore, or update fails.
	ErrFilesystemFailure = errors.New("torsuper: filesystem operation failed")
)

// ProgrammerError panics with a descriptive message identifying an invalid
// API usage (start-while-running, stop-while-stopped, reload-while-stopped).
// This is reserved for genuine misuse and must not be
// recoverable by the caller.
func ProgrammerError(msg string) {
	panic("torsuper: programmer error: " + msg)
}
