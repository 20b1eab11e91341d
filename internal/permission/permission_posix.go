// SPDX-License-Identifier: MIT
//go:build !windows

package permission

import "os"

// SetMode600 chmods path to 0600. Intended for secret files written by
// HiddenServiceDirectory.
func SetMode600(path string) error {
	return os.Chmod(path, Mode600)
}

// SetMode700 chmods path to 0700. Intended for the authorized_clients
// directory Tor expects under each hidden-service directory.
func SetMode700(path string) error {
	return os.Chmod(path, Mode700)
}

// GetMode returns the low 9 mode bits of path.
func GetMode(path string) (uint16, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return uint16(info.Mode().Perm()), nil
}
