// SPDX-License-Identifier: MIT

// Package version carries build-time identification, set via -ldflags
// from cmd/torsuperd, mirroring src/common/version/version.go elsewhere in
// the codebase.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the application version, set via -ldflags at build time.
	Version = "dev"
	// CommitID is the git commit hash, set via -ldflags at build time.
	CommitID = "unknown"
	// BuildTime is the build timestamp, set via -ldflags at build time.
	BuildTime = "unknown"
)

// String renders a one-line identification string.
func String() string {
	return fmt.Sprintf("torsuper %s (%s, %s) %s/%s", Version, CommitID, BuildTime, runtime.GOOS, runtime.GOARCH)
}
