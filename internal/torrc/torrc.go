// SPDX-License-Identifier: MIT

// Package torrc renders the Tor configuration file from a Configuration
// and owns its lifecycle on disk (whole-file replace on Save, delete on
// Close). It does not create hidden-service directories; that is
// hiddenservice.Directory's job.
package torrc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apimgr/torsuper/internal/config"
	"github.com/apimgr/torsuper/internal/torerr"
)

// ResolvedService is a HiddenService with its service_directory resolved
// to an absolute path under the working directory (the
// TorRcHiddenServiceConfiguration).
type ResolvedService struct {
	ServiceDirectory string
	ServicePort      uint16
	HostAddress      string
	HostPort         uint16
}

// Resolve maps a Configuration onto its rendered form given workingDir.
func Resolve(workingDir string, cfg config.Configuration) []ResolvedService {
	out := make([]ResolvedService, len(cfg))
	for i, hs := range cfg {
		out[i] = ResolvedService{
			ServiceDirectory: filepath.Join(workingDir, hs.ServiceName),
			ServicePort:      hs.ServicePort,
			HostAddress:      hs.HostAddress,
			HostPort:         hs.HostPort,
		}
	}
	return out
}

// Render produces the exact torrc text for the resolved services: two
// lines per service, lines joined by a single "\n", no trailing newline.
func Render(services []ResolvedService) string {
	lines := make([]string, 0, len(services)*2)
	for _, s := range services {
		lines = append(lines,
			fmt.Sprintf("HiddenServiceDir %s", s.ServiceDirectory),
			fmt.Sprintf("HiddenServicePort %d %s:%d", s.ServicePort, s.HostAddress, s.HostPort),
		)
	}
	return strings.Join(lines, "\n")
}

// TorRc owns the on-disk torrc file at path.
type TorRc struct {
	path string
}

// New binds a TorRc to path. It performs no I/O.
func New(path string) *TorRc {
	return &TorRc{path: path}
}

// Path returns the torrc file path.
func (t *TorRc) Path() string {
	return t.path
}

// Save renders services and replaces the file wholesale.
func (t *TorRc) Save(services []ResolvedService) error {
	if err := os.WriteFile(t.path, []byte(Render(services)), 0o644); err != nil {
		return fmt.Errorf("%w: writing torrc %s: %v", torerr.ErrFilesystemFailure, t.path, err)
	}
	return nil
}

// Close deletes the torrc file if it exists.
func (t *TorRc) Close() error {
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: removing torrc %s: %v", torerr.ErrFilesystemFailure, t.path, err)
	}
	return nil
}
