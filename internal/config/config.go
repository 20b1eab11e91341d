// SPDX-License-Identifier: MIT

// Package config holds the Configuration/HiddenService value types Controller
// consumes, plus the YAML bootstrap file the CLI driver loads at startup.
// The YAML layer mirrors src/config/config.go's own load/save of its Config
// struct with gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/apimgr/torsuper/internal/torerr"
)

// HiddenService describes one onion service: a local forwarding target
// reachable under service_name's own directory.
type HiddenService struct {
	ServiceName  string `yaml:"name"`
	ServicePort  uint16 `yaml:"service_port"`
	HostAddress  string `yaml:"host_address"`
	HostPort     uint16 `yaml:"host_port"`
}

// Validate checks the invariants placed on a HiddenService:
// service_name must be a bare filename (no path separators) and both
// ports must be in [1, 65535].
func (h HiddenService) Validate() error {
	if h.ServiceName == "" || strings.ContainsAny(h.ServiceName, "/\\") {
		return fmt.Errorf("%w: hidden service name %q must be a non-empty name with no path separators", torerr.ErrConfigurationInvalid, h.ServiceName)
	}
	if h.ServicePort == 0 {
		return fmt.Errorf("%w: hidden service %q: service_port must be in [1,65535]", torerr.ErrConfigurationInvalid, h.ServiceName)
	}
	if h.HostPort == 0 {
		return fmt.Errorf("%w: hidden service %q: host_port must be in [1,65535]", torerr.ErrConfigurationInvalid, h.ServiceName)
	}
	if h.HostAddress == "" {
		return fmt.Errorf("%w: hidden service %q: host_address must not be empty", torerr.ErrConfigurationInvalid, h.ServiceName)
	}
	return nil
}

// Configuration is an ordered sequence of HiddenService. Order is
// preserved end to end into the rendered torrc. Duplicate service names
// are not detected at this layer; that is the caller's responsibility
// here.
type Configuration []HiddenService

// Validate validates every entry.
func (c Configuration) Validate() error {
	for _, hs := range c {
		if err := hs.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// File is the on-disk bootstrap form the CLI driver loads with --config.
// It is read once at startup to seed the in-memory Configuration the
// supervisor actually operates on; the supervisor itself never re-reads
// it.
type File struct {
	Program          string          `yaml:"program"`
	WorkingDirectory string          `yaml:"working_directory"`
	NoWindowSupport  bool            `yaml:"no_window_support"`
	HiddenServices   []HiddenService `yaml:"hidden_services"`
}

// LoadFile reads and parses a File from path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading config %s: %v", torerr.ErrFilesystemFailure, path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parsing config %s: %v", torerr.ErrConfigurationInvalid, path, err)
	}
	return &f, nil
}

// Save writes f to path as YAML.
func (f *File) Save(path string) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("%w: encoding config: %v", torerr.ErrFilesystemFailure, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("%w: writing config %s: %v", torerr.ErrFilesystemFailure, path, err)
	}
	return nil
}

// ToConfiguration converts the loaded file's hidden-service list into a
// Configuration, preserving order.
func (f *File) ToConfiguration() Configuration {
	cfg := make(Configuration, len(f.HiddenServices))
	copy(cfg, f.HiddenServices)
	return cfg
}
