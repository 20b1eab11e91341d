// SPDX-License-Identifier: MIT
package torrc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/apimgr/torsuper/internal/config"
)

func TestRenderSingleService(t *testing.T) {
	services := Resolve("/tmp/wd", config.Configuration{
		{ServiceName: "svc", ServicePort: 80, HostAddress: "127.0.0.1", HostPort: 8080},
	})
	got := Render(services)
	want := "HiddenServiceDir /tmp/wd/svc\nHiddenServicePort 80 127.0.0.1:8080"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderMultipleServicesPreservesOrder(t *testing.T) {
	services := Resolve("/tmp/wd", config.Configuration{
		{ServiceName: "a", ServicePort: 1, HostAddress: "127.0.0.1", HostPort: 1},
		{ServiceName: "b", ServicePort: 2, HostAddress: "127.0.0.1", HostPort: 2},
	})
	got := Render(services)
	want := "HiddenServiceDir /tmp/wd/a\nHiddenServicePort 1 127.0.0.1:1\nHiddenServiceDir /tmp/wd/b\nHiddenServicePort 2 127.0.0.1:2"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestSaveThenClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "torrc")
	tr := New(path)
	services := Resolve("/tmp/wd", config.Configuration{
		{ServiceName: "svc", ServicePort: 80, HostAddress: "127.0.0.1", HostPort: 8080},
	})
	if err := tr.Save(services); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved torrc: %v", err)
	}
	if string(data) != Render(services) {
		t.Errorf("saved torrc = %q, want %q", data, Render(services))
	}

	if err := tr.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected torrc removed after Close(), stat err = %v", err)
	}
}

func TestCloseOnMissingFileIsNotAnError(t *testing.T) {
	tr := New(filepath.Join(t.TempDir(), "torrc"))
	if err := tr.Close(); err != nil {
		t.Errorf("Close() on missing file = %v, want nil", err)
	}
}
