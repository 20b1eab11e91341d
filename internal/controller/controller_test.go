// SPDX-License-Identifier: MIT

package controller

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apimgr/torsuper/internal/config"
	"github.com/apimgr/torsuper/internal/secretfile"
)

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := New("/usr/bin/tor", dir, false, nil, nil)

	cfg := config.Configuration{
		{ServiceName: "svc", ServicePort: 80, HostAddress: "127.0.0.1", HostPort: 8080},
	}
	if err := c.writeTorrc(cfg); err != nil {
		t.Fatalf("writeTorrc() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, torrcName))
	if err != nil {
		t.Fatalf("reading torrc: %v", err)
	}
	want := "HiddenServiceDir " + filepath.Join(dir, "svc") + "\nHiddenServicePort 80 127.0.0.1:8080"
	if string(data) != want {
		t.Errorf("torrc = %q, want %q", data, want)
	}
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	c := New("/usr/bin/tor", dir, false, nil, nil)

	svcDir := filepath.Join(dir, "svc")
	if err := os.MkdirAll(svcDir, 0o700); err != nil {
		t.Fatalf("seeding service dir: %v", err)
	}
	hostnamePath := filepath.Join(svcDir, "hostname")
	if err := os.WriteFile(hostnamePath, []byte("abcd.onion\n"), 0o600); err != nil {
		t.Fatalf("seeding hostname: %v", err)
	}

	manifest, err := c.Backup([]string{"svc"})
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	files, ok := manifest["svc"]
	if !ok || len(files) != 1 {
		t.Fatalf("Backup() manifest = %#v, want one file under svc", manifest)
	}
	if files[0].RelativePath() != "hostname" || string(files[0].Contents()) != "abcd.onion\n" {
		t.Errorf("Backup() file = %+v, want hostname=abcd.onion\\n", files[0])
	}

	if err := os.RemoveAll(svcDir); err != nil {
		t.Fatalf("clearing service dir: %v", err)
	}

	if err := c.Restore("svc", manifest["svc"]); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	restored, err := os.ReadFile(hostnamePath)
	if err != nil {
		t.Fatalf("reading restored hostname: %v", err)
	}
	if string(restored) != "abcd.onion\n" {
		t.Errorf("restored contents = %q, want %q", restored, "abcd.onion\n")
	}
	info, err := os.Stat(hostnamePath)
	if err != nil {
		t.Fatalf("stat restored hostname: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("restored hostname mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestZombieGuard(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, pidFileName), []byte("12345"), 0o600); err != nil {
		t.Fatalf("seeding pid file: %v", err)
	}

	c := New("/usr/bin/tor", dir, false, nil, nil)
	err := c.Start(nil)
	if err == nil {
		t.Fatal("Start() error = nil, want a zombie diagnostic")
	}
	if !strings.Contains(err.Error(), "12345") || !strings.Contains(err.Error(), pidFileName) {
		t.Errorf("Start() error = %v, want it to name PID 12345 and %s", err, pidFileName)
	}
}

func TestSecretFileRejectsAbsolutePath(t *testing.T) {
	_, err := secretfile.New("/etc/passwd", []byte("x"))
	if err == nil {
		t.Fatal("secretfile.New() with an absolute path: error = nil, want rejection")
	}
}
