// SPDX-License-Identifier: MIT

// Package hiddenservice reads and writes per-service secret files under a
// base working directory. It never creates torrc entries (torrc.Resolve
// does that) and never reads authorized_clients contents - Tor owns that
// file's contents entirely; the supervisor only precreates the directory
// defensively.
package hiddenservice

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/apimgr/torsuper/internal/permission"
	"github.com/apimgr/torsuper/internal/secretfile"
	"github.com/apimgr/torsuper/internal/torerr"
)

// authorizedClientsDir is the subdirectory Tor itself populates with
// per-client authorization files; the supervisor only ensures it exists
// with the right mode.
const authorizedClientsDir = "authorized_clients"

// Directory roots all hidden-service secret I/O at basePath, the
// Controller's working directory.
type Directory struct {
	basePath string
}

// New binds a Directory to basePath. It performs no I/O.
func New(basePath string) *Directory {
	return &Directory{basePath: basePath}
}

// GetSecretFiles lists the regular files directly under
// basePath/name, returning each as a SecretFile whose relative path is
// just the filename. Subdirectories (including authorized_clients) are
// ignored.
func (d *Directory) GetSecretFiles(name string) ([]secretfile.SecretFile, error) {
	dir := filepath.Join(d.basePath, name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: listing %s: %v", torerr.ErrFilesystemFailure, dir, err)
	}

	var files []secretfile.SecretFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("%w: stat-ing %s/%s: %v", torerr.ErrFilesystemFailure, dir, entry.Name(), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s/%s: %v", torerr.ErrFilesystemFailure, dir, entry.Name(), err)
		}
		sf, err := secretfile.New(entry.Name(), contents)
		if err != nil {
			return nil, err
		}
		files = append(files, sf)
	}
	return files, nil
}

// SaveSecretFiles ensures basePath/name/authorized_clients exists with
// mode 0700, then writes every file's contents to basePath/name/<relative
// path> with mode 0600.
func (d *Directory) SaveSecretFiles(name string, files []secretfile.SecretFile) error {
	dir := filepath.Join(d.basePath, name)
	if err := os.MkdirAll(dir, permission.Mode700); err != nil {
		return fmt.Errorf("%w: creating %s: %v", torerr.ErrFilesystemFailure, dir, err)
	}

	clientsDir := filepath.Join(dir, authorizedClientsDir)
	if err := os.MkdirAll(clientsDir, permission.Mode700); err != nil {
		return fmt.Errorf("%w: creating %s: %v", torerr.ErrFilesystemFailure, clientsDir, err)
	}
	if err := permission.SetMode700(clientsDir); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", torerr.ErrFilesystemFailure, clientsDir, err)
	}

	for _, f := range files {
		target := filepath.Join(dir, f.RelativePath())
		if err := os.WriteFile(target, f.Contents(), permission.Mode600); err != nil {
			return fmt.Errorf("%w: writing %s: %v", torerr.ErrFilesystemFailure, target, err)
		}
		if err := permission.SetMode600(target); err != nil {
			return fmt.Errorf("%w: chmod %s: %v", torerr.ErrFilesystemFailure, target, err)
		}
	}
	return nil
}
