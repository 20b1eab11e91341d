// SPDX-License-Identifier: MIT

// Package secretfile holds the opaque byte-blob value type used to carry
// hidden-service key material (hostname, hs_ed25519_*_key) between the
// on-disk HiddenServiceDirectory and its callers (backup/restore).
package secretfile

import (
	"fmt"
	"path/filepath"

	"github.com/apimgr/torsuper/internal/torerr"
)

// SecretFile is an immutable (relative path, opaque contents) pair. It is
// value-typed and safe to copy freely; its contents are never exposed by
// its String() form, only the path and length.
type SecretFile struct {
	relativePath string
	contents     []byte
}

// New constructs a SecretFile. It fails if relativePath is empty or
// absolute - secrets are always addressed relative to a hidden-service
// directory, never by an absolute path a caller could use to escape it.
func New(relativePath string, contents []byte) (SecretFile, error) {
	if relativePath == "" || filepath.IsAbs(relativePath) {
		return SecretFile{}, fmt.Errorf("%w: secret file path must be relative and non-empty: %q", torerr.ErrConfigurationInvalid, relativePath)
	}
	return SecretFile{relativePath: relativePath, contents: contents}, nil
}

// RelativePath returns the path of the secret file relative to its
// hidden-service directory.
func (f SecretFile) RelativePath() string {
	return f.relativePath
}

// Contents returns the opaque byte contents of the secret file.
func (f SecretFile) Contents() []byte {
	return f.contents
}

// String renders a debug form that never includes the contents, only the
// relative path and its length in bytes.
func (f SecretFile) String() string {
	return fmt.Sprintf("%s (%d bytes)", f.relativePath, len(f.contents))
}
