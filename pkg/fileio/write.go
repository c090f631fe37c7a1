// Package fileio writes data files in place without leaving them truncated
// when the process is interrupted.
package fileio

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ajxudir/tagtrack/pkg/verbose"
	"github.com/ajxudir/tagtrack/pkg/warnings"
)

var (
	statFunc   = os.Stat
	renameFunc = os.Rename
)

func tempSuffix() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return ".tmp"
	}
	return "." + hex.EncodeToString(b) + ".tmp"
}

// WriteAtomic writes content to path through a temporary file in the same
// directory followed by a rename.
//
// A read-only target is rejected up front because rename bypasses file
// permissions on most systems.
func WriteAtomic(path string, content []byte, mode os.FileMode) error {
	if info, err := statFunc(path); err == nil && info.Mode().Perm()&0o200 == 0 {
		return fmt.Errorf("file is read-only: %s", path)
	}

	tempPath := filepath.Join(filepath.Dir(path), filepath.Base(path)+tempSuffix())
	if err := os.WriteFile(tempPath, content, mode); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := renameFunc(tempPath, path); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			warnings.Warnf("Warning: failed to clean up temp file %s: %v\n", tempPath, removeErr)
		}
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// WriteFile replaces path with content, keeping the permissions and owner of
// an existing file. New files are created with defaultMode.
//
// It performs the following operations:
//   - Reads the current mode and ownership when the file exists
//   - Writes atomically with WriteAtomic
//   - Restores ownership, logging instead of failing when chown is not allowed
//
// Parameters:
//   - path: Target file
//   - content: New file content
//   - defaultMode: Mode used when the file does not exist yet
//
// Returns:
//   - error: When the file is read-only or the write or rename fails
func WriteFile(path string, content []byte, defaultMode os.FileMode) error {
	mode := defaultMode
	uid, gid := -1, -1
	if info, err := statFunc(path); err == nil {
		mode = info.Mode().Perm()
		uid, gid = ownership(info)
	}

	if err := WriteAtomic(path, content, mode); err != nil {
		return err
	}

	if uid >= 0 && gid >= 0 {
		if err := chown(path, uid, gid); err != nil {
			verbose.Printf("Unable to preserve file ownership for %s: %v", path, err)
		}
	}

	if info, err := statFunc(path); err == nil && info.Mode().Perm() != mode {
		warnings.Warnf("Warning: file permissions changed for %s: %v -> %v\n", path, mode, info.Mode().Perm())
	}
	return nil
}
