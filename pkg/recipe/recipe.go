// Package recipe keeps the version field of recipe files in step with the
// versions file.
//
// A recipe is any JSON object with a top-level "version" field. Other fields
// and their order are left untouched.
package recipe

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/iancoleman/orderedmap"

	"github.com/ajxudir/tagtrack/pkg/fileio"
	"github.com/ajxudir/tagtrack/pkg/jsonfmt"
	"github.com/ajxudir/tagtrack/pkg/verbose"
)

var (
	readFileFunc  = os.ReadFile
	writeFileFunc = fileio.WriteFile
)

// UpdateError reports a failure to rewrite a recipe file.
type UpdateError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *UpdateError) Error() string {
	return fmt.Sprintf("failed to update recipe %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *UpdateError) Unwrap() error {
	return e.Err
}

// Updater rewrites recipe files. The zero value is ready to use.
type Updater struct{}

// UpdateVersion implements the updater used by the update check.
func (Updater) UpdateVersion(path, version string) error {
	return UpdateVersion(path, version)
}

// UpdateVersion sets the "version" field of the recipe at path.
//
// It performs the following operations:
//   - Reads the recipe into an ordered map so field order is kept
//   - Returns without writing when the version already matches
//   - Writes the recipe back with 2-space indentation
//
// Parameters:
//   - path: Recipe file path
//   - version: The new version string
//
// Returns:
//   - error: *UpdateError when the file cannot be read, parsed, lacks a
//     version field or cannot be written
func UpdateVersion(path, version string) error {
	content, err := readFileFunc(path)
	if err != nil {
		return &UpdateError{Path: path, Err: err}
	}

	data := orderedmap.New()
	if err := json.Unmarshal(content, data); err != nil {
		return &UpdateError{Path: path, Err: err}
	}

	current, ok := data.Get("version")
	if !ok {
		return &UpdateError{Path: path, Err: fmt.Errorf("no version field")}
	}
	if current == version {
		verbose.Printf("Recipe %s already at %s", path, version)
		return nil
	}

	data.Set("version", version)
	out, err := jsonfmt.Marshal(data)
	if err != nil {
		return &UpdateError{Path: path, Err: err}
	}
	if err := writeFileFunc(path, out, 0o644); err != nil {
		return &UpdateError{Path: path, Err: err}
	}

	verbose.Printf("Recipe %s: version %v -> %s", path, current, version)
	return nil
}
