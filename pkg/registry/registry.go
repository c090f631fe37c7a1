// Package registry loads and saves the versions file: the list of tracked
// packages with the last accepted version of each.
//
// File layout:
//
//	{
//	  "meta": {"date": "2024-03-01T10:00:00.000000+00:00"},
//	  "versions": {
//	    "owner/repo": {"version": "1.2.3", "date": "...", "sha256": "...", "tag_filter": "v1\\.", "recipe": "recipes/repo.json"}
//	  }
//	}
//
// Saved files use 2-space indentation with keys sorted at every level.
// Unknown keys survive a load/save cycle, whether they sit at the top level,
// in "meta" or in a package record.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"
	"time"

	"github.com/iancoleman/orderedmap"

	"github.com/ajxudir/tagtrack/pkg/fileio"
	"github.com/ajxudir/tagtrack/pkg/jsonfmt"
)

// DateLayout is the format of meta.date: ISO 8601 with microseconds and a
// numeric UTC offset.
const DateLayout = "2006-01-02T15:04:05.000000-07:00"

const (
	keyMeta     = "meta"
	keyVersions = "versions"

	keyDate      = "date"
	keyVersion   = "version"
	keySHA256    = "sha256"
	keyTagFilter = "tag_filter"
	keyRecipe    = "recipe"
)

var readFileFunc = os.ReadFile

// Meta holds run metadata.
type Meta struct {
	Date string `json:"date,omitempty"`

	extra map[string]any
}

// Record is the tracked state of one package.
//
// Fields:
//   - Version: Last accepted version, a branch name ("main") or a commit pin ("#sha")
//   - Date: Author date of the commit the version points to
//   - SHA256: Digest of the release archive
//   - TagFilter: Optional pattern restricting candidate tags
//   - Recipe: Optional path of a recipe file mirroring Version
type Record struct {
	Version   string `json:"version"`
	Date      string `json:"date,omitempty"`
	SHA256    string `json:"sha256,omitempty"`
	TagFilter string `json:"tag_filter,omitempty"`
	Recipe    string `json:"recipe,omitempty"`

	extra map[string]any
}

// Registry is the in-memory versions file.
type Registry struct {
	Meta     Meta
	Versions map[string]*Record

	extra map[string]any
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{Versions: make(map[string]*Record)}
}

// Names returns the package identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Versions))
	for name := range r.Versions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the record of name, if tracked.
func (r *Registry) Get(name string) (*Record, bool) {
	rec, ok := r.Versions[name]
	return rec, ok
}

// Set tracks rec under name, replacing any previous record.
func (r *Registry) Set(name string, rec *Record) {
	if r.Versions == nil {
		r.Versions = make(map[string]*Record)
	}
	r.Versions[name] = rec
}

// Touch stamps meta.date with now in UTC.
func (r *Registry) Touch(now time.Time) {
	r.Meta.Date = now.UTC().Format(DateLayout)
}

// Load reads a versions file.
//
// It performs the following operations:
//   - Reads and decodes the file as a JSON object
//   - Decodes "meta" and "versions" into typed fields
//   - Keeps unknown keys at every level for Save
//
// Parameters:
//   - path: Path of the versions file
//
// Returns:
//   - *Registry: The decoded registry; Versions is never nil
//   - error: When the file cannot be read or is not a valid versions file
func Load(path string) (*Registry, error) {
	content, err := readFileFunc(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %s: %w", path, err)
	}
	return Parse(content, path)
}

// Parse decodes versions file content. source names the content in errors.
func Parse(content []byte, source string) (*Registry, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", source, err)
	}

	reg := New()
	if meta, ok := raw[keyMeta]; ok {
		if err := decodeObject(meta, &reg.Meta, &reg.Meta.extra, keyDate); err != nil {
			return nil, fmt.Errorf("failed to parse registry %s: meta: %w", source, err)
		}
	}
	if versions, ok := raw[keyVersions]; ok {
		var records map[string]json.RawMessage
		if err := json.Unmarshal(versions, &records); err != nil {
			return nil, fmt.Errorf("failed to parse registry %s: versions: %w", source, err)
		}
		for name, value := range records {
			if string(value) == "null" {
				return nil, fmt.Errorf("failed to parse registry %s: package %s has no record", source, name)
			}
			rec := &Record{}
			err := decodeObject(value, rec, &rec.extra, keyVersion, keyDate, keySHA256, keyTagFilter, keyRecipe)
			if err != nil {
				return nil, fmt.Errorf("failed to parse registry %s: versions: %s: %w", source, name, err)
			}
			reg.Versions[name] = rec
		}
	}

	extra, err := decodeExtra(raw, keyMeta, keyVersions)
	if err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", source, err)
	}
	reg.extra = extra

	return reg, nil
}

// decodeObject decodes value into typed and stores the keys not listed in
// known into extra.
func decodeObject(value json.RawMessage, typed any, extra *map[string]any, known ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(value, &fields); err != nil {
		return err
	}
	if err := json.Unmarshal(value, typed); err != nil {
		return err
	}
	rest, err := decodeExtra(fields, known...)
	if err != nil {
		return err
	}
	*extra = rest
	return nil
}

// decodeExtra decodes every field except the known ones. Objects keep their
// key order through orderedmap; other values decode as plain JSON values.
func decodeExtra(fields map[string]json.RawMessage, known ...string) (map[string]any, error) {
	var extra map[string]any
	for key, value := range fields {
		if slices.Contains(known, key) {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		decoded := orderedmap.New()
		if err := json.Unmarshal(value, decoded); err == nil {
			extra[key] = decoded
			continue
		}
		var plain any
		if err := json.Unmarshal(value, &plain); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		extra[key] = plain
	}
	return extra, nil
}

// Save writes the registry to path, keeping the mode of an existing file.
func Save(path string, reg *Registry) error {
	content, err := reg.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}
	if err := fileio.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write registry %s: %w", path, err)
	}
	return nil
}

// Marshal renders the registry with 2-space indentation and sorted keys.
func (r *Registry) Marshal() ([]byte, error) {
	top := withExtra(r.extra)

	meta := withExtra(r.Meta.extra)
	if r.Meta.Date != "" {
		meta.Set(keyDate, r.Meta.Date)
	}
	top.Set(keyMeta, meta)

	versions := orderedmap.New()
	for name, rec := range r.Versions {
		versions.Set(name, recordMap(rec))
	}
	top.Set(keyVersions, versions)

	return jsonfmt.MarshalSorted(top)
}

func withExtra(extra map[string]any) *orderedmap.OrderedMap {
	m := orderedmap.New()
	for key, value := range extra {
		m.Set(key, value)
	}
	return m
}

func recordMap(rec *Record) *orderedmap.OrderedMap {
	m := withExtra(rec.extra)
	m.Set(keyVersion, rec.Version)
	for key, value := range map[string]string{
		keyDate:      rec.Date,
		keySHA256:    rec.SHA256,
		keyTagFilter: rec.TagFilter,
		keyRecipe:    rec.Recipe,
	} {
		if value != "" {
			m.Set(key, value)
		}
	}
	return m
}
