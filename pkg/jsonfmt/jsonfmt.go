// Package jsonfmt encodes JSON documents the way tagtrack writes its files:
// 2-space indentation, no HTML escaping and no trailing newline.
package jsonfmt

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/iancoleman/orderedmap"
)

// Marshal encodes data with 2-space indentation and HTML escaping disabled,
// including inside nested ordered maps.
//
// Parameters:
//   - data: The value to encode, typically an *orderedmap.OrderedMap
//
// Returns:
//   - []byte: The encoded document without a trailing newline
//   - error: When encoding fails
func Marshal(data any) ([]byte, error) {
	data = normalize(data, false)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalSorted is Marshal with the keys of every ordered map sorted
// alphabetically.
func MarshalSorted(data any) ([]byte, error) {
	return Marshal(normalize(data, true))
}

// normalize disables HTML escaping on every ordered map reachable from val
// and optionally sorts their keys. Value maps are replaced by pointers so
// the changes stick.
func normalize(val any, sortKeys bool) any {
	switch v := val.(type) {
	case *orderedmap.OrderedMap:
		v.SetEscapeHTML(false)
		if sortKeys {
			v.SortKeys(sort.Strings)
		}
		for _, key := range v.Keys() {
			item, _ := v.Get(key)
			v.Set(key, normalize(item, sortKeys))
		}
		return v
	case orderedmap.OrderedMap:
		copied := v
		return normalize(&copied, sortKeys)
	case []any:
		for i, item := range v {
			v[i] = normalize(item, sortKeys)
		}
		return v
	default:
		return val
	}
}
