package version

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Components is the fixed number of numeric parts held by a Key.
const Components = 5

const delimiter = "."

// extraDelimiters are rewritten to delimiter before splitting.
var extraDelimiters = strings.NewReplacer("_", delimiter, "-", delimiter, "+", delimiter)

// Key is the ordered numeric form of a version string: major, minor, patch,
// tweak and one extra component. The zero value is the lowest possible key.
type Key [Components]int

// IsZero reports whether every component is 0.
func (k Key) IsZero() bool {
	return k == Key{}
}

// String renders all five components joined by dots.
func (k Key) String() string {
	return fmt.Sprintf("%d.%d.%d.%d.%d", k[0], k[1], k[2], k[3], k[4])
}

// Trim strips everything before the first digit and surrounding whitespace.
//
// It performs the following operations:
//   - Returns the input unchanged when it is empty
//   - Drops the leading run of non-digit characters (e.g. "v", "release-")
//   - Trims whitespace from the remainder
//
// Parameters:
//   - raw: The version or tag name as found upstream
//
// Returns:
//   - string: The numeric-leading remainder, or "" when raw holds no digit
func Trim(raw string) string {
	if raw == "" {
		return raw
	}

	idx := strings.IndexFunc(raw, isDigit)
	if idx < 0 {
		return ""
	}

	return strings.TrimSpace(raw[idx:])
}

// Parse converts a raw version string into a Key.
//
// It performs the following operations:
//   - Trims the non-numeric prefix via Trim
//   - Rewrites "_", "-" and "+" to "." in the remainder
//   - Splits on "." and parses the first five parts as integers
//
// Parsing is lossy on purpose: a part that is not a non-negative integer
// (such as "beta" or "rc1") becomes 0, missing parts become 0, parts
// past the fifth are dropped, and oversized numbers saturate at math.MaxInt.
// Parse never fails.
//
// Parameters:
//   - raw: The version string to parse (e.g. "v1.2.3", "1_2", "2.0.0-rc.1")
//
// Returns:
//   - Key: The parsed key; the zero key when nothing numeric is found
func Parse(raw string) Key {
	var key Key

	s := Trim(raw)
	if s == "" {
		return key
	}

	parts := strings.Split(extraDelimiters.Replace(s), delimiter)
	for i := 0; i < Components && i < len(parts); i++ {
		key[i] = component(parts[i])
	}

	return key
}

// component parses one dot-separated part, mapping anything invalid to 0.
// A number too large for an int saturates at math.MaxInt so that it still
// ranks above every smaller value.
func component(part string) int {
	n, err := strconv.Atoi(strings.TrimSpace(part))
	switch {
	case errors.Is(err, strconv.ErrRange) && n > 0:
		return math.MaxInt
	case err != nil || n < 0:
		return 0
	}
	return n
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
