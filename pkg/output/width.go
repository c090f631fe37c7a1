package output

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DisplayWidth returns the terminal column width of val, counting wide
// runes such as CJK characters and emoji as two columns.
func DisplayWidth(val string) int {
	return runewidth.StringWidth(val)
}

// ToWidth right-pads val with spaces to width display columns.
// Values already at or beyond width are returned unchanged.
func ToWidth(val string, width int) string {
	if width <= 0 {
		return val
	}
	current := DisplayWidth(val)
	if current >= width {
		return val
	}
	return val + strings.Repeat(" ", width-current)
}
