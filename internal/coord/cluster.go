package coord

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// ClusterEnd returns the character index just past the grapheme cluster that
// starts at character index idx. At or beyond the end of line it returns the
// character count of line, so a selection whose end mark sits on the last
// character still yields a bound one past it.
func ClusterEnd(line string, idx int) int {
	count := utf8.RuneCountInString(line)
	if idx < 0 {
		idx = 0
	}
	if idx >= count {
		return count
	}

	start := UTF8.Offset(line, idx)
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(line[start:], -1)
	n := utf8.RuneCountInString(cluster)
	if n == 0 {
		n = 1
	}
	return idx + n
}
