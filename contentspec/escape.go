package contentspec

import (
	"strings"

	"github.com/hesusruiz/contentspec/sliceedit"
)

// escapable are the characters that lose their structural meaning when
// preceded by a backslash.
const escapable = `[](),=:#\`

// unescape resolves the escape sequences in s, removing the backslash
// in front of every escaped structural character.
func unescape(s string) string {
	if strings.IndexByte(s, escapeChar) == -1 {
		return s
	}

	ed := sliceedit.NewBufferString(s)
	for i := 0; i < len(s)-1; i++ {
		if s[i] != escapeChar {
			continue
		}
		if strings.IndexByte(escapable, s[i+1]) == -1 {
			continue
		}
		ed.Delete(i, i+1)

		// Skip the escaped character, which may be a backslash itself
		i++
	}

	if !ed.Modified() {
		return s
	}
	return ed.String()
}
