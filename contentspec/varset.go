package contentspec

import (
	"strings"
)

const (
	startSet   = '['
	endSet     = ']'
	startGroup = '('
	endGroup   = ')'
	escapeChar = '\\'
	itemSep    = ','
	commentTag = '#'
)

// VariableSet is a delimiter-bounded attribute list found in a statement.
// End is -1 when the closing delimiter has not been found yet, in which case
// Content runs to the end of the string.
type VariableSet struct {
	Start   int
	End     int
	Content string
}

// Terminated reports whether the closing delimiter was found.
func (v VariableSet) Terminated() bool {
	return v.End >= 0
}

// isEscaped reports whether the byte at i is preceded by an odd number of backslashes.
func isEscaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == escapeChar; j-- {
		n++
	}
	return n%2 == 1
}

// FindVariableSet returns the first set opened at or after offset from.
// Nested sets of the same kind are tracked by depth, so the returned End is the
// delimiter that balances Start. Escaped delimiters are not structural.
// The boolean is false when there is no opening delimiter at all.
func FindVariableSet(s string, open, close byte, from int) (VariableSet, bool) {
	start := -1
	depth := 0

	for i := from; i < len(s); i++ {
		c := s[i]
		if c != open && c != close {
			continue
		}
		if isEscaped(s, i) {
			continue
		}

		if c == open {
			if depth == 0 {
				start = i
			}
			depth++
			continue
		}

		// A closing delimiter with no opening one is just text
		if depth == 0 {
			continue
		}
		depth--
		if depth == 0 {
			return VariableSet{Start: start, End: i, Content: s[start+1 : i]}, true
		}
	}

	if start == -1 {
		return VariableSet{Start: -1, End: -1}, false
	}

	return VariableSet{Start: start, End: -1, Content: s[start+1:]}, true
}

// FindVariableSets returns every top-level set in s, in order.
// If the last one is not terminated it is returned with End == -1 and the
// caller is expected to append the next physical line and try again.
func FindVariableSets(s string, open, close byte) []VariableSet {
	var sets []VariableSet
	from := 0
	for {
		set, found := FindVariableSet(s, open, close, from)
		if !found {
			return sets
		}
		sets = append(sets, set)
		if !set.Terminated() {
			return sets
		}
		from = set.End + 1
	}
}

// hasUnterminatedSet reports whether s ends inside a bracket set.
func hasUnterminatedSet(s string) bool {
	sets := FindVariableSets(s, startSet, endSet)
	return len(sets) > 0 && !sets[len(sets)-1].Terminated()
}

// SplitItems splits the content of a set at the commas that are not nested
// inside brackets or parenthesis and are not escaped. Items are trimmed and
// empty items are dropped.
func SplitItems(s string) []string {
	var items []string
	depth := 0
	last := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case startSet, startGroup:
			if !isEscaped(s, i) {
				depth++
			}
		case endSet, endGroup:
			if !isEscaped(s, i) && depth > 0 {
				depth--
			}
		case itemSep:
			if depth == 0 && !isEscaped(s, i) {
				items = appendItem(items, s[last:i])
				last = i + 1
			}
		}
	}
	return appendItem(items, s[last:])
}

func appendItem(items []string, item string) []string {
	item = strings.TrimSpace(item)
	if len(item) == 0 {
		return items
	}
	return append(items, item)
}

// stripComment removes a trailing comment: a '#' preceded by whitespace,
// outside of any set and not escaped.
func stripComment(s string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case startSet:
			if !isEscaped(s, i) {
				depth++
			}
		case endSet:
			if !isEscaped(s, i) && depth > 0 {
				depth--
			}
		case commentTag:
			if depth == 0 && i > 0 && (s[i-1] == ' ' || s[i-1] == '\t') && !isEscaped(s, i) {
				return strings.TrimRight(s[:i], " \t")
			}
		}
	}
	return s
}

// splitStatement separates the leading text of a statement from its sets.
// Any non-blank text between or after the sets is returned in trailing.
func splitStatement(s string) (head string, sets []VariableSet, trailing string) {
	sets = FindVariableSets(s, startSet, endSet)
	if len(sets) == 0 {
		return s, nil, ""
	}

	head = s[:sets[0].Start]

	var rest strings.Builder
	for i, set := range sets {
		if !set.Terminated() {
			break
		}
		next := len(s)
		if i+1 < len(sets) {
			next = sets[i+1].Start
		}
		rest.WriteString(strings.TrimSpace(s[set.End+1 : next]))
	}

	return head, sets, rest.String()
}

// splitTitledReference splits "Some title [ref]" into its title and reference.
// ok is false when the item does not end with a terminated set.
func splitTitledReference(item string) (title string, ref string, ok bool) {
	set, found := FindVariableSet(item, startSet, endSet, 0)
	if !found || !set.Terminated() || strings.TrimSpace(item[set.End+1:]) != "" {
		return "", "", false
	}
	return unescape(strings.TrimSpace(item[:set.Start])), strings.TrimSpace(set.Content), true
}
