package contentspec

import (
	"regexp"
	"strconv"
	"strings"
)

var reMetadataKey = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9 ._\-]*$`)

// Metadata keys with a special meaning
const (
	keySpaces          = "spaces"
	keyFiles           = "files"
	keyAdditionalFiles = "additional files"
)

// topicMetadata are the keys whose bracketed value can be a topic reference.
var topicMetadata = map[string]bool{
	"abstract":         true,
	"legal notice":     true,
	"revision history": true,
	"author group":     true,
	"feedback":         true,
}

// isMetadataLine reports whether text has the "key = value" shape, looking
// only at the text before the first attribute list.
func isMetadataLine(text string) bool {
	head := text
	if set, found := FindVariableSet(text, startSet, endSet, 0); found {
		head = text[:set.Start]
	}

	i := strings.IndexByte(head, '=')
	if i <= 0 || isEscaped(head, i) {
		return false
	}
	return reMetadataKey.MatchString(strings.TrimSpace(head[:i]))
}

// parseMetadata parses a "key = value" line. A value that starts with an
// opening bracket and does not close on the same line continues on the
// following lines, which are taken verbatim.
func (p *Parser) parseMetadata(stmt statement) {
	text := stripComment(stmt.Text)
	i := strings.IndexByte(text, '=')
	key := strings.TrimSpace(text[:i])
	value := strings.TrimSpace(text[i+1:])

	bracketed := len(value) > 0 && value[0] == startSet
	if bracketed {
		var ok bool
		value, ok = p.readMultilineValue(&stmt, value)
		if !ok {
			return
		}
	}

	lower := strings.ToLower(key)
	if prev, dup := p.metadataKeys[lower]; dup {
		p.report(stmt, Error, msgDuplicateMetadata, key, prev)
		return
	}

	kv := &KeyValue{Key: key, Value: value, Line: stmt.Line}

	if bracketed {
		set, _ := FindVariableSet(value, startSet, endSet, 0)
		if trailing := strings.TrimSpace(value[set.End+1:]); trailing != "" {
			p.report(stmt, Error, msgTextAfterSet, trailing)
			return
		}
		kv.Value = strings.TrimSpace(set.Content)
	}

	switch {
	case lower == keySpaces:
		n, err := strconv.Atoi(kv.Value)
		if err != nil || n < 1 {
			p.report(stmt, Error, msgInvalidSpaces, kv.Value)
			return
		}
		p.spaces = n

	case lower == keyFiles || lower == keyAdditionalFiles:
		kv.Files = p.parseAdditionalFiles(stmt, kv.Value)

	case bracketed && topicMetadata[lower]:
		items := SplitItems(kv.Value)
		if len(items) > 0 && isTopicID(items[0]) {
			kv.Topic = p.newTopic(stmt, items[0], key, [][]string{items[1:]}, p.doc.Base())
		}

	default:
		if !bracketed {
			kv.Value = unescape(kv.Value)
		}
	}

	p.metadataKeys[lower] = stmt.Line
	p.doc.Header = append(p.doc.Header, kv)
}

// readMultilineValue completes a bracketed value. The returned value runs
// from the opening bracket to the end of the line holding the closing one.
// Sets can be nested only in values written in a single line.
func (p *Parser) readMultilineValue(stmt *statement, value string) (string, bool) {
	if set, _ := FindVariableSet(value, startSet, endSet, 0); set.Terminated() {
		return value, true
	}

	end, nested := scanMultilineValue(value)
	if nested {
		p.report(*stmt, Error, msgNestedMultiline)
		return "", false
	}

	for end == -1 {
		next, ok := p.lines.Poll()
		if !ok {
			p.report(*stmt, Error, msgUnterminatedSet)
			return "", false
		}
		value += "\n" + next.Content
		stmt.Raw += "\n" + next.Content

		end, nested = scanMultilineValue(value)
		if nested {
			p.report(*stmt, Error, msgNestedMultiline)
			return "", false
		}
	}

	return value, true
}

// scanMultilineValue looks for the bracket closing the one at the start of s.
// It returns -1 if there is none yet, and nested is true when another
// bracket is opened before the first one is closed.
func scanMultilineValue(s string) (end int, nested bool) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case startSet:
			if !isEscaped(s, i) {
				return -1, true
			}
		case endSet:
			if !isEscaped(s, i) {
				return i, false
			}
		}
	}
	return -1, false
}

// parseAdditionalFiles parses entries written "id", "Title [id]" or
// "Title [id, rev: n]".
func (p *Parser) parseAdditionalFiles(stmt statement, value string) []*AdditionalFile {
	var files []*AdditionalFile

	for _, entry := range SplitItems(value) {
		f := &AdditionalFile{Line: stmt.Line}

		parts := []string{entry}
		if title, ref, ok := splitTitledReference(entry); ok {
			f.Title = title
			parts = SplitItems(ref)
		}

		if len(parts) == 0 || len(parts) > 2 {
			p.report(stmt, Error, msgInvalidFileEntry, entry)
			continue
		}

		id, err := strconv.Atoi(parts[0])
		if err != nil || id < 1 {
			p.report(stmt, Error, msgInvalidFileEntry, entry)
			continue
		}
		f.ID = id

		if len(parts) == 2 {
			rev, ok := parseRevision(parts[1])
			if !ok {
				p.report(stmt, Error, msgInvalidFileEntry, entry)
				continue
			}
			f.Revision = rev
			f.HasRevision = true
		}

		files = append(files, f)
	}

	return files
}
