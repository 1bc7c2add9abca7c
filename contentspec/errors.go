package contentspec

import (
	"errors"
	"fmt"
	"strconv"
)

// A Severity classifies a SyntaxError.
type Severity uint32

const (
	// Warning is reported but does not make the document invalid.
	Warning Severity = iota
	// Error is a recoverable line-level problem. Parsing continues.
	Error
	// Fatal aborts the parse of the whole document.
	Fatal
)

// String returns a string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	}
	return "Invalid(" + strconv.Itoa(int(s)) + ")"
}

// SyntaxError is a diagnostic attached to one line of the source.
// Text is the original line (or lines, for statements spanning several lines).
type SyntaxError struct {
	Filename string
	Line     int
	Text     string
	Severity Severity
	Msg      string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %s", e.Filename, e.Line, e.Severity, e.Msg)
}

// Unwrap makes fatal errors match ErrIndentation with errors.Is.
func (e *SyntaxError) Unwrap() error {
	if e.Severity == Fatal {
		return ErrIndentation
	}
	return nil
}

var ErrorNoContent = errors.New("no content")

// ErrIndentation is wrapped by every fatal indentation error.
var ErrIndentation = errors.New("invalid indentation")

// Messages reported by the parser. They are kept together so tests and
// callers can match on them.
const (
	msgIndentNotMultiple   = "indentation of %d spaces is not a multiple of %d"
	msgIndentTooDeep       = "indentation increased without entering a new container"
	msgDuplicateMetadata   = "metadata key %q was already defined on line %d"
	msgInvalidSpaces       = "invalid value for Spaces: %q"
	msgUnterminatedSet     = "missing closing bracket"
	msgNestedMultiline     = "opening bracket found before the previous one was closed"
	msgTextAfterSet        = "unexpected text after attribute list: %q"
	msgEmptyLevelTitle     = "%s has no title"
	msgInvalidTopicID      = "invalid topic ID %q"
	msgMissingTopicID      = "no topic ID found"
	msgDuplicateTopicID    = "topic ID %s is already used on line %d"
	msgDuplicateTarget     = "target %s is already defined on line %d"
	msgDuplicateRelKind    = "%s relationship declared twice in the same attribute list"
	msgNextPrevAuthored    = "%s relationships can not be declared, they are generated for processes"
	msgLevelRelationship   = "%s relationships can not be declared on a %s without exactly one front matter topic"
	msgTwoTargets          = "more than one target declared"
	msgUnknownAttribute    = "unknown attribute %q"
	msgDuplicateAttribute  = "attribute %q declared more than once"
	msgEmptyAttribute      = "attribute %q has no value"
	msgInvalidReference    = "invalid relationship reference %q"
	msgEmptyRelationship   = "%s relationship has no references"
	msgRevisionNotAllowed  = "revisions can only be used with existing topics"
	msgOptionsIgnored      = "options are ignored for %s topics"
	msgInvalidFileEntry    = "invalid additional file entry %q"
	msgEmptyCategory       = "category %q has no tags"
	msgExternalTwice       = "more than one %s declared"
	msgInvalidMetadataLine = "invalid metadata line"
)
