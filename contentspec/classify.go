package contentspec

import (
	"regexp"
	"strconv"
	"strings"
)

// A RelationshipType is the kind of a relationship or of a relationship-like
// declaration found in an attribute list.
type RelationshipType uint32

const (
	// NoRelationship means a plain option item.
	NoRelationship RelationshipType = iota
	ReferTo
	Prerequisite
	LinkList
	Next
	Previous
	Target
	ExternalTarget
	ExternalSpec
)

// String returns a string representation of the RelationshipType.
func (t RelationshipType) String() string {
	switch t {
	case NoRelationship:
		return "none"
	case ReferTo:
		return "refer-to"
	case Prerequisite:
		return "prerequisite"
	case LinkList:
		return "link-list"
	case Next:
		return "next"
	case Previous:
		return "previous"
	case Target:
		return "target"
	case ExternalTarget:
		return "external-target"
	case ExternalSpec:
		return "external-spec"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

// keyword reports whether the kind is introduced by a "KEYWORD:" prefix
// followed by a list of references.
func (t RelationshipType) keyword() bool {
	switch t {
	case ReferTo, Prerequisite, LinkList, Next, Previous:
		return true
	}
	return false
}

// The classification table. It is ordered and the first match wins.
var relationshipPatterns = []struct {
	kind RelationshipType
	re   *regexp.Regexp
}{
	{ReferTo, regexp.MustCompile(`(?i)^(R|RELATED-TO|REFER-TO)\s*:`)},
	{Prerequisite, regexp.MustCompile(`(?i)^(P|PREREQUISITE)\s*:`)},
	{LinkList, regexp.MustCompile(`(?i)^(L|LINK-LIST)\s*:`)},
	{Next, regexp.MustCompile(`(?i)^NEXT\s*:`)},
	{Previous, regexp.MustCompile(`(?i)^PREV(IOUS)?\s*:`)},
	{Target, regexp.MustCompile(`^T([0-9]+|-[A-Za-z0-9_\-]+)$`)},
	{ExternalTarget, regexp.MustCompile(`^ET([0-9]+|-[A-Za-z0-9_\-]+)$`)},
	{ExternalSpec, regexp.MustCompile(`^CS[0-9]+(\s*:\s*[0-9]+)?$`)},
}

// Classify decides if the text of an attribute item is a relationship
// declaration or a plain option.
func Classify(text string) RelationshipType {
	text = strings.TrimSpace(text)
	for _, p := range relationshipPatterns {
		if p.re.MatchString(text) {
			return p.kind
		}
	}
	return NoRelationship
}

// keywordRemainder returns what follows the "KEYWORD:" prefix of an item.
func keywordRemainder(item string) string {
	i := strings.IndexByte(item, ':')
	if i == -1 {
		return ""
	}
	return strings.TrimSpace(item[i+1:])
}

var (
	reNewTopicID       = regexp.MustCompile(`^N([0-9][A-Za-z0-9_\-]*|[\-_][A-Za-z0-9_\-]+)?$`)
	reClonedTopicID    = regexp.MustCompile(`^C[0-9]+$`)
	reDuplicateTopicID = regexp.MustCompile(`^X[0-9]+$`)
	reClonedDupTopicID = regexp.MustCompile(`^XC[0-9]+$`)
	reExistingTopicID  = regexp.MustCompile(`^[0-9]+$`)

	reUniqueID  = regexp.MustCompile(`^[0-9]+-(N|C[0-9]+|X[0-9]+|XC[0-9]+|[0-9]+)$`)
	reTargetID  = regexp.MustCompile(`^T([0-9]+|-[A-Za-z0-9_\-]+)$`)
	reRevision  = regexp.MustCompile(`(?i)^rev\s*:\s*([0-9]+)$`)
	reTopicHead = regexp.MustCompile(`(?s)^\s*([A-Za-z0-9_\-]+)\s*:\s*(.*)$`)
)

// classifyTopicID returns the kind of topic denoted by id.
func classifyTopicID(id string) (TopicKind, bool) {
	switch {
	case reNewTopicID.MatchString(id):
		return NewTopic, true
	case reClonedTopicID.MatchString(id):
		return ClonedTopic, true
	case reClonedDupTopicID.MatchString(id):
		return ClonedDuplicateTopic, true
	case reDuplicateTopicID.MatchString(id):
		return DuplicateTopic, true
	case reExistingTopicID.MatchString(id):
		return ExistingTopic, true
	}
	return InvalidTopic, false
}

// isTopicID reports whether id has one of the topic ID shapes.
func isTopicID(id string) bool {
	_, ok := classifyTopicID(id)
	return ok
}

// isUniqueNewTopicID reports whether id is a new topic ID that is unique by
// itself. A bare "N" is not.
func isUniqueNewTopicID(id string) bool {
	return id != "N" && reNewTopicID.MatchString(id)
}

// parseRevision returns the revision number in an item like "rev: 12".
func parseRevision(item string) (int, bool) {
	m := reRevision.FindStringSubmatch(strings.TrimSpace(item))
	if m == nil {
		return 0, false
	}
	rev, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return rev, true
}
