package contentspec

import (
	"regexp"
	"strings"
)

// pendingRelationship is a reference found in an attribute list, before the
// topic that owns it is known.
type pendingRelationship struct {
	kind  RelationshipType
	ref   string
	title string
}

// attributes accumulates what the attribute lists of one statement declare.
type attributes struct {
	options Options

	// plain holds the plain tags in order. For a new topic the first one is
	// the topic type.
	plain []string

	relationships []pendingRelationship

	targetID       string
	externalTarget string
	externalSpec   string

	revision    int
	hasRevision bool

	// hasOptions is true if any tag, category or key=value item was found
	hasOptions bool

	attrKeys map[string]bool
}

var reAttributeKey = regexp.MustCompile(`^[A-Za-z][A-Za-z ]*$`)

// parseAttributes processes the items of one attribute list.
//
// A keyword relationship item like "R: T1" opens a list of references that
// takes every following item until another keyword relationship is found.
// A target item outside such a list declares the target of the statement.
func (p *Parser) parseAttributes(stmt statement, items []string, a *attributes) {
	open := NoRelationship

	// Number of references listed for each kind, valid or not
	seen := make(map[RelationshipType]int)
	var order []RelationshipType

	for _, item := range items {
		kind := Classify(item)

		if kind.keyword() {
			if _, dup := seen[kind]; dup {
				p.report(stmt, Error, msgDuplicateRelKind, kind)
			} else {
				seen[kind] = 0
				order = append(order, kind)
			}
			open = kind
			if rest := keywordRemainder(item); rest != "" {
				p.addReference(stmt, a, kind, rest)
				seen[kind]++
			}
			continue
		}

		if open != NoRelationship {
			p.addReference(stmt, a, open, item)
			seen[open]++
			continue
		}

		switch kind {
		case Target:
			if a.targetID != "" {
				p.report(stmt, Error, msgTwoTargets)
				continue
			}
			a.targetID = item
		case ExternalTarget:
			if a.externalTarget != "" {
				p.report(stmt, Error, msgExternalTwice, kind)
				continue
			}
			a.externalTarget = item
		case ExternalSpec:
			if a.externalSpec != "" {
				p.report(stmt, Error, msgExternalTwice, kind)
				continue
			}
			a.externalSpec = strings.Join(strings.Fields(item), "")
		default:
			p.parseOptionItem(stmt, item, a)
		}
	}

	for _, kind := range order {
		if seen[kind] == 0 {
			p.report(stmt, Error, msgEmptyRelationship, kind)
		}
	}
}

// addReference validates and records one reference of a relationship list.
func (p *Parser) addReference(stmt statement, a *attributes, kind RelationshipType, item string) {
	title, ref := "", item
	if t, r, ok := splitTitledReference(item); ok {
		title, ref = t, r
	}
	ref = strings.TrimSpace(ref)

	if !isReference(ref) {
		p.report(stmt, Error, msgInvalidReference, item)
		return
	}

	a.relationships = append(a.relationships, pendingRelationship{kind: kind, ref: ref, title: title})
}

// isReference reports whether ref can name the target of a relationship.
func isReference(ref string) bool {
	return reTargetID.MatchString(ref) || reUniqueID.MatchString(ref) || isTopicID(ref)
}

// parseOptionItem handles an item that is not a relationship: a revision,
// a key = value attribute, a category, a tag removal or a plain tag.
func (p *Parser) parseOptionItem(stmt statement, item string, a *attributes) {
	if rev, ok := parseRevision(item); ok {
		if a.hasRevision {
			p.report(stmt, Error, msgDuplicateAttribute, "rev")
			return
		}
		a.revision = rev
		a.hasRevision = true
		return
	}

	if key, value, ok := splitKeyValue(item); ok {
		p.parseKeyValueItem(stmt, key, value, a)
		return
	}

	if name, tags, ok := splitCategory(item); ok {
		if len(tags) == 0 {
			p.report(stmt, Error, msgEmptyCategory, name)
			return
		}
		a.options.addCategoryTags(name, tags...)
		a.hasOptions = true
		return
	}

	if len(item) > 1 && item[0] == '-' {
		a.options.RemoveTags = append(a.options.RemoveTags, unescape(strings.TrimSpace(item[1:])))
		a.hasOptions = true
		return
	}

	a.plain = append(a.plain, unescape(item))
	a.hasOptions = true
}

func (p *Parser) parseKeyValueItem(stmt statement, key string, value string, a *attributes) {
	if !reAttributeKey.MatchString(key) {
		p.report(stmt, Error, msgUnknownAttribute, key)
		return
	}
	lower := strings.ToLower(key)

	if value == "" {
		p.report(stmt, Error, msgEmptyAttribute, key)
		return
	}

	if lower != "url" {
		if a.attrKeys == nil {
			a.attrKeys = make(map[string]bool)
		}
		if a.attrKeys[lower] {
			p.report(stmt, Error, msgDuplicateAttribute, key)
			return
		}
		a.attrKeys[lower] = true
	}

	switch lower {
	case "url":
		a.options.SourceURLs = append(a.options.SourceURLs, value)
	case "description":
		a.options.Description = value
	case "writer":
		a.options.Writer = value
	case "condition":
		a.options.Condition = value
	default:
		p.report(stmt, Error, msgUnknownAttribute, key)
		return
	}
	a.hasOptions = true
}

// indexStructural returns the index of the first c in s that is not escaped
// and not nested in brackets or parenthesis, or -1.
func indexStructural(s string, c byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case startSet, startGroup:
			if !isEscaped(s, i) {
				depth++
			}
		case endSet, endGroup:
			if !isEscaped(s, i) && depth > 0 {
				depth--
			}
		case c:
			if depth == 0 && !isEscaped(s, i) {
				return i
			}
		}
	}
	return -1
}

// splitKeyValue splits "key = value" at the first structural '='.
func splitKeyValue(item string) (key string, value string, ok bool) {
	i := indexStructural(item, '=')
	if i <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(item[:i]), unescape(strings.TrimSpace(item[i+1:])), true
}

// splitCategory splits "category: tag", "category: (a, b)" and
// "category: [a, b]".
func splitCategory(item string) (name string, tags []string, ok bool) {
	i := indexStructural(item, ':')
	if i <= 0 {
		return "", nil, false
	}
	name = unescape(strings.TrimSpace(item[:i]))
	rest := strings.TrimSpace(item[i+1:])

	if n := len(rest); n >= 2 &&
		((rest[0] == startGroup && rest[n-1] == endGroup) || (rest[0] == startSet && rest[n-1] == endSet)) {
		rest = rest[1 : n-1]
	}

	for _, tag := range SplitItems(rest) {
		tags = append(tags, unescape(tag))
	}
	return name, tags, true
}
