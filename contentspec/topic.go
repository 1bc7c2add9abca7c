package contentspec

import (
	"fmt"
	"strings"
)

// parseTopicLine parses a topic reference. Three forms are accepted, tried
// in this order:
//
//	Title [ID, options]
//	ID: Title [options]
//	ID [options]
func (p *Parser) parseTopicLine(stmt statement) {
	head, sets, trailing := splitStatement(stmt.Text)
	if trailing != "" {
		p.report(stmt, Error, msgTextAfterSet, trailing)
		return
	}

	var items [][]string
	for _, set := range sets {
		items = append(items, SplitItems(set.Content))
	}

	var id, title string
	m := reTopicHead.FindStringSubmatch(head)

	switch {
	case len(items) > 0 && len(items[0]) > 0 && isTopicID(items[0][0]):
		id, title = items[0][0], head
		items[0] = items[0][1:]
	case m != nil && isTopicID(m[1]):
		id, title = m[1], m[2]
	case isTopicID(strings.TrimSpace(head)):
		id = strings.TrimSpace(head)
	case m != nil:
		p.report(stmt, Error, msgInvalidTopicID, m[1])
		return
	case len(items) > 0 && len(items[0]) > 0:
		p.report(stmt, Error, msgInvalidTopicID, items[0][0])
		return
	default:
		p.report(stmt, Error, msgMissingTopicID)
		return
	}

	title = unescape(strings.TrimSpace(title))
	t := p.newTopic(stmt, id, title, items, p.current)
	if t != nil {
		p.current.appendChild(t)
	}
}

// newTopic creates and registers a topic. optionSets are the items of each
// attribute list, already without the topic ID.
func (p *Parser) newTopic(stmt statement, id string, title string, optionSets [][]string, parent *Level) *SpecTopic {
	kind, _ := classifyTopicID(id)

	t := &SpecTopic{
		ID:     id,
		Kind:   kind,
		Title:  title,
		Line:   stmt.Line,
		Parent: parent.Index,
		doc:    p.doc,
	}

	t.UniqueID = fmt.Sprintf("%d-%s", stmt.Line, id)
	if isUniqueNewTopicID(id) {
		t.UniqueID = id
	}
	if prev, dup := p.doc.UniqueIDs[t.UniqueID]; dup {
		p.report(stmt, Error, msgDuplicateTopicID, id, prev.Line)
		return nil
	}

	var a attributes
	for _, items := range optionSets {
		p.parseAttributes(stmt, items, &a)
	}

	if a.hasRevision {
		if kind == ExistingTopic {
			t.Revision = a.revision
			t.HasRevision = true
		} else {
			p.report(stmt, Error, msgRevisionNotAllowed)
		}
	}

	if a.hasOptions {
		switch {
		case kind == DuplicateTopic || kind == ClonedDuplicateTopic:
			p.report(stmt, Warning, msgOptionsIgnored, kind)
		case t.HasRevision:
			p.report(stmt, Warning, msgOptionsIgnored, "revisioned")
		default:
			t.Options = a.options
			plain := a.plain
			if kind == NewTopic && len(plain) > 0 {
				t.TopicType = plain[0]
				plain = plain[1:]
			}
			t.Tags = plain
		}
	}

	t.ExternalTargetID = a.externalTarget
	t.ExternalSpec = a.externalSpec

	if a.targetID != "" {
		p.registerTarget(stmt, a.targetID, t)
	}

	p.doc.Topics = append(p.doc.Topics, t)
	p.doc.UniqueIDs[t.UniqueID] = t

	reported := make(map[RelationshipType]bool)
	for _, pr := range a.relationships {
		if pr.kind == Next || pr.kind == Previous {
			if !reported[pr.kind] {
				p.report(stmt, Error, msgNextPrevAuthored, pr.kind)
				reported[pr.kind] = true
			}
			continue
		}
		p.addRelationship(t, pr)
	}

	return t
}

func (p *Parser) addRelationship(t *SpecTopic, pr pendingRelationship) {
	r := newRelationship(pr.kind, t, pr.ref, pr.title)
	t.Relationships = append(t.Relationships, r)
	p.doc.Relationships = append(p.doc.Relationships, r)
}
