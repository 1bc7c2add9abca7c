package contentspec

import (
	"strings"
)

// parseLevel parses a "KEYWORD: Title [sets]" line. The new level becomes
// the current one even when the line has errors, so that its children are
// still attached to something sensible.
func (p *Parser) parseLevel(stmt statement, kind LevelType, rest string) {
	level := p.enterLevel(kind, stmt.Line)

	head, sets, trailing := splitStatement(rest)
	if trailing != "" {
		p.report(stmt, Error, msgTextAfterSet, trailing)
	}

	level.Title = unescape(strings.TrimSpace(head))
	if level.Title == "" {
		p.report(stmt, Error, msgEmptyLevelTitle, kind)
	}

	var a attributes
	for _, set := range sets {
		items := SplitItems(set.Content)
		if len(items) == 0 {
			continue
		}

		// A set starting with a topic ID is front matter
		if isTopicID(items[0]) {
			if t := p.newTopic(stmt, items[0], level.Title, [][]string{items[1:]}, level); t != nil {
				t.FrontMatter = true
				level.FrontMatter = append(level.FrontMatter, t)
			}
			continue
		}

		p.parseAttributes(stmt, items, &a)
	}

	level.Options = a.options
	level.Tags = a.plain

	if a.hasRevision {
		p.report(stmt, Error, msgRevisionNotAllowed)
	}
	if a.externalSpec != "" {
		p.report(stmt, Error, msgLevelRelationship, ExternalSpec, kind)
	}
	level.ExternalTargetID = a.externalTarget

	if a.targetID != "" {
		p.registerTarget(stmt, a.targetID, level)
	}

	p.attachLevelRelationships(stmt, level, a.relationships)
}

// enterLevel adds a new level to the current one and makes it current.
func (p *Parser) enterLevel(kind LevelType, line int) *Level {
	level := p.doc.newLevel(kind, p.current.Index, line)
	p.current.appendChild(level)
	p.current = level
	return level
}

// attachLevelRelationships gives the relationships declared on a level line
// to its front matter topic. Without exactly one front matter topic there is
// no owner, and the relationships are dropped.
func (p *Parser) attachLevelRelationships(stmt statement, level *Level, pending []pendingRelationship) {
	reported := make(map[RelationshipType]bool)

	for _, pr := range pending {
		if pr.kind == Next || pr.kind == Previous {
			if !reported[pr.kind] {
				p.report(stmt, Error, msgNextPrevAuthored, pr.kind)
				reported[pr.kind] = true
			}
			continue
		}

		if len(level.FrontMatter) != 1 {
			if !reported[pr.kind] {
				p.report(stmt, Error, msgLevelRelationship, pr.kind, level.Kind)
				reported[pr.kind] = true
			}
			continue
		}

		p.addRelationship(level.FrontMatter[0], pr)
	}
}

// registerTarget records the target ID of a level or a topic. A target ID
// can only be declared once in a document.
func (p *Parser) registerTarget(stmt statement, targetID string, n Node) bool {
	if prev, dup := p.doc.TargetNode(targetID); dup {
		p.report(stmt, Error, msgDuplicateTarget, targetID, prev.LineNumber())
		return false
	}

	switch v := n.(type) {
	case *Level:
		v.TargetID = targetID
		p.doc.TargetLevels[targetID] = v
	case *SpecTopic:
		v.TargetID = targetID
		p.doc.TargetTopics[targetID] = v
	}
	return true
}
