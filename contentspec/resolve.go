package contentspec

import (
	"strconv"
)

// resolveRelationships binds every relationship of the document to its
// target. It runs once, after the whole document has been read, so forward
// and backward references are treated alike. Problems are recorded in the
// document and never abort the parse.
func resolveRelationships(d *Document) {
	synthesizeTargets(d)

	for _, r := range d.Relationships {
		resolve(d, r)
	}

	sequenceProcesses(d)
}

// synthesizeTargets gives a target ID to every referenced topic that has
// duplicates in the document and no target of its own. The relationship
// then still points to the original, and the duplicates can be told apart
// from it by the target.
func synthesizeTargets(d *Document) {
	duplicated := make(map[string]bool)
	for _, t := range d.Topics {
		if orig := t.DuplicateOf(); orig != "" {
			duplicated[orig] = true
		}
	}
	if len(duplicated) == 0 {
		return
	}

	for _, r := range d.Relationships {
		if reTargetID.MatchString(r.TargetRef) {
			continue
		}

		matches := lookupTopic(d, r.TargetRef)
		if len(matches) != 1 {
			continue
		}
		t := matches[0]
		if t.TargetID != "" || !duplicated[t.ID] {
			continue
		}

		targetID := "T-" + t.UniqueID
		for i := 2; ; i++ {
			if _, used := d.TargetNode(targetID); !used {
				break
			}
			targetID = "T-" + t.UniqueID + "-" + strconv.Itoa(i)
		}

		t.TargetID = targetID
		t.TargetSynthesized = true
		d.TargetTopics[targetID] = t
	}
}

// lookupTopic returns the topics a non-target reference can denote, in
// document order. A duplicate stands for the topic it duplicates, when that
// topic is in the document.
func lookupTopic(d *Document, ref string) []*SpecTopic {
	var matches []*SpecTopic
	seen := make(map[*SpecTopic]bool)
	for _, t := range lookupUniqueID(d, ref) {
		if orig := t.DuplicateOf(); orig != "" {
			if o := lookupUniqueID(d, orig); len(o) == 1 {
				t = o[0]
			}
		}
		if !seen[t] {
			seen[t] = true
			matches = append(matches, t)
		}
	}
	return matches
}

func lookupUniqueID(d *Document, ref string) []*SpecTopic {
	if reUniqueID.MatchString(ref) || isUniqueNewTopicID(ref) {
		if t, ok := d.UniqueIDs[ref]; ok {
			return []*SpecTopic{t}
		}
		return nil
	}

	// Only topics keyed by "<line>-<id>" can match a bare ID
	var matches []*SpecTopic
	for _, t := range d.Topics {
		if t.UniqueID != t.ID && t.ID == ref {
			matches = append(matches, t)
		}
	}
	return matches
}

func resolve(d *Document, r *Relationship) {
	if reTargetID.MatchString(r.TargetRef) {
		n, ok := d.TargetNode(r.TargetRef)
		if !ok {
			r.Target = &Dummy{TargetID: r.TargetRef}
			d.Problems = append(d.Problems, &Problem{Kind: Unresolved, Relationship: r})
			return
		}
		setTarget(d, r, n)
		return
	}

	matches := lookupTopic(d, r.TargetRef)
	switch len(matches) {
	case 0:
		r.Target = &Dummy{ID: r.TargetRef}
		d.Problems = append(d.Problems, &Problem{Kind: Unresolved, Relationship: r})
	case 1:
		setTarget(d, r, matches[0])
	default:
		r.Target = &Dummy{ID: r.TargetRef}
		candidates := make([]string, 0, len(matches))
		for _, t := range matches {
			candidates = append(candidates, t.UniqueID)
		}
		d.Problems = append(d.Problems, &Problem{Kind: Ambiguous, Relationship: r, Candidates: candidates})
	}
}

func setTarget(d *Document, r *Relationship, n Node) {
	r.Target = n
	if t, ok := n.(*SpecTopic); ok && t == r.Source {
		d.Problems = append(d.Problems, &Problem{Kind: SelfReference, Relationship: r})
	}
}

// sequenceProcesses links the consecutive topics of every process with
// next and previous relationships.
func sequenceProcesses(d *Document) {
	for _, l := range d.Levels {
		if l.Kind != ProcessLevel {
			continue
		}

		topics := l.Topics()
		for i := 0; i+1 < len(topics); i++ {
			a, b := topics[i], topics[i+1]
			link(d, Next, a, b)
			link(d, Previous, b, a)
		}
	}
}

func link(d *Document, kind RelationshipType, from *SpecTopic, to *SpecTopic) {
	r := newRelationship(kind, from, to.UniqueID, to.Title)
	r.Synthesized = true
	r.Target = to
	from.Relationships = append(from.Relationships, r)
	d.Relationships = append(d.Relationships, r)
}
