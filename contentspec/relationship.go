package contentspec

import (
	"fmt"
	"strconv"
)

// Relationship is a directed edge from a topic to another topic or a level.
// Only topics own relationships; a relationship declared on a level line is
// attached to its single front matter topic.
type Relationship struct {
	Type     RelationshipType
	SourceID string
	Source   *SpecTopic

	// TargetRef is the reference as written: a topic ID, a unique ID or a
	// target ID.
	TargetRef string

	// Title is the title the author expects the target to have, if given.
	Title string

	Line int

	// Synthesized is true for the next/previous relationships generated
	// for the topics of a process.
	Synthesized bool

	// Target is set by the resolver: a *SpecTopic, a *Level or a *Dummy.
	Target Node
}

// Resolved reports whether the relationship points to a real node.
func (r *Relationship) Resolved() bool {
	if r.Target == nil {
		return false
	}
	_, dummy := r.Target.(*Dummy)
	return !dummy
}

func (r *Relationship) String() string {
	return fmt.Sprintf("%s -[%s]-> %s", r.SourceID, r.Type, r.TargetRef)
}

func newRelationship(kind RelationshipType, source *SpecTopic, ref string, title string) *Relationship {
	return &Relationship{
		Type:      kind,
		SourceID:  source.UniqueID,
		Source:    source,
		TargetRef: ref,
		Title:     title,
		Line:      source.Line,
	}
}

// A ProblemKind classifies a relationship that could not be resolved cleanly.
type ProblemKind uint32

const (
	// Unresolved means nothing in the document matches the reference.
	Unresolved ProblemKind = iota
	// Ambiguous means more than one topic matches and a target ID should
	// have been used instead.
	Ambiguous
	// SelfReference means the relationship points to its own source.
	SelfReference
)

// String returns a string representation of the ProblemKind.
func (k ProblemKind) String() string {
	switch k {
	case Unresolved:
		return "unresolved"
	case Ambiguous:
		return "ambiguous"
	case SelfReference:
		return "self-reference"
	}
	return "Invalid(" + strconv.Itoa(int(k)) + ")"
}

// Problem records a relationship resolution issue. The resolver never fails:
// problems are left for validation to report.
type Problem struct {
	Kind         ProblemKind
	Relationship *Relationship

	// Candidates holds the unique IDs that matched an ambiguous reference.
	Candidates []string
}

func (p *Problem) String() string {
	r := p.Relationship
	switch p.Kind {
	case Ambiguous:
		return fmt.Sprintf("line %d: %s reference %q matches %d topics %v, use a target instead", r.Line, r.Type, r.TargetRef, len(p.Candidates), p.Candidates)
	case SelfReference:
		return fmt.Sprintf("line %d: %s reference %q points to the topic itself", r.Line, r.Type, r.TargetRef)
	}
	return fmt.Sprintf("line %d: %s reference %q does not exist", r.Line, r.Type, r.TargetRef)
}
