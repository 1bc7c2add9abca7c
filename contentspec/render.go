package contentspec

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// outline writes the indented text dump of a document.
type outline struct {
	buf bytes.Buffer
}

func (o *outline) line(depth int, format string, args ...any) {
	o.buf.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(&o.buf, format, args...)
	o.buf.WriteByte('\n')
}

// WriteOutline writes a plain-text outline of the document: the metadata,
// the tree of levels and topics with their resolved relationships, and the
// resolution problems. Comments and blank lines are not written.
func (d *Document) WriteOutline(w io.Writer) error {
	o := &outline{}

	for _, kv := range d.MetadataEntries() {
		switch {
		case kv.Topic != nil:
			o.line(0, "%s = %s", kv.Key, describeTopic(kv.Topic))
		case len(kv.Files) > 0:
			o.line(0, "%s =", kv.Key)
			for _, f := range kv.Files {
				entry := strconv.Itoa(f.ID)
				if f.HasRevision {
					entry += " rev " + strconv.Itoa(f.Revision)
				}
				if f.Title != "" {
					entry += " " + f.Title
				}
				o.line(1, "%s", entry)
			}
		default:
			o.line(0, "%s = %s", kv.Key, kv.Value)
		}
	}

	o.writeChildren(d.Base(), 0)

	if len(d.Problems) > 0 {
		o.line(0, "Problems:")
		for _, p := range d.Problems {
			o.line(1, "%s", p)
		}
	}

	_, err := w.Write(o.buf.Bytes())
	return err
}

// String returns the outline of the document.
func (d *Document) String() string {
	var b strings.Builder
	_ = d.WriteOutline(&b)
	return b.String()
}

func (o *outline) writeChildren(l *Level, depth int) {
	for _, c := range l.Children {
		switch n := c.(type) {
		case *Level:
			o.writeLevel(n, depth)
		case *SpecTopic:
			o.writeTopic(n, depth)
		}
	}
}

func (o *outline) writeLevel(l *Level, depth int) {
	head := l.Kind.String() + ": " + l.Title
	if l.TargetID != "" {
		head += " [" + l.TargetID + "]"
	}
	if len(l.Tags) > 0 {
		head += " {" + strings.Join(l.Tags, ", ") + "}"
	}
	o.line(depth, "%s", head)

	for _, t := range l.FrontMatter {
		o.line(depth+1, "front matter: %s", describeTopic(t))
		o.writeRelationships(t, depth+2)
	}

	o.writeChildren(l, depth+1)
}

func (o *outline) writeTopic(t *SpecTopic, depth int) {
	o.line(depth, "%s", describeTopic(t))
	o.writeRelationships(t, depth+1)
}

func (o *outline) writeRelationships(t *SpecTopic, depth int) {
	for _, r := range t.Relationships {
		target := "?"
		switch n := r.Target.(type) {
		case *SpecTopic:
			target = n.UniqueID
		case *Level:
			target = n.Kind.String() + ": " + n.Title
		case *Dummy:
			target = "unresolved " + r.TargetRef
		}
		o.line(depth, "%s -> %s", r.Type, target)
	}
}

// describeTopic returns a one line summary like
// "N: Overview (new Concept, 7-N, T1)".
func describeTopic(t *SpecTopic) string {
	var b strings.Builder
	b.WriteString(t.ID)
	if t.Title != "" {
		b.WriteString(": ")
		b.WriteString(t.Title)
	}

	b.WriteString(" (")
	b.WriteString(t.Kind.String())
	if t.TopicType != "" {
		b.WriteString(" ")
		b.WriteString(t.TopicType)
	}
	if t.HasRevision {
		fmt.Fprintf(&b, " rev %d", t.Revision)
	}
	b.WriteString(", ")
	b.WriteString(t.UniqueID)
	if t.TargetID != "" {
		b.WriteString(", ")
		b.WriteString(t.TargetID)
	}
	b.WriteString(")")

	return b.String()
}
