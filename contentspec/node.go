package contentspec

import (
	"strconv"
	"strings"
)

// A NodeType is the type of a Node.
type NodeType uint32

const (
	ErrorNode NodeType = iota
	LevelNode
	TopicNode
	MetadataNode
	CommentNode
	BlankNode
	DummyNode
)

// String returns a string representation of the NodeType.
func (n NodeType) String() string {
	switch n {
	case ErrorNode:
		return "Error"
	case LevelNode:
		return "Level"
	case TopicNode:
		return "Topic"
	case MetadataNode:
		return "Metadata"
	case CommentNode:
		return "Comment"
	case BlankNode:
		return "Blank"
	case DummyNode:
		return "Dummy"
	}
	return "Invalid(" + strconv.Itoa(int(n)) + ")"
}

// Node is an element of the parsed document. The set of implementations is
// closed: *Level, *SpecTopic, *KeyValue, *Comment, *Blank and *Dummy.
// Callers switch on the concrete type.
type Node interface {
	Type() NodeType
	LineNumber() int
	node()
}

// A LevelType is the kind of a container.
type LevelType uint32

const (
	BaseLevel LevelType = iota
	ChapterLevel
	SectionLevel
	AppendixLevel
	PartLevel
	PrefaceLevel
	ProcessLevel
)

// String returns the keyword of the LevelType as written in a document.
func (t LevelType) String() string {
	switch t {
	case BaseLevel:
		return "Base"
	case ChapterLevel:
		return "Chapter"
	case SectionLevel:
		return "Section"
	case AppendixLevel:
		return "Appendix"
	case PartLevel:
		return "Part"
	case PrefaceLevel:
		return "Preface"
	case ProcessLevel:
		return "Process"
	}
	return "Invalid(" + strconv.Itoa(int(t)) + ")"
}

var levelKeywords = map[string]LevelType{
	"CHAPTER":  ChapterLevel,
	"SECTION":  SectionLevel,
	"APPENDIX": AppendixLevel,
	"PART":     PartLevel,
	"PREFACE":  PrefaceLevel,
	"PROCESS":  ProcessLevel,
}

// A TopicKind is the classification of a topic reference, derived from its ID.
type TopicKind uint32

const (
	InvalidTopic TopicKind = iota
	NewTopic
	ExistingTopic
	ClonedTopic
	DuplicateTopic
	ClonedDuplicateTopic
)

// String returns a string representation of the TopicKind.
func (k TopicKind) String() string {
	switch k {
	case InvalidTopic:
		return "invalid"
	case NewTopic:
		return "new"
	case ExistingTopic:
		return "existing"
	case ClonedTopic:
		return "cloned"
	case DuplicateTopic:
		return "duplicate"
	case ClonedDuplicateTopic:
		return "cloned-duplicate"
	}
	return "Invalid(" + strconv.Itoa(int(k)) + ")"
}

// Category is a named group of tags, written "category: tag" or
// "category: (tag, tag)".
type Category struct {
	Name string
	Tags []string
}

// Options is the data shared by levels and topics.
type Options struct {
	Tags        []string
	RemoveTags  []string
	Categories  []*Category
	Condition   string
	Writer      string
	Description string
	SourceURLs  []string
}

// HasTag reports whether tag was assigned, either plain or inside a category.
func (o *Options) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	for _, c := range o.Categories {
		for _, t := range c.Tags {
			if strings.EqualFold(t, tag) {
				return true
			}
		}
	}
	return false
}

// Category returns the tags of the named category.
func (o *Options) Category(name string) []string {
	for _, c := range o.Categories {
		if strings.EqualFold(c.Name, name) {
			return c.Tags
		}
	}
	return nil
}

func (o *Options) addCategoryTags(name string, tags ...string) {
	for _, c := range o.Categories {
		if strings.EqualFold(c.Name, name) {
			c.Tags = append(c.Tags, tags...)
			return
		}
	}
	o.Categories = append(o.Categories, &Category{Name: name, Tags: tags})
}

// Level is a container: the implicit base level or a chapter, section,
// appendix, part, preface or process.
type Level struct {
	Options
	Kind             LevelType
	Title            string
	TargetID         string
	ExternalTargetID string
	Line             int

	// Index is the position of the level in Document.Levels and Parent
	// the index of its parent, -1 for the base level.
	Index  int
	Parent int
	Depth  int

	Children    []Node
	FrontMatter []*SpecTopic

	doc *Document
}

func (l *Level) Type() NodeType  { return LevelNode }
func (l *Level) LineNumber() int { return l.Line }
func (l *Level) node()           {}

// ParentLevel returns the enclosing level, or nil for the base level.
func (l *Level) ParentLevel() *Level {
	if l.Parent < 0 {
		return nil
	}
	return l.doc.Levels[l.Parent]
}

// Levels returns the direct sub-levels, in document order.
func (l *Level) Levels() []*Level {
	var levels []*Level
	for _, c := range l.Children {
		if sub, ok := c.(*Level); ok {
			levels = append(levels, sub)
		}
	}
	return levels
}

// Topics returns the direct topic children, in document order.
func (l *Level) Topics() []*SpecTopic {
	var topics []*SpecTopic
	for _, c := range l.Children {
		if t, ok := c.(*SpecTopic); ok {
			topics = append(topics, t)
		}
	}
	return topics
}

func (l *Level) appendChild(n Node) {
	l.Children = append(l.Children, n)
}

// SpecTopic is one reference to a topic inside the document.
type SpecTopic struct {
	Options
	ID       string
	Kind     TopicKind
	UniqueID string
	Title    string

	// TopicType is the type of a new topic, like "Concept" or "Task".
	TopicType string

	Revision    int
	HasRevision bool

	TargetID          string
	TargetSynthesized bool
	ExternalTargetID  string
	ExternalSpec      string

	Line int

	// Parent is the index of the enclosing level in Document.Levels.
	Parent      int
	FrontMatter bool

	Relationships []*Relationship

	doc *Document
}

func (t *SpecTopic) Type() NodeType  { return TopicNode }
func (t *SpecTopic) LineNumber() int { return t.Line }
func (t *SpecTopic) node()           {}

// ParentLevel returns the level that holds the topic.
func (t *SpecTopic) ParentLevel() *Level {
	if t.doc == nil || t.Parent < 0 {
		return nil
	}
	return t.doc.Levels[t.Parent]
}

// DuplicateOf returns the ID of the topic that a duplicate topic repeats:
// "N12" for "X12" and "C12" for "XC12". It is empty for other kinds.
func (t *SpecTopic) DuplicateOf() string {
	switch t.Kind {
	case DuplicateTopic:
		return "N" + t.ID[1:]
	case ClonedDuplicateTopic:
		return t.ID[1:]
	}
	return ""
}

// DBID returns the numeric identifier of the topic in the content store
// for existing and cloned topics, and 0 otherwise.
func (t *SpecTopic) DBID() int {
	var digits string
	switch t.Kind {
	case ExistingTopic:
		digits = t.ID
	case ClonedTopic:
		digits = t.ID[1:]
	default:
		return 0
	}
	id, _ := strconv.Atoi(digits)
	return id
}

// KeyValue is a metadata entry. Topic is set for keys whose value is a topic
// reference and Files for the additional files list.
type KeyValue struct {
	Key   string
	Value string
	Line  int
	Topic *SpecTopic
	Files []*AdditionalFile
}

func (kv *KeyValue) Type() NodeType  { return MetadataNode }
func (kv *KeyValue) LineNumber() int { return kv.Line }
func (kv *KeyValue) node()           {}

// AdditionalFile is an entry of the additional files metadata.
type AdditionalFile struct {
	ID          int
	Title       string
	Revision    int
	HasRevision bool
	Line        int
}

// Comment is a comment line, kept to preserve the document structure.
type Comment struct {
	Text string
	Line int
}

func (c *Comment) Type() NodeType  { return CommentNode }
func (c *Comment) LineNumber() int { return c.Line }
func (c *Comment) node()           {}

// Blank marks a blank line.
type Blank struct {
	Line int
}

func (b *Blank) Type() NodeType  { return BlankNode }
func (b *Blank) LineNumber() int { return b.Line }
func (b *Blank) node()           {}

// Dummy stands for the target of a relationship that could not be resolved.
// It carries only the raw reference so that validation can report it.
type Dummy struct {
	ID       string
	TargetID string
}

func (d *Dummy) Type() NodeType  { return DummyNode }
func (d *Dummy) LineNumber() int { return -1 }
func (d *Dummy) node()           {}

// Document is the result of parsing a content specification.
type Document struct {
	Filename string

	// Header holds the metadata entries with the comments and blank lines
	// found among them, in document order.
	Header []Node

	// Levels is the arena of all levels. Levels[0] is the base level.
	Levels []*Level

	// Topics holds every topic reference in document order, including
	// front matter and metadata topics.
	Topics []*SpecTopic

	Relationships []*Relationship
	Problems      []*Problem

	UniqueIDs    map[string]*SpecTopic
	TargetLevels map[string]*Level
	TargetTopics map[string]*SpecTopic
}

func newDocument(fileName string) *Document {
	d := &Document{
		Filename:     fileName,
		UniqueIDs:    make(map[string]*SpecTopic),
		TargetLevels: make(map[string]*Level),
		TargetTopics: make(map[string]*SpecTopic),
	}
	d.newLevel(BaseLevel, -1, 0)
	return d
}

// Base returns the implicit root level.
func (d *Document) Base() *Level {
	return d.Levels[0]
}

func (d *Document) newLevel(kind LevelType, parent int, line int) *Level {
	l := &Level{
		Kind:   kind,
		Line:   line,
		Index:  len(d.Levels),
		Parent: parent,
		doc:    d,
	}
	if parent >= 0 {
		l.Depth = d.Levels[parent].Depth + 1
	}
	d.Levels = append(d.Levels, l)
	return l
}

// Metadata returns the metadata entry for key, compared case-insensitively.
func (d *Document) Metadata(key string) (*KeyValue, bool) {
	for _, n := range d.Header {
		if kv, ok := n.(*KeyValue); ok && strings.EqualFold(kv.Key, key) {
			return kv, true
		}
	}
	return nil, false
}

// MetadataEntries returns the metadata entries in document order.
func (d *Document) MetadataEntries() []*KeyValue {
	var entries []*KeyValue
	for _, n := range d.Header {
		if kv, ok := n.(*KeyValue); ok {
			entries = append(entries, kv)
		}
	}
	return entries
}

// Title returns the value of the Title metadata.
func (d *Document) Title() string {
	if kv, ok := d.Metadata("Title"); ok {
		return kv.Value
	}
	return ""
}

// RelationshipsFrom returns the relationships whose source is the topic with
// the given unique ID.
func (d *Document) RelationshipsFrom(uniqueID string) []*Relationship {
	if t, ok := d.UniqueIDs[uniqueID]; ok {
		return t.Relationships
	}
	return nil
}

// TargetNode returns the level or topic that declared the target ID.
func (d *Document) TargetNode(targetID string) (Node, bool) {
	if l, ok := d.TargetLevels[targetID]; ok {
		return l, true
	}
	if t, ok := d.TargetTopics[targetID]; ok {
		return t, true
	}
	return nil, false
}

// MaxDepth returns the depth of the deepest level. The base level has depth 0.
func (d *Document) MaxDepth() int {
	max := 0
	for _, l := range d.Levels {
		if l.Depth > max {
			max = l.Depth
		}
	}
	return max
}
