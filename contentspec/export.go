package contentspec

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

type exportMetadata struct {
	Key   string       `yaml:"key"`
	Value string       `yaml:"value,omitempty"`
	Line  int          `yaml:"line"`
	Topic *exportTopic `yaml:"topic,omitempty"`
	Files []exportFile `yaml:"files,omitempty"`
}

type exportFile struct {
	ID       int    `yaml:"id"`
	Title    string `yaml:"title,omitempty"`
	Revision int    `yaml:"revision,omitempty"`
}

type exportOptions struct {
	Tags        []string            `yaml:"tags,omitempty"`
	RemoveTags  []string            `yaml:"removeTags,omitempty"`
	Categories  map[string][]string `yaml:"categories,omitempty"`
	Condition   string              `yaml:"condition,omitempty"`
	Writer      string              `yaml:"writer,omitempty"`
	Description string              `yaml:"description,omitempty"`
	SourceURLs  []string            `yaml:"urls,omitempty"`
}

type exportLevel struct {
	Kind           string        `yaml:"kind"`
	Title          string        `yaml:"title"`
	Line           int           `yaml:"line"`
	Target         string        `yaml:"target,omitempty"`
	ExternalTarget string        `yaml:"externalTarget,omitempty"`
	Options        exportOptions `yaml:",inline"`
	FrontMatter    []exportTopic `yaml:"frontMatter,omitempty"`
	Children       []any         `yaml:"children,omitempty"`
}

type exportTopic struct {
	ID             string               `yaml:"id"`
	UniqueID       string               `yaml:"uniqueId"`
	Kind           string               `yaml:"kind"`
	Title          string               `yaml:"title,omitempty"`
	Type           string               `yaml:"type,omitempty"`
	Revision       int                  `yaml:"revision,omitempty"`
	Line           int                  `yaml:"line"`
	Target         string               `yaml:"target,omitempty"`
	ExternalTarget string               `yaml:"externalTarget,omitempty"`
	ExternalSpec   string               `yaml:"externalSpec,omitempty"`
	Options        exportOptions        `yaml:",inline"`
	Relationships  []exportRelationship `yaml:"relationships,omitempty"`
}

type exportRelationship struct {
	Type        string `yaml:"type"`
	Ref         string `yaml:"ref"`
	Title       string `yaml:"title,omitempty"`
	Target      string `yaml:"target,omitempty"`
	Synthesized bool   `yaml:"synthesized,omitempty"`
}

type exportDocument struct {
	File     string           `yaml:"file,omitempty"`
	Metadata []exportMetadata `yaml:"metadata,omitempty"`
	Content  []any            `yaml:"content,omitempty"`
	Problems []string         `yaml:"problems,omitempty"`
}

// ExportYAML serializes the document tree as YAML. The output is
// deterministic: the same document always produces the same bytes.
func (d *Document) ExportYAML() ([]byte, error) {
	out := exportDocument{File: d.Filename}

	for _, kv := range d.MetadataEntries() {
		m := exportMetadata{Key: kv.Key, Value: kv.Value, Line: kv.Line}
		if kv.Topic != nil {
			t := toExportTopic(kv.Topic)
			m.Topic = &t
		}
		for _, f := range kv.Files {
			m.Files = append(m.Files, exportFile{ID: f.ID, Title: f.Title, Revision: f.Revision})
		}
		out.Metadata = append(out.Metadata, m)
	}

	out.Content = exportChildren(d.Base())

	for _, p := range d.Problems {
		out.Problems = append(out.Problems, p.String())
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", d.Filename, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exportChildren(l *Level) []any {
	var children []any
	for _, c := range l.Children {
		switch n := c.(type) {
		case *Level:
			children = append(children, toExportLevel(n))
		case *SpecTopic:
			children = append(children, toExportTopic(n))
		}
	}
	return children
}

func toExportLevel(l *Level) exportLevel {
	e := exportLevel{
		Kind:           l.Kind.String(),
		Title:          l.Title,
		Line:           l.Line,
		Target:         l.TargetID,
		ExternalTarget: l.ExternalTargetID,
		Options:        toExportOptions(&l.Options),
		Children:       exportChildren(l),
	}
	for _, t := range l.FrontMatter {
		e.FrontMatter = append(e.FrontMatter, toExportTopic(t))
	}
	return e
}

func toExportTopic(t *SpecTopic) exportTopic {
	e := exportTopic{
		ID:             t.ID,
		UniqueID:       t.UniqueID,
		Kind:           t.Kind.String(),
		Title:          t.Title,
		Type:           t.TopicType,
		Revision:       t.Revision,
		Line:           t.Line,
		Target:         t.TargetID,
		ExternalTarget: t.ExternalTargetID,
		ExternalSpec:   t.ExternalSpec,
		Options:        toExportOptions(&t.Options),
	}

	for _, r := range t.Relationships {
		er := exportRelationship{
			Type:        r.Type.String(),
			Ref:         r.TargetRef,
			Title:       r.Title,
			Synthesized: r.Synthesized,
		}
		switch n := r.Target.(type) {
		case *SpecTopic:
			er.Target = n.UniqueID
		case *Level:
			er.Target = n.TargetID
		}
		e.Relationships = append(e.Relationships, er)
	}
	return e
}

func toExportOptions(o *Options) exportOptions {
	e := exportOptions{
		Tags:        o.Tags,
		RemoveTags:  o.RemoveTags,
		Condition:   o.Condition,
		Writer:      o.Writer,
		Description: o.Description,
		SourceURLs:  o.SourceURLs,
	}
	if len(o.Categories) > 0 {
		e.Categories = make(map[string][]string, len(o.Categories))
		for _, c := range o.Categories {
			e.Categories[c.Name] = c.Tags
		}
	}
	return e
}
