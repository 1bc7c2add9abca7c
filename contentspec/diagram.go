package contentspec

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"
)

// D2Source returns a D2 description of the document: levels are containers,
// topics are shapes and resolved relationships are edges.
func (d *Document) D2Source() string {
	g := &d2Writer{paths: make(map[Node]string)}

	g.children(d.Base(), "", 0)

	for _, r := range d.Relationships {
		from, ok := g.paths[r.Source]
		if !ok {
			continue
		}
		to, ok := g.paths[r.Target]
		if !ok {
			continue
		}
		style := ""
		if r.Synthesized {
			style = " {style.stroke-dash: 3}"
		}
		fmt.Fprintf(&g.b, "%s -> %s: %s%s\n", from, to, r.Type, style)
	}

	return g.b.String()
}

type d2Writer struct {
	b     strings.Builder
	paths map[Node]string
	next  int
}

func (g *d2Writer) key(prefix string, parent string) string {
	g.next++
	k := prefix + strconv.Itoa(g.next)
	if parent == "" {
		return k
	}
	return parent + "." + k
}

func (g *d2Writer) indent(depth int) {
	g.b.WriteString(strings.Repeat("  ", depth))
}

func (g *d2Writer) children(l *Level, parent string, depth int) {
	for _, t := range l.FrontMatter {
		g.topic(t, parent, depth)
	}

	for _, c := range l.Children {
		switch n := c.(type) {
		case *Level:
			path := g.key("l", parent)
			g.paths[n] = path
			g.indent(depth)
			fmt.Fprintf(&g.b, "%s: %s {\n", lastKey(path), strconv.Quote(n.Kind.String()+": "+n.Title))
			g.children(n, path, depth+1)
			g.indent(depth)
			g.b.WriteString("}\n")
		case *SpecTopic:
			g.topic(n, parent, depth)
		}
	}
}

func (g *d2Writer) topic(t *SpecTopic, parent string, depth int) {
	path := g.key("t", parent)
	g.paths[t] = path

	label := t.ID
	if t.Title != "" {
		label += ": " + t.Title
	}

	g.indent(depth)
	fmt.Fprintf(&g.b, "%s: %s", lastKey(path), strconv.Quote(label))
	if t.FrontMatter {
		g.b.WriteString(" {shape: page}")
	}
	g.b.WriteByte('\n')
}

func lastKey(path string) string {
	if i := strings.LastIndexByte(path, '.'); i != -1 {
		return path[i+1:]
	}
	return path
}

// RenderSVG lays out the D2 description of the document and renders it as SVG.
func (d *Document) RenderSVG(ctx context.Context) ([]byte, error) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, fmt.Errorf("creating text ruler: %w", err)
	}

	defaultLayout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}
	diagram, _, err := d2lib.Compile(ctx, d.D2Source(), &d2lib.CompileOptions{
		Layout: defaultLayout,
		Ruler:  ruler,
	})
	if err != nil {
		return nil, fmt.Errorf("compiling diagram of %s: %w", d.Filename, err)
	}

	body, err := d2svg.Render(diagram, &d2svg.RenderOpts{
		Pad:     d2svg.DEFAULT_PADDING,
		ThemeID: d2themescatalog.NeutralDefault.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering diagram of %s: %w", d.Filename, err)
	}

	return body, nil
}
