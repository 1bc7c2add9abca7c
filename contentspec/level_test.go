package contentspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelKeyword(t *testing.T) {
	tests := []struct {
		text string
		kind LevelType
		rest string
		ok   bool
	}{
		{text: "CHAPTER: Intro", kind: ChapterLevel, rest: "Intro", ok: true},
		{text: "chapter: Intro [T1]", kind: ChapterLevel, rest: "Intro [T1]", ok: true},
		{text: "Section:Details", kind: SectionLevel, rest: "Details", ok: true},
		{text: "APPENDIX", kind: AppendixLevel, rest: "", ok: true},
		{text: "Process: Install", kind: ProcessLevel, rest: "Install", ok: true},
		{text: "Preface: Hi", kind: PrefaceLevel, rest: "Hi", ok: true},
		{text: "N: Chapter one [Concept]", ok: false},
		{text: "Chapters: x", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			kind, rest, ok := levelKeyword(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.kind, kind)
				assert.Equal(t, tt.rest, rest)
			}
		})
	}
}

func TestLevelOptions(t *testing.T) {
	p, doc := parse(t, "CHAPTER: Intro [Tech1, Writer = Jane Doe, T-intro, ET7]\n  N: A [Concept]")
	assert.Empty(t, p.SyntaxErrors())

	l := doc.Base().Levels()[0]
	assert.Equal(t, []string{"Tech1"}, l.Tags)
	assert.Equal(t, "Jane Doe", l.Writer)
	assert.Equal(t, "T-intro", l.TargetID)
	assert.Equal(t, "ET7", l.ExternalTargetID)

	n, ok := doc.TargetNode("T-intro")
	require.True(t, ok)
	assert.Same(t, l, n)
}

func TestLevelEmptyTitle(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "keyword and colon", src: "CHAPTER:\n  N: A [Concept]", want: "Chapter has no title"},
		{name: "bare keyword", src: "APPENDIX\n  N: A [Concept]", want: "Appendix has no title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, doc := parse(t, tt.src)

			require.Len(t, p.SyntaxErrors(), 1)
			assert.Equal(t, tt.want, p.SyntaxErrors()[0].Msg)

			// The level is still created and its children attached to it
			levels := doc.Base().Levels()
			require.Len(t, levels, 1)
			assert.Len(t, levels[0].Topics(), 1)
		})
	}
}

func TestLevelTagStartingWithN(t *testing.T) {
	p, doc := parse(t, "CHAPTER: Intro [Networking, Nightly]")
	assert.Empty(t, p.SyntaxErrors())

	l := doc.Base().Levels()[0]
	assert.Empty(t, l.FrontMatter)
	assert.Equal(t, []string{"Networking", "Nightly"}, l.Tags)
}

func TestLevelFrontMatter(t *testing.T) {
	p, doc := parse(t, "CHAPTER: Intro [N1, Concept] [R: 1234]\n  1234")
	assert.Empty(t, p.SyntaxErrors())

	l := doc.Base().Levels()[0]
	require.Len(t, l.FrontMatter, 1)
	fm := l.FrontMatter[0]
	assert.Equal(t, "N1", fm.UniqueID)
	assert.Equal(t, "Intro", fm.Title)
	assert.Equal(t, "Concept", fm.TopicType)
	assert.True(t, fm.FrontMatter)
	assert.Same(t, l, fm.ParentLevel())

	// Front matter is not a child
	require.Len(t, l.Topics(), 1)

	require.Len(t, fm.Relationships, 1)
	assert.Equal(t, ReferTo, fm.Relationships[0].Type)
	assert.Same(t, l.Topics()[0], fm.Relationships[0].Target)
}

func TestLevelRelationshipErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "no front matter",
			src:  "CHAPTER: Intro [R: 1234]",
			want: []string{"refer-to relationships can not be declared on a Chapter without exactly one front matter topic"},
		},
		{
			name: "two front matter topics",
			src:  "SECTION: S [N1] [N2] [P: 1234]",
			want: []string{"prerequisite relationships can not be declared on a Section without exactly one front matter topic"},
		},
		{
			name: "next",
			src:  "CHAPTER: Intro [N1] [NEXT: 1234]",
			want: []string{"next relationships can not be declared, they are generated for processes"},
		},
		{
			name: "two targets",
			src:  "CHAPTER: Intro [T1, T2]",
			want: []string{msgTwoTargets},
		},
		{
			name: "revision",
			src:  "CHAPTER: Intro [rev: 2]",
			want: []string{msgRevisionNotAllowed},
		},
		{
			name: "text after set",
			src:  "CHAPTER: Intro [T1] more",
			want: []string{`unexpected text after attribute list: "more"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, doc := parse(t, tt.src)
			assert.Equal(t, tt.want, messages(p))
			assert.Empty(t, doc.Relationships)
		})
	}
}

func TestLevelTargetDuplicate(t *testing.T) {
	p, doc := parse(t, "CHAPTER: A [T1]\nCHAPTER: B [T1]")

	assert.Equal(t, []string{"target T1 is already defined on line 1"}, messages(p))
	n, ok := doc.TargetNode("T1")
	require.True(t, ok)
	assert.Equal(t, 1, n.LineNumber())
	assert.Empty(t, doc.Base().Levels()[1].TargetID)
}
