package contentspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataDuplicate(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "same case", src: "Title = Book\nTitle = Book2"},
		{name: "different case", src: "Title = Book\nTITLE = Book2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, doc := parse(t, tt.src)

			require.Len(t, p.SyntaxErrors(), 1)
			se := p.SyntaxErrors()[0]
			assert.Equal(t, 2, se.Line)
			assert.Equal(t, Error, se.Severity)
			assert.Contains(t, se.Msg, "already defined on line 1")

			require.Len(t, doc.MetadataEntries(), 1)
			assert.Equal(t, "Book", doc.Title())
		})
	}
}

func TestMetadataIdempotent(t *testing.T) {
	src := "Title = Book\nProduct = Thing\nVersion = 2\nAdditional Files = [123, Logo [456]]\nTitle = Again\n"

	p1, doc1 := parse(t, src)
	p2, doc2 := parse(t, src)

	assert.Equal(t, doc1.MetadataEntries(), doc2.MetadataEntries())
	assert.Equal(t, messages(p1), messages(p2))
	assert.Len(t, doc1.MetadataEntries(), 4)
}

func TestMetadataValues(t *testing.T) {
	src := `Title = A \[draft\] book
Subtitle = [Everything you need]
Copyright Holder = Someone # not part of the value
`
	p, doc := parse(t, src)
	assert.Empty(t, p.SyntaxErrors())

	assert.Equal(t, "A [draft] book", doc.Title())

	kv, ok := doc.Metadata("subtitle")
	require.True(t, ok)
	assert.Equal(t, "Everything you need", kv.Value)
	assert.Equal(t, 2, kv.LineNumber())

	kv, ok = doc.Metadata("Copyright Holder")
	require.True(t, ok)
	assert.Equal(t, "Someone", kv.Value)
}

func TestMetadataAdditionalFiles(t *testing.T) {
	p, doc := parse(t, "Additional Files = [123, Logo [456], Icon [789, rev: 2], bad]")

	require.Len(t, p.SyntaxErrors(), 1)
	assert.Equal(t, `invalid additional file entry "bad"`, p.SyntaxErrors()[0].Msg)

	kv, ok := doc.Metadata("Additional Files")
	require.True(t, ok)
	require.Len(t, kv.Files, 3)
	assert.Equal(t, &AdditionalFile{ID: 123, Line: 1}, kv.Files[0])
	assert.Equal(t, &AdditionalFile{ID: 456, Title: "Logo", Line: 1}, kv.Files[1])
	assert.Equal(t, &AdditionalFile{ID: 789, Title: "Icon", Revision: 2, HasRevision: true, Line: 1}, kv.Files[2])
}

func TestMetadataTopic(t *testing.T) {
	src := "Abstract = [N, Concept,\n  R: T1\n]\nN: Intro [Concept, T1]\n"
	p, doc := parse(t, src)
	assert.Empty(t, p.SyntaxErrors())

	kv, ok := doc.Metadata("Abstract")
	require.True(t, ok)
	require.NotNil(t, kv.Topic)
	assert.Equal(t, "Abstract", kv.Topic.Title)
	assert.Equal(t, "Concept", kv.Topic.TopicType)
	assert.Equal(t, "1-N", kv.Topic.UniqueID)

	require.Len(t, kv.Topic.Relationships, 1)
	intro := doc.Base().Topics()[0]
	assert.Equal(t, 4, intro.Line)
	assert.Same(t, intro, kv.Topic.Relationships[0].Target)

	// A topic valued key without a topic is plain text
	_, doc = parse(t, "Legal Notice = [Some text]")
	kv, ok = doc.Metadata("Legal Notice")
	require.True(t, ok)
	assert.Nil(t, kv.Topic)
	assert.Equal(t, "Some text", kv.Value)
}

func TestMetadataErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "invalid spaces", src: "Spaces = x", want: `invalid value for Spaces: "x"`},
		{name: "zero spaces", src: "Spaces = 0", want: `invalid value for Spaces: "0"`},
		{name: "unterminated", src: "Abstract = [N, Concept", want: msgUnterminatedSet},
		{name: "nested", src: "Abstract = [N,\n  Concept [x]\n]", want: msgNestedMultiline},
		{name: "text after value", src: "Subtitle = [a] b", want: `unexpected text after attribute list: "b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, doc := parse(t, tt.src)
			require.NotEmpty(t, p.SyntaxErrors())
			assert.Equal(t, tt.want, p.SyntaxErrors()[0].Msg)
			assert.Equal(t, 1, p.SyntaxErrors()[0].Line)
			assert.Empty(t, doc.MetadataEntries())
		})
	}
}

func TestIsMetadataLine(t *testing.T) {
	assert.True(t, isMetadataLine("Title = Book"))
	assert.True(t, isMetadataLine("Additional Files = [1, 2]"))
	assert.False(t, isMetadataLine("N: Overview [Writer = Jane]"))
	assert.False(t, isMetadataLine("= nothing"))
	assert.False(t, isMetadataLine(`Title \= Book`))
}
