package contentspec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallSpec = `Title = Book
CHAPTER: Intro [T-intro]
  N: Overview [Concept, T1]
  N: Details [Concept, R: T1, T9]
`

func TestWriteOutline(t *testing.T) {
	_, doc := parse(t, smallSpec)

	want := `Title = Book
Chapter: Intro [T-intro]
  N: Overview (new Concept, 3-N, T1)
  N: Details (new Concept, 4-N)
    refer-to -> 3-N
    refer-to -> unresolved T9
Problems:
  line 4: refer-to reference "T9" does not exist
`
	var buf bytes.Buffer
	require.NoError(t, doc.WriteOutline(&buf))
	assert.Equal(t, want, buf.String())
	assert.Equal(t, want, doc.String())
}

func TestWriteOutlineFrontMatterAndFiles(t *testing.T) {
	src := "Files = [12, Logo [34, rev: 2]]\nPROCESS: Setup [N1, Task]\n  1234 [rev: 5]\n"
	_, doc := parse(t, src)

	want := `Files =
  12
  34 rev 2 Logo
Process: Setup
  front matter: N1: Setup (new Task, N1)
  1234 (existing rev 5, 3-1234)
`
	assert.Equal(t, want, doc.String())
}
