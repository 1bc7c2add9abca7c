package sliceedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindAll(t *testing.T) {
	tests := []struct {
		name string
		buf  string
		item string
		want []int
	}{
		{name: "empty item", buf: "abc", item: "", want: []int{}},
		{name: "no match", buf: "abc", item: "x", want: []int{}},
		{name: "several", buf: "a\r\nb\r\nc", item: "\r", want: []int{1, 4}},
		{name: "non overlapping", buf: "aaaa", item: "aa", want: []int{0, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindAll([]byte(tt.buf), tt.item))
		})
	}
}

func TestBufferEdits(t *testing.T) {
	b := NewBufferString("line one\r\nline two\r\n")
	assert.False(t, b.Modified())
	b.DeleteAllString("\r")
	assert.True(t, b.Modified())
	assert.Equal(t, "line one\nline two\n", b.String())

	b = NewBufferString(`a\[b\]c`)
	b.Delete(1, 2)
	b.Delete(4, 5)
	assert.Equal(t, "a[b]c", b.String())

	b = NewBufferString("no carriage returns")
	b.DeleteAllString("\r")
	assert.False(t, b.Modified())
}

func TestBufferUnmodified(t *testing.T) {
	src := []byte("untouched")
	b := NewBuffer(src)
	out := b.Bytes()
	out[0] = 'U'
	assert.Equal(t, "untouched", string(src))
}
