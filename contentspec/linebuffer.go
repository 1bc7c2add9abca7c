package contentspec

import (
	"bytes"

	"github.com/hesusruiz/contentspec/sliceedit"
)

// Text is one physical line of the source.
type Text struct {
	LineNumber int
	Content    string
}

// LineBuffer holds the whole document as a sequence of lines and a cursor.
// Several parsing steps look one line ahead before deciding if a statement
// continues on the next physical line, so lines can be peeked without
// consuming them.
type LineBuffer struct {
	lines []Text
	next  int
}

// NewLineBuffer splits src into lines. Carriage returns are removed first.
func NewLineBuffer(src []byte) *LineBuffer {
	lb := &LineBuffer{}

	ed := sliceedit.NewBuffer(src)
	ed.DeleteAllString("\r")
	if ed.Modified() {
		src = ed.Bytes()
	}

	// A trailing newline does not start another line
	src = bytes.TrimSuffix(src, []byte("\n"))
	if len(src) == 0 {
		return lb
	}

	for _, l := range bytes.Split(src, []byte("\n")) {
		lb.AddLine(string(l))
	}
	return lb
}

// AddLine appends a line, numbering it after the last one.
func (lb *LineBuffer) AddLine(content string) {
	lb.lines = append(lb.lines, Text{
		LineNumber: len(lb.lines) + 1,
		Content:    content,
	})
}

// Peek returns the next unconsumed line without consuming it.
// The boolean is false at the end of the input.
func (lb *LineBuffer) Peek() (Text, bool) {
	if lb.next >= len(lb.lines) {
		return Text{}, false
	}
	return lb.lines[lb.next], true
}

// Poll consumes and returns the next line.
func (lb *LineBuffer) Poll() (Text, bool) {
	line, ok := lb.Peek()
	if ok {
		lb.next++
	}
	return line, ok
}

// Rewind moves the cursor back n lines, so they are polled again.
func (lb *LineBuffer) Rewind(n int) {
	lb.next -= n
	if lb.next < 0 {
		lb.next = 0
	}
}

// Len is the total number of lines, consumed or not.
func (lb *LineBuffer) Len() int {
	return len(lb.lines)
}

// Remaining is the number of lines not yet consumed.
func (lb *LineBuffer) Remaining() int {
	return len(lb.lines) - lb.next
}
