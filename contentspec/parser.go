package contentspec

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

const blank byte = ' '
const tab byte = '\t'

// DefaultSpaces is the default indentation unit.
const DefaultSpaces = 2

// Parser holds the state needed to parse one document. A Parser can be
// reused, but not concurrently: every call to Parse starts from a fresh state.
type Parser struct {
	// the file of the name being processed, for diagnostics
	fileName string

	// The source of the document, already split in lines
	lines *LineBuffer

	// doc is the document being built
	doc *Document

	// current is the level whose children are being parsed
	current *Level

	// spaces is the current indentation unit. It starts with the configured
	// value and can be changed by the Spaces metadata.
	spaces        int
	defaultSpaces int

	// metadataKeys maps lower-cased metadata keys to the line defining them
	metadataKeys map[string]int

	// Contains the fatal error encountered, if any. When this is set, parsing stops
	lastError error

	syntaxErrors []*SyntaxError

	log *zap.SugaredLogger
}

// An Option configures a Parser.
type Option func(*Parser)

// WithSpaces sets the indentation unit. Values below 1 are ignored.
func WithSpaces(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.defaultSpaces = n
		}
	}
}

// WithLogger sets the logger receiving every diagnostic.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Parser) {
		if l != nil {
			p.log = l
		}
	}
}

// NewParser creates a parser. fileName is for logging/tracing purposes.
func NewParser(fileName string, opts ...Option) *Parser {
	p := &Parser{
		fileName:      fileName,
		defaultSpaces: DefaultSpaces,
		log:           zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFromBytes parses src and returns the parser, which gives access to the
// document and the diagnostics. The error is ErrorNoContent for an empty
// source or the fatal SyntaxError that aborted parsing.
func ParseFromBytes(fileName string, src []byte, opts ...Option) (*Parser, error) {
	if len(src) == 0 {
		return nil, ErrorNoContent
	}

	p := NewParser(fileName, opts...)
	if _, err := p.Parse(src); err != nil {
		return p, err
	}

	return p, nil
}

// ParseFromFile reads a whole file and parses it.
func ParseFromFile(fileName string, opts ...Option) (*Parser, error) {
	src, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fileName, err)
	}
	return ParseFromBytes(fileName, src, opts...)
}

// Parse parses a whole document. Recoverable problems are accumulated as
// diagnostics and parsing continues. An indentation error stops parsing and
// is returned; in that case no document is returned.
func (p *Parser) Parse(src []byte) (*Document, error) {
	p.reset(src)

	for {
		line, ok := p.lines.Poll()
		if !ok {
			break
		}
		if err := p.parseLine(line); err != nil {
			p.lastError = err
			p.log.Debugw("parsing stopped", "file", p.fileName, "line", line.LineNumber, "unread", p.lines.Remaining())
			return nil, err
		}
	}

	// Every table is complete now, so references can be resolved
	resolveRelationships(p.doc)

	p.log.Debugw("parsed", "file", p.fileName, "lines", p.lines.Len(), "diagnostics", len(p.syntaxErrors))
	return p.doc, nil
}

func (p *Parser) reset(src []byte) {
	p.lines = NewLineBuffer(src)
	p.doc = newDocument(p.fileName)
	p.current = p.doc.Base()
	p.spaces = p.defaultSpaces
	p.metadataKeys = make(map[string]int)
	p.lastError = nil
	p.syntaxErrors = nil
}

// Document returns the last parsed document. It is nil if parsing failed.
func (p *Parser) Document() *Document {
	if p.lastError != nil {
		return nil
	}
	return p.doc
}

// SyntaxErrors returns all the diagnostics of the last parse, in order.
func (p *Parser) SyntaxErrors() []*SyntaxError {
	return p.syntaxErrors
}

// HasErrors reports whether any diagnostic is worse than a warning.
func (p *Parser) HasErrors() bool {
	for _, se := range p.syntaxErrors {
		if se.Severity > Warning {
			return true
		}
	}
	return false
}

// Spaces returns the indentation unit in effect at the end of the parse.
func (p *Parser) Spaces() int {
	return p.spaces
}

func (p *Parser) AddSyntaxError(se *SyntaxError) {
	p.syntaxErrors = append(p.syntaxErrors, se)

	switch se.Severity {
	case Warning:
		p.log.Warnw(se.Msg, "file", se.Filename, "line", se.Line, "text", se.Text)
	default:
		p.log.Errorw(se.Msg, "file", se.Filename, "line", se.Line, "text", se.Text, "severity", se.Severity.String())
	}
}

// report adds a diagnostic for the statement.
func (p *Parser) report(stmt statement, sev Severity, format string, args ...any) *SyntaxError {
	se := &SyntaxError{
		Filename: p.fileName,
		Line:     stmt.Line,
		Text:     stmt.Raw,
		Severity: sev,
		Msg:      fmt.Sprintf(format, args...),
	}
	p.AddSyntaxError(se)
	return se
}

// statement is a logical line: one physical line, or several when an
// attribute list spans more than one.
type statement struct {
	Line int

	// Text has no indentation and no trailing comment
	Text string

	// Raw is the original text, for diagnostics
	Raw string
}

// parseLine processes one physical line, and any line that continues it.
func (p *Parser) parseLine(line Text) error {
	trimmed := strings.TrimSpace(line.Content)
	stmt := statement{Line: line.LineNumber, Text: trimmed, Raw: line.Content}

	// Blank lines and comments are kept but do not take part in indentation
	if len(trimmed) == 0 {
		p.addStructural(&Blank{Line: line.LineNumber})
		return nil
	}
	if trimmed[0] == commentTag {
		p.addStructural(&Comment{Text: trimmed, Line: line.LineNumber})
		return nil
	}

	if err := p.trackIndentation(stmt, line.Content); err != nil {
		return err
	}

	// Metadata is only possible at the top of the tree
	if p.current == p.doc.Base() && isMetadataLine(stripComment(trimmed)) {
		p.parseMetadata(stmt)
		return nil
	}

	kind, rest, isLevel := levelKeyword(stripComment(trimmed))

	stmt, ok := p.readStatement(stmt, isLevel)
	if !ok {
		// The children of a level that could not be read still need a parent
		if isLevel {
			p.enterPlaceholderLevel(stmt, kind, rest)
		}
		return nil
	}

	if kind, rest, ok := levelKeyword(stmt.Text); ok {
		p.parseLevel(stmt, kind, rest)
		return nil
	}

	p.parseTopicLine(stmt)
	return nil
}

// trackIndentation moves the current level up as many levels as the
// indentation decreased. An increase is only possible by entering a level,
// which is done when the level line is parsed.
func (p *Parser) trackIndentation(stmt statement, raw string) error {
	width := indentationWidth(raw, p.spaces)

	if width%p.spaces != 0 {
		se := p.report(stmt, Fatal, msgIndentNotMultiple, width, p.spaces)
		return se
	}

	depth := width / p.spaces
	if depth > p.current.Depth {
		se := p.report(stmt, Fatal, msgIndentTooDeep)
		return se
	}

	for p.current.Depth > depth {
		p.current = p.current.ParentLevel()
	}

	return nil
}

// indentationWidth counts the leading blanks of a line. A tab counts as a
// whole indentation unit.
func indentationWidth(raw string, unit int) int {
	width := 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case blank:
			width++
		case tab:
			width += unit
		default:
			return width
		}
	}
	return width
}

// readStatement pulls further physical lines while the statement has an
// attribute list that is not closed. If the input ends first the statement
// is dropped, and the pulled lines that may be statements of their own are
// given back to the line buffer.
func (p *Parser) readStatement(stmt statement, isLevel bool) (statement, bool) {
	text, raw := stmt.Text, stmt.Raw
	var pulled []Text

	for hasUnterminatedSet(stripComment(text)) {
		next, ok := p.lines.Poll()
		if !ok {
			p.report(stmt, Error, msgUnterminatedSet)
			p.giveBack(stmt, isLevel, pulled)
			return stmt, false
		}
		pulled = append(pulled, next)
		text += "\n" + next.Content
		raw += "\n" + next.Content
	}

	stmt.Text = strings.TrimSpace(stripComment(text))
	stmt.Raw = raw
	return stmt, true
}

// giveBack rewinds the line buffer to the first pulled line that could start
// a statement: one not indented deeper than the statement, or than its
// children for a level. Deeper lines before it are taken as continuation
// lines and dropped with the statement.
func (p *Parser) giveBack(stmt statement, isLevel bool, pulled []Text) {
	limit := indentationWidth(stmt.Raw, p.spaces)
	if isLevel {
		limit += p.spaces
	}

	for i, l := range pulled {
		if strings.TrimSpace(l.Content) == "" {
			continue
		}
		if indentationWidth(l.Content, p.spaces) <= limit {
			p.lines.Rewind(len(pulled) - i)
			return
		}
	}
}

// enterPlaceholderLevel opens an empty level for a level line whose attribute
// list never closes. Only the title is kept.
func (p *Parser) enterPlaceholderLevel(stmt statement, kind LevelType, rest string) {
	level := p.enterLevel(kind, stmt.Line)

	head := rest
	if set, found := FindVariableSet(rest, startSet, endSet, 0); found {
		head = rest[:set.Start]
	}
	level.Title = unescape(strings.TrimSpace(head))
}

// addStructural places comments and blank lines. Before the first level or
// topic they belong to the document header, later to the current level.
func (p *Parser) addStructural(n Node) {
	base := p.doc.Base()
	if p.current == base && len(base.Children) == 0 {
		p.doc.Header = append(p.doc.Header, n)
		return
	}
	p.current.appendChild(n)
}

// levelKeyword recognizes "KEYWORD" and "KEYWORD: rest" lines.
func levelKeyword(text string) (LevelType, string, bool) {
	keyword, rest := text, ""
	if i := strings.IndexByte(text, ':'); i != -1 {
		keyword, rest = text[:i], text[i+1:]
	}

	kind, ok := levelKeywords[strings.ToUpper(strings.TrimSpace(keyword))]
	if !ok {
		return 0, "", false
	}

	return kind, strings.TrimSpace(rest), true
}
