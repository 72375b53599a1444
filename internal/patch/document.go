package patch

import (
	"bytes"
	"regexp"
)

// keyPrefix matches a base key that starts a line or follows {, ( or a comma,
// so database: or rebase: never count.
const keyPrefix = `(?:^|[{(,\s])(?:base|'base'|"base")[ \t]*:`

// declPattern matches a base-path declaration: base: '...' or base: "..."
// with an optionally quoted key. Group 1 holds a single-quoted value,
// group 2 a double-quoted one.
var declPattern = regexp.MustCompile(keyPrefix + `[ \t]*(?:'((?:[^'\\\n]|\\.)*)'|"((?:[^"\\\n]|\\.)*)")`)

// keyPattern matches any base key, whatever its value.
var keyPattern = regexp.MustCompile(keyPrefix)

// Document is a configuration file as an ordered sequence of lines.
// It keeps the raw bytes so rendering is lossless.
type Document struct {
	data []byte
}

// Declaration is one base-path declaration found in a Document.
type Declaration struct {
	// Line is 1-based.
	Line  int
	Value string
	Quote byte

	// byte offsets of the raw value (between the quotes)
	start, end int
}

type lineSpan struct {
	start int // first byte
	end   int // end of content, excluding "\r\n" or "\n"
	next  int // start of the following line
}

// ParseDocument copies data into a Document.
func ParseDocument(data []byte) *Document {
	return &Document{data: bytes.Clone(data)}
}

// NewDocument builds a Document from a string.
func NewDocument(s string) *Document {
	return &Document{data: []byte(s)}
}

// Bytes returns a copy of the raw content.
func (d *Document) Bytes() []byte {
	return bytes.Clone(d.data)
}

func (d *Document) String() string {
	return string(d.data)
}

// Lines returns the document lines without their terminators.
// A trailing newline does not produce an empty last line.
func (d *Document) Lines() []string {
	spans := d.spans()
	lines := make([]string, 0, len(spans))
	for _, s := range spans {
		lines = append(lines, string(d.data[s.start:s.end]))
	}
	return lines
}

// Declarations lists every base-path declaration in document order.
// Several declarations on one line are all reported; commented out ones
// are not.
func (d *Document) Declarations() []Declaration {
	var out []Declaration
	for i, s := range d.spans() {
		line := code(d.data[s.start:s.end])
		for _, m := range declPattern.FindAllSubmatchIndex(line, -1) {
			decl := Declaration{Line: i + 1}
			switch {
			case m[2] >= 0:
				decl.Quote = '\''
				decl.start, decl.end = s.start+m[2], s.start+m[3]
			default:
				decl.Quote = '"'
				decl.start, decl.end = s.start+m[4], s.start+m[5]
			}
			decl.Value = string(d.data[decl.start:decl.end])
			out = append(out, decl)
		}
	}
	return out
}

// HasBaseKey reports whether some line sets base to anything, including
// expressions Declarations cannot rewrite.
func (d *Document) HasBaseKey() bool {
	for _, s := range d.spans() {
		if keyPattern.Match(code(d.data[s.start:s.end])) {
			return true
		}
	}
	return false
}

// code returns line up to a // comment outside string literals. Lines
// inside a block comment ("/*", " * ...") yield nothing.
func code(line []byte) []byte {
	trimmed := bytes.TrimLeft(line, " \t")
	if bytes.HasPrefix(trimmed, []byte("/*")) || bytes.HasPrefix(trimmed, []byte("*")) {
		return nil
	}
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0 && c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return line[:i]
		}
	}
	return line
}

func (d *Document) spans() []lineSpan {
	var spans []lineSpan
	start := 0
	for start < len(d.data) {
		i := bytes.IndexByte(d.data[start:], '\n')
		if i < 0 {
			spans = append(spans, lineSpan{start: start, end: len(d.data), next: len(d.data)})
			break
		}
		end := start + i
		next := end + 1
		if end > start && d.data[end-1] == '\r' {
			end--
		}
		spans = append(spans, lineSpan{start: start, end: end, next: next})
		start = next
	}
	return spans
}

// eol returns the terminator used by span s, or "" for an unterminated last line.
func (d *Document) eol(s lineSpan) string {
	return string(d.data[s.end:s.next])
}
