// Package patch makes a build-tool configuration declare a base path
// exactly as requested, preserving everything else in the file.
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/HardDie/vitepages/internal/basepath"
	"github.com/HardDie/vitepages/internal/edit"
)

var (
	// ErrInvalidBasePath aborts patching before anything is touched.
	ErrInvalidBasePath = basepath.ErrInvalidBasePath
	// ErrMalformedTemplate means the default template could not be rendered.
	ErrMalformedTemplate = errors.New("malformed template")
	// ErrAnchorNotFound is non-fatal: the document is returned unchanged.
	ErrAnchorNotFound = errors.New("insertion anchor not found")
	// ErrBaseExpression is non-fatal: base is computed by the file itself
	// and the document is returned unchanged.
	ErrBaseExpression = errors.New("base is set by an expression")
)

// DefaultAnchor matches the line opening the exported config object, e.g.
//
//	export default defineConfig({
//	export default {
//	module.exports = defineConfig(({ mode }) => ({
//
// When the matched line opens a function body instead, as in
// defineConfig(({ mode }) => {, the object is the one opened by the first
// `return {` line of that body.
var DefaultAnchor = regexp.MustCompile(`^\s*(?:export\s+default|module\.exports\s*=).*\{\s*$`)

var (
	functionBody = regexp.MustCompile(`(?:=>|\bfunction\b[^{]*\))\s*\{\s*$`)
	returnObject = regexp.MustCompile(`^\s*return\s+(?:[\w.]+\(\s*)?\{\s*$`)
)

const defaultIndent = "  "

// Outcome tells what Patch did to the document.
type Outcome int

const (
	Unchanged Outcome = iota
	Created
	Replaced
	Inserted
	AnchorMissing
	// Expression means base is set to something other than a string
	// literal; the document is left alone.
	Expression
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Created:
		return "created"
	case Replaced:
		return "replaced"
	case Inserted:
		return "inserted"
	case AnchorMissing:
		return "anchor-missing"
	case Expression:
		return "expression"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Options configures Patch.
type Options struct {
	// BasePath must already be normalized to /<name>/.
	BasePath string
	// Anchor selects the line after which a missing declaration is inserted.
	// Nil means DefaultAnchor.
	Anchor *regexp.Regexp
	// Template is rendered when no document exists. Empty means DefaultTemplate.
	Template string
}

// Result is the patched document and how it was obtained.
type Result struct {
	Document *Document
	Outcome  Outcome
	// Replacements counts declarations whose value was rewritten.
	Replacements int
	// Line is the 1-based line of the inserted declaration, if any.
	Line int
}

// Changed reports whether the document differs from the input.
func (r Result) Changed() bool {
	switch r.Outcome {
	case Created, Replaced, Inserted:
		return true
	}
	return false
}

// Err returns the non-fatal reason an unchanged document was not patched:
// ErrAnchorNotFound or ErrBaseExpression.
func (r Result) Err() error {
	switch r.Outcome {
	case AnchorMissing:
		return ErrAnchorNotFound
	case Expression:
		return ErrBaseExpression
	}
	return nil
}

// Patch returns existing rewritten to declare opts.BasePath exactly as given.
// A nil existing document means the file is absent and the template is used.
// Applying Patch to its own output with the same base path is a no-op.
func Patch(existing *Document, opts Options) (Result, error) {
	if err := basepath.Validate(opts.BasePath); err != nil {
		return Result{}, err
	}

	if existing == nil {
		return fromTemplate(opts)
	}

	if decls := existing.Declarations(); len(decls) > 0 {
		return replace(existing, decls, opts.BasePath), nil
	}
	if existing.HasBaseKey() {
		return Result{Document: existing, Outcome: Expression}, nil
	}

	anchor := opts.Anchor
	if anchor == nil {
		anchor = DefaultAnchor
	}
	return insert(existing, anchor, opts.BasePath), nil
}

func fromTemplate(opts Options) (Result, error) {
	tmpl := opts.Template
	if tmpl == "" {
		tmpl = DefaultTemplate
	}
	out, err := Render(tmpl, opts.BasePath)
	if err != nil {
		return Result{}, err
	}
	doc := NewDocument(out)
	decls := doc.Declarations()
	if len(decls) == 0 {
		return Result{}, fmt.Errorf("%w: template does not declare base", ErrMalformedTemplate)
	}
	return Result{Document: doc, Outcome: Created, Line: decls[0].Line}, nil
}

func replace(doc *Document, decls []Declaration, p string) Result {
	buf := edit.NewBuffer(doc.data)
	for _, d := range decls {
		want := escape(p, d.Quote)
		if d.Value == want {
			continue
		}
		buf.Replace(d.start, d.end, want)
	}
	if buf.Len() == 0 {
		return Result{Document: doc, Outcome: Unchanged}
	}
	return Result{
		Document:     &Document{data: buf.Bytes()},
		Outcome:      Replaced,
		Replacements: buf.Len(),
	}
}

func insert(doc *Document, anchor *regexp.Regexp, p string) Result {
	spans := doc.spans()
	for i := 0; i < len(spans); i++ {
		line := doc.data[spans[i].start:spans[i].end]
		if !anchor.Match(line) {
			continue
		}
		if functionBody.Match(line) {
			i = returnLine(doc, spans, i)
			if i < 0 {
				break
			}
		}
		s := spans[i]

		indent := bodyIndent(doc, spans, i)
		q := preferredQuote(doc.data)
		decl := fmt.Sprintf("%sbase: %c%s%c,", indent, q, escape(p, q), q)

		buf := edit.NewBuffer(doc.data)
		if eol := doc.eol(s); eol != "" {
			buf.Insert(s.next, decl+eol)
		} else {
			buf.Insert(s.next, "\n"+decl)
		}
		return Result{
			Document: &Document{data: buf.Bytes()},
			Outcome:  Inserted,
			Line:     i + 2,
		}
	}
	return Result{Document: doc, Outcome: AnchorMissing}
}

// returnLine finds the first `return {` after the function opened at line
// from, or -1.
func returnLine(doc *Document, spans []lineSpan, from int) int {
	for j := from + 1; j < len(spans); j++ {
		if returnObject.Match(doc.data[spans[j].start:spans[j].end]) {
			return j
		}
	}
	return -1
}

// bodyIndent follows the indentation of the first non-blank line after the
// anchor when it is nested deeper, else the anchor's own plus two spaces.
func bodyIndent(doc *Document, spans []lineSpan, anchor int) string {
	a := leadingSpace(doc.data[spans[anchor].start:spans[anchor].end])
	for _, s := range spans[anchor+1:] {
		line := doc.data[s.start:s.end]
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		b := leadingSpace(line)
		if len(b) > len(a) && strings.HasPrefix(b, a) {
			return b
		}
		break
	}
	return a + defaultIndent
}

func leadingSpace(line []byte) string {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return string(line[:n])
}

// preferredQuote picks the quote the file uses most, single on a tie.
func preferredQuote(data []byte) byte {
	if bytes.Count(data, []byte{'"'}) > bytes.Count(data, []byte{'\''}) {
		return '"'
	}
	return '\''
}

// escape renders v as the body of a JavaScript string literal quoted with q.
func escape(v string, q byte) string {
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		c := v[i]
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case q:
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
