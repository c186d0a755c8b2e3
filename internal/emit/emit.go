// Package emit is the emitter the driver imposes a contract on (§4.7):
// set_filename/add_source_index bookkeeping, a visitor-driven
// double-dispatch walk, get_buffer, and the two-pass prelude/body
// sequencing for surviving @import nodes and leading comments.
package emit

import (
	"strings"

	"github.com/winsider/libsass/internal/ast"
)

// Style selects the four output styles named in the contract. Nested
// and Expanded render one rule per line with its declarations inline;
// Compact additionally drops the blank line between top-level rules;
// Compressed drops every byte of non-significant whitespace.
type Style int

const (
	Nested Style = iota
	Expanded
	Compact
	Compressed
)

// OutputBuffer is the emitter's product: the rendered CSS plus a slot
// for the position mappings a source-map renderer reads. Emit records
// no mappings, so Mappings is always empty.
type OutputBuffer struct {
	CSS      string
	Mappings []Mapping
}

// Mapping is one output-position -> source-position correspondence.
type Mapping struct {
	OutLine, OutColumn int
	ResourceIndex      int
	SrcLine, SrcColumn int
}

// Emitter renders a StyleSheet's expanded, cssized tree to CSS text in
// one of the four output styles. A Ruleset's Body is rendered as leaf
// content only (declarations, comments); cssize does not hoist a
// Ruleset nested inside a Ruleset, and Emit skips such a nested
// Ruleset. Media and Supports bodies may nest Rulesets, which is legal
// CSS.
type Emitter struct {
	style         Style
	filename      string
	sourceIndices []int
	mappings      []Mapping
}

// New returns an Emitter for the given output style.
func New(style Style) *Emitter {
	return &Emitter{style: style}
}

// SetFilename records the output's relative path, called once before
// emission.
func (e *Emitter) SetFilename(relPath string) { e.filename = relPath }

// AddSourceIndex records a Resource Store index. Emit records no
// mappings, so the recorded indices are not referenced.
func (e *Emitter) AddSourceIndex(i int) { e.sourceIndices = append(e.sourceIndices, i) }

// Emit walks root and produces the final OutputBuffer. It performs the
// two-pass sequencing §4.7 requires: surviving @import nodes and any
// leading comments (before the first statement that is neither a
// comment nor an @import) are
// buffered ahead of the body, in source order, regardless of where in
// the statement list they were encountered.
func (e *Emitter) Emit(root *ast.Block) OutputBuffer {
	consumed := make(map[ast.Statement]bool)
	var preludeImports, preludeComments []string
	leadingDone := false

	if root != nil {
		for _, stmt := range root.Statements {
			switch n := stmt.(type) {
			case *ast.Import:
				preludeImports = append(preludeImports, e.formatImport(n))
				consumed[stmt] = true
			case *ast.Comment:
				if !leadingDone {
					preludeComments = append(preludeComments, e.formatComment(n))
					consumed[stmt] = true
				}
			default:
				leadingDone = true
			}
		}
	}

	var body strings.Builder
	if root != nil {
		first := true
		for _, stmt := range root.Statements {
			if consumed[stmt] {
				continue
			}
			e.emitTopLevel(&body, stmt, 0, &first)
		}
	}

	var out strings.Builder
	for _, s := range preludeImports {
		out.WriteString(s)
		out.WriteString(e.lf())
	}
	for _, s := range preludeComments {
		out.WriteString(s)
		out.WriteString(e.lf())
	}
	if (len(preludeImports) > 0 || len(preludeComments) > 0) && body.Len() > 0 && e.style != Compressed {
		out.WriteString(e.lf())
	}
	out.WriteString(body.String())

	return OutputBuffer{CSS: out.String(), Mappings: e.mappings}
}

// emitTopLevel renders one statement at nesting depth, separating
// successive rule-like statements with a blank line under
// Nested/Expanded.
func (e *Emitter) emitTopLevel(w *strings.Builder, stmt ast.Statement, depth int, first *bool) {
	if r, ok := stmt.(*ast.Ruleset); ok && r.PlaceholderOnly && !r.Referenced {
		return // nothing rendered, so it must not consume the "first" slot
	}
	switch stmt.(type) {
	case *ast.Ruleset, *ast.Media, *ast.Supports, *ast.AtRule:
		e.blankLineBetweenRules(w, first)
	}
	e.emitStatement(w, stmt, depth)
}

func (e *Emitter) emitStatement(w *strings.Builder, stmt ast.Statement, depth int) {
	switch n := stmt.(type) {
	case *ast.Ruleset:
		if n.PlaceholderOnly && !n.Referenced {
			return // cssize's placeholder-removal pass should already have dropped these
		}
		e.writeIndent(w, depth)
		w.WriteString(n.Selector)
		w.WriteString(e.openBrace())
		e.emitInlineBody(w, n.Body)
		w.WriteString(e.closeBrace())
		w.WriteString(e.lf())

	case *ast.Media:
		e.writeIndent(w, depth)
		w.WriteString("@media ")
		w.WriteString(n.Queries)
		e.emitNestedBlock(w, n.Body, depth)

	case *ast.Supports:
		e.writeIndent(w, depth)
		w.WriteString("@supports ")
		w.WriteString(n.Condition)
		e.emitNestedBlock(w, n.Body, depth)

	case *ast.AtRule:
		e.writeIndent(w, depth)
		w.WriteString(n.Keyword)
		if n.Selector != "" {
			w.WriteString(" ")
			w.WriteString(n.Selector)
		}
		if n.Body == nil {
			if n.Value != "" {
				w.WriteString(" ")
				w.WriteString(n.Value)
			}
			w.WriteString(";")
			w.WriteString(e.lf())
			return
		}
		e.emitNestedBlock(w, n.Body, depth)

	case *ast.Declaration:
		if !n.Value.Printable() {
			return
		}
		e.writeIndent(w, depth)
		w.WriteString(e.formatDeclaration(n))
		w.WriteString(e.lf())

	case *ast.Comment:
		e.writeIndent(w, depth)
		w.WriteString(e.formatComment(n))
		w.WriteString(e.lf())

	case *ast.Import:
		e.writeIndent(w, depth)
		w.WriteString(e.formatImport(n))
		w.WriteString(e.lf())

	case *ast.ImportStub:
		// Expand should have replaced every stub before Emit runs.
	}
}

// emitNestedBlock renders a Media/Supports/AtRule body as a real
// multi-line nested block, since @media and @supports legally contain
// further rulesets in CSS.
func (e *Emitter) emitNestedBlock(w *strings.Builder, body *ast.Block, depth int) {
	w.WriteString(e.openBrace())
	w.WriteString(e.lf())
	if body != nil {
		first := true
		for _, stmt := range body.Statements {
			e.emitTopLevel(w, stmt, depth+1, &first)
		}
	}
	e.writeIndent(w, depth)
	w.WriteString(e.closeBrace())
	w.WriteString(e.lf())
}

// emitInlineBody renders a Ruleset's leaf declarations/comments inline
// between its braces, one rule per output line as the concrete
// scenarios expect (`.y { color: blue; }`), separated by a space.
func (e *Emitter) emitInlineBody(w *strings.Builder, body *ast.Block) {
	if body == nil {
		return
	}
	wrote := false
	for _, stmt := range body.Statements {
		var text string
		switch n := stmt.(type) {
		case *ast.Declaration:
			if !n.Value.Printable() {
				continue
			}
			text = e.formatDeclaration(n)
		case *ast.Comment:
			text = e.formatComment(n)
		default:
			continue // a stray nested Ruleset here means cssize did not run; skip defensively
		}
		if wrote {
			w.WriteString(" ")
		} else if e.style != Compressed {
			w.WriteString(" ")
		}
		w.WriteString(text)
		wrote = true
	}
	if wrote && e.style != Compressed {
		w.WriteString(" ")
	}
}

func (e *Emitter) formatDeclaration(n *ast.Declaration) string {
	if e.style == Compressed {
		return n.Property + ":" + n.Value.Text + ";"
	}
	return n.Property + ": " + n.Value.Text + ";"
}

func (e *Emitter) formatImport(n *ast.Import) string {
	var url string
	if len(n.URLs) > 0 {
		url = n.URLs[0]
	}
	text := `@import url("` + url + `")`
	if n.Queries != "" {
		text += " " + n.Queries
	}
	return text + ";"
}

func (e *Emitter) formatComment(n *ast.Comment) string {
	if e.style == Compressed && !n.Important {
		return ""
	}
	if strings.Contains(n.Text, "\n") {
		return "/*" + n.Text + "*/"
	}
	return "/* " + n.Text + " */"
}

func (e *Emitter) blankLineBetweenRules(w *strings.Builder, first *bool) {
	if e.style == Compact || e.style == Compressed {
		*first = false
		return
	}
	if !*first {
		w.WriteString(e.lf())
	}
	*first = false
}

func (e *Emitter) writeIndent(w *strings.Builder, depth int) {
	if e.style == Compressed || e.style == Compact {
		return
	}
	w.WriteString(strings.Repeat("  ", depth))
}

func (e *Emitter) openBrace() string {
	if e.style == Compressed {
		return "{"
	}
	return " {"
}

func (e *Emitter) closeBrace() string {
	return "}"
}

func (e *Emitter) lf() string {
	if e.style == Compressed {
		return ""
	}
	return "\n"
}
