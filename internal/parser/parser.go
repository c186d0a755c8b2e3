// Package parser is the concrete (default) implementation of the
// lexer/parser the driver treats as an external collaborator (spec.md
// §1: "only their interfaces are specified"). It covers the subset of
// the bracketed Sass syntax the driver's pipeline needs to exercise:
// @import, @media/@supports/generic at-rules, nested rulesets,
// declarations and comments. Full Sass expression/selector grammar is
// out of scope.
package parser

import (
	"strings"

	"github.com/winsider/libsass/internal/ast"
	"github.com/winsider/libsass/internal/diagnostics"
)

// ImportDirective is one comma-separated specifier of an `@import`
// statement as written in source, before classification.
type ImportDirective struct {
	Specifier string
	Queries   string // media/supports query text following the specifier list, if any
	Span      diagnostics.SourceSpan
}

// ImportHook is invoked by the parser every time it encounters an
// `@import` statement; it returns the statement(s) to splice into the
// tree in its place (an *ast.Import for CSS passthrough, an
// *ast.ImportStub per resolved file, or both), or an error that aborts
// the parse (AmbiguousImport, ImportLoop, ImportNotFound and friends
// all surface this way). This is how the driver's Loader Pipeline (out
// of this package's concern) gets a chance to run per-node
// classification as the ordering guarantees require.
type ImportHook func(dir ImportDirective) ([]ast.Statement, error)

// Parser turns a source buffer into a StyleSheet root, invoking hook
// for every @import encountered in source order.
type Parser struct {
	src   string
	pos   int
	path  string
	resIx int
	line  int
	col   int
	hook  ImportHook
}

// New returns a Parser over src, attributing spans to path/resIx, that
// calls hook for each @import.
func New(src, path string, resIx int, hook ImportHook) *Parser {
	return &Parser{src: src, path: path, resIx: resIx, line: 1, col: 1, hook: hook}
}

// Parse consumes the entire buffer and returns the root Block, or an
// InvalidSyntax error on malformed input (unterminated block, string or
// comment).
func (p *Parser) Parse() (*ast.Block, error) {
	block, err := p.parseBlock(false)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errf("unexpected trailing content")
	}
	return block, nil
}

func (p *Parser) parseBlock(nested bool) (*ast.Block, error) {
	block := &ast.Block{}
	for {
		p.skipSpace()
		if p.eof() {
			if nested {
				return nil, p.errf("unterminated block")
			}
			return block, nil
		}
		if nested && p.peek() == '}' {
			p.advance()
			return block, nil
		}
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmts...)
	}
}

func (p *Parser) parseStatement() ([]ast.Statement, error) {
	p.skipSpace()
	span := p.span()

	switch {
	case p.lookingAt("/*"):
		c, err := p.parseBlockComment(span)
		if err != nil {
			return nil, err
		}
		return []ast.Statement{c}, nil
	case p.lookingAt("//"):
		return []ast.Statement{p.parseLineComment(span)}, nil
	case p.peek() == '@':
		return p.parseAtRuleOrImport(span)
	default:
		stmt, err := p.parseRulesetOrDeclaration(span)
		if err != nil {
			return nil, err
		}
		return []ast.Statement{stmt}, nil
	}
}

func (p *Parser) parseBlockComment(span diagnostics.SourceSpan) (ast.Statement, error) {
	important := p.lookingAt("/*!")
	p.advanceN(2)
	start := p.pos
	end := strings.Index(p.src[p.pos:], "*/")
	if end < 0 {
		return nil, p.errf("unterminated comment")
	}
	text := p.src[start : start+end]
	p.advanceN(end + 2)
	return ast.NewComment(span, strings.TrimSpace(text), important), nil
}

func (p *Parser) parseLineComment(span diagnostics.SourceSpan) ast.Statement {
	end := strings.IndexByte(p.src[p.pos:], '\n')
	var text string
	if end < 0 {
		text = p.src[p.pos:]
		p.advanceN(len(text))
	} else {
		text = p.src[p.pos : p.pos+end]
		p.advanceN(end)
	}
	return ast.NewComment(span, strings.TrimSpace(strings.TrimPrefix(text, "//")), false)
}

func (p *Parser) parseAtRuleOrImport(span diagnostics.SourceSpan) ([]ast.Statement, error) {
	p.advance() // '@'
	keyword := p.readIdent()

	if keyword == "import" {
		return p.parseImport(span)
	}

	prelude, terminator, err := p.readPreludeUntilTerminator()
	if err != nil {
		return nil, err
	}
	prelude = strings.TrimSpace(prelude)

	if terminator == ';' || terminator == 0 {
		return []ast.Statement{ast.NewAtRule(span, "@"+keyword, "", prelude, nil)}, nil
	}

	body, err := p.parseBlock(true)
	if err != nil {
		return nil, err
	}

	switch keyword {
	case "media":
		return []ast.Statement{ast.NewMedia(span, prelude, body)}, nil
	case "supports":
		return []ast.Statement{ast.NewSupports(span, prelude, body)}, nil
	default:
		return []ast.Statement{ast.NewAtRule(span, "@"+keyword, prelude, "", body)}, nil
	}
}

func (p *Parser) parseImport(span diagnostics.SourceSpan) ([]ast.Statement, error) {
	p.skipSpace()
	var specifiers []string
	for {
		p.skipSpace()
		if p.peek() == '"' || p.peek() == '\'' {
			s, err := p.readString()
			if err != nil {
				return nil, err
			}
			specifiers = append(specifiers, s)
		} else {
			return nil, p.errf("expected quoted import specifier")
		}
		p.skipSpace()
		if p.peek() == ',' {
			p.advance()
			continue
		}
		break
	}
	rest, terminator, err := p.readPreludeUntilTerminator()
	if err != nil {
		return nil, err
	}
	if terminator != ';' {
		return nil, p.errf("@import must end with ';'")
	}
	queries := strings.TrimSpace(rest)

	if p.hook == nil {
		return nil, nil
	}
	var out []ast.Statement
	for _, spec := range specifiers {
		stmts, err := p.hook(ImportDirective{Specifier: spec, Queries: queries, Span: span})
		if err != nil {
			return nil, err
		}
		out = append(out, stmts...)
	}
	return out, nil
}

// parseRulesetOrDeclaration reads raw text up to the first top-level
// ';' or unmatched '{' to decide whether this is a nested ruleset
// (selector '{' ... '}') or a flat declaration ('property: value;').
func (p *Parser) parseRulesetOrDeclaration(span diagnostics.SourceSpan) (ast.Statement, error) {
	head, terminator, err := p.readPreludeUntilTerminator()
	if err != nil {
		return nil, err
	}
	head = strings.TrimSpace(head)

	if terminator == '{' {
		body, err := p.parseBlock(true)
		if err != nil {
			return nil, err
		}
		return ast.NewRuleset(span, head, body, isPlaceholderSelector(head)), nil
	}

	// terminator == ';' or EOF: a declaration.
	idx := strings.IndexByte(head, ':')
	if idx < 0 {
		return nil, p.errf("expected ':' in declaration %q", head)
	}
	prop := strings.TrimSpace(head[:idx])
	val := strings.TrimSpace(head[idx+1:])
	return ast.NewDeclaration(span, prop, valueOf(val)), nil
}

func isPlaceholderSelector(selector string) bool {
	if selector == "" {
		return false
	}
	for _, part := range strings.Fields(selector) {
		if !strings.HasPrefix(part, "%") {
			return false
		}
	}
	return true
}

// valueOf builds an ast.Value, recognising the printability signal
// Emit needs for a bracketed list (`[...]`). The parser records only
// the raw text and the bracket shape; QuotedEmptyNoMark and
// ListAllInvisible stay false, and no later stage sets them.
func valueOf(text string) ast.Value {
	v := ast.Value{Text: text}
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		v.ListBracketed = true
	}
	return v
}

func (p *Parser) errf(format string, args ...any) error {
	return diagnostics.New(diagnostics.InvalidSyntax, p.span(), nil, format, args...)
}

func (p *Parser) span() diagnostics.SourceSpan {
	return diagnostics.SourceSpan{
		Path:          p.path,
		Buffer:        p.src,
		ResourceIndex: p.resIx,
		Position:      diagnostics.Position{Line: p.line, Column: p.col},
	}
}

func (p *Parser) eof() bool { return p.pos >= len(p.src) }

func (p *Parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *Parser) lookingAt(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *Parser) advance() { p.advanceN(1) }

func (p *Parser) advanceN(n int) {
	for i := 0; i < n && p.pos < len(p.src); i++ {
		if p.src[p.pos] == '\n' {
			p.line++
			p.col = 1
		} else {
			p.col++
		}
		p.pos++
	}
}

func (p *Parser) skipSpace() {
	for !p.eof() {
		c := p.peek()
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			p.advance()
			continue
		}
		break
	}
}

func (p *Parser) readIdent() string {
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			p.advance()
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *Parser) readString() (string, error) {
	quote := p.peek()
	p.advance()
	start := p.pos
	for {
		if p.eof() {
			return "", p.errf("unterminated string")
		}
		if p.peek() == quote {
			s := p.src[start:p.pos]
			p.advance()
			return s, nil
		}
		p.advance()
	}
}

// readPreludeUntilTerminator reads raw text up to the next top-level
// ';', '{' or '}' (respecting nested parens/strings), returning the
// prelude text and which terminator byte was found ('{' / ';' / '}' /
// 0 on EOF). The terminator byte itself is consumed for ';'/'{' but
// NOT for '}' (so the caller's enclosing parseBlock sees it).
func (p *Parser) readPreludeUntilTerminator() (string, byte, error) {
	start := p.pos
	depth := 0
	for !p.eof() {
		c := p.peek()
		switch c {
		case '"', '\'':
			if _, err := p.readString(); err != nil {
				return "", 0, err
			}
			continue
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '{':
			if depth == 0 {
				text := p.src[start:p.pos]
				p.advance()
				return text, '{', nil
			}
		case ';':
			if depth == 0 {
				text := p.src[start:p.pos]
				p.advance()
				return text, ';', nil
			}
		case '}':
			if depth == 0 {
				return p.src[start:p.pos], '}', nil
			}
		}
		p.advance()
	}
	return p.src[start:p.pos], 0, nil
}
