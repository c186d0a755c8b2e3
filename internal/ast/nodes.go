// Package ast holds the minimal abstract-syntax-tree contract the driver
// imposes on the (out-of-scope) lexer/parser and evaluator: a tagged
// variant per node kind plus a Visitor trait, so the driver can dispatch
// through double-dispatch without reflection (see DESIGN NOTES in
// spec.md on cyclic references and double dispatch).
package ast

import "github.com/winsider/libsass/internal/diagnostics"

// Node is any AST node that carries a SourceSpan for diagnostics and
// source-map emission.
type Node interface {
	Span() diagnostics.SourceSpan
}

// Statement is any top-level-or-nested tree member. Concrete statement
// types implement Accept for visitor double dispatch.
type Statement interface {
	Node
	Accept(v Visitor)
}

// Block is an ordered sequence of Statements, the body of a StyleSheet,
// Ruleset, Media, or AtRule.
type Block struct {
	Statements []Statement
}

// StyleSheet is (resource, root_block): once inserted into the Sheet
// Registry it is never mutated, though it may be walked by multiple
// visitors.
type StyleSheet struct {
	ResourceIndex int
	AbsPath       string
	Root          *Block
}

type base struct {
	span diagnostics.SourceSpan
}

func (b base) Span() diagnostics.SourceSpan { return b.span }

// NewBase builds the embeddable span-holder every concrete node type
// composes.
func NewBase(span diagnostics.SourceSpan) base { return base{span: span} }

// Ruleset is a selector plus its declaration block. PlaceholderOnly
// marks a ruleset whose selector is entirely placeholder-derived
// (`%foo`), a candidate for placeholder removal when unused.
type Ruleset struct {
	base
	Selector        string
	Body            *Block
	PlaceholderOnly bool
	Referenced      bool
}

func (r *Ruleset) Accept(v Visitor) { v.VisitRuleset(r) }

// NewRuleset builds a Ruleset node.
func NewRuleset(span diagnostics.SourceSpan, selector string, body *Block, placeholderOnly bool) *Ruleset {
	return &Ruleset{base: NewBase(span), Selector: selector, Body: body, PlaceholderOnly: placeholderOnly}
}

// Declaration is a single `property: value;` pair.
type Declaration struct {
	base
	Property string
	Value    Value
}

func (d *Declaration) Accept(v Visitor) { v.VisitDeclaration(d) }

// NewDeclaration builds a Declaration node.
func NewDeclaration(span diagnostics.SourceSpan, property string, value Value) *Declaration {
	return &Declaration{base: NewBase(span), Property: property, Value: value}
}

// Value is a declaration or at-rule's right-hand side. The two boolean
// flags drive Emit's declaration-visibility filtering (§4.7): a
// declaration is skipped when its value is a quoted string with empty
// content and no surviving quote mark, or a non-bracketed list whose
// items are all invisible. This is a visual-printability rule, not an
// evaluation rule — the declaration still exists in the tree.
type Value struct {
	Text             string
	QuotedEmptyNoMark bool
	ListAllInvisible bool
	ListBracketed    bool
}

// Printable reports whether Emit should render this value at all.
func (v Value) Printable() bool {
	if v.QuotedEmptyNoMark {
		return false
	}
	if v.ListAllInvisible && !v.ListBracketed {
		return false
	}
	return true
}

// Comment is a `/* ... */` or `// ...` comment node. Important comments
// (`/*! ... */`) survive compressed output.
type Comment struct {
	base
	Text      string
	Important bool
}

func (c *Comment) Accept(v Visitor) { v.VisitComment(c) }

// NewComment builds a Comment node.
func NewComment(span diagnostics.SourceSpan, text string, important bool) *Comment {
	return &Comment{base: NewBase(span), Text: text, Important: important}
}

// AtRule is a generic at-rule (`@font-face`, `@page`, a user at-rule).
// Media and Supports have their own node types because the emitter
// imposes different sequencing/printability rules on them.
type AtRule struct {
	base
	Keyword  string
	Selector string
	Value    string
	Body     *Block // nil for a statement-form at-rule (`@charset "x";`)
}

func (a *AtRule) Accept(v Visitor) { v.VisitAtRule(a) }

// NewAtRule builds an AtRule node.
func NewAtRule(span diagnostics.SourceSpan, keyword, selector, value string, body *Block) *AtRule {
	return &AtRule{base: NewBase(span), Keyword: keyword, Selector: selector, Value: value, Body: body}
}

// Media is an `@media` rule; Queries have already been merged/evaluated
// by the time Cssize hands the tree to Emit.
type Media struct {
	base
	Queries string
	Body    *Block
}

func (m *Media) Accept(v Visitor) { v.VisitMedia(m) }

// NewMedia builds a Media node.
func NewMedia(span diagnostics.SourceSpan, queries string, body *Block) *Media {
	return &Media{base: NewBase(span), Queries: queries, Body: body}
}

// Supports is an `@supports` rule.
type Supports struct {
	base
	Condition string
	Body      *Block
}

func (s *Supports) Accept(v Visitor) { v.VisitSupports(s) }

// NewSupports builds a Supports node.
func NewSupports(span diagnostics.SourceSpan, condition string, body *Block) *Supports {
	return &Supports{base: NewBase(span), Condition: condition, Body: body}
}

// Import is an `@import` node surviving to the output tree. It carries
// only CSS-passthrough URLs (media/supports-qualified, non-file scheme
// or `.css`) plus any query text; a resolved filesystem import is
// represented by an ImportStub instead.
type Import struct {
	base
	URLs    []string
	Queries string
}

func (i *Import) Accept(v Visitor) { v.VisitImport(i) }

// NewImport builds an Import node carrying CSS-passthrough URLs.
func NewImport(span diagnostics.SourceSpan, urls []string, queries string) *Import {
	return &Import{base: NewBase(span), URLs: urls, Queries: queries}
}

// ImportStub is the placeholder the loader inserts for each resolved
// filesystem include; Expand replaces it with the included sheet's root
// statements by consulting the Sheet Registry.
type ImportStub struct {
	base
	AbsPath string
}

func (s *ImportStub) Accept(v Visitor) { v.VisitImportStub(s) }

// NewImportStub builds an ImportStub node for a resolved filesystem
// include awaiting Expand.
func NewImportStub(span diagnostics.SourceSpan, absPath string) *ImportStub {
	return &ImportStub{base: NewBase(span), AbsPath: absPath}
}
