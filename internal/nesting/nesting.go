// Package nesting is the nest-check stage the driver runs twice per
// compile (§4.6 steps 2 and 5): once over every registered sheet's
// root before expansion, once over the expanded entry root afterward.
// Full Sass nesting-legality (selector combination, parent-reference
// resolution, mixin-content placement) belongs to the evaluator's own
// specification; this package owns only the structural invariants the
// driver itself can check without that machinery: a declaration can
// never appear directly inside an `@media`/`@supports` body, since
// those at-rules only ever contain further rules or at-rules in CSS.
package nesting

import (
	"github.com/winsider/libsass/internal/ast"
	"github.com/winsider/libsass/internal/diagnostics"
)

// Check walks root and returns the first structural violation found,
// or nil. Failure aborts the compile per the contract.
func Check(root *ast.Block) error {
	c := &checker{}
	ast.Walk(root, c)
	return c.err
}

type checker struct {
	ast.DefaultVisitor
	err error
}

func (c *checker) VisitMedia(n *ast.Media) {
	if c.err != nil {
		return
	}
	c.err = c.checkNoBareDeclaration(n.Body, "@media")
}

func (c *checker) VisitSupports(n *ast.Supports) {
	if c.err != nil {
		return
	}
	c.err = c.checkNoBareDeclaration(n.Body, "@supports")
}

func (c *checker) checkNoBareDeclaration(body *ast.Block, keyword string) error {
	if body == nil {
		return nil
	}
	for _, stmt := range body.Statements {
		if d, ok := stmt.(*ast.Declaration); ok {
			return diagnostics.New(diagnostics.InvalidSyntax, d.Span(), nil,
				"%s cannot contain a bare declaration %q; wrap it in a rule", keyword, d.Property)
		}
	}
	return nil
}
