// Package cssize implements the one "cssize" responsibility this
// driver can do without the evaluator's selector-combination machinery
// (§4.6 step 6: "promote at-rules, merge media queries, hoist
// declarations out of parent rules per CSS semantics"): collapsing an
// `@media` block directly nested inside another `@media` block into a
// single block whose query text is the AND of both. Promoting at-rules
// and hoisting declarations out of parent rulesets both require
// combining two selectors into one (`.a { .b { ... } }` -> `.a .b {
// ... }`), which is the evaluator's nesting-resolution semantics and
// out of this driver's scope; a Ruleset nested inside another Ruleset
// is left as the evaluator produced it; Emit (whose contract assumes a
// flat tree) will skip a stray nested Ruleset defensively rather than
// render invalid CSS.
package cssize

import "github.com/winsider/libsass/internal/ast"

// MergeNestedMedia walks block and replaces any `@media` whose body
// consists solely of a single nested `@media` with one `@media` whose
// query text ANDs the two conditions together, recursively.
func MergeNestedMedia(block *ast.Block) {
	if block == nil {
		return
	}
	for i, stmt := range block.Statements {
		switch n := stmt.(type) {
		case *ast.Media:
			MergeNestedMedia(n.Body)
			block.Statements[i] = collapseMedia(n)
		case *ast.Ruleset:
			MergeNestedMedia(n.Body)
		case *ast.Supports:
			MergeNestedMedia(n.Body)
		case *ast.AtRule:
			MergeNestedMedia(n.Body)
		}
	}
}

// collapseMedia folds n into its single nested @media child, repeating
// until the body no longer consists solely of one @media.
func collapseMedia(n *ast.Media) *ast.Media {
	for {
		if n.Body == nil || len(n.Body.Statements) != 1 {
			return n
		}
		inner, ok := n.Body.Statements[0].(*ast.Media)
		if !ok {
			return n
		}
		cp := *n
		cp.Queries = andQueries(n.Queries, inner.Queries)
		cp.Body = inner.Body
		n = &cp
	}
}

func andQueries(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + " and " + b
}

// RemovePlaceholders drops any Ruleset whose selector is entirely
// placeholder-derived (`%foo`) and which no `@extend` marked
// Referenced, recursively.
func RemovePlaceholders(block *ast.Block) {
	if block == nil {
		return
	}
	kept := block.Statements[:0]
	for _, stmt := range block.Statements {
		switch n := stmt.(type) {
		case *ast.Ruleset:
			if n.PlaceholderOnly && !n.Referenced {
				continue
			}
			RemovePlaceholders(n.Body)
		case *ast.Media:
			RemovePlaceholders(n.Body)
		case *ast.Supports:
			RemovePlaceholders(n.Body)
		case *ast.AtRule:
			RemovePlaceholders(n.Body)
		}
		kept = append(kept, stmt)
	}
	block.Statements = kept
}
