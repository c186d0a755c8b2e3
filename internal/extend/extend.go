// Package extend is the extend-usage audit the driver runs after
// Expansion (§4.6 step 4): for every `@extend` declaration, find the
// ruleset(s) whose selector matches the extend's target and mark them
// Referenced, so a later placeholder-removal pass keeps them even if
// their own selector is placeholder-derived; raise UnsatisfiedExtend
// for any non-optional `@extend` that matched nothing. Resolving what
// selectors an extend should actually generate (the combinatorial
// selector-unification Sass performs) is evaluator semantics out of
// scope here; this package only audits and marks.
package extend

import (
	"strings"

	"github.com/winsider/libsass/internal/ast"
	"github.com/winsider/libsass/internal/diagnostics"
)

// Audit walks root, resolves every `@extend` against the rulesets also
// reachable from root, marks matches Referenced, and returns the first
// UnsatisfiedExtend it finds.
func Audit(root *ast.Block) error {
	index := make(map[string][]*ast.Ruleset)
	collectRulesets(root, index)

	var firstErr error
	walkExtends(root, func(target string, optional bool, span diagnostics.SourceSpan) {
		if firstErr != nil {
			return
		}
		matches := index[target]
		if len(matches) == 0 {
			if !optional {
				firstErr = diagnostics.New(diagnostics.UnsatisfiedExtend, span, nil,
					`"%s" failed to @extend: no matching selector`, target)
			}
			return
		}
		for _, r := range matches {
			r.Referenced = true
		}
	})
	return firstErr
}

func collectRulesets(block *ast.Block, index map[string][]*ast.Ruleset) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		switch n := stmt.(type) {
		case *ast.Ruleset:
			index[n.Selector] = append(index[n.Selector], n)
			collectRulesets(n.Body, index)
		case *ast.Media:
			collectRulesets(n.Body, index)
		case *ast.Supports:
			collectRulesets(n.Body, index)
		case *ast.AtRule:
			collectRulesets(n.Body, index)
		}
	}
}

func walkExtends(block *ast.Block, visit func(target string, optional bool, span diagnostics.SourceSpan)) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		switch n := stmt.(type) {
		case *ast.AtRule:
			if strings.EqualFold(n.Keyword, "@extend") {
				target, optional := parseExtendTarget(n.Value)
				visit(target, optional, n.Span())
			}
			walkExtends(n.Body, visit)
		case *ast.Ruleset:
			walkExtends(n.Body, visit)
		case *ast.Media:
			walkExtends(n.Body, visit)
		case *ast.Supports:
			walkExtends(n.Body, visit)
		}
	}
}

// parseExtendTarget splits "`.foo !optional`" into its selector and
// the optional flag.
func parseExtendTarget(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if strings.HasSuffix(value, "!optional") {
		return strings.TrimSpace(strings.TrimSuffix(value, "!optional")), true
	}
	return value, false
}
