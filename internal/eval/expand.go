// Package eval is the Expansion stage the driver runs once per compile
// (§4.6 step 3): it walks the entry root and replaces every
// *ast.ImportStub the loader inserted with the included sheet's own
// (recursively expanded) root statements, looked up by absolute path
// in the Sheet Registry. Real Sass expression evaluation (variables,
// mixins, control flow, functions) is the evaluator's own
// specification and out of scope here; this package only owns the
// stub-splicing contract the driver imposes on it, threading the root
// Function Environment through for when a future evaluator needs it.
package eval

import (
	"github.com/winsider/libsass/internal/ast"
	"github.com/winsider/libsass/internal/diagnostics"
	"github.com/winsider/libsass/internal/functions"
	"github.com/winsider/libsass/internal/sheet"
)

// Expand replaces every ImportStub reachable from root with the
// referenced sheet's own expanded statements, recursively, and returns
// the new root block. env is threaded through for the future evaluator
// contract; it is unused by stub-splicing itself.
func Expand(root *ast.Block, reg *sheet.Registry, env *functions.Env) (*ast.Block, error) {
	return expandBlock(root, reg, env, make(map[string]bool))
}

// visiting guards against a stub cycle slipping past the Import Stack
// (it shouldn't, since the loader already runs cycle detection before
// ever inserting a stub) by refusing to expand the same path twice on
// one call stack rather than recursing forever.
func expandBlock(block *ast.Block, reg *sheet.Registry, env *functions.Env, visiting map[string]bool) (*ast.Block, error) {
	if block == nil {
		return nil, nil
	}
	out := &ast.Block{Statements: make([]ast.Statement, 0, len(block.Statements))}
	for _, stmt := range block.Statements {
		switch n := stmt.(type) {
		case *ast.ImportStub:
			expanded, err := expandStub(n, reg, env, visiting)
			if err != nil {
				return nil, err
			}
			out.Statements = append(out.Statements, expanded...)

		case *ast.Ruleset:
			body, err := expandBlock(n.Body, reg, env, visiting)
			if err != nil {
				return nil, err
			}
			cp := *n
			cp.Body = body
			out.Statements = append(out.Statements, &cp)

		case *ast.Media:
			body, err := expandBlock(n.Body, reg, env, visiting)
			if err != nil {
				return nil, err
			}
			cp := *n
			cp.Body = body
			out.Statements = append(out.Statements, &cp)

		case *ast.Supports:
			body, err := expandBlock(n.Body, reg, env, visiting)
			if err != nil {
				return nil, err
			}
			cp := *n
			cp.Body = body
			out.Statements = append(out.Statements, &cp)

		case *ast.AtRule:
			if n.Body == nil {
				out.Statements = append(out.Statements, n)
				continue
			}
			body, err := expandBlock(n.Body, reg, env, visiting)
			if err != nil {
				return nil, err
			}
			cp := *n
			cp.Body = body
			out.Statements = append(out.Statements, &cp)

		default:
			out.Statements = append(out.Statements, stmt)
		}
	}
	return out, nil
}

func expandStub(stub *ast.ImportStub, reg *sheet.Registry, env *functions.Env, visiting map[string]bool) ([]ast.Statement, error) {
	sheetAST := reg.Lookup(stub.AbsPath)
	if sheetAST == nil {
		return nil, diagnostics.New(diagnostics.ImportNotFound, stub.Span(), nil,
			"no sheet registered for %q during expansion", stub.AbsPath)
	}
	if visiting[stub.AbsPath] {
		return nil, nil // the Import Stack already rejects real cycles; this is a defensive stop
	}
	visiting[stub.AbsPath] = true
	defer delete(visiting, stub.AbsPath)

	expanded, err := expandBlock(sheetAST.Root, reg, env, visiting)
	if err != nil {
		return nil, err
	}
	if expanded == nil {
		return nil, nil
	}
	return expanded.Statements, nil
}
