package cssize

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/winsider/libsass/internal/ast"
	"github.com/winsider/libsass/internal/diagnostics"
)

var noSpan diagnostics.SourceSpan

func decl(prop, value string) *ast.Declaration {
	return ast.NewDeclaration(noSpan, prop, ast.Value{Text: value})
}

func TestMergeNestedMediaCollapsesSingleChild(t *testing.T) {
	inner := ast.NewMedia(noSpan, "(min-width: 100px)", &ast.Block{Statements: []ast.Statement{decl("color", "red")}})
	outer := ast.NewMedia(noSpan, "screen", &ast.Block{Statements: []ast.Statement{inner}})
	root := &ast.Block{Statements: []ast.Statement{outer}}

	MergeNestedMedia(root)

	merged, ok := root.Statements[0].(*ast.Media)
	require.True(t, ok)
	require.Equal(t, "screen and (min-width: 100px)", merged.Queries)
	require.Len(t, merged.Body.Statements, 1)
}

func TestMergeNestedMediaLeavesMultiStatementBodyAlone(t *testing.T) {
	inner := ast.NewMedia(noSpan, "(min-width: 100px)", &ast.Block{Statements: []ast.Statement{decl("color", "red")}})
	outer := ast.NewMedia(noSpan, "screen", &ast.Block{Statements: []ast.Statement{inner, decl("color", "blue")}})
	root := &ast.Block{Statements: []ast.Statement{outer}}

	MergeNestedMedia(root)

	result, ok := root.Statements[0].(*ast.Media)
	require.True(t, ok)
	require.Equal(t, "screen", result.Queries)
}

func TestMergeNestedMediaCollapsesThreeLevels(t *testing.T) {
	c := ast.NewMedia(noSpan, "(max-width: 200px)", &ast.Block{Statements: []ast.Statement{decl("color", "red")}})
	b := ast.NewMedia(noSpan, "(min-width: 100px)", &ast.Block{Statements: []ast.Statement{c}})
	a := ast.NewMedia(noSpan, "screen", &ast.Block{Statements: []ast.Statement{b}})
	root := &ast.Block{Statements: []ast.Statement{a}}

	MergeNestedMedia(root)

	merged, ok := root.Statements[0].(*ast.Media)
	require.True(t, ok)
	require.Equal(t, "screen and (min-width: 100px) and (max-width: 200px)", merged.Queries)
}

func TestRemovePlaceholdersDropsUnreferenced(t *testing.T) {
	ph := ast.NewRuleset(noSpan, "%msg", &ast.Block{Statements: []ast.Statement{decl("color", "red")}}, true)
	kept := ast.NewRuleset(noSpan, ".a", &ast.Block{Statements: []ast.Statement{decl("color", "blue")}}, false)
	root := &ast.Block{Statements: []ast.Statement{ph, kept}}

	RemovePlaceholders(root)

	require.Len(t, root.Statements, 1)
	require.Same(t, kept, root.Statements[0])
}

func TestRemovePlaceholdersKeepsReferenced(t *testing.T) {
	ph := ast.NewRuleset(noSpan, "%msg", &ast.Block{Statements: []ast.Statement{decl("color", "red")}}, true)
	ph.Referenced = true
	root := &ast.Block{Statements: []ast.Statement{ph}}

	RemovePlaceholders(root)

	require.Len(t, root.Statements, 1)
}
