package extend

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

func TestAuditMarksMatchingRulesetReferenced(t *testing.T) {
	placeholder := ast.NewRuleset(noSpan, "%message", &ast.Block{Statements: []ast.Statement{decl("color", "red")}}, true)
	extend := ast.NewAtRule(noSpan, "@extend", "", "%message", nil)
	caller := ast.NewRuleset(noSpan, ".a", &ast.Block{Statements: []ast.Statement{extend}}, false)

	root := &ast.Block{Statements: []ast.Statement{placeholder, caller}}
	err := Audit(root)
	require.NoError(t, err)
	require.True(t, placeholder.Referenced)
}

func TestAuditRaisesUnsatisfiedExtendForRequiredMiss(t *testing.T) {
	extend := ast.NewAtRule(noSpan, "@extend", "", ".missing", nil)
	caller := ast.NewRuleset(noSpan, ".a", &ast.Block{Statements: []ast.Statement{extend}}, false)

	root := &ast.Block{Statements: []ast.Statement{caller}}
	err := Audit(root)
	require.Error(t, err)
	var de *diagnostics.Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, diagnostics.UnsatisfiedExtend, de.Kind)
}

func TestAuditAllowsOptionalExtendMiss(t *testing.T) {
	extend := ast.NewAtRule(noSpan, "@extend", "", ".missing !optional", nil)
	caller := ast.NewRuleset(noSpan, ".a", &ast.Block{Statements: []ast.Statement{extend}}, false)

	root := &ast.Block{Statements: []ast.Statement{caller}}
	err := Audit(root)
	require.NoError(t, err)
}

func TestAuditFindsExtendInsideMedia(t *testing.T) {
	placeholder := ast.NewRuleset(noSpan, "%message", &ast.Block{Statements: []ast.Statement{decl("color", "red")}}, true)
	extend := ast.NewAtRule(noSpan, "@extend", "", "%message", nil)
	caller := ast.NewRuleset(noSpan, ".a", &ast.Block{Statements: []ast.Statement{extend}}, false)
	media := ast.NewMedia(noSpan, "screen", &ast.Block{Statements: []ast.Statement{caller}})

	root := &ast.Block{Statements: []ast.Statement{placeholder, media}}
	err := Audit(root)
	require.NoError(t, err)
	require.True(t, placeholder.Referenced)
}
