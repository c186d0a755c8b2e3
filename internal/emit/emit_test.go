package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/winsider/libsass/internal/ast"
	"github.com/winsider/libsass/internal/diagnostics"
)

var noSpan diagnostics.SourceSpan

func decl(prop, value string) *ast.Declaration {
	return ast.NewDeclaration(noSpan, prop, ast.Value{Text: value})
}

func ruleset(selector string, stmts ...ast.Statement) *ast.Ruleset {
	return ast.NewRuleset(noSpan, selector, &ast.Block{Statements: stmts}, false)
}

func TestEmitNestedTwoRules(t *testing.T) {
	root := &ast.Block{Statements: []ast.Statement{
		ruleset(".y", decl("color", "blue")),
		ruleset(".x", decl("color", "red")),
	}}

	out := New(Nested).Emit(root)
	require.Equal(t, ".y { color: blue; }\n\n.x { color: red; }\n", out.CSS)
}

func TestEmitExpandedMatchesNestedForFlatRules(t *testing.T) {
	root := &ast.Block{Statements: []ast.Statement{
		ruleset(".y", decl("color", "blue")),
	}}

	out := New(Expanded).Emit(root)
	require.Equal(t, ".y { color: blue; }\n", out.CSS)
}

func TestEmitCompactDropsBlankLineBetweenRules(t *testing.T) {
	root := &ast.Block{Statements: []ast.Statement{
		ruleset(".a", decl("color", "red")),
		ruleset(".b", decl("color", "blue")),
	}}

	out := New(Compact).Emit(root)
	require.Equal(t, ".a { color: red; }\n.b { color: blue; }\n", out.CSS)
}

func TestEmitCompressedHasNoWhitespace(t *testing.T) {
	root := &ast.Block{Statements: []ast.Statement{
		ruleset(".a", decl("color", "red")),
	}}

	out := New(Compressed).Emit(root)
	require.Equal(t, ".a{color:red;}", out.CSS)
}

func TestEmitSkipsUnprintableDeclaration(t *testing.T) {
	invisible := ast.NewDeclaration(noSpan, "content", ast.Value{Text: `""`, QuotedEmptyNoMark: true})
	visible := decl("color", "red")
	root := &ast.Block{Statements: []ast.Statement{
		ruleset(".a", invisible, visible),
	}}

	out := New(Nested).Emit(root)
	require.Equal(t, ".a { color: red; }\n", out.CSS)
	require.NotContains(t, out.CSS, "content")
}

func TestEmitSkipsPlaceholderOnlyRuleset(t *testing.T) {
	ph := ruleset("%placeholder", decl("color", "red"))
	ph.PlaceholderOnly = true
	root := &ast.Block{Statements: []ast.Statement{ph, ruleset(".a", decl("color", "blue"))}}

	out := New(Nested).Emit(root)
	require.Equal(t, ".a { color: blue; }\n", out.CSS)
}

func TestEmitRendersReferencedPlaceholderRuleset(t *testing.T) {
	ph := ruleset("%placeholder", decl("color", "red"))
	ph.PlaceholderOnly = true
	ph.Referenced = true
	root := &ast.Block{Statements: []ast.Statement{ph, ruleset(".a", decl("color", "blue"))}}

	out := New(Nested).Emit(root)
	require.Equal(t, "%placeholder { color: red; }\n\n.a { color: blue; }\n", out.CSS)
}

func TestEmitImportPassthroughFormatting(t *testing.T) {
	imp := ast.NewImport(noSpan, []string{"https://example.com/x.css"}, "")
	root := &ast.Block{Statements: []ast.Statement{imp}}

	out := New(Nested).Emit(root)
	require.Equal(t, `@import url("https://example.com/x.css");`+"\n", out.CSS)
}

func TestEmitImportWithQueries(t *testing.T) {
	imp := ast.NewImport(noSpan, []string{"foo.css"}, "screen")
	root := &ast.Block{Statements: []ast.Statement{imp}}

	out := New(Nested).Emit(root)
	require.Equal(t, `@import url("foo.css") screen;`+"\n", out.CSS)
}

func TestEmitPreludeBuffersImportsAheadOfBody(t *testing.T) {
	imp := ast.NewImport(noSpan, []string{"a.css"}, "")
	root := &ast.Block{Statements: []ast.Statement{
		ruleset(".a", decl("color", "red")),
		imp,
	}}

	out := New(Nested).Emit(root)
	require.True(t, strings.HasPrefix(out.CSS, `@import url("a.css");`+"\n\n"))
	require.True(t, strings.HasSuffix(out.CSS, ".a { color: red; }\n"))
}

func TestEmitPreludeBuffersOnlyLeadingComments(t *testing.T) {
	leading := ast.NewComment(noSpan, "leading", false)
	trailing := ast.NewComment(noSpan, "trailing", false)
	root := &ast.Block{Statements: []ast.Statement{
		leading,
		ruleset(".a", decl("color", "red")),
		trailing,
	}}

	out := New(Nested).Emit(root)
	require.True(t, strings.HasPrefix(out.CSS, "/* leading */\n\n"))
	require.Contains(t, out.CSS, "/* trailing */")
	// trailing comment is not hoisted: it stays after the ruleset.
	idx := strings.Index(out.CSS, ".a {")
	trailingIdx := strings.Index(out.CSS, "/* trailing */")
	require.Greater(t, trailingIdx, idx)
}

func TestEmitMediaNestsRulesetsAcrossMultipleLines(t *testing.T) {
	media := ast.NewMedia(noSpan, "screen", &ast.Block{Statements: []ast.Statement{
		ruleset(".a", decl("color", "red")),
	}})
	root := &ast.Block{Statements: []ast.Statement{media}}

	out := New(Nested).Emit(root)
	require.Equal(t, "@media screen {\n  .a { color: red; }\n}\n", out.CSS)
}

func TestSetFilenameAndAddSourceIndexDoNotPanic(t *testing.T) {
	e := New(Nested)
	e.SetFilename("out.css")
	e.AddSourceIndex(0)
	out := e.Emit(&ast.Block{})
	require.Equal(t, "", out.CSS)
}
