package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/winsider/libsass/internal/diagnostics"
)

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
	}
}

func TestCompileFileSimpleImport(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.scss": `@import "b"; .x{color:red}`,
		"b.scss": `.y{color:blue}`,
	})

	ctx := NewContext(Options{})
	result, err := ctx.CompileFile(filepath.Join(dir, "a.scss"))
	require.NoError(t, err)
	require.Equal(t, ".y { color: blue; }\n\n.x { color: red; }\n", result.CSS)
}

func TestCompileFileAmbiguousImport(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.scss":  `@import "x";`,
		"x.scss":  `.a{color:red}`,
		"_x.scss": `.a{color:red}`,
	})

	ctx := NewContext(Options{})
	_, err := ctx.CompileFile(filepath.Join(dir, "a.scss"))
	require.Error(t, err)
	var de *diagnostics.Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, diagnostics.AmbiguousImport, de.Kind)
}

func TestCompileFileCycle(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.scss": `@import "b";`,
		"b.scss": `@import "a";`,
	})

	ctx := NewContext(Options{})
	_, err := ctx.CompileFile(filepath.Join(dir, "a.scss"))
	require.Error(t, err)
	var de *diagnostics.Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, diagnostics.ImportLoop, de.Kind)
	require.Contains(t, de.Msg, "a.scss imports")
	require.Contains(t, de.Msg, "b.scss imports")
}

func TestCompileFileCSSImportPassthrough(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.scss": `@import "https://example.com/x.css"; .q{color:red}`,
	})

	ctx := NewContext(Options{})
	result, err := ctx.CompileFile(filepath.Join(dir, "a.scss"))
	require.NoError(t, err)
	require.Contains(t, result.CSS, `@import url("https://example.com/x.css");`)
	require.Contains(t, result.CSS, ".q { color: red; }")
}

func TestCompileFileEndsWithCSSNoFilesystemLookup(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.scss": `@import "foo.css";`,
	})

	ctx := NewContext(Options{})
	result, err := ctx.CompileFile(filepath.Join(dir, "a.scss"))
	require.NoError(t, err)
	require.Equal(t, `@import url("foo.css");`+"\n", result.CSS)
}

func TestCompileFileNonASCIICharsetPrepended(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.scss": ".x{content:\"¶\"}",
	})

	ctx := NewContext(Options{OutputStyle: Expanded})
	result, err := ctx.CompileFile(filepath.Join(dir, "a.scss"))
	require.NoError(t, err)
	require.Contains(t, result.CSS, `@charset "UTF-8";`+"\n")
}

func TestCompileFileEntryNotFound(t *testing.T) {
	ctx := NewContext(Options{})
	_, err := ctx.CompileFile("/does/not/exist.scss")
	require.Error(t, err)
	var de *diagnostics.Error
	require.ErrorAs(t, err, &de)
	require.Equal(t, diagnostics.EntryNotFound, de.Kind)
}

func TestCompileFileIsDeterministicAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.scss": `@import "b"; .x{color:red}`,
		"b.scss": `.y{color:blue}`,
	})

	first, err := NewContext(Options{}).CompileFile(filepath.Join(dir, "a.scss"))
	require.NoError(t, err)
	second, err := NewContext(Options{}).CompileFile(filepath.Join(dir, "a.scss"))
	require.NoError(t, err)
	require.Equal(t, first.CSS, second.CSS)
}

func TestCompileStringAppliesIndentedSyntax(t *testing.T) {
	ctx := NewContext(Options{IndentedSyntax: true})
	result, err := ctx.CompileString(".x\n  color: red\n", "")
	require.NoError(t, err)
	require.Contains(t, result.CSS, "color: red;")
}

func TestGetIncludedFilesEntryFirstThenSorted(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"a.scss": `@import "z"; @import "b";`,
		"z.scss": `.z{color:red}`,
		"b.scss": `.b{color:blue}`,
	})

	ctx := NewContext(Options{})
	result, err := ctx.CompileFile(filepath.Join(dir, "a.scss"))
	require.NoError(t, err)
	require.Len(t, result.IncludedFiles, 3)
	require.Contains(t, result.IncludedFiles[0], "a.scss")
}
