package driver

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/winsider/libsass/internal/ast"
	"github.com/winsider/libsass/internal/cssize"
	"github.com/winsider/libsass/internal/diagnostics"
	"github.com/winsider/libsass/internal/emit"
	"github.com/winsider/libsass/internal/eval"
	"github.com/winsider/libsass/internal/extend"
	"github.com/winsider/libsass/internal/importstack"
	"github.com/winsider/libsass/internal/nesting"
	"github.com/winsider/libsass/internal/parser"
	"github.com/winsider/libsass/internal/sourcemap"
)

// utf8BOM is the three-byte UTF-8 byte-order mark prepended to
// compressed-style output carrying non-ASCII bytes (§4.6).
const utf8BOM = "\xEF\xBB\xBF"

// Result is what a successful compile produces: the CSS buffer and,
// when source maps are enabled, the map's own JSON text.
type Result struct {
	CSS           string
	SourceMap     string
	IncludedFiles []string
}

// CompileFile resolves entryPath against the working directory,
// falling back to each include path in order until a readable file is
// found (§4.6's compile_file); fails with EntryNotFound otherwise.
func (c *Context) CompileFile(entryPath string) (*Result, error) {
	absPath, contents, err := c.resolveEntry(entryPath)
	if err != nil {
		return nil, err
	}
	return c.compile(absPath, contents)
}

// CompileString synthesises an entry whose path is inputPath (or the
// "stdin" sentinel if empty), applying the indented-syntax converter
// first when opts.IndentedSyntax is set (§4.6's compile_string).
func (c *Context) CompileString(source, inputPath string) (*Result, error) {
	if inputPath == "" {
		inputPath = "stdin"
	}
	if c.opts.IndentedSyntax {
		source = ConvertIndented(source)
	}
	return c.compile(inputPath, []byte(source))
}

func (c *Context) resolveEntry(entryPath string) (string, []byte, error) {
	if contents, err := os.ReadFile(entryPath); err == nil {
		abs, absErr := filepath.Abs(entryPath)
		if absErr != nil {
			abs = entryPath
		}
		return abs, contents, nil
	}
	for _, dir := range c.opts.IncludePaths {
		candidate := filepath.Join(dir, entryPath)
		if contents, err := os.ReadFile(candidate); err == nil {
			abs, absErr := filepath.Abs(candidate)
			if absErr != nil {
				abs = candidate
			}
			return abs, contents, nil
		}
	}
	return "", nil, diagnostics.New(diagnostics.EntryNotFound, diagnostics.SourceSpan{Path: entryPath}, c.trace,
		"unable to find entry file %q in the working directory or any include path", entryPath)
}

// compile runs the header phase, parses and registers the entry, then
// runs the transformation pipeline against it.
func (c *Context) compile(absPath string, contents []byte) (*Result, error) {
	before := c.registry.Len()
	if _, err := c.pipeline.RunHeaders(absPath); err != nil {
		return nil, err
	}
	c.headImports = c.registry.Len() - before

	resIx := c.store.Register(contents, nil)
	c.stack.Push(importstack.Frame{ImpPath: absPath, AbsPath: absPath})
	root, err := parser.New(string(contents), absPath, resIx, c.pipeline.HookFor(filepath.Dir(absPath))).Parse()
	c.stack.Pop()
	if err != nil {
		return nil, err
	}
	c.registry.Insert(absPath, &ast.StyleSheet{ResourceIndex: resIx, AbsPath: absPath, Root: root})

	return c.runPipeline(absPath)
}

// runPipeline executes, in order, §4.6's eight stages against the
// entry's registered root: nesting check on every sheet, expansion,
// extend audit, nesting re-check, cssize, placeholder removal, emit.
func (c *Context) runPipeline(entryPath string) (*Result, error) {
	for _, s := range c.registry.Iter() {
		if err := nesting.Check(s.Root); err != nil {
			return nil, err
		}
	}

	entry := c.registry.Lookup(entryPath)
	expanded, err := eval.Expand(entry.Root, c.registry, c.env)
	if err != nil {
		return nil, err
	}

	if err := extend.Audit(expanded); err != nil {
		return nil, err
	}

	if err := nesting.Check(expanded); err != nil {
		return nil, err
	}

	cssize.MergeNestedMedia(expanded)
	cssize.RemovePlaceholders(expanded)

	style := emitStyle(c.opts.OutputStyle)
	emitter := emit.New(style)
	emitter.SetFilename(filepath.Base(entryPath))
	for i := 0; i < c.store.Len(); i++ {
		emitter.AddSourceIndex(i)
	}
	buf := emitter.Emit(expanded)

	out, mapJSON, err := c.assembleOutput(buf, style, entryPath)
	if err != nil {
		return nil, err
	}

	return &Result{
		CSS:           out,
		SourceMap:     mapJSON,
		IncludedFiles: c.GetIncludedFiles(false, true),
	}, nil
}

func emitStyle(s OutputStyle) emit.Style {
	switch s {
	case Expanded:
		return emit.Expanded
	case Compact:
		return emit.Compact
	case Compressed:
		return emit.Compressed
	default:
		return emit.Nested
	}
}

// assembleOutput implements §4.6's output-assembly rules: an optional
// sourceMappingURL comment, then a prepended @charset/BOM when the
// buffer carries a non-ASCII byte.
func (c *Context) assembleOutput(buf emit.OutputBuffer, style emit.Style, entryPath string) (string, string, error) {
	css := buf.CSS
	var mapJSON string

	if c.opts.SourceMap {
		doc := sourcemap.Build(buf.Mappings, c.sourcePaths(), filepath.Base(entryPath), c.opts.SourceMapRoot)
		rendered, err := sourcemap.Render(doc)
		if err != nil {
			return "", "", err
		}
		mapJSON = rendered

		if !c.opts.OmitMapComment {
			if c.opts.SourceMapEmbed {
				css += "\n" + sourcemap.EmbeddedComment(mapJSON)
			} else if c.opts.SourceMapFile != "" {
				css += "\n" + sourcemap.FileComment(entryPath, c.opts.SourceMapFile)
			}
		}
	}

	if hasNonASCII(css) {
		if style == emit.Compressed {
			css = utf8BOM + css
		} else {
			css = `@charset "UTF-8";` + "\n" + css
		}
	}

	return css, mapJSON, nil
}

func (c *Context) sourcePaths() []string {
	out := make([]string, c.store.Len())
	for _, s := range c.registry.Iter() {
		if s.ResourceIndex >= 0 && s.ResourceIndex < len(out) {
			out[s.ResourceIndex] = s.AbsPath
		}
	}
	return out
}

func hasNonASCII(s string) bool {
	for _, r := range s {
		if r >= utf8.RuneSelf {
			return true
		}
	}
	return false
}

