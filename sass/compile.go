// Package sass is the public entry point to the compilation driver:
// a thin wrapper over internal/driver that exposes the Options a host
// program sets and the Result a compile produces, without requiring
// callers to import anything under internal/.
package sass

import (
	"github.com/winsider/libsass/internal/driver"
	"github.com/winsider/libsass/internal/functions"
	"github.com/winsider/libsass/internal/loader"
	"github.com/winsider/libsass/internal/logging"
)

// OutputStyle selects how the emitter renders the CSS tree.
type OutputStyle = driver.OutputStyle

const (
	Nested     = driver.Nested
	Expanded   = driver.Expanded
	Compact    = driver.Compact
	Compressed = driver.Compressed
)

// HeaderFunc and ImporterFunc are the custom-loader callback shapes a
// host registers through Options.Headers/Importers (§4.4c).
type HeaderFunc = loader.HeaderFunc
type ImporterFunc = loader.ImporterFunc

// Func is a host-implemented Sass function, keyed the same way the
// built-in catalogue is (§4.8).
type Func = functions.Func

// HeaderRegistration and ImporterRegistration pair a callback with its
// priority; higher priority runs first.
type HeaderRegistration = driver.HeaderRegistration
type ImporterRegistration = driver.ImporterRegistration

// PluginLoader contributes headers, importers and functions to a
// compile before Options are otherwise applied (§11).
type PluginLoader = driver.PluginLoader

// Options configures one compile. The zero value compiles with Nested
// output, no include/plugin paths, and no source map.
type Options struct {
	IncludePaths   []string
	PluginPaths    []string
	OutputStyle    OutputStyle
	IndentedSyntax bool

	SourceMap      bool
	SourceMapEmbed bool
	SourceMapFile  string
	OmitMapComment bool
	SourceMapRoot  string

	Headers   []HeaderRegistration
	Importers []ImporterRegistration
	Functions map[string]Func
	Plugins   []PluginLoader

	Logger *logging.Logger
}

func (o Options) toDriver() driver.Options {
	return driver.Options{
		IncludePaths:   o.IncludePaths,
		PluginPaths:    o.PluginPaths,
		OutputStyle:    o.OutputStyle,
		IndentedSyntax: o.IndentedSyntax,
		SourceMap:      o.SourceMap,
		SourceMapEmbed: o.SourceMapEmbed,
		SourceMapFile:  o.SourceMapFile,
		OmitMapComment: o.OmitMapComment,
		SourceMapRoot:  o.SourceMapRoot,
		Headers:        o.Headers,
		Importers:      o.Importers,
		Functions:      o.Functions,
		Plugins:        o.Plugins,
		Logger:         o.Logger,
	}
}

// Result is what a successful compile produces.
type Result struct {
	CSS           string
	SourceMap     string
	IncludedFiles []string
}

func fromDriverResult(r *driver.Result) *Result {
	return &Result{CSS: r.CSS, SourceMap: r.SourceMap, IncludedFiles: r.IncludedFiles}
}

// CompileFile resolves path against the working directory, falling
// back to each of opts.IncludePaths in order, and compiles it.
func CompileFile(path string, opts Options) (*Result, error) {
	ctx := driver.NewContext(opts.toDriver())
	r, err := ctx.CompileFile(path)
	if err != nil {
		return nil, err
	}
	return fromDriverResult(r), nil
}

// CompileString compiles source as if it were read from inputPath:
// inputPath names the entry in error messages, source maps and the
// included-files list, and its directory is the base for resolving the
// source's relative imports. inputPath may be empty, in which case
// "stdin" is used.
func CompileString(source, inputPath string, opts Options) (*Result, error) {
	ctx := driver.NewContext(opts.toDriver())
	r, err := ctx.CompileString(source, inputPath)
	if err != nil {
		return nil, err
	}
	return fromDriverResult(r), nil
}
