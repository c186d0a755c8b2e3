// Package driver is the Compilation Driver and its Context (§3, §4.6):
// the top-level orchestrator that ingests an entry, walks its imports
// transitively through the Loader Pipeline, and runs the
// Expand/Extend/Nest-check/Cssize/Placeholder-removal/Emit pipeline on
// the result.
package driver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/winsider/libsass/internal/diagnostics"
	"github.com/winsider/libsass/internal/functions"
	"github.com/winsider/libsass/internal/importstack"
	"github.com/winsider/libsass/internal/loader"
	"github.com/winsider/libsass/internal/logging"
	"github.com/winsider/libsass/internal/resolver"
	"github.com/winsider/libsass/internal/resource"
	"github.com/winsider/libsass/internal/sheet"
)

// OutputStyle mirrors emit.Style at the driver's public boundary so
// callers of this package need not import internal/emit directly.
type OutputStyle int

const (
	Nested OutputStyle = iota
	Expanded
	Compact
	Compressed
)

// Options configures one compile. The zero value compiles with Nested
// output, no include/plugin paths, and no source map.
type Options struct {
	IncludePaths   []string
	PluginPaths    []string
	OutputStyle    OutputStyle
	IndentedSyntax bool

	SourceMap       bool
	SourceMapEmbed  bool
	SourceMapFile   string
	OmitMapComment  bool
	SourceMapRoot   string

	// Headers and Importers are registered in the given order but
	// sorted by descending Priority before use, per §3's invariant.
	Headers   []HeaderRegistration
	Importers []ImporterRegistration

	// Functions are host-registered callables, installed under the
	// generic key after the built-ins, so they replace a same-named
	// single-arity built-in. For an overloaded built-in name (rgb, rgba,
	// hsl, hsla) the built-in's arity-specific entries still resolve
	// before the host function at those arities.
	Functions map[string]functions.Func

	// Plugins contribute additional headers/importers/functions before
	// the callback lists are sorted, mirroring the C++ driver's
	// load-then-sort ordering (§11).
	Plugins []PluginLoader

	Logger *logging.Logger
}

// HeaderRegistration pairs a header loader with its priority.
type HeaderRegistration struct {
	Priority int
	Fn       loader.HeaderFunc
}

// ImporterRegistration pairs a custom importer with its priority.
type ImporterRegistration struct {
	Priority int
	Fn       loader.ImporterFunc
}

// PluginLoader contributes headers, importers and functions to a
// Context at construction time, modelling the C++ driver's
// `plugins.load_plugins` step without dynamic/cgo loading (§11): a
// host registers a Go-native implementation of this interface instead
// of a shared-object path.
type PluginLoader interface {
	LoadInto(opts *Options)
}

// Context is the per-compile state §3 describes: include/plugin search
// paths, the sorted header/importer/function registrations, the
// Resource Store, Import Stack, Sheet Registry and Trace, and a
// synthesised per-compile identifier (compileID), which is stored but
// not read by anything in the driver.
type Context struct {
	opts Options

	store    *resource.Store
	stack    *importstack.Stack
	registry *sheet.Registry
	trace    *diagnostics.Trace
	pipeline *loader.Pipeline
	env      *functions.Env
	logger   *logging.Logger

	compileID string

	// headImports is the header phase's contribution to
	// get_included_files's skip-count (§11), incremented by the number
	// of resources the header phase itself registered.
	headImports int
}

// NewContext constructs a Context from opts, applying any Plugins
// before the header/importer lists are sorted.
func NewContext(opts Options) *Context {
	for _, p := range opts.Plugins {
		p.LoadInto(&opts)
	}
	opts.IncludePaths = normalisePaths(opts.IncludePaths)
	opts.PluginPaths = normalisePaths(opts.PluginPaths)

	log := opts.Logger
	if log == nil {
		log = logging.New("libsass")
	}

	store := resource.New()
	stack := importstack.New()
	registry := sheet.New()
	trace := &diagnostics.Trace{}

	pipe := loader.New(resolver.New(), store, stack, registry, trace, opts.IncludePaths, os.ReadFile)
	for _, h := range opts.Headers {
		pipe.RegisterHeader(h.Priority, h.Fn)
	}
	for _, im := range opts.Importers {
		pipe.RegisterImporter(im.Priority, im.Fn)
	}

	env := functions.BuildBuiltins()
	for name, fn := range opts.Functions {
		env.RegisterSimple(name, fn)
	}

	return &Context{
		opts:      opts,
		store:     store,
		stack:     stack,
		registry:  registry,
		trace:     trace,
		pipeline:  pipe,
		env:       env,
		logger:    log,
		compileID: uuid.NewString(),
	}
}

// normalisePaths trim-normalises each include/plugin path to end in a
// separator, per §6's path-list option syntax.
func normalisePaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		if p != "" && !strings.HasSuffix(p, string(filepath.Separator)) {
			p += string(filepath.Separator)
		}
		out[i] = p
	}
	return out
}

// GetIncludedFiles returns the deduplicated list of absolute paths
// actually read: the entry path first (unless skipEntry), followed by
// every other registered Resource path in sorted order, optionally
// eliding the header-origin paths immediately following the entry
// (§6, §8).
func (c *Context) GetIncludedFiles(skipEntry bool, elideHeaders bool) []string {
	sheets := c.registry.Iter()
	if len(sheets) == 0 {
		return nil
	}

	// The header phase's sheets are inserted first and the entry is
	// inserted last, after all of its own imports have been parsed.
	entry := sheets[len(sheets)-1].AbsPath
	seen := map[string]bool{entry: true}
	var tail []string
	for i, s := range sheets[:len(sheets)-1] {
		if elideHeaders && i < c.headImports {
			continue
		}
		if seen[s.AbsPath] {
			continue
		}
		seen[s.AbsPath] = true
		tail = append(tail, s.AbsPath)
	}
	sortStrings(tail)

	if skipEntry {
		return tail
	}
	return append([]string{entry}, tail...)
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
