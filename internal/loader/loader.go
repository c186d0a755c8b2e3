// Package loader implements the Loader Pipeline: the priority-sorted
// chain of built-in filesystem loading plus user-registered header and
// importer callbacks that turns a raw `@import` specifier (or an
// entry's base path, for headers) into parsed, registered sheets.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/winsider/libsass/internal/ast"
	"github.com/winsider/libsass/internal/diagnostics"
	"github.com/winsider/libsass/internal/importstack"
	"github.com/winsider/libsass/internal/parser"
	"github.com/winsider/libsass/internal/resolver"
	"github.com/winsider/libsass/internal/resource"
	"github.com/winsider/libsass/internal/sheet"
)

// Entry is one answer from a header or importer callback (§6's host
// loader callback shape, collapsed to native Go types at this layer).
// Exactly one of Err, Source, or a bare AbsPath is meaningful on any
// given Entry: error-bearing, content-bearing, or path-only.
type Entry struct {
	ImpPath string
	AbsPath string
	Source  []byte
	Srcmap  []byte
	Err     error
	Line    int
	Column  int
}

// HeaderFunc is a header loader: invoked once at entry with the
// entry's base_path, independent of any @import site.
type HeaderFunc func(basePath string) []Entry

// ImporterFunc is a user importer: invoked per @import specifier. A
// nil return means "not handled, try the next importer"; a non-nil
// (possibly empty) slice means "handled" and stops the chain.
type ImporterFunc func(impPath, basePath string) []Entry

type headerReg struct {
	priority int
	fn       HeaderFunc
}

type importerReg struct {
	priority int
	fn       ImporterFunc
}

var schemeRE = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.\-]*)://`)

// Pipeline is the Loader Pipeline. It owns no state the driver doesn't
// hand it; Resource Store, Import Stack and Sheet Registry are shared
// with the rest of the Context.
type Pipeline struct {
	resolver     *resolver.Resolver
	store        *resource.Store
	stack        *importstack.Stack
	registry     *sheet.Registry
	trace        *diagnostics.Trace
	includePaths []string
	readFile     func(string) ([]byte, error)

	headers   []headerReg
	importers []importerReg
	counter   int
}

// New returns a Pipeline over the given collaborators. readFile reads
// a resolved absolute path's contents; pass os.ReadFile in production,
// a fake in tests.
func New(r *resolver.Resolver, store *resource.Store, stack *importstack.Stack, reg *sheet.Registry, trace *diagnostics.Trace, includePaths []string, readFile func(string) ([]byte, error)) *Pipeline {
	return &Pipeline{
		resolver:     r,
		store:        store,
		stack:        stack,
		registry:     reg,
		trace:        trace,
		includePaths: includePaths,
		readFile:     readFile,
	}
}

// RegisterHeader adds a header loader at priority, keeping the list
// sorted by strictly descending priority (§3 invariant).
func (p *Pipeline) RegisterHeader(priority int, fn HeaderFunc) {
	p.headers = append(p.headers, headerReg{priority, fn})
	sort.SliceStable(p.headers, func(i, j int) bool { return p.headers[i].priority > p.headers[j].priority })
}

// RegisterImporter adds a custom importer at priority, keeping the
// list sorted by strictly descending priority. Registering any
// importer disables Sheet Registry short-circuiting for the rest of
// the compile — see UseCache.
func (p *Pipeline) RegisterImporter(priority int, fn ImporterFunc) {
	p.importers = append(p.importers, importerReg{priority, fn})
	sort.SliceStable(p.importers, func(i, j int) bool { return p.importers[i].priority > p.importers[j].priority })
}

// UseCache reports whether the Sheet Registry may short-circuit on a
// repeat abs_path. False the moment any importer is registered, even
// for filesystem loads no importer ever touches — intentionally
// conservative, matching the reference driver (see DESIGN.md's Open
// Question on this point).
func (p *Pipeline) UseCache() bool {
	return len(p.importers) == 0
}

// RunHeaders invokes every registered header loader, descending
// priority, against basePath. Each returned resource is read, parsed
// and registered into the Sheet Registry exactly like a filesystem
// import; the resolved Includes are returned so the driver can count
// them for get_included_files elision.
func (p *Pipeline) RunHeaders(basePath string) ([]resolver.Include, error) {
	var out []resolver.Include
	dir := filepath.Dir(basePath)
	for _, h := range p.headers {
		for _, e := range h.fn(basePath) {
			inc, err := p.registerContentEntry(e, dir)
			if err != nil {
				return nil, err
			}
			out = append(out, inc)
		}
	}
	return out, nil
}

// HookFor returns a parser.ImportHook bound to baseDir — the directory
// of the file currently being parsed — for the driver to pass to
// parser.New when it begins parsing that file.
func (p *Pipeline) HookFor(baseDir string) parser.ImportHook {
	return func(dir parser.ImportDirective) ([]ast.Statement, error) {
		return p.resolveImport(dir.Specifier, dir.Queries, dir.Span, baseDir)
	}
}

// resolveImport implements §4.4(b)/(c): classification, then the
// custom-importer phase, then filesystem resolution.
func (p *Pipeline) resolveImport(specifier, queries string, span diagnostics.SourceSpan, baseDir string) ([]ast.Statement, error) {
	if url, isCSS := classifyCSS(specifier, queries); isCSS {
		return []ast.Statement{ast.NewImport(span, []string{url}, queries)}, nil
	}

	if len(p.importers) > 0 {
		stmts, handled, err := p.tryImporters(specifier, baseDir, span, queries)
		if err != nil {
			return nil, err
		}
		if handled {
			return stmts, nil
		}
	}

	return p.resolveFilesystem(specifier, span, baseDir)
}

// classifyCSS reports whether specifier must be preserved as a CSS
// `@import url(...)`, per the three passthrough rules of §4.4(b):
// media/supports-qualified, a non-file URL scheme (or `//`-prefixed),
// or a `.css` suffix.
func classifyCSS(specifier, queries string) (string, bool) {
	if queries != "" {
		return specifier, true
	}
	if strings.HasPrefix(specifier, "//") {
		return specifier, true
	}
	if m := schemeRE.FindStringSubmatch(specifier); m != nil && !strings.EqualFold(m[1], "file") {
		return specifier, true
	}
	if strings.HasSuffix(strings.ToLower(specifier), ".css") {
		return specifier, true
	}
	return "", false
}

// tryImporters calls each registered importer, descending priority,
// stopping at the first that returns a non-nil entry list (§4.4c).
// handled reports whether any importer answered at all; when it is
// false the driver falls back to filesystem resolution.
func (p *Pipeline) tryImporters(specifier, baseDir string, span diagnostics.SourceSpan, queries string) ([]ast.Statement, bool, error) {
	for _, im := range p.importers {
		entries := im.fn(specifier, baseDir)
		if entries == nil {
			continue
		}
		var out []ast.Statement
		for _, e := range entries {
			stmts, err := p.handleImporterEntry(e, specifier, baseDir, span, queries)
			if err != nil {
				return nil, true, err
			}
			out = append(out, stmts...)
		}
		return out, true, nil
	}
	return nil, false, nil
}

func (p *Pipeline) handleImporterEntry(e Entry, specifier, baseDir string, span diagnostics.SourceSpan, queries string) ([]ast.Statement, error) {
	if e.Err != nil {
		errSpan := span
		if e.Line != 0 {
			errSpan.Position = diagnostics.Position{Line: e.Line, Column: e.Column}
		}
		return nil, diagnostics.Wrap(errSpan, p.trace, e.Err)
	}

	if e.Source != nil {
		key := e.AbsPath
		if key == "" {
			key = specifier
		}
		if p.registry.Has(key) {
			p.counter++
			key = fmt.Sprintf("%s:%d", key, p.counter)
		}
		inc, err := p.registerContentEntry(Entry{ImpPath: e.ImpPath, AbsPath: key, Source: e.Source, Srcmap: e.Srcmap}, baseDir)
		if err != nil {
			return nil, err
		}
		return []ast.Statement{ast.NewImportStub(span, inc.AbsPath)}, nil
	}

	// path-only: classification recurses with the importer's abs_path
	// as the import specifier (§9 Open Questions — preserve this).
	return p.resolveImport(e.AbsPath, queries, span, baseDir)
}

// resolveFilesystem dispatches a specifier through the Path Resolver,
// disambiguating or loading whatever it finds.
func (p *Pipeline) resolveFilesystem(specifier string, span diagnostics.SourceSpan, baseDir string) ([]ast.Statement, error) {
	includes := p.resolver.FindIncludes(baseDir, specifier, p.includePaths)
	if len(includes) == 0 {
		return nil, diagnostics.New(diagnostics.ImportNotFound, span, p.trace, "unable to resolve import %q", specifier)
	}
	if len(includes) > 1 {
		names := make([]string, len(includes))
		for i, inc := range includes {
			names[i] = inc.AbsPath
		}
		return nil, diagnostics.New(diagnostics.AmbiguousImport, span, p.trace, "%s", diagnostics.AmbiguousImportMessage(specifier, names))
	}
	return p.loadFile(includes[0], span)
}

// loadFile registers, reads, parses and inserts the stylesheet at
// inc.AbsPath, respecting the UseCache short-circuit and the Import
// Stack's cycle check, then returns the ImportStub placeholder Expand
// will later resolve against the Sheet Registry.
func (p *Pipeline) loadFile(inc resolver.Include, span diagnostics.SourceSpan) ([]ast.Statement, error) {
	if p.UseCache() && p.registry.Has(inc.AbsPath) {
		return []ast.Statement{ast.NewImportStub(span, inc.AbsPath)}, nil
	}

	if chain := p.stack.CheckCycle(inc.AbsPath); chain != nil {
		return nil, diagnostics.New(diagnostics.ImportLoop, span, p.trace, "%s", diagnostics.ImportLoopMessage(relativiseAll(chain)))
	}

	contents, err := p.readFile(inc.AbsPath)
	if err != nil {
		return nil, diagnostics.New(diagnostics.ImportNotFound, span, p.trace, "unable to read %s: %v", inc.AbsPath, err)
	}

	if err := p.parseAndRegister(inc.ImpPath, inc.AbsPath, contents, nil, span); err != nil {
		return nil, err
	}
	return []ast.Statement{ast.NewImportStub(span, inc.AbsPath)}, nil
}

// registerContentEntry handles an Entry that already carries content
// (a header, or a content-bearing importer result): register, parse
// and insert it, returning the Include the caller tracks.
func (p *Pipeline) registerContentEntry(e Entry, baseDir string) (resolver.Include, error) {
	if e.Err != nil {
		return resolver.Include{}, diagnostics.Wrap(diagnostics.SourceSpan{Path: baseDir}, p.trace, e.Err)
	}
	span := diagnostics.SourceSpan{Path: e.AbsPath}
	if err := p.parseAndRegister(e.ImpPath, e.AbsPath, e.Source, e.Srcmap, span); err != nil {
		return resolver.Include{}, err
	}
	return resolver.Include{ImpPath: e.ImpPath, AbsPath: e.AbsPath}, nil
}

// relativiseAll renders each absolute path in chain relative to the
// process working directory, as §4.3 requires for an ImportLoop
// message; a path that cannot be relativised (different volume, Rel
// failure) is left absolute.
func relativiseAll(chain []string) []string {
	cwd, err := os.Getwd()
	if err != nil {
		return chain
	}
	out := make([]string, len(chain))
	for i, p := range chain {
		if rel, err := filepath.Rel(cwd, p); err == nil {
			out[i] = rel
		} else {
			out[i] = p
		}
	}
	return out
}

// parseAndRegister is the common tail of every successful load: push
// the Import Stack and Trace frames, register the Resource, parse it
// (recursing through HookFor for its own nested imports), and insert
// the result into the Sheet Registry.
func (p *Pipeline) parseAndRegister(impPath, absPath string, contents, srcmap []byte, span diagnostics.SourceSpan) error {
	resIx := p.store.Register(contents, srcmap)

	p.stack.Push(importstack.Frame{ImpPath: impPath, AbsPath: absPath})
	p.trace.Push(diagnostics.Frame{Span: span})
	defer p.stack.Pop()
	defer p.trace.Pop()

	root, err := parser.New(string(contents), absPath, resIx, p.HookFor(filepath.Dir(absPath))).Parse()
	if err != nil {
		return err
	}
	p.registry.Insert(absPath, &ast.StyleSheet{ResourceIndex: resIx, AbsPath: absPath, Root: root})
	return nil
}
