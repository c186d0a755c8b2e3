// Package sheet implements the Sheet Registry: a mapping from absolute
// resource path to its parsed stylesheet root.
package sheet

import "github.com/winsider/libsass/internal/ast"

// Registry enforces parse-once semantics when no user importers are
// active (the driver is responsible for checking UseCache before
// calling Insert — see loader.Pipeline). Entries are never evicted
// during a compile.
type Registry struct {
	byPath map[string]*ast.StyleSheet
	order  []string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{byPath: make(map[string]*ast.StyleSheet)}
}

// Insert registers sheet under absPath. Re-inserting the same absPath
// overwrites the previous entry — callers guard against that when
// parse-once semantics are in effect; when user importers are active
// (§4.4) repeated registration under a synthesised key is expected and
// each key is still unique.
func (r *Registry) Insert(absPath string, s *ast.StyleSheet) {
	if _, exists := r.byPath[absPath]; !exists {
		r.order = append(r.order, absPath)
	}
	r.byPath[absPath] = s
}

// Lookup returns the StyleSheet registered under absPath, or nil if
// none exists.
func (r *Registry) Lookup(absPath string) *ast.StyleSheet {
	return r.byPath[absPath]
}

// Has reports whether absPath has already been parsed.
func (r *Registry) Has(absPath string) bool {
	_, ok := r.byPath[absPath]
	return ok
}

// Iter returns every registered StyleSheet in insertion order.
func (r *Registry) Iter() []*ast.StyleSheet {
	out := make([]*ast.StyleSheet, 0, len(r.order))
	for _, p := range r.order {
		out = append(out, r.byPath[p])
	}
	return out
}

// Len reports how many distinct sheets are registered.
func (r *Registry) Len() int {
	return len(r.byPath)
}
