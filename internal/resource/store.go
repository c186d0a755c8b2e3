// Package resource implements the Resource Store: owner of every loaded
// source buffer and optional pre-existing source map for one compile.
package resource

// Resource is two owned byte buffers: the loaded contents and an
// optional pre-existing source map. The Store owns both; nothing else
// may retain a reference past the Store's lifetime.
type Resource struct {
	Contents []byte
	Srcmap   []byte
}

// Store appends Resources in registration order and hands them back by
// index. Indices are stable and dense starting from zero; an emitter's
// source map indexes into this same order.
type Store struct {
	resources []Resource
}

// New returns an empty Store.
func New() *Store {
	return &Store{}
}

// Register appends contents (and an optional srcmap) and returns the
// newly assigned index. Ownership of both slices transfers to the
// Store.
func (s *Store) Register(contents, srcmap []byte) int {
	idx := len(s.resources)
	s.resources = append(s.resources, Resource{Contents: contents, Srcmap: srcmap})
	return idx
}

// Get returns the Resource at idx. It panics on an out-of-range index,
// since every valid index originates from Register and callers should
// never fabricate one.
func (s *Store) Get(idx int) *Resource {
	return &s.resources[idx]
}

// Len returns the number of registered resources.
func (s *Store) Len() int {
	return len(s.resources)
}

// Release drops every buffer the Store holds. Call once at Context
// teardown; the Store must not be used afterwards.
func (s *Store) Release() {
	s.resources = nil
}
