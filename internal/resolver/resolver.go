// Package resolver implements the Path Resolver: turns a logical import
// specifier plus a base path into zero or more candidate absolute paths
// on disk, applying Sass file-extension and partial-name conventions.
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// recognisedExtensions are the extensions the resolver will not
// speculate past: a specifier already carrying one of these is tried
// as-is (plus its partial form), nothing else.
var recognisedExtensions = []string{".scss", ".sass", ".css"}

// Include is the result of resolving an Importer: the specifier as
// written, paired with a candidate absolute path.
type Include struct {
	ImpPath string
	AbsPath string
}

// Resolver generates and canonicalises candidates. It performs no I/O
// beyond stat-ing candidate paths; it never returns an error, only an
// empty slice when nothing exists on disk.
type Resolver struct {
	stat func(string) (os.FileInfo, error)
}

// New returns a Resolver backed by the real filesystem.
func New() *Resolver {
	return &Resolver{stat: os.Stat}
}

// NewWithStat returns a Resolver backed by a caller-supplied stat
// function, for testing against a fake filesystem.
func NewWithStat(stat func(string) (os.FileInfo, error)) *Resolver {
	return &Resolver{stat: stat}
}

// Resolve returns every candidate that exists under dir for impPath,
// following Sass bare-name and partial-name conventions. It returns nil
// when impPath resolves to nothing under dir.
func (r *Resolver) Resolve(dir, impPath string) []Include {
	var out []Include
	for _, candidate := range candidateNames(impPath) {
		abs := canonical(filepath.Join(dir, candidate))
		if r.exists(abs) {
			out = append(out, Include{ImpPath: impPath, AbsPath: abs})
		}
	}
	return out
}

// FindIncludes resolves impPath against baseDir first; if that yields
// any candidates they are returned as-is. Otherwise it iterates
// includePaths in registration order, returning the candidates found at
// the first directory that produces any. All candidates at the chosen
// directory are returned — disambiguation belongs to the Loader.
func (r *Resolver) FindIncludes(baseDir, impPath string, includePaths []string) []Include {
	if found := r.Resolve(baseDir, impPath); len(found) > 0 {
		return found
	}
	for _, p := range includePaths {
		if found := r.Resolve(p, impPath); len(found) > 0 {
			return found
		}
	}
	return nil
}

func (r *Resolver) exists(path string) bool {
	_, err := r.stat(path)
	return err == nil
}

// candidateNames expands a bare or extensioned specifier into the
// ordered list of filenames the Sass convention tries: for a bare name
// "foo" it tries "foo", "_foo", "foo.scss", "_foo.scss", "foo.sass",
// "_foo.sass", "foo.css", "_foo.css", plus the same set under a
// directory index ("foo/index.scss" etc). A specifier already carrying
// a recognised extension is tried only as itself and its partial form.
func candidateNames(impPath string) []string {
	ext := strings.ToLower(filepath.Ext(impPath))
	for _, known := range recognisedExtensions {
		if ext == known {
			dir, file := filepath.Split(impPath)
			return []string{impPath, filepath.Join(dir, "_"+file)}
		}
	}

	names := make([]string, 0, 16)
	addBare := func(p string) {
		dir, file := filepath.Split(p)
		names = append(names, p, filepath.Join(dir, "_"+file))
		for _, suffix := range []string{".scss", ".sass", ".css"} {
			names = append(names, p+suffix, filepath.Join(dir, "_"+file+suffix))
		}
	}
	addBare(impPath)
	addBare(filepath.Join(impPath, "index"))
	return names
}

// canonical collapses "." / ".." segments, normalises path separators
// for the current platform and folds the result to Unicode NFC so
// specifiers that arrive in different normalisation forms (common when
// files cross filesystems) compare equal byte-for-byte.
func canonical(p string) string {
	return norm.NFC.String(filepath.Clean(p))
}
