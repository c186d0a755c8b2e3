package resolver

import (
	"os"
	"path/filepath"
	"testing"
)

func fakeFS(files ...string) func(string) (os.FileInfo, error) {
	set := make(map[string]bool, len(files))
	for _, f := range files {
		set[filepath.Clean(f)] = true
	}
	return func(p string) (os.FileInfo, error) {
		if set[filepath.Clean(p)] {
			return nil, nil
		}
		return nil, os.ErrNotExist
	}
}

func TestResolveBareNameConventions(t *testing.T) {
	r := NewWithStat(fakeFS("/proj/_foo.scss"))
	got := r.Resolve("/proj", "foo")
	if len(got) != 1 || got[0].AbsPath != filepath.Clean("/proj/_foo.scss") {
		t.Fatalf("expected single partial match, got %+v", got)
	}
}

func TestResolveAmbiguousReturnsAllCandidates(t *testing.T) {
	r := NewWithStat(fakeFS("/proj/x.scss", "/proj/_x.scss"))
	got := r.Resolve("/proj", "x")
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates for ambiguous import, got %d: %+v", len(got), got)
	}
}

func TestResolveExtensionedNameDoesNotSpeculate(t *testing.T) {
	r := NewWithStat(fakeFS("/proj/foo.css"))
	got := r.Resolve("/proj", "foo.css")
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 candidate, got %d", len(got))
	}
}

func TestFindIncludesFallsBackToIncludePaths(t *testing.T) {
	r := NewWithStat(fakeFS("/libs/_mixins.scss"))
	got := r.FindIncludes("/proj", "mixins", []string{"/libs"})
	if len(got) != 1 || got[0].AbsPath != filepath.Clean("/libs/_mixins.scss") {
		t.Fatalf("expected fallback to include path, got %+v", got)
	}
}

func TestFindIncludesStopsAtFirstProducingDir(t *testing.T) {
	r := NewWithStat(fakeFS("/a/_x.scss", "/b/_x.scss"))
	got := r.FindIncludes("/proj", "x", []string{"/a", "/b"})
	if len(got) != 1 || got[0].AbsPath != filepath.Clean("/a/_x.scss") {
		t.Fatalf("expected only /a candidate, got %+v", got)
	}
}

func TestResolveNothingFoundReturnsEmpty(t *testing.T) {
	r := NewWithStat(fakeFS())
	got := r.Resolve("/proj", "missing")
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %+v", got)
	}
}
