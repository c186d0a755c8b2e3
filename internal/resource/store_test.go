package resource

import "testing"

func TestRegisterAssignsDenseStableIndices(t *testing.T) {
	s := New()
	i0 := s.Register([]byte("a { color: red }"), nil)
	i1 := s.Register([]byte("b { color: blue }"), []byte(`{"version":3}`))

	if i0 != 0 || i1 != 1 {
		t.Fatalf("expected indices 0,1 got %d,%d", i0, i1)
	}
	if s.Len() != 2 {
		t.Fatalf("expected Len()=2, got %d", s.Len())
	}
	if got := string(s.Get(0).Contents); got != "a { color: red }" {
		t.Fatalf("unexpected contents for index 0: %q", got)
	}
	if got := string(s.Get(1).Srcmap); got != `{"version":3}` {
		t.Fatalf("unexpected srcmap for index 1: %q", got)
	}
}

func TestReleaseDropsBuffers(t *testing.T) {
	s := New()
	s.Register([]byte("x"), nil)
	s.Release()
	if s.Len() != 0 {
		t.Fatalf("expected Len()=0 after Release, got %d", s.Len())
	}
}
