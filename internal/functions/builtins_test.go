package functions

import "testing"

func TestOverloadedNamesHaveGenericAndEverySpecificArity(t *testing.T) {
	e := BuildBuiltins()
	for name, arities := range overloadedNames {
		if !e.Has(name) {
			t.Fatalf("expected generic stub for %q", name)
		}
		for _, arity := range arities {
			if _, ok := e.Lookup(name, arity); !ok {
				t.Fatalf("expected arity-specific entry for %s/%d", name, arity)
			}
		}
	}
}

func TestGenericFallbackUsedForUnregisteredArity(t *testing.T) {
	e := BuildBuiltins()
	fn, ok := e.Lookup("rgba", 99)
	if !ok {
		t.Fatal("expected fallback to the generic overload stub")
	}
	if _, err := fn(nil); err == nil {
		t.Fatal("expected the overload stub to reject an unknown arity")
	}
}

func TestSimpleNamesRegisteredOnlyGeneric(t *testing.T) {
	e := BuildBuiltins()
	if !e.Has("mix") {
		t.Fatal("expected mix to be registered")
	}
	if _, ok := e.Lookup("mix", 2); !ok {
		t.Fatal("expected generic fallback to satisfy any arity for a single-arity builtin")
	}
}

func TestHostFunctionShadowsBuiltin(t *testing.T) {
	e := BuildBuiltins()
	e.RegisterSimple("mix", func(Args) (Value, error) { return Value{Text: "host"}, nil })
	fn, ok := e.Lookup("mix", 2)
	if !ok {
		t.Fatal("expected mix to resolve")
	}
	v, err := fn(nil)
	if err != nil || v.Text != "host" {
		t.Fatalf("expected host override to shadow the built-in, got %+v err=%v", v, err)
	}
}
