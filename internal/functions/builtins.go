package functions

// BuildBuiltins returns a fresh Env populated with the fixed built-in
// catalogue: colour (RGB/HSL/opacity), string, number, list, map,
// selector, introspection and misc functions. The catalogue is
// rebuilt per Context rather than shared mutable module state, per
// the "effectively constant, construct once per process or per
// Context" guidance — Context construction is cheap enough here that
// per-compile is simpler than adding a sync.Once.
func BuildBuiltins() *Env {
	e := NewEnv()

	for _, name := range simpleNames {
		name := name
		e.RegisterSimple(name, identityStub(name))
	}

	for name, arities := range overloadedNames {
		name := name
		byArity := make(map[int]Func, len(arities))
		for _, arity := range arities {
			arity := arity
			byArity[arity] = identityStub(name)
		}
		e.RegisterOverload(name, byArity)
	}

	return e
}

// identityStub is the placeholder body shared by every built-in: the
// registration and overload-resolution discipline is this package's
// concern, not colour/string/list arithmetic, which belongs to the
// evaluator's own specification.
func identityStub(name string) Func {
	return func(args Args) (Value, error) {
		if len(args) == 0 {
			return Value{Text: name + "()"}, nil
		}
		return args[0], nil
	}
}

// simpleNames is every built-in with exactly one registered arity.
var simpleNames = []string{
	// colour: RGB/HSL construction and channel access
	"red", "green", "blue",
	"hue", "saturation", "lightness",
	"alpha", "opacity",
	"mix", "adjust-hue",
	"lighten", "darken",
	"saturate", "desaturate",
	"grayscale", "complement", "invert",
	"adjust-color", "scale-color", "change-color",
	"ie-hex-str",

	// string
	"unquote", "quote",
	"str-length", "str-insert", "str-index",
	"str-slice", "to-upper-case", "to-lower-case",

	// number
	"percentage", "round", "ceil", "floor", "abs",
	"min", "max", "random", "unit", "unitless",
	"comparable",

	// list
	"length", "nth", "set-nth", "join", "append",
	"zip", "index", "list-separator", "is-bracketed",

	// map
	"map-get", "map-merge", "map-remove", "map-keys",
	"map-values", "map-has-key",

	// selector
	"selector-nest", "selector-append", "selector-extend",
	"selector-replace", "selector-unify", "is-superselector",
	"simple-selectors", "selector-parse",

	// introspection / misc
	"type-of", "inspect", "call",
	"function-exists", "variable-exists", "global-variable-exists",
	"mixin-exists", "content-exists", "feature-exists",
	"if", "counter", "counters", "unique-id",
}

// overloadedNames is every built-in name with more than one registered
// arity, each mapped to its set of arities. `rgba` at 2 and 4 is the
// contract's named example (§4.8): `rgba($color, $alpha)` and
// `rgba($red, $green, $blue, $alpha)`.
var overloadedNames = map[string][]int{
	"rgb":  {1, 3},
	"rgba": {2, 4},
	"hsl":  {1, 3},
	"hsla": {2, 4},
}
