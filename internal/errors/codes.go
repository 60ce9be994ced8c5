package errors

// Error code taxonomy for the reversible core, organised by the four
// diagnostic families named in spec.md §7.
const (
	// Structural errors (STR###) — the pre-lowering shadow/resolution pass.
	STR001 = "STR001" // duplicate parameter
	STR002 = "STR002" // undefined variable
	STR003 = "STR003" // dropped variable used again
	STR004 = "STR004" // duplicate field in structure literal

	// Resolution errors (RES###) — name resolution through module inclusions.
	RES001 = "RES001" // unresolved structure path
	RES002 = "RES002" // ambiguous structure path
	RES003 = "RES003" // undefined function or structure

	// Typing errors (TYP###) — the type engine and inference driver.
	TYP001 = "TYP001" // unification failure
	TYP002 = "TYP002" // occurs check failed
	TYP003 = "TYP003" // unresolved inference variable
	TYP004 = "TYP004" // function-call arity mismatch
	TYP005 = "TYP005" // undefined field

	// Compile-time evaluation errors (EVA###) — the partial evaluator and
	// the evaluation runtime invoked against Entropic basic IR.
	EVA001 = "EVA001" // runtime expression in a compile-time context
	EVA002 = "EVA002" // arithmetic overflow
	EVA003 = "EVA003" // unreachable branch executed
	EVA004 = "EVA004" // irreversible construct in a reversible context

	// Cache errors (CAC###) — re-entrant construction through the
	// (path, reversibility)-keyed memoising caches.
	CAC001 = "CAC001" // recursive construction of the same cache key
)

// Info describes an error code for tooling that wants to group or explain
// diagnostics without hard-coding the taxonomy.
type Info struct {
	Code        string
	Phase       string
	Description string
}

// Registry maps every code above to its phase and a short description.
var Registry = map[string]Info{
	STR001: {STR001, "structural", "duplicate parameter"},
	STR002: {STR002, "structural", "undefined variable"},
	STR003: {STR003, "structural", "dropped variable used again"},
	STR004: {STR004, "structural", "duplicate field in structure literal"},

	RES001: {RES001, "resolution", "unresolved structure path"},
	RES002: {RES002, "resolution", "ambiguous structure path"},
	RES003: {RES003, "resolution", "undefined function or structure"},

	TYP001: {TYP001, "typing", "unification failure"},
	TYP002: {TYP002, "typing", "occurs check failed"},
	TYP003: {TYP003, "typing", "unresolved inference variable"},
	TYP004: {TYP004, "typing", "function-call arity mismatch"},
	TYP005: {TYP005, "typing", "undefined field"},

	EVA001: {EVA001, "evaluation", "runtime expression in compile-time context"},
	EVA002: {EVA002, "evaluation", "arithmetic overflow"},
	EVA003: {EVA003, "evaluation", "unreachable branch executed"},
	EVA004: {EVA004, "evaluation", "irreversible construct in reversible context"},

	CAC001: {CAC001, "cache", "recursive construction of the same cache key"},
}

// Lookup returns the registry entry for a code, if known.
func Lookup(code string) (Info, bool) {
	info, ok := Registry[code]
	return info, ok
}
