package atomiccmd

import "strings"

// Kind classifies a slot by the role its value plays in the command:
// something read by the child, written by the child, required on PATH,
// required as auxiliary data, or a version/capability check.
type Kind int

const (
	KindIn Kind = iota
	KindOut
	KindExec
	KindAux
	KindCheck
)

func (k Kind) String() string {
	switch k {
	case KindIn:
		return "IN"
	case KindOut:
		return "OUT"
	case KindExec:
		return "EXEC"
	case KindAux:
		return "AUX"
	case KindCheck:
		return "CHECK"
	default:
		return "UNKNOWN"
	}
}

// Scope distinguishes a slot whose value lives and dies inside the
// temporary directory (Temp) from one that names a final, caller-visible
// location (Final).
type Scope int

const (
	ScopeFinal Scope = iota
	ScopeTemp
)

// legalPrefixes lists, in the order spec.md enumerates them, the seven
// prefixes a slot name may begin with. A name must match exactly one.
var legalPrefixes = []struct {
	prefix string
	kind   Kind
	scope  Scope
}{
	{"TEMP_IN_", KindIn, ScopeTemp},
	{"TEMP_OUT_", KindOut, ScopeTemp},
	{"IN_", KindIn, ScopeFinal},
	{"OUT_", KindOut, ScopeFinal},
	{"EXEC_", KindExec, ScopeFinal},
	{"AUX_", KindAux, ScopeFinal},
	{"CHECK_", KindCheck, ScopeFinal},
}

// parseSlotName splits a slot name into its kind, scope and suffix.
// ok is false if name does not begin with exactly one of the seven legal
// prefixes, or if the suffix is empty.
func parseSlotName(name string) (kind Kind, scope Scope, suffix string, ok bool) {
	// No legal prefix is itself a prefix of another (TEMP_IN_X does not
	// start with IN_), so at most one entry can match.
	for _, p := range legalPrefixes {
		if strings.HasPrefix(name, p.prefix) {
			suffix = name[len(p.prefix):]
			if suffix == "" {
				return 0, 0, "", false
			}
			return p.kind, p.scope, suffix, true
		}
	}
	return 0, 0, "", false
}

// isTemp reports whether scope is ScopeTemp.
func (s Scope) isTemp() bool { return s == ScopeTemp }

// Reserved stream slot suffixes (spec.md §3).
const (
	suffixStdin  = "STDIN"
	suffixStdout = "STDOUT"
	suffixStderr = "STDERR"
)

// streamSlotNames enumerates, for a given stream, the final-scope and
// temp-scope slot names that designate it.
func streamSlotNames(kind Kind, suffix string) (final, temp string) {
	switch kind {
	case KindIn:
		return "IN_" + suffix, "TEMP_IN_" + suffix
	case KindOut:
		return "OUT_" + suffix, "TEMP_OUT_" + suffix
	default:
		return "", ""
	}
}

// SlotValue is the tagged-variant value a slot may hold: a path, the PIPE
// sentinel, a reference to an upstream Descriptor, or a check callable.
// Only one concrete type satisfies it per call site, enforced by the
// validator rather than by the interface itself.
type SlotValue interface {
	isSlotValue()
}

// Path is a plain filesystem path or executable name.
type Path string

func (Path) isSlotValue() {}

// pipeSentinel is the concrete type behind the exported PIPE value. It
// marks OUT_STDOUT/TEMP_OUT_STDOUT as "leave this a live readable handle"
// rather than "write this to a file".
type pipeSentinel struct{}

func (pipeSentinel) isSlotValue() {}

// PIPE is the sentinel value for OUT_STDOUT/TEMP_OUT_STDOUT slots,
// indicating that stdout should remain a live handle for a downstream
// Descriptor to consume via an IN_STDIN Upstream slot referencing this
// Descriptor.
var PIPE SlotValue = pipeSentinel{}

// Upstream wires IN_STDIN/TEMP_IN_STDIN to the live stdout of a producer
// Descriptor. The producer must be run before the consumer, and must
// outlive the consumer's Run call.
type Upstream struct {
	Cmd *Descriptor
}

func (Upstream) isSlotValue() {}

// CheckFunc is a version/capability predicate recorded by a CHECK_ slot.
// The core never invokes it; it exists so callers can discover and invoke
// prerequisite checks via Requirements.
type CheckFunc func() error

func (CheckFunc) isSlotValue() {}
