package diagnostic

import (
	"fmt"
	"strings"
)

// Kind classifies a note. Each kind has a stable code used by explain.
type Kind int

const (
	Internal Kind = iota
	ModuleNotFound
	UnexpectedToken
	DuplicateEntryPoint
	InvalidType
	UnknownSymbol
	DuplicateDefinition
	BoundBroken
	BlockContents
	UnstableVersion
	Style
)

type kindInfo struct {
	code    string
	title   string // %s is replaced by the occurrence
	explain string
}

var kinds = map[Kind]kindInfo{
	Internal: {"E0000", "internal error",
		`The compiler reached a state it does not support. This is a bug in the
compiler, not in the program being compiled.`},
	ModuleNotFound: {"E0001", "module not found",
		`A source file or project configuration could not be read, or the
configuration is invalid.

When checking a project, every mod declaration names a file relative to
the entry file: mod std::math refers to std/math.vsv. Modules must not
import each other in a cycle.

Check the path passed on the command line and the contents of vesuvius.yaml.`},
	UnexpectedToken: {"E0002", "unexpected token",
		`The parser found a token that cannot appear at this position.

Every top level declaration ends with ';':

    fn main() { 1 };`},
	DuplicateEntryPoint: {"E0003", "duplicate entry point",
		`More than one function is marked #[entry]. A program has exactly one
entry point; the first one declared is kept.

    #[entry]
    fn main() {};
    #[entry]
    fn other() {}; // error`},
	InvalidType: {"E0004", "invalid type received",
		`A value of one type was used where another was required. Both sides of
a binary operator must have the same type, conditions must be bool, and
every branch of an if expression must produce the same type.

    if (x) { 1 } else { 1.0 } // int and float branches

An if without else can produce no value, so its branches must not produce
one either.`},
	UnknownSymbol: {"E0005", "unknown symbol",
		`A name was used that is not defined in this scope or any enclosing one.
Names defined inside a block stop existing when the block ends.`},
	DuplicateDefinition: {"E0006", "duplicate definition",
		`Two top level declarations share a name. The later declaration replaces
the earlier one.

Redefining a name with let inside a function body is allowed and shadows
the earlier binding.`},
	BoundBroken: {"E0007", "bound %s broken",
		`An arithmetic operation leaves the range of its type: overflow,
underflow or division by zero. The checker tracks the values an expression
can take, so this is reported when the failure is certain ("always") or
possible on some path ("sometimes").

    let x = 200u8 + 100u8; // 300 does not fit in uint8`},
	BlockContents: {"W0001", "block contents %s called",
		`The condition of an if or elif branch is decided at compile time.

If it always succeeds, the branches after it are never reached; replace
the branch with else or remove the if. If it always fails, the branch is
dead code and can be removed.`},
	UnstableVersion: {"W0002", "unstable release used",
		`The project version in vesuvius.yaml is a pre-release or is below
v1.0.0. The version is accepted, but may change without notice.`},
	Style: {"W0003", "style",
		`Reported by the lint command. Function and module names use snake_case,
bodies should not be empty, and every parameter and let binding should be
read somewhere.`},
}

// Code returns the stable code of k, e.g. E0004
func (k Kind) Code() string {
	if info, ok := kinds[k]; ok {
		return info.code
	}
	return "E0000"
}

// Title returns the headline for k at the given occurrence
func (k Kind) Title(occ Occurrence) string {
	info, ok := kinds[k]
	if !ok {
		return "internal error"
	}
	if strings.Contains(info.title, "%s") {
		return fmt.Sprintf(info.title, occ)
	}
	return info.title
}

func (k Kind) String() string {
	return k.Title(Always)
}

// LookupCode resolves a note code such as "E0004" or "w0001"
func LookupCode(code string) (Kind, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for k, info := range kinds {
		if info.code == code {
			return k, true
		}
	}
	return Internal, false
}

// Explain returns the long description of a note code
func Explain(code string) (string, error) {
	k, ok := LookupCode(code)
	if !ok {
		return "", fmt.Errorf("unknown note code %q", code)
	}
	info := kinds[k]
	return fmt.Sprintf("%s: %s\n\n%s\n", info.code, k.Title(Always), info.explain), nil
}

// Codes returns every known code in order
func Codes() []string {
	out := make([]string, 0, len(kinds))
	for k := Internal; k <= Style; k++ {
		out = append(out, kinds[k].code)
	}
	return out
}
