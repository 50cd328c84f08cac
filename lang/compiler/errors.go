package compiler

import "fmt"

// ErrKind classifies a CompileError (§7 error taxonomy).
type ErrKind int

const (
	// ErrSetVarNoPatternValue: the LHS of a multi-assignment is a pattern
	// the RHS shape cannot satisfy (neither exact arity match nor a
	// single-value broadcast source).
	ErrSetVarNoPatternValue ErrKind = iota
	// ErrConstRebindAsDExpHandle: a DExp's named result handle is a const
	// bound to another DExp, which cannot be adopted as a result handle.
	ErrConstRebindAsDExpHandle
	// ErrStringAsBindBase: `.` attribute access attempted on a string
	// literal base, which has no resolvable handle.
	ErrStringAsBindBase
	// ErrOutOfDExp: `$` or `setres` used outside any enclosing DExp.
	ErrOutOfDExp
	// ErrRecursionLimit: const-expansion nesting exceeded the configured
	// depth bound.
	ErrRecursionLimit
	// ErrUnknownComparer: the MLOG round-trip importer saw a `jump`
	// condition keyword it does not recognize.
	ErrUnknownComparer
	// ErrUnknownOper: the MLOG round-trip importer saw an `op` opcode name
	// it does not recognize.
	ErrUnknownOper
	// ErrArgsCount: the MLOG round-trip importer saw an instruction with
	// the wrong argument count for its opcode.
	ErrArgsCount
	// ErrStringNoStop: the MLOG round-trip importer could not tokenize a
	// line's quoted-string argument (unterminated quote).
	ErrStringNoStop
)

func (k ErrKind) String() string {
	switch k {
	case ErrSetVarNoPatternValue:
		return "set-var-no-pattern-value"
	case ErrConstRebindAsDExpHandle:
		return "const-rebind-as-dexp-handle"
	case ErrStringAsBindBase:
		return "string-as-bind-base"
	case ErrOutOfDExp:
		return "out-of-dexp"
	case ErrRecursionLimit:
		return "recursion-limit-exceeded"
	case ErrUnknownComparer:
		return "unknown-comparer"
	case ErrUnknownOper:
		return "unknown-oper"
	case ErrArgsCount:
		return "args-count"
	case ErrStringNoStop:
		return "string-no-stop"
	default:
		return "unknown"
	}
}

// CompileError is the single error type every compiler entry point
// returns; Info carries a CompileMeta.ErrInfo() dump when one was
// available at the failure site.
type CompileError struct {
	Kind    ErrKind
	Message string
	Info    []string
}

func (e *CompileError) Error() string {
	if len(e.Info) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	s := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	for _, line := range e.Info {
		s += "\n" + line
	}
	return s
}

// Is supports errors.Is comparison by Kind, so callers can write
// errors.Is(err, &CompileError{Kind: ErrOutOfDExp}) without matching the
// Message/Info payload.
func (e *CompileError) Is(target error) bool {
	other, ok := target.(*CompileError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}
