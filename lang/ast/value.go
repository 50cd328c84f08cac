package ast

// Value is the sum type of every expression-position node: Var, ReprVar,
// ResultHandle, *DExp and *ValueBind. A Value collapses to a plain Var once
// it has been resolved against a compiler.CompileMeta (invariant I1).
type Value interface {
	isValue()
}

// Var (as a Value) is the ordinary name variant, subject to const
// substitution during resolution.
func (Var) isValue() {}

// ReprVar is a "quoted raw" name: it survives exactly one round of
// const-substitution (invariant I2) and is never looked up as a const
// itself.
type ReprVar string

func (ReprVar) isValue() {}

// ResultHandle is the literal `$` placeholder: resolved to the handle of
// the innermost enclosing DExp.
type ResultHandle struct{}

func (ResultHandle) isValue() {}

// DExp is an expression whose effective handle is Result; if Result is
// empty, one is allocated at resolution time. Lines execute with Result
// pushed as the current `$` binding.
type DExp struct {
	Result Var
	Lines  Expand
}

func (*DExp) isValue() {}

// NewDExp builds a DExp with an explicit (possibly empty) named result.
func NewDExp(result Var, lines Expand) *DExp {
	return &DExp{Result: result, Lines: lines}
}

// NewNoresDExp builds a DExp with no named result (one is allocated at
// resolution time).
func NewNoresDExp(lines Expand) *DExp {
	return &DExp{Lines: lines}
}

// NewNoEffectValue returns the canonical side-effect-free placeholder value:
// a ReprVar so it is never accidentally const-substituted.
func NewNoEffectValue() Value {
	return ReprVar(ZeroVar)
}

// ValueBind represents attribute access `a.b`; it resolves to the
// synthesized name `__{A}__bind__{b}` where A is the resolved handle of a.
type ValueBind struct {
	Base Value
	Attr Var
}

func (*ValueBind) isValue() {}

// AsDExp reports whether v is a *DExp and returns it.
func AsDExp(v Value) (*DExp, bool) {
	d, ok := v.(*DExp)
	return d, ok
}

// AsVar reports whether v is a plain Var and returns it.
func AsVar(v Value) (Var, bool) {
	vv, ok := v.(Var)
	return vv, ok
}

// AsReprVar reports whether v is a ReprVar and returns it.
func AsReprVar(v Value) (ReprVar, bool) {
	rv, ok := v.(ReprVar)
	return rv, ok
}

// IsResultHandle reports whether v is the `$` placeholder.
func IsResultHandle(v Value) bool {
	_, ok := v.(ResultHandle)
	return ok
}
