package ast

// BinaryOper identifies one of the 25 binary arithmetic/logical operations.
type BinaryOper uint8

//nolint:revive
const (
	OpAdd BinaryOper = iota
	OpSub
	OpMul
	OpDiv
	OpIdiv
	OpMod
	OpPow
	OpEqual
	OpNotEqual
	OpLand
	OpLessThan
	OpLessThanEq
	OpGreaterThan
	OpGreaterThanEq
	OpStrictEqual
	OpShl
	OpShr
	OpOr
	OpAnd
	OpXor
	OpMax
	OpMin
	OpAngle
	OpLen
	OpNoise
)

// UnaryOper identifies one of the 14 unary arithmetic operations.
type UnaryOper uint8

//nolint:revive
const (
	OpNot UnaryOper = iota
	OpAbs
	OpLog
	OpLog10
	OpFloor
	OpCeil
	OpSqrt
	OpRand
	OpSin
	OpCos
	OpTan
	OpAsin
	OpAcos
	OpAtan
)

type binInfo struct {
	name string
	sym  string // "" if the operator has no infix symbol (max, min, angle, len, noise)
}

var binInfos = [...]binInfo{
	OpAdd:          {"add", "+"},
	OpSub:          {"sub", "-"},
	OpMul:          {"mul", "*"},
	OpDiv:          {"div", "/"},
	OpIdiv:         {"idiv", "//"},
	OpMod:          {"mod", "%"},
	OpPow:          {"pow", "**"},
	OpEqual:        {"equal", "=="},
	OpNotEqual:     {"notEqual", "!="},
	OpLand:         {"land", "&&"},
	OpLessThan:     {"lessThan", "<"},
	OpLessThanEq:   {"lessThanEq", "<="},
	OpGreaterThan:  {"greaterThan", ">"},
	OpGreaterThanEq: {"greaterThanEq", ">="},
	OpStrictEqual:  {"strictEqual", "==="},
	OpShl:          {"shl", "<<"},
	OpShr:          {"shr", ">>"},
	OpOr:           {"or", "|"},
	OpAnd:          {"and", "&"},
	OpXor:          {"xor", "^"},
	OpMax:          {"max", ""},
	OpMin:          {"min", ""},
	OpAngle:        {"angle", ""},
	OpLen:          {"len", ""},
	OpNoise:        {"noise", ""},
}

var unInfos = [...]binInfo{
	OpNot:   {"not", "~"},
	OpAbs:   {"abs", ""},
	OpLog:   {"log", ""},
	OpLog10: {"log10", ""},
	OpFloor: {"floor", ""},
	OpCeil:  {"ceil", ""},
	OpSqrt:  {"sqrt", ""},
	OpRand:  {"rand", ""},
	OpSin:   {"sin", ""},
	OpCos:   {"cos", ""},
	OpTan:   {"tan", ""},
	OpAsin:  {"asin", ""},
	OpAcos:  {"acos", ""},
	OpAtan:  {"atan", ""},
}

// OpcodeName returns the canonical MLOG opcode name for op, e.g. "add".
func (op BinaryOper) OpcodeName() string { return binInfos[op].name }

// Symbol returns the infix operator spelling, or "" when op has none
// (max, min, angle, len, noise only have the function-call form).
func (op BinaryOper) Symbol() string { return binInfos[op].sym }

// OpcodeName returns the canonical MLOG opcode name for op, e.g. "sqrt".
func (op UnaryOper) OpcodeName() string { return unInfos[op].name }

// Symbol returns the prefix operator spelling, or "" when op has none.
func (op UnaryOper) Symbol() string { return unInfos[op].sym }

var binByName = func() map[string]BinaryOper {
	m := make(map[string]BinaryOper, len(binInfos))
	for op, info := range binInfos {
		m[info.name] = BinaryOper(op)
	}
	return m
}()

var unByName = func() map[string]UnaryOper {
	m := make(map[string]UnaryOper, len(unInfos))
	for op, info := range unInfos {
		m[info.name] = UnaryOper(op)
	}
	return m
}()

// LookupBinaryOper returns the BinaryOper named by its MLOG opcode name
// (e.g. "max"), used to parse the function-call operator form.
func LookupBinaryOper(name string) (BinaryOper, bool) {
	op, ok := binByName[name]
	return op, ok
}

// LookupUnaryOper returns the UnaryOper named by its MLOG opcode name
// (e.g. "sqrt"), used to parse the function-call operator form.
func LookupUnaryOper(name string) (UnaryOper, bool) {
	op, ok := unByName[name]
	return op, ok
}

// Op is the arithmetic/logical instruction node: a destination and one or
// two operands, tagged by whether it is unary or binary.
type Op struct {
	Unary bool
	Bin   BinaryOper
	Un    UnaryOper
	Dest  Value
	A     Value
	B     Value // nil for unary ops
}

// NewBinaryOp builds a binary Op.
func NewBinaryOp(op BinaryOper, dest, a, b Value) Op {
	return Op{Bin: op, Dest: dest, A: a, B: b}
}

// NewUnaryOp builds a unary Op.
func NewUnaryOp(op UnaryOper, dest, a Value) Op {
	return Op{Unary: true, Un: op, Dest: dest, A: a}
}

// OperStr returns the opcode name emitted in generated MLOG (`op <name> ...`).
func (o Op) OperStr() string {
	if o.Unary {
		return o.Un.OpcodeName()
	}
	return o.Bin.OpcodeName()
}

// OperSymbolStr returns the infix/prefix symbol form used by the
// pretty-printer, falling back to OperStr when the operator has none.
func (o Op) OperSymbolStr() string {
	if o.Unary {
		if s := o.Un.Symbol(); s != "" {
			return s
		}
		return o.Un.OpcodeName()
	}
	if s := o.Bin.Symbol(); s != "" {
		return s
	}
	return o.Bin.OpcodeName()
}

// IsFunctionForm reports whether the pretty-printer must render this binary
// operator in `name(a, b)` form rather than `a sym b` (max, min, angle,
// len, noise).
func (o Op) IsFunctionForm() bool {
	return !o.Unary && o.Bin.Symbol() == ""
}

// cmperCmpOp returns the JumpCmp constructor a binary op's comparison variant
// maps to for peephole inlining (§4.3c), and whether op has one at all.
//
// GreaterThan intentionally maps to CmpGreaterThanEq, reproducing the
// original compiler's comparer table exactly (see DESIGN.md).
func (op BinaryOper) cmperCmpOp() (CmpOp, bool) {
	switch op {
	case OpLessThan:
		return CmpLessThan, true
	case OpLessThanEq:
		return CmpLessThanEq, true
	case OpGreaterThan:
		return CmpGreaterThanEq, true
	case OpGreaterThanEq:
		return CmpGreaterThanEq, true
	case OpEqual:
		return CmpEqual, true
	case OpNotEqual:
		return CmpNotEqual, true
	case OpStrictEqual:
		return CmpStrictEqual, true
	default:
		return 0, false
	}
}

// TryIntoCmp attempts to convert op into the JumpCmp its comparer maps to,
// consuming op in the process (§9 Design Notes: "once a cmp is inlined, the
// donor op is consumed"). It only succeeds when op's destination is the
// `$` result handle, mirroring the peephole's requirement that the op have
// no declared result of its own.
func (o Op) TryIntoCmp() (JumpCmp, bool) {
	if o.Unary || !IsResultHandle(o.Dest) {
		return JumpCmp{}, false
	}
	cmpOp, ok := o.Bin.cmperCmpOp()
	if !ok {
		return JumpCmp{}, false
	}
	return JumpCmp{Op: cmpOp, A: o.A, B: o.B}, true
}
