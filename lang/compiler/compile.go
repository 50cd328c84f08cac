package compiler

import (
	"fmt"
	"strings"

	"github.com/mna/mindlang/lang/ast"
)

// CompileLogicLine compiles line against meta, appending TagLines to
// meta's assembler. This is the single recursive entry every LogicLine
// variant funnels through.
func CompileLogicLine(line ast.LogicLine, meta *CompileMeta) error {
	switch l := line.(type) {
	case ast.Expand:
		meta.BlockEnter()
		for _, sub := range l {
			if err := CompileLogicLine(sub, meta); err != nil {
				meta.BlockExit()
				return err
			}
		}
		meta.BlockExit()
		return nil

	case ast.InlineBlock:
		for _, sub := range l.Lines {
			if err := CompileLogicLine(sub, meta); err != nil {
				return err
			}
		}
		return nil

	case ast.NoOpLine:
		meta.Push(Line("noop"))
		return nil

	case ast.IgnoreLine:
		return nil

	case ast.LabelLine:
		name := meta.GetInConstLabel(l.Name)
		meta.Push(TagDown{TagID: meta.GetTag(string(name))})
		return nil

	case ast.GotoLine:
		return compileGoto(l, meta)

	case ast.OtherLine:
		return compileOther(l, meta)

	case ast.SetResultHandleLine:
		h, err := TakeHandle(l.Value, meta)
		if err != nil {
			return err
		}
		if _, err := meta.SetDexpHandle(h); err != nil {
			return err
		}
		return nil

	case ast.OpLine:
		return compileOp(l.Op, meta)

	case ast.SelectLine:
		return compileSelect(l.Select, meta)

	case ast.SwitchLine:
		return compileSwitch(l.Switch, meta)

	case ast.ConstLine:
		meta.AddConstValue(l.Name, l.Value, constLabelsIn(l.Value))
		return nil

	case ast.ConstLeakLine:
		for _, name := range l.Names {
			meta.AddConstValueLeak(name)
		}
		return nil

	case ast.TakeLine:
		h, err := TakeHandle(l.Value, meta)
		if err != nil {
			return err
		}
		meta.AddConstValue(l.Name, h, nil)
		return nil

	default:
		return fmt.Errorf("compiler: unhandled LogicLine variant %T", line)
	}
}

// constLabelsIn collects the label names a const body declares, so that a
// later expansion of this const can freshen exactly those labels. A DExp
// body's Label/Goto targets are the only source of labels const bodies
// ever carry.
func constLabelsIn(v ast.Value) []ast.Var {
	d, ok := ast.AsDExp(v)
	if !ok {
		return nil
	}
	var labels []ast.Var
	var walk func(ast.LogicLine)
	walk = func(line ast.LogicLine) {
		switch l := line.(type) {
		case ast.LabelLine:
			labels = append(labels, l.Name)
		case ast.Expand:
			for _, sub := range l {
				walk(sub)
			}
		case ast.InlineBlock:
			for _, sub := range l.Lines {
				walk(sub)
			}
		}
	}
	for _, sub := range d.Lines {
		walk(sub)
	}
	return labels
}

func compileOther(l ast.OtherLine, meta *CompileMeta) error {
	args := make([]string, 0, len(l.Args)+1)
	opcode, err := TakeHandle(ast.ReprVar(l.Name), meta)
	if err != nil {
		return err
	}
	args = append(args, string(opcode))
	for _, v := range l.Args {
		h, err := TakeHandle(v, meta)
		if err != nil {
			return err
		}
		args = append(args, string(h))
	}
	meta.Push(Line(strings.Join(args, " ")))
	return nil
}

func compileOp(op ast.Op, meta *CompileMeta) error {
	dest, err := TakeHandle(op.Dest, meta)
	if err != nil {
		return err
	}
	a, err := takeHandleOrZero(op.A, meta)
	if err != nil {
		return err
	}
	b, err := takeHandleOrZero(op.B, meta)
	if err != nil {
		return err
	}
	meta.Push(Line(fmt.Sprintf("op %s %s %s %s", op.OperStr(), dest, a, b)))
	return nil
}

func takeHandleOrZero(v ast.Value, meta *CompileMeta) (ast.Var, error) {
	if v == nil {
		return ast.ZeroVar, nil
	}
	return TakeHandle(v, meta)
}

func compileGoto(g ast.GotoLine, meta *CompileMeta) error {
	target := meta.GetInConstLabel(g.Label)
	tag := meta.GetTag(string(target))
	cmp := g.Cond
	if cmp == nil {
		cmp = ast.Atom(ast.JumpCmp{Op: ast.CmpAlways})
	}
	return BuildCmpTree(cmp, tag, meta)
}

// BuildCmpTree implements §4.3(d): it recurses structurally over the tree,
// emitting one Jump per leaf so that And/Or combinations short-circuit
// correctly. doTagID is used as given; remapping a goto's label through the
// const-expansion frames is done by the caller (compileGoto).
func BuildCmpTree(tree ast.CmpTree, doTagID int, meta *CompileMeta) error {
	switch t := tree.(type) {
	case ast.CmpOrNode:
		if err := BuildCmpTree(t.L, doTagID, meta); err != nil {
			return err
		}
		return BuildCmpTree(t.R, doTagID, meta)

	case ast.CmpAndNode:
		endTag := meta.GetTmpTag()
		endID := meta.GetTag(string(endTag))
		if err := BuildCmpTree(ast.Reverse(t.L), endID, meta); err != nil {
			return err
		}
		if err := BuildCmpTree(t.R, doTagID, meta); err != nil {
			return err
		}
		meta.Push(TagDown{TagID: endID})
		return nil

	case ast.CmpAtomNode:
		return buildCmpAtom(t.Cmp, doTagID, meta)

	default:
		return fmt.Errorf("compiler: unhandled CmpTree variant %T", tree)
	}
}

func buildCmpAtom(cmp ast.JumpCmp, doTagID int, meta *CompileMeta) error {
	cmp = InlineCmpOp(cmp)
	cmp = normalizeCmp(cmp, meta)

	condStr, err := cmpCondStr(cmp, meta)
	if err != nil {
		return err
	}
	meta.Push(Jump{ToTag: doTagID, CondStr: condStr})
	return nil
}

func cmpCondStr(cmp ast.JumpCmp, meta *CompileMeta) (string, error) {
	if cmp.Op == ast.CmpAlways {
		return "always 0 0", nil
	}
	a, err := takeHandleOrZero(cmp.A, meta)
	if err != nil {
		return "", err
	}
	b, err := takeHandleOrZero(cmp.B, meta)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %s", cmp.Op.CmpStr(), a, b), nil
}

// normalizeCmp implements §4.3(a) do_start_compile_into: lowers the two
// synthetic variants into emittable equivalents. NotAlways becomes an
// always-false comparison via ReprVar zero literals, so it can never be
// accidentally const-shadowed. StrictNotEqual becomes the reversed form
// of a StrictEqual comparison, itself peephole-inlined if possible.
func normalizeCmp(cmp ast.JumpCmp, meta *CompileMeta) ast.JumpCmp {
	switch cmp.Op {
	case ast.CmpNotAlways:
		return ast.JumpCmp{Op: ast.CmpNotEqual, A: ast.ReprVar(ast.ZeroVar), B: ast.ReprVar(ast.ZeroVar)}
	case ast.CmpStrictNotEqual:
		dexp := ast.NewNoresDExp(ast.Expand{
			ast.OpLine{Op: ast.NewBinaryOp(ast.OpStrictEqual, ast.ResultHandle{}, cmp.A, cmp.B)},
		})
		reversed := ast.JumpCmp{Op: ast.CmpEqual, A: dexp, B: ast.ReprVar(ast.FalseVar)}.Reverse()
		return InlineCmpOp(reversed)
	default:
		return cmp
	}
}

// InlineCmpOp implements §4.3(c): when an atom compares a no-result,
// single-Op DExp against `false`, the DExp's Op is absorbed directly into
// the comparison, eliminating the DExp entirely. Repeats to absorb nested
// wrappers produced by normalizeCmp.
func InlineCmpOp(cmp ast.JumpCmp) ast.JumpCmp {
	for {
		next, ok := tryInlineOnce(cmp)
		if !ok {
			return cmp
		}
		cmp = next
	}
}

func tryInlineOnce(cmp ast.JumpCmp) (ast.JumpCmp, bool) {
	if cmp.Op != ast.CmpEqual && cmp.Op != ast.CmpNotEqual {
		return cmp, false
	}

	var dexp *ast.DExp
	var reverse bool
	switch {
	case isFalse(cmp.B):
		d, ok := ast.AsDExp(cmp.A)
		if !ok {
			return cmp, false
		}
		dexp, reverse = d, cmp.Op == ast.CmpEqual
	case isFalse(cmp.A):
		d, ok := ast.AsDExp(cmp.B)
		if !ok {
			return cmp, false
		}
		dexp, reverse = d, cmp.Op == ast.CmpEqual
	default:
		return cmp, false
	}

	if dexp.Result != "" || len(dexp.Lines) != 1 {
		return cmp, false
	}
	opLine, ok := ast.IsOp(dexp.Lines[0])
	if !ok || opLine.Op.Unary || !ast.IsResultHandle(opLine.Op.Dest) {
		return cmp, false
	}
	inlined, ok := opLine.Op.TryIntoCmp()
	if !ok {
		return cmp, false
	}
	if reverse {
		inlined = inlined.Reverse()
	}
	return inlined, true
}

func isFalse(v ast.Value) bool {
	if rv, ok := ast.AsReprVar(v); ok {
		return ast.Var(rv) == ast.FalseVar
	}
	if vv, ok := ast.AsVar(v); ok {
		return vv == ast.FalseVar
	}
	return false
}
