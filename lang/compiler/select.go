package compiler

import (
	"fmt"

	"github.com/mna/mindlang/lang/ast"
)

func compileSelect(sel ast.Select, meta *CompileMeta) error {
	caseLines := make([][]TagLine, len(sel.Cases))
	caseLens := make([]int, len(sel.Cases))

	for i, c := range sel.Cases {
		start := meta.TagCodeCount()
		if err := CompileLogicLine(c, meta); err != nil {
			return err
		}
		taken := meta.TagCodes().SplitOff(start)
		caseLines[i] = taken
		n := 0
		for _, l := range taken {
			if _, isTagDown := l.(TagDown); !isTagDown {
				n++
			}
		}
		caseLens[i] = n
	}

	maxLen := 0
	for _, n := range caseLens {
		if n > maxLen {
			maxLen = n
		}
	}

	if err := emitSelectPrologue(sel.Index, maxLen, meta); err != nil {
		return err
	}

	for i, lines := range caseLines {
		for _, l := range lines {
			meta.Push(l)
		}
		for pad := caseLens[i]; pad < maxLen; pad++ {
			meta.Push(Line("noop"))
		}
	}
	return nil
}

// emitSelectPrologue implements §4.6 steps 2-3: the computed-goto address
// is `@counter += idx * stride`, specialized for the three stride cases
// so idx-with-no-branches (stride 0) still evaluates idx for any side
// effects it carries.
func emitSelectPrologue(idx ast.Value, maxLen int, meta *CompileMeta) error {
	switch maxLen {
	case 0:
		// evaluate idx purely for side effects, discarding the result
		_, err := TakeHandle(idx, meta)
		return err

	case 1:
		h, err := TakeHandle(idx, meta)
		if err != nil {
			return err
		}
		meta.Push(Line(fmt.Sprintf("op add @counter @counter %s", h)))
		return nil

	default:
		h, err := TakeHandle(idx, meta)
		if err != nil {
			return err
		}
		tmp := meta.GetTmpVar()
		meta.Push(Line(fmt.Sprintf("op mul %s %s %d", tmp, h, maxLen)))
		meta.Push(Line(fmt.Sprintf("op add @counter @counter %s", tmp)))
		return nil
	}
}

// compileSwitch implements the `switch { case: ...; case >: ...; }`
// surface form (§4.6): each catcher arm contributes a guard, evaluated
// before the underlying Select, that jumps straight to the arm's body
// when its condition holds; reaching the Select at all means every
// guard's condition was false, i.e. the index hit an ordinary numbered
// case. Arm bodies are emitted after the Select and each falls through to
// a shared end label so only the first matching arm (in declaration
// order) runs. Misses carries no condition of its own; its guard is the
// complement of the declared case range, `index < 0 || index > max_case`.
func compileSwitch(sw ast.SwitchStmt, meta *CompileMeta) error {
	maxCase := len(sw.Cases) - 1
	armTags := make([]ast.Var, len(sw.Arms))

	for i, arm := range sw.Arms {
		armTags[i] = meta.GetTmpTag()
		armID := meta.GetTag(string(armTags[i]))

		var guard ast.CmpTree
		switch c := arm.Catch.(type) {
		case ast.SwitchMisses:
			guard = ast.Or(
				ast.Atom(ast.JumpCmp{Op: ast.CmpLessThan, A: sw.Index, B: ast.ReprVar(ast.ZeroVar)}),
				ast.Atom(ast.JumpCmp{Op: ast.CmpGreaterThan, A: sw.Index, B: ast.Var(fmt.Sprintf("%d", maxCase))}),
			)
		case ast.SwitchOverflow:
			guard = ast.Atom(ast.JumpCmp{Op: ast.CmpGreaterThan, A: sw.Index, B: ast.Var(fmt.Sprintf("%d", maxCase))})
		case ast.SwitchUnderflow:
			guard = ast.Atom(ast.JumpCmp{Op: ast.CmpLessThan, A: sw.Index, B: ast.ReprVar(ast.ZeroVar)})
		case ast.SwitchUserDefine:
			guard = c.Cond
		default:
			return fmt.Errorf("compiler: unhandled SwitchCatch variant %T", arm.Catch)
		}
		if err := BuildCmpTree(guard, armID, meta); err != nil {
			return err
		}
	}

	if err := compileSelect(ast.Select{Index: sw.Index, Cases: sw.Cases}, meta); err != nil {
		return err
	}
	if len(sw.Arms) == 0 {
		return nil
	}

	endID := meta.GetTag(string(sw.EndTag))
	meta.Push(Jump{ToTag: endID, CondStr: "always 0 0"})

	for i, arm := range sw.Arms {
		meta.Push(TagDown{TagID: meta.GetTag(string(armTags[i]))})
		if err := CompileLogicLine(arm.Body, meta); err != nil {
			return err
		}
		meta.Push(Jump{ToTag: endID, CondStr: "always 0 0"})
	}
	meta.Push(TagDown{TagID: endID})
	return nil
}
