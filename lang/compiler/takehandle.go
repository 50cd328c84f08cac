package compiler

import (
	"fmt"

	"github.com/mna/mindlang/lang/ast"
)

// TakeHandle resolves v to a plain Var per §4.2's five rules, recursively
// compiling any DExp it passes through. This is the only place a Value
// collapses to invariant I1's "no $, no attribute syntax" shape.
func TakeHandle(v ast.Value, meta *CompileMeta) (ast.Var, error) {
	switch val := v.(type) {
	case ast.Var:
		return takeHandleVar(val, meta)
	case ast.ReprVar:
		return ast.Var(val), nil
	case ast.ResultHandle:
		return meta.DexpHandle()
	case *ast.DExp:
		return takeHandleDExp(val, meta)
	case *ast.ValueBind:
		return takeHandleBind(val, meta)
	default:
		return "", fmt.Errorf("compiler: unresolvable value of type %T", v)
	}
}

func takeHandleVar(v ast.Var, meta *CompileMeta) (ast.Var, error) {
	body, found, err := meta.ConstExpandEnter(v)
	if err != nil {
		return "", err
	}
	if !found {
		return v, nil
	}
	defer meta.ConstExpandExit()

	if inner, ok := ast.AsVar(body); ok {
		return inner, nil
	}
	return TakeHandle(body, meta)
}

func takeHandleDExp(d *ast.DExp, meta *CompileMeta) (ast.Var, error) {
	handle := d.Result
	if handle == "" {
		handle = meta.GetTmpVar()
	} else if binding, ok := meta.GetConstValue(handle); ok {
		switch bv := binding.value.(type) {
		case ast.Var:
			handle = bv
		case *ast.DExp:
			return "", &CompileError{
				Kind:    ErrConstRebindAsDExpHandle,
				Message: fmt.Sprintf("const %q is bound to a DExp, cannot be adopted as a result handle", handle),
				Info:    meta.ErrInfo(),
			}
		}
	}

	meta.PushDexpHandle(handle)
	if err := CompileLogicLine(d.Lines, meta); err != nil {
		meta.PopDexpHandle()
		return "", err
	}
	meta.PopDexpHandle()
	return handle, nil
}

func takeHandleBind(b *ast.ValueBind, meta *CompileMeta) (ast.Var, error) {
	if rv, ok := ast.AsReprVar(b.Base); ok && ast.IsString(string(rv)) {
		return "", &CompileError{
			Kind:    ErrStringAsBindBase,
			Message: "string literal cannot be used as the base of an attribute bind",
			Info:    meta.ErrInfo(),
		}
	}
	base, err := TakeHandle(b.Base, meta)
	if err != nil {
		return "", err
	}
	if ast.IsString(string(base)) {
		return "", &CompileError{
			Kind:    ErrStringAsBindBase,
			Message: "string literal cannot be used as the base of an attribute bind",
			Info:    meta.ErrInfo(),
		}
	}
	return ast.Var(fmt.Sprintf("__%s__bind__%s", base, b.Attr)), nil
}
