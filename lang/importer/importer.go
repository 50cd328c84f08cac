// Package importer rebuilds ast.LogicLine values from already-assembled
// compiler.TagLine output, the inverse of the final assembly step
// compiler.TagCodes.Compile performs. It lets tooling read a compiled
// program back out (to re-print it, or diff two compiles at the AST
// level) without re-deriving it from source.
package importer

import (
	"fmt"
	"strings"

	"github.com/mna/mindlang/lang/ast"
	"github.com/mna/mindlang/lang/compiler"
)

// TagLabel names the surface-syntax label a resolved tag id is given when
// reconstructed as a goto/label pair.
func TagLabel(id int) ast.Var {
	return ast.Var(fmt.Sprintf("tag_%d", id))
}

// FromTagCodes converts every line of tc back into the ast.LogicLine it
// was compiled from.
func FromTagCodes(tc *compiler.TagCodes) (ast.Expand, error) {
	lines := tc.Lines()
	out := make(ast.Expand, 0, len(lines))
	for _, l := range lines {
		line, err := FromTagLine(l)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

// FromTagLine converts one compiler.TagLine back into the ast.LogicLine
// it was compiled from: a TagDown becomes its label declaration, a Jump
// becomes a goto with its condition text parsed back into a CmpTree, and
// a Line becomes either an OpLine (when its first argument is "op") or a
// plain OtherLine.
func FromTagLine(line compiler.TagLine) (ast.LogicLine, error) {
	switch v := line.(type) {
	case compiler.TagDown:
		return ast.LabelLine{Name: TagLabel(v.TagID)}, nil

	case compiler.Jump:
		args, err := splitArgs(v.CondStr)
		if err != nil {
			return nil, err
		}
		cmp, err := jumpCmpFromArgs(args)
		if err != nil {
			return nil, err
		}
		return ast.GotoLine{Label: TagLabel(v.ToTag), Cond: ast.Atom(cmp)}, nil

	case compiler.Line:
		args, err := splitArgs(string(v))
		if err != nil {
			return nil, err
		}
		if len(args) == 0 {
			return nil, &compiler.CompileError{Kind: compiler.ErrArgsCount, Message: "empty instruction line"}
		}
		if args[0] == "op" {
			op, err := opFromArgs(args[1:])
			if err != nil {
				return nil, err
			}
			return ast.OpLine{Op: op}, nil
		}
		rest := make([]ast.Value, len(args)-1)
		for i, a := range args[1:] {
			rest[i] = ast.Var(a)
		}
		return ast.OtherLine{Name: ast.Var(args[0]), Args: rest}, nil
	}
	return nil, &compiler.CompileError{Kind: compiler.ErrArgsCount, Message: fmt.Sprintf("unrecognized tag line %T", line)}
}

// jumpCmpFromArgs parses a jump instruction's condition clause, already
// split into its 3 arguments ("equal a b", "always 0 0", ...).
func jumpCmpFromArgs(args []string) (ast.JumpCmp, error) {
	if len(args) != 3 {
		return ast.JumpCmp{}, &compiler.CompileError{
			Kind:    compiler.ErrArgsCount,
			Message: fmt.Sprintf("jump condition wants 3 arguments, got %d", len(args)),
		}
	}
	op, ok := ast.LookupCmpOp(args[0])
	if !ok {
		return ast.JumpCmp{}, &compiler.CompileError{
			Kind:    compiler.ErrUnknownComparer,
			Message: fmt.Sprintf("unknown comparer %q", args[0]),
		}
	}
	return ast.JumpCmp{Op: op, A: ast.Var(args[1]), B: ast.Var(args[2])}, nil
}

// opFromArgs parses an `op` instruction's arguments, already split and
// with the leading "op" keyword stripped: opcode name, destination, and
// its one or two operands (unary opcodes still carry a padding 4th
// argument, per compileOp's fixed-arity output).
func opFromArgs(args []string) (ast.Op, error) {
	if len(args) != 4 {
		return ast.Op{}, &compiler.CompileError{
			Kind:    compiler.ErrArgsCount,
			Message: fmt.Sprintf("op instruction wants 4 arguments, got %d", len(args)),
		}
	}
	oper, dest, a, b := args[0], args[1], args[2], args[3]

	if bin, ok := ast.LookupBinaryOper(oper); ok {
		return ast.NewBinaryOp(bin, ast.Var(dest), ast.Var(a), ast.Var(b)), nil
	}
	if un, ok := ast.LookupUnaryOper(oper); ok {
		return ast.NewUnaryOp(un, ast.Var(dest), ast.Var(a)), nil
	}
	return ast.Op{}, &compiler.CompileError{
		Kind:    compiler.ErrUnknownOper,
		Message: fmt.Sprintf("unknown operator %q", oper),
	}
}

// splitArgs splits a raw instruction line into its space-separated
// arguments, keeping a double-quoted run together as one argument even
// when it contains spaces.
func splitArgs(line string) ([]string, error) {
	var args []string
	var cur strings.Builder
	inQuote := false
	quoteStart := 0

	flush := func() {
		if cur.Len() > 0 {
			args = append(args, cur.String())
			cur.Reset()
		}
	}
	for i, r := range line {
		switch {
		case inQuote:
			cur.WriteRune(r)
			if r == '"' {
				inQuote = false
			}
		case r == '"':
			inQuote = true
			quoteStart = i
			cur.WriteRune(r)
		case r == ' ' || r == '\t':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return nil, &compiler.CompileError{
			Kind:    compiler.ErrStringNoStop,
			Message: fmt.Sprintf("unterminated string starting at column %d in: %s", quoteStart, line),
		}
	}
	flush()
	return args, nil
}
