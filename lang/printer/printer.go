// Package printer implements the canonical source pretty-printer (§4.8):
// it turns an ast.Expand back into MindLang source text, using the same
// identifier-quoting rules the scanner and parser agree on, so that
// parsing a printer's output reproduces an equal AST (P7).
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/mna/mindlang/lang/ast"
)

const indentStep = "    "

// Printer controls source pretty-printing.
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer
}

// Print writes the canonical source form of body to p.Output.
func (p *Printer) Print(body ast.Expand) error {
	pp := &printer{w: p.Output}
	pp.printLines(body, 0)
	return pp.err
}

// Source returns the canonical source form of body as a string, the form
// most callers and tests want directly.
func Source(body ast.Expand) string {
	var sb strings.Builder
	pp := &printer{w: &sb}
	pp.printLines(body, 0)
	return sb.String()
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) writef(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) indent(depth int) string { return strings.Repeat(indentStep, depth) }

func (p *printer) printLines(lines ast.Expand, depth int) {
	for _, l := range lines {
		p.printLine(l, depth)
	}
}

func (p *printer) printLine(line ast.LogicLine, depth int) {
	ind := p.indent(depth)
	switch l := line.(type) {
	case ast.Expand:
		p.writef("%s{\n", ind)
		p.printLines(l, depth+1)
		p.writef("%s}\n", ind)

	case ast.InlineBlock:
		p.writef("%sinline {\n", ind)
		p.printLines(l.Lines, depth+1)
		p.writef("%s}\n", ind)

	case ast.NoOpLine:
		p.writef("%snoop;\n", ind)

	case ast.IgnoreLine:
		// nothing to print: statements the parser could not recover a node
		// for leave no trace in canonical source.

	case ast.LabelLine:
		p.writef("%s:%s;\n", ind, ast.QuoteIdent(string(l.Name)))

	case ast.GotoLine:
		if l.Cond == nil {
			p.writef("%sgoto :%s;\n", ind, ast.QuoteIdent(string(l.Label)))
		} else {
			p.writef("%sgoto :%s %s;\n", ind, ast.QuoteIdent(string(l.Label)), p.cmpTree(l.Cond))
		}

	case ast.OtherLine:
		args := make([]string, 0, len(l.Args)+1)
		args = append(args, ast.QuoteIdent(string(l.Name)))
		for _, a := range l.Args {
			args = append(args, p.value(a))
		}
		p.writef("%s%s;\n", ind, strings.Join(args, " "))

	case ast.SetResultHandleLine:
		p.writef("%ssetres %s;\n", ind, p.value(l.Value))

	case ast.OpLine:
		p.writef("%sop %s %s;\n", ind, p.value(l.Op.Dest), p.opExpr(l.Op))

	case ast.SelectLine:
		p.printSelect(l.Select, depth)

	case ast.SwitchLine:
		p.printSwitch(l.Switch, depth)

	case ast.ConstLine:
		p.writef("%sconst %s = %s;\n", ind, ast.QuoteIdent(string(l.Name)), p.value(l.Value))

	case ast.ConstLeakLine:
		names := make([]string, len(l.Names))
		for i, n := range l.Names {
			names[i] = ast.QuoteIdent(string(n))
		}
		p.writef("%sconst-leak %s;\n", ind, strings.Join(names, ", "))

	case ast.TakeLine:
		p.writef("%stake %s = %s;\n", ind, ast.QuoteIdent(string(l.Name)), p.value(l.Value))

	default:
		p.err = fmt.Errorf("printer: unhandled LogicLine variant %T", line)
	}
}

func (p *printer) printSelect(sel ast.Select, depth int) {
	ind := p.indent(depth)
	p.writef("%sselect %s {\n", ind, p.value(sel.Index))
	for _, c := range sel.Cases {
		p.writef("%scase:\n", p.indent(depth+1))
		p.printLines(c, depth+2)
	}
	p.writef("%s}\n", ind)
}

func (p *printer) printSwitch(sw ast.SwitchStmt, depth int) {
	ind := p.indent(depth)
	p.writef("%sswitch %s {\n", ind, p.value(sw.Index))
	for _, c := range sw.Cases {
		p.writef("%scase:\n", p.indent(depth+1))
		p.printLines(c, depth+2)
	}
	for _, arm := range sw.Arms {
		p.writef("%scase %s:\n", p.indent(depth+1), p.catchHead(arm.Catch))
		p.printLines(arm.Body, depth+2)
	}
	p.writef("%s}\n", ind)
}

func (p *printer) catchHead(c ast.SwitchCatch) string {
	switch v := c.(type) {
	case ast.SwitchOverflow:
		return ">"
	case ast.SwitchUnderflow:
		return "<"
	case ast.SwitchMisses:
		return "!"
	case ast.SwitchUserDefine:
		return "(" + p.cmpTree(v.Cond) + ")"
	default:
		p.err = fmt.Errorf("printer: unhandled SwitchCatch variant %T", c)
		return ""
	}
}

// value renders a Value in canonical form.
func (p *printer) value(v ast.Value) string {
	switch vv := v.(type) {
	case nil:
		return "0"
	case ast.Var:
		return ast.QuoteIdent(string(vv))
	case ast.ReprVar:
		return "`" + string(vv) + "`"
	case ast.ResultHandle:
		return "$"
	case *ast.ValueBind:
		return p.value(vv.Base) + "." + ast.QuoteIdent(string(vv.Attr))
	case *ast.DExp:
		var sb strings.Builder
		inner := &printer{w: &sb}
		inner.printLines(vv.Lines, 0)
		if inner.err != nil && p.err == nil {
			p.err = inner.err
		}
		stmts := strings.ReplaceAll(strings.TrimRight(sb.String(), "\n"), "\n", " ")
		return "(" + stmts + ")"
	default:
		p.err = fmt.Errorf("printer: unhandled Value variant %T", v)
		return ""
	}
}

// opExpr renders an Op's operands using its canonical infix/prefix/
// function-call spelling, the inverse of the parser's op-expr desugaring.
func (p *printer) opExpr(op ast.Op) string {
	if op.IsFunctionForm() || (op.Unary && op.Un.Symbol() == "") {
		if op.Unary {
			return fmt.Sprintf("%s(%s)", op.OperStr(), p.value(op.A))
		}
		return fmt.Sprintf("%s(%s, %s)", op.OperStr(), p.value(op.A), p.value(op.B))
	}
	if op.Unary {
		return op.OperSymbolStr() + p.value(op.A)
	}
	return fmt.Sprintf("%s %s %s", p.value(op.A), op.OperSymbolStr(), p.value(op.B))
}

// cmpTree renders a CmpTree using `&&`/`||` infix and bare comparisons,
// the inverse of parseCond. Nested `&&`/`||` operands are parenthesized so
// the tree shape survives reparsing.
func (p *printer) cmpTree(tree ast.CmpTree) string {
	sub := func(t ast.CmpTree) string {
		if _, ok := t.(ast.CmpAtomNode); ok {
			return p.cmpTree(t)
		}
		return "(" + p.cmpTree(t) + ")"
	}
	switch t := tree.(type) {
	case ast.CmpAtomNode:
		return p.cmpAtom(t.Cmp)
	case ast.CmpAndNode:
		return sub(t.L) + " && " + sub(t.R)
	case ast.CmpOrNode:
		return sub(t.L) + " || " + sub(t.R)
	default:
		p.err = fmt.Errorf("printer: unhandled CmpTree variant %T", tree)
		return ""
	}
}

func (p *printer) cmpAtom(cmp ast.JumpCmp) string {
	if cmp.Op == ast.CmpAlways {
		return "_"
	}
	return fmt.Sprintf("%s %s %s", p.value(cmp.A), cmp.Op.SymbolStr(), p.value(cmp.B))
}
