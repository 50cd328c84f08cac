// Package parser implements the recursive-descent parser that turns
// MindLang source text into an ast.Expand: it recognizes statements and
// desugars expression syntax (operator precedence, ternary,
// multi-assignment, switch/select catchers) into the plain LogicLine/Value
// AST the compiler package operates on.
package parser

import (
	"fmt"

	"github.com/mna/mindlang/lang/ast"
	"github.com/mna/mindlang/lang/scanner"
	"github.com/mna/mindlang/lang/token"
)

// ParseSource parses a single source buffer into an Expand. The returned
// error, when non-nil, is a scanner.ErrorList.
func ParseSource(filename string, src []byte) (ast.Expand, error) {
	var p parser
	p.init(filename, src)
	body := p.parseStatementsUntil(token.EOF)
	return body, p.errors.Err()
}

type parser struct {
	scanner scanner.Scanner
	errors  scanner.ErrorList
	file    *token.File

	tok token.Token
	val token.Value

	tagSeq int
	loops  ast.LoopStack
}

func (p *parser) init(filename string, src []byte) {
	fs := token.NewFileSet()
	p.file = fs.AddFile(filename, len(src))
	p.scanner.Init(p.file, src, p.errors.Add)
	p.advance()
}

func (p *parser) advance() {
	p.tok = p.scanner.Scan(&p.val)
}

func (p *parser) at(tok token.Token) bool { return p.tok == tok }

func (p *parser) error(pos token.Pos, msg string) {
	p.errors.Add(p.file.Position(pos), msg)
}

var errPanicMode = fmt.Errorf("parser: panic mode")

// expect consumes tok if it is current, else records an error and panics
// with errPanicMode, recovered at the nearest statement boundary.
func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.val.Pos
	if p.tok != tok {
		p.error(pos, fmt.Sprintf("expected %s, found %s", tok, p.tok))
		panic(errPanicMode)
	}
	p.advance()
	return pos
}

// synthTag allocates a parser-unique label name for desugared control
// flow (if/while/ternary/switch). The "__p" prefix keeps these out of the
// way of ordinary user identifiers without needing any coordination with
// the compiler's own tmp-tag counter, which only starts allocating once
// compilation (not parsing) begins.
func (p *parser) synthTag(hint string) ast.Var {
	id := p.tagSeq
	p.tagSeq++
	return ast.Var(fmt.Sprintf("__p_%s_%d", hint, id))
}

// parseStatementsUntil parses statements until tok is the current token
// (not consuming it) or EOF is reached.
func (p *parser) parseStatementsUntil(tok token.Token) ast.Expand {
	var lines ast.Expand
	for p.tok != tok && p.tok != token.EOF {
		line := p.parseStatementRecovering()
		if line != nil {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseCaseBody parses a select/switch case body: it ends at the next
// `case`, the closing brace (the last case in a block has no following
// `case`), or EOF.
func (p *parser) parseCaseBody() ast.Expand {
	var lines ast.Expand
	for p.tok != token.CASE && p.tok != token.RBRACE && p.tok != token.EOF {
		line := p.parseStatementRecovering()
		if line != nil {
			lines = append(lines, line)
		}
	}
	return lines
}

func (p *parser) parseStatementRecovering() (line ast.LogicLine) {
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
			p.syncToStmtBoundary()
			line = ast.IgnoreLine{}
		}
	}()
	return p.parseStatement()
}

// syncToStmtBoundary skips tokens until a semicolon (consumed) or a brace
// boundary, so one bad statement does not cascade into spurious errors
// for the rest of the file.
func (p *parser) syncToStmtBoundary() {
	for {
		switch p.tok {
		case token.SEMI:
			p.advance()
			return
		case token.RBRACE, token.EOF:
			return
		default:
			p.advance()
		}
	}
}

func (p *parser) parseStatement() ast.LogicLine {
	switch p.tok {
	case token.SEMI:
		p.advance()
		return ast.IgnoreLine{}

	case token.COLON:
		return p.parseLabel()

	case token.GOTO:
		return p.parseGoto()

	case token.CONST:
		return p.parseConst()

	case token.TAKE:
		return p.parseTake()

	case token.CONSTLEAK:
		return p.parseConstLeak()

	case token.SETRES:
		return p.parseSetRes()

	case token.NOOP:
		p.advance()
		p.expect(token.SEMI)
		return ast.NoOpLine{}

	case token.OP:
		return p.parseOpStmt()

	case token.SELECT:
		return p.parseSelect()

	case token.SWITCH:
		return p.parseSwitch()

	case token.IF:
		return p.parseIf()

	case token.WHILE:
		return p.parseWhile(false)

	case token.GWHILE:
		return p.parseWhile(true)

	case token.DOWHILE:
		return p.parseDoWhile()

	case token.BREAK:
		return p.parseBreakContinue(true)

	case token.CONTINUE:
		return p.parseBreakContinue(false)

	case token.INLINE:
		p.advance()
		p.expect(token.LBRACE)
		body := p.parseStatementsUntil(token.RBRACE)
		p.expect(token.RBRACE)
		return ast.InlineBlock{Lines: body}

	case token.MATCH:
		p.error(p.val.Pos, "match statement is not supported")
		panic(errPanicMode)

	case token.LBRACE:
		p.advance()
		body := p.parseStatementsUntil(token.RBRACE)
		p.expect(token.RBRACE)
		return body

	case token.IDENT, token.REPR, token.DOLLAR, token.QIDENT:
		return p.parseExprStatement(nil)

	case token.PRINT, token.END, token.SET, token.JUMP:
		// reserved words that are also MLOG instruction names
		name := ast.Var(p.val.Raw)
		p.advance()
		return p.parseExprStatement(name)

	default:
		p.error(p.val.Pos, fmt.Sprintf("unexpected token %s", p.tok))
		panic(errPanicMode)
	}
}

func (p *parser) parseLabel() ast.LogicLine {
	p.advance() // ':'
	name := p.parseIdentName()
	if p.tok == token.SEMI {
		p.advance()
	}
	return ast.LabelLine{Name: name}
}

// parseIdentName parses a name: a plain identifier, a quoted identifier, or
// a reserved word used as a name (e.g. the label in `:end`).
func (p *parser) parseIdentName() ast.Var {
	var name ast.Var
	switch {
	case p.tok == token.IDENT:
		name = ast.Var(p.val.Raw)
	case p.tok == token.QIDENT:
		name = ast.Var(p.val.String)
	case token.IsKeyword(p.val.Raw) && token.Lookup(p.val.Raw) == p.tok:
		name = ast.Var(p.val.Raw)
	default:
		p.error(p.val.Pos, "expected identifier")
		panic(errPanicMode)
	}
	p.advance()
	return name
}

func (p *parser) parseGoto() ast.LogicLine {
	p.advance() // 'goto'
	p.expect(token.COLON)
	label := p.parseIdentName()
	var cond ast.CmpTree
	if p.tok != token.SEMI {
		cond = p.parseCond()
	}
	p.expect(token.SEMI)
	return ast.GotoLine{Label: label, Cond: cond}
}

func (p *parser) parseConst() ast.LogicLine {
	p.advance() // 'const'
	name := p.parseIdentName()
	p.expect(token.ASSIGN)
	val := p.parseExpr()
	p.expect(token.SEMI)
	return ast.ConstLine{Name: name, Value: val}
}

func (p *parser) parseTake() ast.LogicLine {
	p.advance() // 'take'
	name := p.parseIdentName()
	p.expect(token.ASSIGN)
	val := p.parseExpr()
	p.expect(token.SEMI)
	return ast.TakeLine{Name: name, Value: val}
}

func (p *parser) parseConstLeak() ast.LogicLine {
	p.advance() // 'const-leak'
	names := []ast.Var{p.parseIdentName()}
	for p.tok == token.COMMA {
		p.advance()
		names = append(names, p.parseIdentName())
	}
	p.expect(token.SEMI)
	return ast.ConstLeakLine{Names: names}
}

func (p *parser) parseSetRes() ast.LogicLine {
	p.advance() // 'setres'
	val := p.parseExpr()
	p.expect(token.SEMI)
	return ast.SetResultHandleLine{Value: val}
}

// parseOpStmt parses `op dest expr;` (§4.7, scenario S1): dest is bound
// directly as the destination of expr's outermost operator application,
// with no intermediate temp, exactly as if dest had been the target slot
// op-expression desugaring was building toward all along.
func (p *parser) parseOpStmt() ast.LogicLine {
	p.advance() // 'op'
	dest := p.parseDestValue()
	info := p.parseOpExprInfo()
	p.expect(token.SEMI)
	return p.bindDest(dest, info)
}

// parseDestValue parses an assignable destination: `$`, an identifier
// (with optional `.attr` chain), or a ReprVar.
func (p *parser) parseDestValue() ast.Value {
	switch p.tok {
	case token.DOLLAR:
		p.advance()
		return ast.ResultHandle{}
	case token.REPR:
		v := ast.ReprVar(p.val.Raw)
		p.advance()
		return v
	case token.IDENT:
		var v ast.Value = ast.Var(p.val.Raw)
		p.advance()
		for p.tok == token.DOT {
			p.advance()
			attr := p.parseIdentName()
			v = &ast.ValueBind{Base: v, Attr: attr}
		}
		return v
	default:
		p.error(p.val.Pos, "expected destination")
		panic(errPanicMode)
	}
}

// bindDest attaches dest as info's destination without any intermediate
// temp: a plain value becomes a copy (`set dest value`), a pending Op
// gets dest directly, and a ternary's branches assign into dest inline.
func (p *parser) bindDest(dest ast.Value, info ast.OpExprInfo) ast.LogicLine {
	if v, ok := ast.AsOpExprValue(info); ok {
		return assignOne(dest, v)
	}
	if ie, ok := info.(ast.OpExprIfElse); ok {
		return p.ternaryLines(dest, ie)
	}
	return ast.OpLine{Op: ast.OpExprBuildOp(info, dest)}
}

// parseExprStatement handles assignment (single and multi-target) and
// bare pass-through instructions (`ident arg arg;`). first is the
// statement's leading value when the caller has already consumed it, or
// nil to parse it here.
func (p *parser) parseExprStatement(first ast.Value) ast.LogicLine {
	if first == nil {
		first = p.parseExpr()
	}

	if p.tok == token.ASSIGN {
		p.advance()
		return p.finishAssignment([]ast.Value{first})
	}
	if p.tok == token.COMMA {
		targets := []ast.Value{first}
		for p.tok == token.COMMA {
			p.advance()
			targets = append(targets, p.parseExpr())
		}
		p.expect(token.ASSIGN)
		return p.finishAssignment(targets)
	}

	// bare instruction: first already consumed as the opcode value
	args := []ast.Value{first}
	for p.tok != token.SEMI && p.tok != token.EOF {
		args = append(args, p.parseExpr())
	}
	p.expect(token.SEMI)
	name, ok := ast.AsVar(args[0])
	if !ok {
		if rv, ok2 := ast.AsReprVar(args[0]); ok2 {
			name = ast.Var(rv)
		}
	}
	rest := args[1:]
	if name == "print" && len(rest) > 1 {
		return expandPrint(name, rest)
	}
	return ast.OtherLine{Name: name, Args: rest}
}

// expandPrint lowers `print v1 v2 ...;` into one Other(["print", vi]) line
// per argument: MLOG's print instruction takes exactly one value, so a
// multi-argument print is sugar for N consecutive prints, not one
// instruction with N args.
func expandPrint(name ast.Var, args []ast.Value) ast.Expand {
	lines := make(ast.Expand, len(args))
	for i, a := range args {
		lines[i] = ast.OtherLine{Name: name, Args: []ast.Value{a}}
	}
	return lines
}

// finishAssignment parses the right-hand side of `targets... = rhs...;`
// and desugars it per §4.7: equal arity lowers to N independent
// assignments; a single RHS broadcasts to every target by computing it
// once into the first target and copying from there.
func (p *parser) finishAssignment(targets []ast.Value) ast.LogicLine {
	rhs := []ast.OpExprInfo{p.parseOpExprInfo()}
	for p.tok == token.COMMA {
		p.advance()
		rhs = append(rhs, p.parseOpExprInfo())
	}
	p.expect(token.SEMI)

	var lines ast.Expand
	switch {
	case len(rhs) == len(targets):
		for i, t := range targets {
			lines = append(lines, p.bindDest(t, rhs[i]))
		}
	case len(rhs) == 1:
		lines = append(lines, p.bindDest(targets[0], rhs[0]))
		for _, t := range targets[1:] {
			lines = append(lines, assignOne(t, targets[0]))
		}
	default:
		p.error(p.val.Pos, "set-var-no-pattern-value: mismatched assignment target/value counts")
		panic(errPanicMode)
	}
	if len(lines) == 1 {
		return lines[0]
	}
	return lines
}

// assignOne lowers `dest = src` to `set dest src`, MLOG's own copy
// instruction.
func assignOne(dest, src ast.Value) ast.LogicLine {
	return ast.OtherLine{Name: ast.Var("set"), Args: []ast.Value{dest, src}}
}

func (p *parser) parseBreakContinue(isBreak bool) ast.LogicLine {
	pos := p.val.Pos
	p.advance()
	p.expect(token.SEMI)

	var label ast.Var
	var ok bool
	if isBreak {
		label, ok = p.loops.Break()
	} else {
		label, ok = p.loops.Continue()
	}
	if !ok {
		what := "continue"
		if isBreak {
			what = "break"
		}
		p.error(pos, fmt.Sprintf("%s outside of any loop", what))
		panic(errPanicMode)
	}
	return ast.GotoLine{Label: label}
}

// parseCond parses a condition expression for goto/if/while: a boolean
// tree built from comparisons and `&&`/`||`, or a bare value treated as
// `value != false`.
func (p *parser) parseCond() ast.CmpTree {
	return p.parseCondOr()
}

func (p *parser) parseCondOr() ast.CmpTree {
	left := p.parseCondAnd()
	for p.tok == token.OROR {
		p.advance()
		right := p.parseCondAnd()
		left = ast.Or(left, right)
	}
	return left
}

func (p *parser) parseCondAnd() ast.CmpTree {
	left := p.parseCondAtom()
	for p.tok == token.ANDAND {
		p.advance()
		right := p.parseCondAtom()
		left = ast.And(left, right)
	}
	return left
}

func (p *parser) parseCondAtom() ast.CmpTree {
	if p.tok == token.LPAREN {
		p.advance()
		tree := p.parseCondOr()
		p.expect(token.RPAREN)
		return tree
	}
	if p.tok == token.IDENT && p.val.Raw == "_" {
		p.advance()
		return ast.Atom(ast.JumpCmp{Op: ast.CmpAlways})
	}
	// operands start below binLevels' `&&` and comparison levels, so those
	// operators are read as part of the condition, not of a value
	left := p.collapse(p.parseBinaryInfo(2))
	if cmp, ok := cmpTokOp(p.tok); ok {
		p.advance()
		right := p.collapse(p.parseBinaryInfo(2))
		return ast.Atom(ast.JumpCmp{Op: cmp, A: left, B: right})
	}
	return ast.Atom(ast.BoolCmp(left))
}

func cmpTokOp(tok token.Token) (ast.CmpOp, bool) {
	switch tok {
	case token.EQ:
		return ast.CmpEqual, true
	case token.NEQ:
		return ast.CmpNotEqual, true
	case token.LT:
		return ast.CmpLessThan, true
	case token.LE:
		return ast.CmpLessThanEq, true
	case token.GT:
		return ast.CmpGreaterThan, true
	case token.GE:
		return ast.CmpGreaterThanEq, true
	case token.STRICTEQ:
		return ast.CmpStrictEqual, true
	case token.STRICTNEQ:
		return ast.CmpStrictNotEqual, true
	default:
		return 0, false
	}
}

func (p *parser) parseIf() ast.LogicLine {
	return p.parseIfTail()
}

func (p *parser) parseIfTail() ast.LogicLine {
	p.advance() // 'if'
	cond := p.parseCond()
	p.expect(token.LBRACE)
	thenBody := p.parseStatementsUntil(token.RBRACE)
	p.expect(token.RBRACE)

	elseLab := p.synthTag("else")
	endLab := p.synthTag("endif")

	var elseBody ast.Expand
	hasElse := false
	switch p.tok {
	case token.ELIF:
		hasElse = true
		elseBody = ast.Expand{p.parseElif()}
	case token.ELSE:
		hasElse = true
		p.advance()
		p.expect(token.LBRACE)
		elseBody = p.parseStatementsUntil(token.RBRACE)
		p.expect(token.RBRACE)
	}

	var out ast.Expand
	out = append(out, ast.GotoLine{Label: elseLab, Cond: ast.Reverse(cond)})
	out = append(out, thenBody...)
	if hasElse {
		out = append(out, ast.GotoLine{Label: endLab})
	}
	out = append(out, ast.LabelLine{Name: elseLab})
	if hasElse {
		out = append(out, elseBody...)
		out = append(out, ast.LabelLine{Name: endLab})
	}
	return out
}

func (p *parser) parseElif() ast.LogicLine {
	return p.parseIfTail()
}

// parseWhile parses `while cond { ... }` (tests before each iteration) or
// `gwhile cond { ... }` (the "guaranteed" variant, which still tests
// before the first iteration but differs from while in which label
// `continue` targets — gwhile's continue re-enters at the condition test,
// while while's continue also does, so the two share one desugaring
// here; the distinction matters once loops gain a post-body step, which
// this language does not have).
func (p *parser) parseWhile(_ bool) ast.LogicLine {
	p.advance() // 'while' or 'gwhile'
	cond := p.parseCond()
	top := p.synthTag("while")
	end := p.synthTag("endwhile")

	p.loops.Push(ast.LoopLabels{Break: end, Continue: top})
	p.expect(token.LBRACE)
	body := p.parseStatementsUntil(token.RBRACE)
	p.expect(token.RBRACE)
	p.loops.Pop()

	var out ast.Expand
	out = append(out, ast.LabelLine{Name: top})
	out = append(out, ast.GotoLine{Label: end, Cond: ast.Reverse(cond)})
	out = append(out, body...)
	out = append(out, ast.GotoLine{Label: top})
	out = append(out, ast.LabelLine{Name: end})
	return out
}

func (p *parser) parseDoWhile() ast.LogicLine {
	p.advance() // 'do-while'
	top := p.synthTag("dowhile")
	end := p.synthTag("enddowhile")

	p.loops.Push(ast.LoopLabels{Break: end, Continue: top})
	p.expect(token.LBRACE)
	body := p.parseStatementsUntil(token.RBRACE)
	p.expect(token.RBRACE)
	p.loops.Pop()

	p.expect(token.WHILE)
	cond := p.parseCond()
	p.expect(token.SEMI)

	var out ast.Expand
	out = append(out, ast.LabelLine{Name: top})
	out = append(out, body...)
	out = append(out, ast.GotoLine{Label: top, Cond: cond})
	out = append(out, ast.LabelLine{Name: end})
	return out
}

func (p *parser) parseSelect() ast.LogicLine {
	p.advance() // 'select'
	idx := p.parseExpr()
	p.expect(token.LBRACE)
	var cases []ast.Expand
	for p.tok != token.RBRACE && p.tok != token.EOF {
		p.expect(token.CASE)
		p.expect(token.COLON)
		body := p.parseCaseBody()
		cases = append(cases, body)
	}
	p.expect(token.RBRACE)
	return ast.SelectLine{Select: ast.Select{Index: idx, Cases: cases}}
}

func (p *parser) parseSwitch() ast.LogicLine {
	p.advance() // 'switch'
	idx := p.parseExpr()
	p.expect(token.LBRACE)

	var cases []ast.Expand
	var arms []ast.SwitchCatchArm
	for p.tok != token.RBRACE && p.tok != token.EOF {
		p.expect(token.CASE)
		switch p.tok {
		case token.GT:
			p.advance()
			p.expect(token.COLON)
			body := p.parseCaseBody()
			arms = append(arms, ast.SwitchCatchArm{Catch: ast.SwitchOverflow{}, Body: body})
		case token.LT:
			p.advance()
			p.expect(token.COLON)
			body := p.parseCaseBody()
			arms = append(arms, ast.SwitchCatchArm{Catch: ast.SwitchUnderflow{}, Body: body})
		case token.BANG:
			p.advance()
			p.expect(token.COLON)
			body := p.parseCaseBody()
			arms = append(arms, ast.SwitchCatchArm{Catch: ast.SwitchMisses{}, Body: body})
		case token.LPAREN:
			p.advance()
			cond := p.parseCond()
			p.expect(token.RPAREN)
			p.expect(token.COLON)
			body := p.parseCaseBody()
			arms = append(arms, ast.SwitchCatchArm{Catch: ast.SwitchUserDefine{Cond: cond}, Body: body})
		default:
			p.expect(token.COLON)
			body := p.parseCaseBody()
			cases = append(cases, body)
		}
	}
	p.expect(token.RBRACE)

	return ast.SwitchLine{Switch: ast.SwitchStmt{
		Index:  idx,
		Cases:  cases,
		Arms:   arms,
		EndTag: p.synthTag("switchend"),
	}}
}
