package parser

import (
	"github.com/mna/mindlang/lang/ast"
	"github.com/mna/mindlang/lang/token"
)

// combiner builds the OpExprInfo for one binary application once both
// operands have been reduced to plain Values.
type combiner func(a, b ast.Value) ast.OpExprInfo

func simpleBin(op ast.BinaryOper) combiner {
	return func(a, b ast.Value) ast.OpExprInfo { return ast.OpExprOp{Bin: op, A: a, B: b} }
}

// strictNotEqual has no BinaryOper of its own: `a !== b` lowers to
// `Equal(dst, StrictEqual(a, b), false)` (§4.7).
func strictNotEqual(a, b ast.Value) ast.OpExprInfo {
	inner := collapseOp(ast.OpExprOp{Bin: ast.OpStrictEqual, A: a, B: b})
	return ast.OpExprOp{Bin: ast.OpEqual, A: inner, B: ast.ReprVar(ast.FalseVar)}
}

// binLevels is the precedence ladder from loosest to tightest, exactly as
// §4.7 groups the operators: `&&` (land, as a value-producing op, not the
// short-circuit condition combinator used by goto/if/while), comparisons,
// bitwise or/xor, bitwise and, shifts, add/sub, mul/div/idiv/mod, and
// finally `**` (right-associative, handled separately below).
var binLevels = []map[token.Token]combiner{
	{token.ANDAND: simpleBin(ast.OpLand)},
	{
		token.EQ: simpleBin(ast.OpEqual), token.NEQ: simpleBin(ast.OpNotEqual),
		token.LT: simpleBin(ast.OpLessThan), token.LE: simpleBin(ast.OpLessThanEq),
		token.GT: simpleBin(ast.OpGreaterThan), token.GE: simpleBin(ast.OpGreaterThanEq),
		token.STRICTEQ: simpleBin(ast.OpStrictEqual), token.STRICTNEQ: strictNotEqual,
	},
	{token.PIPE: simpleBin(ast.OpOr), token.CARET: simpleBin(ast.OpXor)},
	{token.AMP: simpleBin(ast.OpAnd)},
	{token.SHL: simpleBin(ast.OpShl), token.SHR: simpleBin(ast.OpShr)},
	{token.PLUS: simpleBin(ast.OpAdd), token.MINUS: simpleBin(ast.OpSub)},
	{token.STAR: simpleBin(ast.OpMul), token.SLASH: simpleBin(ast.OpDiv), token.SLASHSLASH: simpleBin(ast.OpIdiv), token.PERCENT: simpleBin(ast.OpMod)},
}

const powLevel = 7 // synthetic level beyond binLevels, right-associative

// parseExpr parses a full value expression and collapses it to a plain
// Value, wrapping any pending operator application in a no-named-result
// DExp so its destination becomes ResultHandle. Used everywhere an
// operand, not a statement destination, is expected.
func (p *parser) parseExpr() ast.Value {
	return p.collapse(p.parseOpExprInfo())
}

// parseOpExprInfo parses the op-expression grammar (§4.7) without
// collapsing the outermost application, so a caller that owns an explicit
// destination (an `op` statement, an assignment) can bind it directly
// instead of routing through a temp.
func (p *parser) parseOpExprInfo() ast.OpExprInfo {
	if p.tok == token.IF {
		return p.parseTernaryInfo()
	}
	return p.parseBinaryInfo(0)
}

func (p *parser) parseBinaryInfo(level int) ast.OpExprInfo {
	if level == powLevel {
		return p.parsePowInfo()
	}
	if level > powLevel {
		return p.parseUnaryInfo()
	}

	left := p.parseBinaryInfo(level + 1)
	for {
		combine, ok := binLevels[level][p.tok]
		if !ok {
			return left
		}
		p.advance()
		a := collapseOp(left)
		right := p.parseBinaryInfo(level + 1)
		b := collapseOp(right)
		left = combine(a, b)
	}
}

func (p *parser) parsePowInfo() ast.OpExprInfo {
	left := p.parseUnaryInfo()
	if p.tok != token.STARSTAR {
		return left
	}
	p.advance()
	a := collapseOp(left)
	right := p.parsePowInfo() // right-associative: recurse at the same level
	b := collapseOp(right)
	return ast.OpExprOp{Bin: ast.OpPow, A: a, B: b}
}

func (p *parser) parseUnaryInfo() ast.OpExprInfo {
	switch p.tok {
	case token.MINUS:
		p.advance()
		a := collapseOp(p.parseUnaryInfo())
		return ast.OpExprOp{Bin: ast.OpSub, A: ast.ReprVar(ast.ZeroVar), B: a}
	case token.TILDE:
		p.advance()
		a := collapseOp(p.parseUnaryInfo())
		return ast.OpExprOp{Unary: true, Un: ast.OpNot, A: a}
	case token.BANG:
		p.advance()
		a := collapseOp(p.parseUnaryInfo())
		return ast.OpExprOp{Bin: ast.OpEqual, A: a, B: ast.ReprVar(ast.FalseVar)}
	default:
		return p.parsePrimaryInfo()
	}
}

// collapseOp is the free-function half of collapsing an OpExprInfo into a
// Value: it handles the two variants that need no parser state (a bare
// Value passes through; a pending Op gets wrapped in a no-named-result
// DExp). Ternary needs fresh label names, so it is collapsed by the
// parser-method collapse below.
func collapseOp(info ast.OpExprInfo) ast.Value {
	if v, ok := ast.AsOpExprValue(info); ok {
		return v
	}
	if op, ok := info.(ast.OpExprOp); ok {
		return ast.NewNoresDExp(ast.Expand{
			ast.OpLine{Op: ast.OpExprBuildOp(op, ast.ResultHandle{})},
		})
	}
	panic("parser: collapseOp called with non-Op, non-Value OpExprInfo")
}

func (p *parser) collapse(info ast.OpExprInfo) ast.Value {
	ie, ok := info.(ast.OpExprIfElse)
	if !ok {
		return collapseOp(info)
	}
	return ast.NewNoresDExp(p.ternaryLines(ast.ResultHandle{}, ie))
}

// ternaryLines implements §4.7's ternary desugaring with dest standing in
// for "parent_dst": `goto true_lab c; <dest = f>; goto skip_lab always;
// :true_lab; <dest = t>; :skip_lab`. When dest is ResultHandle this is
// wrapped in a DExp by the caller; when dest is a real destination (an
// `op` statement's or assignment's LHS) it is emitted inline with no
// extra indirection.
func (p *parser) ternaryLines(dest ast.Value, ie ast.OpExprIfElse) ast.Expand {
	trueLab := p.synthTag("terntrue")
	skipLab := p.synthTag("ternskip")
	return ast.Expand{
		ast.GotoLine{Label: trueLab, Cond: ie.Cond},
		ast.OpLine{Op: ast.NewBinaryOp(ast.OpAdd, dest, ie.Else, ast.ReprVar(ast.ZeroVar))},
		ast.GotoLine{Label: skipLab},
		ast.LabelLine{Name: trueLab},
		ast.OpLine{Op: ast.NewBinaryOp(ast.OpAdd, dest, ie.Then, ast.ReprVar(ast.ZeroVar))},
		ast.LabelLine{Name: skipLab},
	}
}

// parseTernaryInfo parses `if c ? t : f` into an OpExprIfElse; both
// branches are already collapsed to Values since only the ternary itself
// (not its branches) can stand as the outermost application of an op
// statement.
func (p *parser) parseTernaryInfo() ast.OpExprInfo {
	p.advance() // 'if'
	cond := p.parseCond()
	p.expect(token.QUESTION)
	thenVal := p.parseExpr()
	p.expect(token.COLON)
	elseVal := p.parseExpr()
	return ast.OpExprIfElse{Cond: cond, Then: thenVal, Else: elseVal}
}

// statementStartTokens are tokens that can only begin a statement, never a
// value expression; seeing one as the first token after '(' means the
// parens hold a DExp's statement sequence (e.g. `(op $ x + 3;)`) rather
// than a grouped value expression.
var statementStartTokens = map[token.Token]bool{
	token.OP: true, token.CONST: true, token.TAKE: true, token.CONSTLEAK: true,
	token.SETRES: true, token.NOOP: true, token.GOTO: true, token.COLON: true,
	token.SELECT: true, token.SWITCH: true, token.WHILE: true, token.GWHILE: true,
	token.DOWHILE: true, token.BREAK: true, token.CONTINUE: true, token.INLINE: true,
	token.MATCH: true, token.LBRACE: true, token.SEMI: true,
}

func (p *parser) parsePrimaryInfo() ast.OpExprInfo {
	switch p.tok {
	case token.NUMBER:
		v := ast.Var(p.val.Raw)
		p.advance()
		return ast.OpExprValue{Value: v}

	case token.STRING:
		v := ast.Var(p.val.Raw)
		p.advance()
		return ast.OpExprValue{Value: v}

	case token.REPR:
		v := ast.ReprVar(p.val.Raw)
		p.advance()
		return ast.OpExprValue{Value: v}

	case token.QIDENT:
		v := ast.Var(p.val.String)
		p.advance()
		return ast.OpExprValue{Value: v}

	case token.DOLLAR:
		p.advance()
		return ast.OpExprValue{Value: ast.ResultHandle{}}

	case token.LPAREN:
		p.advance()
		if statementStartTokens[p.tok] {
			body := p.parseStatementsUntil(token.RPAREN)
			p.expect(token.RPAREN)
			return ast.OpExprValue{Value: ast.NewNoresDExp(body)}
		}
		info := p.parseOpExprInfo()
		if p.tok != token.RPAREN {
			// a DExp whose first statement is a bare instruction or an
			// assignment, e.g. `(read $ cell1 0;)`
			body := ast.Expand{p.parseExprStatement(p.collapse(info))}
			body = append(body, p.parseStatementsUntil(token.RPAREN)...)
			p.expect(token.RPAREN)
			return ast.OpExprValue{Value: ast.NewNoresDExp(body)}
		}
		p.expect(token.RPAREN)
		return info

	case token.IDENT:
		return p.parseIdentOrCallInfo()

	default:
		p.error(p.val.Pos, "expected expression")
		panic(errPanicMode)
	}
}

// parseIdentOrCallInfo parses a bare identifier (a Var, possibly followed
// by `.attr` attribute binds) or, when a known operator name is
// immediately followed by '(', the function-call operator form
// (`max(a,b)`, `sqrt(a)`), returned uncollapsed so it can bind directly to
// a caller-supplied destination.
func (p *parser) parseIdentOrCallInfo() ast.OpExprInfo {
	name := p.val.Raw
	p.advance()

	if p.tok == token.LPAREN {
		if bin, ok := ast.LookupBinaryOper(name); ok {
			a, b := p.finishCallForm(true)
			return ast.OpExprOp{Bin: bin, A: a, B: b}
		}
		if un, ok := ast.LookupUnaryOper(name); ok {
			a, _ := p.finishCallForm(false)
			return ast.OpExprOp{Unary: true, Un: un, A: a}
		}
	}

	var v ast.Value = ast.Var(name)
	for p.tok == token.DOT {
		p.advance()
		attr := p.parseIdentName()
		v = &ast.ValueBind{Base: v, Attr: attr}
	}
	return ast.OpExprValue{Value: v}
}

func (p *parser) finishCallForm(wantsTwo bool) (a, b ast.Value) {
	p.expect(token.LPAREN)
	a = p.parseExpr()
	if wantsTwo {
		p.expect(token.COMMA)
		b = p.parseExpr()
	}
	p.expect(token.RPAREN)
	return a, b
}
