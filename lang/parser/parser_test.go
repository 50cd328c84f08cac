package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/mindlang/lang/ast"
	"github.com/mna/mindlang/lang/parser"
)

func mustParse(t *testing.T, src string) ast.Expand {
	t.Helper()
	body, err := parser.ParseSource("test.mnd", []byte(src))
	require.NoError(t, err)
	return body
}

// TestOpDestBindsOutermost confirms an `op` statement's destination binds
// directly to the outermost operator application with no extra temp, the
// shape scenario S1 demonstrates through the compiler.
func TestOpDestBindsOutermost(t *testing.T) {
	body := mustParse(t, "op x 1 + 2;")
	require.Len(t, body, 1)

	line, ok := body[0].(ast.OpLine)
	require.True(t, ok, "expected OpLine, got %T", body[0])
	assert.Equal(t, ast.Var("x"), line.Op.Dest)
	assert.Equal(t, ast.OpAdd, line.Op.Bin)
	assert.Equal(t, ast.Var("1"), line.Op.A)
	assert.Equal(t, ast.Var("2"), line.Op.B)
}

// TestMulBindsTighterThanAdd checks the precedence ladder groups `*`
// tighter than `+` (so `1 + 2 * 3` applies `+` at the outermost level,
// binding directly to the `op` statement's destination).
func TestMulBindsTighterThanAdd(t *testing.T) {
	body := mustParse(t, "op x 1 + 2 * 3;")
	require.Len(t, body, 1)

	line := body[0].(ast.OpLine)
	assert.Equal(t, ast.OpAdd, line.Op.Bin)
	assert.Equal(t, ast.Var("1"), line.Op.A)

	inner, ok := ast.AsDExp(line.Op.B)
	require.True(t, ok, "expected nested mul collapsed into a DExp, got %T", line.Op.B)
	require.Len(t, inner.Lines, 1)
	innerOp := inner.Lines[0].(ast.OpLine)
	assert.Equal(t, ast.OpMul, innerOp.Op.Bin)
}

// TestPowRightAssociative checks `**` binds tighter than unary and
// associates right: `2 ** 3 ** 2` is `2 ** (3 ** 2)`.
func TestPowRightAssociative(t *testing.T) {
	body := mustParse(t, "op x 2 ** 3 ** 2;")
	line := body[0].(ast.OpLine)
	assert.Equal(t, ast.OpPow, line.Op.Bin)
	assert.Equal(t, ast.Var("2"), line.Op.A)

	inner, ok := ast.AsDExp(line.Op.B)
	require.True(t, ok)
	innerOp := inner.Lines[0].(ast.OpLine)
	assert.Equal(t, ast.OpPow, innerOp.Op.Bin)
	assert.Equal(t, ast.Var("3"), innerOp.Op.A)
	assert.Equal(t, ast.Var("2"), innerOp.Op.B)
}

// TestTernaryBindsDestDirectly checks an `op`/assignment destination used
// with a ternary RHS desugars to inline goto/assign/label lines rather
// than routing through a DExp, since the statement already owns an
// explicit destination.
func TestTernaryBindsDestDirectly(t *testing.T) {
	body := mustParse(t, "x = if a == b ? 1 : 2;")
	require.Len(t, body, 1)
	require.IsType(t, ast.Expand{}, body[0])
	lines := body[0].(ast.Expand)
	require.Len(t, lines, 6)
	assert.IsType(t, ast.GotoLine{}, lines[0])
	assert.IsType(t, ast.OpLine{}, lines[1])
	assert.IsType(t, ast.GotoLine{}, lines[2])
	assert.IsType(t, ast.LabelLine{}, lines[3])
	assert.IsType(t, ast.OpLine{}, lines[4])
	assert.IsType(t, ast.LabelLine{}, lines[5])
}

// TestMultiAssignBroadcast checks a single RHS broadcasts to every target
// by computing it once into the first target and copying from there.
func TestMultiAssignBroadcast(t *testing.T) {
	body := mustParse(t, "x, y, z = a + b;")
	require.Len(t, body, 1)
	require.IsType(t, ast.Expand{}, body[0])
	lines := body[0].(ast.Expand)
	require.Len(t, lines, 3)
	first := lines[0].(ast.OpLine)
	assert.Equal(t, ast.Var("x"), first.Op.Dest)
	assert.Equal(t, ast.OpAdd, first.Op.Bin)
}

// TestStrictNotEqualLowering checks `!==` in value context lowers to
// Equal(dst, StrictEqual(a, b), false) with no dedicated BinaryOper.
func TestStrictNotEqualLowering(t *testing.T) {
	body := mustParse(t, "op x a !== b;")
	line := body[0].(ast.OpLine)
	assert.Equal(t, ast.OpEqual, line.Op.Bin)
	assert.Equal(t, ast.ReprVar(ast.FalseVar), line.Op.B)

	inner, ok := ast.AsDExp(line.Op.A)
	require.True(t, ok)
	innerOp := inner.Lines[0].(ast.OpLine)
	assert.Equal(t, ast.OpStrictEqual, innerOp.Op.Bin)
}

// TestDExpLiteralSurfaceSyntax checks a parenthesized statement sequence
// is recognized as a DExp literal, distinct from a grouped value
// expression, by peeking the first token after '('.
func TestDExpLiteralSurfaceSyntax(t *testing.T) {
	body := mustParse(t, "op y (op $ x + 3;) * (op $ x * 2;);")
	require.Len(t, body, 1)
	line := body[0].(ast.OpLine)
	assert.Equal(t, ast.OpMul, line.Op.Bin)

	for _, operand := range []ast.Value{line.Op.A, line.Op.B} {
		d, ok := ast.AsDExp(operand)
		require.True(t, ok, "expected a DExp literal operand, got %T", operand)
		require.Len(t, d.Lines, 1)
		assert.IsType(t, ast.OpLine{}, d.Lines[0])
	}
}

// TestGroupedValueNotDExp checks a plain parenthesized value expression
// (no statement-starting token first) is not mistaken for a DExp literal's
// statement list: it parses as a grouped value, and like any nested
// operator application it collapses into a result-handle DExp holding the
// single grouped op.
func TestGroupedValueNotDExp(t *testing.T) {
	body := mustParse(t, "op x (1 + 2) * 3;")
	line := body[0].(ast.OpLine)
	assert.Equal(t, ast.OpMul, line.Op.Bin)

	inner, isDExp := ast.AsDExp(line.Op.A)
	require.True(t, isDExp, "expected the grouped add collapsed into a DExp, got %T", line.Op.A)
	require.Len(t, inner.Lines, 1)
	innerOp := inner.Lines[0].(ast.OpLine)
	assert.Equal(t, ast.OpAdd, innerOp.Op.Bin)
	assert.Equal(t, ast.ResultHandle{}, innerOp.Op.Dest)
}
