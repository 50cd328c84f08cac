package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/mindlang/lang/ast"
	"github.com/mna/mindlang/lang/compiler"
	"github.com/mna/mindlang/lang/importer"
)

func TestFromTagLineOp(t *testing.T) {
	line, err := importer.FromTagLine(compiler.Line("op add i i 1"))
	require.NoError(t, err)

	op, ok := line.(ast.OpLine)
	require.True(t, ok)
	assert.Equal(t, ast.OpAdd, op.Op.Bin)
	assert.Equal(t, ast.Var("i"), op.Op.Dest)
	assert.Equal(t, ast.Var("i"), op.Op.A)
	assert.Equal(t, ast.Var("1"), op.Op.B)
}

func TestFromTagLineUnaryOp(t *testing.T) {
	line, err := importer.FromTagLine(compiler.Line("op sqrt x y 0"))
	require.NoError(t, err)

	op := line.(ast.OpLine)
	require.True(t, op.Op.Unary)
	assert.Equal(t, ast.OpSqrt, op.Op.Un)
}

func TestFromTagLineOther(t *testing.T) {
	line, err := importer.FromTagLine(compiler.Line("print x"))
	require.NoError(t, err)

	other := line.(ast.OtherLine)
	assert.Equal(t, ast.Var("print"), other.Name)
	assert.Equal(t, []ast.Value{ast.Var("x")}, other.Args)
}

func TestFromTagLineJump(t *testing.T) {
	line, err := importer.FromTagLine(compiler.Jump{ToTag: 3, CondStr: "lessThan i 10"})
	require.NoError(t, err)

	g := line.(ast.GotoLine)
	assert.Equal(t, importer.TagLabel(3), g.Label)
	atom := g.Cond.(ast.CmpAtomNode)
	assert.Equal(t, ast.CmpLessThan, atom.Cmp.Op)
	assert.Equal(t, ast.Var("i"), atom.Cmp.A)
	assert.Equal(t, ast.Var("10"), atom.Cmp.B)
}

func TestFromTagLineUnconditionalJump(t *testing.T) {
	line, err := importer.FromTagLine(compiler.Jump{ToTag: 1, CondStr: "always 0 0"})
	require.NoError(t, err)

	g := line.(ast.GotoLine)
	atom := g.Cond.(ast.CmpAtomNode)
	assert.Equal(t, ast.CmpAlways, atom.Cmp.Op)
}

func TestFromTagLineTagDown(t *testing.T) {
	line, err := importer.FromTagLine(compiler.TagDown{TagID: 5})
	require.NoError(t, err)
	assert.Equal(t, ast.LabelLine{Name: importer.TagLabel(5)}, line)
}

func TestFromTagLineUnknownOperator(t *testing.T) {
	_, err := importer.FromTagLine(compiler.Line("op frobnicate x y z"))
	require.Error(t, err)
	var ce *compiler.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compiler.ErrUnknownOper, ce.Kind)
}

func TestFromTagLineUnknownComparer(t *testing.T) {
	_, err := importer.FromTagLine(compiler.Jump{ToTag: 0, CondStr: "maybe a b"})
	require.Error(t, err)
	var ce *compiler.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compiler.ErrUnknownComparer, ce.Kind)
}

func TestFromTagLineQuotedStringArg(t *testing.T) {
	line, err := importer.FromTagLine(compiler.Line(`print "hello world"`))
	require.NoError(t, err)
	other := line.(ast.OtherLine)
	assert.Equal(t, []ast.Value{ast.Var(`"hello world"`)}, other.Args)
}

func TestFromTagLineUnterminatedString(t *testing.T) {
	_, err := importer.FromTagLine(compiler.Line(`print "unterminated`))
	require.Error(t, err)
	var ce *compiler.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, compiler.ErrStringNoStop, ce.Kind)
}

func TestFromTagCodesRoundTripsCompileOutput(t *testing.T) {
	tc := compiler.NewTagCodes()
	tc.Push(compiler.Line("op add i i 1"))
	tc.Push(compiler.Jump{ToTag: 9, CondStr: "lessThan i 10"})
	tc.Push(compiler.TagDown{TagID: 9})
	tc.Push(compiler.Line("end"))

	expand, err := importer.FromTagCodes(tc)
	require.NoError(t, err)
	require.Len(t, expand, 4)
	assert.IsType(t, ast.OpLine{}, expand[0])
	assert.IsType(t, ast.GotoLine{}, expand[1])
	assert.IsType(t, ast.LabelLine{}, expand[2])
	assert.IsType(t, ast.OtherLine{}, expand[3])
}
