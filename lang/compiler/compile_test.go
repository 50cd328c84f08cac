package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/mindlang/lang/compiler"
	"github.com/mna/mindlang/lang/parser"
)

// compileSrc runs the full parse-and-compile pipeline and returns the
// assembled MLOG lines, the same path mindlangc's `compile` command runs.
func compileSrc(t *testing.T, src string) []string {
	t.Helper()
	body, err := parser.ParseSource("test.mnd", []byte(src))
	require.NoError(t, err)

	meta := compiler.NewCompileMeta()
	require.NoError(t, compiler.CompileLogicLine(body, meta))
	return meta.TagCodes().Compile()
}

// TestScenarios covers the literal source/output pairs enumerated as
// S1-S6.
func TestScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "S1 op dest binds directly, nested DExp gets temps",
			src:  "op x 1 + 2;\nop y (op $ x + 3;) * (op $ x * 2;);",
			want: []string{
				"op add x 1 2",
				"op add __0 x 3",
				"op mul __1 x 2",
				"op mul y __0 __1",
			},
		},
		{
			name: "S2 unconditional goto",
			src:  "goto :x _; :x end;",
			want: []string{"jump 1 always 0 0", "end"},
		},
		{
			name: "S3 const snapshot re-expands per take, fresh temps each time",
			src:  "const C = (read $ cell1 0;); x = C; y = C;",
			want: []string{
				"read __0 cell1 0",
				"set x __0",
				"read __1 cell1 0",
				"set y __1",
			},
		},
		{
			name: "S5 short-circuit && and ||",
			src:  "goto :end a && b || c && d; foo; :end end;",
			want: []string{
				"jump 2 equal a false",
				"jump 5 notEqual b false",
				"jump 4 equal c false",
				"jump 5 notEqual d false",
				"foo",
				"end",
			},
		},
		{
			name: "S6 const snapshot on redefinition (P1)",
			src:  "const A = 1; const B = A; const A = 2; print A B;",
			want: []string{"print 2", "print 1"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, compileSrc(t, tc.src))
		})
	}
}
