package printer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/mindlang/lang/parser"
	"github.com/mna/mindlang/lang/printer"
)

// TestRoundTrip covers P7: parsing the printer's output reproduces an
// equal AST.
func TestRoundTrip(t *testing.T) {
	sources := []string{
		"op x 1 + 2;",
		"op y (op $ x + 3;) * (op $ x * 2;);",
		"goto :x _; :x end;",
		"goto :end a && b || c && d; foo; :end end;",
		"const C = (read $ cell1 0;); x = C; y = C;",
		"const-leak a, b;",
		"take R = max(a, b);",
		"x = if a == b ? 1 : 2;",
		"select idx { case: print 0; case: print 1; }",
		"switch idx { case: print 0; case >: print 1; case (idx < 0): print 2; }",
		"setres x;",
		"x, y = a, b;",
		"x = !a;",
		"x = ~a;",
		"x = a !== b;",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			body1, err := parser.ParseSource("a.mnd", []byte(src))
			require.NoError(t, err)

			out := printer.Source(body1)

			body2, err := parser.ParseSource("b.mnd", []byte(out))
			require.NoError(t, err, "re-parsing printer output %q", out)

			assert.Equal(t, body1, body2)
		})
	}
}
