package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/mindlang/lang/scanner"
	"github.com/mna/mindlang/lang/token"
)

func scanAll(t *testing.T, src string) []scanner.TokenAndValue {
	t.Helper()
	_, toks, err := scanner.ScanSource("test.mnd", []byte(src))
	require.NoError(t, err)
	return toks
}

func TestScanBasicTokens(t *testing.T) {
	toks := scanAll(t, `op x 1 + 2;`)

	want := []token.Token{
		token.OP, token.IDENT, token.NUMBER, token.PLUS, token.NUMBER, token.SEMI, token.EOF,
	}
	require.Len(t, toks, len(want))
	for i, tok := range want {
		assert.Equal(t, tok, toks[i].Token, "token %d", i)
	}
}

func TestScanStringAndRepr(t *testing.T) {
	toks := scanAll(t, `print "hello" ` + "`raw`" + `;`)
	require.Len(t, toks, 5)
	assert.Equal(t, token.PRINT, toks[0].Token)
	assert.Equal(t, token.STRING, toks[1].Token)
	assert.Equal(t, `"hello"`, toks[1].Value.Raw)
	assert.Equal(t, token.REPR, toks[2].Token)
	assert.Equal(t, "raw", toks[2].Value.Raw)
	assert.Equal(t, token.SEMI, toks[3].Token)
	assert.Equal(t, token.EOF, toks[4].Token)
}

func TestScanQuotedIdent(t *testing.T) {
	toks := scanAll(t, `const 'weird name' = 1;`)
	require.True(t, len(toks) >= 2)
	assert.Equal(t, token.CONST, toks[0].Token)
	assert.Equal(t, token.QIDENT, toks[1].Token)
	assert.Equal(t, "weird name", toks[1].Value.String)
}

func TestScanUnknownEscapeReportsError(t *testing.T) {
	_, _, err := scanner.ScanSource("bad.mnd", []byte(`print "bad \q escape";`))
	assert.Error(t, err)
}
