package maincmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/mindlang/internal/maincmd"
	"github.com/mna/mindlang/lang/parser"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.mnd")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestCompileFilesEmitsMLOG(t *testing.T) {
	path := writeSource(t, "op x 1 + 2;\nprint x;")

	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

	err := maincmd.CompileFiles(context.Background(), stdio, 1000, path)
	require.NoError(t, err)
	assert.Equal(t, "op add x 1 2\nprint x\n", buf.String())
	assert.Empty(t, ebuf.String())
}

func TestCompileFilesReportsErrorOnStderr(t *testing.T) {
	path := writeSource(t, "setres x;")

	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

	err := maincmd.CompileFiles(context.Background(), stdio, 1000, path)
	require.Error(t, err)
	assert.NotEmpty(t, ebuf.String())
}

func TestTokenizeFilesListsEveryToken(t *testing.T) {
	path := writeSource(t, "op x 1 + 2;")

	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

	require.NoError(t, maincmd.TokenizeFiles(context.Background(), stdio, path))
	assert.Empty(t, ebuf.String())

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Equal(t, 7, lines, "op, x, 1, +, 2, ;, EOF")
}

func TestParseFilesPrintsReparsableSource(t *testing.T) {
	path := writeSource(t, "op x 1 + 2;")

	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

	require.NoError(t, maincmd.ParseFiles(context.Background(), stdio, path))
	assert.Empty(t, ebuf.String())

	_, err := parser.ParseSource("reparsed.mnd", buf.Bytes())
	assert.NoError(t, err, "parser output must itself be valid source: %q", buf.String())
}

func TestPrintCompiledRoundTripsThroughImporter(t *testing.T) {
	path := writeSource(t, "op x 1 + 2;\nprint x;")

	var buf, ebuf bytes.Buffer
	stdio := mainer.Stdio{Stdout: &buf, Stderr: &ebuf}

	require.NoError(t, maincmd.PrintCompiled(context.Background(), stdio, 1000, path))
	assert.Empty(t, ebuf.String())

	_, err := parser.ParseSource("reprinted.mnd", buf.Bytes())
	assert.NoError(t, err, "imported+printed output must itself be valid source: %q", buf.String())
}
