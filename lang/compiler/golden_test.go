package compiler_test

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/mindlang/internal/filetest"
	"github.com/mna/mindlang/lang/compiler"
	"github.com/mna/mindlang/lang/parser"
)

var updateGolden = flag.Bool("test.update-golden-tests", false, "update the compiler golden files")

// TestGolden compiles every testdata/*.mnd file and checks the emitted
// MLOG against its checked-in testdata/*.mnd.want file.
func TestGolden(t *testing.T) {
	const dir = "testdata"
	for _, fi := range filetest.SourceFiles(t, dir, ".mnd") {
		fi := fi
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(dir, fi.Name()))
			require.NoError(t, err)

			body, err := parser.ParseSource(fi.Name(), src)
			require.NoError(t, err)

			meta := compiler.NewCompileMeta()
			require.NoError(t, compiler.CompileLogicLine(body, meta))

			got := strings.Join(meta.TagCodes().Compile(), "\n") + "\n"
			filetest.DiffCompiled(t, fi, got, dir, updateGolden)
		})
	}
}
