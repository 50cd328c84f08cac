package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

// TestEBNF checks mindlang.ebnf is well-formed and every production is
// reachable from Program, catching the grammar reference doc drifting out
// of sync with itself as the language grows.
func TestEBNF(t *testing.T) {
	f, err := os.Open("mindlang.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("mindlang.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Program"); err != nil {
		t.Fatal(err)
	}
}
