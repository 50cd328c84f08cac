package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mna/mindlang/lang/compiler"
)

// TestResolutionInjectivity covers P6 for the temp generators: distinct
// invocations of GetTmpVar/GetTmpTag yield distinct identifiers.
func TestResolutionInjectivity(t *testing.T) {
	meta := compiler.NewCompileMeta()

	seen := make(map[string]bool)
	note := func(id string) {
		assert.False(t, seen[id], "identifier %q reused", id)
		seen[id] = true
	}

	for i := 0; i < 5; i++ {
		note(string(meta.GetTmpVar()))
	}
	for i := 0; i < 5; i++ {
		note(string(meta.GetTmpTag()))
	}
	note(string(meta.GetTmpVar()))

	assert.Equal(t, 11, len(seen))
}

// TestGetTagStableForSameLabel checks GetTag returns the same numeric id
// for repeated lookups of the same label, and a distinct one for a new
// label (it allocates, rather than always minting a fresh id).
func TestGetTagStableForSameLabel(t *testing.T) {
	meta := compiler.NewCompileMeta()

	a1 := meta.GetTag("loop_start")
	a2 := meta.GetTag("loop_start")
	b := meta.GetTag("loop_end")

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, b)
}
