package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSelectStride covers P5 and scenario S4: the computed-goto multiplier
// is the length of the longest case (padding every shorter case with
// `noop` to match), and a multi-argument `print` expands into one
// instruction per argument before the padding is measured.
func TestSelectStride(t *testing.T) {
	src := `select 1 { case: print 0; case: print 1 " is one!"; case: print 2; }`
	got := compileSrc(t, src)

	want := []string{
		"op mul __0 1 2",
		"op add @counter @counter __0",
		"print 0",
		"noop",
		"print 1",
		"print \" is one!\"",
		"print 2",
		"noop",
	}
	assert.Equal(t, want, got)
}

// TestSelectSingleInstructionStride covers the stride==1 prologue: no
// multiply is needed, `idx` is added to @counter directly.
func TestSelectSingleInstructionStride(t *testing.T) {
	src := "select idx { case: print 0; case: print 1; }"
	got := compileSrc(t, src)

	want := []string{
		"op add @counter @counter idx",
		"print 0",
		"print 1",
	}
	assert.Equal(t, want, got)
}
