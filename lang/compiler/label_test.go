package compiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConstLabelFreshensPerExpansion covers P2: a label declared inside a
// const's body is freshened to a distinct tag on every expansion, so two
// takes of the same self-referencing const loop don't collide into one
// jump target.
func TestConstLabelFreshensPerExpansion(t *testing.T) {
	src := "const C = (:top goto :top _;); x = C; y = C;"
	got := compileSrc(t, src)

	var jumps []string
	for _, line := range got {
		if strings.HasPrefix(line, "jump ") {
			jumps = append(jumps, line)
		}
	}
	require.Len(t, jumps, 2, "expected one jump per const expansion, got: %v", got)
	assert.NotEqual(t, jumps[0], jumps[1], "each expansion's self-loop must target its own position, not share one: %v", got)
}

// TestShortCircuitEmitsNoIntermediateTemp covers P4: a boolean expression
// used only as a goto's condition lowers straight to jumps, with no
// temp variable materializing an intermediate And/Or result.
func TestShortCircuitEmitsNoIntermediateTemp(t *testing.T) {
	src := "goto :end a && b; foo; :end end;"
	got := compileSrc(t, src)

	for _, line := range got {
		assert.NotContains(t, line, "__", "short-circuit lowering should need no temp var: %q", line)
	}
}
