package classhier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMROSimpleChain(t *testing.T) {
	h := New(nil)
	h.Register("B", []string{"A"})
	h.Register("A", nil)
	mro := h.MRO("B")
	assert.Equal(t, []string{"B", "A"}, mro)
}

func TestMROClassPrecedesBases(t *testing.T) {
	h := New(nil)
	h.Register("D", []string{"B", "C"})
	h.Register("B", []string{"A"})
	h.Register("C", []string{"A"})
	h.Register("A", nil)
	mro := h.MRO("D")
	require.NotEmpty(t, mro)
	assert.Equal(t, "D", mro[0], "class must precede its bases")

	idx := func(c string) int {
		for i, x := range mro {
			if x == c {
				return i
			}
		}
		return -1
	}
	assert.Less(t, idx("B"), idx("A"), "bases must precede their own bases")
	assert.Less(t, idx("C"), idx("A"), "bases must precede their own bases")
}

func TestMROCachesUntilBaseTupleChanges(t *testing.T) {
	h := New(nil)
	h.Register("B", []string{"A"})
	h.Register("A", nil)
	first := h.MRO("B")
	second := h.MRO("B")
	assert.Equal(t, first, second, "cached MRO diverged")

	h.Register("B", []string{"A"}) // same tuple: still cached, same result
	third := h.MRO("B")
	assert.Equal(t, first, third, "unexpected recompute result")

	h.Register("C", nil)
	h.Register("B", []string{"C"}) // changed tuple: cached MRO is recomputed
	assert.Equal(t, []string{"B", "C"}, h.MRO("B"), "stale MRO after base tuple changed")
}

func TestMROInconsistentFallsBackConservatively(t *testing.T) {
	h := New(nil)
	// Y and Z name each other as bases: a cycle that C3 rejects as
	// inconsistent, so X's MRO must come from the fallback order.
	h.Register("X", []string{"Y", "Z"})
	h.Register("Y", []string{"Z"})
	h.Register("Z", []string{"Y"})
	mro := h.MRO("X")
	require.NotEmpty(t, mro)
	assert.Equal(t, "X", mro[0], "fallback must still put the class first")

	seen := map[string]bool{}
	for _, c := range mro {
		assert.False(t, seen[c], "fallback must deduplicate: %v", mro)
		seen[c] = true
	}
}
