package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
)

func TestListConstructorAllocates(t *testing.T) {
	tbl := NewDefaultTable()
	h, ok := tbl.Lookup("list")
	require.True(t, ok, "list must be registered")

	cc := CallCtx{Ctx: domain.Empty, Scope: "m", Site: ir.Site{File: "m.py", Line: 1, Column: 1}}
	target := domain.NewVariable("m", "xs", domain.Empty)
	cs := h(cc, nil, target, true)
	assert.Len(t, cs, 1, "want a single Alloc constraint")
}

func TestIsConstructorHeuristic(t *testing.T) {
	assert.True(t, IsConstructor("Foo"), "uppercase name should be treated as a constructor")
	assert.False(t, IsConstructor("foo"), "lowercase name should not be treated as a constructor")
}

func TestCloneIsolatesAugmentations(t *testing.T) {
	base := NewDefaultTable()
	clone := base.Clone()
	clone.Register("localHelper", noResult())

	_, ok := base.Lookup("localHelper")
	assert.False(t, ok, "augmenting a clone must not affect the original table")

	_, ok = clone.Lookup("localHelper")
	assert.True(t, ok, "clone should have the augmentation")
}
