package ctxsel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
)

func TestUnknownPolicyIsConstructionError(t *testing.T) {
	_, err := New("bogus", 1, 1)
	assert.Error(t, err, "expected construction-time error for unknown policy")
}

func TestZeroCFAAlwaysEmpty(t *testing.T) {
	sel, err := New(ZeroCFA, 0, 0)
	require.NoError(t, err)
	cs := constraint.CallSite{Pos: ir.Site{File: "m.py", Line: 1, Column: 1}}
	got := sel.Select(domain.Empty, CallMeta{CallSite: cs})
	assert.Equal(t, domain.Empty, got, "0-cfa must always yield the empty context")
}

func TestKCFADepthBudget(t *testing.T) {
	sel, err := New(KCFA, 2, 0)
	require.NoError(t, err)
	ctx := domain.Empty
	for i := 0; i < 5; i++ {
		cs := constraint.CallSite{Pos: ir.Site{File: "m.py", Line: i + 1, Column: 1}}
		ctx = sel.Select(ctx, CallMeta{CallSite: cs})
		require.LessOrEqual(t, ctx.Depth(), 2, "context depth exceeded budget k=2: %v", ctx)
	}
}

func TestKCFADistinguishesCallSites(t *testing.T) {
	sel, err := New(KCFA, 1, 0)
	require.NoError(t, err)
	siteA := constraint.CallSite{Pos: ir.Site{File: "m.py", Line: 10, Column: 1}}
	siteB := constraint.CallSite{Pos: ir.Site{File: "m.py", Line: 20, Column: 1}}
	ctxA := sel.Select(domain.Empty, CallMeta{CallSite: siteA})
	ctxB := sel.Select(domain.Empty, CallMeta{CallSite: siteB})
	assert.NotEqual(t, ctxA, ctxB, "distinct call sites must yield distinct contexts under 1-cfa")
}

func TestNRcvInheritsOnPlainCall(t *testing.T) {
	sel, err := New(NRcv, 1, 0)
	require.NoError(t, err)
	cs := constraint.CallSite{Pos: ir.Site{File: "m.py", Line: 1, Column: 1}}
	base := domain.NewSequenceContext(domain.ShapeReceiver, []string{"obj:1"})
	got := sel.Select(base, CallMeta{CallSite: cs, IsMethodCall: false})
	assert.Equal(t, base, got, "n-rcv must inherit caller context unchanged on plain calls")
}

func TestHybridBoundsBothSequencesIndependently(t *testing.T) {
	sel, err := New(Hybrid, 1, 2)
	require.NoError(t, err)
	cs := constraint.CallSite{Pos: ir.Site{File: "m.py", Line: 1, Column: 1}}
	ctx := domain.Empty
	for i := 0; i < 4; i++ {
		meta := CallMeta{CallSite: cs, IsMethodCall: true, ReceiverSite: "obj:A"}
		ctx = sel.Select(ctx, meta)
	}
	parts := ctx.HybridParts()
	assert.LessOrEqual(t, len(parts[0]), 1, "call-string half exceeded K=1: %v", parts[0])
	assert.LessOrEqual(t, len(parts[1]), 2, "object half exceeded N=2: %v", parts[1])
}
