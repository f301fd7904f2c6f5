// Package ctxsel implements the context-selection policy layer
// (§4.3): a pure, stateless strategy that, given a caller context and
// call metadata, produces the callee context under a configured
// policy. Determinism here is what makes the solver's fixpoint order
// deterministic.
package ctxsel

import (
	"fmt"

	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
)

// PolicyID names one of the six context-sensitivity policies of §4.3.
type PolicyID string

const (
	ZeroCFA PolicyID = "0-cfa"
	KCFA    PolicyID = "k-cfa"
	NObj    PolicyID = "n-obj"
	NType   PolicyID = "n-type"
	NRcv    PolicyID = "n-rcv"
	Hybrid  PolicyID = "kc-no"
)

// CallMeta is everything the selector needs to derive a callee context
// from a particular call (§4.3: caller_ctx, call_site, callee_ident,
// receiver_alloc?, receiver_type?).
type CallMeta struct {
	CallSite     constraint.CallSite
	CalleeIdent  string
	IsMethodCall bool
	ReceiverSite string // allocation-site id of the receiver, if IsMethodCall
	ReceiverType string // receiver's static/runtime type name, if IsMethodCall
}

// Selector is a pure strategy: Select never mutates the receiver and
// is safe to call concurrently, though the solver itself is
// single-threaded (§5).
type Selector interface {
	// Select produces the callee context for this call, given the
	// caller's context.
	Select(callerCtx domain.Context, meta CallMeta) domain.Context
	// ID reports the configured policy, for diagnostics.
	ID() PolicyID
	// Depth reports the configured bound (k or n); 0 for 0-cfa. For
	// Hybrid, Depth reports the call-string bound K; see HybridDepths.
	Depth() int
}

// New constructs a Selector for the given policy id and depth
// parameter(s). Unknown policy strings are a programmer-misuse error
// that must be reported at construction time (§7: "Fatal errors are
// limited to programmer misuse detectable at configuration time").
//
// k is the call-string/object/type/receiver bound for all policies
// except Hybrid, where k is the call-string bound K and n is the
// object-sequence bound N (both ignored by every other policy).
func New(id PolicyID, k, n int) (Selector, error) {
	switch id {
	case ZeroCFA:
		return zeroCFA{}, nil
	case KCFA:
		if k < 0 {
			return nil, fmt.Errorf("ctxsel: k-cfa depth must be >= 0, got %d", k)
		}
		return kCFA{k: k}, nil
	case NObj:
		if k < 0 {
			return nil, fmt.Errorf("ctxsel: n-obj depth must be >= 0, got %d", k)
		}
		return nObj{n: k}, nil
	case NType:
		if k < 0 {
			return nil, fmt.Errorf("ctxsel: n-type depth must be >= 0, got %d", k)
		}
		return nType{n: k}, nil
	case NRcv:
		if k < 0 {
			return nil, fmt.Errorf("ctxsel: n-rcv depth must be >= 0, got %d", k)
		}
		return nRcv{n: k}, nil
	case Hybrid:
		if k < 0 || n < 0 {
			return nil, fmt.Errorf("ctxsel: hybrid depths must be >= 0, got K=%d N=%d", k, n)
		}
		return hybrid{k: k, n: n}, nil
	default:
		return nil, fmt.Errorf("ctxsel: unknown context policy %q", id)
	}
}

// truncate keeps only the last n elements of a sequence, appending
// next; this realises "truncate to the most recent k/n".
func truncate(seq []string, next string, n int) []string {
	if n <= 0 {
		return nil
	}
	out := append(append([]string(nil), seq...), next)
	if len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

// ---------- 0-cfa ----------

type zeroCFA struct{}

func (zeroCFA) Select(domain.Context, CallMeta) domain.Context { return domain.Empty }
func (zeroCFA) ID() PolicyID                                    { return ZeroCFA }
func (zeroCFA) Depth() int                                       { return 0 }

// ---------- k-cfa ----------

type kCFA struct{ k int }

func (p kCFA) Select(caller domain.Context, meta CallMeta) domain.Context {
	if p.k == 0 {
		return domain.Empty
	}
	seq := truncate(caller.Elems(), meta.CallSite.ID(), p.k)
	return domain.NewSequenceContext(domain.ShapeCallString, seq)
}
func (p kCFA) ID() PolicyID { return KCFA }
func (p kCFA) Depth() int   { return p.k }

// ---------- n-obj ----------

type nObj struct{ n int }

func (p nObj) Select(caller domain.Context, meta CallMeta) domain.Context {
	if p.n == 0 {
		return domain.Empty
	}
	elem := meta.ReceiverSite
	if !meta.IsMethodCall || elem == "" {
		elem = "call:" + meta.CallSite.ID()
	}
	seq := truncate(caller.Elems(), elem, p.n)
	return domain.NewSequenceContext(domain.ShapeObject, seq)
}
func (p nObj) ID() PolicyID { return NObj }
func (p nObj) Depth() int   { return p.n }

// ---------- n-type ----------

type nType struct{ n int }

func (p nType) Select(caller domain.Context, meta CallMeta) domain.Context {
	if p.n == 0 {
		return domain.Empty
	}
	elem := meta.ReceiverType
	if !meta.IsMethodCall || elem == "" {
		elem = meta.CalleeIdent
	}
	seq := truncate(caller.Elems(), elem, p.n)
	return domain.NewSequenceContext(domain.ShapeType, seq)
}
func (p nType) ID() PolicyID { return NType }
func (p nType) Depth() int   { return p.n }

// ---------- n-rcv ----------
//
// As n-obj, but only mutated on method dispatches; plain function
// calls inherit the caller context unchanged (§4.3).

type nRcv struct{ n int }

func (p nRcv) Select(caller domain.Context, meta CallMeta) domain.Context {
	if p.n == 0 {
		return domain.Empty
	}
	if !meta.IsMethodCall {
		return caller
	}
	elem := meta.ReceiverSite
	if elem == "" {
		elem = "call:" + meta.CallSite.ID()
	}
	seq := truncate(caller.Elems(), elem, p.n)
	return domain.NewSequenceContext(domain.ShapeReceiver, seq)
}
func (p nRcv) ID() PolicyID { return NRcv }
func (p nRcv) Depth() int   { return p.n }

// ---------- Kc/No hybrid ----------
//
// Keeps two bounded sequences: a call-string of length K and an
// object-sequence of length N, each mutated by its own rule (§4.3).

type hybrid struct{ k, n int }

func (p hybrid) Select(caller domain.Context, meta CallMeta) domain.Context {
	parts := caller.HybridParts()
	callString := parts[0]
	objSeq := parts[1]

	if p.k > 0 {
		callString = truncate(callString, meta.CallSite.ID(), p.k)
	} else {
		callString = nil
	}

	if p.n > 0 {
		elem := meta.ReceiverSite
		if !meta.IsMethodCall || elem == "" {
			elem = "call:" + meta.CallSite.ID()
		}
		objSeq = truncate(objSeq, elem, p.n)
	} else {
		objSeq = nil
	}

	return domain.NewHybridContext(callString, objSeq)
}
func (p hybrid) ID() PolicyID { return Hybrid }
func (p hybrid) Depth() int   { return p.k }

// HybridDepths returns the (K, N) bounds of a Hybrid selector, or
// (0,0) for any other policy.
func HybridDepths(s Selector) (k, n int) {
	if h, ok := s.(hybrid); ok {
		return h.k, h.n
	}
	return 0, 0
}
