// Package state holds the mutable knowledge base the solver grows to
// a fixpoint: points-to maps, field maps, the function/class
// registries, the live-context set, the call graph and the
// unknown-resolution tracker (§3 "State").
package state

import (
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
)

// KnowledgeBase is the single mutable store shared by the translator,
// solver and query layer for one whole-program analysis. It is
// created once and only ever grows (§3 Lifecycle).
type KnowledgeBase struct {
	// pts is the per-(context,variable) points-to map; Variable
	// already embeds its Context (domain.Variable.Ctx).
	pts map[domain.Variable]*domain.PointsToSet

	// fields is the per-object-per-field points-to map.
	fields map[domain.Field]*domain.PointsToSet

	// functions and classes are the registries of declared
	// callables and classes, keyed by qualified name.
	functions map[string]*ir.FunctionIR
	classes   map[string]*ir.ClassIR

	// liveContexts is the set of contexts ever produced by the
	// context selector for this analysis.
	liveContexts map[domain.Context]struct{}

	// Graph is the context-sensitive call graph.
	Graph *CallGraph

	// Unknown is the unknown-resolution tracker (§7).
	Unknown *Tracker
}

// New creates an empty knowledge base.
func New() *KnowledgeBase {
	return &KnowledgeBase{
		pts:          make(map[domain.Variable]*domain.PointsToSet),
		fields:       make(map[domain.Field]*domain.PointsToSet),
		functions:    make(map[string]*ir.FunctionIR),
		classes:      make(map[string]*ir.ClassIR),
		liveContexts: map[domain.Context]struct{}{domain.Empty: {}},
		Graph:        NewCallGraph(),
		Unknown:      NewTracker(),
	}
}

// PTS returns the points-to set for v, creating an empty one if
// absent. The returned set is shared storage; mutate it in place.
func (kb *KnowledgeBase) PTS(v domain.Variable) *domain.PointsToSet {
	if s, ok := kb.pts[v]; ok {
		return s
	}
	s := domain.NewPointsToSet(0)
	kb.pts[v] = s
	return s
}

// HasVariable reports whether v already has an entry, without
// allocating one.
func (kb *KnowledgeBase) HasVariable(v domain.Variable) bool {
	_, ok := kb.pts[v]
	return ok
}

// FieldPTS returns the points-to set for field f, creating an empty
// one if absent.
func (kb *KnowledgeBase) FieldPTS(f domain.Field) *domain.PointsToSet {
	if s, ok := kb.fields[f]; ok {
		return s
	}
	s := domain.NewPointsToSet(0)
	kb.fields[f] = s
	return s
}

// HasField reports whether f already has an entry, without allocating
// one; used to distinguish "never written" (§7 field-load-empty) from
// "written but empty".
func (kb *KnowledgeBase) HasField(f domain.Field) bool {
	_, ok := kb.fields[f]
	return ok
}

// FieldsOf groups every known field of obj by selector, for the query
// interface's field-map lookup (§6).
func (kb *KnowledgeBase) FieldsOf(obj domain.AbstractObject) map[string][]domain.AbstractObject {
	out := make(map[string][]domain.AbstractObject)
	for f, pts := range kb.fields {
		if f.Base != obj {
			continue
		}
		out[f.Selector] = pts.Slice()
	}
	return out
}

// RegisterFunction records a declared function's IR under its
// qualified name. Every object appearing in a points-to set whose
// Kind is FUNCTION must have a corresponding registry entry (§3
// Invariants: "function-not-in-registry" is the failure mode when it
// doesn't).
func (kb *KnowledgeBase) RegisterFunction(fn *ir.FunctionIR) {
	kb.functions[fn.QualName] = fn
}

// Function looks up a declared function by qualified name.
func (kb *KnowledgeBase) Function(qualName string) (*ir.FunctionIR, bool) {
	fn, ok := kb.functions[qualName]
	return fn, ok
}

// RegisterClass records a declared class's IR under its qualified
// name.
func (kb *KnowledgeBase) RegisterClass(cls *ir.ClassIR) {
	kb.classes[cls.QualName] = cls
}

// Class looks up a declared class by qualified name.
func (kb *KnowledgeBase) Class(qualName string) (*ir.ClassIR, bool) {
	cls, ok := kb.classes[qualName]
	return cls, ok
}

// MarkContextLive records ctx as a member of the live-context set.
func (kb *KnowledgeBase) MarkContextLive(ctx domain.Context) {
	kb.liveContexts[ctx] = struct{}{}
}

// IsContextLive reports whether ctx is a member of the live-context
// set, the invariant every Variable's Ctx must satisfy (§3).
func (kb *KnowledgeBase) IsContextLive(ctx domain.Context) bool {
	_, ok := kb.liveContexts[ctx]
	return ok
}

// Stats summarises the knowledge base for the query interface (§6).
type Stats struct {
	ContextCount  int
	VariableCount int
	ObjectCount   int
	UnknownCounts map[Category]int
}

// Stats computes global statistics over the current fixpoint.
func (kb *KnowledgeBase) Stats() Stats {
	objs := make(map[domain.AbstractObject]struct{})
	for _, s := range kb.pts {
		s.Each(func(o domain.AbstractObject) { objs[o] = struct{}{} })
	}
	for _, s := range kb.fields {
		s.Each(func(o domain.AbstractObject) { objs[o] = struct{}{} })
	}
	return Stats{
		ContextCount:  len(kb.liveContexts),
		VariableCount: len(kb.pts),
		ObjectCount:   len(objs),
		UnknownCounts: kb.Unknown.CountsByCategory(),
	}
}
