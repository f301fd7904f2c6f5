package state

import (
	"fmt"

	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
)

// Edge is one context-sensitive call-graph edge: at CallerCtx, the
// call expression at CS may invoke Callee under CalleeCtx.
type Edge struct {
	CallerCtx domain.Context
	CS        constraint.CallSite
	Callee    string // qualified name of the callee function, or a synthetic label
	CalleeCtx domain.Context
}

func (e Edge) String() string {
	return fmt.Sprintf("(%s, %s) -> (%s, %s)", e.CallerCtx, e.CS, e.CalleeCtx, e.Callee)
}

// CallGraph accumulates call-graph edges discovered by the solver's
// dispatch procedure. Dispatch is monotone (§4.4.3): edges are only
// ever added.
type CallGraph struct {
	edges   map[Edge]struct{}
	bySite  map[string][]Edge // keyed by (CallerCtx,CS) for the query interface
}

// NewCallGraph returns an empty call graph.
func NewCallGraph() *CallGraph {
	return &CallGraph{
		edges:  make(map[Edge]struct{}),
		bySite: make(map[string][]Edge),
	}
}

func siteKey(ctx domain.Context, cs constraint.CallSite) string {
	return ctx.String() + "|" + cs.ID()
}

// AddEdge records e, returning true iff it is new.
func (g *CallGraph) AddEdge(e Edge) bool {
	if _, ok := g.edges[e]; ok {
		return false
	}
	g.edges[e] = struct{}{}
	key := siteKey(e.CallerCtx, e.CS)
	g.bySite[key] = append(g.bySite[key], e)
	return true
}

// ResolvedCallees returns the context-sensitive set of resolved
// callees for a given (callerCtx, call site) (§6 query interface).
func (g *CallGraph) ResolvedCallees(callerCtx domain.Context, cs constraint.CallSite) []Edge {
	return append([]Edge(nil), g.bySite[siteKey(callerCtx, cs)]...)
}

// Edges returns every recorded edge.
func (g *CallGraph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for e := range g.edges {
		out = append(out, e)
	}
	return out
}

// Len reports the number of distinct edges.
func (g *CallGraph) Len() int { return len(g.edges) }
