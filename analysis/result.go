package analysis

import (
	"fmt"
	"strings"

	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
	"github.com/lkgv/pystan-pointer/modgraph"
	"github.com/lkgv/pystan-pointer/state"
)

// Result is the query interface over a completed analysis run (§6):
// points-to sets, resolved callees, the field map, global statistics
// and exportable summaries, regardless of whether the run was
// single-module or modular.
type Result struct {
	modules         []moduleEntry
	composerResults map[string]*modgraph.ModuleResult // nil in single-module mode
}

// owner returns the knowledge base holding scope, preferring the
// longest module-path prefix match; in single-module mode the sole
// entry always owns every scope.
func (r *Result) owner(scope string) *state.KnowledgeBase {
	if len(r.modules) == 1 {
		return r.modules[0].kb
	}
	var best *moduleEntry
	for i := range r.modules {
		e := &r.modules[i]
		if e.path == scope || strings.HasPrefix(scope, e.path+".") {
			if best == nil || len(e.path) > len(best.path) {
				best = e
			}
		}
	}
	if best == nil {
		return nil
	}
	return best.kb
}

// PointsTo returns the points-to set of the variable (scope, name) in
// context ctx.
func (r *Result) PointsTo(scope, name string, ctx domain.Context) []domain.AbstractObject {
	kb := r.owner(scope)
	if kb == nil {
		return nil
	}
	v := domain.NewVariable(scope, name, ctx)
	if !kb.HasVariable(v) {
		return nil
	}
	return kb.PTS(v).Slice()
}

// ResolvedCallees returns the call-graph edges recorded for one call
// site reached under callerCtx. Callers in modular mode must supply a
// scope identifying which module's call graph to consult, since a
// call site's textual position alone does not name its owning module.
func (r *Result) ResolvedCallees(scope string, callerCtx domain.Context, site constraint.CallSite) []state.Edge {
	kb := r.owner(scope)
	if kb == nil {
		return nil
	}
	return kb.Graph.ResolvedCallees(callerCtx, site)
}

// Fields returns every known field of obj, grouped by selector.
func (r *Result) Fields(scope string, obj domain.AbstractObject) map[string][]domain.AbstractObject {
	kb := r.owner(scope)
	if kb == nil {
		return nil
	}
	return kb.FieldsOf(obj)
}

// Stats aggregates global statistics across every analysed module
// (§8).
func (r *Result) Stats() state.Stats {
	var out state.Stats
	out.UnknownCounts = make(map[state.Category]int)
	for _, e := range r.modules {
		s := e.kb.Stats()
		out.ContextCount += s.ContextCount
		out.VariableCount += s.VariableCount
		out.ObjectCount += s.ObjectCount
		for cat, n := range s.UnknownCounts {
			out.UnknownCounts[cat] += n
		}
	}
	return out
}

// ExportSummary builds (or, in modular mode, returns the
// already-composed) Summary for modulePath.
func (r *Result) ExportSummary(modulePath string) (*state.Summary, error) {
	if r.composerResults != nil {
		cr, ok := r.composerResults[modulePath]
		if !ok {
			return nil, fmt.Errorf("analysis: module %q was not analysed", modulePath)
		}
		return cr.Summary, nil
	}
	for _, e := range r.modules {
		if e.path != modulePath || e.mod == nil {
			continue
		}
		return summarize(e.mod, e.kb), nil
	}
	return nil, fmt.Errorf("analysis: module %q was not analysed", modulePath)
}

// summarize builds a module's exportable Summary from its knowledge
// base, mirroring modgraph.Composer's own summarize step (§4.8) for
// the single-module path, which never goes through the composer.
func summarize(mod *ir.ModuleIR, kb *state.KnowledgeBase) *state.Summary {
	sum := &state.Summary{Path: mod.Path}
	for _, name := range mod.Exports {
		v := domain.NewVariable(mod.Path, name, domain.Empty)
		sum.Exports = append(sum.Exports, state.ExportedSymbol{Name: name, Objects: kb.PTS(v).Slice()})
	}
	for _, cls := range mod.Classes {
		sum.Classes = append(sum.Classes, state.ClassRegistration{QualName: cls.QualName, Bases: cls.Bases})
	}
	return sum
}
