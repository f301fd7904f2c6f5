// Package solver runs the inclusion-based worklist fixpoint that turns
// a growing constraint set into a stable points-to solution (§4.2),
// dispatching calls through the context-selection, class-hierarchy and
// builtin-summary layers as new edges are discovered (§4.4).
package solver

import (
	"github.com/lkgv/pystan-pointer/builtin"
	"github.com/lkgv/pystan-pointer/classhier"
	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/ctxsel"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
	"github.com/lkgv/pystan-pointer/state"
	"github.com/lkgv/pystan-pointer/translate"
)

// Finder resolves imported module names to their IR, for the solver's
// own (non-summary) import handling; the separate modgraph package
// layers summary composition on top of this for large or cyclic
// import graphs (§4.8).
type Finder = ir.ModuleFinder

// Config configures one Solver run.
type Config struct {
	Selector ctxsel.Selector
	Builtins *builtin.Table
	Finder   Finder // optional
	MaxDepth int    // import depth budget; 0 means unlimited

	// Summaries, when set, short-circuits import resolution: a module
	// path present here binds its exports directly from the precomputed
	// Summary instead of pulling in and translating full source. This
	// is how the modgraph package composes per-module analyses (§4.8)
	// without this solver ever seeing the dependency's IR.
	Summaries map[string]*state.Summary
}

// genKey identifies one pending (function, context) translation.
type genKey struct {
	qualName string
	ctx      domain.Context
}

// Solver owns the mutable fixpoint state for one whole-program run.
// It is single-threaded and not safe for concurrent use (§5: "the
// solver itself is single-threaded").
type Solver struct {
	kb       *state.KnowledgeBase
	sel      ctxsel.Selector
	hier     *classhier.Hierarchy
	builtins *builtin.Table
	tr       *translate.Translator
	finder   Finder
	maxDepth int
	summaries map[string]*state.Summary

	constraints []constraint.Constraint

	// dependency edges: a variable or field growing re-triggers every
	// constraint index subscribed to it.
	byReaderVar   map[domain.Variable][]int
	byReaderField map[domain.Field][]int

	queued      map[int]bool
	queue       []int
	translated  map[genKey]bool
	genPending  []genKey
	importedMod map[string]bool // modules already translated by this solver's own import handling

	// classObjects maps a qualified class name to every CLASS
	// AbstractObject allocated for it, across every context it was
	// defined/reached in; attribute resolution through MRO walks this
	// registry rather than re-deriving identity some other way.
	classObjects map[string][]domain.AbstractObject

	// boundMethods records, for every synthesized BOUND_METHOD object,
	// the underlying FUNCTION object and receiver it pairs, so Call
	// dispatch can recover both without parsing the synthetic site
	// name back apart.
	boundMethods map[domain.AbstractObject]boundMethodInfo

	// genFrames gives each (generator function, context) a single
	// stable GEN_FRAME object, allocated the first time it is called.
	genFrames map[genKey]domain.AbstractObject

	// exportLinksByVar keeps a module object's exported field current
	// as the exporting module's own top-level variable grows; see
	// registerExportLink in import.go.
	exportLinksByVar map[domain.Variable][]exportLink
}

type boundMethodInfo struct {
	Fn   domain.AbstractObject
	Recv domain.AbstractObject
}

// New constructs a Solver sharing the given knowledge base. kb may
// already contain translated module-level constraints (via
// AddConstraints) before the first Run.
func New(kb *state.KnowledgeBase, cfg Config, tr *translate.Translator) *Solver {
	bt := cfg.Builtins
	if bt == nil {
		bt = builtin.NewDefaultTable()
	}
	return &Solver{
		kb:            kb,
		sel:           cfg.Selector,
		hier:          classhier.New(kb.Unknown),
		builtins:      bt,
		tr:            tr,
		finder:        cfg.Finder,
		maxDepth:      cfg.MaxDepth,
		summaries:     cfg.Summaries,
		byReaderVar:   make(map[domain.Variable][]int),
		byReaderField: make(map[domain.Field][]int),
		queued:        make(map[int]bool),
		translated:    make(map[genKey]bool),
		importedMod:   make(map[string]bool),
		classObjects:  make(map[string][]domain.AbstractObject),
		boundMethods:  make(map[domain.AbstractObject]boundMethodInfo),
		genFrames:     make(map[genKey]domain.AbstractObject),
	}
}

// Hierarchy exposes the solver's class-hierarchy service, e.g. for a
// query layer wanting to report MRO directly.
func (s *Solver) Hierarchy() *classhier.Hierarchy { return s.hier }

// AddConstraints appends freshly generated constraints (from
// translating a module or a newly reached function body), wiring
// dependency edges and evaluating each once against current state.
func (s *Solver) AddConstraints(cs []constraint.Constraint) {
	for _, c := range cs {
		idx := len(s.constraints)
		s.constraints = append(s.constraints, c)
		s.wire(idx, c)
		s.enqueue(idx)
	}
}

// wire registers idx against every variable/field whose growth should
// re-trigger it.
func (s *Solver) wire(idx int, c constraint.Constraint) {
	switch c := c.(type) {
	case *constraint.Alloc:
		// no inputs; fires once, on Add to AddConstraints.
	case *constraint.Copy:
		s.byReaderVar[c.U] = append(s.byReaderVar[c.U], idx)
	case *constraint.Load:
		s.byReaderVar[c.U] = append(s.byReaderVar[c.U], idx)
	case *constraint.Store:
		s.byReaderVar[c.U] = append(s.byReaderVar[c.U], idx)
		s.byReaderVar[c.V] = append(s.byReaderVar[c.V], idx)
	case *constraint.Call:
		s.byReaderVar[c.Callee] = append(s.byReaderVar[c.Callee], idx)
		if c.HasRecv {
			s.byReaderVar[c.Recv] = append(s.byReaderVar[c.Recv], idx)
		}
	case *constraint.Return:
		s.byReaderVar[domain.ReturnVariable(c.CalleeScope, c.CalleeCtx)] = append(
			s.byReaderVar[domain.ReturnVariable(c.CalleeScope, c.CalleeCtx)], idx)
	case *constraint.Import:
		// resolved eagerly in evalImport; no incremental dependency.
	}
}

func (s *Solver) subscribeField(f domain.Field, idx int) {
	for _, i := range s.byReaderField[f] {
		if i == idx {
			return
		}
	}
	s.byReaderField[f] = append(s.byReaderField[f], idx)
}

func (s *Solver) markVarDirty(v domain.Variable) {
	for _, idx := range s.byReaderVar[v] {
		s.enqueue(idx)
	}
	for _, l := range s.exportLinksByVar[v] {
		if s.kb.FieldPTS(l.field).UnionInto(s.kb.PTS(l.src)) {
			s.markFieldDirty(l.field)
		}
	}
}

func (s *Solver) markFieldDirty(f domain.Field) {
	for _, idx := range s.byReaderField[f] {
		s.enqueue(idx)
	}
}

func (s *Solver) enqueue(idx int) {
	if s.queued[idx] {
		return
	}
	s.queued[idx] = true
	s.queue = append(s.queue, idx)
}

// Run drains the worklist to a fixpoint, interleaving constraint
// re-evaluation with lazy translation of newly reached function bodies
// (mirroring the teacher's genq: a function is only ever translated
// once it is actually called in some context) (§4.2, §4.6).
func (s *Solver) Run() {
	for len(s.queue) > 0 || len(s.genPending) > 0 {
		for len(s.queue) > 0 {
			idx := s.queue[0]
			s.queue = s.queue[1:]
			delete(s.queued, idx)
			s.evalConstraint(idx)
		}
		for len(s.genPending) > 0 {
			k := s.genPending[0]
			s.genPending = s.genPending[1:]
			s.translateGen(k)
		}
	}
}

func (s *Solver) translateGen(k genKey) {
	fn, ok := s.kb.Function(k.qualName)
	if !ok {
		s.kb.Unknown.Report(state.CategoryFunctionNotInRegistry, ir.Site{}, "no registered function %q", k.qualName)
		return
	}
	s.kb.MarkContextLive(k.ctx)
	cs := s.tr.TranslateFunction(fn, k.ctx)
	s.AddConstraints(cs)
}

// requestTranslation schedules fn's body for translation under ctx,
// unless that pair was already translated or scheduled.
func (s *Solver) requestTranslation(fn *ir.FunctionIR, ctx domain.Context) {
	k := genKey{fn.QualName, ctx}
	if s.translated[k] {
		return
	}
	s.translated[k] = true
	s.genPending = append(s.genPending, k)
}

func (s *Solver) evalConstraint(idx int) {
	switch c := s.constraints[idx].(type) {
	case *constraint.Alloc:
		s.evalAlloc(c)
	case *constraint.Copy:
		if s.kb.PTS(c.V).UnionInto(s.kb.PTS(c.U)) {
			s.markVarDirty(c.V)
		}
	case *constraint.Load:
		s.evalLoad(idx, c)
	case *constraint.Store:
		s.evalStore(c)
	case *constraint.Call:
		s.evalCall(idx, c)
	case *constraint.Return:
		src := domain.ReturnVariable(c.CalleeScope, c.CalleeCtx)
		if s.kb.PTS(c.V).UnionInto(s.kb.PTS(src)) {
			s.markVarDirty(c.V)
		}
	case *constraint.Import:
		s.evalImport(c)
	}
}

func (s *Solver) evalAlloc(c *constraint.Alloc) {
	if !s.kb.PTS(c.V).Add(c.Obj) {
		return
	}
	s.markVarDirty(c.V)
	if c.Obj.Kind() == domain.KindClass {
		classID := c.Obj.Site.Name
		s.classObjects[classID] = append(s.classObjects[classID], c.Obj)
		if cls, ok := s.kb.Class(classID); ok {
			s.hier.Register(classID, cls.Bases)
		}
	}
}
