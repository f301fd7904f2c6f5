// Package translate walks a function's or module's CFG once and emits
// the constraints of §4.1 (§4.6 "IR -> Constraint Translator"). It
// registers declared functions and classes with the knowledge base as
// it encounters their definitions.
package translate

import (
	"fmt"

	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
	"github.com/lkgv/pystan-pointer/state"
)

// FieldMode selects how subscript/dict stores are field-sensitized
// (§6 field_sensitivity_mode).
type FieldMode uint8

const (
	AttrName FieldMode = iota
	Collapsed
)

// Options configures the translator.
type Options struct {
	FieldSensitivity FieldMode
}

// Translator is idempotent per (function, context) pair (§4.6): the
// memo set lets the solver re-invoke Translate for a function freshly
// discovered in a context without regenerating duplicate constraints.
type Translator struct {
	opts Options
	kb   *state.KnowledgeBase
	memo map[memoKey]bool
}

type memoKey struct {
	scope string
	ctx   domain.Context
}

// New returns a Translator writing declarations into kb.
func New(kb *state.KnowledgeBase, opts Options) *Translator {
	return &Translator{opts: opts, kb: kb, memo: make(map[memoKey]bool)}
}

func (tr *Translator) alreadyTranslated(scope string, ctx domain.Context) bool {
	k := memoKey{scope, ctx}
	if tr.memo[k] {
		return true
	}
	tr.memo[k] = true
	return false
}

func (tr *Translator) var_(scope, name string, ctx domain.Context) domain.Variable {
	return domain.NewVariable(scope, name, ctx)
}

func (tr *Translator) collapsed() bool { return tr.opts.FieldSensitivity == Collapsed }

// TranslateModule generates constraints for a module's top-level body,
// always under the empty context (module scope is never cloned).
// Declared functions and classes are registered with the knowledge
// base as they are seen.
func (tr *Translator) TranslateModule(mod *ir.ModuleIR) []constraint.Constraint {
	scope := mod.Path
	if tr.alreadyTranslated(scope, domain.Empty) {
		return nil
	}
	var out []constraint.Constraint
	for _, s := range mod.Body {
		out = append(out, tr.translateStmt(scope, domain.Empty, s)...)
	}
	return out
}

// TranslateFunction generates constraints for one function body under
// a specific calling context. Safe to call repeatedly; a second call
// for the same (fn.QualName, ctx) pair is a no-op (idempotent).
func (tr *Translator) TranslateFunction(fn *ir.FunctionIR, ctx domain.Context) []constraint.Constraint {
	if tr.alreadyTranslated(fn.QualName, ctx) {
		return nil
	}

	var out []constraint.Constraint

	// The reserved $fn / $genframe variables are not bound here: the
	// solver adds the FUNCTION and GEN_FRAME objects to them directly
	// at dispatch time (bindImplicitFn, bindGenFrame); yield
	// statements in the body only reference $genframe.

	for _, b := range fn.Blocks {
		for _, s := range b.Instr {
			out = append(out, tr.translateStmt(fn.QualName, ctx, s)...)
		}
	}
	return out
}

func (tr *Translator) translateStmt(scope string, ctx domain.Context, s *ir.Stmt) []constraint.Constraint {
	switch s.Kind {
	case ir.StmtCopy:
		return []constraint.Constraint{tr.copy(scope, ctx, s)}

	case ir.StmtLiteral:
		return []constraint.Constraint{tr.alloc(scope, ctx, s, domain.KindConst)}

	case ir.StmtContainerLiteral:
		return tr.containerLiteral(scope, ctx, s)

	case ir.StmtLoadAttr:
		return []constraint.Constraint{tr.load(scope, ctx, s, s.Selector)}

	case ir.StmtStoreAttr:
		return []constraint.Constraint{tr.store(scope, ctx, s, s.Selector)}

	case ir.StmtLoadSubscript:
		return []constraint.Constraint{tr.load(scope, ctx, s, tr.subscriptSelector(s))}

	case ir.StmtStoreSubscript:
		return []constraint.Constraint{tr.store(scope, ctx, s, tr.subscriptSelector(s))}

	case ir.StmtCall:
		return tr.call(scope, ctx, s)

	case ir.StmtReturn:
		dst := domain.ReturnVariable(scope, ctx)
		return []constraint.Constraint{&constraint.Copy{V: dst, U: tr.var_(scope, s.Src, ctx), Pos: s.Site}}

	case ir.StmtDefFunc:
		return tr.defFunc(scope, ctx, s)

	case ir.StmtDefClass:
		return tr.defClass(scope, ctx, s)

	case ir.StmtImport:
		return []constraint.Constraint{tr.importStmt(scope, ctx, s)}

	case ir.StmtImportFrom:
		return tr.importFrom(scope, ctx, s)

	case ir.StmtRaise:
		raised := domain.RaisedVariable(scope, ctx)
		return []constraint.Constraint{&constraint.Copy{V: raised, U: tr.var_(scope, s.Src, ctx), Pos: s.Site}}

	case ir.StmtCatch:
		raised := domain.RaisedVariable(scope, ctx)
		var out []constraint.Constraint
		for _, target := range s.Targets {
			out = append(out, &constraint.Copy{V: tr.var_(scope, target, ctx), U: raised, Pos: s.Site})
		}
		return out

	case ir.StmtYield:
		frame := domain.GenFrameVariable(scope, ctx)
		return []constraint.Constraint{&constraint.Store{U: frame, Selector: domain.SelYield, V: tr.var_(scope, s.Src, ctx), Pos: s.Site}}

	case ir.StmtAwait:
		return []constraint.Constraint{tr.load(scope, ctx, s, domain.SelYield)}

	case ir.StmtWithEnter:
		return tr.withEnter(scope, ctx, s)

	case ir.StmtWithExit:
		return tr.withExit(scope, ctx, s)

	case ir.StmtForIter:
		return tr.forIter(scope, ctx, s)

	case ir.StmtForNext:
		return tr.forNext(scope, ctx, s)

	case ir.StmtBinOp:
		return tr.binOp(scope, ctx, s)

	case ir.StmtDel:
		return nil // monotone analysis: removal is unsound to model; no-op is sound.

	case ir.StmtPhi:
		dst := tr.var_(scope, s.Dst, ctx)
		out := make([]constraint.Constraint, 0, len(s.Elements))
		for _, e := range s.Elements {
			out = append(out, &constraint.Copy{V: dst, U: tr.var_(scope, e, ctx), Pos: s.Site})
		}
		return out

	default:
		return nil
	}
}

func (tr *Translator) copy(scope string, ctx domain.Context, s *ir.Stmt) constraint.Constraint {
	return &constraint.Copy{V: tr.var_(scope, s.Dst, ctx), U: tr.var_(scope, s.Src, ctx), Pos: s.Site}
}

func (tr *Translator) alloc(scope string, ctx domain.Context, s *ir.Stmt, kind domain.Kind) constraint.Constraint {
	site := domain.NewAllocSite(s.Site.File, s.Site.Line, s.Site.Column, kind, s.Dst)
	obj := domain.NewAbstractObject(site, ctx)
	return &constraint.Alloc{V: tr.var_(scope, s.Dst, ctx), Obj: obj, Pos: s.Site}
}

func (tr *Translator) load(scope string, ctx domain.Context, s *ir.Stmt, selector string) constraint.Constraint {
	return &constraint.Load{V: tr.var_(scope, s.Dst, ctx), U: tr.var_(scope, s.Src, ctx), Selector: selector, Pos: s.Site}
}

func (tr *Translator) store(scope string, ctx domain.Context, s *ir.Stmt, selector string) constraint.Constraint {
	return &constraint.Store{U: tr.var_(scope, s.Dst, ctx), Selector: selector, V: tr.var_(scope, s.Src2, ctx), Pos: s.Site}
}

func (tr *Translator) subscriptSelector(s *ir.Stmt) string {
	if tr.collapsed() {
		return domain.SelElem
	}
	if s.Key != "" {
		return domain.DictKeySelector(false, s.Key)
	}
	return domain.SelElem
}

func (tr *Translator) containerLiteral(scope string, ctx domain.Context, s *ir.Stmt) []constraint.Constraint {
	var kind domain.Kind
	switch s.Container {
	case ir.ContainerList:
		kind = domain.KindList
	case ir.ContainerDict:
		kind = domain.KindDict
	case ir.ContainerTuple:
		kind = domain.KindTuple
	case ir.ContainerSet:
		kind = domain.KindSet
	default:
		kind = domain.KindList
	}
	site := domain.NewAllocSite(s.Site.File, s.Site.Line, s.Site.Column, kind, s.Dst)
	obj := domain.NewAbstractObject(site, ctx)
	dst := tr.var_(scope, s.Dst, ctx)
	out := []constraint.Constraint{&constraint.Alloc{V: dst, Obj: obj, Pos: s.Site}}

	if s.Container == ir.ContainerDict {
		for i, elem := range s.Elements {
			var key string
			if i < len(s.Keys) {
				key = s.Keys[i]
			}
			selector := domain.SelValue
			if !tr.collapsed() && key != "" {
				selector = domain.DictKeySelector(false, key)
			}
			out = append(out, &constraint.Store{U: dst, Selector: selector, V: tr.var_(scope, elem, ctx), Pos: s.Site})
		}
		return out
	}

	for _, elem := range s.Elements {
		out = append(out, &constraint.Store{U: dst, Selector: domain.SelElem, V: tr.var_(scope, elem, ctx), Pos: s.Site})
	}
	return out
}

func (tr *Translator) importStmt(scope string, ctx domain.Context, s *ir.Stmt) constraint.Constraint {
	site := domain.NewAllocSite(s.Site.File, s.Site.Line, s.Site.Column, domain.KindModule, s.Module)
	obj := domain.NewAbstractObject(site, ctx)
	name := s.AsName
	if name == "" {
		name = s.Module
	}
	return &constraint.Import{
		M:            tr.var_(scope, name, ctx),
		ModuleName:   s.Module,
		ImporterPath: scope,
		Obj:          obj,
		Pos:          s.Site,
	}
}

// importFrom models `from M import name [as asname]` as an Import
// (to trigger/charge module analysis) followed by a Load binding the
// local name to the symbol's field on the MODULE object. The solver
// fills that field later, either from a precomputed Summary
// (bindSummary, as supplied by package modgraph) or from the imported
// module's own top-level bindings (bindExports).
func (tr *Translator) importFrom(scope string, ctx domain.Context, s *ir.Stmt) []constraint.Constraint {
	modVar := tr.var_(scope, "$module:"+s.Module, ctx)
	site := domain.NewAllocSite(s.Site.File, s.Site.Line, s.Site.Column, domain.KindModule, s.Module)
	obj := domain.NewAbstractObject(site, ctx)
	imp := &constraint.Import{M: modVar, ModuleName: s.Module, ImporterPath: scope, Obj: obj, Pos: s.Site}

	asName := s.AsName
	if asName == "" {
		asName = s.FromName
	}
	load := &constraint.Load{V: tr.var_(scope, asName, ctx), U: modVar, Selector: s.FromName, Pos: s.Site}
	return []constraint.Constraint{imp, load}
}

func (tr *Translator) withEnter(scope string, ctx domain.Context, s *ir.Stmt) []constraint.Constraint {
	// temp = m.__enter__(); as-target = temp()
	recv := tr.var_(scope, s.Src, ctx)
	enterMethod, loadEnter := tr.dunderLoad(scope, ctx, s, recv, "__enter__", 0)

	tempName := "$with:" + s.Site.ID()
	temp := tr.var_(scope, tempName, ctx)
	enterCall := &constraint.Call{
		V: temp, HasV: true,
		Callee: enterMethod,
		Recv: recv, HasRecv: true,
		CS:  constraint.CallSite{Pos: s.Site, SeqNo: 1},
		Pos: s.Site,
	}

	var asTarget domain.Variable
	if len(s.Targets) > 0 {
		asTarget = tr.var_(scope, s.Targets[0], ctx)
	} else {
		asTarget = tr.var_(scope, "$with:discard:"+s.Site.ID(), ctx)
	}
	callTemp := &constraint.Call{
		V: asTarget, HasV: true,
		Callee: temp,
		CS:     constraint.CallSite{Pos: s.Site, SeqNo: 2},
		Pos:    s.Site,
	}
	return []constraint.Constraint{loadEnter, enterCall, callTemp}
}

func (tr *Translator) withExit(scope string, ctx domain.Context, s *ir.Stmt) []constraint.Constraint {
	recv := tr.var_(scope, s.Src, ctx)
	exitMethod, loadExit := tr.dunderLoad(scope, ctx, s, recv, "__exit__", 3)

	noneSite := domain.NewAllocSite(s.Site.File, s.Site.Line, s.Site.Column, domain.KindConst, "None")
	noneVar := tr.var_(scope, "$none:"+s.Site.ID(), ctx)
	allocNone := &constraint.Alloc{V: noneVar, Obj: domain.NewAbstractObject(noneSite, ctx), Pos: s.Site}
	exitCall := &constraint.Call{
		Callee: exitMethod,
		Recv:   recv, HasRecv: true,
		Args: []domain.Variable{noneVar, noneVar, noneVar},
		CS:   constraint.CallSite{Pos: s.Site, SeqNo: 4},
		Pos:  s.Site,
	}
	return []constraint.Constraint{loadExit, allocNone, exitCall}
}

func (tr *Translator) forIter(scope string, ctx domain.Context, s *ir.Stmt) []constraint.Constraint {
	recv := tr.var_(scope, s.Src, ctx)
	iterMethod, loadIter := tr.dunderLoad(scope, ctx, s, recv, "__iter__", 1)
	iterCall := &constraint.Call{
		V: tr.var_(scope, s.Dst, ctx), HasV: true,
		Callee: iterMethod,
		Recv:   recv, HasRecv: true,
		CS:  constraint.CallSite{Pos: s.Site, SeqNo: 2},
		Pos: s.Site,
	}
	return []constraint.Constraint{loadIter, iterCall}
}

func (tr *Translator) forNext(scope string, ctx domain.Context, s *ir.Stmt) []constraint.Constraint {
	recv := tr.var_(scope, s.Src, ctx)
	nextMethod, loadNext := tr.dunderLoad(scope, ctx, s, recv, "__next__", 3)
	nextCall := &constraint.Call{
		V: tr.var_(scope, s.Dst, ctx), HasV: true,
		Callee: nextMethod,
		Recv:   recv, HasRecv: true,
		CS:  constraint.CallSite{Pos: s.Site, SeqNo: 4},
		Pos: s.Site,
	}
	return []constraint.Constraint{loadNext, nextCall}
}

func (tr *Translator) binOp(scope string, ctx domain.Context, s *ir.Stmt) []constraint.Constraint {
	method := "__" + s.Selector + "__"
	recv := tr.var_(scope, s.Src, ctx)
	methodVar, loadMethod := tr.dunderLoad(scope, ctx, s, recv, method, 5)
	call := &constraint.Call{
		V: tr.var_(scope, s.Dst, ctx), HasV: true,
		Callee: methodVar,
		Recv:   recv, HasRecv: true,
		Args: []domain.Variable{tr.var_(scope, s.Src2, ctx)},
		CS:   constraint.CallSite{Pos: s.Site, SeqNo: 6},
		Pos:  s.Site,
	}
	return []constraint.Constraint{loadMethod, call}
}

// dunderLoad emits the Load that fetches a dunder method off a
// receiver variable, returning the temporary holding the callee
// alongside the constraint that populates it. The solver's
// bound-method synthesis rule fires when this Load resolves to a
// FUNCTION through MRO, yielding a BOUND_METHOD object.
func (tr *Translator) dunderLoad(scope string, ctx domain.Context, s *ir.Stmt, recv domain.Variable, dunder string, seq int) (domain.Variable, constraint.Constraint) {
	tmp := tr.var_(scope, fmt.Sprintf("$dunder:%d:%s", seq, dunder), ctx)
	load := &constraint.Load{V: tmp, U: recv, Selector: dunder, Pos: s.Site}
	return tmp, load
}
