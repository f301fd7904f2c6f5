package solver

import (
	"github.com/lkgv/pystan-pointer/builtin"
	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/ctxsel"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
	"github.com/lkgv/pystan-pointer/state"
)

// evalCall dispatches one call expression against every object the
// callee variable currently points to (§4.4). Dispatch is monotone:
// each distinct (object, args) combination can only ever add pts
// members or call-graph edges, never retract them.
func (s *Solver) evalCall(idx int, c *constraint.Call) {
	_ = idx
	callee := s.kb.PTS(c.Callee)
	if callee.Empty() {
		s.kb.Unknown.Report(state.CategoryCalleeEmpty, c.Pos, "call target %s has empty points-to set", c.Callee)
		s.allocUnknownResult(c, state.CategoryCalleeEmpty)
		return
	}

	callee.Each(func(o domain.AbstractObject) {
		s.dispatchOne(c, o)
	})
}

func (s *Solver) dispatchOne(c *constraint.Call, o domain.AbstractObject) {
	switch o.Kind() {
	case domain.KindFunction:
		if c.HasRecv {
			s.kb.PTS(c.Recv).Each(func(recvObj domain.AbstractObject) {
				s.dispatchFunction(c, o, c.Args, recvObj, true)
			})
			return
		}
		s.dispatchFunction(c, o, c.Args, domain.AbstractObject{}, false)
	case domain.KindBoundMethod:
		info, ok := s.boundMethods[o]
		if !ok {
			s.kb.Unknown.Report(state.CategoryCalleeNonCallable, c.Pos, "dangling bound method object %s", o)
			return
		}
		s.dispatchFunction(c, info.Fn, c.Args, info.Recv, true)
	case domain.KindClass:
		s.dispatchConstructor(c, o)
	default:
		if qual := o.Site.Name; qual != "" {
			if h, ok := s.builtins.Lookup(qual); ok {
				s.invokeBuiltin(c, h)
				return
			}
			if builtin.IsConstructor(qual) {
				s.dispatchConstructor(c, o)
				return
			}
		}
		s.kb.Unknown.Report(state.CategoryCalleeNonCallable, c.Pos, "call target %s (%s) is not callable", o, o.Kind())
	}
}

// dispatchFunction handles a call resolved to a concrete FUNCTION
// object, with an optional bound receiver object: selects the callee
// context, binds parameters (receiver first, when present), schedules
// the body for translation, and wires the implicit return flow back to
// the call site's target (§4.3, §4.4.1, §4.6).
func (s *Solver) dispatchFunction(c *constraint.Call, fnObj domain.AbstractObject, args []domain.Variable, recvObj domain.AbstractObject, hasRecv bool) {
	qualName := fnObj.Site.Name
	fn, ok := s.kb.Function(qualName)
	if !ok {
		s.kb.Unknown.Report(state.CategoryFunctionNotInRegistry, c.Pos, "no registered function %q", qualName)
		return
	}

	meta := ctxsel.CallMeta{CallSite: c.CS, CalleeIdent: qualName, IsMethodCall: hasRecv}
	if hasRecv {
		meta.ReceiverSite = recvObj.Site.String()
		meta.ReceiverType = recvObj.Site.Name
	}
	callerCtx := c.Callee.Ctx
	calleeCtx := s.sel.Select(callerCtx, meta)
	s.kb.MarkContextLive(calleeCtx)

	i := 0
	if hasRecv && fn.IsMethod && len(fn.Params) > 0 {
		self := domain.NewVariable(qualName, fn.Params[0], calleeCtx)
		if s.kb.PTS(self).Add(recvObj) {
			s.markVarDirty(self)
		}
		i = 1
	}
	for _, a := range args {
		if i >= len(fn.Params) {
			break
		}
		s.AddConstraints([]constraint.Constraint{&constraint.Copy{
			V: domain.NewVariable(qualName, fn.Params[i], calleeCtx), U: a, Pos: c.Pos,
		}})
		i++
	}

	s.bindImplicitFn(qualName, calleeCtx, fnObj)
	if fn.IsGenerator {
		s.bindGenFrame(fn, qualName, calleeCtx)
	}

	s.requestTranslation(fn, calleeCtx)

	s.kb.Graph.AddEdge(state.Edge{
		CallerCtx: callerCtx,
		CS:        c.CS,
		Callee:    qualName,
		CalleeCtx: calleeCtx,
	})

	if c.HasV {
		s.AddConstraints([]constraint.Constraint{&constraint.Return{
			V: c.V, CalleeScope: qualName, CalleeCtx: calleeCtx, Pos: c.Pos,
		}})
	}
}

func (s *Solver) bindImplicitFn(qualName string, calleeCtx domain.Context, fnObj domain.AbstractObject) {
	target := domain.SelfFnVariable(qualName, calleeCtx)
	if s.kb.PTS(target).Add(fnObj) {
		s.markVarDirty(target)
	}
}

func (s *Solver) bindGenFrame(fn *ir.FunctionIR, qualName string, calleeCtx domain.Context) {
	k := genKey{qualName, calleeCtx}
	obj, ok := s.genFrames[k]
	if !ok {
		site := domain.NewAllocSite(fn.Site.File, fn.Site.Line, fn.Site.Column, domain.KindGenFrame, qualName)
		obj = domain.NewAbstractObject(site, calleeCtx)
		s.genFrames[k] = obj
	}
	target := domain.GenFrameVariable(qualName, calleeCtx)
	if s.kb.PTS(target).Add(obj) {
		s.markVarDirty(target)
	}
}

// dispatchConstructor handles a call whose callee resolved to a CLASS
// object: allocate the instance, bind its __class__ slot, and invoke
// __init__ through MRO if declared (§4.4.1: "constructing an instance
// allocates an OBJECT tagged with the call site, under the calling
// context").
func (s *Solver) dispatchConstructor(c *constraint.Call, classObj domain.AbstractObject) {
	site := domain.NewAllocSite(c.Pos.File, c.Pos.Line, c.Pos.Column, domain.KindObject, classObj.Site.Name)
	instance := domain.NewAbstractObject(site, c.Callee.Ctx)

	if c.HasV {
		if s.kb.PTS(c.V).Add(instance) {
			s.markVarDirty(c.V)
		}
	}

	classField := domain.NewField(instance, "__class__")
	if s.kb.FieldPTS(classField).Add(classObj) {
		s.markFieldDirty(classField)
	}

	initFn := s.lookupInit(classObj)
	if initFn == nil {
		return
	}
	s.dispatchFunction(c, *initFn, c.Args, instance, true)
}

func (s *Solver) lookupInit(classObj domain.AbstractObject) *domain.AbstractObject {
	classID := classObj.Site.Name
	for _, ancestorID := range s.hier.MRO(classID) {
		for _, ancestorObj := range s.classObjects[ancestorID] {
			f := domain.NewField(ancestorObj, "__init__")
			if !s.kb.HasField(f) {
				continue
			}
			var found *domain.AbstractObject
			s.kb.FieldPTS(f).Each(func(hit domain.AbstractObject) {
				if found == nil && hit.Kind() == domain.KindFunction {
					h := hit
					found = &h
				}
			})
			if found != nil {
				return found
			}
		}
	}
	return nil
}

func (s *Solver) invokeBuiltin(c *constraint.Call, h builtin.Handler) {
	cc := builtin.CallCtx{Ctx: c.Callee.Ctx, Scope: c.Callee.Scope, Site: c.Pos}
	s.AddConstraints(h(cc, c.Args, c.V, c.HasV))
}

func (s *Solver) allocUnknownResult(c *constraint.Call, cat state.Category) {
	if !c.HasV || !cat.AllocatesUnknown() {
		return
	}
	site := domain.NewAllocSite(c.Pos.File, c.Pos.Line, c.Pos.Column, domain.KindUnknown, "unknown")
	obj := domain.NewAbstractObject(site, domain.Empty)
	if s.kb.PTS(c.V).Add(obj) {
		s.markVarDirty(c.V)
	}
}
