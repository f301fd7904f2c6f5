package solver

import (
	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
	"github.com/lkgv/pystan-pointer/state"
)

// evalLoad resolves v <- u.selector for every object the base
// variable currently points to, walking the class hierarchy when an
// OBJECT (or CLASS, for attribute access on the class itself) does not
// carry the attribute directly (§4.4.2, §4.5).
func (s *Solver) evalLoad(idx int, c *constraint.Load) {
	u := s.kb.PTS(c.U)
	changed := false
	u.Each(func(o domain.AbstractObject) {
		for _, hit := range s.resolveAttr(idx, o, c.Selector, c.Pos) {
			if s.kb.PTS(c.V).Add(hit) {
				changed = true
			}
		}
	})
	if changed {
		s.markVarDirty(c.V)
	}
}

// evalStore applies u.selector <- v for every object the base variable
// currently points to. Stores are always direct: a write through an
// instance never reaches through to its class (§4.5 "attribute writes
// are never looked up through MRO").
func (s *Solver) evalStore(c *constraint.Store) {
	u := s.kb.PTS(c.U)
	u.Each(func(o domain.AbstractObject) {
		f := domain.NewField(o, c.Selector)
		if s.kb.FieldPTS(f).UnionInto(s.kb.PTS(c.V)) {
			s.markFieldDirty(f)
		}
	})
}

// resolveAttr computes the set of objects a (base, selector) attribute
// load yields right now, subscribing idx (the Load constraint driving
// this resolution) to every field visited so future growth of any of
// them re-triggers the load. For OBJECT/CLASS bases that don't carry
// the attribute directly, resolution walks the MRO of the object's
// class, synthesizing a BOUND_METHOD when the attribute resolves to a
// FUNCTION through an ancestor (§4.4.2, §4.5).
func (s *Solver) resolveAttr(idx int, o domain.AbstractObject, selector string, pos ir.Site) []domain.AbstractObject {
	direct := domain.NewField(o, selector)
	s.subscribeField(direct, idx)
	if s.kb.HasField(direct) && s.kb.FieldPTS(direct).Len() > 0 {
		return s.kb.FieldPTS(direct).Slice()
	}

	switch o.Kind() {
	case domain.KindObject:
		classField := domain.NewField(o, "__class__")
		s.subscribeField(classField, idx)
		var out []domain.AbstractObject
		s.kb.FieldPTS(classField).Each(func(classObj domain.AbstractObject) {
			out = append(out, s.resolveThroughMRO(idx, classObj, o, selector)...)
		})
		if len(out) == 0 {
			s.kb.Unknown.Report(state.CategoryDynamicAttribute, pos, "unresolved attribute %q on %s", selector, o)
		}
		return out
	case domain.KindClass:
		out := s.resolveThroughMRO(idx, o, domain.AbstractObject{}, selector)
		if len(out) == 0 {
			s.kb.Unknown.Report(state.CategoryDynamicAttribute, pos, "unresolved class attribute %q on %s", selector, o)
		}
		return out
	default:
		if !s.kb.HasField(direct) {
			s.kb.Unknown.Report(state.CategoryFieldLoadEmpty, pos, "load of %q on %s before any store", selector, o)
		}
		return nil
	}
}

// resolveThroughMRO walks classObj's method resolution order looking
// for selector on each ancestor's registered CLASS objects. recv is
// the zero AbstractObject for a bare class-attribute access (no
// instance to bind); otherwise a FUNCTION hit is synthesized into a
// BOUND_METHOD pairing the function with recv.
func (s *Solver) resolveThroughMRO(idx int, classObj, recv domain.AbstractObject, selector string) []domain.AbstractObject {
	classID := classObj.Site.Name
	var out []domain.AbstractObject
	for _, ancestorID := range s.hier.MRO(classID) {
		for _, ancestorObj := range s.classObjects[ancestorID] {
			f := domain.NewField(ancestorObj, selector)
			s.subscribeField(f, idx)
			if !s.kb.HasField(f) {
				continue
			}
			s.kb.FieldPTS(f).Each(func(hit domain.AbstractObject) {
				if recv != (domain.AbstractObject{}) && hit.Kind() == domain.KindFunction {
					out = append(out, s.boundMethod(hit, recv))
				} else {
					out = append(out, hit)
				}
			})
		}
		if len(out) > 0 {
			return out
		}
	}
	return out
}

// boundMethod synthesizes the BOUND_METHOD object pairing a FUNCTION
// with its receiver. Identity is derived from both components' string
// forms so that repeated loads of the same (function, receiver) pair
// converge on one object rather than allocating afresh each time
// (§4.4.2: bound methods are reference-identity-stable per receiver).
func (s *Solver) boundMethod(fn, recv domain.AbstractObject) domain.AbstractObject {
	site := domain.NewAllocSite(fn.Site.File, fn.Site.Line, fn.Site.Column, domain.KindBoundMethod, fn.Site.Name+"#"+recv.String())
	obj := domain.NewAbstractObject(site, domain.Empty)
	if _, ok := s.boundMethods[obj]; !ok {
		s.boundMethods[obj] = boundMethodInfo{Fn: fn, Recv: recv}
	}
	return obj
}
