package builtin

import (
	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
)

// registerContainerConstructors installs list/dict/tuple/set/frozenset
// (§4.7 "Container constructors"): allocate a new container object;
// for each argument that is itself a container, wire elements via
// Copy through the element selector.
func registerContainerConstructors(t *Table) {
	t.Register("list", containerCtor(domain.KindList, domain.SelElem))
	t.Register("tuple", containerCtor(domain.KindTuple, domain.SelElem))
	t.Register("set", containerCtor(domain.KindSet, domain.SelElem))
	t.Register("frozenset", containerCtor(domain.KindSet, domain.SelElem))
	t.Register("dict", dictCtor())
}

func containerCtor(kind domain.Kind, selector string) Handler {
	return func(cc CallCtx, args []domain.Variable, target domain.Variable, hasTarget bool) []constraint.Constraint {
		if !hasTarget {
			return nil
		}
		obj := domain.NewAbstractObject(allocSite(cc, kind, ""), cc.Ctx)
		cs := []constraint.Constraint{allocConstraint(target, obj, cc.Site)}
		for _, a := range args {
			cs = append(cs, copyElemsThrough(cc, target, a, selector, "ctorelem")...)
		}
		return cs
	}
}

func dictCtor() Handler {
	return func(cc CallCtx, args []domain.Variable, target domain.Variable, hasTarget bool) []constraint.Constraint {
		if !hasTarget {
			return nil
		}
		obj := domain.NewAbstractObject(allocSite(cc, domain.KindDict, ""), cc.Ctx)
		cs := []constraint.Constraint{allocConstraint(target, obj, cc.Site)}
		for _, a := range args {
			// dict(otherMapping): copy values through the aggregate
			// selector; precise key tracking is unavailable for a
			// runtime argument, matching the collapsed model.
			cs = append(cs, copyElemsThrough(cc, target, a, domain.SelValue, "dictval")...)
		}
		return cs
	}
}
