package builtin

import (
	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
)

// registerHigherOrder installs map/filter/sorted/reversed/zip/
// enumerate/iter/next (§4.7 "Higher-order"): conservatively allocate
// a LIST (or GEN_FRAME) of the underlying element type as observed,
// propagating elements through the element selector from the
// iterable argument.
//
// next() is the one member of this group that does not itself
// produce a container: it consumes an iterator/generator-frame and
// yields one element, so its handler loads the element selector
// straight into the target rather than wrapping a fresh object.
func registerHigherOrder(t *Table) {
	for _, name := range []string{"map", "filter", "sorted", "reversed", "zip", "enumerate"} {
		t.Register(name, elementWrapper(domain.KindList))
	}
	t.Register("iter", elementWrapper(domain.KindGenFrame))
	t.Register("next", elementPassthrough())
}

func elementWrapper(kind domain.Kind) Handler {
	return func(cc CallCtx, args []domain.Variable, target domain.Variable, hasTarget bool) []constraint.Constraint {
		if !hasTarget {
			return nil
		}
		obj := domain.NewAbstractObject(allocSite(cc, kind, ""), cc.Ctx)
		cs := []constraint.Constraint{allocConstraint(target, obj, cc.Site)}
		if len(args) > 0 {
			cs = append(cs, copyElemsThrough(cc, target, args[0], domain.SelElem, "hoelem")...)
		}
		return cs
	}
}

func elementPassthrough() Handler {
	return func(cc CallCtx, args []domain.Variable, target domain.Variable, hasTarget bool) []constraint.Constraint {
		if !hasTarget || len(args) == 0 {
			return nil
		}
		return []constraint.Constraint{loadConstraint(target, args[0], domain.SelElem, cc.Site)}
	}
}
