package builtin

import (
	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
)

// registerDecorators installs staticmethod/classmethod/property
// (§4.7): each returns a descriptor-like wrapper whose __func__ is the
// decorated argument.
func registerDecorators(t *Table) {
	for _, name := range []string{"staticmethod", "classmethod", "property"} {
		t.Register(name, descriptorCtor())
	}
}

func descriptorCtor() Handler {
	return func(cc CallCtx, args []domain.Variable, target domain.Variable, hasTarget bool) []constraint.Constraint {
		if !hasTarget {
			return nil
		}
		obj := domain.NewAbstractObject(allocSite(cc, domain.KindBoundMethod, "descriptor"), cc.Ctx)
		cs := []constraint.Constraint{allocConstraint(target, obj, cc.Site)}
		if len(args) > 0 {
			cs = append(cs, storeConstraint(target, domain.SelFunc, args[0], cc.Site))
		}
		return cs
	}
}
