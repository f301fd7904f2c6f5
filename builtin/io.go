package builtin

import (
	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
)

// registerIO installs print/open and the handful of file methods
// (§4.7 "I/O and mutators"): allocate a CONST return (or a fresh
// OBJECT for open), and propagate no object through pure arguments.
func registerIO(t *Table) {
	t.Register("print", constResult())
	t.Register("open", objectResult())
	for _, name := range []string{"read", "write", "close", "readline", "readlines", "flush"} {
		t.Register(name, constResult())
	}
}

func noResult() Handler {
	return func(cc CallCtx, args []domain.Variable, target domain.Variable, hasTarget bool) []constraint.Constraint {
		return nil
	}
}

func objectResult() Handler {
	return func(cc CallCtx, args []domain.Variable, target domain.Variable, hasTarget bool) []constraint.Constraint {
		if !hasTarget {
			return nil
		}
		obj := domain.NewAbstractObject(allocSite(cc, domain.KindObject, "file"), cc.Ctx)
		return []constraint.Constraint{allocConstraint(target, obj, cc.Site)}
	}
}
