package builtin

import (
	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
)

// registerInspection installs len/isinstance/hasattr/type/id/hash/
// callable/repr/str (§4.7 "Identity/inspection"): allocate a CONST
// result; do not allocate for the input (the argument's pts is simply
// not propagated).
func registerInspection(t *Table) {
	for _, name := range []string{"len", "isinstance", "hasattr", "type", "id", "hash", "callable", "repr", "str"} {
		t.Register(name, constResult())
	}
}

func constResult() Handler {
	return func(cc CallCtx, args []domain.Variable, target domain.Variable, hasTarget bool) []constraint.Constraint {
		if !hasTarget {
			return nil
		}
		obj := domain.NewAbstractObject(allocSite(cc, domain.KindConst, ""), cc.Ctx)
		return []constraint.Constraint{allocConstraint(target, obj, cc.Site)}
	}
}
