package translate

import (
	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
)

// call translates an ordinary call statement. The front end is
// expected to have already lowered `recv.method(args)` into a
// LoadAttr producing a temporary, followed by a Call whose Src names
// that temporary: the bound-method synthesis that turns an unbound
// FUNCTION found via MRO into a BOUND_METHOD happens at Load
// resolution time in the solver, not here. This keeps Call itself
// uniform regardless of whether the callee came from a name, an
// attribute, or a previous call's result.
func (tr *Translator) call(scope string, ctx domain.Context, s *ir.Stmt) []constraint.Constraint {
	args := make([]domain.Variable, 0, len(s.Args))
	for _, a := range s.Args {
		args = append(args, tr.var_(scope, a, ctx))
	}

	c := &constraint.Call{
		Callee: tr.var_(scope, s.Src, ctx),
		Args:   args,
		CS:     constraint.CallSite{Pos: s.Site},
		Pos:    s.Site,
	}
	if s.Dst != "" {
		c.V = tr.var_(scope, s.Dst, ctx)
		c.HasV = true
	}
	return []constraint.Constraint{c}
}
