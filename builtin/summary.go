// Package builtin is the built-in summary library (§4.7): a table
// mapping qualified callable identifiers to handlers that generate
// constraints for calls the translator/solver cannot resolve to a
// user-defined FUNCTION or CLASS object.
package builtin

import (
	"fmt"
	"unicode"

	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
)

// CallCtx carries everything a Handler needs to name fresh
// allocations and temporaries consistently with the rest of the
// analysis: the calling context (for heap cloning), a scope id to
// mint temporaries under, and the call's site.
type CallCtx struct {
	Ctx   domain.Context
	Scope string
	Site  ir.Site
}

// Handler receives (context, call_site, arg_vars, target_var) and
// returns the constraints modeling one call to a built-in (§4.7).
type Handler func(cc CallCtx, args []domain.Variable, target domain.Variable, hasTarget bool) []constraint.Constraint

// Table maps qualified callable identifiers to handlers. A module may
// augment its own private copy (derived via Clone) with locally
// declared summaries, recorded in its Summary.BuiltinAugmentations.
type Table struct {
	handlers map[string]Handler
}

// NewDefaultTable builds the standard library of summaries (§4.7).
func NewDefaultTable() *Table {
	t := &Table{handlers: make(map[string]Handler)}
	registerContainerConstructors(t)
	registerInspection(t)
	registerHigherOrder(t)
	registerDecorators(t)
	registerIO(t)
	return t
}

// Clone returns a shallow copy whose Register calls do not affect the
// receiver -- the mechanism behind per-module builtin augmentation
// (§4.8: "any built-in summary augmentations declared locally").
func (t *Table) Clone() *Table {
	out := &Table{handlers: make(map[string]Handler, len(t.handlers))}
	for k, v := range t.handlers {
		out.handlers[k] = v
	}
	return out
}

// Register installs or overrides the handler for qualName.
func (t *Table) Register(qualName string, h Handler) {
	t.handlers[qualName] = h
}

// Lookup finds the handler for a qualified callable identifier.
func (t *Table) Lookup(qualName string) (Handler, bool) {
	h, ok := t.handlers[qualName]
	return h, ok
}

// IsConstructor reports whether an unresolved callable should be
// heuristically treated as a constructor: its unqualified name starts
// with an uppercase letter. It does not consult the built-in table;
// callers check Lookup first (§4.7:
// "Any called object with an uppercase initial letter ... is
// heuristically treated as a constructor only when it is otherwise
// unresolved").
func IsConstructor(unqualifiedName string) bool {
	for _, r := range unqualifiedName {
		return unicode.IsUpper(r)
	}
	return false
}

func allocSite(cc CallCtx, kind domain.Kind, name string) domain.AllocSite {
	return domain.NewAllocSite(cc.Site.File, cc.Site.Line, cc.Site.Column, kind, name)
}

func tempVar(cc CallCtx, tag string) domain.Variable {
	return domain.NewVariable(cc.Scope, fmt.Sprintf("$%s@%s", tag, cc.Site.ID()), cc.Ctx)
}

// allocConstraint is a small convenience used throughout this package.
func allocConstraint(v domain.Variable, obj domain.AbstractObject, pos ir.Site) constraint.Constraint {
	return &constraint.Alloc{V: v, Obj: obj, Pos: pos}
}

func copyConstraint(dst, src domain.Variable, pos ir.Site) constraint.Constraint {
	return &constraint.Copy{V: dst, U: src, Pos: pos}
}

func loadConstraint(dst, base domain.Variable, selector string, pos ir.Site) constraint.Constraint {
	return &constraint.Load{V: dst, U: base, Selector: selector, Pos: pos}
}

func storeConstraint(base domain.Variable, selector string, src domain.Variable, pos ir.Site) constraint.Constraint {
	return &constraint.Store{U: base, Selector: selector, V: src, Pos: pos}
}

// copyElemsThrough wires pts(target.elem) ⊇ pts(src.elem) via a fresh
// temporary, mirroring the teacher's copyElems pattern for "*dst =
// *src" container assignment.
func copyElemsThrough(cc CallCtx, target, src domain.Variable, selector, tag string) []constraint.Constraint {
	tmp := tempVar(cc, tag)
	return []constraint.Constraint{
		loadConstraint(tmp, src, selector, cc.Site),
		storeConstraint(target, selector, tmp, cc.Site),
	}
}
