// Package constraint defines the seven constraint forms of §4.1 and
// the pure, append-only set that accumulates them. Constraints are the
// wire format between the translator (package translate) and the
// solver (package solver); neither side depends on the other's
// internals, only on this package.
package constraint

import (
	"fmt"

	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
)

// Kind identifies one of the seven constraint forms.
type Kind uint8

const (
	KindAlloc Kind = iota
	KindCopy
	KindLoad
	KindStore
	KindCall
	KindReturn
	KindImport
)

func (k Kind) String() string {
	switch k {
	case KindAlloc:
		return "Alloc"
	case KindCopy:
		return "Copy"
	case KindLoad:
		return "Load"
	case KindStore:
		return "Store"
	case KindCall:
		return "Call"
	case KindReturn:
		return "Return"
	case KindImport:
		return "Import"
	default:
		return "?"
	}
}

// Constraint is the common interface implemented by every constraint
// form. Every constraint carries the context it was generated under
// (implicit in its Variable fields) and a Site for call-graph edges
// and debugging (§4.1).
type Constraint interface {
	Kind() Kind
	Site() ir.Site
	String() string
}

// Alloc: v <- new S. Adds (S, ctx) to pts(v, ctx).
type Alloc struct {
	V    domain.Variable
	Obj  domain.AbstractObject
	Pos  ir.Site
}

func (c *Alloc) Kind() Kind    { return KindAlloc }
func (c *Alloc) Site() ir.Site { return c.Pos }
func (c *Alloc) String() string {
	return fmt.Sprintf("%s <- new %s", c.V, c.Obj)
}

// Copy: v <- u. pts(v) ⊇ pts(u).
type Copy struct {
	V, U domain.Variable
	Pos  ir.Site
}

func (c *Copy) Kind() Kind    { return KindCopy }
func (c *Copy) Site() ir.Site { return c.Pos }
func (c *Copy) String() string {
	return fmt.Sprintf("%s <- %s", c.V, c.U)
}

// Load: v <- u.f. For each o in pts(u), pts(v) ⊇ pts(o.f).
type Load struct {
	V, U     domain.Variable
	Selector string
	Pos      ir.Site
}

func (c *Load) Kind() Kind    { return KindLoad }
func (c *Load) Site() ir.Site { return c.Pos }
func (c *Load) String() string {
	return fmt.Sprintf("%s <- %s.%s", c.V, c.U, c.Selector)
}

// Store: u.f <- v. For each o in pts(u), pts(o.f) ⊇ pts(v).
type Store struct {
	U        domain.Variable
	Selector string
	V        domain.Variable
	Pos      ir.Site
}

func (c *Store) Kind() Kind    { return KindStore }
func (c *Store) Site() ir.Site { return c.Pos }
func (c *Store) String() string {
	return fmt.Sprintf("%s.%s <- %s", c.U, c.Selector, c.V)
}

// CallSite names a single textual call expression; SeqNo disambiguates
// multiple calls occurring at the same (file,line,column), e.g. calls
// produced synthetically by the translator (with-statement, for-loop
// protocol) which share the position of their source statement.
type CallSite struct {
	Pos   ir.Site
	SeqNo int
}

// ID is the call-string element used by the k-cfa policy.
func (cs CallSite) ID() string {
	if cs.SeqNo == 0 {
		return cs.Pos.ID()
	}
	return fmt.Sprintf("%s#%d", cs.Pos.ID(), cs.SeqNo)
}

func (cs CallSite) String() string { return cs.ID() }

// Call: v <- u(a1..an) at site s. Dispatch; see §4.4.
type Call struct {
	V      domain.Variable // target, may be the zero Variable if the result is discarded
	HasV   bool
	Callee domain.Variable
	Args   []domain.Variable
	Recv   domain.Variable // receiver variable, for method-shaped calls; HasRecv gates it
	HasRecv bool
	CS     CallSite
	Pos    ir.Site
}

func (c *Call) Kind() Kind    { return KindCall }
func (c *Call) Site() ir.Site { return c.Pos }
func (c *Call) String() string {
	return fmt.Sprintf("%s <- %s(...) @ %s", c.V, c.Callee, c.CS)
}

// Return: v <- ret_i(callee_ctx). pts(v) ⊇ pts($return in callee_ctx).
type Return struct {
	V          domain.Variable
	CalleeScope string
	CalleeCtx  domain.Context
	Pos        ir.Site
}

func (c *Return) Kind() Kind    { return KindReturn }
func (c *Return) Site() ir.Site { return c.Pos }
func (c *Return) String() string {
	return fmt.Sprintf("%s <- ret(%s@%s)", c.V, c.CalleeScope, c.CalleeCtx)
}

// Import: m <- import N. Allocates a MODULE object; triggers analysis
// of N if within depth budget.
type Import struct {
	M            domain.Variable
	ModuleName   string
	ImporterPath string
	Depth        int
	Obj          domain.AbstractObject
	Pos          ir.Site
}

func (c *Import) Kind() Kind    { return KindImport }
func (c *Import) Site() ir.Site { return c.Pos }
func (c *Import) String() string {
	return fmt.Sprintf("%s <- import %s", c.M, c.ModuleName)
}
