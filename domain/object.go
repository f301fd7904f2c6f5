package domain

import "fmt"

// AbstractObject is the Cartesian pairing of an AllocSite with a
// Context. This pairing is what gives the analysis heap cloning: one
// syntactic allocation (AllocSite) yields multiple abstract objects
// when reached in multiple contexts.
type AbstractObject struct {
	Site AllocSite
	Ctx  Context
}

// NewAbstractObject pairs a site with a context.
func NewAbstractObject(site AllocSite, ctx Context) AbstractObject {
	return AbstractObject{Site: site, Ctx: ctx}
}

func (o AbstractObject) String() string {
	return fmt.Sprintf("%s in %s", o.Site, o.Ctx)
}

// Kind is a convenience accessor for o.Site.Kind.
func (o AbstractObject) Kind() Kind { return o.Site.Kind }

// Callable reports whether this object's kind can serve as a call
// target (§4.4: FUNCTION, CLASS, BOUND_METHOD, unbound METHOD).
func (o AbstractObject) Callable() bool { return o.Site.Kind.Callable() }
