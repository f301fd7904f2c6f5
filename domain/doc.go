// Package domain defines the immutable value types shared by every layer
// of the pointer analysis engine: allocation sites, contexts, abstract
// heap objects, variables, fields and points-to sets.
//
// All types here are plain comparable structs so they can be used
// directly as map keys; the context-cloning ("heap cloning") scheme
// described by the specification falls out of the Cartesian pairing of
// an AllocSite with a Context to form an AbstractObject.
package domain
