// Package modgraph composes per-module analyses through exported
// summaries instead of re-translating a dependency's full source every
// time it is imported (§4.8). It discovers the import graph, orders
// modules so dependencies are summarised before their importers, and
// iterates import cycles to a bounded fixpoint.
package modgraph

import (
	"github.com/lkgv/pystan-pointer/ir"
)

// edge is a directed import: from imports to.
type edge struct{ from, to string }

// discover walks mod's body collecting the set of modules it imports,
// resolved relative to its own path via finder.Resolve. Unresolvable
// imports are silently skipped here; the solver's own Import handling
// reports them as import-not-found unknowns during the real analysis
// pass (§7 category 7).
func discover(mod *ir.ModuleIR, finder ir.ModuleFinder) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range mod.Body {
		var name string
		switch s.Kind {
		case ir.StmtImport, ir.StmtImportFrom:
			name = s.Module
		default:
			continue
		}
		path, ok := finder.Resolve(name, mod.Path)
		if !ok || seen[path] {
			continue
		}
		seen[path] = true
		out = append(out, path)
	}
	return out
}

// tarjan computes the strongly connected components of the import
// graph reachable from roots, in reverse-topological order (each
// component's dependencies appear in components returned earlier).
// Singleton components with no self-loop are ordinary acyclic modules;
// a component with more than one member, or a single self-importing
// member, is an import cycle requiring iterative analysis (§4.8).
type tarjan struct {
	finder     ir.ModuleFinder
	cache      map[string]*ir.ModuleIR
	index      map[string]int
	lowlink    map[string]int
	onStack    map[string]bool
	stack      []string
	nextIndex  int
	components [][]string
}

func newTarjan(finder ir.ModuleFinder) *tarjan {
	return &tarjan{
		finder:  finder,
		cache:   make(map[string]*ir.ModuleIR),
		index:   make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}
}

func (t *tarjan) module(path string) (*ir.ModuleIR, bool) {
	if m, ok := t.cache[path]; ok {
		return m, true
	}
	m, ok := t.finder.Load(path)
	if !ok {
		return nil, false
	}
	t.cache[path] = m
	return m, true
}

// Components returns the strongly connected components of the import
// graph rooted at rootPath, dependencies first.
func Components(finder ir.ModuleFinder, rootPath string) [][]string {
	t := newTarjan(finder)
	t.strongConnect(rootPath)
	return t.components
}

func (t *tarjan) strongConnect(v string) {
	if _, ok := t.index[v]; ok {
		return
	}
	t.index[v] = t.nextIndex
	t.lowlink[v] = t.nextIndex
	t.nextIndex++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	mod, ok := t.module(v)
	if ok {
		for _, w := range discover(mod, t.finder) {
			if _, visited := t.index[w]; !visited {
				t.strongConnect(w)
				if t.lowlink[w] < t.lowlink[v] {
					t.lowlink[v] = t.lowlink[w]
				}
			} else if t.onStack[w] {
				if t.index[w] < t.lowlink[v] {
					t.lowlink[v] = t.index[w]
				}
			}
		}
	}

	if t.lowlink[v] != t.index[v] {
		return
	}
	var comp []string
	for {
		n := len(t.stack) - 1
		w := t.stack[n]
		t.stack = t.stack[:n]
		t.onStack[w] = false
		comp = append(comp, w)
		if w == v {
			break
		}
	}
	t.components = append(t.components, comp)
}

// IsCyclic reports whether a component represents an import cycle: it
// has more than one member, or its single member imports itself.
func IsCyclic(comp []string, finder ir.ModuleFinder) bool {
	if len(comp) > 1 {
		return true
	}
	only := comp[0]
	mod, ok := finder.Load(only)
	if !ok {
		return false
	}
	for _, dep := range discover(mod, finder) {
		if dep == only {
			return true
		}
	}
	return false
}
