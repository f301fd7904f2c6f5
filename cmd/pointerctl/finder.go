package main

import "github.com/lkgv/pystan-pointer/ir"

// demoFinder is a tiny in-memory ir.ModuleFinder standing in for a
// real parsing front end, which is explicitly out of scope (spec.md
// §1 Non-goals). It resolves a single self-contained module so
// `pointerctl analyze`/`query`/`summary` have something to run against
// out of the box; swap this for a real front-end-backed ir.ModuleFinder
// to point pointerctl at actual sources.
type demoFinder struct {
	mods map[string]*ir.ModuleIR
}

func newDemoFinder() *demoFinder {
	exampleFn := &ir.FunctionIR{
		QualName: "demo.greet",
		Params:   []string{"name"},
		Blocks: []*ir.BasicBlock{{Instr: []*ir.Stmt{
			{Kind: ir.StmtReturn, Src: "name", Site: ir.Site{File: "demo.py", Line: 3, Column: 5}},
		}}},
		Site: ir.Site{File: "demo.py", Line: 2, Column: 1},
	}

	mod := &ir.ModuleIR{
		Name:    "demo",
		Path:    "demo",
		Exports: []string{"greeting"},
		Body: []*ir.Stmt{
			{Kind: ir.StmtDefFunc, Dst: "greet", Func: exampleFn, Site: ir.Site{File: "demo.py", Line: 2, Column: 1}},
			{Kind: ir.StmtLiteral, Dst: "subject", Site: ir.Site{File: "demo.py", Line: 5, Column: 1}},
			{Kind: ir.StmtCall, Dst: "greeting", Src: "greet", Args: []string{"subject"}, Site: ir.Site{File: "demo.py", Line: 6, Column: 1}},
		},
	}

	return &demoFinder{mods: map[string]*ir.ModuleIR{"demo": mod}}
}

func (f *demoFinder) Resolve(name, importerPath string) (string, bool) {
	_, ok := f.mods[name]
	return name, ok
}

func (f *demoFinder) Load(path string) (*ir.ModuleIR, bool) {
	m, ok := f.mods[path]
	return m, ok
}
