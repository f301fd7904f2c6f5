package modgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkgv/pystan-pointer/ctxsel"
	"github.com/lkgv/pystan-pointer/ir"
)

// memFinder is an in-memory ir.ModuleFinder over a fixed module table,
// for exercising Composer without a real front end.
type memFinder struct {
	mods map[string]*ir.ModuleIR
}

func (f *memFinder) Resolve(name, importerPath string) (string, bool) {
	_, ok := f.mods[name]
	return name, ok
}

func (f *memFinder) Load(path string) (*ir.ModuleIR, bool) {
	m, ok := f.mods[path]
	return m, ok
}

func TestComponentsOrdersAcyclicDependenciesFirst(t *testing.T) {
	finder := &memFinder{mods: map[string]*ir.ModuleIR{
		"leaf": {Name: "leaf", Path: "leaf"},
		"root": {Name: "root", Path: "root", Body: []*ir.Stmt{
			{Kind: ir.StmtImport, Module: "leaf", Site: ir.Site{File: "root.py", Line: 1, Column: 1}},
		}},
	}}

	comps := Components(finder, "root")
	require.Len(t, comps, 2)
	// Tarjan emits a component once its DFS root finishes, so the
	// dependency comes out before its importer.
	assert.Equal(t, "leaf", comps[0][0])
	assert.Equal(t, "root", comps[1][0])
	for _, comp := range comps {
		assert.False(t, IsCyclic(comp, finder), "component %v should not be cyclic", comp)
	}
}

func TestIsCyclicDetectsMutualImport(t *testing.T) {
	finder := &memFinder{mods: map[string]*ir.ModuleIR{
		"a": {Name: "a", Path: "a", Body: []*ir.Stmt{
			{Kind: ir.StmtImport, Module: "b", Site: ir.Site{File: "a.py", Line: 1, Column: 1}},
		}},
		"b": {Name: "b", Path: "b", Body: []*ir.Stmt{
			{Kind: ir.StmtImport, Module: "a", Site: ir.Site{File: "b.py", Line: 1, Column: 1}},
		}},
	}}

	comps := Components(finder, "a")
	require.Len(t, comps, 1, "want a single merged component for the cycle")
	assert.True(t, IsCyclic(comps[0], finder), "want the a/b component to be reported cyclic")
}

func TestAnalyzeProgramComposesAcyclicImport(t *testing.T) {
	leaf := &ir.ModuleIR{Name: "leaf", Path: "leaf", Exports: []string{"x"}, Body: []*ir.Stmt{
		{Kind: ir.StmtLiteral, Dst: "x", Site: ir.Site{File: "leaf.py", Line: 1, Column: 1}},
	}}
	root := &ir.ModuleIR{Name: "root", Path: "root", Body: []*ir.Stmt{
		{Kind: ir.StmtImportFrom, Module: "leaf", FromName: "x", AsName: "x", Site: ir.Site{File: "root.py", Line: 1, Column: 1}},
	}}
	finder := &memFinder{mods: map[string]*ir.ModuleIR{"leaf": leaf, "root": root}}

	sel, err := ctxsel.New(ctxsel.ZeroCFA, 0, 0)
	require.NoError(t, err)
	c := New(finder, sel, nil)

	results, err := c.AnalyzeProgram("root")
	require.NoError(t, err)
	assert.Len(t, results, 2, "want 2 module results")

	leafResult, ok := c.Result("leaf")
	require.True(t, ok, "want a cached leaf result")
	exp, ok := leafResult.Summary.Export("x")
	require.True(t, ok, "want leaf's summary to export x")
	assert.Len(t, exp.Objects, 1, "want leaf's summary to export one object for x")
}
