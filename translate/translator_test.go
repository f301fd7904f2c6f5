package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
	"github.com/lkgv/pystan-pointer/state"
)

func countKind(cs []constraint.Constraint, k constraint.Kind) int {
	n := 0
	for _, c := range cs {
		if c.Kind() == k {
			n++
		}
	}
	return n
}

func TestTranslateModuleIsIdempotent(t *testing.T) {
	kb := state.New()
	tr := New(kb, Options{})

	mod := &ir.ModuleIR{
		Name: "m", Path: "m",
		Body: []*ir.Stmt{
			{Kind: ir.StmtLiteral, Dst: "x", Site: ir.Site{File: "m.py", Line: 1, Column: 1}},
		},
	}

	first := tr.TranslateModule(mod)
	require.Len(t, first, 1)
	second := tr.TranslateModule(mod)
	assert.Nil(t, second, "re-translating the same module must be a no-op")
}

func TestContainerLiteralEmitsAllocAndStores(t *testing.T) {
	kb := state.New()
	tr := New(kb, Options{})
	s := &ir.Stmt{
		Kind:      ir.StmtContainerLiteral,
		Dst:       "xs",
		Container: ir.ContainerList,
		Elements:  []string{"a", "b"},
		Site:      ir.Site{File: "m.py", Line: 2, Column: 1},
	}
	out := tr.translateStmt("m", domain.Empty, s)
	assert.Equal(t, 1, countKind(out, constraint.KindAlloc))
	assert.Equal(t, 2, countKind(out, constraint.KindStore), "one Store per element")
}

func TestDefFuncRegistersAndAllocates(t *testing.T) {
	kb := state.New()
	tr := New(kb, Options{})
	fn := &ir.FunctionIR{QualName: "m.f", Params: []string{"x"}}
	s := &ir.Stmt{
		Kind: ir.StmtDefFunc,
		Dst:  "f",
		Func: fn,
		Site: ir.Site{File: "m.py", Line: 3, Column: 1},
	}
	out := tr.translateStmt("m", domain.Empty, s)
	assert.Equal(t, 1, countKind(out, constraint.KindAlloc), "want 1 Alloc for the function object")
	_, ok := kb.Function("m.f")
	assert.True(t, ok, "DefFunc must register the function with the knowledge base")
}

func TestDefFuncWithFreeVarsMintsCells(t *testing.T) {
	kb := state.New()
	tr := New(kb, Options{})
	fn := &ir.FunctionIR{QualName: "m.inner", FreeVars: []string{"acc"}}
	s := &ir.Stmt{
		Kind:     ir.StmtDefFunc,
		Dst:      "inner",
		Func:     fn,
		FreeVars: []string{"acc"},
		Site:     ir.Site{File: "m.py", Line: 5, Column: 1},
	}
	out := tr.translateStmt("m", domain.Empty, s)
	// one Alloc for the FUNCTION, one for the cell, two Stores
	// (function.cell:acc <- cell, cell.value <- acc)
	assert.Equal(t, 2, countKind(out, constraint.KindAlloc), "want 2 Alloc (function + cell)")
	assert.Equal(t, 2, countKind(out, constraint.KindStore))
}

func TestDefClassRegistersAndStoresMethods(t *testing.T) {
	kb := state.New()
	tr := New(kb, Options{})
	methodFn := &ir.FunctionIR{QualName: "m.C.method", IsMethod: true}
	cls := &ir.ClassIR{
		QualName: "m.C",
		Bases:    []string{"object"},
		Body: []*ir.Stmt{
			{Kind: ir.StmtDefFunc, Dst: "method", Func: methodFn, Site: ir.Site{File: "m.py", Line: 4, Column: 3}},
		},
	}
	s := &ir.Stmt{Kind: ir.StmtDefClass, Dst: "C", Class: cls, Site: ir.Site{File: "m.py", Line: 3, Column: 1}}
	out := tr.translateStmt("m", domain.Empty, s)
	_, ok := kb.Class("m.C")
	assert.True(t, ok, "DefClass must register the class with the knowledge base")
	assert.NotZero(t, countKind(out, constraint.KindStore), "want at least one Store binding the method onto the class object")
}

func TestWithStatementSyntheticCalls(t *testing.T) {
	kb := state.New()
	tr := New(kb, Options{})
	enter := &ir.Stmt{Kind: ir.StmtWithEnter, Src: "m", Targets: []string{"f"}, Site: ir.Site{File: "m.py", Line: 1, Column: 1}}
	out := tr.translateStmt("mod", domain.Empty, enter)
	assert.Equal(t, 2, countKind(out, constraint.KindCall), "with-enter should synthesize two calls (__enter__ then the bound temp)")
	assert.Equal(t, 1, countKind(out, constraint.KindLoad), "want 1 Load fetching __enter__")
}

func TestForLoopProtocolCalls(t *testing.T) {
	kb := state.New()
	tr := New(kb, Options{})
	iterS := &ir.Stmt{Kind: ir.StmtForIter, Src: "xs", Dst: "it", Site: ir.Site{File: "m.py", Line: 1, Column: 1}}
	nextS := &ir.Stmt{Kind: ir.StmtForNext, Src: "it", Dst: "item", Site: ir.Site{File: "m.py", Line: 2, Column: 1}}
	out := tr.translateStmt("mod", domain.Empty, iterS)
	out = append(out, tr.translateStmt("mod", domain.Empty, nextS)...)
	assert.Equal(t, 2, countKind(out, constraint.KindCall), "want __iter__ and __next__ calls")
}

func TestImportFromBindsLocalName(t *testing.T) {
	kb := state.New()
	tr := New(kb, Options{})
	s := &ir.Stmt{Kind: ir.StmtImportFrom, Module: "os", FromName: "path", AsName: "p", Site: ir.Site{File: "m.py", Line: 1, Column: 1}}
	out := tr.translateStmt("mod", domain.Empty, s)
	assert.Equal(t, 1, countKind(out, constraint.KindImport))
	assert.Equal(t, 1, countKind(out, constraint.KindLoad), "want 1 Load binding the imported symbol")
}
