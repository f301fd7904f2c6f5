package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkgv/pystan-pointer/ctxsel"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
	"github.com/lkgv/pystan-pointer/state"
	"github.com/lkgv/pystan-pointer/translate"
)

func newTestSolver(t *testing.T) (*Solver, *state.KnowledgeBase, *translate.Translator) {
	t.Helper()
	kb := state.New()
	tr := translate.New(kb, translate.Options{})
	sel, err := ctxsel.New(ctxsel.ZeroCFA, 0, 0)
	require.NoError(t, err)
	s := New(kb, Config{Selector: sel}, tr)
	return s, kb, tr
}

func TestAllocThenCopyPropagates(t *testing.T) {
	s, kb, _ := newTestSolver(t)

	mod := &ir.ModuleIR{Name: "m", Path: "m", Body: []*ir.Stmt{
		{Kind: ir.StmtLiteral, Dst: "x", Site: ir.Site{File: "m.py", Line: 1, Column: 1}},
		{Kind: ir.StmtCopy, Dst: "y", Src: "x", Site: ir.Site{File: "m.py", Line: 2, Column: 1}},
	}}

	cs := translate.New(kb, translate.Options{}).TranslateModule(mod)
	s.AddConstraints(cs)
	s.Run()

	y := domain.NewVariable("m", "y", domain.Empty)
	assert.Equal(t, 1, kb.PTS(y).Len(), "want pts(y) to contain the one allocated object")
}

func TestFunctionCallBindsParamAndReturn(t *testing.T) {
	s, kb, tr := newTestSolver(t)

	fn := &ir.FunctionIR{
		QualName: "m.f",
		Params:   []string{"p"},
		Blocks: []*ir.BasicBlock{{Instr: []*ir.Stmt{
			{Kind: ir.StmtReturn, Src: "p", Site: ir.Site{File: "m.py", Line: 10, Column: 1}},
		}}},
		Site: ir.Site{File: "m.py", Line: 9, Column: 1},
	}

	mod := &ir.ModuleIR{Name: "m", Path: "m", Body: []*ir.Stmt{
		{Kind: ir.StmtDefFunc, Dst: "f", Func: fn, Site: ir.Site{File: "m.py", Line: 9, Column: 1}},
		{Kind: ir.StmtLiteral, Dst: "arg", Site: ir.Site{File: "m.py", Line: 1, Column: 1}},
		{Kind: ir.StmtCall, Dst: "result", Src: "f", Args: []string{"arg"}, Site: ir.Site{File: "m.py", Line: 2, Column: 1}},
	}}

	cs := tr.TranslateModule(mod)
	s.AddConstraints(cs)
	s.Run()

	result := domain.NewVariable("m", "result", domain.Empty)
	assert.Equal(t, 1, kb.PTS(result).Len(), "want call result to carry the argument's one object through")
	assert.Equal(t, 1, kb.Graph.Len(), "want 1 call-graph edge")
}

func TestConstructorAllocatesInstanceAndBindsClass(t *testing.T) {
	s, kb, tr := newTestSolver(t)

	cls := &ir.ClassIR{QualName: "m.C", Site: ir.Site{File: "m.py", Line: 1, Column: 1}}

	mod := &ir.ModuleIR{Name: "m", Path: "m", Body: []*ir.Stmt{
		{Kind: ir.StmtDefClass, Dst: "C", Class: cls, Site: ir.Site{File: "m.py", Line: 1, Column: 1}},
		{Kind: ir.StmtCall, Dst: "obj", Src: "C", Site: ir.Site{File: "m.py", Line: 5, Column: 1}},
	}}

	cs := tr.TranslateModule(mod)
	s.AddConstraints(cs)
	s.Run()

	obj := domain.NewVariable("m", "obj", domain.Empty)
	pts := kb.PTS(obj)
	require.Equal(t, 1, pts.Len(), "want 1 instance allocated")
	var inst domain.AbstractObject
	pts.Each(func(o domain.AbstractObject) { inst = o })
	assert.Equal(t, domain.KindObject, inst.Kind())
	assert.Equal(t, 1, kb.FieldPTS(domain.NewField(inst, "__class__")).Len(), "want the instance's __class__ bound to the class object")
}

func TestCalleeEmptyReportsUnknown(t *testing.T) {
	s, kb, tr := newTestSolver(t)
	mod := &ir.ModuleIR{Name: "m", Path: "m", Body: []*ir.Stmt{
		{Kind: ir.StmtCall, Dst: "r", Src: "undefined", Site: ir.Site{File: "m.py", Line: 1, Column: 1}},
	}}
	cs := tr.TranslateModule(mod)
	s.AddConstraints(cs)
	s.Run()
	assert.NotZero(t, kb.Unknown.Total(), "want at least one unknown-resolution record for an empty callee")
}
