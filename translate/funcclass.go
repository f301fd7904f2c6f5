package translate

import (
	"fmt"

	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
)

// defFunc translates a function/lambda/method definition statement:
// allocate a FUNCTION object at the definition site, bind the
// defining name to it, register the IR for later dispatch, and mint
// one closure cell per captured free variable so the body can reach
// its enclosing scope's locals without treating them as globals.
//
// Each cell is a CELL object allocated under the defining context (so
// two calls that define the same nested function in different outer
// contexts get distinct cells, preserving heap separation) and stored
// onto the FUNCTION object under CellSelector(name). The captured
// value itself is copied into the cell's "value" field from the
// enclosing scope's variable of the same name.
func (tr *Translator) defFunc(scope string, ctx domain.Context, s *ir.Stmt) []constraint.Constraint {
	fn := s.Func
	tr.kb.RegisterFunction(fn)

	site := domain.NewAllocSite(s.Site.File, s.Site.Line, s.Site.Column, domain.KindFunction, fn.QualName)
	obj := domain.NewAbstractObject(site, ctx)
	dst := tr.var_(scope, s.Dst, ctx)
	out := []constraint.Constraint{&constraint.Alloc{V: dst, Obj: obj, Pos: s.Site}}

	for _, free := range s.FreeVars {
		cellSite := domain.NewAllocSite(s.Site.File, s.Site.Line, s.Site.Column, domain.KindCell, free)
		cellObj := domain.NewAbstractObject(cellSite, ctx)
		cellVar := tr.var_(scope, "$cell:"+free+":"+s.Site.ID(), ctx)
		out = append(out,
			&constraint.Alloc{V: cellVar, Obj: cellObj, Pos: s.Site},
			&constraint.Store{U: dst, Selector: domain.CellSelector(free), V: cellVar, Pos: s.Site},
			&constraint.Store{U: cellVar, Selector: domain.SelValue, V: tr.var_(scope, free, ctx), Pos: s.Site},
		)
	}

	return tr.applyDecorators(scope, ctx, s, dst)
}

// applyDecorators rewrites `dst`, in source order from innermost
// (closest to the def) to outermost, through each decorator callee:
// dst = deco_n(...deco_1(dst)). Each application is a synthetic Call
// whose single argument is the previous stage's result.
func (tr *Translator) applyDecorators(scope string, ctx domain.Context, s *ir.Stmt, dst domain.Variable) []constraint.Constraint {
	if len(s.Decorator) == 0 {
		return nil
	}
	var out []constraint.Constraint
	cur := dst
	for i, decoName := range s.Decorator {
		next := tr.var_(scope, fmt.Sprintf("$deco:%d:%s", i, dst.Name), ctx)
		out = append(out, &constraint.Call{
			V: next, HasV: true,
			Callee: tr.var_(scope, decoName, ctx),
			Args:   []domain.Variable{cur},
			CS:     constraint.CallSite{Pos: s.Site, SeqNo: 10 + i},
			Pos:    s.Site,
		})
		cur = next
	}
	// The final decorated value replaces the plain definition as the
	// name visible to the rest of the scope.
	out = append(out, &constraint.Copy{V: dst, U: cur, Pos: s.Site})
	return out
}

// defClass translates a class definition: allocate a CLASS object,
// register its IR (bases + body) with the knowledge base for MRO
// linearization, and translate the class body under the class's own
// synthetic scope so that attribute definitions (methods, class
// variables) land as Store constraints onto the CLASS object rather
// than as ordinary scope-local variables.
func (tr *Translator) defClass(scope string, ctx domain.Context, s *ir.Stmt) []constraint.Constraint {
	cls := s.Class
	tr.kb.RegisterClass(cls)

	site := domain.NewAllocSite(s.Site.File, s.Site.Line, s.Site.Column, domain.KindClass, cls.QualName)
	obj := domain.NewAbstractObject(site, ctx)
	dst := tr.var_(scope, s.Dst, ctx)
	out := []constraint.Constraint{&constraint.Alloc{V: dst, Obj: obj, Pos: s.Site}}

	classScope := cls.QualName
	for _, bodyStmt := range cls.Body {
		out = append(out, tr.translateStmt(classScope, ctx, bodyStmt)...)
		if bodyStmt.Dst == "" {
			continue
		}
		switch bodyStmt.Kind {
		case ir.StmtDefFunc, ir.StmtDefClass, ir.StmtCopy, ir.StmtLiteral, ir.StmtContainerLiteral, ir.StmtCall:
			out = append(out, &constraint.Store{
				U:        dst,
				Selector: bodyStmt.Dst,
				V:        tr.var_(classScope, bodyStmt.Dst, ctx),
				Pos:      bodyStmt.Site,
			})
		}
	}
	return out
}
