package solver

import (
	"github.com/lkgv/pystan-pointer/constraint"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
	"github.com/lkgv/pystan-pointer/state"
)

// evalImport resolves one Import constraint: allocate the MODULE
// object (already sited by the translator), and, when a Finder is
// configured and the depth budget allows it, pull in the imported
// module's body so its top-level bindings become available as the
// module object's fields (§4.8 "depth-limited transitive import").
//
// Without a Finder (or past the depth budget), the MODULE object is
// still allocated -- callers see a module they can't look inside,
// which resolveAttr reports as a field-load-empty unknown on each
// load rather than failing the whole analysis.
func (s *Solver) evalImport(c *constraint.Import) {
	if s.kb.PTS(c.M).Add(c.Obj) {
		s.markVarDirty(c.M)
	}

	if s.finder == nil {
		return
	}
	if path, ok := s.finder.Resolve(c.ModuleName, c.ImporterPath); ok {
		if summary, ok := s.summaries[path]; ok {
			s.bindSummary(c, summary)
			return
		}
	}
	if s.maxDepth > 0 && c.Depth >= s.maxDepth {
		s.kb.Unknown.Report(state.CategoryMissingDependencies, c.Pos,
			"import of %q exceeds max_import_depth=%d", c.ModuleName, s.maxDepth)
		return
	}
	if s.importedMod[c.ModuleName] {
		s.bindExports(c)
		return
	}

	mod, ok := s.resolveModule(c)
	if !ok {
		s.kb.Unknown.Report(state.CategoryImportNotFound, c.Pos, "module %q not found", c.ModuleName)
		return
	}
	s.importedMod[c.ModuleName] = true
	cs := s.tr.TranslateModule(mod)
	s.AddConstraints(cs)
	s.bindExports(c)
}

// bindSummary binds a precomputed module Summary's exports directly
// onto the MODULE object's fields, without requiring the dependency's
// full source (§4.8 summary composition, as opposed to the in-process
// full-source path above).
func (s *Solver) bindSummary(c *constraint.Import, summary *state.Summary) {
	for _, exp := range summary.Exports {
		f := domain.NewField(c.Obj, exp.Name)
		fields := s.kb.FieldPTS(f)
		changed := false
		for _, o := range exp.Objects {
			if fields.Add(o) {
				changed = true
			}
		}
		if changed {
			s.markFieldDirty(f)
		}
	}
	for _, cr := range summary.Classes {
		s.hier.Register(cr.QualName, cr.Bases)
	}
}

func (s *Solver) resolveModule(c *constraint.Import) (*ir.ModuleIR, bool) {
	path, ok := s.finder.Resolve(c.ModuleName, c.ImporterPath)
	if !ok {
		return nil, false
	}
	return s.finder.Load(path)
}

// bindExports copies every top-level binding of the imported module
// (under its own scope, empty context) onto the MODULE object's
// fields, so `import_stmt_var.name` loads resolve without needing a
// separate module-summary layer when full source is available
// in-process.
func (s *Solver) bindExports(c *constraint.Import) {
	mod, ok := s.resolveModule(c)
	if !ok {
		return
	}
	for _, name := range mod.Exports {
		src := domain.NewVariable(mod.Path, name, domain.Empty)
		f := domain.NewField(c.Obj, name)
		if s.kb.FieldPTS(f).UnionInto(s.kb.PTS(src)) {
			s.markFieldDirty(f)
		}
		s.registerExportLink(src, f)
	}
}

// exportLink keeps a module object's field current as the exporting
// module's own top-level variable keeps growing after the first
// bindExports pass (e.g. a name only fully populated once a function
// called at module scope returns). Registered at most once per (src,
// field) pair; propagation happens directly in markVarDirty rather
// than through the constraint worklist, since there is no concrete
// constraint object it would otherwise be attached to.
type exportLink struct {
	src   domain.Variable
	field domain.Field
}

func (s *Solver) registerExportLink(src domain.Variable, f domain.Field) {
	for _, l := range s.exportLinksByVar[src] {
		if l.field == f {
			return
		}
	}
	if s.exportLinksByVar == nil {
		s.exportLinksByVar = make(map[domain.Variable][]exportLink)
	}
	s.exportLinksByVar[src] = append(s.exportLinksByVar[src], exportLink{src: src, field: f})
}
