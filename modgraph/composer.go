package modgraph

import (
	"fmt"

	"github.com/lkgv/pystan-pointer/builtin"
	"github.com/lkgv/pystan-pointer/ctxsel"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
	"github.com/lkgv/pystan-pointer/solver"
	"github.com/lkgv/pystan-pointer/state"
	"github.com/lkgv/pystan-pointer/translate"
)

// maxCycleIterations bounds the fixpoint loop over a strongly connected
// import cycle. Each iteration feeds every member the rest of the
// cycle's previous-round summaries; in practice two or three rounds are
// enough for a mutually recursive pair of modules to stabilise, but a
// pathological cycle could in principle keep discovering new exported
// objects indefinitely, so this is a pragmatic cutoff rather than a
// soundness guarantee.
const maxCycleIterations = 10

// ModuleResult is one module's analysis output, kept alongside its
// Summary so a caller wanting full points-to detail (not just the
// exported surface) can still query it.
type ModuleResult struct {
	Path    string
	KB      *state.KnowledgeBase
	Summary *state.Summary
}

// Composer analyses a program's modules in dependency order, composing
// each importer's analysis from its dependencies' Summaries rather than
// re-translating their full source (§4.8). It complements the solver's
// own Finder-based path, which instead resolves imports in-process by
// pulling in full source every time.
type Composer struct {
	Finder   ir.ModuleFinder
	Selector ctxsel.Selector
	Builtins *builtin.Table
	MaxDepth int
	Options  translate.Options

	results map[string]*ModuleResult
}

// New constructs a Composer. sel must not be nil; bt may be nil to use
// builtin.NewDefaultTable().
func New(finder ir.ModuleFinder, sel ctxsel.Selector, bt *builtin.Table) *Composer {
	return &Composer{
		Finder:   finder,
		Selector: sel,
		Builtins: bt,
		results:  make(map[string]*ModuleResult),
	}
}

// Result returns the cached analysis of an already-analysed module.
func (c *Composer) Result(path string) (*ModuleResult, bool) {
	r, ok := c.results[path]
	return r, ok
}

// AnalyzeProgram analyses rootPath and every module it transitively
// imports, dependencies before their importers, and returns every
// module's result keyed by path.
func (c *Composer) AnalyzeProgram(rootPath string) (map[string]*ModuleResult, error) {
	components := Components(c.Finder, rootPath)
	// Components returns dependencies first (Tarjan emits a component
	// only once everything it imports has been emitted), so walking it
	// in order analyses dependencies before their importers.
	for _, comp := range components {
		if IsCyclic(comp, c.Finder) {
			if err := c.analyzeCycle(comp); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := c.analyzeModule(comp[0]); err != nil {
			return nil, err
		}
	}
	return c.results, nil
}

// analyzeModule analyses a single acyclic module, assuming every module
// it imports already has a cached Summary.
func (c *Composer) analyzeModule(path string) (*ModuleResult, error) {
	if r, ok := c.results[path]; ok {
		return r, nil
	}
	mod, ok := c.Finder.Load(path)
	if !ok {
		return nil, fmt.Errorf("modgraph: module %q failed to load", path)
	}
	r := c.run(mod, c.summariesOf(mod))
	c.results[path] = r
	return r, nil
}

// analyzeCycle iterates every member of a strongly connected import
// cycle, each round feeding every member the rest of the cycle's
// previous-round summaries, until the summary set stabilises or
// maxCycleIterations is reached (§4.8 "iterate cycle members until
// summaries stabilize").
func (c *Composer) analyzeCycle(comp []string) error {
	mods := make(map[string]*ir.ModuleIR, len(comp))
	for _, path := range comp {
		mod, ok := c.Finder.Load(path)
		if !ok {
			return fmt.Errorf("modgraph: module %q failed to load", path)
		}
		mods[path] = mod
	}

	prev := make(map[string]*state.Summary)
	var results map[string]*ModuleResult

	for round := 0; round < maxCycleIterations; round++ {
		results = make(map[string]*ModuleResult, len(comp))
		for _, path := range comp {
			seeds := c.summariesOf(mods[path])
			for dep, sum := range prev {
				if dep != path {
					seeds[dep] = sum
				}
			}
			results[path] = c.run(mods[path], seeds)
		}

		stable := true
		for path, r := range results {
			if old, ok := prev[path]; !ok || !old.Equal(r.Summary) {
				stable = false
			}
			prev[path] = r.Summary
		}
		if stable {
			break
		}
	}

	for path, r := range results {
		c.results[path] = r
	}
	return nil
}

// summariesOf collects the already-analysed Summaries for every module
// mod imports, by resolved path.
func (c *Composer) summariesOf(mod *ir.ModuleIR) map[string]*state.Summary {
	out := make(map[string]*state.Summary)
	for _, dep := range discover(mod, c.Finder) {
		if r, ok := c.results[dep]; ok {
			out[dep] = r.Summary
		}
	}
	return out
}

// run performs one module's translation and solve against the given
// precomputed dependency summaries, then extracts its own Summary.
func (c *Composer) run(mod *ir.ModuleIR, summaries map[string]*state.Summary) *ModuleResult {
	kb := state.New()
	tr := translate.New(kb, c.Options)
	s := solver.New(kb, solver.Config{
		Selector:  c.Selector,
		Builtins:  c.Builtins,
		Finder:    c.Finder,
		MaxDepth:  c.MaxDepth,
		Summaries: summaries,
	}, tr)

	for _, cls := range mod.Classes {
		kb.RegisterClass(cls)
	}
	for _, fn := range mod.Functions {
		kb.RegisterFunction(fn)
	}

	s.AddConstraints(tr.TranslateModule(mod))
	s.Run()

	return &ModuleResult{Path: mod.Path, KB: kb, Summary: c.summarize(mod, kb, s)}
}

// summarize builds the exportable Summary of an analysed module: the
// points-to set of every name on its public surface, plus the class
// registrations it introduced (§4.8, §6).
func (c *Composer) summarize(mod *ir.ModuleIR, kb *state.KnowledgeBase, s *solver.Solver) *state.Summary {
	sum := &state.Summary{Path: mod.Path}

	for _, name := range mod.Exports {
		v := domain.NewVariable(mod.Path, name, domain.Empty)
		var objs []domain.AbstractObject
		kb.PTS(v).Each(func(o domain.AbstractObject) { objs = append(objs, o) })
		sum.Exports = append(sum.Exports, state.ExportedSymbol{Name: name, Objects: objs})
	}

	for _, cls := range mod.Classes {
		sum.Classes = append(sum.Classes, state.ClassRegistration{QualName: cls.QualName, Bases: cls.Bases})
	}

	return sum
}
