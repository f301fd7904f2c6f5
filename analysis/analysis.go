package analysis

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lkgv/pystan-pointer/classhier"
	"github.com/lkgv/pystan-pointer/ctxsel"
	"github.com/lkgv/pystan-pointer/ir"
	"github.com/lkgv/pystan-pointer/modgraph"
	"github.com/lkgv/pystan-pointer/solver"
	"github.com/lkgv/pystan-pointer/state"
	"github.com/lkgv/pystan-pointer/translate"
)

// moduleEntry pairs one analysed module's path with the knowledge base
// that holds its result, letting Result answer queries without the
// caller having to know which mode produced them.
type moduleEntry struct {
	path string
	kb   *state.KnowledgeBase
	hier *classhier.Hierarchy
	mod  *ir.ModuleIR
}

// Analyze runs one whole-program analysis of mod (and, in modular
// mode, every module it transitively imports) under cfg, returning a
// Result exposing the query interface (§6). cfg is validated before
// any work begins; that validation is the only way single-module mode
// returns a non-nil error. Modular mode can additionally fail if the
// configured Finder cannot load a reachable import.
func Analyze(cfg Config, mod *ir.ModuleIR) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.logger()

	if cfg.EnableModularAnalysis {
		return analyzeModular(cfg, mod, log)
	}
	return analyzeSingle(cfg, mod, log)
}

func analyzeSingle(cfg Config, mod *ir.ModuleIR, log *logrus.Logger) (*Result, error) {
	log.WithField("module", mod.Path).Info("analyzing single module")

	sel, err := ctxsel.New(cfg.ContextPolicy, cfg.ContextK, cfg.ContextN)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	kb := state.New()
	kb.Unknown.SetVerbose(cfg.TrackUnknowns && (cfg.Verbose || cfg.LogUnknownDetails))
	tr := translate.New(kb, translate.Options{FieldSensitivity: cfg.fieldMode()})
	s := solver.New(kb, solver.Config{
		Selector: sel,
		Builtins: cfg.Builtins,
		Finder:   cfg.Finder,
		MaxDepth: cfg.MaxImportDepth,
	}, tr)

	for _, cls := range mod.Classes {
		kb.RegisterClass(cls)
	}
	for _, fn := range mod.Functions {
		kb.RegisterFunction(fn)
	}
	if cfg.BuildClassHierarchy {
		bootstrapClasses(s.Hierarchy(), cfg)
	}

	s.AddConstraints(tr.TranslateModule(mod))
	s.Run()

	logStats(log, mod.Path, cfg, kb)

	entry := moduleEntry{path: mod.Path, kb: kb, hier: s.Hierarchy(), mod: mod}
	return &Result{modules: []moduleEntry{entry}}, nil
}

func analyzeModular(cfg Config, mod *ir.ModuleIR, log *logrus.Logger) (*Result, error) {
	log.WithField("root", mod.Path).Info("analyzing module graph")

	sel, err := ctxsel.New(cfg.ContextPolicy, cfg.ContextK, cfg.ContextN)
	if err != nil {
		return nil, fmt.Errorf("analysis: %w", err)
	}

	c := modgraph.New(cfg.Finder, sel, cfg.Builtins)
	c.MaxDepth = cfg.MaxImportDepth
	c.Options = translate.Options{FieldSensitivity: cfg.fieldMode()}

	results, err := c.AnalyzeProgram(mod.Path)
	if err != nil {
		return nil, fmt.Errorf("analysis: composing module graph rooted at %q: %w", mod.Path, err)
	}

	entries := make([]moduleEntry, 0, len(results))
	for path, r := range results {
		log.WithField("module", path).Debug("module analyzed")
		logStats(log, path, cfg, r.KB)
		entries = append(entries, moduleEntry{path: path, kb: r.KB})
	}

	return &Result{modules: entries, composerResults: results}, nil
}

func logStats(log *logrus.Logger, path string, cfg Config, kb *state.KnowledgeBase) {
	if cfg.Verbose {
		stats := kb.Stats()
		log.WithField("module", path).
			WithField("variables", stats.VariableCount).
			WithField("objects", stats.ObjectCount).
			WithField("contexts", stats.ContextCount).
			Debug("fixpoint reached")
	}
	if cfg.LogUnknownDetails {
		for _, r := range kb.Unknown.Records() {
			log.WithField("module", path).WithField("category", r.Category).WithField("site", r.Site).Warn(r.Message)
		}
	}
}

// bootstrapClasses seeds base-class tuples for every externally
// defined class named in cfg.BootstrapClasses via cfg.Bootstrap,
// before any module is translated (§6 class-hierarchy bootstrap).
// ClassBootstrap itself only answers per-class queries, so this is
// the enumeration the embedding program supplies to drive it.
func bootstrapClasses(hier *classhier.Hierarchy, cfg Config) {
	if cfg.Bootstrap == nil {
		return
	}
	for _, id := range cfg.BootstrapClasses {
		hier.Bootstrap(cfg.Bootstrap, id)
	}
}
