package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lkgv/pystan-pointer/analysis"
	pointerctlconfig "github.com/lkgv/pystan-pointer/internal/config"
	"github.com/lkgv/pystan-pointer/ir"
)

// app bundles the state every subcommand needs: the shared logger, the
// viper instance flags are bound into, and the module finder/root
// module path standing in for a real front end.
type app struct {
	log        *logrus.Logger
	v          *viper.Viper
	cfgFile    string
	modulePath string
	finder     ir.ModuleFinder
}

func newRootCommand(log *logrus.Logger) *cobra.Command {
	a := &app{log: log, v: viper.New(), finder: newDemoFinder()}

	root := &cobra.Command{
		Use:   "pointerctl",
		Short: "Run and query the pystan-pointer inclusion-based pointer analysis",
		Long: `pointerctl wires analysis.Config from flags/env/config file and runs
analysis.Analyze against a module resolved through an ir.ModuleFinder.
It is a thin exerciser, not a front end: it does not parse source or
discover files (see cmd/pointerctl's package doc).`,
	}

	pointerctlconfig.BindFlags(a.v, root.PersistentFlags())
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "path to a yaml config file")
	root.PersistentFlags().StringVar(&a.modulePath, "module", "demo", "root module path to resolve via the configured finder")

	root.AddCommand(newAnalyzeCommand(a))
	root.AddCommand(newQueryCommand(a))
	root.AddCommand(newSummaryCommand(a))
	return root
}

// buildConfig loads analysis.Config from a's viper instance and wires
// in the collaborators a config file can't carry (Finder, Logger).
func (a *app) buildConfig() (analysis.Config, error) {
	cfg, err := pointerctlconfig.Load(a.v, a.cfgFile)
	if err != nil {
		return analysis.Config{}, err
	}
	cfg.Finder = a.finder
	cfg.Logger = a.log
	if cfg.Verbose {
		a.log.SetLevel(logrus.DebugLevel)
	}
	return cfg, nil
}

// rootModule resolves and loads a.modulePath through a.finder.
func (a *app) rootModule() (*ir.ModuleIR, error) {
	path, ok := a.finder.Resolve(a.modulePath, "")
	if !ok {
		return nil, fmt.Errorf("pointerctl: module %q could not be resolved", a.modulePath)
	}
	mod, ok := a.finder.Load(path)
	if !ok {
		return nil, fmt.Errorf("pointerctl: module %q failed to load", path)
	}
	return mod, nil
}

func (a *app) runAnalysis() (*analysis.Result, error) {
	cfg, err := a.buildConfig()
	if err != nil {
		return nil, err
	}
	mod, err := a.rootModule()
	if err != nil {
		return nil, err
	}
	return analysis.Analyze(cfg, mod)
}
