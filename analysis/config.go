// Package analysis orchestrates one whole-program run: it validates a
// Config, dispatches to the single-module solver or the modular
// composer, and hands back a Result exposing the query surface (§6).
// The core packages (translate, solver, modgraph) stay unaware of
// this package; analysis is purely a wiring layer on top of them.
package analysis

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/lkgv/pystan-pointer/builtin"
	"github.com/lkgv/pystan-pointer/ctxsel"
	"github.com/lkgv/pystan-pointer/ir"
	"github.com/lkgv/pystan-pointer/translate"
)

// Config is the full construction-time configuration surface of one
// analysis run (§6).
type Config struct {
	// ContextPolicy selects the context-sensitivity strategy; see
	// ctxsel.PolicyID for the recognised values.
	ContextPolicy ctxsel.PolicyID `mapstructure:"context_policy" yaml:"context_policy"`
	// ContextK is the call-string/object/type/receiver depth bound,
	// or the call-string bound K under ctxsel.Hybrid.
	ContextK int `mapstructure:"context_k" yaml:"context_k"`
	// ContextN is the object-sequence bound N under ctxsel.Hybrid;
	// ignored by every other policy.
	ContextN int `mapstructure:"context_n" yaml:"context_n"`

	// FieldSensitivity selects how subscript/dict stores are
	// field-sensitized; "attr-name" or "collapsed".
	FieldSensitivity string `mapstructure:"field_sensitivity_mode" yaml:"field_sensitivity_mode"`

	// BuildClassHierarchy gates seeding the class hierarchy from
	// Bootstrap/BootstrapClasses, in single-module mode only. The
	// solver registers every analysed class and resolves attributes
	// through its MRO whether or not this is set.
	BuildClassHierarchy bool `mapstructure:"build_class_hierarchy" yaml:"build_class_hierarchy"`
	// UseMRO is loaded and carried but not read by any analysis step;
	// attribute resolution always walks the MRO.
	UseMRO bool `mapstructure:"use_mro" yaml:"use_mro"`

	// MaxImportDepth bounds the solver's own in-process import
	// handling; 0 means unlimited.
	MaxImportDepth int `mapstructure:"max_import_depth" yaml:"max_import_depth"`

	// EnableModularAnalysis routes the run through modgraph.Composer
	// instead of feeding a single module straight to the solver.
	EnableModularAnalysis bool `mapstructure:"enable_modular_analysis" yaml:"enable_modular_analysis"`

	TrackUnknowns     bool `mapstructure:"track_unknowns" yaml:"track_unknowns"`
	Verbose           bool `mapstructure:"verbose" yaml:"verbose"`
	LogUnknownDetails bool `mapstructure:"log_unknown_details" yaml:"log_unknown_details"`

	// Bootstrap optionally seeds base-class tuples for classes defined
	// outside the analysed sources. Not bindable from viper; set by
	// the embedding program.
	Bootstrap ir.ClassBootstrap `mapstructure:"-" yaml:"-"`

	// BootstrapClasses enumerates the externally defined class names
	// Bootstrap should be consulted for, since ClassBootstrap itself
	// only answers per-class queries and has no way to list its own
	// coverage. Ignored when Bootstrap is nil.
	BootstrapClasses []string `mapstructure:"-" yaml:"-"`

	// Finder resolves and loads imported modules. Required when
	// EnableModularAnalysis is set, or when the analysed module itself
	// imports others and in-process resolution is wanted. Not
	// bindable from viper; set by the embedding program.
	Finder ir.ModuleFinder `mapstructure:"-" yaml:"-"`

	// Builtins overrides the default built-in summary table. Nil uses
	// builtin.NewDefaultTable(). Not bindable from viper.
	Builtins *builtin.Table `mapstructure:"-" yaml:"-"`

	// Logger receives orchestration-level log lines. Nil uses
	// logrus.StandardLogger().
	Logger *logrus.Logger `mapstructure:"-" yaml:"-"`
}

// DefaultConfig returns the conservative baseline: 0-cfa, attr-name
// field sensitivity, no class-hierarchy bootstrap, single-module mode,
// unknown tracking on.
func DefaultConfig() Config {
	return Config{
		ContextPolicy:    ctxsel.ZeroCFA,
		FieldSensitivity: "attr-name",
		TrackUnknowns:    true,
	}
}

// Validate performs every construction-time check §7 requires: an
// unknown context policy, a negative depth bound, an unrecognised
// field-sensitivity mode, or modular mode requested without a Finder
// are all programmer-misuse errors reported here rather than during
// solving.
func (c Config) Validate() error {
	if _, err := ctxsel.New(c.ContextPolicy, c.ContextK, c.ContextN); err != nil {
		return fmt.Errorf("analysis: invalid context policy configuration: %w", err)
	}
	switch c.FieldSensitivity {
	case "attr-name", "collapsed", "":
	default:
		return fmt.Errorf("analysis: unknown field_sensitivity_mode %q", c.FieldSensitivity)
	}
	if c.MaxImportDepth < 0 {
		return fmt.Errorf("analysis: max_import_depth must be >= 0, got %d", c.MaxImportDepth)
	}
	if c.EnableModularAnalysis && c.Finder == nil {
		return fmt.Errorf("analysis: enable_modular_analysis requires a Finder")
	}
	return nil
}

func (c Config) fieldMode() translate.FieldMode {
	if c.FieldSensitivity == "collapsed" {
		return translate.Collapsed
	}
	return translate.AttrName
}

func (c Config) logger() *logrus.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logrus.StandardLogger()
}
