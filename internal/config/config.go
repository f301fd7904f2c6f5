// Package config binds a yaml config file plus environment and flag
// overrides onto an analysis.Config (§6's configuration surface),
// using spf13/viper the way the rest of the retrieval pack's CLIs do.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lkgv/pystan-pointer/analysis"
	"github.com/lkgv/pystan-pointer/ctxsel"
)

func policyID(s string) ctxsel.PolicyID { return ctxsel.PolicyID(s) }

// Keys are the viper keys bound by BindFlags, matching the
// mapstructure tags on analysis.Config.
const (
	KeyContextPolicy         = "context_policy"
	KeyContextK              = "context_k"
	KeyContextN              = "context_n"
	KeyFieldSensitivity      = "field_sensitivity_mode"
	KeyBuildClassHierarchy   = "build_class_hierarchy"
	KeyUseMRO                = "use_mro"
	KeyMaxImportDepth        = "max_import_depth"
	KeyEnableModularAnalysis = "enable_modular_analysis"
	KeyTrackUnknowns         = "track_unknowns"
	KeyVerbose               = "verbose"
	KeyLogUnknownDetails     = "log_unknown_details"
)

// BindFlags registers one flag per configuration key on fs and binds
// it into v, so flag > env > config-file > default precedence (the
// pack's usual viper convention) resolves correctly at Load time.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	d := analysis.DefaultConfig()

	fs.String(KeyContextPolicy, string(d.ContextPolicy), "context-sensitivity policy (0-cfa, k-cfa, n-obj, n-type, n-rcv, kc-no)")
	fs.Int(KeyContextK, d.ContextK, "context depth bound k (or hybrid call-string bound K)")
	fs.Int(KeyContextN, d.ContextN, "hybrid object-sequence bound N (ignored by non-hybrid policies)")
	fs.String(KeyFieldSensitivity, d.FieldSensitivity, "field sensitivity mode (attr-name, collapsed)")
	fs.Bool(KeyBuildClassHierarchy, d.BuildClassHierarchy, "seed the class hierarchy from the configured bootstrap (single-module mode)")
	fs.Bool(KeyUseMRO, d.UseMRO, "carried in the config; no effect, attribute resolution always walks the MRO")
	fs.Int(KeyMaxImportDepth, d.MaxImportDepth, "import depth budget for the solver's own import handling (0 = unlimited)")
	fs.Bool(KeyEnableModularAnalysis, d.EnableModularAnalysis, "route the run through modgraph.Composer instead of a single module")
	fs.Bool(KeyTrackUnknowns, d.TrackUnknowns, "maintain the unknown-resolution tracker")
	fs.Bool(KeyVerbose, d.Verbose, "log fixpoint statistics")
	fs.Bool(KeyLogUnknownDetails, d.LogUnknownDetails, "log each unknown-resolution record, not just its count")

	_ = v.BindPFlags(fs)
	v.SetEnvPrefix("POINTERCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load reads cfgFile (if non-empty) into v, then unmarshals the bound
// keys into an analysis.Config. It does not call Config.Validate --
// callers should do so once Finder/Bootstrap/Builtins are also set.
func Load(v *viper.Viper, cfgFile string) (analysis.Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return analysis.Config{}, fmt.Errorf("config: reading %q: %w", cfgFile, err)
		}
	}

	cfg := analysis.Config{
		ContextPolicy:         policyID(v.GetString(KeyContextPolicy)),
		ContextK:              v.GetInt(KeyContextK),
		ContextN:              v.GetInt(KeyContextN),
		FieldSensitivity:      v.GetString(KeyFieldSensitivity),
		BuildClassHierarchy:   v.GetBool(KeyBuildClassHierarchy),
		UseMRO:                v.GetBool(KeyUseMRO),
		MaxImportDepth:        v.GetInt(KeyMaxImportDepth),
		EnableModularAnalysis: v.GetBool(KeyEnableModularAnalysis),
		TrackUnknowns:         v.GetBool(KeyTrackUnknowns),
		Verbose:               v.GetBool(KeyVerbose),
		LogUnknownDetails:     v.GetBool(KeyLogUnknownDetails),
	}
	return cfg, nil
}
