package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkgv/pystan-pointer/ctxsel"
	"github.com/lkgv/pystan-pointer/domain"
	"github.com/lkgv/pystan-pointer/ir"
)

func TestConfigValidateRejectsUnknownPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContextPolicy = "bogus"
	assert.Error(t, cfg.Validate())
}

func TestConfigValidateRejectsNegativeImportDepth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxImportDepth = -1
	assert.Error(t, cfg.Validate())
}

func TestConfigValidateRejectsModularWithoutFinder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableModularAnalysis = true
	assert.Error(t, cfg.Validate())
}

func TestConfigValidateAcceptsDefault(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestAnalyzeSingleModuleAllocThenCopy(t *testing.T) {
	mod := &ir.ModuleIR{
		Name: "m", Path: "m",
		Exports: []string{"y"},
		Body: []*ir.Stmt{
			{Kind: ir.StmtLiteral, Dst: "x", Site: ir.Site{File: "m.py", Line: 1, Column: 1}},
			{Kind: ir.StmtCopy, Dst: "y", Src: "x", Site: ir.Site{File: "m.py", Line: 2, Column: 1}},
		},
	}

	cfg := DefaultConfig()
	result, err := Analyze(cfg, mod)
	require.NoError(t, err)

	objs := result.PointsTo("m", "y", domain.Empty)
	assert.Len(t, objs, 1, "want pts(y) to carry the one allocated object through the copy")

	stats := result.Stats()
	assert.Equal(t, 1, stats.ObjectCount)

	sum, err := result.ExportSummary("m")
	require.NoError(t, err)
	exp, ok := sum.Export("y")
	require.True(t, ok)
	assert.Len(t, exp.Objects, 1)
}

func TestAnalyzeRejectsInvalidConfig(t *testing.T) {
	mod := &ir.ModuleIR{Name: "m", Path: "m"}
	cfg := DefaultConfig()
	cfg.ContextPolicy = ctxsel.PolicyID("nope")
	_, err := Analyze(cfg, mod)
	assert.Error(t, err)
}

func TestExportSummaryUnknownModuleErrors(t *testing.T) {
	mod := &ir.ModuleIR{Name: "m", Path: "m"}
	result, err := Analyze(DefaultConfig(), mod)
	require.NoError(t, err)
	_, err = result.ExportSummary("other")
	assert.Error(t, err)
}
