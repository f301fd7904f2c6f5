package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lkgv/pystan-pointer/ctxsel"
)

func TestLoadDefaultsMatchAnalysisDefaultConfig(t *testing.T) {
	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(v, fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, ctxsel.ZeroCFA, cfg.ContextPolicy)
	assert.Equal(t, "attr-name", cfg.FieldSensitivity)
	assert.True(t, cfg.TrackUnknowns)
}

func TestLoadHonorsFlagOverride(t *testing.T) {
	v := viper.New()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(v, fs)
	require.NoError(t, fs.Parse([]string{"--" + KeyContextPolicy, "k-cfa", "--" + KeyContextK, "2"}))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, ctxsel.KCFA, cfg.ContextPolicy)
	assert.Equal(t, 2, cfg.ContextK)
}
