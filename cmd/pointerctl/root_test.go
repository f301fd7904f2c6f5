package main

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	log := logrus.New()
	log.SetOutput(bytes.NewBuffer(nil))
	root := newRootCommand(log)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return out.String()
}

func TestAnalyzeCommandPrintsStats(t *testing.T) {
	out := runCommand(t, "analyze", "--module", "demo")
	assert.Contains(t, out, "objects:")
	assert.Contains(t, out, "variables:")
}

func TestQueryCommandPointsTo(t *testing.T) {
	out := runCommand(t, "query", "--module", "demo", "--kind", "points-to", "--scope", "demo", "--name", "greeting")
	assert.NotEmpty(t, out)
}

func TestSummaryCommandEmitsYAML(t *testing.T) {
	out := runCommand(t, "summary", "--module", "demo")
	assert.Contains(t, out, "path: demo")
}
