package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("INTAKE_STORE", "memory")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--env-file", "", "--log-level", "error"}, args...))
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "intake version ")
}

func TestServicesCommands(t *testing.T) {
	out, err := execute(t, "", "services", "ls")
	require.NoError(t, err)
	assert.Contains(t, out, "SERVICE")
	assert.Contains(t, out, "Website Development")

	out, err = execute(t, "", "services", "show", "website", "development")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Website Development\n"), out)
	assert.Contains(t, out, "budget")

	_, err = execute(t, "", "services", "show", "Tax Filing")
	assert.ErrorContains(t, err, "unknown service")
}

func TestProposalCleanupCommand(t *testing.T) {
	out, err := execute(t, "# Proposal\n-----\nBudget: not provided\nScope: [Scope]\n", "proposal", "cleanup")
	require.NoError(t, err)
	assert.Equal(t, "# Proposal\nScope:\n", out)
}
