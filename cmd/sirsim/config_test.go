package main

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/sirsim/internal/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlaggedCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", filepath.Join(t.TempDir(), "absent.yaml"), "")
	cmd.Flags().String("store", "", "")
	cmd.Flags().String("store-path", "", "")
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().String("format", "table", "")
	addSimulationFlags(cmd.Flags())
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(newFlaggedCommand(t))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	cmd := newFlaggedCommand(t,
		"--population", "1000",
		"-r", "3",
		"--infect", "0.1",
		"--recover", "0.5",
		"--max-days", "30",
		"--seed", "42",
		"--store", "sqlite",
		"--store-path", "x.db",
	)

	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Simulation.PopulationSize)
	assert.Equal(t, 3, cfg.Simulation.ContactRange)
	assert.Equal(t, 0.1, cfg.Simulation.InfectProbability)
	assert.Equal(t, 0.5, cfg.Simulation.RecoverProbability)
	assert.Equal(t, 30, cfg.Simulation.MaxDays)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
	assert.Equal(t, config.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "x.db", cfg.Store.Path)
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	_, err := loadConfig(newFlaggedCommand(t, "--infect", "2"))
	assert.Error(t, err)

	_, err = loadConfig(newFlaggedCommand(t, "--store", "etcd"))
	assert.Error(t, err)
}

func TestOutputFormat(t *testing.T) {
	assert.Equal(t, "table", outputFormat(newFlaggedCommand(t)))
	assert.Equal(t, "json", outputFormat(newFlaggedCommand(t, "--json")))
	assert.Equal(t, "markdown", outputFormat(newFlaggedCommand(t, "--format", "markdown")))
}

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"run", "ensemble", "calibrate", "runs", "serve", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
	assert.NotNil(t, rootCmd.RunE, "run must be the default command")
}
