package main

import (
	"github.com/aretw0/sirsim/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// addSimulationFlags registers the parameter flags shared by run and ensemble.
func addSimulationFlags(fs *pflag.FlagSet) {
	d := config.Default().Simulation
	fs.IntP("population", "n", d.PopulationSize, "Number of individuals on the line")
	fs.IntP("range", "r", d.ContactRange, "Neighbours reached on each side by an infected individual")
	fs.Float64("infect", d.InfectProbability, "Probability that one contact infects a susceptible neighbour")
	fs.Float64("recover", d.RecoverProbability, "Daily recovery probability of an infected individual")
	fs.Int("max-days", d.MaxDays, "Stop after this many days (0 = until nobody is infected)")
	fs.Uint64("seed", 0, "Random seed (0 = fresh seed per run)")
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	fs := cmd.Flags()
	if fs.Changed("store") {
		cfg.Store.Backend, _ = fs.GetString("store")
	}
	if fs.Changed("store-path") {
		cfg.Store.Path, _ = fs.GetString("store-path")
	}
	if fs.Lookup("population") != nil {
		if fs.Changed("population") {
			cfg.Simulation.PopulationSize, _ = fs.GetInt("population")
		}
		if fs.Changed("range") {
			cfg.Simulation.ContactRange, _ = fs.GetInt("range")
		}
		if fs.Changed("infect") {
			cfg.Simulation.InfectProbability, _ = fs.GetFloat64("infect")
		}
		if fs.Changed("recover") {
			cfg.Simulation.RecoverProbability, _ = fs.GetFloat64("recover")
		}
		if fs.Changed("max-days") {
			cfg.Simulation.MaxDays, _ = fs.GetInt("max-days")
		}
		if fs.Changed("seed") {
			cfg.Simulation.Seed, _ = fs.GetUint64("seed")
		}
	}

	return cfg, cfg.Validate()
}

// outputFormat resolves --json and --format into one format name.
func outputFormat(cmd *cobra.Command) string {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return "json"
	}
	format, _ := cmd.Flags().GetString("format")
	return format
}
