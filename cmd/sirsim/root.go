package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sirsim",
	Short: "sirsim simulates SIR outbreaks on a line of individuals",
	Long: `sirsim runs a stochastic Susceptible -> Infected -> Recovered epidemic on a
population laid out on a line. Individual 0 starts infected; each day infected
individuals may recover and may infect susceptible neighbours within the contact range.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "sirsim.yaml", "Path to the configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().String("store", "", "Run store backend: memory, file, redis or sqlite")
	rootCmd.PersistentFlags().String("store-path", "", "Path for the file or sqlite store")
}
