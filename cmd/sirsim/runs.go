package main

import (
	"os"

	"github.com/aretw0/sirsim/internal/cli"
	"github.com/aretw0/sirsim/pkg/ports"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage saved runs",
	Long:  `List, show and remove runs persisted with 'sirsim run --save'.`,
}

var runsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store ports.RunStore) error {
			return cli.ListRuns(cmd.Context(), store, os.Stdout, outputFormat(cmd))
		})
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print a saved run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store ports.RunStore) error {
			return cli.ShowRun(cmd.Context(), store, args[0], os.Stdout, outputFormat(cmd))
		})
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:     "delete <run-id>...",
	Aliases: []string{"rm"},
	Short:   "Remove one or more saved runs",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(store ports.RunStore) error {
			return cli.DeleteRuns(cmd.Context(), store, args, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)

	runsListCmd.Flags().Bool("json", false, "Print summaries as JSON")
	runsListCmd.Flags().String("format", cli.FormatTable, "Output format: table or json")
	runsShowCmd.Flags().Bool("json", false, "Print the run as JSON")
	runsShowCmd.Flags().String("format", cli.FormatTable, "Output format: table, json, markdown or pretty")
}

func withStore(cmd *cobra.Command, fn func(ports.RunStore) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, closeStore, err := cli.OpenStore(cfg.Store)
	defer closeStore()
	if err != nil {
		return err
	}
	return fn(store)
}
