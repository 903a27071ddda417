package main

import (
	"os"

	"github.com/aretw0/sirsim/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation and print the daily counts",
	Long: `Runs a single outbreak and prints one row per day with the susceptible,
infected and recovered counts, followed by the peak number of infections.`,
	Example: `  sirsim run
  sirsim run --population 1000 --seed 42
  sirsim run --max-days 50 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		save, _ := cmd.Flags().GetBool("save")
		debug, _ := cmd.Flags().GetBool("debug")

		format := outputFormat(cmd)
		if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
			format = cli.FormatPretty
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.RunSimulation(ctx, cli.RunOptions{
			Config: cfg,
			Save:   save,
			Format: format,
			Debug:  debug,
			Out:    os.Stdout,
		})
	},
}

func addRunFlags(cmd *cobra.Command) {
	addSimulationFlags(cmd.Flags())
	cmd.Flags().Bool("save", false, "Persist the run to the configured store")
	cmd.Flags().Bool("json", false, "Print the run as JSON")
	cmd.Flags().Bool("pretty", false, "Render a styled Markdown report")
	cmd.Flags().String("format", cli.FormatTable, "Output format: table, json, markdown, mermaid or pretty")
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)

	// 'run' is the default when no command is provided.
	addRunFlags(rootCmd)
	rootCmd.RunE = runCmd.RunE
}
