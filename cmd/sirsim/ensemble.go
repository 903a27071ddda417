package main

import (
	"os"

	"github.com/aretw0/sirsim/internal/cli"
	"github.com/spf13/cobra"
)

var ensembleCmd = &cobra.Command{
	Use:   "ensemble",
	Short: "Run many replicates and summarize them",
	Long: `Runs independent replicates of the same outbreak in parallel and prints the
mean and maximum peak, the mean duration and the mean attack size.
Replicate i uses seed base+i, so a fixed --seed reproduces the whole ensemble.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("replicates") {
			cfg.Ensemble.Replicates, _ = cmd.Flags().GetInt("replicates")
		}
		if cmd.Flags().Changed("concurrency") {
			cfg.Ensemble.Concurrency, _ = cmd.Flags().GetInt("concurrency")
		}
		debug, _ := cmd.Flags().GetBool("debug")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		return cli.RunEnsemble(ctx, cli.EnsembleOptions{
			Config: cfg,
			Format: outputFormat(cmd),
			Debug:  debug,
			Out:    os.Stdout,
		})
	},
}

func init() {
	rootCmd.AddCommand(ensembleCmd)
	addSimulationFlags(ensembleCmd.Flags())
	ensembleCmd.Flags().Int("replicates", 0, "Number of replicates (default from config)")
	ensembleCmd.Flags().Int("concurrency", 0, "Replicates run in parallel (default from config)")
	ensembleCmd.Flags().Bool("json", false, "Print the summary as JSON")
	ensembleCmd.Flags().String("format", cli.FormatTable, "Output format: table or json")
}
