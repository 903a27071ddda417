package main

import (
	"os"

	"github.com/aretw0/sirsim/internal/cli"
	"github.com/spf13/cobra"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Check the random trials against their expected rates",
	Long: `Runs a batch of independent trials at a fixed probability and a batch of
recovery passes over a fully infected population, then compares the observed
rates with the expected ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, _ := cmd.Flags().GetFloat64("probability")
		trials, _ := cmd.Flags().GetInt("trials")
		size, _ := cmd.Flags().GetInt("size")
		seed, _ := cmd.Flags().GetUint64("seed")

		return cli.RunCalibrate(cli.CalibrateOptions{
			Probability: p,
			Trials:      trials,
			Size:        size,
			Seed:        seed,
			Format:      outputFormat(cmd),
			Out:         os.Stdout,
		})
	},
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
	calibrateCmd.Flags().Float64P("probability", "p", 0.33, "Trial probability")
	calibrateCmd.Flags().IntP("trials", "t", 1000, "Number of trials and recovery passes")
	calibrateCmd.Flags().Int("size", 10, "Population size of each recovery pass")
	calibrateCmd.Flags().Uint64("seed", 0, "Random seed (0 = fresh seed)")
	calibrateCmd.Flags().Bool("json", false, "Print the report as JSON")
	calibrateCmd.Flags().String("format", cli.FormatTable, "Output format: table or json")
}
