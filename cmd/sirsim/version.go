package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/sirsim"
	"github.com/aretw0/sirsim/pkg/report"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sirsim",
	Run: func(cmd *cobra.Command, args []string) {
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			report.PrintBanner(strings.TrimSpace(sirsim.Version))
			return
		}
		fmt.Printf("sirsim version %s\n", strings.TrimSpace(sirsim.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print a styled banner")
}
