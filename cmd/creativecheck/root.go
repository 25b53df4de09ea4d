package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "creativecheck",
		Short: "Check advertising creatives against the Oricon ranking-claim rules",
		Long: "creativecheck sends advertising images and PDF pages to a vision model and " +
			"reports, per image, whether its ranking claims follow the Oricon usage rules.\n\n" +
			"Configuration is read from CREATIVECHECK_* environment variables.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newCheckCmd(), newMCPCmd())
	return root
}
