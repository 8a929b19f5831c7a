package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/podoc/internal/pandoc"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of podoc",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("podoc %s\n", version)
		if r, err := pandoc.Detect(cfg.Pandoc.Binary); err == nil {
			if v, err := r.Version(); err == nil {
				fmt.Printf("bridge: %s (%s)\n", v, r.Binary())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
