package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets <language>",
	Short: "List the languages a language can be converted to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry(cmd)
		if err != nil {
			return err
		}
		if _, err := reg.Language(args[0]); err != nil {
			return err
		}
		targets := reg.TargetLanguages(args[0])
		if len(targets) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s has no conversion targets\n", args[0])
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.Join(targets, "\n"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}
