package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files <dir>",
	Short: "List the files of a directory, optionally of one language",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry(cmd)
		if err != nil {
			return err
		}
		lang, _ := cmd.Flags().GetString("lang")
		files, err := reg.FilesInDir(args[0], lang)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), f)
		}
		return nil
	},
}

func init() {
	filesCmd.Flags().String("lang", "", "only list files of this language")

	rootCmd.AddCommand(filesCmd)
}
