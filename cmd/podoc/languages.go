// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/podoc/internal/convert"
)

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List the registered languages and conversions",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry(cmd)
		if err != nil {
			return err
		}
		jsonOutput, _ := cmd.Flags().GetBool("json")
		pairs, _ := cmd.Flags().GetBool("pairs")
		if pairs {
			return printPairs(reg, jsonOutput)
		}
		return printLanguages(reg, jsonOutput)
	},
}

type languageEntry struct {
	Name string `json:"name"`
	Ext  string `json:"ext,omitempty"`
}

func printLanguages(reg *convert.Registry, jsonOutput bool) error {
	entries := make([]languageEntry, 0)
	for _, name := range reg.Languages() {
		ext, err := reg.FileExt(name)
		if err != nil {
			return err
		}
		entries = append(entries, languageEntry{Name: name, Ext: ext})
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Language", "Extension", "Targets"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Name, e.Ext, len(reg.TargetLanguages(e.Name))})
	}
	t.Render()
	return nil
}

func printPairs(reg *convert.Registry, jsonOutput bool) error {
	pairs := reg.ConversionPairs()
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pairs)
	}
	for _, p := range pairs {
		fmt.Fprintln(os.Stdout, p)
	}
	fmt.Fprintf(os.Stdout, "\n%d conversions\n", len(pairs))
	return nil
}

func init() {
	languagesCmd.Flags().Bool("pairs", false, "list conversion pairs instead of languages")
	languagesCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(languagesCmd)
}
