// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/podoc/internal/journal"
	"github.com/pdiddy/podoc/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past conversions recorded in the journal",
	Long: `History lists the conversions recorded in the journal, most recent
first. Use --export to dump the matching records as YAML or JSON.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := journal.Open(cfg.Journal)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := historyOptsFromFlags(cmd)
	ctx := context.Background()

	if format, _ := cmd.Flags().GetString("export"); format != "" {
		return store.Export(ctx, os.Stdout, format, opts)
	}

	records, err := store.List(ctx, opts)
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if err := formatHistoryOutput(records, jsonOutput); err != nil {
		return err
	}
	if jsonOutput {
		return nil
	}

	sum, err := store.Summarize(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\n%d shown, %d converted and %d failed in total\n",
		len(records), sum.Converted, sum.Failed)
	return nil
}

func formatHistoryOutput(records []types.ConversionRecord, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No conversions recorded.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Time", "Status", "File", "Chain"})
	for _, r := range records {
		file := filepath.Base(r.Path)
		if len(file) > 30 {
			file = file[:27] + "..."
		}
		detail := strings.Join(r.Chain, " -> ")
		if r.Status == types.ConversionFailed {
			detail = r.Error
		}
		t.AppendRow(table.Row{
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Status, file, detail,
		})
	}
	t.Render()
	return nil
}

func historyOptsFromFlags(cmd *cobra.Command) journal.QueryOptions {
	path, _ := cmd.Flags().GetString("path")
	status, _ := cmd.Flags().GetString("status")
	target, _ := cmd.Flags().GetString("target")
	limit, _ := cmd.Flags().GetInt("limit")

	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return journal.QueryOptions{
		Path:       path,
		Status:     types.ConversionStatus(status),
		Target:     target,
		MaxResults: limit,
	}
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum records (0 = journal default)")
	historyCmd.Flags().String("path", "", "only conversions of this input file")
	historyCmd.Flags().String("status", "", "filter by status: converted or failed")
	historyCmd.Flags().String("target", "", "filter by target language")
	historyCmd.Flags().Bool("json", false, "output records as JSON")
	historyCmd.Flags().String("export", "", "export matching records: yaml or json")

	rootCmd.AddCommand(historyCmd)
}
