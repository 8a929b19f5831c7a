// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/podoc/internal/convert"
	"github.com/pdiddy/podoc/internal/journal"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files or directories...]",
	Short: "Convert documents from one language to another",
	Long: `Convert loads each file, routes it through the shortest chain of
conversions to the target language, and writes the result.

Without --output or --output-dir a single file is printed to stdout. With
--output-dir every file is converted independently: failures are reported
and recorded in the journal without stopping the batch. With --output and
several files, every result after the first is appended to the output.

Directories are expanded to the files of the source language they contain.
Use --text (or no arguments) to convert text given inline or on stdin.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	reg, err := newRegistry(cmd)
	if err != nil {
		return err
	}
	opts, err := convertOptions(cmd)
	if err != nil {
		return err
	}

	text, _ := cmd.Flags().GetString("text")
	if text != "" || len(args) == 0 {
		return convertText(cmd, reg, opts, text)
	}

	paths, err := expandPaths(reg, args, opts.Source)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files found in %s", strings.Join(args, ", "))
	}

	switch {
	case opts.OutputDir != "":
		return convertBatch(cmd, reg, paths, opts)
	case opts.Output != "":
		_, err := reg.ConvertFiles(paths, opts)
		return err
	case len(paths) == 1:
		v, err := reg.ConvertFile(paths[0], opts)
		if err != nil {
			return err
		}
		return printValue(cmd.OutOrStdout(), reg, v, opts, paths[0])
	default:
		return errors.New("several inputs need --output or --output-dir")
	}
}

func convertOptions(cmd *cobra.Command) (convert.Options, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	chain, _ := cmd.Flags().GetStringSlice("chain")
	output, _ := cmd.Flags().GetString("output")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	if outputDir == "" && output == "" {
		outputDir = cfg.Conversion.OutputDir
	}
	if to == "" && output == "" && len(chain) == 0 {
		to = cfg.Conversion.DefaultTarget
	}
	if output != "" && outputDir != "" {
		return convert.Options{}, errors.New("--output and --output-dir are mutually exclusive")
	}

	opts := convert.Options{
		Source:    from,
		Target:    to,
		Output:    output,
		OutputDir: outputDir,
	}
	if len(chain) > 0 {
		opts.Chain = chain
	}
	return opts, nil
}

// convertText converts inline text, or stdin when text is empty.
func convertText(cmd *cobra.Command, reg *convert.Registry, opts convert.Options, text string) error {
	if opts.Source == "" && opts.Chain == nil {
		return errors.New("converting text needs --from or --chain")
	}
	if text == "" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	}

	source := opts.Source
	if opts.Chain != nil {
		source = opts.Chain[0]
	}
	v, err := reg.Loads(text, source)
	if err != nil {
		return err
	}
	out, err := reg.ConvertText(v, opts)
	if err != nil {
		return err
	}
	if opts.Output != "" {
		return nil
	}
	return printValue(cmd.OutOrStdout(), reg, out, opts, "")
}

func convertBatch(cmd *cobra.Command, reg *convert.Registry, paths []string, opts convert.Options) error {
	var rec convert.Recorder
	if noJournal, _ := cmd.Flags().GetBool("no-journal"); !noJournal {
		store, err := journal.Open(cfg.Journal)
		switch {
		case err == nil:
			defer store.Close()
			rec = store
		case errors.Is(err, journal.ErrDisabled):
		default:
			log.Warn("journal unavailable", "error", err)
		}
	}

	result := reg.ConvertBatch(paths, opts, rec, cmd.OutOrStdout())
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

// printValue writes v serialized as the target language of opts.
func printValue(w io.Writer, reg *convert.Registry, v any, opts convert.Options, path string) error {
	ctx, err := reg.NewContext(path, opts)
	if err != nil {
		return err
	}
	s, err := reg.Dumps(v, ctx.Target())
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// expandPaths replaces each directory argument by the files of lang it
// contains.
func expandPaths(reg *convert.Registry, args []string, lang string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := reg.FilesInDir(arg, lang)
		if err != nil {
			return nil, err
		}
		paths = append(paths, files...)
	}
	return paths, nil
}

func init() {
	convertCmd.Flags().StringP("from", "f", "", "source language (default: inferred from the file extension)")
	convertCmd.Flags().StringP("to", "t", "", "target language (default: inferred from --output)")
	convertCmd.Flags().StringSlice("chain", nil, "explicit language chain, e.g. markdown,ast,yaml")
	convertCmd.Flags().StringP("output", "o", "", "output file")
	convertCmd.Flags().String("output-dir", "", "directory receiving one output file per input")
	convertCmd.Flags().String("text", "", "convert this text instead of files")
	convertCmd.Flags().Bool("no-journal", false, "do not record batch conversions in the journal")

	rootCmd.AddCommand(convertCmd)
}
