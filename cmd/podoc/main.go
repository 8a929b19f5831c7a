// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the podoc CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/podoc/internal/convert"
	"github.com/pdiddy/podoc/internal/formats"
	"github.com/pdiddy/podoc/internal/logger"
	"github.com/pdiddy/podoc/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg and log are resolved once per invocation by the root command.
var (
	cfg types.Config
	log *logger.Logger
)

// rootCmd is the base command for the podoc CLI.
var rootCmd = &cobra.Command{
	Use:   "podoc",
	Short: "Convert documents between markup languages",
	Long: `podoc converts documents between markdown, the pandoc JSON interchange
format (ast), its YAML rendition, and every format the pandoc binary
supports. Each conversion is routed through the shortest chain of registered
conversions from the source language to the target language.

Languages are inferred from file extensions unless --from and --to are given.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		l, err := logger.NewFromConfig(os.Stderr, c.Log.Level)
		if err != nil {
			return err
		}
		cfg, log = c, l
		if used := viper.ConfigFileUsed(); used != "" {
			log.ConfigLoaded(used)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./podoc.yaml or ~/.config/podoc/podoc.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("no-pandoc", false, "do not attach the pandoc bridge")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("podoc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "podoc"))
		}
	}

	def := types.DefaultConfig()
	viper.SetDefault("log.level", def.Log.Level)
	viper.SetDefault("pandoc.enabled", def.Pandoc.Enabled)
	viper.SetDefault("pandoc.binary", def.Pandoc.Binary)
	viper.SetDefault("journal.enabled", def.Journal.Enabled)
	viper.SetDefault("journal.path", def.Journal.Path)
	viper.SetDefault("journal.max_results", def.Journal.MaxResults)

	viper.SetEnvPrefix("PODOC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig unmarshals the merged configuration (defaults, file,
// environment and bound flags) into a types.Config.
func loadConfig() (types.Config, error) {
	c := types.DefaultConfig()
	if err := viper.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	return c, nil
}

// newRegistry builds the registry of every language enabled by cfg.
func newRegistry(cmd *cobra.Command) (*convert.Registry, error) {
	c := cfg
	if noPandoc, _ := cmd.Flags().GetBool("no-pandoc"); noPandoc {
		c.Pandoc.Enabled = false
	}
	return convert.New(log, formats.Plugins(c, log)...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
