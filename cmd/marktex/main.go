// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the marktex CLI.
// Implements: docs/ARCHITECTURE § CLI Surface, § Configuration.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the marktex CLI.
var rootCmd = &cobra.Command{
	Use:   "marktex",
	Short: "Build PDF and LaTeX documents from Markdown with mermaid diagrams",
	Long: `marktex turns Markdown sources into LaTeX and PDF documents through
pandoc and latexmk, rendering mermaid code fences into diagrams along the way.

Inside a repository holding PDF/ and TEX/ folders (or any git checkout),
artifacts land in a folder tree mirroring the source layout, with flat
copies of the latest outputs in recent/. Anywhere else, artifacts are
written next to the source file.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./marktex.yaml or ~/.config/marktex/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("marktex")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "marktex"))
		}
	}

	viper.SetEnvPrefix("MARKTEX")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
