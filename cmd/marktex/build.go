// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/marktex/internal/build"
	"github.com/pdiddy/marktex/internal/compile"
	"github.com/pdiddy/marktex/internal/convert"
	"github.com/pdiddy/marktex/internal/journal"
	"github.com/pdiddy/marktex/internal/mirror"
	"github.com/pdiddy/marktex/internal/toolchain"
	"github.com/pdiddy/marktex/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build [files...]",
	Short: "Build PDF and LaTeX artifacts from Markdown sources",
	Long: `Build converts each Markdown source through pandoc and, in the default
mode, compiles the generated LaTeX into a PDF with latexmk. Sources with
mermaid code fences are routed through the pandoc-mermaid filter.

In the default mode both artifacts are produced; --pdf-only skips the TEX
intermediate and lets pandoc produce the PDF directly, --tex-only skips
PDF compilation. A tool failure marks the affected file failed and the
batch continues; problems resolving paths abort the run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	pdfOnly, _ := cmd.Flags().GetBool("pdf-only")
	texOnly, _ := cmd.Flags().GetBool("tex-only")
	mode, err := types.ParseMode(pdfOnly, texOnly)
	if err != nil {
		return err
	}

	cfg := buildConfig(cmd)
	cfg.Mode = mode

	resolver := mirror.Resolver{ExplicitRoot: cfg.RepoRoot, SourceRoots: cfg.SourceRoots}
	tools := toolchain.NewSet(cfg.Tools)
	pipeline := build.New(
		resolver,
		convert.NewPandoc(tools, toolchain.System()),
		compile.NewLatexmk(tools, toolchain.System()),
		cfg.Mode,
		os.Stdout,
	)

	if cfg.Journal.Enabled {
		store, err := openBuildJournal(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: journal disabled: %v\n", err)
		} else {
			defer store.Close()
			pipeline.Recorder = build.RecorderFunc(func(rec types.BuildRecord) error {
				return store.Record(context.Background(), rec)
			})
		}
	}

	result, err := pipeline.BuildBatch(args)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed to build", result.Failed)
	}
	return nil
}

// openBuildJournal opens the journal at its configured location, anchoring
// relative paths at the repository root when one is discoverable.
func openBuildJournal(cfg types.BuildConfig) (*journal.Store, error) {
	root := cfg.RepoRoot
	if root == "" {
		root = mirror.FindRoot(".")
	}
	return journal.Open(journal.DefaultPath(cfg.Journal, root))
}

// buildConfig merges config file and environment settings with command
// flags; flags win.
func buildConfig(cmd *cobra.Command) types.BuildConfig {
	cfg := types.BuildConfig{
		RepoRoot:    viper.GetString("repo_root"),
		SourceRoots: viper.GetStringSlice("source_roots"),
		Tools: types.ToolsConfig{
			Pandoc:        viper.GetString("tools.pandoc"),
			MermaidFilter: viper.GetString("tools.mermaid_filter"),
			Latexmk:       viper.GetString("tools.latexmk"),
			Mmdc:          viper.GetString("tools.mmdc"),
		},
		Journal: types.JournalConfig{
			Enabled: viper.GetBool("journal.enabled"),
			Path:    viper.GetString("journal.path"),
		},
	}

	if root, _ := cmd.Flags().GetString("repo-root"); root != "" {
		cfg.RepoRoot = root
	}
	if cmd.Flags().Changed("journal") {
		cfg.Journal.Enabled, _ = cmd.Flags().GetBool("journal")
	}
	return cfg
}

func init() {
	buildCmd.Flags().Bool("pdf-only", false, "generate only the PDF (skip the .tex intermediate)")
	buildCmd.Flags().Bool("tex-only", false, "generate only the .tex file (skip PDF compilation)")
	buildCmd.Flags().String("repo-root", "", "repository root for the mirrored folder layout (auto-detected if not set)")
	buildCmd.Flags().Bool("journal", false, "record build outcomes in the journal")

	rootCmd.AddCommand(buildCmd)
}
