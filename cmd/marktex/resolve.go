package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/marktex/internal/mirror"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [files...]",
	Short: "Show where artifacts would land, without building",
	Long: `Resolve runs output-path resolution for each source and prints the
destinations a build would use: the repository root, the mirrored PDF and
TEX paths, and the recent/ folder. Nothing is written.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

// resolvedPaths is the JSON shape of one resolution.
type resolvedPaths struct {
	Source   string `json:"source"`
	RepoRoot string `json:"repo_root,omitempty"`
	Mirrored bool   `json:"mirrored"`
	PDF      string `json:"pdf"`
	TEX      string `json:"tex"`
	Recent   string `json:"recent,omitempty"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg := buildConfig(cmd)
	resolver := mirror.Resolver{ExplicitRoot: cfg.RepoRoot, SourceRoots: cfg.SourceRoots}

	resolved := make([]resolvedPaths, 0, len(args))
	for _, path := range args {
		set, err := resolver.Resolve(path)
		if err != nil {
			return err
		}
		resolved = append(resolved, resolvedPaths{
			Source:   set.Source,
			RepoRoot: set.RepoRoot,
			Mirrored: set.Mirrored(),
			PDF:      set.PDF,
			TEX:      set.TEX,
			Recent:   set.Recent,
		})
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resolved)
	}

	for i, r := range resolved {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("source: %s\n", r.Source)
		if r.Mirrored {
			fmt.Printf("root:   %s\n", r.RepoRoot)
		} else {
			fmt.Printf("root:   (none, outputs beside source)\n")
		}
		fmt.Printf("pdf:    %s\n", r.PDF)
		fmt.Printf("tex:    %s\n", r.TEX)
		if r.Recent != "" {
			fmt.Printf("recent: %s\n", r.Recent)
		}
	}
	return nil
}

func init() {
	resolveCmd.Flags().String("repo-root", "", "repository root for the mirrored folder layout (auto-detected if not set)")
	resolveCmd.Flags().Bool("json", false, "output resolution as JSON")

	rootCmd.AddCommand(resolveCmd)
}
