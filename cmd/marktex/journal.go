// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/marktex/internal/journal"
	"github.com/pdiddy/marktex/internal/mirror"
	"github.com/pdiddy/marktex/pkg/types"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect recorded build history",
	Long: `Journal reads the build history recorded by 'build --journal' (or with
journal.enabled set in the config). Use subcommands to list recent builds
or export them.`,
}

// --- list subcommand ---

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded builds, newest first",
	RunE:  runJournalList,
}

func runJournalList(cmd *cobra.Command, args []string) error {
	store, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.Query(context.Background(), journalOptsFromFlags(cmd))
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		fmt.Println("No builds recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-7s  %-8s  %-9s  %s\n",
		"When", "Status", "Mode", "Duration", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, rec := range recs {
		source := rec.Source
		if len(source) > 48 {
			source = "..." + source[len(source)-45:]
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-7s  %-8s  %-9s  %s\n",
			rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Status, rec.Mode, rec.Duration.Round(timeRounding), source)
	}

	fmt.Fprintf(os.Stdout, "\n%d builds\n", len(recs))
	return nil
}

// --- export subcommand ---

var journalExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export build history to YAML or JSON",
	Long: `Export writes the build history (or a filtered subset) to stdout.
Supports the same filter flags as list.`,
	RunE: runJournalExport,
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	store, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := journalOptsFromFlags(cmd)
	format, _ := cmd.Flags().GetString("format")

	switch format {
	case "yaml", "":
		return store.ExportYAML(context.Background(), os.Stdout, opts)
	case "json":
		return store.ExportJSON(context.Background(), os.Stdout, opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

// --- shared helpers ---

// timeRounding keeps the duration column narrow.
const timeRounding = 10 * time.Millisecond

func openJournal(cmd *cobra.Command) (*journal.Store, error) {
	cfg := types.JournalConfig{Path: viper.GetString("journal.path")}
	if path, _ := cmd.Flags().GetString("path"); path != "" {
		cfg.Path = path
	}
	return journal.Open(journal.DefaultPath(cfg, mirror.FindRoot(".")))
}

func journalOptsFromFlags(cmd *cobra.Command) journal.QueryOptions {
	source, _ := cmd.Flags().GetString("source")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")

	return journal.QueryOptions{
		Source: source,
		Status: types.BuildStatus(status),
		Limit:  limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	journalCmd.PersistentFlags().String("path", "", "journal database (default: <repo>/.marktex/journal.db)")
	journalCmd.PersistentFlags().String("source", "", "filter by source path substring")
	journalCmd.PersistentFlags().String("status", "", "filter by outcome: built or failed")
	journalCmd.PersistentFlags().Int("limit", 0, "maximum records (0 = default)")

	// Export flags.
	journalExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Wire subcommands.
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalExportCmd)

	rootCmd.AddCommand(journalCmd)
}
