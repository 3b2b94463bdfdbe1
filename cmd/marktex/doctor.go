// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/marktex/internal/toolchain"
	"github.com/pdiddy/marktex/pkg/types"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the external toolchain is installed",
	Long: `Doctor resolves every external binary the pipeline shells out to and
reports where each was found, with an install hint for anything missing.
It never gates builds: a missing tool surfaces as a per-file failure at
build time instead.`,
	RunE: runDoctor,
}

// toolReport is the JSON shape of one tool check.
type toolReport struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	OK      bool   `json:"ok"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	set := toolchain.NewSet(types.ToolsConfig{
		Pandoc:        viper.GetString("tools.pandoc"),
		MermaidFilter: viper.GetString("tools.mermaid_filter"),
		Latexmk:       viper.GetString("tools.latexmk"),
		Mmdc:          viper.GetString("tools.mmdc"),
	})
	statuses := toolchain.CheckAll(toolchain.System(), set)
	missing := toolchain.Missing(statuses)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		reports := make([]toolReport, len(statuses))
		for i, st := range statuses {
			reports[i] = toolReport{
				Name:    st.Tool.Name,
				Role:    st.Tool.Role,
				OK:      st.OK(),
				Path:    st.Path,
				Version: st.Version,
			}
			if !st.OK() {
				reports[i].Hint = st.Tool.Hint
			}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(os.Stdout, "%-16s  %-8s  %-36s  %s\n", "Tool", "Status", "Path", "Version")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
		for _, st := range statuses {
			status := "ok"
			if !st.OK() {
				status = "missing"
			}
			fmt.Fprintf(os.Stdout, "%-16s  %-8s  %-36s  %s\n", st.Tool.Name, status, st.Path, st.Version)
		}

		if len(missing) > 0 {
			fmt.Fprintln(os.Stdout)
			for _, st := range missing {
				fmt.Fprintf(os.Stdout, "missing: %s (install via: %s)\n", st.Tool.Name, st.Tool.Hint)
			}
		} else {
			fmt.Fprintln(os.Stdout, "\nAll tools found.")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%d tool(s) missing", len(missing))
	}
	return nil
}

func init() {
	doctorCmd.Flags().Bool("json", false, "output the report as JSON")

	rootCmd.AddCommand(doctorCmd)
}
