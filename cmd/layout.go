package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"dbmap/internal/layout"
)

var (
	layoutStrategy string
	layoutSeed     int64
	layoutOutput   string
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Compute diagram positions for every table",
	Long: `Compute a 2-D layout for the schema's tables and print it as JSON.

Small schemas get a force-directed placement with overlap resolution;
larger ones fall back to a deterministic grid. Specific shapes are
available via --strategy.`,
	RunE: runLayout,
}

func init() {
	layoutCmd.Flags().StringVar(&layoutStrategy, "strategy", "auto", "Layout strategy: auto, force, grid, circular, hierarchical")
	layoutCmd.Flags().Int64Var(&layoutSeed, "seed", layout.DefaultSeed, "Layout jitter seed (negative for non-deterministic)")
	layoutCmd.Flags().StringVarP(&layoutOutput, "output", "o", "", "Output file path (default: stdout)")

	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}

	applyLayoutConfig(cmd)
	if !cmd.Flags().Changed("output") && cfg.Output.File != "" {
		layoutOutput = cfg.Output.File
	}

	engine := layout.NewEngine(layoutOptions())
	placements := engine.Compute(s.Tables, s.Relationships)

	data, err := json.MarshalIndent(placements, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}

	return writeOutput(layoutOutput, string(data)+"\n")
}
