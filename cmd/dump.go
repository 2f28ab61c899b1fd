package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var dumpOutput string

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the loaded schema as JSON",
	Long: `Load a schema from a database or YAML file and print the normalized
model as JSON. Useful for inspecting what the importers produced before
laying out or analyzing it.`,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "Output file path (default: stdout)")

	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("output") && cfg.Output.File != "" {
		dumpOutput = cfg.Output.File
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}

	return writeOutput(dumpOutput, string(data)+"\n")
}
