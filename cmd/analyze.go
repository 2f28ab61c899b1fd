package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"dbmap/internal/analysis"
	"dbmap/internal/report"
)

var (
	analyzeFormat string
	analyzeOutput string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze schema structure and quality",
	Long: `Analyze the table/relationship graph: connectivity, grouping,
complexity, and a weighted quality score with recommendations.

Output formats:
  table  colored terminal report (default)
  json   full analysis snapshot
  csv    flattened Metric,Value,Description summary`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "table", "Output format: table, json, csv")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Output file path (default: stdout)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s, err := loadSchema()
	if err != nil {
		return err
	}

	// The config format is shared with the diagram command; only take
	// values this command understands.
	if !cmd.Flags().Changed("format") && containsString([]string{"table", "json", "csv"}, cfg.Output.Format) {
		analyzeFormat = cfg.Output.Format
	}
	if !cmd.Flags().Changed("output") && cfg.Output.File != "" {
		analyzeOutput = cfg.Output.File
	}

	result := analysis.Analyze(s)
	reporter := report.NewReporter()
	reporter.SetResult(result)

	switch analyzeFormat {
	case "json":
		out, err := reporter.Export(report.FormatJSON)
		if err != nil {
			return err
		}
		return writeOutput(analyzeOutput, out+"\n")
	case "csv":
		out, err := reporter.Export(report.FormatCSV)
		if err != nil {
			return err
		}
		return writeOutput(analyzeOutput, out)
	case "table", "":
		printReport(result)
		return nil
	default:
		return fmt.Errorf("invalid format '%s'. Valid formats: table, json, csv", analyzeFormat)
	}
}

func printReport(r *analysis.Result) {
	header := color.New(color.FgCyan, color.Bold)
	good := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	bad := color.New(color.FgRed)

	header.Println("Schema Analysis")
	fmt.Printf("  Tables: %d  Columns: %d  Relationships: %d\n",
		r.Stats.TableCount, r.Stats.ColumnCount, r.Stats.RelationshipCount)
	fmt.Printf("  Primary keys: %d  Foreign keys: %d  Avg columns/table: %.1f\n",
		r.Stats.PrimaryKeyCount, r.Stats.ForeignKeyCount, r.Stats.AvgColumnsPerTable)

	header.Println("\nConnectivity")
	fmt.Printf("  Components: %d  Density: %.3f  Avg clustering: %.3f\n",
		r.Connectivity.ComponentCount, r.Connectivity.Density, r.Connectivity.AvgClustering)
	if len(r.Connectivity.HubTables) > 0 {
		fmt.Printf("  Hubs: %v\n", r.Connectivity.HubTables)
	}
	if len(r.Connectivity.IsolatedTables) > 0 {
		warn.Printf("  Isolated: %v\n", r.Connectivity.IsolatedTables)
	}

	header.Println("\nGroups")
	for _, g := range r.Groups {
		fmt.Printf("  [%d] %s (%d tables, %d relationships)\n",
			g.ID, g.Name, len(g.Tables), g.InternalRelationships)
	}

	header.Println("\nQuality")
	gradeColor := good
	switch r.Quality.Grade {
	case "C", "D":
		gradeColor = warn
	case "F":
		gradeColor = bad
	}
	gradeColor.Printf("  Score: %.1f  Grade: %s\n", r.Quality.Overall, r.Quality.Grade)
	fmt.Printf("  Naming: %.1f (%s)  Normalization: %.1f  Integrity: %.1f\n",
		r.Quality.Naming.Score, r.Quality.Naming.Dominant, r.Quality.Normalization, r.Quality.Integrity)
	fmt.Printf("  Index coverage: %.1f  Constraints: %.1f\n",
		r.Quality.IndexCoverage, r.Quality.ConstraintScore)

	for _, issue := range r.Quality.Issues {
		switch issue.Severity {
		case "warning":
			warn.Printf("  ! %s\n", issue.Message)
		default:
			fmt.Printf("  - %s\n", issue.Message)
		}
	}
	for _, rec := range r.Quality.Recommendations {
		fmt.Printf("  > %s\n", rec)
	}

	header.Println("\nComplexity")
	fmt.Printf("  Cyclomatic: %d  Structural: %.1f  Cognitive: %d  Class: %s\n",
		r.Complexity.Cyclomatic, r.Complexity.Structural, r.Complexity.Cognitive, r.Complexity.Class)
}
