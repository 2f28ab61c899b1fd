// Package report projects analysis snapshots into exportable forms.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"dbmap/internal/analysis"
)

// Format selects an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ErrNoAnalysis is returned when export is requested before any analysis
// has run. This is the engine's only hard failure.
var ErrNoAnalysis = errors.New("no analysis has been run")

// Reporter holds the most recent analysis snapshot. It performs no
// computation of its own.
type Reporter struct {
	last *analysis.Result
}

func NewReporter() *Reporter {
	return &Reporter{}
}

// SetResult replaces the held snapshot.
func (r *Reporter) SetResult(result *analysis.Result) {
	r.last = result
}

// Result returns the held snapshot, or nil before the first analysis.
func (r *Reporter) Result() *analysis.Result {
	return r.last
}

// GroupFor returns the group containing the named table.
func (r *Reporter) GroupFor(table string) (analysis.Group, bool) {
	if r.last == nil {
		return analysis.Group{}, false
	}
	for _, group := range r.last.Groups {
		for _, name := range group.Tables {
			if name == table {
				return group, true
			}
		}
	}
	return analysis.Group{}, false
}

// Export renders the held snapshot in the requested format. Exporting
// before any analysis has run is an error.
func (r *Reporter) Export(format Format) (string, error) {
	if r.last == nil {
		return "", ErrNoAnalysis
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(r.last, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode analysis: %w", err)
		}
		return string(data), nil
	case FormatCSV:
		return r.exportCSV()
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// exportCSV flattens the headline metrics into Metric,Value,Description
// rows.
func (r *Reporter) exportCSV() (string, error) {
	res := r.last
	rows := [][]string{
		{"Metric", "Value", "Description"},
		{"Total Tables", fmt.Sprintf("%d", res.Stats.TableCount), "Number of tables in the schema"},
		{"Total Columns", fmt.Sprintf("%d", res.Stats.ColumnCount), "Number of columns across all tables"},
		{"Total Relationships", fmt.Sprintf("%d", res.Stats.RelationshipCount), "Number of declared relationships"},
		{"Avg Columns Per Table", fmt.Sprintf("%.1f", res.Stats.AvgColumnsPerTable), "Average column count per table"},
		{"Primary Keys", fmt.Sprintf("%d", res.Stats.PrimaryKeyCount), "Number of primary key columns"},
		{"Foreign Keys", fmt.Sprintf("%d", res.Stats.ForeignKeyCount), "Number of foreign key columns"},
		{"Connected Components", fmt.Sprintf("%d", res.Connectivity.ComponentCount), "Number of independent table clusters"},
		{"Network Density", fmt.Sprintf("%.3f", res.Connectivity.Density), "Actual edges over possible edges"},
		{"Quality Score", fmt.Sprintf("%.1f", res.Quality.Overall), "Weighted schema quality, 0-100"},
		{"Quality Grade", res.Quality.Grade, "Letter grade for the quality score"},
		{"Complexity Class", res.Complexity.Class, "Low, Medium, High or Very High"},
	}

	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.String(), nil
}
