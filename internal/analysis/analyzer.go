package analysis

import (
	"math"
	"time"

	"github.com/google/uuid"

	"dbmap/internal/graph"
	"dbmap/internal/schema"
)

// Analyze computes a full metrics snapshot for the schema. It is a pure
// function of its input: the schema is never mutated, and every sub-analysis
// degrades to an empty or zero value on missing data instead of failing.
func Analyze(s *schema.Schema) *Result {
	if s == nil {
		s = &schema.Schema{}
	}
	g := graph.Build(s.Tables, s.Relationships)

	r := &Result{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now(),
	}
	r.Stats = basicStats(s)
	r.Relationships = classifyRelationships(s)
	r.Tables = tableMetrics(s, g)
	r.Columns = columnStats(s)
	r.Connectivity = analyzeConnectivity(g)
	r.Groups = buildGroups(g)
	r.Quality = assessQuality(s, r.Tables)
	r.Complexity = complexityMetrics(s, g)
	return r
}

func basicStats(s *schema.Schema) BasicStats {
	stats := BasicStats{
		TableCount:        len(s.Tables),
		RelationshipCount: len(s.Relationships),
	}
	for _, t := range s.Tables {
		stats.ColumnCount += len(t.Columns)
		for _, col := range t.Columns {
			if col.IsPrimary {
				stats.PrimaryKeyCount++
			}
			if col.IsForeign {
				stats.ForeignKeyCount++
			}
		}
	}
	if stats.TableCount > 0 {
		stats.AvgColumnsPerTable = round1(float64(stats.ColumnCount) / float64(stats.TableCount))
		stats.AvgRelationsPerTable = round1(float64(stats.RelationshipCount) / float64(stats.TableCount))
	}
	return stats
}

func classifyRelationships(s *schema.Schema) RelationshipReport {
	report := RelationshipReport{
		TypeCounts: make(map[schema.RelationType]int),
	}
	for _, rel := range s.Relationships {
		relType := rel.Type()
		report.TypeCounts[relType]++

		metric := RelationshipMetric{
			SourceTable:     rel.SourceTable,
			TargetTable:     rel.TargetTable,
			Type:            relType,
			SelfReferencing: rel.SelfReferencing(),
			Complexity:      1,
		}
		if relType == schema.ManyToMany {
			metric.Complexity += 2
		}
		if metric.SelfReferencing {
			report.SelfReferencing++
			metric.Complexity++
		}
		if k := len(rel.CompositeColumns); k > 1 {
			metric.Complexity += k - 1
		}
		report.Details = append(report.Details, metric)
	}
	return report
}

func tableMetrics(s *schema.Schema, g *graph.Graph) []TableMetric {
	metrics := make([]TableMetric, 0, len(s.Tables))
	for _, t := range s.Tables {
		m := TableMetric{Name: t.Name}
		if idx, ok := g.Index(t.Name); ok {
			m.Incoming = g.InDegree(idx)
			m.Outgoing = g.OutDegree(idx)
			m.Total = m.Incoming + m.Outgoing
		}

		pk := len(t.PrimaryKeys())
		fk := len(t.ForeignKeys())
		constrained := 0
		for _, col := range t.Columns {
			if col.IsUnique || col.Check != "" {
				constrained++
			}
		}
		m.Complexity = round1(0.5*float64(len(t.Columns)) +
			float64(pk) +
			1.5*float64(fk) +
			2*float64(m.Total) +
			0.5*float64(constrained))

		// Junction heuristic: mostly foreign keys, wired into at least
		// two relationships.
		m.IsJunction = fk >= 2 &&
			len(t.Columns) > 0 && float64(fk) >= 0.5*float64(len(t.Columns)) &&
			m.Total >= 2

		metrics = append(metrics, m)
	}
	return metrics
}

func columnStats(s *schema.Schema) ColumnStats {
	stats := ColumnStats{TypeCounts: make(map[string]int)}
	for _, t := range s.Tables {
		for _, col := range t.Columns {
			stats.TypeCounts[col.Type]++
			if col.IsNullable {
				stats.NullableCount++
			}
			if col.IsUnique {
				stats.UniqueCount++
			}
			if col.IsIndexed {
				stats.IndexedCount++
			}
			if hasConstraint(col) {
				stats.ConstrainedCount++
			}
		}
	}
	return stats
}

func hasConstraint(col schema.Column) bool {
	return col.IsPrimary || col.IsForeign || col.IsUnique || !col.IsNullable || col.Check != ""
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
