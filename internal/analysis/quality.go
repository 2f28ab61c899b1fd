package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"dbmap/internal/schema"
)

// Sub-score weights for the overall quality score.
const (
	namingWeight        = 0.15
	normalizationWeight = 0.25
	integrityWeight     = 0.20
	indexingWeight      = 0.15
	constraintWeight    = 0.25
)

// The pairwise Jaccard scan is quadratic, so pattern detection
// short-circuits above this table count.
const patternTableLimit = 300

func assessQuality(s *schema.Schema, tables []TableMetric) QualityAssessment {
	qa := QualityAssessment{
		Naming: assessNaming(s),
	}
	qa.Normalization = assessNormalization(s)
	qa.Integrity = assessIntegrity(s)
	qa.IndexCoverage = indexCoverage(s)
	qa.ConstraintScore = constraintCoverage(s)
	qa.Patterns = detectPatterns(s, tables)
	qa.Issues = findIssues(s)

	qa.Overall = round1(namingWeight*qa.Naming.Score +
		normalizationWeight*qa.Normalization +
		integrityWeight*qa.Integrity +
		indexingWeight*qa.IndexCoverage +
		constraintWeight*qa.ConstraintScore)
	qa.Grade = grade(qa.Overall)
	qa.Recommendations = recommendations(qa)
	return qa
}

var (
	snakeCaseRe  = regexp.MustCompile(`^[a-z][a-z0-9]*(_[a-z0-9]+)+$`)
	camelCaseRe  = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	pascalCaseRe = regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`)
	lowerCaseRe  = regexp.MustCompile(`^[a-z][a-z0-9]*$`)
)

func classifyName(name string) string {
	switch {
	case snakeCaseRe.MatchString(name):
		return "snake_case"
	case lowerCaseRe.MatchString(name):
		return "lowercase"
	case camelCaseRe.MatchString(name):
		return "camelCase"
	case pascalCaseRe.MatchString(name):
		return "PascalCase"
	default:
		return "mixed"
	}
}

// assessNaming reports the dominant identifier convention across all table
// and column names and scores consistency as its share.
func assessNaming(s *schema.Schema) NamingReport {
	counts := make(map[string]int)
	total := 0
	for _, t := range s.Tables {
		counts[classifyName(t.Name)]++
		total++
		for _, col := range t.Columns {
			counts[classifyName(col.Name)]++
			total++
		}
	}
	if total == 0 {
		return NamingReport{Dominant: "none", Score: 100}
	}
	dominant, best := "mixed", 0
	for pattern, count := range counts {
		if count > best || (count == best && pattern < dominant) {
			dominant, best = pattern, count
		}
	}
	share := float64(best) / float64(total)
	return NamingReport{
		Dominant: dominant,
		Share:    round1(share * 100),
		Score:    round1(share * 100),
	}
}

var numericSuffixRe = regexp.MustCompile(`[0-9]+$`)

// assessNormalization starts at 100 and deducts per suspected violation:
// numerically suffixed columns (repeating groups, possible 1NF) and
// composite-key tables carrying disproportionately many non-key columns
// (possible 2NF). Floored at 0.
func assessNormalization(s *schema.Schema) float64 {
	score := 100.0
	for _, t := range s.Tables {
		for _, col := range t.Columns {
			if numericSuffixRe.MatchString(col.Name) {
				score -= 10
			}
		}
		pk := len(t.PrimaryKeys())
		if pk >= 2 && len(t.Columns)-pk > 3*pk {
			score -= 15
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

// assessIntegrity deducts for relationships with a missing cardinality and
// for self references that point a column at itself.
func assessIntegrity(s *schema.Schema) float64 {
	score := 100.0
	for _, rel := range s.Relationships {
		if rel.FromCardinality == "" || rel.ToCardinality == "" {
			score -= 15
		}
		if rel.SelfReferencing() && rel.SourceColumn == rel.TargetColumn {
			score -= 10
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}

// indexCoverage is the percentage of columns flagged indexed or primary.
func indexCoverage(s *schema.Schema) float64 {
	covered, total := 0, 0
	for _, t := range s.Tables {
		for _, col := range t.Columns {
			total++
			if col.IsIndexed || col.IsPrimary {
				covered++
			}
		}
	}
	if total == 0 {
		return 100
	}
	return round1(float64(covered) / float64(total) * 100)
}

// constraintCoverage is the percentage of columns carrying any recognized
// constraint.
func constraintCoverage(s *schema.Schema) float64 {
	covered, total := 0, 0
	for _, t := range s.Tables {
		for _, col := range t.Columns {
			total++
			if hasConstraint(col) {
				covered++
			}
		}
	}
	if total == 0 {
		return 100
	}
	return round1(float64(covered) / float64(total) * 100)
}

var auditColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"created_by": true,
	"updated_by": true,
	"deleted_at": true,
}

func detectPatterns(s *schema.Schema, tables []TableMetric) DesignPatterns {
	var patterns DesignPatterns
	for _, m := range tables {
		if m.IsJunction {
			patterns.JunctionTables = append(patterns.JunctionTables, m.Name)
		}
	}
	for _, t := range s.Tables {
		hits := 0
		for _, col := range t.Columns {
			if auditColumns[strings.ToLower(col.Name)] {
				hits++
			}
		}
		if hits >= 2 {
			patterns.AuditTables = append(patterns.AuditTables, t.Name)
		}
	}
	patterns.InheritanceGroups = inheritanceGroups(s)
	return patterns
}

// inheritanceGroups clusters tables sharing at least 70% of their column
// names by Jaccard similarity, a sign of single-table-per-subclass designs.
func inheritanceGroups(s *schema.Schema) [][]string {
	if len(s.Tables) > patternTableLimit {
		return nil
	}
	columnSets := make([]map[string]bool, len(s.Tables))
	for i, t := range s.Tables {
		set := make(map[string]bool, len(t.Columns))
		for _, col := range t.Columns {
			set[strings.ToLower(col.Name)] = true
		}
		columnSets[i] = set
	}

	assigned := make([]bool, len(s.Tables))
	var groups [][]string
	for i := range s.Tables {
		if assigned[i] || len(columnSets[i]) == 0 {
			continue
		}
		members := []string{s.Tables[i].Name}
		for j := i + 1; j < len(s.Tables); j++ {
			if assigned[j] {
				continue
			}
			if jaccard(columnSets[i], columnSets[j]) >= 0.7 {
				members = append(members, s.Tables[j].Name)
				assigned[j] = true
			}
		}
		if len(members) >= 2 {
			assigned[i] = true
			sort.Strings(members)
			groups = append(groups, members)
		}
	}
	return groups
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

// findIssues flags tables without a primary key, foreign-key columns with
// no matching relationship record, and very wide tables.
func findIssues(s *schema.Schema) []Issue {
	var issues []Issue
	related := make(map[string]bool)
	for _, rel := range s.Relationships {
		related[rel.SourceTable+"."+rel.SourceColumn] = true
	}
	for _, t := range s.Tables {
		if len(t.PrimaryKeys()) == 0 {
			issues = append(issues, Issue{
				Type:     "missing_primary_key",
				Table:    t.Name,
				Message:  fmt.Sprintf("table %q has no primary key", t.Name),
				Severity: "warning",
			})
		}
		if len(t.Columns) > 50 {
			issues = append(issues, Issue{
				Type:     "wide_table",
				Table:    t.Name,
				Message:  fmt.Sprintf("table %q has %d columns; consider splitting it", t.Name, len(t.Columns)),
				Severity: "info",
			})
		}
		for _, col := range t.Columns {
			if col.IsForeign && !related[t.Name+"."+col.Name] {
				issues = append(issues, Issue{
					Type:     "dangling_foreign_key",
					Table:    t.Name,
					Column:   col.Name,
					Message:  fmt.Sprintf("column %s.%s is marked foreign but has no relationship", t.Name, col.Name),
					Severity: "warning",
				})
			}
		}
	}
	return issues
}

func grade(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

func recommendations(qa QualityAssessment) []string {
	var recs []string
	if qa.Naming.Score < 80 {
		recs = append(recs, fmt.Sprintf("standardize identifier naming on %s (currently %.0f%% consistent)", qa.Naming.Dominant, qa.Naming.Share))
	}
	if qa.Normalization < 70 {
		recs = append(recs, "review numbered columns and wide composite-key tables for normalization problems")
	}
	if qa.Integrity < 80 {
		recs = append(recs, "declare cardinality on every relationship and disambiguate self references")
	}
	if qa.IndexCoverage < 50 {
		recs = append(recs, "add indexes to frequently joined columns")
	}
	if qa.ConstraintScore < 50 {
		recs = append(recs, "add NOT NULL, UNIQUE or CHECK constraints to enforce data integrity")
	}
	return recs
}
