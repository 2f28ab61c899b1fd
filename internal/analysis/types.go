// Package analysis computes structural and quality metrics over a schema's
// table/relationship graph.
package analysis

import (
	"time"

	"dbmap/internal/schema"
)

// Result is an immutable snapshot produced by one Analyze call. A new call
// replaces the whole snapshot; nothing is updated in place.
type Result struct {
	// ID uniquely identifies this snapshot.
	ID string `json:"id"`

	// GeneratedAt is when the analysis ran.
	GeneratedAt time.Time `json:"generated_at"`

	Stats         BasicStats         `json:"stats"`
	Relationships RelationshipReport `json:"relationships"`
	Tables        []TableMetric      `json:"tables"`
	Columns       ColumnStats        `json:"columns"`
	Connectivity  Connectivity       `json:"connectivity"`
	Groups        []Group            `json:"groups"`
	Quality       QualityAssessment  `json:"quality"`
	Complexity    ComplexityMetrics  `json:"complexity"`
}

// BasicStats holds headline counts and averages.
type BasicStats struct {
	TableCount            int     `json:"table_count"`
	ColumnCount           int     `json:"column_count"`
	RelationshipCount     int     `json:"relationship_count"`
	PrimaryKeyCount       int     `json:"primary_key_count"`
	ForeignKeyCount       int     `json:"foreign_key_count"`
	AvgColumnsPerTable    float64 `json:"avg_columns_per_table"`
	AvgRelationsPerTable  float64 `json:"avg_relations_per_table"`
}

// RelationshipReport classifies every relationship by its cardinality pair.
// Self references are tallied separately and do not exclude a cardinality
// class.
type RelationshipReport struct {
	TypeCounts      map[schema.RelationType]int `json:"type_counts"`
	SelfReferencing int                         `json:"self_referencing"`
	Details         []RelationshipMetric        `json:"details"`
}

// RelationshipMetric scores one relationship. Complexity starts at 1, +2
// for many-to-many, +1 for a self reference, +(k-1) for a composite key of
// k columns.
type RelationshipMetric struct {
	SourceTable     string              `json:"source_table"`
	TargetTable     string              `json:"target_table"`
	Type            schema.RelationType `json:"type"`
	SelfReferencing bool                `json:"self_referencing"`
	Complexity      int                 `json:"complexity"`
}

// TableMetric holds per-table relationship counts and a weighted complexity
// score rounded to one decimal.
type TableMetric struct {
	Name       string  `json:"name"`
	Incoming   int     `json:"incoming"`
	Outgoing   int     `json:"outgoing"`
	Total      int     `json:"total"`
	Complexity float64 `json:"complexity"`
	IsJunction bool    `json:"is_junction"`
}

// ColumnStats aggregates column-level counts across the schema.
type ColumnStats struct {
	TypeCounts       map[string]int `json:"type_counts"`
	NullableCount    int            `json:"nullable_count"`
	UniqueCount      int            `json:"unique_count"`
	IndexedCount     int            `json:"indexed_count"`
	ConstrainedCount int            `json:"constrained_count"`
}

// Connectivity holds graph-structure metrics over the undirected adjacency.
type Connectivity struct {
	ComponentCount        int                `json:"component_count"`
	Components            [][]string         `json:"components"`
	Density               float64            `json:"density"`
	AvgClustering         float64            `json:"avg_clustering"`
	Centrality            map[string]int     `json:"centrality"`
	HubTables             []string           `json:"hub_tables"`
	IsolatedTables        []string           `json:"isolated_tables"`
	Diameter              int                `json:"diameter"`
	AvgPathLength         float64            `json:"avg_path_length"`
	ShortestPathsSkipped  bool               `json:"shortest_paths_skipped"`

	// distances is the Floyd-Warshall matrix, indexed like names.
	// Unreachable pairs are +Inf. Not serialized; use Distance.
	names     []string
	nameIdx   map[string]int
	distances [][]float64
}

// Group is one connected component with a display color and generated name.
type Group struct {
	ID                    int      `json:"id"`
	Name                  string   `json:"name"`
	Color                 string   `json:"color"`
	Tables                []string `json:"tables"`
	InternalRelationships int      `json:"internal_relationships"`
}

// QualityAssessment combines the weighted sub-scores into one 0-100 score
// and a letter grade.
type QualityAssessment struct {
	Naming          NamingReport    `json:"naming"`
	Normalization   float64         `json:"normalization"`
	Integrity       float64         `json:"integrity"`
	IndexCoverage   float64         `json:"index_coverage"`
	ConstraintScore float64         `json:"constraint_score"`
	Patterns        DesignPatterns  `json:"patterns"`
	Issues          []Issue         `json:"issues"`
	Overall         float64         `json:"overall"`
	Grade           string          `json:"grade"`
	Recommendations []string        `json:"recommendations"`
}

// NamingReport describes the dominant identifier convention and its share.
type NamingReport struct {
	Dominant string  `json:"dominant"`
	Share    float64 `json:"share"`
	Score    float64 `json:"score"`
}

// DesignPatterns lists structures recognized in the schema.
type DesignPatterns struct {
	JunctionTables    []string   `json:"junction_tables"`
	InheritanceGroups [][]string `json:"inheritance_groups"`
	AuditTables       []string   `json:"audit_tables"`
}

// Issue is one potential schema problem, surfaced rather than raised.
type Issue struct {
	Type     string `json:"type"`
	Table    string `json:"table,omitempty"`
	Column   string `json:"column,omitempty"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ComplexityMetrics scores the schema on three axes and buckets the sum.
type ComplexityMetrics struct {
	Cyclomatic int     `json:"cyclomatic"`
	Structural float64 `json:"structural"`
	Cognitive  int     `json:"cognitive"`
	Class      string  `json:"class"`
}
