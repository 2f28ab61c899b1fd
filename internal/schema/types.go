package schema

import "time"

type Schema struct {
	Database      string         `json:"database"`
	Tables        []Table        `json:"tables"`
	Relationships []Relationship `json:"relationships"`
	GeneratedAt   time.Time      `json:"generated_at"`
}

type Table struct {
	Name    string   `json:"name"`
	Schema  string   `json:"schema,omitempty"`
	Columns []Column `json:"columns"`
	Comment string   `json:"comment,omitempty"`
}

type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	IsPrimary  bool   `json:"is_primary"`
	IsForeign  bool   `json:"is_foreign"`
	IsNullable bool   `json:"is_nullable"`
	IsUnique   bool   `json:"is_unique"`
	IsIndexed  bool   `json:"is_indexed"`
	Check      string `json:"check,omitempty"`
	Default    string `json:"default,omitempty"`
	Comment    string `json:"comment,omitempty"`
}

// Cardinality is one side of a relationship's multiplicity.
type Cardinality string

const (
	One  Cardinality = "1"
	Many Cardinality = "many"
	Any  Cardinality = "*"
)

type Relationship struct {
	Name             string      `json:"name,omitempty"`
	SourceTable      string      `json:"source_table"`
	SourceColumn     string      `json:"source_column"`
	TargetTable      string      `json:"target_table"`
	TargetColumn     string      `json:"target_column"`
	FromCardinality  Cardinality `json:"from_cardinality"`
	ToCardinality    Cardinality `json:"to_cardinality"`
	CompositeColumns []string    `json:"composite_columns,omitempty"`
}

// SelfReferencing reports whether the relationship points back at its own
// source table.
func (r Relationship) SelfReferencing() bool {
	return r.SourceTable == r.TargetTable
}

// RelationType classifies a relationship by its cardinality pair.
type RelationType string

const (
	OneToOne   RelationType = "one-to-one"
	OneToMany  RelationType = "one-to-many"
	ManyToOne  RelationType = "many-to-one"
	ManyToMany RelationType = "many-to-many"
	Unknown    RelationType = "unknown"
)

// Type derives the relationship class from the cardinality pair.
func (r Relationship) Type() RelationType {
	from := normalizeCardinality(r.FromCardinality)
	to := normalizeCardinality(r.ToCardinality)
	switch {
	case from == One && to == One:
		return OneToOne
	case from == One && to == Many:
		return OneToMany
	case from == Many && to == One:
		return ManyToOne
	case from == Many && to == Many:
		return ManyToMany
	default:
		return Unknown
	}
}

func normalizeCardinality(c Cardinality) Cardinality {
	switch c {
	case One:
		return One
	case Many, Any:
		return Many
	default:
		return ""
	}
}

func (s *Schema) Table(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

func (t *Table) PrimaryKeys() []Column {
	var cols []Column
	for _, col := range t.Columns {
		if col.IsPrimary {
			cols = append(cols, col)
		}
	}
	return cols
}

func (t *Table) ForeignKeys() []Column {
	var cols []Column
	for _, col := range t.Columns {
		if col.IsForeign {
			cols = append(cols, col)
		}
	}
	return cols
}
