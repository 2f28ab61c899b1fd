// Package loader reads schema descriptions from YAML files.
package loader

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"dbmap/internal/schema"
	"dbmap/pkg/config"
)

type yamlFile struct {
	Database      string             `yaml:"database"`
	Tables        []yamlTable        `yaml:"tables"`
	Relationships []yamlRelationship `yaml:"relationships"`
}

type yamlTable struct {
	Name    string       `yaml:"name"`
	Comment string       `yaml:"comment"`
	Columns []yamlColumn `yaml:"columns"`
}

type yamlColumn struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Primary  bool   `yaml:"primary"`
	Foreign  bool   `yaml:"foreign"`
	Nullable bool   `yaml:"nullable"`
	Unique   bool   `yaml:"unique"`
	Indexed  bool   `yaml:"indexed"`
	Check    string `yaml:"check"`
	Default  string `yaml:"default"`
}

type yamlRelationship struct {
	Name       string   `yaml:"name"`
	FromTable  string   `yaml:"from_table"`
	FromColumn string   `yaml:"from_column"`
	ToTable    string   `yaml:"to_table"`
	ToColumn   string   `yaml:"to_column"`
	FromCard   string   `yaml:"from_cardinality"`
	ToCard     string   `yaml:"to_cardinality"`
	Columns    []string `yaml:"columns"`
}

// LoadSchemaFromYAML parses a YAML schema description into the core model,
// applying the include/exclude table filters the same way the database
// extractors do. Columns referenced as relationship sources are flagged
// foreign even when the file omits the flag.
func LoadSchemaFromYAML(filename string, cfg config.SchemaConfig) (*schema.Schema, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	s, err := ParseSchemaYAML(data)
	if err != nil {
		return nil, err
	}
	filterTables(s, cfg)
	return s, nil
}

// filterTables drops excluded tables, and with them every relationship that
// touches a dropped table.
func filterTables(s *schema.Schema, cfg config.SchemaConfig) {
	if len(cfg.IncludeTables) == 0 && len(cfg.ExcludeTables) == 0 {
		return
	}

	keep := func(name string) bool {
		if len(cfg.IncludeTables) > 0 && !containsFold(cfg.IncludeTables, name) {
			return false
		}
		return !containsFold(cfg.ExcludeTables, name)
	}

	tables := s.Tables[:0]
	for _, t := range s.Tables {
		if keep(t.Name) {
			tables = append(tables, t)
		}
	}
	s.Tables = tables

	relationships := s.Relationships[:0]
	for _, rel := range s.Relationships {
		if keep(rel.SourceTable) && keep(rel.TargetTable) {
			relationships = append(relationships, rel)
		}
	}
	s.Relationships = relationships
}

func containsFold(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}

// ParseSchemaYAML converts YAML bytes into a schema.
func ParseSchemaYAML(data []byte) (*schema.Schema, error) {
	var file yamlFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse schema yaml: %w", err)
	}

	s := &schema.Schema{
		Database:    file.Database,
		GeneratedAt: time.Now(),
	}
	if s.Database == "" {
		s.Database = "yaml"
	}

	for _, t := range file.Tables {
		table := schema.Table{
			Name:    t.Name,
			Comment: t.Comment,
		}
		for _, c := range t.Columns {
			table.Columns = append(table.Columns, schema.Column{
				Name:       c.Name,
				Type:       c.Type,
				IsPrimary:  c.Primary,
				IsForeign:  c.Foreign,
				IsNullable: c.Nullable,
				IsUnique:   c.Unique,
				IsIndexed:  c.Indexed,
				Check:      c.Check,
				Default:    c.Default,
			})
		}
		s.Tables = append(s.Tables, table)
	}

	for _, r := range file.Relationships {
		rel := schema.Relationship{
			Name:             r.Name,
			SourceTable:      r.FromTable,
			SourceColumn:     r.FromColumn,
			TargetTable:      r.ToTable,
			TargetColumn:     r.ToColumn,
			FromCardinality:  schema.Cardinality(r.FromCard),
			ToCardinality:    schema.Cardinality(r.ToCard),
			CompositeColumns: r.Columns,
		}
		s.Relationships = append(s.Relationships, rel)

		if table := s.Table(rel.SourceTable); table != nil {
			if col := table.Column(rel.SourceColumn); col != nil {
				col.IsForeign = true
			}
		}
	}

	return s, nil
}
