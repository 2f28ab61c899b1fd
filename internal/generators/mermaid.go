package generators

import (
	"fmt"
	"strings"

	"dbmap/internal/schema"
)

func GenerateMermaid(s *schema.Schema) string {
	var builder strings.Builder

	builder.WriteString("# Database Schema Diagram\n\n")
	builder.WriteString("```mermaid\nerDiagram\n")

	for _, table := range s.Tables {
		builder.WriteString(fmt.Sprintf("    %s {\n", cleanTableName(table.Name)))

		for _, col := range table.Columns {
			keyStr := ""
			if col.IsPrimary {
				keyStr = " PK"
			} else if col.IsForeign {
				keyStr = " FK"
			} else if !col.IsNullable {
				keyStr = " NOT NULL"
			}

			builder.WriteString(fmt.Sprintf("        %s %s%s\n", formatType(col), col.Name, keyStr))
		}

		builder.WriteString("    }\n\n")
	}

	for _, rel := range s.Relationships {
		builder.WriteString(fmt.Sprintf("    %s %s %s : %s\n",
			cleanTableName(rel.TargetTable),
			mermaidConnector(rel),
			cleanTableName(rel.SourceTable),
			rel.SourceColumn))
	}

	builder.WriteString("```\n\n")
	builder.WriteString(fmt.Sprintf("Generated on: %s\n", s.GeneratedAt.Format("2006-01-02 15:04:05")))
	builder.WriteString(fmt.Sprintf("Total Tables: %d\n", len(s.Tables)))
	builder.WriteString(fmt.Sprintf("Total Relationships: %d\n", len(s.Relationships)))

	return builder.String()
}

func mermaidConnector(rel schema.Relationship) string {
	switch rel.Type() {
	case schema.OneToOne:
		return "||--||"
	case schema.ManyToOne:
		return "}o--||"
	case schema.ManyToMany:
		return "}o--o{"
	default:
		return "||--o{"
	}
}

func formatType(col schema.Column) string {
	t := strings.ToLower(col.Type)
	if t == "" {
		return "unknown"
	}
	return strings.ReplaceAll(t, " ", "_")
}

func cleanTableName(name string) string {
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, ".", "_")
	return name
}
