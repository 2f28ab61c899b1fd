package generators

import (
	"fmt"
	"strings"

	"dbmap/internal/schema"
)

func GeneratePlantUML(s *schema.Schema) string {
	var builder strings.Builder

	builder.WriteString("@startuml\n")
	builder.WriteString("!theme plain\n")
	builder.WriteString("skinparam linetype ortho\n\n")

	for _, table := range s.Tables {
		builder.WriteString(fmt.Sprintf("entity \"%s\" as %s {\n", table.Name, cleanEntityName(table.Name)))

		for _, col := range table.Columns {
			if col.IsPrimary {
				builder.WriteString(fmt.Sprintf("  * %s : %s <<PK>>\n", col.Name, strings.ToUpper(col.Type)))
			}
		}

		builder.WriteString("  --\n")

		for _, col := range table.Columns {
			if col.IsPrimary {
				continue
			}
			marker := ""
			if col.IsForeign {
				marker = " <<FK>>"
			} else if !col.IsNullable {
				marker = " <<NOT NULL>>"
			}
			builder.WriteString(fmt.Sprintf("  %s : %s%s\n", col.Name, strings.ToUpper(col.Type), marker))
		}

		builder.WriteString("}\n\n")
	}

	for _, rel := range s.Relationships {
		builder.WriteString(fmt.Sprintf("%s %s %s : %s\n",
			cleanEntityName(rel.TargetTable),
			plantumlConnector(rel),
			cleanEntityName(rel.SourceTable),
			rel.SourceColumn))
	}

	builder.WriteString("\n@enduml\n")

	return builder.String()
}

func plantumlConnector(rel schema.Relationship) string {
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

func cleanEntityName(name string) string {
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, ".", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
