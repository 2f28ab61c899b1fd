package generators

import (
	"fmt"
	"strings"

	"dbmap/internal/layout"
	"dbmap/internal/schema"
)

// GenerateGraphviz emits a dot document. When placements are provided the
// nodes carry pinned positions from the layout engine; pass nil to let dot
// place them itself.
func GenerateGraphviz(s *schema.Schema, placements []layout.Placement) string {
	var builder strings.Builder

	builder.WriteString("digraph schema {\n")
	builder.WriteString("  rankdir=TB;\n")
	builder.WriteString("  node [shape=record, style=filled, fillcolor=lightblue];\n")
	builder.WriteString("  edge [color=gray];\n\n")

	positions := make(map[string]layout.Placement, len(placements))
	for _, p := range placements {
		positions[p.Name] = p
	}

	for _, table := range s.Tables {
		builder.WriteString(fmt.Sprintf("  %s [label=\"{%s|", cleanNodeName(table.Name), table.Name))

		var fields []string
		for _, col := range table.Columns {
			field := col.Name + ": " + strings.ToUpper(col.Type)
			if col.IsPrimary {
				field = "+" + field
			}
			if !col.IsNullable {
				field += " NOT NULL"
			}
			fields = append(fields, field)
		}

		builder.WriteString(strings.Join(fields, "\\l"))
		builder.WriteString("\\l}\"")
		if p, ok := positions[table.Name]; ok {
			// Graphviz points grow upward; diagram y grows downward.
			builder.WriteString(fmt.Sprintf(", pos=\"%.0f,%.0f!\"", p.X, -p.Y))
		}
		builder.WriteString("];\n")
	}

	builder.WriteString("\n")

	for _, rel := range s.Relationships {
		builder.WriteString(fmt.Sprintf("  %s -> %s [label=\"%s\"];\n",
			cleanNodeName(rel.TargetTable),
			cleanNodeName(rel.SourceTable),
			rel.SourceColumn))
	}

	builder.WriteString("}\n")

	return builder.String()
}

func cleanNodeName(name string) string {
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, ".", "_")
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
