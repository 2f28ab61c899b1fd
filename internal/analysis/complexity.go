package analysis

import (
	"dbmap/internal/graph"
	"dbmap/internal/schema"
)

// Structural complexity weights.
const (
	tableWeight        = 2.0
	relationshipWeight = 3.0
	columnWeight       = 0.5
)

func complexityMetrics(s *schema.Schema, g *graph.Graph) ComplexityMetrics {
	columns := 0
	for _, t := range s.Tables {
		columns += len(t.Columns)
	}

	m := ComplexityMetrics{
		Cyclomatic: countCycles(g) + 1,
		Structural: round1(tableWeight*float64(len(s.Tables)) +
			relationshipWeight*float64(len(s.Relationships)) +
			columnWeight*float64(columns)),
	}

	for _, rel := range s.Relationships {
		if rel.Type() == schema.ManyToMany {
			m.Cognitive += 3
		} else {
			m.Cognitive++
		}
		if rel.SelfReferencing() {
			m.Cognitive += 2
		}
	}
	m.Cognitive += 2 * inheritanceDepth(s)

	m.Class = complexityClass(float64(m.Cyclomatic) + m.Structural + float64(m.Cognitive))
	return m
}

// countCycles counts back edges found by a depth-first walk of the directed
// graph with a recursion stack, one per distinct cycle entry point.
func countCycles(g *graph.Graph) int {
	const (
		white = iota
		gray
		black
	)
	state := make([]int, g.Len())
	cycles := 0

	var visit func(node int)
	visit = func(node int) {
		state[node] = gray
		for _, succ := range g.Out(node) {
			switch state[succ] {
			case gray:
				cycles++
			case white:
				visit(succ)
			}
		}
		state[node] = black
	}

	for i := 0; i < g.Len(); i++ {
		if state[i] == white {
			visit(i)
		}
	}
	return cycles
}

// inheritanceDepth is the size of the largest similar-table group, used as
// a proxy for inheritance-style layering.
func inheritanceDepth(s *schema.Schema) int {
	depth := 0
	for _, group := range inheritanceGroups(s) {
		if len(group) > depth {
			depth = len(group)
		}
	}
	return depth
}

func complexityClass(total float64) string {
	switch {
	case total < 50:
		return "Low"
	case total < 150:
		return "Medium"
	case total < 300:
		return "High"
	default:
		return "Very High"
	}
}
