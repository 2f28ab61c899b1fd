package analysis

import (
	"strings"

	"dbmap/internal/graph"
)

// groupPalette cycles with wraparound when there are more components than
// colors.
var groupPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2",
	"#59a14f", "#edc948", "#b07aa1", "#ff9da7",
}

// buildGroups turns each connected component into a named, colored group.
func buildGroups(g *graph.Graph) []Group {
	var groups []Group
	for id, comp := range g.Components() {
		names := make([]string, len(comp))
		inComponent := make(map[int]bool, len(comp))
		for i, idx := range comp {
			names[i] = g.Name(idx)
			inComponent[idx] = true
		}

		internal := 0
		for _, rel := range g.Relationships {
			src, _ := g.Index(rel.SourceTable)
			if inComponent[src] {
				internal++
			}
		}

		groups = append(groups, Group{
			ID:                    id,
			Name:                  groupName(g, comp, names),
			Color:                 groupPalette[id%len(groupPalette)],
			Tables:                names,
			InternalRelationships: internal,
		})
	}
	return groups
}

// groupName derives a display name: a naming prefix shared by at least two
// members, else the most relationship-connected member, else an isolated
// label for singletons.
func groupName(g *graph.Graph, comp []int, names []string) string {
	if len(names) == 1 {
		return "Isolated: " + names[0]
	}
	if prefix := sharedPrefix(names); prefix != "" {
		return capitalize(prefix) + " group"
	}
	hub := names[0]
	best := -1
	for i, idx := range comp {
		if d := g.Degree(idx); d > best {
			best = d
			hub = names[i]
		}
	}
	return capitalize(hub) + " cluster"
}

// sharedPrefix returns the first underscore-delimited token when at least
// two names share it, preferring the most common token.
func sharedPrefix(names []string) string {
	counts := make(map[string]int)
	for _, name := range names {
		token, _, _ := strings.Cut(name, "_")
		if token != "" && token != name {
			counts[token]++
		}
	}
	best, bestCount := "", 1
	for token, count := range counts {
		if count > bestCount || (count == bestCount && token < best && best != "") {
			best, bestCount = token, count
		}
	}
	if bestCount < 2 {
		return ""
	}
	return best
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
