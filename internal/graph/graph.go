// Package graph derives an adjacency representation from a schema's tables
// and relationships, shared by the layout and analysis engines.
package graph

import (
	"sort"

	"dbmap/internal/schema"
)

// Graph holds both the symmetric neighbor sets used by undirected
// algorithms and the directed edge list used for cycle detection and
// hierarchy levels. It is rebuilt from scratch on every call and never
// mutates the schema it was built from.
type Graph struct {
	nodes   []string
	nodeIdx map[string]int

	neighbors []map[int]bool // undirected, deduplicated
	out       [][]int        // directed, one entry per kept relationship
	in        [][]int

	// Relationships kept after dropping edges that reference unknown
	// tables, in input order.
	Relationships []schema.Relationship
}

// Build constructs the graph in O(T + R). Tables without relationships
// appear as isolated nodes. A relationship naming an unknown table is
// dropped silently.
func Build(tables []schema.Table, relationships []schema.Relationship) *Graph {
	g := &Graph{
		nodeIdx: make(map[string]int, len(tables)),
	}
	for _, t := range tables {
		g.addNode(t.Name)
	}
	for _, rel := range relationships {
		src, ok := g.nodeIdx[rel.SourceTable]
		if !ok {
			continue
		}
		dst, ok := g.nodeIdx[rel.TargetTable]
		if !ok {
			continue
		}
		g.out[src] = append(g.out[src], dst)
		g.in[dst] = append(g.in[dst], src)
		if src != dst {
			g.neighbors[src][dst] = true
			g.neighbors[dst][src] = true
		}
		g.Relationships = append(g.Relationships, rel)
	}
	return g
}

func (g *Graph) addNode(name string) int {
	if idx, ok := g.nodeIdx[name]; ok {
		return idx
	}
	idx := len(g.nodes)
	g.nodes = append(g.nodes, name)
	g.nodeIdx[name] = idx
	g.neighbors = append(g.neighbors, make(map[int]bool))
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return idx
}

// Nodes returns table names in insertion order.
func (g *Graph) Nodes() []string {
	return g.nodes
}

func (g *Graph) Len() int {
	return len(g.nodes)
}

// Index returns the node index for a table name.
func (g *Graph) Index(name string) (int, bool) {
	idx, ok := g.nodeIdx[name]
	return idx, ok
}

func (g *Graph) Name(idx int) string {
	return g.nodes[idx]
}

// Neighbors returns the undirected neighbor indexes of node i, sorted for
// deterministic iteration.
func (g *Graph) Neighbors(i int) []int {
	ns := make([]int, 0, len(g.neighbors[i]))
	for n := range g.neighbors[i] {
		ns = append(ns, n)
	}
	sort.Ints(ns)
	return ns
}

// Connected reports whether tables i and j share at least one relationship.
func (g *Graph) Connected(i, j int) bool {
	return g.neighbors[i][j]
}

// Degree is the undirected neighbor-set size, ignoring self references.
func (g *Graph) Degree(i int) int {
	return len(g.neighbors[i])
}

// Out returns directed successor indexes of node i, one per relationship.
func (g *Graph) Out(i int) []int {
	return g.out[i]
}

// InDegree counts incoming relationships, self references included.
func (g *Graph) InDegree(i int) int {
	return len(g.in[i])
}

// OutDegree counts outgoing relationships, self references included.
func (g *Graph) OutDegree(i int) int {
	return len(g.out[i])
}

// EdgeCount is the number of distinct undirected edges, used for network
// density. Parallel relationships between the same pair count once.
func (g *Graph) EdgeCount() int {
	total := 0
	for i := range g.neighbors {
		total += len(g.neighbors[i])
	}
	return total / 2
}

// Components returns the connected components of the undirected graph via
// depth-first traversal, each component's members sorted by node index.
func (g *Graph) Components() [][]int {
	visited := make([]bool, len(g.nodes))
	var components [][]int
	for start := range g.nodes {
		if visited[start] {
			continue
		}
		var member []int
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			member = append(member, node)
			for _, n := range g.Neighbors(node) {
				if !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		sort.Ints(member)
		components = append(components, member)
	}
	return components
}
