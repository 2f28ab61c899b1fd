package analysis

import (
	"math"
	"sort"

	"dbmap/internal/graph"
)

// Floyd-Warshall is cubic in the table count, so all-pairs shortest paths
// are skipped above this size. The layout engine has its own size cutoff;
// this is the analysis-side equivalent.
const shortestPathTableLimit = 400

func analyzeConnectivity(g *graph.Graph) Connectivity {
	n := g.Len()
	conn := Connectivity{
		Centrality: make(map[string]int, n),
		names:      g.Nodes(),
		nameIdx:    make(map[string]int, n),
	}
	for i, name := range conn.names {
		conn.nameIdx[name] = i
	}

	components := g.Components()
	conn.ComponentCount = len(components)
	for _, comp := range components {
		names := make([]string, len(comp))
		for i, idx := range comp {
			names[i] = g.Name(idx)
		}
		conn.Components = append(conn.Components, names)
	}

	for i := 0; i < n; i++ {
		degree := g.Degree(i)
		conn.Centrality[g.Name(i)] = degree
		if degree == 0 {
			conn.IsolatedTables = append(conn.IsolatedTables, g.Name(i))
		}
	}

	if n > 1 {
		possible := float64(n*(n-1)) / 2
		conn.Density = float64(g.EdgeCount()) / possible
	}
	conn.AvgClustering = avgClustering(g)
	conn.HubTables = hubTables(g)

	if n > shortestPathTableLimit {
		conn.ShortestPathsSkipped = true
		return conn
	}
	conn.distances = floydWarshall(g)
	conn.Diameter, conn.AvgPathLength = pathStats(conn.distances)
	return conn
}

// avgClustering averages the clustering coefficient over nodes with at
// least two neighbors; 0 when none qualify.
func avgClustering(g *graph.Graph) float64 {
	sum := 0.0
	qualified := 0
	for i := 0; i < g.Len(); i++ {
		ns := g.Neighbors(i)
		if len(ns) < 2 {
			continue
		}
		connected := 0
		for a := 0; a < len(ns); a++ {
			for b := a + 1; b < len(ns); b++ {
				if g.Connected(ns[a], ns[b]) {
					connected++
				}
			}
		}
		possible := len(ns) * (len(ns) - 1) / 2
		sum += float64(connected) / float64(possible)
		qualified++
	}
	if qualified == 0 {
		return 0
	}
	return sum / float64(qualified)
}

// hubTables returns the top 20% of tables by degree, at least one, ties
// broken by name for determinism. Graphs with no edges have no hubs.
func hubTables(g *graph.Graph) []string {
	n := g.Len()
	if n == 0 {
		return nil
	}
	type ranked struct {
		name   string
		degree int
	}
	all := make([]ranked, 0, n)
	maxDegree := 0
	for i := 0; i < n; i++ {
		d := g.Degree(i)
		all = append(all, ranked{g.Name(i), d})
		if d > maxDegree {
			maxDegree = d
		}
	}
	if maxDegree == 0 {
		return nil
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].degree != all[j].degree {
			return all[i].degree > all[j].degree
		}
		return all[i].name < all[j].name
	})
	count := n / 5
	if count < 1 {
		count = 1
	}
	hubs := make([]string, 0, count)
	for _, r := range all[:count] {
		if r.degree == 0 {
			break
		}
		hubs = append(hubs, r.name)
	}
	return hubs
}

// floydWarshall computes unit-weight all-pairs shortest paths over the
// undirected adjacency. Unreachable pairs stay at +Inf.
func floydWarshall(g *graph.Graph) [][]float64 {
	n := g.Len()
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			dist[i][j] = math.Inf(1)
		}
		dist[i][i] = 0
		for _, j := range g.Neighbors(i) {
			dist[i][j] = 1
		}
	}
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if math.IsInf(dist[i][k], 1) {
				continue
			}
			for j := 0; j < n; j++ {
				if d := dist[i][k] + dist[k][j]; d < dist[i][j] {
					dist[i][j] = d
				}
			}
		}
	}
	return dist
}

func pathStats(dist [][]float64) (diameter int, avg float64) {
	sum := 0.0
	pairs := 0
	for i := range dist {
		for j := i + 1; j < len(dist[i]); j++ {
			d := dist[i][j]
			if math.IsInf(d, 1) {
				continue
			}
			if int(d) > diameter {
				diameter = int(d)
			}
			sum += d
			pairs++
		}
	}
	if pairs > 0 {
		avg = sum / float64(pairs)
	}
	return diameter, avg
}

// Distance returns the shortest hop count between two tables, +Inf when
// unreachable or unknown. False when shortest paths were skipped for size.
func (c *Connectivity) Distance(from, to string) (float64, bool) {
	if c.distances == nil {
		return math.Inf(1), false
	}
	i, ok := c.nameIdx[from]
	if !ok {
		return math.Inf(1), true
	}
	j, ok := c.nameIdx[to]
	if !ok {
		return math.Inf(1), true
	}
	return c.distances[i][j], true
}
