package layout

import (
	"math"

	"dbmap/internal/graph"
)

// placeGrid tiles tables left to right, top to bottom, ceil(sqrt(n))
// columns with fixed cell spacing. Fast and legible for large generated
// schemas where the quadratic simulation would crawl.
func placeGrid(placements []Placement) {
	cols := int(math.Ceil(math.Sqrt(float64(len(placements)))))
	for i := range placements {
		placements[i].X = float64(i%cols) * gridCellWidth
		placements[i].Y = float64(i/cols) * gridCellHeight
	}
}

// placeCircular spaces tables evenly on a circle whose radius grows with
// the table count.
func placeCircular(placements []Placement) {
	n := len(placements)
	if n == 1 {
		placements[0].X, placements[0].Y = 0, 0
		return
	}
	radius := gridCellWidth * float64(n) / (2 * math.Pi)
	if radius < gridCellWidth {
		radius = gridCellWidth
	}
	for i := range placements {
		angle := 2 * math.Pi * float64(i) / float64(n)
		placements[i].X = radius * math.Cos(angle)
		placements[i].Y = radius * math.Sin(angle)
	}
}

// placeHierarchical lays out tables in horizontal bands. Tables with no
// incoming relationships are roots at level 0; BFS assigns every reachable
// table the shortest hop count from any root. Unreachable tables fall back
// to a grid below the bands.
func placeHierarchical(placements []Placement, g *graph.Graph) {
	n := len(placements)
	idx := make(map[string]int, n)
	for i, p := range placements {
		idx[p.Name] = i
	}

	level := make([]int, n)
	for i := range level {
		level[i] = -1
	}
	var queue []int
	for name, i := range idx {
		gi, ok := g.Index(name)
		if ok && g.InDegree(gi) == 0 {
			level[i] = 0
			queue = append(queue, gi)
		}
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		cur := level[idx[g.Name(node)]]
		for _, succ := range g.Out(node) {
			pi := idx[g.Name(succ)]
			if level[pi] == -1 {
				level[pi] = cur + 1
				queue = append(queue, succ)
			}
		}
	}

	maxLevel := 0
	byLevel := map[int][]int{}
	var orphans []int
	for i := 0; i < n; i++ {
		if level[i] == -1 {
			orphans = append(orphans, i)
			continue
		}
		byLevel[level[i]] = append(byLevel[level[i]], i)
		if level[i] > maxLevel {
			maxLevel = level[i]
		}
	}

	for lvl := 0; lvl <= maxLevel; lvl++ {
		band := byLevel[lvl]
		// Center each band horizontally.
		offset := -float64(len(band)-1) * gridCellWidth / 2
		for pos, i := range band {
			placements[i].X = offset + float64(pos)*gridCellWidth
			placements[i].Y = float64(lvl) * gridCellHeight
		}
	}

	if len(orphans) > 0 {
		cols := int(math.Ceil(math.Sqrt(float64(len(orphans)))))
		baseY := float64(maxLevel+2) * gridCellHeight
		for pos, i := range orphans {
			placements[i].X = float64(pos%cols) * gridCellWidth
			placements[i].Y = baseY + float64(pos/cols)*gridCellHeight
		}
	}
}
