package layout

import (
	"math"
	"math/rand"

	"dbmap/internal/graph"
)

// placeForce runs a spring-electrical simulation: inverse-square repulsion
// between every pair, quadratic attraction along relationships, and a
// temperature clamp on per-iteration displacement that cools by a constant
// factor so late iterations only fine-tune.
func placeForce(placements []Placement, g *graph.Graph, rng *rand.Rand) {
	n := len(placements)
	if n == 1 {
		placements[0].X, placements[0].Y = 0, 0
		return
	}

	// Approximate grid start with jitter to break symmetry.
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	for i := range placements {
		placements[i].X = float64(i%cols)*gridCellWidth + rng.Float64()*gridPitch*2
		placements[i].Y = float64(i/cols)*gridCellHeight + rng.Float64()*gridPitch*2
	}

	idx := make(map[string]int, n)
	for i, p := range placements {
		idx[p.Name] = i
	}

	dispX := make([]float64, n)
	dispY := make([]float64, n)
	temperature := startTemperature
	for iter := 0; iter < forceIterations; iter++ {
		for i := range dispX {
			dispX[i], dispY[i] = 0, 0
		}

		// Pairwise repulsion.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := placements[i].X - placements[j].X
				dy := placements[i].Y - placements[j].Y
				dist := nonZero(math.Hypot(dx, dy))
				force := repulsionK / (dist * dist)
				dispX[i] += dx / dist * force
				dispY[i] += dy / dist * force
				dispX[j] -= dx / dist * force
				dispY[j] -= dy / dist * force
			}
		}

		// Attraction along relationships.
		for _, rel := range g.Relationships {
			if rel.SelfReferencing() {
				continue
			}
			src, ok := idx[rel.SourceTable]
			if !ok {
				continue
			}
			dst, ok := idx[rel.TargetTable]
			if !ok {
				continue
			}
			dx := placements[src].X - placements[dst].X
			dy := placements[src].Y - placements[dst].Y
			dist := nonZero(math.Hypot(dx, dy))
			force := dist * dist / attractionK
			dispX[src] -= dx / dist * force
			dispY[src] -= dy / dist * force
			dispX[dst] += dx / dist * force
			dispY[dst] += dy / dist * force
		}

		// Displacement clamped to the current temperature.
		for i := 0; i < n; i++ {
			mag := nonZero(math.Hypot(dispX[i], dispY[i]))
			step := math.Min(mag, temperature)
			placements[i].X += dispX[i] / mag * step
			placements[i].Y += dispY[i] / mag * step
		}
		temperature *= coolingFactor
	}

	// Snap to the grid pitch for crisp alignment.
	for i := range placements {
		placements[i].X = math.Round(placements[i].X/gridPitch) * gridPitch
		placements[i].Y = math.Round(placements[i].Y/gridPitch) * gridPitch
	}
}

// resolveOverlaps pushes apart every pair whose margin-expanded bounding
// boxes intersect, half the needed separation each so neither table is
// privileged. Stops early once a full pass is clean.
func resolveOverlaps(placements []Placement) {
	for pass := 0; pass < overlapPasses; pass++ {
		moved := false
		for i := 0; i < len(placements); i++ {
			for j := i + 1; j < len(placements); j++ {
				if pushApart(&placements[i], &placements[j]) {
					moved = true
				}
			}
		}
		if !moved {
			return
		}
	}
}

func pushApart(a, b *Placement) bool {
	overlapX := math.Min(a.X+a.Width+overlapMargin, b.X+b.Width+overlapMargin) -
		math.Max(a.X-overlapMargin, b.X-overlapMargin)
	overlapY := math.Min(a.Y+a.Height+overlapMargin, b.Y+b.Height+overlapMargin) -
		math.Max(a.Y-overlapMargin, b.Y-overlapMargin)
	if overlapX <= 0 || overlapY <= 0 {
		return false
	}

	acx, acy := a.X+a.Width/2, a.Y+a.Height/2
	bcx, bcy := b.X+b.Width/2, b.Y+b.Height/2
	dx := bcx - acx
	dy := bcy - acy
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		// Coincident centers: separate along x by convention.
		dx, dy, dist = 1, 0, 1
	}

	need := math.Min(overlapX, overlapY)
	shift := need / 2
	a.X -= dx / dist * shift
	a.Y -= dy / dist * shift
	b.X += dx / dist * shift
	b.Y += dy / dist * shift
	return true
}

// nonZero substitutes a nominal distance of 1 for coincident tables so the
// force terms never divide by zero.
func nonZero(d float64) float64 {
	if d < 1e-9 {
		return 1
	}
	return d
}
