// Package layout computes 2-D diagram positions for schema tables.
package layout

import (
	"math"
	"math/rand"

	"dbmap/internal/graph"
	"dbmap/internal/schema"
)

// Strategy names a placement algorithm.
type Strategy string

const (
	StrategyAuto         Strategy = "auto"
	StrategyForce        Strategy = "force"
	StrategyGrid         Strategy = "grid"
	StrategyCircular     Strategy = "circular"
	StrategyHierarchical Strategy = "hierarchical"
)

// Placement is one table's computed geometry.
type Placement struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	ZIndex int     `json:"z_index"`
}

// Table size estimation bounds. Width grows with the name and the longest
// column label but is clamped to keep degenerate identifiers from producing
// degenerate boxes; height is linear in column count.
const (
	minTableWidth = 140
	maxTableWidth = 360
	charWidth     = 8
	headerHeight  = 40
	rowHeight     = 24
	boxPadding    = 16
)

// Simulation constants for the force-directed strategy.
const (
	forceIterations  = 100
	startTemperature = 100.0
	coolingFactor    = 0.95
	repulsionK       = 80000.0
	attractionK      = 200.0
	gridPitch        = 20.0
	overlapPasses    = 10
	overlapMargin    = 40.0
	gridCellWidth    = 480.0
	gridCellHeight   = 360.0
	// Table counts above this skip the quadratic simulation in favor of
	// the deterministic grid.
	forceTableLimit = 5
)

// Options configures an Engine. The zero value is usable: layouts are
// deterministic, seeded with DefaultSeed.
type Options struct {
	Strategy Strategy
	// Seed for the initial-position jitter. Negative requests a
	// non-deterministic layout seeded from the clock by the caller.
	Seed int64
}

const DefaultSeed = 1

// Engine places tables. A fresh call recomputes everything from scratch;
// no state survives between invocations.
type Engine struct {
	strategy Strategy
	seed     int64
}

func NewEngine(opts Options) *Engine {
	strategy := opts.Strategy
	if strategy == "" {
		strategy = StrategyAuto
	}
	seed := opts.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	return &Engine{strategy: strategy, seed: seed}
}

// Compute returns exactly one placement per input table. Relationships
// naming unknown tables are ignored. Zero tables yields an empty result.
func (e *Engine) Compute(tables []schema.Table, relationships []schema.Relationship) []Placement {
	placements := make([]Placement, len(tables))
	for i, t := range tables {
		w, h := EstimateSize(t)
		placements[i] = Placement{Name: t.Name, Width: w, Height: h}
	}
	if len(placements) == 0 {
		return placements
	}

	g := graph.Build(tables, relationships)

	switch e.pick(len(tables)) {
	case StrategyGrid:
		placeGrid(placements)
	case StrategyCircular:
		placeCircular(placements)
	case StrategyHierarchical:
		placeHierarchical(placements, g)
	default:
		rng := rand.New(rand.NewSource(e.seed))
		placeForce(placements, g, rng)
		resolveOverlaps(placements)
	}

	center(placements)
	return placements
}

func (e *Engine) pick(n int) Strategy {
	if e.strategy != StrategyAuto {
		return e.strategy
	}
	if n > forceTableLimit {
		return StrategyGrid
	}
	return StrategyForce
}

// EstimateSize derives a table's box from its name and columns only, so the
// same table always gets the same dimensions.
func EstimateSize(t schema.Table) (width, height float64) {
	longest := len(t.Name)
	for _, col := range t.Columns {
		if l := len(col.Name) + len(col.Type) + 2; l > longest {
			longest = l
		}
	}
	width = float64(longest*charWidth) + 2*boxPadding
	width = math.Max(minTableWidth, math.Min(maxTableWidth, width))
	height = headerHeight + float64(len(t.Columns))*rowHeight + boxPadding
	return width, height
}

// center translates all placements so the layout's bounding box is centered
// at the origin.
func center(placements []Placement) {
	if len(placements) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range placements {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X+p.Width)
		maxY = math.Max(maxY, p.Y+p.Height)
	}
	dx := -(minX + maxX) / 2
	dy := -(minY + maxY) / 2
	for i := range placements {
		placements[i].X += dx
		placements[i].Y += dy
	}
}
