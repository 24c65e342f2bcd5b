package field

import (
	"iter"
	"math"
	"slices"
)

const (
	DefaultLinkThreshold = 120.0
	DefaultLinkOpacity   = 0.15
	DefaultGridThreshold = 512
	parallelRowsMinChunk = 64
)

// Link joins particles A < B that are closer than the link threshold.
type Link struct {
	A, B    int
	Opacity float64
}

// Links yields every pair closer than threshold in pre-rotation space, in
// (A, B) order. The sequence reads ps as it is iterated; it is meant to be
// consumed within the tick that produced it.
func Links(ps []Particle, threshold float64) iter.Seq[Link] {
	return LinkIndex{Threshold: threshold, MaxOpacity: DefaultLinkOpacity}.Links(ps)
}

// LinkIndex finds links with a configurable opacity ceiling. Fields larger than
// GridThreshold are bucketed into a uniform grid of threshold-sized cells and
// scanned in parallel; the output is identical to the pairwise scan.
type LinkIndex struct {
	Threshold     float64
	MaxOpacity    float64
	GridThreshold int // 0 disables the grid
}

func DefaultLinkIndex() LinkIndex {
	return LinkIndex{
		Threshold:     DefaultLinkThreshold,
		MaxOpacity:    DefaultLinkOpacity,
		GridThreshold: DefaultGridThreshold,
	}
}

func (li LinkIndex) Links(ps []Particle) iter.Seq[Link] {
	if li.Threshold <= 0 {
		return func(func(Link) bool) {}
	}
	if li.GridThreshold > 0 && len(ps) > li.GridThreshold {
		return li.gridLinks(ps)
	}
	return li.pairLinks(ps)
}

func (li LinkIndex) link(ps []Particle, i, j int) (Link, bool) {
	d := ps[i].Pos.Sub(ps[j].Pos).Length()
	if d >= li.Threshold {
		return Link{}, false
	}
	return Link{A: i, B: j, Opacity: (1 - d/li.Threshold) * li.MaxOpacity}, true
}

func (li LinkIndex) pairLinks(ps []Particle) iter.Seq[Link] {
	return func(yield func(Link) bool) {
		for i := range ps {
			for j := i + 1; j < len(ps); j++ {
				if l, ok := li.link(ps, i, j); ok {
					if !yield(l) {
						return
					}
				}
			}
		}
	}
}

type cellKey struct{ x, y, z int }

func (li LinkIndex) cellOf(p Vec3) cellKey {
	return cellKey{
		int(math.Floor(p.X / li.Threshold)),
		int(math.Floor(p.Y / li.Threshold)),
		int(math.Floor(p.Z / li.Threshold)),
	}
}

func (li LinkIndex) gridLinks(ps []Particle) iter.Seq[Link] {
	return func(yield func(Link) bool) {
		grid := make(map[cellKey][]int, len(ps)/4+1)
		for i := range ps {
			k := li.cellOf(ps[i].Pos)
			grid[k] = append(grid[k], i)
		}

		rows := make([][]Link, len(ps))
		ParallelFor(len(ps), parallelRowsMinChunk, func(start, end int) {
			var near []int
			for i := start; i < end; i++ {
				c := li.cellOf(ps[i].Pos)
				near = near[:0]
				for dx := -1; dx <= 1; dx++ {
					for dy := -1; dy <= 1; dy++ {
						for dz := -1; dz <= 1; dz++ {
							for _, j := range grid[cellKey{c.x + dx, c.y + dy, c.z + dz}] {
								if j > i {
									near = append(near, j)
								}
							}
						}
					}
				}
				slices.Sort(near)
				for _, j := range near {
					if l, ok := li.link(ps, i, j); ok {
						rows[i] = append(rows[i], l)
					}
				}
			}
		})

		for _, row := range rows {
			for _, l := range row {
				if !yield(l) {
					return
				}
			}
		}
	}
}
