package nav

import (
	"math"

	"github.com/milk9111/enemyai/common"
)

// Cell addresses a grid cell by column and row.
type Cell struct {
	X int
	Y int
}

// Grid is a walkable surface laid out on the X/Z plane. Cell (0,0) starts at
// Origin and rows grow along +Z.
type Grid struct {
	Width   int
	Height  int
	Size    float64
	Origin  common.Vec3
	blocked []bool
}

func NewGrid(width, height int, size float64, origin common.Vec3) *Grid {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if size <= 0 {
		size = 1
	}
	return &Grid{
		Width:   width,
		Height:  height,
		Size:    size,
		Origin:  origin,
		blocked: make([]bool, width*height),
	}
}

func (g *Grid) inBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Width && c.Y < g.Height
}

func (g *Grid) index(c Cell) int {
	return c.Y*g.Width + c.X
}

// CellAt returns the cell containing p.
func (g *Grid) CellAt(p common.Vec3) (Cell, bool) {
	c := Cell{
		X: int(math.Floor((p.X - g.Origin.X) / g.Size)),
		Y: int(math.Floor((p.Z - g.Origin.Z) / g.Size)),
	}
	return c, g.inBounds(c)
}

// Center returns the world position of the middle of c at the grid's height.
func (g *Grid) Center(c Cell) common.Vec3 {
	return common.V3(
		g.Origin.X+(float64(c.X)+0.5)*g.Size,
		g.Origin.Y,
		g.Origin.Z+(float64(c.Y)+0.5)*g.Size,
	)
}

func (g *Grid) Blocked(c Cell) bool {
	if !g.inBounds(c) {
		return true
	}
	return g.blocked[g.index(c)]
}

func (g *Grid) Walkable(p common.Vec3) bool {
	c, ok := g.CellAt(p)
	return ok && !g.Blocked(c)
}

func (g *Grid) SetBlocked(c Cell, blocked bool) {
	if !g.inBounds(c) {
		return
	}
	g.blocked[g.index(c)] = blocked
}

// BlockRect blocks every cell overlapping the X/Z rectangle spanned by a and b.
func (g *Grid) BlockRect(a, b common.Vec3) {
	lo := common.V3(math.Min(a.X, b.X), 0, math.Min(a.Z, b.Z))
	hi := common.V3(math.Max(a.X, b.X), 0, math.Max(a.Z, b.Z))
	c0 := Cell{X: int(math.Floor((lo.X - g.Origin.X) / g.Size)), Y: int(math.Floor((lo.Z - g.Origin.Z) / g.Size))}
	c1 := Cell{X: int(math.Ceil((hi.X-g.Origin.X)/g.Size)) - 1, Y: int(math.Ceil((hi.Z-g.Origin.Z)/g.Size)) - 1}
	for y := c0.Y; y <= c1.Y; y++ {
		for x := c0.X; x <= c1.X; x++ {
			g.SetBlocked(Cell{X: x, Y: y}, true)
		}
	}
}

// SamplePosition returns the closest walkable point to p within maxDistance.
// A point already on a walkable cell is returned unchanged.
func (g *Grid) SamplePosition(p common.Vec3, maxDistance float64) (common.Vec3, bool) {
	if g.Walkable(p) {
		return common.V3(p.X, g.Origin.Y, p.Z), true
	}
	if maxDistance <= 0 {
		return common.Vec3{}, false
	}
	origin := Cell{
		X: int(math.Floor((p.X - g.Origin.X) / g.Size)),
		Y: int(math.Floor((p.Z - g.Origin.Z) / g.Size)),
	}
	rings := int(math.Ceil(maxDistance/g.Size)) + 1

	best := common.Vec3{}
	bestDist := math.Inf(1)
	for r := 0; r <= rings; r++ {
		for y := origin.Y - r; y <= origin.Y+r; y++ {
			for x := origin.X - r; x <= origin.X+r; x++ {
				if abs(x-origin.X) != r && abs(y-origin.Y) != r {
					continue
				}
				c := Cell{X: x, Y: y}
				if g.Blocked(c) {
					continue
				}
				center := g.Center(c)
				if d := common.HorizontalDistance(p, center); d < bestDist {
					bestDist = d
					best = center
				}
			}
		}
		if bestDist <= float64(r)*g.Size {
			break
		}
	}
	if bestDist > maxDistance {
		return common.Vec3{}, false
	}
	return best, true
}

// Bounds returns the min and max corners of the grid.
func (g *Grid) Bounds() (common.Vec3, common.Vec3) {
	return g.Origin, g.Origin.Add(common.V3(float64(g.Width)*g.Size, 0, float64(g.Height)*g.Size))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
