package nav

import (
	"container/heap"
	"math"

	"github.com/milk9111/enemyai/common"
)

const defaultMaxNodes = 4096

var neighbors = [8]Cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

// AStar finds a path between two cells on an 8-way grid. Diagonal steps may
// not cut a blocked corner. maxNodes caps the number of expanded cells.
func (g *Grid) AStar(start, goal Cell, maxNodes int) []Cell {
	if g.Blocked(start) || g.Blocked(goal) {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}
	if maxNodes <= 0 {
		maxNodes = defaultMaxNodes
	}

	startIdx := g.index(start)
	goalIdx := g.index(goal)

	cameFrom := make(map[int]int, 128)
	gScore := map[int]float64{startIdx: 0}
	closed := make(map[int]bool, 128)

	open := &openList{}
	heap.Push(open, openNode{idx: startIdx, f: octile(start, goal)})

	expanded := 0
	for open.Len() > 0 && expanded < maxNodes {
		cur := heap.Pop(open).(openNode)
		if closed[cur.idx] {
			continue
		}
		if cur.idx == goalIdx {
			return g.reconstruct(cameFrom, cur.idx, startIdx)
		}
		closed[cur.idx] = true
		expanded++

		c := Cell{X: cur.idx % g.Width, Y: cur.idx / g.Width}
		for _, d := range neighbors {
			n := Cell{X: c.X + d.X, Y: c.Y + d.Y}
			if g.Blocked(n) {
				continue
			}
			step := 1.0
			if d.X != 0 && d.Y != 0 {
				if g.Blocked(Cell{X: c.X + d.X, Y: c.Y}) || g.Blocked(Cell{X: c.X, Y: c.Y + d.Y}) {
					continue
				}
				step = math.Sqrt2
			}
			ni := g.index(n)
			if closed[ni] {
				continue
			}
			tentative := gScore[cur.idx] + step
			if prev, seen := gScore[ni]; seen && tentative >= prev {
				continue
			}
			cameFrom[ni] = cur.idx
			gScore[ni] = tentative
			heap.Push(open, openNode{idx: ni, f: tentative + octile(n, goal)})
		}
	}
	return nil
}

// FindPath returns world waypoints from one point to another, ending exactly
// at to. The start cell is not included.
func (g *Grid) FindPath(from, to common.Vec3, maxNodes int) ([]common.Vec3, bool) {
	start, ok := g.CellAt(from)
	if !ok {
		return nil, false
	}
	goal, ok := g.CellAt(to)
	if !ok {
		return nil, false
	}
	cells := g.AStar(start, goal, maxNodes)
	if cells == nil {
		return nil, false
	}
	path := make([]common.Vec3, 0, len(cells))
	for _, c := range cells[1:] {
		path = append(path, g.Center(c))
	}
	end := common.V3(to.X, g.Origin.Y, to.Z)
	if len(path) > 0 {
		path[len(path)-1] = end
	} else {
		path = append(path, end)
	}
	return path, true
}

func (g *Grid) reconstruct(cameFrom map[int]int, currentIdx, startIdx int) []Cell {
	path := make([]Cell, 0, 32)
	for {
		path = append(path, Cell{X: currentIdx % g.Width, Y: currentIdx / g.Width})
		if currentIdx == startIdx {
			break
		}
		prev, ok := cameFrom[currentIdx]
		if !ok {
			return nil
		}
		currentIdx = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func octile(a, b Cell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dy := math.Abs(float64(a.Y - b.Y))
	return dx + dy + (math.Sqrt2-2)*math.Min(dx, dy)
}

type openNode struct {
	idx int
	f   float64
}

type openList []openNode

func (o openList) Len() int           { return len(o) }
func (o openList) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openList) Swap(i, j int)      { o[i], o[j] = o[j], o[i] }
func (o *openList) Push(x any)        { *o = append(*o, x.(openNode)) }
func (o *openList) Pop() any {
	old := *o
	n := old[len(old)-1]
	*o = old[:len(old)-1]
	return n
}
