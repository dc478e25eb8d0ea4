/*
Package pathfind
File: astar.go
Description:
    The path finder (C4): weighted 4-connected A* over the tile grid, with
    movement cost reduced on road cells. The open set is a binary heap
    keyed on f-score with insertion index as a secondary key, the same
    container/heap shape the pack uses for Dijkstra (stadam23-Eve-flipper's
    internal/graph/dijkstra.go), adapted here from a single distance key to
    A*'s f = g + h with an explicit FIFO tie-break.
*/

package pathfind

import (
	"container/heap"

	"github.com/everforgeworks/supplyline-core/internal/worldmap"
)

// Cell is a grid coordinate pair.
type Cell = [2]int

// RoadMoveCost and OffRoadMoveCost are the per-tile movement costs used by
// A* (spec §4.4) and by the planner's transport-cost metric (§4.8).
const (
	RoadMoveCost    = 0.3
	OffRoadMoveCost = 1.0

	RoadFuelCost    = 0.03
	OffRoadFuelCost = 0.1
)

// neighborOrder fixes visitation order {up, down, left, right} so ties
// resolve deterministically.
var neighborOrder = [4]Cell{
	{0, -1}, // up   (gz - 1)
	{0, 1},  // down (gz + 1)
	{-1, 0}, // left (gx - 1)
	{1, 0},  // right (gx + 1)
}

func manhattan(a, b Cell) float64 {
	dx := a[0] - b[0]
	if dx < 0 {
		dx = -dx
	}
	dz := a[1] - b[1]
	if dz < 0 {
		dz = -dz
	}
	return float64(dx + dz)
}

func moveCost(roads worldmap.RoadSet, to Cell) float64 {
	if roads != nil && roads.Contains(to[0], to[1]) {
		return RoadMoveCost
	}
	return OffRoadMoveCost
}

type openEntry struct {
	cell    Cell
	f, g    float64
	seq     int // insertion order, for FIFO tie-break on equal f
	index   int
}

type openHeap []*openEntry

func (h openHeap) Len() int { return len(h) }
func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h openHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *openHeap) Push(x interface{}) {
	e := x.(*openEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// FindPath runs weighted A* from start to end. Returns nil (no error) when
// no route exists. The returned path begins with start and ends with end.
func FindPath(grid *worldmap.Grid, roads worldmap.RoadSet, start, end Cell) []Cell {
	if !grid.IsPassable(start[0], start[1]) || !grid.IsPassable(end[0], end[1]) {
		return nil
	}
	if start == end {
		return []Cell{start}
	}

	open := &openHeap{}
	heap.Init(open)

	gScore := map[Cell]float64{start: 0}
	cameFrom := map[Cell]Cell{}
	closed := map[Cell]bool{}

	seq := 0
	push := func(cell Cell, g float64) {
		heap.Push(open, &openEntry{cell: cell, f: g + manhattan(cell, end), g: g, seq: seq})
		seq++
	}
	push(start, 0)

	for open.Len() > 0 {
		cur := heap.Pop(open).(*openEntry)
		if closed[cur.cell] {
			continue
		}
		if cur.cell == end {
			return reconstruct(cameFrom, start, end)
		}
		closed[cur.cell] = true

		for _, d := range neighborOrder {
			next := Cell{cur.cell[0] + d[0], cur.cell[1] + d[1]}
			if closed[next] {
				continue
			}
			if !grid.IsPassable(next[0], next[1]) {
				continue
			}
			tentative := cur.g + moveCost(roads, next)
			best, seen := gScore[next]
			if !seen || tentative < best {
				gScore[next] = tentative
				cameFrom[next] = cur.cell
				push(next, tentative)
			}
		}
	}
	return nil
}

func reconstruct(cameFrom map[Cell]Cell, start, end Cell) []Cell {
	path := []Cell{end}
	cur := end
	for cur != start {
		prev, ok := cameFrom[cur]
		if !ok {
			return nil
		}
		path = append(path, prev)
		cur = prev
	}
	// Reverse into start..end order.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathMetrics summarizes a computed path's transport cost and fuel cost,
// the route_length/transport_cost/fuel_cost triple §6 calls path_metrics.
type PathMetrics struct {
	RouteLength   int
	TransportCost float64
	FuelCost      float64
}

// Metrics sums per-tile transport and fuel cost over a path's edges
// (tile-to-tile steps), using the same road/off-road cost table as A* for
// transport cost and the parallel fuel-cost table for fuel.
func Metrics(path []Cell, roads worldmap.RoadSet) PathMetrics {
	m := PathMetrics{RouteLength: len(path)}
	for i := 1; i < len(path); i++ {
		to := path[i]
		onRoad := roads != nil && roads.Contains(to[0], to[1])
		if onRoad {
			m.TransportCost += RoadMoveCost
			m.FuelCost += RoadFuelCost
		} else {
			m.TransportCost += OffRoadMoveCost
			m.FuelCost += OffRoadFuelCost
		}
	}
	return m
}
