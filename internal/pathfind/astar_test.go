package pathfind

import (
	"testing"

	"github.com/everforgeworks/supplyline-core/internal/worldmap"
	"github.com/stretchr/testify/require"
)

func openGrid(size int) *worldmap.Grid {
	tiles := make([]worldmap.Tile, 0, size*size)
	for gx := 0; gx < size; gx++ {
		for gz := 0; gz < size; gz++ {
			tiles = append(tiles, worldmap.Tile{GX: gx, GZ: gz, TileTypeIndex: 3})
		}
	}
	return worldmap.NewGrid(size, 1, 1, tiles)
}

func TestFindPathStartsAndEndsCorrectly(t *testing.T) {
	g := openGrid(5)
	path := FindPath(g, nil, Cell{0, 0}, Cell{4, 4})
	require.NotNil(t, path)
	require.Equal(t, Cell{0, 0}, path[0])
	require.Equal(t, Cell{4, 4}, path[len(path)-1])
	// Manhattan distance 8 => 9 cells on a shortest path over open ground.
	require.Len(t, path, 9)
}

func TestFindPathNoRouteThroughWall(t *testing.T) {
	tiles := []worldmap.Tile{}
	for gx := 0; gx < 3; gx++ {
		for gz := 0; gz < 3; gz++ {
			tt := 3
			if gx == 1 {
				tt = 0 // impassable wall splitting the grid in two
			}
			tiles = append(tiles, worldmap.Tile{GX: gx, GZ: gz, TileTypeIndex: tt})
		}
	}
	g := worldmap.NewGrid(3, 1, 1, tiles)
	path := FindPath(g, nil, Cell{0, 0}, Cell{2, 0})
	require.Nil(t, path)
}

func TestFindPathEmptyRoadSetEquivalentToUniformCost(t *testing.T) {
	g := openGrid(6)
	withNil := FindPath(g, nil, Cell{0, 0}, Cell{5, 5})
	withEmpty := FindPath(g, worldmap.RoadSet{}, Cell{0, 0}, Cell{5, 5})
	require.Equal(t, len(withNil), len(withEmpty))
}

func TestFindPathPrefersRoads(t *testing.T) {
	g := openGrid(6)
	roads := worldmap.RoadSet{}
	for gx := 0; gx <= 5; gx++ {
		roads[[2]int{gx, 0}] = struct{}{}
	}
	path := FindPath(g, roads, Cell{0, 0}, Cell{5, 0})
	require.NotNil(t, path)
	m := Metrics(path, roads)
	// Every step on the straight road is the discounted cost.
	require.InDelta(t, float64(len(path)-1)*RoadMoveCost, m.TransportCost, 1e-9)
}

func TestMetricsRouteLength(t *testing.T) {
	path := []Cell{{0, 0}, {1, 0}, {2, 0}}
	m := Metrics(path, nil)
	require.Equal(t, 3, m.RouteLength)
	require.InDelta(t, 2*OffRoadMoveCost, m.TransportCost, 1e-9)
	require.InDelta(t, 2*OffRoadFuelCost, m.FuelCost, 1e-9)
}

func TestFindPathSameCellReturnsSingleton(t *testing.T) {
	g := openGrid(3)
	path := FindPath(g, nil, Cell{1, 1}, Cell{1, 1})
	require.Equal(t, []Cell{{1, 1}}, path)
}
