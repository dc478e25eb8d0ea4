package worldmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func squareGrid(size int, tileSize float64, passableType int) *Grid {
	tiles := make([]Tile, 0, size*size)
	for gx := 0; gx < size; gx++ {
		for gz := 0; gz < size; gz++ {
			tiles = append(tiles, Tile{GX: gx, GZ: gz, TileTypeIndex: passableType})
		}
	}
	return NewGrid(size, tileSize, 1, tiles)
}

func TestWorldToGridRoundTrip(t *testing.T) {
	g := squareGrid(10, 2, 3)
	for gx := 0; gx < 10; gx++ {
		for gz := 0; gz < 10; gz++ {
			x, z := g.GridToWorld(gx, gz)
			rgx, rgz := g.WorldToGrid(x, z)
			require.Equal(t, gx, rgx)
			require.Equal(t, gz, rgz)
		}
	}
}

func TestIsPassableThreshold(t *testing.T) {
	tiles := []Tile{
		{GX: 0, GZ: 0, TileTypeIndex: 2},
		{GX: 1, GZ: 0, TileTypeIndex: 3},
	}
	g := NewGrid(2, 1, 1, tiles)
	require.False(t, g.IsPassable(0, 0))
	require.True(t, g.IsPassable(1, 0))
}

func TestIsPassableOutOfBounds(t *testing.T) {
	g := squareGrid(4, 1, 3)
	require.False(t, g.IsPassable(-1, 0))
	require.False(t, g.IsPassable(4, 0))
}

type straightCurve struct{ x0, z0, x1, z1 float64 }

func (c straightCurve) PointAt(t float64) (float64, float64) {
	return c.x0 + (c.x1-c.x0)*t, c.z0 + (c.z1-c.z0)*t
}

func TestComputeRoadsIsIdempotent(t *testing.T) {
	g := squareGrid(20, 1, 3)
	curves := []Curve{straightCurve{x0: -10, z0: 0, x1: 10, z1: 0}}
	first := ComputeRoads(g, curves)
	second := ComputeRoads(g, curves)
	require.Equal(t, len(first), len(second))
	for k := range first {
		_, ok := second[k]
		require.True(t, ok)
	}
}

func TestComputeRoadsKeepsOnlyInBounds(t *testing.T) {
	g := squareGrid(4, 1, 3)
	curves := []Curve{straightCurve{x0: -100, z0: 0, x1: 100, z1: 0}}
	roads := ComputeRoads(g, curves)
	for k := range roads {
		require.True(t, g.InBounds(k[0], k[1]))
	}
}
