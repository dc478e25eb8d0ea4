/*
Package worldmap
File: grid.go
Description:
    The tile grid (C2): static passability and tile-type lookup, plus the
    world<->grid coordinate transforms. Immutable once constructed; a new
    Grid is built whenever the map is (re)loaded.
*/

package worldmap

import "math"

// Tile is one cell of the grid.
type Tile struct {
	GX, GZ        int
	TileTypeIndex int
	WorldX, WorldZ float64
	Height        float64
}

// Passable reports whether a tile type allows transporters to cross it.
// Spec invariant: passable iff tileTypeIndex >= 3.
func (t Tile) Passable() bool { return t.TileTypeIndex >= 3 }

// Grid is the immutable static map.
type Grid struct {
	MapSize   int
	TileSize  float64
	TileHeight float64
	tiles     map[[2]int]Tile
}

// NewGrid builds a grid from a flat tile list (as delivered by the tile
// source collaborator, §6).
func NewGrid(mapSize int, tileSize, tileHeight float64, tiles []Tile) *Grid {
	g := &Grid{MapSize: mapSize, TileSize: tileSize, TileHeight: tileHeight, tiles: make(map[[2]int]Tile, len(tiles))}
	for _, t := range tiles {
		g.tiles[[2]int{t.GX, t.GZ}] = t
	}
	return g
}

// originOffset is the centered-origin offset used by both coordinate
// transforms: offset = mapSize*tileSize/2 - tileSize/2.
func (g *Grid) originOffset() float64 {
	return float64(g.MapSize)*g.TileSize/2 - g.TileSize/2
}

// WorldToGrid converts a world-space position to grid coordinates. Callers
// are responsible for clamping into [0, mapSize) before placement; this
// function performs no clamping itself.
func (g *Grid) WorldToGrid(x, z float64) (int, int) {
	offset := g.originOffset()
	gx := int(math.Round((x + offset) / g.TileSize))
	gz := int(math.Round((z + offset) / g.TileSize))
	return gx, gz
}

// GridToWorld converts grid coordinates back to a world-space position.
func (g *Grid) GridToWorld(gx, gz int) (float64, float64) {
	offset := g.originOffset()
	x := float64(gx)*g.TileSize - offset
	z := float64(gz)*g.TileSize - offset
	return x, z
}

// TileAt returns the tile at (gx, gz), or false when out of range or
// never populated.
func (g *Grid) TileAt(gx, gz int) (Tile, bool) {
	t, ok := g.tiles[[2]int{gx, gz}]
	return t, ok
}

// InBounds reports whether (gx, gz) is within [0, mapSize) on both axes.
func (g *Grid) InBounds(gx, gz int) bool {
	return gx >= 0 && gx < g.MapSize && gz >= 0 && gz < g.MapSize
}

// IsPassable reports whether (gx, gz) is in-bounds, known, and passable.
func (g *Grid) IsPassable(gx, gz int) bool {
	if !g.InBounds(gx, gz) {
		return false
	}
	t, ok := g.tiles[[2]int{gx, gz}]
	return ok && t.Passable()
}

// TileTop returns the height of the tile under the given world position,
// or 0 if no tile is known there.
func (g *Grid) TileTop(x, z float64) float64 {
	gx, gz := g.WorldToGrid(x, z)
	t, ok := g.TileAt(gx, gz)
	if !ok {
		return 0
	}
	return t.Height
}
