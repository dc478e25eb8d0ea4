/*
Package worldmap
File: roads.go
Description:
    The road index (C3): the set of grid cells covered by route curves,
    derived by sampling each curve at a fixed density and snapping to grid.
    Deterministic given route waypoints; recomputed whenever routes change.
*/

package worldmap

// RoadSampleCount is the number of equally spaced parameter samples taken
// per route curve, per spec §4.3 (101 samples covering t in [0,1]).
const RoadSampleCount = 101

// Curve is the minimal collaborator interface a route exposes: a point in
// world space for a parameter t in [0,1].
type Curve interface {
	PointAt(t float64) (x, z float64)
}

// RoadSet is the set of grid cells covered by at least one route.
type RoadSet map[[2]int]struct{}

// Contains reports whether (gx, gz) is covered by a road.
func (r RoadSet) Contains(gx, gz int) bool {
	_, ok := r[[2]int{gx, gz}]
	return ok
}

// ComputeRoads samples every curve at RoadSampleCount equally spaced
// parameter values, transforms each sample to grid coordinates, keeps
// those inside bounds, and unions the result. Computing twice from the
// same waypoints yields the same set (idempotent).
func ComputeRoads(grid *Grid, curves []Curve) RoadSet {
	roads := make(RoadSet)
	if RoadSampleCount < 2 {
		return roads
	}
	step := 1.0 / float64(RoadSampleCount-1)
	for _, c := range curves {
		for i := 0; i < RoadSampleCount; i++ {
			t := float64(i) * step
			x, z := c.PointAt(t)
			gx, gz := grid.WorldToGrid(x, z)
			if grid.InBounds(gx, gz) {
				roads[[2]int{gx, gz}] = struct{}{}
			}
		}
	}
	return roads
}
