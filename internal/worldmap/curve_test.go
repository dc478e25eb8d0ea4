package worldmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPolylineCurveEndpointsMatchWaypoints(t *testing.T) {
	c := PolylineCurve{Waypoints: []Waypoint{{X: 0, Z: 0}, {X: 10, Z: 0}, {X: 10, Z: 10}}}
	x, z := c.PointAt(0)
	require.Equal(t, 0.0, x)
	require.Equal(t, 0.0, z)

	x, z = c.PointAt(1)
	require.Equal(t, 10.0, x)
	require.Equal(t, 10.0, z)
}

func TestPolylineCurveMidpointOnEqualSegmentsIsCorner(t *testing.T) {
	c := PolylineCurve{Waypoints: []Waypoint{{X: 0, Z: 0}, {X: 10, Z: 0}, {X: 10, Z: 10}}}
	x, z := c.PointAt(0.5)
	require.InDelta(t, 10.0, x, 1e-9)
	require.InDelta(t, 0.0, z, 1e-9)
}

func TestPolylineCurveSingleWaypointIsConstant(t *testing.T) {
	c := PolylineCurve{Waypoints: []Waypoint{{X: 5, Z: 7}}}
	x, z := c.PointAt(0.3)
	require.Equal(t, 5.0, x)
	require.Equal(t, 7.0, z)
}
