package sim

import (
	"testing"

	"github.com/everforgeworks/supplyline-core/internal/economy"
	"github.com/everforgeworks/supplyline-core/internal/worldmap"
	"github.com/stretchr/testify/require"
)

type fakeTiles struct {
	size int
}

func (f fakeTiles) MapConfig() (int, float64, float64) { return f.size, 1, 1 }
func (f fakeTiles) Tiles() []worldmap.Tile {
	var out []worldmap.Tile
	for x := 0; x < f.size; x++ {
		for z := 0; z < f.size; z++ {
			out = append(out, worldmap.Tile{GX: x, GZ: z, TileTypeIndex: 3, WorldX: float64(x), WorldZ: float64(z)})
		}
	}
	return out
}

type fakeObjects struct{ objs []ObjectRecord }

func (f fakeObjects) Objects() []ObjectRecord { return f.objs }

type fakeRoutes struct{}

func (fakeRoutes) Routes() []worldmap.Curve { return nil }

func TestEmptyEngineTicksAreNoOp(t *testing.T) {
	g := economy.NewGraph()
	e := NewEngine(DefaultConfig())
	e.Initialize(g, fakeTiles{size: 10}, fakeObjects{}, fakeRoutes{})

	for i := 0; i < 10; i++ {
		e.Tick()
	}
	require.Equal(t, 10, e.TickCount())
	require.Empty(t, e.AllActorStates())
	require.Empty(t, e.ActiveTraders())
}

func TestSingleRawMaterialProducerAccumulatesOutput(t *testing.T) {
	g := economy.NewGraph()
	_, err := g.Add("Ore", "", nil)
	require.NoError(t, err)

	e := NewEngine(DefaultConfig())
	e.Initialize(g, fakeTiles{size: 10}, fakeObjects{objs: []ObjectRecord{
		{ID: 1, Type: "PRODUCT_0", X: 0, Y: 0, Z: 0},
	}}, fakeRoutes{})

	for i := 0; i < 25; i++ {
		e.Tick()
	}

	s, ok := e.ActorState(1)
	require.True(t, ok)
	out, ok := s.OutputStorage.Get(0)
	require.True(t, ok)
	require.Equal(t, 20.0, out.Current)
	require.Equal(t, 25, s.TotalProduced)
}

func TestTwoStageChainFormsContractAboveRecipeFloor(t *testing.T) {
	g := economy.NewGraph()
	oreID, err := g.Add("Ore", "", nil)
	require.NoError(t, err)
	_, err = g.Add("Ingot", "", []economy.RecipeInput{{ProductID: oreID, Amount: 2}})
	require.NoError(t, err)

	e := NewEngine(DefaultConfig())
	e.Initialize(g, fakeTiles{size: 20}, fakeObjects{objs: []ObjectRecord{
		{ID: 1, Type: "PRODUCT_0", X: 0, Y: 0, Z: 0},
		{ID: 2, Type: "PRODUCT_1", X: 5, Y: 0, Z: 5},
	}}, fakeRoutes{})

	for i := 0; i < 400; i++ {
		e.Tick()
	}

	require.NotEmpty(t, e.contracts.Contracts(), "expected at least one discovered contract")
	for _, c := range e.contracts.Contracts() {
		src, ok := e.actors[c.SourceObjectID]
		require.True(t, ok)
		floor := src.RecipeFloor()
		require.GreaterOrEqual(t, float64(c.UnitPrice), floor)
	}
}

func TestSpeedClampedToRange(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.SetSpeed(100)
	require.Equal(t, 10.0, e.Speed())
	e.SetSpeed(0.001)
	require.Equal(t, 0.1, e.Speed())
}
