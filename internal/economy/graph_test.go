package economy

import (
	"testing"

	"github.com/everforgeworks/supplyline-core/internal/simerr"
	"github.com/stretchr/testify/require"
)

func TestAddRejectsMissingInput(t *testing.T) {
	g := NewGraph()
	_, err := g.Add("Ingot", "", []RecipeInput{{ProductID: 99, Amount: 2}})
	require.Error(t, err)
}

func TestAddRejectsEmptyName(t *testing.T) {
	g := NewGraph()
	_, err := g.Add("", "", nil)
	require.Error(t, err)
}

func TestUpdateRejectsCycle(t *testing.T) {
	g := NewGraph()
	oreID, err := g.Add("Ore", "", nil)
	require.NoError(t, err)

	ingotID, err := g.Add("Ingot", "", []RecipeInput{{ProductID: oreID, Amount: 2}})
	require.NoError(t, err)

	// Ore -> depends on Ingot would close a cycle Ore -> Ingot -> Ore.
	err = g.Update(oreID, "Ore", "", []RecipeInput{{ProductID: ingotID, Amount: 1}})
	require.ErrorIs(t, err, simerr.CycleViolation)
}

func TestUpdateRejectsSelfReference(t *testing.T) {
	g := NewGraph()
	id, err := g.Add("Ore", "", nil)
	require.NoError(t, err)

	err = g.Update(id, "Ore", "", []RecipeInput{{ProductID: id, Amount: 1}})
	require.Error(t, err)
}

func TestDeleteRejectsWhenDependentsExist(t *testing.T) {
	g := NewGraph()
	oreID, err := g.Add("Ore", "", nil)
	require.NoError(t, err)
	_, err = g.Add("Ingot", "", []RecipeInput{{ProductID: oreID, Amount: 2}})
	require.NoError(t, err)

	err = g.Delete(oreID)
	require.Error(t, err)
}

func TestTopologicalOrderRespectsDependencies(t *testing.T) {
	g := NewGraph()
	oreID, _ := g.Add("Ore", "", nil)
	ingotID, _ := g.Add("Ingot", "", []RecipeInput{{ProductID: oreID, Amount: 2}})
	_, _ = g.Add("Gear", "", []RecipeInput{{ProductID: ingotID, Amount: 1}})

	order := g.TopologicalOrder()
	pos := make(map[int]int)
	for i, id := range order {
		pos[id] = i
	}
	require.Less(t, pos[oreID], pos[ingotID])
}

func TestDepths(t *testing.T) {
	g := NewGraph()
	oreID, _ := g.Add("Ore", "", nil)
	ingotID, _ := g.Add("Ingot", "", []RecipeInput{{ProductID: oreID, Amount: 2}})
	gearID, _ := g.Add("Gear", "", []RecipeInput{{ProductID: ingotID, Amount: 1}})

	depths := g.Depths()
	require.Equal(t, 0, depths[oreID])
	require.Equal(t, 1, depths[ingotID])
	require.Equal(t, 2, depths[gearID])
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	g := NewGraph()
	oreID, _ := g.Add("Ore", "icon.png", nil)
	_, _ = g.Add("Ingot", "", []RecipeInput{{ProductID: oreID, Amount: 2}})
	require.NoError(t, g.SetFuel(&oreID))

	data, err := g.Serialize()
	require.NoError(t, err)

	reloaded, err := Deserialize(data)
	require.NoError(t, err)

	require.Equal(t, g.NextProductID(), reloaded.NextProductID())
	fuelID, ok := reloaded.FuelID()
	require.True(t, ok)
	require.Equal(t, oreID, fuelID)
	require.Len(t, reloaded.Products(), len(g.Products()))
}

func TestDeserializeRejectsWrongVersion(t *testing.T) {
	_, err := Deserialize([]byte(`{"version":1,"nodes":[]}`))
	require.Error(t, err)
}

func TestLoadFixtureResolvesNamesInOrder(t *testing.T) {
	yamlDoc := []byte(`
products:
  - name: Ore
  - name: Ingot
    inputs:
      - product: Ore
        amount: 2
fuel: Ore
`)
	g, err := LoadFixture(yamlDoc)
	require.NoError(t, err)
	require.Len(t, g.Products(), 2)
	_, ok := g.FuelID()
	require.True(t, ok)
}

func TestLoadFixtureRejectsForwardReference(t *testing.T) {
	yamlDoc := []byte(`
products:
  - name: Ingot
    inputs:
      - product: Ore
        amount: 2
  - name: Ore
`)
	_, err := LoadFixture(yamlDoc)
	require.Error(t, err)
}
