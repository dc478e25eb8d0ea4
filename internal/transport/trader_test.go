package transport

import (
	"testing"

	"github.com/everforgeworks/supplyline-core/internal/actor"
	"github.com/everforgeworks/supplyline-core/internal/economy"
	"github.com/everforgeworks/supplyline-core/internal/pathfind"
	"github.com/stretchr/testify/require"
)

func TestCreateTraderDebitsStockAndFuel(t *testing.T) {
	ore := economy.Product{ID: 0, Name: "Ore"}
	fuelID := 1
	src := actor.NewProducer(1, ore, &fuelID, 20, 20)
	out, _ := src.OutputStorage.Get(0)
	out.Current = 10
	fuel, _ := src.InputStorage.Get(fuelID)
	fuel.Current = 5

	l := NewLayer()
	path := []pathfind.Cell{{0, 0}, {1, 0}}
	tr, ok := l.CreateTrader(src, 1, 2, 0, 4, path, &fuelID, 1.5)
	require.True(t, ok)
	require.NotNil(t, tr)
	require.Equal(t, 6.0, out.Current)
	require.Equal(t, 3.5, fuel.Current)
	require.Equal(t, 1, l.Count())
}

func TestCreateTraderFailsWithoutEnoughFuel(t *testing.T) {
	ore := economy.Product{ID: 0, Name: "Ore"}
	fuelID := 1
	src := actor.NewProducer(1, ore, &fuelID, 20, 20)
	out, _ := src.OutputStorage.Get(0)
	out.Current = 10
	fuel, _ := src.InputStorage.Get(fuelID)
	fuel.Current = 0.5

	l := NewLayer()
	path := []pathfind.Cell{{0, 0}, {1, 0}}
	_, ok := l.CreateTrader(src, 1, 2, 0, 4, path, &fuelID, 1.5)
	require.False(t, ok)
	require.Equal(t, 10.0, out.Current) // nothing debited on failure
	require.Equal(t, 0.5, fuel.Current)
}

func TestCreateTraderFailsWithoutEnoughStock(t *testing.T) {
	ore := economy.Product{ID: 0, Name: "Ore"}
	src := actor.NewProducer(1, ore, nil, 20, 20)
	out, _ := src.OutputStorage.Get(0)
	out.Current = 2

	l := NewLayer()
	_, ok := l.CreateTrader(src, 1, 2, 0, 4, []pathfind.Cell{{0, 0}}, nil, 0)
	require.False(t, ok)
}

func TestAdvanceDeliversAtPathEnd(t *testing.T) {
	l := NewLayer()
	l.traders = []*Trader{{
		ID: 0, DestinationObjectID: 5, ProductID: 0, Amount: 3,
		Path: []pathfind.Cell{{0, 0}}, Speed: 1,
	}}

	destSlot := &actor.Slot{Capacity: 10, Current: 0}
	l.Advance(func(destID, productID int) (*actor.Slot, bool) {
		require.Equal(t, 5, destID)
		return destSlot, true
	})

	require.Equal(t, 0, l.Count())
	require.Equal(t, 3.0, destSlot.Current)
}

func TestAdvanceStepsAlongMultiCellPath(t *testing.T) {
	l := NewLayer()
	l.traders = []*Trader{{
		ID: 0, DestinationObjectID: 5, ProductID: 0, Amount: 1,
		Path: []pathfind.Cell{{0, 0}, {1, 0}, {2, 0}}, Speed: 1,
	}}
	l.Advance(func(int, int) (*actor.Slot, bool) { return nil, false })
	require.Equal(t, 1, l.Count())
	require.Equal(t, 1, l.traders[0].PathIndex)
}

func TestAdvanceClampsDeliveryToFreeCapacity(t *testing.T) {
	l := NewLayer()
	l.traders = []*Trader{{
		ID: 0, DestinationObjectID: 5, ProductID: 0, Amount: 10,
		Path: []pathfind.Cell{{0, 0}}, Speed: 1,
	}}
	destSlot := &actor.Slot{Capacity: 4, Current: 2}
	l.Advance(func(int, int) (*actor.Slot, bool) { return destSlot, true })
	require.Equal(t, 4.0, destSlot.Current) // clamped, not 12
}
