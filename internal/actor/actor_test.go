package actor

import (
	"testing"

	"github.com/everforgeworks/supplyline-core/internal/economy"
	"github.com/stretchr/testify/require"
)

func TestNewProducerInitialization(t *testing.T) {
	ore := economy.Product{ID: 0, Name: "Ore"}
	ingot := economy.Product{ID: 1, Name: "Ingot", Inputs: []economy.RecipeInput{{ProductID: 0, Amount: 2}}}

	s := NewProducer(1, ingot, nil, 20, 20)
	require.Equal(t, KindProducer, s.Kind)
	require.True(t, s.InputStorage.Has(ore.ID))
	in, _ := s.InputStorage.Get(ore.ID)
	require.Equal(t, 20.0, in.Capacity)
	require.Equal(t, 0, in.IdealMin)
	require.Equal(t, 3, in.IdealMax)

	out, ok := s.OwnOutputSlot()
	require.True(t, ok)
	require.Equal(t, 20.0, out.Capacity)
	require.Equal(t, 1.0, s.Prices[ingot.ID])
}

func TestNewProducerAddsFuelSlot(t *testing.T) {
	fuelID := 2
	ingot := economy.Product{ID: 1, Name: "Ingot", Inputs: []economy.RecipeInput{{ProductID: 0, Amount: 2}}}
	s := NewProducer(1, ingot, &fuelID, 20, 20)
	require.NotNil(t, s.FuelSlotID)
	fuel, ok := s.InputStorage.Get(fuelID)
	require.True(t, ok)
	require.Equal(t, 40.0, fuel.Capacity) // max(40, inputCapacity=20)
	require.Equal(t, 20, fuel.IdealMax)    // floor(40/2)
}

func TestNewProducerNoFuelSlotWhenFuelIsOwnProduct(t *testing.T) {
	fuelID := 1
	ingot := economy.Product{ID: 1, Name: "Ingot"}
	s := NewProducer(1, ingot, &fuelID, 20, 20)
	require.Nil(t, s.FuelSlotID)
}

func TestNewWarehouseSplitsCapacityEvenly(t *testing.T) {
	s := NewWarehouse(5, []int{0, 1, 2, 3}, 100)
	require.Equal(t, KindWarehouse, s.Kind)
	require.Equal(t, 4, s.OutputStorage.Len())
	slot, ok := s.OutputStorage.Get(0)
	require.True(t, ok)
	require.Equal(t, 25.0, slot.Capacity)
	require.Equal(t, 12.5, slot.Ideal)
}

func TestIdealBandShiftUpThenDownReturnsToOriginal(t *testing.T) {
	s := &Slot{Capacity: 20, IdealMin: 5, IdealMax: 8}
	s.ShiftIdealBand(1)
	s.ShiftIdealBand(-1)
	require.Equal(t, 5, s.IdealMin)
	require.Equal(t, 8, s.IdealMax)
}

func TestWithdrawToZeroShiftsBandUp(t *testing.T) {
	s := &Slot{Capacity: 20, Current: 1, IdealMin: 0, IdealMax: 3}
	s.Withdraw(1)
	require.Equal(t, 0.0, s.Current)
	require.Equal(t, 1, s.IdealMin)
	require.Equal(t, 4, s.IdealMax)
}

func TestDepositToCapacityShiftsBandDown(t *testing.T) {
	s := &Slot{Capacity: 20, Current: 19, IdealMin: 1, IdealMax: 4}
	s.Deposit(5)
	require.Equal(t, 20.0, s.Current)
	require.Equal(t, 0, s.IdealMin)
	require.Equal(t, 3, s.IdealMax)
}

func TestIsAboveIdealStrict(t *testing.T) {
	s := &Slot{Capacity: 20, Current: 3, IdealMax: 3}
	require.False(t, s.IsAboveIdeal())
	s.Current = 4
	require.True(t, s.IsAboveIdeal())
}

func TestProducerOutputPriceDropsToFloorNotBelow(t *testing.T) {
	ore := economy.Product{ID: 0, Name: "Ore"}
	s := NewProducer(1, ore, nil, 20, 20)
	out, _ := s.OwnOutputSlot()
	out.Current = float64(out.IdealMax) + 1 // above ideal
	s.Prices[ore.ID] = 1
	s.UpdateProducerPrices()
	require.Equal(t, 1.0, s.Prices[ore.ID]) // raw material floor is 1, can't go below
}

func TestProducerOutputPriceRisesUnboundedWhenScarce(t *testing.T) {
	ore := economy.Product{ID: 0, Name: "Ore"}
	s := NewProducer(1, ore, nil, 20, 20)
	out, _ := s.OwnOutputSlot()
	out.Current = 0
	out.IdealMin = 1
	s.Prices[ore.ID] = 5
	s.UpdateProducerPrices()
	require.Equal(t, 6.0, s.Prices[ore.ID])
}

func TestWarehousePriceAtIdealIsOne(t *testing.T) {
	slot := &Slot{Capacity: 100, Current: 50, Ideal: 50, IsWarehouse: true}
	require.Equal(t, 1.0, WarehousePrice(slot))
}

func TestWarehousePriceRisesWhenScarce(t *testing.T) {
	slot := &Slot{Capacity: 100, Current: 0, Ideal: 50, IsWarehouse: true}
	require.Equal(t, 5.0, WarehousePrice(slot)) // 1 + 4*(0.5-0)/0.5 = 5
}

func TestWarehousePriceClampsToOneWhenSurplus(t *testing.T) {
	// Formula: max(1, 1 - 0.75*(r-r*)/(1-r*)). For any r in [r*, 1], the
	// unclamped term (r-r*)/(1-r*) is itself in [0, 1], so 1-0.75*term is
	// always in [0.25, 1] — the outer max(1, ...) clamps every surplus
	// level to exactly 1, regardless of how far above ideal it is.
	slight := &Slot{Capacity: 100, Current: 51, Ideal: 50, IsWarehouse: true}
	full := &Slot{Capacity: 100, Current: 100, Ideal: 50, IsWarehouse: true}
	require.Equal(t, 1.0, WarehousePrice(slight))
	require.Equal(t, 1.0, WarehousePrice(full))
}

func TestRecipeFloorIncludesMarginAndSkipsUnknownInputs(t *testing.T) {
	ingot := economy.Product{ID: 1, Name: "Ingot", Inputs: []economy.RecipeInput{{ProductID: 0, Amount: 2}, {ProductID: 5, Amount: 1}}}
	s := NewProducer(1, ingot, nil, 20, 20)
	s.MinInputPrices[0] = 3
	// Input 5 has no known price and is skipped: ceil(2*3*1.05) = ceil(6.3) = 7
	require.Equal(t, 7.0, s.RecipeFloor())
}
