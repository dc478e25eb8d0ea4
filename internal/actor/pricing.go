/*
Package actor
File: pricing.go
Description:
    The pricing model (C6): integer producer price adjustments driven by
    storage vs. ideal band, and a continuous warehouse pricing curve.
    Producer prices are integral and purely additive (whole-number steps
    held in the same float64 price map as warehouse prices); warehouse
    storage and prices stay real-valued because recipes and warehouse
    slots use fractional capacityPerProduct.
*/

package actor

import "math"

// RecipeFloor computes the minimum unit price at which a processor may
// sell profitably (spec §4.6): ceil(sum(input.amount * minInputPrice) *
// (1 + margin)). Raw materials (no inputs) floor at 1.
func (s *State) RecipeFloor() float64 {
	if s.IsRawMaterial() {
		return 1
	}
	sum := 0.0
	for _, in := range s.Recipe {
		price, ok := s.MinInputPrices[in.ProductID]
		if !ok || math.IsInf(price, 1) {
			// No known seller for this input: the processor cannot price a
			// sale against it yet. Treat the input as free rather than
			// blocking the floor computation; the contract-maintenance
			// pass (not pricing) is what actually gates on reachability.
			continue
		}
		sum += float64(in.Amount) * price
	}
	floor := math.Ceil(sum * (1 + s.ProfitMargin))
	if floor < 1 {
		floor = 1
	}
	return floor
}

// UpdateProducerPrices applies one tick of producer pricing to every
// input and output slot (spec §4.6). No-op for warehouses.
func (s *State) UpdateProducerPrices() {
	if s.Kind != KindProducer {
		return
	}

	if out, ok := s.OutputStorage.Get(s.ProductID); ok {
		floor := s.RecipeFloor()
		price := s.Prices[s.ProductID]
		if price < 1 {
			price = 1
		}
		switch {
		case out.IsAboveIdeal():
			price = math.Max(price-1, floor)
		case out.IsBelowIdeal():
			price = price + 1
		}
		if price < floor {
			price = floor
		}
		s.Prices[s.ProductID] = price
	}

	s.InputStorage.Each(func(productID int, slot *Slot) {
		price := s.Prices[productID]
		if price < 1 {
			price = 1
		}
		switch {
		case slot.IsAboveIdeal():
			price = math.Max(price-1, 1)
		case slot.IsBelowIdeal():
			price = price + 1
		}
		s.Prices[productID] = price
	})
}

// WarehousePrice computes the continuous warehouse pricing curve (spec
// §4.6) for one output slot, without mutating persistent state (a
// warehouse has no stored price; it is always recomputed from storage).
func WarehousePrice(slot *Slot) float64 {
	if slot.Capacity <= 0 {
		return 1
	}
	r := slot.Current / slot.Capacity
	rStar := slot.Ideal / slot.Capacity

	if r >= rStar {
		denom := 1 - rStar
		if denom <= 0 {
			return 1
		}
		return math.Max(1, 1-0.75*(r-rStar)/denom)
	}
	if rStar <= 0 {
		return 1
	}
	return math.Max(1, 1+4*(rStar-r)/rStar)
}

// SellPrice returns the current asking price for productID from this
// actor's output side: the stored integer price for a producer, or the
// freshly computed curve value for a warehouse slot.
func (s *State) SellPrice(productID int) (float64, bool) {
	slot, ok := s.OutputStorage.Get(productID)
	if !ok {
		return 0, false
	}
	if s.Kind == KindWarehouse {
		return WarehousePrice(slot), true
	}
	price, ok := s.Prices[productID]
	if !ok {
		return 1, true
	}
	return price, true
}
