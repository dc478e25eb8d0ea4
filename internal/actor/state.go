/*
Package actor
File: state.go
Description:
    Actor state (C5): a tagged variant (producer or warehouse) holding
    storage slots, a copy of the economy recipe, prices, and production
    progress. Replaces the source's runtime type strings ('PRODUCER',
    'WAREHOUSE', 'PRODUCT_<n>') with a parsed-once tagged variant, per the
    id-based-indirection design note in spec.md §9.
*/

package actor

import (
	"math"

	"github.com/everforgeworks/supplyline-core/internal/economy"
)

// Kind tags which variant an actor state is.
type Kind int

const (
	KindProducer Kind = iota
	KindWarehouse
)

// Status is the producer's last production-phase outcome.
type Status int

const (
	StatusIdle Status = iota
	StatusProducing
	StatusOutputFull
	StatusOutputSurplus
	StatusMissingInputs
)

const (
	// DefaultProductionRate is the producer default from spec §3 (1.0 unit/tick).
	DefaultProductionRate = 1.0
	// DefaultProfitMargin is the recipe-floor margin from spec §3/§4.6.
	DefaultProfitMargin = 0.05
	// DefaultIdealBandSize is the producer slot's default idealMax - idealMin.
	DefaultIdealBandSize = 3
)

// State is one actor: a producer (bound to exactly one product) or a
// warehouse (holds every product). Cross-references to other actors are
// always integer object ids, resolved through the owning engine — never
// pointers (spec.md §9's id-based-indirection design note).
type State struct {
	ObjectID  int
	Kind      Kind
	ProductID int // meaningful only for Kind == KindProducer

	Recipe []economy.RecipeInput // copied from the economy graph at construction

	InputStorage  *SlotMap // producers only
	OutputStorage *SlotMap // producers: one entry (ProductID); warehouses: every product

	Prices         map[int]float64 // producer prices are always integral; warehouse prices are real
	MinInputPrices map[int]float64 // buyer's cheapest-seller-plus-transport cost per input product; math.Inf(1) if unreachable
	ProfitMargin   float64

	ProductionRate     float64
	ProductionProgress float64
	Status             Status
	TotalProduced       int

	// FuelSlotID records which product id (if any) got an extra fuel input
	// slot added at construction, distinct from the producer's own recipe.
	FuelSlotID *int
}

// NewProducer builds a producer actor state for product p, given the
// designated fuel product (nil if none). Product ids are not validated
// here. inputCapacity/outputCapacity are taken as given; the engine's
// default configuration passes 20 for both.
func NewProducer(objectID int, p economy.Product, fuelProductID *int, inputCapacity, outputCapacity float64) *State {
	s := &State{
		ObjectID:       objectID,
		Kind:           KindProducer,
		ProductID:      p.ID,
		Recipe:         append([]economy.RecipeInput{}, p.Inputs...),
		InputStorage:   NewSlotMap(),
		OutputStorage:  NewSlotMap(),
		Prices:         make(map[int]float64),
		MinInputPrices: make(map[int]float64),
		ProfitMargin:   DefaultProfitMargin,
		ProductionRate: DefaultProductionRate,
	}

	for _, in := range p.Inputs {
		s.InputStorage.Set(in.ProductID, &Slot{
			ProductID: in.ProductID,
			Capacity:  inputCapacity,
			IdealMin:  0,
			IdealMax:  DefaultIdealBandSize,
		})
		s.Prices[in.ProductID] = 1
	}

	s.OutputStorage.Set(p.ID, &Slot{
		ProductID: p.ID,
		Capacity:  outputCapacity,
		IdealMin:  0,
		IdealMax:  DefaultIdealBandSize,
	})
	s.Prices[p.ID] = 1

	if fuelProductID != nil && *fuelProductID != p.ID &&
		!s.InputStorage.Has(*fuelProductID) && !s.OutputStorage.Has(*fuelProductID) {
		cap := math.Max(40, inputCapacity)
		fuelID := *fuelProductID
		s.InputStorage.Set(fuelID, &Slot{
			ProductID: fuelID,
			Capacity:  cap,
			IdealMin:  0,
			IdealMax:  int(math.Floor(cap / 2)),
		})
		s.Prices[fuelID] = 1
		s.FuelSlotID = &fuelID
	}

	return s
}

// NewWarehouse builds a warehouse actor state holding one output-side slot
// per product in productIDs, splitting totalCapacity evenly and centering
// each slot's ideal target at half its capacity (spec §4.5).
func NewWarehouse(objectID int, productIDs []int, totalCapacity float64) *State {
	s := &State{
		ObjectID:      objectID,
		Kind:          KindWarehouse,
		OutputStorage: NewSlotMap(),
		Prices:        make(map[int]float64),
		MinInputPrices: make(map[int]float64),
	}
	if len(productIDs) == 0 {
		return s
	}
	perProduct := totalCapacity / float64(len(productIDs))
	for _, id := range productIDs {
		s.OutputStorage.Set(id, &Slot{
			ProductID:   id,
			Capacity:    perProduct,
			Ideal:       perProduct / 2,
			IsWarehouse: true,
		})
	}
	return s
}

// IsRawMaterial reports whether this producer has no recipe inputs.
func (s *State) IsRawMaterial() bool {
	return s.Kind == KindProducer && len(s.Recipe) == 0
}

// OwnOutputSlot returns the producer's single output slot.
func (s *State) OwnOutputSlot() (*Slot, bool) {
	if s.Kind != KindProducer {
		return nil, false
	}
	return s.OutputStorage.Get(s.ProductID)
}

// Clone deep-copies the state, safe for external callers to retain (spec
// §5's snapshot rule: queries never alias engine-owned storage).
func (s *State) Clone() *State {
	cp := *s
	cp.Recipe = append([]economy.RecipeInput{}, s.Recipe...)
	if s.InputStorage != nil {
		cp.InputStorage = s.InputStorage.Clone()
	}
	if s.OutputStorage != nil {
		cp.OutputStorage = s.OutputStorage.Clone()
	}
	cp.Prices = make(map[int]float64, len(s.Prices))
	for k, v := range s.Prices {
		cp.Prices[k] = v
	}
	cp.MinInputPrices = make(map[int]float64, len(s.MinInputPrices))
	for k, v := range s.MinInputPrices {
		cp.MinInputPrices[k] = v
	}
	if s.FuelSlotID != nil {
		id := *s.FuelSlotID
		cp.FuelSlotID = &id
	}
	return &cp
}
