package contract

import (
	"testing"

	"github.com/everforgeworks/supplyline-core/internal/actor"
	"github.com/everforgeworks/supplyline-core/internal/economy"
	"github.com/stretchr/testify/require"
)

type fakeIndex struct {
	states map[int]*actor.State
	ids    []int
}

func (f *fakeIndex) Get(id int) (*actor.State, bool) { s, ok := f.states[id]; return s, ok }
func (f *fakeIndex) IDs() []int                       { return f.ids }

func newFakeIndex(states ...*actor.State) *fakeIndex {
	f := &fakeIndex{states: make(map[int]*actor.State)}
	for _, s := range states {
		f.states[s.ObjectID] = s
		f.ids = append(f.ids, s.ObjectID)
	}
	return f
}

type fakeCoster struct {
	cost map[[2]int]RouteCost
}

func (f *fakeCoster) Cost(from, to int) (RouteCost, bool) {
	c, ok := f.cost[[2]int{from, to}]
	return c, ok
}

func newCoster() *fakeCoster { return &fakeCoster{cost: make(map[[2]int]RouteCost)} }

func (f *fakeCoster) set(from, to int, transport, fuel float64) {
	f.cost[[2]int{from, to}] = RouteCost{TransportCost: transport, FuelCost: fuel}
}

func ore() economy.Product { return economy.Product{ID: 0, Name: "Ore"} }

func TestDiscoverCreatesCandidateContract(t *testing.T) {
	seller := actor.NewProducer(1, ore(), nil, 20, 20)
	out, _ := seller.OutputStorage.Get(0)
	out.Current = 5
	seller.Prices[0] = 2

	buyerProduct := economy.Product{ID: 1, Name: "Ingot", Inputs: []economy.RecipeInput{{ProductID: 0, Amount: 1}}}
	buyer := actor.NewProducer(2, buyerProduct, nil, 20, 20)

	idx := newFakeIndex(seller, buyer)
	coster := newCoster()
	coster.set(1, 2, 1.0, 0)

	b := NewBook(DefaultConfig())
	b.Discover(10, idx, coster, nil)

	require.Len(t, b.Contracts(), 1)
	c := b.Contracts()[0]
	require.Equal(t, 1, c.SourceObjectID)
	require.Equal(t, 2, c.DestinationObjectID)
	require.Equal(t, 0, c.ProductID)
	require.Equal(t, 2, c.UnitPrice)
	require.Equal(t, 10, c.CreatedTick)
}

func TestDiscoverRefreshesExistingContractInsteadOfDuplicating(t *testing.T) {
	seller := actor.NewProducer(1, ore(), nil, 20, 20)
	out, _ := seller.OutputStorage.Get(0)
	out.Current = 5

	buyerProduct := economy.Product{ID: 1, Name: "Ingot", Inputs: []economy.RecipeInput{{ProductID: 0, Amount: 1}}}
	buyer := actor.NewProducer(2, buyerProduct, nil, 20, 20)

	idx := newFakeIndex(seller, buyer)
	coster := newCoster()
	coster.set(1, 2, 1.0, 0)

	b := NewBook(DefaultConfig())
	b.Discover(1, idx, coster, nil)
	require.Len(t, b.Contracts(), 1)
	b.Discover(2, idx, coster, nil)
	require.Len(t, b.Contracts(), 1, "must refresh, not duplicate")
}

func TestMaintainDropsContractWithMissingEndpoint(t *testing.T) {
	b := NewBook(DefaultConfig())
	b.insert(&Contract{SourceObjectID: 1, DestinationObjectID: 99, ProductID: 0, UnitPrice: 5}, 0)

	seller := actor.NewProducer(1, ore(), nil, 20, 20)
	idx := newFakeIndex(seller)
	coster := newCoster()

	b.Maintain(1, idx, coster, nil)
	require.Empty(t, b.Contracts())
}

func TestMaintainDropsContractBelowRecipeFloor(t *testing.T) {
	ingot := economy.Product{ID: 1, Name: "Ingot", Inputs: []economy.RecipeInput{{ProductID: 0, Amount: 2}}}
	seller := actor.NewProducer(1, ingot, nil, 20, 20)
	seller.MinInputPrices[0] = 10 // recipe floor will be well above 1

	buyer := actor.NewWarehouse(2, []int{1}, 100)

	idx := newFakeIndex(seller, buyer)
	coster := newCoster()
	coster.set(1, 2, 1.0, 0)

	b := NewBook(DefaultConfig())
	b.insert(&Contract{SourceObjectID: 1, DestinationObjectID: 2, ProductID: 1, UnitPrice: 1}, 0)
	b.Maintain(1, idx, coster, nil)
	require.Empty(t, b.Contracts())
}

func TestInsertOrReplaceRespectsMinLifetimeAndMargin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxContractsPerActor = 1
	b := NewBook(cfg)

	b.insert(&Contract{SourceObjectID: 1, DestinationObjectID: 2, ProductID: 0, Score: 1.0}, 0)

	// Too early: candidate scores far higher but lifetime not yet elapsed.
	b.insertOrReplace(&Contract{SourceObjectID: 1, DestinationObjectID: 3, ProductID: 0, Score: 10.0}, 5)
	require.Len(t, b.Contracts(), 1)
	require.Equal(t, 2, b.Contracts()[0].DestinationObjectID)

	// Lifetime elapsed, margin exceeded: replacement happens.
	b.insertOrReplace(&Contract{SourceObjectID: 1, DestinationObjectID: 3, ProductID: 0, Score: 10.0}, 30)
	require.Len(t, b.Contracts(), 1)
	require.Equal(t, 3, b.Contracts()[0].DestinationObjectID)
}

func TestFindBestBuyerPicksHighestScoreWithLowestIDTieBreak(t *testing.T) {
	seller := actor.NewProducer(1, ore(), nil, 20, 20)
	out, _ := seller.OutputStorage.Get(0)
	out.Current = 5

	p := economy.Product{ID: 1, Name: "Ingot", Inputs: []economy.RecipeInput{{ProductID: 0, Amount: 1}}}
	buyerA := actor.NewProducer(3, p, nil, 20, 20)
	buyerB := actor.NewProducer(2, p, nil, 20, 20)

	idx := newFakeIndex(seller, buyerA, buyerB)
	coster := newCoster()
	coster.set(1, 3, 1.0, 0)
	coster.set(1, 2, 1.0, 0)

	id, _, found := findBestBuyer(1, 0, idx, coster, true, nil)
	require.True(t, found)
	require.Equal(t, 2, id, "equal scores must tie-break to the lower object id")
}
