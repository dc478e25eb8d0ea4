/*
Package contract
File: book.go
Description:
    The contract book (C7): discovery, maintenance, replacement, and
    per-actor quotas for point-to-point supply contracts, plus the
    best-buyer scoring rule that drives discovery. Execution (§4.7 step 5)
    is not in this package: the engine iterates Contracts() and creates
    traders through the transport layer itself, so this package never
    imports internal/transport.
*/

package contract

import (
	"math"

	"github.com/everforgeworks/supplyline-core/internal/actor"
	"github.com/everforgeworks/supplyline-core/internal/economy"
	"github.com/everforgeworks/supplyline-core/internal/pathfind"
)

// Config holds the book's tunables (spec §4.7), overridable from
// internal/config so a deployment can tighten or loosen them without a
// code change.
type Config struct {
	MaxContractsPerActor            int
	MaxConcurrentTradersPerContract int
	MinContractLifetimeTicks        int
	ReplacementMargin                float64
	FuelScoringEnabled               bool
}

// DefaultConfig returns the spec's §4.7 default tunables.
func DefaultConfig() Config {
	return Config{
		MaxContractsPerActor:            10,
		MaxConcurrentTradersPerContract: 3,
		MinContractLifetimeTicks:        25,
		ReplacementMargin:                1.25,
		FuelScoringEnabled:               true,
	}
}

// Contract is one point-to-point supply agreement (spec §3).
type Contract struct {
	ID                  int
	SourceObjectID      int
	DestinationObjectID int
	ProductID           int
	AmountPerShipment   int
	UnitPrice           int
	Score               float64
	CreatedTick         int
}

// ActorIndex is the read access the book needs into the engine's actor
// table: lookup by id, and a fixed iteration order over all known ids.
type ActorIndex interface {
	Get(id int) (*actor.State, bool)
	IDs() []int
}

// RouteCost is what the engine's cached path finder reports for a
// source->destination pair: the planner's transport-cost metric (used for
// scoring), the fuel cost that would be debited on departure, and the
// concrete tile path a trader would walk if the contract executes.
type RouteCost struct {
	TransportCost float64
	FuelCost      float64
	Path          []pathfind.Cell
}

// RouteCoster resolves the cost of moving between two actors, backed by
// the engine's path cache (cleared on re-initialize, per spec §4.9).
type RouteCoster interface {
	Cost(fromObjectID, toObjectID int) (RouteCost, bool)
}

// Book owns the live contract list and id allocation.
type Book struct {
	cfg       Config
	contracts []*Contract
	byID      map[int]*Contract
	nextID    int
}

// NewBook returns an empty contract book with the given tunables.
func NewBook(cfg Config) *Book {
	return &Book{cfg: cfg, byID: make(map[int]*Contract)}
}

// Contracts returns all live contracts in creation order.
func (b *Book) Contracts() []*Contract { return append([]*Contract{}, b.contracts...) }

// NextContractID returns the id the next created contract will receive.
func (b *Book) NextContractID() int { return b.nextID }

// Reset clears all contracts and resets id allocation (used by
// re-initialize and by save/load).
func (b *Book) Reset() {
	b.contracts = nil
	b.byID = make(map[int]*Contract)
	b.nextID = 0
}

// Restore replaces the live contract list verbatim (used by deserialize);
// nextID must be provided by the caller since it may exceed the max id in
// the list (ids are never reused within a save's lifetime).
func (b *Book) Restore(contracts []*Contract, nextID int) {
	b.contracts = append([]*Contract{}, contracts...)
	b.byID = make(map[int]*Contract, len(contracts))
	for _, c := range b.contracts {
		b.byID[c.ID] = c
	}
	b.nextID = nextID
}

func (b *Book) touching(actorID int) []*Contract {
	var out []*Contract
	for _, c := range b.contracts {
		if c.SourceObjectID == actorID || c.DestinationObjectID == actorID {
			out = append(out, c)
		}
	}
	return out
}

func (b *Book) countTouching(actorID int) int { return len(b.touching(actorID)) }

func (b *Book) findExisting(sourceID, destID, productID int) *Contract {
	for _, c := range b.contracts {
		if c.SourceObjectID == sourceID && c.DestinationObjectID == destID && c.ProductID == productID {
			return c
		}
	}
	return nil
}

func (b *Book) remove(id int) {
	delete(b.byID, id)
	for i, c := range b.contracts {
		if c.ID == id {
			b.contracts = append(b.contracts[:i], b.contracts[i+1:]...)
			return
		}
	}
}

func (b *Book) insert(c *Contract, tick int) {
	c.ID = b.nextID
	b.nextID++
	c.CreatedTick = tick
	b.contracts = append(b.contracts, c)
	b.byID[c.ID] = c
}

// sourceMinAcceptablePrice is the recipe floor for a processor selling
// productID, or 1 for anything else (a raw-material producer's own
// product, or a warehouse re-selling stock it doesn't manufacture).
func sourceMinAcceptablePrice(src *actor.State, productID int) float64 {
	if src.Kind == actor.KindProducer && src.ProductID == productID {
		return src.RecipeFloor()
	}
	return 1
}

// destinationSlot resolves the storage slot a delivery of productID would
// land in: a producer's input slot, or a warehouse's output slot.
func destinationSlot(dst *actor.State, productID int) (*actor.Slot, bool) {
	if dst.Kind == actor.KindProducer {
		return dst.InputStorage.Get(productID)
	}
	return dst.OutputStorage.Get(productID)
}

// fuelHeld returns how much of the fuel product a seller currently has on
// hand, checking its output slot first (a fuel producer selling its own
// product) then its input slot (a fuel consumer holding a reserve).
func fuelHeld(s *actor.State, fuelProductID int) float64 {
	if slot, ok := s.OutputStorage.Get(fuelProductID); ok {
		return slot.Current
	}
	if slot, ok := s.InputStorage.Get(fuelProductID); ok {
		return slot.Current
	}
	return 0
}

// RecomputeMinInputPrices is trade-evaluation step 1 (spec §4.7): for
// every producer buyer and every recipe input, find the cheapest seller
// via the cached path cost, skipping sellers with empty stock or no path.
func RecomputeMinInputPrices(actors ActorIndex, coster RouteCoster) {
	for _, buyerID := range actors.IDs() {
		buyer, _ := actors.Get(buyerID)
		if buyer.Kind != actor.KindProducer {
			continue
		}
		for _, in := range buyer.Recipe {
			best := math.Inf(1)
			for _, sellerID := range actors.IDs() {
				if sellerID == buyerID {
					continue
				}
				seller, _ := actors.Get(sellerID)
				sellPrice, ok := seller.SellPrice(in.ProductID)
				if !ok {
					continue
				}
				slot, _ := seller.OutputStorage.Get(in.ProductID)
				if slot == nil || slot.Current <= 0 {
					continue
				}
				cost, reachable := coster.Cost(sellerID, buyerID)
				if !reachable {
					continue
				}
				total := sellPrice + cost.TransportCost
				if total < best {
					best = total
				}
			}
			buyer.MinInputPrices[in.ProductID] = best
		}
	}
}

// Maintain is trade-evaluation step 2 (spec §4.7): drop contracts whose
// endpoint vanished, whose source can no longer sell profitably at the
// agreed price, or whose destination is already above its ideal band;
// otherwise refresh the score if the destination is still the best buyer.
func (b *Book) Maintain(tick int, actors ActorIndex, coster RouteCoster, fuelProductID *int) {
	var kept []*Contract
	for _, c := range b.contracts {
		src, srcOK := actors.Get(c.SourceObjectID)
		dst, dstOK := actors.Get(c.DestinationObjectID)
		if !srcOK || !dstOK {
			delete(b.byID, c.ID)
			continue
		}
		if sourceMinAcceptablePrice(src, c.ProductID) > float64(c.UnitPrice) {
			delete(b.byID, c.ID)
			continue
		}
		slot, ok := destinationSlot(dst, c.ProductID)
		if !ok || slot.IsAboveIdeal() {
			delete(b.byID, c.ID)
			continue
		}
		if bestID, score, found := findBestBuyer(c.SourceObjectID, c.ProductID, actors, coster, b.cfg.FuelScoringEnabled, fuelProductID); found && bestID == c.DestinationObjectID {
			c.Score = score
		}
		kept = append(kept, c)
	}
	b.contracts = kept
}

// findBestBuyer implements spec §4.7's best-buyer selection rule.
func findBestBuyer(sellerID, productID int, actors ActorIndex, coster RouteCoster, fuelScoringEnabled bool, fuelProductID *int) (bestID int, bestScore float64, found bool) {
	seller, _ := actors.Get(sellerID)

	for _, candidateID := range actors.IDs() {
		if candidateID == sellerID {
			continue
		}
		candidate, _ := actors.Get(candidateID)

		var current, capacity, idealEquivalent float64
		if candidate.Kind == actor.KindProducer {
			slot, ok := candidate.InputStorage.Get(productID)
			if !ok || !(slot.Current < float64(slot.IdealMax) && slot.Current < slot.Capacity) {
				continue
			}
			current, capacity, idealEquivalent = slot.Current, slot.Capacity, float64(slot.IdealMax)
		} else {
			slot, ok := candidate.OutputStorage.Get(productID)
			if !ok || !(slot.Current <= slot.Ideal && slot.Current < slot.Capacity) {
				continue
			}
			current, capacity, idealEquivalent = slot.Current, slot.Capacity, slot.Ideal
		}

		cost, reachable := coster.Cost(sellerID, candidateID)
		if !reachable {
			continue
		}
		if fuelProductID != nil && fuelHeld(seller, *fuelProductID) < cost.FuelCost {
			continue
		}

		deficit := idealEquivalent - current
		if deficit <= 0 {
			continue
		}
		score := (deficit / capacity) / (1 + cost.TransportCost)

		if fuelScoringEnabled && fuelProductID != nil && productID == *fuelProductID {
			listsFuelAsInput := false
			if candidate.Kind == actor.KindProducer {
				for _, in := range candidate.Recipe {
					if in.ProductID == *fuelProductID {
						listsFuelAsInput = true
						break
					}
				}
			}
			if !listsFuelAsInput {
				score *= 0.2
			}
		}

		if !found || score > bestScore || (score == bestScore && candidateID < bestID) {
			bestID, bestScore, found = candidateID, score, true
		}
	}
	return
}

// Discover is trade-evaluation step 3+4 (spec §4.7): for each actor ×
// output-product with stock, find the best buyer and either refresh an
// existing contract's score or try to insert a new candidate contract.
func (b *Book) Discover(tick int, actors ActorIndex, coster RouteCoster, fuelProductID *int) {
	for _, sellerID := range actors.IDs() {
		seller, _ := actors.Get(sellerID)
		seller.OutputStorage.Each(func(productID int, slot *actor.Slot) {
			if slot.Current < 1 {
				return
			}
			buyerID, score, found := findBestBuyer(sellerID, productID, actors, coster, b.cfg.FuelScoringEnabled, fuelProductID)
			if !found {
				return
			}
			if existing := b.findExisting(sellerID, buyerID, productID); existing != nil {
				existing.Score = score
				return
			}
			sellPrice, _ := seller.SellPrice(productID)
			candidate := &Contract{
				SourceObjectID:      sellerID,
				DestinationObjectID: buyerID,
				ProductID:           productID,
				AmountPerShipment:   maxInt(1, int(math.Floor(slot.Capacity/float64(b.cfg.MaxContractsPerActor)))),
				UnitPrice:           int(math.Ceil(sellPrice)),
				Score:               score,
			}
			b.insertOrReplace(candidate, tick)
		})
	}
}

// insertOrReplace is spec §4.7 step 4.
func (b *Book) insertOrReplace(candidate *Contract, tick int) {
	srcCount := b.countTouching(candidate.SourceObjectID)
	dstCount := b.countTouching(candidate.DestinationObjectID)

	if srcCount < b.cfg.MaxContractsPerActor && dstCount < b.cfg.MaxContractsPerActor {
		b.insert(candidate, tick)
		return
	}

	var saturatedTouching []*Contract
	if srcCount >= b.cfg.MaxContractsPerActor {
		saturatedTouching = append(saturatedTouching, b.touching(candidate.SourceObjectID)...)
	}
	if dstCount >= b.cfg.MaxContractsPerActor {
		saturatedTouching = append(saturatedTouching, b.touching(candidate.DestinationObjectID)...)
	}
	if len(saturatedTouching) == 0 {
		return
	}

	worst := saturatedTouching[0]
	for _, c := range saturatedTouching[1:] {
		if c.Score < worst.Score {
			worst = c
		}
	}

	if worst.CreatedTick+b.cfg.MinContractLifetimeTicks > tick {
		return
	}
	if candidate.Score <= worst.Score*b.cfg.ReplacementMargin {
		return
	}
	b.remove(worst.ID)
	b.insert(candidate, tick)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
