/*
Package transport
File: trader.go
Description:
    The transport layer (C8): traders in flight between two actors, the
    atomic creation routine that debits stock and fuel before a trader is
    allowed to exist, and per-tick advancement/delivery.
*/

package transport

import (
	"math"

	"github.com/everforgeworks/supplyline-core/internal/actor"
	"github.com/everforgeworks/supplyline-core/internal/pathfind"
)

// Trader is one shipment in flight along a cached path.
type Trader struct {
	ID                  int
	ContractID          int
	SourceObjectID      int
	DestinationObjectID int
	ProductID           int
	Amount              int
	Path                []pathfind.Cell
	PathIndex           int
	Progress            float64 // distance travelled within the current path segment, in cells
	Speed               float64 // cells per tick, spec default 1.0
	Delivered           bool
}

// DefaultSpeed is the trader movement-speed default (spec §4.8).
const DefaultSpeed = 1.0

// Layer owns the set of in-flight traders and id allocation.
type Layer struct {
	traders []*Trader
	byID    map[int]*Trader
	nextID  int
}

// NewLayer returns an empty transport layer.
func NewLayer() *Layer {
	return &Layer{byID: make(map[int]*Trader)}
}

// Traders returns all in-flight traders in creation order.
func (l *Layer) Traders() []*Trader { return append([]*Trader{}, l.traders...) }

// Count returns the number of traders currently in flight.
func (l *Layer) Count() int { return len(l.traders) }

// CountForContract returns how many in-flight traders belong to contractID.
func (l *Layer) CountForContract(contractID int) int {
	n := 0
	for _, t := range l.traders {
		if t.ContractID == contractID {
			n++
		}
	}
	return n
}

// Reset clears all in-flight traders and resets id allocation.
func (l *Layer) Reset() {
	l.traders = nil
	l.byID = make(map[int]*Trader)
	l.nextID = 0
}

// Restore replaces the live trader list verbatim (used by deserialize).
func (l *Layer) Restore(traders []*Trader, nextID int) {
	l.traders = append([]*Trader{}, traders...)
	l.byID = make(map[int]*Trader, len(traders))
	for _, t := range l.traders {
		l.byID[t.ID] = t
	}
	l.nextID = nextID
}

// NextTraderID returns the id the next created trader will receive.
func (l *Layer) NextTraderID() int { return l.nextID }

// fuelSlotFor resolves which slot holds source's fuel: its output slot (a
// fuel producer selling its own product) or input slot (a fuel consumer's
// reserve). Returns nil if source holds no fuel at all.
func fuelSlotFor(source *actor.State, fuelProductID int) *actor.Slot {
	if slot, ok := source.OutputStorage.Get(fuelProductID); ok {
		return slot
	}
	if slot, ok := source.InputStorage.Get(fuelProductID); ok {
		return slot
	}
	return nil
}

// CreateTrader is the atomic trader-creation routine (spec §4.8): resolve
// the source's output slot for productID, resolve its fuel slot (if fuel
// is enabled), and debit fuel then stock only if both can be satisfied in
// full — a partial debit is never left behind. Returns (nil, false) if the
// source cannot currently support this shipment.
func (l *Layer) CreateTrader(source *actor.State, contractID, destinationObjectID, productID, amount int, path []pathfind.Cell, fuelProductID *int, fuelCost float64) (*Trader, bool) {
	outSlot, ok := source.OutputStorage.Get(productID)
	if !ok || outSlot.Current < float64(amount) {
		return nil, false
	}

	sameSlotIsFuel := fuelProductID != nil && *fuelProductID == productID

	if fuelProductID != nil && fuelCost > 0 {
		fuelSlot := fuelSlotFor(source, *fuelProductID)
		if fuelSlot == nil {
			return nil, false
		}
		required := fuelCost
		if sameSlotIsFuel {
			// The product being shipped and the fuel are the same slot:
			// the slot must cover both the shipment amount and the fuel
			// cost before either is debited.
			required += float64(amount)
			if fuelSlot != outSlot || fuelSlot.Current < required {
				return nil, false
			}
		} else if fuelSlot.Current < required {
			return nil, false
		}
	}

	switch {
	case sameSlotIsFuel && fuelCost > 0:
		// One withdrawal covering both roles: two separate calls on the same
		// slot would risk double-shifting the ideal band if it empties
		// partway through.
		outSlot.Withdraw(float64(amount) + fuelCost)
	default:
		if fuelProductID != nil && fuelCost > 0 {
			fuelSlotFor(source, *fuelProductID).Withdraw(fuelCost)
		}
		outSlot.Withdraw(float64(amount))
	}

	t := &Trader{
		ID:                  l.nextID,
		ContractID:          contractID,
		SourceObjectID:      source.ObjectID,
		DestinationObjectID: destinationObjectID,
		ProductID:           productID,
		Amount:              amount,
		Path:                path,
		Speed:               DefaultSpeed,
	}
	l.nextID++
	l.traders = append(l.traders, t)
	l.byID[t.ID] = t
	return t, true
}

// Advance moves every in-flight trader one tick along its path and
// delivers any that reach the end (spec §4.8). Delivered traders are
// removed from the layer; destFn resolves the destination actor's
// delivery slot (a producer's input slot, or a warehouse's output slot).
func (l *Layer) Advance(destFn func(destinationObjectID, productID int) (*actor.Slot, bool)) {
	var remaining []*Trader
	for _, t := range l.traders {
		t.Progress += t.Speed
		for t.Progress >= 1 && t.PathIndex < len(t.Path)-1 {
			t.Progress -= 1
			t.PathIndex++
		}
		if t.PathIndex >= len(t.Path)-1 {
			if slot, ok := destFn(t.DestinationObjectID, t.ProductID); ok {
				deliverable := math.Min(float64(t.Amount), slot.FreeCapacity())
				slot.Deposit(deliverable)
			}
			delete(l.byID, t.ID)
			continue
		}
		remaining = append(remaining, t)
	}
	l.traders = remaining
}

// WorldPosition interpolates a trader's current map-space position between
// its path's two surrounding cells, for read-only client queries (spec
// §8). gridToWorld is typically worldmap.GridToWorld.
func (t *Trader) WorldPosition(gridToWorld func(cell pathfind.Cell) (float64, float64)) (float64, float64) {
	if len(t.Path) == 0 {
		return 0, 0
	}
	idx := t.PathIndex
	if idx >= len(t.Path) {
		idx = len(t.Path) - 1
	}
	fromX, fromY := gridToWorld(t.Path[idx])
	if idx >= len(t.Path)-1 {
		return fromX, fromY
	}
	toX, toY := gridToWorld(t.Path[idx+1])
	frac := t.Progress
	if frac > 1 {
		frac = 1
	}
	return fromX + (toX-fromX)*frac, fromY + (toY-fromY)*frac
}
