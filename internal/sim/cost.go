/*
Package sim
File: cost.go
Description:
    The engine-owned path cache and the small adapter types that let
    internal/contract operate against engine state without importing it
    (avoiding an import cycle: contract is a lower-level package that
    the engine depends on, not the reverse).
*/

package sim

import (
	"github.com/everforgeworks/supplyline-core/internal/actor"
	"github.com/everforgeworks/supplyline-core/internal/contract"
	"github.com/everforgeworks/supplyline-core/internal/pathfind"
)

// engineActorIndex adapts the engine's actor table to contract.ActorIndex.
type engineActorIndex struct{ e *Engine }

func (i engineActorIndex) Get(id int) (*actor.State, bool) {
	s, ok := i.e.actors[id]
	return s, ok
}

func (i engineActorIndex) IDs() []int { return i.e.actorOrder }

// engineCoster adapts the engine's path cache to contract.RouteCoster.
// Key (source_id, destination_id); value is the path or nil (spec §5: "key
// (source_id, destination_id); value is the path or None").
type engineCoster struct{ e *Engine }

func (c engineCoster) Cost(fromObjectID, toObjectID int) (contract.RouteCost, bool) {
	key := [2]int{fromObjectID, toObjectID}
	entry, ok := c.e.pathCache[key]
	if !ok {
		entry = &pathCacheEntry{}
		if fromCell, ok1 := c.e.actorCell[fromObjectID]; ok1 {
			if toCell, ok2 := c.e.actorCell[toObjectID]; ok2 {
				entry.path = pathfind.FindPath(c.e.grid, c.e.roads, fromCell, toCell)
			}
		}
		c.e.pathCache[key] = entry
	}
	if entry.path == nil {
		return contract.RouteCost{}, false
	}
	m := pathfind.Metrics(entry.path, c.e.roads)
	return contract.RouteCost{TransportCost: m.TransportCost, FuelCost: m.FuelCost, Path: entry.path}, true
}
