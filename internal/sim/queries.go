/*
Package sim
File: queries.go
Description:
    Read-only observer queries (spec §6): actor_state, all_actor_states,
    active_traders, trader_world_position, path_metrics. All return cloned
    data — external callers never retain a reference that aliases
    engine-owned storage (spec §5).
*/

package sim

import (
	"github.com/everforgeworks/supplyline-core/internal/actor"
	"github.com/everforgeworks/supplyline-core/internal/economy"
	"github.com/everforgeworks/supplyline-core/internal/pathfind"
	"github.com/everforgeworks/supplyline-core/internal/transport"
)

// ActorState returns a cloned snapshot of one actor's state.
func (e *Engine) ActorState(id int) (*actor.State, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.actors[id]
	if !ok {
		return nil, false
	}
	return s.Clone(), true
}

// AllActorStates returns cloned snapshots of every actor, in creation order.
func (e *Engine) AllActorStates() []*actor.State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*actor.State, 0, len(e.actorOrder))
	for _, id := range e.actorOrder {
		out = append(out, e.actors[id].Clone())
	}
	return out
}

// ActiveTraders returns a snapshot of every in-flight trader.
func (e *Engine) ActiveTraders() []*transport.Trader {
	e.mu.RLock()
	defer e.mu.RUnlock()
	live := e.transports.Traders()
	out := make([]*transport.Trader, len(live))
	for i, t := range live {
		cp := *t
		cp.Path = append([]pathfind.Cell(nil), t.Path...)
		out[i] = &cp
	}
	return out
}

// TraderWorldPosition linearly interpolates a trader's position in
// grid-world space between path[path_index] and path[path_index+1].
func (e *Engine) TraderWorldPosition(t *transport.Trader) (float64, float64) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return t.WorldPosition(func(c pathfind.Cell) (float64, float64) {
		return e.grid.GridToWorld(c[0], c[1])
	})
}

// PathMetrics computes route_length/transport_cost/fuel_cost for an
// arbitrary path against the engine's current road set.
func (e *Engine) PathMetrics(path []pathfind.Cell) pathfind.PathMetrics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return pathfind.Metrics(path, e.roads)
}

// EconomyGraph returns the engine's live economy graph. Mutating it while
// the engine is running is undefined (spec §5); callers should Stop first.
func (e *Engine) EconomyGraph() *economy.Graph {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph
}
