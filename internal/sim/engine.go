/*
Package sim
File: engine.go
Description:
    The simulation engine (C9): owns every mutable piece of simulation
    state and runs the four-phase deterministic tick. A single
    sync.RWMutex guards all of it, the same DataLock pattern the teacher
    server uses to let an HTTP/WS read layer query state concurrently
    with the one tick-driving goroutine without a second mutator ever
    existing.
*/

package sim

import (
	"math"
	"sync"

	"github.com/everforgeworks/supplyline-core/internal/actor"
	"github.com/everforgeworks/supplyline-core/internal/contract"
	"github.com/everforgeworks/supplyline-core/internal/economy"
	"github.com/everforgeworks/supplyline-core/internal/pathfind"
	"github.com/everforgeworks/supplyline-core/internal/transport"
	"github.com/everforgeworks/supplyline-core/internal/worldmap"
)

// Config holds the engine's tunables, normally sourced from
// internal/config (spec §4.9, §4.7).
type Config struct {
	TickIntervalMS         int
	DefaultSpeed           float64
	Contracts              contract.Config
	MaxActiveTradersFloor  int
	TradeEvalInterval      int
	WarehouseTotalCapacity float64
	ProducerInputCapacity  float64
	ProducerOutputCapacity float64
}

// DefaultConfig returns the spec's default tunables.
func DefaultConfig() Config {
	return Config{
		TickIntervalMS:         1000,
		DefaultSpeed:           1.0,
		Contracts:              contract.DefaultConfig(),
		MaxActiveTradersFloor:  50,
		TradeEvalInterval:      1,
		WarehouseTotalCapacity: 100,
		ProducerInputCapacity:  20,
		ProducerOutputCapacity: 20,
	}
}

// ObjectRecord is one placed object, as delivered by the object-store
// collaborator (spec §6). Type is "WAREHOUSE" or "PRODUCT_<n>".
type ObjectRecord struct {
	ID      int
	Type    string
	X, Y, Z float64
}

// ObjectSource is the object-store collaborator interface (spec §6).
type ObjectSource interface {
	Objects() []ObjectRecord
}

// RouteSource is the route-source collaborator interface (spec §6): each
// route exposes a parametric curve.
type RouteSource interface {
	Routes() []worldmap.Curve
}

// TileSource is the tile-source collaborator interface (spec §6).
type TileSource interface {
	Tiles() []worldmap.Tile
	MapConfig() (mapSize int, tileSize, tileHeight float64)
}

// Engine is the simulation core. Zero value is not usable; construct with
// NewEngine.
type Engine struct {
	mu sync.RWMutex

	cfg Config

	graph *economy.Graph
	grid  *worldmap.Grid
	roads worldmap.RoadSet

	actors     map[int]*actor.State
	actorOrder []int
	actorCell  map[int]pathfind.Cell

	contracts  *contract.Book
	transports *transport.Layer

	pathCache map[[2]int]*pathCacheEntry

	fuelProductID *int

	tickCount        int
	speed            float64
	running          bool
	lastTickTimeMS   int64
	tradeEvalCounter int

	onTick func(tickCount int)
}

type pathCacheEntry struct {
	path []pathfind.Cell
}

// NewEngine returns an idle, uninitialized engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:        cfg,
		actors:     make(map[int]*actor.State),
		actorCell:  make(map[int]pathfind.Cell),
		contracts:  contract.NewBook(cfg.Contracts),
		transports: transport.NewLayer(),
		pathCache:  make(map[[2]int]*pathCacheEntry),
		speed:      cfg.DefaultSpeed,
	}
}

// parseProductType parses an object type string of the form "PRODUCT_<n>".
func parseProductType(t string) (int, bool) {
	const prefix = "PRODUCT_"
	if len(t) <= len(prefix) || t[:len(prefix)] != prefix {
		return 0, false
	}
	n := 0
	for _, r := range t[len(prefix):] {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// Initialize rebuilds the grid and road set from the tile/route
// collaborators, places actors from the object-store collaborator, and
// clears all actor states, contracts, traders, the path cache, and the
// tick count (spec §8: "initialize() clears all actor states, contracts,
// traders, path cache; subsequent tick() with no placed objects is a
// no-op").
func (e *Engine) Initialize(graph *economy.Graph, tiles TileSource, objects ObjectSource, routes RouteSource) {
	e.mu.Lock()
	defer e.mu.Unlock()

	mapSize, tileSize, tileHeight := tiles.MapConfig()
	grid := worldmap.NewGrid(mapSize, tileSize, tileHeight, tiles.Tiles())
	roads := worldmap.ComputeRoads(grid, routes.Routes())

	e.graph = graph
	e.grid = grid
	e.roads = roads
	if id, ok := graph.FuelID(); ok {
		e.fuelProductID = &id
	} else {
		e.fuelProductID = nil
	}

	e.actors = make(map[int]*actor.State)
	e.actorOrder = nil
	e.actorCell = make(map[int]pathfind.Cell)
	e.contracts.Reset()
	e.transports.Reset()
	e.pathCache = make(map[[2]int]*pathCacheEntry)
	e.tickCount = 0
	e.tradeEvalCounter = 0

	var allProductIDs []int
	for _, p := range graph.Products() {
		allProductIDs = append(allProductIDs, p.ID)
	}

	for _, obj := range objects.Objects() {
		var s *actor.State
		switch {
		case obj.Type == "WAREHOUSE":
			s = actor.NewWarehouse(obj.ID, allProductIDs, e.cfg.WarehouseTotalCapacity)
		default:
			pid, ok := parseProductType(obj.Type)
			if !ok {
				continue
			}
			product, ok := graph.Product(pid)
			if !ok {
				continue
			}
			s = actor.NewProducer(obj.ID, product, e.fuelProductID, e.cfg.ProducerInputCapacity, e.cfg.ProducerOutputCapacity)
		}
		e.actors[obj.ID] = s
		e.actorOrder = append(e.actorOrder, obj.ID)
		gx, gz := grid.WorldToGrid(obj.X, obj.Z)
		e.actorCell[obj.ID] = pathfind.Cell{gx, gz}
	}
}

// SetOnTick installs the observer callback invoked once per successful
// tick, after pricing (spec §6).
func (e *Engine) SetOnTick(fn func(tickCount int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = fn
}

// Start marks the engine running and anchors the update-loop clock at
// startTimestampMS so the first Update call doesn't see a spurious huge
// elapsed duration.
func (e *Engine) Start(startTimestampMS int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
	e.lastTickTimeMS = startTimestampMS
}

// Stop sets running = false. Any ongoing Tick call (there can be none,
// since tick() never suspends) runs to completion regardless.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

// IsRunning reports whether the engine is running.
func (e *Engine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// SetSpeed sets the tick-rate multiplier, clamped to [0.1, 10] (spec §4.9).
func (e *Engine) SetSpeed(speed float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = clampFloat(speed, 0.1, 10)
}

// Speed returns the current tick-rate multiplier.
func (e *Engine) Speed() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.speed
}

// TickCount returns the tick counter: reset to 0 by Initialize, set to the
// saved value by LoadSimulation, and incremented once per tick.
func (e *Engine) TickCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tickCount
}

// Tick runs exactly one tick unconditionally, regardless of running state
// or elapsed time. Exposed directly for tests and manual stepping;
// Update is the driven path for a real clock.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tick()
}

// Update is the external clock's entry point (spec §4.9): it runs zero or
// one tick depending on elapsed time vs. tick_interval/speed.
func (e *Engine) Update(timestampMS int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	elapsed := timestampMS - e.lastTickTimeMS
	interval := float64(e.cfg.TickIntervalMS) / e.speed
	if float64(elapsed) >= interval {
		e.tick()
		e.lastTickTimeMS = timestampMS
	}
}

// tick runs the four phases in strict order, then increments the tick
// count and notifies the observer. Caller must hold e.mu.
func (e *Engine) tick() {
	e.runProduction()

	e.tradeEvalCounter++
	if e.tradeEvalCounter >= e.cfg.TradeEvalInterval {
		e.tradeEvalCounter = 0
		e.runTradeEvaluation()
	}

	e.runTransport()
	e.runPricing()

	e.tickCount++
	if e.onTick != nil {
		e.onTick(e.tickCount)
	}
}

// runProduction is phase 1 (spec §4.9).
func (e *Engine) runProduction() {
	for _, id := range e.actorOrder {
		s := e.actors[id]
		if s.Kind != actor.KindProducer {
			continue
		}
		e.produce(s)
	}
}

func (e *Engine) produce(s *actor.State) {
	out, ok := s.OwnOutputSlot()
	if !ok {
		return
	}
	isSink := e.graph.IsSink(s.ProductID)

	if !isSink {
		if out.Current >= out.Capacity {
			s.Status = actor.StatusOutputFull
			return
		}
		if out.IsAboveIdeal() {
			s.Status = actor.StatusOutputSurplus
			return
		}
	}

	if !s.IsRawMaterial() {
		for _, in := range s.Recipe {
			slot, ok := s.InputStorage.Get(in.ProductID)
			if !ok || slot.Current < float64(in.Amount) {
				s.Status = actor.StatusMissingInputs
				return
			}
		}
		for _, in := range s.Recipe {
			slot, _ := s.InputStorage.Get(in.ProductID)
			slot.Withdraw(float64(in.Amount))
		}
	}

	s.Status = actor.StatusProducing
	s.ProductionProgress += s.ProductionRate
	if s.ProductionProgress >= 1 {
		s.ProductionProgress -= 1
		s.TotalProduced++
		if !isSink {
			out.Deposit(1)
		}
	}
}

// runTradeEvaluation is phase 2 (spec §4.7, §4.9).
func (e *Engine) runTradeEvaluation() {
	idx := engineActorIndex{e}
	coster := engineCoster{e}

	contract.RecomputeMinInputPrices(idx, coster)
	e.contracts.Maintain(e.tickCount, idx, coster, e.fuelProductID)
	e.contracts.Discover(e.tickCount, idx, coster, e.fuelProductID)
	e.executeContracts(coster)
}

func destinationSlot(dst *actor.State, productID int) (*actor.Slot, bool) {
	if dst.Kind == actor.KindProducer {
		return dst.InputStorage.Get(productID)
	}
	return dst.OutputStorage.Get(productID)
}

// executeContracts is trade-evaluation step 5 (spec §4.7).
func (e *Engine) executeContracts(coster engineCoster) {
	maxActive := int(math.Max(float64(e.cfg.MaxActiveTradersFloor), float64(len(e.actorOrder)*4)))

	for _, c := range e.contracts.Contracts() {
		if e.transports.Count() >= maxActive {
			break
		}
		if e.transports.CountForContract(c.ID) >= e.cfg.Contracts.MaxConcurrentTradersPerContract {
			continue
		}
		src, ok := e.actors[c.SourceObjectID]
		if !ok {
			continue
		}
		dst, ok := e.actors[c.DestinationObjectID]
		if !ok {
			continue
		}
		outSlot, ok := src.OutputStorage.Get(c.ProductID)
		if !ok || outSlot.Current < 1 {
			continue
		}
		destSlot, ok := destinationSlot(dst, c.ProductID)
		if !ok {
			continue
		}
		free := destSlot.FreeCapacity()
		if free <= 0 {
			continue
		}
		cost, reachable := coster.Cost(c.SourceObjectID, c.DestinationObjectID)
		if !reachable {
			continue
		}
		amount := maxInt(1, minInt(c.AmountPerShipment, int(math.Floor(free))))
		if outSlot.Current < float64(amount) {
			continue
		}
		e.transports.CreateTrader(src, c.ID, c.DestinationObjectID, c.ProductID, amount, cost.Path, e.fuelProductID, cost.FuelCost)
	}
}

// runTransport is phase 3 (spec §4.8, §4.9).
func (e *Engine) runTransport() {
	e.transports.Advance(func(destID, productID int) (*actor.Slot, bool) {
		dst, ok := e.actors[destID]
		if !ok {
			return nil, false
		}
		return destinationSlot(dst, productID)
	})
}

// runPricing is phase 4 (spec §4.6, §4.9).
func (e *Engine) runPricing() {
	for _, id := range e.actorOrder {
		e.actors[id].UpdateProducerPrices()
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
