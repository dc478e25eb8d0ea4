/*
Package sim
File: save.go
Description:
    JSON save/load for the simulation save (version 3, spec §6) and the
    game-state envelope (version 4) that wraps it alongside the economy
    save and the map/object/route collaborator data. The engine only
    understands its own slice of v4 (economy + simulation); mapConfig,
    tiles, objects, and routes are collaborator-owned shapes the core
    passes through opaquely.
*/

package sim

import (
	"encoding/json"
	"fmt"

	"github.com/everforgeworks/supplyline-core/internal/actor"
	"github.com/everforgeworks/supplyline-core/internal/contract"
	"github.com/everforgeworks/supplyline-core/internal/pathfind"
	"github.com/everforgeworks/supplyline-core/internal/simerr"
	"github.com/everforgeworks/supplyline-core/internal/transport"
)

// SimulationSaveVersion is the simulation-state save format version (spec §6).
const SimulationSaveVersion = 3

// GameSaveVersion is the whole-game-state save format version (spec §6).
const GameSaveVersion = 4

type slotSave struct {
	ProductID int      `json:"productId"`
	Current   float64  `json:"current"`
	Capacity  float64  `json:"capacity"`
	IdealMin  int      `json:"idealMin,omitempty"`
	IdealMax  int      `json:"idealMax,omitempty"`
	Ideal     *float64 `json:"ideal,omitempty"`
}

func saveSlot(s *actor.Slot) slotSave {
	rec := slotSave{ProductID: s.ProductID, Current: s.Current, Capacity: s.Capacity}
	if s.IsWarehouse {
		ideal := s.Ideal
		rec.Ideal = &ideal
	} else {
		rec.IdealMin = s.IdealMin
		rec.IdealMax = s.IdealMax
	}
	return rec
}

// loadSlot reconstructs a slot, migrating a legacy single-ideal record to
// idealMin=0, idealMax=min(ideal, capacity) when the producer-style band
// fields are absent (spec §6).
func loadSlot(rec slotSave, isWarehouse bool) *actor.Slot {
	s := &actor.Slot{
		ProductID:   rec.ProductID,
		Current:     rec.Current,
		Capacity:    rec.Capacity,
		IsWarehouse: isWarehouse,
	}
	if isWarehouse {
		if rec.Ideal != nil {
			s.Ideal = *rec.Ideal
		} else {
			s.Ideal = float64(rec.IdealMax)
		}
		return s
	}
	if rec.IdealMin == 0 && rec.IdealMax == 0 && rec.Ideal != nil {
		idealMax := int(*rec.Ideal)
		if capInt := int(rec.Capacity); idealMax > capInt {
			idealMax = capInt
		}
		s.IdealMin, s.IdealMax = 0, idealMax
		return s
	}
	s.IdealMin, s.IdealMax = rec.IdealMin, rec.IdealMax
	return s
}

type actorSave struct {
	ObjectID           int              `json:"objectId"`
	Kind               int              `json:"kind"`
	ProductID          int              `json:"productId"`
	Recipe             []economySaveIn  `json:"recipe,omitempty"`
	InputStorage       []slotSave       `json:"inputStorage,omitempty"`
	OutputStorage      []slotSave       `json:"outputStorage,omitempty"`
	Prices             map[string]float64 `json:"prices"`
	MinInputPrices     map[string]float64 `json:"minInputPrices"`
	ProfitMargin       float64          `json:"profitMargin"`
	ProductionRate     float64          `json:"productionRate"`
	ProductionProgress float64          `json:"productionProgress"`
	Status             int              `json:"status"`
	TotalProduced      int              `json:"totalProduced"`
	FuelSlotID         *int             `json:"fuelSlotId,omitempty"`
}

type economySaveIn struct {
	ProductID int `json:"productId"`
	Amount    int `json:"amount"`
}

func saveActor(s *actor.State) actorSave {
	rec := actorSave{
		ObjectID:           s.ObjectID,
		Kind:               int(s.Kind),
		ProductID:          s.ProductID,
		Prices:             make(map[string]float64, len(s.Prices)),
		MinInputPrices:     make(map[string]float64, len(s.MinInputPrices)),
		ProfitMargin:       s.ProfitMargin,
		ProductionRate:     s.ProductionRate,
		ProductionProgress: s.ProductionProgress,
		Status:             int(s.Status),
		TotalProduced:      s.TotalProduced,
		FuelSlotID:         s.FuelSlotID,
	}
	for _, in := range s.Recipe {
		rec.Recipe = append(rec.Recipe, economySaveIn{ProductID: in.ProductID, Amount: in.Amount})
	}
	if s.InputStorage != nil {
		s.InputStorage.Each(func(_ int, slot *actor.Slot) { rec.InputStorage = append(rec.InputStorage, saveSlot(slot)) })
	}
	if s.OutputStorage != nil {
		s.OutputStorage.Each(func(_ int, slot *actor.Slot) { rec.OutputStorage = append(rec.OutputStorage, saveSlot(slot)) })
	}
	for id, p := range s.Prices {
		rec.Prices[fmt.Sprintf("%d", id)] = p
	}
	for id, p := range s.MinInputPrices {
		rec.MinInputPrices[fmt.Sprintf("%d", id)] = p
	}
	return rec
}

// applyActorSave overwrites an already-placed actor's mutable state from a
// save record. The actor (with its recipe-derived slot set) must already
// exist from a prior Initialize call on the same collaborators.
func applyActorSave(s *actor.State, rec actorSave) {
	isWarehouse := s.Kind == actor.KindWarehouse
	if len(rec.InputStorage) > 0 {
		s.InputStorage = actor.NewSlotMap()
		for _, slotRec := range rec.InputStorage {
			s.InputStorage.Set(slotRec.ProductID, loadSlot(slotRec, false))
		}
	}
	if len(rec.OutputStorage) > 0 {
		s.OutputStorage = actor.NewSlotMap()
		for _, slotRec := range rec.OutputStorage {
			s.OutputStorage.Set(slotRec.ProductID, loadSlot(slotRec, isWarehouse))
		}
	}
	s.Prices = make(map[int]float64, len(rec.Prices))
	for k, v := range rec.Prices {
		var id int
		fmt.Sscanf(k, "%d", &id)
		s.Prices[id] = v
	}
	s.MinInputPrices = make(map[int]float64, len(rec.MinInputPrices))
	for k, v := range rec.MinInputPrices {
		var id int
		fmt.Sscanf(k, "%d", &id)
		s.MinInputPrices[id] = v
	}
	s.ProfitMargin = rec.ProfitMargin
	s.ProductionRate = rec.ProductionRate
	s.ProductionProgress = rec.ProductionProgress
	s.Status = actor.Status(rec.Status)
	s.TotalProduced = rec.TotalProduced
	s.FuelSlotID = rec.FuelSlotID
}

type contractSave struct {
	ID                  int     `json:"id"`
	SourceObjectID      int     `json:"sourceObjectId"`
	DestinationObjectID int     `json:"destinationObjectId"`
	ProductID           int     `json:"productId"`
	AmountPerShipment   int     `json:"amountPerShipment"`
	UnitPrice           int     `json:"unitPrice"`
	Score               float64 `json:"score"`
	CreatedTick         int     `json:"createdTick"`
}

type traderSave struct {
	ID                  int              `json:"id"`
	ContractID          int              `json:"contractId"`
	SourceObjectID      int              `json:"sourceObjectId"`
	DestinationObjectID int              `json:"destinationObjectId"`
	ProductID           int              `json:"productId"`
	Amount              int              `json:"amount"`
	Path                []pathfind.Cell  `json:"path"`
	PathIndex           int              `json:"pathIndex"`
	Progress            float64          `json:"progress"`
	Speed               float64          `json:"speed"`
}

type simulationSave struct {
	Version         int            `json:"version"`
	IsRunning       bool           `json:"isRunning"`
	TickCount       int            `json:"tickCount"`
	Speed           float64        `json:"speed"`
	NextTraderID    int            `json:"nextTraderId"`
	NextContractID  int            `json:"nextContractId"`
	ActorStates     []actorSave    `json:"actorStates"`
	Contracts       []contractSave `json:"contracts"`
	ActiveTraders   []traderSave   `json:"activeTraders"`
}

// SerializeSimulation marshals the running simulation into version-3 JSON.
func (e *Engine) SerializeSimulation() ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sf := simulationSave{
		Version:        SimulationSaveVersion,
		IsRunning:      e.running,
		TickCount:      e.tickCount,
		Speed:          e.speed,
		NextTraderID:   e.transports.NextTraderID(),
		NextContractID: e.contracts.NextContractID(),
	}
	for _, id := range e.actorOrder {
		sf.ActorStates = append(sf.ActorStates, saveActor(e.actors[id]))
	}
	for _, c := range e.contracts.Contracts() {
		sf.Contracts = append(sf.Contracts, contractSave{
			ID: c.ID, SourceObjectID: c.SourceObjectID, DestinationObjectID: c.DestinationObjectID,
			ProductID: c.ProductID, AmountPerShipment: c.AmountPerShipment, UnitPrice: c.UnitPrice,
			Score: c.Score, CreatedTick: c.CreatedTick,
		})
	}
	for _, t := range e.transports.Traders() {
		sf.ActiveTraders = append(sf.ActiveTraders, traderSave{
			ID: t.ID, ContractID: t.ContractID, SourceObjectID: t.SourceObjectID,
			DestinationObjectID: t.DestinationObjectID, ProductID: t.ProductID, Amount: t.Amount,
			Path: t.Path, PathIndex: t.PathIndex, Progress: t.Progress, Speed: t.Speed,
		})
	}
	return json.Marshal(sf)
}

// LoadSimulation restores tick count, speed, running flag, contracts,
// traders, and every already-placed actor's mutable state from a
// version-3 save. The engine must already be Initialize'd against the
// same collaborators so the actor skeletons (ids, recipes, kinds) exist;
// this call overwrites their storage, prices, and progress in place, and
// clears the path cache (spec §6: "reload recomputes the road set and
// clears the path cache").
func (e *Engine) LoadSimulation(data []byte) error {
	var sf simulationSave
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("decode simulation save: %w", err)
	}
	if sf.Version != SimulationSaveVersion {
		return fmt.Errorf("simulation save version %d: %w", sf.Version, simerr.UnsupportedVersion)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.tickCount = sf.TickCount
	e.speed = sf.Speed
	e.running = sf.IsRunning
	e.pathCache = make(map[[2]int]*pathCacheEntry)

	var contracts []*contract.Contract
	for _, c := range sf.Contracts {
		contracts = append(contracts, &contract.Contract{
			ID: c.ID, SourceObjectID: c.SourceObjectID, DestinationObjectID: c.DestinationObjectID,
			ProductID: c.ProductID, AmountPerShipment: c.AmountPerShipment, UnitPrice: c.UnitPrice,
			Score: c.Score, CreatedTick: c.CreatedTick,
		})
	}
	e.contracts.Restore(contracts, sf.NextContractID)

	var traders []*transport.Trader
	for _, t := range sf.ActiveTraders {
		traders = append(traders, &transport.Trader{
			ID: t.ID, ContractID: t.ContractID, SourceObjectID: t.SourceObjectID,
			DestinationObjectID: t.DestinationObjectID, ProductID: t.ProductID, Amount: t.Amount,
			Path: t.Path, PathIndex: t.PathIndex, Progress: t.Progress, Speed: t.Speed,
		})
	}
	e.transports.Restore(traders, sf.NextTraderID)

	for _, rec := range sf.ActorStates {
		s, ok := e.actors[rec.ObjectID]
		if !ok {
			continue
		}
		applyActorSave(s, rec)
	}
	return nil
}

// GameSave is the version-4 whole-game-state envelope (spec §6). mapConfig,
// tiles, objects, and routes are collaborator-owned shapes the core never
// interprets directly; it only validates their presence and passes them
// through verbatim.
type GameSave struct {
	Version      int             `json:"version"`
	MapConfig    json.RawMessage `json:"mapConfig"`
	Tiles        json.RawMessage `json:"tiles"`
	Objects      json.RawMessage `json:"objects"`
	Routes       json.RawMessage `json:"routes"`
	NextObjectID int             `json:"nextObjectId"`
	NextRouteID  int             `json:"nextRouteId"`
	Economy      json.RawMessage `json:"economy"`
	Simulation   json.RawMessage `json:"simulation"`
}

// ParseGameSave decodes and validates a version-4 game-state save,
// rejecting version mismatches and missing required keys (spec §6).
func ParseGameSave(data []byte) (*GameSave, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode game save: %w", err)
	}
	for _, key := range []string{"version", "mapConfig", "tiles", "objects", "routes"} {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("invalid game save: missing %s: %w", key, simerr.MissingField)
		}
	}
	var gs GameSave
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("decode game save: %w", err)
	}
	if gs.Version != GameSaveVersion {
		return nil, fmt.Errorf("game save version %d: %w", gs.Version, simerr.UnsupportedVersion)
	}
	return &gs, nil
}

// BuildGameSave assembles a version-4 envelope from its parts. economyJSON
// or simulationJSON may be nil when that sub-save doesn't exist yet.
func BuildGameSave(mapConfig, tiles, objects, routes json.RawMessage, nextObjectID, nextRouteID int, economyJSON, simulationJSON []byte) ([]byte, error) {
	gs := GameSave{
		Version: GameSaveVersion, MapConfig: mapConfig, Tiles: tiles, Objects: objects, Routes: routes,
		NextObjectID: nextObjectID, NextRouteID: nextRouteID,
		Economy:    json.RawMessage("null"),
		Simulation: json.RawMessage("null"),
	}
	if economyJSON != nil {
		gs.Economy = economyJSON
	}
	if simulationJSON != nil {
		gs.Simulation = simulationJSON
	}
	return json.Marshal(gs)
}
