/*
Package api
File: handlers.go
Description:
    REST handlers for the read-only observer queries (spec §6): actor
    state, all actor states, active traders, a trader's interpolated world
    position, and path metrics for an arbitrary route. Each handler takes
    a read lock internally via the sim.Engine query methods it calls.
*/

package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/everforgeworks/supplyline-core/internal/pathfind"
	"github.com/everforgeworks/supplyline-core/internal/sim"
)

// Handlers bundles the engine the REST surface observes.
type Handlers struct {
	Engine *sim.Engine
}

// NewHandlers constructs a Handlers bound to the given engine.
func NewHandlers(e *sim.Engine) *Handlers {
	return &Handlers{Engine: e}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// HandleActorState serves GET /api/actors/state?id=<objectID>.
func (h *Handlers) HandleActorState(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "missing or invalid id", http.StatusBadRequest)
		return
	}

	state, ok := h.Engine.ActorState(id)
	if !ok {
		http.Error(w, "actor not found", http.StatusNotFound)
		return
	}
	writeJSON(w, state)
}

// HandleAllActorStates serves GET /api/actors.
func (h *Handlers) HandleAllActorStates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Engine.AllActorStates())
}

// HandleActiveTraders serves GET /api/traders.
func (h *Handlers) HandleActiveTraders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Engine.ActiveTraders())
}

type traderPositionResponse struct {
	TraderID int     `json:"trader_id"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
}

// HandleTraderWorldPosition serves GET /api/traders/position?id=<traderID>.
func (h *Handlers) HandleTraderWorldPosition(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "missing or invalid id", http.StatusBadRequest)
		return
	}

	traders := h.Engine.ActiveTraders()
	for _, t := range traders {
		if t.ID == id {
			x, z := h.Engine.TraderWorldPosition(t)
			writeJSON(w, traderPositionResponse{TraderID: id, X: x, Z: z})
			return
		}
	}
	http.Error(w, "trader not found", http.StatusNotFound)
}

type pathMetricsRequest struct {
	Path [][2]int `json:"path"`
}

// HandlePathMetrics serves POST /api/path_metrics with a JSON body of grid
// cells and returns route_length/transport_cost/fuel_cost for that path.
func (h *Handlers) HandlePathMetrics(w http.ResponseWriter, r *http.Request) {
	var req pathMetricsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	path := make([]pathfind.Cell, len(req.Path))
	for i, c := range req.Path {
		path[i] = pathfind.Cell{c[0], c[1]}
	}

	writeJSON(w, h.Engine.PathMetrics(path))
}
