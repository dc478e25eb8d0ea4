/*
Package cmd
File: serve.go
Description:
    `serve` boots the simulation engine and its HTTP/WebSocket read
    surface, grounded on the teacher's main.go: orchestration (load
    config + state), a background heartbeat (here, the engine's own tick
    loop via Engine.Update on a ticker, not a 60s market pulse), routing
    (mux wiring identical in shape to the teacher's), and SIGINT/SIGTERM
    lifecycle handling in place of the teacher's SIGHUP hot-reload.
*/

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/everforgeworks/supplyline-core/internal/api"
	"github.com/everforgeworks/supplyline-core/internal/config"
	"github.com/everforgeworks/supplyline-core/internal/contract"
	"github.com/everforgeworks/supplyline-core/internal/economy"
	"github.com/everforgeworks/supplyline-core/internal/sim"
	"github.com/everforgeworks/supplyline-core/internal/store"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var statePath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation engine and its HTTP/WebSocket read API",
		Long: `serve loads a version-4 game-state save, initializes the engine
against it, and starts ticking on a wall-clock loop while exposing the
observer queries over HTTP and a live tick feed over WebSocket.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(statePath)
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "", "path to a version-4 game-state JSON file (required)")
	cmd.MarkFlagRequired("state")

	return cmd
}

func runServe(statePath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	data, err := os.ReadFile(statePath)
	if err != nil {
		return fmt.Errorf("read state file: %w", err)
	}
	gs, err := sim.ParseGameSave(data)
	if err != nil {
		return fmt.Errorf("parse game save: %w", err)
	}

	world, err := decodeWorld(gs.MapConfig, gs.Tiles, gs.Objects, gs.Routes)
	if err != nil {
		return fmt.Errorf("decode world: %w", err)
	}

	graph := economy.NewGraph()
	if len(gs.Economy) > 0 && string(gs.Economy) != "null" {
		graph, err = economy.Deserialize(gs.Economy)
		if err != nil {
			return fmt.Errorf("decode economy save: %w", err)
		}
	}

	engine := sim.NewEngine(engineConfigFromSettings(cfg.Engine))
	engine.Initialize(graph, world.Tiles, world.Objects, world.Routes)

	if len(gs.Simulation) > 0 && string(gs.Simulation) != "null" {
		if err := engine.LoadSimulation(gs.Simulation); err != nil {
			return fmt.Errorf("restore simulation state: %w", err)
		}
	}

	st, err := store.Open(cfg.Store.SQLitePath)
	if err != nil {
		return fmt.Errorf("open save store: %w", err)
	}
	defer st.Close()

	hub := api.NewHub()
	go hub.Run()

	engine.SetOnTick(func(tickCount int) {
		msg := api.Message{Type: "tick", Payload: map[string]interface{}{"tick_count": tickCount}}
		jsonBytes, err := json.Marshal(msg)
		if err != nil {
			log.Printf("SIM: failed to marshal tick broadcast: %v", err)
			return
		}
		hub.Broadcast <- jsonBytes
	})

	engine.SetSpeed(cfg.Engine.DefaultSpeed)
	engine.Start(time.Now().UnixMilli())

	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Engine.TickIntervalMS) * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			engine.Update(time.Now().UnixMilli())
		}
	}()

	handlers := api.NewHandlers(engine)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/actors/state", handlers.HandleActorState)
	mux.HandleFunc("/api/actors", handlers.HandleAllActorStates)
	mux.HandleFunc("/api/traders", handlers.HandleActiveTraders)
	mux.HandleFunc("/api/traders/position", handlers.HandleTraderWorldPosition)
	mux.HandleFunc("/api/path_metrics", handlers.HandlePathMetrics)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		api.ServeWs(hub, w, r)
	})

	server := &http.Server{Addr: cfg.Server.Addr, Handler: corsMiddleware(mux)}

	go func() {
		log.Printf("SIM: serving on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("CRITICAL: server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Println("SIGNAL: shutting down")

	engine.Stop()

	if err := autosave(st, engine, gs); err != nil {
		log.Printf("SIM: autosave on shutdown failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// autosave persists the current engine state, wrapped in a version-4 game
// save around the same world the server was initialized with, to the save
// store as a KindGame record named "autosave". `serve` itself reads its
// starting state from the --state file, not from the store.
func autosave(st *store.Store, engine *sim.Engine, gs *sim.GameSave) error {
	economyJSON, err := engine.EconomyGraph().Serialize()
	if err != nil {
		return fmt.Errorf("serialize economy: %w", err)
	}
	simulationJSON, err := engine.SerializeSimulation()
	if err != nil {
		return fmt.Errorf("serialize simulation: %w", err)
	}
	full, err := sim.BuildGameSave(gs.MapConfig, gs.Tiles, gs.Objects, gs.Routes, gs.NextObjectID, gs.NextRouteID, economyJSON, simulationJSON)
	if err != nil {
		return fmt.Errorf("build game save: %w", err)
	}
	id, err := st.Put(store.KindGame, "autosave", full)
	if err != nil {
		return fmt.Errorf("store autosave: %w", err)
	}
	log.Printf("SIM: autosave stored as %s", id)
	return nil
}

func engineConfigFromSettings(e config.EngineConfig) sim.Config {
	return sim.Config{
		TickIntervalMS: e.TickIntervalMS,
		DefaultSpeed:   e.DefaultSpeed,
		Contracts: contract.Config{
			MaxContractsPerActor:            e.MaxContractsPerActor,
			MaxConcurrentTradersPerContract: e.MaxConcurrentTradersPerContract,
			MinContractLifetimeTicks:        e.MinContractLifetimeTicks,
			ReplacementMargin:               e.ReplacementMargin,
			FuelScoringEnabled:              e.FuelScoringEnabled,
		},
		MaxActiveTradersFloor:  e.MaxActiveTradersFloor,
		TradeEvalInterval:      e.TradeEvalInterval,
		WarehouseTotalCapacity: e.WarehouseTotalCapacity,
		ProducerInputCapacity:  e.ProducerInputCapacity,
		ProducerOutputCapacity: e.ProducerOutputCapacity,
	}
}

// corsMiddleware allows a separately-served frontend to reach this API
// during development, matching the teacher's permissive dev CORS policy.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
