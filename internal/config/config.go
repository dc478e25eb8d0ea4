/*
Package config
File: config.go
Description:
    Layered configuration loading (env > file > defaults), grounded on
    acdtunes-spacetraders's internal/infrastructure/config package: viper
    for file/env merging, godotenv for an optional .env, go-playground's
    validator for struct-tag validation.
*/

package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EngineConfig mirrors sim.Config/contract.Config's tunables so they can
// be set from a config file or environment without importing internal/sim
// (config sits below sim in the dependency graph).
type EngineConfig struct {
	TickIntervalMS                   int     `mapstructure:"tick_interval_ms" validate:"min=1"`
	DefaultSpeed                     float64 `mapstructure:"default_speed" validate:"min=0.1,max=10"`
	MaxContractsPerActor             int     `mapstructure:"max_contracts_per_actor" validate:"min=1"`
	MaxConcurrentTradersPerContract  int     `mapstructure:"max_concurrent_traders_per_contract" validate:"min=1"`
	MaxActiveTradersFloor            int     `mapstructure:"max_active_traders_floor" validate:"min=1"`
	MinContractLifetimeTicks         int     `mapstructure:"min_contract_lifetime_ticks" validate:"min=0"`
	ReplacementMargin                float64 `mapstructure:"replacement_margin" validate:"min=1"`
	TradeEvalInterval                int     `mapstructure:"trade_eval_interval" validate:"min=1"`
	FuelScoringEnabled                bool    `mapstructure:"fuel_scoring_enabled"`
	WarehouseTotalCapacity            float64 `mapstructure:"warehouse_total_capacity" validate:"min=1"`
	ProducerInputCapacity             float64 `mapstructure:"producer_input_capacity" validate:"min=1"`
	ProducerOutputCapacity            float64 `mapstructure:"producer_output_capacity" validate:"min=1"`
}

// ServerConfig holds the HTTP/WebSocket bind address.
type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

// StoreConfig holds the save-game repository location.
type StoreConfig struct {
	SQLitePath string `mapstructure:"sqlite_path" validate:"required"`
}

// Config is the root configuration object.
type Config struct {
	Engine EngineConfig `mapstructure:"engine"`
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
}

// Defaults returns the built-in defaults (spec §4.7, §4.9 tunables).
func Defaults() Config {
	return Config{
		Engine: EngineConfig{
			TickIntervalMS:                  1000,
			DefaultSpeed:                    1.0,
			MaxContractsPerActor:            10,
			MaxConcurrentTradersPerContract: 3,
			MaxActiveTradersFloor:           50,
			MinContractLifetimeTicks:        25,
			ReplacementMargin:               1.25,
			TradeEvalInterval:               1,
			FuelScoringEnabled:              true,
			WarehouseTotalCapacity:          100,
			ProducerInputCapacity:           20,
			ProducerOutputCapacity:          20,
		},
		Server: ServerConfig{Addr: ":8081"},
		Store:  StoreConfig{SQLitePath: "./supplyline.db"},
	}
}

// Load reads configuration from an optional file, then SL_-prefixed
// environment variables (highest priority), falling back to Defaults for
// anything unset. Mirrors the teacher pack's LoadConfig priority order:
// env > file > defaults.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/supplyline")
	}

	v.SetEnvPrefix("SL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Defaults()
	setViperDefaults(v, defaults)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := defaults
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setViperDefaults(v *viper.Viper, d Config) {
	v.SetDefault("engine.tick_interval_ms", d.Engine.TickIntervalMS)
	v.SetDefault("engine.default_speed", d.Engine.DefaultSpeed)
	v.SetDefault("engine.max_contracts_per_actor", d.Engine.MaxContractsPerActor)
	v.SetDefault("engine.max_concurrent_traders_per_contract", d.Engine.MaxConcurrentTradersPerContract)
	v.SetDefault("engine.max_active_traders_floor", d.Engine.MaxActiveTradersFloor)
	v.SetDefault("engine.min_contract_lifetime_ticks", d.Engine.MinContractLifetimeTicks)
	v.SetDefault("engine.replacement_margin", d.Engine.ReplacementMargin)
	v.SetDefault("engine.trade_eval_interval", d.Engine.TradeEvalInterval)
	v.SetDefault("engine.fuel_scoring_enabled", d.Engine.FuelScoringEnabled)
	v.SetDefault("engine.warehouse_total_capacity", d.Engine.WarehouseTotalCapacity)
	v.SetDefault("engine.producer_input_capacity", d.Engine.ProducerInputCapacity)
	v.SetDefault("engine.producer_output_capacity", d.Engine.ProducerOutputCapacity)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("store.sqlite_path", d.Store.SQLitePath)
}
