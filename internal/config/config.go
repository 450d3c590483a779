// Package config loads the simulation's YAML-tunable settings, in the same
// struct-of-structs-with-yaml-tags shape the rest of the retrieved corpus
// uses for game configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the simulation core reads. Hosts (the demo
// renderer, tests) load one from a YAML file or build one in code.
type Config struct {
	Simulation SimulationConfig  `yaml:"simulation"`
	Map        MapConfig         `yaml:"map"`
	Houses     HouseLadderConfig `yaml:"houses"`
	Tasks      TaskConfig        `yaml:"tasks"`
	Resources  ResourceConfig    `yaml:"resources"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// SimulationConfig controls the fixed-rate driver (§4.6).
type SimulationConfig struct {
	TicksPerSecond    int     `yaml:"ticks_per_second"`
	DeltaTimeOverride float64 `yaml:"delta_time_override"` // 0 means derive from TicksPerSecond
}

// DeltaTime returns the fixed per-tick delta in seconds.
func (c SimulationConfig) DeltaTime() float64 {
	if c.DeltaTimeOverride > 0 {
		return c.DeltaTimeOverride
	}
	if c.TicksPerSecond <= 0 {
		return 1.0 / 20.0
	}
	return 1.0 / float64(c.TicksPerSecond)
}

// MapConfig sizes the tile grid (§3, §4.1).
type MapConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// HouseLadderConfig describes the per-level capacities a house gains as it
// merges upward (§4.7).
type HouseLadderConfig struct {
	Levels []HouseLevelConfig `yaml:"levels"`
}

// HouseLevelConfig is one rung of the ladder, keyed by footprint size.
type HouseLevelConfig struct {
	Size            int    `yaml:"size"` // footprint is Size x Size cells
	TileDefName     string `yaml:"tile_def_name"`
	PopulationCap   int    `yaml:"population_cap"`
	WorkerCap       int    `yaml:"worker_cap"`
	StockCapPerGood int    `yaml:"stock_cap_per_good"`
}

// LevelForSize returns the ladder entry for a given footprint size, or false
// if the size has no configured rung (e.g. already at max level).
func (h HouseLadderConfig) LevelForSize(size int) (HouseLevelConfig, bool) {
	for _, lvl := range h.Levels {
		if lvl.Size == size {
			return lvl, true
		}
	}
	return HouseLevelConfig{}, false
}

// MaxLevelSize returns the largest configured footprint size.
func (h HouseLadderConfig) MaxLevelSize() int {
	max := 0
	for _, lvl := range h.Levels {
		if lvl.Size > max {
			max = lvl.Size
		}
	}
	return max
}

// TaskConfig holds tunables for the unit task/pathing layer (§4.5). The
// tasks package does not read them; its candidate limit is its own
// maxCandidates constant.
type TaskConfig struct {
	MaxDeliveryCandidates int `yaml:"max_delivery_candidates"`
	PatrolDistanceCells   int `yaml:"patrol_distance_cells"`
}

// ResourceConfig names the resource kinds tallied by WorldStats (§4.8).
type ResourceConfig struct {
	Kinds []string `yaml:"kinds"`
}

// LoggingConfig maps channel name to level name; parsed into simlog levels
// by the host, since simlog (the lower-level package) must not import
// config (the higher-level one) to avoid a cycle.
type LoggingConfig struct {
	Channels map[string]string `yaml:"channels"`
}

// Load reads and parses a YAML config file.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &cfg, nil
}

// Default returns a reasonable in-code configuration, used by tests and the
// demo when no YAML file is supplied.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{TicksPerSecond: 20},
		Map:        MapConfig{Width: 64, Height: 64},
		Houses: HouseLadderConfig{Levels: []HouseLevelConfig{
			{Size: 1, TileDefName: "house_1", PopulationCap: 4, WorkerCap: 2, StockCapPerGood: 20},
			{Size: 2, TileDefName: "house_2", PopulationCap: 12, WorkerCap: 5, StockCapPerGood: 50},
			{Size: 3, TileDefName: "house_3", PopulationCap: 30, WorkerCap: 12, StockCapPerGood: 120},
		}},
		Tasks:     TaskConfig{MaxDeliveryCandidates: 4, PatrolDistanceCells: 6},
		Resources: ResourceConfig{Kinds: []string{"wheat", "wood", "ore", "tools"}},
		Logging:   LoggingConfig{Channels: map[string]string{}},
	}
}
