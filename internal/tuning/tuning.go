// Package tuning holds the game balance knobs: TU costs per command, scan
// radius, jump limits and market fluctuation bands. Games ship with the
// defaults; a tuning.yaml overrides individual values.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TUPerTurn int `yaml:"tu_per_turn"`

	Costs Costs `yaml:"tu_costs"`

	ScanRadius          int `yaml:"scan_radius"`
	JumpMaxHops         int `yaml:"jump_max_hops"`
	JumpMinStarDistance int `yaml:"jump_min_star_distance"`

	Market Market `yaml:"market"`
}

// Costs are nominal TU prices before crew efficiency is applied.
type Costs struct {
	MovePerSquare int `yaml:"move_per_square"`
	LocationScan  int `yaml:"location_scan"`
	SystemScan    int `yaml:"system_scan"`
	SurfaceScan   int `yaml:"surface_scan"`
	Orbit         int `yaml:"orbit"`
	Dock          int `yaml:"dock"`
	Undock        int `yaml:"undock"`
	Land          int `yaml:"land"`
	Takeoff       int `yaml:"takeoff"`
	JumpPerHop    int `yaml:"jump_per_hop"`
}

type Market struct {
	CycleWeeks      int     `yaml:"cycle_weeks"`
	FluctuationPct  float64 `yaml:"fluctuation_pct"`
	SpreadPct       float64 `yaml:"spread_pct"`
	StockJitterPct  float64 `yaml:"stock_jitter_pct"`
	ProducesFactor  float64 `yaml:"produces_factor"`
	AverageFactor   float64 `yaml:"average_factor"`
	DemandsFactor   float64 `yaml:"demands_factor"`
	BaseStockUnits  int     `yaml:"base_stock_units"`
	BaseDemandUnits int     `yaml:"base_demand_units"`
}

func Defaults() Tuning {
	return Tuning{
		TUPerTurn: 300,
		Costs: Costs{
			MovePerSquare: 2,
			LocationScan:  20,
			SystemScan:    20,
			SurfaceScan:   20,
			Orbit:         10,
			Dock:          30,
			Undock:        10,
			Land:          20,
			Takeoff:       20,
			JumpPerHop:    60,
		},
		ScanRadius:          8,
		JumpMaxHops:         4,
		JumpMinStarDistance: 10,
		Market: Market{
			CycleWeeks:      1,
			FluctuationPct:  0.05,
			SpreadPct:       0.03,
			StockJitterPct:  0.15,
			ProducesFactor:  0.75,
			AverageFactor:   1.0,
			DemandsFactor:   1.5,
			BaseStockUnits:  100,
			BaseDemandUnits: 100,
		},
	}
}

// Load reads a tuning file over the defaults, so a partial file only
// overrides the keys it names.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
