package main

import (
	"fmt"
	"os"

	"github.com/rpgo/withdrawal-simulator/internal/calculation"
	"github.com/rpgo/withdrawal-simulator/internal/config"
)

// Prints the per-class returns, blended return and value of one strategy's
// path, to check a trajectory by hand.
func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: print_path <config-file> <strategy-key>")
		return
	}
	cfg, err := config.NewInputParser().LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	strategy, ok := cfg.StrategyByKey(os.Args[2])
	if !ok {
		fmt.Printf("unknown strategy %q\n", os.Args[2])
		return
	}

	data, err := calculation.LoadDefaultData()
	if err != nil {
		panic(err)
	}
	if cfg.Data.Dir != "" {
		data = calculation.NewHistoricalDataManager(cfg.Data.Dir)
		if err := data.LoadAllData(); err != nil {
			panic(err)
		}
	}

	proj, err := calculation.Simulate(data, cfg.Scenario.Request(strategy.Allocation))
	if err != nil {
		panic(err)
	}

	classes := strategy.Allocation.Classes()
	fmt.Printf("%s: %v\n", strategy.Key, strategy.Allocation)
	for i, p := range proj.Points() {
		fmt.Printf("%d", p.Year)
		for _, class := range classes {
			fmt.Printf(" %s=%s", class, data.Return(class, p.Year).StringFixed(4))
		}
		fmt.Printf(" blended=%s value=%s\n", proj.Returns[i].StringFixed(6), p.Value.StringFixed(2))
	}
}
