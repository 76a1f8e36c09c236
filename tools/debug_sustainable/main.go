package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rpgo/withdrawal-simulator/internal/calculation"
	"github.com/rpgo/withdrawal-simulator/internal/config"
	"github.com/rpgo/withdrawal-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_sustainable <config-file>")
		return
	}
	cfg, err := config.NewInputParser().LoadFromFile(os.Args[1])
	if err != nil {
		panic(err)
	}
	data, err := calculation.LoadDefaultData()
	if err != nil {
		panic(err)
	}
	engine := calculation.NewCalculationEngine(data)

	res, err := engine.CalculateSustainableWithdrawals(context.Background(), cfg)
	if err != nil {
		panic(err)
	}

	// The found amount must survive and one cent more must not.
	cent := decimal.New(1, -2)
	for _, r := range res.Results {
		strategy, _ := cfg.StrategyByKey(r.Strategy)
		at := finalValue(data, cfg, strategy.Allocation, r.MaxWithdrawal)
		above := finalValue(data, cfg, strategy.Allocation, r.MaxWithdrawal.Add(cent).Add(cent))
		fmt.Printf("%s: max=%s rate=%s final@max=%s final@max+0.02=%s\n",
			r.Strategy, r.MaxWithdrawal.StringFixed(2), r.InitialRate.StringFixed(4), at.StringFixed(2), above.StringFixed(2))
	}
}

func finalValue(src calculation.ReturnSource, cfg *domain.Configuration, alloc domain.Allocation, amount decimal.Decimal) decimal.Decimal {
	req := cfg.Scenario.Request(alloc)
	req.Withdrawal.Amount = amount
	proj, err := calculation.Simulate(src, req)
	if err != nil {
		panic(err)
	}
	return proj.Trajectory[proj.Len()-1]
}
