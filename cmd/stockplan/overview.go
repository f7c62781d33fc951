package main

import (
	"fmt"
	"strconv"

	"github.com/simaogato/stockplan-backend/internal/cli"

	"github.com/spf13/cobra"
)

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Summary across all your plans",
	Args:  cobra.NoArgs,
	RunE:  runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(_ *cobra.Command, _ []string) error {
	ctx, cancel := requestContext()
	defer cancel()

	ov, err := apiClient.Overview(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("OVERVIEW"))
	fmt.Println()

	if ov.PlanCount == 0 {
		fmt.Println("  No plans yet. Create one with `stockplan plans create`.")
		return nil
	}

	largest := ov.LargestPlanName
	if largest == "" {
		largest = cli.Undefined
	}

	rate := cli.Undefined
	if ov.WeightedGrowthRate != nil {
		rate = cli.FormatPercent(ov.WeightedGrowthRate) + " / month"
	}

	fmt.Print(cli.RenderKeyValues([][2]string{
		{"Plans", strconv.Itoa(ov.PlanCount)},
		{"Positions", strconv.Itoa(ov.PositionCount)},
		{"Invested", cli.FormatAmount(ov.TotalInvested, cfg.Display.Currency)},
		{"Weighted rate", cli.Signed(rate)},
		{"Largest plan", largest},
	}))
	return nil
}
