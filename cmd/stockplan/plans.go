package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockplan-backend/internal/api"
	"github.com/simaogato/stockplan-backend/internal/cli"
	"github.com/simaogato/stockplan-backend/internal/client"

	"github.com/spf13/cobra"
)

var (
	flagPlanSearch   string
	flagPlanPage     int
	flagPlanPageSize int

	flagMonths   int
	flagBaseline bool

	flagName        string
	flagDescription string
	flagStocks      []string
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage investment plans",
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your plans",
	Args:  cobra.NoArgs,
	RunE:  runPlansList,
}

var plansShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a plan and its projected growth",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlansShow,
}

var plansCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create a plan from catalog stocks",
	Example: `  stockplan plans create --name "Tech" --stock AAPL:1000:1.5 --stock MSFT:500:0.8:410.20`,
	Args:    cobra.NoArgs,
	RunE:    runPlansCreate,
}

var plansDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlansDelete,
}

func init() {
	plansListCmd.Flags().StringVarP(&flagPlanSearch, "search", "s", "", "Filter by plan name (substring match)")
	plansListCmd.Flags().IntVar(&flagPlanPage, "page", 1, "Result page")
	plansListCmd.Flags().IntVar(&flagPlanPageSize, "page-size", 0, "Plans per page (server default when 0)")

	plansShowCmd.Flags().IntVarP(&flagMonths, "months", "m", 0, "Projection horizon in months, 1-60 (config default when 0)")
	plansShowCmd.Flags().BoolVar(&flagBaseline, "baseline", false, "Include the invested amount as month 0")

	plansCreateCmd.Flags().StringVarP(&flagName, "name", "n", "", "Plan name")
	plansCreateCmd.Flags().StringVarP(&flagDescription, "description", "d", "", "Plan description")
	plansCreateCmd.Flags().StringArrayVar(&flagStocks, "stock", nil, "Position as SYMBOL:AMOUNT:RATE[:PRICE] (repeatable)")
	_ = plansCreateCmd.MarkFlagRequired("name")
	_ = plansCreateCmd.MarkFlagRequired("stock")

	plansCmd.AddCommand(plansListCmd, plansShowCmd, plansCreateCmd, plansDeleteCmd)
	rootCmd.AddCommand(plansCmd)
}

func runPlansList(_ *cobra.Command, _ []string) error {
	page, err := pageFlag(flagPlanPage)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()

	result, err := apiClient.ListPlans(ctx, client.ListPlansOptions{
		Search:   flagPlanSearch,
		Page:     page,
		PageSize: flagPlanPageSize,
	})
	if err != nil {
		return err
	}
	if result.TotalCount == 0 {
		fmt.Println("\n  No plans found.")
		return nil
	}

	rows := make([][]string, 0, len(result.Plans))
	for _, p := range result.Plans {
		rows = append(rows, []string{
			p.ID,
			p.Name,
			strconv.Itoa(len(p.Positions)),
			cli.FormatAmount(p.TotalInvested, cfg.Display.Currency),
			p.CreatedAt.Local().Format("2006-01-02"),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Plans",
		Headers: []string{"ID", "Name", "Stocks", "Invested", "Created"},
		Rows:    rows,
	}))
	fmt.Println(cli.Muted(fmt.Sprintf("  Page %d of %d (%d plans)", result.Page+1, max(result.TotalPages, 1), result.TotalCount)))
	return nil
}

func runPlansShow(_ *cobra.Command, args []string) error {
	months := flagMonths
	if months == 0 {
		months = cfg.Display.DefaultMonths
	}
	if months < 1 || months > 60 {
		return fmt.Errorf("--months must be between 1 and 60, got %d", months)
	}

	ctx, cancel := requestContext()
	defer cancel()

	plan, err := apiClient.GetPlan(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(plan.Name))
	if plan.Description != "" {
		fmt.Println(cli.Muted("  " + plan.Description))
	}
	fmt.Println()

	if len(plan.Positions) == 0 {
		fmt.Println("  This plan has no stocks, so there is nothing to project.")
		return nil
	}

	proj, err := apiClient.ProjectPlan(ctx, plan.ID, months, flagBaseline)
	if err != nil {
		return err
	}

	fmt.Print(cli.RenderTable(projectionTable(proj)))
	fmt.Println()
	fmt.Print(cli.RenderKeyValues([][2]string{
		{"Horizon", fmt.Sprintf("%d months", proj.Months)},
		{"Invested", cli.FormatAmount(proj.TotalInvested, cfg.Display.Currency)},
		{"Projected", cli.FormatAmount(proj.TotalProjectedValue, cfg.Display.Currency)},
		{"Growth", cli.Signed(cli.FormatPercent(proj.GrowthPercent))},
	}))
	fmt.Println()

	values := make([]decimal.Decimal, 0, len(proj.Points))
	labels := make([]string, 0, len(proj.Points))
	for _, pt := range proj.Points {
		v, err := decimal.NewFromString(pt.TotalValue)
		if err != nil {
			return fmt.Errorf("invalid projection value %q: %w", pt.TotalValue, err)
		}
		values = append(values, v)
		labels = append(labels, strconv.Itoa(pt.Month))
	}
	fmt.Print(cli.RenderBarChart(values, labels, cfg.Display.ChartHeight))
	return nil
}

func projectionTable(proj *api.ProjectionResponse) cli.Table {
	rows := make([][]string, 0, len(proj.Positions))
	for _, p := range proj.Positions {
		rows = append(rows, []string{
			p.Symbol,
			p.DisplayName,
			cli.FormatAmount(p.MoneyInvested, cfg.Display.Currency),
			cli.FormatAmount(p.ProjectedValue, cfg.Display.Currency),
			cli.Signed(cli.FormatPercent(p.GrowthPercent)),
		})
	}
	return cli.Table{
		Title:   "Positions",
		Headers: []string{"Symbol", "Company", "Invested", "Projected", "Growth"},
		Rows:    rows,
	}
}

func runPlansCreate(_ *cobra.Command, _ []string) error {
	req := api.CreatePlanRequest{
		Name:        flagName,
		Description: flagDescription,
	}
	for _, spec := range flagStocks {
		symbol, amount, rate, price, err := cli.ParseStockSpec(spec)
		if err != nil {
			return err
		}
		req.Stocks = append(req.Stocks, api.CreateStock{
			Symbol:                   symbol,
			PriceWhenAdded:           price,
			MoneyInvested:            amount,
			MonthlyGrowthRatePercent: rate,
		})
	}

	ctx, cancel := requestContext()
	defer cancel()

	plan, err := apiClient.CreatePlan(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("\n  Created plan %q (%s) with %d stocks, %s invested\n",
		plan.Name, plan.ID, len(plan.Positions), cli.FormatAmount(plan.TotalInvested, cfg.Display.Currency))
	return nil
}

func runPlansDelete(_ *cobra.Command, args []string) error {
	ctx, cancel := requestContext()
	defer cancel()

	if err := apiClient.DeletePlan(ctx, strings.TrimSpace(args[0])); err != nil {
		return err
	}

	fmt.Println("  Plan deleted.")
	return nil
}
