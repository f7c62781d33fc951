package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/simaogato/stockplan-backend/internal/api"
	"github.com/simaogato/stockplan-backend/internal/cli"

	"github.com/spf13/cobra"
)

var flagStockPage int

var stocksCmd = &cobra.Command{
	Use:   "stocks",
	Short: "Browse the stock catalog",
}

var stocksSearchCmd = &cobra.Command{
	Use:   "search NAME",
	Short: "Search the catalog by company name or symbol",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStocksSearch,
}

var stocksBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Search the catalog interactively",
	Args:  cobra.NoArgs,
	RunE:  runStocksBrowse,
}

func init() {
	stocksSearchCmd.Flags().IntVar(&flagStockPage, "page", 1, "Result page")
	stocksCmd.AddCommand(stocksSearchCmd, stocksBrowseCmd)
	rootCmd.AddCommand(stocksCmd)
}

func runStocksSearch(_ *cobra.Command, args []string) error {
	page, err := pageFlag(flagStockPage)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()

	result, err := apiClient.SearchStocks(ctx, strings.Join(args, " "), page)
	if err != nil {
		return err
	}
	if len(result.Stocks) == 0 {
		fmt.Println("\n  No matching stocks.")
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(stocksTable(result.Stocks)))
	if result.HasMore {
		fmt.Println(cli.Muted(fmt.Sprintf("  More results: --page %d", flagStockPage+1)))
	}
	return nil
}

func runStocksBrowse(_ *cobra.Command, _ []string) error {
	search := func(ctx context.Context, query string) ([]api.Stock, error) {
		result, err := apiClient.SearchStocks(ctx, query, 0)
		if err != nil {
			return nil, err
		}
		return result.Stocks, nil
	}

	chosen, err := cli.RunStockPicker(search)
	if err != nil {
		return err
	}
	if chosen == nil {
		return nil
	}

	fmt.Printf("%s  %s\n", chosen.Symbol, chosen.Name)
	return nil
}

func stocksTable(stocks []api.Stock) cli.Table {
	rows := make([][]string, 0, len(stocks))
	for _, s := range stocks {
		rows = append(rows, []string{s.Symbol, s.Name})
	}
	return cli.Table{
		Title:   "Stocks",
		Headers: []string{"Symbol", "Name"},
		Rows:    rows,
	}
}
