package main

import (
	"context"
	"fmt"
	"time"

	"github.com/simaogato/stockplan-backend/internal/client"
	"github.com/simaogato/stockplan-backend/internal/config"

	"github.com/spf13/cobra"
)

const requestTimeout = 15 * time.Second

var (
	flagConfig string
	flagURL    string
	flagToken  string

	cfg       config.ClientConfig
	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:           "stockplan",
	Short:         "Plan stock investments and project their growth",
	Long:          "Create investment plans from the stock catalog and see how they grow month by month.",
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.LoadClient(flagConfig)
		if err != nil {
			return err
		}
		if flagURL != "" {
			cfg.Server.URL = flagURL
		}
		if flagToken != "" {
			cfg.Server.Token = flagToken
		}
		apiClient = client.New(cfg.Server.URL, cfg.Server.Token)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.ClientConfigPath(), "Client config file")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "API token (overrides config)")
}

// requestContext bounds a single API call
func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// pageFlag converts a one-based --page value to the API's zero-based page
func pageFlag(page int) (int, error) {
	if page < 1 {
		return 0, fmt.Errorf("--page must be at least 1, got %d", page)
	}
	return page - 1, nil
}
