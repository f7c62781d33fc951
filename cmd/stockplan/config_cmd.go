package main

import (
	"fmt"
	"os"

	"github.com/simaogato/stockplan-backend/internal/config"

	"github.com/spf13/cobra"
)

var flagForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current configuration to the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configInitCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Overwrite an existing config file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", flagConfig)
	if _, err := os.Stat(flagConfig); err == nil {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    URL:   %s\n", cfg.Server.URL)
	if cfg.Server.Token != "" {
		fmt.Printf("    Token: %s\n", maskToken(cfg.Server.Token))
	} else {
		fmt.Println("    Token: not configured")
	}
	fmt.Println()

	fmt.Println("  [Display]")
	fmt.Printf("    Currency:       %s\n", cfg.Display.Currency)
	fmt.Printf("    Default months: %d\n", cfg.Display.DefaultMonths)
	fmt.Printf("    Chart height:   %d\n", cfg.Display.ChartHeight)
	fmt.Println()

	ctx, cancel := requestContext()
	defer cancel()
	if _, err := apiClient.Health(ctx); err != nil {
		fmt.Printf("  API: unreachable (%v)\n", err)
	} else {
		fmt.Println("  API: ok")
	}
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	if _, err := os.Stat(flagConfig); err == nil && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", flagConfig)
	}

	if err := config.SaveClient(flagConfig, cfg); err != nil {
		return err
	}

	fmt.Printf("  Wrote %s\n", flagConfig)
	return nil
}

// maskToken keeps the first and last few characters of a token
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
