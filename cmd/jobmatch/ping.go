package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the backend is reachable",
	RunE:  runPing,
}

func init() {
	rootCmd.AddCommand(pingCmd)
}

func runPing(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath, logger)
	if err != nil {
		return err
	}

	client := setupBackend(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now()
	msg, err := client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("backend at %s: %w", client.BaseURL(), err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is up (%s): %s\n", client.BaseURL(), time.Since(start).Round(time.Millisecond), msg)
	return nil
}
