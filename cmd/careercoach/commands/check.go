package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/WaghmarePravinn/ai-career-coach/internal/backend"
	"github.com/WaghmarePravinn/ai-career-coach/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the local RAG backend once and report its status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		client := backend.New(cfg.BackendURL, cfg.BackendTimeout)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.HealthProbeTimeout)
		defer cancel()

		start := time.Now()
		if err := client.Health(ctx); err != nil {
			fmt.Printf("backend %s: offline (%v)\n", cfg.BackendURL, err)
			return nil
		}
		fmt.Printf("backend %s: online (%s)\n", cfg.BackendURL, time.Since(start).Round(time.Millisecond))
		return nil
	},
}
