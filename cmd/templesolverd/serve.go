package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sulozor/temple-solver/internal/api"
	"github.com/sulozor/temple-solver/internal/catalogue"
	"github.com/sulozor/temple-solver/internal/config"
	"github.com/sulozor/temple-solver/internal/orchestrator"
	"github.com/sulozor/temple-solver/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Args:  cobra.NoArgs,
	Short: "Run the HTTP API and job orchestrator",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	policy, err := config.LoadPolicy(policyFile)
	if err != nil {
		return fmt.Errorf("loading policy file: %w", err)
	}

	log := telemetry.New(telemetry.Config{
		Level:  telemetry.Level(logLevel),
		Format: telemetry.Format(logFormat),
	}).Component("templesolverd")

	cat := catalogue.New()
	if len(policy.RoomValues) > 0 {
		cat = cat.WithTierValues(policy.RoomValues)
	}

	metrics := telemetry.NewMetrics()

	orch := orchestrator.New(cfg, metrics, log)
	orch.Start()
	defer orch.Stop()

	handler := api.NewHandler(orch, cat, cfg, log)
	router := api.SetupRouter(handler, cfg.AllowedOrigins, metrics.Handler())

	log.Info("listening", map[string]interface{}{"port": cfg.Port})
	return router.Run(":" + cfg.Port)
}
