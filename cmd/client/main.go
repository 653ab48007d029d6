package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/cardkeep/cardkeep/internal/client"
	"github.com/cardkeep/cardkeep/internal/config"
	"github.com/cardkeep/cardkeep/internal/logger"
	"github.com/cardkeep/cardkeep/internal/scanner"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("cardkeep-client")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	capture, err := scanner.NewDirectorySource(cfg.Scanner.FramesDir)
	if err != nil {
		log.Fatal().Err(err).Msg("create capture source")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := client.NewApp(ctx, cfg, capture, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
	log.Info().Msg("client stopped")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
