package main

import (
	"context"
	"flag"
	"log"
	"os"

	"axiapac.com/adms/iclock/bootstrap"
	"go.uber.org/zap"
)

// migrate creates or upgrades the gateway tables and gives unnamed machines
// their default display name.
func main() {
	configPath := flag.String("config", os.Getenv("ADMS_CONFIG"), "optional YAML config file")
	flag.Parse()

	cfg, logger, err := bootstrap.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	s, dm, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer dm.Close()

	if err := s.Migrate(ctx); err != nil {
		logger.Fatal("failed to migrate", zap.Error(err))
	}

	filled, err := s.FillMachineNames(ctx)
	if err != nil {
		logger.Fatal("failed to fill machine names", zap.Error(err))
	}
	logger.Info("migration complete", zap.Int64("machinesNamed", filled))
}
