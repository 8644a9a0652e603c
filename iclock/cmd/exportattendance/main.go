package main

import (
	"context"
	"flag"
	"log"
	"os"

	"axiapac.com/adms/iclock/bootstrap"
	"axiapac.com/adms/iclock/report"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("ADMS_CONFIG"), "optional YAML config file")
	out := flag.String("out", "attendance.xlsx", "output workbook")
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

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid canonical timezone", zap.Error(err))
	}

	rows, err := s.AttendanceHistory(ctx)
	if err != nil {
		logger.Fatal("failed to read attendance", zap.Error(err))
	}

	f, err := os.Create(*out)
	if err != nil {
		logger.Fatal("failed to create output", zap.Error(err))
	}
	defer f.Close()

	if err := report.WriteAttendance(f, rows, loc); err != nil {
		logger.Fatal("failed to write workbook", zap.Error(err))
	}
	logger.Info("attendance exported", zap.String("file", *out), zap.Int("rows", len(rows)))
}
