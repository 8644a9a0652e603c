package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"axiapac.com/adms/iclock/bootstrap"
	"axiapac.com/adms/iclock/core"
	"axiapac.com/adms/iclock/model"
	"axiapac.com/adms/iclock/protocol"
	"axiapac.com/adms/iclock/store"
	"axiapac.com/adms/infrastructure/filesystem"
	"go.uber.org/zap"
)

// replay re-ingests archived push bodies. Attendance is appended again, so
// replaying a window that was already stored duplicates it.
//
// Serial numbers are taken from the archive key, not the original request.
// The gateway writes "/" in a serial number as "_" and an empty one as
// "unknown", so such pushes resolve to a machine under the rewritten name
// (or none), not the terminal that sent them.
func main() {
	configPath := flag.String("config", os.Getenv("ADMS_CONFIG"), "optional YAML config file")
	sn := flag.String("sn", "", "only replay pushes from this serial number")
	dryRun := flag.Bool("dry-run", false, "list archived pushes without ingesting them")
	flag.Parse()

	cfg, logger, err := bootstrap.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if cfg.Archive.Bucket == "" {
		logger.Fatal("ARCHIVE_BUCKET is not set")
	}

	ctx := context.Background()
	archive, err := filesystem.NewS3Archive(ctx, cfg.Archive.Bucket, cfg.Archive.Prefix)
	if err != nil {
		logger.Fatal("failed to configure archive", zap.Error(err))
	}

	keys, err := archive.ListFiles(ctx, *sn)
	if err != nil {
		logger.Fatal("failed to list archive", zap.Error(err))
	}
	logger.Info("archived pushes found", zap.Int("count", len(keys)))
	if *dryRun {
		for _, key := range keys {
			logger.Info("archived push", zap.String("key", key))
		}
		return
	}

	s, dm, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer dm.Close()

	canonical, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid canonical timezone", zap.Error(err))
	}
	pipeline := core.NewPipeline(s, core.PipelineConfig{
		DefaultTimezone: cfg.Device.DefaultTimezone,
		Canonical:       canonical,
	}, nil, logger.Named("ingest"))

	machines := map[string]*model.Machine{}
	stored := 0
	for _, key := range keys {
		serial, table, ok := archive.ParseKey(key)
		if !ok {
			logger.Warn("skipping unrecognised key", zap.String("key", key))
			continue
		}

		machine, seen := machines[serial]
		if !seen {
			machine, err = s.FindMachine(ctx, serial)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				logger.Fatal("failed to find machine", zap.String("sn", serial), zap.Error(err))
			}
			machines[serial] = machine
		}

		var body bytes.Buffer
		if err := archive.ReadFile(ctx, key, &body); err != nil {
			logger.Fatal("failed to read push", zap.String("key", key), zap.Error(err))
		}

		outcome, err := pipeline.Ingest(ctx, machine, protocol.DecodePush(table, body.Bytes()))
		if err != nil {
			logger.Fatal("failed to ingest push", zap.String("key", key), zap.Error(err))
		}
		stored += outcome.Stored
	}
	logger.Info("replay complete", zap.Int("pushes", len(keys)), zap.Int("stored", stored))
}
