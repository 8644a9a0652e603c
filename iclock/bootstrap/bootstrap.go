// Package bootstrap wires configured infrastructure for the gateway commands.
package bootstrap

import (
	"context"
	"fmt"

	"axiapac.com/adms/config"
	"axiapac.com/adms/core"
	"axiapac.com/adms/iclock/store"
	"axiapac.com/adms/infrastructure/communication"
	"axiapac.com/adms/infrastructure/devops"
	"axiapac.com/adms/infrastructure/logging"
	"go.uber.org/zap"
)

// Load reads configuration and builds the logger.
func Load(path string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Environment, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// OpenStore connects to the configured database. When an SSM parameter is
// configured the DSN is read from it.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*store.GormStore, *core.DatabaseManager, error) {
	dsn := cfg.Database.DSN
	if cfg.Database.SSMParameter != "" {
		var err error
		dsn, err = devops.LoadDSN(ctx, cfg.Database.SSMParameter, cfg.Database.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("load dsn: %w", err)
		}
		logger.Info("using database from ssm",
			zap.String("parameter", cfg.Database.SSMParameter),
			zap.String("name", cfg.Database.Name))
	}

	dm, err := core.New(cfg.Database.Driver, dsn, cfg.Database.MaxConnections, core.ParseLogLevel(cfg.Database.LogLevel))
	if err != nil {
		return nil, nil, err
	}
	logger.Info("database connected", zap.String("driver", cfg.Database.Driver))
	return store.NewGormStore(dm), dm, nil
}

// Notifier returns the configured alert channels, or nil when none are set.
func Notifier(ctx context.Context, cfg *config.Config, logger *zap.Logger) communication.Notifier {
	var notifiers communication.Multi

	if cfg.Alerts.SlackBotToken != "" {
		notifiers = append(notifiers, communication.NewSlack(cfg.Alerts.SlackBotToken, communication.SlackOption{
			InfoChannelID:  cfg.Alerts.SlackInfoChannel,
			ErrorChannelID: cfg.Alerts.SlackErrorChannel,
		}))
	}

	if cfg.Alerts.EmailFrom != "" && len(cfg.Alerts.EmailTo) > 0 {
		email, err := communication.NewEmail(ctx, cfg.Alerts.EmailFrom, cfg.Alerts.EmailTo, "ADMS gateway")
		if err != nil {
			logger.Warn("email alerts disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, email)
		}
	}

	if len(notifiers) == 0 {
		return nil
	}
	return notifiers
}
