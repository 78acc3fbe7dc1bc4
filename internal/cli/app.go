package cli

import (
	"fmt"
	"strings"

	"gift_catalog/internal/config"
	"gift_catalog/internal/db"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func loadConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigFile != "" {
		return config.LoadFromINI(opts.ConfigFile)
	}
	return config.Load()
}

// setupLogger configures the standard logrus logger, which the HTTP layer also writes to
func setupLogger(cfg config.LogConfig) (*logrus.Entry, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	logger := logrus.StandardLogger()
	logger.SetLevel(level)
	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q: must be text or json", cfg.Format)
	}
	return logrus.NewEntry(logger).WithField("service", "gift_catalog"), nil
}

// bootstrap loads config, sets up logging and opens the database
func bootstrap(opts *RootOptions) (*config.Config, *logrus.Entry, *gorm.DB, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := setupLogger(cfg.Log)
	if err != nil {
		return nil, nil, nil, err
	}

	gdb, err := db.Open(cfg.DB.Driver, cfg.DB.DSN, log.WithField("component", "db"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, log, gdb, nil
}
