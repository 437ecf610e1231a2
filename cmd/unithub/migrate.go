package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"unithub/internal/config"
	"unithub/internal/database"
	"unithub/internal/logger"
	"unithub/internal/schema"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long:  `Connects to the configured Postgres database and creates or updates the tenants, rent_payments, maintenance_requests, documents and communication_logs tables.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			db, err := database.NewGormDB(&cfg.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := schema.Migrate(db, log); err != nil {
				return err
			}
			log.Info("Migration completed", zap.String("database", cfg.Database.Database))
			return nil
		},
	}
}
