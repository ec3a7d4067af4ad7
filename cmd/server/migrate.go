package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Noah-Bakr/Teach-Team-sub001/pkg/database"
)

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	defer sqlDB.Close()

	return database.RunMigrations(sqlDB, logger)
}
