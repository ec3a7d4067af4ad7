package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Noah-Bakr/Teach-Team-sub001/config"
	applogger "github.com/Noah-Bakr/Teach-Team-sub001/pkg/logger"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "teachteam",
		Short: "TeachTeam applicant review backend",
		Long: `Serves the TeachTeam review API: candidate applications, the lecturer
applicant table, selection, ranking, comments and the selection overview.`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default)",
		RunE:  runServe,
	}
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE:  runMigrate,
	}
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Write the built-in applicants to the snapshot store",
		Long: `Overwrites the persisted applicant snapshot with the built-in defaults.
With --with-db the built-in users and courses are also inserted into the
database when missing.`,
		RunE: runSeed,
	}
	seedWithDB   bool
	seedPassword string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")

	seedCmd.Flags().BoolVar(&seedWithDB, "with-db", false, "also insert built-in users and courses")
	seedCmd.Flags().StringVar(&seedPassword, "password", "password123", "password for inserted users")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads configuration and builds the logger every command needs.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}
