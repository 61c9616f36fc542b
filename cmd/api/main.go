package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/employee-api/internal/config"
	"github.com/employee-api/internal/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// rootCmd без подкоманды запускает сервер
var rootCmd = &cobra.Command{
	Use:           "api",
	Short:         "Employee REST API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// bootstrap загружает конфигурацию, настраивает логгер и подключается к БД
func bootstrap() (*config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Инициализация логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.Log.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Подключение к БД
	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return cfg, logger, db, nil
}
