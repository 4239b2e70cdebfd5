package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/AndrewOchs/TravelLog/internal/config"
	"github.com/AndrewOchs/TravelLog/internal/db"
	"github.com/AndrewOchs/TravelLog/internal/logging"
	"github.com/AndrewOchs/TravelLog/internal/photofiles"
	"github.com/AndrewOchs/TravelLog/internal/repository"
	"github.com/AndrewOchs/TravelLog/internal/store"
)

var (
	flagDBPath    string
	flagPhotoPath string
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "travellog",
	Short: "Travel photo journal",
	Long: `travellog keeps a local journal of travel photos: import images tagged
with a US state, city, and date, attach free-text notes, and browse
per-state and per-city history.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "database path (default $TRAVELLOG_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagPhotoPath, "photos", "", "photo storage root (default $TRAVELLOG_PHOTO_PATH)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// app bundles everything a command needs. close releases the database and
// log file.
type app struct {
	repo   *repository.Repository
	logger *slog.Logger
	close  func()
}

func openApp() (*app, error) {
	// A .env next to the binary is a dev convenience; absence is fine.
	_ = godotenv.Load()

	cfg := config.Load()
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	if flagPhotoPath != "" {
		cfg.PhotoPath = flagPhotoPath
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}

	logger, logCleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logCleanup()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	files, err := photofiles.NewStore(cfg.PhotoPath)
	if err != nil {
		closeDB(database, logger)
		logCleanup()
		return nil, fmt.Errorf("failed to initialize photo storage: %w", err)
	}

	repo := repository.New(store.NewPhotoStore(database), store.NewJournalStore(database), files, logger)

	return &app{
		repo:   repo,
		logger: logger,
		close: func() {
			closeDB(database, logger)
			logCleanup()
		},
	}, nil
}

func closeDB(database *sql.DB, logger *slog.Logger) {
	if err := database.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}
