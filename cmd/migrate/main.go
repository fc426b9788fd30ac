package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/seo-writer/internal/config"
	"github.com/Rrens/seo-writer/internal/logger"
	"github.com/Rrens/seo-writer/internal/repository/postgres"
)

func main() {
	steps := flag.Int("steps", 1, "number of migrations to roll back with down")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-steps n] up|down\n", os.Args[0])
	}
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	closer, err := logger.Setup(cfg.Logging, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	dsn := cfg.Database.DSN()
	source := cfg.Database.MigrationsPath

	log.Info().Str("host", cfg.Database.Host).Int("port", cfg.Database.Port).Msg("Connecting to database")

	switch flag.Arg(0) {
	case "", "up":
		err = postgres.RunMigrations(dsn, source)
	case "down":
		err = postgres.RollbackMigrations(dsn, source, *steps)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
