// AngelaMos | 2026
// main.go

package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/angelamos/recipebox/internal/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	source := flag.String("source", "file://migrations", "migrations source")
	down := flag.Bool("down", false, "roll back one migration instead of applying all")
	flag.Parse()

	if err := run(*configPath, *source, *down); err != nil {
		slog.Error("migration error", "error", err)
		os.Exit(1)
	}
}

func run(configPath, source string, down bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	migrator, err := migrate.New(source, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if down {
		err = migrator.Steps(-1)
	} else {
		err = migrator.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("no pending migrations")
		return nil
	}
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("migrations applied")
	return nil
}
