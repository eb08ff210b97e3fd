package main

import (
	"errors"
	"flag"
	"fmt"

	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// migrator is the subset of *migrate.Migrate the command drives.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
}

func main() {
	mode := flag.String("mode", "up", "migration mode: up, down, steps or version")
	steps := flag.Int("steps", 1, "number of steps for -mode=steps (negative rolls back)")
	dir := flag.String("dir", "migrations", "directory holding the *.up.sql / *.down.sql files")
	flag.Parse()

	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := db.NewDatabase(cfg)
	if err != nil {
		logger.L().Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close()

	driver, err := postgres.WithInstance(database, &postgres.Config{})
	if err != nil {
		logger.L().Fatal("could not create migration driver", zap.Error(err))
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+*dir, "postgres", driver)
	if err != nil {
		logger.L().Fatal("could not create migrate instance", zap.Error(err))
	}

	if err := run(m, *mode, *steps); err != nil {
		logger.L().Fatal("migration failed", zap.String("mode", *mode), zap.Error(err))
	}
}

func run(m migrator, mode string, steps int) error {
	var err error
	switch mode {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if steps == 0 {
			return errors.New("steps must be non-zero")
		}
		err = m.Steps(steps)
	case "version":
	default:
		return fmt.Errorf("unknown mode: %s (use up, down, steps or version)", mode)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		logger.L().Info("no migrations to apply", zap.String("mode", mode))
		err = nil
	}
	if err != nil {
		return err
	}

	version, dirty, verr := m.Version()
	if errors.Is(verr, migrate.ErrNilVersion) {
		logger.L().Info("database has no applied migrations")
		return nil
	}
	if verr != nil {
		return fmt.Errorf("read version: %w", verr)
	}

	logger.L().Info("migrations complete",
		zap.String("mode", mode),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}
