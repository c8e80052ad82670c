package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/m04kA/SMC-ConsultationService/internal/config"
	"github.com/m04kA/SMC-ConsultationService/pkg/logger"
)

// Использование: migrate [-config config.toml] [-path migrations] up|down|version|force N
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	migrationsPath := flag.String("path", "migrations", "path to migrations directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	absPath, err := filepath.Abs(*migrationsPath)
	if err != nil {
		log.Fatal("Failed to resolve migrations path: %v", err)
	}

	m, err := migrate.New("file://"+absPath, cfg.Database.URL())
	if err != nil {
		log.Fatal("Failed to create migrator: %v", err)
	}
	m.Log = &migrateLogger{log: log}
	defer m.Close()

	cmd := "up"
	if flag.NArg() > 0 {
		cmd = flag.Arg(0)
	}

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			log.Fatal("Failed to read version: %v", verr)
		}
		log.Info("Migrations version=%d dirty=%t", version, dirty)
		return
	case "force":
		var version int
		if _, serr := fmt.Sscanf(flag.Arg(1), "%d", &version); serr != nil {
			log.Fatal("force requires a version number: %v", serr)
		}
		err = m.Force(version)
	default:
		log.Fatal("Unknown command %q (expected up, down, version, force)", cmd)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal("Migration %s failed: %v", cmd, err)
	}

	log.Info("Migration %s successful", cmd)
}

// migrateLogger адаптер логгера сервиса к migrate.Logger
type migrateLogger struct {
	log *logger.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.log.Printf(format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}
