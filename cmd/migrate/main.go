// Command migrate applies and authors the jpashop schema migrations.
package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jpashop/backend/internal/infrastructure/config"
	"github.com/jpashop/backend/internal/infrastructure/logger"
	"github.com/jpashop/backend/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

// dbCommand runs against a live database. args excludes the command name.
type dbCommand struct {
	usage   string
	minArgs int
	run     func(m *migration.Migrator, log *zap.Logger, args []string) error
}

var dbCommands = map[string]dbCommand{
	"up":   {run: func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Up() }},
	"down": {run: func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Down() }},
	"step": {usage: "migrate step <n>", minArgs: 1, run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[0])
		}
		return m.Steps(n)
	}},
	"goto": {usage: "migrate goto <version>", minArgs: 1, run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.GoTo(uint(v))
	}},
	"force": {usage: "migrate force <version>", minArgs: 1, run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.Force(v)
	}},
	"version": {run: func(m *migration.Migrator, log *zap.Logger, _ []string) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Current migration version", zap.Uint("version", v), zap.Bool("dirty", dirty))
		return nil
	}},
	"drop": {usage: "migrate drop -confirm", minArgs: 1, run: func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		if args[0] != "-confirm" && args[0] != "--confirm" {
			return errors.New("drop not confirmed")
		}
		return m.Drop()
	}},
}

func main() {
	path := flag.String("path", "", "Migrations directory (default: migrations embedded in the binary)")
	level := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", Output: "stdout", TimeFormat: "2006-01-02 15:04:05"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	name, rest := args[0], args[1:]
	switch name {
	case "create":
		runCreate(log, dirOrDefault(*path), rest)
		return
	case "list":
		runList(log, dirOrDefault(*path))
		return
	}

	cmd, ok := dbCommands[name]
	if !ok {
		log.Error("Unknown command", zap.String("command", name))
		printUsage()
		os.Exit(1)
	}
	if len(rest) < cmd.minArgs {
		log.Fatal("Missing argument", zap.String("usage", cmd.usage))
	}

	db, m := openMigrator(log, *path)
	defer db.Close()
	defer m.Close()

	if err := cmd.run(m, log, rest); err != nil {
		log.Fatal("Migration command failed", zap.String("command", name), zap.Error(err))
	}
}

func openMigrator(log *zap.Logger, path string) (*sql.DB, *migration.Migrator) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	var m *migration.Migrator
	if path == "" {
		log.Info("Using embedded migrations")
		m, err = migration.NewEmbedded(db, log)
	} else {
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			log.Fatal("Failed to resolve migrations path", zap.Error(absErr))
		}
		log.Info("Using migrations directory", zap.String("path", abs))
		m, err = migration.New(db, abs, log)
	}
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	return db, m
}

func runCreate(log *zap.Logger, dir string, args []string) {
	if len(args) == 0 {
		log.Fatal("Migration name required", zap.String("usage", "migrate create <name> [description]"))
	}
	var description string
	if len(args) > 1 {
		description = args[1]
	}
	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		log.Fatal("Failed to create migration", zap.Error(err))
	}
	log.Info("Migration created",
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
}

func runList(log *zap.Logger, dir string) {
	names, err := migration.ListMigrations(dir)
	if err != nil {
		log.Fatal("Failed to list migrations", zap.Error(err))
	}
	log.Info("Available migrations", zap.Int("count", len(names)))
	for _, n := range names {
		fmt.Println("  -", n)
	}
}

func dirOrDefault(path string) string {
	if path == "" {
		return defaultMigrationsPath
	}
	return path
}

func printUsage() {
	fmt.Println(`jpashop database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  drop -confirm         Drop all database objects
  create <name> [desc]  Create the next sequential migration pair
  list                  List available migrations

Flags:
  -path string          Migrations directory (default: embedded migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Database settings come from config.toml or JPASHOP_DATABASE_* environment variables.`)
}
