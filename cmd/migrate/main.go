// Package main applies the SQL files under migrations/ to the Postgres store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"

	"github.com/Devesh36/CodeBits/internal/config"
	"github.com/Devesh36/CodeBits/internal/data"
	"github.com/Devesh36/CodeBits/pkg/logger"
)

func main() {
	path := flag.String("path", "./migrations", "directory holding the migration files")
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	logger.InitLogging()
	config.InitConf()
	ctx := context.Background()

	m, err := migrate.New("file://"+*path, data.PostgresDSN(config.Conf))
	if err != nil {
		logger.Fatal(ctx, "migration init failed: %v", err)
	}
	defer m.Close()
	m.Log = migrateLogger{}

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal(ctx, "up failed: %v", err)
		}
		logger.Info(ctx, "migrations applied")
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				logger.Fatal(ctx, "down: invalid steps argument %q", args[1])
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal(ctx, "down failed: %v", err)
		}
		logger.Info(ctx, "rolled back %d migration(s)", steps)
	case "version":
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			logger.Fatal(ctx, "version failed: %v", err)
		}
		fmt.Printf("version: %d dirty: %v\n", v, dirty)
	case "force":
		if len(args) < 2 {
			logger.Fatal(ctx, "force: version argument required")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			logger.Fatal(ctx, "force: invalid version %q", args[1])
		}
		if err := m.Force(v); err != nil {
			logger.Fatal(ctx, "force failed: %v", err)
		}
		logger.Info(ctx, "forced version %d", v)
	default:
		usage()
		os.Exit(1)
	}
}

// migrateLogger routes golang-migrate output through logrus.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) { logrus.Infof(format, v...) }
func (migrateLogger) Verbose() bool                  { return logrus.IsLevelEnabled(logrus.DebugLevel) }

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [-path dir] <command> [args]

Commands:
  up          Apply all pending migrations
  down [N]    Roll back N migrations (default 1)
  version     Print the current migration version
  force <V>   Set the version without running migrations

Connection settings come from POSTGRES_URL or the POSTGRES_* variables.`)
}
