package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/config"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/db"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/logger"
	"github.com/abdullahdev0325-ai/followers-shop-sub000/pkg/migrate"
	"github.com/joho/godotenv"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|seed|create|validate")
	dir := flag.String("dir", "", "migrations directory; empty applies the embedded set and writes to "+migrate.DefaultDir)
	name := flag.String("name", "", "migration name (for create)")
	version := flag.String("version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	_ = godotenv.Load()
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	switch *cmd {
	case "create", "validate":
		if err := runFileCommand(*cmd, *dir, *name); err != nil {
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", *cmd, err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)
	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Fields:      map[string]any{"env": cfg.App.Env},
	})
	ctx := logg.WithField(context.Background(), "cmd", *cmd)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	if *cmd == "seed" {
		if err := migrate.SeedCatalog(ctx, dbClient.DB()); err != nil {
			fmt.Fprintf(os.Stderr, "catalog seed failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sqlDB, err := dbClient.SQL()
	requireResource(ctx, logg, "sql database", err)
	source, err := migrate.Source(*dir)
	requireResource(ctx, logg, "migration source", err)
	runner, err := migrate.NewRunner(sqlDB, dbClient.Dialect(), source)
	requireResource(ctx, logg, "migration runner", err)

	ctx = logg.WithField(ctx, "dialect", dbClient.Dialect())
	logg.Info(ctx, "migrate ready")

	switch *cmd {
	case "up":
		err = runner.Up(ctx)
	case "down":
		err = runner.Down(ctx)
	case "status":
		err = runner.PrintStatus(ctx, os.Stdout)
	case "version":
		if *version == "" {
			err = fmt.Errorf("missing -version")
			break
		}
		err = runner.MigrateTo(ctx, *version)
	default:
		err = fmt.Errorf("unknown -cmd value %q", *cmd)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", *cmd, err)
		os.Exit(1)
	}
}

// runFileCommand handles the commands that only touch migration files.
func runFileCommand(cmd, dir, name string) error {
	if dir == "" {
		dir = migrate.DefaultDir
	}
	if cmd == "validate" {
		if err := migrate.ValidateDir(dir); err != nil {
			return err
		}
		fmt.Println("migration validation passed")
		return nil
	}
	if name == "" {
		return fmt.Errorf("missing -name")
	}
	path, err := migrate.CreateSQLMigration(dir, name)
	if err != nil {
		return err
	}
	fmt.Println("created migration:", path)
	return nil
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
