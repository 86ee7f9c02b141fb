// Command tasklist runs the multi-user todo API.
//
//	tasklist [serve]              start the HTTP server (default)
//	tasklist migrate up           apply pending migrations
//	tasklist migrate down -n 1    roll back migrations
//
// Configuration comes from the environment, optionally loaded from a .env file.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/user/tasklist-go/auth"
	"github.com/user/tasklist-go/config"
	"github.com/user/tasklist-go/db"
	"github.com/user/tasklist-go/logging"
	"github.com/user/tasklist-go/server"
	"github.com/user/tasklist-go/todos"
	"github.com/user/tasklist-go/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Name:   "tasklist",
		Usage:  "multi-user todo API",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "manage the database schema",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "apply all pending migrations",
						Action: migrateUp,
					},
					{
						Name:  "down",
						Usage: "roll back migrations",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "steps", Aliases: []string{"n"}, Value: 1, Usage: "number of migrations to roll back"},
						},
						Action: migrateDown,
					},
				},
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		slog.Error("tasklist failed", "error", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Server.MigrateOnStart {
		if err := db.RunMigrations(cfg.Database.DSN()); err != nil {
			return err
		}
	}

	pool, err := db.NewPool(c.Context, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	accounts := auth.NewService(users.NewRepository(pool), *cfg.Auth)
	tasks := todos.NewService(todos.NewRepository(pool))

	handler := server.NewRouter(accounts, tasks, pool)
	return server.Serve(c.Context, fmt.Sprintf(":%s", cfg.Server.Port), handler)
}

func migrateUp(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return db.RunMigrations(cfg.Database.DSN())
}

func migrateDown(c *cli.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return db.RollbackMigrations(cfg.Database.DSN(), c.Int("steps"))
}
