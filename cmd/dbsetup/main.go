package main

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"orders-api/config"
	"orders-api/database"
	"orders-api/setup"
)

func main() {
	cfg := config.LoadConfig()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	app := &cli.App{
		Name:  "dbsetup",
		Usage: "Provision the orders database and load seed data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "csv-dir",
				Usage:       "directory holding Orders.csv and Order_Items.csv",
				Value:       cfg.CSVDir,
				Destination: &cfg.CSVDir,
			},
		},
		Action: func(c *cli.Context) error {
			return runAll(c.Context, cfg)
		},
		Commands: []*cli.Command{
			{
				Name:  "wait",
				Usage: "wait until the database host accepts TCP connections",
				Action: func(c *cli.Context) error {
					return waitForDB(c.Context, cfg)
				},
			},
			{
				Name:  "schema",
				Usage: "create the database and tables if absent",
				Action: func(c *cli.Context) error {
					return createSchema(c.Context, cfg)
				},
			},
			{
				Name:  "seed",
				Usage: "bulk-load the CSV seed files",
				Action: func(c *cli.Context) error {
					return loadSeed(c.Context, cfg)
				},
			},
			{
				Name:  "all",
				Usage: "wait, create the schema, then load the seed files",
				Action: func(c *cli.Context) error {
					return runAll(c.Context, cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runAll(ctx context.Context, cfg *config.Config) error {
	if err := waitForDB(ctx, cfg); err != nil {
		return err
	}
	if err := createSchema(ctx, cfg); err != nil {
		return err
	}
	return loadSeed(ctx, cfg)
}

func waitForDB(ctx context.Context, cfg *config.Config) error {
	return database.WaitForHost(ctx, cfg.DBHost, cfg.DBPort, cfg.DBWaitTimeout, time.Second)
}

func createSchema(ctx context.Context, cfg *config.Config) error {
	server, err := database.Open(ctx, cfg, "")
	if err != nil {
		return err
	}
	err = setup.CreateDatabase(ctx, server, cfg.DBName)
	_ = server.Close()
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()

	return setup.CreateTables(ctx, db)
}

func loadSeed(ctx context.Context, cfg *config.Config) error {
	db, err := database.Open(ctx, cfg, cfg.DBName)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, src := range setup.SeedSources(cfg.CSVDir) {
		log.WithFields(log.Fields{"file": src.Path, "table": src.Table}).Info("loading seed file")
		if _, err := setup.LoadCSV(ctx, db, src); err != nil {
			return fmt.Errorf("seed %s: %w", src.Table, err)
		}
	}
	return nil
}
