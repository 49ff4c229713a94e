package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrymomot/webkernel/app"
	"github.com/dmitrymomot/webkernel/app/config"
	"github.com/dmitrymomot/webkernel/pkg/db"
	"github.com/dmitrymomot/webkernel/pkg/logger"
)

const usage = "usage: migrate up|down|status"

var errUsage = errors.New(usage)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, closer, err := logger.NewFromConfig(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	conn, err := db.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()

	m, err := db.NewMigrator(conn, app.Migrations(), "", log)
	if err != nil {
		return err
	}

	switch args[0] {
	case "up":
		return m.Up(ctx)
	case "down":
		return m.Down(ctx)
	case "status":
		return m.Status(ctx)
	default:
		return errUsage
	}
}
