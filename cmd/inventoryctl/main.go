package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/smart-inventory/inventory/cmd/inventoryctl/cli"
	"github.com/smart-inventory/inventory/internal/app"
	"github.com/smart-inventory/inventory/internal/platform/db"
)

const usage = `usage: inventoryctl <command> [flags]

commands:
  init-db --yes   drop and recreate the inventory schema
  jobs <task>     enqueue a background task, or "stats" for queue depth
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(os.Stderr, usage)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		return 1
	}
	logger := app.NewLogger(cfg)

	switch args[0] {
	case "init-db":
		fs := flag.NewFlagSet("init-db", flag.ContinueOnError)
		confirm := fs.Bool("yes", false, "confirm dropping existing tables")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}
		pool, err := db.New(ctx, cfg.PGDSN, db.PoolOptions{MaxConns: 2})
		if err != nil {
			logger.Error("connect postgres", slog.Any("error", err))
			return 1
		}
		defer pool.Close()
		return cli.InitDBCommand(ctx, func(ctx context.Context) (int, error) {
			return db.RunScript(ctx, pool, db.Schema)
		}, cli.InitDBOptions{Confirm: *confirm})
	case "jobs":
		jobsCLI := cli.NewJobsCLI(cfg.RedisAddr)
		defer func() {
			if err := jobsCLI.Close(); err != nil {
				logger.Warn("jobs cli close", slog.Any("error", err))
			}
		}()
		name := ""
		if len(args) > 1 {
			name = args[1]
		}
		return jobsCLI.Command(ctx, cli.JobsOptions{Name: name})
	default:
		_, _ = fmt.Fprint(os.Stderr, usage)
		return 2
	}
}
