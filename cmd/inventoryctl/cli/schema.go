package cli

import (
	"context"
	"fmt"
	"io"
	"os"
)

// SchemaRunner executes the schema script and reports statements run.
type SchemaRunner func(ctx context.Context) (int, error)

// InitDBOptions defines flags for the init-db command.
type InitDBOptions struct {
	// Confirm must be set; the schema drops every table first.
	Confirm bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// InitDBCommand recreates the database schema.
func InitDBCommand(ctx context.Context, run SchemaRunner, opts InitDBOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if !opts.Confirm {
		_, _ = fmt.Fprintln(opts.Stderr, "init-db: this drops all inventory data; rerun with --yes")
		return 2
	}
	count, err := run(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "init-db: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(opts.Stdout, "Schema initialized (%d statements)\n", count)
	return 0
}
