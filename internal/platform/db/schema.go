package db

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema holds the DDL for the inventory database. Running it drops and
// recreates every table.
//
//go:embed schema.sql
var Schema string

// SplitStatements splits a SQL script into executable statements. Comment-only
// lines are skipped and dollar-quoted bodies ($$ ... $$ or $tag$ ... $tag$) are
// kept whole even when they contain semicolons.
func SplitStatements(script string) []string {
	var (
		statements []string
		buf        strings.Builder
		dollarTag  string
	)
	scanner := bufio.NewScanner(strings.NewReader(script))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			if dollarTag != "" {
				buf.WriteString(line)
				buf.WriteByte('\n')
			}
			continue
		}

		if dollarTag == "" {
			dollarTag = openingDollarTag(trimmed)
			// Opening and closing tag on the same line.
			if dollarTag != "" && strings.Count(trimmed, dollarTag) >= 2 {
				dollarTag = ""
			}
		} else if strings.Contains(trimmed, dollarTag) {
			dollarTag = ""
		}

		buf.WriteString(line)
		buf.WriteByte('\n')

		if dollarTag == "" && strings.HasSuffix(trimmed, ";") {
			statements = append(statements, buf.String())
			buf.Reset()
		}
	}
	if rest := strings.TrimSpace(buf.String()); rest != "" {
		statements = append(statements, buf.String())
	}
	return statements
}

func openingDollarTag(line string) string {
	if strings.Contains(line, "$$") {
		return "$$"
	}
	start := strings.IndexByte(line, '$')
	if start == -1 {
		return ""
	}
	end := strings.IndexByte(line[start+1:], '$')
	if end == -1 {
		return ""
	}
	tag := line[start : start+end+2]
	if len(tag) < 3 {
		return ""
	}
	for _, r := range tag[1 : len(tag)-1] {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return ""
		}
	}
	return tag
}

// RunScript executes every statement of script inside a single transaction
// and returns the number of statements run.
func RunScript(ctx context.Context, pool *pgxpool.Pool, script string) (int, error) {
	statements := SplitStatements(script)
	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("platform/db: begin script: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.WithoutCancel(ctx))
	}()
	for i, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return i, fmt.Errorf("platform/db: statement %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("platform/db: commit script: %w", err)
	}
	return len(statements), nil
}
