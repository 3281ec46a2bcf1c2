package schema

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/vvka-141/bookseed/pkg/bookseed"
)

//go:embed schema.sql
var DDL string

const queryTableExists = `
	SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1
	)`

var createTablePattern = regexp.MustCompile(`(?i)CREATE TABLE IF NOT EXISTS\s+(\w+)`)

// Statement is one CREATE TABLE statement of the schema.
type Statement struct {
	Table string
	SQL   string
}

// Statements splits the embedded DDL into per-table statements, in file order.
func Statements() []Statement {
	var out []Statement
	for _, chunk := range strings.Split(stripComments(DDL), ";") {
		sql := strings.TrimSpace(chunk)
		if sql == "" {
			continue
		}
		m := createTablePattern.FindStringSubmatch(sql)
		if m == nil {
			continue
		}
		out = append(out, Statement{Table: m[1], SQL: sql})
	}
	return out
}

func stripComments(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// Ensure creates every missing table. Each statement autocommits; on failure
// tables created before the failing one are kept.
func Ensure(ctx context.Context, conn bookseed.DBConnection, logger bookseed.Logger) error {
	for _, stmt := range Statements() {
		if _, err := conn.Exec(ctx, stmt.SQL); err != nil {
			return fmt.Errorf("%w: create table %s: %w", bookseed.ErrSchemaFailed, stmt.Table, err)
		}
		logger.Verbose("Ensured table %s", stmt.Table)
	}
	return nil
}

// Exists reports whether table exists in the current schema.
func Exists(ctx context.Context, conn bookseed.DBConnection, table string) (bool, error) {
	var exists bool
	if err := conn.QueryRow(ctx, queryTableExists, table).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return exists, nil
}

// Missing returns the managed tables that do not exist yet.
func Missing(ctx context.Context, conn bookseed.DBConnection) ([]string, error) {
	var missing []string
	for _, table := range bookseed.Tables {
		ok, err := Exists(ctx, conn, table)
		if err != nil {
			return nil, err
		}
		if !ok {
			missing = append(missing, table)
		}
	}
	return missing, nil
}
