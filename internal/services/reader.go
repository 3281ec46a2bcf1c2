package services

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

// ReadTable returns every row of a managed table ordered by its first
// column. Cells are formatted for display and NULL becomes "".
func ReadTable(ctx context.Context, conn bookseed.DBConnection, table string) (*bookseed.Table, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	rows, err := conn.Query(ctx, fmt.Sprintf(queryReadTable, pgx.Identifier{table}.Sanitize()))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	defer rows.Close()

	out := &bookseed.Table{Name: table}
	for _, fd := range rows.FieldDescriptions() {
		out.Columns = append(out.Columns, fd.Name)
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s row: %w", table, err)
		}
		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = formatCell(v)
		}
		out.Rows = append(out.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return out, nil
}

func checkTable(table string) error {
	if !bookseed.IsManagedTable(table) {
		return fmt.Errorf("table %q (expected one of: %s): %w",
			table, strings.Join(bookseed.Tables, ", "), bookseed.ErrUnknownTable)
	}
	return nil
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(bookseed.DateLayout)
	case driver.Valuer:
		// pgtype.Numeric and friends
		dv, err := val.Value()
		if err != nil || dv == nil {
			return ""
		}
		return formatCell(dv)
	default:
		return fmt.Sprint(val)
	}
}
