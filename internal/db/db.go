// Package db runs compiled statements against PostgreSQL, MySQL and SQLite
// and reads back just enough catalog information (table and column names)
// to decide which statements are still needed.
package db

import (
	"context"
	"database/sql"
)

// Executor is a database connection that can run compiled statements
type Executor interface {
	// Exec runs a single statement
	Exec(ctx context.Context, stmt string) error

	// TableNames lists the base tables of the target schema
	TableNames(ctx context.Context) ([]string, error)

	// ColumnNames lists a table's columns in ordinal order
	ColumnNames(ctx context.Context, table string) ([]string, error)

	// Close releases the connection
	Close(ctx context.Context) error
}

var (
	_ Executor = (*PostgresClient)(nil)
	_ Executor = (*MySQLClient)(nil)
	_ Executor = (*SQLiteClient)(nil)
)

// queryStrings collects the first column of every row
func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, rows.Err()
}
