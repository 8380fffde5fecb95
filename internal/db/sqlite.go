package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient manages the connection to SQLite
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient creates a new SQLite client
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// Exec runs a single statement
func (c *SQLiteClient) Exec(ctx context.Context, stmt string) error {
	_, err := c.db.ExecContext(ctx, stmt)
	return err
}

// TableNames lists user tables, skipping SQLite's internal ones
func (c *SQLiteClient) TableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`
	return queryStrings(ctx, c.db, query)
}

// ColumnNames lists a table's columns in declaration order
func (c *SQLiteClient) ColumnNames(ctx context.Context, table string) ([]string, error) {
	return queryStrings(ctx, c.db, "SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
}

// Close closes the database connection
func (c *SQLiteClient) Close(context.Context) error {
	return c.db.Close()
}
