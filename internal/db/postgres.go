package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PostgresClient manages the connection to PostgreSQL
type PostgresClient struct {
	conn   *pgx.Conn
	schema string
}

// NewPostgresClient creates a new PostgreSQL client bound to schemaName
func NewPostgresClient(ctx context.Context, connString, schemaName string) (*PostgresClient, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if schemaName == "" {
		schemaName = "public"
	}

	return &PostgresClient{conn: conn, schema: schemaName}, nil
}

// Exec runs a single statement
func (c *PostgresClient) Exec(ctx context.Context, stmt string) error {
	_, err := c.conn.Exec(ctx, stmt)
	return err
}

// TableNames lists base tables in the client's schema
func (c *PostgresClient) TableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := c.conn.Query(ctx, query, c.schema)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// ColumnNames lists a table's columns in ordinal order
func (c *PostgresClient) ColumnNames(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := c.conn.Query(ctx, query, c.schema, table)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Close closes the database connection
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}
