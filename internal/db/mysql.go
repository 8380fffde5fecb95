package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db     *sql.DB
	schema string
}

// NewMySQLClient creates a new MySQL client. An empty schemaName falls back
// to the database named in the DSN.
func NewMySQLClient(ctx context.Context, connString, schemaName string) (*MySQLClient, error) {
	if schemaName == "" {
		var err error
		schemaName, err = ParseDatabaseName(connString)
		if err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("mysql", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLClient{db: db, schema: schemaName}, nil
}

// ParseDatabaseName extracts the database name from a MySQL DSN
func ParseDatabaseName(connString string) (string, error) {
	cfg, err := mysql.ParseDSN(connString)
	if err != nil {
		return "", fmt.Errorf("failed to parse MySQL DSN: %w", err)
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("MySQL DSN does not name a database")
	}
	return cfg.DBName, nil
}

// Exec runs a single statement
func (c *MySQLClient) Exec(ctx context.Context, stmt string) error {
	_, err := c.db.ExecContext(ctx, stmt)
	return err
}

// TableNames lists base tables in the client's schema
func (c *MySQLClient) TableNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT TABLE_NAME
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME
	`
	return queryStrings(ctx, c.db, query, c.schema)
}

// ColumnNames lists a table's columns in ordinal order
func (c *MySQLClient) ColumnNames(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT COLUMN_NAME
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`
	return queryStrings(ctx, c.db, query, c.schema, table)
}

// Close closes the database connection
func (c *MySQLClient) Close(context.Context) error {
	return c.db.Close()
}
