//go:build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/tordrt/tablesql/internal/compiler"
	"github.com/tordrt/tablesql/internal/schema"
)

func TestMySQLClient(t *testing.T) {
	ctx := context.Background()

	// Use environment variable if set, otherwise use default test connection string
	connString := os.Getenv("TABLESQL_MYSQL_URL")
	if connString == "" {
		connString = "testuser:testpassword@tcp(localhost:3306)/testdb"
	}

	client, err := NewMySQLClient(ctx, connString, "")
	if err != nil {
		t.Fatalf("Failed to connect to MySQL: %v", err)
	}
	defer func() { _ = client.Close(ctx) }()

	table := schema.Table{Name: "tablesql_probe", Fields: []schema.Field{
		{ID: "title", Type: schema.FieldText, DefaultValue: "Untitled"},
	}}
	c := compiler.New(compiler.WithGeneratedID(compiler.DialectMySQL))

	if err := client.Exec(ctx, "DROP TABLE IF EXISTS tablesql_probe;"); err != nil {
		t.Fatalf("Failed to drop probe table: %v", err)
	}
	create, err := c.CreateTable(table)
	if err != nil {
		t.Fatalf("Failed to compile table: %v", err)
	}
	if err := client.Exec(ctx, create); err != nil {
		t.Fatalf("Failed to create probe table: %v", err)
	}
	defer func() { _ = client.Exec(ctx, "DROP TABLE IF EXISTS tablesql_probe;") }()

	alter, err := c.AddColumn(table, schema.Field{ID: "qty", Type: schema.FieldNumber})
	if err != nil {
		t.Fatalf("Failed to compile column: %v", err)
	}
	if err := client.Exec(ctx, alter); err != nil {
		t.Fatalf("Failed to add column: %v", err)
	}

	cols, err := client.ColumnNames(ctx, "tablesql_probe")
	if err != nil {
		t.Fatalf("Failed to list columns: %v", err)
	}
	want := []string{"id", "title", "qty"}
	if len(cols) != len(want) {
		t.Fatalf("Expected columns %v, got %v", want, cols)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("Expected column %d to be %s, got %s", i, want[i], cols[i])
		}
	}

	for _, record := range []schema.ValueRecord{{"title": "Write"}, {}} {
		insert, err := c.Insert(table, record)
		if err != nil {
			t.Fatalf("Failed to compile insert: %v", err)
		}
		if err := client.Exec(ctx, insert); err != nil {
			t.Fatalf("Failed to execute %q: %v", insert, err)
		}
	}

	var title string
	if err := client.db.QueryRowContext(ctx, "SELECT title FROM tablesql_probe WHERE id = 2").Scan(&title); err != nil {
		t.Fatalf("Failed to read back row: %v", err)
	}
	if title != "Untitled" {
		t.Errorf("Expected default title Untitled, got %s", title)
	}
}
