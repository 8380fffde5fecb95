// Package compiler turns table definitions into SQL text.
//
// A Compiler holds only its options and never touches the tables it is
// given, so one instance can be shared between goroutines. Every operation
// validates its input with schema.Validate and returns that error rather
// than emitting malformed SQL.
package compiler

import (
	"fmt"
	"strings"

	"github.com/tordrt/tablesql/internal/schema"
)

const (
	schemaHeader = "-- tablesql database schema\n-- Generated from table definitions"
	noTables     = "-- No tables to generate schema for"
)

// Dialect names the database a statement is meant to run on
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// idColumnDefs is keyed by dialect; the empty dialect is the portable form.
// Only SQLite assigns ids to "INTEGER PRIMARY KEY" on its own.
var idColumnDefs = map[Dialect]string{
	"":              schema.IDColumn + " INTEGER PRIMARY KEY",
	DialectSQLite:   schema.IDColumn + " INTEGER PRIMARY KEY",
	DialectPostgres: schema.IDColumn + " INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY",
	DialectMySQL:    schema.IDColumn + " INTEGER AUTO_INCREMENT PRIMARY KEY",
}

var columnTypes = map[schema.FieldType]string{
	schema.FieldText:     "TEXT",
	schema.FieldNumber:   "NUMERIC",
	schema.FieldDate:     "DATE",
	schema.FieldBoolean:  "BOOLEAN",
	schema.FieldDropdown: "TEXT",
	schema.FieldSelect:   "TEXT",
	schema.FieldFile:     "TEXT",
	schema.FieldImage:    "TEXT",
	schema.FieldFiles:    "TEXT",
	schema.FieldImages:   "TEXT",
}

// ColumnType returns the SQL column type for a field type. Unknown types
// are stored as TEXT.
func ColumnType(t schema.FieldType) string {
	if sqlType, ok := columnTypes[t]; ok {
		return sqlType
	}
	return "TEXT"
}

// Option configures a Compiler
type Option func(*Compiler)

// WithCheckConstraints adds a CHECK (col IN (...)) clause to dropdown columns
func WithCheckConstraints() Option {
	return func(c *Compiler) { c.checkConstraints = true }
}

// WithGeneratedID makes the id column generate its own values on d, and
// writes DEFAULT and empty inserts in the form d accepts. Output for
// DialectSQLite matches the default.
func WithGeneratedID(d Dialect) Option {
	return func(c *Compiler) { c.dialect = d }
}

// WithViews appends a CREATE VIEW per table to CompleteSchema output
func WithViews() Option {
	return func(c *Compiler) { c.views = true }
}

// Compiler generates SQL statements from table definitions
type Compiler struct {
	checkConstraints bool
	views            bool
	dialect          Dialect
}

// New creates a compiler
func New(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateTable generates the CREATE TABLE statement for a table.
// The statement always starts with the implicit id primary key.
func (c *Compiler) CreateTable(t schema.Table) (string, error) {
	if err := schema.Validate(t); err != nil {
		return "", err
	}

	columns := make([]string, 0, len(t.Fields)+1)
	columns = append(columns, c.idColumnDef())
	for _, f := range t.Fields {
		columns = append(columns, c.columnDefinition(f))
	}

	return fmt.Sprintf("CREATE TABLE %s (%s);", schema.Identifier(t.Name), strings.Join(columns, ", ")), nil
}

// CompleteSchema generates a schema dump: a header comment followed by
// one CREATE TABLE per table, in input order, separated by blank lines
func (c *Compiler) CompleteSchema(tables []schema.Table) (string, error) {
	if err := schema.ValidateTables(tables); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(schemaHeader)
	b.WriteString("\n\n")

	if len(tables) == 0 {
		b.WriteString(noTables)
		b.WriteString("\n")
		return b.String(), nil
	}

	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n\n")
		}
		stmt, err := c.CreateTable(t)
		if err != nil {
			return "", err
		}
		b.WriteString(stmt)
	}

	if c.views {
		b.WriteString("\n\n-- Views")
		for _, t := range tables {
			b.WriteString("\n\n")
			b.WriteString(view(t))
		}
	}

	b.WriteString("\n")
	return b.String(), nil
}

// Insert generates an INSERT statement for one record. Columns follow the
// table's field order; record keys that match no field, or whose value is
// nil, are left out.
func (c *Compiler) Insert(t schema.Table, record schema.ValueRecord) (string, error) {
	if err := schema.Validate(t); err != nil {
		return "", err
	}

	table := schema.Identifier(t.Name)
	var cols, vals []string
	for _, f := range t.Fields {
		v, ok := record[f.ID]
		if !ok || v == nil {
			continue
		}
		cols = append(cols, schema.Identifier(f.ID))
		vals = append(vals, Literal(f.Type, v))
	}

	if len(cols) == 0 {
		if c.dialect == DialectMySQL {
			return fmt.Sprintf("INSERT INTO %s () VALUES ();", table), nil
		}
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES;", table), nil
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", table, strings.Join(cols, ", "), strings.Join(vals, ", ")), nil
}

func (c *Compiler) columnDefinition(f schema.Field) string {
	col := schema.Identifier(f.ID)
	def := col + " " + ColumnType(f.Type)

	if f.DefaultValue != nil {
		def += " DEFAULT " + c.defaultLiteral(f)
	}

	if f.Required {
		def += " NOT NULL"
	}

	if c.checkConstraints && f.Type.HasOptions() {
		opts := make([]string, len(f.Options))
		for i, o := range f.Options {
			opts[i] = Quote(o)
		}
		def += fmt.Sprintf(" CHECK (%s IN (%s))", col, strings.Join(opts, ", "))
	}

	return def
}

func (c *Compiler) idColumnDef() string {
	if def, ok := idColumnDefs[c.dialect]; ok {
		return def
	}
	return idColumnDefs[""]
}

// defaultLiteral renders a field's default. MySQL only accepts literal
// defaults on TEXT columns as parenthesized expressions.
func (c *Compiler) defaultLiteral(f schema.Field) string {
	lit := Literal(f.Type, f.DefaultValue)
	if c.dialect == DialectMySQL && lit != "NULL" {
		return "(" + lit + ")"
	}
	return lit
}

func view(t schema.Table) string {
	table := schema.Identifier(t.Name)
	return fmt.Sprintf("CREATE VIEW v_%s AS SELECT %s FROM %s;", table, strings.Join(selectColumns(t), ", "), table)
}

func selectColumns(t schema.Table) []string {
	cols := make([]string, 0, len(t.Fields)+1)
	cols = append(cols, schema.IDColumn)
	for _, f := range t.Fields {
		cols = append(cols, schema.Identifier(f.ID))
	}
	return cols
}
