// Package tablesql compiles spreadsheet-style table definitions into SQL.
//
// A table is a name plus an ordered list of typed fields (text, number,
// date, boolean, dropdown, file and image attachments). tablesql turns such
// definitions into CREATE TABLE statements, a complete schema dump, and
// INSERT statements for value records, and can apply the result to a live
// PostgreSQL, MySQL or SQLite database.
//
// # Quick Start
//
// The simplest way to use this package is with LoadAndFormat:
//
//	err := tablesql.LoadAndFormat(
//		"tables.yaml",
//		&tablesql.Options{ExcludeTables: []string{"Scratch"}},
//		&tablesql.OutputOptions{Writer: os.Stdout},
//	)
//
// # Definition files
//
// Table definitions are YAML (or JSON) documents:
//
//	tables:
//	  - id: 1
//	    name: Tasks
//	    fields:
//	      - {id: status, name: Status, type: dropdown, options: [Todo, Done]}
//
// # Output Formats
//
// Single-file output writes to any io.Writer:
//
//	&OutputOptions{Writer: os.Stdout, Format: "sql"} // or "markdown", "text"
//
// Multi-file output creates a directory with _overview.<ext> and one file per table:
//
//	&OutputOptions{OutputDir: "db/schema"}
//
// Generated SQL is deterministic: the same definitions always produce
// byte-identical output, so schema files can be diffed across edits.
package tablesql

import (
	"fmt"
	"io"
	"os"

	"github.com/tordrt/tablesql/internal/compiler"
	"github.com/tordrt/tablesql/internal/formatter"
	"github.com/tordrt/tablesql/internal/schema"
)

// Options configures which tables are compiled and how.
//
// All fields are optional. If not specified:
//   - Tables: nil compiles every table in the definitions
//   - ExcludeTables: empty list excludes no tables
//
// Table names match either the display name or its SQL identifier, so
// "My Table" and "my_table" select the same table.
type Options struct {
	// Tables specifies which tables to include.
	// If nil or empty, all tables are included.
	Tables []string

	// ExcludeTables specifies tables to leave out.
	// Applied after Tables.
	ExcludeTables []string

	// Views appends a CREATE VIEW per table to the schema dump.
	Views bool

	// CheckConstraints restricts dropdown columns to their options
	// with a CHECK (col IN (...)) clause.
	CheckConstraints bool
}

// OutputOptions configures schema output formatting.
//
// If both Writer and OutputDir are specified, OutputDir takes precedence
// and Writer is ignored. If neither is specified, output goes to os.Stdout.
type OutputOptions struct {
	// Writer specifies where to write single-file output.
	// Defaults to os.Stdout if neither Writer nor OutputDir is specified.
	Writer io.Writer

	// OutputDir specifies the directory for multi-file output.
	// If set, creates:
	//   - _overview.<ext>: table summary (the full dump for SQL output)
	//   - <table>.<ext>: one file per table
	// The directory will be created if it doesn't exist.
	OutputDir string

	// Format is "sql" (default), "markdown" or "text".
	Format string
}

// LoadSchema reads table definitions from a YAML or JSON file
func LoadSchema(path string) ([]schema.Table, error) {
	return schema.LoadTablesFile(path)
}

// NewCompiler returns a compiler configured from opts (which may be nil)
func NewCompiler(opts *Options) *compiler.Compiler {
	var copts []compiler.Option
	if opts != nil && opts.Views {
		copts = append(copts, compiler.WithViews())
	}
	if opts != nil && opts.CheckConstraints {
		copts = append(copts, compiler.WithCheckConstraints())
	}
	return compiler.New(copts...)
}

// LoadAndFormat loads table definitions from path, applies the table
// filters in opts and writes the formatted schema.
func LoadAndFormat(path string, opts *Options, outOpts *OutputOptions) error {
	tables, err := LoadSchema(path)
	if err != nil {
		return err
	}
	return FormatSchema(tables, opts, outOpts)
}

// FormatSchema compiles the selected tables and writes them to the output
// described by outOpts.
//
// Returns an error if:
//   - a table fails validation (empty name, duplicate field ids,
//     dropdown without options, two tables with the same identifier)
//   - Directory creation or file writing fails
func FormatSchema(tables []schema.Table, opts *Options, outOpts *OutputOptions) error {
	if opts == nil {
		opts = &Options{}
	}
	if outOpts == nil {
		outOpts = &OutputOptions{Writer: os.Stdout}
	}

	tables = SelectTables(tables, opts.Tables, opts.ExcludeTables)
	c := NewCompiler(opts)

	// Multi-file output
	if outOpts.OutputDir != "" {
		return formatter.NewMultiFileFormatter(outOpts.OutputDir, outOpts.Format, c).Format(tables)
	}

	// Single-file output
	writer := outOpts.Writer
	if writer == nil {
		writer = os.Stdout
	}
	f, err := formatter.New(outOpts.Format, writer, c)
	if err != nil {
		return err
	}
	return f.Format(tables)
}

// GenerateInserts writes one INSERT statement per record, each on its own line
func GenerateInserts(table schema.Table, records []schema.ValueRecord, w io.Writer) error {
	c := compiler.New()
	for i, record := range records {
		stmt, err := c.Insert(table, record)
		if err != nil {
			return fmt.Errorf("failed to compile record %d: %w", i, err)
		}
		if _, err := fmt.Fprintln(w, stmt); err != nil {
			return err
		}
	}
	return nil
}

// FindTable returns the table whose display name or identifier is name
func FindTable(tables []schema.Table, name string) (schema.Table, bool) {
	for _, t := range tables {
		if matchesName(t, name) {
			return t, true
		}
	}
	return schema.Table{}, false
}

// SelectTables keeps the tables named in include (all when empty) and
// drops those named in exclude, preserving input order
func SelectTables(tables []schema.Table, include, exclude []string) []schema.Table {
	if len(include) == 0 && len(exclude) == 0 {
		return tables
	}

	selected := make([]schema.Table, 0, len(tables))
	for _, t := range tables {
		if len(include) > 0 && !matchesAny(t, include) {
			continue
		}
		if matchesAny(t, exclude) {
			continue
		}
		selected = append(selected, t)
	}
	return selected
}

func matchesAny(t schema.Table, names []string) bool {
	for _, name := range names {
		if matchesName(t, name) {
			return true
		}
	}
	return false
}

func matchesName(t schema.Table, name string) bool {
	return t.Name == name || schema.Identifier(t.Name) == schema.Identifier(name)
}
