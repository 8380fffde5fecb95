package formatter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/tordrt/tablesql/internal/compiler"
	"github.com/tordrt/tablesql/internal/schema"
)

const (
	FormatSQL      = "sql"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Formatter writes a set of tables somewhere
type Formatter interface {
	Format(tables []schema.Table) error
}

// New returns the single-writer formatter for format
func New(format string, w io.Writer, c *compiler.Compiler) (Formatter, error) {
	switch format {
	case FormatSQL, "":
		return NewSQLFormatter(w, c), nil
	case FormatMarkdown:
		return NewMarkdownFormatter(w, c), nil
	case FormatText:
		return NewTextFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'sql', 'markdown' or 'text')", format)
	}
}

// MultiFileFormatter writes one file per table plus an overview into a directory
type MultiFileFormatter struct {
	OutputDir    string
	OutputFormat string // "sql", "markdown" or "text"
	compiler     *compiler.Compiler
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir, format string, c *compiler.Compiler) *MultiFileFormatter {
	if format == "" {
		format = FormatSQL
	}
	return &MultiFileFormatter{
		OutputDir:    outputDir,
		OutputFormat: format,
		compiler:     c,
	}
}

// Format writes the tables to multiple files
func (f *MultiFileFormatter) Format(tables []schema.Table) error {
	if _, err := New(f.OutputFormat, io.Discard, f.compiler); err != nil {
		return err
	}
	if err := schema.ValidateTables(tables); err != nil {
		return err
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := f.writeOverview(tables); err != nil {
		return fmt.Errorf("failed to write overview: %w", err)
	}

	for _, table := range tables {
		if err := f.writeTableFile(table); err != nil {
			return fmt.Errorf("failed to write table file for %s: %w", table.Name, err)
		}
	}

	return nil
}

// writeOverview writes the overview file. For SQL output the overview is
// the full schema dump so it can be run on its own.
func (f *MultiFileFormatter) writeOverview(tables []schema.Table) error {
	file, err := os.Create(filepath.Join(f.OutputDir, "_overview"+f.getFileExtension()))
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	switch f.OutputFormat {
	case FormatSQL:
		return NewSQLFormatter(file, f.compiler).Format(tables)
	case FormatMarkdown:
		f.writeMarkdownOverview(file, tables)
	default:
		f.writeTextOverview(file, tables)
	}
	return nil
}

func (f *MultiFileFormatter) writeMarkdownOverview(w io.Writer, tables []schema.Table) {
	_, _ = fmt.Fprintf(w, "# Schema Overview\n\n")
	_, _ = fmt.Fprintf(w, "Each table has a corresponding file: `<table_name>%s`\n\n", f.getFileExtension())
	_, _ = fmt.Fprintf(w, "## Tables\n\n")

	for _, table := range sortedByIdentifier(tables) {
		_, _ = fmt.Fprintf(w, "- **%s** (%s, %d columns)\n", schema.Identifier(table.Name), table.Name, len(table.Fields)+1)
	}
}

func (f *MultiFileFormatter) writeTextOverview(w io.Writer, tables []schema.Table) {
	_, _ = fmt.Fprintf(w, "SCHEMA OVERVIEW\n")
	_, _ = fmt.Fprintf(w, "Each table has a file: <table_name>%s\n\n", f.getFileExtension())

	for _, table := range sortedByIdentifier(tables) {
		_, _ = fmt.Fprintf(w, "%s (%d columns)\n", schema.Identifier(table.Name), len(table.Fields)+1)
	}
}

// writeTableFile writes a single table to its own file
func (f *MultiFileFormatter) writeTableFile(table schema.Table) error {
	filename := filepath.Join(f.OutputDir, schema.Identifier(table.Name)+f.getFileExtension())

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	switch f.OutputFormat {
	case FormatSQL:
		ddl, err := f.compiler.CreateTable(table)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(file, ddl)
		return err
	case FormatMarkdown:
		return NewMarkdownFormatter(file, f.compiler).FormatTable(table)
	default:
		NewTextFormatter(file).formatTable(table)
		return nil
	}
}

func (f *MultiFileFormatter) getFileExtension() string {
	switch f.OutputFormat {
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return ".sql"
	}
}

func sortedByIdentifier(tables []schema.Table) []schema.Table {
	sorted := make([]schema.Table, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool {
		return schema.Identifier(sorted[i].Name) < schema.Identifier(sorted[j].Name)
	})
	return sorted
}
