package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/tablesql/internal/compiler"
	"github.com/tordrt/tablesql/internal/schema"
)

// MarkdownFormatter formats tables as markdown with embedded DDL
type MarkdownFormatter struct {
	writer   io.Writer
	compiler *compiler.Compiler
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer, c *compiler.Compiler) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w, compiler: c}
}

// Format writes the tables in markdown format
func (f *MarkdownFormatter) Format(tables []schema.Table) error {
	if err := schema.ValidateTables(tables); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(f.writer, "# Database Schema")
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range tables {
		if err := f.FormatTable(table); err != nil {
			return err
		}
	}
	return nil
}

// FormatTable formats a single table (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(table schema.Table) error {
	ddl, err := f.compiler.CreateTable(table)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table.Name)

	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintf(f.writer, "- **%s:** INTEGER, PK\n", schema.IDColumn)
	for _, field := range table.Fields {
		f.formatField(field)
	}
	_, _ = fmt.Fprintln(f.writer)

	_, _ = fmt.Fprintln(f.writer, "### SQL")
	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintf(f.writer, "```sql\n%s\n```\n\n", ddl)

	return nil
}

func (f *MarkdownFormatter) formatField(field schema.Field) {
	typeStr := compiler.ColumnType(field.Type)
	if len(field.Options) > 0 && field.Type.HasOptions() {
		typeStr = fmt.Sprintf("%s (%s)", typeStr, strings.Join(field.Options, "|"))
	}

	var constraints []string
	if field.Required {
		constraints = append(constraints, "NOT NULL")
	}
	if field.Name != "" {
		constraints = append(constraints, fmt.Sprintf("label %q", field.Name))
	}

	col := schema.Identifier(field.ID)
	if len(constraints) > 0 {
		_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", col, typeStr, strings.Join(constraints, ", "))
	} else {
		_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", col, typeStr)
	}
}
