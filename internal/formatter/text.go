package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/tablesql/internal/compiler"
	"github.com/tordrt/tablesql/internal/schema"
)

// TextFormatter formats tables as a compact outline
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the tables in compact text format
func (f *TextFormatter) Format(tables []schema.Table) error {
	if err := schema.ValidateTables(tables); err != nil {
		return err
	}

	for i, table := range tables {
		if i > 0 {
			_, _ = fmt.Fprintln(f.writer) // Blank line between tables
		}
		f.formatTable(table)
	}
	return nil
}

func (f *TextFormatter) formatTable(table schema.Table) {
	_, _ = fmt.Fprintf(f.writer, "TABLE %s (PK: %s)\n", schema.Identifier(table.Name), schema.IDColumn)

	for _, field := range table.Fields {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", f.formatField(field))
	}
}

func (f *TextFormatter) formatField(field schema.Field) string {
	parts := []string{schema.Identifier(field.ID) + ":"}

	// Type with dropdown options if present
	typeStr := compiler.ColumnType(field.Type)
	if len(field.Options) > 0 && field.Type.HasOptions() {
		typeStr = fmt.Sprintf("%s (%s)", typeStr, strings.Join(field.Options, "|"))
	}
	parts = append(parts, typeStr)

	if field.Required {
		parts = append(parts, "NOT NULL")
	}

	parts = append(parts, fmt.Sprintf("[%s]", field.Type))

	return strings.Join(parts, " ")
}
