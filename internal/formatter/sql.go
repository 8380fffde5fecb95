package formatter

import (
	"io"

	"github.com/tordrt/tablesql/internal/compiler"
	"github.com/tordrt/tablesql/internal/schema"
)

// SQLFormatter writes the complete schema as plain SQL
type SQLFormatter struct {
	writer   io.Writer
	compiler *compiler.Compiler
}

// NewSQLFormatter creates a new SQL formatter
func NewSQLFormatter(w io.Writer, c *compiler.Compiler) *SQLFormatter {
	return &SQLFormatter{writer: w, compiler: c}
}

// Format writes the CREATE TABLE statements for all tables
func (f *SQLFormatter) Format(tables []schema.Table) error {
	out, err := f.compiler.CompleteSchema(tables)
	if err != nil {
		return err
	}
	_, err = io.WriteString(f.writer, out)
	return err
}
