package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tordrt/tablesql/internal/schema"
)

// ErrNothingToUpdate is returned by Update when the record sets no known field
var ErrNothingToUpdate = errors.New("record sets no known field")

// SelectOptions narrows a SELECT statement
type SelectOptions struct {
	// Where holds equality conditions keyed by field id. A nil value
	// becomes an IS NULL test. Keys that match no field are ignored.
	Where schema.ValueRecord

	// OrderBy is emitted verbatim. Defaults to the id column.
	OrderBy string

	// Limit is omitted when zero or negative.
	Limit int
}

// Select generates a SELECT over every column of the table
func (c *Compiler) Select(t schema.Table, opts SelectOptions) (string, error) {
	if err := schema.Validate(t); err != nil {
		return "", err
	}

	table := schema.Identifier(t.Name)
	parts := []string{fmt.Sprintf("SELECT %s FROM %s", strings.Join(selectColumns(t), ", "), table)}

	var conds []string
	for _, f := range t.Fields {
		v, ok := opts.Where[f.ID]
		if !ok {
			continue
		}
		col := schema.Identifier(f.ID)
		if v == nil {
			conds = append(conds, col+" IS NULL")
			continue
		}
		conds = append(conds, fmt.Sprintf("%s = %s", col, Literal(f.Type, v)))
	}
	if len(conds) > 0 {
		parts = append(parts, "WHERE "+strings.Join(conds, " AND "))
	}

	orderBy := opts.OrderBy
	if orderBy == "" {
		orderBy = schema.IDColumn
	}
	parts = append(parts, "ORDER BY "+orderBy)

	if opts.Limit > 0 {
		parts = append(parts, fmt.Sprintf("LIMIT %d", opts.Limit))
	}

	return strings.Join(parts, " ") + ";", nil
}

// Update generates an UPDATE of one row. Unlike Insert, a nil value is
// written as NULL.
func (c *Compiler) Update(t schema.Table, rowID int64, record schema.ValueRecord) (string, error) {
	if err := schema.Validate(t); err != nil {
		return "", err
	}

	var sets []string
	for _, f := range t.Fields {
		v, ok := record[f.ID]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = %s", schema.Identifier(f.ID), Literal(f.Type, v)))
	}
	if len(sets) == 0 {
		return "", fmt.Errorf("table %q row %d: %w", t.Name, rowID, ErrNothingToUpdate)
	}

	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = %d;", schema.Identifier(t.Name), strings.Join(sets, ", "), schema.IDColumn, rowID), nil
}

// Delete generates a DELETE of one row
func (c *Compiler) Delete(t schema.Table, rowID int64) (string, error) {
	if err := schema.Validate(t); err != nil {
		return "", err
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s = %d;", schema.Identifier(t.Name), schema.IDColumn, rowID), nil
}

// AddColumn generates the migration that adds field to an existing table.
// The table is validated as it will look once the field is added.
func (c *Compiler) AddColumn(t schema.Table, field schema.Field) (string, error) {
	next := t
	next.Fields = append(append(make([]schema.Field, 0, len(t.Fields)+1), t.Fields...), field)
	if err := schema.Validate(next); err != nil {
		return "", err
	}

	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s;", schema.Identifier(t.Name), c.columnDefinition(field)), nil
}

// DropColumn generates the migration that removes a field's column
func (c *Compiler) DropColumn(t schema.Table, fieldID string) (string, error) {
	if err := schema.Validate(t); err != nil {
		return "", err
	}
	if t.Field(fieldID) == nil {
		return "", fmt.Errorf("table %q: field %q not found: %w", t.Name, fieldID, schema.ErrInvalidField)
	}

	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s;", schema.Identifier(t.Name), schema.Identifier(fieldID)), nil
}
